// Package memory persists preferences through the fyne preferences store.
package memory

import (
	"encoding/json"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

const (
	keyTheme  = "preferences.theme"
	keyWindow = "preferences.window"
)

// windowSize is the JSON form of the saved window geometry.
type windowSize struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
// This provides a thin wrapper around Fyne's preferences system with proper error handling.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences' repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveTheme persists the theme preference.
func (r *PreferencesRepository) SaveTheme(theme domain.ThemeMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyTheme, theme.String())
	return nil
}

// LoadTheme retrieves the saved theme preference.
func (r *PreferencesRepository) LoadTheme() (domain.ThemeMode, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.prefs.String(keyTheme)
	if stored == "" {
		return domain.ThemeDark, false, nil
	}

	theme, err := domain.ParseThemeMode(stored)
	if err != nil {
		return domain.ThemeDark, false, domain.NewConfigError("preferences", keyTheme, "stored theme is invalid", err)
	}
	return theme, true, nil
}

// SaveWindowSize persists the window size.
func (r *PreferencesRepository) SaveWindowSize(width, height float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(windowSize{Width: width, Height: height})
	if err != nil {
		return domain.NewConfigError("preferences", keyWindow, "failed to marshal window size", err)
	}

	r.prefs.SetString(keyWindow, string(data))
	return nil
}

// LoadWindowSize retrieves the saved window size.
func (r *PreferencesRepository) LoadWindowSize() (float32, float32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.prefs.String(keyWindow)
	if data == "" {
		return 0, 0, nil
	}

	var size windowSize
	if err := json.Unmarshal([]byte(data), &size); err != nil {
		return 0, 0, domain.NewConfigError("preferences", keyWindow, "failed to unmarshal window size", err)
	}
	return size.Width, size.Height, nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyTheme)
	r.prefs.RemoveValue(keyWindow)

	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
