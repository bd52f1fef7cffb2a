package fyne

import (
	"sync"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// ThemeKey is the rune that flips between dark and light mode.
const ThemeKey = 't'

// ThemeToggle is the ThemeSource flipped by the keyboard.
// The render loop reads it once per frame; a toggle takes effect on the next frame.
//
// Thread-safety: This implementation is thread-safe.
type ThemeToggle struct {
	mu       sync.RWMutex
	mode     domain.ThemeMode
	onChange func(domain.ThemeMode)
}

// NewThemeToggle creates a toggle starting in mode.
func NewThemeToggle(mode domain.ThemeMode) *ThemeToggle {
	return &ThemeToggle{mode: mode}
}

// OnChange registers fn to run after every toggle, e.g. to persist the choice.
func (t *ThemeToggle) OnChange(fn func(domain.ThemeMode)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// DarkMode implements ports.ThemeSource.
func (t *ThemeToggle) DarkMode() bool {
	return t.Mode() == domain.ThemeDark
}

// Mode returns the current mode.
func (t *ThemeToggle) Mode() domain.ThemeMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// Toggle flips the mode and returns the new one.
func (t *ThemeToggle) Toggle() domain.ThemeMode {
	t.mu.Lock()
	t.mode = t.mode.Toggle()
	mode, fn := t.mode, t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(mode)
	}
	return mode
}

// HandleRune toggles on ThemeKey and ignores every other key.
func (t *ThemeToggle) HandleRune(r rune) {
	if r == ThemeKey {
		t.Toggle()
	}
}

var _ ports.ThemeSource = (*ThemeToggle)(nil)
