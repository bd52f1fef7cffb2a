package ports

import "github.com/tejashwikalptaru/beatscope/internal/domain"

// PreferencesRepository handles the persistence of user preferences between runs.
// This abstracts the Fyne preferences storage.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveTheme persists the theme last chosen with the toggle key.
	SaveTheme(theme domain.ThemeMode) error

	// LoadTheme retrieves the saved theme. ok is false when none was saved,
	// in which case the configured default applies.
	LoadTheme() (theme domain.ThemeMode, ok bool, err error)

	// SaveWindowSize persists the window size in device-independent pixels.
	SaveWindowSize(width, height float32) error

	// LoadWindowSize retrieves the saved window size; zeroes when none was saved.
	LoadWindowSize() (width, height float32, err error)

	// Clear removes all saved preferences.
	Clear() error
}
