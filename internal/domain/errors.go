// Package domain defines domain-specific errors.
// These errors represent visualizer failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that components can return.
var (
	// ErrNoAudioSource is reported when the audio capability yields no samples.
	// The pipeline treats it as silence, never as a failure.
	ErrNoAudioSource = errors.New("no audio source")

	// ErrSurfaceUnavailable is reported when the drawing surface has zero area.
	// Renderers skip the frame without drawing.
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

	// ErrAlreadyRunning is returned when starting a loop that is already running.
	ErrAlreadyRunning = errors.New("render loop already running")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidVolume is returned when the volume is out of valid range (0.0-1.0).
	ErrInvalidVolume = errors.New("invalid volume: must be between 0.0 and 1.0")
)

// AudioSourceError represents an error from the audio capability adapter.
// It wraps low-level decoder and device errors with additional context.
type AudioSourceError struct {
	Op      string // Operation that failed (e.g., "open", "decode", "speaker")
	Path    string // File path (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *AudioSourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio source %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("audio source %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioSourceError) Unwrap() error {
	return e.Err
}

// NewAudioSourceError creates a new AudioSourceError.
func NewAudioSourceError(op, path, message string, err error) *AudioSourceError {
	return &AudioSourceError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigError represents a failure to load configuration from a source.
type ConfigError struct {
	Source  string // "file" or "env"
	Key     string // File path or environment variable
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s %s: %s", e.Source, e.Key, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(source, key, message string, err error) *ConfigError {
	return &ConfigError{
		Source:  source,
		Key:     key,
		Message: message,
		Err:     err,
	}
}
