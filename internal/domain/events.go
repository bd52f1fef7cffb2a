// Package domain defines events for the event-driven architecture.
// The render loop publishes edge events so observers never poll per-frame state.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Beat events
	EventBeatStarted EventType = "beat.started"
	EventBeatEnded   EventType = "beat.ended"

	// Playback signal events
	EventSilence EventType = "audio.silence"
	EventAudible EventType = "audio.audible"

	// Presentation events
	EventThemeChanged EventType = "theme.changed"
	EventFrameSkipped EventType = "frame.skipped"

	// Loop lifecycle events
	EventLoopStarted EventType = "loop.started"
	EventLoopStopped EventType = "loop.stopped"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// BeatStartedEvent is published on the first frame of a beat.
type BeatStartedEvent struct {
	baseEvent
	Frame     uint64
	Energy    float64
	Intensity float64
}

// Type returns the event type.
func (e BeatStartedEvent) Type() EventType {
	return EventBeatStarted
}

// NewBeatStartedEvent creates a new BeatStartedEvent.
func NewBeatStartedEvent(frame uint64, beat BeatState) BeatStartedEvent {
	return BeatStartedEvent{
		baseEvent: newBaseEvent(),
		Frame:     frame,
		Energy:    beat.Energy,
		Intensity: beat.Intensity,
	}
}

// BeatEndedEvent is published on the first frame after a beat.
type BeatEndedEvent struct {
	baseEvent
	Frame uint64
}

// Type returns the event type.
func (e BeatEndedEvent) Type() EventType {
	return EventBeatEnded
}

// NewBeatEndedEvent creates a new BeatEndedEvent.
func NewBeatEndedEvent(frame uint64) BeatEndedEvent {
	return BeatEndedEvent{baseEvent: newBaseEvent(), Frame: frame}
}

// SilenceEvent is published when playback stops or volume drops to zero.
type SilenceEvent struct {
	baseEvent
	Frame uint64
}

// Type returns the event type.
func (e SilenceEvent) Type() EventType {
	return EventSilence
}

// NewSilenceEvent creates a new SilenceEvent.
func NewSilenceEvent(frame uint64) SilenceEvent {
	return SilenceEvent{baseEvent: newBaseEvent(), Frame: frame}
}

// AudibleEvent is published when playback becomes audible again.
type AudibleEvent struct {
	baseEvent
	Frame uint64
}

// Type returns the event type.
func (e AudibleEvent) Type() EventType {
	return EventAudible
}

// NewAudibleEvent creates a new AudibleEvent.
func NewAudibleEvent(frame uint64) AudibleEvent {
	return AudibleEvent{baseEvent: newBaseEvent(), Frame: frame}
}

// ThemeChangedEvent is published when the render loop first sees a new theme.
type ThemeChangedEvent struct {
	baseEvent
	Theme ThemeMode
}

// Type returns the event type.
func (e ThemeChangedEvent) Type() EventType {
	return EventThemeChanged
}

// NewThemeChangedEvent creates a new ThemeChangedEvent.
func NewThemeChangedEvent(theme ThemeMode) ThemeChangedEvent {
	return ThemeChangedEvent{baseEvent: newBaseEvent(), Theme: theme}
}

// FrameSkippedEvent is published when a frame could not be drawn.
type FrameSkippedEvent struct {
	baseEvent
	Frame  uint64
	Reason error
}

// Type returns the event type.
func (e FrameSkippedEvent) Type() EventType {
	return EventFrameSkipped
}

// NewFrameSkippedEvent creates a new FrameSkippedEvent.
func NewFrameSkippedEvent(frame uint64, reason error) FrameSkippedEvent {
	return FrameSkippedEvent{baseEvent: newBaseEvent(), Frame: frame, Reason: reason}
}

// LoopStartedEvent is published when the render loop starts.
type LoopStartedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e LoopStartedEvent) Type() EventType {
	return EventLoopStarted
}

// NewLoopStartedEvent creates a new LoopStartedEvent.
func NewLoopStartedEvent() LoopStartedEvent {
	return LoopStartedEvent{baseEvent: newBaseEvent()}
}

// LoopStoppedEvent is published when the render loop stops.
type LoopStoppedEvent struct {
	baseEvent
	Frames uint64
}

// Type returns the event type.
func (e LoopStoppedEvent) Type() EventType {
	return EventLoopStopped
}

// NewLoopStoppedEvent creates a new LoopStoppedEvent.
func NewLoopStoppedEvent(frames uint64) LoopStoppedEvent {
	return LoopStoppedEvent{baseEvent: newBaseEvent(), Frames: frames}
}
