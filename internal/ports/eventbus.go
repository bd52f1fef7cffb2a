// Package ports define the EventBus interface for event-driven communication.
// The event bus lets observers react to beat and theme edges without touching render state.
package ports

import (
	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// The render loop publishes edge events (beat start/end, silence, theme change);
// consumers such as the window title or debug logging subscribe to them.
//
// Thread-safety: Implementations must be thread-safe as events may be published and
// subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	// In the render loop: publish an edge
//	bus.Publish(domain.NewBeatStartedEvent(state.Frame, beat))
//
//	// In the UI: react to it
//	subID := bus.Subscribe(domain.EventThemeChanged, func(event domain.Event) {
//	    e := event.(domain.ThemeChangedEvent)
//	    window.SetTheme(e.Theme)
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// Handlers run synchronously; they are called from the render loop and must return quickly.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// Each subscription gets a unique SubscriptionID.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for the given event type.
	// The render loop checks it before building an event.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	Close() error
}
