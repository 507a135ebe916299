package bus

import (
	"context"
	"sort"
)

// Handler reacts to a decoded envelope. Handlers fall into two
// classes: observers that log or record the event, and forwarders
// that derive and publish a new event under another namespace. A
// forwarder must not publish back onto its own input channel.
//
// A returned error is logged and counted; it never stops the
// dispatch loop.
type Handler func(ctx context.Context, env Envelope) error

// Registry is an immutable mapping from event type to handler,
// established at construction time. A handler may be bound to
// BroadcastTopic to observe every published envelope.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds a registry from the given mapping. The mapping
// is copied; later mutation of the argument has no effect.
func NewRegistry(handlers map[string]Handler) *Registry {
	copied := make(map[string]Handler, len(handlers))
	for eventType, handler := range handlers {
		if handler == nil {
			continue
		}
		copied[eventType] = handler
	}
	return &Registry{handlers: copied}
}

// Lookup returns the handler bound to the given event type.
func (r *Registry) Lookup(eventType string) (Handler, bool) {
	handler, ok := r.handlers[eventType]
	return handler, ok
}

// Has returns true if a handler is bound to the given event type.
func (r *Registry) Has(eventType string) bool {
	_, ok := r.handlers[eventType]
	return ok
}

// Topics returns the sorted list of event types with a bound handler.
func (r *Registry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for eventType := range r.handlers {
		topics = append(topics, eventType)
	}
	sort.Strings(topics)
	return topics
}

// Len returns the number of bound handlers.
func (r *Registry) Len() int {
	return len(r.handlers)
}
