// Package bus is the synchronous publish/subscribe dispatcher that connects
// the view layer, the models and the checkout orchestrator of one session.
package bus

import (
	"log/slog"
	"slices"

	"github.com/RechkalovAA/weblarek/internal/domain"
)

// Wildcard is the subscription name that receives every event.
const Wildcard = "*"

// Handler reacts to one published event.
type Handler func(domain.Event)

// Subscription is the token returned by Subscribe.
type Subscription struct {
	bus     *Bus
	name    string
	handler Handler
	active  bool
}

// Unsubscribe detaches the handler. Calling it again is a no-op. If a
// dispatch is in progress and the handler has not run yet, it is skipped.
func (s *Subscription) Unsubscribe() {
	if !s.active {
		return
	}
	s.active = false
	s.bus.remove(s)
}

// Bus dispatches events to handlers synchronously, in registration order,
// before Publish returns. Wildcard handlers run after the named ones.
//
// Each dispatch works on the handler list as it stood when Publish was
// called: handlers subscribed during a dispatch first run on the next
// publish. A handler may publish; the nested event is fully dispatched
// before the outer dispatch continues.
//
// Bus is not safe for concurrent use.
type Bus struct {
	logger   *slog.Logger
	handlers map[string][]*Subscription
}

// New creates an empty bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		logger:   logger,
		handlers: make(map[string][]*Subscription),
	}
}

// Subscribe registers h for events named name.
func (b *Bus) Subscribe(name string, h Handler) *Subscription {
	sub := &Subscription{bus: b, name: name, handler: h, active: true}
	b.handlers[name] = append(b.handlers[name], sub)
	return sub
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) *Subscription {
	return b.Subscribe(Wildcard, h)
}

// Publish delivers ev to every handler registered for its name, then to the
// wildcard handlers.
func (b *Bus) Publish(ev domain.Event) {
	name := ev.EventName()
	named, all := b.handlers[name], b.handlers[Wildcard]

	snapshot := make([]*Subscription, 0, len(named)+len(all))
	snapshot = append(snapshot, named...)
	if name != Wildcard {
		snapshot = append(snapshot, all...)
	}

	b.logger.Debug("event published",
		slog.String("event", name),
		slog.Int("handlers", len(snapshot)),
	)

	for _, sub := range snapshot {
		if !sub.active {
			continue
		}
		sub.handler(ev)
	}
}

// HandlerCount returns the number of handlers registered under name.
func (b *Bus) HandlerCount(name string) int {
	return len(b.handlers[name])
}

func (b *Bus) remove(s *Subscription) {
	list := b.handlers[s.name]
	i := slices.Index(list, s)
	if i < 0 {
		return
	}
	// Build a new slice so an in-flight snapshot keeps its backing array.
	next := make([]*Subscription, 0, len(list)-1)
	next = append(next, list[:i]...)
	next = append(next, list[i+1:]...)
	if len(next) == 0 {
		delete(b.handlers, s.name)
		return
	}
	b.handlers[s.name] = next
}
