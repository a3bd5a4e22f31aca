package events

import (
	"context"
	"errors"
	"sync"
)

// Outbox buffers published events until the caller drains and delivers them. It lets a
// command publish while holding a lock and have handlers run after the lock is released.
type Outbox struct {
	mu      sync.Mutex
	pending []Event
	next    Dispatcher
}

// NewOutbox wraps next. A nil next drops delivered events.
func NewOutbox(next Dispatcher) *Outbox {
	return &Outbox{next: next}
}

// Publish queues the event.
func (o *Outbox) Publish(_ context.Context, event Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, event)
	return nil
}

// Subscribe registers handler on the wrapped dispatcher.
func (o *Outbox) Subscribe(eventType EventType, handler EventHandler) {
	if o.next != nil {
		o.next.Subscribe(eventType, handler)
	}
}

// Drain removes and returns the queued events in publish order.
func (o *Outbox) Drain() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending := o.pending
	o.pending = nil
	return pending
}

// Deliver publishes batch on the wrapped dispatcher in order.
func (o *Outbox) Deliver(ctx context.Context, batch []Event) error {
	if o.next == nil {
		return nil
	}
	var errs []error
	for _, event := range batch {
		if err := o.next.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
