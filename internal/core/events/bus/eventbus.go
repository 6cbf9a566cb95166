package bus

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one message on a Bus. Data is shared with every handler and must
// not be modified by them.
type Event[T any] struct {
	Type   string
	Source string
	Time   time.Time
	Data   T
	Meta   map[string]any
}

// NewEvent creates an Event stamped with the current time.
func NewEvent[T any](typ, src string, data T, meta map[string]any) Event[T] {
	return Event[T]{Type: typ, Source: src, Time: time.Now(), Data: data, Meta: meta}
}

// Handler is invoked once per delivered event.
type Handler[T any] func(Event[T]) error

// Stats counts the traffic of one event type.
type Stats struct {
	Published uint64
	Delivered uint64
	Failed    uint64
}

// Subscription is a handler bound to an event type.
type Subscription struct {
	id        string
	eventType string
	active    atomic.Bool
	cancel    func()
}

func (s *Subscription) ID() string        { return s.id }
func (s *Subscription) EventType() string { return s.eventType }
func (s *Subscription) Active() bool      { return s.active.Load() }

// Cancel removes the handler from its bus. Extra calls do nothing.
func (s *Subscription) Cancel() {
	if s.active.Swap(false) && s.cancel != nil {
		s.cancel()
	}
}

type entry[T any] struct {
	sub     *Subscription
	handler Handler[T]
}

// Bus is an in-process pub/sub bus carrying events of one payload type.
// Delivery is synchronous in the publisher's goroutine and follows
// subscription order. It is safe for concurrent use.
type Bus[T any] struct {
	mu       sync.RWMutex
	handlers map[string][]entry[T]
	stats    map[string]*Stats
}

func New[T any]() *Bus[T] {
	return &Bus[T]{
		handlers: make(map[string][]entry[T]),
		stats:    make(map[string]*Stats),
	}
}

// Subscribe registers handler for eventType.
func (b *Bus[T]) Subscribe(eventType string, handler Handler[T]) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	s := &Subscription{id: uuid.NewString(), eventType: eventType}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers[eventType] = slices.DeleteFunc(b.handlers[eventType], func(e entry[T]) bool {
			return e.sub == s
		})
	}

	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], entry[T]{sub: s, handler: handler})
	b.mu.Unlock()
	return s, nil
}

// Unsubscribe cancels sub. Nil is a no-op.
func (b *Bus[T]) Unsubscribe(sub *Subscription) {
	if sub != nil {
		sub.Cancel()
	}
}

// Publish delivers event to every active subscriber of its type and joins
// the handlers' errors.
func (b *Bus[T]) Publish(event Event[T]) error {
	b.mu.RLock()
	subs := slices.Clone(b.handlers[event.Type])
	b.mu.RUnlock()

	var all error
	delivered, failed := uint64(0), uint64(0)
	for _, e := range subs {
		if !e.sub.Active() {
			continue
		}
		delivered++
		if err := e.handler(event); err != nil {
			failed++
			all = errors.Join(all, err)
		}
	}

	b.mu.Lock()
	st := b.stats[event.Type]
	if st == nil {
		st = &Stats{}
		b.stats[event.Type] = st
	}
	st.Published++
	st.Delivered += delivered
	st.Failed += failed
	b.mu.Unlock()

	return all
}

// Stats returns the counters of eventType.
func (b *Bus[T]) Stats(eventType string) Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if st := b.stats[eventType]; st != nil {
		return *st
	}
	return Stats{}
}

// Subscribers counts the active handlers of eventType.
func (b *Bus[T]) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
