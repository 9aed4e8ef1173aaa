package gesture

import "sync"

// Handler receives published events.
type Handler func(Event)

// Bus delivers events to the handlers subscribed to it, in subscription
// order. A Bus belongs to one mounted view.
type Bus struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	h  Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h. The returned function removes it; calling it again
// is a no-op.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs = append(b.subs, subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every current subscriber. Handlers run outside the
// bus lock, so they may subscribe or unsubscribe.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]Handler, len(b.subs))
	for i, s := range b.subs {
		handlers[i] = s.h
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
