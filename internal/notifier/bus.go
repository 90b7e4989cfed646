package notifier

import (
	"sync"
	"sync/atomic"
)

// bus is an in-memory fanout of Events.
//
// Contract:
//   - publish never blocks.
//   - Subscribers get buffered channels; slow subscribers drop events.
type bus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func newBus() *bus {
	return &bus{subs: map[uint64]chan Event{}}
}

func (b *bus) publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *bus) subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			// publish holds the read lock while sending; once the write lock
			// has removed ch, no send can be in flight.
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}
