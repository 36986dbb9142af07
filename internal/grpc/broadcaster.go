package grpc

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-disaster-relief/internal/models"
)

const subscriberBuffer = 256

// Broadcaster fans dispatch events out to stream subscribers. Slow subscribers drop events.
type Broadcaster struct {
	subscribers map[uint64]chan *models.DispatchEvent
	nextID      atomic.Uint64
	dropped     atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan *models.DispatchEvent),
	}
}

func (b *Broadcaster) Subscribe() (uint64, chan *models.DispatchEvent) {
	id := b.nextID.Add(1)
	ch := make(chan *models.DispatchEvent, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Broadcast(e *models.DispatchEvent) {
	// Subscribers may hold the event after the dispatcher moves on.
	ev := *e

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- &ev:
		default:
			b.dropped.Add(1)
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes all subscriber channels, causing streams to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
