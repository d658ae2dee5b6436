package fanout

import (
	"context"
	"errors"
	"sync"

	"github.com/shitcoingarden/garden.go/mirror"
)

const DefaultCapacity = 20

var ErrClosed = errors.New("fanout: subscription closed")

// Broadcaster hands every update to all subscribers. Publish never blocks:
// a subscriber that falls behind loses its oldest backlog instead.
type Broadcaster struct {
	mu       sync.RWMutex
	capacity int
	subs     map[*Subscription]struct{}
}

func NewBroadcaster(capacity int) *Broadcaster {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Broadcaster{capacity: capacity, subs: make(map[*Subscription]struct{})}
}

func (b *Broadcaster) Publish(u mirror.Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		s.push(u)
	}
}

// Subscribe starts a subscription. filter runs when an update is taken off
// the queue, not when it is published.
func (b *Broadcaster) Subscribe(filter Filter) *Subscription {
	if filter == nil {
		filter = GeneralFilter
	}
	s := &Subscription{
		b:      b,
		filter: filter,
		queue:  make([]mirror.Update, 0, b.capacity),
		notify: make(chan struct{}, 1),
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

type Subscription struct {
	b      *Broadcaster
	filter Filter

	mu     sync.Mutex
	queue  []mirror.Update
	missed uint64
	closed bool
	notify chan struct{}
}

func (s *Subscription) push(u mirror.Update) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if len(s.queue) == s.b.capacity {
		s.queue = append(s.queue[:0], s.queue[1:]...)
		s.missed++
	}
	s.queue = append(s.queue, u)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Next returns the next update the filter accepts. It blocks until one
// arrives, ctx is done or the subscription is closed.
func (s *Subscription) Next(ctx context.Context) (mirror.Update, error) {
	for {
		s.mu.Lock()
		for len(s.queue) > 0 {
			u := s.queue[0]
			s.queue = s.queue[1:]
			if s.filter(u) {
				s.mu.Unlock()
				return u, nil
			}
		}
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return mirror.Update{}, ErrClosed
		}

		select {
		case <-ctx.Done():
			return mirror.Update{}, ctx.Err()
		case <-s.notify:
		}
	}
}

// Missed counts updates dropped because the queue was full.
func (s *Subscription) Missed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missed
}

func (s *Subscription) Close() {
	s.b.mu.Lock()
	delete(s.b.subs, s)
	s.b.mu.Unlock()

	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
