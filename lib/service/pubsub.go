package service

import (
	"sync"

	"github.com/labstack/gommon/random"
	"github.com/shitcoingarden/garden.go/lib/garden"
)

// Pubsub fans committed events out to in-process subscribers. A subscriber
// whose channel is full is dropped and its channel closed, so a slow reader
// observes the loss instead of silently missing events.
type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan garden.Event
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan garden.Event)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan garden.Event) (subId string, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan garden.Event)
	}
	subId = random.String(16, random.Alphanumeric)
	ps.subs[topic][subId] = ch
	return subId, nil
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Publish(topic string, msg garden.Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for id, ch := range ps.subs[topic] {
		select {
		case ch <- msg:
		default:
			close(ch)
			delete(ps.subs[topic], id)
		}
	}
}

func (ps *Pubsub) Subscribers(topic string) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subs[topic])
}
