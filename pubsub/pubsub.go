// Package pubsub is a small in-process publish/subscribe primitive used to
// fan state changes out to any number of listeners.
package pubsub

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var plog zerolog.Logger

func init() {
	plog = log.With().Str("component", "pubsub").Logger()
}

// Subscriber channels are buffered so a briefly slow listener doesn't
// drop messages.
const subscriberBuffer = 8

type SubscriptionID int64

type Pubsub[T any] struct {
	mu          sync.Mutex
	nextID      SubscriptionID
	subscribers map[SubscriptionID]chan T
}

func New[T any]() *Pubsub[T] {
	return &Pubsub[T]{
		subscribers: make(map[SubscriptionID]chan T),
	}
}

// Subscribe registers a new listener. The channel is closed by Unsubscribe.
func (ps *Pubsub[T]) Subscribe() (SubscriptionID, <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan T, subscriberBuffer)
	id := ps.nextID
	ps.subscribers[id] = ch
	ps.nextID++

	return id, ch
}

func (ps *Pubsub[T]) Unsubscribe(id SubscriptionID) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch, ok := ps.subscribers[id]
	if !ok {
		return
	}

	delete(ps.subscribers, id)
	close(ch)
}

// Publish delivers msg to every subscriber. Subscribers whose buffer is
// full miss the message rather than block the publisher.
func (ps *Pubsub[T]) Publish(msg T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for id, ch := range ps.subscribers {
		select {
		case ch <- msg:
		default:
			plog.Warn().
				Int64("subscription_id", int64(id)).
				Msg("Message dropped, channel full")
		}
	}
}
