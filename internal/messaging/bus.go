package messaging

import (
	"sync"
)

// Message is one broadcast delivered by a Bus.
type Message struct {
	ID      string
	Topic   Action
	Payload Request
}

// Subscription identifies a subscriber so it can be removed.
type Subscription struct {
	ID    string
	Topic Action
}

// Bus is a publish/subscribe channel. Each subscriber sees a message at most
// once; messages published while nobody listens are dropped.
type Bus struct {
	mu   sync.RWMutex
	subs map[Action]map[string]func(Message)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Action]map[string]func(Message))}
}

// Subscribe registers fn for topic.
func (b *Bus) Subscribe(topic Action, fn func(Message)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]func(Message))
	}
	sub := Subscription{ID: newID(), Topic: topic}
	b.subs[topic][sub.ID] = fn
	return sub
}

// Unsubscribe removes a subscription. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[sub.Topic], sub.ID)
}

// Publish delivers payload to the current subscribers of topic and returns how
// many received it. The subscriber set is captured before delivery, so a
// subscriber added by a callback does not see the message being delivered.
func (b *Bus) Publish(topic Action, payload Request) int {
	b.mu.RLock()
	targets := make([]func(Message), 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		targets = append(targets, fn)
	}
	b.mu.RUnlock()

	payload.Action = topic
	msg := Message{ID: newID(), Topic: topic, Payload: payload}
	for _, fn := range targets {
		fn(msg)
	}
	return len(targets)
}
