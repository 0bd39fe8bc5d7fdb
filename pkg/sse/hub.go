// Package sse fans out published messages to Server-Sent Events subscribers
// grouped by topic.
package sse

import (
	"context"
)

// Hub manages topic subscribers. All access to the topic table happens inside
// Run, so Subscribe, Unsubscribe and Publish are safe from any goroutine.
//
// Subscriber channels are owned by the caller. The hub only sends to them and
// drops messages for subscribers that are not keeping up.
type Hub struct {
	topics map[string]map[chan []byte]struct{}

	subscribe   chan subscription
	unsubscribe chan subscription
	publish     chan topicMessage
	count       chan countRequest
	done        chan struct{}
}

type subscription struct {
	ch    chan []byte
	topic string
}

type topicMessage struct {
	topic string
	msg   []byte
}

type countRequest struct {
	topic string
	reply chan int
}

// NewHub creates a hub. The publish queue is buffered so short bursts from
// publishers do not block on the Run loop.
func NewHub() *Hub {
	return &Hub{
		topics:      make(map[string]map[chan []byte]struct{}),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		publish:     make(chan topicMessage, 100),
		count:       make(chan countRequest),
		done:        make(chan struct{}),
	}
}

// Run serves subscriptions and publishes until ctx is cancelled. Calls made
// after Run returns are no-ops.
//
//	hub := sse.NewHub()
//	go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-h.subscribe:
			subs, ok := h.topics[s.topic]
			if !ok {
				subs = make(map[chan []byte]struct{})
				h.topics[s.topic] = subs
			}
			subs[s.ch] = struct{}{}
		case s := <-h.unsubscribe:
			if subs, ok := h.topics[s.topic]; ok {
				delete(subs, s.ch)
				if len(subs) == 0 {
					delete(h.topics, s.topic)
				}
			}
		case tm := <-h.publish:
			for ch := range h.topics[tm.topic] {
				select {
				case ch <- tm.msg:
				default:
					// slow subscriber
				}
			}
		case req := <-h.count:
			req.reply <- len(h.topics[req.topic])
		}
	}
}

// Subscribe registers ch for topic. It reports false once the hub stopped.
func (h *Hub) Subscribe(ch chan []byte, topic string) bool {
	select {
	case h.subscribe <- subscription{ch: ch, topic: topic}:
		return true
	case <-h.done:
		return false
	}
}

// Unsubscribe removes ch from topic.
func (h *Hub) Unsubscribe(ch chan []byte, topic string) {
	select {
	case h.unsubscribe <- subscription{ch: ch, topic: topic}:
	case <-h.done:
	}
}

// Publish queues msg for every subscriber of topic.
func (h *Hub) Publish(topic string, msg []byte) {
	select {
	case h.publish <- topicMessage{topic: topic, msg: msg}:
	case <-h.done:
	}
}

// Subscribers returns how many channels are subscribed to topic.
func (h *Hub) Subscribers(topic string) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{topic: topic, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} { return h.done }
