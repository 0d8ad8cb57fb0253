package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
)

// subscriberBuffer bounds how far a subscriber may lag before the hub drops
// it; a slow reader is disconnected rather than buffered without limit.
const subscriberBuffer = 16

// SubscribeOptions scope one subscription. Events lists the change types the
// subscriber wants (empty means all). A non-nil Assignee restricts delivery
// to rows assigned to that principal; nil is the admin all-tasks scope.
type SubscribeOptions struct {
	Events   []domain.ChangeType
	Assignee *uuid.UUID
}

type Subscription struct {
	ch       chan domain.TaskChange
	events   map[domain.ChangeType]bool
	assignee *uuid.UUID

	closeOnce sync.Once
}

// C delivers this subscription's events in publish order.
func (s *Subscription) C() <-chan domain.TaskChange {
	return s.ch
}

func (s *Subscription) wants(change domain.TaskChange) bool {
	if len(s.events) > 0 && !s.events[change.Type] {
		return false
	}
	if s.assignee != nil && change.Task.AssignedTo != *s.assignee {
		return false
	}
	return true
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// Hub fans task changes out to live feed subscriptions. It replaces the
// hosted store's change channel: publishers call Publish after a successful
// write, websocket handlers hold one Subscription per connection.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
	log  *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		subs: make(map[*Subscription]struct{}),
		log:  log,
	}
}

func (h *Hub) Subscribe(opts SubscribeOptions) *Subscription {
	sub := &Subscription{
		ch:       make(chan domain.TaskChange, subscriberBuffer),
		assignee: opts.Assignee,
	}
	if len(opts.Events) > 0 {
		sub.events = make(map[domain.ChangeType]bool, len(opts.Events))
		for _, e := range opts.Events {
			sub.events[e] = true
		}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	h.log.Infow("feed_subscribe", "subscribers", count)
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	count := len(h.subs)
	h.mu.Unlock()

	if ok {
		sub.close()
		h.log.Infow("feed_unsubscribe", "subscribers", count)
	}
}

// Publish delivers the change to every matching subscription. Delivery never
// blocks: a subscriber whose buffer is full is dropped.
func (h *Hub) Publish(change domain.TaskChange) {
	h.mu.RLock()
	var stale []*Subscription
	for sub := range h.subs {
		if !sub.wants(change) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			stale = append(stale, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range stale {
		h.log.Warnw("feed_subscriber_dropped", "reason", "buffer full")
		h.Unsubscribe(sub)
	}
}

// Close drops every subscription, ending all feed connections.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*Subscription]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
