package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spirit-hunts/internal/logger"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change describes one mutation of a table.
type Change struct {
	Table    string    `json:"table"`
	Op       Op        `json:"op"`
	RecordID string    `json:"record_id,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier is told about every successful mutation.
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

// Subscriber registers a callback for changes on a table. The returned
// function releases the subscription and is safe to call more than once.
type Subscriber interface {
	Subscribe(table string, onChange func(Change)) (unsubscribe func())
}

// backlogWarning is the queue length at which a slow subscriber is logged.
const backlogWarning = 32

// subscription queues changes without bound; every published change is
// delivered exactly once unless the subscription is released first.
type subscription struct {
	mu    sync.Mutex
	queue []Change
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func (s *subscription) push(change Change) int {
	s.mu.Lock()
	s.queue = append(s.queue, change)
	n := len(s.queue)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return n
}

func (s *subscription) take() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.queue
	s.queue = nil
	return batch
}

func (s *subscription) run(onChange func(Change)) {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for _, change := range s.take() {
			select {
			case <-s.done:
				return
			default:
			}
			onChange(change)
		}
	}
}

// Broker fans changes out to in-process subscribers, keyed by table.
// Each subscription has its own goroutine, so callbacks for one table
// run in publish order and never block the publisher.
type Broker struct {
	mu      sync.RWMutex
	clients map[string]map[uint64]*subscription
	nextID  uint64
	logger  *logger.Logger
}

func NewBroker(log *logger.Logger) *Broker {
	if log == nil {
		log = logger.Discard()
	}
	return &Broker{
		clients: make(map[string]map[uint64]*subscription),
		logger:  log,
	}
}

func (b *Broker) Subscribe(table string, onChange func(Change)) func() {
	sub := &subscription{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.clients[table] == nil {
		b.clients[table] = make(map[uint64]*subscription)
	}
	b.clients[table][id] = sub
	b.mu.Unlock()

	go sub.run(onChange)

	b.logger.Debug("REALTIME", fmt.Sprintf("Subscribed to %s (subscription %d)", table, id))

	return func() {
		sub.once.Do(func() {
			b.mu.Lock()
			delete(b.clients[table], id)
			if len(b.clients[table]) == 0 {
				delete(b.clients, table)
			}
			b.mu.Unlock()
			close(sub.done)
			b.logger.Debug("REALTIME", fmt.Sprintf("Unsubscribed from %s (subscription %d)", table, id))
		})
	}
}

// Publish queues change for every subscriber of change.Table.
func (b *Broker) Publish(change Change) {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.clients[change.Table] {
		if n := sub.push(change); n%backlogWarning == 0 {
			b.logger.Warn("REALTIME", fmt.Sprintf("Subscription %d on %s has %d queued changes", id, change.Table, n))
		}
	}
}

// Notify makes the broker usable directly as a store notifier.
func (b *Broker) Notify(_ context.Context, change Change) error {
	b.Publish(change)
	return nil
}

// SubscriberCount returns the number of live subscriptions on table.
func (b *Broker) SubscriberCount(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[table])
}
