package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type dropCounter interface {
	NotificationDropped()
}

// Queue buffers notifications for the browser and fans them out to in-process
// subscribers. Push never blocks.
type Queue struct {
	mu          sync.RWMutex
	pending     []Notification
	capacity    int
	dropped     int
	subscribers map[string]chan Notification
	counter     dropCounter
}

func NewQueue(capacity int, counter dropCounter) *Queue {
	if capacity <= 0 {
		capacity = 64
	}

	return &Queue{
		pending:     make([]Notification, 0, capacity),
		capacity:    capacity,
		subscribers: make(map[string]chan Notification),
		counter:     counter,
	}
}

func (q *Queue) Push(n Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp == "" {
		n.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	q.mu.Lock()
	if len(q.pending) >= q.capacity {
		// Oldest notification makes room for the newest.
		q.pending = q.pending[1:]
		q.dropLocked()
	}
	q.pending = append(q.pending, n)

	for _, ch := range q.subscribers {
		select {
		case ch <- n:
		default:
			q.dropLocked()
		}
	}
	q.mu.Unlock()
}

func (q *Queue) Success(source string, message string) {
	q.Push(Notification{Level: LevelSuccess, Source: source, Message: message})
}

func (q *Queue) Info(source string, message string) {
	q.Push(Notification{Level: LevelInfo, Source: source, Message: message})
}

func (q *Queue) Warning(source string, message string) {
	q.Push(Notification{Level: LevelWarning, Source: source, Message: message})
}

func (q *Queue) Error(source string, message string) {
	q.Push(Notification{Level: LevelError, Source: source, Message: message})
}

// Drain returns and clears the pending notifications in arrival order.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = make([]Notification, 0, q.capacity)
	return out
}

func (q *Queue) Dropped() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.dropped
}

// Subscribe returns a channel receiving every pushed notification and an
// unsubscribe function.
func (q *Queue) Subscribe() (<-chan Notification, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Notification, q.capacity)
	q.subscribers[id] = ch

	unsubscribe := func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if ch, exists := q.subscribers[id]; exists {
			close(ch)
			delete(q.subscribers, id)
		}
	}

	return ch, unsubscribe
}

func (q *Queue) dropLocked() {
	q.dropped++
	if q.counter != nil {
		q.counter.NotificationDropped()
	}
}
