package cue

import (
	"slices"
	"sync"
	"time"

	"github.com/nerrad567/vixio-core/internal/story"
)

// DefaultQueueCapacity bounds the local queue.
const DefaultQueueCapacity = 1000

// QueueItem is one queued trigger.
type QueueItem struct {
	Payload  map[string]any `json:"payload"`
	Priority int            `json:"priority"`
	TS       float64        `json:"ts"`
}

// Queue is the in-process cue engine used when no upstream engine is
// configured. Items are kept in priority order (highest first) and
// arrival order within a priority.
type Queue struct {
	mu       sync.Mutex
	items    []QueueItem
	capacity int
	now      func() time.Time
}

// NewQueue creates a queue holding at most capacity items.
// A capacity below 1 uses DefaultQueueCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{capacity: capacity, now: time.Now}
}

// Push queues payload. Its priority is payload["priority"] truncated to
// an integer, or story.DefaultPriority when absent or not numeric.
func (q *Queue) Push(payload map[string]any) (priority, size int, err error) {
	priority = story.DefaultPriority
	if p, ok := story.Number(payload, "priority"); ok {
		priority = int(p)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		return priority, len(q.items), ErrQueueFull
	}

	item := QueueItem{
		Payload:  payload,
		Priority: priority,
		TS:       float64(q.now().UnixNano()) / 1e9,
	}
	// Insert after every item with priority >= ours to keep arrival order.
	i, _ := slices.BinarySearchFunc(q.items, priority, func(it QueueItem, p int) int {
		if it.Priority >= p {
			return -1
		}
		return 1
	})
	q.items = slices.Insert(q.items, i, item)
	return priority, len(q.items), nil
}

// Pop removes and returns the head of the queue.
func (q *Queue) Pop() (QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return QueueItem{}, false
	}
	head := q.items[0]
	q.items = slices.Delete(q.items, 0, 1)
	return head, true
}

// Items returns a copy of the queue in order.
func (q *Queue) Items() []QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
