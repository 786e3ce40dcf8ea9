package queue

import (
	"context"
	"sync"

	"github.com/flowmesh/runtime/metric"
	"github.com/flowmesh/runtime/notify"
	"github.com/flowmesh/runtime/typeid"
)

// MessageQueue is a bounded, FIFO ring buffer of T. Zero value is not
// usable; construct with New.
type MessageQueue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    []T
	head     int // next write position
	tail     int // next read position
	size     int
	capacity int

	closed bool

	elementType typeid.ID
	reader      *notify.Channel // woken on every successful Push; may be nil

	metrics       *metric.Metrics // nil unless SetMetrics was called
	metricsLabels [2]string       // component, port
}

// New creates a queue with room for capacity messages of type T. capacity
// must be >= 1. reader, if non-nil, is signalled with notify.MessageArrival
// after every successful Push — it is normally the owning InputPort's
// parent component's notification channel.
func New[T any](capacity int, reader *notify.Channel) *MessageQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	q := &MessageQueue[T]{
		items:       make([]T, capacity),
		capacity:    capacity,
		elementType: typeid.Of[T](),
		reader:      reader,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Type returns the element type this queue was constructed for.
func (q *MessageQueue[T]) Type() typeid.ID {
	return q.elementType
}

// SetMetrics attaches m to this queue, labelled by the owning input port's
// component and port name, and immediately records the queue's fixed
// capacity. Push and Pop report the occupancy gauge on every call after
// this. Called by InputPort.SetMetrics; a queue that is never given metrics
// records nothing, at no cost beyond the nil check in Metrics' own Record*
// methods.
func (q *MessageQueue[T]) SetMetrics(m *metric.Metrics, component, port string) {
	q.mu.Lock()
	q.metrics = m
	q.metricsLabels = [2]string{component, port}
	capacity := q.capacity
	q.mu.Unlock()
	m.RecordQueueCapacity(component, port, capacity)
}

// Push enqueues v, blocking until space is available, ctx is done, or the
// queue is closed. Returns true on success, false on timeout/cancellation
// or if the queue was already closed.
func (q *MessageQueue[T]) Push(ctx context.Context, v T) bool {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()
		return false
	}

	if q.size == q.capacity {
		// Wake this goroutine's cond.Wait if ctx is cancelled while blocked.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.notFull.Broadcast()
				q.mu.Unlock()
			case <-done:
			}
		}()

		for q.size == q.capacity && !q.closed {
			if ctx.Err() != nil {
				q.mu.Unlock()
				return false
			}
			q.notFull.Wait()
		}
	}

	if q.closed || ctx.Err() != nil {
		q.mu.Unlock()
		return false
	}

	q.items[q.head] = v
	q.head = (q.head + 1) % q.capacity
	q.size++
	depth, m, labels := q.size, q.metrics, q.metricsLabels
	q.notEmpty.Signal()
	q.mu.Unlock()

	m.RecordQueueDepth(labels[0], labels[1], depth)

	if q.reader != nil {
		q.reader.Signal(notify.MessageArrival)
	}
	return true
}

// Pop removes and returns the head element, blocking until one is available
// or ctx is done. The second return value is false if ctx ended the wait
// before a message arrived, or if the queue is closed and drained.
func (q *MessageQueue[T]) Pop(ctx context.Context) (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T

	if q.size == 0 {
		if q.closed {
			return zero, false
		}

		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.notEmpty.Broadcast()
				q.mu.Unlock()
			case <-done:
			}
		}()

		for q.size == 0 && !q.closed {
			if ctx.Err() != nil {
				return zero, false
			}
			q.notEmpty.Wait()
		}

		if q.size == 0 {
			return zero, false
		}
	}

	v := q.items[q.tail]
	q.items[q.tail] = zero
	q.tail = (q.tail + 1) % q.capacity
	q.size--
	q.notFull.Signal()
	q.metrics.RecordQueueDepth(q.metricsLabels[0], q.metricsLabels[1], q.size)
	return v, true
}

// HasMessage reports whether a Pop would currently succeed without
// blocking.
func (q *MessageQueue[T]) HasMessage() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size > 0
}

// Len returns the current number of queued messages.
func (q *MessageQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the queue's fixed capacity.
func (q *MessageQueue[T]) Cap() int {
	return q.capacity
}

// Closed reports whether Close has been called.
func (q *MessageQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close marks the queue closed, idempotently, and wakes any blocked Push or
// Pop. Queued-but-unread messages remain readable via Pop until drained;
// after that Pop returns (zero, false).
func (q *MessageQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}
