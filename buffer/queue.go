// Package buffer holds bytes that arrive while the programmer is busy.
package buffer

// Queue is a bounded FIFO of bytes. Pushing onto a full queue drops the
// byte and counts it.
type Queue struct {
	buf     []byte
	head    int
	count   int
	dropped int
}

// NewQueue returns an empty queue holding at most capacity bytes.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		panic("capacity must be positive")
	}
	return &Queue{buf: make([]byte, capacity)}
}

// Push appends b. It returns false and drops b when the queue is full.
func (q *Queue) Push(b byte) bool {
	if q.Full() {
		q.dropped++
		return false
	}
	q.buf[(q.head+q.count)%len(q.buf)] = b
	q.count++
	return true
}

// Pop removes and returns the oldest byte.
func (q *Queue) Pop() (byte, bool) {
	if q.count == 0 {
		return 0, false
	}
	b := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return b, true
}

// Len returns the number of queued bytes.
func (q *Queue) Len() int { return q.count }

// Cap returns the capacity.
func (q *Queue) Cap() int { return len(q.buf) }

// Full reports whether Push would drop.
func (q *Queue) Full() bool { return q.count == len(q.buf) }

// Empty reports whether Pop would fail.
func (q *Queue) Empty() bool { return q.count == 0 }

// Dropped returns the number of bytes rejected since creation or Reset.
func (q *Queue) Dropped() int { return q.dropped }

// Reset empties the queue and clears the drop counter.
func (q *Queue) Reset() {
	q.head = 0
	q.count = 0
	q.dropped = 0
}
