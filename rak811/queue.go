package rak811

import (
	"fmt"

	"i4.energy/across/rak811gw/at"
)

// QueueSize is the number of decoded replies the driver holds unclaimed.
const QueueSize = 4

// queue is a circular FIFO of decoded replies.
type queue struct {
	buf   [QueueSize]at.Response
	read  int
	count int
}

// enqueue appends r, failing when the queue is full.
func (q *queue) enqueue(r at.Response) error {
	if q.count == len(q.buf) {
		return fmt.Errorf("%w: %w", ErrRead, ErrQueueFull)
	}
	q.buf[(q.read+q.count)%len(q.buf)] = r
	q.count++
	return nil
}

// dequeue removes the oldest reply.
func (q *queue) dequeue() (at.Response, bool) {
	if q.count == 0 {
		return nil, false
	}
	r := q.buf[q.read]
	q.buf[q.read] = nil
	q.read = (q.read + 1) % len(q.buf)
	q.count--
	return r, true
}

// take removes the oldest reply for which match returns true. The other
// replies keep their order.
func (q *queue) take(match func(at.Response) bool) (at.Response, bool) {
	i, r := q.find(match)
	if i < 0 {
		return nil, false
	}
	q.remove(i)
	return r, true
}

// find returns the position and value of the oldest reply for which match
// returns true, or -1 when there is none.
func (q *queue) find(match func(at.Response) bool) (int, at.Response) {
	for i := 0; i < q.count; i++ {
		if r := q.buf[(q.read+i)%len(q.buf)]; match(r) {
			return i, r
		}
	}
	return -1, nil
}

// remove drops the reply at position i, shifting later replies forward.
func (q *queue) remove(i int) {
	for j := i; j < q.count-1; j++ {
		q.buf[(q.read+j)%len(q.buf)] = q.buf[(q.read+j+1)%len(q.buf)]
	}
	q.buf[(q.read+q.count-1)%len(q.buf)] = nil
	q.count--
}

// reset discards every queued reply.
func (q *queue) reset() {
	*q = queue{}
}

func (q *queue) len() int { return q.count }

func (q *queue) full() bool { return q.count == len(q.buf) }
