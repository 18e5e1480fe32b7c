// Package ringbuf provides a bounded lock-free ring buffer with
// non-blocking offer/poll. Capacity must be a power of two so index
// wrapping is a mask. The contract is single-producer/single-consumer;
// the cursors still advance by CAS so a misbehaving second producer
// cannot tear an index, only lose its slot.
package ringbuf

import (
	"fmt"
	"sync/atomic"
)

// Ring is a fixed-capacity queue. It never blocks and never resizes:
// a full buffer is reported to the producer as backpressure.
type Ring[T any] struct {
	buf  []T
	mask uint64

	write atomic.Uint64
	_pad1 [56]byte
	read  atomic.Uint64
	_pad2 [56]byte
}

// New rejects capacities that are not powers of two; that is a fatal
// configuration error, not a runtime condition.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("ringbuf: capacity %d is not a power of two", capacity)
	}
	return &Ring[T]{
		buf:  make([]T, capacity),
		mask: uint64(capacity - 1),
	}, nil
}

// Offer appends item and reports false, without writing, when the
// buffer is full.
func (r *Ring[T]) Offer(item T) bool {
	w := r.write.Load()
	if w-r.read.Load() >= uint64(len(r.buf)) {
		return false
	}
	r.buf[w&r.mask] = item
	r.write.CompareAndSwap(w, w+1)
	return true
}

// Poll removes the oldest item; ok is false on an empty buffer.
func (r *Ring[T]) Poll() (item T, ok bool) {
	rd := r.read.Load()
	if rd >= r.write.Load() {
		return item, false
	}
	item = r.buf[rd&r.mask]
	r.read.CompareAndSwap(rd, rd+1)
	return item, true
}

// Len is the number of buffered items.
func (r *Ring[T]) Len() int {
	return int(r.write.Load() - r.read.Load())
}

// Cap is the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
