// Package sequence issues process-wide monotonic sequence numbers, one
// per submitted event.
package sequence

import "sync/atomic"

// Sequencer generates strictly monotonic, unique sequence IDs. It
// guarantees assignment order only; it is not a serialization point
// for the effects of concurrent submissions.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer that will issue start+1 first.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence ID.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
