package testutil

import "sync/atomic"

// Sequence is an engine.Sequencer that can be rewound. A scenario with
// several documents numbers all of their expressions from one Sequence and
// calls Reset between documents or runs. Safe for concurrent use.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence whose first value is after+1.
func NewSequence(after int64) *Sequence {
	s := &Sequence{}
	s.last.Store(after)
	return s
}

func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Current returns the last value handed out.
func (s *Sequence) Current() int64 {
	return s.last.Load()
}

// Reset makes the next value 1.
func (s *Sequence) Reset() {
	s.last.Store(0)
}
