package memory

import (
	"context"
	"sync/atomic"
)

// Sequence hands out increasing complaint numbers starting at start.
type Sequence struct {
	last atomic.Int64
}

func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start - 1)
	return s
}

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	return s.last.Add(1), nil
}
