package repository

import (
	"context"
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

const sequenceKey = "sahayak:complaint:seq"

// Counter is the part of the memcache client the sequence uses.
type Counter interface {
	Increment(key string, delta uint64) (uint64, error)
	Add(item *memcache.Item) error
}

// IssueSequence allocates complaint numbers from a memcached counter so that
// several server processes share one numbering.
type IssueSequence struct {
	mc    Counter
	floor func(ctx context.Context) (int64, error)
}

// NewIssueSequence returns a sequence backed by mc. Whenever the counter is missing,
// at first use or after an eviction or memcached restart, it is reseeded so that
// the next value is floor(ctx).
func NewIssueSequence(mc Counter, floor func(ctx context.Context) (int64, error)) *IssueSequence {
	return &IssueSequence{mc: mc, floor: floor}
}

func (s *IssueSequence) Next(ctx context.Context) (int64, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		value, err := s.mc.Increment(sequenceKey, 1)
		if err == nil {
			return int64(value), nil
		}
		if !errors.Is(err, memcache.ErrCacheMiss) {
			return 0, errors.Wrap(err, "failed to increment complaint sequence")
		}

		start, err := s.floor(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "failed to compute complaint sequence floor")
		}

		// ErrNotStored means another process seeded it first.
		err = s.mc.Add(&memcache.Item{
			Key:   sequenceKey,
			Value: []byte(strconv.FormatInt(start-1, 10)),
		})
		if err != nil && !errors.Is(err, memcache.ErrNotStored) {
			return 0, errors.Wrap(err, "failed to seed complaint sequence")
		}
	}
	return 0, errors.New("complaint sequence unavailable")
}
