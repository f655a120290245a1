package usecase

import (
	"context"

	"github.com/nagarik-sahayak/sahayak"
)

// NextSequence returns the first complaint number above every id in the store,
// and at least floor. Ids that are not complaint ids are ignored.
func NextSequence(ctx context.Context, repo IssueRepository, floor int64) (int64, error) {
	next := floor
	for issue, err := range repo.All(ctx) {
		if err != nil {
			return 0, err
		}
		seq, err := sahayak.ParseComplaintID(issue.ID)
		if err != nil {
			continue
		}
		if seq >= next {
			next = seq + 1
		}
	}
	return next, nil
}
