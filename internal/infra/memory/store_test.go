package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nagarik-sahayak/sahayak"
	"github.com/nagarik-sahayak/sahayak/internal/domain"
)

func testIssue(seq int64, location string) domain.Issue {
	in := domain.DefaultFormInput()
	in.Contact = domain.Contact{Name: "Asha", Phone: "9999999999"}
	in.Location = location
	in.Text = fmt.Sprintf("Issue %d", seq)
	return domain.NewIssue(sahayak.FormatComplaintID(seq), in, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))
}

func collect(t *testing.T, s *Store, ctx context.Context) []string {
	t.Helper()
	var ids []string
	for issue, err := range s.All(ctx) {
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		ids = append(ids, issue.ID)
	}
	return ids
}

func TestStoreInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seqs := []int64{1240, 1234, 1299, 1235, 1250}
	for _, seq := range seqs {
		if err := s.Insert(ctx, testIssue(seq, "Park St")); err != nil {
			t.Fatalf("insert %d failed: %v", seq, err)
		}
	}

	ids := collect(t, s, ctx)
	if len(ids) != len(seqs) {
		t.Fatalf("expected %d issues got %d", len(seqs), len(ids))
	}
	for i, seq := range seqs {
		if ids[i] != sahayak.FormatComplaintID(seq) {
			t.Fatalf("position %d: expected %s got %s", i, sahayak.FormatComplaintID(seq), ids[i])
		}
	}
}

func TestStoreAllIsSnapshotAndRestartable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if err := s.Insert(ctx, testIssue(1, "A")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	seq := s.All(ctx)

	if err := s.Insert(ctx, testIssue(2, "B")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	for round := 0; round < 2; round++ {
		count := 0
		for _, err := range seq {
			if err != nil {
				t.Fatalf("iteration failed: %v", err)
			}
			count++
		}
		if count != 1 {
			t.Fatalf("round %d: snapshot should hold 1 issue, got %d", round, count)
		}
	}
	if got := len(collect(t, s, ctx)); got != 2 {
		t.Fatalf("fresh view should hold 2 issues, got %d", got)
	}
}

func TestStoreDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if err := s.Insert(ctx, testIssue(7, "A")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	err := s.Insert(ctx, testIssue(7, "B"))
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("duplicate must not be stored")
	}
}

func TestStoreAppendUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	issue := testIssue(9, "A")
	if err := s.Insert(ctx, issue); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	rev, _ := s.Revision(ctx)

	_, err := s.AppendUpdate(ctx, "CMP-999999", domain.StatusChange{Date: issue.ReportedDate, Status: domain.StatusResolved})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	updated, err := s.AppendUpdate(ctx, issue.ID, domain.StatusChange{Date: issue.ReportedDate.Add(time.Hour), Message: "Fixed", Status: domain.StatusResolved})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if updated.Status != domain.StatusResolved || len(updated.Updates) != 2 {
		t.Fatalf("unexpected issue %+v", updated)
	}
	if next, _ := s.Revision(ctx); next == rev {
		t.Fatalf("revision should change after an update")
	}

	_, err = s.AppendUpdate(ctx, issue.ID, domain.StatusChange{Date: issue.ReportedDate.Add(2 * time.Hour), Status: domain.StatusInProgress})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition got %v", err)
	}
	stored, _ := s.Get(ctx, issue.ID)
	if stored.Status != domain.StatusResolved || len(stored.Updates) != 2 {
		t.Fatalf("rejected update must leave the issue unchanged: %+v", stored)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if err := s.Insert(ctx, testIssue(3, "A")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	got, _ := s.Get(ctx, "CMP-000003")
	got.Updates[0].Message = "tampered"
	again, _ := s.Get(ctx, "CMP-000003")
	if again.Updates[0].Message == "tampered" {
		t.Fatalf("store leaked internal state")
	}
}

func TestSequenceConcurrentDistinct(t *testing.T) {
	seq := NewSequence(1239)
	const workers, per = 8, 100

	var mu sync.Mutex
	seen := map[int64]bool{}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				v, _ := seq.Next(context.Background())
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*per {
		t.Fatalf("expected %d distinct ids got %d", workers*per, len(seen))
	}
	if !seen[1239] {
		t.Fatalf("sequence should start at 1239")
	}
}
