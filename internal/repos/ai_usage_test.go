package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestAIUsageIncrementUpsert(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewAIUsageRepo(db, log)
	ctx := context.Background()
	userID := uuid.New()

	row, err := repo.Get(ctx, nil, userID, "2026-08-31")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row != nil {
		t.Fatalf("no usage row expected yet, got %+v", row)
	}

	for i := 0; i < 3; i++ {
		if err := repo.Increment(ctx, nil, userID, "2026-08-31"); err != nil {
			t.Fatalf("Increment %d: %v", i, err)
		}
	}

	row, err = repo.Get(ctx, nil, userID, "2026-08-31")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row == nil || row.Count != 3 {
		t.Fatalf("count after 3 increments: want=3 got=%+v", row)
	}

	// A new day starts a new counter.
	if err := repo.Increment(ctx, nil, userID, "2026-09-01"); err != nil {
		t.Fatalf("Increment new day: %v", err)
	}
	row, err = repo.Get(ctx, nil, userID, "2026-09-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row == nil || row.Count != 1 {
		t.Fatalf("new day count: want=1 got=%+v", row)
	}

	recent, err := repo.ListRecent(ctx, nil, userID, 7)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent rows: want=2 got=%d", len(recent))
	}
	if recent[0].Date != "2026-09-01" {
		t.Fatalf("recent order: want newest first, got %s", recent[0].Date)
	}
}
