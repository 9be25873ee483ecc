package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/testoloji/akademi-backend/internal/types"
)

func seedHistory(t *testing.T, repo CoachingHistoryRepo, userID uuid.UUID, action string, n int, base time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		entry := &types.CoachingHistory{
			ID:        uuid.New(),
			UserID:    userID,
			Query:     fmt.Sprintf("soru-%d", i),
			Response:  fmt.Sprintf("cevap-%d", i),
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), nil, entry); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func TestCoachingHistoryListPage(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewCoachingHistoryRepo(db, log)
	userID := uuid.New()
	otherID := uuid.New()
	base := time.Now().Add(-time.Hour)

	seedHistory(t, repo, userID, types.ActionChat, 7, base)
	seedHistory(t, repo, otherID, types.ActionChat, 3, base)

	items, total, err := repo.ListPage(context.Background(), nil, userID, "", 1, 5)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 7 {
		t.Fatalf("total: want=7 got=%d", total)
	}
	if len(items) != 5 {
		t.Fatalf("page 1 size: want=5 got=%d", len(items))
	}
	// Newest first.
	if items[0].Query != "soru-6" {
		t.Fatalf("page 1 head: want=soru-6 got=%s", items[0].Query)
	}

	items, _, err = repo.ListPage(context.Background(), nil, userID, "", 2, 5)
	if err != nil {
		t.Fatalf("ListPage page 2: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("page 2 size: want=2 got=%d", len(items))
	}
	if items[1].Query != "soru-0" {
		t.Fatalf("page 2 tail: want=soru-0 got=%s", items[1].Query)
	}
}

func TestCoachingHistoryListPageActionFilter(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewCoachingHistoryRepo(db, log)
	userID := uuid.New()
	base := time.Now().Add(-time.Hour)

	seedHistory(t, repo, userID, types.ActionChat, 4, base)
	seedHistory(t, repo, userID, types.ActionProgressAnalysis, 2, base.Add(10*time.Minute))

	_, total, err := repo.ListPage(context.Background(), nil, userID, types.ActionProgressAnalysis, 1, 5)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 2 {
		t.Fatalf("filtered total: want=2 got=%d", total)
	}
}

func TestCoachingHistoryGetLatestSince(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewCoachingHistoryRepo(db, log)
	userID := uuid.New()
	ctx := context.Background()

	cutoff := time.Now().Add(-time.Hour)

	old := &types.CoachingHistory{
		ID:        uuid.New(),
		UserID:    userID,
		Query:     "eski rapor",
		Response:  "eski",
		Action:    types.ActionProgressAnalysis,
		CreatedAt: cutoff.Add(-2 * time.Hour),
	}
	if err := repo.Create(ctx, nil, old); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetLatestSince(ctx, nil, userID, types.ActionProgressAnalysis, cutoff)
	if err != nil {
		t.Fatalf("GetLatestSince: %v", err)
	}
	if got != nil {
		t.Fatalf("entries before cutoff must not match, got %+v", got)
	}

	fresh := &types.CoachingHistory{
		ID:        uuid.New(),
		UserID:    userID,
		Query:     "yeni rapor",
		Response:  "yeni",
		Action:    types.ActionProgressAnalysis,
		CreatedAt: cutoff.Add(30 * time.Minute),
	}
	if err := repo.Create(ctx, nil, fresh); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err = repo.GetLatestSince(ctx, nil, userID, types.ActionProgressAnalysis, cutoff)
	if err != nil {
		t.Fatalf("GetLatestSince: %v", err)
	}
	if got == nil || got.Query != "yeni rapor" {
		t.Fatalf("want the fresh entry, got %+v", got)
	}

	// Action filter applies.
	got, err = repo.GetLatestSince(ctx, nil, userID, types.ActionChat, cutoff)
	if err != nil {
		t.Fatalf("GetLatestSince: %v", err)
	}
	if got != nil {
		t.Fatalf("different action must not match, got %+v", got)
	}
}

func TestCoachingHistoryGetRecentOrder(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewCoachingHistoryRepo(db, log)
	userID := uuid.New()
	base := time.Now().Add(-time.Hour)

	seedHistory(t, repo, userID, types.ActionChat, 5, base)

	recent, err := repo.GetRecent(context.Background(), nil, userID, 3)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent size: want=3 got=%d", len(recent))
	}
	if recent[0].Query != "soru-4" || recent[2].Query != "soru-2" {
		t.Fatalf("recent order: got %s..%s", recent[0].Query, recent[2].Query)
	}
}
