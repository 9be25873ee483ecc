package repos

import (
	"context"
	"testing"

	"github.com/testoloji/akademi-backend/internal/types"
)

func TestSystemSettingUpsert(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewSystemSettingRepo(db, log)
	ctx := context.Background()

	got, err := repo.Get(ctx, nil, types.SettingGeminiModel)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("unset key should return nil, got %+v", got)
	}

	if err := repo.Upsert(ctx, nil, types.SettingGeminiModel, "gemini-2.5-flash"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, nil, types.SettingGeminiModel, "gemini-custom"); err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}

	got, err = repo.Get(ctx, nil, types.SettingGeminiModel)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Value != "gemini-custom" {
		t.Fatalf("value after overwrite: want=gemini-custom got=%+v", got)
	}

	all, err := repo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("upsert must not duplicate rows: want=1 got=%d", len(all))
	}
}
