package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/testoloji/akademi-backend/internal/types"
)

func newQuotaFixture(t *testing.T, user *types.User, usedToday int) (QuotaService, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	if user != nil {
		user.ID = userID
		users.users[userID] = user
	}
	usage := &fakeAIUsageRepo{counts: map[string]int{}}
	quota := NewQuotaService(nil, mustTestLogger(t), users, usage)
	if usedToday > 0 {
		usage.counts[usageKey(userID, quota.Today())] = usedToday
	}
	return quota, userID
}

func TestQuotaResolveLimit(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	cases := []struct {
		name string
		user *types.User
		want int
	}{
		{"free tier", &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierFree}, 5},
		{"bronz tier", &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierBronz}, 10},
		{"gumus tier", &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierGumus}, 20},
		{"altin tier", &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierAltin}, 40},
		{"unknown tier falls back", &types.User{Role: types.RoleStudent, SubscriptionTier: "PLATIN"}, defaultDailyLimit},
		{"admin", &types.User{Role: types.RoleAdmin, SubscriptionTier: types.TierFree}, adminDailyLimit},
		{"override beats tier", &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierFree, DailyAILimit: intPtr(3)}, 3},
		{"missing user", nil, defaultDailyLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quota, userID := newQuotaFixture(t, tc.user, 0)
			snapshot, err := quota.Peek(context.Background(), userID)
			if err != nil {
				t.Fatalf("Peek: %v", err)
			}
			if snapshot.Limit != tc.want {
				t.Fatalf("limit: want=%d got=%d", tc.want, snapshot.Limit)
			}
		})
	}
}

func TestQuotaBoundary(t *testing.T) {
	user := &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierBronz}

	// One below the limit is still allowed.
	quota, userID := newQuotaFixture(t, user, 9)
	check, err := quota.CheckAndReserve(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckAndReserve: %v", err)
	}
	if !check.Allowed {
		t.Fatalf("count=9 limit=10 should be allowed")
	}
	if check.Remaining != 1 {
		t.Fatalf("remaining: want=1 got=%d", check.Remaining)
	}

	// At the limit the next request is rejected.
	quota, userID = newQuotaFixture(t, &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierBronz}, 10)
	check, err = quota.CheckAndReserve(context.Background(), userID)
	if err != nil {
		t.Fatalf("CheckAndReserve: %v", err)
	}
	if check.Allowed {
		t.Fatalf("count=10 limit=10 should be rejected")
	}
	if check.Remaining != 0 {
		t.Fatalf("remaining: want=0 got=%d", check.Remaining)
	}
}

func TestQuotaCommitIncrements(t *testing.T) {
	quota, userID := newQuotaFixture(t, &types.User{Role: types.RoleStudent, SubscriptionTier: types.TierFree}, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := quota.Commit(ctx, userID); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}
	snapshot, err := quota.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if snapshot.Count != 3 {
		t.Fatalf("count after 3 commits: want=3 got=%d", snapshot.Count)
	}
	if snapshot.Remaining != 2 {
		t.Fatalf("remaining: want=2 got=%d", snapshot.Remaining)
	}
}
