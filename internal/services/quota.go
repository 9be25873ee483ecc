package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
	"github.com/testoloji/akademi-backend/internal/types"
)

// adminDailyLimit keeps admin flows effectively unlimited without a special
// code path.
const adminDailyLimit = 10000

// defaultDailyLimit applies when the tier is unknown, matching the legacy
// per-user default.
const defaultDailyLimit = 10

var tierDailyLimits = map[string]int{
	types.TierFree:  5,
	types.TierBronz: 10,
	types.TierGumus: 20,
	types.TierAltin: 40,
}

type UsageSnapshot struct {
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

type QuotaCheck struct {
	Allowed bool
	UsageSnapshot
}

// QuotaService gates coaching jobs on a per-user, per-calendar-day counter.
// The day boundary is local midnight in a fixed reference timezone, not a
// rolling window. Commit is called only after a successful provider round
// trip, so a failed job costs nothing.
type QuotaService interface {
	Peek(ctx context.Context, userID uuid.UUID) (*UsageSnapshot, error)
	CheckAndReserve(ctx context.Context, userID uuid.UUID) (*QuotaCheck, error)
	Commit(ctx context.Context, userID uuid.UUID) error
	// Today returns the usage key for the current day.
	Today() string
	// StartOfToday returns local midnight, the cutoff for same-day report
	// caching.
	StartOfToday() time.Time
}

type quotaService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	usage    repos.AIUsageRepo
	location *time.Location
}

func NewQuotaService(db *gorm.DB, baseLog *logger.Logger, users repos.UserRepo, usage repos.AIUsageRepo) QuotaService {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		loc = time.UTC
	}
	return &quotaService{
		db:       db,
		log:      baseLog.With("service", "QuotaService"),
		users:    users,
		usage:    usage,
		location: loc,
	}
}

func (s *quotaService) Today() string {
	return time.Now().In(s.location).Format("2006-01-02")
}

func (s *quotaService) StartOfToday() time.Time {
	now := time.Now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

func (s *quotaService) resolveLimit(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return defaultDailyLimit, nil
	}
	if user.Role == types.RoleAdmin {
		return adminDailyLimit, nil
	}
	if user.DailyAILimit != nil {
		return *user.DailyAILimit, nil
	}
	if limit, ok := tierDailyLimits[user.SubscriptionTier]; ok {
		return limit, nil
	}
	return defaultDailyLimit, nil
}

func (s *quotaService) Peek(ctx context.Context, userID uuid.UUID) (*UsageSnapshot, error) {
	limit, err := s.resolveLimit(ctx, userID)
	if err != nil {
		return nil, err
	}
	row, err := s.usage.Get(ctx, nil, userID, s.Today())
	if err != nil {
		return nil, err
	}
	count := 0
	if row != nil {
		count = row.Count
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &UsageSnapshot{Count: count, Limit: limit, Remaining: remaining}, nil
}

func (s *quotaService) CheckAndReserve(ctx context.Context, userID uuid.UUID) (*QuotaCheck, error) {
	snapshot, err := s.Peek(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &QuotaCheck{
		Allowed:       snapshot.Count < snapshot.Limit,
		UsageSnapshot: *snapshot,
	}, nil
}

func (s *quotaService) Commit(ctx context.Context, userID uuid.UUID) error {
	return s.usage.Increment(ctx, nil, userID, s.Today())
}
