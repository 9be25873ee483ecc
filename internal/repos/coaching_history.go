package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

type CoachingHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.CoachingHistory) error
	// ListPage returns a newest-first page plus the total row count for the
	// filter. Action is optional.
	ListPage(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, page, limit int) ([]*types.CoachingHistory, int64, error)
	// GetRecent returns up to limit newest entries for prompt context.
	GetRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.CoachingHistory, error)
	// GetLatestSince returns the newest entry with the given action created at
	// or after since, or nil.
	GetLatestSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, since time.Time) (*types.CoachingHistory, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type coachingHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoachingHistoryRepo(db *gorm.DB, baseLog *logger.Logger) CoachingHistoryRepo {
	return &coachingHistoryRepo{db: db, log: baseLog.With("repo", "CoachingHistoryRepo")}
}

func (r *coachingHistoryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.CoachingHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (r *coachingHistoryRepo) ListPage(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, page, limit int) ([]*types.CoachingHistory, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	q := transaction.WithContext(ctx).Model(&types.CoachingHistory{}).Where("user_id = ?", userID)
	if action != "" {
		q = q.Where("action = ?", action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*types.CoachingHistory
	if err := q.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *coachingHistoryRepo) GetRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.CoachingHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit < 1 {
		limit = 3
	}
	var out []*types.CoachingHistory
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *coachingHistoryRepo) GetLatestSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, since time.Time) (*types.CoachingHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var entry types.CoachingHistory
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND action = ? AND created_at >= ?", userID, action, since).
		Order("created_at DESC").
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == uuid.Nil {
		return nil, nil
	}
	return &entry, nil
}

func (r *coachingHistoryRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	err := transaction.WithContext(ctx).
		Model(&types.CoachingHistory{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
