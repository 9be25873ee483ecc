package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

type AIUsageRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.AIUsage, error)
	// Increment upserts the (user, day) counter atomically so concurrent
	// commits for the same user never lose an update.
	Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) error
	ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.AIUsage, error)
}

type aiUsageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAIUsageRepo(db *gorm.DB, baseLog *logger.Logger) AIUsageRepo {
	return &aiUsageRepo{db: db, log: baseLog.With("repo", "AIUsageRepo")}
}

func (r *aiUsageRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.AIUsage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var usage types.AIUsage
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Limit(1).
		Find(&usage).Error
	if err != nil {
		return nil, err
	}
	if usage.ID == uuid.Nil {
		return nil, nil
	}
	return &usage, nil
}

func (r *aiUsageRepo) Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.AIUsage{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,
		Count:  1,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
		}).
		Create(row).Error
}

func (r *aiUsageRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.AIUsage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AIUsage
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
