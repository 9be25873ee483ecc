package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

type AIUsageTotals struct {
	Requests         int64 `json:"requests"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type AIUsageLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.AIUsageLog) error
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AIUsageLog, error)
	Totals(ctx context.Context, tx *gorm.DB) (*AIUsageTotals, error)
}

type aiUsageLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAIUsageLogRepo(db *gorm.DB, baseLog *logger.Logger) AIUsageLogRepo {
	return &aiUsageLogRepo{db: db, log: baseLog.With("repo", "AIUsageLogRepo")}
}

func (r *aiUsageLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.AIUsageLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (r *aiUsageLogRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AIUsageLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var out []*types.AIUsageLog
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *aiUsageLogRepo) Totals(ctx context.Context, tx *gorm.DB) (*AIUsageTotals, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var totals AIUsageTotals
	err := transaction.WithContext(ctx).
		Model(&types.AIUsageLog{}).
		Select("COUNT(*) AS requests, COALESCE(SUM(prompt_tokens),0) AS prompt_tokens, COALESCE(SUM(completion_tokens),0) AS completion_tokens, COALESCE(SUM(total_tokens),0) AS total_tokens").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
