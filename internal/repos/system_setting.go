package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

type SystemSettingRepo interface {
	Get(ctx context.Context, tx *gorm.DB, key string) (*types.SystemSetting, error)
	Upsert(ctx context.Context, tx *gorm.DB, key, value string) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.SystemSetting, error)
}

type systemSettingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSystemSettingRepo(db *gorm.DB, baseLog *logger.Logger) SystemSettingRepo {
	return &systemSettingRepo{db: db, log: baseLog.With("repo", "SystemSettingRepo")}
}

func (r *systemSettingRepo) Get(ctx context.Context, tx *gorm.DB, key string) (*types.SystemSetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var setting types.SystemSetting
	err := transaction.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == uuid.Nil {
		return nil, nil
	}
	return &setting, nil
}

func (r *systemSettingRepo) Upsert(ctx context.Context, tx *gorm.DB, key, value string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.SystemSetting{
		ID:    uuid.New(),
		Key:   key,
		Value: value,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

func (r *systemSettingRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.SystemSetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.SystemSetting
	if err := transaction.WithContext(ctx).Order("key ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
