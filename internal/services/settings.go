package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
	"github.com/testoloji/akademi-backend/internal/types"
)

// SettingsService reads runtime-mutable configuration (model name, provider
// credential) from the system_setting table. An empty string means unset.
type SettingsService interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) ([]*types.SystemSetting, error)
}

type settingsService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.SystemSettingRepo
}

func NewSettingsService(db *gorm.DB, baseLog *logger.Logger, repo repos.SystemSettingRepo) SettingsService {
	return &settingsService{
		db:   db,
		log:  baseLog.With("service", "SettingsService"),
		repo: repo,
	}
}

func (s *settingsService) GetSetting(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, nil, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

func (s *settingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.Upsert(ctx, nil, key, value)
}

func (s *settingsService) ListSettings(ctx context.Context) ([]*types.SystemSetting, error) {
	return s.repo.ListAll(ctx, nil)
}
