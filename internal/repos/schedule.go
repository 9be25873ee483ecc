package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

type ScheduleRepo interface {
	// ListRecentByStudent returns activities dated at or after since, plus
	// undated recurring ones.
	ListRecentByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, since time.Time) ([]*types.Schedule, error)
}

type scheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return &scheduleRepo{db: db, log: baseLog.With("repo", "ScheduleRepo")}
}

func (r *scheduleRepo) ListRecentByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, since time.Time) ([]*types.Schedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Schedule
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND (date >= ? OR date IS NULL)", studentID, since).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
