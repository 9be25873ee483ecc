package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

type CoachingJobRepo interface {
	Enqueue(ctx context.Context, tx *gorm.DB, job *types.CoachingJob) (*types.CoachingJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoachingJob, error)
	// ClaimNextRunnable picks the oldest queued job and marks it running
	// inside one transaction (SKIP LOCKED), so concurrent workers never claim
	// the same row. Stale running jobs are reclaimed after staleRunning.
	ClaimNextRunnable(ctx context.Context, tx *gorm.DB, staleRunning time.Duration) (*types.CoachingJob, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type coachingJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoachingJobRepo(db *gorm.DB, baseLog *logger.Logger) CoachingJobRepo {
	return &coachingJobRepo{db: db, log: baseLog.With("repo", "CoachingJobRepo")}
}

func (r *coachingJobRepo) Enqueue(ctx context.Context, tx *gorm.DB, job *types.CoachingJob) (*types.CoachingJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = types.JobStatusQueued
	if err := transaction.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *coachingJobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoachingJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var job types.CoachingJob
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *coachingJobRepo) ClaimNextRunnable(ctx context.Context, tx *gorm.DB, staleRunning time.Duration) (*types.CoachingJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now()
	staleCutoff := now.Add(-staleRunning)

	var claimed *types.CoachingJob
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		var job types.CoachingJob
		q := txx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where(`
				status = ?
				OR (status = ? AND locked_at IS NOT NULL AND locked_at < ?)
			`, types.JobStatusQueued, types.JobStatusRunning, staleCutoff).
			Order("created_at ASC")
		qErr := q.First(&job).Error
		if errors.Is(qErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if qErr != nil {
			return qErr
		}
		uErr := txx.Model(&types.CoachingJob{}).
			Where("id = ?", job.ID).
			Updates(map[string]interface{}{
				"status":     types.JobStatusRunning,
				"attempts":   gorm.Expr("attempts + 1"),
				"locked_at":  now,
				"updated_at": now,
			}).Error
		if uErr != nil {
			return uErr
		}
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *coachingJobRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&types.CoachingJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}
