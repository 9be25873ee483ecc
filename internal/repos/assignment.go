package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

type AssignmentRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assignment, error)
	GetLatestCompletedByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Assignment, error)
	ListCompletedByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]*types.Assignment, error)
	SetAIAnalysis(ctx context.Context, tx *gorm.DB, id uuid.UUID, analysis string) error
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var a types.Assignment
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetLatestCompletedByStudent returns the most recently completed exam that
// still has a linked question set, or nil when the student has none.
func (r *assignmentRepo) GetLatestCompletedByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var a types.Assignment
	err := transaction.WithContext(ctx).
		Where("student_id = ? AND status = ? AND project_id IS NOT NULL", studentID, types.AssignmentStatusCompleted).
		Order("completed_at DESC").
		Limit(1).
		Find(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		return nil, nil
	}
	return &a, nil
}

func (r *assignmentRepo) ListCompletedByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Assignment
	q := transaction.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, types.AssignmentStatusCompleted).
		Order("completed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) SetAIAnalysis(ctx context.Context, tx *gorm.DB, id uuid.UUID, analysis string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Assignment{}).
		Where("id = ?", id).
		Update("ai_analysis", analysis).Error
}
