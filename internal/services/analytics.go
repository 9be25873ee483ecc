package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
)

type ExamScore struct {
	Title string  `json:"title"`
	Grade float64 `json:"grade"`
}

// StudentOverview is the analytics snapshot embedded into general-coaching
// prompts.
type StudentOverview struct {
	AvgScore        float64          `json:"avg_score"`
	TotalExams      int              `json:"total_exams"`
	ScoreHistory    []ExamScore      `json:"score_history"`
	ScheduleSummary *ScheduleSummary `json:"schedule_summary,omitempty"`
}

// StudentOverviewProvider supplies the numbers the prompt builder grounds its
// claims in. The aggregation itself belongs to the analytics domain; the
// coaching pipeline only consumes the snapshot.
type StudentOverviewProvider interface {
	GetStudentOverview(ctx context.Context, studentID uuid.UUID) (*StudentOverview, error)
}

type analyticsService struct {
	db          *gorm.DB
	log         *logger.Logger
	assignments repos.AssignmentRepo
}

func NewAnalyticsService(db *gorm.DB, baseLog *logger.Logger, assignments repos.AssignmentRepo) StudentOverviewProvider {
	return &analyticsService{
		db:          db,
		log:         baseLog.With("service", "AnalyticsService"),
		assignments: assignments,
	}
}

func (s *analyticsService) GetStudentOverview(ctx context.Context, studentID uuid.UUID) (*StudentOverview, error) {
	exams, err := s.assignments.ListCompletedByStudent(ctx, nil, studentID, 0)
	if err != nil {
		return nil, err
	}

	overview := &StudentOverview{TotalExams: len(exams)}
	var sum float64
	var scored int
	for _, exam := range exams {
		if exam.Score == nil {
			continue
		}
		sum += *exam.Score
		scored++
		if len(overview.ScoreHistory) < 5 {
			overview.ScoreHistory = append(overview.ScoreHistory, ExamScore{
				Title: exam.Title,
				Grade: *exam.Score,
			})
		}
	}
	if scored > 0 {
		overview.AvgScore = sum / float64(scored)
	}
	return overview, nil
}
