package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
)

type SubjectStat struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// ScheduleSummary condenses the last 30 days of planned study activities into
// the adherence numbers the prompt builder cites.
type ScheduleSummary struct {
	Period              string                 `json:"period"`
	TotalActivities     int                    `json:"total_activities"`
	CompletedActivities int                    `json:"completed_activities"`
	CompletionRate      int                    `json:"completion_rate"`
	SubjectStats        map[string]SubjectStat `json:"subject_stats"`
}

type ScheduleSummaryProvider interface {
	GetScheduleSummary(ctx context.Context, studentID uuid.UUID) (*ScheduleSummary, error)
}

type scheduleService struct {
	db        *gorm.DB
	log       *logger.Logger
	schedules repos.ScheduleRepo
}

func NewScheduleService(db *gorm.DB, baseLog *logger.Logger, schedules repos.ScheduleRepo) ScheduleSummaryProvider {
	return &scheduleService{
		db:        db,
		log:       baseLog.With("service", "ScheduleService"),
		schedules: schedules,
	}
}

func (s *scheduleService) GetScheduleSummary(ctx context.Context, studentID uuid.UUID) (*ScheduleSummary, error) {
	since := time.Now().AddDate(0, 0, -30)
	schedules, err := s.schedules.ListRecentByStudent(ctx, nil, studentID, since)
	if err != nil {
		return nil, err
	}

	summary := &ScheduleSummary{
		Period:       "Son 30 Gün",
		SubjectStats: make(map[string]SubjectStat),
	}
	for _, sched := range schedules {
		summary.TotalActivities++
		subject := sched.Subject
		if subject == "" {
			subject = "Diğer"
		}
		stat := summary.SubjectStats[subject]
		stat.Total++
		if sched.IsCompleted {
			summary.CompletedActivities++
			stat.Completed++
		}
		summary.SubjectStats[subject] = stat
	}
	if summary.TotalActivities > 0 {
		rate := float64(summary.CompletedActivities) / float64(summary.TotalActivities) * 100
		summary.CompletionRate = int(rate + 0.5)
	}
	return summary, nil
}
