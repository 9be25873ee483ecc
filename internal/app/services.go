package app

import (
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/clients/redis"
	"github.com/testoloji/akademi-backend/internal/jobs"
	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/services"
	"github.com/testoloji/akademi-backend/internal/sse"
	"github.com/testoloji/akademi-backend/internal/types"
)

type Services struct {
	Settings  services.SettingsService
	Quota     services.QuotaService
	GenAI     services.GenAIClient
	ExamPDF   services.ExamArtifactBuilder
	Overview  services.StudentOverviewProvider
	Schedules services.ScheduleSummaryProvider
	Notifier  services.CoachingNotifier
	Coaching  services.CoachingService
	JobWorker *jobs.Worker
	SSEBus    redis.SSEBus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, hub *sse.SSEHub) (Services, error) {
	settings := services.NewSettingsService(db, log, reposet.SystemSetting)
	quota := services.NewQuotaService(db, log, reposet.User, reposet.AIUsage)
	genai := services.NewGeminiClient(log, settings, reposet.AIUsageLog)
	examPDF := services.NewExamArtifactService(log)
	overview := services.NewAnalyticsService(db, log, reposet.Assignment)
	schedules := services.NewScheduleService(db, log, reposet.Schedule)

	var bus redis.SSEBus
	if cfg.RedisEnabled {
		var err error
		bus, err = redis.NewSSEBus(log)
		if err != nil {
			return Services{}, err
		}
	}

	notifier := services.NewCoachingNotifier(log, hub, bus)

	coaching := services.NewCoachingService(
		db, log,
		reposet.User,
		reposet.Student,
		reposet.Question,
		reposet.Assignment,
		reposet.History,
		reposet.Job,
		reposet.AIUsage,
		reposet.Notification,
		quota,
		genai,
		examPDF,
		overview,
		schedules,
	)

	worker := jobs.NewWorker(log, reposet.Job, notifier)
	worker.Register(types.JobTypeAskAI, coaching.ProcessAskAI)
	worker.Register(types.JobTypeAnalyzeProgress, coaching.ProcessAnalyzeProgress)

	return Services{
		Settings:  settings,
		Quota:     quota,
		GenAI:     genai,
		ExamPDF:   examPDF,
		Overview:  overview,
		Schedules: schedules,
		Notifier:  notifier,
		Coaching:  coaching,
		JobWorker: worker,
		SSEBus:    bus,
	}, nil
}
