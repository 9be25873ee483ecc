package app

import (
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	Student       repos.StudentRepo
	Question      repos.QuestionRepo
	Assignment    repos.AssignmentRepo
	AIUsage       repos.AIUsageRepo
	AIUsageLog    repos.AIUsageLogRepo
	History       repos.CoachingHistoryRepo
	Job           repos.CoachingJobRepo
	Schedule      repos.ScheduleRepo
	SystemSetting repos.SystemSettingRepo
	Notification  repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Student:       repos.NewStudentRepo(db, log),
		Question:      repos.NewQuestionRepo(db, log),
		Assignment:    repos.NewAssignmentRepo(db, log),
		AIUsage:       repos.NewAIUsageRepo(db, log),
		AIUsageLog:    repos.NewAIUsageLogRepo(db, log),
		History:       repos.NewCoachingHistoryRepo(db, log),
		Job:           repos.NewCoachingJobRepo(db, log),
		Schedule:      repos.NewScheduleRepo(db, log),
		SystemSetting: repos.NewSystemSettingRepo(db, log),
		Notification:  repos.NewNotificationRepo(db, log),
	}
}
