package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
	"github.com/testoloji/akademi-backend/internal/requestdata"
	"github.com/testoloji/akademi-backend/internal/types"
)

// cachedReportPreamble prefixes a same-day report served from cache so the
// student knows it was not regenerated.
const cachedReportPreamble = "Bugün senin için hazırladığım gelişim raporunu tekrar getirdim:\n\n"

type EnqueueResult struct {
	Status string `json:"status"`
	JobID  string `json:"jobId"`
}

// AnalyzeResult is either a queued job handle or a cache hit served inline.
type AnalyzeResult struct {
	Status   string `json:"status"`
	JobID    string `json:"jobId,omitempty"`
	Analysis string `json:"analysis,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
}

// AssignmentAnalysis is the cached-analysis lookup result. Analysis is nil
// when the assignment exists but has not been analyzed yet.
type AssignmentAnalysis struct {
	AssignmentID uuid.UUID `json:"assignmentId"`
	Title        string    `json:"title"`
	Analysis     *string   `json:"analysis"`
}

type HistoryPage struct {
	Data       []*types.CoachingHistory `json:"data"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"totalPages"`
	HasMore    bool                     `json:"hasMore"`
}

type CoachingStats struct {
	TotalPrompts  int64                    `json:"totalPrompts"`
	DailyLimit    int                      `json:"dailyLimit"`
	UsedToday     int                      `json:"usedToday"`
	RecentUsage   []*types.AIUsage         `json:"recentUsage"`
	RecentHistory []*types.CoachingHistory `json:"recentHistory"`
}

// analyzeJobPayload rides in the queue row. TargetUserID diverges from the
// job's owner when a teacher analyzes one of their students: quota and
// notifications belong to the teacher, the history entry to the student.
type analyzeJobPayload struct {
	Query        string           `json:"query"`
	StudentID    string           `json:"studentId,omitempty"`
	TargetUserID string           `json:"targetUserId,omitempty"`
	StudentData  *StudentOverview `json:"studentData,omitempty"`
}

// CoachingService is the front of the coaching pipeline. Ask/Analyze calls
// never talk to the provider inline; they validate, check quota and enqueue.
// The Process methods are the worker-side counterparts.
type CoachingService interface {
	GetUsage(ctx context.Context, userID uuid.UUID) (*UsageSnapshot, error)
	AskAI(ctx context.Context, userID uuid.UUID, req AskAIRequest) (*EnqueueResult, error)
	AnalyzeProgress(ctx context.Context, userID uuid.UUID, req AnalyzeProgressRequest) (*AnalyzeResult, error)
	AnalyzeStudentForTeacher(ctx context.Context, requester *requestdata.RequestData, studentID uuid.UUID, req AnalyzeProgressRequest) (*AnalyzeResult, error)
	GetJob(ctx context.Context, userID uuid.UUID, jobID uuid.UUID) (*types.CoachingJob, error)
	GetHistory(ctx context.Context, userID uuid.UUID, action string, page, limit int) (*HistoryPage, error)
	GetStudentHistoryForTeacher(ctx context.Context, requester *requestdata.RequestData, studentID uuid.UUID, page, limit int) (*HistoryPage, error)
	GetAssignmentAnalysis(ctx context.Context, requester *requestdata.RequestData, assignmentID uuid.UUID) (*AssignmentAnalysis, error)
	UpdateDailyLimit(ctx context.Context, userID uuid.UUID, limit int) error
	GetUserCoachingStats(ctx context.Context, userID uuid.UUID) (*CoachingStats, error)

	ProcessAskAI(ctx context.Context, job *types.CoachingJob) (map[string]any, error)
	ProcessAnalyzeProgress(ctx context.Context, job *types.CoachingJob) (map[string]any, error)
}

type coachingService struct {
	db            *gorm.DB
	log           *logger.Logger
	users         repos.UserRepo
	students      repos.StudentRepo
	questions     repos.QuestionRepo
	assignments   repos.AssignmentRepo
	history       repos.CoachingHistoryRepo
	jobs          repos.CoachingJobRepo
	usage         repos.AIUsageRepo
	notifications repos.NotificationRepo
	quota         QuotaService
	genai         GenAIClient
	examPDF       ExamArtifactBuilder
	overview      StudentOverviewProvider
	schedules     ScheduleSummaryProvider
}

func NewCoachingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	students repos.StudentRepo,
	questions repos.QuestionRepo,
	assignments repos.AssignmentRepo,
	history repos.CoachingHistoryRepo,
	jobs repos.CoachingJobRepo,
	usage repos.AIUsageRepo,
	notifications repos.NotificationRepo,
	quota QuotaService,
	genai GenAIClient,
	examPDF ExamArtifactBuilder,
	overview StudentOverviewProvider,
	schedules ScheduleSummaryProvider,
) CoachingService {
	return &coachingService{
		db:            db,
		log:           baseLog.With("service", "CoachingService"),
		users:         users,
		students:      students,
		questions:     questions,
		assignments:   assignments,
		history:       history,
		jobs:          jobs,
		usage:         usage,
		notifications: notifications,
		quota:         quota,
		genai:         genai,
		examPDF:       examPDF,
		overview:      overview,
		schedules:     schedules,
	}
}

func (s *coachingService) GetUsage(ctx context.Context, userID uuid.UUID) (*UsageSnapshot, error) {
	return s.quota.Peek(ctx, userID)
}

func (s *coachingService) AskAI(ctx context.Context, userID uuid.UUID, req AskAIRequest) (*EnqueueResult, error) {
	check, err := s.quota.CheckAndReserve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, ErrQuotaExceeded
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.Enqueue(ctx, nil, &types.CoachingJob{
		UserID:  userID,
		JobType: types.JobTypeAskAI,
		Payload: datatypes.JSON(payload),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Question coaching job queued", "job_id", job.ID, "user_id", userID)
	return &EnqueueResult{Status: "queued", JobID: job.ID.String()}, nil
}

func (s *coachingService) AnalyzeProgress(ctx context.Context, userID uuid.UUID, req AnalyzeProgressRequest) (*AnalyzeResult, error) {
	// Same-day report cache is checked before quota, so a repeat request
	// costs nothing.
	if IsGeneralReportQuery(req.Query) {
		cached, err := s.history.GetLatestSince(ctx, nil, userID, types.ActionProgressAnalysis, s.quota.StartOfToday())
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return &AnalyzeResult{
				Status:   "done",
				Analysis: cachedReportPreamble + cached.Response,
				Cached:   true,
			}, nil
		}
	}

	check, err := s.quota.CheckAndReserve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, ErrQuotaExceeded
	}

	return s.enqueueAnalyze(ctx, userID, analyzeJobPayload{
		Query:       req.Query,
		StudentID:   req.StudentID,
		StudentData: req.StudentData,
	})
}

// AnalyzeStudentForTeacher runs the progress pipeline on behalf of a student.
// Teachers may only reach their own students; admins may reach any. The
// resulting history entry belongs to the student when their profile is linked
// to an account.
func (s *coachingService) AnalyzeStudentForTeacher(ctx context.Context, requester *requestdata.RequestData, studentID uuid.UUID, req AnalyzeProgressRequest) (*AnalyzeResult, error) {
	student, err := s.resolveStudentFor(ctx, requester, studentID)
	if err != nil {
		return nil, err
	}

	targetUserID := requester.UserID
	if student.UserID != nil {
		targetUserID = *student.UserID
	}

	if IsGeneralReportQuery(req.Query) {
		cached, err := s.history.GetLatestSince(ctx, nil, targetUserID, types.ActionProgressAnalysis, s.quota.StartOfToday())
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return &AnalyzeResult{
				Status:   "done",
				Analysis: cachedReportPreamble + cached.Response,
				Cached:   true,
			}, nil
		}
	}

	check, err := s.quota.CheckAndReserve(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, ErrQuotaExceeded
	}

	return s.enqueueAnalyze(ctx, requester.UserID, analyzeJobPayload{
		Query:        req.Query,
		StudentID:    student.ID.String(),
		TargetUserID: targetUserID.String(),
		StudentData:  req.StudentData,
	})
}

func (s *coachingService) enqueueAnalyze(ctx context.Context, userID uuid.UUID, payload analyzeJobPayload) (*AnalyzeResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.Enqueue(ctx, nil, &types.CoachingJob{
		UserID:  userID,
		JobType: types.JobTypeAnalyzeProgress,
		Payload: datatypes.JSON(raw),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Progress analysis job queued", "job_id", job.ID, "user_id", userID)
	return &AnalyzeResult{Status: "queued", JobID: job.ID.String()}, nil
}

func (s *coachingService) GetJob(ctx context.Context, userID uuid.UUID, jobID uuid.UUID) (*types.CoachingJob, error) {
	job, err := s.jobs.GetByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.UserID != userID {
		return nil, ErrNotFound
	}
	return job, nil
}

func (s *coachingService) GetHistory(ctx context.Context, userID uuid.UUID, action string, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	items, total, err := s.history.ListPage(ctx, nil, userID, action, page, limit)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &HistoryPage{
		Data:       items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

func (s *coachingService) GetStudentHistoryForTeacher(ctx context.Context, requester *requestdata.RequestData, studentID uuid.UUID, page, limit int) (*HistoryPage, error) {
	student, err := s.resolveStudentFor(ctx, requester, studentID)
	if err != nil {
		return nil, err
	}
	if student.UserID == nil {
		return &HistoryPage{Data: []*types.CoachingHistory{}, Page: 1, Limit: limit}, nil
	}
	return s.GetHistory(ctx, *student.UserID, "", page, limit)
}

// resolveStudentFor loads a student while enforcing ownership. Admins see
// every profile, teachers only their own.
func (s *coachingService) resolveStudentFor(ctx context.Context, requester *requestdata.RequestData, studentID uuid.UUID) (*types.Student, error) {
	if requester == nil {
		return nil, ErrForbidden
	}
	var student *types.Student
	var err error
	switch requester.Role {
	case types.RoleAdmin:
		student, err = s.students.GetByID(ctx, nil, studentID)
	case types.RoleTeacher:
		student, err = s.students.GetByIDForTeacher(ctx, nil, studentID, requester.UserID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrForbidden
	}
	return student, nil
}

func (s *coachingService) GetAssignmentAnalysis(ctx context.Context, requester *requestdata.RequestData, assignmentID uuid.UUID) (*AssignmentAnalysis, error) {
	if requester == nil {
		return nil, ErrForbidden
	}
	assignment, err := s.assignments.GetByID(ctx, nil, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}

	if requester.Role != types.RoleAdmin {
		student, err := s.students.GetByID(ctx, nil, assignment.StudentID)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return nil, ErrForbidden
		}
		switch requester.Role {
		case types.RoleTeacher:
			if student.TeacherID != requester.UserID {
				return nil, ErrForbidden
			}
		default:
			if student.UserID == nil || *student.UserID != requester.UserID {
				return nil, ErrForbidden
			}
		}
	}

	result := &AssignmentAnalysis{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
	}
	if assignment.AIAnalysis != "" {
		result.Analysis = &assignment.AIAnalysis
	}
	return result, nil
}

func (s *coachingService) UpdateDailyLimit(ctx context.Context, userID uuid.UUID, limit int) error {
	if limit < 0 {
		return fmt.Errorf("daily limit must be non-negative")
	}
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.users.UpdateDailyLimit(ctx, nil, userID, limit)
}

func (s *coachingService) GetUserCoachingStats(ctx context.Context, userID uuid.UUID) (*CoachingStats, error) {
	snapshot, err := s.quota.Peek(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalPrompts, err := s.history.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	recentUsage, err := s.usage.ListRecent(ctx, nil, userID, 7)
	if err != nil {
		return nil, err
	}
	recentHistory, err := s.history.GetRecent(ctx, nil, userID, 5)
	if err != nil {
		return nil, err
	}
	return &CoachingStats{
		TotalPrompts:  totalPrompts,
		DailyLimit:    snapshot.Limit,
		UsedToday:     snapshot.Count,
		RecentUsage:   recentUsage,
		RecentHistory: recentHistory,
	}, nil
}
