package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/types"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) UpdateDailyLimit(_ context.Context, _ *gorm.DB, id uuid.UUID, limit int) error {
	if u, ok := f.users[id]; ok {
		u.DailyAILimit = &limit
	}
	return nil
}

type fakeAIUsageRepo struct {
	counts map[string]int
}

func usageKey(userID uuid.UUID, date string) string {
	return userID.String() + "|" + date
}

func (f *fakeAIUsageRepo) Get(_ context.Context, _ *gorm.DB, userID uuid.UUID, date string) (*types.AIUsage, error) {
	count, ok := f.counts[usageKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &types.AIUsage{ID: uuid.New(), UserID: userID, Date: date, Count: count}, nil
}

func (f *fakeAIUsageRepo) Increment(_ context.Context, _ *gorm.DB, userID uuid.UUID, date string) error {
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[usageKey(userID, date)]++
	return nil
}

func (f *fakeAIUsageRepo) ListRecent(_ context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*types.AIUsage, error) {
	var out []*types.AIUsage
	for key, count := range f.counts {
		if len(key) > 37 && key[:36] == userID.String() {
			out = append(out, &types.AIUsage{ID: uuid.New(), UserID: userID, Date: key[37:], Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*types.Student
}

func (f *fakeStudentRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Student, error) {
	return f.students[id], nil
}

func (f *fakeStudentRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.Student, error) {
	for _, s := range f.students {
		if s.UserID != nil && *s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) GetByIDForTeacher(_ context.Context, _ *gorm.DB, id, teacherID uuid.UUID) (*types.Student, error) {
	s := f.students[id]
	if s == nil || s.TeacherID != teacherID {
		return nil, nil
	}
	return s, nil
}

type fakeQuestionRepo struct {
	byProject map[uuid.UUID][]*types.Question
}

func (f *fakeQuestionRepo) ListByProject(_ context.Context, _ *gorm.DB, projectID uuid.UUID) ([]*types.Question, error) {
	return f.byProject[projectID], nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Question, error) {
	for _, questions := range f.byProject {
		for _, q := range questions {
			if q.ID == id {
				return q, nil
			}
		}
	}
	return nil, nil
}

type fakeAssignmentRepo struct {
	assignments map[uuid.UUID]*types.Assignment
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Assignment, error) {
	return f.assignments[id], nil
}

func (f *fakeAssignmentRepo) GetLatestCompletedByStudent(_ context.Context, _ *gorm.DB, studentID uuid.UUID) (*types.Assignment, error) {
	var latest *types.Assignment
	for _, a := range f.assignments {
		if a.StudentID != studentID || a.Status != types.AssignmentStatusCompleted || a.ProjectID == nil {
			continue
		}
		if latest == nil || (a.CompletedAt != nil && latest.CompletedAt != nil && a.CompletedAt.After(*latest.CompletedAt)) {
			latest = a
		}
	}
	return latest, nil
}

func (f *fakeAssignmentRepo) ListCompletedByStudent(_ context.Context, _ *gorm.DB, studentID uuid.UUID, limit int) ([]*types.Assignment, error) {
	var out []*types.Assignment
	for _, a := range f.assignments {
		if a.StudentID == studentID && a.Status == types.AssignmentStatusCompleted {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedAt == nil || out[j].CompletedAt == nil {
			return false
		}
		return out[i].CompletedAt.After(*out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAssignmentRepo) SetAIAnalysis(_ context.Context, _ *gorm.DB, id uuid.UUID, analysis string) error {
	if a, ok := f.assignments[id]; ok {
		a.AIAnalysis = analysis
	}
	return nil
}

type fakeHistoryRepo struct {
	entries []*types.CoachingHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, _ *gorm.DB, entry *types.CoachingHistory) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryRepo) forUser(userID uuid.UUID, action string) []*types.CoachingHistory {
	var out []*types.CoachingHistory
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		if action != "" && e.Action != action {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeHistoryRepo) ListPage(_ context.Context, _ *gorm.DB, userID uuid.UUID, action string, page, limit int) ([]*types.CoachingHistory, int64, error) {
	all := f.forUser(userID, action)
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeHistoryRepo) GetRecent(_ context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*types.CoachingHistory, error) {
	all := f.forUser(userID, "")
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeHistoryRepo) GetLatestSince(_ context.Context, _ *gorm.DB, userID uuid.UUID, action string, since time.Time) (*types.CoachingHistory, error) {
	for _, e := range f.forUser(userID, action) {
		if !e.CreatedAt.Before(since) {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeHistoryRepo) CountByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) (int64, error) {
	return int64(len(f.forUser(userID, ""))), nil
}

type fakeJobRepo struct {
	jobs []*types.CoachingJob
}

func (f *fakeJobRepo) Enqueue(_ context.Context, _ *gorm.DB, job *types.CoachingJob) (*types.CoachingJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = types.JobStatusQueued
	job.CreatedAt = time.Now()
	f.jobs = append(f.jobs, job)
	return job, nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.CoachingJob, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) ClaimNextRunnable(_ context.Context, _ *gorm.DB, _ time.Duration) (*types.CoachingJob, error) {
	for _, j := range f.jobs {
		if j.Status == types.JobStatusQueued {
			j.Status = types.JobStatusRunning
			j.Attempts++
			now := time.Now()
			j.LockedAt = &now
			return j, nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	for _, j := range f.jobs {
		if j.ID != id {
			continue
		}
		if status, ok := updates["status"].(string); ok {
			j.Status = status
		}
		if lastError, ok := updates["last_error"].(string); ok {
			j.LastError = lastError
		}
		if finishedAt, ok := updates["finished_at"].(time.Time); ok {
			j.FinishedAt = &finishedAt
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	notifications []*types.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, _ *gorm.DB, n *types.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, _ int) ([]*types.Notification, error) {
	var out []*types.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeScheduleRepo struct {
	schedules []*types.Schedule
}

func (f *fakeScheduleRepo) ListRecentByStudent(_ context.Context, _ *gorm.DB, studentID uuid.UUID, since time.Time) ([]*types.Schedule, error) {
	var out []*types.Schedule
	for _, s := range f.schedules {
		if s.StudentID != studentID {
			continue
		}
		if s.Date == nil || !s.Date.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

type genCall struct {
	action string
	parts  []Part
}

type fakeGenAI struct {
	text  string
	model string
	err   error
	calls []genCall
}

func (f *fakeGenAI) Generate(_ context.Context, action string, _ *uuid.UUID, parts []Part) (*Generation, error) {
	f.calls = append(f.calls, genCall{action: action, parts: parts})
	if f.err != nil {
		return nil, f.err
	}
	model := f.model
	if model == "" {
		model = defaultModelName
	}
	return &Generation{Text: f.text, ModelName: model}, nil
}

type fakeExamPDF struct {
	encoded string
	err     error
	calls   int
}

func (f *fakeExamPDF) BuildExamPDF(_ context.Context, _ *types.Assignment, _ []*types.Question) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.encoded, nil
}
