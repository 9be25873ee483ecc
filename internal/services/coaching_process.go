package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/testoloji/akademi-backend/internal/types"
)

const (
	aiActionQuestionHelp = "question_help"
	aiActionExamAnalysis = "exam_analysis"
	aiActionCoachingChat = "coaching_chat"
)

// ProcessAskAI is the worker-side half of AskAI. The quota is re-checked
// here: the API-side check only gates enqueueing, and other jobs may have
// spent the allowance since.
func (s *coachingService) ProcessAskAI(ctx context.Context, job *types.CoachingJob) (map[string]any, error) {
	var req AskAIRequest
	if err := json.Unmarshal(job.Payload, &req); err != nil {
		return nil, fmt.Errorf("bad ask_ai payload: %w", err)
	}

	check, err := s.quota.CheckAndReserve(ctx, job.UserID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, ErrQuotaExceeded
	}

	// Older clients omit the correct answer; recover it from the question row.
	if req.CorrectAnswer == "" {
		if questionID, parseErr := uuid.Parse(req.QuestionID); parseErr == nil {
			question, qErr := s.questions.GetByID(ctx, nil, questionID)
			if qErr != nil {
				s.log.Warn("Question lookup failed", "question_id", req.QuestionID, "error", qErr)
			} else if question != nil {
				req.CorrectAnswer = question.CorrectAnswer
			}
		}
	}

	prompt := BuildQuestionPrompt(req)
	gen, err := s.genai.Generate(ctx, aiActionQuestionHelp, &job.UserID, []Part{{Text: prompt}})
	if err != nil {
		return nil, err
	}
	analysis := AppendFooter(gen.Text, gen.ModelName)

	entry := &types.CoachingHistory{
		ID:       uuid.New(),
		UserID:   job.UserID,
		Query:    fmt.Sprintf("Soru yardımı (Soru: %s, Cevabım: %s)", req.QuestionID, displayAnswer(req.UserAnswer)),
		Response: analysis,
		Action:   types.ActionChat,
	}
	if err := s.history.Create(ctx, nil, entry); err != nil {
		s.log.Warn("Coaching history write failed", "user_id", job.UserID, "error", err)
	}

	if err := s.quota.Commit(ctx, job.UserID); err != nil {
		s.log.Error("Quota commit failed", "user_id", job.UserID, "error", err)
	}

	return map[string]any{
		"analysis":  analysis,
		"model":     gen.ModelName,
		"remaining": remainingAfterCommit(check),
	}, nil
}

// ProcessAnalyzeProgress runs the full progress pipeline: classify the query,
// gather student context, attach the exam PDF when asked for one, call the
// provider and persist the outcome.
func (s *coachingService) ProcessAnalyzeProgress(ctx context.Context, job *types.CoachingJob) (map[string]any, error) {
	var payload analyzeJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("bad analyze_progress payload: %w", err)
	}

	check, err := s.quota.CheckAndReserve(ctx, job.UserID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, ErrQuotaExceeded
	}

	targetUserID := job.UserID
	if payload.TargetUserID != "" {
		if parsed, parseErr := uuid.Parse(payload.TargetUserID); parseErr == nil {
			targetUserID = parsed
		}
	}

	recent, err := s.history.GetRecent(ctx, nil, targetUserID, maxHistoryTurns)
	if err != nil {
		s.log.Warn("History lookup failed", "user_id", targetUserID, "error", err)
		recent = nil
	}
	// GetRecent is newest first; the prompt replays oldest first.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	student := s.resolveStudentContext(ctx, payload, targetUserID)

	// A snapshot supplied at submission time wins; fetching is the fallback.
	studentData := payload.StudentData
	if studentData == nil && student != nil {
		studentData, err = s.overview.GetStudentOverview(ctx, student.ID)
		if err != nil {
			s.log.Warn("Student overview failed", "student_id", student.ID, "error", err)
			studentData = nil
		}
		if studentData != nil {
			summary, sumErr := s.schedules.GetScheduleSummary(ctx, student.ID)
			if sumErr != nil {
				s.log.Warn("Schedule summary failed", "student_id", student.ID, "error", sumErr)
			} else {
				studentData.ScheduleSummary = summary
			}
		}
	}

	examRequested := IsExamAnalysisQuery(payload.Query)

	var pdfPart *Part
	var examAssignment *types.Assignment
	var degradeNote string
	if examRequested {
		if student == nil {
			degradeNote = "\n\nNot: Öğrenci profili bulunamadı, sınav dosyası eklenemedi. Genel bir değerlendirme yap."
		} else {
			examAssignment, err = s.assignments.GetLatestCompletedByStudent(ctx, nil, student.ID)
			if err != nil {
				return nil, err
			}
			switch {
			case examAssignment == nil:
				degradeNote = "\n\nNot: Öğrencinin tamamlanmış bir sınavı bulunamadı, sınav dosyası eklenemedi. Genel bir değerlendirme yap."
			case examAssignment.AIAnalysis != "":
				// Write-once cache: an exam is analyzed at most once.
				return map[string]any{
					"analysis": examAssignment.AIAnalysis,
					"cached":   true,
				}, nil
			default:
				pdfPart = s.buildExamPart(ctx, examAssignment)
				if pdfPart == nil {
					degradeNote = "\n\nNot: Sınav dosyası oluşturulamadı, sınav içeriği olmadan değerlendirme yap."
				}
			}
		}
	}

	examMode := pdfPart != nil
	prompt := BuildAnalysisPrompt(payload.Query, studentData, recent, examMode) + degradeNote

	parts := []Part{{Text: prompt}}
	if pdfPart != nil {
		parts = append(parts, *pdfPart)
	}

	ledgerAction := aiActionCoachingChat
	if examMode {
		ledgerAction = aiActionExamAnalysis
	}
	gen, err := s.genai.Generate(ctx, ledgerAction, &job.UserID, parts)
	if err != nil {
		return nil, err
	}
	analysis := AppendFooter(gen.Text, gen.ModelName)

	// Report-style queries stay tagged as reports even when an exam document
	// rode along, so the same-day cache can find them later.
	historyAction := types.ActionChat
	switch {
	case IsGeneralReportQuery(payload.Query):
		historyAction = types.ActionProgressAnalysis
	case examMode:
		historyAction = types.ActionAnalysis
	}

	entry := &types.CoachingHistory{
		ID:       uuid.New(),
		UserID:   targetUserID,
		Query:    payload.Query,
		Response: analysis,
		Action:   historyAction,
	}
	if examMode && examAssignment != nil {
		entry.AssignmentID = &examAssignment.ID
	}
	if err := s.history.Create(ctx, nil, entry); err != nil {
		s.log.Warn("Coaching history write failed", "user_id", targetUserID, "error", err)
	}

	if examMode && examAssignment != nil {
		if err := s.assignments.SetAIAnalysis(ctx, nil, examAssignment.ID, analysis); err != nil {
			s.log.Warn("Exam analysis cache write failed", "assignment_id", examAssignment.ID, "error", err)
		}
	}

	if err := s.quota.Commit(ctx, job.UserID); err != nil {
		s.log.Error("Quota commit failed", "user_id", job.UserID, "error", err)
	}

	if historyAction == types.ActionProgressAnalysis {
		notification := &types.Notification{
			UserID: targetUserID,
			Title:  "Gelişim Raporun Hazır",
			Body:   "Yapay zeka koçun senin için yeni bir gelişim raporu hazırladı.",
		}
		if err := s.notifications.Create(ctx, nil, notification); err != nil {
			s.log.Warn("Notification write failed", "user_id", targetUserID, "error", err)
		}
	}

	return map[string]any{
		"analysis":  analysis,
		"model":     gen.ModelName,
		"remaining": remainingAfterCommit(check),
	}, nil
}

// resolveStudentContext finds the student profile the analysis is about.
// Failures only degrade the prompt, they never fail the job.
func (s *coachingService) resolveStudentContext(ctx context.Context, payload analyzeJobPayload, targetUserID uuid.UUID) *types.Student {
	if payload.StudentID != "" {
		if studentID, err := uuid.Parse(payload.StudentID); err == nil {
			student, err := s.students.GetByID(ctx, nil, studentID)
			if err != nil {
				s.log.Warn("Student lookup failed", "student_id", payload.StudentID, "error", err)
			}
			if student != nil {
				return student
			}
		}
	}
	student, err := s.students.GetByUserID(ctx, nil, targetUserID)
	if err != nil {
		s.log.Warn("Student lookup by user failed", "user_id", targetUserID, "error", err)
		return nil
	}
	return student
}

// buildExamPart renders the exam PDF as an inline provider part, or nil when
// rendering is impossible.
func (s *coachingService) buildExamPart(ctx context.Context, assignment *types.Assignment) *Part {
	if assignment.ProjectID == nil {
		return nil
	}
	questions, err := s.questions.ListByProject(ctx, nil, *assignment.ProjectID)
	if err != nil {
		s.log.Warn("Question list failed", "project_id", assignment.ProjectID, "error", err)
		return nil
	}
	if len(questions) == 0 {
		return nil
	}
	encoded, err := s.examPDF.BuildExamPDF(ctx, assignment, questions)
	if err != nil {
		s.log.Warn("Exam PDF build failed", "assignment_id", assignment.ID, "error", err)
		return nil
	}
	return &Part{
		InlineData: &InlineData{
			MIMEType: "application/pdf",
			Data:     encoded,
		},
	}
}

func remainingAfterCommit(check *QuotaCheck) int {
	remaining := check.Remaining - 1
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
