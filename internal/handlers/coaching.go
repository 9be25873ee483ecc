package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/testoloji/akademi-backend/internal/requestdata"
	"github.com/testoloji/akademi-backend/internal/services"
)

type CoachingHandler struct {
	coaching services.CoachingService
}

func NewCoachingHandler(coaching services.CoachingService) *CoachingHandler {
	return &CoachingHandler{coaching: coaching}
}

// POST /api/coaching/ask
func (h *CoachingHandler) AskAI(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req services.AskAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.coaching.AskAI(c.Request.Context(), rd.UserID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// POST /api/coaching/analyze-progress
func (h *CoachingHandler) AnalyzeProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req services.AnalyzeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.coaching.AnalyzeProgress(c.Request.Context(), rd.UserID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if result.Cached {
		RespondOK(c, result)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// POST /api/coaching/students/:studentId/analyze
func (h *CoachingHandler) AnalyzeStudent(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	studentID, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	var req services.AnalyzeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.coaching.AnalyzeStudentForTeacher(c.Request.Context(), rd, studentID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if result.Cached {
		RespondOK(c, result)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// GET /api/coaching/usage
func (h *CoachingHandler) GetUsage(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	snapshot, err := h.coaching.GetUsage(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, snapshot)
}

// GET /api/coaching/jobs/:id
func (h *CoachingHandler) GetJob(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	job, err := h.coaching.GetJob(c.Request.Context(), rd.UserID, jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"job": job})
}

// GET /api/coaching/history
func (h *CoachingHandler) GetHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	page, limit := paginationParams(c)
	result, err := h.coaching.GetHistory(c.Request.Context(), rd.UserID, c.Query("action"), page, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/coaching/students/:studentId/history
func (h *CoachingHandler) GetStudentHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	studentID, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	page, limit := paginationParams(c)
	result, err := h.coaching.GetStudentHistoryForTeacher(c.Request.Context(), rd, studentID, page, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/coaching/assignments/:assignmentId/analysis
func (h *CoachingHandler) GetAssignmentAnalysis(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	assignmentID, err := uuid.Parse(c.Param("assignmentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_assignment_id", err)
		return
	}
	result, err := h.coaching.GetAssignmentAnalysis(c.Request.Context(), rd, assignmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// PATCH /api/coaching/daily-limit/:userId
func (h *CoachingHandler) UpdateDailyLimit(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var body struct {
		Limit *int `json:"limit" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.coaching.UpdateDailyLimit(c.Request.Context(), userID, *body.Limit); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"userId": userID, "limit": *body.Limit})
}

// GET /api/coaching/:userId/stats
func (h *CoachingHandler) GetUserStats(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	stats, err := h.coaching.GetUserCoachingStats(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, stats)
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}
	return page, limit
}
