package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/testoloji/akademi-backend/internal/repos"
	"github.com/testoloji/akademi-backend/internal/services"
)

// AdminHandler exposes runtime settings and the AI usage ledger rollup.
type AdminHandler struct {
	settings services.SettingsService
	usageLog repos.AIUsageLogRepo
}

func NewAdminHandler(settings services.SettingsService, usageLog repos.AIUsageLogRepo) *AdminHandler {
	return &AdminHandler{settings: settings, usageLog: usageLog}
}

// GET /api/admin/settings
func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.settings.ListSettings(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	// Credentials are never echoed back.
	out := make([]gin.H, 0, len(settings))
	for _, s := range settings {
		value := s.Value
		if strings.Contains(strings.ToUpper(s.Key), "KEY") && value != "" {
			value = "********"
		}
		out = append(out, gin.H{"key": s.Key, "value": value})
	}
	RespondOK(c, gin.H{"settings": out})
}

// PUT /api/admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var body struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.settings.SetSetting(c.Request.Context(), body.Key, body.Value); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"key": body.Key})
}

// GET /api/admin/ai-usage
func (h *AdminHandler) GetAIUsage(c *gin.Context) {
	ctx := c.Request.Context()
	totals, err := h.usageLog.Totals(ctx, nil)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	recent, err := h.usageLog.ListRecent(ctx, nil, 100)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"totals": totals,
		"recent": recent,
	})
}
