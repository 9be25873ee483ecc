package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testoloji/akademi-backend/internal/requestdata"
	"github.com/testoloji/akademi-backend/internal/sse"
)

type SSEHandler struct {
	hub *sse.SSEHub
}

func NewSSEHandler(hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// GET /api/sse/stream
//
// Every client is subscribed to its own user channel; job results for that
// user arrive without an explicit subscribe round trip.
func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	client := h.hub.NewSSEClient(rd.UserID)
	h.hub.AddChannel(client, "user:"+rd.UserID.String())
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
