package app

import (
	"github.com/testoloji/akademi-backend/internal/handlers"
	"github.com/testoloji/akademi-backend/internal/sse"
)

type Handlers struct {
	Coaching *handlers.CoachingHandler
	Admin    *handlers.AdminHandler
	SSE      *handlers.SSEHandler
}

func wireHandlers(serviceset Services, reposet Repos, hub *sse.SSEHub) Handlers {
	return Handlers{
		Coaching: handlers.NewCoachingHandler(serviceset.Coaching),
		Admin:    handlers.NewAdminHandler(serviceset.Settings, reposet.AIUsageLog),
		SSE:      handlers.NewSSEHandler(hub),
	}
}
