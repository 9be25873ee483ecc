package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/testoloji/akademi-backend/internal/clients/redis"
	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/sse"
)

// CoachingNotifier pushes job outcomes to the waiting client. Delivery is
// fire-and-forget: the job result is already persisted, the push is only a
// latency optimization over polling.
type CoachingNotifier interface {
	AnalysisComplete(ctx context.Context, userID uuid.UUID, jobID uuid.UUID, jobType string, result map[string]any)
	AnalysisFailed(ctx context.Context, userID uuid.UUID, jobID uuid.UUID, jobType string, message string)
}

type coachingNotifier struct {
	log *logger.Logger
	hub *sse.SSEHub
	bus redis.SSEBus // nil when single-instance
}

func NewCoachingNotifier(baseLog *logger.Logger, hub *sse.SSEHub, bus redis.SSEBus) CoachingNotifier {
	return &coachingNotifier{
		log: baseLog.With("service", "CoachingNotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *coachingNotifier) AnalysisComplete(ctx context.Context, userID uuid.UUID, jobID uuid.UUID, jobType string, result map[string]any) {
	data := map[string]any{
		"jobId":   jobID.String(),
		"jobType": jobType,
		"status":  "done",
	}
	for k, v := range result {
		data[k] = v
	}
	n.send(ctx, sse.SSEMessage{
		Channel: userChannel(userID),
		Event:   sse.SSEEventAnalysisComplete,
		Data:    data,
	})
}

func (n *coachingNotifier) AnalysisFailed(ctx context.Context, userID uuid.UUID, jobID uuid.UUID, jobType string, message string) {
	n.send(ctx, sse.SSEMessage{
		Channel: userChannel(userID),
		Event:   sse.SSEEventAnalysisError,
		Data: map[string]any{
			"jobId":   jobID.String(),
			"jobType": jobType,
			"status":  "failed",
			"message": message,
		},
	})
}

func (n *coachingNotifier) send(ctx context.Context, msg sse.SSEMessage) {
	n.hub.Broadcast(msg)
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("SSE bus publish failed", "channel", msg.Channel, "error", err)
		}
	}
}

func userChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}
