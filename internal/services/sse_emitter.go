package services

import (
	"context"

	redisclient "github.com/yungbote/insightpath-backend/internal/clients/redis"
	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/sse"
)

// SSEEmitter decouples workflow services from how realtime messages reach
// connected clients. The default emitter broadcasts on the local hub and,
// when a redis bus is configured, publishes so other instances see the
// message too.
type SSEEmitter interface {
	Emit(ctx context.Context, msg sse.SSEMessage)
}

type sseEmitter struct {
	log *logger.Logger
	hub *sse.SSEHub
	bus redisclient.SSEBus
}

func NewSSEEmitter(log *logger.Logger, hub *sse.SSEHub, bus redisclient.SSEBus) SSEEmitter {
	return &sseEmitter{
		log: log.With("service", "SSEEmitter"),
		hub: hub,
		bus: bus,
	}
}

func (e *sseEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	if e == nil || msg.Channel == "" {
		return
	}
	if e.bus != nil {
		if err := e.bus.Publish(ctx, msg); err != nil {
			e.log.Warn("redis publish failed; falling back to local broadcast", "error", err)
			if e.hub != nil {
				e.hub.Broadcast(msg)
			}
		}
		return
	}
	if e.hub != nil {
		e.hub.Broadcast(msg)
	}
}
