package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/linkplay/internal/model"
)

// Publisher pushes JSON events to a user's open streams.
// Users with no open stream are skipped.
type Publisher struct {
	manager *HubManager
	logger  *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(manager *HubManager, logger *slog.Logger) *Publisher {
	return &Publisher{
		manager: manager,
		logger:  logger.With(slog.String("component", "sse-publisher")),
	}
}

// Publish sends payload as JSON under the given event name
func (p *Publisher) Publish(userID model.UserID, event string, payload any) {
	hub := p.manager.GetHub(userID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("sse failed to encode event",
			slog.String("event", event),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(event, string(data))
}
