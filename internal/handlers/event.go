package handlers

import (
	"context"
	"errors"

	"github.com/checkinto-io/checkinto-app/internal/checkin"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

type EventHandler struct {
	orchestrator *checkin.Orchestrator
	// defaultProfile scopes lookups to one community when the deployment
	// serves a single community's subdomain.
	defaultProfile string
	log            *zap.Logger
}

func NewEventHandler(orchestrator *checkin.Orchestrator, defaultProfile string, log *zap.Logger) *EventHandler {
	return &EventHandler{orchestrator: orchestrator, defaultProfile: defaultProfile, log: log}
}

type GetEventRequest struct {
	EventID string `path:"eventId" doc:"Event URL slug"`
	Profile string `query:"profile" required:"false" doc:"Community subdomain filter"`
}

type GetEventResponse struct {
	Body struct {
		Event models.Event `json:"event"`
	}
}

// HandleGetEvent is the page-load lookup: missing or inactive events are a
// not-found condition, never a retryable error.
func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*GetEventResponse, error) {
	profile := input.Profile
	if profile == "" {
		profile = h.defaultProfile
	}

	event, err := h.orchestrator.GetEventByURLID(ctx, input.EventID, profile)
	if err != nil {
		if errors.Is(err, checkin.ErrEventNotFound) {
			return nil, huma.Error404NotFound("Event not found or inactive")
		}
		h.log.Error("Event load failed", zap.String("url_id", input.EventID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to load event")
	}

	res := &GetEventResponse{}
	res.Body.Event = *event
	return res, nil
}
