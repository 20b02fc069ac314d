package handlers

import (
	"context"
	"errors"

	"github.com/checkinto-io/checkinto-app/internal/checkin"
	"github.com/checkinto-io/checkinto-app/internal/form"
	"github.com/checkinto-io/checkinto-app/internal/notifier"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

type CheckinHandler struct {
	orchestrator *checkin.Orchestrator
	notifier     notifier.Notifier
	log          *zap.Logger
}

func NewCheckinHandler(orchestrator *checkin.Orchestrator, n notifier.Notifier, log *zap.Logger) *CheckinHandler {
	return &CheckinHandler{orchestrator: orchestrator, notifier: n, log: log}
}

type CheckInRequest struct {
	EventID string `path:"eventId" doc:"Event URL slug"`
	Body    struct {
		FirstName       string `json:"first_name" doc:"Attendee first name"`
		LastName        string `json:"last_name" doc:"Attendee last name"`
		Email           string `json:"email" doc:"Attendee email"`
		InterestingFact string `json:"interesting_fact" doc:"An interesting fact about the attendee"`
	}
}

type CheckInResponse struct {
	Body checkin.Result
}

func (h *CheckinHandler) HandleCheckIn(ctx context.Context, input *CheckInRequest) (*CheckInResponse, error) {
	data := form.Data{
		FirstName:       input.Body.FirstName,
		LastName:        input.Body.LastName,
		Email:           input.Body.Email,
		InterestingFact: input.Body.InterestingFact,
	}

	if validation := form.Validate(data); !validation.Valid() {
		var details []error
		for field, message := range validation.Fields() {
			details = append(details, &huma.ErrorDetail{
				Message:  message,
				Location: "body." + field,
			})
		}
		return nil, huma.Error422UnprocessableEntity("Validation failed", details...)
	}

	result := h.orchestrator.CheckIn(ctx, input.EventID, data)
	if !result.Success {
		if result.NotFound {
			return nil, huma.Error404NotFound(result.Message)
		}
		return nil, huma.Error500InternalServerError(result.Message)
	}

	if h.notifier != nil && !result.IsExistingAttendee {
		if event, err := h.orchestrator.GetEventByURLID(ctx, input.EventID, ""); err == nil {
			if err := h.notifier.NotifyCheckIn(event, result.Attendee); err != nil {
				h.log.Warn("Check-in notification failed", zap.Error(err))
			}
		}
	}

	return &CheckInResponse{Body: result}, nil
}

type EmailRegisteredRequest struct {
	EventID string `path:"eventId" doc:"Event URL slug"`
	Email   string `query:"email" doc:"Email to check"`
}

type EmailRegisteredResponse struct {
	Body struct {
		Registered bool `json:"registered"`
	}
}

// HandleEmailRegistered backs the form's debounced already-registered
// probe. It is advisory: errors degrade to "not registered" so a
// legitimate submission is never blocked by a flaky probe.
func (h *CheckinHandler) HandleEmailRegistered(ctx context.Context, input *EmailRegisteredRequest) (*EmailRegisteredResponse, error) {
	res := &EmailRegisteredResponse{}

	event, err := h.orchestrator.GetEventByURLID(ctx, input.EventID, "")
	if err != nil {
		if errors.Is(err, checkin.ErrEventNotFound) {
			return nil, huma.Error404NotFound("Event not found or inactive")
		}
		h.log.Warn("Email probe event lookup failed", zap.Error(err))
		return res, nil
	}

	registered, err := h.orchestrator.IsEmailRegisteredForEvent(ctx, event.ID, input.Email)
	if err != nil {
		h.log.Warn("Email probe failed", zap.String("event_id", event.ID), zap.Error(err))
		return res, nil
	}

	res.Body.Registered = registered
	return res, nil
}
