package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/checkinto-io/checkinto-app/internal/auth"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"github.com/checkinto-io/checkinto-app/internal/notifier"
	"github.com/checkinto-io/checkinto-app/internal/raffle"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RaffleHandler struct {
	db          *gorm.DB
	selector    *raffle.Selector
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
	log         *zap.Logger
}

func NewRaffleHandler(db *gorm.DB, selector *raffle.Selector, n notifier.Notifier, authHandler *auth.AuthHandler, log *zap.Logger) *RaffleHandler {
	return &RaffleHandler{db: db, selector: selector, notifier: n, authHandler: authHandler, log: log}
}

// findEvent resolves the URL slug without the active filter: organizers
// may draw winners after an event is deactivated.
func (h *RaffleHandler) findEvent(ctx context.Context, urlID string) (*models.Event, error) {
	var event models.Event
	err := h.db.WithContext(ctx).Where("url_id = ?", urlID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

type SelectWinnerRequest struct {
	auth.AuthInput
	EventID string `path:"eventId" doc:"Event URL slug"`
}

type SelectWinnerResponse struct {
	Body struct {
		Success bool          `json:"success"`
		Winner  raffle.Winner `json:"winner"`
		Message string        `json:"message"`
	}
}

func (h *RaffleHandler) HandleSelectWinner(ctx context.Context, input *SelectWinnerRequest) (*SelectWinnerResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	event, err := h.findEvent(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		h.log.Error("Raffle event lookup failed", zap.String("url_id", input.EventID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to load event")
	}

	winner, err := h.selector.SelectWinner(ctx, event.ID)
	if err != nil {
		if errors.Is(err, raffle.ErrNoEligibleAttendees) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		h.log.Error("Raffle draw failed", zap.String("event_id", event.ID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to select winner: " + err.Error())
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyRaffleWinner(event, winner); err != nil {
			h.log.Warn("Raffle winner notification failed", zap.Error(err))
		}
	}

	res := &SelectWinnerResponse{}
	res.Body.Success = true
	res.Body.Winner = *winner
	res.Body.Message = "Successfully selected winner for round " + strconv.Itoa(winner.RaffleRound)
	return res, nil
}

type ListWinnersRequest struct {
	EventID string `path:"eventId" doc:"Event URL slug"`
}

type ListWinnersResponse struct {
	Body struct {
		Winners []raffle.Winner `json:"winners"`
	}
}

func (h *RaffleHandler) HandleWinners(ctx context.Context, input *ListWinnersRequest) (*ListWinnersResponse, error) {
	event, err := h.findEvent(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		h.log.Error("Winners event lookup failed", zap.String("url_id", input.EventID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to load event")
	}

	winners, err := h.selector.Winners(ctx, event.ID)
	if err != nil {
		h.log.Error("Winners query failed", zap.String("event_id", event.ID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to list winners")
	}

	res := &ListWinnersResponse{}
	res.Body.Winners = winners
	return res, nil
}
