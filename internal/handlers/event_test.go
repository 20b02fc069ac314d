package handlers

import (
	"context"
	"testing"

	"github.com/checkinto-io/checkinto-app/internal/checkin"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"go.uber.org/zap"
)

func TestHandleGetEvent(t *testing.T) {
	db, event := setupHandlerDB(t)
	orchestrator := checkin.NewOrchestrator(db, zap.NewNop())
	handler := NewEventHandler(orchestrator, "", zap.NewNop())

	t.Run("Found", func(t *testing.T) {
		resp, err := handler.HandleGetEvent(context.Background(), &GetEventRequest{EventID: "go-meetup"})
		if err != nil {
			t.Fatalf("HandleGetEvent returned error: %v", err)
		}
		if resp.Body.Event.ID != event.ID {
			t.Errorf("expected event %s, got %s", event.ID, resp.Body.Event.ID)
		}
		if resp.Body.Event.Community.Subdomain != "gophers" {
			t.Errorf("expected community preloaded, got %+v", resp.Body.Event.Community)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := handler.HandleGetEvent(context.Background(), &GetEventRequest{EventID: "missing"})
		if err == nil {
			t.Fatal("expected not-found error, got nil")
		}
	})

	t.Run("Inactive", func(t *testing.T) {
		db.Model(&models.Event{}).Where("id = ?", event.ID).Update("active", false)
		defer db.Model(&models.Event{}).Where("id = ?", event.ID).Update("active", true)

		_, err := handler.HandleGetEvent(context.Background(), &GetEventRequest{EventID: "go-meetup"})
		if err == nil {
			t.Fatal("expected not-found error for inactive event, got nil")
		}
	})

	t.Run("ProfileFilter", func(t *testing.T) {
		_, err := handler.HandleGetEvent(context.Background(), &GetEventRequest{EventID: "go-meetup", Profile: "rustaceans"})
		if err == nil {
			t.Fatal("expected not-found error under foreign community, got nil")
		}
	})

	t.Run("DefaultProfile", func(t *testing.T) {
		scoped := NewEventHandler(orchestrator, "rustaceans", zap.NewNop())
		if _, err := scoped.HandleGetEvent(context.Background(), &GetEventRequest{EventID: "go-meetup"}); err == nil {
			t.Fatal("expected not-found error under foreign default profile, got nil")
		}

		scoped = NewEventHandler(orchestrator, "gophers", zap.NewNop())
		if _, err := scoped.HandleGetEvent(context.Background(), &GetEventRequest{EventID: "go-meetup"}); err != nil {
			t.Fatalf("expected match under owning default profile, got %v", err)
		}
	})
}
