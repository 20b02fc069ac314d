package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/checkinto-io/checkinto-app/internal/auth"
	"github.com/checkinto-io/checkinto-app/internal/checkin"
	"github.com/checkinto-io/checkinto-app/internal/config"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"github.com/checkinto-io/checkinto-app/internal/raffle"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*chi.Mux, *gorm.DB, *config.Config) {
	t.Helper()

	db, _ := setupHandlerDB(t)
	cfg := &config.Config{JWTSecret: "test-secret"}

	authHandler := auth.NewAuthHandler(cfg, db)
	orchestrator := checkin.NewOrchestrator(db, zap.NewNop())
	selector := raffle.NewSelector(db, zap.NewNop())

	r := chi.NewRouter()
	RegisterRoutes(r, cfg,
		authHandler,
		NewEventHandler(orchestrator, "", zap.NewNop()),
		NewCheckinHandler(orchestrator, nil, zap.NewNop()),
		NewRaffleHandler(db, selector, nil, authHandler, zap.NewNop()),
		NewAPIKeyHandler(db, authHandler),
	)
	return r, db, cfg
}

func signedToken(t *testing.T, secret string, userID uint, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestOrganizerRoutesRequireSession(t *testing.T) {
	r, db, cfg := setupRouter(t)

	user := models.User{DiscordID: "42", Username: "organizer"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create organizer: %v", err)
	}

	t.Run("PublicRouteOpen", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/events/go-meetup", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected 200 for public event route, got %d", rr.Code)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		for _, route := range []struct{ method, path string }{
			{"GET", "/me"},
			{"POST", "/events/go-meetup/raffle"},
			{"GET", "/api-keys"},
		} {
			req := httptest.NewRequest(route.method, route.path, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("%s %s: expected 401 without credentials, got %d",
					route.method, route.path, rr.Code)
			}
		}
	})

	t.Run("CookieRefreshedNearExpiry", func(t *testing.T) {
		token := signedToken(t, cfg.JWTSecret, user.ID, 2*time.Hour)

		req := httptest.NewRequest("GET", "/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}

		refreshed := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == "auth_token" && c.Value != token {
				refreshed = true
			}
		}
		if !refreshed {
			t.Error("expected a refreshed auth_token cookie on a near-expiry session")
		}
	})

	t.Run("CookieNotRefreshedWhenFresh", func(t *testing.T) {
		token := signedToken(t, cfg.JWTSecret, user.ID, 23*time.Hour)

		req := httptest.NewRequest("GET", "/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == "auth_token" {
				t.Error("did not expect a refreshed cookie on a fresh session")
			}
		}
	})
}
