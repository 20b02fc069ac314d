package handlers

import (
	"net/http"

	"github.com/checkinto-io/checkinto-app/internal/auth"
	"github.com/checkinto-io/checkinto-app/internal/config"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(
	r *chi.Mux,
	cfg *config.Config,
	authHandler *auth.AuthHandler,
	eventHandler *EventHandler,
	checkinHandler *CheckinHandler,
	raffleHandler *RaffleHandler,
	apiKeyHandler *APIKeyHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if cfg.EnableCORS {
		r.Use(corsMiddleware)
	}

	// Initialize Huma API
	humaConfig := huma.DefaultConfig("CheckInto API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, humaConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)

	// Attendee-facing routes
	huma.Get(api, "/events/{eventId}", eventHandler.HandleGetEvent)
	huma.Get(api, "/events/{eventId}/registered", checkinHandler.HandleEmailRegistered)
	huma.Post(api, "/events/{eventId}/checkin", checkinHandler.HandleCheckIn)
	huma.Get(api, "/events/{eventId}/raffle/winners", raffleHandler.HandleWinners)

	// Organizer routes sit behind the session middleware, which rejects
	// missing credentials early and gives browser cookies their sliding
	// refresh. Handlers still resolve the caller via Authorize.
	organizerSecurity := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
	}
	organizerConfig := huma.DefaultConfig("CheckInto API", "1.0.0")
	organizerConfig.Components.SecuritySchemes = humaConfig.Components.SecuritySchemes
	// The public API instance already serves the docs endpoints.
	organizerConfig.OpenAPIPath = ""
	organizerConfig.DocsPath = ""
	organizerConfig.SchemasPath = ""

	r.Group(func(g chi.Router) {
		g.Use(authHandler.AuthMiddleware)
		organizerAPI := humachi.New(g, organizerConfig)

		huma.Get(organizerAPI, "/me", authHandler.HandleMe, organizerSecurity)
		huma.Post(organizerAPI, "/events/{eventId}/raffle", raffleHandler.HandleSelectWinner, organizerSecurity)
		huma.Post(organizerAPI, "/api-keys", apiKeyHandler.HandleCreate, organizerSecurity)
		huma.Get(organizerAPI, "/api-keys", apiKeyHandler.HandleList, organizerSecurity)
		huma.Delete(organizerAPI, "/api-keys/{id}", apiKeyHandler.HandleDelete, organizerSecurity)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-api-key, content-type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
