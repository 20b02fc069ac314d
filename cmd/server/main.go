package main

import (
	"fmt"
	"net/http"

	"github.com/checkinto-io/checkinto-app/internal/auth"
	"github.com/checkinto-io/checkinto-app/internal/checkin"
	"github.com/checkinto-io/checkinto-app/internal/config"
	"github.com/checkinto-io/checkinto-app/internal/database"
	"github.com/checkinto-io/checkinto-app/internal/handlers"
	"github.com/checkinto-io/checkinto-app/internal/logger"
	"github.com/checkinto-io/checkinto-app/internal/notifier"
	"github.com/checkinto-io/checkinto-app/internal/raffle"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifier
	var n notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg, log)
	if err != nil {
		log.Warn("Discord notifier not initialized", zap.Error(err))
	} else {
		n = discordNotifier
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	orchestrator := checkin.NewOrchestrator(db, log)
	selector := raffle.NewSelector(db, log)

	eventHandler := handlers.NewEventHandler(orchestrator, cfg.CommunityProfile, log)
	checkinHandler := handlers.NewCheckinHandler(orchestrator, n, log)
	raffleHandler := handlers.NewRaffleHandler(db, selector, n, authHandler, log)
	apiKeyHandler := handlers.NewAPIKeyHandler(db, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, authHandler, eventHandler, checkinHandler, raffleHandler, apiKeyHandler)

	// Start Server
	log.Info("Starting server", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
