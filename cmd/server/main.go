package main

import (
	"log/slog"
	"os"

	"github.com/RubeldiRubelda/merryweihnachten/internal/config"
	"github.com/RubeldiRubelda/merryweihnachten/internal/database"
	"github.com/RubeldiRubelda/merryweihnachten/internal/logging"
	"github.com/RubeldiRubelda/merryweihnachten/internal/server"
	"github.com/RubeldiRubelda/merryweihnachten/internal/services"
	"github.com/RubeldiRubelda/merryweihnachten/internal/ws"

	_ "github.com/RubeldiRubelda/merryweihnachten/docs"

	"github.com/joho/godotenv"
)

// @title           Party Game API
// @version         1.0
// @description     Event backend: participant registration, team assignment, points and a public leaderboard
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	participantService := services.NewParticipantService(db)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.AdminPassword)

	if cfg.SeedFile != "" {
		if err := services.SeedParticipants(participantService, cfg.SeedFile); err != nil {
			slog.Error("failed to seed participants", "error", err)
			os.Exit(1)
		}
	}

	hub := ws.NewHub()

	r := server.New(server.Deps{
		Config:             cfg,
		DB:                 db,
		AuthService:        authService,
		ParticipantService: participantService,
		Hub:                hub,
	})

	slog.Info("server starting", "port", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
