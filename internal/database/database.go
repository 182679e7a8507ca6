package database

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/RubeldiRubelda/merryweihnachten/internal/config"
	"github.com/RubeldiRubelda/merryweihnachten/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	slog.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Participant{},
		&models.AdminSession{},
	)
	if err != nil {
		slog.Error("failed to auto-migrate", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrated")
}
