package services

import (
	"testing"

	"github.com/RubeldiRubelda/merryweihnachten/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&models.Participant{}, &models.AdminSession{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}
