package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

type seedEntry struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// SeedParticipants registers every entry of the JSON roster file. Seeding is
// idempotent: entries that already exist are left untouched, so the file can
// stay configured across restarts.
func SeedParticipants(svc *ParticipantService, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	created := 0
	for _, e := range entries {
		if e.PhoneNumber == "" || e.Name == "" {
			slog.Warn("skipping seed entry with missing fields", "name", e.Name, "phone", e.PhoneNumber)
			continue
		}
		_, isNew, err := svc.GetOrCreate(e.PhoneNumber, e.Name)
		if err != nil {
			return fmt.Errorf("seed participant %s: %w", e.PhoneNumber, err)
		}
		if isNew {
			created++
		}
	}

	slog.Info("participant roster seeded", "entries", len(entries), "created", created)
	return nil
}
