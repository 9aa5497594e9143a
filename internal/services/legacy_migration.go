package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"greenthumb/internal/models"
)

// legacyGardenKey is the flat key the first app generation stored the whole
// garden under: one serialized list of plant records.
const legacyGardenKey = "green_thumb_garden"

// MigrateLegacyStore moves records from the legacy flat-list representation
// into the plants table. It runs opportunistically before the first read and
// is idempotent: the legacy key is deleted only after the upsert transaction
// commits, so a second invocation finds nothing to migrate.
//
// Malformed legacy data is logged and the key is left in place so a later
// attempt (or a fixed build) can retry.
func (s *GardenService) MigrateLegacyStore(ctx context.Context) error {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM legacy_store WHERE key = ?", legacyGardenKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read legacy store: %w", err)
	}

	var plants []models.PlantRecord
	if err := json.Unmarshal([]byte(raw), &plants); err != nil {
		log.Printf("⚠️ [MIGRATION] Legacy garden data is malformed, leaving key for retry: %v", err)
		return nil
	}

	log.Printf("📦 [MIGRATION] Migrating %d plants from legacy store...", len(plants))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, plant := range plants {
		if plant.Journal == nil {
			plant.Journal = []models.JournalEntry{}
		}
		journalJSON, err := json.Marshal(plant.Journal)
		if err != nil {
			return fmt.Errorf("failed to encode journal for plant %s: %w", plant.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO plants (id, name, scientific_name, date_saved,
			                               image_base64, analysis_result, personal_notes,
			                               soil_type, watering_interval, last_watered, journal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, plant.ID, plant.Name, nullString(plant.ScientificName), plant.DateSaved,
			nullString(plant.ImageBase64), plant.AnalysisResult,
			nullString(plant.PersonalNotes), nullString(plant.SoilType),
			nullInt(plant.WateringInterval), nullInt64(plant.LastWatered),
			string(journalJSON))
		if err != nil {
			return fmt.Errorf("failed to upsert legacy plant %s: %w", plant.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	// Clear the legacy key only after the upserts are durable
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM legacy_store WHERE key = ?", legacyGardenKey); err != nil {
		return fmt.Errorf("failed to clear legacy store: %w", err)
	}

	log.Printf("✅ [MIGRATION] Migrated %d plants, legacy store cleared", len(plants))
	return nil
}
