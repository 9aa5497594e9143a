package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"greenthumb/internal/database"
	"greenthumb/internal/models"
	"greenthumb/internal/parser"
	"greenthumb/internal/utils"

	"github.com/google/uuid"
)

// defaultWateringInterval is assumed by the water-now quick action when a
// plant was saved without a schedule.
const defaultWateringInterval = 7

// GardenService handles CRUD over saved plant records, the care journal and
// the watering-schedule writes that keep journal and schedule in sync.
type GardenService struct {
	db            *database.DB
	imageMaxWidth int
	imageQuality  int

	migrateMu sync.Mutex
	migrated  bool
}

// NewGardenService creates a new garden service
func NewGardenService(db *database.DB, imageMaxWidth, imageQuality int) *GardenService {
	return &GardenService{
		db:            db,
		imageMaxWidth: imageMaxWidth,
		imageQuality:  imageQuality,
	}
}

// List returns all saved plants sorted by dateSaved descending (newest
// first). A storage failure degrades to an empty garden: the error is logged,
// never surfaced, so navigation keeps working through an outage.
func (s *GardenService) List(ctx context.Context) []*models.PlantRecord {
	s.ensureMigrated(ctx)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(scientific_name, ''), date_saved,
		       COALESCE(image_base64, ''), analysis_result,
		       COALESCE(personal_notes, ''), COALESCE(soil_type, ''),
		       COALESCE(watering_interval, 0), COALESCE(last_watered, 0), journal
		FROM plants
		ORDER BY date_saved DESC
	`)
	if err != nil {
		log.Printf("⚠️ [GARDEN] Failed to list plants: %v", err)
		return []*models.PlantRecord{}
	}
	defer rows.Close()

	plants := []*models.PlantRecord{}
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			log.Printf("⚠️ [GARDEN] Failed to scan plant row: %v", err)
			continue
		}
		plants = append(plants, plant)
	}
	if err := rows.Err(); err != nil {
		log.Printf("⚠️ [GARDEN] Plant listing interrupted: %v", err)
	}

	return plants
}

// ensureMigrated runs the legacy migration before the first successful read.
// A transient failure re-arms it, so the next read retries instead of leaving
// legacy records stranded until a restart.
func (s *GardenService) ensureMigrated(ctx context.Context) {
	s.migrateMu.Lock()
	defer s.migrateMu.Unlock()

	if s.migrated {
		return
	}
	if err := s.MigrateLegacyStore(ctx); err != nil {
		log.Printf("⚠️ [GARDEN] Legacy migration failed, will retry on next read: %v", err)
		return
	}
	s.migrated = true
}

// Get returns one plant by id, or ErrNotFound
func (s *GardenService) Get(ctx context.Context, id string) (*models.PlantRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(scientific_name, ''), date_saved,
		       COALESCE(image_base64, ''), analysis_result,
		       COALESCE(personal_notes, ''), COALESCE(soil_type, ''),
		       COALESCE(watering_interval, 0), COALESCE(last_watered, 0), journal
		FROM plants
		WHERE id = ?
	`, id)

	plant, err := scanPlant(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}
	return plant, nil
}

// Create saves a new plant record from the analysis flow. It assigns the id
// and dateSaved, normalizes the image, extracts name / scientific name /
// soil / watering frequency from the analysis markdown (explicit request
// fields win), seeds lastWatered to now when a schedule is present, and
// initializes an empty journal.
//
// Returns ErrStorageFull when the database is out of capacity; the record is
// not saved in that case.
func (s *GardenService) Create(ctx context.Context, req *models.CreatePlantRequest) (*models.PlantRecord, error) {
	now := time.Now().UnixMilli()

	name := req.Name
	if name == "" {
		name = parser.PlantName(req.AnalysisResult)
	}

	soil := req.SoilType
	if soil == "" {
		soil = parser.SoilType(req.AnalysisResult)
	}

	interval := req.WateringInterval
	if interval == 0 {
		interval = parser.WateringDays(req.AnalysisResult)
	}
	if interval < 0 {
		interval = 1
	}

	image := req.ImageBase64
	if image != "" {
		image = utils.NormalizeImage(image, s.imageMaxWidth, s.imageQuality)
	}

	plant := &models.PlantRecord{
		ID:             uuid.New().String(),
		Name:           name,
		ScientificName: parser.ScientificName(req.AnalysisResult),
		DateSaved:      now,
		ImageBase64:    image,
		AnalysisResult: req.AnalysisResult,
		PersonalNotes:  req.PersonalNotes,
		SoilType:       soil,
		Journal:        []models.JournalEntry{},
	}
	if interval > 0 {
		plant.WateringInterval = interval
		plant.LastWatered = now // assume watered today upon saving
	}

	if err := s.insert(ctx, plant); err != nil {
		if isStorageFull(err) {
			return nil, ErrStorageFull
		}
		return nil, fmt.Errorf("failed to save plant: %w", err)
	}

	log.Printf("🌱 [GARDEN] Saved plant %s (%s)", plant.ID, plant.Name)
	return plant, nil
}

// Delete removes a plant. Deleting a non-existent id is a no-op success.
func (s *GardenService) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM plants WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}
	return nil
}

// UpdateNotes replaces the personal notes (last write wins)
func (s *GardenService) UpdateNotes(ctx context.Context, id, notes string) error {
	return s.readModifyWrite(ctx, id, func(p *models.PlantRecord) {
		p.PersonalNotes = notes
	})
}

// UpdateSoilType replaces the soil type (last write wins)
func (s *GardenService) UpdateSoilType(ctx context.Context, id, soilType string) error {
	return s.readModifyWrite(ctx, id, func(p *models.PlantRecord) {
		p.SoilType = soilType
	})
}

// UpdateWatering sets the watering interval and, when supplied, the last
// watered timestamp. Intervals below one day are clamped to one at this
// write boundary so the schedule engine never sees a zero interval.
func (s *GardenService) UpdateWatering(ctx context.Context, id string, intervalDays int, lastWatered *int64) error {
	if intervalDays < 1 {
		intervalDays = 1
	}
	return s.readModifyWrite(ctx, id, func(p *models.PlantRecord) {
		p.WateringInterval = intervalDays
		if lastWatered != nil {
			p.LastWatered = *lastWatered
		}
	})
}

// AppendJournalEntry logs one care activity through the general journal
// form. A Water activity also re-synchronizes lastWatered to the entry's
// timestamp so journal and schedule never drift apart. Entries are
// append-only; nothing edits or removes them later.
func (s *GardenService) AppendJournalEntry(ctx context.Context, id string, activity models.JournalActivity, note string, now int64) (*models.JournalEntry, error) {
	if !models.ValidActivity(activity) {
		return nil, fmt.Errorf("invalid journal activity: %q", activity)
	}

	entry := &models.JournalEntry{
		ID:       uuid.New().String(),
		Date:     now,
		Activity: activity,
		Note:     note,
	}

	err := s.readModifyWrite(ctx, id, func(p *models.PlantRecord) {
		p.Journal = append(p.Journal, *entry)
		if activity == models.ActivityWater {
			p.LastWatered = now
		}
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// WaterNow is the quick action: it appends a Water journal entry dated now
// and updates lastWatered in the same write. The interval is kept unchanged,
// falling back to the default weekly schedule for plants saved without one.
func (s *GardenService) WaterNow(ctx context.Context, id, note string, now int64) (*models.JournalEntry, error) {
	if note == "" {
		note = "Logged via quick action."
	}

	entry := &models.JournalEntry{
		ID:       uuid.New().String(),
		Date:     now,
		Activity: models.ActivityWater,
		Note:     note,
	}

	err := s.readModifyWrite(ctx, id, func(p *models.PlantRecord) {
		if p.WateringInterval == 0 {
			p.WateringInterval = defaultWateringInterval
		}
		p.LastWatered = now
		p.Journal = append(p.Journal, *entry)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💧 [GARDEN] Watered plant %s", id)
	return entry, nil
}

// readModifyWrite loads the record, applies the mutation and writes it back
// inside a single transaction, so two updates to the same id serialize into
// one winner instead of interleaving corrupt state. A missing record is a
// silent no-op: the plant was deleted under the caller, which is benign.
func (s *GardenService) readModifyWrite(ctx context.Context, id string, mutate func(*models.PlantRecord)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(scientific_name, ''), date_saved,
		       COALESCE(image_base64, ''), analysis_result,
		       COALESCE(personal_notes, ''), COALESCE(soil_type, ''),
		       COALESCE(watering_interval, 0), COALESCE(last_watered, 0), journal
		FROM plants
		WHERE id = ?
	`, id)

	plant, err := scanPlant(row)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load plant for update: %w", err)
	}

	mutate(plant)

	journalJSON, err := json.Marshal(plant.Journal)
	if err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE plants
		SET personal_notes = ?, soil_type = ?, watering_interval = ?,
		    last_watered = ?, journal = ?
		WHERE id = ?
	`, nullString(plant.PersonalNotes), nullString(plant.SoilType),
		nullInt(plant.WateringInterval), nullInt64(plant.LastWatered),
		string(journalJSON), id)
	if err != nil {
		if isStorageFull(err) {
			return ErrStorageFull
		}
		return fmt.Errorf("failed to update plant: %w", err)
	}

	return tx.Commit()
}

// insert writes a complete new record
func (s *GardenService) insert(ctx context.Context, plant *models.PlantRecord) error {
	journalJSON, err := json.Marshal(plant.Journal)
	if err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plants (id, name, scientific_name, date_saved, image_base64,
		                    analysis_result, personal_notes, soil_type,
		                    watering_interval, last_watered, journal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, plant.ID, plant.Name, nullString(plant.ScientificName), plant.DateSaved,
		nullString(plant.ImageBase64), plant.AnalysisResult,
		nullString(plant.PersonalNotes), nullString(plant.SoilType),
		nullInt(plant.WateringInterval), nullInt64(plant.LastWatered),
		string(journalJSON))
	return err
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPlant(row scanner) (*models.PlantRecord, error) {
	var (
		plant       models.PlantRecord
		journalJSON string
	)
	err := row.Scan(&plant.ID, &plant.Name, &plant.ScientificName, &plant.DateSaved,
		&plant.ImageBase64, &plant.AnalysisResult, &plant.PersonalNotes,
		&plant.SoilType, &plant.WateringInterval, &plant.LastWatered, &journalJSON)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(journalJSON), &plant.Journal); err != nil {
		return nil, fmt.Errorf("failed to decode journal for plant %s: %w", plant.ID, err)
	}
	if plant.Journal == nil {
		plant.Journal = []models.JournalEntry{}
	}

	return &plant, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
