package models

import "sort"

// JournalActivity is one of the closed set of care activities
type JournalActivity string

const (
	ActivityWater     JournalActivity = "Water"
	ActivityFertilize JournalActivity = "Fertilize"
	ActivityPrune     JournalActivity = "Prune"
	ActivityRepot     JournalActivity = "Repot"
	ActivityMist      JournalActivity = "Mist"
	ActivityOther     JournalActivity = "Other"
)

// ValidActivity reports whether the activity belongs to the closed set
func ValidActivity(a JournalActivity) bool {
	switch a {
	case ActivityWater, ActivityFertilize, ActivityPrune, ActivityRepot, ActivityMist, ActivityOther:
		return true
	}
	return false
}

// JournalEntry is one logged care activity for a plant.
// Entries are append-only; order in storage is insertion order.
type JournalEntry struct {
	ID       string          `json:"id"`
	Date     int64           `json:"date"` // ms since epoch
	Activity JournalActivity `json:"activity"`
	Note     string          `json:"note,omitempty"`
}

// PlantRecord is a saved plant's full state: identity, care text,
// watering schedule and journal. All timestamps are ms since epoch.
type PlantRecord struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ScientificName   string         `json:"scientificName,omitempty"`
	DateSaved        int64          `json:"dateSaved"`
	ImageBase64      string         `json:"imageBase64,omitempty"`
	AnalysisResult   string         `json:"analysisResult"`
	PersonalNotes    string         `json:"personalNotes,omitempty"`
	SoilType         string         `json:"soilType,omitempty"`
	WateringInterval int            `json:"wateringInterval,omitempty"` // days, >= 1 when set
	LastWatered      int64          `json:"lastWatered,omitempty"`      // 0 = never watered
	Journal          []JournalEntry `json:"journal"`
}

// SortedJournal returns the journal sorted by date descending for display.
// Storage order stays insertion order; sorting is a read-time concern.
func (p *PlantRecord) SortedJournal() []JournalEntry {
	entries := make([]JournalEntry, len(p.Journal))
	copy(entries, p.Journal)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	return entries
}

// CreatePlantRequest is the save-flow payload. Name, scientific name, soil
// type and watering interval are extracted from the analysis markdown when
// not supplied explicitly.
type CreatePlantRequest struct {
	AnalysisResult   string `json:"analysisResult"`
	ImageBase64      string `json:"imageBase64,omitempty"`
	PersonalNotes    string `json:"personalNotes,omitempty"`
	Name             string `json:"name,omitempty"`
	SoilType         string `json:"soilType,omitempty"`
	WateringInterval int    `json:"wateringInterval,omitempty"`
}

// UpdateNotesRequest replaces the personal notes (last write wins)
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateSoilRequest replaces the soil type (last write wins)
type UpdateSoilRequest struct {
	SoilType string `json:"soilType"`
}

// UpdateWateringRequest sets the watering schedule. LastWatered is optional;
// when omitted the existing timestamp is kept.
type UpdateWateringRequest struct {
	IntervalDays int    `json:"intervalDays"`
	LastWatered  *int64 `json:"lastWatered,omitempty"`
}

// AddJournalEntryRequest logs one care activity through the general form
type AddJournalEntryRequest struct {
	Activity JournalActivity `json:"activity"`
	Note     string          `json:"note,omitempty"`
}

// WaterNowRequest is the quick-action payload
type WaterNowRequest struct {
	Note string `json:"note,omitempty"`
}

// PlantResponse is the API shape of a record, journal pre-sorted for display
type PlantResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ScientificName   string         `json:"scientificName,omitempty"`
	DateSaved        int64          `json:"dateSaved"`
	ImageBase64      string         `json:"imageBase64,omitempty"`
	AnalysisResult   string         `json:"analysisResult"`
	PersonalNotes    string         `json:"personalNotes,omitempty"`
	SoilType         string         `json:"soilType,omitempty"`
	WateringInterval int            `json:"wateringInterval,omitempty"`
	LastWatered      int64          `json:"lastWatered,omitempty"`
	Journal          []JournalEntry `json:"journal"`
}

// ToResponse converts a PlantRecord to its API shape
func (p *PlantRecord) ToResponse() *PlantResponse {
	return &PlantResponse{
		ID:               p.ID,
		Name:             p.Name,
		ScientificName:   p.ScientificName,
		DateSaved:        p.DateSaved,
		ImageBase64:      p.ImageBase64,
		AnalysisResult:   p.AnalysisResult,
		PersonalNotes:    p.PersonalNotes,
		SoilType:         p.SoilType,
		WateringInterval: p.WateringInterval,
		LastWatered:      p.LastWatered,
		Journal:          p.SortedJournal(),
	}
}
