package handlers

import (
	"errors"
	"log"
	"time"

	"greenthumb/internal/models"
	"greenthumb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// GardenHandler handles plant record HTTP requests
type GardenHandler struct {
	gardenService *services.GardenService
}

// NewGardenHandler creates a new garden handler
func NewGardenHandler(gardenService *services.GardenService) *GardenHandler {
	return &GardenHandler{gardenService: gardenService}
}

// List returns all saved plants, newest first
// GET /api/plants
func (h *GardenHandler) List(c *fiber.Ctx) error {
	plants := h.gardenService.List(c.Context())

	responses := make([]*models.PlantResponse, 0, len(plants))
	for _, plant := range plants {
		responses = append(responses, plant.ToResponse())
	}
	return c.JSON(responses)
}

// Create saves a new plant from the analysis flow
// POST /api/plants
func (h *GardenHandler) Create(c *fiber.Ctx) error {
	var req models.CreatePlantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.AnalysisResult == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "analysisResult is required",
		})
	}

	plant, err := h.gardenService.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrStorageFull) {
			// Retryable: the save was not completed
			return c.Status(fiber.StatusInsufficientStorage).JSON(fiber.Map{
				"error":     "Storage full. Please delete some plants and try again.",
				"retryable": true,
			})
		}
		log.Printf("❌ [GARDEN] Failed to save plant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save plant",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(plant.ToResponse())
}

// Delete removes a plant; deleting an unknown id succeeds
// DELETE /api/plants/:id
func (h *GardenHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.gardenService.Delete(c.Context(), id); err != nil {
		log.Printf("❌ [GARDEN] Failed to delete plant %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete plant",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateNotes replaces the personal notes
// PUT /api/plants/:id/notes
func (h *GardenHandler) UpdateNotes(c *fiber.Ctx) error {
	var req models.UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.gardenService.UpdateNotes(c.Context(), c.Params("id"), req.Notes); err != nil {
		log.Printf("❌ [GARDEN] Failed to update notes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update notes",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateSoil replaces the soil type
// PUT /api/plants/:id/soil
func (h *GardenHandler) UpdateSoil(c *fiber.Ctx) error {
	var req models.UpdateSoilRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.gardenService.UpdateSoilType(c.Context(), c.Params("id"), req.SoilType); err != nil {
		log.Printf("❌ [GARDEN] Failed to update soil type: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update soil type",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateWatering sets the watering schedule. A plant that was never watered
// is assumed watered today when the schedule is first set.
// PUT /api/plants/:id/watering
func (h *GardenHandler) UpdateWatering(c *fiber.Ctx) error {
	var req models.UpdateWateringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.IntervalDays < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "intervalDays must be at least 1",
		})
	}

	id := c.Params("id")
	lastWatered := req.LastWatered
	if lastWatered == nil {
		if plant, err := h.gardenService.Get(c.Context(), id); err == nil && plant.LastWatered == 0 {
			now := time.Now().UnixMilli()
			lastWatered = &now
		}
	}

	if err := h.gardenService.UpdateWatering(c.Context(), id, req.IntervalDays, lastWatered); err != nil {
		log.Printf("❌ [GARDEN] Failed to update watering schedule: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update watering schedule",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddJournalEntry logs a care activity through the general journal form
// POST /api/plants/:id/journal
func (h *GardenHandler) AddJournalEntry(c *fiber.Ctx) error {
	var req models.AddJournalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !models.ValidActivity(req.Activity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "activity must be one of Water, Fertilize, Prune, Repot, Mist, Other",
		})
	}

	entry, err := h.gardenService.AppendJournalEntry(c.Context(), c.Params("id"),
		req.Activity, req.Note, time.Now().UnixMilli())
	if err != nil {
		log.Printf("❌ [GARDEN] Failed to add journal entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add journal entry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// WaterNow is the quick action: logs a Water entry and updates lastWatered
// POST /api/plants/:id/water
func (h *GardenHandler) WaterNow(c *fiber.Ctx) error {
	var req models.WaterNowRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	entry, err := h.gardenService.WaterNow(c.Context(), c.Params("id"), req.Note, time.Now().UnixMilli())
	if err != nil {
		log.Printf("❌ [GARDEN] Failed to water plant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to water plant",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetSchedule returns the computed watering state for one plant. A plant
// without both an interval and a last-watered timestamp has no schedule;
// that is reported as {"scheduled": false}, not as an error.
// GET /api/plants/:id/schedule
func (h *GardenHandler) GetSchedule(c *fiber.Ctx) error {
	plant, err := h.gardenService.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Plant not found",
			})
		}
		log.Printf("❌ [GARDEN] Failed to load plant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load plant",
		})
	}

	state := models.ComputeWateringState(plant.LastWatered, plant.WateringInterval, time.Now().UnixMilli())
	if state == nil {
		return c.JSON(fiber.Map{"scheduled": false})
	}

	return c.JSON(fiber.Map{
		"scheduled": true,
		"state":     state,
	})
}
