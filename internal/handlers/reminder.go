package handlers

import (
	"errors"
	"log"

	"greenthumb/internal/models"
	"greenthumb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReminderHandler handles reminder HTTP requests
type ReminderHandler struct {
	reminderService *services.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// List returns all reminders sorted by due date
// GET /api/reminders
func (h *ReminderHandler) List(c *fiber.Ctx) error {
	reminders, err := h.reminderService.List(c.Context())
	if err != nil {
		log.Printf("❌ [REMINDER] Failed to list reminders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list reminders",
		})
	}
	return c.JSON(reminders)
}

// Create stores a reminder from the assistant's scheduleReminder tool call
// POST /api/reminders
func (h *ReminderHandler) Create(c *fiber.Ctx) error {
	var req models.CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reminder, err := h.reminderService.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrStorageFull) {
			return c.Status(fiber.StatusInsufficientStorage).JSON(fiber.Map{
				"error":     "Storage full. Please delete some reminders and try again.",
				"retryable": true,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(reminder)
}

// Delete removes a reminder; deleting an unknown id succeeds
// DELETE /api/reminders/:id
func (h *ReminderHandler) Delete(c *fiber.Ctx) error {
	if err := h.reminderService.Delete(c.Context(), c.Params("id")); err != nil {
		log.Printf("❌ [REMINDER] Failed to delete reminder: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete reminder",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
