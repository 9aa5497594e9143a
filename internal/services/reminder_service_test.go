package services

import (
	"context"
	"path/filepath"
	"testing"

	"greenthumb/internal/database"
	"greenthumb/internal/models"
)

func setupReminderService(t *testing.T) *ReminderService {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return NewReminderService(db)
}

func TestCreateAndListReminders(t *testing.T) {
	svc := setupReminderService(t)
	ctx := context.Background()

	later, err := svc.Create(ctx, &models.CreateReminderRequest{
		PlantName: "Monstera", Action: "Fertilize", DueInHours: 48,
	})
	if err != nil {
		t.Fatalf("Failed to create reminder: %v", err)
	}
	if later.DueDate != later.CreatedAt+48*60*60*1000 {
		t.Errorf("Expected due date 48h after creation, got %d", later.DueDate)
	}

	sooner, err := svc.Create(ctx, &models.CreateReminderRequest{
		PlantName: "Fern", Action: "Water", DueInHours: 2,
	})
	if err != nil {
		t.Fatalf("Failed to create reminder: %v", err)
	}

	reminders, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list reminders: %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("Expected 2 reminders, got %d", len(reminders))
	}
	if reminders[0].ID != sooner.ID {
		t.Errorf("Expected soonest-due reminder first, got %q", reminders[0].PlantName)
	}
}

func TestCreateReminderValidation(t *testing.T) {
	svc := setupReminderService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.CreateReminderRequest
	}{
		{"missing plant name", models.CreateReminderRequest{Action: "Water", DueInHours: 1}},
		{"missing action", models.CreateReminderRequest{PlantName: "Fern", DueInHours: 1}},
		{"zero hours", models.CreateReminderRequest{PlantName: "Fern", Action: "Water"}},
		{"negative hours", models.CreateReminderRequest{PlantName: "Fern", Action: "Water", DueInHours: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tt.req); err == nil {
				t.Error("Expected a validation error")
			}
		})
	}
}

func TestDeleteReminderIsIdempotent(t *testing.T) {
	svc := setupReminderService(t)
	ctx := context.Background()

	reminder, err := svc.Create(ctx, &models.CreateReminderRequest{
		PlantName: "Fern", Action: "Water", DueInHours: 1,
	})
	if err != nil {
		t.Fatalf("Failed to create reminder: %v", err)
	}

	if err := svc.Delete(ctx, reminder.ID); err != nil {
		t.Fatalf("Failed to delete reminder: %v", err)
	}
	if err := svc.Delete(ctx, reminder.ID); err != nil {
		t.Errorf("Expected second delete to succeed, got %v", err)
	}
}

func TestSubscribeReceivesNewReminders(t *testing.T) {
	svc := setupReminderService(t)
	ctx := context.Background()

	ch, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	created, err := svc.Create(ctx, &models.CreateReminderRequest{
		PlantName: "Fern", Action: "Water", DueInHours: 1,
	})
	if err != nil {
		t.Fatalf("Failed to create reminder: %v", err)
	}

	select {
	case got := <-ch:
		if got.ID != created.ID {
			t.Errorf("Expected notification for %q, got %q", created.ID, got.ID)
		}
	default:
		t.Error("Expected a buffered notification for the new reminder")
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	svc := setupReminderService(t)
	ctx := context.Background()

	ch, unsubscribe := svc.Subscribe()
	unsubscribe()

	if _, err := svc.Create(ctx, &models.CreateReminderRequest{
		PlantName: "Fern", Action: "Water", DueInHours: 1,
	}); err != nil {
		t.Fatalf("Failed to create reminder: %v", err)
	}

	if _, open := <-ch; open {
		t.Error("Expected channel closed after unsubscribe")
	}
}
