package services

import (
	"context"
	"testing"
	"time"

	"greenthumb/internal/models"
)

// fakeNotifier records delivered alerts and lets tests deny permission
type fakeNotifier struct {
	granted bool
	alerts  []WateringAlert
}

func (f *fakeNotifier) RequestPermission(ctx context.Context) bool { return f.granted }

func (f *fakeNotifier) Notify(ctx context.Context, alert WateringAlert) error {
	f.alerts = append(f.alerts, alert)
	return nil
}

const msPerDay = int64(24 * 60 * 60 * 1000)

// seedScheduledPlant creates a plant with the given interval and lastWatered
func seedScheduledPlant(t *testing.T, svc *GardenService, name string, intervalDays int, lastWatered int64) string {
	t.Helper()

	plant, err := svc.Create(context.Background(), &models.CreatePlantRequest{
		AnalysisResult: "# " + name,
		Name:           name,
	})
	if err != nil {
		t.Fatalf("Failed to create plant: %v", err)
	}
	if err := svc.UpdateWatering(context.Background(), plant.ID, intervalDays, &lastWatered); err != nil {
		t.Fatalf("Failed to set schedule: %v", err)
	}
	return plant.ID
}

func TestSweepAlertsOverduePlants(t *testing.T) {
	garden, _ := setupTestService(t)
	now := time.Now().UnixMilli()

	// 1 day overdue: well past the one-hour grace window
	overdueID := seedScheduledPlant(t, garden, "Thirsty Fern", 7, now-8*msPerDay)
	// Watered just now: not due
	seedScheduledPlant(t, garden, "Happy Pothos", 7, now)

	notifier := &fakeNotifier{granted: true}
	svc := NewNotifierService(garden, notifier, time.Hour, time.Hour, 0)

	alerts := svc.Sweep(context.Background(), now)
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].PlantID != overdueID {
		t.Errorf("Expected alert for overdue plant, got %q", alerts[0].PlantName)
	}
	if alerts[0].DaysOverdue != 1 {
		t.Errorf("Expected 1 day overdue, got %d", alerts[0].DaysOverdue)
	}
	if len(notifier.alerts) != 1 {
		t.Errorf("Expected the notifier to receive 1 alert, got %d", len(notifier.alerts))
	}
}

func TestSweepHonorsGraceWindow(t *testing.T) {
	garden, _ := setupTestService(t)
	now := time.Now().UnixMilli()

	// Due 30 minutes ago: inside the one-hour grace window
	seedScheduledPlant(t, garden, "Borderline Ivy", 7, now-7*msPerDay-30*60*1000)

	notifier := &fakeNotifier{granted: true}
	svc := NewNotifierService(garden, notifier, time.Hour, time.Hour, 0)

	if alerts := svc.Sweep(context.Background(), now); len(alerts) != 0 {
		t.Errorf("Expected no alerts inside grace window, got %d", len(alerts))
	}

	// Two hours past due clears the grace window
	if alerts := svc.Sweep(context.Background(), now+2*60*60*1000); len(alerts) != 1 {
		t.Errorf("Expected 1 alert past grace window, got %d", len(alerts))
	}
}

func TestSweepSkipsUnscheduledPlants(t *testing.T) {
	garden, _ := setupTestService(t)
	now := time.Now().UnixMilli()

	if _, err := garden.Create(context.Background(), &models.CreatePlantRequest{
		AnalysisResult: "# No Schedule",
	}); err != nil {
		t.Fatalf("Failed to create plant: %v", err)
	}

	notifier := &fakeNotifier{granted: true}
	svc := NewNotifierService(garden, notifier, time.Hour, time.Hour, 0)

	if alerts := svc.Sweep(context.Background(), now+30*msPerDay); len(alerts) != 0 {
		t.Errorf("Expected no alerts for unscheduled plants, got %d", len(alerts))
	}
}

func TestSweepWithoutPermission(t *testing.T) {
	garden, _ := setupTestService(t)
	now := time.Now().UnixMilli()
	seedScheduledPlant(t, garden, "Thirsty Fern", 7, now-10*msPerDay)

	notifier := &fakeNotifier{granted: false}
	svc := NewNotifierService(garden, notifier, time.Hour, time.Hour, 0)

	if alerts := svc.Sweep(context.Background(), now); alerts != nil {
		t.Errorf("Expected nil alerts when permission is denied, got %v", alerts)
	}
	if len(notifier.alerts) != 0 {
		t.Errorf("Expected the notifier untouched, got %d alerts", len(notifier.alerts))
	}
}

func TestSweepWithoutNotifier(t *testing.T) {
	garden, _ := setupTestService(t)
	now := time.Now().UnixMilli()
	seedScheduledPlant(t, garden, "Thirsty Fern", 7, now-10*msPerDay)

	svc := NewNotifierService(garden, nil, time.Hour, time.Hour, 0)

	if alerts := svc.Sweep(context.Background(), now); alerts != nil {
		t.Errorf("Expected nil alerts without a notifier, got %v", alerts)
	}
}

func TestSweepReAlertsEachSweepByDefault(t *testing.T) {
	garden, _ := setupTestService(t)
	now := time.Now().UnixMilli()
	seedScheduledPlant(t, garden, "Thirsty Fern", 7, now-10*msPerDay)

	notifier := &fakeNotifier{granted: true}
	svc := NewNotifierService(garden, notifier, time.Hour, time.Hour, 0)

	svc.Sweep(context.Background(), now)
	svc.Sweep(context.Background(), now+60*60*1000)

	if len(notifier.alerts) != 2 {
		t.Errorf("Expected a repeat alert on the next sweep, got %d alerts", len(notifier.alerts))
	}
}

func TestSweepSuppressionWindow(t *testing.T) {
	garden, _ := setupTestService(t)
	now := time.Now().UnixMilli()
	seedScheduledPlant(t, garden, "Thirsty Fern", 7, now-10*msPerDay)

	notifier := &fakeNotifier{granted: true}
	svc := NewNotifierService(garden, notifier, time.Hour, time.Hour, 24)

	svc.Sweep(context.Background(), now)
	svc.Sweep(context.Background(), now+60*60*1000)

	if len(notifier.alerts) != 1 {
		t.Errorf("Expected repeat alerts suppressed, got %d alerts", len(notifier.alerts))
	}
}

func TestSweepWateringResetsAlerting(t *testing.T) {
	garden, _ := setupTestService(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()
	id := seedScheduledPlant(t, garden, "Thirsty Fern", 7, now-10*msPerDay)

	notifier := &fakeNotifier{granted: true}
	svc := NewNotifierService(garden, notifier, time.Hour, time.Hour, 0)

	if alerts := svc.Sweep(ctx, now); len(alerts) != 1 {
		t.Fatalf("Expected 1 alert before watering, got %d", len(alerts))
	}

	if _, err := garden.WaterNow(ctx, id, "", now); err != nil {
		t.Fatalf("Failed to water plant: %v", err)
	}

	if alerts := svc.Sweep(ctx, now+60*60*1000); len(alerts) != 0 {
		t.Errorf("Expected no alerts after watering, got %d", len(alerts))
	}
}
