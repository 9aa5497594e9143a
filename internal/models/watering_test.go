package models

import (
	"testing"
)

const day = int64(24 * 60 * 60 * 1000)

func TestComputeWateringStateThresholds(t *testing.T) {
	lastWatered := int64(1_700_000_000_000)
	interval := 7

	tests := []struct {
		name          string
		now           int64
		status        WateringStatus
		daysLeft      int
		magnitudeDays int
	}{
		{"just watered", lastWatered, StatusFuture, 7, 7},
		{"one day in", lastWatered + day, StatusFuture, 6, 6},
		{"due exactly", lastWatered + 7*day, StatusToday, 0, 0},
		{"one day late", lastWatered + 8*day, StatusOverdue, -1, 1},
		{"three days late", lastWatered + 10*day, StatusOverdue, -3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ComputeWateringState(lastWatered, interval, tt.now)
			if state == nil {
				t.Fatal("Expected a state, got nil")
			}
			if state.Status != tt.status {
				t.Errorf("Expected status %s, got %s", tt.status, state.Status)
			}
			if state.DaysLeft != tt.daysLeft {
				t.Errorf("Expected daysLeft %d, got %d", tt.daysLeft, state.DaysLeft)
			}
			if state.MagnitudeDays != tt.magnitudeDays {
				t.Errorf("Expected magnitudeDays %d, got %d", tt.magnitudeDays, state.MagnitudeDays)
			}
		})
	}
}

func TestComputeWateringStateUnscheduled(t *testing.T) {
	if state := ComputeWateringState(0, 7, 1000); state != nil {
		t.Errorf("Expected nil state without lastWatered, got %+v", state)
	}
	if state := ComputeWateringState(1000, 0, 2000); state != nil {
		t.Errorf("Expected nil state without interval, got %+v", state)
	}
	// Intervals below one day are rejected at write boundaries; the engine
	// still refuses them rather than dividing by zero.
	if state := ComputeWateringState(1000, -3, 2000); state != nil {
		t.Errorf("Expected nil state for negative interval, got %+v", state)
	}
}

func TestComputeWateringStateProgressMonotonic(t *testing.T) {
	lastWatered := int64(1_700_000_000_000)
	interval := 7

	prev := -1.0
	// Step past the due instant into overdue territory
	for now := lastWatered; now <= lastWatered+14*day; now += 6 * 60 * 60 * 1000 {
		state := ComputeWateringState(lastWatered, interval, now)
		if state == nil {
			t.Fatal("Expected a state, got nil")
		}
		if state.Progress < prev {
			t.Fatalf("Progress decreased from %f to %f at now=%d", prev, state.Progress, now)
		}
		if state.Progress < 0 || state.Progress > 100 {
			t.Fatalf("Progress %f out of range at now=%d", state.Progress, now)
		}
		prev = state.Progress
	}
}

func TestComputeWateringStateProgressBounds(t *testing.T) {
	lastWatered := int64(1_700_000_000_000)
	interval := 7

	// Exactly 100 at the due instant
	state := ComputeWateringState(lastWatered, interval, lastWatered+7*day)
	if state.Progress != 100 {
		t.Errorf("Expected progress 100 at due instant, got %f", state.Progress)
	}

	// Clamped at 100 while overdue, not growing unbounded
	state = ComputeWateringState(lastWatered, interval, lastWatered+30*day)
	if state.Progress != 100 {
		t.Errorf("Expected progress clamped at 100 while overdue, got %f", state.Progress)
	}

	// Halfway through the interval
	state = ComputeWateringState(lastWatered, interval, lastWatered+7*day/2)
	if state.Progress != 50 {
		t.Errorf("Expected progress 50 at half interval, got %f", state.Progress)
	}
}

func TestComputeWateringStateNextWatering(t *testing.T) {
	lastWatered := int64(1_700_000_000_000)
	state := ComputeWateringState(lastWatered, 3, lastWatered)
	if state.NextWatering != lastWatered+3*day {
		t.Errorf("Expected nextWatering %d, got %d", lastWatered+3*day, state.NextWatering)
	}
}

func TestOverdueDays(t *testing.T) {
	next := int64(1_700_000_000_000)

	tests := []struct {
		name string
		now  int64
		want int
	}{
		{"not due", next - day, 0},
		{"due exactly", next, 0},
		{"an hour late rounds up", next + 60*60*1000, 1},
		{"two days late", next + 2*day, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverdueDays(next, tt.now); got != tt.want {
				t.Errorf("Expected %d overdue days, got %d", tt.want, got)
			}
		})
	}
}

func TestSortedJournal(t *testing.T) {
	plant := &PlantRecord{
		Journal: []JournalEntry{
			{ID: "a", Date: 100, Activity: ActivityWater},
			{ID: "b", Date: 300, Activity: ActivityMist},
			{ID: "c", Date: 200, Activity: ActivityPrune},
		},
	}

	sorted := plant.SortedJournal()
	if sorted[0].ID != "b" || sorted[1].ID != "c" || sorted[2].ID != "a" {
		t.Errorf("Expected journal sorted date-descending, got %v", sorted)
	}

	// Storage order untouched
	if plant.Journal[0].ID != "a" {
		t.Error("Expected SortedJournal to leave insertion order intact")
	}
}

func TestValidActivity(t *testing.T) {
	for _, a := range []JournalActivity{ActivityWater, ActivityFertilize, ActivityPrune, ActivityRepot, ActivityMist, ActivityOther} {
		if !ValidActivity(a) {
			t.Errorf("Expected %s to be valid", a)
		}
	}
	if ValidActivity("Sing") {
		t.Error("Expected unknown activity to be invalid")
	}
}
