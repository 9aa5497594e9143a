package models

import "math"

const dayMs = 24 * 60 * 60 * 1000

// WateringStatus is the due-ness of a plant's schedule at a given instant
type WateringStatus string

const (
	StatusOverdue WateringStatus = "overdue"
	StatusToday   WateringStatus = "today"
	StatusFuture  WateringStatus = "future"
)

// WateringState is the derived (never stored) schedule state of a record
type WateringState struct {
	Status        WateringStatus `json:"status"`
	DaysLeft      int            `json:"daysLeft"`      // negative when overdue
	MagnitudeDays int            `json:"magnitudeDays"` // abs(DaysLeft), for display
	Progress      float64        `json:"progress"`      // elapsed fraction of the interval, 0-100
	NextWatering  int64          `json:"nextWatering"`  // ms since epoch
}

// ComputeWateringState computes the schedule state from the last watering
// timestamp, the interval in days and the supplied clock. It returns nil when
// either input is absent: an unscheduled plant, not an error. The result
// depends only on the arguments, never on the wall clock.
//
// Progress reaches exactly 100 at the instant now == nextWatering and is
// clamped there while overdue.
func ComputeWateringState(lastWatered int64, intervalDays int, now int64) *WateringState {
	if lastWatered == 0 || intervalDays < 1 {
		return nil
	}

	intervalMs := int64(intervalDays) * dayMs
	nextWatering := lastWatered + intervalMs

	daysLeft := int(math.Ceil(float64(nextWatering-now) / float64(dayMs)))

	progress := float64(now-lastWatered) / float64(intervalMs) * 100
	progress = math.Min(100, math.Max(0, progress))

	status := StatusFuture
	if daysLeft < 0 {
		status = StatusOverdue
	} else if daysLeft == 0 {
		status = StatusToday
	}

	magnitude := daysLeft
	if magnitude < 0 {
		magnitude = -magnitude
	}

	return &WateringState{
		Status:        status,
		DaysLeft:      daysLeft,
		MagnitudeDays: magnitude,
		Progress:      progress,
		NextWatering:  nextWatering,
	}
}

// OverdueDays returns how many days past due a schedule is at the supplied
// clock, rounding partial days up. Zero when not yet due.
func OverdueDays(nextWatering, now int64) int {
	if now <= nextWatering {
		return 0
	}
	return int(math.Ceil(float64(now-nextWatering) / float64(dayMs)))
}
