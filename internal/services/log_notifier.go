package services

import (
	"context"
	"os"
	"strconv"

	"greenthumb/internal/logging"
)

// LogNotifier is the default Notifier: it writes alerts to the structured
// log. Actual OS notification delivery is an external capability wired in
// by the embedding application; this keeps the sweep exercisable without it.
//
// Permission follows NOTIFY_ENABLED (default true), mirroring a user who
// denied notifications: when false every sweep is a silent no-op.
type LogNotifier struct {
	granted bool
}

// NewLogNotifier creates a notifier honoring the NOTIFY_ENABLED flag
func NewLogNotifier() *LogNotifier {
	granted := true
	if value := os.Getenv("NOTIFY_ENABLED"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			granted = parsed
		}
	}
	return &LogNotifier{granted: granted}
}

// RequestPermission reports whether alerts may be delivered
func (n *LogNotifier) RequestPermission(ctx context.Context) bool {
	return n.granted
}

// Notify delivers one overdue alert
func (n *LogNotifier) Notify(ctx context.Context, alert WateringAlert) error {
	logging.WithPlant(alert.PlantID, alert.PlantName).Info("plant needs water",
		"days_overdue", alert.DaysOverdue,
	)
	return nil
}
