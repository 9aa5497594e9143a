package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithPlant returns a logger with plant context fields attached.
func WithPlant(plantID, plantName string) *slog.Logger {
	return slog.With(
		"plant_id", plantID,
		"plant_name", plantName,
	)
}

// WithSweep returns a logger scoped to one overdue-check sweep.
func WithSweep(logger *slog.Logger, sweepID string) *slog.Logger {
	return logger.With("sweep_id", sweepID)
}
