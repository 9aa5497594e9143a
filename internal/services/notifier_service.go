package services

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"greenthumb/internal/logging"
	"greenthumb/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

// WateringAlert is one overdue-watering notification for a single plant
type WateringAlert struct {
	PlantID     string
	PlantName   string
	DaysOverdue int
}

// Notifier is the external capability that asks for permission and delivers
// a user-visible alert. When it is absent or permission is denied the sweep
// is a silent no-op; delivery infrastructure is outside this service.
type Notifier interface {
	RequestPermission(ctx context.Context) bool
	Notify(ctx context.Context, alert WateringAlert) error
}

// NotifierService periodically sweeps the garden for plants whose watering
// is overdue and emits one alert per plant per sweep.
//
// By default a persistently overdue plant re-alerts on every sweep, matching
// the first app generation. Setting suppressHours > 0 mutes repeat alerts
// for that long per plant; the suppression state is in-memory only and does
// not survive a restart.
type NotifierService struct {
	garden   *GardenService
	notifier Notifier

	interval time.Duration
	grace    time.Duration
	recent   *cache.Cache // plantID -> last alert, TTL = suppression window

	scheduler gocron.Scheduler
}

// NewNotifierService creates a new overdue-watering sweep service
func NewNotifierService(garden *GardenService, notifier Notifier, interval, grace time.Duration, suppressHours int) *NotifierService {
	var recent *cache.Cache
	if suppressHours > 0 {
		suppress := time.Duration(suppressHours) * time.Hour
		recent = cache.New(suppress, suppress)
	}

	return &NotifierService{
		garden:   garden,
		notifier: notifier,
		interval: interval,
		grace:    grace,
		recent:   recent,
	}
}

// Start runs one sweep immediately and schedules recurring sweeps. Calling
// Start again (after a configuration change) replaces the previous timer.
func (s *NotifierService) Start(ctx context.Context) error {
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			log.Printf("⚠️ [NOTIFY] Failed to stop previous sweep timer: %v", err)
		}
		s.scheduler = nil
	}

	log.Printf("⏰ [NOTIFY] Starting overdue sweep (every %s, grace %s)", s.interval, s.grace)

	s.Sweep(ctx, time.Now().UnixMilli())

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.Sweep(context.Background(), time.Now().UnixMilli())
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler
	return nil
}

// Stop shuts the sweep timer down
func (s *NotifierService) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	return err
}

// Sweep loads all records and alerts for each plant overdue past the grace
// window. It returns the alerts it emitted, one per plant at most. The
// supplied clock keeps the due-ness computation deterministic.
func (s *NotifierService) Sweep(ctx context.Context, now int64) []WateringAlert {
	if s.notifier == nil || !s.notifier.RequestPermission(ctx) {
		return nil
	}

	logger := logging.WithSweep(slog.Default(), uuid.New().String())

	plants := s.garden.List(ctx)
	graceMs := s.grace.Milliseconds()

	var alerts []WateringAlert
	for _, plant := range plants {
		if plant.WateringInterval == 0 || plant.LastWatered == 0 {
			continue
		}

		nextWatering := plant.LastWatered + int64(plant.WateringInterval)*24*60*60*1000
		if now <= nextWatering+graceMs {
			continue
		}

		if s.recent != nil {
			if _, suppressed := s.recent.Get(plant.ID); suppressed {
				continue
			}
		}

		alert := WateringAlert{
			PlantID:     plant.ID,
			PlantName:   plant.Name,
			DaysOverdue: models.OverdueDays(nextWatering, now),
		}

		if err := s.notifier.Notify(ctx, alert); err != nil {
			logger.Warn("failed to deliver watering alert", "plant_id", plant.ID, "error", err)
			continue
		}

		if s.recent != nil {
			s.recent.Set(plant.ID, now, cache.DefaultExpiration)
		}
		alerts = append(alerts, alert)
	}

	if len(alerts) > 0 {
		logger.Info("sweep alerted overdue plants", "count", len(alerts))
	}
	return alerts
}
