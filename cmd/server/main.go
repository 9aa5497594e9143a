package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenthumb/internal/config"
	"greenthumb/internal/database"
	"greenthumb/internal/handlers"
	"greenthumb/internal/logging"
	"greenthumb/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting GreenThumb Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabasePath)

	// Initialize SQLite database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize services
	gardenService := services.NewGardenService(db, cfg.ImageMaxWidth, cfg.ImageQuality)
	reminderService := services.NewReminderService(db)
	log.Println("✅ Garden and reminder services initialized")

	// Start the overdue watering sweep (runs once now, then on an interval)
	notifierService := services.NewNotifierService(
		gardenService,
		services.NewLogNotifier(),
		time.Duration(cfg.NotifyIntervalMinutes)*time.Minute,
		time.Duration(cfg.NotifyGraceMinutes)*time.Minute,
		cfg.NotifySuppressHours,
	)
	if err := notifierService.Start(context.Background()); err != nil {
		log.Printf("⚠️ Failed to start overdue sweep: %v", err)
	}
	defer notifierService.Stop()

	// Initialize handlers
	gardenHandler := handlers.NewGardenHandler(gardenService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	healthHandler := handlers.NewHealthHandler()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "GreenThumb v1.0",
		BodyLimit: 20 * 1024 * 1024, // plant photos arrive base64-encoded
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("greenthumb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Get("/plants", gardenHandler.List)
	api.Post("/plants", gardenHandler.Create)
	api.Delete("/plants/:id", gardenHandler.Delete)
	api.Put("/plants/:id/notes", gardenHandler.UpdateNotes)
	api.Put("/plants/:id/soil", gardenHandler.UpdateSoil)
	api.Put("/plants/:id/watering", gardenHandler.UpdateWatering)
	api.Post("/plants/:id/journal", gardenHandler.AddJournalEntry)
	api.Post("/plants/:id/water", gardenHandler.WaterNow)
	api.Get("/plants/:id/schedule", gardenHandler.GetSchedule)

	api.Get("/reminders", reminderHandler.List)
	api.Post("/reminders", reminderHandler.Create)
	api.Delete("/reminders/:id", reminderHandler.Delete)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("⏹️ Shutting down...")
		if err := notifierService.Stop(); err != nil {
			log.Printf("⚠️ Failed to stop sweep: %v", err)
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Failed to shut down server: %v", err)
		}
	}()

	log.Printf("🌿 GreenThumb listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}
