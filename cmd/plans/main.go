package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"floorplan-api/internal/common/config"
	"floorplan-api/internal/common/middleware"
	"floorplan-api/internal/plans/handlers"
	"floorplan-api/internal/plans/repository"
	"floorplan-api/internal/plans/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Plans Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}

	dbPath := getenv("PLANS_DB_PATH", "data/db/plans.db")
	db, err := repository.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), "migrations/001_init_plans.sql"); err != nil {
		log.Fatalf("init db: %v", err)
	}

	sessionManager := service.NewSessionManager()
	fileStorage := service.NewFileStorage(getenv("PLANS_STORAGE_ROOT", "data/storage"))
	importerURL := getenv("IMPORTER_URL", "http://localhost:3001")
	plansHandler := handlers.NewPlansHandler(repo, sessionManager, fileStorage, importerURL)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Plans Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Plans Routes
	// ============================================================

	app.Post("/login", plansHandler.Login)
	app.Post("/logout", plansHandler.Logout)
	app.Get("/users/:id", plansHandler.GetUser)

	app.Post("/users/:id/scan", plansHandler.UploadScan)
	app.Get("/users/:id/scan", plansHandler.GetScan)
	app.Post("/users/:id/scan-to-plan", plansHandler.ScanToPlan)
	app.Post("/users/:id/plan", plansHandler.UploadPlan)
	app.Get("/users/:id/plan", plansHandler.GetPlan)
	app.Get("/users/:id/plan-svg", plansHandler.PlanSVG)
	app.Get("/users/:id/files", plansHandler.ListFiles)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Plans Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getenv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
