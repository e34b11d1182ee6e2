package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"floorplan-api/internal/common/config"
	"floorplan-api/internal/common/middleware"
	"floorplan-api/internal/importer/handlers"
	"floorplan-api/internal/importer/mapper"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Importer Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	importHandler := handlers.NewImportHandler(mapper.New(cfg.SnapTolerance))

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Importer Service",
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
	// Importer Routes
	// ============================================================

	app.Post("/import", importHandler.ImportScan)
	app.Post("/render", handlers.RenderPlan)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Importer Service on %s (env: %s, snap tolerance: %.1f\")",
		addr, cfg.Environment, cfg.SnapTolerance)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
