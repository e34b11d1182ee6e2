package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"floorplan-api/internal/common/config"
	"floorplan-api/internal/common/middleware"
	"floorplan-api/internal/gateway/handlers"
	"floorplan-api/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	importerURL := getEnv("IMPORTER_URL", "http://localhost:3001")
	plansURL := getEnv("PLANS_URL", "http://localhost:3002")

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(map[string]string{
		"importer": importerURL,
		"plans":    plansURL,
	}))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs Routes
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Floorplan API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Importer Service
	api.Post("/import", proxy.To(importerURL+"/import"))
	api.Post("/render", proxy.To(importerURL+"/render"))

	// Plans Service
	api.Post("/login", proxy.To(plansURL+"/login"))
	api.Post("/logout", proxy.To(plansURL+"/logout"))
	api.Get("/users/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/users/%s", plansURL, c.Params("id")))
	})

	userRoutes := []struct {
		method string
		suffix string
	}{
		{fiber.MethodPost, "scan"},
		{fiber.MethodGet, "scan"},
		{fiber.MethodPost, "scan-to-plan"},
		{fiber.MethodPost, "plan"},
		{fiber.MethodGet, "plan"},
		{fiber.MethodGet, "plan-svg"},
		{fiber.MethodGet, "files"},
	}
	for _, route := range userRoutes {
		suffix := route.suffix
		api.Add([]string{route.method}, "/users/:id/"+suffix, func(c fiber.Ctx) error {
			return proxy.Forward(c, fmt.Sprintf("%s/users/%s/%s", plansURL, c.Params("id"), suffix))
		})
	}

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /import to %s, /users to %s", importerURL, plansURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
