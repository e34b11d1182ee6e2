package handlers

import (
	"encoding/json"
	"log"

	"floorplan-api/internal/importer/mapper"
	"floorplan-api/internal/importer/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Render Handler
// ============================================================

// RenderPlan конвертирует план этажа обратно в SVG.
func RenderPlan(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request")
	log.Printf("[RENDER] Content-Length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "body required",
		})
	}

	var plan models.FloorPlan
	if err := json.Unmarshal(c.Body(), &plan); err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid JSON payload",
		})
	}

	renderer := mapper.NewRenderer()
	svg, err := renderer.Render(&plan)
	if err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}
