package handlers

import (
	"bytes"
	"io"
	"log"
	"path/filepath"
	"strings"

	"floorplan-api/internal/importer/mapper"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Import Handler
// ============================================================

type ImportHandler struct {
	importer *mapper.Importer
}

func NewImportHandler(importer *mapper.Importer) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportScan конвертирует RoomPlan JSON в план этажа.
// Скан принимается либо как multipart file, либо сырым телом запроса.
func (h *ImportHandler) ImportScan(c fiber.Ctx) error {
	log.Printf("[IMPORT] Received request")
	log.Printf("[IMPORT] Content-Type: %s", c.Get("Content-Type"))
	log.Printf("[IMPORT] Body size: %d bytes", len(c.Body()))

	data, name, err := readScanPayload(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("[IMPORT] Starting import %q, data size: %d bytes", name, len(data))
	plan, err := h.importer.Import(bytes.NewReader(data), name)
	if err != nil {
		log.Printf("[IMPORT] Import error: %v", err)
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("[IMPORT] Import successful: %d walls, %d openings, %d furniture, %d fixtures",
		len(plan.Walls), len(plan.Openings), len(plan.Furniture), len(plan.Fixtures))
	return c.JSON(plan)
}

// readScanPayload достает данные скана и имя плана из запроса.
func readScanPayload(c fiber.Ctx) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, "", fiber.NewError(500, "failed to open file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", fiber.NewError(500, "failed to read file")
		}

		name := strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))
		return data, name, nil
	}

	if len(c.Body()) == 0 {
		return nil, "", fiber.NewError(400, "scan json required: multipart file or request body")
	}

	body := make([]byte, len(c.Body()))
	copy(body, c.Body())
	return body, "Imported Scan", nil
}
