package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"floorplan-api/internal/importer/mapper"
	"floorplan-api/internal/importer/models"

	"github.com/gofiber/fiber/v3"
)

const scanJSON = `{
	"dimensions": {"width": 5, "height": 2.5, "length": 4},
	"walls": [
		{"category": "wall", "dimensions": {"width": 5},
		 "transform": {"position": {"x": 2.5, "y": 0, "z": 0},
		               "matrix": [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]}}
	]
}`

func newImportApp() *fiber.App {
	app := fiber.New()
	app.Post("/import", NewImportHandler(mapper.New(0)).ImportScan)
	app.Post("/render", RenderPlan)
	return app
}

func TestImportScanRawBody(t *testing.T) {
	app := newImportApp()

	req := httptest.NewRequest("POST", "/import", strings.NewReader(scanJSON))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var plan models.FloorPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Name != "Imported Scan" {
		t.Fatalf("plan name = %q", plan.Name)
	}
	if len(plan.Walls) != 1 {
		t.Fatalf("walls = %d, want 1", len(plan.Walls))
	}
}

func TestImportScanMultipart(t *testing.T) {
	app := newImportApp()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "living-room.json")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(scanJSON))
	writer.Close()

	req := httptest.NewRequest("POST", "/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var plan models.FloorPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	// Имя плана берется из имени файла без расширения.
	if plan.Name != "living-room" {
		t.Fatalf("plan name = %q, want living-room", plan.Name)
	}
}

func TestImportScanEmptyBody(t *testing.T) {
	app := newImportApp()

	resp, err := app.Test(httptest.NewRequest("POST", "/import", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestImportScanInvalidJSON(t *testing.T) {
	app := newImportApp()

	req := httptest.NewRequest("POST", "/import", strings.NewReader("not json"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRenderPlanRoundTrip(t *testing.T) {
	app := newImportApp()

	plan := models.NewFloorPlan("Room")
	plan.AddWall(models.NewWall(models.Point{X: 0, Y: 0}, models.Point{X: 100, Y: 0},
		6, 96, models.WallExterior))
	payload, _ := json.Marshal(plan)

	req := httptest.NewRequest("POST", "/render", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Fatalf("content type = %q", ct)
	}

	svg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), "<svg") {
		t.Fatalf("response is not svg:\n%s", svg)
	}
}

func TestRenderPlanEmptyBody(t *testing.T) {
	app := newImportApp()

	resp, err := app.Test(httptest.NewRequest("POST", "/render", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
