package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"floorplan-api/internal/importer/models"
)

// ============================================================
// Renderer
// ============================================================

const renderMargin = 20.0

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render собирает SVG плана этажа (вид сверху, координаты в дюймах).
func (r *Renderer) Render(plan *models.FloorPlan) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("plan is nil")
	}

	minX, minY, width, height := r.planBounds(plan)

	var elements []string
	elements = append(elements, r.renderWalls(plan)...)
	elements = append(elements, r.renderOpenings(plan)...)
	elements = append(elements, r.renderFurniture(plan)...)
	elements = append(elements, r.renderFixtures(plan)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height),
		formatFloat(minX), formatFloat(minY), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

func (r *Renderer) planBounds(plan *models.FloorPlan) (minX, minY, width, height float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	extend := func(p models.Point) {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for _, w := range plan.Walls {
		extend(w.Start)
		extend(w.End)
	}
	for _, f := range plan.Furniture {
		extend(f.Position)
	}
	for _, f := range plan.Fixtures {
		extend(f.Position)
	}

	if minX == math.MaxFloat64 {
		return 0, 0, 1000, 1000
	}

	minX -= renderMargin
	minY -= renderMargin
	width = maxX - minX + renderMargin
	height = maxY - minY + renderMargin
	return minX, minY, width, height
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderWalls(plan *models.FloorPlan) []string {
	var out []string

	for _, w := range plan.Walls {
		thickness := w.Thickness
		if thickness <= 0 {
			thickness = defaultWallThickness
		}
		out = append(out, fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="#000" stroke-width="%s" />`,
			w.ID,
			formatFloat(w.Start.X), formatFloat(w.Start.Y),
			formatFloat(w.End.X), formatFloat(w.End.Y),
			formatFloat(thickness)))
	}

	return out
}

func (r *Renderer) renderOpenings(plan *models.FloorPlan) []string {
	var out []string

	for _, o := range plan.Openings {
		wall := plan.GetWall(o.WallID)
		if wall == nil {
			continue
		}

		dx := wall.End.X - wall.Start.X
		dy := wall.End.Y - wall.Start.Y
		cx := wall.Start.X + dx*o.Position
		cy := wall.Start.Y + dy*o.Position

		angle := math.Atan2(dy, dx) * 180 / math.Pi
		points := rectanglePoints(cx, cy, o.Width, wall.Thickness, angle)

		stroke := "#1f77b4"
		if strings.HasPrefix(string(o.OpeningType), "door") {
			stroke = "#d62728"
		}

		out = append(out, renderPolygon(o.ID, points, stroke))
	}

	return out
}

func (r *Renderer) renderFurniture(plan *models.FloorPlan) []string {
	var out []string
	for _, f := range plan.Furniture {
		points := rectanglePoints(f.Position.X, f.Position.Y, f.Width, f.Depth, f.Rotation)
		out = append(out, renderPolygon(f.ID, points, "#2ca02c"))
	}
	return out
}

func (r *Renderer) renderFixtures(plan *models.FloorPlan) []string {
	var out []string
	for _, f := range plan.Fixtures {
		points := rectanglePoints(f.Position.X, f.Position.Y, f.Width, f.Depth, f.Rotation)
		out = append(out, renderPolygon(f.ID, points, "#9467bd"))
	}
	return out
}

func renderPolygon(id string, points []models.Point, stroke string) string {
	var path strings.Builder
	path.WriteString(`<path id="`)
	path.WriteString(id)
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(` Z" fill="none" stroke="`)
	path.WriteString(stroke)
	path.WriteString(`" />`)
	return path.String()
}

// ============================================================
// Geometry helpers
// ============================================================

func rectanglePoints(cx, cy, width, height, rotationDeg float64) []models.Point {
	halfW := width / 2
	halfH := height / 2

	points := []models.Point{
		{X: cx - halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy + halfH},
		{X: cx - halfW, Y: cy + halfH},
	}

	if rotationDeg == 0 {
		return points
	}

	rad := rotationDeg * math.Pi / 180
	sin := math.Sin(rad)
	cos := math.Cos(rad)

	for i, p := range points {
		dx := p.X - cx
		dy := p.Y - cy
		points[i] = models.Point{
			X: cx + dx*cos - dy*sin,
			Y: cy + dx*sin + dy*cos,
		}
	}

	return points
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
