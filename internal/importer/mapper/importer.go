package mapper

import (
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"floorplan-api/internal/importer/graph"
	"floorplan-api/internal/importer/models"
	"floorplan-api/internal/importer/parser"
)

// ============================================================
// Importer
// ============================================================

// Коэффициент перевода метров скана в дюймы плана.
const metersToInches = 39.3701

// Толщина стены по умолчанию в дюймах, если скан ее не дал.
const defaultWallThickness = 6.0

// Категории RoomPlan -> типы плана. Сантехника проверяется первой:
// при пересечении категорий приоритет у нее.
var fixtureCategories = map[string]models.FixtureType{
	"toilet":       models.FixtureToilet,
	"sink":         models.FixtureSink,
	"bathtub":      models.FixtureBathtub,
	"shower":       models.FixtureShower,
	"refrigerator": models.FixtureRefrigerator,
	"stove":        models.FixtureStove,
	"oven":         models.FixtureOven,
	"dishwasher":   models.FixtureDishwasher,
	"washer":       models.FixtureWasher,
	"dryer":        models.FixtureDryer,
}

var furnitureCategories = map[string]models.FurnitureType{
	"table":      models.FurnitureTableDining,
	"chair":      models.FurnitureChair,
	"sofa":       models.FurnitureSofa,
	"bed":        models.FurnitureBedQueen,
	"storage":    models.FurnitureCabinet,
	"desk":       models.FurnitureDesk,
	"television": models.FurnitureTVStand,
}

type Importer struct {
	snapTolerance float64
}

// New создает импортер с радиусом склейки углов в дюймах.
// Неположительный радиус заменяется значением по умолчанию.
func New(snapTolerance float64) *Importer {
	if snapTolerance <= 0 {
		snapTolerance = graph.DefaultSnapTolerance
	}
	return &Importer{snapTolerance: snapTolerance}
}

// Import конвертирует скан RoomPlan в план этажа.
// Битые записи пропускаются с предупреждением, импорт не прерывается.
func (im *Importer) Import(r io.Reader, name string) (*models.FloorPlan, error) {
	doc, err := parser.ParseScan(r)
	if err != nil {
		return nil, fmt.Errorf("parse scan: %w", err)
	}

	plan := models.NewFloorPlan(name)
	if doc.Dimensions.Height > 0 {
		plan.CeilingHeight = doc.Dimensions.Height * metersToInches
	}

	// Стены: извлечение, склейка углов, упорядочивание в цепочку.
	log.Printf("[IMPORT] Importing %d walls...", len(doc.Walls))
	walls := im.extractWalls(doc.Walls)

	snapped := graph.SnapCorners(walls, im.snapTolerance)
	if snapped > 0 {
		log.Printf("[IMPORT] Snapped %d wall corner(s) within %.1f\"", snapped, im.snapTolerance)
	}

	ordered, ok := graph.SequenceWalls(walls)
	if !ok {
		log.Printf("[IMPORT] Wall chain is broken, keeping original wall order (isolated walls: %v)",
			graph.IsolatedWalls(walls))
	} else if len(ordered) > 1 {
		gap := graph.ClosureGap(ordered)
		if gap < graph.ClosureTolerance {
			log.Printf("[IMPORT] Wall loop closed (gap %.3f\")", gap)
		} else {
			log.Printf("[IMPORT] Wall loop is open: closure gap %.1f\"", gap)
		}
	}

	for _, w := range ordered {
		plan.AddWall(w)
	}

	// Проемы требуют финализированных стен.
	log.Printf("[IMPORT] Importing %d doors...", len(doc.Doors))
	for i, rec := range doc.Doors {
		im.placeDoor(plan, rec, i)
	}

	log.Printf("[IMPORT] Importing %d windows...", len(doc.Windows))
	for i, rec := range doc.Windows {
		im.placeWindow(plan, rec, i)
	}

	log.Printf("[IMPORT] Importing %d objects...", len(doc.Objects))
	for i, rec := range doc.Objects {
		im.placeObject(plan, rec, i)
	}

	return plan, nil
}

// ============================================================
// Wall extraction
// ============================================================

func (im *Importer) extractWalls(records []parser.ScanRecord) []*models.Wall {
	walls := make([]*models.Wall, 0, len(records))

	for i, rec := range records {
		wall, err := extractWall(rec)
		if err != nil {
			log.Printf("[IMPORT] Skipping wall %d: %v", i, err)
			continue
		}
		walls = append(walls, wall)
	}

	return walls
}

// extractWall строит 2D отрезок стены из 3D записи скана.
// Вертикальная ось Y скана отбрасывается, Z становится Y плана.
func extractWall(rec parser.ScanRecord) (*models.Wall, error) {
	width := rec.Dimensions.Width * metersToInches
	if width <= 0 {
		return nil, fmt.Errorf("wall has no width")
	}
	height := rec.Dimensions.Height * metersToInches

	thickness := rec.Dimensions.Thickness * metersToInches
	if thickness <= 0 {
		thickness = defaultWallThickness
	}

	posX := rec.Transform.Position.X * metersToInches
	posZ := rec.Transform.Position.Z * metersToInches

	dirX, dirZ := rec.Transform.Direction()
	half := width / 2

	start := models.Point{X: posX - dirX*half, Y: posZ - dirZ*half}
	end := models.Point{X: posX + dirX*half, Y: posZ + dirZ*half}

	return models.NewWall(start, end, thickness, height, models.WallExterior), nil
}

// ============================================================
// Opening placement
// ============================================================

func (im *Importer) placeDoor(plan *models.FloorPlan, rec parser.ScanRecord, idx int) {
	width := rec.Dimensions.Width * metersToInches
	height := rec.Dimensions.Height * metersToInches
	point := models.Point{
		X: rec.Transform.Position.X * metersToInches,
		Y: rec.Transform.Position.Z * metersToInches,
	}

	wall, t := nearestWall(plan.Walls, point)
	if wall == nil {
		log.Printf("[IMPORT] No wall for door %d at (%.1f, %.1f), skipping", idx, point.X, point.Y)
		return
	}

	doorType := models.DoorSingle
	if width > 60 {
		doorType = models.DoorDouble
	}

	plan.AddOpening(models.NewOpening(wall.ID, t, width, height, doorType))
}

func (im *Importer) placeWindow(plan *models.FloorPlan, rec parser.ScanRecord, idx int) {
	width := rec.Dimensions.Width * metersToInches
	height := rec.Dimensions.Height * metersToInches
	point := models.Point{
		X: rec.Transform.Position.X * metersToInches,
		Y: rec.Transform.Position.Z * metersToInches,
	}

	wall, t := nearestWall(plan.Walls, point)
	if wall == nil {
		log.Printf("[IMPORT] No wall for window %d at (%.1f, %.1f), skipping", idx, point.X, point.Y)
		return
	}

	var windowType models.OpeningType
	switch {
	case width > 72:
		windowType = models.WindowPicture
	case width > 48:
		windowType = models.WindowDouble
	default:
		windowType = models.WindowSingle
	}

	plan.AddOpening(models.NewOpening(wall.ID, t, width, height, windowType))
}

// nearestWall выбирает стену с минимальным расстоянием до точки
// и возвращает параметр проекции t на ней. Лимита расстояния нет:
// проем из скана всегда принадлежит какой-то стене.
func nearestWall(walls []*models.Wall, p models.Point) (*models.Wall, float64) {
	var nearest *models.Wall
	var nearestT float64
	minDist := math.MaxFloat64

	for _, w := range walls {
		dist, t := pointToWallDistance(p, w)
		if dist < minDist {
			minDist = dist
			nearest = w
			nearestT = t
		}
	}

	return nearest, nearestT
}

// pointToWallDistance возвращает расстояние от точки до отрезка стены
// и параметр проекции t, зажатый в [0, 1]. За пределами отрезка
// расстояние меряется до ближайшего конца, не до бесконечной прямой.
func pointToWallDistance(p models.Point, w *models.Wall) (float64, float64) {
	dx := w.End.X - w.Start.X
	dy := w.End.Y - w.Start.Y
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return p.DistanceTo(w.Start), 0.5
	}

	t := ((p.X-w.Start.X)*dx + (p.Y-w.Start.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	proj := models.Point{X: w.Start.X + t*dx, Y: w.Start.Y + t*dy}
	return p.DistanceTo(proj), t
}

// ============================================================
// Object placement
// ============================================================

func (im *Importer) placeObject(plan *models.FloorPlan, rec parser.ScanRecord, idx int) {
	category := strings.ToLower(strings.TrimSpace(rec.Category))
	if category == "" {
		log.Printf("[IMPORT] Object %d has no category, skipping", idx)
		return
	}

	width := rec.Dimensions.Width * metersToInches
	depth := rec.Dimensions.Depth * metersToInches
	position := models.Point{
		X: rec.Transform.Position.X * metersToInches,
		Y: rec.Transform.Position.Z * metersToInches,
	}
	rotation := rec.Transform.YawDegrees()

	if fixtureType, ok := fixtureCategories[category]; ok {
		plan.AddFixture(models.NewFixture(position, width, depth, fixtureType, rotation))
		return
	}

	if furnitureType, ok := furnitureCategories[category]; ok {
		plan.AddFurniture(models.NewFurniture(position, width, depth, furnitureType, rotation))
		return
	}

	log.Printf("[IMPORT] Unknown object category %q, skipping", category)
}
