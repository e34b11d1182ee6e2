package mapper

import (
	"math"
	"strings"
	"testing"

	"floorplan-api/internal/importer/models"
)

// Квадратная комната 5x4 метра, стены заданы позицией центра
// и направлением из первой строки матрицы.
const squareRoomScan = `{
	"dimensions": {"width": 5, "height": 2.5, "length": 4},
	"walls": [
		{"category": "wall", "dimensions": {"width": 5, "height": 2.5, "thickness": 0.2},
		 "transform": {"position": {"x": 2.5, "y": 1.25, "z": 0},
		               "matrix": [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]}},
		{"category": "wall", "dimensions": {"width": 4, "height": 2.5},
		 "transform": {"position": {"x": 5, "y": 1.25, "z": 2},
		               "matrix": [[0,0,1,0],[0,1,0,0],[-1,0,0,0],[0,0,0,1]]}},
		{"category": "wall", "dimensions": {"width": 5, "height": 2.5},
		 "transform": {"position": {"x": 2.5, "y": 1.25, "z": 4},
		               "matrix": [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]}},
		{"category": "wall", "dimensions": {"width": 4, "height": 2.5},
		 "transform": {"position": {"x": 0, "y": 1.25, "z": 2},
		               "matrix": [[0,0,1,0],[0,1,0,0],[-1,0,0,0],[0,0,0,1]]}},
		{"category": "wall", "dimensions": {"width": 0},
		 "transform": {"position": {"x": 0, "y": 0, "z": 0}}}
	],
	"doors": [
		{"category": "door", "dimensions": {"width": 0.9, "height": 2.0},
		 "transform": {"position": {"x": 2.5, "y": 1.0, "z": 0}}},
		{"category": "door", "dimensions": {"width": 1.6, "height": 2.0},
		 "transform": {"position": {"x": 5, "y": 1.0, "z": 2}}}
	],
	"windows": [
		{"category": "window", "dimensions": {"width": 1.0, "height": 1.2},
		 "transform": {"position": {"x": 2.5, "y": 1.5, "z": 4}}},
		{"category": "window", "dimensions": {"width": 1.9, "height": 1.2},
		 "transform": {"position": {"x": 0, "y": 1.5, "z": 2}}}
	],
	"objects": [
		{"category": "Toilet", "dimensions": {"width": 0.4, "depth": 0.6},
		 "transform": {"position": {"x": 1, "y": 0, "z": 1}}},
		{"category": "bed", "dimensions": {"width": 1.5, "depth": 2.0},
		 "transform": {"position": {"x": 3, "y": 0, "z": 2},
		               "rotation": {"yaw_degrees": 90}}},
		{"category": "plant", "dimensions": {"width": 0.3, "depth": 0.3},
		 "transform": {"position": {"x": 4, "y": 0, "z": 3}}}
	]
}`

func importSquareRoom(t *testing.T) *models.FloorPlan {
	t.Helper()
	plan, err := New(0).Import(strings.NewReader(squareRoomScan), "Test Room")
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	return plan
}

func TestImportWalls(t *testing.T) {
	plan := importSquareRoom(t)

	// Пятая запись без ширины отброшена.
	if len(plan.Walls) != 4 {
		t.Fatalf("walls = %d, want 4", len(plan.Walls))
	}

	// Ширина 5 м -> 196.8505 дюйма.
	want := 5 * metersToInches
	if got := plan.Walls[0].Length(); math.Abs(got-want) > 1e-6 {
		t.Fatalf("first wall length = %v, want %v", got, want)
	}

	// Толщина задана только у первой стены, остальные по умолчанию.
	if got := plan.Walls[0].Thickness; math.Abs(got-0.2*metersToInches) > 1e-6 {
		t.Fatalf("first wall thickness = %v, want %v", got, 0.2*metersToInches)
	}
	if got := plan.Walls[1].Thickness; got != defaultWallThickness {
		t.Fatalf("second wall thickness = %v, want %v", got, defaultWallThickness)
	}
}

func TestImportWallChainClosed(t *testing.T) {
	plan := importSquareRoom(t)

	for i := range plan.Walls {
		next := plan.Walls[(i+1)%len(plan.Walls)]
		if d := plan.Walls[i].End.DistanceTo(next.Start); d > 1.0 {
			t.Fatalf("gap %v between wall %d and its successor", d, i)
		}
	}
}

func TestImportCornerSnapping(t *testing.T) {
	// Углы разведены на ~2 дюйма (0.05 м): после склейки стены
	// делят общие точки.
	scan := `{
		"walls": [
			{"category": "wall", "dimensions": {"width": 5},
			 "transform": {"position": {"x": 2.5, "y": 0, "z": 0},
			               "matrix": [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]}},
			{"category": "wall", "dimensions": {"width": 4},
			 "transform": {"position": {"x": 5.05, "y": 0, "z": 2},
			               "matrix": [[0,0,1,0],[0,1,0,0],[-1,0,0,0],[0,0,0,1]]}}
		]
	}`

	plan, err := New(0).Import(strings.NewReader(scan), "Gapped")
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(plan.Walls) != 2 {
		t.Fatalf("walls = %d, want 2", len(plan.Walls))
	}

	gap := plan.Walls[0].End.DistanceTo(plan.Walls[1].Start)
	other := plan.Walls[0].End.DistanceTo(plan.Walls[1].End)
	if math.Min(gap, other) > 1e-9 {
		t.Fatalf("corner not snapped: gaps %v / %v", gap, other)
	}
}

func TestImportFourWallRoomWithCornerGaps(t *testing.T) {
	// Комната 4x3 метра, все четыре стены укорочены так, что в каждом
	// углу остается зазор ~1.4 дюйма. Полный конвейер обязан склеить
	// углы и выстроить замкнутую цепочку.
	scan := `{
		"walls": [
			{"category": "wall", "dimensions": {"width": 3.95},
			 "transform": {"position": {"x": 2, "y": 0, "z": 0},
			               "matrix": [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]}},
			{"category": "wall", "dimensions": {"width": 2.95},
			 "transform": {"position": {"x": 4, "y": 0, "z": 1.5},
			               "matrix": [[0,0,1,0],[0,1,0,0],[-1,0,0,0],[0,0,0,1]]}},
			{"category": "wall", "dimensions": {"width": 3.95},
			 "transform": {"position": {"x": 2, "y": 0, "z": 3},
			               "matrix": [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]}},
			{"category": "wall", "dimensions": {"width": 2.95},
			 "transform": {"position": {"x": 0, "y": 0, "z": 1.5},
			               "matrix": [[0,0,1,0],[0,1,0,0],[-1,0,0,0],[0,0,0,1]]}}
		]
	}`

	plan, err := New(0).Import(strings.NewReader(scan), "Gapped Room")
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}

	if len(plan.Walls) != 4 {
		t.Fatalf("walls = %d, want 4", len(plan.Walls))
	}

	// Каждая пара соседних стен делит общую точку после склейки.
	for i := range plan.Walls {
		next := plan.Walls[(i+1)%len(plan.Walls)]
		if d := plan.Walls[i].End.DistanceTo(next.Start); d > 1e-9 {
			t.Fatalf("corner %d not shared: gap %v", i, d)
		}
	}

	// Контур замкнут: конец последней стены совпадает с началом первой.
	closure := plan.Walls[len(plan.Walls)-1].End.DistanceTo(plan.Walls[0].Start)
	if closure >= 1.0 {
		t.Fatalf("closure gap = %v, want < 1.0", closure)
	}
}

func TestImportCeilingHeight(t *testing.T) {
	plan := importSquareRoom(t)
	want := 2.5 * metersToInches
	if math.Abs(plan.CeilingHeight-want) > 1e-6 {
		t.Fatalf("ceiling = %v, want %v", plan.CeilingHeight, want)
	}
}

func TestImportOpenings(t *testing.T) {
	plan := importSquareRoom(t)

	if len(plan.Openings) != 4 {
		t.Fatalf("openings = %d, want 4", len(plan.Openings))
	}

	byType := map[models.OpeningType]int{}
	for _, o := range plan.Openings {
		byType[o.OpeningType]++

		if o.Position < 0 || o.Position > 1 {
			t.Fatalf("opening position %v out of [0, 1]", o.Position)
		}
		if plan.GetWall(o.WallID) == nil {
			t.Fatalf("opening bound to unknown wall %s", o.WallID)
		}
	}

	// 0.9 м = 35.4" -> одинарная; 1.6 м = 63" -> двойная.
	if byType[models.DoorSingle] != 1 || byType[models.DoorDouble] != 1 {
		t.Fatalf("door types = %v", byType)
	}
	// 1.0 м = 39.4" -> одинарное; 1.9 м = 74.8" -> панорамное.
	if byType[models.WindowSingle] != 1 || byType[models.WindowPicture] != 1 {
		t.Fatalf("window types = %v", byType)
	}
}

func TestImportObjects(t *testing.T) {
	plan := importSquareRoom(t)

	// toilet -> сантехника (регистр и пробелы не мешают),
	// bed -> мебель, plant -> пропущен.
	if len(plan.Fixtures) != 1 {
		t.Fatalf("fixtures = %d, want 1", len(plan.Fixtures))
	}
	if plan.Fixtures[0].FixtureType != models.FixtureToilet {
		t.Fatalf("fixture type = %s, want toilet", plan.Fixtures[0].FixtureType)
	}

	if len(plan.Furniture) != 1 {
		t.Fatalf("furniture = %d, want 1", len(plan.Furniture))
	}
	bed := plan.Furniture[0]
	if bed.FurnitureType != models.FurnitureBedQueen {
		t.Fatalf("furniture type = %s, want bed_queen", bed.FurnitureType)
	}
	if bed.Rotation != 90 {
		t.Fatalf("bed rotation = %v, want 90", bed.Rotation)
	}
}

func TestImportInvalidJSON(t *testing.T) {
	if _, err := New(0).Import(strings.NewReader("not json"), "x"); err == nil {
		t.Fatalf("expected error for unreadable scan")
	}
}

func TestImportNoWallsSkipsOpenings(t *testing.T) {
	scan := `{
		"doors": [{"category": "door", "dimensions": {"width": 0.9},
		           "transform": {"position": {"x": 1, "y": 0, "z": 1}}}]
	}`
	plan, err := New(0).Import(strings.NewReader(scan), "Empty")
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(plan.Openings) != 0 {
		t.Fatalf("openings = %d, want 0", len(plan.Openings))
	}
}

// ============================================================
// Category tables
// ============================================================

func TestCategoryTablesAreValid(t *testing.T) {
	for category, fixtureType := range fixtureCategories {
		if !models.FixtureTypes[fixtureType] {
			t.Fatalf("category %q maps to unknown fixture type %q", category, fixtureType)
		}
	}
	for category, furnitureType := range furnitureCategories {
		if !models.FurnitureTypes[furnitureType] {
			t.Fatalf("category %q maps to unknown furniture type %q", category, furnitureType)
		}
	}
	for category := range fixtureCategories {
		if _, ok := furnitureCategories[category]; ok {
			t.Fatalf("category %q present in both tables", category)
		}
	}
}

// ============================================================
// Geometry helpers
// ============================================================

func TestPointToWallDistanceClampsProjection(t *testing.T) {
	w := models.NewWall(models.Point{X: 0, Y: 0}, models.Point{X: 100, Y: 0},
		6.0, 96.0, models.WallExterior)

	// Точка за концом отрезка: t зажат в 1, расстояние до конца.
	dist, tt := pointToWallDistance(models.Point{X: 130, Y: 40}, w)
	if tt != 1 {
		t.Fatalf("t = %v, want 1", tt)
	}
	if want := math.Sqrt(30*30 + 40*40); math.Abs(dist-want) > 1e-9 {
		t.Fatalf("dist = %v, want %v", dist, want)
	}

	// Точка перед началом.
	_, tt = pointToWallDistance(models.Point{X: -10, Y: 0}, w)
	if tt != 0 {
		t.Fatalf("t = %v, want 0", tt)
	}

	// Точка над серединой.
	dist, tt = pointToWallDistance(models.Point{X: 50, Y: 10}, w)
	if tt != 0.5 || dist != 10 {
		t.Fatalf("dist, t = %v, %v, want 10, 0.5", dist, tt)
	}
}

func TestNearestWallPicksClosest(t *testing.T) {
	far := models.NewWall(models.Point{X: 0, Y: 500}, models.Point{X: 100, Y: 500},
		6.0, 96.0, models.WallExterior)
	near := models.NewWall(models.Point{X: 0, Y: 0}, models.Point{X: 100, Y: 0},
		6.0, 96.0, models.WallExterior)

	wall, tt := nearestWall([]*models.Wall{far, near}, models.Point{X: 25, Y: 5})
	if wall != near {
		t.Fatalf("picked wrong wall")
	}
	if tt != 0.25 {
		t.Fatalf("t = %v, want 0.25", tt)
	}
}

func TestNearestWallEmpty(t *testing.T) {
	if wall, _ := nearestWall(nil, models.Point{}); wall != nil {
		t.Fatalf("expected nil wall for empty plan")
	}
}
