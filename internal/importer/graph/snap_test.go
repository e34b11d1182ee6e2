package graph

import (
	"math"
	"testing"

	"floorplan-api/internal/importer/models"
)

func wall(x1, y1, x2, y2 float64) *models.Wall {
	return models.NewWall(
		models.Point{X: x1, Y: y1},
		models.Point{X: x2, Y: y2},
		6.0, 96.0, models.WallExterior,
	)
}

func TestSnapCornersMergesToMidpoint(t *testing.T) {
	a := wall(0, 0, 100, 0)
	b := wall(100, 4, 100, 100)

	snapped := SnapCorners([]*models.Wall{a, b}, DefaultSnapTolerance)
	if snapped != 1 {
		t.Fatalf("snapped = %d, want 1", snapped)
	}

	want := models.Point{X: 100, Y: 2}
	if a.End != want {
		t.Fatalf("a.End = %+v, want %+v", a.End, want)
	}
	if b.Start != want {
		t.Fatalf("b.Start = %+v, want %+v", b.Start, want)
	}
}

func TestSnapCornersThreeWayCluster(t *testing.T) {
	// Три конца в пределах допуска друг от друга: все получают центроид.
	a := wall(-100, 0, 0, 0)
	b := wall(3, 0, 100, 0)
	c := wall(0, 3, 0, 100)

	walls := []*models.Wall{a, b, c}
	snapped := SnapCorners(walls, DefaultSnapTolerance)
	if snapped != 2 {
		t.Fatalf("snapped = %d, want 2", snapped)
	}

	want := models.Point{X: 1, Y: 1}
	for i, p := range []models.Point{a.End, b.Start, c.Start} {
		if math.Abs(p.X-want.X) > 1e-9 || math.Abs(p.Y-want.Y) > 1e-9 {
			t.Fatalf("endpoint %d = %+v, want %+v", i, p, want)
		}
	}
}

func TestSnapCornersSkipsExactMatches(t *testing.T) {
	// Уже совпадающие концы не считаются склейкой.
	a := wall(0, 0, 100, 0)
	b := wall(100, 0, 100, 100)

	if snapped := SnapCorners([]*models.Wall{a, b}, DefaultSnapTolerance); snapped != 0 {
		t.Fatalf("snapped = %d, want 0", snapped)
	}
	if a.End != (models.Point{X: 100, Y: 0}) {
		t.Fatalf("a.End moved to %+v", a.End)
	}
}

func TestSnapCornersRespectsTolerance(t *testing.T) {
	a := wall(0, 0, 100, 0)
	b := wall(110, 0, 110, 100)

	if snapped := SnapCorners([]*models.Wall{a, b}, DefaultSnapTolerance); snapped != 0 {
		t.Fatalf("snapped = %d, want 0", snapped)
	}
}

func TestSnapCornersIgnoresOwnEndpoints(t *testing.T) {
	// Концы одной и той же короткой стены не склеиваются между собой.
	short := wall(0, 0, 2, 0)
	if snapped := SnapCorners([]*models.Wall{short}, DefaultSnapTolerance); snapped != 0 {
		t.Fatalf("snapped = %d, want 0", snapped)
	}
	if short.Length() != 2 {
		t.Fatalf("short wall collapsed, length = %v", short.Length())
	}
}

func TestSnapCornersIdempotent(t *testing.T) {
	walls := []*models.Wall{
		wall(0, 0, 100, 2),
		wall(102, 0, 200, 0),
		wall(200, 3, 200, 100),
	}

	if snapped := SnapCorners(walls, DefaultSnapTolerance); snapped == 0 {
		t.Fatalf("first pass snapped nothing")
	}
	if snapped := SnapCorners(walls, DefaultSnapTolerance); snapped != 0 {
		t.Fatalf("second pass snapped %d, want 0", snapped)
	}
}
