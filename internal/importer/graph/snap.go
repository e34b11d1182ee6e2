package graph

import (
	"floorplan-api/internal/importer/models"
)

// ============================================================
// Corner snapping
// ============================================================

// DefaultSnapTolerance — радиус склейки углов в дюймах.
const DefaultSnapTolerance = 6.0

// endpointRef адресует конец стены: (индекс стены, начало или конец).
type endpointRef struct {
	wall  int
	start bool
}

// SnapCorners склеивает концы стен, лежащие в пределах tolerance,
// в общую точку. Близость транзитивна: все концы одного кластера
// (union-find по парам с 0 < d < tolerance) получают центроид кластера.
// Пары с нулевым расстоянием уже совпадают и не склеиваются.
// Стены мутируются на месте; возвращается число выполненных склеек.
//
// Перебор пар квадратичный, но в скане стен десятки, не тысячи.
func SnapCorners(walls []*models.Wall, tolerance float64) int {
	refs := make([]endpointRef, 0, len(walls)*2)
	points := make([]models.Point, 0, len(walls)*2)
	for i, w := range walls {
		refs = append(refs, endpointRef{wall: i, start: true})
		points = append(points, w.Start)
		refs = append(refs, endpointRef{wall: i, start: false})
		points = append(points, w.End)
	}

	parent := make([]int, len(points))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	snapped := 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if refs[i].wall == refs[j].wall {
				continue
			}
			d := points[i].DistanceTo(points[j])
			if d <= 0 || d >= tolerance {
				continue
			}
			ri, rj := find(i), find(j)
			if ri != rj {
				parent[rj] = ri
				snapped++
			}
		}
	}

	if snapped == 0 {
		return 0
	}

	clusters := make(map[int][]int)
	for i := range points {
		root := find(i)
		clusters[root] = append(clusters[root], i)
	}

	for _, members := range clusters {
		if len(members) < 2 {
			continue
		}

		var sumX, sumY float64
		for _, idx := range members {
			sumX += points[idx].X
			sumY += points[idx].Y
		}
		centroid := models.Point{
			X: sumX / float64(len(members)),
			Y: sumY / float64(len(members)),
		}

		for _, idx := range members {
			ref := refs[idx]
			if ref.start {
				walls[ref.wall].Start = centroid
			} else {
				walls[ref.wall].End = centroid
			}
		}
	}

	return snapped
}
