package graph

import (
	"floorplan-api/internal/importer/models"
)

// ============================================================
// Wall sequencing
// ============================================================

// После склейки углов соседние стены совпадают точно,
// поэтому допуск смежности жесткий.
const chainTolerance = 0.1

// ClosureTolerance — допустимый зазор между концом цепочки и ее началом,
// при котором контур считается замкнутым.
const ClosureTolerance = 1.0

// successor — кандидат на продолжение цепочки.
// reversed означает, что совпал "конец" кандидата и его нужно перевернуть.
type successor struct {
	wall     int
	reversed bool
}

// SequenceWalls переупорядочивает стены в связную цепочку: конец каждой
// стены совпадает с началом следующей, при необходимости стены
// переворачиваются (через копию, исходные объекты не мутируются).
//
// Обход начинается со стены 0; при развилке берется первый непосещенный
// кандидат в порядке построения смежности. Если цепочка обрывается до
// того, как посещены все стены, возвращается исходный список без
// изменений и ok=false: вызывающий получает полный набор стен, а не
// частичную цепочку.
func SequenceWalls(walls []*models.Wall) ([]*models.Wall, bool) {
	n := len(walls)
	if n <= 1 {
		return walls, true
	}

	// Смежность с обеих сторон каждой стены. Для обхода вперед
	// используется сторона "конец"; сторона "начало" нужна, когда
	// текущая стена идет по цепочке перевернутой.
	endSucc := make([][]successor, n)
	startSucc := make([][]successor, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if walls[i].End.DistanceTo(walls[j].Start) < chainTolerance {
				endSucc[i] = append(endSucc[i], successor{wall: j})
			} else if walls[i].End.DistanceTo(walls[j].End) < chainTolerance {
				endSucc[i] = append(endSucc[i], successor{wall: j, reversed: true})
			}
			if walls[i].Start.DistanceTo(walls[j].Start) < chainTolerance {
				startSucc[i] = append(startSucc[i], successor{wall: j})
			} else if walls[i].Start.DistanceTo(walls[j].End) < chainTolerance {
				startSucc[i] = append(startSucc[i], successor{wall: j, reversed: true})
			}
		}
	}

	visited := make([]bool, n)
	visited[0] = true
	ordered := make([]*models.Wall, 0, n)
	ordered = append(ordered, walls[0])

	current := 0
	currentReversed := false

	for len(ordered) < n {
		candidates := endSucc[current]
		if currentReversed {
			// Цепочка продолжается от исходного начала стены.
			candidates = startSucc[current]
		}

		next := -1
		nextReversed := false
		for _, s := range candidates {
			if visited[s.wall] {
				continue
			}
			next = s.wall
			nextReversed = s.reversed
			break
		}

		if next < 0 {
			return walls, false
		}

		w := walls[next]
		if nextReversed {
			w = w.Reversed()
		}
		ordered = append(ordered, w)
		visited[next] = true
		current = next
		currentReversed = nextReversed
	}

	return ordered, true
}

// ClosureGap возвращает зазор между концом последней и началом первой
// стены цепочки. Близкий к нулю зазор означает замкнутый контур комнаты.
func ClosureGap(walls []*models.Wall) float64 {
	if len(walls) == 0 {
		return 0
	}
	return walls[len(walls)-1].End.DistanceTo(walls[0].Start)
}

// IsolatedWalls возвращает индексы стен без единой смежной стены
// с обеих сторон — диагностика для обрыва цепочки.
func IsolatedWalls(walls []*models.Wall) []int {
	var isolated []int

	for i := range walls {
		connected := false
		for j := range walls {
			if i == j {
				continue
			}
			for _, a := range []models.Point{walls[i].Start, walls[i].End} {
				for _, b := range []models.Point{walls[j].Start, walls[j].End} {
					if a.DistanceTo(b) < chainTolerance {
						connected = true
					}
				}
			}
		}
		if !connected {
			isolated = append(isolated, i)
		}
	}

	return isolated
}
