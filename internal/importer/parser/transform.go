package parser

import "math"

// ============================================================
// Transform helpers
// ============================================================

// Ниже этой величины вектор направления из матрицы считается вырожденным.
const minDirectionMagnitude = 0.001

// HasMatrix проверяет, что матрица трансформации пригодна для чтения
// первой строки (4x4, построчно).
func (t Transform) HasMatrix() bool {
	if len(t.Matrix) < 4 {
		return false
	}
	for _, row := range t.Matrix {
		if len(row) < 4 {
			return false
		}
	}
	return true
}

// Direction возвращает единичный вектор направления стены в плоскости XZ.
// Берутся X и Z компоненты первой строки матрицы (m00, m02); при
// вырожденном или отсутствующем векторе — горизонтальный fallback (1, 0).
func (t Transform) Direction() (float64, float64) {
	if !t.HasMatrix() {
		return 1.0, 0.0
	}

	rightX := t.Matrix[0][0]
	rightZ := t.Matrix[0][2]

	length := math.Sqrt(rightX*rightX + rightZ*rightZ)
	if length <= minDirectionMagnitude {
		return 1.0, 0.0
	}

	return rightX / length, rightZ / length
}

// YawDegrees извлекает поворот вокруг вертикальной оси в градусах [0, 360).
// Приоритет: явный yaw_degrees, затем yaw_radians, затем вектор
// направления из матрицы, иначе 0.
func (t Transform) YawDegrees() float64 {
	if t.Rotation != nil {
		if t.Rotation.YawDegrees != nil {
			return normalizeDegrees(*t.Rotation.YawDegrees)
		}
		if t.Rotation.YawRadians != nil {
			return normalizeDegrees(*t.Rotation.YawRadians * 180 / math.Pi)
		}
	}

	if t.HasMatrix() {
		rightX := t.Matrix[0][0]
		rightZ := t.Matrix[0][2]
		if math.Sqrt(rightX*rightX+rightZ*rightZ) > minDirectionMagnitude {
			// Ось Z экрана направлена вниз, поэтому знак Z инвертирован.
			return normalizeDegrees(math.Atan2(-rightZ, rightX) * 180 / math.Pi)
		}
	}

	return 0
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
