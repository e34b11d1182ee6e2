package parser

import (
	"encoding/json"
	"fmt"
	"io"
)

// ============================================================
// RoomPlan JSON Structures
// ============================================================

// ScanDocument — корневой документ скана RoomPlan.
// Все линейные размеры внутри в метрах.
type ScanDocument struct {
	Dimensions ScanDimensions `json:"dimensions"`
	Walls      []ScanRecord   `json:"walls"`
	Doors      []ScanRecord   `json:"doors"`
	Windows    []ScanRecord   `json:"windows"`
	Objects    []ScanRecord   `json:"objects"`
}

type ScanDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"` // высота потолка
	Length float64 `json:"length"`
}

// ScanRecord — одна запись скана: стена, дверь, окно или объект.
type ScanRecord struct {
	ID         string           `json:"id"`
	Category   string           `json:"category"`
	Confidence string           `json:"confidence"`
	Dimensions RecordDimensions `json:"dimensions"`
	Transform  Transform        `json:"transform"`
}

type RecordDimensions struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Thickness float64 `json:"thickness"`
	Depth     float64 `json:"depth"`
}

type Transform struct {
	Position Position    `json:"position"`
	Matrix   [][]float64 `json:"matrix"`
	Rotation *Rotation   `json:"rotation"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"` // вертикальная ось скана, на плане не используется
	Z float64 `json:"z"`
}

type Rotation struct {
	YawDegrees *float64 `json:"yaw_degrees"`
	YawRadians *float64 `json:"yaw_radians"`
}

// ============================================================
// Parser
// ============================================================

// ParseScan читает и декодирует документ скана.
// Нечитаемый JSON — фатальная ошибка, частично битые записи
// отсеиваются дальше по конвейеру.
func ParseScan(r io.Reader) (*ScanDocument, error) {
	var doc ScanDocument
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scan json: %w", err)
	}
	return &doc, nil
}
