package models

import (
	"math"

	"github.com/google/uuid"
)

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo возвращает евклидово расстояние до другой точки.
func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint возвращает середину отрезка между двумя точками.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// ============================================================
// Enumerations
// ============================================================

type WallType string

const (
	WallExterior    WallType = "exterior"
	WallInterior    WallType = "interior"
	WallLoadBearing WallType = "load_bearing"
	WallPartition   WallType = "partition"
)

type OpeningType string

const (
	DoorSingle    OpeningType = "door_single"
	DoorDouble    OpeningType = "door_double"
	DoorSliding   OpeningType = "door_sliding"
	WindowSingle  OpeningType = "window_single"
	WindowDouble  OpeningType = "window_double"
	WindowPicture OpeningType = "window_picture"
	Archway       OpeningType = "archway"
)

type FurnitureType string

const (
	FurnitureBedQueen    FurnitureType = "bed_queen"
	FurnitureChair       FurnitureType = "chair"
	FurnitureSofa        FurnitureType = "sofa"
	FurnitureTableDining FurnitureType = "table_dining"
	FurnitureTableCoffee FurnitureType = "table_coffee"
	FurnitureCabinet     FurnitureType = "cabinet"
	FurnitureDesk        FurnitureType = "desk"
	FurnitureTVStand     FurnitureType = "tv_stand"
)

type FixtureType string

const (
	FixtureToilet       FixtureType = "toilet"
	FixtureSink         FixtureType = "sink"
	FixtureBathtub      FixtureType = "bathtub"
	FixtureShower       FixtureType = "shower"
	FixtureRefrigerator FixtureType = "refrigerator"
	FixtureStove        FixtureType = "stove"
	FixtureOven         FixtureType = "oven"
	FixtureDishwasher   FixtureType = "dishwasher"
	FixtureWasher       FixtureType = "washer"
	FixtureDryer        FixtureType = "dryer"
)

// FurnitureTypes перечисляет допустимые типы мебели.
var FurnitureTypes = map[FurnitureType]bool{
	FurnitureBedQueen:    true,
	FurnitureChair:       true,
	FurnitureSofa:        true,
	FurnitureTableDining: true,
	FurnitureTableCoffee: true,
	FurnitureCabinet:     true,
	FurnitureDesk:        true,
	FurnitureTVStand:     true,
}

// FixtureTypes перечисляет допустимые типы сантехники и техники.
var FixtureTypes = map[FixtureType]bool{
	FixtureToilet:       true,
	FixtureSink:         true,
	FixtureBathtub:      true,
	FixtureShower:       true,
	FixtureRefrigerator: true,
	FixtureStove:        true,
	FixtureOven:         true,
	FixtureDishwasher:   true,
	FixtureWasher:       true,
	FixtureDryer:        true,
}

// ============================================================
// Floor plan entities
// ============================================================

// Wall хранит отрезок стены в дюймах (вид сверху).
type Wall struct {
	ID        string   `json:"id"`
	Start     Point    `json:"start"`
	End       Point    `json:"end"`
	Thickness float64  `json:"thickness"`
	WallType  WallType `json:"wall_type"`
	Height    float64  `json:"height"`
}

func NewWall(start, end Point, thickness, height float64, wallType WallType) *Wall {
	return &Wall{
		ID:        uuid.NewString(),
		Start:     start,
		End:       end,
		Thickness: thickness,
		WallType:  wallType,
		Height:    height,
	}
}

func (w *Wall) Length() float64 {
	return w.Start.DistanceTo(w.End)
}

func (w *Wall) Midpoint() Point {
	return Midpoint(w.Start, w.End)
}

// Reversed возвращает копию стены с переставленными концами.
// ID сохраняется: привязки проемов не должны ломаться.
func (w *Wall) Reversed() *Wall {
	rev := *w
	rev.Start, rev.End = w.End, w.Start
	return &rev
}

// Opening хранит проем (дверь/окно), привязанный к стене.
// Position нормирована: 0 = начало стены, 1 = конец.
type Opening struct {
	ID          string      `json:"id"`
	WallID      string      `json:"wall_id"`
	Position    float64     `json:"position"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	OpeningType OpeningType `json:"opening_type"`
}

func NewOpening(wallID string, position, width, height float64, openingType OpeningType) *Opening {
	return &Opening{
		ID:          uuid.NewString(),
		WallID:      wallID,
		Position:    position,
		Width:       width,
		Height:      height,
		OpeningType: openingType,
	}
}

type Furniture struct {
	ID            string        `json:"id"`
	Position      Point         `json:"position"`
	Width         float64       `json:"width"`
	Depth         float64       `json:"depth"`
	FurnitureType FurnitureType `json:"furniture_type"`
	Rotation      float64       `json:"rotation"`
}

func NewFurniture(position Point, width, depth float64, furnitureType FurnitureType, rotation float64) *Furniture {
	return &Furniture{
		ID:            uuid.NewString(),
		Position:      position,
		Width:         width,
		Depth:         depth,
		FurnitureType: furnitureType,
		Rotation:      rotation,
	}
}

type Fixture struct {
	ID          string      `json:"id"`
	Position    Point       `json:"position"`
	Width       float64     `json:"width"`
	Depth       float64     `json:"depth"`
	FixtureType FixtureType `json:"fixture_type"`
	Rotation    float64     `json:"rotation"`
}

func NewFixture(position Point, width, depth float64, fixtureType FixtureType, rotation float64) *Fixture {
	return &Fixture{
		ID:          uuid.NewString(),
		Position:    position,
		Width:       width,
		Depth:       depth,
		FixtureType: fixtureType,
		Rotation:    rotation,
	}
}

// ============================================================
// Floor plan container
// ============================================================

type FloorPlan struct {
	Name          string       `json:"name"`
	Walls         []*Wall      `json:"walls"`
	Openings      []*Opening   `json:"openings"`
	Furniture     []*Furniture `json:"furniture"`
	Fixtures      []*Fixture   `json:"fixtures"`
	FloorLevel    int          `json:"floor_level"`
	Elevation     float64      `json:"elevation"`
	CeilingHeight float64      `json:"ceiling_height"`
}

func NewFloorPlan(name string) *FloorPlan {
	return &FloorPlan{
		Name:          name,
		Walls:         []*Wall{},
		Openings:      []*Opening{},
		Furniture:     []*Furniture{},
		Fixtures:      []*Fixture{},
		CeilingHeight: 96.0,
	}
}

func (fp *FloorPlan) AddWall(w *Wall) string {
	fp.Walls = append(fp.Walls, w)
	return w.ID
}

func (fp *FloorPlan) GetWall(id string) *Wall {
	for _, w := range fp.Walls {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// AddOpening добавляет проем; стена должна существовать.
func (fp *FloorPlan) AddOpening(o *Opening) bool {
	if fp.GetWall(o.WallID) == nil {
		return false
	}
	fp.Openings = append(fp.Openings, o)
	return true
}

func (fp *FloorPlan) AddFurniture(f *Furniture) string {
	fp.Furniture = append(fp.Furniture, f)
	return f.ID
}

func (fp *FloorPlan) AddFixture(f *Fixture) string {
	fp.Fixtures = append(fp.Fixtures, f)
	return f.ID
}
