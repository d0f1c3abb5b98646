package battleship

import (
	"fmt"
	"strings"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

type ShipType string

const (
	ShipBattleship ShipType = "battleship"
	ShipCruiser    ShipType = "cruiser"
	ShipDestroyer  ShipType = "destroyer"
	ShipSubmarine  ShipType = "submarine"
	ShipCarrier    ShipType = "carrier"
)

type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, ok := ParseOrientation(string(text))
	if !ok {
		return fmt.Errorf("invalid orientation: %q", text)
	}
	*o = parsed
	return nil
}

// Accepts "horizontal", "horizontally", "vertical", "vertically"
// and their "h"/"v" abbreviations.
func ParseOrientation(s string) (Orientation, bool) {
	switch s = strings.ToLower(strings.TrimSpace(s)); {
	case s == "h" || strings.HasPrefix(s, "horizontal"):
		return Horizontal, true
	case s == "v" || strings.HasPrefix(s, "vertical"):
		return Vertical, true
	}
	return Horizontal, false
}

// Shape describes a footprint as Length cells along the orientation
// axis and Width cells across it. Linear ships have Width 1.
type Shape struct {
	Length int `json:"length"`
	Width  int `json:"width"`
}

func (s Shape) Cells() int {
	return s.Length * s.Width
}

// The fleet every player places, in the order it is announced.
var catalog = []struct {
	ship  ShipType
	shape Shape
}{
	{ShipBattleship, Shape{Length: 5, Width: 1}},
	{ShipCruiser, Shape{Length: 4, Width: 1}},
	{ShipDestroyer, Shape{Length: 3, Width: 1}},
	{ShipSubmarine, Shape{Length: 2, Width: 1}},
	{ShipCarrier, Shape{Length: 3, Width: 2}},
}

func CatalogSize() int {
	return len(catalog)
}

// Returns the ship types in catalog order.
func ShipTypes() []ShipType {
	ships := make([]ShipType, len(catalog))
	for i, entry := range catalog {
		ships[i] = entry.ship
	}
	return ships
}

func LookupShip(name string) (ShipType, Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entry := range catalog {
		if string(entry.ship) == name {
			return entry.ship, entry.shape, nil
		}
	}
	return "", Shape{}, cerr.ErrUnknownShipType(name)
}

// Footprint enumerates every cell a ship covers when anchored at its
// top-left cell. Cells outside the grid are returned as well; callers
// decide whether that is legal.
func Footprint(shape Shape, anchor Coordinates, orientation Orientation) []Coordinates {
	rows, cols := shape.Width, shape.Length
	if orientation == Vertical {
		rows, cols = shape.Length, shape.Width
	}

	cells := make([]Coordinates, 0, shape.Cells())
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, NewCoordinates(anchor.Row+r, anchor.Col+c))
		}
	}
	return cells
}
