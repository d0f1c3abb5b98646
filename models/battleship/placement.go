package battleship

import (
	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

type Placement struct {
	Ship        ShipType      `json:"ship"`
	Anchor      Coordinates   `json:"anchor"`
	Orientation Orientation   `json:"orientation"`
	Cells       []Coordinates `json:"cells"`
}

// Fleet is one player's side of the sea: the board the opponent
// fires at, the occupancy map used while placing, and the registry
// of ships placed so far.
type Fleet struct {
	Board     Board
	occupancy [GridSize][GridSize]bool
	placed    map[ShipType]Placement
}

func NewFleet() *Fleet {
	return &Fleet{
		Board:  NewBoard(),
		placed: make(map[ShipType]Placement, CatalogSize()),
	}
}

// Fleet from a ready board; ship cells are claimed in the occupancy
// map but the registry stays empty since a raw layout carries no
// ship identities. Such fleets skip the placement phase.
func NewFleetFromBoard(board Board) *Fleet {
	fleet := NewFleet()
	fleet.Board = board
	for r := range board {
		for c, cell := range board[r] {
			if cell != CellEmpty && cell != CellMiss {
				fleet.occupancy[r][c] = true
			}
		}
	}
	return fleet
}

// TryPlace validates the whole footprint before touching the board,
// so a rejected placement leaves the fleet exactly as it was.
func (f *Fleet) TryPlace(ship ShipType, row, col int, orientation Orientation) (Placement, error) {
	ship, shape, err := LookupShip(string(ship))
	if err != nil {
		return Placement{}, err
	}

	if existing, prs := f.placed[ship]; prs {
		return Placement{}, cerr.ErrShipPlacedAt(string(ship), existing.Anchor.String(), existing.Orientation.String())
	}

	cells := Footprint(shape, NewCoordinates(row, col), orientation)
	for _, cell := range cells {
		if !cell.InBounds() {
			return Placement{}, cerr.ErrRowOrColOutOfGridBound(cell.Row, cell.Col)
		}
	}
	for _, cell := range cells {
		if f.occupancy[cell.Row][cell.Col] {
			return Placement{}, cerr.ErrPositionAlreadyTaken(cell.Row, cell.Col)
		}
	}

	for _, cell := range cells {
		f.occupancy[cell.Row][cell.Col] = true
		f.Board.markShip(cell)
	}

	placement := Placement{
		Ship:        ship,
		Anchor:      NewCoordinates(row, col),
		Orientation: orientation,
		Cells:       cells,
	}
	f.placed[ship] = placement
	return placement, nil
}

func (f *Fleet) IsPlaced(ship ShipType) bool {
	_, prs := f.placed[ship]
	return prs
}

func (f *Fleet) PlacedCount() int {
	return len(f.placed)
}

func (f *Fleet) Complete() bool {
	return len(f.placed) == CatalogSize()
}

// Placements in catalog order.
func (f *Fleet) Placements() []Placement {
	placements := make([]Placement, 0, len(f.placed))
	for _, ship := range ShipTypes() {
		if p, prs := f.placed[ship]; prs {
			placements = append(placements, p)
		}
	}
	return placements
}

// Ships still waiting to be placed, in catalog order.
func (f *Fleet) Remaining() []ShipType {
	remaining := make([]ShipType, 0, CatalogSize())
	for _, ship := range ShipTypes() {
		if !f.IsPlaced(ship) {
			remaining = append(remaining, ship)
		}
	}
	return remaining
}
