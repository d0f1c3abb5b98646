package battleship

import (
	"encoding/json"
	"fmt"
	"strings"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

const GridSize int = 10

type CellState uint8

const (
	CellEmpty CellState = iota
	CellShip
	CellHit
	CellMiss
)

// Symbols used on the wire. Layouts sent by clients only
// carry ship and empty cells.
const (
	SymbolEmpty = " "
	SymbolShip  = "O"
	SymbolHit   = "X"
	SymbolMiss  = "M"
)

func (c CellState) String() string {
	switch c {
	case CellShip:
		return SymbolShip
	case CellHit:
		return SymbolHit
	case CellMiss:
		return SymbolMiss
	default:
		return SymbolEmpty
	}
}

type Coordinates struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewCoordinates(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

func (c Coordinates) InBounds() bool {
	return c.Row >= 0 && c.Row < GridSize && c.Col >= 0 && c.Col < GridSize
}

// How a player would say it, e.g. "35" for row 3 col 5
func (c Coordinates) String() string {
	return fmt.Sprintf("%d%d", c.Row, c.Col)
}

// Board is a value type; copying it yields an independent snapshot.
type Board [GridSize][GridSize]CellState

func NewBoard() Board {
	return Board{}
}

// Builds a board from rows of "O" (ship) and " " (empty) symbols.
// Hit and miss marks are accepted too so a reported board can be
// loaded back.
func BoardFromLayout(layout [][]string) (Board, error) {
	var board Board

	if len(layout) != GridSize {
		return board, cerr.ErrInvalidLayoutDetail(fmt.Sprintf("expected %d rows, got %d", GridSize, len(layout)))
	}

	for r, row := range layout {
		if len(row) != GridSize {
			return board, cerr.ErrInvalidLayoutDetail(fmt.Sprintf("row %d: expected %d cols, got %d", r, GridSize, len(row)))
		}

		for c, symbol := range row {
			switch strings.ToUpper(symbol) {
			case SymbolShip:
				board[r][c] = CellShip
			case SymbolEmpty, "":
				board[r][c] = CellEmpty
			case SymbolHit:
				board[r][c] = CellHit
			case SymbolMiss:
				board[r][c] = CellMiss
			default:
				return board, cerr.ErrInvalidLayoutDetail(fmt.Sprintf("unknown symbol %q at row %d col %d", symbol, r, c))
			}
		}
	}
	return board, nil
}

func (b *Board) Cell(row, col int) CellState {
	return b[row][col]
}

func (b *Board) markShip(c Coordinates) {
	b[c.Row][c.Col] = CellShip
}

// Ship cells not yet hit are rendered as empty. Only hit and
// miss marks survive, so the opponent cannot peek at the fleet.
func (b *Board) Masked() Board {
	var masked Board
	for r := range b {
		for c, cell := range b[r] {
			if cell == CellHit || cell == CellMiss {
				masked[r][c] = cell
			}
		}
	}
	return masked
}

func (b *Board) Layout() [][]string {
	layout := make([][]string, GridSize)
	for r := range b {
		layout[r] = make([]string, GridSize)
		for c, cell := range b[r] {
			layout[r][c] = cell.String()
		}
	}
	return layout
}

func (b *Board) CountCells(state CellState) int {
	var count int
	for r := range b {
		for _, cell := range b[r] {
			if cell == state {
				count++
			}
		}
	}
	return count
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Layout())
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var layout [][]string
	if err := json.Unmarshal(data, &layout); err != nil {
		return err
	}

	board, err := BoardFromLayout(layout)
	if err != nil {
		return err
	}
	*b = board
	return nil
}
