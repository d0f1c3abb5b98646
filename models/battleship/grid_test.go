package battleship

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

// Ten rows of ten symbols; "O" marks a ship.
func layoutFromStrings(rows ...string) [][]string {
	layout := make([][]string, len(rows))
	for i, row := range rows {
		layout[i] = strings.Split(row, "")
	}
	return layout
}

func TestBoardFromLayout(t *testing.T) {
	layout := layoutFromStrings(
		"OO        ",
		"OO        ",
		"          ",
		"          ",
		"          ",
		"          ",
		"          ",
		"          ",
		"          ",
		"         O",
	)

	board, err := BoardFromLayout(layout)
	if err != nil {
		t.Fatal(err)
	}
	if board.CountCells(CellShip) != 5 {
		t.Fatalf("expected 5 ship cells\tgot: %d", board.CountCells(CellShip))
	}
	if board.Cell(9, 9) != CellShip {
		t.Fatal("expected ship at 9,9")
	}
}

func TestBoardFromLayoutInvalid(t *testing.T) {
	tests := []struct {
		name   string
		layout [][]string
	}{
		{name: "too few rows", layout: layoutFromStrings("          ")},
		{
			name: "short row",
			layout: layoutFromStrings(
				"          ", "          ", "          ", "          ", "          ",
				"          ", "          ", "          ", "          ", "         ",
			),
		},
		{
			name: "unknown symbol",
			layout: layoutFromStrings(
				"          ", "          ", "          ", "          ", "    Z     ",
				"          ", "          ", "          ", "          ", "          ",
			),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := BoardFromLayout(test.layout); !errors.Is(err, cerr.ErrInvalidLayout) {
				t.Fatalf("expected err: %v\tgot: %v", cerr.ErrInvalidLayout, err)
			}
		})
	}
}

func TestMaskedHidesShips(t *testing.T) {
	board := NewBoard()
	board[0][0] = CellShip
	board[0][1] = CellShip
	board[5][5] = CellShip

	shots := []Coordinates{{0, 0}, {4, 4}, {9, 9}, {0, 0}}
	for _, shot := range shots {
		if _, err := board.Attack(shot.Row, shot.Col); err != nil {
			t.Fatal(err)
		}

		masked := board.Masked()
		if masked.CountCells(CellShip) != 0 {
			t.Fatal("masked board must never reveal ship cells")
		}
		if masked.CountCells(CellHit) != board.CountCells(CellHit) {
			t.Fatal("masked board must keep every hit")
		}
		if masked.CountCells(CellMiss) != board.CountCells(CellMiss) {
			t.Fatal("masked board must keep every miss")
		}

		payload, err := json.Marshal(masked)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(payload), `"O"`) {
			t.Fatalf("serialized masked board leaks a ship: %s", payload)
		}
	}
}

func TestBoardJSON(t *testing.T) {
	board := NewBoard()
	board[1][2] = CellShip
	board[3][4] = CellHit
	board[5][6] = CellMiss

	payload, err := json.Marshal(board)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Board
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != board {
		t.Fatalf("expected board:\n%v\ngot:\n%v", board.Layout(), decoded.Layout())
	}
}
