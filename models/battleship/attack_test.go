package battleship

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

func TestAttack(t *testing.T) {
	tests := []struct {
		name            string
		cell            CellState
		expectedOutcome AttackOutcome
		expectedCell    CellState
	}{
		{name: "ship becomes hit", cell: CellShip, expectedOutcome: OutcomeHit, expectedCell: CellHit},
		{name: "empty becomes miss", cell: CellEmpty, expectedOutcome: OutcomeMiss, expectedCell: CellMiss},
		{name: "hit stays hit", cell: CellHit, expectedOutcome: OutcomeAlreadyResolved, expectedCell: CellHit},
		{name: "miss stays miss", cell: CellMiss, expectedOutcome: OutcomeAlreadyResolved, expectedCell: CellMiss},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board := NewBoard()
			board[4][7] = test.cell

			outcome, err := board.Attack(4, 7)
			if err != nil {
				t.Fatal(err)
			}
			if outcome != test.expectedOutcome {
				t.Fatalf("expected outcome: %s\tgot: %s", test.expectedOutcome, outcome)
			}
			if board.Cell(4, 7) != test.expectedCell {
				t.Fatalf("expected cell: %q\tgot: %q", test.expectedCell, board.Cell(4, 7))
			}
		})
	}
}

func TestAttackTwiceIsIdempotent(t *testing.T) {
	for _, initial := range []CellState{CellShip, CellEmpty} {
		board := NewBoard()
		board[2][2] = initial

		first, err := board.Attack(2, 2)
		if err != nil {
			t.Fatal(err)
		}
		if first == OutcomeAlreadyResolved {
			t.Fatal("first attack must resolve")
		}
		afterFirst := board

		second, err := board.Attack(2, 2)
		if err != nil {
			t.Fatal(err)
		}
		if second != OutcomeAlreadyResolved {
			t.Fatalf("expected outcome: %s\tgot: %s", OutcomeAlreadyResolved, second)
		}
		if board != afterFirst {
			t.Fatal("second attack must not change the board")
		}
	}
}

func TestAttackOutOfBounds(t *testing.T) {
	board := NewBoard()
	for _, target := range []Coordinates{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if _, err := board.Attack(target.Row, target.Col); !errors.Is(err, cerr.ErrOutOfBounds) {
			t.Fatalf("expected err: %v\tgot: %v", cerr.ErrOutOfBounds, err)
		}
	}
	if board != NewBoard() {
		t.Fatal("out of bounds attacks must not touch the board")
	}
}

func TestAllShipsSunk(t *testing.T) {
	board := NewBoard()
	if !board.AllShipsSunk() {
		t.Fatal("a board without ships is sunk")
	}

	board[0][0] = CellShip
	board[0][1] = CellShip
	if board.AllShipsSunk() {
		t.Fatal("board with ships is not sunk")
	}

	_, _ = board.Attack(0, 0)
	if board.AllShipsSunk() {
		t.Fatal("one ship cell is still afloat")
	}
	_, _ = board.Attack(0, 1)
	if !board.AllShipsSunk() {
		t.Fatal("every ship cell is hit")
	}
}
