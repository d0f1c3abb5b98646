package battleship

import (
	"fmt"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

type AttackOutcome uint8

const (
	OutcomeMiss AttackOutcome = iota
	OutcomeHit
	OutcomeAlreadyResolved
)

func (o AttackOutcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeAlreadyResolved:
		return "already_resolved"
	default:
		return "miss"
	}
}

func (o AttackOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *AttackOutcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hit":
		*o = OutcomeHit
	case "already_resolved":
		*o = OutcomeAlreadyResolved
	case "miss":
		*o = OutcomeMiss
	default:
		return fmt.Errorf("unknown attack outcome %q", text)
	}
	return nil
}

// Attack resolves a shot against the board. Hit and miss cells are
// terminal: firing at them again reports OutcomeAlreadyResolved and
// leaves the board untouched.
func (b *Board) Attack(row, col int) (AttackOutcome, error) {
	if !NewCoordinates(row, col).InBounds() {
		return OutcomeMiss, cerr.ErrRowOrColOutOfGridBound(row, col)
	}

	switch b[row][col] {
	case CellShip:
		b[row][col] = CellHit
		return OutcomeHit, nil

	case CellEmpty:
		b[row][col] = CellMiss
		return OutcomeMiss, nil

	default:
		return OutcomeAlreadyResolved, nil
	}
}

func (b *Board) AllShipsSunk() bool {
	return b.CountCells(CellShip) == 0
}
