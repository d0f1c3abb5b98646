package battleship

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

func standardFleet(rowOffset int) []PlaceShip {
	return []PlaceShip{
		{Ship: ShipBattleship, Row: rowOffset + 0, Col: 0, Orientation: Horizontal},
		{Ship: ShipCruiser, Row: rowOffset + 1, Col: 0, Orientation: Horizontal},
		{Ship: ShipDestroyer, Row: rowOffset + 2, Col: 0, Orientation: Horizontal},
		{Ship: ShipSubmarine, Row: rowOffset + 3, Col: 0, Orientation: Horizontal},
		{Ship: ShipCarrier, Row: rowOffset + 0, Col: 6, Orientation: Vertical},
	}
}

func placeFleet(t *testing.T, g *Game, player Player, fleet []PlaceShip) Result {
	t.Helper()
	var last Result
	for _, cmd := range fleet {
		result, err := g.Apply(player, cmd)
		if err != nil {
			t.Fatalf("placing %s for %s: %v", cmd.Ship, player, err)
		}
		last = result
	}
	return last
}

func TestPhaseTransition(t *testing.T) {
	g := NewGame()
	if g.Phase() != PhasePlacement {
		t.Fatalf("expected phase: %s\tgot: %s", PhasePlacement, g.Phase())
	}

	if _, err := g.Apply(PlayerA, Fire{Row: 0, Col: 0}); !errors.Is(err, cerr.ErrNotInFiringPhase) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrNotInFiringPhase, err)
	}

	last := placeFleet(t, g, PlayerA, standardFleet(0))
	if last.PhaseChanged {
		t.Fatal("one complete fleet must not start the firing phase")
	}
	if g.Phase() != PhasePlacement {
		t.Fatalf("expected phase: %s\tgot: %s", PhasePlacement, g.Phase())
	}

	last = placeFleet(t, g, PlayerB, standardFleet(5))
	if !last.PhaseChanged || last.Phase != PhaseFiring {
		t.Fatalf("expected transition to firing\tgot: %+v", last)
	}
	if g.Phase() != PhaseFiring || g.Turn() != PlayerA {
		t.Fatalf("expected firing phase with A to move\tgot: %s %s", g.Phase(), g.Turn())
	}

	_, err := g.Apply(PlayerA, PlaceShip{Ship: ShipSubmarine, Row: 9, Col: 0, Orientation: Horizontal})
	if !errors.Is(err, cerr.ErrNotInPlacementPhase) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrNotInPlacementPhase, err)
	}
}

func TestPlacementRejectionLeavesGameUnchanged(t *testing.T) {
	g := NewGame()
	if _, err := g.Apply(PlayerA, PlaceShip{Ship: ShipCarrier, Row: 0, Col: 0, Orientation: Horizontal}); err != nil {
		t.Fatal(err)
	}
	before := g.State(PlayerA)

	rejected := []PlaceShip{
		{Ship: ShipCarrier, Row: 5, Col: 5, Orientation: Horizontal},
		{Ship: ShipBattleship, Row: 1, Col: 0, Orientation: Horizontal},
		{Ship: ShipBattleship, Row: 0, Col: 8, Orientation: Horizontal},
	}
	for _, cmd := range rejected {
		if _, err := g.Apply(PlayerA, cmd); err == nil {
			t.Fatalf("expected rejection for %+v", cmd)
		}
	}

	after := g.State(PlayerA)
	if after.PlayerBoard != before.PlayerBoard {
		t.Fatal("rejected placements changed the board")
	}
	if len(after.PlacedShips) != 1 {
		t.Fatalf("expected 1 placed ship\tgot: %d", len(after.PlacedShips))
	}
}

func TestInvalidCommandIsRejected(t *testing.T) {
	g := NewGame()
	_, err := g.Apply(PlayerA, NewInvalid("bad coordinates", cerr.ErrBadCoordinates))
	if !errors.Is(err, cerr.ErrInvalidCommand) || !errors.Is(err, cerr.ErrBadCoordinates) {
		t.Fatalf("expected invalid command wrapping bad coordinates\tgot: %v", err)
	}
}

func TestTurnAlternation(t *testing.T) {
	g := NewGame()
	placeFleet(t, g, PlayerA, standardFleet(0))
	placeFleet(t, g, PlayerB, standardFleet(5))

	// A misses, B misses, A hits
	steps := []struct {
		player          Player
		target          Coordinates
		expectedOutcome AttackOutcome
		expectedTurn    Player
		expectedErr     error
	}{
		{player: PlayerB, target: NewCoordinates(9, 9), expectedErr: cerr.ErrNotYourTurn, expectedTurn: PlayerA},
		{player: PlayerA, target: NewCoordinates(9, 9), expectedOutcome: OutcomeMiss, expectedTurn: PlayerB},
		{player: PlayerA, target: NewCoordinates(9, 8), expectedErr: cerr.ErrNotYourTurn, expectedTurn: PlayerB},
		{player: PlayerB, target: NewCoordinates(9, 9), expectedOutcome: OutcomeMiss, expectedTurn: PlayerA},
		{player: PlayerA, target: NewCoordinates(5, 0), expectedOutcome: OutcomeHit, expectedTurn: PlayerB},
		{player: PlayerB, target: NewCoordinates(9, 9), expectedOutcome: OutcomeAlreadyResolved, expectedTurn: PlayerB},
		{player: PlayerB, target: NewCoordinates(10, 0), expectedErr: cerr.ErrOutOfBounds, expectedTurn: PlayerB},
		{player: PlayerB, target: NewCoordinates(0, 0), expectedOutcome: OutcomeHit, expectedTurn: PlayerA},
	}

	for i, step := range steps {
		result, err := g.Apply(step.player, Fire{Row: step.target.Row, Col: step.target.Col})
		if step.expectedErr != nil {
			if !errors.Is(err, step.expectedErr) {
				t.Fatalf("step %d: expected err: %v\tgot: %v", i, step.expectedErr, err)
			}
		} else {
			if err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
			if result.Outcome != step.expectedOutcome {
				t.Fatalf("step %d: expected outcome: %s\tgot: %s", i, step.expectedOutcome, result.Outcome)
			}
		}

		if g.Turn() != step.expectedTurn {
			t.Fatalf("step %d: expected turn: %s\tgot: %s", i, step.expectedTurn, g.Turn())
		}
	}

	if g.Moves() != 4 {
		t.Fatalf("expected 4 moves\tgot: %d", g.Moves())
	}
}

// Player B's fleet is a single carrier; A shoots every water cell
// before the ship cells. Game over must fire exactly once, on the last
// ship cell, with A as the winner.
func TestEndToEndFromBoards(t *testing.T) {
	var boardA, boardB Board
	_, shape, _ := LookupShip(string(ShipCarrier))
	carrier := Footprint(shape, NewCoordinates(0, 0), Horizontal)
	isShip := make(map[Coordinates]bool, len(carrier))
	for _, cell := range carrier {
		boardB[cell.Row][cell.Col] = CellShip
		isShip[cell] = true
	}
	// A keeps a ship B never shoots at
	boardA[9][9] = CellShip

	g := NewGameFromBoards(boardA, boardB)
	if g.Phase() != PhaseFiring {
		t.Fatalf("expected phase: %s\tgot: %s", PhaseFiring, g.Phase())
	}

	targets := make([]Coordinates, 0, GridSize*GridSize)
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			if !isShip[NewCoordinates(r, c)] {
				targets = append(targets, NewCoordinates(r, c))
			}
		}
	}
	targets = append(targets, carrier...)

	// B answers every shot by firing into A's water, never at 9,9
	var bShots []Coordinates
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			if r != 9 || c != 9 {
				bShots = append(bShots, NewCoordinates(r, c))
			}
		}
	}

	gameOvers := 0
	for i, target := range targets {
		result, err := g.Apply(PlayerA, Fire{Row: target.Row, Col: target.Col})
		if err != nil {
			t.Fatalf("A shot %d at %v: %v", i, target, err)
		}

		expected := OutcomeMiss
		if isShip[target] {
			expected = OutcomeHit
		}
		if result.Outcome != expected {
			t.Fatalf("A shot at %v: expected outcome: %s\tgot: %s", target, expected, result.Outcome)
		}

		if result.GameOver {
			gameOvers++
			if i != len(targets)-1 {
				t.Fatalf("game ended early at shot %d (%v)", i, target)
			}
			if result.Winner == nil || *result.Winner != PlayerA {
				t.Fatalf("expected winner: %s\tgot: %v", PlayerA, result.Winner)
			}
			continue
		}

		shot := bShots[i]
		if _, err := g.Apply(PlayerB, Fire{Row: shot.Row, Col: shot.Col}); err != nil {
			t.Fatalf("B shot %d: %v", i, err)
		}
	}

	if gameOvers != 1 {
		t.Fatalf("expected exactly one game over\tgot: %d", gameOvers)
	}
	winner, over := g.Winner()
	if !over || winner != PlayerA {
		t.Fatalf("expected A to have won\tgot: %s over=%t", winner, over)
	}

	if _, err := g.Apply(PlayerB, Fire{Row: 9, Col: 9}); !errors.Is(err, cerr.ErrGameOver) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrGameOver, err)
	}
	if g.Turn() != PlayerA {
		t.Fatal("turn must not advance after game over")
	}

	g.Reset()
	if g.Phase() != PhasePlacement || g.Turn() != PlayerA {
		t.Fatalf("reset should return to placement with A\tgot: %s %s", g.Phase(), g.Turn())
	}
	if _, over := g.Winner(); over {
		t.Fatal("reset game has no winner")
	}
}

func TestMakeMoveUsesCurrentTurn(t *testing.T) {
	var boardA, boardB Board
	boardA[0][0] = CellShip
	boardB[0][0] = CellShip
	g := NewGameFromBoards(boardA, boardB)

	result, err := g.MakeMove(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.Player != PlayerA || result.Message != "Player 1: Miss!" {
		t.Fatalf("unexpected result: %+v", result)
	}

	result, err = g.MakeMove(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Player != PlayerB || !result.GameOver || result.Message != "Player 2 wins!" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestStateMasksOpponent(t *testing.T) {
	var boardA, boardB Board
	boardA[3][3] = CellShip
	boardB[4][4] = CellShip
	boardB[4][5] = CellShip
	g := NewGameFromBoards(boardA, boardB)

	if _, err := g.MakeMove(4, 4); err != nil {
		t.Fatal(err)
	}

	state := g.State(PlayerA)
	if state.OpponentBoard.CountCells(CellShip) != 0 {
		t.Fatal("opponent ships must be masked")
	}
	if state.OpponentBoard.Cell(4, 4) != CellHit {
		t.Fatal("hits on the opponent stay visible")
	}
	if state.PlayerBoard.Cell(3, 3) != CellShip {
		t.Fatal("own ships stay visible")
	}
}

func TestAlreadyPlacedMessage(t *testing.T) {
	g := NewGame()
	if _, err := g.Apply(PlayerB, PlaceShip{Ship: ShipSubmarine, Row: 3, Col: 5, Orientation: Vertical}); err != nil {
		t.Fatal(err)
	}

	_, err := g.Apply(PlayerB, PlaceShip{Ship: ShipSubmarine, Row: 0, Col: 0, Orientation: Horizontal})
	if !errors.Is(err, cerr.ErrShipAlreadyPlaced) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrShipAlreadyPlaced, err)
	}
	expected := "ship has been placed already: submarine at 35 vertical"
	if err.Error() != expected {
		t.Fatalf("expected message: %q\tgot: %q", expected, err.Error())
	}

	// Player A's registry is independent
	if _, err := g.Apply(PlayerA, PlaceShip{Ship: ShipSubmarine, Row: 3, Col: 5, Orientation: Vertical}); err != nil {
		t.Fatal(err)
	}
}
