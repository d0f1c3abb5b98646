package battleship

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

type Phase uint8

const (
	PhasePlacement Phase = iota
	PhaseFiring
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseFiring:
		return "firing"
	case PhaseOver:
		return "over"
	default:
		return "placement"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "placement":
		*p = PhasePlacement
	case "firing":
		*p = PhaseFiring
	case "over":
		*p = PhaseOver
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Result reports what a command did to the game.
type Result struct {
	Player       Player        `json:"player"`
	Kind         string        `json:"kind"`
	Placement    *Placement    `json:"placement,omitempty"`
	Target       *Coordinates  `json:"target,omitempty"`
	Outcome      AttackOutcome `json:"outcome"`
	Phase        Phase         `json:"phase"`
	PhaseChanged bool          `json:"phase_changed"`
	Turn         Player        `json:"turn"`
	GameOver     bool          `json:"game_over"`
	Winner       *Player       `json:"winner,omitempty"`
	Message      string        `json:"message"`
}

// Game is a single session between two players. Every exported method
// takes the game lock, so commands against one game are applied one at
// a time and observers never see a half-applied placement or attack.
type Game struct {
	mu        sync.Mutex
	uuid      string
	fleets    [2]*Fleet
	phase     Phase
	turn      Player
	winner    Player
	moves      int
	lastActive time.Time
}

func newGame(gameUuid string) *Game {
	return &Game{
		uuid:       gameUuid,
		fleets:     [2]*Fleet{NewFleet(), NewFleet()},
		phase:      PhasePlacement,
		turn:       PlayerA,
		lastActive: time.Now(),
	}
}

// A game whose boards were laid out up front. Placement is skipped
// and player A fires first.
func newGameFromBoards(gameUuid string, boardA, boardB Board) *Game {
	g := newGame(gameUuid)
	g.fleets = [2]*Fleet{NewFleetFromBoard(boardA), NewFleetFromBoard(boardB)}
	g.phase = PhaseFiring
	return g
}

func NewGame() *Game {
	return newGame(uuid.NewString()[:8])
}

func NewGameFromBoards(boardA, boardB Board) *Game {
	return newGameFromBoards(uuid.NewString()[:8], boardA, boardB)
}

func (g *Game) Uuid() string {
	return g.uuid
}

// LastActive is when a command or reset last reached the game.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) Turn() Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn
}

// Second value is false while the game is still running.
func (g *Game) Winner() (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner, g.phase == PhaseOver
}

func (g *Game) Moves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moves
}

// Reset starts a new game in the same session. It is the only thing
// a finished game accepts.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.fleets = [2]*Fleet{NewFleet(), NewFleet()}
	g.phase = PhasePlacement
	g.turn = PlayerA
	g.winner = PlayerA
	g.moves = 0
	g.lastActive = time.Now()
}

// MakeMove fires on behalf of whoever holds the turn.
func (g *Game) MakeMove(row, col int) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apply(g.turn, Fire{Row: row, Col: col})
}

func (g *Game) Apply(player Player, cmd Command) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apply(player, cmd)
}

func (g *Game) apply(player Player, cmd Command) (Result, error) {
	g.lastActive = time.Now()
	if player != PlayerA && player != PlayerB {
		return Result{}, cerr.ErrInvalidPlayerName(fmt.Sprint(uint8(player)))
	}
	if g.phase == PhaseOver {
		return Result{}, cerr.ErrGameOver
	}

	switch c := cmd.(type) {
	case PlaceShip:
		if g.phase != PhasePlacement {
			return Result{}, cerr.ErrNotInPlacementPhase
		}
		return g.placeShip(player, c)

	case Fire:
		if g.phase != PhaseFiring {
			return Result{}, cerr.ErrNotInFiringPhase
		}
		if player != g.turn {
			return Result{}, cerr.ErrNotYourTurn
		}
		return g.fire(player, c)

	case Invalid:
		return Result{}, cerr.ErrCommandRejected(c.Reason, c.Err)

	default:
		return Result{}, cerr.ErrCommandRejected(fmt.Sprintf("unsupported command %T", cmd), nil)
	}
}

func (g *Game) placeShip(player Player, c PlaceShip) (Result, error) {
	placement, err := g.fleets[player].TryPlace(c.Ship, c.Row, c.Col, c.Orientation)
	if err != nil {
		return Result{}, err
	}

	result := g.newResult(player, c)
	result.Placement = &placement
	result.Message = fmt.Sprintf("%s placed at %s %s.", capitalize(string(placement.Ship)), placement.Anchor, placement.Orientation)

	// The phase ends when both registries hold the whole catalog
	if g.fleets[PlayerA].Complete() && g.fleets[PlayerB].Complete() {
		g.phase = PhaseFiring
		g.turn = PlayerA
		result.Phase = g.phase
		result.Turn = g.turn
		result.PhaseChanged = true
		result.Message = "All ships placed. " + result.Message + " Switching to firing phase."
	}
	return result, nil
}

func (g *Game) fire(player Player, c Fire) (Result, error) {
	defender := g.fleets[player.Opponent()]

	outcome, err := defender.Board.Attack(c.Row, c.Col)
	if err != nil {
		return Result{}, err
	}

	target := NewCoordinates(c.Row, c.Col)
	result := g.newResult(player, c)
	result.Target = &target
	result.Outcome = outcome

	switch outcome {
	case OutcomeAlreadyResolved:
		// Does not consume the turn
		result.Message = fmt.Sprintf("Player %d: %s was already fired at!", player.Number(), target)
		return result, nil

	case OutcomeHit:
		result.Message = fmt.Sprintf("Player %d: Hit!", player.Number())

	default:
		result.Message = fmt.Sprintf("Player %d: Miss!", player.Number())
	}
	g.moves++

	if defender.Board.AllShipsSunk() {
		g.phase = PhaseOver
		g.winner = player
		winner := player
		result.Phase = g.phase
		result.PhaseChanged = true
		result.GameOver = true
		result.Winner = &winner
		result.Message = fmt.Sprintf("Player %d wins!", player.Number())
		return result, nil
	}

	g.turn = player.Opponent()
	result.Turn = g.turn
	return result, nil
}

func (g *Game) newResult(player Player, cmd Command) Result {
	return Result{
		Player: player,
		Kind:   cmd.Kind(),
		Phase:  g.phase,
		Turn:   g.turn,
	}
}

// GameState is one player's view of the game. The opponent board is
// always masked.
type GameState struct {
	GameUuid       string      `json:"game_uuid"`
	Player         Player      `json:"player"`
	Phase          Phase       `json:"phase"`
	Turn           Player      `json:"turn"`
	GameOver       bool        `json:"game_over"`
	Winner         *Player     `json:"winner,omitempty"`
	PlayerBoard    Board       `json:"player_board"`
	OpponentBoard  Board       `json:"opponent_board"`
	PlacedShips    []Placement `json:"placed_ships"`
	RemainingShips []ShipType  `json:"remaining_ships,omitempty"`
}

func (g *Game) State(player Player) GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	own := g.fleets[player]
	state := GameState{
		GameUuid:      g.uuid,
		Player:        player,
		Phase:         g.phase,
		Turn:          g.turn,
		GameOver:      g.phase == PhaseOver,
		PlayerBoard:   own.Board,
		OpponentBoard: g.fleets[player.Opponent()].Board.Masked(),
		PlacedShips:   own.Placements(),
	}
	if g.phase == PhasePlacement {
		state.RemainingShips = own.Remaining()
	}
	if state.GameOver {
		winner := g.winner
		state.Winner = &winner
	}
	return state
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
