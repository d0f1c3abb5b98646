package battleship

import (
	"strings"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

// Player is a seat at the table, not a connection. Player A always
// opens fire.
type Player uint8

const (
	PlayerA Player = iota
	PlayerB
)

func (p Player) String() string {
	if p == PlayerB {
		return "B"
	}
	return "A"
}

// Number as shown to players ("Player 1", "Player 2").
func (p Player) Number() int {
	return int(p) + 1
}

func (p Player) Opponent() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "1", "player1", "host":
		return PlayerA, nil
	case "b", "2", "player2", "join":
		return PlayerB, nil
	}
	return PlayerA, cerr.ErrInvalidPlayerName(s)
}
