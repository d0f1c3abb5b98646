package error

import (
	"errors"
	"fmt"
)

// Placement rejections
var (
	ErrShipAlreadyPlaced = errors.New("ship has been placed already")
	ErrOutOfBounds       = errors.New("position is out of game grid bound")
	ErrCellOccupied      = errors.New("position in grid already taken")
	ErrUnknownShip       = errors.New("unknown ship type")
)

// Phase violations
var (
	ErrNotInFiringPhase    = errors.New("not in firing phase")
	ErrNotInPlacementPhase = errors.New("not in placement phase")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrGameOver            = errors.New("game is over")
)

// Interpretation and collaborator failures
var (
	ErrBadCoordinates      = errors.New("bad coordinates")
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	ErrInvalidCommand      = errors.New("invalid command")
	ErrNoCommandProduced   = errors.New("no command produced")
	ErrNoSpeechDetected    = errors.New("no speech detected")
	ErrServiceUnavailable  = errors.New("speech service unavailable")
)

// Lookups and transport
var (
	ErrGameNotExists    = errors.New("game does not exist")
	ErrSessionNotFound  = errors.New("session does not exist")
	ErrGameFull         = errors.New("game already has two players")
	ErrInvalidLayout    = errors.New("invalid board layout")
	ErrInvalidPlayer    = errors.New("invalid player")
	ErrInvalidToken     = errors.New("invalid game token")
	ErrPlayerMismatch   = errors.New("token was issued for the other player")
	ErrClassifierFailed = errors.New("classifier did not produce a label")
)

func ErrGameNotExistsUuid(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotExists, gameUuid)
}

func ErrSessionNotFoundId(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrRowOrColOutOfGridBound(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrOutOfBounds, row, col)
}

func ErrPositionAlreadyTaken(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrCellOccupied, row, col)
}

// at is the anchor rendered as "<row><col>" so the message matches how players speak it.
func ErrShipPlacedAt(ship, at, orientation string) error {
	return fmt.Errorf("%w: %s at %s %s", ErrShipAlreadyPlaced, ship, at, orientation)
}

func ErrUnknownShipType(ship string) error {
	return fmt.Errorf("%w: %q", ErrUnknownShip, ship)
}

func ErrInvalidLayoutDetail(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidLayout, detail)
}

func ErrInvalidPlayerName(player string) error {
	return fmt.Errorf("%w: %q", ErrInvalidPlayer, player)
}

func ErrCollaboratorFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrNoCommandProduced, cause)
}

func ErrCommandRejected(reason string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrInvalidCommand, reason)
	}
	return fmt.Errorf("%w: %w", ErrInvalidCommand, cause)
}
