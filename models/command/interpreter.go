package command

import (
	"errors"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

const (
	ReasonBadCoordinates       = "bad coordinates"
	ReasonUnrecognizedCommand  = "unrecognized command"
	ReasonNoCommandProduced    = "no command produced"
	ReasonClassificationFailed = "could not classify command"
)

// Interpret turns an utterance and the label the classifier picked for
// it into a game command. The label says what the player wants (ship,
// orientation, fire); the digits in the utterance say where.
func Interpret(text, label string) mb.Command {
	normalized := Normalize(text)

	at, err := ExtractCoordinates(normalized)
	if err != nil {
		return mb.NewInvalid(ReasonBadCoordinates, err)
	}

	parsed, err := ParseLabel(label)
	if err != nil {
		return mb.NewInvalid(ReasonUnrecognizedCommand, err)
	}

	switch parsed.Action {
	case ActionFiring:
		return mb.Fire{Row: at.Row, Col: at.Col}

	default:
		orientation := parsed.Orientation
		if !parsed.HasOrientation {
			orientation, _ = orientationFromText(normalized)
		}
		return mb.PlaceShip{Ship: parsed.Ship, Row: at.Row, Col: at.Col, Orientation: orientation}
	}
}

// Reason a command could not be applied, phrased for the player.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, cerr.ErrBadCoordinates):
		return ReasonBadCoordinates
	case errors.Is(err, cerr.ErrUnrecognizedCommand):
		return ReasonUnrecognizedCommand
	case errors.Is(err, cerr.ErrNoCommandProduced):
		return ReasonNoCommandProduced
	case errors.Is(err, cerr.ErrClassifierFailed):
		return ReasonClassificationFailed
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
