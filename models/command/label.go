package command

import (
	"regexp"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

type Action uint8

const (
	ActionPlacement Action = iota
	ActionFiring
)

// Label is a classifier label decoded once at the boundary. The grid
// in a label is the classifier's guess; the utterance decides the cell.
type Label struct {
	Action         Action
	Ship           mb.ShipType
	Orientation    mb.Orientation
	HasOrientation bool
	Grid           mb.Coordinates
}

var (
	// placement_<ship>_<dd>_<orientation>
	placementLabel = regexp.MustCompile(`^placement_([a-z]+)_(\d{2})_([a-z]+)$`)
	// firing_<dd>
	firingLabel = regexp.MustCompile(`^firing_(\d{2})$`)
	// PLACE_SHIP <ship> <row> <col>
	placeShipLabel = regexp.MustCompile(`^PLACE_SHIP\s+([a-zA-Z]+)\s+(\d)\s+(\d)$`)
	// FIRE <row> <col>
	fireLabel = regexp.MustCompile(`^FIRE\s+(\d)\s+(\d)$`)
)

func ParseLabel(label string) (Label, error) {
	if m := placementLabel.FindStringSubmatch(label); m != nil {
		ship, _, err := mb.LookupShip(m[1])
		if err != nil {
			return Label{}, cerr.ErrUnrecognizedCommand
		}
		orientation, ok := mb.ParseOrientation(m[3])
		if !ok {
			return Label{}, cerr.ErrUnrecognizedCommand
		}
		return Label{
			Action:         ActionPlacement,
			Ship:           ship,
			Orientation:    orientation,
			HasOrientation: true,
			Grid:           gridFromDigits(m[2][0], m[2][1]),
		}, nil
	}

	if m := firingLabel.FindStringSubmatch(label); m != nil {
		return Label{Action: ActionFiring, Grid: gridFromDigits(m[1][0], m[1][1])}, nil
	}

	if m := placeShipLabel.FindStringSubmatch(label); m != nil {
		ship, _, err := mb.LookupShip(m[1])
		if err != nil {
			return Label{}, cerr.ErrUnrecognizedCommand
		}
		return Label{
			Action: ActionPlacement,
			Ship:   ship,
			Grid:   gridFromDigits(m[2][0], m[3][0]),
		}, nil
	}

	if m := fireLabel.FindStringSubmatch(label); m != nil {
		return Label{Action: ActionFiring, Grid: gridFromDigits(m[1][0], m[2][0])}, nil
	}

	return Label{}, cerr.ErrUnrecognizedCommand
}

func gridFromDigits(row, col byte) mb.Coordinates {
	return mb.NewCoordinates(int(row-'0'), int(col-'0'))
}

// PlacementLabel builds the label the classifier is expected to emit.
func PlacementLabel(ship mb.ShipType, grid mb.Coordinates, orientation mb.Orientation) string {
	return "placement_" + string(ship) + "_" + grid.String() + "_" + orientation.String()
}

func FiringLabel(grid mb.Coordinates) string {
	return "firing_" + grid.String()
}
