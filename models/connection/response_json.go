package connection

import (
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid string    `json:"game_uuid"`
	Player   mb.Player `json:"player"`
}

type RespJoinGame struct {
	GameUuid string    `json:"game_uuid"`
	Player   mb.Player `json:"player"`
}

// RespCommandResult goes to both players. State is the recipient's own
// view, so the opponent board in it is masked.
type RespCommandResult struct {
	Result     mb.Result    `json:"result"`
	State      mb.GameState `json:"state"`
	Transcript string       `json:"transcript,omitempty"`
}

type RespEndGame struct {
	Winner mb.Player `json:"winner"`
	Won    bool      `json:"won"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
