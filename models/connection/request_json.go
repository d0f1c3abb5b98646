package connection

import (
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

type ReqJoinGame struct {
	GameUuid string `json:"game_uuid"`
}

type ReqPlaceShip struct {
	Ship        mb.ShipType    `json:"ship"`
	Row         int            `json:"row"`
	Col         int            `json:"col"`
	Orientation mb.Orientation `json:"orientation"`
}

type ReqAttack struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ReqVoiceCommand struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

// Audio travels base64 encoded inside the JSON frame.
type ReqAudioCommand struct {
	Audio []byte `json:"audio"`
}
