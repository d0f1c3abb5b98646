package connection

import "encoding/json"

type NoPayload bool

// Message is the envelope for every frame on the websocket, in both
// directions. Code selects the payload type.
type Message[T any] struct {
	Code    uint8    `json:"code"`
	Payload T        `json:"payload,omitempty"`
	Error   *RespErr `json:"error,omitempty"`
}

func NewMessage[T any](code uint8) Message[T] {
	return Message[T]{Code: code}
}

func (m *Message[T]) AddPayload(payload T) {
	m.Payload = payload
}

func (m *Message[T]) AddError(errorDetails, message string) {
	m.Error = NewRespErr(errorDetails, message)
}

// DecodePayload reads the payload of a raw frame into T.
func DecodePayload[T any](raw []byte) (T, error) {
	var msg Message[T]
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg.Payload, err
	}
	return msg.Payload, nil
}
