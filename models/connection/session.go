package connection

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	maxWriteWsRetries uint8 = 2
	backOffFactor     uint8 = 2
)

type ConnectionHandler interface {
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}) error
	onConnErr(err error) uint8
}

// Session is one websocket connection. Writes may come from the owning
// read loop and from the other player's loop, so they are serialized.
type Session struct {
	id        string
	conn      *websocket.Conn
	writeMu   sync.Mutex
	createdAt time.Time
}

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:        id,
		conn:      conn,
		createdAt: time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	return s.conn
}

func (s *Session) onConnErr(err error) uint8 {
	logger := log.With().Str("session_id", s.id).Err(err).Logger()

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		logger.Warn().Msg("timeout error")
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		logger.Warn().Msg("high server load/traffic error")
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
		logger.Info().Msg("close error")
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		logger.Error().Msg("critical error")
		return ConnLoopBreak
	}

	/*
		This might mean that the client is not from the application.
		Breaking not to overwhelm the server with invalid payloads.

		CloseUnsupportedData (1003): binary frame sent to a text only server.
		CloseInvalidFramePayloadData (1007): text frame that is not valid UTF-8.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		logger.Warn().Msg("non-critical error")
		return ConnLoopBreak
	}

	logger.Debug().Msg("unexpected error")
	return ConnLoopBreak
}

// Writes a JSON frame to the connection of that session,
// retrying on timeouts with a linear backoff.
func (s *Session) writeToConnWithRetry(msg interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var retries uint8
	for {
		err := s.conn.WriteJSON(msg)
		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				log.Warn().Str("remote_addr", s.conn.RemoteAddr().String()).Uint8("retry", retries).Msg("writing json failed to ws; retrying")
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue
			}
			log.Error().Str("remote_addr", s.conn.RemoteAddr().String()).Err(err).Msg("max retries reached for writing to ws")
			return NewConnErr(ConnLoopBreak).AddDesc("max retries reached")

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop due to: " + err.Error())
		}
	}
}

// Handles the errors that occur when reading from
// ws connection. Anything other than `ConnLoopContinue`
// ends the session.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			log.Warn().Str("remote_addr", s.conn.RemoteAddr().String()).Uint8("retry", retries).Msg("failed to read from ws conn; retrying")
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		return ConnLoopBreak
	}
}

var _ ConnectionHandler = (*Session)(nil)
