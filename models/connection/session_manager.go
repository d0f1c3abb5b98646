package connection

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

var errMissingCode = errors.New("incoming req payload must contain 'code' field")

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(interval, maxAge time.Duration, stop <-chan struct{})

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	Communicate(receiverSessionId string, msg interface{}) error
	WriteToSessionConn(session *Session, msg interface{}) error
	ReadFromSessionConn(session *Session) (int, []byte, error)

	ClaimSeat(gameUuid, sessionId string) (mb.Player, error)
	ReleaseSeat(gameUuid string, player mb.Player) (remaining string, ok bool)
	SeatedSession(gameUuid string, player mb.Player) (string, bool)
	HasSeats(gameUuid string) bool
}

// BattleshipSessionManager owns the live connections and the seating
// of sessions in games. A game has two seats: the first session to sit
// is player A, the second player B.
type BattleshipSessionManager struct {
	sessions map[string]*Session
	seats    map[string][2]string
	mu       sync.RWMutex
}

func NewBattleshipSessionManager() *BattleshipSessionManager {
	initMapSize := 10

	return &BattleshipSessionManager{
		sessions: make(map[string]*Session, initMapSize),
		seats:    make(map[string][2]string, initMapSize),
	}
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs || session == nil {
		return nil, cerr.ErrSessionNotFoundId(sessionId)
	}
	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()
	delete(bsm.sessions, sessionId)
}

// This method sends the msg from one session to another
func (bsm *BattleshipSessionManager) Communicate(receiverSessionId string, msg interface{}) error {
	receiverSession, err := bsm.FindSession(receiverSessionId)
	if err != nil {
		return err
	}
	return bsm.WriteToSessionConn(receiverSession, msg)
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}) error {
	return session.writeToConnWithRetry(msg)
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		default:
			return -1, []byte{}, err
		}
	}
}

// ClaimSeat sits the session in the first free seat of the game.
// Sitting again in the same game returns the seat already held.
func (bsm *BattleshipSessionManager) ClaimSeat(gameUuid, sessionId string) (mb.Player, error) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	seats := bsm.seats[gameUuid]
	for _, player := range []mb.Player{mb.PlayerA, mb.PlayerB} {
		if seats[player] == sessionId {
			return player, nil
		}
	}
	for _, player := range []mb.Player{mb.PlayerA, mb.PlayerB} {
		if seats[player] == "" {
			seats[player] = sessionId
			bsm.seats[gameUuid] = seats
			return player, nil
		}
	}
	return mb.PlayerA, cerr.ErrGameFull
}

// ReleaseSeat frees the player's seat and reports the session still
// sitting in the game, if any.
func (bsm *BattleshipSessionManager) ReleaseSeat(gameUuid string, player mb.Player) (string, bool) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	seats, prs := bsm.seats[gameUuid]
	if !prs {
		return "", false
	}
	seats[player] = ""

	remaining := seats[player.Opponent()]
	if remaining == "" {
		delete(bsm.seats, gameUuid)
		return "", false
	}
	bsm.seats[gameUuid] = seats
	return remaining, true
}

func (bsm *BattleshipSessionManager) SeatedSession(gameUuid string, player mb.Player) (string, bool) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	sessionId := bsm.seats[gameUuid][player]
	return sessionId, sessionId != ""
}

// HasSeats reports whether any session is sitting in the game.
func (bsm *BattleshipSessionManager) HasSeats(gameUuid string) bool {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	_, prs := bsm.seats[gameUuid]
	return prs
}

// To ensure that there is no dangling connections, unseated sessions
// older than maxAge are closed and dropped from the manager. Closing
// the connection ends the session's read loop.
func (bsm *BattleshipSessionManager) CleanupPeriodically(interval, maxAge time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := bsm.removeStale(maxAge); n > 0 {
				log.Info().Int("removed", n).Int("sessions", bsm.SessionCount()).Msg("cleaned up stale sessions")
			}
		}
	}
}

func (bsm *BattleshipSessionManager) removeStale(maxAge time.Duration) int {
	bsm.mu.Lock()

	seated := make(map[string]bool, len(bsm.seats)*2)
	for gameUuid, seats := range bsm.seats {
		// seats of sessions that are already gone
		for _, player := range []mb.Player{mb.PlayerA, mb.PlayerB} {
			if _, prs := bsm.sessions[seats[player]]; !prs {
				seats[player] = ""
			}
		}
		if seats[mb.PlayerA] == "" && seats[mb.PlayerB] == "" {
			delete(bsm.seats, gameUuid)
			continue
		}
		bsm.seats[gameUuid] = seats
		seated[seats[mb.PlayerA]] = true
		seated[seats[mb.PlayerB]] = true
	}

	stale := make([]*Session, 0)
	for id, session := range bsm.sessions {
		if seated[id] || time.Since(session.createdAt) <= maxAge {
			continue
		}
		delete(bsm.sessions, id)
		stale = append(stale, session)
	}
	bsm.mu.Unlock()

	for _, session := range stale {
		if session.conn != nil {
			_ = session.conn.Close()
		}
	}
	return len(stale)
}

func (bsm *BattleshipSessionManager) SessionCount() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// FetchCodeFromMsg reads the signal code of an incoming frame. A frame
// without a "code" field is an error.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, errMissingCode
	}
	return *signal.Code, nil
}
