package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	"github.com/saeidalz13/battleship-voice-backend/internal/voice"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
	"github.com/saeidalz13/battleship-voice-backend/models/command"
	mc "github.com/saeidalz13/battleship-voice-backend/models/connection"
)

const voiceCommandTimeout = time.Second * 15

var (
	// allowedOrigins     = map[string]bool{
	// 	"https://www.allowed_url.com": true,
	// }
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	pipeline       *voice.Pipeline
	analytics      analyticsRecorder
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	pipeline *voice.Pipeline,
	analytics analyticsRecorder,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		pipeline:       pipeline,
		analytics:      analytics,
	}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Warn().Err(err).Msg("could not open websocket connection")
		return
	}

	session := rp.sessionManager.GenerateNewSession(conn)
	log.Info().Str("session_id", session.Id()).Str("remote_addr", conn.RemoteAddr().String()).Msg("a new connection established")
	rp.processSessionRequests(session)
}

// sessionSeat is where the session sits, if anywhere.
type sessionSeat struct {
	game   *mb.Game
	player mb.Player
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		seat      *sessionSeat
		sessionId = session.Id()
	)

	defer func() {
		if seat != nil {
			rp.leaveGame(seat)
		}
		if session.Conn() != nil {
			session.Conn().Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		log.Info().Str("session_id", sessionId).Msg("session terminated")
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(err.Error(), "")
			if err := rp.sessionManager.WriteToSessionConn(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		var werr error
		switch code {

		// The creator always sits in seat A
		case mc.CodeCreateGame:
			if seat != nil {
				rp.leaveGame(seat)
				seat = nil
			}

			game := rp.gameManager.CreateGame()
			rp.analytics.gameCreated()
			player, err := rp.sessionManager.ClaimSeat(game.Uuid(), sessionId)
			if err != nil {
				werr = rp.replyError(session, mc.CodeCreateGame, err)
				break
			}
			seat = &sessionSeat{game: game, player: player}

			respMsg := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)
			respMsg.AddPayload(mc.RespCreateGame{GameUuid: game.Uuid(), Player: player})
			werr = rp.sessionManager.WriteToSessionConn(session, respMsg)

		case mc.CodeJoinGame:
			var joined *sessionSeat
			joined, werr = rp.handleJoinGame(session, seat, payload)
			if joined != nil {
				seat = joined
			}

		case mc.CodePlaceShip:
			req, err := mc.DecodePayload[mc.ReqPlaceShip](payload)
			if err != nil {
				werr = rp.replyError(session, code, err)
				break
			}
			cmd := mb.PlaceShip{Ship: req.Ship, Row: req.Row, Col: req.Col, Orientation: req.Orientation}
			werr = rp.runCommand(session, code, seat, cmd, "", false)

		case mc.CodeAttack:
			req, err := mc.DecodePayload[mc.ReqAttack](payload)
			if err != nil {
				werr = rp.replyError(session, code, err)
				break
			}
			werr = rp.runCommand(session, code, seat, mb.Fire{Row: req.Row, Col: req.Col}, "", false)

		case mc.CodeVoiceCommand:
			req, err := mc.DecodePayload[mc.ReqVoiceCommand](payload)
			if err != nil {
				werr = rp.replyError(session, code, err)
				break
			}
			ctx, cancel := context.WithTimeout(context.Background(), voiceCommandTimeout)
			cmd := rp.pipeline.FromText(ctx, req.Text, req.Label)
			cancel()
			werr = rp.runCommand(session, code, seat, cmd, "", true)

		case mc.CodeAudioCommand:
			req, err := mc.DecodePayload[mc.ReqAudioCommand](payload)
			if err != nil {
				werr = rp.replyError(session, code, err)
				break
			}
			ctx, cancel := context.WithTimeout(context.Background(), voiceCommandTimeout)
			cmd, transcript, err := rp.pipeline.FromAudio(ctx, req.Audio)
			cancel()
			if err != nil {
				werr = rp.replyError(session, code, err)
				break
			}
			werr = rp.runCommand(session, code, seat, cmd, transcript, true)

		case mc.CodeStateSync:
			if seat == nil {
				werr = rp.replyError(session, code, cerr.ErrGameNotExists)
				break
			}
			respMsg := mc.NewMessage[mb.GameState](mc.CodeStateSync)
			respMsg.AddPayload(seat.game.State(seat.player))
			werr = rp.sessionManager.WriteToSessionConn(session, respMsg)

		case mc.CodeResetGame:
			if seat == nil {
				werr = rp.replyError(session, code, cerr.ErrGameNotExists)
				break
			}
			seat.game.Reset()
			werr = rp.broadcastReset(session, seat)

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			werr = rp.sessionManager.WriteToSessionConn(session, respInvalidSignal)
		}

		if werr != nil {
			break sessionLoop
		}
	}
}

// handleJoinGame sits the session in the second seat of an existing
// game. A full game is reported with CodeGameFull and the session
// keeps whatever seat it had.
func (rp *RequestProcessor) handleJoinGame(session *mc.Session, current *sessionSeat, payload []byte) (*sessionSeat, error) {
	req, err := mc.DecodePayload[mc.ReqJoinGame](payload)
	if err != nil {
		return nil, rp.replyError(session, mc.CodeJoinGame, err)
	}

	game, err := rp.gameManager.GetGame(req.GameUuid)
	if err != nil {
		return nil, rp.replyError(session, mc.CodeJoinGame, err)
	}
	if current != nil && current.game == game {
		return nil, rp.replyError(session, mc.CodeJoinGame, cerr.ErrInvalidPlayerName("already seated in this game"))
	}

	player, err := rp.sessionManager.ClaimSeat(game.Uuid(), session.Id())
	if err != nil {
		if errors.Is(err, cerr.ErrGameFull) {
			return nil, rp.replyError(session, mc.CodeGameFull, err)
		}
		return nil, rp.replyError(session, mc.CodeJoinGame, err)
	}

	if current != nil {
		rp.leaveGame(current)
	}
	seat := &sessionSeat{game: game, player: player}

	respMsg := mc.NewMessage[mc.RespJoinGame](mc.CodeJoinGame)
	respMsg.AddPayload(mc.RespJoinGame{GameUuid: game.Uuid(), Player: player})
	if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
		return seat, err
	}

	if otherSessionId, ok := rp.sessionManager.SeatedSession(game.Uuid(), player.Opponent()); ok {
		joinedMsg := mc.NewMessage[mb.GameState](mc.CodeOtherPlayerJoined)
		joinedMsg.AddPayload(game.State(player.Opponent()))
		if err := rp.sessionManager.Communicate(otherSessionId, joinedMsg); err != nil {
			log.Warn().Err(err).Str("game_id", game.Uuid()).Msg("could not notify seated player")
		}
	}
	return seat, nil
}

// runCommand applies the command for the seated player and reports the
// result to both seats, each with its own view of the boards.
func (rp *RequestProcessor) runCommand(session *mc.Session, code uint8, seat *sessionSeat, cmd mb.Command, transcript string, voiced bool) error {
	if seat == nil {
		return rp.replyError(session, code, cerr.ErrGameNotExists)
	}

	result, err := seat.game.Apply(seat.player, cmd)
	if err != nil {
		log.Debug().Err(err).Str("game_id", seat.game.Uuid()).Str("player", seat.player.String()).Str("kind", cmd.Kind()).Msg("command rejected")
		return rp.replyError(session, code, err)
	}
	rp.analytics.commandApplied(result, voiced)

	respMsg := mc.NewMessage[mc.RespCommandResult](mc.CodeCommandResult)
	respMsg.AddPayload(mc.RespCommandResult{Result: result, State: seat.game.State(seat.player), Transcript: transcript})
	if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
		return err
	}

	otherSessionId, seated := rp.sessionManager.SeatedSession(seat.game.Uuid(), seat.player.Opponent())
	if seated {
		otherMsg := mc.NewMessage[mc.RespCommandResult](mc.CodeCommandResult)
		otherMsg.AddPayload(mc.RespCommandResult{Result: result, State: seat.game.State(seat.player.Opponent())})
		if err := rp.sessionManager.Communicate(otherSessionId, otherMsg); err != nil {
			log.Warn().Err(err).Str("game_id", seat.game.Uuid()).Msg("could not deliver result to other player")
		}
	}

	if !result.GameOver {
		return nil
	}

	winner := *result.Winner
	endMsg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	endMsg.AddPayload(mc.RespEndGame{Winner: winner, Won: winner == seat.player})
	if err := rp.sessionManager.WriteToSessionConn(session, endMsg); err != nil {
		return err
	}

	if seated {
		otherEndMsg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
		otherEndMsg.AddPayload(mc.RespEndGame{Winner: winner, Won: winner == seat.player.Opponent()})
		if err := rp.sessionManager.Communicate(otherSessionId, otherEndMsg); err != nil {
			log.Warn().Err(err).Str("game_id", seat.game.Uuid()).Msg("could not deliver end game to other player")
		}
	}
	return nil
}

func (rp *RequestProcessor) broadcastReset(session *mc.Session, seat *sessionSeat) error {
	respMsg := mc.NewMessage[mb.GameState](mc.CodeGameReset)
	respMsg.AddPayload(seat.game.State(seat.player))
	if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
		return err
	}

	if otherSessionId, ok := rp.sessionManager.SeatedSession(seat.game.Uuid(), seat.player.Opponent()); ok {
		otherMsg := mc.NewMessage[mb.GameState](mc.CodeGameReset)
		otherMsg.AddPayload(seat.game.State(seat.player.Opponent()))
		if err := rp.sessionManager.Communicate(otherSessionId, otherMsg); err != nil {
			log.Warn().Err(err).Str("game_id", seat.game.Uuid()).Msg("could not deliver reset to other player")
		}
	}
	return nil
}

// leaveGame frees the seat. The player left behind gets a fresh game
// in placement; an empty game is dropped.
func (rp *RequestProcessor) leaveGame(seat *sessionSeat) {
	gameUuid := seat.game.Uuid()

	remainingSessionId, ok := rp.sessionManager.ReleaseSeat(gameUuid, seat.player)
	if !ok {
		rp.gameManager.TerminateGame(gameUuid)
		log.Info().Str("game_id", gameUuid).Msg("game terminated")
		return
	}

	seat.game.Reset()

	disconnectMsg := mc.NewMessage[mc.NoPayload](mc.CodeOtherPlayerDisconnected)
	if err := rp.sessionManager.Communicate(remainingSessionId, disconnectMsg); err != nil {
		return
	}

	resetMsg := mc.NewMessage[mb.GameState](mc.CodeGameReset)
	resetMsg.AddPayload(seat.game.State(seat.player.Opponent()))
	if err := rp.sessionManager.Communicate(remainingSessionId, resetMsg); err != nil {
		log.Warn().Err(err).Str("game_id", gameUuid).Msg("could not deliver reset to remaining player")
	}
}

func (rp *RequestProcessor) replyError(session *mc.Session, code uint8, err error) error {
	msg := mc.NewMessage[mc.NoPayload](code)
	msg.AddError(err.Error(), command.RejectionReason(err))
	return rp.sessionManager.WriteToSessionConn(session, msg)
}
