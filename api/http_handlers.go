package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
	"github.com/saeidalz13/battleship-voice-backend/models/command"
	mc "github.com/saeidalz13/battleship-voice-backend/models/connection"
)

const maxAudioBytes = 10 << 20

type ReqStartGame struct {
	PlayerBoard   mb.Board `json:"player_board"`
	OpponentBoard mb.Board `json:"opponent_board"`
}

// Token is player A's, OpponentToken player B's. A hot seat client
// keeps both.
type RespStartGame struct {
	GameUuid      string    `json:"game_id"`
	Token         string    `json:"token"`
	OpponentToken string    `json:"opponent_token"`
	Turn          mb.Player `json:"turn"`
	Phase         mb.Phase  `json:"phase"`
	Message       string    `json:"message"`
}

type ReqMakeMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// RespMakeMove is the board as the token's player sees it: their own
// board and the opponent's masked.
type RespMakeMove struct {
	Message       string     `json:"message"`
	Turn          mb.Player  `json:"turn"`
	Outcome       string     `json:"outcome"`
	PlayerBoard   mb.Board   `json:"player_board"`
	OpponentBoard mb.Board   `json:"opponent_board"`
	GameOver      bool       `json:"game_over"`
	Winner        *mb.Player `json:"winner,omitempty"`
}

// Player defaults to the token's player.
type ReqCommand struct {
	Player string `json:"player,omitempty"`
	Text   string `json:"text"`
	Label  string `json:"label,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"games":    s.GameManager.Count(),
		"sessions": s.SessionManager.SessionCount(),
	})
}

// Both boards are laid out by the client, so the game skips placement.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req ReqStartGame
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	if req.PlayerBoard.CountCells(mb.CellShip) == 0 || req.OpponentBoard.CountCells(mb.CellShip) == 0 {
		writeError(w, cerr.ErrInvalidLayoutDetail("each board needs at least one ship cell"))
		return
	}

	game := s.GameManager.CreateGameFromBoards(req.PlayerBoard, req.OpponentBoard)
	s.analytics.gameCreated()
	s.respondNewGame(w, game, "Game started! Player 1 will start attacking.")
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	game := s.GameManager.CreateGame()
	s.analytics.gameCreated()
	s.respondNewGame(w, game, "Game created. Place your ships.")
}

func (s *Server) respondNewGame(w http.ResponseWriter, game *mb.Game, message string) {
	var tokens [2]string
	for _, player := range []mb.Player{mb.PlayerA, mb.PlayerB} {
		token, err := s.issueGameToken(game.Uuid(), player)
		if err != nil {
			log.Error().Err(err).Str("game_id", game.Uuid()).Msg("failed to sign game token")
			s.GameManager.TerminateGame(game.Uuid())
			writeJSON(w, http.StatusInternalServerError, mc.NewRespErr(err.Error(), "could not create game"))
			return
		}
		tokens[player] = token
	}

	log.Info().Str("game_id", game.Uuid()).Str("phase", game.Phase().String()).Msg("game created")
	writeJSON(w, http.StatusCreated, RespStartGame{
		GameUuid:      game.Uuid(),
		Token:         tokens[mb.PlayerA],
		OpponentToken: tokens[mb.PlayerB],
		Turn:          game.Turn(),
		Phase:         game.Phase(),
		Message:       message,
	})
}

func (s *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	game, err := s.GameManager.GetGame(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req ReqMakeMove
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}

	result, err := game.MakeMove(req.Row, req.Col)
	if err != nil {
		writeError(w, err)
		return
	}
	s.analytics.commandApplied(result, false)

	state := game.State(tokenPlayer(r))
	writeJSON(w, http.StatusOK, RespMakeMove{
		Message:       result.Message,
		Turn:          result.Turn,
		Outcome:       result.Outcome.String(),
		PlayerBoard:   state.PlayerBoard,
		OpponentBoard: state.OpponentBoard,
		GameOver:      result.GameOver,
		Winner:        result.Winner,
	})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	game, err := s.GameManager.GetGame(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req ReqCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}

	player, err := actingPlayer(r, req.Player)
	if err != nil {
		writeError(w, err)
		return
	}

	cmd := s.pipeline.FromText(r.Context(), req.Text, req.Label)
	s.applyAndRespond(w, game, player, cmd, "")
}

// The audio body is the raw recording.
func (s *Server) handleAudioCommand(w http.ResponseWriter, r *http.Request) {
	game, err := s.GameManager.GetGame(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}

	player, err := actingPlayer(r, r.URL.Query().Get("player"))
	if err != nil {
		writeError(w, err)
		return
	}

	audio, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes))
	if err != nil {
		writeError(w, err)
		return
	}

	cmd, transcript, err := s.pipeline.FromAudio(r.Context(), audio)
	if err != nil {
		writeError(w, err)
		return
	}
	s.applyAndRespond(w, game, player, cmd, transcript)
}

func (s *Server) applyAndRespond(w http.ResponseWriter, game *mb.Game, player mb.Player, cmd mb.Command, transcript string) {
	result, err := game.Apply(player, cmd)
	if err != nil {
		log.Debug().Err(err).Str("game_id", game.Uuid()).Str("player", player.String()).Str("kind", cmd.Kind()).Msg("command rejected")
		writeError(w, err)
		return
	}
	s.analytics.commandApplied(result, true)

	writeJSON(w, http.StatusOK, mc.RespCommandResult{
		Result:     result,
		State:      game.State(player),
		Transcript: transcript,
	})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	game, err := s.GameManager.GetGame(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}

	player, err := actingPlayer(r, r.URL.Query().Get("player"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.State(player))
}

func (s *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.GameManager.GetGame(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}

	game.Reset()
	writeJSON(w, http.StatusOK, game.State(tokenPlayer(r)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromErr(err), mc.NewRespErr(err.Error(), command.RejectionReason(err)))
}

func statusFromErr(err error) int {
	switch {
	case errors.Is(err, cerr.ErrGameNotExists):
		return http.StatusNotFound

	case errors.Is(err, cerr.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, cerr.ErrPlayerMismatch):
		return http.StatusForbidden

	case errors.Is(err, cerr.ErrNotYourTurn),
		errors.Is(err, cerr.ErrNotInFiringPhase),
		errors.Is(err, cerr.ErrNotInPlacementPhase),
		errors.Is(err, cerr.ErrGameOver):
		return http.StatusConflict

	case errors.Is(err, cerr.ErrServiceUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, cerr.ErrShipAlreadyPlaced),
		errors.Is(err, cerr.ErrOutOfBounds),
		errors.Is(err, cerr.ErrCellOccupied),
		errors.Is(err, cerr.ErrUnknownShip),
		errors.Is(err, cerr.ErrInvalidCommand),
		errors.Is(err, cerr.ErrNoCommandProduced):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusBadRequest
	}
}
