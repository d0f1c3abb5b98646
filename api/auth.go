package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
	mc "github.com/saeidalz13/battleship-voice-backend/models/connection"
)

const (
	gameTokenClaim    = "gid"
	playerTokenClaim  = "pid"
	gameTokenLifetime = time.Hour * 24
)

type tokenPlayerKey struct{}

// issueGameToken signs a bearer token that grants one player access
// to one game.
func (s *Server) issueGameToken(gameUuid string, player mb.Player) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		gameTokenClaim:   gameUuid,
		playerTokenClaim: player.String(),
		"iat":            now.Unix(),
		"exp":            now.Add(gameTokenLifetime).Unix(),
	})
	return token.SignedString(s.tokenSecret)
}

func (s *Server) parseGameToken(tokenStr string) (string, mb.Player, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.tokenSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", mb.PlayerA, cerr.ErrInvalidToken
	}

	gameUuid, _ := claims[gameTokenClaim].(string)
	if gameUuid == "" {
		return "", mb.PlayerA, cerr.ErrInvalidToken
	}

	pid, _ := claims[playerTokenClaim].(string)
	player, err := mb.ParsePlayer(pid)
	if err != nil {
		return "", mb.PlayerA, cerr.ErrInvalidToken
	}
	return gameUuid, player, nil
}

func bearerToken(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireGameToken only lets a request through when its token was
// issued for the game named in the URL. The token's player is put in
// the request context.
func (s *Server) requireGameToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gameUuid, player, err := s.parseGameToken(bearerToken(r))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, mc.NewRespErr(err.Error(), "missing or invalid token"))
			return
		}

		if gameUuid != chi.URLParam(r, "gameID") {
			writeJSON(w, http.StatusForbidden, mc.NewRespErr(cerr.ErrInvalidToken.Error(), "token was issued for another game"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenPlayerKey{}, player)))
	})
}

func tokenPlayer(r *http.Request) mb.Player {
	player, _ := r.Context().Value(tokenPlayerKey{}).(mb.Player)
	return player
}

// actingPlayer resolves the player a request speaks for. A player named
// in the request must be the one the token was issued to.
func actingPlayer(r *http.Request, named string) (mb.Player, error) {
	player := tokenPlayer(r)
	if named == "" {
		return player, nil
	}

	requested, err := mb.ParsePlayer(named)
	if err != nil {
		return player, err
	}
	if requested != player {
		return player, cerr.ErrPlayerMismatch
	}
	return player, nil
}
