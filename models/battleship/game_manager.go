package battleship

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
)

type GameManager interface {
	CreateGame() *Game
	CreateGameFromBoards(boardA, boardB Board) *Game
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CleanupPeriodically(interval, maxIdle time.Duration, inUse func(gameUuid string) bool, stop <-chan struct{})
	Count() int
}

type BattleshipGameManager struct {
	games map[string]*Game
	mu    sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager() *BattleshipGameManager {
	return &BattleshipGameManager{
		games: make(map[string]*Game, 10),
	}
}

func (bgm *BattleshipGameManager) CreateGame() *Game {
	return bgm.add(NewGame())
}

func (bgm *BattleshipGameManager) CreateGameFromBoards(boardA, boardB Board) *Game {
	return bgm.add(NewGameFromBoards(boardA, boardB))
}

func (bgm *BattleshipGameManager) add(game *Game) *Game {
	bgm.mu.Lock()
	bgm.games[game.Uuid()] = game
	bgm.mu.Unlock()
	return game
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExistsUuid(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) Count() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}

// Games idle for longer than maxIdle are dropped every interval unless
// inUse reports that someone is still sitting in them. inUse may be nil.
func (bgm *BattleshipGameManager) CleanupPeriodically(interval, maxIdle time.Duration, inUse func(gameUuid string) bool, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if removed := bgm.removeStale(maxIdle, inUse); removed > 0 {
				log.Info().Int("removed", removed).Msg("stale games cleaned up")
			}
		}
	}
}

func (bgm *BattleshipGameManager) removeStale(maxIdle time.Duration, inUse func(gameUuid string) bool) int {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	var removed int
	for gameUuid, game := range bgm.games {
		if time.Since(game.LastActive()) <= maxIdle {
			continue
		}
		if inUse != nil && inUse(gameUuid) {
			continue
		}
		delete(bgm.games, gameUuid)
		removed++
	}
	return removed
}
