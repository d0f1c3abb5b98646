package api

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-voice-backend/db/sqlc"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

// Upper bound for a single counter update.
const analyticsTimeout = time.Second * 3

// analyticsRecorder bumps the per-server counters. Without a database
// every call is a no-op, and a failing database never blocks a game.
type analyticsRecorder struct {
	analytics *sqlc.AnalyticsManager
	serverIp  pqtype.Inet
}

func newAnalyticsRecorder(db *sql.DB, serverIpNet net.IPNet) analyticsRecorder {
	ar := analyticsRecorder{serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true}}
	if db != nil {
		ar.analytics = sqlc.NewAnalyticsManager(sqlc.New(db))
	}
	return ar
}

func (ar analyticsRecorder) record(counter string, increment func(context.Context, pqtype.Inet) error) {
	ctx, cancel := context.WithTimeout(context.Background(), analyticsTimeout)
	defer cancel()

	if err := increment(ctx, ar.serverIp); err != nil {
		// for now not killing the game for it
		log.Warn().Err(err).Str("counter", counter).Msg("analytics update failed")
	}
}

func (ar analyticsRecorder) gameCreated() {
	if ar.analytics == nil {
		return
	}
	ar.record("games_created", ar.analytics.IncrementGamesCreatedCount)
}

// commandApplied counts what an accepted command did. Redundant shots
// are not moves.
func (ar analyticsRecorder) commandApplied(result mb.Result, voiced bool) {
	if ar.analytics == nil {
		return
	}
	if voiced {
		ar.record("voice_commands", ar.analytics.IncrementVoiceCommandsCount)
	}
	if result.Target != nil && result.Outcome != mb.OutcomeAlreadyResolved {
		ar.record("moves_made", ar.analytics.IncrementMovesMadeCount)
	}
	if result.GameOver {
		ar.record("games_finished", ar.analytics.IncrementGamesFinishedCount)
	}
}
