package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.IncrementGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementGamesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.IncrementGamesFinishedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementMovesMadeCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.IncrementMovesMadeCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementVoiceCommandsCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.IncrementVoiceCommandsCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.GetGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGameServerAnalytics(ctx context.Context, serverIpNet pqtype.Inet) (GetGameServerAnalyticsRow, error) {
	return a.queries.GetGameServerAnalytics(ctx, serverIpNet)
}
