package service

import (
	"context"
	"time"

	"github.com/okian/hiscores/internal/domain/achievement"
	"github.com/okian/hiscores/internal/domain/model"
	"github.com/okian/hiscores/internal/domain/validation"
	"github.com/okian/hiscores/pkg/logger"
)

// SnapshotSource reads a player's accepted snapshots.
type SnapshotSource interface {
	// Latest returns the newest snapshot, nil when the player has none.
	Latest(ctx context.Context, playerID string) (*model.Snapshot, error)
	// History returns snapshots inside [from, to] oldest first; zero bounds are open.
	History(ctx context.Context, playerID string, from, to time.Time) ([]model.Snapshot, error)
}

// Sink persists accepted snapshots and granted achievements.
type Sink interface {
	SaveSnapshot(ctx context.Context, s model.Snapshot) error
	SaveAchievements(ctx context.Context, list []achievement.Achievement) error
	Achievements(ctx context.Context, playerID string) ([]achievement.Achievement, error)
}

// ReviewNotifier hands rejected snapshots to moderation.
type ReviewNotifier interface {
	Notify(ctx context.Context, review validation.ReviewContext)
}

type logNotifier struct {
	logger logger.Logger
}

func (n logNotifier) Notify(ctx context.Context, r validation.ReviewContext) { //nolint:gocritic // hugeParam
	rules := make([]string, len(r.Rules))
	for i, rule := range r.Rules {
		rules[i] = string(rule)
	}
	n.logger.Warn(ctx, "snapshot flagged for review",
		logger.String("review_id", r.ID),
		logger.String("player", r.PlayerID),
		logger.Any("rules", rules),
		logger.Any("messages", r.Messages),
	)
}
