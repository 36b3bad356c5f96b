package repository

import (
	"context"
	"time"

	"github.com/okian/hiscores/internal/domain/model"
)

// SnapshotReader is the read side shared by MemoryHistory and PostgresSource.
type SnapshotReader interface {
	Latest(ctx context.Context, playerID string) (*model.Snapshot, error)
	History(ctx context.Context, playerID string, from, to time.Time) ([]model.Snapshot, error)
}

// Chain reads from the first source that has data for the player.
type Chain []SnapshotReader

// Latest returns the newest snapshot of the first source that has one.
func (c Chain) Latest(ctx context.Context, playerID string) (*model.Snapshot, error) {
	for _, src := range c {
		s, err := src.Latest(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, nil
}

// History merges every source's window; on equal timestamps the earlier
// source wins.
func (c Chain) History(ctx context.Context, playerID string, from, to time.Time) ([]model.Snapshot, error) {
	var merged []model.Snapshot
	seen := make(map[int64]bool)
	for _, src := range c {
		list, err := src.History(ctx, playerID, from, to)
		if err != nil {
			return nil, err
		}
		for _, s := range list {
			key := s.CreatedAt.UnixNano()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, s)
		}
	}
	model.SortByTime(merged)
	return merged, nil
}
