// Package repository holds the storage adapters: competition standings,
// snapshot history and the achievement ledger.
package repository

import (
	"context"
	"time"
)

// Entry is one participant's row in a competition's standings.
type Entry struct {
	Rank      int       `json:"rank"`
	PlayerID  string    `json:"player_id"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Gained    float64   `json:"gained"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Standings provides read/write access to one competition's ranking.
type Standings interface {
	// Update replaces the participant's entry. It reports whether anything
	// changed.
	Update(ctx context.Context, e Entry) (bool, error)

	// Rank returns the participant's entry with its current rank.
	// Returns ErrNotFound if the participant is unknown.
	Rank(ctx context.Context, playerID string) (Entry, error)

	// TopN returns the first n entries ordered by gained desc, id asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of participants.
	Count(ctx context.Context) int
}
