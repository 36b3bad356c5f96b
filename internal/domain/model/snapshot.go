// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/okian/hiscores/internal/domain/metric"
)

// Unranked marks a value or rank never observed on the hiscores.
const Unranked = -1

// Stat is the (value, rank) pair a snapshot holds per metric.
type Stat struct {
	Value float64 `json:"value"`
	Rank  int64   `json:"rank"`
}

// UnrankedStat is the stat of a metric absent from the hiscores.
var UnrankedStat = Stat{Value: Unranked, Rank: Unranked}

// Ranked reports whether the value was observed.
func (s Stat) Ranked() bool { return s.Value > Unranked }

// Snapshot is an immutable point-in-time record of one player's stats.
//
// Stats live in a fixed-size array so copying a Snapshot copies its data;
// the With* methods return modified copies and never touch the receiver.
type Snapshot struct {
	ID        string
	PlayerID  string
	CreatedAt time.Time

	// OverallLevel is the total level reported by the source, 0 when absent.
	OverallLevel int

	stats [metric.Count]Stat
}

// NewSnapshot builds a snapshot; metrics missing from stats are unranked.
func NewSnapshot(playerID string, createdAt time.Time, stats map[metric.Metric]Stat) Snapshot {
	s := Snapshot{PlayerID: playerID, CreatedAt: createdAt}
	for i := range s.stats {
		s.stats[i] = UnrankedStat
	}
	for m, st := range stats {
		if m.Valid() {
			s.stats[m] = st
		}
	}
	return s
}

// Stat returns the (value, rank) pair for m.
func (s Snapshot) Stat(m metric.Metric) Stat {
	if !m.Valid() {
		return UnrankedStat
	}
	return s.stats[m]
}

// Value returns m's value, -1 when unranked.
func (s Snapshot) Value(m metric.Metric) float64 { return s.Stat(m).Value }

// Rank returns m's rank, -1 when unranked.
func (s Snapshot) Rank(m metric.Metric) int64 { return s.Stat(m).Rank }

// With returns a copy of s with m set to st.
func (s Snapshot) With(m metric.Metric, st Stat) Snapshot {
	if m.Valid() {
		s.stats[m] = st
	}
	return s
}

// WithID returns a copy of s carrying id.
func (s Snapshot) WithID(id string) Snapshot {
	s.ID = id
	return s
}

// Stats returns a fresh map of every metric's stat.
func (s Snapshot) Stats() map[metric.Metric]Stat {
	out := make(map[metric.Metric]Stat, len(s.stats))
	for i, st := range s.stats {
		out[metric.Metric(i)] = st
	}
	return out
}

// Level returns the level of skill m (Hitpoints floored at 10).
func (s Snapshot) Level(m metric.Metric) int {
	return metric.SkillLevel(m, s.Value(m))
}

// CombatLevel derives the combat level from the seven combat skills.
func (s Snapshot) CombatLevel() int {
	return metric.CombatLevel(
		s.Level(metric.Attack),
		s.Level(metric.Strength),
		s.Level(metric.Defence),
		s.Level(metric.Hitpoints),
		s.Level(metric.Ranged),
		s.Level(metric.Magic),
		s.Level(metric.Prayer),
	)
}

// TotalLevel sums every real skill's level, never reporting less than the
// source's own OverallLevel.
func (s Snapshot) TotalLevel() int {
	sum := 0
	for _, m := range metric.RealSkills() {
		sum += s.Level(m)
	}
	if s.OverallLevel > sum {
		return s.OverallLevel
	}
	return sum
}

// SameData reports whether s and o hold the same observed stats, ignoring
// computed metrics and identity.
func (s Snapshot) SameData(o Snapshot) bool { //nolint:gocritic // hugeParam
	if s.OverallLevel != o.OverallLevel {
		return false
	}
	for _, m := range metric.All() {
		if !m.IsComputed() && s.stats[m] != o.stats[m] {
			return false
		}
	}
	return true
}

// SortByTime orders snapshots oldest first, keeping the input order of equal
// timestamps.
func SortByTime(list []Snapshot) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
}

type snapshotJSON struct {
	ID           string                 `json:"id,omitempty"`
	PlayerID     string                 `json:"player_id"`
	CreatedAt    time.Time              `json:"created_at"`
	OverallLevel int                    `json:"overall_level,omitempty"`
	Data         map[metric.Metric]Stat `json:"data"`
}

// MarshalJSON encodes stats keyed by metric key.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		ID:           s.ID,
		PlayerID:     s.PlayerID,
		CreatedAt:    s.CreatedAt,
		OverallLevel: s.OverallLevel,
		Data:         s.Stats(),
	})
}

// UnmarshalJSON decodes the MarshalJSON form; absent metrics are unranked.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	decoded := NewSnapshot(raw.PlayerID, raw.CreatedAt, raw.Data)
	decoded.ID = raw.ID
	decoded.OverallLevel = raw.OverallLevel
	*s = decoded
	return nil
}
