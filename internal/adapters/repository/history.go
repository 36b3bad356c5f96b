package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/hiscores/internal/domain/achievement"
	"github.com/okian/hiscores/internal/domain/model"
)

// MemoryHistory keeps accepted snapshots and granted achievements in memory.
// It serves as both the snapshot source and the sink of the pipeline.
type MemoryHistory struct {
	mu           sync.RWMutex
	snapshots    map[string][]model.Snapshot // per player, ascending by CreatedAt
	achievements map[string]map[string]achievement.Achievement
	retention    int
}

// NewMemoryHistory creates an empty history.
func NewMemoryHistory(opts ...HistoryOption) *MemoryHistory {
	h := &MemoryHistory{
		snapshots:    make(map[string][]model.Snapshot),
		achievements: make(map[string]map[string]achievement.Achievement),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Latest returns the player's most recent snapshot, nil when none is stored.
func (h *MemoryHistory) Latest(_ context.Context, playerID string) (*model.Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := h.snapshots[playerID]
	if len(list) == 0 {
		return nil, nil
	}
	s := list[len(list)-1]
	return &s, nil
}

// History returns the player's snapshots with from <= CreatedAt <= to, oldest
// first. A zero bound is open.
func (h *MemoryHistory) History(_ context.Context, playerID string, from, to time.Time) ([]model.Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := h.snapshots[playerID]
	lo := 0
	if !from.IsZero() {
		lo = sort.Search(len(list), func(i int) bool { return !list[i].CreatedAt.Before(from) })
	}
	hi := len(list)
	if !to.IsZero() {
		hi = sort.Search(len(list), func(i int) bool { return list[i].CreatedAt.After(to) })
	}
	if lo >= hi {
		return nil, nil
	}
	return append([]model.Snapshot(nil), list[lo:hi]...), nil
}

// SaveSnapshot stores s in time order. A snapshot with the same CreatedAt as
// a stored one replaces it.
func (h *MemoryHistory) SaveSnapshot(_ context.Context, s model.Snapshot) error { //nolint:gocritic // hugeParam: snapshots are values
	if s.PlayerID == "" {
		return ErrInvalidEntry
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.snapshots[s.PlayerID]
	i := sort.Search(len(list), func(i int) bool { return !list[i].CreatedAt.Before(s.CreatedAt) })
	switch {
	case i < len(list) && list[i].CreatedAt.Equal(s.CreatedAt):
		list[i] = s
	default:
		list = append(list, model.Snapshot{})
		copy(list[i+1:], list[i:])
		list[i] = s
	}
	if h.retention > 0 && len(list) > h.retention {
		list = append([]model.Snapshot(nil), list[len(list)-h.retention:]...)
	}
	h.snapshots[s.PlayerID] = list
	return nil
}

// SaveAchievements upserts by (player, name).
func (h *MemoryHistory) SaveAchievements(_ context.Context, list []achievement.Achievement) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, a := range list {
		if a.PlayerID == "" || a.Name == "" {
			return ErrInvalidEntry
		}
		byName := h.achievements[a.PlayerID]
		if byName == nil {
			byName = make(map[string]achievement.Achievement)
			h.achievements[a.PlayerID] = byName
		}
		byName[a.Name] = a
	}
	return nil
}

// Achievements returns the player's achievements ordered by date then name.
func (h *MemoryHistory) Achievements(_ context.Context, playerID string) ([]achievement.Achievement, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]achievement.Achievement, 0, len(h.achievements[playerID]))
	for _, a := range h.achievements[playerID] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Players returns the ids of every player with stored snapshots.
func (h *MemoryHistory) Players() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.snapshots))
	for id := range h.snapshots {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
