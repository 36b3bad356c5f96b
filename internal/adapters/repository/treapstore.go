package repository

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/okian/hiscores/pkg/metrics"
)

// Treap-based, in-memory Standings implementation.
//
// Ordering: gained DESC, then playerID ASC (deterministic). "less" means
// ranks earlier, so in-order traversal yields the standings best first.
// Node priorities are a hash of the player id, which keeps the tree
// balanced in expectation and stable across updates.

type node struct {
	id     string
	gained float64
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(aGained float64, aID string, bGained float64, bID string) bool {
	if aGained != bGained {
		return aGained > bGained
	}
	return aID < bID
}

func priority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, gained float64) *node {
	if n == nil {
		return &node{id: id, gained: gained, prio: priority(id), size: 1}
	}
	if less(gained, id, n.gained, n.id) {
		n.left = insert(n.left, id, gained)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, gained)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, gained float64) *node {
	if n == nil {
		return nil
	}
	if gained == n.gained && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, gained)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, gained)
		}
	} else if less(gained, id, n.gained, n.id) {
		n.left = deleteNode(n.left, id, gained)
	} else {
		n.right = deleteNode(n.right, id, gained)
	}
	fix(n)
	return n
}

// countAbove returns how many entries gained strictly more than g.
func countAbove(n *node, g float64) int {
	count := 0
	for n != nil {
		if n.gained > g {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, byID map[string]Entry, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byID, out)
	if len(*out) < limit {
		*out = append(*out, byID[n.id])
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, byID, out)
	}
}

// TreapStore keeps one competition's standings.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]Entry
	name string
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[string]Entry),
		name: "default",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update implements Standings.Update in O(log n) expected time.
func (s *TreapStore) Update(_ context.Context, e Entry) (bool, error) {
	if e.PlayerID == "" || math.IsNaN(e.Gained) || math.IsInf(e.Gained, 0) {
		metrics.RecordErrorByComponent("repository", "invalid_entry")
		return false, ErrInvalidEntry
	}
	e.Rank = 0

	s.mu.Lock()
	old, ok := s.byID[e.PlayerID]
	if ok && old.Gained == e.Gained && old.Start == e.Start && old.End == e.End {
		s.mu.Unlock()
		return false, nil
	}
	if ok {
		s.root = deleteNode(s.root, old.PlayerID, old.Gained)
	}
	s.byID[e.PlayerID] = e
	s.root = insert(s.root, e.PlayerID, e.Gained)
	count := len(s.byID)
	s.mu.Unlock()

	if !ok {
		metrics.UpdateStandingsParticipants(s.name, count)
	}
	return true, nil
}

// Rank returns the participant's entry; tied participants share a rank.
func (s *TreapStore) Rank(_ context.Context, playerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[playerID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	e.Rank = countAbove(s.root, e.Gained) + 1
	return e, nil
}

// TopN returns the top n entries ordered by gained desc.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, s.byID, &out)
	assignRanks(out)
	return out, nil
}

// Count returns the number of participants.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// assignRanks numbers a rank-ordered prefix; equal gains share the rank of
// the first of them and the next distinct gain resumes at its position.
func assignRanks(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Gained == entries[i-1].Gained {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
