package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/hiscores/internal/adapters/repository"
	"github.com/okian/hiscores/internal/domain/achievement"
	"github.com/okian/hiscores/internal/domain/delta"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
	"github.com/okian/hiscores/internal/domain/validation"
	"github.com/okian/hiscores/pkg/logger"
	"github.com/okian/hiscores/pkg/metrics"
)

// Outcome is what reconciling one candidate produced.
type Outcome struct {
	Player   model.Player
	Snapshot model.Snapshot
	Verdict  validation.Verdict

	// Deltas is set for accepted, changed snapshots with a predecessor.
	Deltas *delta.PlayerDeltas

	// Achievements are newly granted, already backdated where history allowed.
	Achievements []achievement.Achievement
	Backdated    int

	// Resumed is set when the snapshot was already stored by an earlier
	// attempt that failed after saving it.
	Resumed bool

	// Standings holds the updated entry per competition id.
	Standings map[string]repository.Entry
}

// Reconcile runs one candidate through the pipeline. Rejected candidates are
// reported in the Outcome and never reach the sink. Reconciling a snapshot
// identical to a stored one redoes the achievement and standings work for it,
// so a failed attempt can be retried.
func (s *Service) Reconcile(ctx context.Context, p model.Player, candidate model.Snapshot) (Outcome, error) { //nolint:gocritic // hugeParam: snapshots are values
	start := time.Now()
	defer func() {
		metrics.RecordReconcileLatency(float64(time.Since(start).Milliseconds()))
	}()

	if candidate.PlayerID == "" {
		candidate.PlayerID = p.ID
	}
	if p.Build == "" {
		p.Build = model.InferBuild(candidate)
	}

	unlock := s.lockPlayer(p.ID)
	defer unlock()

	out := Outcome{Player: p, Snapshot: s.engine.Stamp(candidate, p)}

	n, err := s.neighbours(ctx, p.ID, out.Snapshot)
	if err != nil {
		metrics.RecordErrorByComponent("service", "source")
		return out, err
	}

	if n.successor != nil {
		out.Verdict = s.validator.ValidateBackfill(n.previous, out.Snapshot, *n.successor, p)
	} else {
		out.Verdict = s.validator.Validate(n.previous, out.Snapshot, p)
	}
	if !out.Verdict.Accepted {
		s.reject(ctx, out.Verdict.Review)
		return out, nil
	}

	s.remember(p)

	switch {
	case n.stored != nil:
		// an earlier attempt stored it; redo what follows the save
		out.Resumed = true
		out.Snapshot = out.Snapshot.WithID(n.stored.ID)
	default:
		if out.Snapshot.ID == "" {
			out.Snapshot = out.Snapshot.WithID(uuid.NewString())
		}
		if err := s.sink.SaveSnapshot(ctx, out.Snapshot); err != nil {
			metrics.RecordErrorByComponent("service", "sink")
			return out, fmt.Errorf("save snapshot: %w", err)
		}
		metrics.RecordSnapshotAccepted(out.Verdict.Changed)
	}
	if !out.Verdict.Changed {
		if !out.Resumed {
			s.unchanged.Add(1)
		}
		s.logger.Debug(ctx, "snapshot unchanged", logger.String("player", p.ID))
		return out, nil
	}
	if !out.Resumed {
		s.accepted.Add(1)
	}

	if n.previous != nil {
		d := s.aggregator.Aggregate(n.previous, &out.Snapshot, p)
		out.Deltas = &d
	}

	if err := s.grant(ctx, &out, n.previous); err != nil {
		return out, err
	}
	if err := s.updateStandings(ctx, &out); err != nil {
		return out, err
	}

	s.logger.Info(ctx, "snapshot accepted",
		logger.String("player", p.ID),
		logger.Time("created_at", out.Snapshot.CreatedAt),
		logger.Float64("ehp", out.Snapshot.Value(metric.EHP)),
		logger.Int("achievements", len(out.Achievements)),
		logger.Bool("resumed", out.Resumed),
	)
	return out, nil
}

// neighbours are the stored snapshots around a candidate's time.
type neighbours struct {
	previous  *model.Snapshot
	successor *model.Snapshot
	// stored is a snapshot already recorded at the candidate's time with the
	// same data.
	stored *model.Snapshot
}

// neighbours finds the latest snapshot strictly before candidate and, for a
// backfill, the earliest one after it. A different snapshot already stored at
// the same time is a duplicate.
func (s *Service) neighbours(ctx context.Context, playerID string, candidate model.Snapshot) (neighbours, error) { //nolint:gocritic // hugeParam
	var n neighbours
	at := candidate.CreatedAt

	latest, err := s.source.Latest(ctx, playerID)
	if err != nil {
		return n, fmt.Errorf("latest snapshot: %w", err)
	}
	if latest == nil || latest.CreatedAt.Before(at) {
		n.previous = latest
		return n, nil
	}

	later, err := s.source.History(ctx, playerID, at, time.Time{})
	if err != nil {
		return n, fmt.Errorf("snapshot history: %w", err)
	}
	if len(later) > 0 && later[0].CreatedAt.Equal(at) {
		if !later[0].SameData(candidate) {
			return n, fmt.Errorf("%w: player %s at %s", ErrDuplicateSnapshot, playerID, at.Format(time.RFC3339))
		}
		n.stored = &later[0]
		later = later[1:]
	}
	if len(later) > 0 {
		n.successor = &later[0]
	}

	earlier, err := s.source.History(ctx, playerID, time.Time{}, at.Add(-time.Nanosecond))
	if err != nil {
		return n, fmt.Errorf("snapshot history: %w", err)
	}
	if len(earlier) > 0 {
		n.previous = &earlier[len(earlier)-1]
	}
	return n, nil
}

func (s *Service) reject(ctx context.Context, review *validation.ReviewContext) {
	s.rejected.Add(1)
	rules := make([]string, len(review.Rules))
	for i, r := range review.Rules {
		rules[i] = string(r)
	}
	metrics.RecordSnapshotRejected(rules...)
	s.notifier.Notify(ctx, *review)
}

// grant evaluates achievements against the stored ones and dates the undated
// ones from history.
func (s *Service) grant(ctx context.Context, out *Outcome, previous *model.Snapshot) error {
	existing, err := s.sink.Achievements(ctx, out.Player.ID)
	if err != nil {
		metrics.RecordErrorByComponent("service", "sink")
		return fmt.Errorf("load achievements: %w", err)
	}
	granted := s.evaluator.Evaluate(out.Player, previous, out.Snapshot, existing)
	if len(granted) == 0 {
		return nil
	}

	var history []model.Snapshot
	loaded := false
	for i, a := range granted {
		if !a.Unknown() {
			continue
		}
		if !loaded {
			if history, err = s.source.History(ctx, out.Player.ID, time.Time{}, out.Snapshot.CreatedAt); err != nil {
				return fmt.Errorf("snapshot history: %w", err)
			}
			loaded = true
		}
		if dated, ok := s.evaluator.Backdate(a, history); ok {
			granted[i] = dated
			out.Backdated++
		}
	}

	if err := s.sink.SaveAchievements(ctx, granted); err != nil {
		metrics.RecordErrorByComponent("service", "sink")
		return fmt.Errorf("save achievements: %w", err)
	}
	out.Achievements = granted
	metrics.RecordAchievementsGranted(len(granted))
	if out.Backdated > 0 {
		metrics.RecordAchievementsBackdated(out.Backdated)
	}
	return nil
}

// updateStandings recomputes the player's gains in every competition whose
// window holds the snapshot. Gains run from the first to the last accepted
// snapshot inside the window.
func (s *Service) updateStandings(ctx context.Context, out *Outcome) error {
	at := out.Snapshot.CreatedAt
	for _, c := range s.competitions {
		if !c.Active(at) {
			continue
		}
		window, err := s.source.History(ctx, out.Player.ID, c.Start, c.End)
		if err != nil {
			return fmt.Errorf("competition %s history: %w", c.ID, err)
		}
		if len(window) == 0 {
			continue
		}
		first, last := window[0], window[len(window)-1]
		g := s.aggregator.AggregateGroup(c.Metrics, out.Player, &first, &last)

		entry := repository.Entry{
			PlayerID:  out.Player.ID,
			Start:     g.Values.Start,
			End:       g.Values.End,
			Gained:    g.Values.Gained,
			UpdatedAt: last.CreatedAt,
		}
		if _, err := s.boards[c.ID].Update(ctx, entry); err != nil {
			return fmt.Errorf("competition %s standings: %w", c.ID, err)
		}
		if out.Standings == nil {
			out.Standings = make(map[string]repository.Entry)
		}
		out.Standings[c.ID] = entry
	}
	return nil
}
