// Package achievement detects threshold crossings and dates them from
// snapshot history.
package achievement

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// UnknownDate marks an achievement whose date cannot be determined.
var UnknownDate = time.Unix(0, 0).UTC()

// Achievement is one reached threshold.
type Achievement struct {
	PlayerID  string        `json:"player_id"`
	Name      string        `json:"name"`
	Metric    metric.Metric `json:"metric"`
	Threshold float64       `json:"threshold"`
	CreatedAt time.Time     `json:"created_at"`
	// Accuracy is the width of the window the true date lies in; nil when
	// the date is exact or unknown.
	Accuracy *time.Duration `json:"accuracy,omitempty"`
}

// Unknown reports whether the date is the unknown sentinel.
func (a Achievement) Unknown() bool { return a.CreatedAt.Equal(UnknownDate) }

// better reports whether candidate dates a more precisely than a does.
func (a Achievement) better(candidate Achievement) bool {
	if candidate.Unknown() {
		return false
	}
	if a.Unknown() {
		return true
	}
	if a.Accuracy == nil {
		return false
	}
	return candidate.Accuracy == nil || *candidate.Accuracy < *a.Accuracy
}

// Progress is how far a player is toward a definition's next threshold.
type Progress struct {
	Name      string        `json:"name"`
	Metric    metric.Metric `json:"metric"`
	Current   float64       `json:"current"`
	Threshold float64       `json:"threshold"`
	Fraction  float64       `json:"fraction"`
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithDefinitions replaces the definition table.
func WithDefinitions(defs ...Definition) Option {
	return func(e *Evaluator) {
		e.defs = append([]Definition(nil), defs...)
	}
}

// WithIntroducedLater replaces the set of metrics whose first ranked value
// cannot be dated.
func WithIntroducedLater(metrics ...metric.Metric) Option {
	return func(e *Evaluator) {
		e.introducedLater = make(map[metric.Metric]bool, len(metrics))
		for _, m := range metrics {
			e.introducedLater[m] = true
		}
	}
}

type entry struct {
	def       Definition
	threshold Threshold
}

// Evaluator finds new achievements. It is read-only once built.
type Evaluator struct {
	defs            []Definition
	introducedLater map[metric.Metric]bool
	byName          map[string]entry
}

// NewEvaluator creates an evaluator with the bundled tables and applies
// opts. Duplicate achievement names panic.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{defs: DefaultDefinitions()}
	WithIntroducedLater(DefaultIntroducedLater()...)(e)
	for _, opt := range opts {
		opt(e)
	}
	e.byName = make(map[string]entry)
	for _, d := range e.defs {
		for _, t := range d.Thresholds {
			name := d.Name(t)
			if _, dup := e.byName[name]; dup {
				panic(fmt.Sprintf("achievement: duplicate name %q", name))
			}
			e.byName[name] = entry{def: d, threshold: t}
		}
	}
	return e
}

// Definitions returns the definition table.
func (e *Evaluator) Definitions() []Definition {
	return append([]Definition(nil), e.defs...)
}

// Evaluate returns the achievements current satisfies that existing does
// not hold yet. previous is the player's prior snapshot, nil on first
// evaluation.
func (e *Evaluator) Evaluate(p model.Player, previous *model.Snapshot, current model.Snapshot, existing []Achievement) []Achievement {
	held := make(map[string]bool, len(existing))
	for _, a := range existing {
		held[a.Name] = true
	}

	var out []Achievement
	for _, d := range e.defs {
		for _, t := range d.Thresholds {
			name := d.Name(t)
			if held[name] || !d.Satisfied(current, t) {
				continue
			}
			a := Achievement{
				PlayerID:  p.ID,
				Name:      name,
				Metric:    d.Metric,
				Threshold: t.Value,
				CreatedAt: UnknownDate,
			}
			if previous != nil && e.datable(d, t, *previous) {
				a.CreatedAt = current.CreatedAt
				accuracy := current.CreatedAt.Sub(previous.CreatedAt)
				a.Accuracy = &accuracy
			}
			out = append(out, a)
		}
	}
	return out
}

// datable reports whether a crossing after before can be dated: before must
// not satisfy t already, and must not predate the metric's hiscores entry.
func (e *Evaluator) datable(d Definition, t Threshold, before model.Snapshot) bool {
	if d.Satisfied(before, t) {
		return false
	}
	return !(e.introducedLater[d.Metric] && before.Value(d.Metric) == model.Unranked)
}

// Backdate searches history for a tighter bracket around a's crossing: the
// earliest snapshot satisfying it and the one right before. It returns the
// redated achievement only when that is strictly more precise than a.
func (e *Evaluator) Backdate(a Achievement, history []model.Snapshot) (Achievement, bool) {
	en, ok := e.byName[a.Name]
	if !ok || len(history) < 2 {
		return a, false
	}
	sorted := append([]model.Snapshot(nil), history...)
	model.SortByTime(sorted)

	first := -1
	for i, s := range sorted {
		if en.def.Satisfied(s, en.threshold) {
			first = i
			break
		}
	}
	if first < 1 || !e.datable(en.def, en.threshold, sorted[first-1]) {
		return a, false
	}

	after, before := sorted[first], sorted[first-1]
	accuracy := after.CreatedAt.Sub(before.CreatedAt)
	candidate := a
	candidate.CreatedAt = after.CreatedAt
	candidate.Accuracy = &accuracy
	if !a.better(candidate) {
		return a, false
	}
	return candidate, true
}

// Progress returns, for every definition, the next threshold s has not met.
func (e *Evaluator) Progress(s model.Snapshot) []Progress {
	var out []Progress
	for _, d := range e.defs {
		current := d.Current(s)
		for _, t := range d.Thresholds {
			if d.Satisfied(s, t) {
				continue
			}
			fraction := 0.0
			if current > 0 && t.Value > 0 {
				fraction = model.Round(math.Min(1, current/t.Value))
			}
			out = append(out, Progress{
				Name:      d.Name(t),
				Metric:    d.Metric,
				Current:   current,
				Threshold: t.Value,
				Fraction:  fraction,
			})
			break
		}
	}
	return out
}
