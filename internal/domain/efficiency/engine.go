package efficiency

import (
	"math"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAlgorithm replaces the algorithm used for one variant.
func WithAlgorithm(v Variant, a *Algorithm) Option {
	return func(e *Engine) {
		if a != nil {
			e.algorithms[v] = a
		}
	}
}

// WithAlgorithms replaces the algorithms of every variant in m.
func WithAlgorithms(m map[Variant]*Algorithm) Option {
	return func(e *Engine) {
		for v, a := range m {
			if a != nil {
				e.algorithms[v] = a
			}
		}
	}
}

// Result holds the efficiency of one snapshot.
type Result struct {
	Variant Variant
	EHP     float64
	EHB     float64
	// Skills and Bosses hold per-metric hours before rounding.
	Skills map[metric.Metric]float64
	Bosses map[metric.Metric]float64
}

// Calculator computes efficiency for a classified account.
type Calculator interface {
	// ComputeFor returns the snapshot's efficiency for player's classification.
	ComputeFor(s model.Snapshot, p model.Player) Result
}

// Engine implements Calculator over a fixed set of variant algorithms.
type Engine struct {
	algorithms map[Variant]*Algorithm
}

// NewEngine creates an engine with the bundled tables and applies opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{algorithms: DefaultAlgorithms()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Algorithm returns the algorithm for v.
func (e *Engine) Algorithm(v Variant) (*Algorithm, bool) {
	a, ok := e.algorithms[v]
	return a, ok
}

// Compute returns the efficiency of s under variant v. Unknown variants
// yield a zero result.
func (e *Engine) Compute(s model.Snapshot, v Variant) Result {
	a, ok := e.algorithms[v]
	if !ok {
		return Result{Variant: v}
	}
	skills, ehp := a.ehp(experienceOf(s))

	bosses := make(map[metric.Metric]float64, len(a.bosses))
	ehb := 0.0
	for _, m := range metric.Bosses() {
		h := a.BossHours(m, s.Value(m))
		bosses[m] = h
		ehb += h
	}

	return Result{
		Variant: v,
		EHP:     clampRound(ehp),
		EHB:     clampRound(ehb),
		Skills:  skills,
		Bosses:  bosses,
	}
}

// ComputeFor selects p's variant and computes s under it.
func (e *Engine) ComputeFor(s model.Snapshot, p model.Player) Result {
	v, ok := Select(p.Type, p.Build)
	if !ok {
		return Result{}
	}
	return e.Compute(s, v)
}

// Stamp returns a copy of s with its EHP and EHB values set for p. Existing
// ranks are kept.
func (e *Engine) Stamp(s model.Snapshot, p model.Player) model.Snapshot {
	r := e.ComputeFor(s, p)
	s = s.With(metric.EHP, model.Stat{Value: r.EHP, Rank: s.Rank(metric.EHP)})
	return s.With(metric.EHB, model.Stat{Value: r.EHB, Rank: s.Rank(metric.EHB)})
}

// TimeToMax returns the efficient hours left until every skill is level 99.
func (e *Engine) TimeToMax(s model.Snapshot, p model.Player) float64 {
	return e.timeTo(s, p, metric.ExperienceForLevel(metric.MaxLevel))
}

// TimeTo200m returns the efficient hours left until every skill is capped.
func (e *Engine) TimeTo200m(s model.Snapshot, p model.Player) float64 {
	return e.timeTo(s, p, metric.MaxSkillExperience)
}

func (e *Engine) timeTo(s model.Snapshot, p model.Player, target float64) float64 {
	v, ok := Select(p.Type, p.Build)
	if !ok {
		return 0
	}
	a, ok := e.algorithms[v]
	if !ok {
		return 0
	}
	current := experienceOf(s)
	goal := current
	for _, m := range metric.RealSkills() {
		if _, trained := a.skills[m]; trained {
			goal[m] = math.Max(goal[m], target)
		}
	}
	_, now := a.ehp(current)
	_, then := a.ehp(goal)
	return clampRound(then - now)
}

// experienceOf returns the snapshot's skill experience with unranked as 0.
func experienceOf(s model.Snapshot) experience {
	var exp experience
	for _, m := range metric.RealSkills() {
		exp[m] = math.Max(0, s.Value(m))
	}
	return exp
}

func clampRound(v float64) float64 {
	return model.Round(math.Max(0, v))
}
