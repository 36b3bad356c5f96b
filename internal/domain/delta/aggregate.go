package delta

import (
	"time"

	"github.com/okian/hiscores/internal/domain/efficiency"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// SkillDelta is a skill's experience, rank, level and EHP progress.
type SkillDelta struct {
	Metric     metric.Metric `json:"metric"`
	Experience Delta         `json:"experience"`
	Rank       Delta         `json:"rank"`
	Level      Delta         `json:"level"`
	EHP        Delta         `json:"ehp"`
}

// BossDelta is a boss's kill, rank and EHB progress.
type BossDelta struct {
	Metric metric.Metric `json:"metric"`
	Kills  Delta         `json:"kills"`
	Rank   Delta         `json:"rank"`
	EHB    Delta         `json:"ehb"`
}

// ActivityDelta is an activity's score and rank progress.
type ActivityDelta struct {
	Metric metric.Metric `json:"metric"`
	Score  Delta         `json:"score"`
	Rank   Delta         `json:"rank"`
}

// ComputedDelta is a computed metric's value and rank progress.
type ComputedDelta struct {
	Metric metric.Metric `json:"metric"`
	Value  Delta         `json:"value"`
	Rank   Delta         `json:"rank"`
}

// PlayerDeltas groups every metric's progress by category.
type PlayerDeltas struct {
	Skills      map[metric.Metric]SkillDelta    `json:"skills"`
	Bosses      map[metric.Metric]BossDelta     `json:"bosses"`
	Activities  map[metric.Metric]ActivityDelta `json:"activities"`
	Computed    map[metric.Metric]ComputedDelta `json:"computed"`
	CombatLevel Delta                           `json:"combat_level"`
}

// Aggregator diffs whole snapshots.
type Aggregator struct {
	calc efficiency.Calculator
}

// NewAggregator creates an aggregator that reads efficiency from calc.
func NewAggregator(calc efficiency.Calculator) *Aggregator {
	return &Aggregator{calc: calc}
}

// efficiencyAt computes efficiency for a possibly missing snapshot.
func (a *Aggregator) efficiencyAt(s *model.Snapshot, p model.Player) efficiency.Result {
	if s == nil {
		return efficiency.Result{}
	}
	return a.calc.ComputeFor(*s, p)
}

// levels returns a snapshot's level view; a missing snapshot reads as a fresh account.
func levels(s *model.Snapshot) model.Snapshot {
	if s == nil {
		return model.NewSnapshot("", time.Time{}, nil)
	}
	return *s
}

// Aggregate diffs every metric between start and end for player p.
func (a *Aggregator) Aggregate(start, end *model.Snapshot, p model.Player) PlayerDeltas {
	startEff, endEff := a.efficiencyAt(start, p), a.efficiencyAt(end, p)
	startLv, endLv := levels(start), levels(end)

	out := PlayerDeltas{
		Skills:      make(map[metric.Metric]SkillDelta),
		Bosses:      make(map[metric.Metric]BossDelta),
		Activities:  make(map[metric.Metric]ActivityDelta),
		Computed:    make(map[metric.Metric]ComputedDelta),
		CombatLevel: DiffLevel(startLv.CombatLevel(), endLv.CombatLevel()),
	}

	for _, m := range metric.All() {
		switch m.Category() {
		case metric.CategorySkill:
			sd := SkillDelta{
				Metric:     m,
				Experience: DiffMetric(m, start, end),
				Rank:       DiffRank(m, start, end),
			}
			if m == metric.Overall {
				sd.Level = DiffLevel(startLv.TotalLevel(), endLv.TotalLevel())
				sd.EHP = DiffEfficiency(startEff.EHP, endEff.EHP)
			} else {
				sd.Level = DiffLevel(startLv.Level(m), endLv.Level(m))
				sd.EHP = DiffEfficiency(startEff.Skills[m], endEff.Skills[m])
			}
			out.Skills[m] = sd
		case metric.CategoryBoss:
			out.Bosses[m] = BossDelta{
				Metric: m,
				Kills:  DiffMetric(m, start, end),
				Rank:   DiffRank(m, start, end),
				EHB:    DiffEfficiency(startEff.Bosses[m], endEff.Bosses[m]),
			}
		case metric.CategoryActivity:
			out.Activities[m] = ActivityDelta{
				Metric: m,
				Score:  DiffMetric(m, start, end),
				Rank:   DiffRank(m, start, end),
			}
		case metric.CategoryComputed:
			var v Delta
			if m == metric.EHP {
				v = DiffEfficiency(startEff.EHP, endEff.EHP)
			} else {
				v = DiffEfficiency(startEff.EHB, endEff.EHB)
			}
			out.Computed[m] = ComputedDelta{Metric: m, Value: v, Rank: DiffRank(m, start, end)}
		default:
			panic("delta: unhandled metric category " + m.Category().String())
		}
	}
	return out
}

// Value returns the value delta of m regardless of its category.
func (d PlayerDeltas) Value(m metric.Metric) Delta {
	switch m.Category() {
	case metric.CategorySkill:
		return d.Skills[m].Experience
	case metric.CategoryBoss:
		return d.Bosses[m].Kills
	case metric.CategoryActivity:
		return d.Activities[m].Score
	case metric.CategoryComputed:
		return d.Computed[m].Value
	}
	panic("delta: unhandled metric category " + m.Category().String())
}
