package delta

import (
	"math"

	"github.com/okian/hiscores/internal/domain/efficiency"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// GroupDelta is the summed progress of a metric set.
type GroupDelta struct {
	Values Delta `json:"values"`
	// Levels is set only when the set contains a skill.
	Levels *Delta `json:"levels,omitempty"`
}

// sum accumulates clamped component deltas.
type sum struct{ start, end, gained float64 }

func (s *sum) add(d Delta) {
	s.start += math.Max(0, d.Start)
	s.end += math.Max(0, d.End)
	s.gained += math.Max(0, d.Gained)
}

// delta reports sums of exactly zero as unranked.
func (s sum) delta() Delta {
	d := Delta{Start: s.start, End: s.end, Gained: model.Round(s.gained)}
	if d.Start == 0 {
		d.Start = model.Unranked
	}
	if d.End == 0 {
		d.End = model.Unranked
	}
	return d
}

// AggregateGroup sums the progress of metrics between start and end.
func (a *Aggregator) AggregateGroup(metrics []metric.Metric, p model.Player, start, end *model.Snapshot) GroupDelta {
	var values, lv sum
	hasSkill := false

	var startEff, endEff efficiency.Result
	computed := false
	efficiencyFor := func() {
		if !computed {
			startEff, endEff = a.efficiencyAt(start, p), a.efficiencyAt(end, p)
			computed = true
		}
	}
	startLv, endLv := levels(start), levels(end)

	for _, m := range metrics {
		switch {
		case m == metric.EHP:
			efficiencyFor()
			values.add(DiffEfficiency(startEff.EHP, endEff.EHP))
		case m == metric.EHB:
			efficiencyFor()
			values.add(DiffEfficiency(startEff.EHB, endEff.EHB))
		default:
			values.add(DiffMetric(m, start, end))
		}

		if !m.IsSkill() {
			continue
		}
		hasSkill = true
		if m == metric.Overall {
			lv.add(DiffLevel(startLv.TotalLevel(), endLv.TotalLevel()))
		} else {
			lv.add(DiffLevel(startLv.Level(m), endLv.Level(m)))
		}
	}

	out := GroupDelta{Values: values.delta()}
	if hasSkill {
		l := lv.delta()
		out.Levels = &l
	}
	return out
}
