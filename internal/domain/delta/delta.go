// Package delta computes per-metric progress between two snapshots.
package delta

import (
	"math"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// Delta is the progress of one quantity between two snapshots.
type Delta struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Gained float64 `json:"gained"`
}

func value(s *model.Snapshot, m metric.Metric) float64 {
	if s == nil {
		return model.Unranked
	}
	return s.Value(m)
}

func rank(s *model.Snapshot, m metric.Metric) float64 {
	if s == nil {
		return model.Unranked
	}
	return float64(s.Rank(m))
}

// DiffMetric returns the value progress of m. A missing snapshot reads as
// unranked. The start is lifted to one below the metric's minimum so that
// first appearing on the hiscores is not credited as the whole minimum.
func DiffMetric(m metric.Metric, start, end *model.Snapshot) Delta {
	s, e := value(start, m), value(end, m)
	d := Delta{Start: s, End: e}
	if m == metric.Overall && s == model.Unranked {
		return d
	}
	effectiveStart := math.Max(0, math.Max(s, m.MinimumValue()-1))
	d.Gained = model.Round(math.Max(0, e-effectiveStart))
	return d
}

// DiffRank returns the signed rank change of m; a negative gain is a climb.
// Skills unranked at the start report no change.
func DiffRank(m metric.Metric, start, end *model.Snapshot) Delta {
	s, e := rank(start, m), rank(end, m)
	d := Delta{Start: s, End: e}
	if m.IsSkill() && s == model.Unranked {
		return d
	}
	d.Gained = e - s
	return d
}

// DiffEfficiency diffs two efficiency readings, clamped at zero.
func DiffEfficiency(start, end float64) Delta {
	start, end = math.Max(0, start), math.Max(0, end)
	return Delta{
		Start:  model.Round(start),
		End:    model.Round(end),
		Gained: model.Round(math.Max(0, end-start)),
	}
}

// DiffLevel diffs two levels; levels never go down.
func DiffLevel(start, end int) Delta {
	return Delta{
		Start:  float64(start),
		End:    float64(end),
		Gained: math.Max(0, float64(end-start)),
	}
}
