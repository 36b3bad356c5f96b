package achievement

import (
	"fmt"
	"strings"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// Measure is what a definition compares its thresholds against.
type Measure uint8

// Measures.
const (
	// MeasureValue compares the metric's raw value.
	MeasureValue Measure = iota + 1
	// MeasureLevel compares the base level derived from experience.
	MeasureLevel
	MeasureCombatLevel
	MeasureTotalLevel
)

// Threshold is one step of a definition.
type Threshold struct {
	Value float64
	Label string
}

// Definition is a family of achievements over one metric.
type Definition struct {
	Metric  metric.Metric
	Measure Measure
	// Template renders names; {threshold} and {metric} are replaced.
	Template   string
	Thresholds []Threshold
}

// NewDefinition builds a definition. Thresholds must be strictly ascending;
// anything else is a table bug and panics.
func NewDefinition(m metric.Metric, measure Measure, template string, thresholds ...Threshold) Definition {
	if len(thresholds) == 0 {
		panic(fmt.Sprintf("achievement: %q has no thresholds", template))
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i].Value <= thresholds[i-1].Value {
			panic(fmt.Sprintf("achievement: %q thresholds not ascending at %d", template, i))
		}
	}
	return Definition{
		Metric:     m,
		Measure:    measure,
		Template:   template,
		Thresholds: append([]Threshold(nil), thresholds...),
	}
}

// Name renders the achievement name for t.
func (d Definition) Name(t Threshold) string {
	return strings.NewReplacer("{threshold}", t.Label, "{metric}", d.Metric.Name()).Replace(d.Template)
}

// Current returns the measured quantity of s, or -1 when unranked.
func (d Definition) Current(s model.Snapshot) float64 {
	switch d.Measure {
	case MeasureValue:
		return s.Value(d.Metric)
	case MeasureLevel:
		if !s.Stat(d.Metric).Ranked() {
			return model.Unranked
		}
		if d.Metric == metric.Overall {
			return float64(s.TotalLevel())
		}
		return float64(s.Level(d.Metric))
	case MeasureCombatLevel:
		return float64(s.CombatLevel())
	case MeasureTotalLevel:
		return float64(s.TotalLevel())
	}
	panic(fmt.Sprintf("achievement: unknown measure %d", d.Measure))
}

// Satisfied reports whether s meets threshold t.
func (d Definition) Satisfied(s model.Snapshot, t Threshold) bool {
	v := d.Current(s)
	return v > model.Unranked && v >= t.Value
}

func th(v float64, label string) Threshold { return Threshold{Value: v, Label: label} }

// DefaultDefinitions returns the bundled achievement table.
func DefaultDefinitions() []Definition {
	defs := []Definition{
		NewDefinition(metric.Overall, MeasureValue, "{threshold} Overall Exp.",
			th(500_000_000, "500m"), th(1_000_000_000, "1b"), th(2_000_000_000, "2b"), th(4_600_000_000, "4.6b")),
		NewDefinition(metric.Overall, MeasureTotalLevel, "{threshold} Total Level",
			th(1000, "1k"), th(1500, "1.5k"), th(2000, "2k"), th(2277, "Maxed")),
		NewDefinition(metric.Overall, MeasureCombatLevel, "{threshold} Combat",
			th(100, "100"), th(126, "Maxed")),
	}
	for _, m := range metric.RealSkills() {
		defs = append(defs,
			NewDefinition(m, MeasureLevel, "{threshold} {metric}", th(99, "99")),
			NewDefinition(m, MeasureValue, "{threshold} {metric}",
				th(50_000_000, "50m"), th(100_000_000, "100m"), th(200_000_000, "200m")),
		)
	}
	for _, m := range metric.Bosses() {
		defs = append(defs, NewDefinition(m, MeasureValue, "{threshold} {metric} kills",
			th(500, "500"), th(1000, "1k"), th(5000, "5k"), th(10_000, "10k")))
	}
	defs = append(defs,
		NewDefinition(metric.ClueScrollsAll, MeasureValue, "{threshold} {metric}",
			th(100, "100"), th(500, "500"), th(1000, "1k"), th(5000, "5k")),
		NewDefinition(metric.LastManStanding, MeasureValue, "{threshold} {metric} score",
			th(5000, "5k"), th(10_000, "10k")),
		NewDefinition(metric.EHP, MeasureValue, "{threshold} {metric}",
			th(500, "500"), th(1000, "1k"), th(5000, "5k"), th(10_000, "10k")),
		NewDefinition(metric.EHB, MeasureValue, "{threshold} {metric}",
			th(500, "500"), th(1000, "1k"), th(5000, "5k"), th(10_000, "10k")),
	)
	return defs
}

// DefaultIntroducedLater lists metrics that joined the hiscores long after
// their release, so a first ranked value says nothing about when it was earned.
func DefaultIntroducedLater() []metric.Metric {
	return []metric.Metric{
		metric.BountyHunterLegacyHunter,
		metric.BountyHunterLegacyRogue,
		metric.SoulWarsZeal,
		metric.GuardiansOfTheRift,
		metric.ColosseumGlory,
		metric.Tempoross,
		metric.LunarChests,
		metric.SolHeredit,
		metric.Spindel,
		metric.Artio,
		metric.Calvarion,
		metric.DerangedArchaeologist,
		metric.Mimic,
		metric.Hespori,
	}
}
