// Package efficiency computes efficient hours played (EHP) and bossed (EHB).
//
// Skill hours integrate a rate table of training methods; boss hours divide
// kill counts by a flat kills-per-hour rate. Every account classification maps
// to one algorithm Variant; accounts without a variant have zero efficiency.
package efficiency

import (
	"fmt"
	"math"

	"github.com/okian/hiscores/internal/domain/metric"
)

// Method is one segment of a skill's rate table, active from StartExp until
// the next segment starts.
type Method struct {
	StartExp float64 `json:"start_exp"`
	Rate     float64 `json:"rate"`
	// RealRate is the unboosted rate shown next to Rate; zero when equal.
	RealRate    float64 `json:"real_rate,omitempty"`
	Description string  `json:"description,omitempty"`
}

// BonusRule credits Bonus skill experience gained passively while training Origin.
type BonusRule struct {
	Origin   metric.Metric
	Bonus    metric.Metric
	StartExp float64
	EndExp   float64
	Ratio    float64
	// End grants the whole bonus only once Origin passes EndExp.
	End bool
}

// granted returns the bonus experience the rule credits for originExp.
func (r BonusRule) granted(originExp float64) float64 {
	if originExp <= r.StartExp || r.Ratio <= 0 {
		return 0
	}
	if r.End {
		if originExp < r.EndExp {
			return 0
		}
		return (r.EndExp - r.StartExp) * r.Ratio
	}
	return (math.Min(originExp, r.EndExp) - r.StartExp) * r.Ratio
}

// experience is a per-metric experience vector; copies are independent.
type experience [metric.Count]float64

// apply removes the experience this rule credits to Bonus from the running
// vector. Origin experience is read from the untouched original so rule order
// never compounds.
func (r BonusRule) apply(original, running experience) experience {
	running[r.Bonus] = math.Max(0, running[r.Bonus]-r.granted(original[r.Origin]))
	return running
}

// Algorithm holds one variant's rate tables. It is immutable once built.
type Algorithm struct {
	skills  map[metric.Metric][]Method
	bosses  map[metric.Metric]float64
	bonuses []BonusRule
}

// NewAlgorithm copies and validates the given tables. Tables that are not
// ordered by ascending StartExp, or that reference the wrong metric category,
// are configuration bugs and panic.
func NewAlgorithm(skills map[metric.Metric][]Method, bosses map[metric.Metric]float64, bonuses []BonusRule) *Algorithm {
	if err := validate(skills, bosses, bonuses); err != nil {
		panic(err)
	}
	a := &Algorithm{
		skills:  make(map[metric.Metric][]Method, len(skills)),
		bosses:  make(map[metric.Metric]float64, len(bosses)),
		bonuses: append([]BonusRule(nil), bonuses...),
	}
	for m, methods := range skills {
		a.skills[m] = append([]Method(nil), methods...)
	}
	for m, rate := range bosses {
		a.bosses[m] = rate
	}
	return a
}

func validate(skills map[metric.Metric][]Method, bosses map[metric.Metric]float64, bonuses []BonusRule) error {
	for m, methods := range skills {
		if !m.Valid() || !m.IsSkill() || m == metric.Overall {
			return fmt.Errorf("%w: %s is not a trainable skill", ErrInvalidTable, m)
		}
		for i := 1; i < len(methods); i++ {
			if methods[i].StartExp <= methods[i-1].StartExp {
				return fmt.Errorf("%w: %s methods not ascending at %d", ErrInvalidTable, m, i)
			}
		}
	}
	for m := range bosses {
		if !m.Valid() || !m.IsBoss() {
			return fmt.Errorf("%w: %s is not a boss", ErrInvalidTable, m)
		}
	}
	for i, b := range bonuses {
		if !b.Origin.Valid() || !b.Bonus.Valid() || !b.Origin.IsSkill() || !b.Bonus.IsSkill() {
			return fmt.Errorf("%w: bonus %d references a non-skill", ErrInvalidTable, i)
		}
		if b.EndExp < b.StartExp {
			return fmt.Errorf("%w: bonus %d ends before it starts", ErrInvalidTable, i)
		}
	}
	return nil
}

// Methods returns a copy of skill m's rate table.
func (a *Algorithm) Methods(m metric.Metric) []Method {
	return append([]Method(nil), a.skills[m]...)
}

// BossRate returns boss m's kills per hour, 0 when unconfigured.
func (a *Algorithm) BossRate(m metric.Metric) float64 { return a.bosses[m] }

// Bonuses returns a copy of the bonus rules in application order.
func (a *Algorithm) Bonuses() []BonusRule { return append([]BonusRule(nil), a.bonuses...) }

// SkillHours integrates skill m's rate table up to exp, ignoring bonuses.
func (a *Algorithm) SkillHours(m metric.Metric, exp float64) float64 {
	return integrate(a.skills[m], exp)
}

func integrate(methods []Method, exp float64) float64 {
	exp = math.Min(exp, metric.MaxSkillExperience)
	hours := 0.0
	for i, method := range methods {
		if exp <= method.StartExp {
			break
		}
		end := exp
		if i+1 < len(methods) && methods[i+1].StartExp < exp {
			end = methods[i+1].StartExp
		}
		if method.Rate > 0 {
			hours += (end - method.StartExp) / method.Rate
		}
	}
	return hours
}

// BossHours converts a kill count into hours.
func (a *Algorithm) BossHours(m metric.Metric, kills float64) float64 {
	rate := a.bosses[m]
	if rate <= 0 || kills <= 0 {
		return 0
	}
	return kills / rate
}

// skillExperience folds the bonus rules over exp and returns the experience
// each skill's hours are integrated from.
func (a *Algorithm) skillExperience(exp experience) experience {
	running := exp
	for _, rule := range a.bonuses {
		running = rule.apply(exp, running)
	}
	return running
}

// ehp returns per-skill hours and the total for an experience vector.
func (a *Algorithm) ehp(exp experience) (map[metric.Metric]float64, float64) {
	effective := a.skillExperience(exp)
	out := make(map[metric.Metric]float64, len(a.skills))
	total := 0.0
	for _, m := range metric.RealSkills() {
		h := integrate(a.skills[m], effective[m])
		out[m] = h
		total += h
	}
	return out, total
}

// restricted returns a copy without the excluded skills and with only the
// bosses keep accepts.
func (a *Algorithm) restricted(excluded []metric.Metric, keep func(metric.Metric) bool) *Algorithm {
	skills := make(map[metric.Metric][]Method, len(a.skills))
	for m, methods := range a.skills {
		skills[m] = methods
	}
	for _, m := range excluded {
		delete(skills, m)
	}
	bosses := make(map[metric.Metric]float64, len(a.bosses))
	for m, rate := range a.bosses {
		if keep(m) {
			bosses[m] = rate
		}
	}
	return NewAlgorithm(skills, bosses, a.bonuses)
}

// with returns a copy with skill tables and boss rates replaced.
func (a *Algorithm) with(skills map[metric.Metric][]Method, bosses map[metric.Metric]float64) *Algorithm {
	s := make(map[metric.Metric][]Method, len(a.skills))
	for m, methods := range a.skills {
		s[m] = methods
	}
	for m, methods := range skills {
		s[m] = methods
	}
	b := make(map[metric.Metric]float64, len(a.bosses))
	for m, rate := range a.bosses {
		b[m] = rate
	}
	for m, rate := range bosses {
		b[m] = rate
	}
	return NewAlgorithm(s, b, a.bonuses)
}
