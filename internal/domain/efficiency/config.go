package efficiency

import (
	"fmt"

	"github.com/okian/hiscores/internal/domain/metric"
)

// Config is the file form of rate table overrides, keyed by variant name.
type Config struct {
	Variants map[string]VariantConfig `koanf:"variants" yaml:"variants"`
}

// VariantConfig overrides parts of one variant. Skills and Bosses replace the
// listed entries only; a non-empty Bonuses replaces the whole rule list.
type VariantConfig struct {
	Skills  map[string][]MethodConfig `koanf:"skills" yaml:"skills"`
	Bosses  map[string]float64        `koanf:"bosses" yaml:"bosses"`
	Bonuses []BonusConfig             `koanf:"bonuses" yaml:"bonuses"`
}

// MethodConfig is the file form of Method.
type MethodConfig struct {
	StartExp    float64 `koanf:"start_exp" yaml:"start_exp"`
	Rate        float64 `koanf:"rate" yaml:"rate"`
	RealRate    float64 `koanf:"real_rate" yaml:"real_rate"`
	Description string  `koanf:"description" yaml:"description"`
}

// BonusConfig is the file form of BonusRule.
type BonusConfig struct {
	Origin   string  `koanf:"origin" yaml:"origin"`
	Bonus    string  `koanf:"bonus" yaml:"bonus"`
	StartExp float64 `koanf:"start_exp" yaml:"start_exp"`
	EndExp   float64 `koanf:"end_exp" yaml:"end_exp"`
	Ratio    float64 `koanf:"ratio" yaml:"ratio"`
	End      bool    `koanf:"end" yaml:"end"`
}

// Algorithms applies the overrides on top of base and returns the resulting
// algorithms. Variants not mentioned are returned unchanged.
func (c Config) Algorithms(base map[Variant]*Algorithm) (map[Variant]*Algorithm, error) {
	out := make(map[Variant]*Algorithm, len(base))
	for v, a := range base {
		out[v] = a
	}
	for name, vc := range c.Variants {
		v, err := ParseVariant(name)
		if err != nil {
			return nil, err
		}
		a, err := vc.apply(base[v])
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}
		out[v] = a
	}
	return out, nil
}

func (vc VariantConfig) apply(a *Algorithm) (*Algorithm, error) {
	skills := make(map[metric.Metric][]Method)
	bosses := make(map[metric.Metric]float64)
	var bonuses []BonusRule
	if a != nil {
		for m, methods := range a.skills {
			skills[m] = methods
		}
		for m, rate := range a.bosses {
			bosses[m] = rate
		}
		bonuses = a.bonuses
	}

	for key, methods := range vc.Skills {
		m, err := metric.Parse(key)
		if err != nil {
			return nil, err
		}
		table := make([]Method, 0, len(methods))
		for _, mc := range methods {
			table = append(table, Method{StartExp: mc.StartExp, Rate: mc.Rate, RealRate: mc.RealRate, Description: mc.Description})
		}
		skills[m] = table
	}
	for key, rate := range vc.Bosses {
		m, err := metric.Parse(key)
		if err != nil {
			return nil, err
		}
		bosses[m] = rate
	}
	if len(vc.Bonuses) > 0 {
		bonuses = make([]BonusRule, 0, len(vc.Bonuses))
		for _, bc := range vc.Bonuses {
			origin, err := metric.Parse(bc.Origin)
			if err != nil {
				return nil, err
			}
			bonus, err := metric.Parse(bc.Bonus)
			if err != nil {
				return nil, err
			}
			bonuses = append(bonuses, BonusRule{
				Origin: origin, Bonus: bonus,
				StartExp: bc.StartExp, EndExp: bc.EndExp, Ratio: bc.Ratio, End: bc.End,
			})
		}
	}

	if err := validate(skills, bosses, bonuses); err != nil {
		return nil, err
	}
	return NewAlgorithm(skills, bosses, bonuses), nil
}
