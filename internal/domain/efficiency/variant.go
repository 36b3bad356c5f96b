package efficiency

import (
	"fmt"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// Variant names one efficiency algorithm.
type Variant string

// Variants.
const (
	VariantMain        Variant = "main"
	VariantIronman     Variant = "ironman"
	VariantUltimate    Variant = "ultimate"
	VariantLvl3        Variant = "lvl3"
	VariantIronmanLvl3 Variant = "ironman_lvl3"
	VariantF2P         Variant = "f2p"
	VariantF2PLvl3     Variant = "f2p_lvl3"
	VariantF2PIronman  Variant = "f2p_ironman"
	VariantDef1        Variant = "def1"
)

// Variants returns every variant in a stable order.
func Variants() []Variant {
	return []Variant{
		VariantMain, VariantIronman, VariantUltimate,
		VariantLvl3, VariantIronmanLvl3,
		VariantF2P, VariantF2PLvl3, VariantF2PIronman,
		VariantDef1,
	}
}

// ParseVariant resolves a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Select maps an account classification to its variant. Unknown account
// types have no variant.
func Select(t model.AccountType, b model.Build) (Variant, bool) {
	if !t.Known() {
		return "", false
	}
	if t.Iron() {
		switch b {
		case model.BuildF2P, model.BuildF2PLvl3:
			return VariantF2PIronman, true
		case model.BuildLvl3:
			return VariantIronmanLvl3, true
		}
		if t == model.AccountUltimate {
			return VariantUltimate, true
		}
		return VariantIronman, true
	}
	switch b {
	case model.BuildF2P:
		return VariantF2P, true
	case model.BuildF2PLvl3:
		return VariantF2PLvl3, true
	case model.BuildLvl3:
		return VariantLvl3, true
	case model.BuildDef1:
		return VariantDef1, true
	}
	return VariantMain, true
}

var combatSkills = []metric.Metric{
	metric.Attack, metric.Strength, metric.Defence, metric.Hitpoints,
	metric.Ranged, metric.Magic, metric.Prayer,
}

func membersSkills() []metric.Metric {
	var out []metric.Metric
	for _, m := range metric.RealSkills() {
		if m.Members() {
			out = append(out, m)
		}
	}
	return out
}

func anyBoss(metric.Metric) bool { return true }
func noBoss(metric.Metric) bool  { return false }
func f2pBoss(m metric.Metric) bool {
	return !m.Members()
}

// DefaultAlgorithms builds the bundled tables for every variant.
func DefaultAlgorithms() map[Variant]*Algorithm {
	main := NewAlgorithm(mainSkills(), mainBosses(), mainBonuses())
	ironman := main.with(ironmanSkills(), ironmanBosses())
	ultimate := ironman.with(ultimateSkills(), nil)
	members := membersSkills()

	return map[Variant]*Algorithm{
		VariantMain:        main,
		VariantIronman:     ironman,
		VariantUltimate:    ultimate,
		VariantLvl3:        main.restricted(combatSkills, noBoss),
		VariantIronmanLvl3: ironman.restricted(combatSkills, noBoss),
		VariantF2P:         main.restricted(members, f2pBoss),
		VariantF2PLvl3:     main.restricted(append(append([]metric.Metric(nil), members...), combatSkills...), noBoss),
		VariantF2PIronman:  ironman.restricted(members, f2pBoss),
		VariantDef1:        main.restricted([]metric.Metric{metric.Defence}, anyBoss),
	}
}
