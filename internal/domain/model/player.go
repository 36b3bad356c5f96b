package model

import "github.com/okian/hiscores/internal/domain/metric"

// AccountType is the player's game mode.
type AccountType string

// Account types.
const (
	AccountUnknown  AccountType = "unknown"
	AccountRegular  AccountType = "regular"
	AccountIronman  AccountType = "ironman"
	AccountHardcore AccountType = "hardcore"
	AccountUltimate AccountType = "ultimate"
)

// Known reports whether the account type has been resolved.
func (t AccountType) Known() bool {
	switch t {
	case AccountRegular, AccountIronman, AccountHardcore, AccountUltimate:
		return true
	}
	return false
}

// Valid reports whether t is one of the account types, unresolved included.
func (t AccountType) Valid() bool {
	return t == AccountUnknown || t.Known()
}

// Iron reports whether the account is any iron variant.
func (t AccountType) Iron() bool {
	return t == AccountIronman || t == AccountHardcore || t == AccountUltimate
}

// Build is a sub-classification inferred from a snapshot's shape.
type Build string

// Builds.
const (
	BuildMain    Build = "main"
	BuildF2P     Build = "f2p"
	BuildF2PLvl3 Build = "f2p_lvl3"
	BuildLvl3    Build = "lvl3"
	BuildZerker  Build = "zerker"
	BuildDef1    Build = "def1"
	BuildHP10    Build = "hp10"
)

// Player is a tracked account and its classification.
type Player struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Type     AccountType `json:"type"`
	Build    Build       `json:"build"`
}

// Build thresholds.
const (
	zerkerMinDefenceLevel = 40
	zerkerMaxDefenceLevel = 45
	hp10MinCombatLevel    = 15
	lvl3MaxCombatLevel    = 3
)

// InferBuild classifies a snapshot's shape.
func InferBuild(s Snapshot) Build {
	combat := s.CombatLevel()
	if isF2P(s) {
		if combat <= lvl3MaxCombatLevel {
			return BuildF2PLvl3
		}
		return BuildF2P
	}
	if combat <= lvl3MaxCombatLevel {
		return BuildLvl3
	}
	defence := s.Level(metric.Defence)
	if defence >= zerkerMinDefenceLevel && defence <= zerkerMaxDefenceLevel {
		return BuildZerker
	}
	if s.Value(metric.Hitpoints) <= metric.ExperienceForLevel(metric.MinHitpointsLevel) && combat > hp10MinCombatLevel {
		return BuildHP10
	}
	if defence == 1 {
		return BuildDef1
	}
	return BuildMain
}

// isF2P reports whether no members-only metric has progressed.
func isF2P(s Snapshot) bool {
	for _, m := range metric.All() {
		if !m.Members() || m.IsComputed() {
			continue
		}
		if s.Value(m) > 0 {
			return false
		}
	}
	return true
}
