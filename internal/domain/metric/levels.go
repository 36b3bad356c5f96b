package metric

import "math"

// Level bounds and experience caps.
const (
	MaxLevel           = 99
	MaxVirtualLevel    = 126
	MaxSkillExperience = 200_000_000
	MaxCombatLevel     = 126

	// MinHitpointsLevel is the level every account starts with in Hitpoints.
	MinHitpointsLevel = 10
)

// experienceTable[l] is the experience required to reach level l (1-indexed).
var experienceTable = func() [MaxVirtualLevel + 1]float64 {
	var t [MaxVirtualLevel + 1]float64
	points := 0.0
	for l := 1; l < MaxVirtualLevel; l++ {
		points += math.Floor(float64(l) + 300*math.Pow(2, float64(l)/7))
		t[l+1] = math.Floor(points / 4)
	}
	return t
}()

// ExperienceForLevel returns the experience needed for level (clamped to 1..126).
func ExperienceForLevel(level int) float64 {
	if level <= 1 {
		return 0
	}
	if level > MaxVirtualLevel {
		level = MaxVirtualLevel
	}
	return experienceTable[level]
}

// Level returns the level (1..99) reached with exp. Unranked (-1) is level 1.
func Level(exp float64) int {
	if exp <= 0 {
		return 1
	}
	for l := MaxLevel; l > 1; l-- {
		if exp >= experienceTable[l] {
			return l
		}
	}
	return 1
}

// SkillLevel is Level with the Hitpoints floor applied.
func SkillLevel(m Metric, exp float64) int {
	l := Level(exp)
	if m == Hitpoints && l < MinHitpointsLevel {
		return MinHitpointsLevel
	}
	return l
}

// CombatLevel implements the in-game combat formula over the seven combat skill levels.
func CombatLevel(attack, strength, defence, hitpoints, ranged, magic, prayer int) int {
	base := 0.25 * float64(defence+hitpoints+prayer/2)
	melee := 0.325 * float64(attack+strength)
	rng := 0.325 * math.Floor(float64(ranged)*3/2)
	mage := 0.325 * math.Floor(float64(magic)*3/2)
	return int(math.Floor(base + math.Max(melee, math.Max(rng, mage))))
}
