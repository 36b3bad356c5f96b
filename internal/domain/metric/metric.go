// Package metric is the static catalog of every tracked statistic.
//
// Each Metric belongs to exactly one Category and carries a fixed Measure and a
// minimum value below which the hiscores report it as unranked. The catalog is
// read-only; nothing in this package mutates after initialization.
package metric

import (
	"fmt"
	"strings"
)

// Metric identifies a tracked statistic.
type Metric uint8

// Category groups metrics that share diff and efficiency semantics.
type Category uint8

// Metric categories.
const (
	CategorySkill Category = iota + 1
	CategoryBoss
	CategoryActivity
	CategoryComputed
)

func (c Category) String() string {
	switch c {
	case CategorySkill:
		return "skill"
	case CategoryBoss:
		return "boss"
	case CategoryActivity:
		return "activity"
	case CategoryComputed:
		return "computed"
	}
	panic(fmt.Sprintf("metric: unknown category %d", uint8(c)))
}

// Measure is the unit a metric's value is expressed in.
type Measure uint8

// Measures.
const (
	MeasureExperience Measure = iota + 1
	MeasureKills
	MeasureScore
	MeasureValue
)

func (m Measure) String() string {
	switch m {
	case MeasureExperience:
		return "experience"
	case MeasureKills:
		return "kills"
	case MeasureScore:
		return "score"
	case MeasureValue:
		return "value"
	}
	return "unknown"
}

// Skills.
const (
	Overall Metric = iota
	Attack
	Defence
	Strength
	Hitpoints
	Ranged
	Prayer
	Magic
	Cooking
	Woodcutting
	Fletching
	Fishing
	Firemaking
	Crafting
	Smithing
	Mining
	Herblore
	Agility
	Thieving
	Slayer
	Farming
	Runecrafting
	Hunter
	Construction

	// Activities.
	LeaguePoints
	BountyHunterHunter
	BountyHunterRogue
	BountyHunterLegacyHunter
	BountyHunterLegacyRogue
	ClueScrollsAll
	ClueScrollsBeginner
	ClueScrollsEasy
	ClueScrollsMedium
	ClueScrollsHard
	ClueScrollsElite
	ClueScrollsMaster
	LastManStanding
	PvpArena
	SoulWarsZeal
	GuardiansOfTheRift
	ColosseumGlory

	// Bosses.
	AbyssalSire
	AlchemicalHydra
	Amoxliatl
	Araxxor
	Artio
	BarrowsChests
	Bryophyta
	Callisto
	Calvarion
	Cerberus
	ChambersOfXeric
	ChambersOfXericChallengeMode
	ChaosElemental
	ChaosFanatic
	CommanderZilyana
	CorporealBeast
	CrazyArchaeologist
	DagannothPrime
	DagannothRex
	DagannothSupreme
	DerangedArchaeologist
	DukeSucellus
	GeneralGraardor
	GiantMole
	GrotesqueGuardians
	Hespori
	KalphiteQueen
	KingBlackDragon
	Kraken
	Kreearra
	KrilTsutsaroth
	LunarChests
	Mimic
	Nex
	Nightmare
	PhosanisNightmare
	Obor
	PhantomMuspah
	Sarachnis
	Scorpia
	Scurrius
	Skotizo
	SolHeredit
	Spindel
	Tempoross
	TheGauntlet
	TheCorruptedGauntlet
	TheHueycoatl
	TheLeviathan
	TheWhisperer
	TheatreOfBlood
	TheatreOfBloodHardMode
	ThermonuclearSmokeDevil
	TombsOfAmascut
	TombsOfAmascutExpert
	TzKalZuk
	TzTokJad
	Vardorvis
	Venenatis
	Vetion
	Vorkath
	Wintertodt
	Zalcano
	Zulrah

	// Computed.
	EHP
	EHB

	// Count is the number of metrics; not a metric itself.
	Count
)

// Definition describes one catalog entry.
type Definition struct {
	Key          string
	Name         string
	Category     Category
	Measure      Measure
	MinimumValue float64
	Members      bool
}

func skill(key, name string, members bool) Definition {
	return Definition{Key: key, Name: name, Category: CategorySkill, Measure: MeasureExperience, MinimumValue: 1, Members: members}
}

func activity(key, name string, minimum float64, members bool) Definition {
	return Definition{Key: key, Name: name, Category: CategoryActivity, Measure: MeasureScore, MinimumValue: minimum, Members: members}
}

func boss(key, name string, minimum float64, members bool) Definition {
	return Definition{Key: key, Name: name, Category: CategoryBoss, Measure: MeasureKills, MinimumValue: minimum, Members: members}
}

// Most bosses only appear on the hiscores after 5 kills.
const defaultBossMinimum = 5

var definitions = [Count]Definition{
	Overall:      skill("overall", "Overall", false),
	Attack:       skill("attack", "Attack", false),
	Defence:      skill("defence", "Defence", false),
	Strength:     skill("strength", "Strength", false),
	Hitpoints:    skill("hitpoints", "Hitpoints", false),
	Ranged:       skill("ranged", "Ranged", false),
	Prayer:       skill("prayer", "Prayer", false),
	Magic:        skill("magic", "Magic", false),
	Cooking:      skill("cooking", "Cooking", false),
	Woodcutting:  skill("woodcutting", "Woodcutting", false),
	Fletching:    skill("fletching", "Fletching", true),
	Fishing:      skill("fishing", "Fishing", false),
	Firemaking:   skill("firemaking", "Firemaking", false),
	Crafting:     skill("crafting", "Crafting", false),
	Smithing:     skill("smithing", "Smithing", false),
	Mining:       skill("mining", "Mining", false),
	Herblore:     skill("herblore", "Herblore", true),
	Agility:      skill("agility", "Agility", true),
	Thieving:     skill("thieving", "Thieving", true),
	Slayer:       skill("slayer", "Slayer", true),
	Farming:      skill("farming", "Farming", true),
	Runecrafting: skill("runecrafting", "Runecrafting", false),
	Hunter:       skill("hunter", "Hunter", true),
	Construction: skill("construction", "Construction", true),

	LeaguePoints:             activity("league_points", "League Points", 100, true),
	BountyHunterHunter:       activity("bounty_hunter_hunter", "Bounty Hunter (Hunter)", 2, true),
	BountyHunterRogue:        activity("bounty_hunter_rogue", "Bounty Hunter (Rogue)", 2, true),
	BountyHunterLegacyHunter: activity("bounty_hunter_legacy_hunter", "Bounty Hunter Legacy (Hunter)", 2, true),
	BountyHunterLegacyRogue:  activity("bounty_hunter_legacy_rogue", "Bounty Hunter Legacy (Rogue)", 2, true),
	ClueScrollsAll:           activity("clue_scrolls_all", "Clue Scrolls (All)", 1, false),
	ClueScrollsBeginner:      activity("clue_scrolls_beginner", "Clue Scrolls (Beginner)", 1, false),
	ClueScrollsEasy:          activity("clue_scrolls_easy", "Clue Scrolls (Easy)", 1, true),
	ClueScrollsMedium:        activity("clue_scrolls_medium", "Clue Scrolls (Medium)", 1, true),
	ClueScrollsHard:          activity("clue_scrolls_hard", "Clue Scrolls (Hard)", 1, true),
	ClueScrollsElite:         activity("clue_scrolls_elite", "Clue Scrolls (Elite)", 1, true),
	ClueScrollsMaster:        activity("clue_scrolls_master", "Clue Scrolls (Master)", 1, true),
	LastManStanding:          activity("last_man_standing", "Last Man Standing", 500, false),
	PvpArena:                 activity("pvp_arena", "PvP Arena", 2525, true),
	SoulWarsZeal:             activity("soul_wars_zeal", "Soul Wars Zeal", 200, true),
	GuardiansOfTheRift:       activity("guardians_of_the_rift", "Guardians of the Rift", 2, true),
	ColosseumGlory:           activity("colosseum_glory", "Colosseum Glory", 300, true),

	AbyssalSire:                  boss("abyssal_sire", "Abyssal Sire", defaultBossMinimum, true),
	AlchemicalHydra:              boss("alchemical_hydra", "Alchemical Hydra", defaultBossMinimum, true),
	Amoxliatl:                    boss("amoxliatl", "Amoxliatl", defaultBossMinimum, true),
	Araxxor:                      boss("araxxor", "Araxxor", defaultBossMinimum, true),
	Artio:                        boss("artio", "Artio", defaultBossMinimum, true),
	BarrowsChests:                boss("barrows_chests", "Barrows Chests", defaultBossMinimum, true),
	Bryophyta:                    boss("bryophyta", "Bryophyta", defaultBossMinimum, false),
	Callisto:                     boss("callisto", "Callisto", defaultBossMinimum, true),
	Calvarion:                    boss("calvarion", "Calvar'ion", defaultBossMinimum, true),
	Cerberus:                     boss("cerberus", "Cerberus", defaultBossMinimum, true),
	ChambersOfXeric:              boss("chambers_of_xeric", "Chambers of Xeric", defaultBossMinimum, true),
	ChambersOfXericChallengeMode: boss("chambers_of_xeric_challenge_mode", "Chambers of Xeric (CM)", defaultBossMinimum, true),
	ChaosElemental:               boss("chaos_elemental", "Chaos Elemental", defaultBossMinimum, true),
	ChaosFanatic:                 boss("chaos_fanatic", "Chaos Fanatic", defaultBossMinimum, true),
	CommanderZilyana:             boss("commander_zilyana", "Commander Zilyana", defaultBossMinimum, true),
	CorporealBeast:               boss("corporeal_beast", "Corporeal Beast", defaultBossMinimum, true),
	CrazyArchaeologist:           boss("crazy_archaeologist", "Crazy Archaeologist", defaultBossMinimum, true),
	DagannothPrime:               boss("dagannoth_prime", "Dagannoth Prime", defaultBossMinimum, true),
	DagannothRex:                 boss("dagannoth_rex", "Dagannoth Rex", defaultBossMinimum, true),
	DagannothSupreme:             boss("dagannoth_supreme", "Dagannoth Supreme", defaultBossMinimum, true),
	DerangedArchaeologist:        boss("deranged_archaeologist", "Deranged Archaeologist", defaultBossMinimum, true),
	DukeSucellus:                 boss("duke_sucellus", "Duke Sucellus", defaultBossMinimum, true),
	GeneralGraardor:              boss("general_graardor", "General Graardor", defaultBossMinimum, true),
	GiantMole:                    boss("giant_mole", "Giant Mole", defaultBossMinimum, true),
	GrotesqueGuardians:           boss("grotesque_guardians", "Grotesque Guardians", defaultBossMinimum, true),
	Hespori:                      boss("hespori", "Hespori", defaultBossMinimum, true),
	KalphiteQueen:                boss("kalphite_queen", "Kalphite Queen", defaultBossMinimum, true),
	KingBlackDragon:              boss("king_black_dragon", "King Black Dragon", defaultBossMinimum, true),
	Kraken:                       boss("kraken", "Kraken", defaultBossMinimum, true),
	Kreearra:                     boss("kreearra", "Kree'Arra", defaultBossMinimum, true),
	KrilTsutsaroth:               boss("kril_tsutsaroth", "K'ril Tsutsaroth", defaultBossMinimum, true),
	LunarChests:                  boss("lunar_chests", "Lunar Chests", defaultBossMinimum, true),
	Mimic:                        boss("mimic", "Mimic", 1, true),
	Nex:                          boss("nex", "Nex", defaultBossMinimum, true),
	Nightmare:                    boss("nightmare", "Nightmare", defaultBossMinimum, true),
	PhosanisNightmare:            boss("phosanis_nightmare", "Phosani's Nightmare", defaultBossMinimum, true),
	Obor:                         boss("obor", "Obor", defaultBossMinimum, false),
	PhantomMuspah:                boss("phantom_muspah", "Phantom Muspah", defaultBossMinimum, true),
	Sarachnis:                    boss("sarachnis", "Sarachnis", defaultBossMinimum, true),
	Scorpia:                      boss("scorpia", "Scorpia", defaultBossMinimum, true),
	Scurrius:                     boss("scurrius", "Scurrius", defaultBossMinimum, false),
	Skotizo:                      boss("skotizo", "Skotizo", defaultBossMinimum, true),
	SolHeredit:                   boss("sol_heredit", "Sol Heredit", defaultBossMinimum, true),
	Spindel:                      boss("spindel", "Spindel", defaultBossMinimum, true),
	Tempoross:                    boss("tempoross", "Tempoross", defaultBossMinimum, true),
	TheGauntlet:                  boss("the_gauntlet", "The Gauntlet", defaultBossMinimum, true),
	TheCorruptedGauntlet:         boss("the_corrupted_gauntlet", "The Corrupted Gauntlet", defaultBossMinimum, true),
	TheHueycoatl:                 boss("the_hueycoatl", "The Hueycoatl", defaultBossMinimum, true),
	TheLeviathan:                 boss("the_leviathan", "The Leviathan", defaultBossMinimum, true),
	TheWhisperer:                 boss("the_whisperer", "The Whisperer", defaultBossMinimum, true),
	TheatreOfBlood:               boss("theatre_of_blood", "Theatre of Blood", defaultBossMinimum, true),
	TheatreOfBloodHardMode:       boss("theatre_of_blood_hard_mode", "Theatre of Blood (HM)", defaultBossMinimum, true),
	ThermonuclearSmokeDevil:      boss("thermonuclear_smoke_devil", "Thermonuclear Smoke Devil", defaultBossMinimum, true),
	TombsOfAmascut:               boss("tombs_of_amascut", "Tombs of Amascut", defaultBossMinimum, true),
	TombsOfAmascutExpert:         boss("tombs_of_amascut_expert", "Tombs of Amascut (Expert Mode)", defaultBossMinimum, true),
	TzKalZuk:                     boss("tzkal_zuk", "TzKal-Zuk", 1, true),
	TzTokJad:                     boss("tztok_jad", "TzTok-Jad", defaultBossMinimum, true),
	Vardorvis:                    boss("vardorvis", "Vardorvis", defaultBossMinimum, true),
	Venenatis:                    boss("venenatis", "Venenatis", defaultBossMinimum, true),
	Vetion:                       boss("vetion", "Vet'ion", defaultBossMinimum, true),
	Vorkath:                      boss("vorkath", "Vorkath", defaultBossMinimum, true),
	Wintertodt:                   boss("wintertodt", "Wintertodt", defaultBossMinimum, true),
	Zalcano:                      boss("zalcano", "Zalcano", defaultBossMinimum, true),
	Zulrah:                       boss("zulrah", "Zulrah", defaultBossMinimum, true),

	EHP: {Key: "ehp", Name: "EHP", Category: CategoryComputed, Measure: MeasureValue, MinimumValue: 0},
	EHB: {Key: "ehb", Name: "EHB", Category: CategoryComputed, Measure: MeasureValue, MinimumValue: 0},
}

var byKey = func() map[string]Metric {
	m := make(map[string]Metric, Count)
	for i := Metric(0); i < Count; i++ {
		m[definitions[i].Key] = i
	}
	return m
}()

// Definition returns the catalog entry for m. Panics on an unknown metric.
func (m Metric) Definition() Definition {
	if m >= Count {
		panic(fmt.Sprintf("metric: unknown metric %d", uint8(m)))
	}
	return definitions[m]
}

// Valid reports whether m is a catalog metric.
func (m Metric) Valid() bool { return m < Count }

func (m Metric) String() string {
	if m >= Count {
		return fmt.Sprintf("metric(%d)", uint8(m))
	}
	return definitions[m].Key
}

// Name returns the display name.
func (m Metric) Name() string { return m.Definition().Name }

// Category returns the metric's category.
func (m Metric) Category() Category { return m.Definition().Category }

// Measure returns the metric's unit.
func (m Metric) Measure() Measure { return m.Definition().Measure }

// MinimumValue returns the lowest value the hiscores will rank.
func (m Metric) MinimumValue() float64 { return m.Definition().MinimumValue }

// Members reports whether the metric requires a membership account.
func (m Metric) Members() bool { return m.Definition().Members }

// IsSkill reports whether m is a skill.
func (m Metric) IsSkill() bool { return m.Category() == CategorySkill }

// IsBoss reports whether m is a boss.
func (m Metric) IsBoss() bool { return m.Category() == CategoryBoss }

// IsActivity reports whether m is an activity.
func (m Metric) IsActivity() bool { return m.Category() == CategoryActivity }

// IsComputed reports whether m is derived rather than observed.
func (m Metric) IsComputed() bool { return m.Category() == CategoryComputed }

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Parse resolves a metric key such as "zulrah" or "Runecrafting".
func Parse(key string) (Metric, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if m, ok := byKey[k]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
}

// MustParse is Parse for static tables; it panics on unknown keys.
func MustParse(key string) Metric {
	m, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return m
}

// All returns every metric in catalog order.
func All() []Metric {
	out := make([]Metric, 0, Count)
	for i := Metric(0); i < Count; i++ {
		out = append(out, i)
	}
	return out
}

// ByCategory returns the metrics of category c in catalog order.
func ByCategory(c Category) []Metric {
	_ = c.String() // reject unknown categories loudly
	out := make([]Metric, 0, Count)
	for i := Metric(0); i < Count; i++ {
		if definitions[i].Category == c {
			out = append(out, i)
		}
	}
	return out
}

// Skills returns every skill, Overall first.
func Skills() []Metric { return ByCategory(CategorySkill) }

// RealSkills returns every skill except Overall.
func RealSkills() []Metric { return ByCategory(CategorySkill)[1:] }

// Bosses returns every boss.
func Bosses() []Metric { return ByCategory(CategoryBoss) }

// Activities returns every activity.
func Activities() []Metric { return ByCategory(CategoryActivity) }

// ComputedMetrics returns the derived metrics.
func ComputedMetrics() []Metric { return ByCategory(CategoryComputed) }
