package efficiency

import "github.com/okian/hiscores/internal/domain/metric"

func at(start, rate float64, description string) Method {
	return Method{StartExp: start, Rate: rate, Description: description}
}

func mainSkills() map[metric.Metric][]Method {
	melee := []Method{
		at(0, 15_000, "Sand Crabs"),
		at(37_224, 38_000, "Sand Crabs"),
		at(101_333, 55_000, "Nightmare Zone"),
		at(1_210_421, 65_000, "Nightmare Zone"),
		at(3_258_594, 82_000, "Nightmare Zone"),
		at(8_771_558, 95_000, "Nightmare Zone"),
		at(13_034_431, 105_000, "Nightmare Zone"),
	}
	return map[metric.Metric][]Method{
		metric.Attack:    melee,
		metric.Strength:  melee,
		metric.Defence:   melee,
		metric.Hitpoints: {at(0, 0, "Trained passively")},
		metric.Ranged: {
			at(0, 250_000, "Dwarf Multicannon"),
			at(6_517_253, 675_000, "Chinchompas"),
		},
		metric.Prayer: {at(0, 1_000_000, "Chaos Altar")},
		metric.Magic: {
			at(0, 250_000, "Splashing"),
			at(3_258_594, 300_000, "Bursting"),
		},
		metric.Cooking: {
			at(0, 40_000, "Shrimp"),
			at(7_842, 130_000, "Wines"),
			at(37_224, 175_000, "Wines"),
			at(737_627, 490_000, "Karambwans"),
		},
		metric.Woodcutting: {
			at(0, 7_000, "Oaks"),
			at(2_411, 16_000, "Willows"),
			at(13_363, 35_000, "Teaks"),
			at(302_288, 75_000, "Teaks"),
			at(1_986_068, 90_000, "Teaks"),
		},
		metric.Fletching: {
			at(0, 45_000, "Arrow shafts"),
			at(22_406, 1_800_000, "Broad arrows"),
			at(13_034_431, 3_300_000, "Dragon darts"),
		},
		metric.Fishing: {
			at(0, 14_000, "Shrimp"),
			at(4_470, 30_000, "Fly fishing"),
			at(101_333, 58_000, "Barbarian fishing"),
			at(1_986_068, 78_000, "Barbarian fishing"),
			at(5_902_831, 88_000, "Barbarian fishing"),
		},
		metric.Firemaking: {
			at(0, 45_000, "Logs"),
			at(101_333, 250_000, "Wintertodt"),
			at(13_034_431, 300_000, "Redwood logs"),
		},
		metric.Crafting: {
			at(0, 57_000, "Leather"),
			at(20_224, 170_000, "Battlestaves"),
			at(101_333, 260_000, "Battlestaves"),
			at(1_475_581, 420_000, "Dragonhide bodies"),
		},
		metric.Smithing: {
			at(0, 40_000, "Bronze bars"),
			at(37_224, 340_000, "Blast Furnace gold"),
			at(13_034_431, 380_000, "Blast Furnace gold"),
		},
		metric.Mining: {
			at(0, 8_000, "Copper"),
			at(14_833, 20_000, "Iron"),
			at(41_171, 44_000, "Iron"),
			at(302_288, 64_000, "Granite"),
			at(1_986_068, 76_000, "Granite"),
			at(5_346_332, 86_000, "Granite"),
			at(13_034_431, 95_000, "Granite"),
		},
		metric.Herblore: {
			at(0, 60_000, "Attack potions"),
			at(27_473, 200_000, "Prayer potions"),
			at(2_192_818, 425_000, "Super combats"),
		},
		metric.Agility: {
			at(0, 6_000, "Gnome course"),
			at(13_363, 15_000, "Canifis"),
			at(41_171, 44_000, "Seers' Village"),
			at(449_428, 50_000, "Seers' Village"),
			at(1_336_443, 65_000, "Ardougne"),
			at(13_034_431, 70_000, "Ardougne"),
		},
		metric.Thieving: {
			at(0, 15_000, "Men"),
			at(61_512, 200_000, "Blackjacking"),
			at(1_986_068, 265_000, "Blackjacking"),
		},
		metric.Slayer: {
			at(0, 5_000, "Turael"),
			at(37_224, 12_000, "Vannaka"),
			at(100_000, 17_000, "Nieve"),
			at(1_000_000, 25_000, "Duradel"),
			at(1_986_068, 30_000, "Duradel"),
			at(3_000_000, 32_500, "Duradel"),
			at(7_195_629, 35_000, "Duradel"),
			at(13_034_431, 37_000, "Duradel"),
		},
		metric.Farming: {
			at(0, 10_000, "Potatoes"),
			at(2_411, 50_000, "Tree runs"),
			at(13_363, 130_000, "Tree runs"),
			at(61_512, 200_000, "Tithe farm"),
			at(273_742, 350_000, "Hardwood runs"),
			at(1_210_421, 900_000, "Magic tree runs"),
			at(13_034_431, 1_150_000, "Magic tree runs"),
		},
		metric.Runecrafting: {
			at(0, 8_000, "Air runes"),
			at(2_107, 20_000, "Earth runes"),
			at(101_333, 45_000, "Lava runes"),
			at(1_210_421, 60_000, "Guardians of the Rift"),
			at(2_421_087, 70_000, "Guardians of the Rift"),
			at(5_902_831, 80_000, "Guardians of the Rift"),
			at(13_034_431, 85_000, "Guardians of the Rift"),
		},
		metric.Hunter: {
			at(0, 5_000, "Birds"),
			at(12_031, 40_000, "Falconry"),
			at(247_886, 82_000, "Red chinchompas"),
			at(1_986_068, 115_000, "Black chinchompas"),
			at(3_972_294, 135_000, "Black chinchompas"),
			at(13_034_431, 150_000, "Black chinchompas"),
		},
		metric.Construction: {
			at(0, 20_000, "Planks"),
			at(18_247, 100_000, "Oak larders"),
			at(101_333, 230_000, "Oak larders"),
			at(1_096_278, 450_000, "Mahogany tables"),
			at(3_258_594, 950_000, "Mahogany benches"),
		},
	}
}

// mainBonuses credit Hitpoints from melee and ranged, Farming from Hunter
// kebbit drops, and Firemaking from Woodcutting at Wintertodt.
func mainBonuses() []BonusRule {
	const hpRatio = 1.0 / 3.0
	out := make([]BonusRule, 0, 8)
	for _, m := range []metric.Metric{metric.Attack, metric.Strength, metric.Defence, metric.Ranged} {
		out = append(out, BonusRule{
			Origin: m, Bonus: metric.Hitpoints,
			StartExp: 0, EndExp: metric.MaxSkillExperience, Ratio: hpRatio,
		})
	}
	out = append(out,
		BonusRule{
			Origin: metric.Magic, Bonus: metric.Hitpoints,
			StartExp: 3_258_594, EndExp: metric.MaxSkillExperience, Ratio: hpRatio,
		},
		BonusRule{
			Origin: metric.Slayer, Bonus: metric.Hitpoints,
			StartExp: 0, EndExp: metric.MaxSkillExperience, Ratio: 1.33,
		},
		BonusRule{
			Origin: metric.Woodcutting, Bonus: metric.Firemaking,
			StartExp: 101_333, EndExp: 13_034_431, Ratio: 0.5,
		},
		BonusRule{
			Origin: metric.Construction, Bonus: metric.Crafting,
			StartExp: 13_034_431, EndExp: metric.MaxSkillExperience, Ratio: 0.01,
			End: true,
		},
	)
	return out
}

func mainBosses() map[metric.Metric]float64 {
	return map[metric.Metric]float64{
		metric.AbyssalSire:                  45,
		metric.AlchemicalHydra:              33,
		metric.Amoxliatl:                    50,
		metric.Araxxor:                      38,
		metric.Artio:                        55,
		metric.BarrowsChests:                18,
		metric.Bryophyta:                    9,
		metric.Callisto:                     50,
		metric.Calvarion:                    55,
		metric.Cerberus:                     61,
		metric.ChambersOfXeric:              3.5,
		metric.ChambersOfXericChallengeMode: 2.2,
		metric.ChaosElemental:               48,
		metric.ChaosFanatic:                 80,
		metric.CommanderZilyana:             55,
		metric.CorporealBeast:               6.5,
		metric.CrazyArchaeologist:           75,
		metric.DagannothPrime:               100,
		metric.DagannothRex:                 100,
		metric.DagannothSupreme:             100,
		metric.DerangedArchaeologist:        80,
		metric.DukeSucellus:                 32,
		metric.GeneralGraardor:              40,
		metric.GiantMole:                    90,
		metric.GrotesqueGuardians:           36,
		metric.Hespori:                      60,
		metric.KalphiteQueen:                50,
		metric.KingBlackDragon:              120,
		metric.Kraken:                       100,
		metric.Kreearra:                     40,
		metric.KrilTsutsaroth:               55,
		metric.Nex:                          13,
		metric.Nightmare:                    14,
		metric.PhosanisNightmare:            7.5,
		metric.Obor:                         12,
		metric.PhantomMuspah:                25,
		metric.Sarachnis:                    80,
		metric.Scorpia:                      130,
		metric.Scurrius:                     50,
		metric.Skotizo:                      45,
		metric.SolHeredit:                   2,
		metric.Spindel:                      55,
		metric.TheGauntlet:                  10,
		metric.TheCorruptedGauntlet:         7,
		metric.TheHueycoatl:                 20,
		metric.TheLeviathan:                 30,
		metric.TheWhisperer:                 28,
		metric.TheatreOfBlood:               3.3,
		metric.TheatreOfBloodHardMode:       2.8,
		metric.ThermonuclearSmokeDevil:      125,
		metric.TombsOfAmascut:               2.8,
		metric.TombsOfAmascutExpert:         2.4,
		metric.TzKalZuk:                     0.8,
		metric.TzTokJad:                     2,
		metric.Vardorvis:                    40,
		metric.Venenatis:                    50,
		metric.Vetion:                       32,
		metric.Vorkath:                      34,
		metric.Zulrah:                       35,
	}
}

// Iron accounts gather their own supplies.
func ironmanSkills() map[metric.Metric][]Method {
	return map[metric.Metric][]Method{
		metric.Prayer: {
			at(0, 50_000, "Bones at the Chaos Altar"),
			at(737_627, 250_000, "Dragon bones at the Chaos Altar"),
		},
		metric.Cooking: {
			at(0, 40_000, "Shrimp"),
			at(37_224, 120_000, "Karambwans"),
		},
		metric.Fletching: {
			at(0, 45_000, "Arrow shafts"),
			at(22_406, 90_000, "Longbows"),
			at(1_210_421, 190_000, "Broad bolts"),
		},
		metric.Crafting: {
			at(0, 57_000, "Leather"),
			at(20_224, 120_000, "Glassblowing"),
			at(1_475_581, 160_000, "Glassblowing"),
		},
		metric.Smithing: {
			at(0, 40_000, "Bronze bars"),
			at(37_224, 130_000, "Giants' Foundry"),
			at(3_258_594, 190_000, "Giants' Foundry"),
		},
		metric.Herblore: {
			at(0, 50_000, "Attack potions"),
			at(27_473, 130_000, "Prayer potions"),
		},
		metric.Construction: {
			at(0, 20_000, "Planks"),
			at(18_247, 70_000, "Mahogany Homes"),
			at(1_096_278, 110_000, "Mahogany Homes"),
		},
		metric.Farming: {
			at(0, 10_000, "Potatoes"),
			at(61_512, 160_000, "Tithe farm"),
			at(1_210_421, 500_000, "Magic tree runs"),
		},
	}
}

func ironmanBosses() map[metric.Metric]float64 {
	return map[metric.Metric]float64{
		metric.ChambersOfXeric:      3,
		metric.TheatreOfBlood:       2.8,
		metric.TheCorruptedGauntlet: 6.5,
		metric.CorporealBeast:       4,
		metric.Nex:                  10,
	}
}

// Ultimate ironmen cannot bank.
func ultimateSkills() map[metric.Metric][]Method {
	return map[metric.Metric][]Method{
		metric.Prayer: {
			at(0, 40_000, "Bones"),
			at(737_627, 150_000, "Ensouled heads"),
		},
		metric.Construction: {
			at(0, 20_000, "Planks"),
			at(18_247, 60_000, "Mahogany Homes"),
		},
	}
}
