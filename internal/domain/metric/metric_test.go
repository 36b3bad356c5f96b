package metric_test

import (
	"errors"
	"testing"

	"github.com/okian/hiscores/internal/domain/metric"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	Convey("Given the metric catalog", t, func() {
		Convey("When listing metrics by category", func() {
			skills := metric.Skills()
			bosses := metric.Bosses()
			activities := metric.Activities()
			computed := metric.ComputedMetrics()

			Convey("Then every metric belongs to exactly one category", func() {
				So(len(skills)+len(bosses)+len(activities)+len(computed), ShouldEqual, int(metric.Count))
				So(skills[0], ShouldEqual, metric.Overall)
				So(computed, ShouldResemble, []metric.Metric{metric.EHP, metric.EHB})
				So(metric.RealSkills(), ShouldNotContain, metric.Overall)
			})

			Convey("Then every category has a fixed measure", func() {
				for _, m := range skills {
					So(m.Measure(), ShouldEqual, metric.MeasureExperience)
				}
				for _, m := range bosses {
					So(m.Measure(), ShouldEqual, metric.MeasureKills)
				}
				for _, m := range activities {
					So(m.Measure(), ShouldEqual, metric.MeasureScore)
				}
			})
		})

		Convey("When reading minimum values", func() {
			Convey("Then skills default to 1 and most bosses need 5 kills", func() {
				So(metric.Attack.MinimumValue(), ShouldEqual, 1)
				So(metric.Zulrah.MinimumValue(), ShouldEqual, 5)
				So(metric.Mimic.MinimumValue(), ShouldEqual, 1)
				So(metric.SoulWarsZeal.MinimumValue(), ShouldEqual, 200)
				So(metric.PvpArena.MinimumValue(), ShouldEqual, 2525)
			})
		})

		Convey("When parsing keys", func() {
			m, err := metric.Parse(" Runecrafting ")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, metric.Runecrafting)

			_, err = metric.Parse("sailing_boss")
			So(errors.Is(err, metric.ErrUnknownMetric), ShouldBeTrue)
		})

		Convey("When round-tripping through text", func() {
			b, err := metric.Kreearra.MarshalText()
			So(err, ShouldBeNil)
			var m metric.Metric
			So(m.UnmarshalText(b), ShouldBeNil)
			So(m, ShouldEqual, metric.Kreearra)
		})

		Convey("When asking for an unknown metric's definition", func() {
			Convey("Then it panics", func() {
				So(func() { metric.Metric(250).Definition() }, ShouldPanic)
				So(func() { _ = metric.Category(9).String() }, ShouldPanic)
			})
		})
	})
}

func TestLevels(t *testing.T) {
	Convey("Given the experience table", t, func() {
		So(metric.ExperienceForLevel(1), ShouldEqual, 0)
		So(metric.ExperienceForLevel(2), ShouldEqual, 83)
		So(metric.ExperienceForLevel(10), ShouldEqual, 1154)
		So(metric.ExperienceForLevel(99), ShouldEqual, 13_034_431)

		Convey("Levels are floor-derived from experience", func() {
			So(metric.Level(-1), ShouldEqual, 1)
			So(metric.Level(82), ShouldEqual, 1)
			So(metric.Level(83), ShouldEqual, 2)
			So(metric.Level(13_034_430), ShouldEqual, 98)
			So(metric.Level(200_000_000), ShouldEqual, 99)
		})

		Convey("Hitpoints never drops below level 10", func() {
			So(metric.SkillLevel(metric.Hitpoints, -1), ShouldEqual, 10)
			So(metric.SkillLevel(metric.Attack, -1), ShouldEqual, 1)
		})

		Convey("Combat level follows the in-game formula", func() {
			So(metric.CombatLevel(1, 1, 1, 10, 1, 1, 1), ShouldEqual, 3)
			So(metric.CombatLevel(99, 99, 99, 99, 99, 99, 99), ShouldEqual, 126)
			So(metric.CombatLevel(60, 70, 45, 70, 70, 70, 52), ShouldEqual, 77)
		})
	})
}
