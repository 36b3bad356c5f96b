package achievement_test

import (
	"testing"
	"time"

	"github.com/okian/hiscores/internal/domain/achievement"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	t0     = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	player = model.Player{ID: "p1", Username: "woox", Type: model.AccountRegular, Build: model.BuildMain}
	lvl98  = metric.ExperienceForLevel(98)
	lvl99  = metric.ExperienceForLevel(99)
)

func snap(at time.Time, stats map[metric.Metric]model.Stat) model.Snapshot {
	return model.NewSnapshot("p1", at, stats)
}

func attack(at time.Time, exp float64) model.Snapshot {
	return snap(at, map[metric.Metric]model.Stat{metric.Attack: {Value: exp, Rank: 1}})
}

func named(list []achievement.Achievement, name string) (achievement.Achievement, bool) {
	for _, a := range list {
		if a.Name == name {
			return a, true
		}
	}
	return achievement.Achievement{}, false
}

func TestDefinitions(t *testing.T) {
	Convey("Given definition tables", t, func() {
		Convey("Then names render from the template", func() {
			d := achievement.NewDefinition(metric.Zulrah, achievement.MeasureValue, "{threshold} {metric} kills",
				achievement.Threshold{Value: 500, Label: "500"})
			So(d.Name(d.Thresholds[0]), ShouldEqual, "500 Zulrah kills")
		})

		Convey("Then thresholds out of order panic", func() {
			So(func() {
				achievement.NewDefinition(metric.Zulrah, achievement.MeasureValue, "{threshold}",
					achievement.Threshold{Value: 1000, Label: "1k"},
					achievement.Threshold{Value: 500, Label: "500"})
			}, ShouldPanic)
		})

		Convey("Then duplicate names panic", func() {
			d := achievement.NewDefinition(metric.Zulrah, achievement.MeasureValue, "same",
				achievement.Threshold{Value: 1, Label: "1"})
			So(func() { achievement.NewEvaluator(achievement.WithDefinitions(d, d)) }, ShouldPanic)
		})

		Convey("Then the bundled table builds", func() {
			So(func() { achievement.NewEvaluator() }, ShouldNotPanic)
		})
	})
}

func TestEvaluate(t *testing.T) {
	e := achievement.NewEvaluator()

	Convey("Given a player's first snapshot", t, func() {
		got := e.Evaluate(player, nil, attack(t0, lvl99), nil)

		Convey("Then satisfied thresholds are undated", func() {
			So(got, ShouldHaveLength, 1)
			So(got[0].Name, ShouldEqual, "99 Attack")
			So(got[0].PlayerID, ShouldEqual, "p1")
			So(got[0].Unknown(), ShouldBeTrue)
			So(got[0].Accuracy, ShouldBeNil)
		})
	})

	Convey("Given a threshold crossed between two snapshots", t, func() {
		previous := attack(t0, lvl98)
		current := attack(t0.Add(6*time.Hour), lvl99)
		got := e.Evaluate(player, &previous, current, nil)

		Convey("Then it is dated at the current snapshot with the gap as accuracy", func() {
			So(got, ShouldHaveLength, 1)
			So(got[0].CreatedAt, ShouldEqual, current.CreatedAt)
			So(got[0].Accuracy, ShouldNotBeNil)
			So(*got[0].Accuracy, ShouldEqual, 6*time.Hour)
		})

		Convey("Then evaluating again against the result adds nothing", func() {
			So(e.Evaluate(player, &previous, current, got), ShouldBeEmpty)
		})
	})

	Convey("Given a threshold already met before but never recorded", t, func() {
		previous := attack(t0, lvl99)
		current := attack(t0.Add(time.Hour), lvl99+1)
		got := e.Evaluate(player, &previous, current, nil)

		Convey("Then it is recorded undated", func() {
			So(got, ShouldHaveLength, 1)
			So(got[0].Unknown(), ShouldBeTrue)
		})
	})

	Convey("Given metrics that joined the hiscores late", t, func() {
		previous := snap(t0, nil)
		current := snap(t0.Add(time.Hour), map[metric.Metric]model.Stat{
			metric.Tempoross: {Value: 600, Rank: 1},
			metric.Zulrah:    {Value: 600, Rank: 1},
		})
		got := e.Evaluate(player, &previous, current, nil)

		Convey("Then a first ranked value is not dated to now", func() {
			tempoross, ok := named(got, "500 Tempoross kills")
			So(ok, ShouldBeTrue)
			So(tempoross.Unknown(), ShouldBeTrue)
			So(tempoross.Accuracy, ShouldBeNil)
		})

		Convey("Then other metrics are still dated", func() {
			zulrah, ok := named(got, "500 Zulrah kills")
			So(ok, ShouldBeTrue)
			So(zulrah.CreatedAt, ShouldEqual, current.CreatedAt)
		})
	})

	Convey("Given an unranked metric", t, func() {
		So(e.Evaluate(player, nil, snap(t0, nil), nil), ShouldBeEmpty)
	})
}

func TestBackdate(t *testing.T) {
	e := achievement.NewEvaluator()
	history := []model.Snapshot{
		attack(t0.Add(72*time.Hour), lvl99+10),
		attack(t0, metric.ExperienceForLevel(90)),
		attack(t0.Add(48*time.Hour), lvl99),
		attack(t0.Add(24*time.Hour), lvl98),
	}

	Convey("Given an undated achievement", t, func() {
		a := achievement.Achievement{PlayerID: "p1", Name: "99 Attack", Metric: metric.Attack, Threshold: 99, CreatedAt: achievement.UnknownDate}
		got, ok := e.Backdate(a, history)

		Convey("Then history brackets the crossing", func() {
			So(ok, ShouldBeTrue)
			So(got.CreatedAt, ShouldEqual, t0.Add(48*time.Hour))
			So(*got.Accuracy, ShouldEqual, 24*time.Hour)
		})

		Convey("Then backdating the result again changes nothing", func() {
			again, ok := e.Backdate(got, history)
			So(ok, ShouldBeFalse)
			So(again, ShouldResemble, got)
		})
	})

	Convey("Given a wider estimate", t, func() {
		wide := 96 * time.Hour
		a := achievement.Achievement{PlayerID: "p1", Name: "99 Attack", CreatedAt: t0.Add(72 * time.Hour), Accuracy: &wide}

		Convey("Then it is tightened", func() {
			got, ok := e.Backdate(a, history)
			So(ok, ShouldBeTrue)
			So(*got.Accuracy, ShouldEqual, 24*time.Hour)
		})
	})

	Convey("Given an exact date", t, func() {
		a := achievement.Achievement{PlayerID: "p1", Name: "99 Attack", CreatedAt: t0.Add(50 * time.Hour)}

		Convey("Then it is kept", func() {
			_, ok := e.Backdate(a, history)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given history that always satisfied the threshold", t, func() {
		a := achievement.Achievement{PlayerID: "p1", Name: "99 Attack", CreatedAt: achievement.UnknownDate}
		_, ok := e.Backdate(a, []model.Snapshot{attack(t0, lvl99), attack(t0.Add(time.Hour), lvl99+5)})
		So(ok, ShouldBeFalse)
	})

	Convey("Given an unknown achievement name", t, func() {
		_, ok := e.Backdate(achievement.Achievement{Name: "nope", CreatedAt: achievement.UnknownDate}, history)
		So(ok, ShouldBeFalse)
	})
}

func TestProgress(t *testing.T) {
	Convey("Given a player halfway to a kill milestone", t, func() {
		e := achievement.NewEvaluator(achievement.WithDefinitions(
			achievement.NewDefinition(metric.Zulrah, achievement.MeasureValue, "{threshold} {metric} kills",
				achievement.Threshold{Value: 500, Label: "500"},
				achievement.Threshold{Value: 1000, Label: "1k"}),
		))

		Convey("Then progress points at the next unmet threshold", func() {
			p := e.Progress(snap(t0, map[metric.Metric]model.Stat{metric.Zulrah: {Value: 750, Rank: 1}}))
			So(p, ShouldHaveLength, 1)
			So(p[0].Name, ShouldEqual, "1k Zulrah kills")
			So(p[0].Fraction, ShouldEqual, 0.75)
		})

		Convey("Then an unranked metric has no progress", func() {
			p := e.Progress(snap(t0, nil))
			So(p[0].Fraction, ShouldEqual, 0)
			So(p[0].Name, ShouldEqual, "500 Zulrah kills")
		})
	})
}
