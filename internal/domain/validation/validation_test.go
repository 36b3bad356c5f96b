package validation_test

import (
	"testing"
	"time"

	"github.com/okian/hiscores/internal/domain/efficiency"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
	"github.com/okian/hiscores/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	t0      = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	regular = model.Player{ID: "p1", Username: "b0aty", Type: model.AccountRegular, Build: model.BuildMain}
)

func snap(at time.Time, stats map[metric.Metric]model.Stat) model.Snapshot {
	return model.NewSnapshot("p1", at, stats)
}

func TestValidateFirstSnapshot(t *testing.T) {
	Convey("Given no previous snapshot", t, func() {
		v := validation.NewValidator(efficiency.NewEngine())
		verdict := v.Validate(nil, snap(t0, nil), regular)

		Convey("Then the candidate is accepted and changed", func() {
			So(verdict.Accepted, ShouldBeTrue)
			So(verdict.Changed, ShouldBeTrue)
			So(verdict.Review, ShouldBeNil)
		})
	})
}

func TestNegativeGains(t *testing.T) {
	v := validation.NewValidator(efficiency.NewEngine())

	Convey("Given runecrafting experience that went down", t, func() {
		previous := snap(t0, map[metric.Metric]model.Stat{metric.Runecrafting: {Value: 10_000_000, Rank: 1}})
		candidate := snap(t0.Add(24*time.Hour), map[metric.Metric]model.Stat{metric.Runecrafting: {Value: 4_752_824, Rank: 1}})

		verdict := v.Validate(&previous, candidate, regular)

		Convey("Then the candidate is rejected with a readable reason", func() {
			So(verdict.Accepted, ShouldBeFalse)
			So(verdict.Review, ShouldNotBeNil)
			So(verdict.Review.Fired(validation.RuleNegativeGains), ShouldBeTrue)
			So(verdict.Review.Fired(validation.RuleExcessiveGains), ShouldBeFalse)
			So(verdict.Review.NegativeGains, ShouldHaveLength, 1)
			So(verdict.Review.NegativeGains[0].Amount, ShouldEqual, 5_247_176)
			So(verdict.Review.Messages, ShouldContain, "Runecrafting experience decreased by 5,247,176")
		})

		Convey("Then the review carries both snapshots", func() {
			So(verdict.Review.Previous.Value(metric.Runecrafting), ShouldEqual, 10_000_000)
			So(verdict.Review.Rejected.Value(metric.Runecrafting), ShouldEqual, 4_752_824)
			So(verdict.Review.PlayerID, ShouldEqual, "p1")
		})
	})

	Convey("Given a metric that dropped off the hiscores", t, func() {
		previous := snap(t0, map[metric.Metric]model.Stat{metric.Zulrah: {Value: 100, Rank: 1}})
		candidate := snap(t0.Add(time.Hour), nil)

		Convey("Then it is not a negative gain", func() {
			So(v.Validate(&previous, candidate, regular).Accepted, ShouldBeTrue)
		})
	})

	Convey("Given fluctuating activities", t, func() {
		previous := snap(t0, map[metric.Metric]model.Stat{
			metric.LastManStanding: {Value: 1000, Rank: 1},
			metric.PvpArena:        {Value: 2000, Rank: 1},
		})
		candidate := snap(t0.Add(time.Hour), map[metric.Metric]model.Stat{
			metric.LastManStanding: {Value: 900, Rank: 1},
			metric.PvpArena:        {Value: 1500, Rank: 1},
		})

		Convey("Then their decreases are ignored", func() {
			So(v.Validate(&previous, candidate, regular).Accepted, ShouldBeTrue)
		})
	})

	Convey("Given bounty hunter scores reset by the game update", t, func() {
		before := validation.BountyHunterReset.Add(-48 * time.Hour)
		after := validation.BountyHunterReset.Add(24 * time.Hour)
		prevStats := map[metric.Metric]model.Stat{
			metric.BountyHunterHunter: {Value: 500, Rank: 1},
			metric.BountyHunterRogue:  {Value: 300, Rank: 1},
		}
		candStats := map[metric.Metric]model.Stat{
			metric.BountyHunterHunter: {Value: 10, Rank: 1},
			metric.BountyHunterRogue:  {Value: 5, Rank: 1},
		}

		Convey("When the snapshots straddle the reset", func() {
			previous, candidate := snap(before, prevStats), snap(after, candStats)

			Convey("Then the decreases are ignored", func() {
				So(v.Validate(&previous, candidate, regular).Accepted, ShouldBeTrue)
			})

			Convey("Then an unrelated decrease still rejects", func() {
				prevStats[metric.Attack] = model.Stat{Value: 50_000, Rank: 1}
				candStats[metric.Attack] = model.Stat{Value: 40_000, Rank: 1}
				previous, candidate := snap(before, prevStats), snap(after, candStats)

				verdict := v.Validate(&previous, candidate, regular)
				So(verdict.Accepted, ShouldBeFalse)
				So(verdict.Review.NegativeGains, ShouldHaveLength, 1)
				So(verdict.Review.NegativeGains[0].Metric, ShouldEqual, metric.Attack)
			})
		})

		Convey("When both snapshots are after the reset", func() {
			previous, candidate := snap(after, prevStats), snap(after.Add(time.Hour), candStats)

			Convey("Then the decreases reject", func() {
				verdict := v.Validate(&previous, candidate, regular)
				So(verdict.Accepted, ShouldBeFalse)
				So(verdict.Review.NegativeGains, ShouldHaveLength, 2)
			})
		})
	})
}

func TestExcessiveGains(t *testing.T) {
	v := validation.NewValidator(efficiency.NewEngine())
	previous := snap(t0, map[metric.Metric]model.Stat{metric.Zulrah: {Value: 0, Rank: 1}})
	// 200 hours of Zulrah at the bundled rate.
	hours := efficiency.NewEngine().ComputeFor(snap(t0, map[metric.Metric]model.Stat{metric.Zulrah: {Value: 7000, Rank: 1}}), regular).EHB

	Convey("Given two hundred hours of bossing gained in one hour", t, func() {
		So(hours, ShouldEqual, 200)
		candidate := snap(t0.Add(time.Hour), map[metric.Metric]model.Stat{metric.Zulrah: {Value: 7000, Rank: 1}})
		verdict := v.Validate(&previous, candidate, regular)

		Convey("Then the candidate is rejected with the supporting figures", func() {
			So(verdict.Accepted, ShouldBeFalse)
			So(verdict.Review.Fired(validation.RuleExcessiveGains), ShouldBeTrue)
			So(verdict.Review.EHBDiff, ShouldEqual, 200)
			So(verdict.Review.HoursElapsed, ShouldEqual, 1)
			So(verdict.Review.HoursAllowed, ShouldEqual, validation.ExcessiveGainsFloorHours)
			So(verdict.Review.Messages, ShouldHaveLength, 1)
		})
	})

	Convey("Given the same gain over ten days", t, func() {
		candidate := snap(t0.Add(240*time.Hour), map[metric.Metric]model.Stat{metric.Zulrah: {Value: 7000, Rank: 1}})

		Convey("Then the candidate is accepted", func() {
			verdict := v.Validate(&previous, candidate, regular)
			So(verdict.Accepted, ShouldBeTrue)
			So(verdict.Changed, ShouldBeTrue)
		})
	})

	Convey("Given an account type without efficiency", t, func() {
		candidate := snap(t0.Add(time.Hour), map[metric.Metric]model.Stat{metric.Zulrah: {Value: 7000, Rank: 1}})
		p := regular
		p.Type = model.AccountUnknown

		Convey("Then the excessive gains rule cannot fire", func() {
			So(v.Validate(&previous, candidate, p).Accepted, ShouldBeTrue)
		})
	})
}

func TestHasChanged(t *testing.T) {
	Convey("Given snapshots", t, func() {
		previous := snap(t0, map[metric.Metric]model.Stat{
			metric.Attack: {Value: 100, Rank: 1},
			metric.EHP:    {Value: 1, Rank: 1},
		})

		Convey("When nothing moved", func() {
			So(validation.HasChanged(&previous, snap(t0.Add(time.Hour), previous.Stats())), ShouldBeFalse)
		})

		Convey("When only efficiency moved", func() {
			c := previous.With(metric.EHP, model.Stat{Value: 2, Rank: 1})
			So(validation.HasChanged(&previous, c), ShouldBeFalse)
		})

		Convey("When a skill increased", func() {
			c := previous.With(metric.Attack, model.Stat{Value: 101, Rank: 1})
			So(validation.HasChanged(&previous, c), ShouldBeTrue)
		})

		Convey("When there is no previous snapshot", func() {
			So(validation.HasChanged(nil, previous), ShouldBeTrue)
		})
	})
}

func TestReviewID(t *testing.T) {
	Convey("Given the same player and timestamps", t, func() {
		a := validation.ReviewID("p1", t0, t0.Add(time.Hour))
		b := validation.ReviewID("p1", t0, t0.Add(time.Hour))

		Convey("Then the review ID is reproducible", func() {
			So(a, ShouldEqual, b)
			So(a, ShouldNotEqual, validation.ReviewID("p2", t0, t0.Add(time.Hour)))
		})
	})
}

func TestValidateBackfill(t *testing.T) {
	v := validation.NewValidator(efficiency.NewEngine())
	attack := func(at time.Time, exp float64) model.Snapshot {
		return snap(at, map[metric.Metric]model.Stat{metric.Attack: {Value: exp, Rank: 1}})
	}
	previous := attack(t0, 1000)
	successor := attack(t0.Add(48*time.Hour), 2000)

	Convey("Given a backfill between its neighbours", t, func() {
		verdict := v.ValidateBackfill(&previous, attack(t0.Add(24*time.Hour), 1500), successor, regular)

		Convey("Then it is accepted", func() {
			So(verdict.Accepted, ShouldBeTrue)
			So(verdict.Changed, ShouldBeTrue)
		})
	})

	Convey("Given a backfill holding more than its successor", t, func() {
		verdict := v.ValidateBackfill(&previous, attack(t0.Add(24*time.Hour), 5000), successor, regular)

		Convey("Then it is rejected against the successor", func() {
			So(verdict.Accepted, ShouldBeFalse)
			So(verdict.Review.Fired(validation.RuleNegativeGains), ShouldBeTrue)
			So(verdict.Review.Successor, ShouldNotBeNil)
			So(verdict.Review.Successor.CreatedAt, ShouldEqual, successor.CreatedAt)
			So(verdict.Review.NegativeGains[0].Previous, ShouldEqual, 5000)
			So(verdict.Review.NegativeGains[0].Candidate, ShouldEqual, 2000)
			So(verdict.Review.Messages, ShouldContain, "Attack experience decreased by 3,000")
		})
	})

	Convey("Given a backfill older than any stored snapshot", t, func() {
		So(v.ValidateBackfill(nil, attack(t0.Add(-time.Hour), 900), successor, regular).Accepted, ShouldBeTrue)
		So(v.ValidateBackfill(nil, attack(t0.Add(-time.Hour), 2500), successor, regular).Accepted, ShouldBeFalse)
	})
}
