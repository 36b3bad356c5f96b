package repository

import (
	"context"
	"testing"
	"time"

	"github.com/okian/hiscores/internal/domain/achievement"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func snapAt(player string, h int, attack float64) model.Snapshot {
	return model.NewSnapshot(player, t0.Add(time.Duration(h)*time.Hour), map[metric.Metric]model.Stat{
		metric.Attack: {Value: attack, Rank: 10},
	})
}

func TestMemoryHistory(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty history", t, func() {
		h := NewMemoryHistory()

		Convey("Then Latest is nil without error", func() {
			s, err := h.Latest(ctx, "p1")
			So(err, ShouldBeNil)
			So(s, ShouldBeNil)
		})

		Convey("When snapshots arrive out of order", func() {
			So(h.SaveSnapshot(ctx, snapAt("p1", 5, 500)), ShouldBeNil)
			So(h.SaveSnapshot(ctx, snapAt("p1", 1, 100)), ShouldBeNil)
			So(h.SaveSnapshot(ctx, snapAt("p1", 3, 300)), ShouldBeNil)

			Convey("Then they are kept in time order", func() {
				all, err := h.History(ctx, "p1", time.Time{}, time.Time{})
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 3)
				So(all[0].Value(metric.Attack), ShouldEqual, 100)
				So(all[2].Value(metric.Attack), ShouldEqual, 500)

				latest, _ := h.Latest(ctx, "p1")
				So(latest.Value(metric.Attack), ShouldEqual, 500)
			})

			Convey("Then windows are inclusive", func() {
				win, _ := h.History(ctx, "p1", t0.Add(3*time.Hour), t0.Add(5*time.Hour))
				So(win, ShouldHaveLength, 2)
				empty, _ := h.History(ctx, "p1", t0.Add(6*time.Hour), time.Time{})
				So(empty, ShouldBeEmpty)
			})

			Convey("Then a resubmission at the same instant replaces the stored one", func() {
				So(h.SaveSnapshot(ctx, snapAt("p1", 3, 333)), ShouldBeNil)
				all, _ := h.History(ctx, "p1", time.Time{}, time.Time{})
				So(all, ShouldHaveLength, 3)
				So(all[1].Value(metric.Attack), ShouldEqual, 333)
			})

			Convey("Then the returned slice is a copy", func() {
				all, _ := h.History(ctx, "p1", time.Time{}, time.Time{})
				all[0] = snapAt("p1", 0, 0)
				again, _ := h.History(ctx, "p1", time.Time{}, time.Time{})
				So(again[0].Value(metric.Attack), ShouldEqual, 100)
			})

			So(h.Players(), ShouldResemble, []string{"p1"})
		})

		Convey("Then a snapshot without player is refused", func() {
			So(h.SaveSnapshot(ctx, snapAt("", 0, 1)), ShouldEqual, ErrInvalidEntry)
		})
	})

	Convey("Given a history with retention", t, func() {
		h := NewMemoryHistory(WithRetention(2))
		for i := 0; i < 5; i++ {
			So(h.SaveSnapshot(ctx, snapAt("p1", i, float64(i))), ShouldBeNil)
		}

		Convey("Then only the newest snapshots remain", func() {
			all, _ := h.History(ctx, "p1", time.Time{}, time.Time{})
			So(all, ShouldHaveLength, 2)
			So(all[0].Value(metric.Attack), ShouldEqual, 3)
		})
	})

	Convey("Given stored achievements", t, func() {
		h := NewMemoryHistory()
		accuracy := 6 * time.Hour
		So(h.SaveAchievements(ctx, []achievement.Achievement{
			{PlayerID: "p1", Name: "99 Attack", Metric: metric.Attack, Threshold: 99, CreatedAt: achievement.UnknownDate},
			{PlayerID: "p1", Name: "500 Zulrah kills", Metric: metric.Zulrah, Threshold: 500, CreatedAt: t0},
		}), ShouldBeNil)

		Convey("When one is redated", func() {
			So(h.SaveAchievements(ctx, []achievement.Achievement{
				{PlayerID: "p1", Name: "99 Attack", Metric: metric.Attack, Threshold: 99, CreatedAt: t0.Add(time.Hour), Accuracy: &accuracy},
			}), ShouldBeNil)

			Convey("Then it is replaced, not duplicated", func() {
				list, err := h.Achievements(ctx, "p1")
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 2)
				So(list[0].Name, ShouldEqual, "500 Zulrah kills")
				So(list[1].CreatedAt, ShouldEqual, t0.Add(time.Hour))
			})
		})

		Convey("Then other players have none", func() {
			list, _ := h.Achievements(ctx, "p2")
			So(list, ShouldBeEmpty)
		})

		Convey("Then unnamed achievements are refused", func() {
			So(h.SaveAchievements(ctx, []achievement.Achievement{{PlayerID: "p1"}}), ShouldEqual, ErrInvalidEntry)
		})
	})
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	Convey("Given a chain of two histories", t, func() {
		fresh := NewMemoryHistory()
		archive := NewMemoryHistory()
		So(archive.SaveSnapshot(ctx, snapAt("p1", 1, 100)), ShouldBeNil)
		So(archive.SaveSnapshot(ctx, snapAt("p1", 2, 200)), ShouldBeNil)
		So(archive.SaveSnapshot(ctx, snapAt("p2", 1, 10)), ShouldBeNil)
		So(fresh.SaveSnapshot(ctx, snapAt("p1", 2, 222)), ShouldBeNil)
		So(fresh.SaveSnapshot(ctx, snapAt("p1", 3, 300)), ShouldBeNil)
		c := Chain{fresh, archive}

		Convey("Then Latest comes from the first source that has the player", func() {
			s, err := c.Latest(ctx, "p1")
			So(err, ShouldBeNil)
			So(s.Value(metric.Attack), ShouldEqual, 300)

			s, _ = c.Latest(ctx, "p2")
			So(s.Value(metric.Attack), ShouldEqual, 10)

			s, _ = c.Latest(ctx, "p3")
			So(s, ShouldBeNil)
		})

		Convey("Then History merges with the first source winning ties", func() {
			all, err := c.History(ctx, "p1", time.Time{}, time.Time{})
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 3)
			So(all[0].Value(metric.Attack), ShouldEqual, 100)
			So(all[1].Value(metric.Attack), ShouldEqual, 222)
			So(all[2].Value(metric.Attack), ShouldEqual, 300)
		})
	})
}
