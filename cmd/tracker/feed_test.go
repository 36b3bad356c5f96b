package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const feed = `{"player":{"id":"p1","username":"woox","type":"regular"},"snapshot":{"created_at":"2024-03-01T12:00:00Z","data":{"attack":{"value":13034431,"rank":5}}}}
{"player":{"id":"p2","username":"lynx titan","type":"ironman"},"snapshot":{"created_at":"2024-03-01T13:00:00Z","data":{"zulrah":{"value":600,"rank":40}}}}
`

func collect(input string) ([]record, int, error) {
	var got []record
	n, err := readFeed(context.Background(), strings.NewReader(input), func(_ int, rec record) error {
		got = append(got, rec)
		return nil
	})
	return got, n, err
}

func TestReadFeed(t *testing.T) {
	Convey("Given a JSON-lines feed", t, func() {
		got, n, err := collect(feed)

		Convey("Then every record is decoded in order", func() {
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(got[0].Player.ID, ShouldEqual, "p1")
			So(got[0].Snapshot.PlayerID, ShouldEqual, "p1")
			So(got[0].Snapshot.Value(metric.Attack), ShouldEqual, 13034431)
			So(got[1].Snapshot.CreatedAt.Equal(time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(got[1].Snapshot.Value(metric.Zulrah), ShouldEqual, 600)
		})
	})

	Convey("Given a feed saved with a byte order mark", t, func() {
		got, n, err := collect("\xef\xbb\xbf" + feed)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 2)
		So(got[0].Player.Username, ShouldEqual, "woox")
	})

	Convey("Given an empty feed", t, func() {
		_, n, err := collect("")
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 0)
	})

	Convey("Given a malformed second record", t, func() {
		lines := strings.SplitAfter(feed, "\n")
		_, n, err := collect(lines[0] + "{\"player\":")

		Convey("Then records before it were handed over", func() {
			So(n, ShouldEqual, 1)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "record 2")
		})
	})

	Convey("Given a record without a player", t, func() {
		_, _, err := collect(`{"snapshot":{"created_at":"2024-03-01T12:00:00Z","data":{}}}`)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "missing player.id")
	})

	Convey("Given a record with an unknown account type", t, func() {
		_, _, err := collect(strings.Replace(feed, `"regular"`, `"wizard"`, 1))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "unknown account type")
	})

	Convey("Given a record whose account type is not yet resolved", t, func() {
		got, n, err := collect(strings.Replace(feed, `"regular"`, `"unknown"`, 1))
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 2)
		So(got[0].Player.Type, ShouldEqual, model.AccountUnknown)
	})

	Convey("Given a handler that fails", t, func() {
		boom := errors.New("boom")
		n, err := readFeed(context.Background(), strings.NewReader(feed), func(int, record) error { return boom })
		So(n, ShouldEqual, 1)
		So(errors.Is(err, boom), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n, err := readFeed(ctx, strings.NewReader(feed), func(int, record) error { return nil })
		So(n, ShouldEqual, 0)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}
