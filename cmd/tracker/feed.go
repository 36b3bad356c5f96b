package main

import (
	"context"
	"io"
	"strings"

	"github.com/dimchansky/utfbom"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/okian/hiscores/internal/domain/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// record is one line of the snapshot feed.
type record struct {
	Player   model.Player   `json:"player"`
	Snapshot model.Snapshot `json:"snapshot"`
}

func (r *record) validate() error {
	switch {
	case strings.TrimSpace(r.Player.ID) == "":
		return errors.New("missing player.id")
	case r.Snapshot.CreatedAt.IsZero():
		return errors.New("missing snapshot.created_at")
	case r.Player.Type != "" && !r.Player.Type.Valid():
		return errors.Errorf("unknown account type %q", r.Player.Type)
	}
	return nil
}

// readFeed decodes JSON records from r in order and hands each to fn. A
// leading byte order mark is skipped. It stops at the first malformed record
// or the first error fn returns.
func readFeed(ctx context.Context, r io.Reader, fn func(n int, rec record) error) (int, error) {
	dec := json.NewDecoder(utfbom.SkipOnly(r))
	n := 0
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return n, errors.WithStack(err)
		}
		var rec record
		if err := dec.Decode(&rec); err != nil {
			return n, errors.Wrapf(err, "record %d", n+1)
		}
		if err := rec.validate(); err != nil {
			return n, errors.Wrapf(err, "record %d", n+1)
		}
		rec.Snapshot.PlayerID = rec.Player.ID
		n++
		if err := fn(n, rec); err != nil {
			return n, errors.Wrapf(err, "record %d", n)
		}
	}
	return n, nil
}
