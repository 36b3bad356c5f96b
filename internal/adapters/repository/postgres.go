package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq" // postgres driver

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
	"github.com/okian/hiscores/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const snapshotColumns = `id, player_id, created_at, overall_level, data`

// snapshotRow mirrors the snapshots table. data holds a JSON object of
// metric key -> {"value", "rank"}.
type snapshotRow struct {
	ID           string    `db:"id"`
	PlayerID     string    `db:"player_id"`
	CreatedAt    time.Time `db:"created_at"`
	OverallLevel int       `db:"overall_level"`
	Data         []byte    `db:"data"`
}

func (r snapshotRow) snapshot() (model.Snapshot, error) { //nolint:gocritic // hugeParam
	var raw map[string]model.Stat
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &raw); err != nil {
			return model.Snapshot{}, fmt.Errorf("decode snapshot %s data: %w", r.ID, err)
		}
	}
	stats := make(map[metric.Metric]model.Stat, len(raw))
	for key, st := range raw {
		m, err := metric.Parse(key)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("snapshot %s: %w", r.ID, err)
		}
		stats[m] = st
	}
	s := model.NewSnapshot(r.PlayerID, r.CreatedAt.UTC(), stats).WithID(r.ID)
	s.OverallLevel = r.OverallLevel
	return s, nil
}

// PostgresSource reads snapshot history from an existing tracker database.
// It never writes.
type PostgresSource struct {
	db *sqlx.DB
}

// NewPostgresSource wraps an open database.
func NewPostgresSource(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgres connects with the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSource, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewPostgresSource(db), nil
}

// Close closes the underlying pool.
func (p *PostgresSource) Close() error {
	return p.db.Close()
}

// Latest returns the player's newest snapshot, nil when there is none.
func (p *PostgresSource) Latest(ctx context.Context, playerID string) (*model.Snapshot, error) {
	defer observe(time.Now())

	const query = `SELECT ` + snapshotColumns + ` FROM snapshots WHERE player_id = $1 ORDER BY created_at DESC LIMIT 1`
	var row snapshotRow
	if err := p.db.GetContext(ctx, &row, query, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		metrics.RecordErrorByComponent("repository", "postgres")
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	s, err := row.snapshot()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// History returns the player's snapshots inside [from, to], oldest first.
// A zero bound is open.
func (p *PostgresSource) History(ctx context.Context, playerID string, from, to time.Time) ([]model.Snapshot, error) {
	defer observe(time.Now())

	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + snapshotColumns + ` FROM snapshots WHERE player_id = $1`)
	args := []interface{}{playerID}
	if !from.IsZero() {
		args = append(args, from)
		fmt.Fprintf(&builder, " AND created_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		fmt.Fprintf(&builder, " AND created_at <= $%d", len(args))
	}
	builder.WriteString(" ORDER BY created_at ASC")

	var rows []snapshotRow
	if err := p.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		metrics.RecordErrorByComponent("repository", "postgres")
		return nil, fmt.Errorf("snapshot history: %w", err)
	}
	out := make([]model.Snapshot, 0, len(rows))
	for _, r := range rows {
		s, err := r.snapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func observe(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
}
