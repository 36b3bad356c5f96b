// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/okian/hiscores/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the ops HTTP listen address; empty disables it.
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory reconcile queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of reconcile workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission dedupe cache.
	DedupeSize int `koanf:"dedupe_size"`

	// InputPath is the JSON-lines snapshot feed replayed by the tracker.
	InputPath string `koanf:"input_path"`

	// DatabaseDSN enables the read-only Postgres snapshot source.
	DatabaseDSN string `koanf:"database_dsn"`

	// RatesPath points at a YAML file overriding efficiency rate tables.
	RatesPath string `koanf:"rates_path"`

	// MaxStandingsLimit caps standings queries.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// Competitions are tracked while replaying the feed.
	Competitions []CompetitionConfig `koanf:"competitions"`
}

// CompetitionConfig is the file form of a competition.
type CompetitionConfig struct {
	ID      string   `koanf:"id"`
	Title   string   `koanf:"title"`
	Metrics []string `koanf:"metrics"`
	Start   string   `koanf:"start"`
	End     string   `koanf:"end"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        100_000,
		MaxStandingsLimit: 100,
	}
}

// Validate checks ranges that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	switch {
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.MaxStandingsLimit <= 0:
		return fmt.Errorf("%w: max_standings_limit must be positive", ErrInvalidConfig)
	}
	if _, err := c.ParseCompetitions(); err != nil {
		return err
	}
	return nil
}

// ParseCompetitions resolves metric keys and RFC 3339 bounds.
func (c *Config) ParseCompetitions() ([]model.Competition, error) {
	out := make([]model.Competition, 0, len(c.Competitions))
	seen := make(map[string]bool, len(c.Competitions))
	for _, cc := range c.Competitions {
		if cc.ID == "" {
			return nil, fmt.Errorf("%w: competition without id", ErrInvalidConfig)
		}
		if seen[cc.ID] {
			return nil, fmt.Errorf("%w: duplicate competition %q", ErrInvalidConfig, cc.ID)
		}
		seen[cc.ID] = true

		if len(cc.Metrics) == 0 {
			return nil, fmt.Errorf("%w: competition %q has no metrics", ErrInvalidConfig, cc.ID)
		}
		metrics := make([]metric.Metric, 0, len(cc.Metrics))
		for _, key := range cc.Metrics {
			m, err := metric.Parse(key)
			if err != nil {
				return nil, fmt.Errorf("%w: competition %q: %w", ErrInvalidConfig, cc.ID, err)
			}
			metrics = append(metrics, m)
		}

		start, err := time.Parse(time.RFC3339, cc.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: competition %q start: %w", ErrInvalidConfig, cc.ID, err)
		}
		end, err := time.Parse(time.RFC3339, cc.End)
		if err != nil {
			return nil, fmt.Errorf("%w: competition %q end: %w", ErrInvalidConfig, cc.ID, err)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("%w: competition %q ends before it starts", ErrInvalidConfig, cc.ID)
		}

		title := cc.Title
		if title == "" {
			title = cc.ID
		}
		out = append(out, model.Competition{ID: cc.ID, Title: title, Metrics: metrics, Start: start.UTC(), End: end.UTC()})
	}
	return out, nil
}
