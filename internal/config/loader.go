package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/hiscores/internal/domain/efficiency"
)

const (
	envPrefix  = "TRACKER_"
	envConfig  = "TRACKER_CONFIG"
	keyDivider = "."
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TRACKER_CONFIG is set
//  3. env (prefix TRACKER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(keyDivider)

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TRACKER_QUEUE_SIZE -> queue_size; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(envPrefix, keyDivider, func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// the file path itself is not a config key
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadRates reads rate table overrides from a YAML file. An empty path yields
// an empty override set.
func LoadRates(_ context.Context, path string) (efficiency.Config, error) {
	var rc efficiency.Config
	if path == "" {
		return rc, nil
	}
	k := koanf.New(keyDivider)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return rc, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	if err := k.UnmarshalWithConf("", &rc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return rc, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	return rc, nil
}
