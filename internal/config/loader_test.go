package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/hiscores/internal/config"
	"github.com/okian/hiscores/internal/domain/efficiency"
	"github.com/okian/hiscores/internal/domain/metric"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.Competitions, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TRACKER_ADDR", ":8080")
			_ = os.Setenv("TRACKER_QUEUE_SIZE", "500")
			_ = os.Setenv("TRACKER_WORKER_COUNT", "16")
			_ = os.Setenv("TRACKER_INPUT_PATH", "/data/feed.jsonl")
			_ = os.Setenv("TRACKER_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.InputPath, convey.ShouldEqual, "/data/feed.jsonl")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with a YAML file and env on top", func() {
			yamlContent := `
addr: ":9090"
worker_count: 24
rates_path: "rates.yaml"
competitions:
  - id: sotw
    title: "Skill of the week"
    metrics: [woodcutting]
    start: "2024-03-01T00:00:00Z"
    end: "2024-03-08T00:00:00Z"
`
			tmpFile := createTempFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRACKER_CONFIG", tmpFile)
			_ = os.Setenv("TRACKER_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values merge with defaults and env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.RatesPath, convey.ShouldEqual, "rates.yaml")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 100_000)
				convey.So(cfg.Competitions, convey.ShouldHaveLength, 1)
				convey.So(cfg.Competitions[0].Title, convey.ShouldEqual, "Skill of the week")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRACKER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TRACKER_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TRACKER_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with zero workers", func() {
			_ = os.Setenv("TRACKER_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestLoadRates(t *testing.T) {
	convey.Convey("Given a rates file", t, func() {
		ctx := context.Background()

		convey.Convey("When the path is empty", func() {
			rc, err := config.LoadRates(ctx, "")
			convey.So(err, convey.ShouldBeNil)
			convey.So(rc.Variants, convey.ShouldBeEmpty)
		})

		convey.Convey("When it overrides a boss rate", func() {
			tmpFile := createTempFile(`
variants:
  main:
    bosses:
      zulrah: 50
    skills:
      agility:
        - start_exp: 0
          rate: 60000
          description: "rooftops"
`)
			defer func() { _ = os.Remove(tmpFile) }()

			rc, err := config.LoadRates(ctx, tmpFile)

			convey.Convey("Then the overrides apply to the default tables", func() {
				convey.So(err, convey.ShouldBeNil)
				algos, err := rc.Algorithms(efficiency.DefaultAlgorithms())
				convey.So(err, convey.ShouldBeNil)
				convey.So(algos[efficiency.VariantMain].BossRate(metric.Zulrah), convey.ShouldEqual, 50)
				convey.So(algos[efficiency.VariantMain].Methods(metric.Agility)[0].Description, convey.ShouldEqual, "rooftops")
			})
		})

		convey.Convey("When the file is missing", func() {
			_, err := config.LoadRates(ctx, "/non/existent/rates.yaml")
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TRACKER_CONFIG",
		"TRACKER_ADDR",
		"TRACKER_QUEUE_SIZE",
		"TRACKER_WORKER_COUNT",
		"TRACKER_INPUT_PATH",
		"TRACKER_LOG_FORMAT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(content string) string {
	tmpFile, err := os.CreateTemp("", "tracker-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
