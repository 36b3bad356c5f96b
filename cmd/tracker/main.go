// Command tracker replays a JSON-lines snapshot feed through the
// reconciliation pipeline and serves its operational endpoints meanwhile.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/hiscores/internal/adapters/http/api"
	"github.com/okian/hiscores/internal/adapters/repository"
	service "github.com/okian/hiscores/internal/app"
	"github.com/okian/hiscores/internal/config"
	"github.com/okian/hiscores/internal/domain/efficiency"
	"github.com/okian/hiscores/pkg/logger"
	"github.com/okian/hiscores/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
	submitRetryInterval    = 10 * time.Millisecond
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		// logger may not be initialized yet
		os.Stderr.WriteString("tracker: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(format), logger.WithLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logger.Named("tracker")

	engine, err := newEngine(ctx, cfg.RatesPath)
	if err != nil {
		return err
	}
	competitions, err := cfg.ParseCompetitions()
	if err != nil {
		return err
	}

	history := repository.NewMemoryHistory()
	var source service.SnapshotSource = history
	if cfg.DatabaseDSN != "" {
		pg, err := repository.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer func() {
			if err := pg.Close(); err != nil {
				log.Warn(ctx, "closing postgres", logger.Error(err))
			}
		}()
		// snapshots accepted in this run shadow the archive
		source = repository.Chain{history, pg}
		log.Info(ctx, "reading history from postgres")
	}

	svc := service.New(
		service.WithLogger(logger.Named("service")),
		service.WithEngine(engine),
		service.WithSink(history),
		service.WithSource(source),
		service.WithCompetitions(competitions...),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithMaxStandingsLimit(cfg.MaxStandingsLimit),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	go startServiceMetricsUpdater(ctx, svc)

	var srv *http.Server
	if cfg.Addr != "" {
		srv = startHTTPServer(ctx, cfg, svc, log)
	}

	if cfg.InputPath != "" {
		n, err := replay(ctx, cfg.InputPath, svc)
		if err != nil {
			log.Error(ctx, "feed replay stopped", logger.Int("submitted", n), logger.Error(err))
		} else {
			log.Info(ctx, "feed replayed", logger.Int("submitted", n), logger.String("path", cfg.InputPath))
		}
	} else {
		log.Info(ctx, "no input_path configured; serving until interrupted")
		<-ctx.Done()
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service did not drain", logger.Error(err))
	}
	logStandings(shutdownCtx, svc, cfg.MaxStandingsLimit, log)

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
		}
	}
	log.Info(ctx, "tracker stopped", logger.Any("stats", svc.GetStats()))
	return nil
}

// newEngine builds the efficiency engine with rate overrides from path applied.
func newEngine(ctx context.Context, path string) (*efficiency.Engine, error) {
	rates, err := config.LoadRates(ctx, path)
	if err != nil {
		return nil, err
	}
	algorithms, err := rates.Algorithms(efficiency.DefaultAlgorithms())
	if err != nil {
		return nil, fmt.Errorf("rates %s: %w", path, err)
	}
	return efficiency.NewEngine(efficiency.WithAlgorithms(algorithms)), nil
}

// replay submits every record of the feed at path, waiting out backpressure.
func replay(ctx context.Context, path string, svc *service.Service) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	return readFeed(ctx, f, func(_ int, rec record) error {
		for !svc.Submit(ctx, rec.Player, rec.Snapshot) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(submitRetryInterval):
			}
		}
		return nil
	})
}

func startHTTPServer(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, api.WithMaxLimit(cfg.MaxStandingsLimit)).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()
	return srv
}

func logStandings(ctx context.Context, svc *service.Service, limit int, log logger.Logger) {
	for _, c := range svc.Competitions() {
		entries, err := svc.Standings(ctx, c.ID, limit)
		if err != nil {
			log.Error(ctx, "reading standings", logger.String("competition", c.ID), logger.Error(err))
			continue
		}
		for _, e := range entries {
			log.Info(ctx, "standing",
				logger.String("competition", c.ID),
				logger.Int("rank", e.Rank),
				logger.String("player", e.PlayerID),
				logger.Float64("gained", e.Gained),
			)
		}
	}
}

// startServiceMetricsUpdater refreshes queue gauges from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if participants, ok := stats["competitions"].(map[string]int); ok {
		for id, n := range participants {
			metrics.UpdateStandingsParticipants(id, n)
		}
	}
}
