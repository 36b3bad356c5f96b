// Package service runs the reconciliation pipeline: it validates candidate
// snapshots against history, persists the accepted ones and derives
// achievements and competition standings from them.
package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hiscores/internal/adapters/mq/queue"
	"github.com/okian/hiscores/internal/adapters/mq/worker"
	"github.com/okian/hiscores/internal/adapters/repository"
	"github.com/okian/hiscores/internal/domain/achievement"
	"github.com/okian/hiscores/internal/domain/dedupe"
	"github.com/okian/hiscores/internal/domain/delta"
	"github.com/okian/hiscores/internal/domain/efficiency"
	"github.com/okian/hiscores/internal/domain/model"
	"github.com/okian/hiscores/internal/domain/validation"
	"github.com/okian/hiscores/pkg/logger"
	"github.com/okian/hiscores/pkg/metrics"
)

const playerLockStripes = 64

// Service owns the pipeline and its asynchronous intake.
type Service struct {
	mu sync.RWMutex

	// Pipeline
	engine     *efficiency.Engine
	aggregator *delta.Aggregator
	validator  *validation.Validator
	evaluator  *achievement.Evaluator

	// Collaborators
	source   SnapshotSource
	sink     Sink
	notifier ReviewNotifier

	// Competitions
	competitions []model.Competition
	boards       map[string]*repository.TreapStore
	maxLimit     int

	// Intake
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	started     bool

	// Serializes reconciles of the same player.
	playerLocks [playerLockStripes]sync.Mutex

	// Last classification seen per player.
	playersMu sync.RWMutex
	players   map[string]model.Player

	accepted   atomic.Int64
	unchanged  atomic.Int64
	rejected   atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the intake queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the submission dedupe cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine replaces the efficiency engine; validation and deltas follow it.
func WithEngine(e *efficiency.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithEvaluator replaces the achievement evaluator.
func WithEvaluator(e *achievement.Evaluator) Option {
	return func(s *Service) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithSource sets where previous snapshots are read from. Defaults to the sink
// when it can also read.
func WithSource(src SnapshotSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithSink sets where accepted snapshots and achievements are written.
func WithSink(sink Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithNotifier sets the review notifier. The default logs each review.
func WithNotifier(n ReviewNotifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithCompetitions registers competitions whose standings are kept.
func WithCompetitions(list ...model.Competition) Option {
	return func(s *Service) {
		s.competitions = append(s.competitions, list...)
	}
}

// WithMaxStandingsLimit caps Standings queries.
func WithMaxStandingsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// New constructs a Service. Without WithSink/WithSource an in-memory history
// serves both.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  100_000,
		maxLimit:    100,
		players:     make(map[string]model.Player),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.engine == nil {
		s.engine = efficiency.NewEngine()
	}
	if s.evaluator == nil {
		s.evaluator = achievement.NewEvaluator()
	}
	s.aggregator = delta.NewAggregator(s.engine)
	s.validator = validation.NewValidator(s.engine)

	if s.sink == nil {
		s.sink = repository.NewMemoryHistory()
	}
	if s.source == nil {
		if src, ok := s.sink.(SnapshotSource); ok {
			s.source = src
		}
	}
	if s.notifier == nil {
		s.notifier = logNotifier{logger: s.logger.Named("review")}
	}

	s.boards = make(map[string]*repository.TreapStore, len(s.competitions))
	for _, c := range s.competitions {
		s.boards[c.ID] = repository.NewTreapStore(repository.WithName(c.ID))
	}
	return s
}

// Start initializes and starts the intake components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return fmt.Errorf("start: sink %T cannot read history and no source was set", s.sink)
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, worker.WithPoolLogger(s.logger.Named("workers")))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "reconciliation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("competitions", len(s.competitions)),
	)
	return nil
}

// Stop closes intake and waits for queued jobs to drain or ctx to expire.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping reconciliation service", logger.Int("queued", s.queue.Len()))
	err := s.pool.Shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "reconciliation service stopped")
	return err
}

// Submit queues a candidate for asynchronous reconciliation. A snapshot
// already submitted for the same player and time is dropped and reported as
// handled. It returns false when the queue refused the job.
func (s *Service) Submit(ctx context.Context, p model.Player, candidate model.Snapshot) bool { //nolint:gocritic // hugeParam: snapshots are values
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false
	}

	key := dedupe.Key(p.ID, candidate.CreatedAt)
	if s.deduper.SeenAndRecord(ctx, key) {
		s.duplicates.Add(1)
		metrics.RecordSnapshotDuplicate()
		s.logger.Debug(ctx, "duplicate snapshot skipped", logger.String("player", p.ID), logger.String("key", key))
		return true
	}

	if err := s.queue.Enqueue(ctx, queue.Job{Key: key, Player: p, Snapshot: candidate}); err != nil {
		s.deduper.Forget(ctx, key)
		s.logger.Warn(ctx, "snapshot not queued", logger.String("player", p.ID), logger.Error(err))
		return false
	}
	return true
}

// Process implements worker.Processor.
func (s *Service) Process(ctx context.Context, j queue.Job) error { //nolint:gocritic // hugeParam
	_, err := s.Reconcile(ctx, j.Player, j.Snapshot)
	if err != nil {
		s.failed.Add(1)
		// let a resubmission retry it
		s.deduper.Forget(ctx, j.Key)
	}
	return err
}

// Competitions returns the registered competitions ordered by start.
func (s *Service) Competitions() []model.Competition {
	out := append([]model.Competition(nil), s.competitions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Standings returns up to n entries of a competition; n is capped at the
// configured maximum.
func (s *Service) Standings(ctx context.Context, competitionID string, n int) ([]repository.Entry, error) {
	board, ok := s.boards[competitionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompetition, competitionID)
	}
	return board.TopN(ctx, min(n, s.maxLimit))
}

// Rank returns a participant's standing in a competition.
func (s *Service) Rank(ctx context.Context, competitionID, playerID string) (repository.Entry, error) {
	board, ok := s.boards[competitionID]
	if !ok {
		return repository.Entry{}, fmt.Errorf("%w: %s", ErrUnknownCompetition, competitionID)
	}
	return board.Rank(ctx, playerID)
}

// PlayerProgress is how far a player's latest snapshot is from its goals.
type PlayerProgress struct {
	Player       model.Player           `json:"player"`
	SnapshotAt   time.Time              `json:"snapshot_at"`
	EHP          float64                `json:"ehp"`
	EHB          float64                `json:"ehb"`
	TimeToMax    float64                `json:"time_to_max"`
	TimeTo200m   float64                `json:"time_to_200m"`
	Achievements []achievement.Progress `json:"achievements"`
}

// Progress reports achievement progress and efficient hours left from the
// player's latest snapshot. Players never reconciled by this service are
// treated as of unknown type.
func (s *Service) Progress(ctx context.Context, playerID string) (PlayerProgress, error) {
	latest, err := s.source.Latest(ctx, playerID)
	if err != nil {
		return PlayerProgress{}, fmt.Errorf("latest snapshot: %w", err)
	}
	if latest == nil {
		return PlayerProgress{}, fmt.Errorf("%w: player %s", repository.ErrNotFound, playerID)
	}

	p, ok := s.player(playerID)
	if !ok {
		p = model.Player{ID: playerID, Type: model.AccountUnknown}
	}
	if p.Build == "" {
		p.Build = model.InferBuild(*latest)
	}
	r := s.engine.ComputeFor(*latest, p)
	return PlayerProgress{
		Player:       p,
		SnapshotAt:   latest.CreatedAt,
		EHP:          r.EHP,
		EHB:          r.EHB,
		TimeToMax:    model.Round(s.engine.TimeToMax(*latest, p)),
		TimeTo200m:   model.Round(s.engine.TimeTo200m(*latest, p)),
		Achievements: s.evaluator.Progress(*latest),
	}, nil
}

func (s *Service) remember(p model.Player) {
	s.playersMu.Lock()
	s.players[p.ID] = p
	s.playersMu.Unlock()
}

func (s *Service) player(id string) (model.Player, bool) {
	s.playersMu.RLock()
	defer s.playersMu.RUnlock()
	p, ok := s.players[id]
	return p, ok
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	participants := make(map[string]int, len(s.boards))
	for id, b := range s.boards {
		participants[id] = b.Count(ctx)
	}
	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"accepted":     s.accepted.Load(),
		"unchanged":    s.unchanged.Load(),
		"rejected":     s.rejected.Load(),
		"duplicates":   s.duplicates.Load(),
		"failed":       s.failed.Load(),
		"competitions": participants,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateQueueSize(s.queue.Len())
	}
	return stats
}

func (s *Service) lockPlayer(playerID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))
	m := &s.playerLocks[h.Sum32()%playerLockStripes]
	m.Lock()
	return m.Unlock
}
