// Package scheduler runs many independent randomized optimizer trials over a
// shared read-only graph and keeps the best one.
//
// Trials run sequentially, with an early-stop policy consulted after each
// one, or on a bounded worker pool. Selection uses a strict greater-than
// comparison in run-index order, so the winning score does not depend on how
// parallel trials interleave.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/logging"
	"github.com/dd0wney/cluso-coreperiphery/pkg/metrics"
	"github.com/dd0wney/cluso-coreperiphery/pkg/parallel"
)

var (
	// ErrAllTrialsFailed is returned when no trial produced a usable result.
	ErrAllTrialsFailed = errors.New("scheduler: all trials failed")

	// ErrStopped is returned when Stop was called before any trial finished.
	ErrStopped = errors.New("scheduler: stopped before any trial completed")

	// ErrTrialPanic wraps a value recovered from a panicking trial.
	ErrTrialPanic = errors.New("scheduler: trial panicked")

	// ErrNonFiniteScore marks a trial whose quality was NaN or infinite.
	ErrNonFiniteScore = errors.New("scheduler: non-finite trial score")
)

// Solution is the product of one trial.
type Solution interface {
	Quality() float64
}

// Trial runs one randomized optimization. It must only read g and must derive
// all randomness from seed.
type Trial func(ctx context.Context, runIndex int, seed uint64) (Solution, error)

// Config is passed explicitly to New; there are no package-level defaults.
type Config struct {
	// Runs is the requested number of trials.
	Runs int `yaml:"runs" validate:"min=1"`
	// PinRuns disables run-count reduction.
	PinRuns bool `yaml:"pin_runs"`
	// Workers bounds parallel trials; 0 means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"min=0"`
	// Parallel enables the worker pool when more than one trial is planned.
	Parallel bool `yaml:"parallel"`
	// RandomSeed is the base of the per-trial seed sequence.
	RandomSeed uint64 `yaml:"random_seed"`
	// MinParallelNodes is the smallest graph worth running in parallel.
	MinParallelNodes int `yaml:"min_parallel_nodes" validate:"min=0"`
}

// DefaultConfig returns the scheduler settings used by detectors.
func DefaultConfig() Config {
	return Config{
		Runs:             10,
		Parallel:         true,
		MinParallelNodes: 2,
	}
}

// RunResult is one successful trial.
type RunResult struct {
	Score    float64
	Solution Solution
	RunIndex int
	Seed     uint64
	Duration time.Duration
}

// Outcome summarizes a scheduler run.
type Outcome struct {
	Best RunResult
	// ScoreHistory holds successful trial scores in run-index order.
	ScoreHistory  []float64
	RunsRequested int
	RunsPlanned   int
	// RunsCompleted counts trials that ran, failed ones included.
	RunsCompleted int
	EarlyStops    int
	Failures      int
	Reduced       bool
	Parallel      bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Scheduler) { s.logger = logging.OrNop(l) }
}

// WithMetrics records trials into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Scheduler) { s.metrics = r }
}

// WithRunCountPolicy replaces the adaptive run-count reduction.
func WithRunCountPolicy(p RunCountPolicy) Option {
	return func(s *Scheduler) {
		if p != nil {
			s.runCount = p
		}
	}
}

// WithStopPolicy replaces the relative-improvement early stop.
func WithStopPolicy(p StopPolicy) Option {
	return func(s *Scheduler) {
		if p != nil {
			s.stopPolicy = p
		}
	}
}

// Scheduler dispatches trials. Run may be called concurrently; each call
// gets its own stop token, and Stop may be called from any goroutine.
type Scheduler struct {
	cfg        Config
	runCount   RunCountPolicy
	stopPolicy StopPolicy
	logger     logging.Logger
	metrics    *metrics.Registry

	mu      sync.Mutex
	active  map[*atomic.Bool]struct{}
	pending bool
}

// New creates a scheduler with adaptive run counts and relative-improvement
// early stopping unless options override them.
func New(cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:        cfg,
		runCount:   DefaultAdaptiveRunCount(),
		stopPolicy: DefaultRelativeImprovementStop(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the scheduler's configuration.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Stop asks every run in progress to issue no further trials. Trials already
// running finish normally. With no run in progress, the next Run is stopped
// before its first trial.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.active) == 0 {
		s.pending = true
		return
	}
	for stop := range s.active {
		stop.Store(true)
	}
}

// begin registers a run and returns its stop token.
func (s *Scheduler) begin() *atomic.Bool {
	stop := new(atomic.Bool)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		stop.Store(true)
		s.pending = false
	}
	if s.active == nil {
		s.active = make(map[*atomic.Bool]struct{})
	}
	s.active[stop] = struct{}{}
	return stop
}

func (s *Scheduler) end(stop *atomic.Bool) {
	s.mu.Lock()
	delete(s.active, stop)
	s.mu.Unlock()
}

// SeedFor derives the seed of trial i from base (splitmix64).
func SeedFor(base uint64, i int) uint64 {
	z := base + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// trialOutcome is the record of one dispatched trial.
type trialOutcome struct {
	ran    bool
	result RunResult
	err    error
}

// Run executes the planned trials for g and returns the best one. name labels
// logs and metrics.
func (s *Scheduler) Run(ctx context.Context, name string, g *graph.SparseGraph, trial Trial) (*Outcome, error) {
	stop := s.begin()
	defer s.end(stop)

	nodes := g.NodeCount()
	logger := s.logger.With(logging.Algorithm(name), logging.NodeCount(nodes))

	requested := max(1, s.cfg.Runs)
	planned := s.runCount.Plan(requested, nodes, s.cfg.PinRuns)
	out := &Outcome{
		RunsRequested: requested,
		RunsPlanned:   planned,
		Reduced:       planned < requested,
	}
	if out.Reduced {
		logger.Info("reduced run count for graph size",
			logging.Int("requested", requested),
			logging.Int("planned", planned))
	}

	var trials []trialOutcome
	if s.parallelFor(g, planned) {
		out.Parallel = true
		trials = s.runParallel(ctx, stop, name, trial, planned, logger)
	} else {
		trials = s.runSequential(ctx, stop, name, trial, planned, out, logger)
	}

	found := false
	for _, t := range trials {
		if !t.ran {
			continue
		}
		out.RunsCompleted++
		if t.err != nil {
			out.Failures++
			continue
		}
		out.ScoreHistory = append(out.ScoreHistory, t.result.Score)
		if !found || t.result.Score > out.Best.Score {
			out.Best = t.result
			found = true
		}
	}

	if !found {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("scheduler: %s: %w", name, err)
		}
		if out.RunsCompleted == 0 {
			return out, ErrStopped
		}
		return out, fmt.Errorf("%w: %s: %d of %d", ErrAllTrialsFailed, name, out.Failures, out.RunsCompleted)
	}

	s.metrics.RecordRunOutcome(name, out.Best.Score, out.EarlyStops > 0, out.Reduced)
	logger.Debug("run complete",
		logging.Score(out.Best.Score),
		logging.RunIndex(out.Best.RunIndex),
		logging.Int("completed", out.RunsCompleted),
		logging.Int("failures", out.Failures))
	return out, nil
}

func (s *Scheduler) parallelFor(g *graph.SparseGraph, planned int) bool {
	return s.cfg.Parallel && planned > 1 && !g.IsDegenerate() && g.NodeCount() >= s.cfg.MinParallelNodes
}

func halted(ctx context.Context, stop *atomic.Bool) bool {
	return stop.Load() || ctx.Err() != nil
}

func (s *Scheduler) runSequential(ctx context.Context, stop *atomic.Bool, name string, trial Trial, planned int, out *Outcome, logger logging.Logger) []trialOutcome {
	trials := make([]trialOutcome, 0, planned)
	var history []float64

	for i := 0; i < planned; i++ {
		if halted(ctx, stop) {
			break
		}
		var t trialOutcome
		start := time.Now()
		parallel.Protect(i, func() {
			t = s.execute(ctx, name, trial, i, logger)
		}, func(i int, r any) {
			t = s.panicked(name, i, r, time.Since(start), logger)
		})
		trials = append(trials, t)
		if t.err != nil {
			continue
		}

		history = append(history, t.result.Score)
		if i < planned-1 && s.stopPolicy.ShouldStop(history) {
			out.EarlyStops++
			logger.Debug("early stop",
				logging.RunIndex(i),
				logging.Score(t.result.Score),
				logging.Int("remaining", planned-1-i))
			break
		}
	}
	return trials
}

// runParallel dispatches trial i as pool task i; a panicking trial is
// reported by the pool's handler and recorded as a failure of that trial.
func (s *Scheduler) runParallel(ctx context.Context, stop *atomic.Bool, name string, trial Trial, planned int, logger logging.Logger) []trialOutcome {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, planned)

	trials := make([]trialOutcome, planned)
	started := make([]time.Time, planned)
	pool, err := parallel.NewWorkerPool(workers, parallel.WithPanicHandler(func(i int, r any) {
		trials[i] = s.panicked(name, i, r, time.Since(started[i]), logger)
	}))
	if err != nil {
		logger.Warn("worker pool unavailable, running sequentially", logging.Error(err))
		return s.runSequential(ctx, stop, name, trial, planned, &Outcome{}, logger)
	}

	for i := 0; i < planned; i++ {
		pool.Submit(i, func() {
			if halted(ctx, stop) {
				return
			}
			started[i] = time.Now()
			trials[i] = s.execute(ctx, name, trial, i, logger)
		})
	}
	pool.Wait()
	return trials
}

// execute runs one trial, turning errors and non-finite scores into an
// isolated failure. Panics propagate to the caller's parallel.Protect.
func (s *Scheduler) execute(ctx context.Context, name string, trial Trial, i int, logger logging.Logger) trialOutcome {
	seed := SeedFor(s.cfg.RandomSeed, i)
	start := time.Now()
	t := trialOutcome{ran: true}

	sol, err := trial(ctx, i, seed)
	switch {
	case err != nil:
		t.err = err
	case sol == nil:
		t.err = fmt.Errorf("scheduler: trial %d returned no solution", i)
	default:
		score := sol.Quality()
		if math.IsNaN(score) || math.IsInf(score, 0) {
			t.err = fmt.Errorf("%w: %v", ErrNonFiniteScore, score)
			break
		}
		t.result = RunResult{Score: score, Solution: sol, RunIndex: i, Seed: seed}
	}
	s.settle(name, &t, i, seed, time.Since(start), logger)
	return t
}

// panicked records a trial that panicked as a failed trial.
func (s *Scheduler) panicked(name string, i int, r any, elapsed time.Duration, logger logging.Logger) trialOutcome {
	t := trialOutcome{ran: true, err: fmt.Errorf("%w: %v", ErrTrialPanic, r)}
	s.settle(name, &t, i, SeedFor(s.cfg.RandomSeed, i), elapsed, logger)
	return t
}

// settle logs a failed trial and records the trial metric.
func (s *Scheduler) settle(name string, t *trialOutcome, i int, seed uint64, elapsed time.Duration, logger logging.Logger) {
	if t.err != nil {
		logger.Warn("trial failed",
			logging.RunIndex(i),
			logging.Seed(seed),
			logging.Error(t.err))
		s.metrics.RecordTrial(name, metrics.StatusError, elapsed)
		return
	}
	t.result.Duration = elapsed
	s.metrics.RecordTrial(name, metrics.StatusOK, elapsed)
}
