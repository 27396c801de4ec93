// Package detector finds core-periphery structure in a graph with either the
// discrete BE search or the continuous Rombach search, run as many seeded
// trials through the scheduler.
package detector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-coreperiphery/pkg/config"
	"github.com/dd0wney/cluso-coreperiphery/pkg/continuous"
	"github.com/dd0wney/cluso-coreperiphery/pkg/coreness"
	"github.com/dd0wney/cluso-coreperiphery/pkg/discrete"
	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/logging"
	"github.com/dd0wney/cluso-coreperiphery/pkg/metrics"
	"github.com/dd0wney/cluso-coreperiphery/pkg/quality"
	"github.com/dd0wney/cluso-coreperiphery/pkg/scheduler"
)

// CoreDetector is implemented by every detection strategy.
type CoreDetector interface {
	Detect(ctx context.Context, g *graph.SparseGraph) (*Result, error)
	Score(g *graph.SparseGraph, r *Result) float64
}

// Kind selects the search.
type Kind int

const (
	Discrete Kind = iota
	Continuous
)

// String returns the algorithm name used in results, logs and metrics.
func (k Kind) String() string {
	switch k {
	case Discrete:
		return config.AlgorithmBE
	case Continuous:
		return config.AlgorithmRombach
	default:
		return "unknown"
	}
}

// Detector is the tagged variant over the two searches. Only the options of
// its Kind are used.
type Detector struct {
	kind       Kind
	discrete   discrete.Options
	continuous continuous.Options
	deriver    coreness.Deriver

	sched     *scheduler.Scheduler
	schedCfg  scheduler.Config
	schedOpts []scheduler.Option
	logger    logging.Logger
	metrics   *metrics.Registry
}

var _ CoreDetector = (*Detector)(nil)

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger for the detector and its scheduler.
func WithLogger(l logging.Logger) Option {
	return func(d *Detector) { d.logger = logging.OrNop(l) }
}

// WithMetrics records detections and trials into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(d *Detector) { d.metrics = r }
}

// WithScheduler replaces the default scheduler configuration.
func WithScheduler(cfg scheduler.Config, opts ...scheduler.Option) Option {
	return func(d *Detector) {
		d.schedCfg = cfg
		d.schedOpts = append(d.schedOpts, opts...)
	}
}

// WithDeriver replaces the coreness derivation used by the discrete search.
func WithDeriver(dv coreness.Deriver) Option {
	return func(d *Detector) { d.deriver = dv }
}

// NewDiscrete returns a BE detector.
func NewDiscrete(opts discrete.Options, options ...Option) *Detector {
	return newDetector(Discrete, opts, continuous.DefaultOptions(), options)
}

// NewContinuous returns a Rombach detector.
func NewContinuous(opts continuous.Options, options ...Option) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return newDetector(Continuous, discrete.DefaultOptions(), opts, options), nil
}

// FromConfig builds the detector named by cfg.Algorithm. Options are applied
// after the configuration.
func FromConfig(cfg *config.Config, options ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	copts, err := cfg.ContinuousOptions()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithScheduler(cfg.Scheduler, cfg.SchedulerOptions()...),
		WithDeriver(cfg.Coreness),
	}
	options = append(base, options...)

	switch cfg.Algorithm {
	case config.AlgorithmBE:
		return newDetector(Discrete, cfg.Discrete, copts, options), nil
	case config.AlgorithmRombach:
		return newDetector(Continuous, cfg.Discrete, copts, options), nil
	default:
		return nil, fmt.Errorf("detector: unknown algorithm %q", cfg.Algorithm)
	}
}

func newDetector(kind Kind, dopts discrete.Options, copts continuous.Options, options []Option) *Detector {
	d := &Detector{
		kind:       kind,
		discrete:   dopts,
		continuous: copts,
		deriver:    coreness.DefaultDeriver(),
		schedCfg:   scheduler.DefaultConfig(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range options {
		opt(d)
	}

	schedOpts := append([]scheduler.Option{
		scheduler.WithLogger(d.logger.With(logging.Component("scheduler"))),
		scheduler.WithMetrics(d.metrics),
	}, d.schedOpts...)
	d.sched = scheduler.New(d.schedCfg, schedOpts...)
	return d
}

// Kind reports which search the detector runs.
func (d *Detector) Kind() Kind {
	return d.kind
}

// Stop asks in-flight detections to issue no further trials.
func (d *Detector) Stop() {
	d.sched.Stop()
}

// Detect runs the configured search on g. Degenerate graphs, and for the
// discrete search graphs on which no partition has a valid score, yield an
// all-periphery result with zero coreness and score. The error is non-nil
// only when every trial failed or ctx ended before any trial finished.
func (d *Detector) Detect(ctx context.Context, g *graph.SparseGraph) (*Result, error) {
	algorithm := d.kind.String()
	res := &Result{
		RequestID: uuid.New(),
		Algorithm: algorithm,
	}
	logger := d.logger.With(
		logging.Component("detector"),
		logging.RequestID(res.RequestID.String()),
		logging.Algorithm(algorithm),
		logging.NodeCount(g.NodeCount()),
		logging.EdgeCount(g.EdgeCount()),
	)
	timer := logging.StartTimer(logger, "detect")
	start := time.Now()

	if g.IsDegenerate() || (d.kind == Discrete && !quality.HasValidPartition(g)) {
		d.fill(g, res, make([]uint8, g.NodeCount()), make([]float64, g.NodeCount()))
		d.metrics.RecordDetection(algorithm, metrics.StatusDegenerate, g.NodeCount(), time.Since(start))
		timer.End(logging.Bool("degenerate", true))
		return res, nil
	}

	var err error
	switch d.kind {
	case Discrete:
		err = d.detectDiscrete(ctx, g, res)
	case Continuous:
		err = d.detectContinuous(ctx, g, res)
	default:
		err = fmt.Errorf("detector: unknown kind %d", d.kind)
	}
	if err != nil {
		d.metrics.RecordDetection(algorithm, metrics.StatusError, g.NodeCount(), time.Since(start))
		timer.EndError(err)
		return nil, err
	}

	d.metrics.RecordDetection(algorithm, metrics.StatusOK, g.NodeCount(), time.Since(start))
	timer.End(
		logging.Score(res.QualityScore),
		logging.Int("runs_completed", res.Stats.RunsCompleted),
		logging.Int("core", len(res.CoreNodes(g.Labels()))),
	)
	return res, nil
}

func (d *Detector) detectDiscrete(ctx context.Context, g *graph.SparseGraph, res *Result) error {
	opts := d.discrete
	trial := func(_ context.Context, _ int, seed uint64) (scheduler.Solution, error) {
		return discrete.Optimize(g, opts, newRNG(seed)), nil
	}

	out, err := d.sched.Run(ctx, res.Algorithm, g, trial)
	if err != nil {
		return err
	}
	best := out.Best.Solution.(*discrete.Result)

	derived := d.deriver.Derive(g, best.Group)
	d.fill(g, res, derived.Group, derived.Coreness)
	for _, i := range derived.Promoted {
		res.Promoted = append(res.Promoted, g.Label(i))
	}
	res.QualityScore = best.Score
	res.Stats = statsFrom(out, best.HitCap)
	return nil
}

func (d *Detector) detectContinuous(ctx context.Context, g *graph.SparseGraph, res *Result) error {
	opts := d.continuous
	trial := func(ctx context.Context, _ int, seed uint64) (scheduler.Solution, error) {
		return continuous.Optimize(ctx, g, opts, newRNG(seed))
	}

	out, err := d.sched.Run(ctx, res.Algorithm, g, trial)
	if err != nil {
		return err
	}
	best := out.Best.Solution.(*continuous.Result)

	d.fill(g, res, best.Group(opts.Beta), best.Coreness)
	res.QualityScore = best.Score
	res.Stats = statsFrom(out, best.HitCap)
	return nil
}

// fill sets the dense vectors and the label-keyed maps.
func (d *Detector) fill(g *graph.SparseGraph, res *Result, group []uint8, x []float64) {
	n := g.NodeCount()
	res.Assignment = group
	res.CorenessVector = x
	res.Group = make(map[string]string, n)
	res.Coreness = make(map[string]float64, n)
	for i := 0; i < n; i++ {
		label := g.Label(i)
		res.Group[label] = GroupPeriphery
		if group[i] == quality.Core {
			res.Group[label] = GroupCore
		}
		res.Coreness[label] = x[i]
	}
}

// Score re-evaluates r against g with the detector's quality function: Q of
// the assignment for BE, xᵀAx of the coreness vector for Rombach. A result
// that does not match g scores 0.
func (d *Detector) Score(g *graph.SparseGraph, r *Result) float64 {
	if r == nil {
		return 0
	}
	switch d.kind {
	case Discrete:
		if len(r.Assignment) != g.NodeCount() {
			return 0
		}
		return quality.Discrete(g, r.Assignment)
	case Continuous:
		if len(r.CorenessVector) != g.NodeCount() {
			return 0
		}
		return quality.Continuous(g, r.CorenessVector)
	default:
		return 0
	}
}

func statsFrom(out *scheduler.Outcome, hitCap bool) Stats {
	return Stats{
		RunsRequested: out.RunsRequested,
		RunsPlanned:   out.RunsPlanned,
		RunsCompleted: out.RunsCompleted,
		EarlyStops:    out.EarlyStops,
		Failures:      out.Failures,
		ScoreHistory:  out.ScoreHistory,
		HitCap:        hitCap,
		BestRun:       out.Best.RunIndex,
		BestSeed:      out.Best.Seed,
	}
}

// newRNG seeds a trial-local PCG stream.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
}
