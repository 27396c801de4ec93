package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/dd0wney/cluso-coreperiphery/pkg/config"
	"github.com/dd0wney/cluso-coreperiphery/pkg/continuous"
	"github.com/dd0wney/cluso-coreperiphery/pkg/detector"
	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/logging"
	"github.com/dd0wney/cluso-coreperiphery/pkg/metrics"
	"github.com/dd0wney/cluso-coreperiphery/pkg/snapshot"
	"github.com/dd0wney/cluso-coreperiphery/pkg/synth"
)

func main() {
	coreSize := flag.Int("core", 20, "Planted core size")
	periSize := flag.Int("periphery", 80, "Planted periphery size")
	pcc := flag.Float64("pcc", 0.8, "Core-core edge probability")
	pcp := flag.Float64("pcp", 0.2, "Core-periphery edge probability")
	ppp := flag.Float64("ppp", 0.02, "Periphery-periphery edge probability")
	seed := flag.Uint64("seed", 1, "Graph and trial seed")
	runs := flag.Int("runs", 0, "Requested trials per detector (0 keeps the config value)")
	configPath := flag.String("config", "", "Optional YAML detector config")
	strategies := flag.String("strategies", "label_switching,parallel_label_switching,annealing", "Continuous strategies to benchmark")
	snapshotPath := flag.String("snapshot", "", "Write the BE result snapshot to this file")
	verbose := flag.Bool("v", false, "Log scheduler activity to stderr")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *runs > 0 {
		cfg.Scheduler.Runs = *runs
	}
	cfg.Scheduler.RandomSeed = *seed

	logger := logging.Logger(logging.NewNopLogger())
	if *verbose {
		logger = logging.NewJSONLogger(os.Stderr, cfg.Level())
	}
	reg := metrics.NewRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("🔥 Core-Periphery Detection Benchmark\n")
	fmt.Printf("=====================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Planted core: %d, periphery: %d\n", *coreSize, *periSize)
	fmt.Printf("  p(cc)=%.3f p(cp)=%.3f p(pp)=%.3f\n", *pcc, *pcp, *ppp)
	fmt.Printf("  Requested runs: %d (pinned: %v)\n", cfg.Scheduler.Runs, cfg.Scheduler.PinRuns)
	fmt.Printf("  Seed: %d\n\n", *seed)

	fmt.Printf("📝 Generating planted graph...\n")
	start := time.Now()
	g, err := synth.PlantedCorePeriphery(synth.Planted{
		CoreSize:      *coreSize,
		PeripherySize: *periSize,
		PCoreCore:     *pcc,
		PCorePeri:     *pcp,
		PPeriPeri:     *ppp,
		Seed:          *seed,
	})
	if err != nil {
		log.Fatalf("Failed to generate graph: %v", err)
	}
	fmt.Printf("✅ %d nodes, %d edges in %v\n", g.NodeCount(), g.EdgeCount(), time.Since(start))

	// Benchmark 1: BE
	fmt.Printf("\n📊 Benchmark 1: BE (discrete)\n")
	beCfg := *cfg
	beCfg.Algorithm = config.AlgorithmBE
	be, err := detector.FromConfig(&beCfg, detector.WithLogger(logger), detector.WithMetrics(reg))
	if err != nil {
		log.Fatalf("Failed to build BE detector: %v", err)
	}
	beResult := run(ctx, be, g)

	if *snapshotPath != "" {
		if err := writeSnapshot(*snapshotPath, beResult); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		fmt.Printf("  Snapshot: %s\n", *snapshotPath)
	}

	// Benchmark 2..n: Rombach strategies
	for i, name := range strings.Split(*strategies, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := continuous.ParseStrategy(name); err != nil {
			log.Fatalf("Invalid strategy: %v", err)
		}

		fmt.Printf("\n📊 Benchmark %d: Rombach (%s)\n", i+2, name)
		rCfg := *cfg
		rCfg.Algorithm = config.AlgorithmRombach
		rCfg.Continuous.Strategy = name
		rombach, err := detector.FromConfig(&rCfg, detector.WithLogger(logger), detector.WithMetrics(reg))
		if err != nil {
			log.Fatalf("Failed to build Rombach detector: %v", err)
		}
		run(ctx, rombach, g)
	}

	families, err := reg.GetPrometheusRegistry().Gather()
	if err != nil {
		log.Fatalf("Failed to gather metrics: %v", err)
	}
	fmt.Printf("\n📈 Metrics\n")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Printf("  %s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Printf("  %s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetGauge().GetValue())
			}
		}
	}

	fmt.Printf("\n✅ Benchmark complete\n")
}

func run(ctx context.Context, d *detector.Detector, g *graph.SparseGraph) *detector.Result {
	start := time.Now()
	res, err := d.Detect(ctx, g)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}
	duration := time.Since(start)

	core := res.CoreNodes(g.Labels())
	recovered := 0
	for _, label := range core {
		if strings.HasPrefix(label, "c") {
			recovered++
		}
	}

	fmt.Printf("✅ Completed in %v\n", duration)
	fmt.Printf("  Quality: %.6f (rescored %.6f)\n", res.QualityScore, d.Score(g, res))
	fmt.Printf("  Runs: planned %d, completed %d, early stops %d, failures %d\n",
		res.Stats.RunsPlanned, res.Stats.RunsCompleted, res.Stats.EarlyStops, res.Stats.Failures)
	fmt.Printf("  Core size: %d (planted core recovered: %d)\n", len(core), recovered)
	if len(res.Promoted) > 0 {
		fmt.Printf("  Promoted outliers: %s\n", strings.Join(res.Promoted, ", "))
	}
	if res.Stats.HitCap {
		fmt.Printf("  ⚠️  Best trial hit its iteration cap\n")
	}

	fmt.Printf("  Top 5 nodes by coreness:\n")
	for i, label := range topByCoreness(res.Coreness, 5) {
		fmt.Printf("    %d. %s (coreness: %.4f, %s)\n", i+1, label, res.Coreness[label], res.Group[label])
	}
	return res
}

func writeSnapshot(path string, res *detector.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := snapshot.Write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func topByCoreness(coreness map[string]float64, n int) []string {
	labels := make([]string, 0, len(coreness))
	for label := range coreness {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if coreness[labels[i]] != coreness[labels[j]] {
			return coreness[labels[i]] > coreness[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}
