package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	triage "github.com/Veer-004/go-triage"
	"github.com/Veer-004/go-triage/internal/bench"
	"github.com/Veer-004/go-triage/internal/config"
	"github.com/Veer-004/go-triage/rules"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to YAML config file")
		artifactsDir = flag.String("artifacts", "", "Directory holding the artifact triple (default from config)")
		corpusPath   = flag.String("corpus", "", "Labeled CSV corpus (overrides config)")
		sqlitePath   = flag.String("sqlite", "", "Labeled SQLite corpus (overrides config and -corpus)")
		noRules      = flag.Bool("no-rules", false, "Evaluate the model alone")
		misses       = flag.Int("misses", 0, "Print up to N misclassified examples")
		sweep        = flag.Bool("sweep", false, "Run confidence threshold sweep")
		sweepMin     = flag.Float64("sweep-min", 0.0, "Sweep minimum threshold")
		sweepMax     = flag.Float64("sweep-max", 1.0, "Sweep maximum threshold")
		sweepStep    = flag.Float64("sweep-step", 0.05, "Sweep step size")
		wc           = flag.Float64("wc", 1.0, "Coverage weight")
		wa           = flag.Float64("wa", 1.0, "Accuracy weight")
		verbose      = flag.Bool("v", false, "Verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("triage-bench %s (%s, %s)\n", version, commit, date)
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	path := *corpusPath
	if *sqlitePath != "" {
		cfg.Corpus.Driver = config.DriverSQLite
		path = *sqlitePath
	} else if *corpusPath != "" {
		cfg.Corpus.Driver = config.DriverCSV
	}
	src, err := cfg.Source(path, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: -corpus or -sqlite required")
		flag.Usage()
		os.Exit(1)
	}

	dir := *artifactsDir
	if dir == "" {
		dir = cfg.Serve.Artifacts
	}
	table := cfg.RuleTable()
	if *noRules {
		table = rules.Table{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	examples, err := src.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d examples\n\n", len(examples))

	clf, err := triage.New(dir,
		triage.WithRules(table),
		triage.WithPoolSize(cfg.Serve.PoolSize),
		triage.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading classifier: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = clf.Close() }()

	report, err := bench.EvaluateCorpus(ctx, clf, examples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error evaluating: %v\n", err)
		os.Exit(1)
	}

	printReport(report, clf.RunID())

	if *misses > 0 {
		printMisses(report, *misses)
	}

	if *sweep {
		sc := bench.SweepConfig{CoverageWeight: *wc, AccuracyWeight: *wa}
		printSweep(report, bench.SweepThresholds(float32(*sweepMin), float32(*sweepMax), float32(*sweepStep)), sc)
	}
}

func printReport(r bench.Report, runID string) {
	m := r.Metrics
	fmt.Printf("Run: %s\n", runID)
	fmt.Printf("Accuracy: %.2f  Macro F1: %.2f  (%d/%d correct)\n", m.Accuracy, m.MacroF1, m.Correct, m.Total)
	fmt.Printf("Rule hits: %d (accuracy %.2f)  Model: %d  Unlabeled: %d\n\n",
		r.RuleHits, r.RuleAccuracy(), r.ModelHits, r.Unlabeled)

	fmt.Println(strings.Repeat("-", 64))
	fmt.Printf("%-24s %-8s %-8s %-8s %-8s\n", "Category", "Support", "Prec", "Rec", "F1")
	for _, c := range m.Classes {
		name := fmt.Sprintf("#%d", c.Class)
		if c.Class < len(r.Labels) {
			name = r.Labels[c.Class]
		}
		fmt.Printf("%-24s %-8d %-8.2f %-8.2f %-8.2f\n", name, c.Support, c.Precision, c.Recall, c.F1)
	}
	fmt.Println(strings.Repeat("-", 64))
}

func printMisses(r bench.Report, limit int) {
	fmt.Println("\nMisclassified:")
	n := 0
	for _, o := range r.Outcomes {
		if o.Correct {
			continue
		}
		fmt.Printf("  [%s -> %s, %s %.2f] %q\n", o.Truth, o.Predicted, o.Source, o.Confidence, o.Text)
		n++
		if n >= limit {
			break
		}
	}
}

func printSweep(r bench.Report, thresholds []float32, cfg bench.SweepConfig) {
	results := bench.Sweep(r.Outcomes, thresholds, cfg)

	fmt.Printf("\nConfidence Sweep (wc=%.1f, wa=%.1f)\n", cfg.CoverageWeight, cfg.AccuracyWeight)
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%-8s %-8s %-8s %-8s %-8s\n", "Thresh", "Routed", "Cover", "Acc", "Weighted")

	// Print sorted by threshold for readability
	byThreshold := make([]bench.SweepResult, len(results))
	copy(byThreshold, results)
	sort.Slice(byThreshold, func(i, j int) bool {
		return byThreshold[i].Threshold < byThreshold[j].Threshold
	})
	for _, s := range byThreshold {
		fmt.Printf("%-8.3f %-8d %-8.2f %-8.2f %-8.2f\n", s.Threshold, s.Routed, s.Coverage, s.Accuracy, s.WeightedScore)
	}

	fmt.Println(strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: %.3f (Weighted: %.2f)\n", best.Threshold, best.WeightedScore)
	}
}
