package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/Veer-004/go-triage/internal/config"
	"github.com/Veer-004/go-triage/train"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		corpusPath  = flag.String("corpus", "", "CSV corpus path (overrides config)")
		sqlitePath  = flag.String("sqlite", "", "SQLite corpus path (overrides config and -corpus)")
		outDir      = flag.String("out", "", "Output directory for the artifact triple (default from config)")
		epochs      = flag.Int("epochs", 0, "Override number of epochs")
		seed        = flag.Uint64("seed", 0, "Override random seed")
		verbose     = flag.Bool("v", false, "Verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("triage-train %s (%s, %s)\n", version, commit, date)
		return
	}

	logger := newLogger(*verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatalf("loading config: %v", err)
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
		fmt.Fprintln(os.Stderr, "Usage: triage-train [-config FILE] -corpus FILE.csv | -sqlite FILE.db [-out DIR]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	tc := cfg.TrainConfig()
	if *epochs > 0 {
		tc.Epochs = *epochs
	}
	if *seed > 0 {
		tc.Seed = *seed
	}

	dir := *outDir
	if dir == "" {
		dir = cfg.Serve.Artifacts
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	examples, err := src.Load(ctx)
	if err != nil {
		fatalf("loading corpus: %v", err)
	}
	fmt.Printf("Loaded %d examples\n", len(examples))

	trainer, err := train.New(tc, train.WithLogger(logger))
	if err != nil {
		fatalf("%v", err)
	}

	res, err := trainer.Fit(ctx, examples)
	if err != nil {
		fatalf("training: %v", err)
	}

	fmt.Printf("Run: %s\n", res.RunID)
	fmt.Printf("Vocabulary: %d tokens  Classes: %d  Train: %d  Validation: %d\n",
		res.Vocab.Size(), res.Labels.Len(), res.TrainSize, res.ValidationSize)
	fmt.Println(strings.Repeat("-", 30))
	fmt.Printf("%-8s %-10s\n", "Epoch", "Loss")
	for i, loss := range res.EpochLosses {
		fmt.Printf("%-8d %-10.4f\n", i+1, loss)
	}
	fmt.Println(strings.Repeat("-", 30))
	if res.ValidationSize > 0 {
		fmt.Printf("Validation accuracy: %.2f  Macro F1: %.2f\n", res.Validation.Accuracy, res.Validation.MacroF1)
	}

	if err := trainer.Save(dir); err != nil {
		fatalf("saving: %v", err)
	}
	fmt.Printf("Saved artifacts to %s\n", dir)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
