package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	triage "github.com/Veer-004/go-triage"
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
		rulesPath    = flag.String("rules", "", "Path to YAML rule table (overrides config)")
		noRules      = flag.Bool("no-rules", false, "Disable keyword rules")
		verbose      = flag.Bool("v", false, "Verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("triage-cli %s (%s, %s)\n", version, commit, date)
		return
	}

	logger := newLogger(*verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	table := cfg.RuleTable()
	switch {
	case *noRules:
		table = rules.Table{}
	case *rulesPath != "":
		table, err = rules.LoadTable(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	dir := *artifactsDir
	if dir == "" {
		dir = cfg.Serve.Artifacts
	}

	clf, err := triage.New(dir,
		triage.WithRules(table),
		triage.WithPoolSize(cfg.Serve.PoolSize),
		triage.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading classifier: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = clf.Close() }() // Cleanup error ignored in CLI

	ctx := context.Background()

	text := strings.Join(flag.Args(), " ")
	if text != "" {
		if err := classify(ctx, clf, text); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// No arguments: classify one complaint per stdin line.
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := classify(ctx, clf, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
		os.Exit(1)
	}
}

func classify(ctx context.Context, clf *triage.Classifier, text string) error {
	p, err := clf.Predict(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("Text: %q\n", text)
	fmt.Printf("Category: %s\n", p.Category)
	if p.Source == triage.SourceRule {
		fmt.Printf("Source: rule (keyword %q)\n", p.Keyword)
	} else {
		fmt.Printf("Source: model\n")
	}
	fmt.Printf("Confidence: %.4f\n", p.Confidence)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
