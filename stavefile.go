//go:build stave

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// All runs the complete build pipeline: lint, test, and build.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles the triage-cli, triage-train and triage-bench binaries.
func Build() error {
	st.Deps(Init)
	st.Deps(Build_CLI, Build_Train, Build_Bench)
	return nil
}

// Build_CLI compiles the triage-cli binary with version information.
func Build_CLI() error {
	return buildBinary("triage-cli")
}

// Build_Train compiles the triage-train binary with version information.
func Build_Train() error {
	return buildBinary("triage-train")
}

// Build_Bench compiles the triage-bench binary with version information.
func Build_Bench() error {
	return buildBinary("triage-bench")
}

// buildBinary compiles ./cmd/<name> into bin/<name> when sources changed.
func buildBinary(name string) error {
	st.Deps(Init)

	out := "bin/" + name
	rebuild, err := target.Glob(out, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Printf("%s is up to date\n", name)
		}
		return nil
	}

	ldflags := buildLdflags()
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, "./cmd/"+name)
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode (skips long-running tests).
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// TestVerbose runs tests with verbose output.
func TestVerbose() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "-v", "./...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// LintFix runs golangci-lint with auto-fix enabled.
func LintFix() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	artifacts := []string{
		"bin/",
		"artifacts/",
	}
	for _, a := range artifacts {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds and installs the binaries to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	binaries := []string{"triage-cli", "triage-train", "triage-bench"}
	for _, name := range binaries {
		src := "bin/" + name
		dst := bin + "/" + name
		if runtime.GOOS == "windows" {
			dst += ".exe"
		}
		if err := sh.Copy(dst, src); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		if st.Verbose() {
			fmt.Printf("Installed %s to %s\n", name, dst)
		}
	}
	return nil
}

// Model namespace for training and evaluation targets.
type Model st.Namespace

// Train trains on the labeled corpus and writes the artifact triple.
// TRIAGE_CORPUS overrides the corpus path (default testdata/issues.csv).
func (Model) Train() error {
	st.Deps(Build_Train)

	return sh.RunV("./bin/triage-train",
		"-corpus", corpusPath(),
		"-out", artifactsDir(),
	)
}

// Bench evaluates the saved artifact triple against the labeled corpus.
func (Model) Bench() error {
	st.Deps(Build_Bench)

	if _, err := os.Stat(artifactsDir()); os.IsNotExist(err) {
		return fmt.Errorf("artifacts not found in %s, run model:train first", artifactsDir())
	}

	return sh.RunV("./bin/triage-bench",
		"-artifacts", artifactsDir(),
		"-corpus", corpusPath(),
	)
}

// Sweep runs a confidence threshold sweep over the labeled corpus.
func (Model) Sweep() error {
	st.Deps(Build_Bench)

	return sh.RunV("./bin/triage-bench",
		"-artifacts", artifactsDir(),
		"-corpus", corpusPath(),
		"-sweep",
	)
}

// Import loads the labeled CSV corpus into a SQLite reports database.
func (Model) Import() error {
	return sh.RunV("go", "run", "./scripts/import-reports.go",
		"-in", corpusPath(),
		"-out", "testdata/reports.db",
	)
}

func corpusPath() string {
	if p := os.Getenv("TRIAGE_CORPUS"); p != "" {
		return p
	}
	return "testdata/issues.csv"
}

func artifactsDir() string {
	if d := os.Getenv("TRIAGE_ARTIFACTS"); d != "" {
		return d
	}
	return "artifacts"
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs quick validation (vet, lint, short tests).
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

// Coverage generates a coverage report.
func Coverage() error {
	st.Deps(Init)
	if err := sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Tidy runs go mod tidy and verifies the go.sum is clean.
func Tidy() error {
	if err := sh.Run("go", "mod", "tidy"); err != nil {
		return err
	}
	// Verify no changes to go.sum (useful for CI)
	output, err := sh.Output("git", "diff", "--exit-code", "go.sum")
	if err != nil {
		if output != "" {
			return fmt.Errorf("go.sum is not clean:\n%s", output)
		}
	}
	return nil
}
