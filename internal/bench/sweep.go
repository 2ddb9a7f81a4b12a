package bench

import (
	"sort"

	triage "github.com/Veer-004/go-triage"
)

// SweepConfig weights coverage against accuracy when ranking thresholds.
type SweepConfig struct {
	CoverageWeight float64
	AccuracyWeight float64
}

// DefaultSweepConfig weights coverage and accuracy equally.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		CoverageWeight: 1.0,
		AccuracyWeight: 1.0,
	}
}

// SweepResult describes auto-routing at one confidence threshold: model
// predictions below the threshold would go to manual review instead.
// Rule matches are always auto-routed.
type SweepResult struct {
	Threshold float32
	Routed    int
	Correct   int

	// Coverage is the fraction of all outcomes that are auto-routed.
	Coverage float64
	// Accuracy is the fraction of auto-routed outcomes that are correct.
	Accuracy      float64
	WeightedScore float64
}

// SweepThresholds generates threshold values from min to max with given step.
func SweepThresholds(min, max, step float32) []float32 {
	var thresholds []float32
	if step <= 0 {
		return thresholds
	}
	for t := min; t < max; t += step {
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep scores each threshold over outcomes and returns results sorted by
// weighted score, best first.
func Sweep(outcomes []Outcome, thresholds []float32, cfg SweepConfig) []SweepResult {
	results := make([]SweepResult, 0, len(thresholds))

	for _, threshold := range thresholds {
		r := SweepResult{Threshold: threshold}
		for _, o := range outcomes {
			if o.Source == triage.SourceModel && o.Confidence < threshold {
				continue
			}
			r.Routed++
			if o.Correct {
				r.Correct++
			}
		}

		if len(outcomes) > 0 {
			r.Coverage = float64(r.Routed) / float64(len(outcomes))
		}
		if r.Routed > 0 {
			r.Accuracy = float64(r.Correct) / float64(r.Routed)
		}
		wc, wa := cfg.CoverageWeight, cfg.AccuracyWeight
		if wc+wa > 0 {
			r.WeightedScore = (wc*r.Coverage + wa*r.Accuracy) / (wc + wa)
		}

		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WeightedScore > results[j].WeightedScore
	})

	return results
}
