// Package bench provides evaluation utilities for complaint categorization.
package bench

import (
	"context"
	"fmt"

	triage "github.com/Veer-004/go-triage"
	"github.com/Veer-004/go-triage/corpus"
)

// Predictor is the part of triage.Classifier the evaluator needs.
type Predictor interface {
	Predict(ctx context.Context, text string) (triage.Prediction, error)
	Labels() []string
}

// Outcome is the evaluation of one labeled example.
type Outcome struct {
	Text       string
	Truth      string
	Predicted  string
	Source     triage.Source
	Keyword    string
	Confidence float32
	Correct    bool
}

// Report holds the results of running the full pipeline over a corpus.
type Report struct {
	// Metrics covers every example whose true category is a trained label.
	// Rule predictions to untrained categories count as wrong.
	Metrics Metrics
	Labels  []string

	RuleHits    int
	RuleCorrect int
	ModelHits   int

	// Unlabeled counts examples whose true category the model never saw.
	Unlabeled int

	Outcomes []Outcome
}

// RuleAccuracy returns the fraction of rule matches that were correct.
func (r Report) RuleAccuracy() float64 {
	if r.RuleHits == 0 {
		return 0
	}
	return float64(r.RuleCorrect) / float64(r.RuleHits)
}

// EvaluateCorpus predicts every example and scores the results against the
// labeled categories.
func EvaluateCorpus(ctx context.Context, p Predictor, examples []corpus.Example) (Report, error) {
	names := p.Labels()
	ids := make(map[string]int, len(names))
	for i, name := range names {
		ids[name] = i
	}

	report := Report{Labels: names}
	var predicted, truth []int

	for i, ex := range examples {
		pred, err := p.Predict(ctx, ex.Text)
		if err != nil {
			return Report{}, fmt.Errorf("example %d: %w", i, err)
		}

		o := Outcome{
			Text:       ex.Text,
			Truth:      ex.Category,
			Predicted:  pred.Category,
			Source:     pred.Source,
			Keyword:    pred.Keyword,
			Confidence: pred.Confidence,
			Correct:    pred.Category == ex.Category,
		}
		report.Outcomes = append(report.Outcomes, o)

		if pred.Source == triage.SourceRule {
			report.RuleHits++
			if o.Correct {
				report.RuleCorrect++
			}
		} else {
			report.ModelHits++
		}

		t, ok := ids[ex.Category]
		if !ok {
			report.Unlabeled++
			continue
		}
		pi, ok := ids[pred.Category]
		if !ok {
			pi = -1
		}
		predicted = append(predicted, pi)
		truth = append(truth, t)
	}

	report.Metrics = Evaluate(predicted, truth, len(names))
	return report, nil
}
