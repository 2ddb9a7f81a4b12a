package bench

// ClassMetrics holds one-vs-rest results for a single class.
type ClassMetrics struct {
	Class          int
	Support        int // rows whose true class is Class
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
}

// Metrics holds multi-class evaluation results.
type Metrics struct {
	Total    int
	Correct  int
	Accuracy float64

	// MacroF1 is the unweighted mean F1 over classes that occur in either
	// the truth or the predictions.
	MacroF1 float64
	Classes []ClassMetrics
}

// Evaluate compares predicted class ids against ground truth, pairwise up
// to the shorter slice. Predictions outside [0, numClasses) count as wrong
// without crediting any class.
func Evaluate(predicted, truth []int, numClasses int) Metrics {
	n := min(len(predicted), len(truth))
	m := Metrics{Total: n}
	if numClasses < 0 {
		numClasses = 0
	}
	m.Classes = make([]ClassMetrics, numClasses)
	for i := range m.Classes {
		m.Classes[i].Class = i
	}

	inRange := func(c int) bool { return c >= 0 && c < numClasses }

	for i := 0; i < n; i++ {
		p, t := predicted[i], truth[i]
		if inRange(t) {
			m.Classes[t].Support++
		}
		if p == t && inRange(t) {
			m.Correct++
			m.Classes[t].TruePositives++
			continue
		}
		if inRange(p) {
			m.Classes[p].FalsePositives++
		}
		if inRange(t) {
			m.Classes[t].FalseNegatives++
		}
	}

	if n > 0 {
		m.Accuracy = float64(m.Correct) / float64(n)
	}

	var f1Sum float64
	var present int
	for i := range m.Classes {
		c := &m.Classes[i]
		tp, fp, fn := c.TruePositives, c.FalsePositives, c.FalseNegatives
		if tp+fp > 0 {
			c.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			c.Recall = float64(tp) / float64(tp+fn)
		}
		if c.Precision+c.Recall > 0 {
			c.F1 = 2 * c.Precision * c.Recall / (c.Precision + c.Recall)
		}
		if tp+fp+fn > 0 {
			f1Sum += c.F1
			present++
		}
	}
	if present > 0 {
		m.MacroF1 = f1Sum / float64(present)
	}

	return m
}
