package inference

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// fixedModel returns a 4-token, 2-dim, 2-class model with hand-picked weights:
//
//	id 0 (PAD) -> [0, 0]
//	id 1 (UNK) -> [0, 0]
//	id 2       -> [1, 0]   pushes class 0
//	id 3       -> [0, 1]   pushes class 1
func fixedModel(t *testing.T, maxLen int) *Model {
	t.Helper()
	m := &Model{
		VocabSize:  4,
		EmbedDim:   2,
		NumClasses: 2,
		MaxLen:     maxLen,
		Embedding:  []float32{0, 0, 0, 0, 1, 0, 0, 1},
		Weight:     []float32{1, 0, 0, 1},
		Bias:       []float32{0, 0},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return m
}

func TestNewModel(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	m, err := NewModel(10, 4, 3, 5, rng)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	if len(m.Embedding) != 40 || len(m.Weight) != 12 || len(m.Bias) != 3 {
		t.Errorf("unexpected parameter sizes: %d %d %d", len(m.Embedding), len(m.Weight), len(m.Bias))
	}
	if !m.Finite() {
		t.Error("expected finite initial parameters")
	}

	bound := float32(1 / math.Sqrt(4))
	for i, w := range m.Weight {
		if w < -bound || w > bound {
			t.Errorf("weight %d = %f outside [-%f, %f]", i, w, bound, bound)
		}
	}
}

func TestNewModel_Seeded(t *testing.T) {
	a, err := NewModel(6, 3, 2, 4, rand.New(rand.NewPCG(42, 42)))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	b, err := NewModel(6, 3, 2, 4, rand.New(rand.NewPCG(42, 42)))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatalf("embedding %d differs between identically seeded models", i)
		}
	}
}

func TestNewModel_InvalidShape(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	tests := []struct {
		name                        string
		vocab, dim, classes, maxLen int
	}{
		{"vocab too small", 1, 4, 2, 5},
		{"zero dim", 4, 0, 2, 5},
		{"zero classes", 4, 4, 0, 5},
		{"zero max len", 4, 4, 2, 0},
		{"negative vocab", -3, 4, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.vocab, tt.dim, tt.classes, tt.maxLen, rng)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("expected ErrShapeMismatch, got %v", err)
			}
		})
	}
}

func TestModel_Forward(t *testing.T) {
	m := fixedModel(t, 4)
	pooled := make([]float32, 2)
	logits := make([]float32, 2)

	// Two class-0 tokens and two PADs: pooled = [0.5, 0]
	if err := m.Forward([]int32{2, 2, 0, 0}, pooled, logits); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if pooled[0] != 0.5 || pooled[1] != 0 {
		t.Errorf("pooled = %v, want [0.5 0]", pooled)
	}
	if logits[0] != 0.5 || logits[1] != 0 {
		t.Errorf("logits = %v, want [0.5 0]", logits)
	}
}

func TestModel_Forward_PadDilutes(t *testing.T) {
	m := fixedModel(t, 4)
	m.Embedding[0] = -1 // PAD now pushes away from class 0

	pooled := make([]float32, 2)
	logits := make([]float32, 2)
	if err := m.Forward([]int32{2, 0, 0, 0}, pooled, logits); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	// (1 - 1 - 1 - 1) / 4
	if pooled[0] != -0.5 {
		t.Errorf("expected PAD positions to participate in the mean, pooled[0] = %f", pooled[0])
	}
}

func TestModel_Forward_OrderInvariant(t *testing.T) {
	m := fixedModel(t, 3)
	_, a, err := m.Predict([]int32{2, 3, 3})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	_, b, err := m.Predict([]int32{3, 2, 3})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("score %d depends on token order: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestModel_Forward_Errors(t *testing.T) {
	m := fixedModel(t, 2)
	pooled := make([]float32, 2)
	logits := make([]float32, 2)

	tests := []struct {
		name string
		ids  []int32
	}{
		{"too short", []int32{2}},
		{"too long", []int32{2, 2, 2}},
		{"id out of range", []int32{2, 9}},
		{"negative id", []int32{-1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Forward(tt.ids, pooled, logits); !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("expected ErrShapeMismatch, got %v", err)
			}
		})
	}

	if err := m.Forward([]int32{2, 2}, make([]float32, 1), logits); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for short scratch buffer, got %v", err)
	}
}

func TestModel_Predict(t *testing.T) {
	m := fixedModel(t, 3)

	class, _, err := m.Predict([]int32{3, 3, 2})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if class != 1 {
		t.Errorf("expected class 1, got %d", class)
	}

	// All PAD: scores tie at zero, lowest class id wins
	class, _, err = m.Predict([]int32{0, 0, 0})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if class != 0 {
		t.Errorf("expected tie to resolve to class 0, got %d", class)
	}
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		scores   []float32
		expected int
	}{
		{[]float32{0.1, 0.9, 0.3}, 1},
		{[]float32{2, 2, 1}, 0},
		{[]float32{-1, -3, -1}, 0},
		{[]float32{5}, 0},
		{nil, -1},
	}

	for _, tt := range tests {
		if got := Argmax(tt.scores); got != tt.expected {
			t.Errorf("Argmax(%v) = %d, want %d", tt.scores, got, tt.expected)
		}
	}
}

func TestSoftmax(t *testing.T) {
	scores := []float32{1, 2, 3, 4}
	probs := make([]float32, len(scores))
	Softmax(probs, scores)

	var sum float32
	for i, p := range probs {
		sum += p
		if i > 0 && p <= probs[i-1] {
			t.Errorf("softmax not monotonic at %d: %v", i, probs)
		}
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("softmax sums to %f", sum)
	}

	// Large scores must not overflow
	Softmax(probs[:2], []float32{1000, 1000})
	if probs[0] < 0.499 || probs[0] > 0.501 {
		t.Errorf("expected 0.5 for equal large scores, got %f", probs[0])
	}
}

func TestModel_Finite(t *testing.T) {
	m := fixedModel(t, 2)
	if !m.Finite() {
		t.Fatal("expected fixture to be finite")
	}
	m.Weight[1] = float32(math.NaN())
	if m.Finite() {
		t.Error("expected NaN weight to be reported")
	}
	m.Weight[1] = float32(math.Inf(-1))
	if m.Finite() {
		t.Error("expected -Inf weight to be reported")
	}
}

func TestModel_MarshalRoundTrip(t *testing.T) {
	m, err := NewModel(7, 3, 4, 6, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	got, err := UnmarshalModel(data)
	if err != nil {
		t.Fatalf("UnmarshalModel failed: %v", err)
	}

	if got.VocabSize != 7 || got.EmbedDim != 3 || got.NumClasses != 4 || got.MaxLen != 6 {
		t.Errorf("shape mismatch: %+v", got)
	}
	for i := range m.Embedding {
		if got.Embedding[i] != m.Embedding[i] {
			t.Fatalf("embedding %d: got %f, want %f", i, got.Embedding[i], m.Embedding[i])
		}
	}
	for i := range m.Weight {
		if got.Weight[i] != m.Weight[i] {
			t.Fatalf("weight %d: got %f, want %f", i, got.Weight[i], m.Weight[i])
		}
	}
}

func TestUnmarshalModel_Truncated(t *testing.T) {
	m := fixedModel(t, 2)
	m.Bias = m.Bias[:1]

	if _, err := m.MarshalBinary(); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected MarshalBinary to reject inconsistent model, got %v", err)
	}

	m.Bias = []float32{0, 0}
	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if _, err := UnmarshalModel(data[:len(data)-3]); err == nil {
		t.Error("expected error for truncated payload")
	}
}
