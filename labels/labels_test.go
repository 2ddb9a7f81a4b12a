package labels

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Veer-004/go-triage/internal/artifact"
)

func TestFit_FirstAppearanceOrder(t *testing.T) {
	c := Fit([]string{"Roads", "Sanitation", "Roads", "Lighting", "Sanitation"})

	expected := []string{"Roads", "Sanitation", "Lighting"}
	if !reflect.DeepEqual(c.Labels(), expected) {
		t.Errorf("Labels() = %q, want %q", c.Labels(), expected)
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 classes, got %d", c.Len())
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	seen := []string{"Water Supply", "Roads", "Cleanliness", "Public Safety"}
	c := Fit(seen)

	for _, label := range seen {
		id, err := c.Encode(label)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", label, err)
		}
		got, err := c.Decode(id)
		if err != nil {
			t.Fatalf("Decode(%d) failed: %v", id, err)
		}
		if got != label {
			t.Errorf("round trip of %q returned %q", label, got)
		}
	}
}

func TestCodec_DenseIDs(t *testing.T) {
	c := Fit([]string{"a", "b", "a", "c"})
	for id := 0; id < c.Len(); id++ {
		if _, err := c.Decode(id); err != nil {
			t.Errorf("Decode(%d) failed: %v", id, err)
		}
	}
}

func TestCodec_Errors(t *testing.T) {
	c := Fit([]string{"Roads"})

	if _, err := c.Encode("Parks"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("expected ErrUnknownLabel, got %v", err)
	}
	for _, id := range []int{-1, 1, 100} {
		if _, err := c.Decode(id); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Decode(%d): expected ErrIndexOutOfRange, got %v", id, err)
		}
	}
}

func TestCodec_Contains(t *testing.T) {
	c := Fit([]string{"Roads"})
	if !c.Contains("Roads") {
		t.Error("expected Roads to be contained")
	}
	if c.Contains("roads") {
		t.Error("labels are case-sensitive")
	}
}

func TestCodec_LabelsIsCopy(t *testing.T) {
	c := Fit([]string{"Roads"})
	c.Labels()[0] = "mutated"
	if got, _ := c.Decode(0); got != "Roads" {
		t.Errorf("codec mutated through Labels(): %q", got)
	}
}

func TestCodec_MarshalRoundTrip(t *testing.T) {
	c := Fit([]string{"Sanitation", "Roads", "Lighting"})

	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	got, err := UnmarshalCodec(data)
	if err != nil {
		t.Fatalf("UnmarshalCodec failed: %v", err)
	}
	if !reflect.DeepEqual(got.Labels(), c.Labels()) {
		t.Errorf("labels mismatch: got %q, want %q", got.Labels(), c.Labels())
	}
}

func TestUnmarshalCodec_Duplicate(t *testing.T) {
	data := artifact.AppendStrings(nil, fieldLabel, []string{"Roads", "Roads"})
	if _, err := UnmarshalCodec(data); !errors.Is(err, ErrInvalidCodec) {
		t.Errorf("expected ErrInvalidCodec, got %v", err)
	}
}
