// Package labels maps category names to dense class ids and back.
package labels

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLabel indicates a label that was not seen when the codec was fitted.
	ErrUnknownLabel = errors.New("labels: unknown label")

	// ErrIndexOutOfRange indicates a class id outside [0, Len()).
	ErrIndexOutOfRange = errors.New("labels: class id out of range")

	// ErrInvalidCodec indicates a serialized codec is not a bijection.
	ErrInvalidCodec = errors.New("labels: invalid codec")
)

// Codec is a bijective mapping between category names and class ids
// 0..Len()-1. It is read-only after Fit and safe for concurrent use.
type Codec struct {
	ids    map[string]int
	labels []string
}

// Fit builds a codec from a label column. Class ids follow the order in
// which each distinct label first appears.
func Fit(labels []string) *Codec {
	c := &Codec{ids: make(map[string]int)}
	for _, l := range labels {
		if _, ok := c.ids[l]; ok {
			continue
		}
		c.ids[l] = len(c.labels)
		c.labels = append(c.labels, l)
	}
	return c
}

// Encode returns the class id of label.
func (c *Codec) Encode(label string) (int, error) {
	id, ok := c.ids[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return id, nil
}

// Decode returns the label of class id.
func (c *Codec) Decode(id int) (string, error) {
	if id < 0 || id >= len(c.labels) {
		return "", fmt.Errorf("%w: %d (classes: %d)", ErrIndexOutOfRange, id, len(c.labels))
	}
	return c.labels[id], nil
}

// Contains reports whether label was seen during Fit.
func (c *Codec) Contains(label string) bool {
	_, ok := c.ids[label]
	return ok
}

// Len returns the number of classes.
func (c *Codec) Len() int {
	return len(c.labels)
}

// Labels returns the labels in class id order.
func (c *Codec) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}
