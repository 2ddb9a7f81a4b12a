package triage

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrMissingArtifact indicates one of the three artifact files is absent
	// or unreadable.
	ErrMissingArtifact = errors.New("triage: missing artifact")

	// ErrInvalidArtifact indicates an artifact file exists but is malformed.
	ErrInvalidArtifact = errors.New("triage: invalid artifact")

	// ErrArtifactMismatch indicates the three artifacts do not belong
	// together: model shape disagrees with the vocabulary or label codec,
	// or the files come from different training runs.
	ErrArtifactMismatch = errors.New("triage: artifact mismatch")

	// ErrClosed indicates Predict was called after Close.
	ErrClosed = errors.New("triage: classifier closed")
)
