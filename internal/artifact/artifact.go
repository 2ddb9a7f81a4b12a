// Package artifact defines the on-disk envelope shared by the three trained
// artifacts (vocabulary, label codec, model parameters).
//
// Every artifact file is a protobuf message:
//
//	1: magic   string  always "go-triage"
//	2: version uint32  FormatVersion
//	3: kind    string  "vocabulary" | "labels" | "model"
//	4: run_id  string  ULID of the training run that produced the file
//	5: payload bytes   kind-specific message
//
// The payload encodings live next to the types they serialize.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"google.golang.org/protobuf/encoding/protowire"
)

// FormatVersion is the envelope version written by this package.
const FormatVersion = 1

const magic = "go-triage"

// File names of the artifact triple inside an artifact directory.
const (
	VocabularyFile = "vocab.pb"
	LabelsFile     = "labels.pb"
	ModelFile      = "model.pb"
)

// Kind identifies which member of the triple a file holds.
type Kind string

const (
	KindVocabulary Kind = "vocabulary"
	KindLabels     Kind = "labels"
	KindModel      Kind = "model"
)

var (
	// ErrBadMagic indicates the file is not a go-triage artifact.
	ErrBadMagic = errors.New("artifact: bad magic")

	// ErrUnsupportedVersion indicates the envelope version is not FormatVersion.
	ErrUnsupportedVersion = errors.New("artifact: unsupported format version")

	// ErrWrongKind indicates the file holds a different member of the triple.
	ErrWrongKind = errors.New("artifact: wrong kind")

	// ErrMalformed indicates the protobuf encoding could not be parsed.
	ErrMalformed = errors.New("artifact: malformed encoding")
)

const (
	fieldMagic   protowire.Number = 1
	fieldVersion protowire.Number = 2
	fieldKind    protowire.Number = 3
	fieldRunID   protowire.Number = 4
	fieldPayload protowire.Number = 5
)

// Header is the envelope metadata of one artifact file.
type Header struct {
	Kind    Kind
	Version uint32
	RunID   string
}

// NewRunID returns a fresh, time-ordered training run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// Marshal wraps payload in an envelope for the given kind and run.
func Marshal(kind Kind, runID string, payload []byte) []byte {
	b := make([]byte, 0, len(payload)+64)
	b = protowire.AppendTag(b, fieldMagic, protowire.BytesType)
	b = protowire.AppendString(b, magic)
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, FormatVersion)
	b = protowire.AppendTag(b, fieldKind, protowire.BytesType)
	b = protowire.AppendString(b, string(kind))
	b = protowire.AppendTag(b, fieldRunID, protowire.BytesType)
	b = protowire.AppendString(b, runID)
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, payload)
	return b
}

// Unmarshal parses an envelope and checks that it holds the wanted kind.
// The returned payload aliases data.
func Unmarshal(data []byte, want Kind) (Header, []byte, error) {
	var (
		h        Header
		gotMagic string
		payload  []byte
	)
	err := Walk(data, func(f Field) error {
		switch f.Num {
		case fieldMagic:
			gotMagic = string(f.Bytes)
		case fieldVersion:
			h.Version = uint32(f.Varint)
		case fieldKind:
			h.Kind = Kind(f.Bytes)
		case fieldRunID:
			h.RunID = string(f.Bytes)
		case fieldPayload:
			payload = f.Bytes
		}
		return nil
	})
	if err != nil {
		return Header{}, nil, err
	}

	if gotMagic != magic {
		return Header{}, nil, ErrBadMagic
	}
	if h.Version != FormatVersion {
		return Header{}, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.Kind != want {
		return Header{}, nil, fmt.Errorf("%w: want %s, got %q", ErrWrongKind, want, h.Kind)
	}
	if _, err := ulid.ParseStrict(h.RunID); err != nil {
		return Header{}, nil, fmt.Errorf("%w: run id %q: %w", ErrMalformed, h.RunID, err)
	}

	return h, payload, nil
}

// WriteFile writes data to path through a temporary file in the same
// directory, so readers never observe a partially written artifact.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}
