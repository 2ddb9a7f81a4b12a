package triage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veer-004/go-triage/inference"
	"github.com/Veer-004/go-triage/internal/artifact"
	"github.com/Veer-004/go-triage/labels"
	"github.com/Veer-004/go-triage/tokenizer"
)

type triple struct {
	vocab *tokenizer.Vocabulary
	codec *labels.Codec
	model *inference.Model
	runID string
}

// loadTriple reads and decodes the three artifacts in dir. Every file must
// carry the same training run ID.
func loadTriple(dir string) (*triple, error) {
	vh, vp, err := readArtifact(dir, artifact.VocabularyFile, artifact.KindVocabulary)
	if err != nil {
		return nil, err
	}
	lh, lp, err := readArtifact(dir, artifact.LabelsFile, artifact.KindLabels)
	if err != nil {
		return nil, err
	}
	mh, mp, err := readArtifact(dir, artifact.ModelFile, artifact.KindModel)
	if err != nil {
		return nil, err
	}

	if vh.RunID != lh.RunID || vh.RunID != mh.RunID {
		return nil, fmt.Errorf("%w: run ids differ (vocabulary %s, labels %s, model %s)",
			ErrArtifactMismatch, vh.RunID, lh.RunID, mh.RunID)
	}

	vocab, err := tokenizer.UnmarshalVocabulary(vp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, artifact.VocabularyFile, err)
	}
	codec, err := labels.UnmarshalCodec(lp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, artifact.LabelsFile, err)
	}
	model, err := inference.UnmarshalModel(mp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, artifact.ModelFile, err)
	}

	return &triple{vocab: vocab, codec: codec, model: model, runID: vh.RunID}, nil
}

func readArtifact(dir, name string, kind artifact.Kind) (artifact.Header, []byte, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return artifact.Header{}, nil, fmt.Errorf("%w: %w", ErrMissingArtifact, err)
	}

	h, payload, err := artifact.Unmarshal(data, kind)
	if err != nil {
		return artifact.Header{}, nil, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, path, err)
	}
	return h, payload, nil
}
