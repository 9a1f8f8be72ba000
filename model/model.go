// Package model loads learned move scorers: a dense network stored as JSON or
// an ONNX graph evaluated through onnxruntime.
package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"arba/game"
)

// ErrUnavailable reports that no usable model could be loaded. Callers fall
// back to random play.
var ErrUnavailable = errors.New("model unavailable")

// Scorer maps a game.FeatureCount feature vector onto one score per entry of
// the game.ActionSpaceSize action space. Higher scores mean better actions.
type Scorer interface {
	Score(features []float32) ([]float32, error)
	Close() error
}

type Options struct {
	Path string
	// OnnxLibrary is the onnxruntime shared library. Empty uses the runtime's
	// default lookup.
	OnnxLibrary string
	InputName   string
	OutputName  string
}

// Load opens the model named by opts.Path, choosing the format from the file
// extension.
func Load(opts Options) (Scorer, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: no model path configured", ErrUnavailable)
	}
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var (
		scorer Scorer
		err    error
	)
	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".json":
		scorer, err = LoadMLP(opts.Path)
	case ".onnx":
		scorer, err = loadONNX(opts)
	default:
		return nil, fmt.Errorf("%w: unsupported model format %q", ErrUnavailable, filepath.Ext(opts.Path))
	}
	if err != nil {
		return nil, err
	}
	return scorer, nil
}

func checkFeatures(features []float32) error {
	if len(features) != game.FeatureCount {
		return fmt.Errorf("expected %d features, got %d", game.FeatureCount, len(features))
	}
	return nil
}
