package model

import (
	"fmt"
	"sync"

	"arba/game"

	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

var ortMu sync.Mutex

// ensureEnvironment initialises the process-wide onnxruntime environment on
// first use.
func ensureEnvironment(library string) error {
	ortMu.Lock()
	defer ortMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if library != "" {
		ort.SetSharedLibraryPath(library)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initializing onnxruntime: %w", err)
	}
	log.Info().Msgf("onnxruntime environment initialized")
	return nil
}

// Shutdown releases the onnxruntime environment if it was initialised.
func Shutdown() error {
	ortMu.Lock()
	defer ortMu.Unlock()
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

type onnxScorer struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
}

func loadONNX(opts Options) (*onnxScorer, error) {
	if err := ensureEnvironment(opts.OnnxLibrary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	input, output := opts.InputName, opts.OutputName
	if input == "" {
		input = "input"
	}
	if output == "" {
		output = "output"
	}
	session, err := ort.NewDynamicAdvancedSession(opts.Path, []string{input}, []string{output}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating session for %s: %v", ErrUnavailable, opts.Path, err)
	}
	log.Info().Msgf("Loaded ONNX model %s (%s -> %s)", opts.Path, input, output)
	return &onnxScorer{session: session}, nil
}

func (s *onnxScorer) Score(features []float32) ([]float32, error) {
	if err := checkFeatures(features); err != nil {
		return nil, err
	}
	in, err := ort.NewTensor(ort.NewShape(1, game.FeatureCount), append([]float32(nil), features...))
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer in.Destroy()
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, game.ActionSpaceSize))
	if err != nil {
		return nil, fmt.Errorf("creating output tensor: %w", err)
	}
	defer out.Destroy()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, fmt.Errorf("%w: session closed", ErrUnavailable)
	}
	if err := s.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("running model: %w", err)
	}
	return append([]float32(nil), out.GetData()...), nil
}

func (s *onnxScorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	return err
}
