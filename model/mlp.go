package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"arba/game"
)

type Activation string

const (
	Linear  Activation = "linear"
	ReLU    Activation = "relu"
	Softmax Activation = "softmax"
)

// Layer is a dense layer: out = activation(Weights·in + Bias). Weights holds
// one row per output unit.
type Layer struct {
	Weights    [][]float32 `json:"weights"`
	Bias       []float32   `json:"bias"`
	Activation Activation  `json:"activation"`
}

// MLP is a feed-forward network of dense layers, mirroring the shape of the
// policy networks trained on self-play data.
type MLP struct {
	Layers []Layer `json:"layers"`
}

// LoadMLP reads a JSON-encoded MLP and checks that it maps features onto the
// action space.
func LoadMLP(path string) (*MLP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var m MLP
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnavailable, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
	return &m, nil
}

func (m *MLP) Validate() error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("network has no layers")
	}
	in := game.FeatureCount
	for i, l := range m.Layers {
		if len(l.Weights) == 0 || len(l.Weights) != len(l.Bias) {
			return fmt.Errorf("layer %d: %d weight rows for %d biases", i, len(l.Weights), len(l.Bias))
		}
		for _, row := range l.Weights {
			if len(row) != in {
				return fmt.Errorf("layer %d: expected %d inputs, got %d", i, in, len(row))
			}
		}
		switch l.Activation {
		case Linear, ReLU, Softmax, "":
		default:
			return fmt.Errorf("layer %d: unknown activation %q", i, l.Activation)
		}
		in = len(l.Weights)
	}
	if in != game.ActionSpaceSize {
		return fmt.Errorf("expected %d outputs, got %d", game.ActionSpaceSize, in)
	}
	return nil
}

func (m *MLP) Score(features []float32) ([]float32, error) {
	if err := checkFeatures(features); err != nil {
		return nil, err
	}
	x := features
	for _, l := range m.Layers {
		x = l.forward(x)
	}
	return x, nil
}

func (m *MLP) Close() error { return nil }

func (l Layer) forward(in []float32) []float32 {
	out := make([]float32, len(l.Weights))
	for i, row := range l.Weights {
		sum := l.Bias[i]
		for j, w := range row {
			sum += w * in[j]
		}
		out[i] = sum
	}
	switch l.Activation {
	case ReLU:
		for i, v := range out {
			if v < 0 {
				out[i] = 0
			}
		}
	case Softmax:
		softmax(out)
	}
	return out
}

func softmax(values []float32) {
	maxValue := float32(math.Inf(-1))
	for _, v := range values {
		maxValue = max(maxValue, v)
	}
	var sum float64
	for i, v := range values {
		e := math.Exp(float64(v - maxValue))
		values[i] = float32(e)
		sum += e
	}
	for i := range values {
		values[i] = float32(float64(values[i]) / sum)
	}
}
