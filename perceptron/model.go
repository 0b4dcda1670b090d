// Package perceptron implements a latent-variable structured perceptron:
// a hashed-feature weight store, an arc scoring function with
// cost-augmented inference, a pluggable decoder contract, and an online
// trainer with parameter averaging.
package perceptron

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/corefkit/coref/internal/hashing"
	"github.com/corefkit/coref/mention"
)

// DefaultLabel is the single label of unlabeled approaches, meaning
// "coreferent".
const DefaultLabel = "+"

// Model holds the learned parameters: a prior and a fixed-size weight
// array per label. Feature descriptors are hashed into the weight arrays;
// collisions are tolerated as an approximation. The label set and the
// array capacity are fixed at construction and never change at runtime.
//
// A Model is exclusively owned by the Trainer during training and
// read-only afterwards; concurrent readers need no locking once training
// is done.
type Model struct {
	Labels  []string             `json:"labels"`
	Size    int                  `json:"size"`
	Priors  map[string]float64   `json:"priors"`
	Weights map[string][]float64 `json:"weights"`

	space hashing.Space
}

// NewModel creates a zeroed model for the given ordered label set. size
// is the weight-array capacity per label and must be a positive power of
// two; use hashing.DefaultSize unless memory is constrained.
func NewModel(labels []string, size int) (*Model, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("perceptron: empty label set")
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return nil, fmt.Errorf("perceptron: duplicate label %q", l)
		}
		seen[l] = true
	}

	m := &Model{
		Labels:  labels,
		Size:    size,
		Priors:  make(map[string]float64, len(labels)),
		Weights: make(map[string][]float64, len(labels)),
	}
	for _, l := range labels {
		m.Priors[l] = 0
		m.Weights[l] = make([]float64, size)
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// init validates the model and sets up the hash space. It is called after
// construction and after deserialization; mismatches between the label
// set and the weight arrays fail here, at load time.
func (m *Model) init() error {
	if m.Size <= 0 || m.Size&(m.Size-1) != 0 {
		return fmt.Errorf("perceptron: weight array size %d is not a positive power of two", m.Size)
	}
	for _, l := range m.Labels {
		w, ok := m.Weights[l]
		if !ok {
			return fmt.Errorf("perceptron: no weights for label %q", l)
		}
		if len(w) != m.Size {
			return fmt.Errorf("perceptron: weights for label %q have length %d, want %d",
				l, len(w), m.Size)
		}
		if _, ok := m.Priors[l]; !ok {
			return fmt.Errorf("perceptron: no prior for label %q", l)
		}
	}
	m.space = hashing.NewSpace(m.Size)
	return nil
}

// LabelIndex returns the fixed label-to-position bijection. Cost vectors
// in arc information are indexed by these positions.
func (m *Model) LabelIndex() map[string]int {
	idx := make(map[string]int, len(m.Labels))
	for i, l := range m.Labels {
		idx[l] = i
	}
	return idx
}

// Hash maps a feature descriptor into the model's weight index space.
// The extraction layer uses this to build Features for arc information.
func (m *Model) Hash(feature string) uint32 {
	return m.space.Index(feature)
}

// HashAll maps a list of feature descriptors, preserving order.
func (m *Model) HashAll(features []string) []uint32 {
	return m.space.Indices(features)
}

// Features is the feature representation of one arc: three parallel
// sequences of hashed non-numeric feature indices, hashed numeric feature
// indices, and the numeric features' values. The same numeric index may
// recur with different values.
type Features struct {
	Hashed  []uint32  `json:"hashed,omitempty"`
	Numeric []uint32  `json:"numeric,omitempty"`
	Values  []float64 `json:"values,omitempty"`
}

// ArcInfo is the precomputed information about one arc: its feature
// representation, its margin costs indexed by label position (nil when
// costs are inapplicable), and whether predicting the arc is consistent
// with the gold annotation.
type ArcInfo struct {
	Features   Features
	Costs      []float64
	Consistent bool
}

// ArcInformation maps arcs to their precomputed information. It is
// produced by the extraction layer and read-only from the core's
// perspective.
type ArcInformation map[mention.Arc]ArcInfo

// SaveModel serializes the model to a JSON file.
func SaveModel(m *Model, path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModel deserializes a model from a JSON file, validating the label
// set against the weight arrays.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalModel(data)
}

// MarshalModel serializes the model to JSON bytes.
func MarshalModel(m *Model) ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalModel deserializes and validates a model from JSON bytes.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return &m, nil
}
