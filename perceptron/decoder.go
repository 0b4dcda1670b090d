package perceptron

import (
	"fmt"

	"github.com/corefkit/coref/mention"
)

// Decision is the result of decoding one substructure: the
// highest-scoring assignment unconstrained by gold data, the
// highest-scoring assignment restricted to gold-consistent arcs (for
// some variants, the closest gold-consistent one instead), and whether
// the two coincide. Label slices are empty for unlabeled approaches.
type Decision struct {
	Arcs   []mention.Arc
	Labels []string
	Scores []float64

	ConsArcs   []mention.Arc
	ConsLabels []string
	ConsScores []float64

	Consistent bool
}

// Decoder computes the best assignment for one substructure. Variants
// differ in how they define a substructure (one anaphor, a whole
// document, a single pair) and in how the gold-constrained assignment is
// chosen; all satisfy this contract and are swappable.
type Decoder interface {
	// Argmax decodes one substructure. For a non-empty substructure the
	// returned decision must contain at least one arc; an empty result is
	// a decoding invariant violation and reported as an error.
	Argmax(sub mention.Substructure, info ArcInformation, s *Scorer) (Decision, error)

	// Labels returns the decoder's ordered label set. Cost vectors in arc
	// information are indexed in this order.
	Labels() []string

	// CorefLabels returns the labels that mark an arc as coreferent, used
	// by clustering.
	CorefLabels() []string
}

// Prediction is one entry of a k-best list.
type Prediction struct {
	Arcs   []mention.Arc
	Labels []string
	Scores []float64
}

// KBestDecoder is implemented by document-wide decoders that can
// enumerate the k highest-scoring distinct substructures in descending
// score order. It is used for analysis, not training.
type KBestDecoder interface {
	Decoder
	KBest(sub mention.Substructure, info ArcInformation, s *Scorer, k int) ([]Prediction, error)
}

// Predict decodes all substructures with a no-cost scorer against a
// frozen model. It returns parallel nested slices of arcs, labels and
// scores, one outer entry per input substructure. Substructures are
// independent at prediction time; no state is shared across them.
func Predict(d Decoder, m *Model, subs []mention.Substructure, info ArcInformation) (
	arcs [][]mention.Arc, labels [][]string, scores [][]float64, err error) {

	if err := ValidateLabels(d, m); err != nil {
		return nil, nil, nil, err
	}
	scorer := NewScorer(m, 0)

	arcs = make([][]mention.Arc, len(subs))
	labels = make([][]string, len(subs))
	scores = make([][]float64, len(subs))

	for i, sub := range subs {
		if len(sub) == 0 {
			continue
		}
		dec, err := d.Argmax(sub, info, scorer)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("substructure %d: %w", i, err)
		}
		arcs[i] = dec.Arcs
		labels[i] = dec.Labels
		scores[i] = dec.Scores
	}
	return arcs, labels, scores, nil
}

// ValidateLabels checks the decoder's label set against the model's.
// Mismatches are configuration errors and fail before any decoding.
func ValidateLabels(d Decoder, m *Model) error {
	want := d.Labels()
	if len(want) != len(m.Labels) {
		return fmt.Errorf("perceptron: decoder has %d labels, model has %d",
			len(want), len(m.Labels))
	}
	for i, l := range want {
		if m.Labels[i] != l {
			return fmt.Errorf("perceptron: decoder label %q at position %d, model has %q",
				l, i, m.Labels[i])
		}
	}
	return nil
}
