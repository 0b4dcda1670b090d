package perceptron

import (
	"math"

	"github.com/corefkit/coref/mention"
)

// Scorer computes arc scores against a model:
//
//	score(arc, label) = prior[label]
//	                  + costScaling * costs[label]
//	                  + sum of weights over the arc's hashed features
//	                  (value-scaled for numeric features)
//
// The cost term implements cost-augmented inference during training; a
// costScaling of zero (or a nil cost vector) excludes it, which is the
// prediction-time configuration. All arithmetic is in double precision
// and summation order follows slice order, so identical inputs yield
// identical scores.
type Scorer struct {
	model       *Model
	labelIdx    map[string]int
	costScaling float64
}

// NewScorer creates a scorer over the model. costScaling controls the
// cost term; pass 0 for final prediction.
func NewScorer(m *Model, costScaling float64) *Scorer {
	return &Scorer{
		model:       m,
		labelIdx:    m.LabelIndex(),
		costScaling: costScaling,
	}
}

// Model returns the scored model.
func (s *Scorer) Model() *Model {
	return s.model
}

// HasLabel reports whether the label belongs to the model's label set.
func (s *Scorer) HasLabel(label string) bool {
	_, ok := s.labelIdx[label]
	return ok
}

// Score returns the score of an arc under a label. The label must belong
// to the model's label set; decoders are validated against the model
// before decoding starts.
func (s *Scorer) Score(arc mention.Arc, info ArcInformation, label string) float64 {
	ai := info[arc]
	score := s.model.Priors[label]

	if s.costScaling != 0 && ai.Costs != nil {
		score += s.costScaling * ai.Costs[s.labelIdx[label]]
	}

	w := s.model.Weights[label]
	for _, idx := range ai.Features.Hashed {
		score += w[idx]
	}
	for i, idx := range ai.Features.Numeric {
		score += w[idx] * ai.Features.Values[i]
	}
	return score
}

// FindBestArcs scans a candidate arc sequence and returns the
// highest-scoring arc and the highest-scoring arc consistent with the
// gold annotation, scored under the default label. Ties are broken in
// favor of the smaller anaphor-antecedent distance. ok is false when the
// candidate sequence is empty; consOK is false when no candidate is
// gold-consistent.
func (s *Scorer) FindBestArcs(arcs []mention.Arc, info ArcInformation) (
	best, cons mention.Arc, bestScore, consScore float64,
	consistent, ok, consOK bool) {

	bestScore = math.Inf(-1)
	consScore = math.Inf(-1)

	for _, arc := range arcs {
		score := s.Score(arc, info, DefaultLabel)
		arcConsistent := info[arc].Consistent

		if !ok || score > bestScore ||
			(score == bestScore && arc.Distance() < best.Distance()) {
			best = arc
			bestScore = score
			consistent = arcConsistent
			ok = true
		}

		if arcConsistent && (!consOK || score > consScore ||
			(score == consScore && arc.Distance() < cons.Distance())) {
			cons = arc
			consScore = score
			consOK = true
		}
	}
	return
}
