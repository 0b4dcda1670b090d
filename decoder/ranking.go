// Package decoder provides the concrete decoder variants of the latent
// structured perceptron: mention ranking with latent or closest gold
// antecedents, antecedent trees, and mention pairs.
//
// All variants operate on substructures whose candidate antecedents are
// ordered by increasing anaphor-antecedent distance; the ranking variants
// rely on that order.
package decoder

import (
	"fmt"

	"github.com/corefkit/coref/mention"
	"github.com/corefkit/coref/perceptron"
)

var corefOnly = []string{perceptron.DefaultLabel}

// Ranking decodes one antecedent decision per substructure, comparing
// the prediction against the highest-scoring gold-consistent antecedent
// (latent antecedents).
type Ranking struct{}

// Argmax returns the highest-scoring arc for the substructure's anaphor
// and the highest-scoring gold-consistent arc. On a score tie the arc
// with the smaller anaphor-antecedent distance wins.
func (Ranking) Argmax(sub mention.Substructure, info perceptron.ArcInformation, s *perceptron.Scorer) (perceptron.Decision, error) {
	if len(sub) == 0 {
		return perceptron.Decision{Consistent: true}, nil
	}

	best, cons, bestScore, consScore, consistent, ok, consOK := s.FindBestArcs(sub, info)
	if !ok {
		return perceptron.Decision{}, fmt.Errorf("decoder: no decodable arc in substructure")
	}

	dec := perceptron.Decision{
		Arcs:       []mention.Arc{best},
		Scores:     []float64{bestScore},
		Consistent: consistent,
	}
	if consOK {
		dec.ConsArcs = []mention.Arc{cons}
		dec.ConsScores = []float64{consScore}
	}
	return dec, nil
}

func (Ranking) Labels() []string      { return corefOnly }
func (Ranking) CorefLabels() []string { return corefOnly }

// ClosestRanking decodes like Ranking but compares the prediction
// against the closest gold antecedent instead of the highest-scoring
// one. Precondition: the substructure lists candidates by increasing
// anaphor-antecedent distance, so the first consistent arc is the
// closest one.
type ClosestRanking struct{}

// Argmax returns the highest-scoring arc and the first gold-consistent
// arc in substructure order.
func (ClosestRanking) Argmax(sub mention.Substructure, info perceptron.ArcInformation, s *perceptron.Scorer) (perceptron.Decision, error) {
	if len(sub) == 0 {
		return perceptron.Decision{Consistent: true}, nil
	}

	var (
		best       mention.Arc
		bestScore  float64
		cons       mention.Arc
		consScore  float64
		consistent bool
		ok, consOK bool
	)

	for _, arc := range sub {
		score := s.Score(arc, info, perceptron.DefaultLabel)
		arcConsistent := info[arc].Consistent

		if !ok || score > bestScore ||
			(score == bestScore && arc.Distance() < best.Distance()) {
			best = arc
			bestScore = score
			consistent = arcConsistent
			ok = true
		}

		if !consOK && arcConsistent {
			cons = arc
			consScore = score
			consOK = true
		}
	}

	dec := perceptron.Decision{
		Arcs:       []mention.Arc{best},
		Scores:     []float64{bestScore},
		Consistent: consistent,
	}
	if consOK {
		dec.ConsArcs = []mention.Arc{cons}
		dec.ConsScores = []float64{consScore}
	}
	return dec, nil
}

func (ClosestRanking) Labels() []string      { return corefOnly }
func (ClosestRanking) CorefLabels() []string { return corefOnly }
