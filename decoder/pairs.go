package decoder

import (
	"fmt"

	"github.com/corefkit/coref/mention"
	"github.com/corefkit/coref/perceptron"
)

// MentionPair labels a single anaphor-antecedent pair per substructure
// as coreferent ("+") or not ("-"). The search chooses a label, not an
// arc.
type MentionPair struct{}

// Argmax returns the highest-scoring label for the pair and the correct
// label derived from the gold-consistency flag.
func (MentionPair) Argmax(sub mention.Substructure, info perceptron.ArcInformation, s *perceptron.Scorer) (perceptron.Decision, error) {
	if len(sub) == 0 {
		return perceptron.Decision{Consistent: true}, nil
	}
	if len(sub) != 1 {
		return perceptron.Decision{}, fmt.Errorf("decoder: mention-pair substructure has %d arcs, want 1", len(sub))
	}

	arc := sub[0]
	scoreCoref := s.Score(arc, info, "+")
	scoreNonCoref := s.Score(arc, info, "-")

	label, score := "+", scoreCoref
	if scoreNonCoref > scoreCoref {
		label, score = "-", scoreNonCoref
	}

	corefLabel, corefScore := "-", scoreNonCoref
	if info[arc].Consistent {
		corefLabel, corefScore = "+", scoreCoref
	}

	return perceptron.Decision{
		Arcs:       []mention.Arc{arc},
		Labels:     []string{label},
		Scores:     []float64{score},
		ConsArcs:   []mention.Arc{arc},
		ConsLabels: []string{corefLabel},
		ConsScores: []float64{corefScore},
		Consistent: label == corefLabel,
	}, nil
}

func (MentionPair) Labels() []string      { return []string{"+", "-"} }
func (MentionPair) CorefLabels() []string { return corefOnly }
