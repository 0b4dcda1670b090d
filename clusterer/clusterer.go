// Package clusterer derives entity partitions from decoded
// anaphor-antecedent arcs.
package clusterer

import (
	"math"

	"github.com/corefkit/coref/mention"
)

// Result holds the output of clustering: entity ids per mention and the
// antecedent each anaphoric mention was attached to. Entity ids are
// derived from the position of the entity's first antecedent among the
// extracted mentions and are never reassigned within one pass.
type Result struct {
	Entities    map[*mention.Mention]int
	Antecedents map[*mention.Mention]*mention.Mention
}

func newResult() Result {
	return Result{
		Entities:    make(map[*mention.Mention]int),
		Antecedents: make(map[*mention.Mention]*mention.Mention),
	}
}

func (r Result) attach(anaphor, antecedent *mention.Mention) {
	r.Antecedents[anaphor] = antecedent
	if _, ok := r.Entities[antecedent]; !ok {
		r.Entities[antecedent] = antecedent.Index
	}
	r.Entities[anaphor] = r.Entities[antecedent]
}

// Clusterer converts decoded substructures into an entity assignment.
// labels and scores are parallel to substructures, as returned by
// perceptron.Predict; corefLabels marks the labels that establish a
// coreference link.
type Clusterer func(substructures [][]mention.Arc, labels [][]string, scores [][]float64, corefLabels []string) Result

// TransitiveClosure clusters by following every decoded arc: each
// anaphor joins its antecedent's entity, and antecedent chains connect
// transitively. Dummy antecedents are skipped, leaving the anaphor a
// singleton. One pass suffices because antecedents always precede their
// anaphors in processing order, so an antecedent's entity id exists by
// the time it is needed. Labels and scores are ignored.
func TransitiveClosure(substructures [][]mention.Arc, labels [][]string, scores [][]float64, corefLabels []string) Result {
	result := newResult()

	for _, sub := range substructures {
		for _, arc := range sub {
			if arc.Antecedent.IsDummy() {
				continue
			}
			result.attach(arc.Anaphor, arc.Antecedent)
		}
	}
	return result
}

// BestFirst clusters pairwise decisions by picking, for each anaphor,
// the best-scoring antecedent among its coreferent-labeled arcs. Each
// substructure must hold exactly one arc, and arcs with the same anaphor
// must be consecutive; ties are broken in favor of the earlier arc.
func BestFirst(substructures [][]mention.Arc, labels [][]string, scores [][]float64, corefLabels []string) Result {
	result := newResult()

	coref := make(map[string]bool, len(corefLabels))
	for _, l := range corefLabels {
		coref[l] = true
	}

	var (
		anaphor *mention.Mention
		best    *mention.Mention
		maxVal  = math.Inf(-1)
	)

	flush := func() {
		if anaphor != nil && best != nil && !best.IsDummy() {
			result.attach(anaphor, best)
		}
		best = nil
		maxVal = math.Inf(-1)
	}

	for i, sub := range substructures {
		if len(sub) == 0 {
			continue
		}
		arc := sub[0]
		if arc.Anaphor != anaphor {
			flush()
			anaphor = arc.Anaphor
		}
		if len(labels[i]) == 0 || len(scores[i]) == 0 {
			continue
		}
		if scores[i][0] > maxVal && coref[labels[i][0]] {
			maxVal = scores[i][0]
			best = arc.Antecedent
		}
	}
	flush()

	return result
}
