package perceptron

import "github.com/corefkit/coref/mention"

// CostFunc assigns a non-negative margin cost to predicting an arc under
// a label, given whether the prediction is consistent with the gold
// annotation. Costs are used only during training, where the extraction
// layer bakes them into arc information via BakeCosts.
type CostFunc func(arc mention.Arc, label string, consistent bool) float64

// ConsistencyCost is the reference cost policy: 0 for a consistent
// decision, 2 for an inconsistent decision with a dummy antecedent (a
// "false new", missing an anaphoric link entirely), 1 for any other
// inconsistent decision (a "wrong link").
func ConsistencyCost(arc mention.Arc, label string, consistent bool) float64 {
	switch {
	case consistent:
		return 0
	case arc.Antecedent.IsDummy():
		return 2
	default:
		return 1
	}
}

// NullCost always returns 0, disabling cost-augmented inference for
// approaches that do not need margin tuning.
func NullCost(arc mention.Arc, label string, consistent bool) float64 {
	return 0
}

// BakeCosts fills in the Costs vector of every arc in the information
// map, one entry per label in the fixed label order.
func BakeCosts(info ArcInformation, labels []string, cost CostFunc) {
	for arc, ai := range info {
		costs := make([]float64, len(labels))
		for i, label := range labels {
			costs[i] = cost(arc, label, ai.Consistent)
		}
		ai.Costs = costs
		info[arc] = ai
	}
}
