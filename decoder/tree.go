package decoder

import (
	"container/heap"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/corefkit/coref/mention"
	"github.com/corefkit/coref/perceptron"
)

// AntecedentTree decodes a whole document at once: the substructure
// contains the candidate arcs of every anaphor, grouped per anaphor in
// document order. One antecedent is chosen per anaphor; the chosen arcs
// form a tree rooted in the dummy mention.
type AntecedentTree struct{}

// Argmax returns the highest-scoring antecedent tree and the
// highest-scoring tree consistent with the gold annotation.
func (AntecedentTree) Argmax(sub mention.Substructure, info perceptron.ArcInformation, s *perceptron.Scorer) (perceptron.Decision, error) {
	if len(sub) == 0 {
		return perceptron.Decision{Consistent: true}, nil
	}

	dec := perceptron.Decision{Consistent: true}

	for _, run := range anaphorRuns(sub) {
		best, cons, bestScore, consScore, consistent, ok, consOK := s.FindBestArcs(run, info)
		if !ok {
			return perceptron.Decision{}, fmt.Errorf("decoder: no decodable arc for anaphor %v", run[0].Anaphor)
		}

		dec.Arcs = append(dec.Arcs, best)
		dec.Scores = append(dec.Scores, bestScore)
		if consOK {
			dec.ConsArcs = append(dec.ConsArcs, cons)
			dec.ConsScores = append(dec.ConsScores, consScore)
		}
		dec.Consistent = dec.Consistent && consistent
	}
	return dec, nil
}

func (AntecedentTree) Labels() []string      { return corefOnly }
func (AntecedentTree) CorefLabels() []string { return corefOnly }

// KBest enumerates the k highest-scoring distinct antecedent trees in
// descending order of total score. Antecedent decisions are independent
// across anaphors, so successors of a tree are generated by moving one
// anaphor to its next-best antecedent.
func (AntecedentTree) KBest(sub mention.Substructure, info perceptron.ArcInformation, s *perceptron.Scorer, k int) ([]perceptron.Prediction, error) {
	if k <= 0 {
		return nil, fmt.Errorf("decoder: k must be positive, got %d", k)
	}
	if len(sub) == 0 {
		return nil, nil
	}

	// Rank each anaphor's candidates once, best first.
	var runs [][]scoredArc
	for _, run := range anaphorRuns(sub) {
		candidates := make([]scoredArc, len(run))
		for i, arc := range run {
			candidates[i] = scoredArc{arc, s.Score(arc, info, perceptron.DefaultLabel)}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].score != candidates[j].score {
				return candidates[i].score > candidates[j].score
			}
			return candidates[i].arc.Distance() < candidates[j].arc.Distance()
		})
		runs = append(runs, candidates)
	}

	start := treeState{choices: make([]int, len(runs))}
	for _, candidates := range runs {
		start.total += candidates[0].score
	}

	frontier := &treeHeap{start}
	seen := map[string]bool{start.key(): true}

	var out []perceptron.Prediction
	for frontier.Len() > 0 && len(out) < k {
		state := heap.Pop(frontier).(treeState)

		pred := perceptron.Prediction{
			Arcs:   make([]mention.Arc, len(runs)),
			Scores: make([]float64, len(runs)),
		}
		for i, choice := range state.choices {
			pred.Arcs[i] = runs[i][choice].arc
			pred.Scores[i] = runs[i][choice].score
		}
		out = append(out, pred)

		for i := range state.choices {
			if state.choices[i]+1 >= len(runs[i]) {
				continue
			}
			next := treeState{choices: append([]int(nil), state.choices...)}
			next.choices[i]++
			next.total = state.total - runs[i][state.choices[i]].score + runs[i][next.choices[i]].score
			if key := next.key(); !seen[key] {
				seen[key] = true
				heap.Push(frontier, next)
			}
		}
	}
	return out, nil
}

// anaphorRuns splits a document-wide substructure into the contiguous
// candidate runs of its anaphors.
func anaphorRuns(sub mention.Substructure) []mention.Substructure {
	var runs []mention.Substructure
	startIdx := 0
	for i := 1; i <= len(sub); i++ {
		if i == len(sub) || sub[i].Anaphor != sub[startIdx].Anaphor {
			runs = append(runs, sub[startIdx:i])
			startIdx = i
		}
	}
	return runs
}

type scoredArc struct {
	arc   mention.Arc
	score float64
}

type treeState struct {
	choices []int
	total   float64
}

func (t treeState) key() string {
	var b strings.Builder
	for _, c := range t.choices {
		b.WriteString(strconv.Itoa(c))
		b.WriteByte(',')
	}
	return b.String()
}

// treeHeap is a max-heap of tree states by total score.
type treeHeap []treeState

func (h treeHeap) Len() int            { return len(h) }
func (h treeHeap) Less(i, j int) bool  { return h[i].total > h[j].total }
func (h treeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *treeHeap) Push(x any)         { *h = append(*h, x.(treeState)) }
func (h *treeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
