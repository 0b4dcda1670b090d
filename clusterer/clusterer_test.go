package clusterer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corefkit/coref/mention"
)

func testMentions(n int) []*mention.Mention {
	mentions := make([]*mention.Mention, n+1)
	mentions[0] = mention.NewDummy()
	for i := 1; i <= n; i++ {
		mentions[i] = &mention.Mention{Index: i}
	}
	return mentions
}

func TestTransitiveClosure(t *testing.T) {
	ms := testMentions(4)

	// m1 <- m2 <- m4 form one chain, m3 is discourse-new.
	subs := [][]mention.Arc{
		{{Anaphor: ms[1], Antecedent: ms[0]}},
		{{Anaphor: ms[2], Antecedent: ms[1]}},
		{{Anaphor: ms[3], Antecedent: ms[0]}},
		{{Anaphor: ms[4], Antecedent: ms[2]}},
	}

	result := TransitiveClosure(subs, nil, nil, []string{"+"})

	assert.Equal(t, map[*mention.Mention]int{
		ms[1]: 1,
		ms[2]: 1,
		ms[4]: 1,
	}, result.Entities)
	assert.Equal(t, map[*mention.Mention]*mention.Mention{
		ms[2]: ms[1],
		ms[4]: ms[2],
	}, result.Antecedents)
	// Dummy-attached mentions stay out of the maps entirely.
	assert.NotContains(t, result.Entities, ms[3])
}

func TestTransitiveClosureDeterministic(t *testing.T) {
	ms := testMentions(3)
	subs := [][]mention.Arc{
		{{Anaphor: ms[1], Antecedent: ms[0]}},
		{{Anaphor: ms[2], Antecedent: ms[1]}},
		{{Anaphor: ms[3], Antecedent: ms[1]}},
	}

	first := TransitiveClosure(subs, nil, nil, []string{"+"})
	second := TransitiveClosure(subs, nil, nil, []string{"+"})

	assert.Equal(t, first.Entities, second.Entities)
	assert.Equal(t, first.Antecedents, second.Antecedents)
}

func TestTransitiveClosureMultiArcSubstructure(t *testing.T) {
	ms := testMentions(3)

	// A document-wide substructure: all arcs in one slice.
	subs := [][]mention.Arc{{
		{Anaphor: ms[1], Antecedent: ms[0]},
		{Anaphor: ms[2], Antecedent: ms[1]},
		{Anaphor: ms[3], Antecedent: ms[2]},
	}}

	result := TransitiveClosure(subs, nil, nil, []string{"+"})
	require.Len(t, result.Entities, 3)
	assert.Equal(t, 1, result.Entities[ms[3]])
}

func TestBestFirst(t *testing.T) {
	ms := testMentions(3)

	// Pairwise decisions for anaphor m3: m2 coreferent at 0.8, m1
	// coreferent at 0.5, dummy non-coreferent.
	subs := [][]mention.Arc{
		{{Anaphor: ms[3], Antecedent: ms[2]}},
		{{Anaphor: ms[3], Antecedent: ms[1]}},
		{{Anaphor: ms[3], Antecedent: ms[0]}},
	}
	labels := [][]string{{"+"}, {"+"}, {"-"}}
	scores := [][]float64{{0.8}, {0.5}, {1.2}}

	result := BestFirst(subs, labels, scores, []string{"+"})

	assert.Equal(t, ms[2], result.Antecedents[ms[3]])
	assert.Equal(t, 2, result.Entities[ms[3]])
	assert.Equal(t, 2, result.Entities[ms[2]])
}

func TestBestFirstTieKeepsEarlierArc(t *testing.T) {
	ms := testMentions(3)

	subs := [][]mention.Arc{
		{{Anaphor: ms[3], Antecedent: ms[2]}},
		{{Anaphor: ms[3], Antecedent: ms[1]}},
	}
	labels := [][]string{{"+"}, {"+"}}
	scores := [][]float64{{0.5}, {0.5}}

	result := BestFirst(subs, labels, scores, []string{"+"})
	assert.Equal(t, ms[2], result.Antecedents[ms[3]])
}

func TestBestFirstMultipleAnaphors(t *testing.T) {
	ms := testMentions(3)

	subs := [][]mention.Arc{
		{{Anaphor: ms[2], Antecedent: ms[1]}},
		{{Anaphor: ms[2], Antecedent: ms[0]}},
		{{Anaphor: ms[3], Antecedent: ms[2]}},
		{{Anaphor: ms[3], Antecedent: ms[1]}},
	}
	labels := [][]string{{"+"}, {"-"}, {"-"}, {"+"}}
	scores := [][]float64{{0.3}, {0.9}, {0.4}, {0.2}}

	result := BestFirst(subs, labels, scores, []string{"+"})

	assert.Equal(t, ms[1], result.Antecedents[ms[2]])
	assert.Equal(t, ms[1], result.Antecedents[ms[3]])
	// Both join the entity anchored at m1.
	assert.Equal(t, 1, result.Entities[ms[2]])
	assert.Equal(t, 1, result.Entities[ms[3]])
}

func TestBestFirstAllNonCoreferent(t *testing.T) {
	ms := testMentions(2)

	subs := [][]mention.Arc{
		{{Anaphor: ms[2], Antecedent: ms[1]}},
		{{Anaphor: ms[2], Antecedent: ms[0]}},
	}
	labels := [][]string{{"-"}, {"-"}}
	scores := [][]float64{{0.7}, {0.9}}

	result := BestFirst(subs, labels, scores, []string{"+"})
	assert.Empty(t, result.Entities)
	assert.Empty(t, result.Antecedents)
}
