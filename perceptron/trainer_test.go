package perceptron

import (
	"math"
	"reflect"
	"testing"

	"github.com/corefkit/coref/internal/hashing"
	"github.com/corefkit/coref/mention"
)

const testSize = 1 << 8

// rankingArgmax is a minimal one-antecedent-per-substructure decoder for
// exercising the trainer without pulling in the decoder variants.
type rankingArgmax struct{}

func (rankingArgmax) Argmax(sub mention.Substructure, info ArcInformation, s *Scorer) (Decision, error) {
	best, cons, bestScore, consScore, consistent, ok, consOK := s.FindBestArcs(sub, info)
	if !ok {
		return Decision{Consistent: true}, nil
	}
	dec := Decision{
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

func (rankingArgmax) Labels() []string      { return []string{DefaultLabel} }
func (rankingArgmax) CorefLabels() []string { return []string{DefaultLabel} }

func trainInfo(m map[mention.Arc]ArcInfo) ArcInformation {
	info := make(ArcInformation, len(m))
	for arc, ai := range m {
		info[arc] = ai
	}
	BakeCosts(info, []string{DefaultLabel}, ConsistencyCost)
	return info
}

func TestSingleMistakeUpdate(t *testing.T) {
	ms := testMentions(3)
	good := mention.Arc{Anaphor: ms[3], Antecedent: ms[2]}
	bad := mention.Arc{Anaphor: ms[3], Antecedent: ms[1]}

	space := hashing.NewSpace(testSize)
	info := trainInfo(map[mention.Arc]ArcInfo{
		good: {Features: Features{Hashed: []uint32{space.Index("good")}}, Consistent: true},
		bad:  {Features: Features{Hashed: []uint32{space.Index("bad")}}},
	})
	subs := []mention.Substructure{{good, bad}}

	trainer, err := NewTrainer(rankingArgmax{}, TrainerConfig{
		Epochs: 1, Seed: 23, CostScaling: 1, Size: testSize,
	})
	if err != nil {
		t.Fatal(err)
	}

	// With zero weights the cost term makes the inconsistent arc win
	// (score 1 vs 0), forcing exactly one update.
	model, err := trainer.Fit(subs, info)
	if err != nil {
		t.Fatal(err)
	}

	if got := model.Weights["+"][space.Index("good")]; got != 1 {
		t.Errorf("weight of consistent arc's feature = %v, want +1", got)
	}
	if got := model.Weights["+"][space.Index("bad")]; got != -1 {
		t.Errorf("weight of predicted arc's feature = %v, want -1", got)
	}
	// +1 and -1 to the same label's prior cancel out.
	if got := model.Priors["+"]; got != 0 {
		t.Errorf("prior = %v, want 0", got)
	}
}

func TestAveragingMatchesNaiveDefinition(t *testing.T) {
	// One instance, three epochs, cost scaling 2. Hand simulation:
	//
	//   epoch 1: dummy arc scores 4, link arc 0 -> mistake at counter 0;
	//            live becomes b=+1, c=-1
	//   epoch 2: dummy arc scores 3, link arc 1 -> mistake at counter 1;
	//            live becomes b=+2, c=-2
	//   epoch 3: both score 2 -> tie, closer link arc wins, consistent;
	//            no update
	//
	// Naive average over the three decisions: b = (1+2+2)/3 = 5/3 and
	// c = -5/3; the lazy counter-scaled cache must reproduce it.
	ms := testMentions(2)
	link := mention.Arc{Anaphor: ms[2], Antecedent: ms[1]}
	dummy := mention.Arc{Anaphor: ms[2], Antecedent: ms[0]}

	space := hashing.NewSpace(testSize)
	info := trainInfo(map[mention.Arc]ArcInfo{
		link:  {Features: Features{Hashed: []uint32{space.Index("b")}}, Consistent: true},
		dummy: {Features: Features{Hashed: []uint32{space.Index("c")}}},
	})
	subs := []mention.Substructure{{link, dummy}}

	trainer, err := NewTrainer(rankingArgmax{}, TrainerConfig{
		Epochs: 3, Seed: 23, CostScaling: 2, Size: testSize,
	})
	if err != nil {
		t.Fatal(err)
	}
	model, err := trainer.Fit(subs, info)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := model.Weights["+"][space.Index("b")], 5.0/3.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("averaged weight b = %v, want %v", got, want)
	}
	if got, want := model.Weights["+"][space.Index("c")], -5.0/3.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("averaged weight c = %v, want %v", got, want)
	}
}

func TestTrainingDeterminism(t *testing.T) {
	ms := testMentions(4)
	space := hashing.NewSpace(testSize)

	arcs := []mention.Arc{
		{Anaphor: ms[1], Antecedent: ms[0]},
		{Anaphor: ms[2], Antecedent: ms[1]},
		{Anaphor: ms[2], Antecedent: ms[0]},
		{Anaphor: ms[3], Antecedent: ms[2]},
		{Anaphor: ms[3], Antecedent: ms[1]},
		{Anaphor: ms[3], Antecedent: ms[0]},
		{Anaphor: ms[4], Antecedent: ms[3]},
		{Anaphor: ms[4], Antecedent: ms[0]},
	}
	consistent := map[int]bool{0: true, 2: true, 3: true, 6: true}
	raw := make(map[mention.Arc]ArcInfo, len(arcs))
	for i, arc := range arcs {
		feats := []string{"pair" + arc.String(), "dist"}
		raw[arc] = ArcInfo{
			Features:   Features{Hashed: space.Indices(feats)},
			Consistent: consistent[i],
		}
	}
	info := trainInfo(raw)
	subs := []mention.Substructure{
		{arcs[0]},
		{arcs[1], arcs[2]},
		{arcs[3], arcs[4], arcs[5]},
		{arcs[6], arcs[7]},
	}

	run := func() *Model {
		trainer, err := NewTrainer(rankingArgmax{}, TrainerConfig{
			Epochs: 5, Seed: 23, CostScaling: 1, Size: testSize,
		})
		if err != nil {
			t.Fatal(err)
		}
		model, err := trainer.Fit(subs, info)
		if err != nil {
			t.Fatal(err)
		}
		return model
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first.Weights, second.Weights) {
		t.Error("two runs with the same seed must produce bit-identical weights")
	}
	if !reflect.DeepEqual(first.Priors, second.Priors) {
		t.Error("two runs with the same seed must produce bit-identical priors")
	}
}

func TestFitRejectsEmptyTrainingSet(t *testing.T) {
	trainer, err := NewTrainer(rankingArgmax{}, TrainerConfig{
		Epochs: 1, Seed: 23, CostScaling: 1, Size: testSize,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := trainer.Fit(nil, ArcInformation{}); err == nil {
		t.Error("zero training instances must be rejected, not averaged by zero")
	}
	if _, err := trainer.Model(); err == nil {
		t.Error("averaging before any decision must be rejected")
	}
}

func TestEmptyInstancesAdvanceCounter(t *testing.T) {
	trainer, err := NewTrainer(rankingArgmax{}, TrainerConfig{
		Epochs: 1, Seed: 23, CostScaling: 1, Size: testSize,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Empty instances count toward the average like any other, so a
	// training set of only empty instances averages to the zero model
	// rather than failing with an undefined average.
	model, err := trainer.Fit([]mention.Substructure{{}, {}}, ArcInformation{})
	if err != nil {
		t.Fatalf("Fit over empty instances: %v", err)
	}
	if model.Priors[DefaultLabel] != 0 {
		t.Errorf("prior = %v, want 0", model.Priors[DefaultLabel])
	}
	for i, w := range model.Weights[DefaultLabel] {
		if w != 0 {
			t.Fatalf("weight %d = %v, want 0", i, w)
		}
	}
}

func TestFitRejectsMissingConsistentArc(t *testing.T) {
	ms := testMentions(1)
	arc := mention.Arc{Anaphor: ms[1], Antecedent: ms[0]}
	// Inconsistent and no consistent alternative: malformed information.
	info := trainInfo(map[mention.Arc]ArcInfo{arc: {}})

	trainer, err := NewTrainer(rankingArgmax{}, TrainerConfig{
		Epochs: 1, Seed: 23, CostScaling: 1, Size: testSize,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := trainer.Fit([]mention.Substructure{{arc}}, info); err == nil {
		t.Error("missing gold-consistent assignment must fail training")
	}
}
