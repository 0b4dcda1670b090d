package perceptron

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/corefkit/coref/internal/hashing"
	"github.com/corefkit/coref/mention"
)

// TrainerConfig holds training hyperparameters.
type TrainerConfig struct {
	Epochs      int     // perceptron epochs over the training instances
	Seed        int64   // seed for the per-epoch instance shuffle
	CostScaling float64 // scale of the cost term during training
	Size        int     // weight-array capacity per label; 0 means hashing.DefaultSize
}

// DefaultTrainerConfig returns the reference hyperparameters.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Epochs:      5,
		Seed:        23,
		CostScaling: 1,
	}
}

// Trainer fits model parameters with the mistake-driven structured
// perceptron and returns the averaged model. Averaging is lazy in the
// Daume style: alongside the live weights a cache accumulates
// counter-scaled updates, so the final average costs one pass over the
// weight arrays instead of one per instance.
//
// The trainer owns the live and cached arrays for the whole run; training
// is inherently sequential, since every update feeds the scores of the
// instances that follow.
type Trainer struct {
	config  TrainerConfig
	decoder Decoder
	model   *Model
	scorer  *Scorer

	cached       map[string][]float64
	cachedPriors map[string]float64
	counter      float64
}

// NewTrainer creates a trainer for the given decoder variant. The model's
// label set is taken from the decoder.
func NewTrainer(d Decoder, config TrainerConfig) (*Trainer, error) {
	size := config.Size
	if size == 0 {
		size = hashing.DefaultSize
	}
	model, err := NewModel(d.Labels(), size)
	if err != nil {
		return nil, err
	}

	t := &Trainer{
		config:       config,
		decoder:      d,
		model:        model,
		scorer:       NewScorer(model, config.CostScaling),
		cached:       make(map[string][]float64, len(model.Labels)),
		cachedPriors: make(map[string]float64, len(model.Labels)),
	}
	for _, l := range model.Labels {
		t.cached[l] = make([]float64, size)
		t.cachedPriors[l] = 0
	}
	return t, nil
}

// Fit runs the full training loop over the instances and returns the
// averaged model.
func (t *Trainer) Fit(subs []mention.Substructure, info ArcInformation) (*Model, error) {
	if len(subs) == 0 {
		return nil, fmt.Errorf("perceptron: no training instances")
	}

	indices := make([]int, len(subs))
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(t.config.Seed))

	for epoch := 1; epoch <= t.config.Epochs; epoch++ {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		incorrect, decisions, err := t.fitOneEpoch(subs, info, indices)
		if err != nil {
			return nil, err
		}
		slog.Info("Perceptron epoch finished",
			"epoch", epoch, "incorrect", incorrect, "decisions", decisions)
	}

	return t.Model()
}

// fitOneEpoch decodes every instance once, in the given order, updating
// parameters on mistakes. It returns the number of incorrect decisions
// and the number of decisions made.
func (t *Trainer) fitOneEpoch(subs []mention.Substructure, info ArcInformation, indices []int) (incorrect, decisions int, err error) {
	for _, i := range indices {
		sub := subs[i]
		if len(sub) == 0 {
			// Empty instances decode to nothing but still advance the
			// averaging counter, like every other instance.
			t.counter++
			continue
		}

		dec, err := t.decoder.Argmax(sub, info, t.scorer)
		if err != nil {
			return 0, 0, fmt.Errorf("instance %d: %w", i, err)
		}
		if len(dec.Arcs) == 0 {
			return 0, 0, fmt.Errorf("perceptron: decoder returned no arcs for non-empty instance %d", i)
		}

		if !dec.Consistent {
			// The consistent assignment must cover every predicted arc;
			// a partial one would apply the -1 update without its +1
			// counterpart and silently corrupt the weights.
			if len(dec.ConsArcs) != len(dec.Arcs) {
				return 0, 0, fmt.Errorf("perceptron: gold-consistent assignment covers %d of %d arcs for instance %d (malformed arc information)",
					len(dec.ConsArcs), len(dec.Arcs), i)
			}
			t.update(dec.ConsArcs, dec.ConsLabels, info, 1)
			t.update(dec.Arcs, dec.Labels, info, -1)
			incorrect++
		}
		decisions++

		// The counter advances on every decision, mistaken or not, and is
		// never reset between epochs.
		t.counter++
	}
	return incorrect, decisions, nil
}

// update applies a signed perceptron update for a set of arcs: signed
// feature contributions to the live weights, the same contributions
// scaled by the current counter to the cache, and identically for the
// label priors.
func (t *Trainer) update(arcs []mention.Arc, labels []string, info ArcInformation, sign float64) {
	for i, arc := range arcs {
		label := DefaultLabel
		if i < len(labels) {
			label = labels[i]
		}

		w := t.model.Weights[label]
		cw := t.cached[label]
		feats := info[arc].Features

		for _, idx := range feats.Hashed {
			w[idx] += sign
			cw[idx] += sign * t.counter
		}
		for j, idx := range feats.Numeric {
			w[idx] += sign * feats.Values[j]
			cw[idx] += sign * t.counter * feats.Values[j]
		}

		t.model.Priors[label] += sign
		t.cachedPriors[label] += sign * t.counter
	}
}

// Model returns the averaged model at the current point of training:
// live minus cache divided by the counter, per label. The live arrays
// are left untouched, so training can continue afterwards.
func (t *Trainer) Model() (*Model, error) {
	if t.counter == 0 {
		return nil, fmt.Errorf("perceptron: no decisions made, average undefined")
	}

	avg, err := NewModel(t.model.Labels, t.model.Size)
	if err != nil {
		return nil, err
	}
	for _, l := range t.model.Labels {
		live := t.model.Weights[l]
		cw := t.cached[l]
		out := avg.Weights[l]
		for i := range live {
			out[i] = live[i] - cw[i]/t.counter
		}
		avg.Priors[l] = t.model.Priors[l] - t.cachedPriors[l]/t.counter
	}
	return avg, nil
}
