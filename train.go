package coref

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/corefkit/coref/mention"
	"github.com/corefkit/coref/perceptron"
)

// TrainConfig holds training hyperparameters.
type TrainConfig struct {
	Epochs      int
	Seed        int64
	CostScaling float64
	// Size is the weight-array capacity per label. 0 selects the default
	// of 2^24 entries.
	Size int
}

// DefaultTrainConfig returns the reference hyperparameters: 5 epochs,
// seed 23, cost scaling 1.
func DefaultTrainConfig() TrainConfig {
	c := perceptron.DefaultTrainerConfig()
	return TrainConfig{Epochs: c.Epochs, Seed: c.Seed, CostScaling: c.CostScaling}
}

// Train learns an averaged perceptron model for the given decoder
// variant from pre-extracted training instances. The arc information
// must carry cost vectors (see perceptron.BakeCosts) when cost scaling
// is non-zero. For a fixed configuration and fixed inputs the returned
// model is bit-identical across runs.
func Train(d perceptron.Decoder, subs []mention.Substructure, info perceptron.ArcInformation, config *TrainConfig) (*perceptron.Model, error) {
	cfg := DefaultTrainConfig()
	if config != nil {
		cfg = *config
	}

	trainer, err := perceptron.NewTrainer(d, perceptron.TrainerConfig{
		Epochs:      cfg.Epochs,
		Seed:        cfg.Seed,
		CostScaling: cfg.CostScaling,
		Size:        cfg.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("coref: %w", err)
	}

	slog.Info("Fitting model parameters",
		"instances", len(subs), "epochs", cfg.Epochs, "seed", cfg.Seed)
	start := time.Now()

	model, err := trainer.Fit(subs, info)
	if err != nil {
		return nil, fmt.Errorf("coref: %w", err)
	}

	slog.Debug("Training completed", "duration", time.Since(start))
	return model, nil
}
