package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/corefkit/coref"
	"github.com/corefkit/coref/clusterer"
	"github.com/corefkit/coref/decoder"
	"github.com/corefkit/coref/internal/hashing"
	"github.com/corefkit/coref/perceptron"
)

// experiment describes a full training/prediction setup. It can be
// loaded from a YAML file; flags override individual fields.
type experiment struct {
	Epochs      int     `yaml:"epochs"`
	Seed        int64   `yaml:"seed"`
	CostScaling float64 `yaml:"cost_scaling"`
	Size        int     `yaml:"size"`
	Decoder     string  `yaml:"decoder"`
	Clusterer   string  `yaml:"clusterer"`
	Cost        string  `yaml:"cost"`
}

func defaultExperiment() experiment {
	cfg := coref.DefaultTrainConfig()
	return experiment{
		Epochs:      cfg.Epochs,
		Seed:        cfg.Seed,
		CostScaling: cfg.CostScaling,
		Size:        hashing.DefaultSize,
		Decoder:     "ranking",
		Clusterer:   "all-ante",
		Cost:        "consistency",
	}
}

// loadExperiment reads a YAML experiment file over the defaults. An
// empty path returns the defaults unchanged.
func loadExperiment(path string) (experiment, error) {
	exp := defaultExperiment()
	if path == "" {
		return exp, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return exp, err
	}
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return exp, fmt.Errorf("experiment config %s: %w", path, err)
	}
	return exp, nil
}

func (e experiment) trainConfig() *coref.TrainConfig {
	return &coref.TrainConfig{
		Epochs:      e.Epochs,
		Seed:        e.Seed,
		CostScaling: e.CostScaling,
		Size:        e.Size,
	}
}

func (e experiment) decoder() (perceptron.Decoder, error) {
	switch e.Decoder {
	case "ranking":
		return decoder.Ranking{}, nil
	case "ranking-closest":
		return decoder.ClosestRanking{}, nil
	case "tree":
		return decoder.AntecedentTree{}, nil
	case "pairs":
		return decoder.MentionPair{}, nil
	default:
		return nil, fmt.Errorf("unknown decoder %q (want ranking, ranking-closest, tree or pairs)", e.Decoder)
	}
}

func (e experiment) clusterer() (clusterer.Clusterer, error) {
	switch e.Clusterer {
	case "all-ante":
		return clusterer.TransitiveClosure, nil
	case "best-first":
		return clusterer.BestFirst, nil
	default:
		return nil, fmt.Errorf("unknown clusterer %q (want all-ante or best-first)", e.Clusterer)
	}
}

func (e experiment) costFunc() (perceptron.CostFunc, error) {
	switch e.Cost {
	case "consistency":
		return perceptron.ConsistencyCost, nil
	case "null":
		return perceptron.NullCost, nil
	default:
		return nil, fmt.Errorf("unknown cost function %q (want consistency or null)", e.Cost)
	}
}
