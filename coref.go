// Package coref resolves coreference by predicting a latent graph of
// anaphor-antecedent arcs and deriving entity partitions from it.
//
// The package ties together a structured perceptron (weights, scoring,
// training), a decoder variant (how arcs are chosen), and a clusterer
// (how chosen arcs become entities):
//
//	model, _ := coref.Train(decoder.Ranking{}, substructures, arcInfo, nil)
//	r, _ := coref.NewResolver(model, decoder.Ranking{}, clusterer.TransitiveClosure)
//	result, _ := r.Resolve(substructures, arcInfo)
//	for m, entity := range result.Entities {
//	    fmt.Println(m, entity)
//	}
//
// Substructures and arc information are produced by a feature-extraction
// layer; this package neither parses corpora nor extracts linguistic
// features.
package coref

import (
	"fmt"

	"github.com/corefkit/coref/clusterer"
	"github.com/corefkit/coref/mention"
	"github.com/corefkit/coref/perceptron"
)

// Resolver applies a trained model: it decodes substructures and
// clusters the decoded arcs into entities. A Resolver is read-only and
// safe for concurrent use.
type Resolver struct {
	model   *perceptron.Model
	decoder perceptron.Decoder
	cluster clusterer.Clusterer
}

// NewResolver creates a resolver from a trained model, a decoder variant
// and a clustering strategy. The decoder's label set must match the
// model's.
func NewResolver(m *perceptron.Model, d perceptron.Decoder, c clusterer.Clusterer) (*Resolver, error) {
	if err := perceptron.ValidateLabels(d, m); err != nil {
		return nil, fmt.Errorf("coref: %w", err)
	}
	return &Resolver{model: m, decoder: d, cluster: c}, nil
}

// Load reads a model file and wraps it in a resolver.
func Load(path string, d perceptron.Decoder, c clusterer.Clusterer) (*Resolver, error) {
	m, err := perceptron.LoadModel(path)
	if err != nil {
		return nil, fmt.Errorf("coref: %w", err)
	}
	return NewResolver(m, d, c)
}

// Save writes the resolver's model to a file.
func (r *Resolver) Save(path string) error {
	if err := perceptron.SaveModel(r.model, path); err != nil {
		return fmt.Errorf("coref: %w", err)
	}
	return nil
}

// Model returns the underlying model.
func (r *Resolver) Model() *perceptron.Model {
	return r.model
}

// Predict decodes all substructures without cost augmentation and
// returns parallel nested arcs, labels and scores, one outer entry per
// substructure.
func (r *Resolver) Predict(subs []mention.Substructure, info perceptron.ArcInformation) ([][]mention.Arc, [][]string, [][]float64, error) {
	arcs, labels, scores, err := perceptron.Predict(r.decoder, r.model, subs, info)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("coref: %w", err)
	}
	return arcs, labels, scores, nil
}

// Resolve predicts arcs for all substructures and clusters them into an
// entity assignment.
func (r *Resolver) Resolve(subs []mention.Substructure, info perceptron.ArcInformation) (clusterer.Result, error) {
	arcs, labels, scores, err := r.Predict(subs, info)
	if err != nil {
		return clusterer.Result{}, err
	}
	return r.cluster(arcs, labels, scores, r.decoder.CorefLabels()), nil
}

// KBest enumerates the k best distinct predictions for one substructure.
// Only document-wide decoders support this; others return an error.
func (r *Resolver) KBest(sub mention.Substructure, info perceptron.ArcInformation, k int) ([]perceptron.Prediction, error) {
	kd, ok := r.decoder.(perceptron.KBestDecoder)
	if !ok {
		return nil, fmt.Errorf("coref: decoder %T does not support k-best decoding", r.decoder)
	}
	preds, err := kd.KBest(sub, info, perceptron.NewScorer(r.model, 0), k)
	if err != nil {
		return nil, fmt.Errorf("coref: %w", err)
	}
	return preds, nil
}
