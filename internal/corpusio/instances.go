// Package corpusio reads and writes the on-disk JSON form of
// pre-extracted instances and models for the CLI. Feature extraction
// itself happens upstream; instance files already contain candidate
// arcs, feature descriptors and gold-consistency flags.
package corpusio

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/corefkit/coref/clusterer"
	"github.com/corefkit/coref/internal/hashing"
	"github.com/corefkit/coref/mention"
	"github.com/corefkit/coref/perceptron"
)

// instancesJSON is the structure of an instance file.
type instancesJSON struct {
	Documents []documentJSON `json:"documents"`
}

type documentJSON struct {
	ID string `json:"id"`
	// Mentions lists the real mentions in document order; the dummy
	// mention is implicit at index 0 and mention indices below are
	// 1-based accordingly.
	Mentions      []mentionJSON      `json:"mentions"`
	Substructures []substructureJSON `json:"substructures"`
}

type mentionJSON struct {
	ID         string            `json:"id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type substructureJSON struct {
	Arcs []arcJSON `json:"arcs"`
}

type arcJSON struct {
	Anaphor    int              `json:"anaphor"`
	Antecedent int              `json:"antecedent"`
	Features   []string         `json:"features,omitempty"`
	Numeric    []numericFeature `json:"numeric,omitempty"`
	Consistent bool             `json:"consistent,omitempty"`
}

type numericFeature struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Document is one loaded document: its mentions with the dummy at
// index 0.
type Document struct {
	ID       string
	Mentions []*mention.Mention
}

// Corpus is the in-memory form of an instance file: the flat
// substructure collection across all documents and the arc information
// feeding the decoders.
type Corpus struct {
	Documents     []*Document
	Substructures []mention.Substructure
	Info          perceptron.ArcInformation
}

// ReadInstances loads an instance file, hashing feature descriptors into
// an index space of the given size. Malformed arcs (antecedent not
// preceding the anaphor, indices out of range) fail the load.
func ReadInstances(path string, size int) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file instancesJSON
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("corpusio: %s: %w", path, err)
	}

	space := hashing.NewSpace(size)
	corpus := &Corpus{Info: make(perceptron.ArcInformation)}

	for _, dj := range file.Documents {
		doc := &Document{ID: dj.ID, Mentions: make([]*mention.Mention, len(dj.Mentions)+1)}
		doc.Mentions[0] = mention.NewDummy()
		for i, mj := range dj.Mentions {
			doc.Mentions[i+1] = &mention.Mention{
				Index:      i + 1,
				ID:         mj.ID,
				Attributes: mj.Attributes,
			}
		}

		for si, sj := range dj.Substructures {
			sub := make(mention.Substructure, 0, len(sj.Arcs))
			for _, aj := range sj.Arcs {
				arc, info, err := buildArc(doc, aj, space)
				if err != nil {
					return nil, fmt.Errorf("corpusio: %s: document %q substructure %d: %w",
						path, dj.ID, si, err)
				}
				sub = append(sub, arc)
				corpus.Info[arc] = info
			}
			corpus.Substructures = append(corpus.Substructures, sub)
		}
		corpus.Documents = append(corpus.Documents, doc)
	}

	slog.Debug("Instances loaded",
		"path", path,
		"documents", len(corpus.Documents),
		"substructures", len(corpus.Substructures),
		"arcs", len(corpus.Info))
	return corpus, nil
}

func buildArc(doc *Document, aj arcJSON, space hashing.Space) (mention.Arc, perceptron.ArcInfo, error) {
	if aj.Anaphor <= 0 || aj.Anaphor >= len(doc.Mentions) {
		return mention.Arc{}, perceptron.ArcInfo{}, fmt.Errorf("anaphor index %d out of range", aj.Anaphor)
	}
	if aj.Antecedent < 0 || aj.Antecedent >= aj.Anaphor {
		return mention.Arc{}, perceptron.ArcInfo{}, fmt.Errorf("antecedent index %d does not precede anaphor %d",
			aj.Antecedent, aj.Anaphor)
	}

	arc := mention.Arc{
		Anaphor:    doc.Mentions[aj.Anaphor],
		Antecedent: doc.Mentions[aj.Antecedent],
	}

	info := perceptron.ArcInfo{Consistent: aj.Consistent}
	info.Features.Hashed = space.Indices(aj.Features)
	for _, nf := range aj.Numeric {
		info.Features.Numeric = append(info.Features.Numeric, space.Index(nf.Feature))
		info.Features.Values = append(info.Features.Values, nf.Value)
	}
	return arc, info, nil
}

// resultJSON is the structure of a prediction output file.
type resultJSON struct {
	Documents []resultDocumentJSON `json:"documents"`
}

type resultDocumentJSON struct {
	ID       string            `json:"id"`
	Entities map[string]int    `json:"entities"`
	Chains   map[string]string `json:"antecedents"`
}

// WriteResult stores a clustering result as JSON, keyed by mention id
// (falling back to the positional name).
func WriteResult(path string, docs []*Document, result clusterer.Result) error {
	out := resultJSON{}
	for _, doc := range docs {
		rd := resultDocumentJSON{
			ID:       doc.ID,
			Entities: make(map[string]int),
			Chains:   make(map[string]string),
		}
		for _, m := range doc.Mentions {
			if id, ok := result.Entities[m]; ok {
				rd.Entities[m.String()] = id
			}
			if ante, ok := result.Antecedents[m]; ok {
				rd.Chains[m.String()] = ante.String()
			}
		}
		out.Documents = append(out.Documents, rd)
	}
	sort.Slice(out.Documents, func(i, j int) bool {
		return out.Documents[i].ID < out.Documents[j].ID
	})

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
