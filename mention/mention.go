// Package mention provides the data model for coreference decisions:
// mentions ordered by document position, the dummy root mention, and
// anaphor-antecedent arcs.
package mention

import "fmt"

// Mention is a candidate referring expression. Mentions are created once
// per document by the extraction layer and handled by pointer; pointer
// identity is map-key identity. Index is the mention's position among all
// extracted mentions of its document, with the dummy mention at 0.
type Mention struct {
	Index      int               `json:"index"`
	ID         string            `json:"id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewDummy creates the dummy mention, the sentinel root that represents
// "non-anaphoric". It precedes all real mentions.
func NewDummy() *Mention {
	return &Mention{Index: 0, ID: "m0"}
}

// IsDummy reports whether the mention is the dummy root.
func (m *Mention) IsDummy() bool {
	return m.Index == 0
}

// Precedes reports whether m occurs before other in document order.
func (m *Mention) Precedes(other *Mention) bool {
	return m.Index < other.Index
}

func (m *Mention) String() string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("m%d", m.Index)
}

// Arc is an anaphor-antecedent pair, the atomic decision unit. The
// antecedent always precedes the anaphor in document order; the dummy
// mention is eligible as antecedent for any anaphor. Arc is comparable
// and used as a map key.
type Arc struct {
	Anaphor    *Mention
	Antecedent *Mention
}

// Distance returns the anaphor-antecedent distance in mention positions.
func (a Arc) Distance() int {
	return a.Anaphor.Index - a.Antecedent.Index
}

func (a Arc) String() string {
	return fmt.Sprintf("(%v,%v)", a.Anaphor, a.Antecedent)
}

// Substructure is one decodable unit: an ordered sequence of candidate
// arcs. For ranking-style approaches all arcs share one anaphor and are
// ordered by increasing anaphor-antecedent distance; for document-wide
// approaches the sequence covers all anaphors, grouped per anaphor in
// that same order.
type Substructure []Arc

// Anaphors returns the distinct anaphors of the substructure, in order of
// first appearance.
func (s Substructure) Anaphors() []*Mention {
	var anaphors []*Mention
	var last *Mention
	for _, arc := range s {
		if arc.Anaphor != last {
			anaphors = append(anaphors, arc.Anaphor)
			last = arc.Anaphor
		}
	}
	return anaphors
}
