package model

import (
	"github.com/c360studio/lode/rdf"
)

// Metadata describes the ontology itself, read from its owl:Ontology node.
type Metadata struct {
	IRI           string      `json:"iri,omitempty"`
	Titles        LangStrings `json:"titles,omitempty"`
	Labels        LangStrings `json:"labels,omitempty"`
	Descriptions  LangStrings `json:"descriptions,omitempty"`
	Abstracts     LangStrings `json:"abstracts,omitempty"`
	Comments      LangStrings `json:"comments,omitempty"`
	Creators      []string    `json:"creators,omitempty"`
	Contributors  []string    `json:"contributors,omitempty"`
	Publishers    []string    `json:"publishers,omitempty"`
	Date          string      `json:"date,omitempty"`
	Version       string      `json:"version,omitempty"`
	VersionIRI    string      `json:"version_iri,omitempty"`
	PriorVersions []string    `json:"prior_versions,omitempty"`
	Imports       []string    `json:"imports,omitempty"`
	License       string      `json:"license,omitempty"`
}

// NewMetadata returns Metadata for iri with empty literal maps.
func NewMetadata(iri string) Metadata {
	return Metadata{
		IRI:          iri,
		Titles:       make(LangStrings),
		Labels:       make(LangStrings),
		Descriptions: make(LangStrings),
		Abstracts:    make(LangStrings),
		Comments:     make(LangStrings),
	}
}

// Description returns the description in lang, else the abstract, else
// the ontology comment.
func (m *Metadata) Description(lang string) string {
	for _, ls := range []LangStrings{m.Descriptions, m.Abstracts, m.Comments} {
		if v, ok := ls.Best(lang); ok {
			return v
		}
	}
	return ""
}

// Namespace is a prefix binding shown in the namespaces section.
type Namespace struct {
	Prefix string `json:"prefix"`
	IRI    string `json:"iri"`
}

// Document is the complete documentation model of one ontology.
type Document struct {
	Source               string        `json:"source"`
	Metadata             Metadata      `json:"metadata"`
	Classes              []*Class      `json:"classes"`
	ObjectProperties     []*Property   `json:"object_properties"`
	DataProperties       []*Property   `json:"data_properties"`
	AnnotationProperties []*Property   `json:"annotation_properties"`
	Individuals          []*Individual `json:"individuals"`
	Namespaces           []Namespace   `json:"namespaces"`

	index map[string]*Entity
}

// Title picks the document title: the ontology title in lang, else its
// label, else the local name of the ontology IRI or the source.
func (d *Document) Title(lang string) string {
	if v, ok := d.Metadata.Titles.Best(lang); ok {
		return v
	}
	if v, ok := d.Metadata.Labels.Best(lang); ok {
		return v
	}
	fallback := d.Metadata.IRI
	if fallback == "" {
		fallback = d.Source
	}
	return rdf.LocalName(fallback)
}

// Properties returns object, data and annotation properties in that order.
func (d *Document) Properties() []*Property {
	out := make([]*Property, 0, len(d.ObjectProperties)+len(d.DataProperties)+len(d.AnnotationProperties))
	out = append(out, d.ObjectProperties...)
	out = append(out, d.DataProperties...)
	return append(out, d.AnnotationProperties...)
}

// Entities returns every documented entity.
func (d *Document) Entities() []*Entity {
	var out []*Entity
	for _, c := range d.Classes {
		out = append(out, &c.Entity)
	}
	for _, p := range d.Properties() {
		out = append(out, &p.Entity)
	}
	for _, i := range d.Individuals {
		out = append(out, &i.Entity)
	}
	return out
}

// BuildIndex indexes entities by IRI for Lookup. It must be called again
// after entities are added.
func (d *Document) BuildIndex() {
	d.index = make(map[string]*Entity)
	for _, e := range d.Entities() {
		if _, dup := d.index[e.IRI]; !dup {
			d.index[e.IRI] = e
		}
	}
}

// Lookup returns the documented entity with the given IRI.
func (d *Document) Lookup(iri string) (*Entity, bool) {
	e, ok := d.index[iri]
	return e, ok
}

// Defines reports whether iri is documented in d.
func (d *Document) Defines(iri string) bool {
	_, ok := d.index[iri]
	return ok
}

// Empty reports whether d documents no entities.
func (d *Document) Empty() bool {
	return len(d.Classes) == 0 && len(d.Properties()) == 0 && len(d.Individuals) == 0
}
