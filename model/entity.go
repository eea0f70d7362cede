// Package model defines the documentation model extracted from an ontology
// graph: ontology metadata, classes, properties and named individuals with
// their labels, comments, annotations and class expressions.
package model

import (
	"sort"

	"github.com/c360studio/lode/rdf"
)

// DefaultLang is the language untagged literals are filed under and the
// fallback for label and comment selection.
const DefaultLang = "en"

// LangStrings holds literal values keyed by language tag.
type LangStrings map[string][]string

// Add records value under lang. An empty lang is stored as DefaultLang.
// Duplicate values for the same language are ignored.
func (l LangStrings) Add(lang, value string) {
	if lang == "" {
		lang = DefaultLang
	}
	for _, v := range l[lang] {
		if v == value {
			return
		}
	}
	l[lang] = append(l[lang], value)
}

// Best returns the first value for lang, else for DefaultLang, else for the
// alphabetically first language that has one.
func (l LangStrings) Best(lang string) (string, bool) {
	if v := l[lang]; len(v) > 0 {
		return v[0], true
	}
	if v := l[DefaultLang]; len(v) > 0 {
		return v[0], true
	}
	for _, code := range l.Langs() {
		if v := l[code]; len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// Langs returns the language tags in sorted order.
func (l LangStrings) Langs() []string {
	out := make([]string, 0, len(l))
	for code := range l {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// All returns every value, grouped by sorted language tag.
func (l LangStrings) All() []string {
	var out []string
	for _, code := range l.Langs() {
		out = append(out, l[code]...)
	}
	return out
}

// Others returns "value @lang" for every value except the one Best(lang)
// selects. Used to show translations next to the preferred label.
func (l LangStrings) Others(lang string) []string {
	best, ok := l.Best(lang)
	if !ok {
		return nil
	}
	var out []string
	skipped := false
	for _, code := range l.Langs() {
		for _, v := range l[code] {
			if !skipped && v == best {
				skipped = true
				continue
			}
			out = append(out, v+" @"+code)
		}
	}
	return out
}

// Len returns the total number of values.
func (l LangStrings) Len() int {
	n := 0
	for _, v := range l {
		n += len(v)
	}
	return n
}

// AnnotationKind classifies an annotation value.
type AnnotationKind string

const (
	AnnotationLiteral       AnnotationKind = "literal"
	AnnotationURI           AnnotationKind = "uri"
	AnnotationResolvedBlank AnnotationKind = "resolved_bnode"
)

// Annotation is a predicate/value pair attached to an entity that is not
// otherwise part of the documentation model.
type Annotation struct {
	Property string         `json:"property"`
	Value    string         `json:"value"`
	Kind     AnnotationKind `json:"kind"`
	Lang     string         `json:"lang,omitempty"`
	Datatype string         `json:"datatype,omitempty"`
}

// Entity carries the descriptive fields shared by classes, properties and
// individuals.
type Entity struct {
	IRI         string       `json:"iri"`
	Labels      LangStrings  `json:"labels"`
	Comments    LangStrings  `json:"comments"`
	Annotations []Annotation `json:"annotations,omitempty"`
	DefinedBy   string       `json:"defined_by,omitempty"`
	Deprecated  bool         `json:"deprecated,omitempty"`

	// LabelPrefix qualifies the label when another entity shares it.
	LabelPrefix string `json:"label_prefix,omitempty"`
}

// NewEntity returns an Entity for iri with empty label and comment maps.
func NewEntity(iri string) Entity {
	return Entity{
		IRI:      iri,
		Labels:   make(LangStrings),
		Comments: make(LangStrings),
	}
}

// Label returns the label in lang, falling back to English, any language,
// and finally the IRI's local name.
func (e *Entity) Label(lang string) string {
	if v, ok := e.Labels.Best(lang); ok {
		return v
	}
	return rdf.LocalName(e.IRI)
}

// Comment returns the comment in lang with the same fallbacks as Label,
// or "" when the entity has none.
func (e *Entity) Comment(lang string) string {
	v, _ := e.Comments.Best(lang)
	return v
}

// DisplayLabel returns Label(lang), qualified with LabelPrefix when set.
func (e *Entity) DisplayLabel(lang string) string {
	if e.LabelPrefix != "" {
		return e.LabelPrefix + ":" + e.Label(lang)
	}
	return e.Label(lang)
}

// Class is an owl:Class or rdfs:Class.
type Class struct {
	Entity

	SuperClasses []string `json:"super_classes,omitempty"`
	// Restrictions are the anonymous superclasses of the class.
	Restrictions          []ClassExpression `json:"restrictions,omitempty"`
	SubClasses            []string          `json:"sub_classes,omitempty"`
	EquivalentClasses     []string          `json:"equivalent_classes,omitempty"`
	EquivalentExpressions []ClassExpression `json:"equivalent_expressions,omitempty"`
	DisjointWith          []string          `json:"disjoint_with,omitempty"`
	InDomainOf            []string          `json:"in_domain_of,omitempty"`
	InRangeOf             []string          `json:"in_range_of,omitempty"`
	Members               []string          `json:"members,omitempty"`
}

// PropertyKind distinguishes object, datatype and annotation properties.
type PropertyKind string

const (
	PropertyObject     PropertyKind = "object"
	PropertyData       PropertyKind = "data"
	PropertyAnnotation PropertyKind = "annotation"
)

// Characteristic is an OWL property characteristic.
type Characteristic string

const (
	Functional        Characteristic = "functional"
	InverseFunctional Characteristic = "inverse_functional"
	Transitive        Characteristic = "transitive"
	Symmetric         Characteristic = "symmetric"
	Asymmetric        Characteristic = "asymmetric"
	Reflexive         Characteristic = "reflexive"
	Irreflexive       Characteristic = "irreflexive"
)

// Property is an object, datatype or annotation property.
type Property struct {
	Entity

	Kind                 PropertyKind     `json:"kind"`
	Domains              []Member         `json:"domains,omitempty"`
	Ranges               []Member         `json:"ranges,omitempty"`
	SuperProperties      []string         `json:"super_properties,omitempty"`
	SubProperties        []string         `json:"sub_properties,omitempty"`
	InverseOf            []string         `json:"inverse_of,omitempty"`
	EquivalentProperties []string         `json:"equivalent_properties,omitempty"`
	DisjointWith         []string         `json:"disjoint_with,omitempty"`
	Chain                []string         `json:"chain,omitempty"`
	Characteristics      []Characteristic `json:"characteristics,omitempty"`
}

// HasCharacteristic reports whether p carries c.
func (p *Property) HasCharacteristic(c Characteristic) bool {
	for _, have := range p.Characteristics {
		if have == c {
			return true
		}
	}
	return false
}

// Assertion is a property value stated for an individual.
type Assertion struct {
	Property string `json:"property"`
	Value    string `json:"value"`
	IsIRI    bool   `json:"is_iri,omitempty"`
	Lang     string `json:"lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Individual is an owl:NamedIndividual.
type Individual struct {
	Entity

	Types      []string    `json:"types,omitempty"`
	SameAs     []string    `json:"same_as,omitempty"`
	Assertions []Assertion `json:"assertions,omitempty"`
}
