// Package rdf provides the in-memory RDF graph ontology documents are
// parsed into, with pattern queries, RDF collection traversal and prefix
// management.
package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// TermKind identifies the kind of an RDF term.
type TermKind uint8

// KindIRI, KindBlank and KindLiteral enumerate the RDF term kinds.
const (
	KindIRI TermKind = iota + 1
	KindBlank
	KindLiteral
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is an RDF term. Terms are comparable and used directly as map keys.
type Term struct {
	Kind TermKind
	// Value is the IRI, the blank node label (without "_:"), or the
	// literal's lexical form.
	Value string
	// Lang is the language tag of a language-tagged literal.
	Lang string
	// Datatype is the datatype IRI of a typed literal.
	Datatype string
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a blank node term.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: strings.TrimPrefix(label, "_:")}
}

// Literal returns a plain literal.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral returns a language-tagged literal. Language tags are
// compared case-insensitively, so they are stored lowercased.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// TypedLiteral returns a literal with a datatype.
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool { return t.Kind == 0 }

// String returns the N-Triples form of the term.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + EscapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return ""
	}
}

// EscapeLiteral escapes a lexical form for N-Triples and Turtle output.
func EscapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Triple is an RDF statement.
type Triple struct {
	S Term
	P Term
	O Term
}

// String returns the triple as an N-Triples line without the newline.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.S, t.P, t.O)
}

// Less orders terms by kind, value, language and datatype.
func Less(a, b Term) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	if a.Lang != b.Lang {
		return a.Lang < b.Lang
	}
	return a.Datatype < b.Datatype
}

// SortTerms sorts terms in place using Less.
func SortTerms(terms []Term) {
	sort.Slice(terms, func(i, j int) bool { return Less(terms[i], terms[j]) })
}

// SortTriples sorts triples by subject, predicate, then object.
func SortTriples(triples []Triple) {
	sort.Slice(triples, func(i, j int) bool {
		a, b := triples[i], triples[j]
		if a.S != b.S {
			return Less(a.S, b.S)
		}
		if a.P != b.P {
			return Less(a.P, b.P)
		}
		return Less(a.O, b.O)
	})
}

// LocalName returns the part of an IRI after the last '#', else after the
// last '/', else the IRI itself.
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}
