package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
)

var (
	schemePattern    = regexp.MustCompile(`^https?://`)
	nonAnchorPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// URIToAnchor turns an IRI into an HTML id: the http(s) scheme is dropped
// and every character outside [a-zA-Z0-9_-] becomes '_'.
func URIToAnchor(uri string) string {
	return nonAnchorPattern.ReplaceAllString(schemePattern.ReplaceAllString(uri, ""), "_")
}

// URIToLabel returns the fragment of an IRI, else its last path segment,
// else the IRI itself.
func URIToLabel(uri string) string {
	return rdf.LocalName(uri)
}

// EntityLabel returns the label of e in lang, falling back to English, any
// language and the IRI's local name.
func EntityLabel(e *model.Entity, lang string) string {
	return e.Label(lang)
}

// EntityComment returns the comment of e in lang with the same fallbacks
// as EntityLabel, or "".
func EntityComment(e *model.Entity, lang string) string {
	return e.Comment(lang)
}

// BestTitle returns the first title, else the first label, else the local
// name of fallback.
func BestTitle(titles, labels []string, fallback string) string {
	if len(titles) > 0 {
		return titles[0]
	}
	if len(labels) > 0 {
		return labels[0]
	}
	return URIToLabel(fallback)
}

// namer names IRIs for display: documented entities by their unique
// label, others by prefixed name when a namespace matches.
type namer struct {
	doc        *model.Document
	lang       string
	namespaces []model.Namespace
}

func newNamer(doc *model.Document, lang string) *namer {
	ns := append([]model.Namespace(nil), doc.Namespaces...)
	// longest namespace first so the most specific prefix wins
	sort.SliceStable(ns, func(i, j int) bool { return len(ns[i].IRI) > len(ns[j].IRI) })
	return &namer{doc: doc, lang: lang, namespaces: ns}
}

func (n *namer) label(iri string) string {
	if e, ok := n.doc.Lookup(iri); ok {
		return e.DisplayLabel(n.lang)
	}
	return n.qname(iri)
}

// qname returns prefix:local for iri, or its local name. Generated nsN
// prefixes are never shown.
func (n *namer) qname(iri string) string {
	for _, ns := range n.namespaces {
		if ns.Prefix == "" || rdf.IsAutoPrefix(ns.Prefix) || !strings.HasPrefix(iri, ns.IRI) {
			continue
		}
		local := iri[len(ns.IRI):]
		if local != "" && !strings.ContainsAny(local, "/#") {
			return ns.Prefix + ":" + local
		}
	}
	return URIToLabel(iri)
}

func (n *namer) defines(iri string) bool {
	return n.doc.Defines(iri)
}
