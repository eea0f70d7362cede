package ontology

import (
	"strings"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
)

// maxDerivedPrefix caps prefixes derived from an IRI.
const maxDerivedPrefix = 8

// assignLabelPrefixes qualifies the labels of entities whose English
// display label collides with another entity's. Entities sharing an IRI
// (punning) do not collide with each other.
func assignLabelPrefixes(entities []*model.Entity, ns *rdf.NamespaceManager) {
	groups := make(map[string][]*model.Entity)
	var order []string
	for _, e := range entities {
		key := strings.ToLower(e.Label(model.DefaultLang))
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	for _, key := range order {
		group := groups[key]
		if distinctIRIs(group) < 2 {
			continue
		}
		for _, e := range group {
			e.LabelPrefix = labelPrefix(e.IRI, ns)
		}
	}
}

func distinctIRIs(group []*model.Entity) int {
	seen := make(map[string]bool)
	for _, e := range group {
		seen[e.IRI] = true
	}
	return len(seen)
}

// labelPrefix returns the bound prefix for iri, ignoring the empty, base
// and generated prefixes, else a prefix derived from the IRI itself.
func labelPrefix(iri string, ns *rdf.NamespaceManager) string {
	best, bestNS := "", ""
	for _, b := range ns.Bindings() {
		if b.Prefix == "" || b.Prefix == "base" || rdf.IsAutoPrefix(b.Prefix) {
			continue
		}
		if strings.HasPrefix(iri, b.Namespace) && len(b.Namespace) > len(bestNS) {
			best, bestNS = b.Prefix, b.Namespace
		}
	}
	if best != "" {
		return best
	}
	return derivedPrefix(iri)
}

// derivedPrefix builds a short prefix from an IRI: for hash IRIs the first
// DNS label of the namespace, for slash IRIs the parent path segment.
func derivedPrefix(iri string) string {
	var ns string
	switch {
	case strings.Contains(iri, "#"):
		ns = iri[:strings.Index(iri, "#")]
	case strings.Contains(iri, "/"):
		parts := strings.Split(strings.TrimRight(iri, "/"), "/")
		if len(parts) < 2 {
			return ""
		}
		ns = parts[len(parts)-2]
	default:
		return ""
	}

	ns = strings.TrimPrefix(ns, "http://")
	ns = strings.TrimPrefix(ns, "https://")
	ns = strings.ReplaceAll(ns, "www.", "")
	if parts := strings.Split(ns, "."); len(parts) > 1 {
		ns = parts[0]
	}
	return truncateRunes(ns, maxDerivedPrefix)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
