package rdf

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var autoPrefixPattern = regexp.MustCompile(`^ns\d+$`)

// localNamePattern is a permissive PN_LOCAL: compact names are only
// produced for local parts that would survive a Turtle round trip.
var localNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// Binding is a prefix to namespace binding.
type Binding struct {
	Prefix    string
	Namespace string
}

// NamespaceManager tracks prefix bindings and computes compact names.
type NamespaceManager struct {
	byPrefix map[string]string
	autoSeq  int
}

// NewNamespaceManager creates an empty namespace manager.
func NewNamespaceManager() *NamespaceManager {
	return &NamespaceManager{byPrefix: make(map[string]string)}
}

// Bind binds prefix to namespace, replacing any previous binding of prefix.
func (m *NamespaceManager) Bind(prefix, namespace string) {
	if namespace == "" {
		return
	}
	m.byPrefix[prefix] = namespace
}

// Namespace returns the namespace bound to prefix.
func (m *NamespaceManager) Namespace(prefix string) (string, bool) {
	ns, ok := m.byPrefix[prefix]
	return ns, ok
}

// Bindings returns all bindings sorted by prefix.
func (m *NamespaceManager) Bindings() []Binding {
	out := make([]Binding, 0, len(m.byPrefix))
	for p, ns := range m.byPrefix {
		out = append(out, Binding{Prefix: p, Namespace: ns})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// Map returns a copy of the bindings as a prefix to namespace map.
func (m *NamespaceManager) Map() map[string]string {
	out := make(map[string]string, len(m.byPrefix))
	for p, ns := range m.byPrefix {
		out[p] = ns
	}
	return out
}

// PrefixFor returns the prefix whose namespace is the longest match for
// iri. Explicit prefixes are preferred over generated ones on ties.
func (m *NamespaceManager) PrefixFor(iri string) (prefix, namespace string, ok bool) {
	for p, ns := range m.byPrefix {
		if !strings.HasPrefix(iri, ns) {
			continue
		}
		if !ok || len(ns) > len(namespace) || (len(ns) == len(namespace) && preferPrefix(p, prefix)) {
			prefix, namespace, ok = p, ns, true
		}
	}
	return prefix, namespace, ok
}

func preferPrefix(candidate, current string) bool {
	ca, cu := IsAutoPrefix(candidate), IsAutoPrefix(current)
	if ca != cu {
		return !ca
	}
	return candidate < current
}

// Compact returns prefix:local for iri using existing bindings only. It
// returns false when no binding yields a valid local name.
func (m *NamespaceManager) Compact(iri string) (string, bool) {
	prefix, ns, ok := m.PrefixFor(iri)
	if !ok {
		return "", false
	}
	local := iri[len(ns):]
	if local != "" && !localNamePattern.MatchString(local) {
		return "", false
	}
	return prefix + ":" + local, true
}

// QName returns a compact name for iri, binding a generated nsN prefix
// when no existing binding applies. It returns false when iri cannot be
// split into a namespace and a valid local name.
func (m *NamespaceManager) QName(iri string) (string, bool) {
	if q, ok := m.Compact(iri); ok {
		return q, true
	}
	ns, local := SplitIRI(iri)
	if ns == "" || local == "" || !localNamePattern.MatchString(local) {
		return "", false
	}
	for {
		m.autoSeq++
		p := "ns" + strconv.Itoa(m.autoSeq)
		if _, taken := m.byPrefix[p]; !taken {
			m.Bind(p, ns)
			return p + ":" + local, true
		}
	}
}

// SplitIRI splits iri into namespace and local name at the last '#' or '/'.
func SplitIRI(iri string) (namespace, local string) {
	i := strings.LastIndexAny(iri, "#/")
	if i < 0 {
		return "", iri
	}
	return iri[:i+1], iri[i+1:]
}

// IsAutoPrefix reports whether prefix was generated (ns1, ns2, ...).
func IsAutoPrefix(prefix string) bool {
	return autoPrefixPattern.MatchString(prefix)
}
