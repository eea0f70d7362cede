package rdf

import (
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/c360studio/lode/vocabulary"
)

type termSet map[Term]struct{}

type index map[Term]map[Term]termSet

func (ix index) add(a, b, c Term) bool {
	bs, ok := ix[a]
	if !ok {
		bs = make(map[Term]termSet)
		ix[a] = bs
	}
	cs, ok := bs[b]
	if !ok {
		cs = make(termSet)
		bs[b] = cs
	}
	if _, exists := cs[c]; exists {
		return false
	}
	cs[c] = struct{}{}
	return true
}

func (ix index) has(a, b, c Term) bool {
	_, ok := ix[a][b][c]
	return ok
}

// Graph is an in-memory set of triples indexed by subject, predicate and
// object. A Graph is not safe for concurrent mutation.
type Graph struct {
	spo index
	pos index
	osp index
	n   int

	ns *NamespaceManager
}

// scopeSeq disambiguates blank node labels between parsed documents, so
// graphs parsed separately can be merged without label collisions.
var scopeSeq atomic.Uint64

// NewGraph creates an empty graph with no prefix bindings.
func NewGraph() *Graph {
	return &Graph{
		spo: make(index),
		pos: make(index),
		osp: make(index),
		ns:  NewNamespaceManager(),
	}
}

// Namespaces returns the graph's namespace manager.
func (g *Graph) Namespaces() *NamespaceManager {
	return g.ns
}

// Bind binds a prefix to a namespace in the graph's namespace manager.
func (g *Graph) Bind(prefix, namespace string) {
	g.ns.Bind(prefix, namespace)
}

// Add inserts a triple. It returns false if the triple was already present.
func (g *Graph) Add(t Triple) bool {
	if !g.spo.add(t.S, t.P, t.O) {
		return false
	}
	g.pos.add(t.P, t.O, t.S)
	g.osp.add(t.O, t.S, t.P)
	g.n++
	return true
}

// AddAll inserts triples and returns how many were new.
func (g *Graph) AddAll(triples []Triple) int {
	added := 0
	for _, t := range triples {
		if g.Add(t) {
			added++
		}
	}
	return added
}

// Has reports whether the graph contains the triple.
func (g *Graph) Has(s, p, o Term) bool {
	return g.spo.has(s, p, o)
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return g.n
}

// Merge adds every triple and prefix binding of other into g. Prefixes
// already bound in g win.
func (g *Graph) Merge(other *Graph) int {
	for _, b := range other.ns.Bindings() {
		if _, ok := g.ns.Namespace(b.Prefix); !ok {
			g.ns.Bind(b.Prefix, b.Namespace)
		}
	}
	return g.AddAll(other.Triples(nil, nil, nil))
}

// Triples returns the triples matching the pattern, sorted. A nil
// component is a wildcard.
func (g *Graph) Triples(s, p, o *Term) []Triple {
	var out []Triple
	switch {
	case s != nil:
		for pp, os := range g.spo[*s] {
			if p != nil && pp != *p {
				continue
			}
			for oo := range os {
				if o != nil && oo != *o {
					continue
				}
				out = append(out, Triple{S: *s, P: pp, O: oo})
			}
		}
	case p != nil:
		for oo, ss := range g.pos[*p] {
			if o != nil && oo != *o {
				continue
			}
			for sub := range ss {
				out = append(out, Triple{S: sub, P: *p, O: oo})
			}
		}
	case o != nil:
		for sub, ps := range g.osp[*o] {
			for pp := range ps {
				out = append(out, Triple{S: sub, P: pp, O: *o})
			}
		}
	default:
		for sub, ps := range g.spo {
			for pp, os := range ps {
				for oo := range os {
					out = append(out, Triple{S: sub, P: pp, O: oo})
				}
			}
		}
	}
	SortTriples(out)
	return out
}

// Objects returns the sorted objects of (s, p, ?).
func (g *Graph) Objects(s, p Term) []Term {
	return sortedKeys(g.spo[s][p])
}

// Subjects returns the sorted subjects of (?, p, o).
func (g *Graph) Subjects(p, o Term) []Term {
	return sortedKeys(g.pos[p][o])
}

// SubjectsOf returns the sorted distinct subjects having predicate p.
func (g *Graph) SubjectsOf(p Term) []Term {
	seen := make(termSet)
	for _, ss := range g.pos[p] {
		for s := range ss {
			seen[s] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// PredicateObjects returns the sorted (predicate, object) pairs of s as triples.
func (g *Graph) PredicateObjects(s Term) []Triple {
	return g.Triples(&s, nil, nil)
}

// Value returns the first object of (s, p, ?) in sort order.
func (g *Graph) Value(s, p Term) (Term, bool) {
	objs := g.Objects(s, p)
	if len(objs) == 0 {
		return Term{}, false
	}
	return objs[0], true
}

// List walks an RDF collection from head and returns its members. Walking
// stops at rdf:nil, at a node without rdf:rest, or on a cycle.
func (g *Graph) List(head Term) []Term {
	first := IRI(vocabulary.RDFFirst)
	rest := IRI(vocabulary.RDFRest)
	nilTerm := IRI(vocabulary.RDFNil)

	var members []Term
	visited := make(termSet)
	current := head
	for !current.IsZero() && current != nilTerm {
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}
		if item, ok := g.Value(current, first); ok {
			members = append(members, item)
		}
		next, ok := g.Value(current, rest)
		if !ok {
			break
		}
		current = next
	}
	return members
}

// newScope returns a fresh blank node label prefix for a parse.
func newScope() string {
	return "b" + strconv.FormatUint(scopeSeq.Add(1), 10) + "_"
}

func sortedKeys(set termSet) []Term {
	if len(set) == 0 {
		return nil
	}
	out := make([]Term, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}
