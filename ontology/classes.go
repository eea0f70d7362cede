package ontology

import (
	"sort"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

var (
	owlEquivalentClass  = rdf.IRI(vocabulary.OWLEquivalentClass)
	owlDisjointWith     = rdf.IRI(vocabulary.OWLDisjointWith)
	owlMembers          = rdf.IRI(vocabulary.OWLMembers)
	owlAllDisjointClass = rdf.IRI(vocabulary.OWLAllDisjointClasses)
)

func (x *extractor) classes() []*model.Class {
	var out []*model.Class
	for _, node := range x.typed(vocabulary.OWLClass, vocabulary.RDFSClass) {
		out = append(out, x.class(node))
	}
	sort.Slice(out, func(i, j int) bool { return entityLess(&out[i].Entity, &out[j].Entity) })
	return out
}

func (x *extractor) class(node rdf.Term) *model.Class {
	c := &model.Class{
		Entity:       x.entity(node, nil),
		SuperClasses: x.iris(node, rdfsSubClassOf, false),
		SubClasses:   x.subjectIRIs(rdfsSubClassOf, node),
		DisjointWith: x.disjointClasses(node),
		InDomainOf:   x.subjectIRIs(rdfsDomain, node),
		InRangeOf:    x.subjectIRIs(rdfsRange, node),
		Members:      x.members(node),
	}

	for _, o := range x.g.Objects(node, rdfsSubClassOf) {
		if !o.IsBlank() {
			continue
		}
		if expr := x.expression(o); expr != nil {
			c.Restrictions = append(c.Restrictions, *expr)
		}
	}

	c.EquivalentClasses = x.iris(node, owlEquivalentClass, true)
	for _, o := range x.g.Objects(node, owlEquivalentClass) {
		if !o.IsBlank() {
			continue
		}
		if expr := x.expression(o); expr != nil {
			c.EquivalentExpressions = append(c.EquivalentExpressions, *expr)
		}
	}
	return c
}

// disjointClasses merges owl:disjointWith in both directions with
// owl:AllDisjointClasses axioms that list node.
func (x *extractor) disjointClasses(node rdf.Term) []string {
	set := make(map[string]bool)
	for _, iri := range x.iris(node, owlDisjointWith, true) {
		set[iri] = true
	}
	for _, axiom := range x.g.Subjects(rdfType, owlAllDisjointClass) {
		head, ok := x.g.Value(axiom, owlMembers)
		if !ok {
			continue
		}
		members := x.g.List(head)
		if !containsTerm(members, node) {
			continue
		}
		for _, m := range members {
			if m.IsIRI() && m != node {
				set[m.Value] = true
			}
		}
	}
	return sortedSet(set)
}

// members returns the instances of node that are not classes themselves.
func (x *extractor) members(node rdf.Term) []string {
	owlClass := rdf.IRI(vocabulary.OWLClass)
	rdfsClass := rdf.IRI(vocabulary.RDFSClass)

	set := make(map[string]bool)
	for _, s := range x.g.Subjects(rdfType, node) {
		if !s.IsIRI() || x.g.Has(s, rdfType, owlClass) || x.g.Has(s, rdfType, rdfsClass) {
			continue
		}
		set[s.Value] = true
	}
	return sortedSet(set)
}

func containsTerm(terms []rdf.Term, t rdf.Term) bool {
	for _, have := range terms {
		if have == t {
			return true
		}
	}
	return false
}
