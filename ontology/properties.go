package ontology

import (
	"sort"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

var (
	owlInverseOf            = rdf.IRI(vocabulary.OWLInverseOf)
	owlEquivalentProperty   = rdf.IRI(vocabulary.OWLEquivalentProperty)
	owlPropertyDisjointWith = rdf.IRI(vocabulary.OWLPropertyDisjointWith)
	owlPropertyChainAxiom   = rdf.IRI(vocabulary.OWLPropertyChainAxiom)
)

// characteristicTypes maps property characteristics to their OWL classes,
// in display order.
var characteristicTypes = []struct {
	c        model.Characteristic
	owlClass string
}{
	{model.Functional, vocabulary.OWLFunctionalProperty},
	{model.InverseFunctional, vocabulary.OWLInverseFunctionalProperty},
	{model.Transitive, vocabulary.OWLTransitiveProperty},
	{model.Symmetric, vocabulary.OWLSymmetricProperty},
	{model.Asymmetric, vocabulary.OWLAsymmetricProperty},
	{model.Reflexive, vocabulary.OWLReflexiveProperty},
	{model.Irreflexive, vocabulary.OWLIrreflexiveProperty},
}

func (x *extractor) properties(owlType string, kind model.PropertyKind) []*model.Property {
	var out []*model.Property
	for _, node := range x.typed(owlType) {
		out = append(out, x.property(node, kind))
	}
	sort.Slice(out, func(i, j int) bool { return entityLess(&out[i].Entity, &out[j].Entity) })
	return out
}

func (x *extractor) property(node rdf.Term, kind model.PropertyKind) *model.Property {
	p := &model.Property{
		Entity:               x.entity(node, nil),
		Kind:                 kind,
		Domains:              x.operands(node, rdfsDomain),
		Ranges:               x.operands(node, rdfsRange),
		SuperProperties:      x.iris(node, rdfsSubPropertyOf, false),
		SubProperties:        x.subjectIRIs(rdfsSubPropertyOf, node),
		EquivalentProperties: x.iris(node, owlEquivalentProperty, true),
		DisjointWith:         x.iris(node, owlPropertyDisjointWith, true),
		Chain:                x.chain(node),
	}

	switch kind {
	case model.PropertyObject:
		p.InverseOf = x.iris(node, owlInverseOf, true)
		for _, ct := range characteristicTypes {
			if x.g.Has(node, rdfType, rdf.IRI(ct.owlClass)) {
				p.Characteristics = append(p.Characteristics, ct.c)
			}
		}
	case model.PropertyData:
		if x.g.Has(node, rdfType, rdf.IRI(vocabulary.OWLFunctionalProperty)) {
			p.Characteristics = append(p.Characteristics, model.Functional)
		}
	}
	return p
}

// operands returns the objects of (node, pred) as expression members:
// IRIs as-is and blank nodes expanded into class expressions.
func (x *extractor) operands(node, pred rdf.Term) []model.Member {
	var out []model.Member
	for _, o := range x.g.Objects(node, pred) {
		if m, ok := x.member(o); ok {
			out = append(out, m)
		}
	}
	return out
}

// chain returns the first owl:propertyChainAxiom of node as property IRIs.
func (x *extractor) chain(node rdf.Term) []string {
	head, ok := x.g.Value(node, owlPropertyChainAxiom)
	if !ok {
		return nil
	}
	var out []string
	for _, step := range x.g.List(head) {
		if step.IsIRI() {
			out = append(out, step.Value)
		}
	}
	return out
}
