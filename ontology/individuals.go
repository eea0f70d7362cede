package ontology

import (
	"sort"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

// assertionExcluded lists namespaces whose predicates are not individual
// assertions.
var assertionExcluded = []string{
	vocabulary.RDFNamespace,
	vocabulary.RDFSNamespace,
	vocabulary.DCNamespace,
	vocabulary.DCTermsNamespace,
}

func isAssertion(pred string) bool {
	return pred != vocabulary.OWLSameAs && !vocabulary.InNamespace(pred, assertionExcluded...)
}

func (x *extractor) individuals() []*model.Individual {
	var out []*model.Individual
	for _, node := range x.typed(vocabulary.OWLNamedIndividual) {
		out = append(out, x.individual(node))
	}
	sort.Slice(out, func(i, j int) bool { return entityLess(&out[i].Entity, &out[j].Entity) })
	return out
}

func (x *extractor) individual(node rdf.Term) *model.Individual {
	ind := &model.Individual{
		// Assertion predicates are listed as assertions, not annotations.
		Entity: x.entity(node, isAssertion),
		SameAs: x.iris(node, owlSameAs, true),
	}

	for _, t := range x.g.Objects(node, rdfType) {
		if t.IsIRI() && t != owlNamedIndiv {
			ind.Types = append(ind.Types, t.Value)
		}
	}

	for _, tr := range x.g.PredicateObjects(node) {
		if tr.O.IsBlank() || !isAssertion(tr.P.Value) {
			continue
		}
		ind.Assertions = append(ind.Assertions, model.Assertion{
			Property: tr.P.Value,
			Value:    tr.O.Value,
			IsIRI:    tr.O.IsIRI(),
			Lang:     tr.O.Lang,
			Datatype: tr.O.Datatype,
		})
	}
	return ind
}
