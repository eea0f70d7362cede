package ontology

import (
	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

func (x *extractor) metadata(ontologyIRI string) model.Metadata {
	m := model.NewMetadata(ontologyIRI)
	if ontologyIRI == "" {
		return m
	}
	node := rdf.IRI(ontologyIRI)

	x.literals(m.Titles, node, rdf.IRI(vocabulary.DCTitle), rdf.IRI(vocabulary.DCTermsTitle))
	x.literals(m.Labels, node, rdfsLabel)
	x.literals(m.Descriptions, node, rdf.IRI(vocabulary.DCDescription), rdf.IRI(vocabulary.DCTermsDescription))
	x.literals(m.Abstracts, node, rdf.IRI(vocabulary.DCTermsAbstract))
	x.literals(m.Comments, node, rdfsComment)

	m.Creators = x.values(node, vocabulary.DCCreator, vocabulary.DCTermsCreator)
	m.Contributors = x.values(node, vocabulary.DCContributor, vocabulary.DCTermsContributor)
	m.Publishers = x.values(node, vocabulary.DCPublisher, vocabulary.DCTermsPublisher)

	m.Date = x.first(node, vocabulary.DCDate, vocabulary.DCTermsDate, vocabulary.DCTermsCreated, vocabulary.DCTermsModified)
	m.Version = x.first(node, vocabulary.OWLVersionInfo)
	m.VersionIRI = x.first(node, vocabulary.OWLVersionIRI)
	m.License = x.first(node, vocabulary.DCTermsLicense, vocabulary.DCRights, vocabulary.DCTermsRights)

	m.PriorVersions = x.iris(node, rdf.IRI(vocabulary.OWLPriorVersion), false)
	m.Imports = x.iris(node, rdf.IRI(vocabulary.OWLImports), false)
	return m
}

// values returns the literal and IRI objects of node for the predicates,
// in predicate order, without duplicates.
func (x *extractor) values(node rdf.Term, preds ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range preds {
		for _, o := range x.g.Objects(node, rdf.IRI(p)) {
			if o.IsBlank() || seen[o.Value] {
				continue
			}
			seen[o.Value] = true
			out = append(out, o.Value)
		}
	}
	return out
}

// first returns the first non-blank object of node for the predicates.
func (x *extractor) first(node rdf.Term, preds ...string) string {
	if v := x.values(node, preds...); len(v) > 0 {
		return v[0]
	}
	return ""
}
