package ontology

import (
	"sort"
	"strings"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

var (
	rdfType           = rdf.IRI(vocabulary.RDFType)
	rdfsLabel         = rdf.IRI(vocabulary.RDFSLabel)
	rdfsComment       = rdf.IRI(vocabulary.RDFSComment)
	rdfsSubClassOf    = rdf.IRI(vocabulary.RDFSSubClassOf)
	rdfsSubPropertyOf = rdf.IRI(vocabulary.RDFSSubPropertyOf)
	rdfsDomain        = rdf.IRI(vocabulary.RDFSDomain)
	rdfsRange         = rdf.IRI(vocabulary.RDFSRange)
	rdfsIsDefinedBy   = rdf.IRI(vocabulary.RDFSIsDefinedBy)
	owlDeprecated     = rdf.IRI(vocabulary.OWLDeprecated)
	owlSameAs         = rdf.IRI(vocabulary.OWLSameAs)
	owlNamedIndiv     = rdf.IRI(vocabulary.OWLNamedIndividual)
	skosPrefLabel     = rdf.IRI(vocabulary.SKOSPrefLabel)
	skosDefinition    = rdf.IRI(vocabulary.SKOSDefinition)
)

// structural predicates are shown in dedicated sections, not as annotations.
var structural = map[string]bool{
	vocabulary.RDFType:                 true,
	vocabulary.RDFSLabel:               true,
	vocabulary.RDFSComment:             true,
	vocabulary.RDFSSubClassOf:          true,
	vocabulary.RDFSSubPropertyOf:       true,
	vocabulary.RDFSDomain:              true,
	vocabulary.RDFSRange:               true,
	vocabulary.RDFSIsDefinedBy:         true,
	vocabulary.OWLEquivalentClass:      true,
	vocabulary.OWLEquivalentProperty:   true,
	vocabulary.OWLDisjointWith:         true,
	vocabulary.OWLPropertyDisjointWith: true,
	vocabulary.OWLInverseOf:            true,
	vocabulary.OWLSameAs:               true,
	vocabulary.OWLPropertyChainAxiom:   true,
	vocabulary.OWLDeprecated:           true,
}

// Extract builds the documentation model of g. ontologyIRI selects the
// node metadata is read from; source is recorded for titles and links.
func Extract(g *rdf.Graph, ontologyIRI, source string) *model.Document {
	x := &extractor{g: g}
	doc := &model.Document{
		Source:               source,
		Metadata:             x.metadata(ontologyIRI),
		Classes:              x.classes(),
		ObjectProperties:     x.properties(vocabulary.OWLObjectProperty, model.PropertyObject),
		DataProperties:       x.properties(vocabulary.OWLDatatypeProperty, model.PropertyData),
		AnnotationProperties: x.properties(vocabulary.OWLAnnotationProperty, model.PropertyAnnotation),
		Individuals:          x.individuals(),
		Namespaces:           namespaces(g),
	}
	assignLabelPrefixes(doc.Entities(), g.Namespaces())
	doc.BuildIndex()
	return doc
}

type extractor struct {
	g *rdf.Graph
}

// typed returns the IRI subjects typed with any of the given classes.
func (x *extractor) typed(types ...string) []rdf.Term {
	seen := make(map[rdf.Term]bool)
	var out []rdf.Term
	for _, t := range types {
		for _, s := range x.g.Subjects(rdfType, rdf.IRI(t)) {
			if s.IsIRI() && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	rdf.SortTerms(out)
	return out
}

// entity collects labels, comments and annotations of node. skip excludes
// further predicates from the annotations.
func (x *extractor) entity(node rdf.Term, skip func(pred string) bool) model.Entity {
	e := model.NewEntity(node.Value)

	x.literals(e.Labels, node, rdfsLabel)
	if e.Labels.Len() == 0 {
		x.literals(e.Labels, node, skosPrefLabel)
	}
	x.literals(e.Comments, node, rdfsComment)
	if e.Comments.Len() == 0 {
		x.literals(e.Comments, node, skosDefinition)
	}

	if v, ok := x.g.Value(node, rdfsIsDefinedBy); ok && !v.IsBlank() {
		e.DefinedBy = v.Value
	}
	if v, ok := x.g.Value(node, owlDeprecated); ok && v.IsLiteral() {
		e.Deprecated = v.Value == "true" || v.Value == "1"
	}

	for _, tr := range x.g.PredicateObjects(node) {
		pred := tr.P.Value
		if structural[pred] || (skip != nil && skip(pred)) {
			continue
		}
		if pred == vocabulary.SKOSPrefLabel && len(x.g.Objects(node, rdfsLabel)) == 0 {
			continue
		}
		if pred == vocabulary.SKOSDefinition && len(x.g.Objects(node, rdfsComment)) == 0 {
			continue
		}
		switch {
		case tr.O.IsBlank():
			if v, ok := x.resolveBlank(tr.O); ok {
				e.Annotations = append(e.Annotations, model.Annotation{
					Property: pred,
					Value:    v,
					Kind:     model.AnnotationResolvedBlank,
				})
			}
		case tr.O.IsLiteral():
			e.Annotations = append(e.Annotations, model.Annotation{
				Property: pred,
				Value:    tr.O.Value,
				Kind:     model.AnnotationLiteral,
				Lang:     tr.O.Lang,
				Datatype: tr.O.Datatype,
			})
		default:
			e.Annotations = append(e.Annotations, model.Annotation{
				Property: pred,
				Value:    tr.O.Value,
				Kind:     model.AnnotationURI,
			})
		}
	}
	return e
}

func (x *extractor) literals(dst model.LangStrings, node rdf.Term, preds ...rdf.Term) {
	for _, p := range preds {
		for _, o := range x.g.Objects(node, p) {
			if o.IsLiteral() {
				dst.Add(o.Lang, o.Value)
			}
		}
	}
}

// resolveBlank describes a blank annotation value: its label, its comment,
// or up to three "property: value" pairs. Class expressions and nodes with
// nothing to show are not resolved.
func (x *extractor) resolveBlank(node rdf.Term) (string, bool) {
	if v, ok := x.firstLiteral(node, rdfsLabel); ok {
		return v, true
	}
	if v, ok := x.firstLiteral(node, rdfsComment); ok {
		return v, true
	}
	if x.expression(node) != nil {
		return "", false
	}

	var pairs []string
	for _, tr := range x.g.PredicateObjects(node) {
		switch tr.P.Value {
		case vocabulary.RDFType, vocabulary.RDFFirst, vocabulary.RDFRest:
			continue
		}
		switch {
		case tr.O.IsLiteral():
			pairs = append(pairs, rdf.LocalName(tr.P.Value)+": "+tr.O.Value)
		case tr.O.IsIRI():
			pairs = append(pairs, rdf.LocalName(tr.P.Value)+": "+rdf.LocalName(tr.O.Value))
		}
		if len(pairs) == 3 {
			break
		}
	}
	if len(pairs) == 0 {
		return "", false
	}
	return strings.Join(pairs, " | "), true
}

func (x *extractor) firstLiteral(node, pred rdf.Term) (string, bool) {
	for _, o := range x.g.Objects(node, pred) {
		if o.IsLiteral() {
			return o.Value, true
		}
	}
	return "", false
}

// iris returns the IRI objects of (node, pred) and, when inverse is set,
// the IRI subjects of (?, pred, node), deduplicated and sorted.
func (x *extractor) iris(node, pred rdf.Term, inverse bool) []string {
	set := make(map[string]bool)
	for _, o := range x.g.Objects(node, pred) {
		if o.IsIRI() && o != node {
			set[o.Value] = true
		}
	}
	if inverse {
		for _, s := range x.g.Subjects(pred, node) {
			if s.IsIRI() && s != node {
				set[s.Value] = true
			}
		}
	}
	return sortedSet(set)
}

// subjectIRIs returns the IRI subjects of (?, pred, node), sorted.
func (x *extractor) subjectIRIs(pred, node rdf.Term) []string {
	set := make(map[string]bool)
	for _, s := range x.g.Subjects(pred, node) {
		if s.IsIRI() && s != node {
			set[s.Value] = true
		}
	}
	return sortedSet(set)
}

func sortedSet(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func namespaces(g *rdf.Graph) []model.Namespace {
	var out []model.Namespace
	for _, b := range g.Namespaces().Bindings() {
		out = append(out, model.Namespace{Prefix: b.Prefix, IRI: b.Namespace})
	}
	return out
}

// sortKey orders entities by lowercase English label, then IRI.
func sortKey(e *model.Entity) string {
	return strings.ToLower(e.Label(model.DefaultLang))
}

func entityLess(a, b *model.Entity) bool {
	ka, kb := sortKey(a), sortKey(b)
	if ka != kb {
		return ka < kb
	}
	return a.IRI < b.IRI
}
