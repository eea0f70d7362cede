package ontology

import (
	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

// restrictionPredicates are checked in order; the first one present on a
// restriction node decides its kind.
var restrictionPredicates = []struct {
	pred rdf.Term
	kind model.RestrictionKind
}{
	{rdf.IRI(vocabulary.OWLSomeValuesFrom), model.RestrictionSome},
	{rdf.IRI(vocabulary.OWLAllValuesFrom), model.RestrictionAll},
	{rdf.IRI(vocabulary.OWLHasValue), model.RestrictionValue},
	{rdf.IRI(vocabulary.OWLMinCardinality), model.RestrictionMin},
	{rdf.IRI(vocabulary.OWLMaxCardinality), model.RestrictionMax},
	{rdf.IRI(vocabulary.OWLCardinality), model.RestrictionExactly},
	{rdf.IRI(vocabulary.OWLMinQualifiedCardinality), model.RestrictionMinQualified},
	{rdf.IRI(vocabulary.OWLMaxQualifiedCardinality), model.RestrictionMaxQualified},
	{rdf.IRI(vocabulary.OWLQualifiedCardinality), model.RestrictionExactlyQualified},
}

var (
	owlOnProperty     = rdf.IRI(vocabulary.OWLOnProperty)
	owlOnClass        = rdf.IRI(vocabulary.OWLOnClass)
	owlOnDataRange    = rdf.IRI(vocabulary.OWLOnDataRange)
	owlUnionOf        = rdf.IRI(vocabulary.OWLUnionOf)
	owlIntersectionOf = rdf.IRI(vocabulary.OWLIntersectionOf)
	owlComplementOf   = rdf.IRI(vocabulary.OWLComplementOf)
	owlOneOf          = rdf.IRI(vocabulary.OWLOneOf)
)

// expression converts a blank node into a class expression, or returns
// nil when the node is not one.
func (x *extractor) expression(node rdf.Term) *model.ClassExpression {
	return x.expr(node, make(map[rdf.Term]bool))
}

func (x *extractor) expr(node rdf.Term, visiting map[rdf.Term]bool) *model.ClassExpression {
	if visiting[node] {
		return nil
	}
	visiting[node] = true
	defer delete(visiting, node)

	if e := x.restriction(node, visiting); e != nil {
		return e
	}
	if head, ok := x.g.Value(node, owlUnionOf); ok {
		return &model.ClassExpression{Kind: model.ExprUnion, Members: x.listMembers(head, visiting)}
	}
	if head, ok := x.g.Value(node, owlIntersectionOf); ok {
		return &model.ClassExpression{Kind: model.ExprIntersection, Members: x.listMembers(head, visiting)}
	}
	if c, ok := x.g.Value(node, owlComplementOf); ok {
		e := &model.ClassExpression{Kind: model.ExprComplement}
		if m, ok := x.memberOf(c, visiting); ok {
			e.Complement = &m
		}
		return e
	}
	if head, ok := x.g.Value(node, owlOneOf); ok {
		return &model.ClassExpression{Kind: model.ExprEnumeration, Members: x.listMembers(head, visiting)}
	}
	return nil
}

func (x *extractor) restriction(node rdf.Term, visiting map[rdf.Term]bool) *model.ClassExpression {
	prop, ok := x.g.Value(node, owlOnProperty)
	if !ok {
		return nil
	}
	for _, rp := range restrictionPredicates {
		value, ok := x.g.Value(node, rp.pred)
		if !ok {
			continue
		}
		e := &model.ClassExpression{
			Kind:        model.ExprRestriction,
			Restriction: rp.kind,
			Property:    prop.Value,
		}
		if rp.kind.Cardinality() {
			e.Cardinality = value.Value
		} else if m, ok := x.memberOf(value, visiting); ok {
			e.Filler = &m
		}
		if rp.kind.Qualified() {
			on, ok := x.g.Value(node, owlOnClass)
			if !ok {
				on, ok = x.g.Value(node, owlOnDataRange)
			}
			if ok {
				if m, ok := x.memberOf(on, visiting); ok {
					e.OnClass = &m
				}
			}
		}
		return e
	}
	return nil
}

func (x *extractor) listMembers(head rdf.Term, visiting map[rdf.Term]bool) []model.Member {
	var out []model.Member
	for _, item := range x.g.List(head) {
		if m, ok := x.memberOf(item, visiting); ok {
			out = append(out, m)
		}
	}
	return out
}

// member converts a term into an expression operand.
func (x *extractor) member(t rdf.Term) (model.Member, bool) {
	return x.memberOf(t, make(map[rdf.Term]bool))
}

func (x *extractor) memberOf(t rdf.Term, visiting map[rdf.Term]bool) (model.Member, bool) {
	switch {
	case t.IsIRI():
		return model.Member{IRI: t.Value}, true
	case t.IsLiteral():
		return model.Member{Literal: t.Value}, true
	case t.IsBlank():
		if e := x.expr(t, visiting); e != nil {
			return model.Member{Expression: e}, true
		}
	}
	return model.Member{}, false
}
