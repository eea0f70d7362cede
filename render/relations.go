package render

import (
	"github.com/c360studio/lode/model"
)

// value is one item in a relation row. Exactly one of IRI, Expr, Chain or
// Text is meaningful; Prop prefixes an individual's fact.
type value struct {
	IRI   string
	Expr  *model.ClassExpression
	Chain []string
	Text  string
	Lang  string
	Prop  string
}

// relation is a labelled row of values shown under an entity.
type relation struct {
	Label  string
	Values []value
}

type relationBuilder struct {
	tr    Translator
	names *namer
	out   []relation
}

func (b *relationBuilder) iris(key string, iris []string) {
	if len(iris) == 0 {
		return
	}
	vals := make([]value, len(iris))
	for i, iri := range iris {
		vals[i] = value{IRI: iri}
	}
	b.add(key, vals)
}

func (b *relationBuilder) add(key string, vals []value) {
	if len(vals) == 0 {
		return
	}
	b.out = append(b.out, relation{Label: b.tr.T(key), Values: vals})
}

func memberValue(m model.Member) value {
	switch {
	case m.Expression != nil:
		return value{Expr: m.Expression}
	case m.IRI != "":
		return value{IRI: m.IRI}
	default:
		return value{Text: m.Literal}
	}
}

func members(ms []model.Member) []value {
	out := make([]value, len(ms))
	for i, m := range ms {
		out[i] = memberValue(m)
	}
	return out
}

func expressions(iris []string, exprs []model.ClassExpression) []value {
	var out []value
	for _, iri := range iris {
		out = append(out, value{IRI: iri})
	}
	for i := range exprs {
		out = append(out, value{Expr: &exprs[i]})
	}
	return out
}

// annotations groups consecutive annotations of the same property into one
// row labelled with the property's prefixed name.
func (b *relationBuilder) annotations(anns []model.Annotation) {
	for _, a := range anns {
		v := value{Text: a.Value, Lang: a.Lang}
		if a.Kind == model.AnnotationURI {
			v = value{IRI: a.Value}
		}
		label := b.names.qname(a.Property)
		if n := len(b.out); n > 0 && b.out[n-1].Label == label {
			b.out[n-1].Values = append(b.out[n-1].Values, v)
			continue
		}
		b.out = append(b.out, relation{Label: label, Values: []value{v}})
	}
}

func (b *relationBuilder) definedBy(e *model.Entity) {
	if e.DefinedBy != "" {
		b.iris("is_defined_by", []string{e.DefinedBy})
	}
}

func classRelations(c *model.Class, tr Translator, names *namer) []relation {
	b := &relationBuilder{tr: tr, names: names}
	b.add("super_classes", expressions(c.SuperClasses, c.Restrictions))
	b.iris("sub_classes", c.SubClasses)
	b.add("equivalent_classes", expressions(c.EquivalentClasses, c.EquivalentExpressions))
	b.iris("disjoint_with", c.DisjointWith)
	b.iris("in_domain_of", c.InDomainOf)
	b.iris("in_range_of", c.InRangeOf)
	b.iris("members", c.Members)
	b.definedBy(&c.Entity)
	b.annotations(c.Annotations)
	return b.out
}

func propertyRelations(p *model.Property, tr Translator, names *namer) []relation {
	b := &relationBuilder{tr: tr, names: names}
	if len(p.Characteristics) > 0 {
		vals := make([]value, len(p.Characteristics))
		for i, c := range p.Characteristics {
			vals[i] = value{Text: tr.T(string(c))}
		}
		b.add("characteristics", vals)
	}
	b.add("domain", members(p.Domains))
	b.add("range", members(p.Ranges))
	b.iris("super_properties", p.SuperProperties)
	b.iris("sub_properties", p.SubProperties)
	b.iris("inverse_of", p.InverseOf)
	b.iris("equivalent_properties", p.EquivalentProperties)
	b.iris("disjoint_with", p.DisjointWith)
	if len(p.Chain) > 0 {
		b.add("property_chain", []value{{Chain: p.Chain}})
	}
	b.definedBy(&p.Entity)
	b.annotations(p.Annotations)
	return b.out
}

func individualRelations(ind *model.Individual, tr Translator, names *namer) []relation {
	b := &relationBuilder{tr: tr, names: names}
	b.iris("types", ind.Types)
	b.iris("same_as", ind.SameAs)
	if len(ind.Assertions) > 0 {
		vals := make([]value, len(ind.Assertions))
		for i, a := range ind.Assertions {
			v := value{Prop: a.Property, Text: a.Value, Lang: a.Lang}
			if a.IsIRI {
				v = value{Prop: a.Property, IRI: a.Value}
			}
			vals[i] = v
		}
		b.add("assertions", vals)
	}
	b.definedBy(&ind.Entity)
	b.annotations(ind.Annotations)
	return b.out
}

// section is one top-level group of entities.
type section struct {
	ID       string
	Key      string
	Abbrev   string
	Entities []sectionEntity
}

type sectionEntity struct {
	Entity    *model.Entity
	Relations []relation
}

// sections returns the non-empty entity sections in display order.
func sections(doc *model.Document, tr Translator, names *namer) []section {
	var out []section
	add := func(s section) {
		if len(s.Entities) > 0 {
			out = append(out, s)
		}
	}

	classes := section{ID: "classes", Key: "classes", Abbrev: "c"}
	for _, c := range doc.Classes {
		classes.Entities = append(classes.Entities, sectionEntity{&c.Entity, classRelations(c, tr, names)})
	}
	add(classes)

	props := []struct {
		id, key, abbrev string
		list            []*model.Property
	}{
		{"object-properties", "object_properties", "op", doc.ObjectProperties},
		{"data-properties", "data_properties", "dp", doc.DataProperties},
		{"annotation-properties", "annotation_properties", "ap", doc.AnnotationProperties},
	}
	for _, p := range props {
		s := section{ID: p.id, Key: p.key, Abbrev: p.abbrev}
		for _, prop := range p.list {
			s.Entities = append(s.Entities, sectionEntity{&prop.Entity, propertyRelations(prop, tr, names)})
		}
		add(s)
	}

	individuals := section{ID: "named-individuals", Key: "named_individuals", Abbrev: "ni"}
	for _, ind := range doc.Individuals {
		individuals.Entities = append(individuals.Entities, sectionEntity{&ind.Entity, individualRelations(ind, tr, names)})
	}
	add(individuals)
	return out
}
