package render

import (
	"html/template"
	"strings"

	"github.com/c360studio/lode/model"
)

// exprFormatter writes class expressions in Manchester-like syntax. The
// markup callbacks decide between HTML and Markdown.
type exprFormatter struct {
	strong func(string) string
	em     func(string) string
	// name renders a reference to a named class, property or individual.
	name func(iri string) string
	// text renders a literal value.
	text func(string) string
}

var restrictionWords = map[model.RestrictionKind]string{
	model.RestrictionSome:             "some",
	model.RestrictionAll:              "only",
	model.RestrictionValue:            "has value",
	model.RestrictionMin:              "min",
	model.RestrictionMax:              "max",
	model.RestrictionExactly:          "exactly",
	model.RestrictionMinQualified:     "min",
	model.RestrictionMaxQualified:     "max",
	model.RestrictionExactlyQualified: "exactly",
}

func htmlFormatter(name func(string) string) *exprFormatter {
	return &exprFormatter{
		strong: func(s string) string { return "<strong>" + s + "</strong>" },
		em:     func(s string) string { return "<em>" + s + "</em>" },
		name:   name,
		text:   template.HTMLEscapeString,
	}
}

func markdownFormatter(name func(string) string) *exprFormatter {
	return &exprFormatter{
		strong: func(s string) string { return "**" + s + "**" },
		em:     func(s string) string { return "*" + s + "*" },
		name:   name,
		text:   func(s string) string { return s },
	}
}

// FormatExpression renders e as HTML, naming IRIs by their local name.
func FormatExpression(e model.ClassExpression) template.HTML {
	f := htmlFormatter(func(iri string) string { return template.HTMLEscapeString(URIToLabel(iri)) })
	return template.HTML(f.format(e))
}

// FormatExpressionMarkdown renders e as Markdown, naming IRIs by their
// local name.
func FormatExpressionMarkdown(e model.ClassExpression) string {
	return markdownFormatter(URIToLabel).format(e)
}

func (f *exprFormatter) format(e model.ClassExpression) string {
	switch e.Kind {
	case model.ExprRestriction:
		return f.restriction(e)
	case model.ExprUnion:
		return f.combine(e.Members, "or")
	case model.ExprIntersection:
		return f.combine(e.Members, "and")
	case model.ExprComplement:
		if e.Complement == nil {
			return f.em("not") + " ?"
		}
		return f.em("not") + " " + f.member(*e.Complement)
	case model.ExprEnumeration:
		parts := make([]string, len(e.Members))
		for i, m := range e.Members {
			parts[i] = f.member(m)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return string(e.Kind)
}

func (f *exprFormatter) restriction(e model.ClassExpression) string {
	word, ok := restrictionWords[e.Restriction]
	if !ok {
		word = string(e.Restriction)
	}
	out := f.strong(f.name(e.Property)) + " " + f.em(word) + " "

	if e.Restriction.Cardinality() {
		out += f.text(e.Cardinality)
		if e.Restriction.Qualified() && e.OnClass != nil {
			out += " " + f.member(*e.OnClass)
		}
		return out
	}
	if e.Filler == nil {
		return out + "?"
	}
	return out + f.member(*e.Filler)
}

// combine joins union or intersection operands; named operands are bold.
func (f *exprFormatter) combine(members []model.Member, op string) string {
	parts := make([]string, len(members))
	for i, m := range members {
		if m.IRI != "" {
			parts[i] = f.strong(f.name(m.IRI))
			continue
		}
		parts[i] = f.member(m)
	}
	return "(" + strings.Join(parts, " "+f.em(op)+" ") + ")"
}

func (f *exprFormatter) member(m model.Member) string {
	switch {
	case m.Expression != nil:
		return f.format(*m.Expression)
	case m.IRI != "":
		return f.name(m.IRI)
	default:
		return `"` + f.text(m.Literal) + `"`
	}
}
