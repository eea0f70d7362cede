package render

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/lode/model"
)

const ns = "http://example.org/vehicle#"

func iri(local string) *model.Member {
	return &model.Member{IRI: ns + local}
}

func restriction(kind model.RestrictionKind, prop string) model.ClassExpression {
	return model.ClassExpression{Kind: model.ExprRestriction, Restriction: kind, Property: ns + prop}
}

func TestFormatExpression(t *testing.T) {
	some := restriction(model.RestrictionSome, "hasPart")
	some.Filler = iri("Wheel")

	only := restriction(model.RestrictionAll, "hasPart")
	only.Filler = iri("Wheel")

	hasValue := restriction(model.RestrictionValue, "colour")
	hasValue.Filler = &model.Member{Literal: "<red>"}

	minCard := restriction(model.RestrictionMin, "hasPart")
	minCard.Cardinality = "2"

	exactlyQualified := restriction(model.RestrictionExactlyQualified, "hasPart")
	exactlyQualified.Cardinality = "4"
	exactlyQualified.OnClass = iri("Wheel")

	union := model.ClassExpression{Kind: model.ExprUnion, Members: []model.Member{*iri("Car"), *iri("Truck")}}
	intersection := model.ClassExpression{Kind: model.ExprIntersection, Members: []model.Member{*iri("Car"), {Expression: &some}}}

	tests := []struct {
		name string
		expr model.ClassExpression
		want template.HTML
	}{
		{"some", some, "<strong>hasPart</strong> <em>some</em> Wheel"},
		{"only", only, "<strong>hasPart</strong> <em>only</em> Wheel"},
		{"has value escapes literals", hasValue, `<strong>colour</strong> <em>has value</em> "&lt;red&gt;"`},
		{"min", minCard, "<strong>hasPart</strong> <em>min</em> 2"},
		{"exactly qualified", exactlyQualified, "<strong>hasPart</strong> <em>exactly</em> 4 Wheel"},
		{"union", union, "(<strong>Car</strong> <em>or</em> <strong>Truck</strong>)"},
		{"nested intersection", intersection, "(<strong>Car</strong> <em>and</em> <strong>hasPart</strong> <em>some</em> Wheel)"},
		{"complement", model.ClassExpression{Kind: model.ExprComplement, Complement: iri("Car")}, "<em>not</em> Car"},
		{"complement of union", model.ClassExpression{Kind: model.ExprComplement, Complement: &model.Member{Expression: &union}},
			"<em>not</em> (<strong>Car</strong> <em>or</em> <strong>Truck</strong>)"},
		{"enumeration", model.ClassExpression{Kind: model.ExprEnumeration, Members: []model.Member{*iri("red"), *iri("green")}}, "{red, green}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatExpression(tt.expr))
		})
	}
}

func TestFormatExpressionMarkdown(t *testing.T) {
	some := restriction(model.RestrictionSome, "hasPart")
	some.Filler = iri("Wheel")
	assert.Equal(t, "**hasPart** *some* Wheel", FormatExpressionMarkdown(some))

	maxQualified := restriction(model.RestrictionMaxQualified, "hasPart")
	maxQualified.Cardinality = "1"
	maxQualified.OnClass = iri("SpareWheel")
	assert.Equal(t, "**hasPart** *max* 1 SpareWheel", FormatExpressionMarkdown(maxQualified))

	union := model.ClassExpression{Kind: model.ExprUnion, Members: []model.Member{*iri("Car"), *iri("Truck")}}
	assert.Equal(t, "(**Car** *or* **Truck**)", FormatExpressionMarkdown(union))
}
