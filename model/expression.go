package model

// ExpressionKind identifies the shape of an anonymous class expression.
type ExpressionKind string

const (
	ExprRestriction  ExpressionKind = "restriction"
	ExprUnion        ExpressionKind = "union"
	ExprIntersection ExpressionKind = "intersection"
	ExprComplement   ExpressionKind = "complement"
	ExprEnumeration  ExpressionKind = "enumeration"
)

// RestrictionKind identifies an owl:Restriction constraint.
type RestrictionKind string

const (
	RestrictionSome             RestrictionKind = "some"
	RestrictionAll              RestrictionKind = "all"
	RestrictionValue            RestrictionKind = "value"
	RestrictionMin              RestrictionKind = "min"
	RestrictionMax              RestrictionKind = "max"
	RestrictionExactly          RestrictionKind = "exactly"
	RestrictionMinQualified     RestrictionKind = "min_qualified"
	RestrictionMaxQualified     RestrictionKind = "max_qualified"
	RestrictionExactlyQualified RestrictionKind = "exactly_qualified"
)

// Qualified reports whether k is a qualified cardinality restriction.
func (k RestrictionKind) Qualified() bool {
	switch k {
	case RestrictionMinQualified, RestrictionMaxQualified, RestrictionExactlyQualified:
		return true
	}
	return false
}

// Cardinality reports whether k constrains a count rather than a filler.
func (k RestrictionKind) Cardinality() bool {
	switch k {
	case RestrictionMin, RestrictionMax, RestrictionExactly:
		return true
	}
	return k.Qualified()
}

// Member is one operand of a class expression: a named IRI, a literal
// value, or a nested expression. Exactly one field is set.
type Member struct {
	IRI        string           `json:"iri,omitempty"`
	Literal    string           `json:"literal,omitempty"`
	Expression *ClassExpression `json:"expression,omitempty"`
}

// IsZero reports whether m holds nothing.
func (m Member) IsZero() bool {
	return m.IRI == "" && m.Literal == "" && m.Expression == nil
}

// ClassExpression is an anonymous OWL class: a restriction, a boolean
// combination of classes, or an enumeration of individuals.
type ClassExpression struct {
	Kind ExpressionKind `json:"kind"`

	// Restriction fields.
	Restriction RestrictionKind `json:"restriction,omitempty"`
	Property    string          `json:"property,omitempty"`
	Filler      *Member         `json:"filler,omitempty"`
	Cardinality string          `json:"cardinality,omitempty"`
	OnClass     *Member         `json:"on_class,omitempty"`

	// Union, intersection and enumeration operands.
	Members []Member `json:"members,omitempty"`

	Complement *Member `json:"complement,omitempty"`
}
