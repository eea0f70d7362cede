package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/lode/vocabulary"
)

const ex = "http://example.org/"

func TestGraphAddIsSet(t *testing.T) {
	g := NewGraph()
	tr := Triple{S: IRI(ex + "A"), P: IRI(vocabulary.RDFType), O: IRI(vocabulary.OWLClass)}

	assert.True(t, g.Add(tr))
	assert.False(t, g.Add(tr))
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(tr.S, tr.P, tr.O))
}

func TestGraphTriplesPattern(t *testing.T) {
	g := NewGraph()
	typ := IRI(vocabulary.RDFType)
	label := IRI(vocabulary.RDFSLabel)
	a, b := IRI(ex+"A"), IRI(ex+"B")
	class := IRI(vocabulary.OWLClass)

	g.AddAll([]Triple{
		{S: a, P: typ, O: class},
		{S: b, P: typ, O: class},
		{S: a, P: label, O: LangLiteral("A", "EN")},
	})

	tests := []struct {
		name    string
		s, p, o *Term
		want    int
	}{
		{"all", nil, nil, nil, 3},
		{"by subject", &a, nil, nil, 2},
		{"by predicate", nil, &typ, nil, 2},
		{"by object", nil, nil, &class, 2},
		{"subject and predicate", &a, &label, nil, 1},
		{"predicate and object", nil, &typ, &class, 2},
		{"full match", &b, &typ, &class, 1},
		{"no match", &b, &label, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, g.Triples(tt.s, tt.p, tt.o), tt.want)
		})
	}

	assert.Equal(t, []Term{a, b}, g.Subjects(typ, class))
	assert.Equal(t, []Term{LangLiteral("A", "en")}, g.Objects(a, label))
	assert.Equal(t, []Term{a, b}, g.SubjectsOf(typ))
}

func TestGraphValueIsDeterministic(t *testing.T) {
	g := NewGraph()
	s, p := IRI(ex+"s"), IRI(ex+"p")
	g.Add(Triple{S: s, P: p, O: Literal("zebra")})
	g.Add(Triple{S: s, P: p, O: Literal("apple")})

	v, ok := g.Value(s, p)
	require.True(t, ok)
	assert.Equal(t, "apple", v.Value)

	_, ok = g.Value(s, IRI(ex+"missing"))
	assert.False(t, ok)
}

func TestGraphList(t *testing.T) {
	first := IRI(vocabulary.RDFFirst)
	rest := IRI(vocabulary.RDFRest)
	nilTerm := IRI(vocabulary.RDFNil)

	t.Run("well formed", func(t *testing.T) {
		g := NewGraph()
		n1, n2 := Blank("l1"), Blank("l2")
		g.AddAll([]Triple{
			{S: n1, P: first, O: IRI(ex + "A")},
			{S: n1, P: rest, O: n2},
			{S: n2, P: first, O: IRI(ex + "B")},
			{S: n2, P: rest, O: nilTerm},
		})
		assert.Equal(t, []Term{IRI(ex + "A"), IRI(ex + "B")}, g.List(n1))
	})

	t.Run("cycle", func(t *testing.T) {
		g := NewGraph()
		n1, n2 := Blank("c1"), Blank("c2")
		g.AddAll([]Triple{
			{S: n1, P: first, O: IRI(ex + "A")},
			{S: n1, P: rest, O: n2},
			{S: n2, P: first, O: IRI(ex + "B")},
			{S: n2, P: rest, O: n1},
		})
		assert.Equal(t, []Term{IRI(ex + "A"), IRI(ex + "B")}, g.List(n1))
	})

	t.Run("nil head", func(t *testing.T) {
		assert.Empty(t, NewGraph().List(nilTerm))
	})
}

func TestGraphMerge(t *testing.T) {
	a := NewGraph()
	a.Bind("ex", ex)
	a.Add(Triple{S: IRI(ex + "A"), P: IRI(vocabulary.RDFType), O: IRI(vocabulary.OWLClass)})

	b := NewGraph()
	b.Bind("ex", "http://other.org/")
	b.Bind("other", "http://other.org/")
	b.Add(Triple{S: IRI(ex + "A"), P: IRI(vocabulary.RDFType), O: IRI(vocabulary.OWLClass)})
	b.Add(Triple{S: IRI(ex + "B"), P: IRI(vocabulary.RDFType), O: IRI(vocabulary.OWLClass)})

	added := a.Merge(b)
	assert.Equal(t, 1, added)
	assert.Equal(t, 2, a.Len())

	ns, _ := a.Namespaces().Namespace("ex")
	assert.Equal(t, ex, ns)
	ns, ok := a.Namespaces().Namespace("other")
	require.True(t, ok)
	assert.Equal(t, "http://other.org/", ns)
}

func TestTermString(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"iri", IRI(ex + "A"), "<http://example.org/A>"},
		{"blank", Blank("_:x"), "_:x"},
		{"plain literal", Literal(`say "hi"`), `"say \"hi\""`},
		{"lang literal", LangLiteral("chat", "FR"), `"chat"@fr`},
		{"typed literal", TypedLiteral("1", vocabulary.XSDNamespace+"integer"), `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.String())
		})
	}
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "Person", LocalName("http://example.org/onto#Person"))
	assert.Equal(t, "Person", LocalName("http://example.org/onto/Person"))
	assert.Equal(t, "urn:x", LocalName("urn:x"))
}
