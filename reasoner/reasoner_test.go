package reasoner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

const ex = "http://example.org/onto#"

func iri(local string) rdf.Term { return rdf.IRI(ex + local) }

var (
	typ        = rdf.IRI(vocabulary.RDFType)
	subClassOf = rdf.IRI(vocabulary.RDFSSubClassOf)
	subPropOf  = rdf.IRI(vocabulary.RDFSSubPropertyOf)
	domain     = rdf.IRI(vocabulary.RDFSDomain)
	rng        = rdf.IRI(vocabulary.RDFSRange)
	label      = rdf.IRI(vocabulary.RDFSLabel)
)

func graphOf(triples ...rdf.Triple) *rdf.Graph {
	g := rdf.NewGraph()
	g.AddAll(triples)
	return g
}

func tr(s, p, o rdf.Term) rdf.Triple { return rdf.Triple{S: s, P: p, O: o} }

func TestApplyEntailments(t *testing.T) {
	tests := []struct {
		name  string
		input []rdf.Triple
		want  []rdf.Triple
	}{
		{
			name: "subclass transitivity",
			input: []rdf.Triple{
				tr(iri("Dog"), subClassOf, iri("Mammal")),
				tr(iri("Mammal"), subClassOf, iri("Animal")),
			},
			want: []rdf.Triple{tr(iri("Dog"), subClassOf, iri("Animal"))},
		},
		{
			name: "type propagation",
			input: []rdf.Triple{
				tr(iri("rex"), typ, iri("Dog")),
				tr(iri("Dog"), subClassOf, iri("Animal")),
			},
			want: []rdf.Triple{tr(iri("rex"), typ, iri("Animal"))},
		},
		{
			name: "subproperty propagation",
			input: []rdf.Triple{
				tr(iri("hasMother"), subPropOf, iri("hasParent")),
				tr(iri("ann"), iri("hasMother"), iri("eve")),
			},
			want: []rdf.Triple{tr(iri("ann"), iri("hasParent"), iri("eve"))},
		},
		{
			name: "domain and range",
			input: []rdf.Triple{
				tr(iri("owns"), domain, iri("Person")),
				tr(iri("owns"), rng, iri("Thing")),
				tr(iri("bob"), iri("owns"), iri("car")),
			},
			want: []rdf.Triple{
				tr(iri("bob"), typ, iri("Person")),
				tr(iri("car"), typ, iri("Thing")),
			},
		},
		{
			name: "equivalent classes",
			input: []rdf.Triple{
				tr(iri("Human"), rdf.IRI(vocabulary.OWLEquivalentClass), iri("Person")),
			},
			want: []rdf.Triple{
				tr(iri("Human"), subClassOf, iri("Person")),
				tr(iri("Person"), subClassOf, iri("Human")),
				tr(iri("Person"), rdf.IRI(vocabulary.OWLEquivalentClass), iri("Human")),
			},
		},
		{
			name: "inverse properties",
			input: []rdf.Triple{
				tr(iri("hasChild"), rdf.IRI(vocabulary.OWLInverseOf), iri("hasParent")),
				tr(iri("eve"), iri("hasChild"), iri("ann")),
				tr(iri("cal"), iri("hasParent"), iri("bob")),
			},
			want: []rdf.Triple{
				tr(iri("ann"), iri("hasParent"), iri("eve")),
				tr(iri("bob"), iri("hasChild"), iri("cal")),
			},
		},
		{
			name: "symmetric property",
			input: []rdf.Triple{
				tr(iri("knows"), typ, rdf.IRI(vocabulary.OWLSymmetricProperty)),
				tr(iri("a"), iri("knows"), iri("b")),
			},
			want: []rdf.Triple{tr(iri("b"), iri("knows"), iri("a"))},
		},
		{
			name: "transitive property",
			input: []rdf.Triple{
				tr(iri("partOf"), typ, rdf.IRI(vocabulary.OWLTransitiveProperty)),
				tr(iri("a"), iri("partOf"), iri("b")),
				tr(iri("b"), iri("partOf"), iri("c")),
			},
			want: []rdf.Triple{tr(iri("a"), iri("partOf"), iri("c"))},
		},
		{
			name: "disjointness is symmetric",
			input: []rdf.Triple{
				tr(iri("Cat"), rdf.IRI(vocabulary.OWLDisjointWith), iri("Dog")),
			},
			want: []rdf.Triple{tr(iri("Dog"), rdf.IRI(vocabulary.OWLDisjointWith), iri("Cat"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(tt.input...)
			added, err := New(0, nil).Apply(context.Background(), g)
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.True(t, g.Has(w.S, w.P, w.O), "missing %s", w)
			}
			assert.Equal(t, len(tt.input)+added, g.Len())
		})
	}
}

func TestApplyDropsTrivialTriples(t *testing.T) {
	sameAs := rdf.IRI(vocabulary.OWLSameAs)
	restriction := rdf.Blank("r1")
	g := graphOf(
		tr(iri("a"), sameAs, iri("b")),
		tr(iri("Dog"), subClassOf, restriction),
		tr(iri("rex"), typ, iri("Dog")),
	)

	_, err := New(0, nil).Apply(context.Background(), g)
	require.NoError(t, err)

	assert.True(t, g.Has(iri("b"), sameAs, iri("a")))
	assert.False(t, g.Has(iri("a"), sameAs, iri("a")), "reflexive sameAs must be dropped")
	assert.False(t, g.Has(iri("rex"), typ, restriction), "typing with anonymous classes must be dropped")
}

func TestApplyIgnoresLiterals(t *testing.T) {
	g := graphOf(
		tr(iri("name"), rng, rdf.IRI(vocabulary.XSDNamespace+"string")),
		tr(iri("bob"), iri("name"), rdf.Literal("Bob")),
		tr(iri("bob"), label, rdf.LangLiteral("Bob", "en")),
	)

	added, err := New(0, nil).Apply(context.Background(), g)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.True(t, g.Has(iri("bob"), label, rdf.LangLiteral("Bob", "en")))
}

func TestApplyBlankNodesRoundTrip(t *testing.T) {
	b := rdf.Blank("x")
	g := graphOf(
		tr(b, typ, iri("Dog")),
		tr(iri("Dog"), subClassOf, iri("Animal")),
	)

	_, err := New(0, nil).Apply(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, g.Has(b, typ, iri("Animal")))
}

func TestApplyFactLimit(t *testing.T) {
	partOf := iri("partOf")
	triples := []rdf.Triple{tr(partOf, typ, rdf.IRI(vocabulary.OWLTransitiveProperty))}
	for i := 0; i < 30; i++ {
		triples = append(triples, tr(iri(fmt.Sprintf("n%d", i)), partOf, iri(fmt.Sprintf("n%d", i+1))))
	}
	g := graphOf(triples...)

	_, err := New(5, nil).Apply(context.Background(), g)
	assert.ErrorIs(t, err, ErrDerivedFactLimit)
	assert.Equal(t, len(triples), g.Len(), "graph must be unchanged on failure")
}

func TestApplyCountsDerivedTriples(t *testing.T) {
	triples := []rdf.Triple{tr(iri("Dog"), subClassOf, iri("Animal"))}
	for i := 0; i < 10; i++ {
		triples = append(triples, tr(iri(fmt.Sprintf("dog%d", i)), typ, iri("Dog")))
	}

	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"under the limit", 100, false},
		{"over the limit", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(triples...)
			added, err := New(tt.limit, nil).Apply(context.Background(), g)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDerivedFactLimit)
				assert.Equal(t, len(triples), g.Len())
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, added, 10)
			assert.True(t, g.Has(iri("dog3"), typ, iri("Animal")))
		})
	}
}

func TestIsFactLimit(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf(`fact size limit reached evaluating "t(X, Y, Z)" %d > %d`, 12, 10), true},
		{fmt.Errorf("fact size limit reached %d > %d", 40, 31), true},
		{errors.New("rate limit exceeded for external predicate"), false},
		{errors.New("arity mismatch"), false},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, isFactLimit(tt.err))
		})
	}
}

func TestApplyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(0, nil).Apply(ctx, rdf.NewGraph())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeDecode(t *testing.T) {
	terms := []rdf.Term{
		rdf.IRI(vocabulary.RDFSSubClassOf),
		rdf.IRI(ex + "Dog"),
		rdf.Blank("b7_x"),
	}
	for _, term := range terms {
		assert.Equal(t, term, decode(encode(term)))
	}
	assert.Equal(t, "subClassOf", encode(rdf.IRI(vocabulary.RDFSSubClassOf)))
}
