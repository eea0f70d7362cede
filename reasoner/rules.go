package reasoner

import "github.com/c360studio/lode/vocabulary"

// tokens maps vocabulary IRIs to the short constants used in the rule
// program. Absolute IRIs and blank node labels always contain ':', so a
// token can never collide with a graph term.
var tokens = map[string]string{
	vocabulary.RDFType:               "type",
	vocabulary.RDFSSubClassOf:        "subClassOf",
	vocabulary.RDFSSubPropertyOf:     "subPropertyOf",
	vocabulary.RDFSDomain:            "domain",
	vocabulary.RDFSRange:             "range",
	vocabulary.OWLEquivalentClass:    "equivalentClass",
	vocabulary.OWLEquivalentProperty: "equivalentProperty",
	vocabulary.OWLInverseOf:          "inverseOf",
	vocabulary.OWLSameAs:             "sameAs",
	vocabulary.OWLDisjointWith:       "disjointWith",
	vocabulary.OWLSymmetricProperty:  "SymmetricProperty",
	vocabulary.OWLTransitiveProperty: "TransitiveProperty",
}

var iris = func() map[string]string {
	m := make(map[string]string, len(tokens))
	for iri, tok := range tokens {
		m[tok] = iri
	}
	return m
}()

// reflexive lists predicates whose derived X p X triples carry no
// information and are discarded.
var reflexive = map[string]bool{
	vocabulary.RDFSSubClassOf:        true,
	vocabulary.RDFSSubPropertyOf:     true,
	vocabulary.OWLEquivalentClass:    true,
	vocabulary.OWLEquivalentProperty: true,
	vocabulary.OWLSameAs:             true,
}

// program is an OWL 2 RL / RDFS subset. triple holds the asserted graph;
// t is its closure.
const program = `
Decl triple(S, P, O).

t(S, P, O) :- triple(S, P, O).

t(A, "subClassOf", C) :- t(A, "subClassOf", B), t(B, "subClassOf", C).
t(A, "subPropertyOf", C) :- t(A, "subPropertyOf", B), t(B, "subPropertyOf", C).

t(X, "type", C) :- t(X, "type", B), t(B, "subClassOf", C).
t(X, Q, Y) :- t(P, "subPropertyOf", Q), t(X, P, Y).

t(X, "type", C) :- t(P, "domain", C), t(X, P, _).
t(Y, "type", C) :- t(P, "range", C), t(_, P, Y).

t(A, "subClassOf", B) :- t(A, "equivalentClass", B).
t(B, "subClassOf", A) :- t(A, "equivalentClass", B).
t(B, "equivalentClass", A) :- t(A, "equivalentClass", B).

t(A, "subPropertyOf", B) :- t(A, "equivalentProperty", B).
t(B, "subPropertyOf", A) :- t(A, "equivalentProperty", B).
t(B, "equivalentProperty", A) :- t(A, "equivalentProperty", B).

t(Y, Q, X) :- t(P, "inverseOf", Q), t(X, P, Y).
t(Y, P, X) :- t(P, "inverseOf", Q), t(X, Q, Y).

t(Y, P, X) :- t(P, "type", "SymmetricProperty"), t(X, P, Y).
t(X, P, Z) :- t(P, "type", "TransitiveProperty"), t(X, P, Y), t(Y, P, Z).

t(Y, "sameAs", X) :- t(X, "sameAs", Y).
t(X, "sameAs", Z) :- t(X, "sameAs", Y), t(Y, "sameAs", Z).

t(B, "disjointWith", A) :- t(A, "disjointWith", B).
`
