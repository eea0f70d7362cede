// Package reasoner materialises OWL 2 RL / RDFS entailments of a graph using
// the Mangle Datalog engine.
package reasoner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

// ErrDerivedFactLimit is returned when evaluation derives more facts than allowed.
var ErrDerivedFactLimit = errors.New("derived fact limit exceeded")

// DefaultMaxDerivedFacts caps evaluation when no limit is configured.
const DefaultMaxDerivedFacts = 500000

// factLimitMessage starts every error Mangle returns when a fact limit is hit.
const factLimitMessage = "fact size limit reached"

var (
	triplePred = ast.PredicateSym{Symbol: "triple", Arity: 3}
	closedPred = ast.PredicateSym{Symbol: "t", Arity: 3}
)

var compiled = sync.OnceValues(func() (*analysis.ProgramInfo, error) {
	unit, err := parse.Unit(strings.NewReader(program))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze rules: %w", err)
	}
	return info, nil
})

// Reasoner adds entailed triples to a graph.
type Reasoner struct {
	maxDerived int
	logger     *slog.Logger
}

// New creates a reasoner. A non-positive maxDerived uses DefaultMaxDerivedFacts.
func New(maxDerived int, logger *slog.Logger) *Reasoner {
	if maxDerived <= 0 {
		maxDerived = DefaultMaxDerivedFacts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reasoner{maxDerived: maxDerived, logger: logger}
}

// Apply evaluates the rules over g and adds every new entailed triple to g.
// Literal-valued triples do not take part in reasoning. It returns the
// number of triples added.
func (r *Reasoner) Apply(ctx context.Context, g *rdf.Graph) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := compiled()
	if err != nil {
		return 0, err
	}

	store := factstore.NewSimpleInMemoryStore()
	asserted := 0
	for _, tr := range g.Triples(nil, nil, nil) {
		if tr.O.IsLiteral() {
			continue
		}
		store.Add(ast.NewAtom(triplePred.Symbol, ast.String(encode(tr.S)), ast.String(encode(tr.P)), ast.String(encode(tr.O))))
		asserted++
	}

	start := time.Now()
	// every asserted triple is copied once into the closure
	stats, err := engine.EvalProgramWithStats(info, store, engine.WithCreatedFactLimit(asserted+r.maxDerived))
	if err != nil {
		if isFactLimit(err) {
			return 0, fmt.Errorf("%w (%d): %v", ErrDerivedFactLimit, r.maxDerived, err)
		}
		return 0, fmt.Errorf("failed to evaluate rules: %w", err)
	}

	var derived []rdf.Triple
	err = store.GetFacts(ast.NewQuery(closedPred), func(a ast.Atom) error {
		tr, ok := decodeAtom(a)
		if ok && keep(tr) && !g.Has(tr.S, tr.P, tr.O) {
			derived = append(derived, tr)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read derived facts: %w", err)
	}

	if len(derived) > r.maxDerived {
		return 0, fmt.Errorf("%w (%d): %d triples derived", ErrDerivedFactLimit, r.maxDerived, len(derived))
	}

	added := g.AddAll(derived)
	r.logger.Debug("Reasoning complete",
		slog.Int("asserted", asserted),
		slog.Int("derived", added),
		slog.Int("strata", len(stats.Strata)),
		slog.Duration("elapsed", time.Since(start)))
	return added, nil
}

func isFactLimit(err error) bool {
	return strings.Contains(err.Error(), factLimitMessage)
}

// keep filters derived triples that carry no documentation value.
func keep(tr rdf.Triple) bool {
	if tr.S == tr.O && reflexive[tr.P.Value] {
		return false
	}
	if tr.O.IsBlank() && (tr.P.Value == vocabulary.RDFType || tr.P.Value == vocabulary.RDFSSubClassOf) {
		return false
	}
	return true
}

func encode(t rdf.Term) string {
	if t.IsBlank() {
		return "_:" + t.Value
	}
	if tok, ok := tokens[t.Value]; ok {
		return tok
	}
	return t.Value
}

func decode(s string) rdf.Term {
	if label, ok := strings.CutPrefix(s, "_:"); ok {
		return rdf.Blank(label)
	}
	if iri, ok := iris[s]; ok {
		return rdf.IRI(iri)
	}
	return rdf.IRI(s)
}

func decodeAtom(a ast.Atom) (rdf.Triple, bool) {
	if len(a.Args) != 3 {
		return rdf.Triple{}, false
	}
	var parts [3]string
	for i, arg := range a.Args {
		c, ok := arg.(ast.Constant)
		if !ok {
			return rdf.Triple{}, false
		}
		parts[i] = c.Symbol
	}
	tr := rdf.Triple{S: decode(parts[0]), P: decode(parts[1]), O: decode(parts[2])}
	// Blank predicates can only arise from malformed input.
	if !tr.P.IsIRI() {
		return rdf.Triple{}, false
	}
	return tr, true
}
