// Package sparql compiles SPARQL 1.1 SELECT queries and executes them
// against an in-memory triple store.
//
// Usage is compile-then-select:
//
//	selector, err := sparql.Compile(`SELECT ?s WHERE {?s v:fn ?name}`)
//	solution, err := selector.Select(store)
//
// A Selector is reusable across stores. The PRNG behind RAND() and the
// timestamp behind NOW() are captured at compile time so repeated calls
// within one query agree; a test harness can overwrite both before
// selecting.
package sparql

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/quercusdb/quercus/pkg/sparql/evaluator"
	"github.com/quercusdb/quercus/pkg/sparql/executor"
	"github.com/quercusdb/quercus/pkg/sparql/parser"
	"github.com/quercusdb/quercus/pkg/store"
)

// Selector is a compiled query.
type Selector struct {
	query *parser.Query

	// Rand feeds RAND() and Now feeds NOW(); both are frozen at compile
	// time and may be replaced before Select for reproducible results.
	Rand *rand.Rand
	Now  time.Time
}

// Compile parses the query text into a reusable Selector. Errors carry
// the line and column they were detected at.
func Compile(text string) (*Selector, error) {
	query, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return &Selector{
		query: query,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:   time.Now(),
	}, nil
}

// Select executes the query against the store and returns its solution.
// The store must not be mutated while Select runs. The returned error
// covers the fatal conditions only (a variable bound twice, an unknown
// extension function, an ORDER BY key that cannot be evaluated);
// value-level errors stay inside the rows per SPARQL semantics.
func (s *Selector) Select(st *store.Store) (*store.Solution, error) {
	selected := s.query.Select
	if s.query.Wildcard {
		selected = parser.Vars(s.query.Where)
	}

	for _, name := range parser.Extensions(s.query.Where, s.query.OrderBy) {
		if _, ok := st.Extension(name); !ok {
			return nil, errors.Errorf("%s wasn't registered with the store as an extension function", name)
		}
	}

	ctx := &evaluator.Context{Store: st, Rand: s.Rand, Now: s.Now}
	solution, err := executor.Eval(ctx, s.query.Where, selected)
	if err != nil {
		return nil, err
	}

	if err := executor.OrderBy(ctx, solution, s.query.OrderBy); err != nil {
		return nil, err
	}
	if s.query.Distinct {
		solution = executor.Distinct(solution)
	}
	if s.query.Limit != nil {
		executor.Limit(solution, *s.query.Limit)
	}
	executor.Project(solution)

	solution.Namespaces = st.Namespaces
	return solution, nil
}

// Distinct reports whether the query carries the DISTINCT modifier.
func (s *Selector) Distinct() bool { return s.query.Distinct }

// Selected returns the projection list, or nil for SELECT *.
func (s *Selector) Selected() []string {
	if s.query.Wildcard {
		return nil
	}
	return append([]string(nil), s.query.Select...)
}
