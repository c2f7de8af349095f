package executor

import (
	"fmt"
	"strings"

	"github.com/quercusdb/quercus/pkg/rdf"
	"github.com/quercusdb/quercus/pkg/sparql/evaluator"
	"github.com/quercusdb/quercus/pkg/sparql/parser"
	"github.com/quercusdb/quercus/pkg/store"
)

// Eval evaluates an algebra tree against the context's store and returns
// a solution whose leading bindings are the selected names, in SELECT
// order. Value-level errors stay inside rows; the returned error is
// reserved for the fatal conditions (a variable bound twice, a BIND onto
// an already-bound name).
func Eval(ctx *evaluator.Context, node parser.Algebra, selected []string) (*store.Solution, error) {
	switch n := node.(type) {
	case *parser.Basic:
		return evalBasic(ctx, n, selected)
	case *parser.Group:
		return evalGroup(ctx, n, selected)
	case *parser.Optional:
		// A bare Optional is its child left-joined against nothing.
		child, err := Eval(ctx, n.Child, selected)
		if err != nil {
			return nil, err
		}
		return LeftJoin(identity(selected), child), nil
	default:
		return nil, fmt.Errorf("%T cannot be evaluated outside of a group", node)
	}
}

// identity is the join identity: the selected bindings over a single
// all-unbound row. Joining it with any solution yields that solution
// with the selected columns leading.
func identity(selected []string) *store.Solution {
	row := make([]rdf.Value, len(selected))
	for i := range row {
		row[i] = rdf.Unbound()
	}
	return &store.Solution{
		Bindings:    append([]string(nil), selected...),
		NumSelected: len(selected),
		Rows:        [][]rdf.Value{row},
	}
}

func evalGroup(ctx *evaluator.Context, group *parser.Group, selected []string) (*store.Solution, error) {
	running := identity(selected)
	for _, child := range group.Children {
		switch c := child.(type) {
		case *parser.Filter:
			running = applyFilter(ctx, running, c.Expr)
		case *parser.Bind:
			next, err := applyBind(ctx, running, c.Expr, c.Name)
			if err != nil {
				return nil, err
			}
			running = next
		case *parser.Optional:
			sol, err := Eval(ctx, c.Child, selected)
			if err != nil {
				return nil, err
			}
			running = LeftJoin(running, sol)
		default:
			sol, err := Eval(ctx, child, selected)
			if err != nil {
				return nil, err
			}
			running = Join(running, sol)
		}
	}
	return running, nil
}

func evalBasic(ctx *evaluator.Context, basic *parser.Basic, selected []string) (*store.Solution, error) {
	pattern := basic.Pattern
	positions := []parser.Pattern{pattern.Subject, pattern.Predicate, pattern.Object}

	// The same variable twice in one pattern would have to bind two
	// slots at once; reject the query instead of guessing.
	for i, p := range positions {
		for _, q := range positions[i+1:] {
			if p.IsVariable() && p.Var == q.Var {
				return nil, fmt.Errorf("Binding ?%s was set more than once.", p.Var)
			}
		}
	}

	bindings := append([]string(nil), selected...)
	columns := [3]int{-1, -1, -1}
	for i, p := range positions {
		if !p.IsVariable() {
			continue
		}
		col := -1
		for j, name := range bindings {
			if name == p.Var {
				col = j
				break
			}
		}
		if col < 0 {
			col = len(bindings)
			bindings = append(bindings, p.Var)
		}
		columns[i] = col
	}

	sol := &store.Solution{Bindings: bindings, NumSelected: len(selected)}
	ctx.Store.Each(func(t store.Triple) bool {
		slots := [3]rdf.Value{subjectValue(t.Subject), rdf.IRI(t.Predicate), t.Object}
		for i, p := range positions {
			if !p.IsVariable() && !rdf.Equal(p.Value, slots[i]) {
				return true
			}
		}
		row := make([]rdf.Value, len(bindings))
		for i := range row {
			row[i] = rdf.Unbound()
		}
		for i, col := range columns {
			if col >= 0 {
				row[col] = slots[i]
			}
		}
		sol.Rows = append(sol.Rows, row)
		return true
	})
	return sol, nil
}

func subjectValue(subject string) rdf.Value {
	if strings.HasPrefix(subject, "_:") {
		return rdf.Blank(subject)
	}
	return rdf.IRI(subject)
}

// applyFilter keeps the rows whose expression has an effective boolean
// value of true. A false or erroring filter drops the row; errors are
// row-local, never fatal.
func applyFilter(ctx *evaluator.Context, sol *store.Solution, expr parser.Expr) *store.Solution {
	out := &store.Solution{Bindings: sol.Bindings, NumSelected: sol.NumSelected}
	for _, row := range sol.Rows {
		v := evaluator.Eval(ctx, sol.Bindings, row, expr)
		if keep, err := rdf.EBV(v); err == nil && keep {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// applyBind evaluates the expression per row and binds the result to
// name. When name is one of the projected-but-unbound columns the column
// is filled in place; binding over an already-bound value is fatal.
func applyBind(ctx *evaluator.Context, sol *store.Solution, expr parser.Expr, name string) (*store.Solution, error) {
	col := sol.Index(name)
	bindings := sol.Bindings
	if col < 0 {
		col = len(bindings)
		bindings = append(append([]string(nil), bindings...), name)
	}

	out := &store.Solution{Bindings: bindings, NumSelected: sol.NumSelected}
	out.Rows = make([][]rdf.Value, len(sol.Rows))
	for i, row := range sol.Rows {
		next := make([]rdf.Value, len(bindings))
		copy(next, row)
		if col < len(row) && !row[col].IsUnbound() {
			return nil, fmt.Errorf("Binding ?%s was set more than once.", name)
		}
		next[col] = evaluator.Eval(ctx, sol.Bindings, row, expr)
		out.Rows[i] = next
	}
	return out, nil
}
