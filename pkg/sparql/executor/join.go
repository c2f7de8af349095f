package executor

import (
	"github.com/quercusdb/quercus/pkg/rdf"
	"github.com/quercusdb/quercus/pkg/store"
)

// joinShape precomputes the merged binding vector of two solutions and,
// for each of b's columns, the column in a it shares a name with (or -1
// when the name is new).
type joinShape struct {
	bindings []string
	shared   []int // b column -> a column, -1 when b's name is new
	fresh    []int // b columns whose names are new, in order
}

func shapeOf(a, b *store.Solution) joinShape {
	shape := joinShape{
		bindings: append([]string(nil), a.Bindings...),
		shared:   make([]int, len(b.Bindings)),
	}
	for j, name := range b.Bindings {
		shape.shared[j] = a.Index(name)
		if shape.shared[j] < 0 {
			shape.shared[j] = -1
			shape.fresh = append(shape.fresh, j)
			shape.bindings = append(shape.bindings, name)
		}
	}
	return shape
}

// compatible reports whether two rows agree on every shared name: a
// name is agreeable when either side is unbound or both sides compare
// equal under the total value order.
func (s joinShape) compatible(ra, rb []rdf.Value) bool {
	for j, i := range s.shared {
		if i < 0 {
			continue
		}
		if ra[i].IsUnbound() || rb[j].IsUnbound() {
			continue
		}
		if !rdf.Equal(ra[i], rb[j]) {
			return false
		}
	}
	return true
}

// merge builds the combined row, preferring the bound side for shared
// columns.
func (s joinShape) merge(ra, rb []rdf.Value) []rdf.Value {
	row := make([]rdf.Value, len(s.bindings))
	copy(row, ra)
	for j, i := range s.shared {
		if i >= 0 && row[i].IsUnbound() {
			row[i] = rb[j]
		}
	}
	for k, j := range s.fresh {
		row[len(ra)+k] = rb[j]
	}
	return row
}

// pad extends a row of a with Unbound for every column b introduces.
func (s joinShape) pad(ra []rdf.Value) []rdf.Value {
	row := make([]rdf.Value, len(s.bindings))
	copy(row, ra)
	for k := range s.fresh {
		row[len(ra)+k] = rdf.Unbound()
	}
	return row
}

// Join computes the inner join of two solutions. Row order is stable:
// outer loop over a, inner loop over b.
func Join(a, b *store.Solution) *store.Solution {
	shape := shapeOf(a, b)
	out := &store.Solution{Bindings: shape.bindings, NumSelected: a.NumSelected}
	for _, ra := range a.Rows {
		for _, rb := range b.Rows {
			if shape.compatible(ra, rb) {
				out.Rows = append(out.Rows, shape.merge(ra, rb))
			}
		}
	}
	return out
}

// LeftJoin computes the left-outer join used by OPTIONAL: rows of a with
// no compatible partner survive, padded with Unbound for b's columns; a
// row of b that matches nothing contributes nothing.
func LeftJoin(a, b *store.Solution) *store.Solution {
	shape := shapeOf(a, b)
	out := &store.Solution{Bindings: shape.bindings, NumSelected: a.NumSelected}
	for _, ra := range a.Rows {
		matched := false
		for _, rb := range b.Rows {
			if shape.compatible(ra, rb) {
				matched = true
				out.Rows = append(out.Rows, shape.merge(ra, rb))
			}
		}
		if !matched {
			out.Rows = append(out.Rows, shape.pad(ra))
		}
	}
	return out
}
