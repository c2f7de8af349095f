package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quercusdb/quercus/pkg/rdf"
)

// Solution is the result of evaluating a query (or one algebra step of
// one). Bindings lists the variable names; the leading NumSelected names
// come from the SELECT clause in SELECT order, any later names are
// internal columns produced by joins. During evaluation every row is
// exactly len(Bindings) wide; the final projection truncates rows to
// NumSelected.
//
// Algebra steps build new Solutions rather than mutating their inputs,
// so a Solution may be handed to another goroutine once produced. The
// final ORDER BY, LIMIT, and projection steps (executor.OrderBy, Limit,
// and Project) reorder or truncate the Solution they are given in place.
type Solution struct {
	Namespaces  []Namespace
	Bindings    []string
	NumSelected int
	Rows        [][]rdf.Value
}

// Index returns the column of name, or -1 when the solution does not
// bind it.
func (s *Solution) Index(name string) int {
	for i, b := range s.Bindings {
		if b == name {
			return i
		}
	}
	return -1
}

// Get returns the value bound to name in the given row, or Unbound when
// the solution has no such column (or the projection dropped it).
func (s *Solution) Get(row int, name string) rdf.Value {
	if i := s.Index(name); i >= 0 && i < len(s.Rows[row]) {
		return s.Rows[row][i]
	}
	return rdf.Unbound()
}

// Search is Get distinguishing a missing column from a column bound to
// Unbound.
func (s *Solution) Search(row int, name string) (rdf.Value, bool) {
	if i := s.Index(name); i >= 0 && i < len(s.Rows[row]) {
		return s.Rows[row][i], true
	}
	return rdf.Unbound(), false
}

// Sort returns a copy of the solution with rows ordered column by column
// under the total value order. In general an ORDER BY clause should be
// used to order solutions; manual sorting is convenient for unit tests
// that don't care about row order.
func (s *Solution) Sort() *Solution {
	rows := make([][]rdf.Value, len(s.Rows))
	copy(rows, s.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if c := rdf.Compare(a[k], b[k]); c != 0 {
				return c < 0
			}
		}
		return len(a) < len(b)
	})
	out := *s
	out.Rows = rows
	return &out
}

func (s *Solution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", strings.Join(s.Bindings, "\t"))
	for _, row := range s.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FriendlyString(s.Namespaces, v)
		}
		fmt.Fprintf(&b, "%s\n", strings.Join(cells, "\t"))
	}
	return b.String()
}
