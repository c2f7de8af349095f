package executor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/quercusdb/quercus/pkg/rdf"
	"github.com/quercusdb/quercus/pkg/sparql/evaluator"
	"github.com/quercusdb/quercus/pkg/sparql/parser"
	"github.com/quercusdb/quercus/pkg/store"
)

// OrderBy sorts the solution's rows by the given keys. Each key
// expression is evaluated once per row; a key that evaluates to an Error
// value is promoted to a fatal error carrying the offending message.
// The sort is stable, so rows equal under every key keep their order.
func OrderBy(ctx *evaluator.Context, sol *store.Solution, keys []parser.OrderKey) error {
	if len(keys) == 0 || len(sol.Rows) == 0 {
		return nil
	}

	keyValues := make([][]rdf.Value, len(sol.Rows))
	for r, row := range sol.Rows {
		keyValues[r] = make([]rdf.Value, len(keys))
		for k, key := range keys {
			v := evaluator.Eval(ctx, sol.Bindings, row, key.Expr)
			if v.IsError() {
				return fmt.Errorf("<: %s", v.ErrorMessage())
			}
			keyValues[r][k] = v
		}
	}

	order := make([]int, len(sol.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := keyValues[order[i]], keyValues[order[j]]
		for k, key := range keys {
			c := rdf.Compare(a[k], b[k])
			if key.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})

	rows := make([][]rdf.Value, len(sol.Rows))
	for i, r := range order {
		rows[i] = sol.Rows[r]
	}
	sol.Rows = rows
	return nil
}

// Distinct removes duplicate rows, comparing only the projected leading
// columns. Rows hash into buckets by a canonical key; full value
// equality decides within a bucket, so hash collisions cannot drop rows
// and numeric promotion (Int vs Float) cannot keep duplicates.
func Distinct(sol *store.Solution) *store.Solution {
	out := &store.Solution{
		Namespaces:  sol.Namespaces,
		Bindings:    sol.Bindings,
		NumSelected: sol.NumSelected,
	}
	buckets := make(map[xxh3.Uint128][]int)
	for _, row := range sol.Rows {
		h := xxh3.HashString128(distinctKey(row, sol.NumSelected))
		dup := false
		for _, kept := range buckets[h] {
			if projectedEqual(out.Rows[kept], row, sol.NumSelected) {
				dup = true
				break
			}
		}
		if !dup {
			buckets[h] = append(buckets[h], len(out.Rows))
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func projectedEqual(a, b []rdf.Value, n int) bool {
	for i := 0; i < n && i < len(a) && i < len(b); i++ {
		if !rdf.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// distinctKey renders the projected columns so that rows equal under
// the total value order render identically: numerics widen to float,
// language tags lowercase.
func distinctKey(row []rdf.Value, n int) string {
	var b strings.Builder
	for i := 0; i < n && i < len(row); i++ {
		v := row[i]
		switch v.Kind() {
		case rdf.KindBool:
			b.WriteString("B:")
			b.WriteString(v.Lexical())
		case rdf.KindInt, rdf.KindFloat:
			b.WriteString("n:")
			n := v.Number()
			if n == 0 {
				n = 0 // -0 compares equal to 0, so it renders as 0
			}
			b.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
		case rdf.KindDateTime:
			b.WriteString("d:")
			b.WriteString(strconv.FormatInt(v.AsTime().UnixNano(), 10))
		case rdf.KindString:
			b.WriteString("s:")
			b.WriteString(v.AsString())
			b.WriteString("@")
			b.WriteString(strings.ToLower(v.Lang()))
		case rdf.KindTyped, rdf.KindInvalid:
			b.WriteString("t:")
			b.WriteString(v.AsString())
			b.WriteString("^")
			b.WriteString(v.DatatypeIRI())
		case rdf.KindIRI:
			b.WriteString("i:")
			b.WriteString(v.AsString())
		case rdf.KindBlank:
			b.WriteString("b:")
			b.WriteString(v.AsString())
		case rdf.KindUnbound:
			b.WriteString("u")
		case rdf.KindError:
			b.WriteString("e:")
			b.WriteString(v.ErrorMessage())
		}
		b.WriteByte(0)
	}
	return b.String()
}

// Limit truncates the solution to at most n rows.
func Limit(sol *store.Solution, n int) {
	if n < len(sol.Rows) {
		sol.Rows = sol.Rows[:n]
	}
}

// Project drops the trailing non-selected columns from every row. The
// binding names are retained so callers can still see which internal
// columns the joins produced. Projecting twice is a no-op.
func Project(sol *store.Solution) {
	for i, row := range sol.Rows {
		if len(row) > sol.NumSelected {
			sol.Rows[i] = row[:sol.NumSelected]
		}
	}
}
