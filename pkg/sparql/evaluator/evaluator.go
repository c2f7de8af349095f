package evaluator

import (
	"math/rand"
	"time"

	"github.com/quercusdb/quercus/pkg/rdf"
	"github.com/quercusdb/quercus/pkg/sparql/parser"
	"github.com/quercusdb/quercus/pkg/store"
)

// Context carries the query-scoped state expressions evaluate against:
// the store (for namespaces and the extension table), the PRNG behind
// RAND, and the frozen NOW timestamp. Rand and Now are captured when the
// query is compiled so repeated calls within one query agree.
type Context struct {
	Store *store.Store
	Rand  *rand.Rand
	Now   time.Time
}

// Eval evaluates an expression against one solution row and returns a
// value. Evaluation never fails as a Go error: type mismatches, arity
// mismatches, and unbound variables all surface as Error values, which
// most callers (FILTER in particular) treat as row-local conditions.
func Eval(ctx *Context, bindings []string, row []rdf.Value, expr parser.Expr) rdf.Value {
	switch e := expr.(type) {
	case *parser.ConstExpr:
		return e.Value

	case *parser.VarExpr:
		for i, name := range bindings {
			if name == e.Name && i < len(row) {
				return row[i]
			}
		}
		return rdf.Errorf("?%s was not bound.", e.Name)

	case *parser.ExtExpr:
		// Arguments evaluate even when they produce errors: extension
		// functions are allowed to accept them.
		args := evalArgs(ctx, bindings, row, e.Args)
		fn, ok := ctx.Store.Extension(e.Name)
		if !ok {
			return rdf.Errorf("%s wasn't registered with the store as an extension function", e.Name)
		}
		return fn(ctx.Store.Namespaces, args)

	case *parser.CallExpr:
		switch e.Name {
		case "IF":
			// Short-circuits: the untaken branch never evaluates.
			return evalIf(ctx, bindings, row, e.Args)
		case "COALESCE":
			return evalCoalesce(ctx, bindings, row, e.Args)
		case "BOUND":
			return evalBound(ctx, bindings, row, e.Args)
		}
		args := evalArgs(ctx, bindings, row, e.Args)
		return evalCall(ctx, e.Name, args)

	default:
		return rdf.Errorf("unsupported expression %T", expr)
	}
}

func evalArgs(ctx *Context, bindings []string, row []rdf.Value, exprs []parser.Expr) []rdf.Value {
	args := make([]rdf.Value, len(exprs))
	for i, e := range exprs {
		args[i] = Eval(ctx, bindings, row, e)
	}
	return args
}

type unaryFn func(rdf.Value) rdf.Value
type binaryFn func(rdf.Value, rdf.Value) rdf.Value

func evalCall(ctx *Context, fname string, args []rdf.Value) rdf.Value {
	switch fname {
	// operators
	case "!":
		return call1(fname, opNot, args)
	case "||":
		return call2(fname, opOr, args)
	case "&&":
		return call2(fname, opAnd, args)
	case "=":
		return call2(fname, opEquals, args)
	case "!=":
		return call2(fname, opNotEquals, args)
	case "<":
		return call2(fname, opLessThan, args)
	case "<=":
		return call2(fname, opLessThanOrEqual, args)
	case ">":
		return call2(fname, opGreaterThan, args)
	case ">=":
		return call2(fname, opGreaterThanOrEqual, args)
	case "*":
		return call2(fname, opMultiply, args)
	case "/":
		return call2(fname, opDivide, args)
	case "+":
		if len(args) == 1 {
			return opUnaryPlus(args[0])
		}
		return call2(fname, opAdd, args)
	case "-":
		if len(args) == 1 {
			return opUnaryMinus(args[0])
		}
		return call2(fname, opSubtract, args)

	// functional forms
	case "SAMETERM":
		return call2(fname, sametermFn, args)

	// functions on terms
	case "ISIRI":
		return call1(fname, isIRIFn, args)
	case "ISBLANK":
		return call1(fname, isBlankFn, args)
	case "ISLITERAL":
		return call1(fname, isLiteralFn, args)
	case "ISNUMERIC":
		return call1(fname, isNumericFn, args)
	case "STR":
		return call1(fname, strFn, args)
	case "LANG":
		return call1(fname, langFn, args)
	case "DATATYPE":
		return call1(fname, datatypeFn, args)
	case "STRDT":
		return call2(fname, strdtFn, args)
	case "STRLANG":
		return call2(fname, strlangFn, args)

	// functions on strings
	case "STRLEN":
		return call1(fname, strlenFn, args)
	case "SUBSTR":
		switch len(args) {
		case 2:
			return substr2Fn(args[0], args[1])
		case 3:
			return substr3Fn(args[0], args[1], args[2])
		default:
			return rdf.Errorf("SUBSTR accepts 2 or 3 arguments but was called with %d arguments.", len(args))
		}
	case "UCASE":
		return call1(fname, ucaseFn, args)
	case "LCASE":
		return call1(fname, lcaseFn, args)
	case "STRSTARTS":
		return call2(fname, strstartsFn, args)
	case "STRENDS":
		return call2(fname, strendsFn, args)
	case "CONTAINS":
		return call2(fname, containsFn, args)
	case "STRBEFORE":
		return call2(fname, strbeforeFn, args)
	case "STRAFTER":
		return call2(fname, strafterFn, args)
	case "ENCODE_FOR_URI":
		return call1(fname, encodeForURIFn, args)
	case "CONCAT":
		return concatFn(args)
	case "LANGMATCHES":
		return call2(fname, langmatchesFn, args)

	// functions on numerics
	case "ABS":
		return call1(fname, absFn, args)
	case "ROUND":
		return call1(fname, roundFn, args)
	case "CEIL":
		return call1(fname, ceilFn, args)
	case "FLOOR":
		return call1(fname, floorFn, args)
	case "RAND":
		return randFn(ctx, args)

	// functions on dates
	case "NOW":
		return nowFn(ctx, args)
	case "YEAR":
		return call1(fname, yearFn, args)
	case "MONTH":
		return call1(fname, monthFn, args)
	case "DAY":
		return call1(fname, dayFn, args)
	case "HOURS":
		return call1(fname, hoursFn, args)
	case "MINUTES":
		return call1(fname, minutesFn, args)
	case "SECONDS":
		return call1(fname, secondsFn, args)
	case "TZ":
		return call1(fname, tzFn, args)

	default:
		return rdf.Errorf("%s is not implemented.", fname)
	}
}

func call1(fname string, fn unaryFn, args []rdf.Value) rdf.Value {
	if len(args) != 1 {
		return arityError(fname, 1, len(args))
	}
	return fn(args[0])
}

func call2(fname string, fn binaryFn, args []rdf.Value) rdf.Value {
	if len(args) != 2 {
		return arityError(fname, 2, len(args))
	}
	return fn(args[0], args[1])
}

func arityError(fname string, want, got int) rdf.Value {
	return rdf.Errorf("%s accepts %d %s but was called with %d %s.",
		fname, want, plural(want), got, plural(got))
}

func plural(n int) string {
	if n == 1 {
		return "argument"
	}
	return "arguments"
}

// typeError builds the message for an operand of the wrong kind. Error
// conditions re-wrap their own payload so messages accumulate function
// names as they propagate outward.
func typeError(fname string, operand rdf.Value, expected string) string {
	switch operand.Kind() {
	case rdf.KindUnbound:
		return fname + ": unbound."
	case rdf.KindInvalid:
		return fname + ": '" + operand.AsString() + "' is not a valid " + operand.DatatypeIRI()
	case rdf.KindError:
		return fname + ": " + operand.ErrorMessage()
	default:
		return fname + ": expected " + expected + " value but found " + operand.String() + "."
	}
}
