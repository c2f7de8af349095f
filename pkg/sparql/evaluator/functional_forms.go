package evaluator

import (
	"strings"

	"github.com/quercusdb/quercus/pkg/rdf"
	"github.com/quercusdb/quercus/pkg/sparql/parser"
)

// Functional forms evaluate their own arguments instead of receiving
// them pre-evaluated: IF short-circuits, COALESCE tolerates failing
// arguments, and BOUND inspects the binding itself.

func evalBound(ctx *Context, bindings []string, row []rdf.Value, args []parser.Expr) rdf.Value {
	if len(args) != 1 {
		return arityError("BOUND", 1, len(args))
	}
	if v, ok := args[0].(*parser.VarExpr); ok {
		for i, name := range bindings {
			if name == v.Name && i < len(row) {
				return rdf.Bool(!row[i].IsUnbound())
			}
		}
		return rdf.Bool(false)
	}
	return rdf.Bool(!Eval(ctx, bindings, row, args[0]).IsUnbound())
}

func evalIf(ctx *Context, bindings []string, row []rdf.Value, args []parser.Expr) rdf.Value {
	if len(args) != 3 {
		return arityError("IF", 3, len(args))
	}
	predicate := Eval(ctx, bindings, row, args[0])
	v, err := rdf.EBV(predicate)
	if err != nil {
		return rdf.Error("IF: " + err.Error())
	}
	if v {
		return Eval(ctx, bindings, row, args[1])
	}
	return Eval(ctx, bindings, row, args[2])
}

func evalCoalesce(ctx *Context, bindings []string, row []rdf.Value, args []parser.Expr) rdf.Value {
	for _, arg := range args {
		candidate := Eval(ctx, bindings, row, arg)
		switch candidate.Kind() {
		case rdf.KindUnbound, rdf.KindInvalid, rdf.KindError:
			// try the next argument
		default:
			return candidate
		}
	}
	return rdf.Error("COALESCE: all arguments failed")
}

// sametermFn is stricter than "=": no numeric promotion and no
// cross-kind widening; mismatches are false rather than errors.
func sametermFn(lhs, rhs rdf.Value) rdf.Value {
	if lhs.Kind() != rhs.Kind() {
		return rdf.Bool(false)
	}
	switch lhs.Kind() {
	case rdf.KindBool:
		return rdf.Bool(lhs.AsBool() == rhs.AsBool())
	case rdf.KindInt:
		return rdf.Bool(lhs.AsInt() == rhs.AsInt())
	case rdf.KindFloat:
		return rdf.Bool(lhs.AsFloat() == rhs.AsFloat())
	case rdf.KindDateTime:
		return rdf.Bool(lhs.AsTime().Equal(rhs.AsTime()))
	case rdf.KindString:
		return rdf.Bool(strings.EqualFold(lhs.Lang(), rhs.Lang()) && lhs.AsString() == rhs.AsString())
	case rdf.KindTyped:
		return rdf.Bool(lhs.DatatypeIRI() == rhs.DatatypeIRI() && lhs.AsString() == rhs.AsString())
	case rdf.KindIRI, rdf.KindBlank:
		return rdf.Bool(lhs.AsString() == rhs.AsString())
	default:
		return rdf.Bool(false)
	}
}
