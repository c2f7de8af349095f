package evaluator

import (
	"strings"

	"github.com/quercusdb/quercus/pkg/rdf"
)

// Operators used within SPARQL FILTER expressions, see 17.2 and related.
//
// The boolean operators implement three-valued logic: a true OR and a
// false AND absorb an error on the other side, everything else
// propagates it.

func opNot(operand rdf.Value) rdf.Value {
	v, err := rdf.EBV(operand)
	if err != nil {
		return rdf.Error(err.Error())
	}
	return rdf.Bool(!v)
}

func opUnaryPlus(operand rdf.Value) rdf.Value {
	if operand.IsNumeric() {
		return operand
	}
	return rdf.Error(typeError("unary plus", operand, "numeric"))
}

func opUnaryMinus(operand rdf.Value) rdf.Value {
	switch operand.Kind() {
	case rdf.KindInt:
		return rdf.Int(-operand.AsInt())
	case rdf.KindFloat:
		return rdf.Float(-operand.AsFloat())
	default:
		return rdf.Error(typeError("unary minus", operand, "numeric"))
	}
}

func opOr(lhs, rhs rdf.Value) rdf.Value {
	lv, lerr := rdf.EBV(lhs)
	rv, rerr := rdf.EBV(rhs)
	switch {
	case lerr == nil && rerr == nil:
		return rdf.Bool(lv || rv)
	case lerr == nil:
		if lv {
			return rdf.Bool(true)
		}
		return rdf.Error(rerr.Error())
	case rerr == nil:
		if rv {
			return rdf.Bool(true)
		}
		return rdf.Error(lerr.Error())
	default:
		return rdf.Error(lerr.Error() + " " + rerr.Error())
	}
}

func opAnd(lhs, rhs rdf.Value) rdf.Value {
	lv, lerr := rdf.EBV(lhs)
	rv, rerr := rdf.EBV(rhs)
	switch {
	case lerr == nil && rerr == nil:
		return rdf.Bool(lv && rv)
	case lerr == nil:
		if !lv {
			return rdf.Bool(false)
		}
		return rdf.Error(rerr.Error())
	case rerr == nil:
		if !rv {
			return rdf.Bool(false)
		}
		return rdf.Error(lerr.Error())
	default:
		return rdf.Error(lerr.Error() + " " + rerr.Error())
	}
}

func opEquals(lhs, rhs rdf.Value) rdf.Value {
	eq, msg := equalValues("=", lhs, rhs)
	if msg != "" {
		return rdf.Error(msg)
	}
	return rdf.Bool(eq)
}

func opNotEquals(lhs, rhs rdf.Value) rdf.Value {
	eq, msg := equalValues("!=", lhs, rhs)
	if msg != "" {
		return rdf.Error(msg)
	}
	return rdf.Bool(!eq)
}

func opLessThan(lhs, rhs rdf.Value) rdf.Value {
	c, msg := CompareValues("<", lhs, rhs)
	if msg != "" {
		return rdf.Error(msg)
	}
	return rdf.Bool(c < 0)
}

func opLessThanOrEqual(lhs, rhs rdf.Value) rdf.Value {
	c, msg := CompareValues("<=", lhs, rhs)
	if msg != "" {
		return rdf.Error(msg)
	}
	return rdf.Bool(c <= 0)
}

func opGreaterThan(lhs, rhs rdf.Value) rdf.Value {
	c, msg := CompareValues(">", lhs, rhs)
	if msg != "" {
		return rdf.Error(msg)
	}
	return rdf.Bool(c > 0)
}

func opGreaterThanOrEqual(lhs, rhs rdf.Value) rdf.Value {
	c, msg := CompareValues(">=", lhs, rhs)
	if msg != "" {
		return rdf.Error(msg)
	}
	return rdf.Bool(c >= 0)
}

// equalValues is the "=" comparison: strict per kind, except that Int
// and Float cross-compare numerically. Strings require equal lexemes and
// case-insensitively equal language tags; typed literals require equal
// datatypes. Any other pairing is a type error.
func equalValues(operator string, lhs, rhs rdf.Value) (bool, string) {
	switch lhs.Kind() {
	case rdf.KindBool:
		if rhs.Kind() == rdf.KindBool {
			return lhs.AsBool() == rhs.AsBool(), ""
		}
		return false, typeError(operator, rhs, "boolean")
	case rdf.KindInt, rdf.KindFloat:
		if rhs.IsNumeric() {
			if lhs.Kind() == rdf.KindInt && rhs.Kind() == rdf.KindInt {
				return lhs.AsInt() == rhs.AsInt(), ""
			}
			return lhs.Number() == rhs.Number(), ""
		}
		return false, typeError(operator, rhs, "numeric")
	case rdf.KindDateTime:
		if rhs.Kind() == rdf.KindDateTime {
			return lhs.AsTime().Equal(rhs.AsTime()), ""
		}
		return false, typeError(operator, rhs, "dateTime")
	case rdf.KindString:
		if rhs.Kind() == rdf.KindString {
			return strings.EqualFold(lhs.Lang(), rhs.Lang()) && lhs.AsString() == rhs.AsString(), ""
		}
		return false, typeError(operator, rhs, "string")
	case rdf.KindTyped:
		if rhs.Kind() == rdf.KindTyped {
			return lhs.DatatypeIRI() == rhs.DatatypeIRI() && lhs.AsString() == rhs.AsString(), ""
		}
		return false, typeError(operator, rhs, lhs.DatatypeIRI())
	case rdf.KindIRI:
		if rhs.Kind() == rdf.KindIRI {
			return lhs.AsString() == rhs.AsString(), ""
		}
		return false, typeError(operator, rhs, "IRI")
	case rdf.KindBlank:
		if rhs.Kind() == rdf.KindBlank {
			return lhs.AsString() == rhs.AsString(), ""
		}
		return false, typeError(operator, rhs, "blank")
	default:
		return false, typeError(operator, lhs, "a")
	}
}

// CompareValues is the ordering comparison behind <, <=, >, and >=, see
// 15.1. It orders numerics, dateTimes, strings (language then lexeme),
// typed literals (datatype then lexeme), and IRIs; Unbound sorts below
// everything and Blank between Unbound and the bound kinds. Incomparable
// pairs report a type-error message in the second result.
func CompareValues(operator string, lhs, rhs rdf.Value) (int, string) {
	switch lhs.Kind() {
	case rdf.KindInt, rdf.KindFloat:
		switch {
		case rhs.IsNumeric():
			return rdf.Compare(lhs, rhs), ""
		case rhs.Kind() == rdf.KindUnbound || rhs.Kind() == rdf.KindBlank:
			return 1, ""
		default:
			return 0, typeError(operator, rhs, "numeric")
		}
	case rdf.KindDateTime:
		switch rhs.Kind() {
		case rdf.KindDateTime:
			return rdf.Compare(lhs, rhs), ""
		case rdf.KindUnbound, rdf.KindBlank:
			return 1, ""
		default:
			return 0, typeError(operator, rhs, "dateTime")
		}
	case rdf.KindString:
		switch rhs.Kind() {
		case rdf.KindString:
			llang, rlang := strings.ToLower(lhs.Lang()), strings.ToLower(rhs.Lang())
			if llang != rlang {
				return strings.Compare(llang, rlang), ""
			}
			return strings.Compare(lhs.AsString(), rhs.AsString()), ""
		case rdf.KindUnbound, rdf.KindBlank:
			return 1, ""
		default:
			return 0, typeError(operator, rhs, "string")
		}
	case rdf.KindTyped:
		switch rhs.Kind() {
		case rdf.KindTyped:
			if lhs.DatatypeIRI() != rhs.DatatypeIRI() {
				return strings.Compare(lhs.DatatypeIRI(), rhs.DatatypeIRI()), ""
			}
			return strings.Compare(lhs.AsString(), rhs.AsString()), ""
		case rdf.KindUnbound, rdf.KindBlank:
			return 1, ""
		default:
			return 0, typeError(operator, rhs, lhs.DatatypeIRI())
		}
	case rdf.KindIRI:
		switch rhs.Kind() {
		case rdf.KindIRI:
			return strings.Compare(lhs.AsString(), rhs.AsString()), ""
		case rdf.KindUnbound, rdf.KindBlank:
			return 1, ""
		default:
			return 0, typeError(operator, rhs, "anyURI")
		}
	case rdf.KindUnbound:
		if rhs.Kind() == rdf.KindUnbound {
			return 0, ""
		}
		return -1, ""
	case rdf.KindBlank:
		switch rhs.Kind() {
		case rdf.KindUnbound:
			return 1, ""
		case rdf.KindBlank:
			return strings.Compare(lhs.AsString(), rhs.AsString()), ""
		default:
			return -1, ""
		}
	default:
		return 0, typeError(operator, lhs, "numeric, dateTime, string, or explicitly typed")
	}
}

func opMultiply(lhs, rhs rdf.Value) rdf.Value {
	return arith("*", lhs, rhs,
		func(a, b int64) rdf.Value { return rdf.Int(a * b) },
		func(a, b float64) rdf.Value { return rdf.Float(a * b) })
}

func opDivide(lhs, rhs rdf.Value) rdf.Value {
	return arith("/", lhs, rhs,
		func(a, b int64) rdf.Value {
			if b == 0 {
				return rdf.Error("Divide by zero.")
			}
			return rdf.Int(a / b)
		},
		func(a, b float64) rdf.Value { return rdf.Float(a / b) })
}

func opAdd(lhs, rhs rdf.Value) rdf.Value {
	return arith("+", lhs, rhs,
		func(a, b int64) rdf.Value { return rdf.Int(a + b) },
		func(a, b float64) rdf.Value { return rdf.Float(a + b) })
}

func opSubtract(lhs, rhs rdf.Value) rdf.Value {
	return arith("-", lhs, rhs,
		func(a, b int64) rdf.Value { return rdf.Int(a - b) },
		func(a, b float64) rdf.Value { return rdf.Float(a - b) })
}

// arith applies the numeric promotion rule: Int op Int stays Int,
// any Float operand promotes the whole operation to Float.
func arith(operator string, lhs, rhs rdf.Value, ints func(a, b int64) rdf.Value, floats func(a, b float64) rdf.Value) rdf.Value {
	if !lhs.IsNumeric() {
		return rdf.Error(typeError(operator, lhs, "numeric"))
	}
	if !rhs.IsNumeric() {
		return rdf.Error(typeError(operator, rhs, "numeric"))
	}
	if lhs.Kind() == rdf.KindInt && rhs.Kind() == rdf.KindInt {
		return ints(lhs.AsInt(), rhs.AsInt())
	}
	return floats(lhs.Number(), rhs.Number())
}
