package evaluator

import (
	"github.com/quercusdb/quercus/pkg/rdf"
)

func isIRIFn(operand rdf.Value) rdf.Value {
	return rdf.Bool(operand.Kind() == rdf.KindIRI)
}

func isBlankFn(operand rdf.Value) rdf.Value {
	return rdf.Bool(operand.Kind() == rdf.KindBlank)
}

func isLiteralFn(operand rdf.Value) rdf.Value {
	return rdf.Bool(operand.IsLiteral())
}

func isNumericFn(operand rdf.Value) rdf.Value {
	return rdf.Bool(operand.IsNumeric())
}

// strFn returns the plain lexical form of its operand as a simple
// literal: IRI text without brackets, blank labels as "_:label".
func strFn(operand rdf.Value) rdf.Value {
	switch operand.Kind() {
	case rdf.KindUnbound, rdf.KindInvalid, rdf.KindError:
		return rdf.Error(typeError("STR", operand, "a bound"))
	default:
		return rdf.String(operand.Lexical(), "")
	}
}

func langFn(operand rdf.Value) rdf.Value {
	if operand.Kind() == rdf.KindString {
		return rdf.String(operand.Lang(), "")
	}
	return rdf.String("", "")
}

func datatypeFn(operand rdf.Value) rdf.Value {
	if dt := rdf.Datatype(operand); dt != "" {
		return rdf.String(dt, "")
	}
	return rdf.Errorf("DATATYPE: can't get a type for %s", operand)
}

func strdtFn(lexical, kind rdf.Value) rdf.Value {
	if !lexical.IsLiteral() {
		return rdf.Errorf("STRDT: expected a simple literal for the first argument but found %s", lexical)
	}
	if kind.Kind() != rdf.KindIRI {
		return rdf.Errorf("STRDT: expected an IRI for the second argument found %s", kind)
	}
	return rdf.Typed(lexical.Lexical(), kind.AsString())
}

func strlangFn(lexical, tag rdf.Value) rdf.Value {
	if !lexical.IsLiteral() {
		return rdf.Errorf("STRLANG: expected a simple literal for the first argument but found %s", lexical)
	}
	if !tag.IsLiteral() {
		return rdf.Errorf("STRLANG: expected a simple literal for the second argument found %s", tag)
	}
	return rdf.String(lexical.Lexical(), tag.Lexical())
}
