package rdf

import (
	"strconv"
	"strings"
	"time"
)

// XSD datatype IRIs recognized by the literal parser.
const (
	XSDAnyURI   = "http://www.w3.org/2001/XMLSchema#anyURI"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	XSDDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDFloat    = "http://www.w3.org/2001/XMLSchema#float"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
)

// integerTypes are the XSD types parsed as a signed 64-bit integer.
// Minimally conformant processors must support at least 18 digits and
// int64 gives us 19.
var integerTypes = map[string]bool{
	XSDDecimal: true,
	XSDInteger: true,
	"http://www.w3.org/2001/XMLSchema#nonPositiveInteger": true,
	"http://www.w3.org/2001/XMLSchema#negativeInteger":    true,
	"http://www.w3.org/2001/XMLSchema#long":               true,
	"http://www.w3.org/2001/XMLSchema#int":                true,
	"http://www.w3.org/2001/XMLSchema#short":              true,
	"http://www.w3.org/2001/XMLSchema#byte":               true,
	"http://www.w3.org/2001/XMLSchema#nonNegativeInteger": true,
	"http://www.w3.org/2001/XMLSchema#unsignedLong":       true,
	"http://www.w3.org/2001/XMLSchema#unsignedInt":        true,
	"http://www.w3.org/2001/XMLSchema#unsignedShort":      true,
	"http://www.w3.org/2001/XMLSchema#unsignedByte":       true,
	"http://www.w3.org/2001/XMLSchema#positiveInteger":    true,
}

// stringTypes are the XSD types carried as plain strings (with an
// optional language tag).
var stringTypes = map[string]bool{
	XSDString: true,
	"http://www.w3.org/2001/XMLSchema#normalizedString": true,
	"http://www.w3.org/2001/XMLSchema#token":            true,
	"http://www.w3.org/2001/XMLSchema#language":         true,
	"http://www.w3.org/2001/XMLSchema#Name":             true,
	"http://www.w3.org/2001/XMLSchema#NCName":           true,
	"http://www.w3.org/2001/XMLSchema#ID":               true,
}

// dateTimeLayouts is the fall-through order for xsd:dateTime lexemes:
// explicit offset, then named zone (technically only Z is allowed),
// then local time.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05MST",
	"2006-01-02T15:04:05",
}

// LiteralToValue converts a lexical form plus datatype IRI and language
// tag into a Value. Lexemes that are not valid for a boolean or numeric
// datatype produce Invalid; a malformed dateTime produces Error (the
// standard explicitly reserves Invalid for bool and numerics).
func LiteralToValue(lexeme, datatype, lang string) Value {
	switch {
	case datatype == XSDAnyURI && lang == "":
		if strings.HasPrefix(lexeme, "_:") {
			return Blank(lexeme)
		}
		return IRI(lexeme)

	case datatype == XSDBoolean && lang == "":
		switch lexeme {
		case "true", "1":
			return Bool(true)
		case "false", "0":
			return Bool(false)
		default:
			return Invalid(lexeme, datatype)
		}

	case datatype == XSDDateTime && lang == "":
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, lexeme); err == nil {
				return DateTime(t)
			}
		}
		return Errorf("'%s' is not an ISO 8601 dateTime.", lexeme)

	case integerTypes[datatype] && lang == "":
		// Strict lexeme validation: trailing garbage rejects the whole
		// lexeme so "23xx" is Invalid, not 23.
		v, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return Invalid(lexeme, datatype)
		}
		return Int(v)

	case (datatype == XSDFloat || datatype == XSDDouble) && lang == "":
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Invalid(lexeme, datatype)
		}
		return Float(v)

	case stringTypes[datatype]:
		return String(lexeme, lang)

	case lang == "":
		return Typed(lexeme, datatype)

	default:
		return Errorf("literal of type %s cannot carry language %q.", datatype, lang)
	}
}

// Datatype returns the datatype IRI of a literal value per the fixed map
// used by the DATATYPE() function. Invalid values report the datatype
// they were given and IRIs map to xsd:anyURI; other non-literals return
// the empty string.
func Datatype(v Value) string {
	switch v.Kind() {
	case KindBool:
		return XSDBoolean
	case KindInt:
		return XSDInteger
	case KindFloat:
		return XSDDouble
	case KindDateTime:
		return XSDDateTime
	case KindString:
		return XSDString
	case KindTyped, KindInvalid:
		return v.DatatypeIRI()
	case KindIRI:
		return XSDAnyURI
	default:
		return ""
	}
}
