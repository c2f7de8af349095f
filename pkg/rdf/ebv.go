package rdf

import (
	"errors"
	"fmt"
	"math"
)

// EBV computes the effective boolean value of v per SPARQL 17.2.2.
// Invalid values coerce to false; Unbound and Error report errors, as do
// kinds with no boolean interpretation. The returned error message is a
// value-level message suitable for wrapping into an Error value.
func EBV(v Value) (bool, error) {
	switch v.kind {
	case KindInvalid:
		return false, nil
	case KindBool:
		return v.boolVal, nil
	case KindString, KindTyped:
		return v.str != "", nil
	case KindInt:
		return v.intVal != 0, nil
	case KindFloat:
		return !math.IsNaN(v.floatVal) && v.floatVal != 0, nil
	case KindUnbound:
		return false, errors.New("unbound")
	case KindError:
		return false, errors.New(v.str)
	default:
		return false, fmt.Errorf("%s cannot be converted into an effective boolean value.", v)
	}
}
