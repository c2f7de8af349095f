package evaluator

import (
	"fmt"
	"strings"

	"github.com/quercusdb/quercus/pkg/rdf"
)

// strStrHelper applies the argument compatibility rule shared by the
// binary string functions: a plain second argument always combines with
// the first; two tagged arguments must carry the same language
// (case-insensitively).
func strStrHelper(fname string, arg1, arg2 rdf.Value, fn func(s1, s2, lang1, lang2 string) rdf.Value) rdf.Value {
	if arg1.Kind() != rdf.KindString {
		return rdf.Errorf("%s: expected string for arg1 but found %s.", fname, arg1)
	}
	if arg2.Kind() != rdf.KindString {
		return rdf.Errorf("%s: expected string for arg2 but found %s.", fname, arg2)
	}
	lang1, lang2 := arg1.Lang(), arg2.Lang()
	if lang2 != "" && !strings.EqualFold(lang1, lang2) {
		return rdf.Errorf("%s: '%s' and '%s' are incompatible languages.", fname, lang1, lang2)
	}
	return fn(arg1.AsString(), arg2.AsString(), lang1, lang2)
}

func strlenFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindString {
		return rdf.Errorf("STRLEN: expected string but found %s.", operand)
	}
	return rdf.Int(int64(len([]rune(operand.AsString()))))
}

func substr2Fn(value, loc rdf.Value) rdf.Value {
	if value.Kind() != rdf.KindString {
		return rdf.Errorf("SUBSTR: expected string for source but found %s.", value)
	}
	if loc.Kind() != rdf.KindInt {
		return rdf.Errorf("SUBSTR: expected int for startingLoc but found %s.", loc)
	}
	source := []rune(value.AsString())
	start := loc.AsInt()
	switch {
	case start == 0:
		return rdf.Errorf("SUBSTR: startingLoc should be 1 or larger not %d.", start)
	case start < 0:
		return rdf.Errorf("SUBSTR: startingLoc is %d.", start)
	case start > int64(len(source))+1:
		return rdf.Errorf("SUBSTR: startingLoc of %d is past the end of the string.", start)
	default:
		// positions are 1-based
		return rdf.String(string(source[start-1:]), value.Lang())
	}
}

func substr3Fn(value, loc, length rdf.Value) rdf.Value {
	if value.Kind() != rdf.KindString {
		return rdf.Errorf("SUBSTR: expected string for source but found %s.", value)
	}
	if loc.Kind() != rdf.KindInt {
		return rdf.Errorf("SUBSTR: expected int for startingLoc but found %s.", loc)
	}
	if length.Kind() != rdf.KindInt {
		return rdf.Errorf("SUBSTR: expected int for length but found %s.", length)
	}
	source := []rune(value.AsString())
	start, count := loc.AsInt(), length.AsInt()
	switch {
	case start == 0:
		return rdf.Errorf("SUBSTR: startingLoc should be 1 or larger not %d.", start)
	case start < 0:
		return rdf.Errorf("SUBSTR: startingLoc is %d.", start)
	case count < 0 || start-1+count > int64(len(source)):
		return rdf.Errorf("SUBSTR: startingLoc of %d and length %d is past the end of the string.", start, count)
	default:
		return rdf.String(string(source[start-1:start-1+count]), value.Lang())
	}
}

func ucaseFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindString {
		return rdf.Errorf("UCASE: expected string but found %s.", operand)
	}
	return rdf.String(strings.ToUpper(operand.AsString()), operand.Lang())
}

func lcaseFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindString {
		return rdf.Errorf("LCASE: expected string but found %s.", operand)
	}
	return rdf.String(strings.ToLower(operand.AsString()), operand.Lang())
}

func strstartsFn(arg1, arg2 rdf.Value) rdf.Value {
	return strStrHelper("STRSTARTS", arg1, arg2, func(s1, s2, _, _ string) rdf.Value {
		return rdf.Bool(strings.HasPrefix(s1, s2))
	})
}

func strendsFn(arg1, arg2 rdf.Value) rdf.Value {
	return strStrHelper("STRENDS", arg1, arg2, func(s1, s2, _, _ string) rdf.Value {
		return rdf.Bool(strings.HasSuffix(s1, s2))
	})
}

func containsFn(arg1, arg2 rdf.Value) rdf.Value {
	return strStrHelper("CONTAINS", arg1, arg2, func(s1, s2, _, _ string) rdf.Value {
		return rdf.Bool(strings.Contains(s1, s2))
	})
}

func strbeforeFn(arg1, arg2 rdf.Value) rdf.Value {
	return strStrHelper("STRBEFORE", arg1, arg2, func(s1, s2, lang1, _ string) rdf.Value {
		// An empty needle matches at the start, yielding "".
		if i := strings.Index(s1, s2); i >= 0 {
			return rdf.String(s1[:i], lang1)
		}
		return rdf.String("", "")
	})
}

func strafterFn(arg1, arg2 rdf.Value) rdf.Value {
	return strStrHelper("STRAFTER", arg1, arg2, func(s1, s2, lang1, _ string) rdf.Value {
		// An empty needle matches at the start, yielding the whole string.
		if i := strings.Index(s1, s2); i >= 0 {
			return rdf.String(s1[i+len(s2):], lang1)
		}
		return rdf.String("", "")
	})
}

func isUnreserved(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	default:
		return false
	}
}

func encodeForURIFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindString {
		return rdf.Errorf("ENCODE_FOR_URI: expected string but found %s.", operand)
	}
	value := operand.AsString()
	var b strings.Builder
	b.Grow(len(value))
	// Everything outside the RFC 3986 unreserved set percent-encodes
	// byte by byte.
	for i := 0; i < len(value); i++ {
		if isUnreserved(value[i]) {
			b.WriteByte(value[i])
		} else {
			fmt.Fprintf(&b, "%%%02X", value[i])
		}
	}
	return rdf.String(b.String(), operand.Lang())
}

func concatFn(args []rdf.Value) rdf.Value {
	var b strings.Builder
	var languages []string
	for i, part := range args {
		if part.Kind() != rdf.KindString {
			return rdf.Errorf("CONCAT: expected string for argument %d but found %s.", i, part)
		}
		b.WriteString(part.AsString())
		lang := part.Lang()
		found := false
		for _, l := range languages {
			if l == lang {
				found = true
				break
			}
		}
		if !found {
			languages = append(languages, lang)
		}
	}
	// The language survives only when every argument agrees on it.
	if len(languages) == 1 {
		return rdf.String(b.String(), languages[0])
	}
	return rdf.String(b.String(), "")
}

func langmatchesFn(arg1, arg2 rdf.Value) rdf.Value {
	if arg1.Kind() != rdf.KindString {
		return rdf.Errorf("LANGMATCHES: expected string for arg1 but found %s.", arg1)
	}
	if arg2.Kind() != rdf.KindString {
		return rdf.Errorf("LANGMATCHES: expected string for arg2 but found %s.", arg2)
	}
	return rdf.Bool(strings.EqualFold(arg1.Lang(), arg2.Lang()))
}
