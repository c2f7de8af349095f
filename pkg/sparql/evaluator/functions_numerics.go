package evaluator

import (
	"math"

	"github.com/quercusdb/quercus/pkg/rdf"
)

func absFn(operand rdf.Value) rdf.Value {
	switch operand.Kind() {
	case rdf.KindInt:
		v := operand.AsInt()
		if v < 0 {
			v = -v
		}
		return rdf.Int(v)
	case rdf.KindFloat:
		return rdf.Float(math.Abs(operand.AsFloat()))
	default:
		return rdf.Errorf("ABS: expected numeric but found %s.", operand)
	}
}

// ROUND, CEIL, and FLOOR pass integers through unchanged.

func roundFn(operand rdf.Value) rdf.Value {
	switch operand.Kind() {
	case rdf.KindInt:
		return operand
	case rdf.KindFloat:
		return rdf.Float(math.Round(operand.AsFloat()))
	default:
		return rdf.Errorf("ROUND: expected numeric but found %s.", operand)
	}
}

func ceilFn(operand rdf.Value) rdf.Value {
	switch operand.Kind() {
	case rdf.KindInt:
		return operand
	case rdf.KindFloat:
		return rdf.Float(math.Ceil(operand.AsFloat()))
	default:
		return rdf.Errorf("CEIL: expected numeric but found %s.", operand)
	}
}

func floorFn(operand rdf.Value) rdf.Value {
	switch operand.Kind() {
	case rdf.KindInt:
		return operand
	case rdf.KindFloat:
		return rdf.Float(math.Floor(operand.AsFloat()))
	default:
		return rdf.Errorf("FLOOR: expected numeric but found %s.", operand)
	}
}

func randFn(ctx *Context, args []rdf.Value) rdf.Value {
	if len(args) != 0 {
		return arityError("RAND", 0, len(args))
	}
	return rdf.Float(ctx.Rand.Float64())
}
