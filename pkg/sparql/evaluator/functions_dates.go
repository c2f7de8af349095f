package evaluator

import (
	"github.com/quercusdb/quercus/pkg/rdf"
)

func nowFn(ctx *Context, args []rdf.Value) rdf.Value {
	if len(args) != 0 {
		return arityError("NOW", 0, len(args))
	}
	return rdf.DateTime(ctx.Now)
}

func yearFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindDateTime {
		return rdf.Errorf("YEAR: expected dateTime but found %s.", operand)
	}
	return rdf.Int(int64(operand.AsTime().Year()))
}

func monthFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindDateTime {
		return rdf.Errorf("MONTH: expected dateTime but found %s.", operand)
	}
	return rdf.Int(int64(operand.AsTime().Month()))
}

func dayFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindDateTime {
		return rdf.Errorf("DAY: expected dateTime but found %s.", operand)
	}
	return rdf.Int(int64(operand.AsTime().Day()))
}

func hoursFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindDateTime {
		return rdf.Errorf("HOURS: expected dateTime but found %s.", operand)
	}
	return rdf.Int(int64(operand.AsTime().Hour()))
}

func minutesFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindDateTime {
		return rdf.Errorf("MINUTES: expected dateTime but found %s.", operand)
	}
	return rdf.Int(int64(operand.AsTime().Minute()))
}

func secondsFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindDateTime {
		return rdf.Errorf("SECONDS: expected dateTime but found %s.", operand)
	}
	return rdf.Int(int64(operand.AsTime().Second()))
}

// tzFn returns the zone label as a simple literal rather than an
// xs:dayTimeDuration.
func tzFn(operand rdf.Value) rdf.Value {
	if operand.Kind() != rdf.KindDateTime {
		return rdf.Errorf("TZ: expected dateTime but found %s.", operand)
	}
	zone, _ := operand.AsTime().Zone()
	return rdf.String(zone, "")
}
