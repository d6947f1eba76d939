package lisp

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultGlobals returns the host namespace installed by InitializeUserEnv.
// Programs reach these bindings through the environment chain without any
// explicit import: the namespace is the terminal parent of every frame.
func DefaultGlobals() Namespace {
	ns := NewNamespace()
	ns["Math"] = mathObject()
	ns["Date"] = Fun("<host-constructor ``Date''>", hostNewDate)
	ns["JSON"] = jsonObject()
	ns["console"] = consoleObject()
	ns["parseInt"] = Fun("<host-function ``parseInt''>", hostParseInt)
	ns["parseFloat"] = Fun("<host-function ``parseFloat''>", hostParseFloat)
	ns["isNaN"] = Fun("<host-function ``isNaN''>", hostIsNaN)
	ns["String"] = Fun("<host-function ``String''>", builtinToString)
	ns["Number"] = Fun("<host-function ``Number''>", builtinToNumber)
	ns["Boolean"] = Fun("<host-function ``Boolean''>", builtinToBoolean)
	ns["Infinity"] = Number(math.Inf(1))
	ns["NaN"] = Number(math.NaN())
	return ns
}

func mathObject() *LVal {
	obj := Object()
	objectSet(obj, String("PI"), Number(math.Pi))
	objectSet(obj, String("E"), Number(math.E))
	mathFun(obj, "abs", math.Abs)
	mathFun(obj, "floor", math.Floor)
	mathFun(obj, "ceil", math.Ceil)
	mathFun(obj, "round", math.Round)
	mathFun(obj, "sqrt", math.Sqrt)
	objectSet(obj, String("pow"), Fun("<host-function ``Math.pow''>", func(env *LEnv, args *LVal) *LVal {
		if len(args.Cells) != 2 {
			return berrf(env, "Math.pow", "two arguments expected (got %d)", len(args.Cells))
		}
		return Number(math.Pow(ToNumber(args.Cells[0]), ToNumber(args.Cells[1])))
	}))
	objectSet(obj, String("max"), Fun("<host-function ``Math.max''>", hostMathMax))
	objectSet(obj, String("min"), Fun("<host-function ``Math.min''>", hostMathMin))
	return obj
}

func mathFun(obj *LVal, name string, fn func(float64) float64) {
	objectSet(obj, String(name), Fun("<host-function ``Math."+name+"''>", func(env *LEnv, args *LVal) *LVal {
		if len(args.Cells) != 1 {
			return berrf(env, "Math."+name, "one argument expected (got %d)", len(args.Cells))
		}
		return Number(fn(ToNumber(args.Cells[0])))
	}))
}

func hostMathMax(env *LEnv, args *LVal) *LVal {
	max := math.Inf(-1)
	for _, c := range args.Cells {
		x := ToNumber(c)
		if math.IsNaN(x) {
			return Number(x)
		}
		if x > max {
			max = x
		}
	}
	return Number(max)
}

func hostMathMin(env *LEnv, args *LVal) *LVal {
	min := math.Inf(1)
	for _, c := range args.Cells {
		x := ToNumber(c)
		if math.IsNaN(x) {
			return Number(x)
		}
		if x < min {
			min = x
		}
	}
	return Number(min)
}

// hostNewDate implements the Date constructor protocol: with no arguments
// the instance holds the current time, with one argument it holds the given
// millisecond timestamp.  Instance methods are installed as bound functions
// so they are reachable through dotted paths and funcall.
func hostNewDate(env *LEnv, args *LVal) *LVal {
	var t time.Time
	switch len(args.Cells) {
	case 0:
		t = time.Now()
	case 1:
		ms := ToNumber(args.Cells[0])
		if math.IsNaN(ms) {
			return berrf(env, "Date", "argument is not a number: %s", args.Cells[0].Type)
		}
		t = time.UnixMilli(int64(ms))
	default:
		return berrf(env, "Date", "too many arguments provided: %d", len(args.Cells))
	}
	t = t.UTC()
	obj := Object()
	dateFun(obj, "getTime", func() *LVal { return Number(float64(t.UnixMilli())) })
	dateFun(obj, "getFullYear", func() *LVal { return Number(float64(t.Year())) })
	dateFun(obj, "getMonth", func() *LVal { return Number(float64(int(t.Month()) - 1)) })
	dateFun(obj, "getDate", func() *LVal { return Number(float64(t.Day())) })
	dateFun(obj, "getHours", func() *LVal { return Number(float64(t.Hour())) })
	dateFun(obj, "getMinutes", func() *LVal { return Number(float64(t.Minute())) })
	dateFun(obj, "getSeconds", func() *LVal { return Number(float64(t.Second())) })
	dateFun(obj, "toISOString", func() *LVal {
		return String(t.Format("2006-01-02T15:04:05.000Z"))
	})
	return obj
}

func dateFun(obj *LVal, name string, fn func() *LVal) {
	objectSet(obj, String(name), Fun("<host-function ``Date."+name+"''>", func(env *LEnv, args *LVal) *LVal {
		return fn()
	}))
}

func consoleObject() *LVal {
	obj := Object()
	objectSet(obj, String("log"), Fun("<host-function ``console.log''>", builtinPrint))
	return obj
}

func hostParseInt(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "parseInt", "at least one argument expected (got %d)", len(args.Cells))
	}
	s := strings.TrimSpace(ToString(args.Cells[0]))
	radix := 10
	if len(args.Cells) > 1 {
		r := ToNumber(args.Cells[1])
		if !math.IsNaN(r) && r != 0 {
			radix = int(r)
		}
	}
	neg := false
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if (radix == 16 || radix == 10) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
		radix = 16
	}
	// parse the longest valid prefix
	n := 0
	for n < len(s) {
		if _, err := strconv.ParseInt(s[:n+1], radix, 64); err != nil {
			break
		}
		n++
	}
	if n == 0 {
		return Number(math.NaN())
	}
	x, err := strconv.ParseInt(s[:n], radix, 64)
	if err != nil {
		return Number(math.NaN())
	}
	if neg {
		x = -x
	}
	return Number(float64(x))
}

func hostParseFloat(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "parseFloat", "at least one argument expected (got %d)", len(args.Cells))
	}
	s := strings.TrimSpace(ToString(args.Cells[0]))
	n := 0
	for n < len(s) {
		if _, err := strconv.ParseFloat(s[:n+1], 64); err != nil {
			break
		}
		n++
	}
	if n == 0 {
		return Number(math.NaN())
	}
	x, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(x)
}

func hostIsNaN(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "isNaN", "one argument expected (got %d)", len(args.Cells))
	}
	return Bool(math.IsNaN(ToNumber(args.Cells[0])))
}
