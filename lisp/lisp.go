package lisp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// LType is the type tag of an LVal.
type LType uint

// Possible LType values.
const (
	LInvalid LType = iota
	LNumber
	LString
	LBool
	LNull
	LUndefined
	LSymbol
	LKeyword
	LSExpr
	LObject
	LFun
	LError
)

var ltypeStrings = []string{
	LInvalid:   "INVALID",
	LNumber:    "number",
	LString:    "string",
	LBool:      "boolean",
	LNull:      "null",
	LUndefined: "undefined",
	LSymbol:    "symbol",
	LKeyword:   "keyword",
	LSExpr:     "list",
	LObject:    "object",
	LFun:       "function",
	LError:     "error",
}

func (t LType) String() string {
	if int(t) >= len(ltypeStrings) {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// LFunType distinguishes ordinary functions, which receive evaluated
// arguments, from macros, which receive the unevaluated argument forms.
type LFunType uint

// Possible LFunType values.
const (
	LFunNone LFunType = iota
	LFunMacro
)

// LVal is a lisp value.  The zero value is invalid, use the constructor
// functions to create values.
type LVal struct {
	Type LType

	// Num holds number values.  Bool holds boolean values.  Str holds the
	// text of strings, symbols, and keywords as well as error messages.
	Num  float64
	Bool bool
	Str  string

	// Cells holds list elements, function body expressions, and the payload
	// of a raised error (at index 0, when present).
	Cells []*LVal

	// Map holds object entries keyed by canonicalized key values (see
	// maps.go).
	Map map[interface{}]*LVal

	// Fields used by function values.
	FunType LFunType
	FID     string
	Builtin LBuiltin
	Env     *LEnv
	Formals *LVal

	// Stack is attached to error values when they are raised during
	// evaluation.
	Stack *CallStack
}

// Number returns an LVal representing the number x.
func Number(x float64) *LVal {
	return &LVal{Type: LNumber, Num: x}
}

// String returns an LVal representing the string s.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Bool returns an LVal representing the boolean b.
func Bool(b bool) *LVal {
	return &LVal{Type: LBool, Bool: b}
}

// Null returns an LVal representing the null value.  The literals “nil”
// and “null” both read as this value.
func Null() *LVal {
	return &LVal{Type: LNull}
}

// Undefined returns the undefined value, which is also produced by looking
// up a name with no binding.
func Undefined() *LVal {
	return &LVal{Type: LUndefined}
}

// Symbol returns an LVal representing the symbol s.
func Symbol(s string) *LVal {
	return &LVal{Type: LSymbol, Str: s}
}

// Keyword returns an LVal representing the keyword with the given name (sans
// leading colon).
func Keyword(s string) *LVal {
	return &LVal{Type: LKeyword, Str: s}
}

// SExpr returns a list with the given cells.
func SExpr(cells []*LVal) *LVal {
	return &LVal{Type: LSExpr, Cells: cells}
}

// Object returns an empty object.
func Object() *LVal {
	return &LVal{Type: LObject, Map: make(map[interface{}]*LVal)}
}

// Fun returns an LVal representing a builtin function.
func Fun(fid string, fn LBuiltin) *LVal {
	return &LVal{Type: LFun, FID: fid, Builtin: fn}
}

// Macro returns an LVal representing a builtin macro.  Macros receive their
// argument forms unevaluated.
func Macro(fid string, fn LBuiltin) *LVal {
	return &LVal{Type: LFun, FunType: LFunMacro, FID: fid, Builtin: fn}
}

// Lambda returns an anonymous function with the given formal argument list
// and body expressions.  The caller is responsible for setting Env to give
// the function a lexical scope.
func Lambda(formals *LVal, body []*LVal) *LVal {
	return &LVal{
		Type:    LFun,
		Formals: formals,
		Cells:   body,
	}
}

// Error returns an LVal representing the error corresponding to err.
func Error(err error) *LVal {
	return &LVal{Type: LError, Str: err.Error()}
}

// Errorf returns an error LVal with a formatted message.
func Errorf(format string, v ...interface{}) *LVal {
	return &LVal{Type: LError, Str: fmt.Sprintf(format, v...)}
}

// ErrorPayload returns an error LVal carrying val, the value raised by
// “throw”.  A try/catch handler receives val, not the error message.
func ErrorPayload(val *LVal, msg string) *LVal {
	return &LVal{Type: LError, Str: msg, Cells: []*LVal{val}}
}

// Payload returns the value carried by an error raised with “throw”.  For
// errors raised by the kernel itself Payload returns the message as a string
// value.
func (v *LVal) Payload() *LVal {
	if v.Type != LError {
		return Undefined()
	}
	if len(v.Cells) > 0 {
		return v.Cells[0]
	}
	return String(v.Str)
}

// IsMacro returns true if v is a macro.
func (v *LVal) IsMacro() bool {
	return v.Type == LFun && v.FunType == LFunMacro
}

// IsCallable returns true if v can appear in function position.
func (v *LVal) IsCallable() bool {
	return v.Type == LFun
}

// Len returns the number of elements in a list.
func (v *LVal) Len() int {
	return len(v.Cells)
}

// Equal returns true when v and u are the same value under strict comparison
// rules.  See compare.go for the loose rules.
func (v *LVal) Equal(u *LVal) bool {
	return strictEqual(v, u)
}

func (v *LVal) String() string {
	switch v.Type {
	case LNumber:
		return formatNumber(v.Num)
	case LString:
		return strconv.Quote(v.Str)
	case LBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case LNull:
		return "null"
	case LUndefined:
		return "undefined"
	case LSymbol:
		return v.Str
	case LKeyword:
		return ":" + v.Str
	case LSExpr:
		return exprString(v, "(", ")")
	case LObject:
		return objectString(v)
	case LFun:
		if v.Builtin != nil {
			return v.FID
		}
		return lambdaString(v)
	case LError:
		return v.Str
	default:
		return fmt.Sprintf("%#v", v)
	}
}

// formatNumber renders x the way the host runtime would.  Integral values
// print without a decimal point.
func formatNumber(x float64) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	if math.IsInf(x, 1) {
		return "Infinity"
	}
	if math.IsInf(x, -1) {
		return "-Infinity"
	}
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func lambdaString(v *LVal) string {
	var buf bytes.Buffer
	buf.WriteString("(lambda ")
	buf.WriteString(v.Formals.String())
	for _, c := range v.Cells {
		buf.WriteString(" ")
		buf.WriteString(c.String())
	}
	buf.WriteString(")")
	return buf.String()
}

func exprString(v *LVal, left string, right string) string {
	if len(v.Cells) == 0 {
		return left + right
	}
	var buf bytes.Buffer
	buf.WriteString(left)
	for i, c := range v.Cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(right)
	return buf.String()
}
