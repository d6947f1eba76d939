package lisp

import (
	"fmt"
	"math"
	"strings"
)

// VarArgSymbol marks a variadic formal argument in a builtin's documented
// argument list.
const VarArgSymbol = "&"

// LBuiltin is a Go function implementing a lisp function or macro.
type LBuiltin func(env *LEnv, args *LVal) *LVal

// LBuiltinDef is a named builtin function definition.
type LBuiltinDef interface {
	Name() string
	Formals() *LVal
	Eval(env *LEnv, args *LVal) *LVal
}

type langBuiltin struct {
	name    string
	formals *LVal
	fun     LBuiltin
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LVal {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args *LVal) *LVal {
	return fun.fun(env, args)
}

// Formals builds a formal argument list from the given names.
func Formals(names ...string) *LVal {
	cells := make([]*LVal, len(names))
	for i, name := range names {
		cells[i] = Symbol(name)
	}
	return SExpr(cells)
}

var userBuiltins []*langBuiltin
var langBuiltins = []*langBuiltin{
	{"new", Formals("constructor", VarArgSymbol, "args"), builtinNew},
	{"funcall", Formals("obj", "path", VarArgSymbol, "args"), builtinFuncall},
	{"object", Formals(VarArgSymbol, "kv"), builtinObject},
	{"getkey", Formals("key", "obj"), builtinGetkey},
	{"setkey", Formals("key", "obj", "value"), builtinSetkey},
	{"list", Formals(VarArgSymbol, "args"), builtinList},
	{"throw", Formals("value"), builtinThrow},
	{"to-string", Formals("value"), builtinToString},
	{"to-number", Formals("value"), builtinToNumber},
	{"to-boolean", Formals("value"), builtinToBoolean},
	{"to-upper", Formals("str"), builtinToUpper},
	{"to-lower", Formals("str"), builtinToLower},
	{"typeof", Formals("value"), builtinTypeof},
	{"join", Formals("sep", VarArgSymbol, "list"), builtinJoin},
	{"concat", Formals(VarArgSymbol, "args"), builtinConcat},
	{"format", Formals("stream", "format", VarArgSymbol, "values"), builtinFormat},
	{"print", Formals(VarArgSymbol, "args"), builtinPrint},
	{"+", Formals(VarArgSymbol, "x"), builtinAdd},
	{"-", Formals(VarArgSymbol, "x"), builtinSub},
	{"*", Formals(VarArgSymbol, "x"), builtinMul},
	{"/", Formals(VarArgSymbol, "x"), builtinDiv},
	{"%", Formals(VarArgSymbol, "x"), builtinMod},
	{"1+", Formals("x"), builtinInc},
}

// RegisterDefaultBuiltin adds the given function to the list returned by
// DefaultBuiltins.
func RegisterDefaultBuiltin(name string, formals *LVal, fn LBuiltin) {
	userBuiltins = append(userBuiltins, &langBuiltin{name, formals, fn})
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects when LEnv.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	funs := make([]LBuiltinDef, 0, len(langBuiltins)+len(userBuiltins))
	for _, f := range langBuiltins {
		funs = append(funs, f)
	}
	for _, f := range userBuiltins {
		funs = append(funs, f)
	}
	return funs
}

// (new Ctor args...)
func builtinNew(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "new", "at least one argument expected (got %d)", len(args.Cells))
	}
	ctor := args.Cells[0]
	if ctor.Type != LFun {
		return berrf(env, "new", "first argument is not a constructor: %s", ctor.Type)
	}
	rest := SExpr(args.Cells[1:])
	if ctor.Builtin != nil {
		return ctor.Builtin(env, rest)
	}
	obj := Object()
	ret := env.CallMethod(obj, ctor, rest)
	if ret.Type == LError {
		return ret
	}
	return obj
}

// (funcall obj dotpath args...)
func builtinFuncall(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return berrf(env, "funcall", "at least two arguments expected (got %d)", len(args.Cells))
	}
	obj := args.Cells[0]
	path := args.Cells[1]
	switch path.Type {
	case LString, LKeyword, LSymbol:
	default:
		return berrf(env, "funcall", "second argument is not a path: %s", path.Type)
	}
	cur := obj
	segs := strings.Split(path.Str, ".")
	for _, seg := range segs[:len(segs)-1] {
		if cur.Type != LObject {
			return berrf(env, "funcall", "cannot read property ``%s'' of %s", seg, cur.Type)
		}
		cur = objectGet(cur, String(seg))
	}
	last := segs[len(segs)-1]
	if cur.Type != LObject {
		return berrf(env, "funcall", "cannot read property ``%s'' of %s", last, cur.Type)
	}
	fn := objectGet(cur, String(last))
	if fn.Type != LFun {
		return berrf(env, "funcall", "``%s'' is not a function: %s", path.Str, fn.Type)
	}
	return env.CallMethod(obj, fn, SExpr(args.Cells[2:]))
}

// (object kv...)
func builtinObject(env *LEnv, args *LVal) *LVal {
	if len(args.Cells)%2 != 0 {
		return berrf(env, "object", "uneven number of arguments: %d", len(args.Cells))
	}
	obj := Object()
	for i := 0; i+1 < len(args.Cells); i += 2 {
		objectSet(obj, args.Cells[i], args.Cells[i+1])
	}
	return obj
}

// (getkey key obj)
func builtinGetkey(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 2 {
		return berrf(env, "getkey", "two arguments expected (got %d)", len(args.Cells))
	}
	obj := args.Cells[1]
	if obj.Type != LObject {
		return berrf(env, "getkey", "second argument is not an object: %s", obj.Type)
	}
	return objectGet(obj, args.Cells[0])
}

// (setkey key obj value)
func builtinSetkey(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 3 {
		return berrf(env, "setkey", "three arguments expected (got %d)", len(args.Cells))
	}
	obj := args.Cells[1]
	if obj.Type != LObject {
		return berrf(env, "setkey", "second argument is not an object: %s", obj.Type)
	}
	objectSet(obj, args.Cells[0], args.Cells[2])
	return args.Cells[2]
}

// (list args...)
func builtinList(env *LEnv, args *LVal) *LVal {
	return SExpr(args.Cells)
}

// (throw value)
func builtinThrow(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "throw", "one argument expected (got %d)", len(args.Cells))
	}
	lerr := ErrorPayload(args.Cells[0], ToString(args.Cells[0]))
	lerr.Stack = env.Runtime.Stack.Copy()
	return lerr
}

func builtinToString(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "to-string", "one argument expected (got %d)", len(args.Cells))
	}
	return String(ToString(args.Cells[0]))
}

func builtinToNumber(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "to-number", "one argument expected (got %d)", len(args.Cells))
	}
	return Number(ToNumber(args.Cells[0]))
}

func builtinToBoolean(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "to-boolean", "one argument expected (got %d)", len(args.Cells))
	}
	return Bool(Truthy(args.Cells[0]))
}

func builtinToUpper(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "to-upper", "one argument expected (got %d)", len(args.Cells))
	}
	return String(strings.ToUpper(ToString(args.Cells[0])))
}

func builtinToLower(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "to-lower", "one argument expected (got %d)", len(args.Cells))
	}
	return String(strings.ToLower(ToString(args.Cells[0])))
}

// (typeof v)
func builtinTypeof(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "typeof", "one argument expected (got %d)", len(args.Cells))
	}
	switch args.Cells[0].Type {
	case LBool:
		return String("boolean")
	case LNumber:
		return String("number")
	case LString, LKeyword, LSymbol:
		return String("string")
	case LFun:
		return String("function")
	case LUndefined:
		return String("undefined")
	default:
		// null, lists, and objects all report "object"
		return String("object")
	}
}

// (join sep list...)
func builtinJoin(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return berrf(env, "join", "at least two arguments expected (got %d)", len(args.Cells))
	}
	sep := ToString(args.Cells[0])
	var parts []string
	for _, lis := range args.Cells[1:] {
		if lis.Type != LSExpr {
			return berrf(env, "join", "argument is not a list: %s", lis.Type)
		}
		for _, c := range lis.Cells {
			parts = append(parts, ToString(c))
		}
	}
	return String(strings.Join(parts, sep))
}

// (concat args...)
func builtinConcat(env *LEnv, args *LVal) *LVal {
	var buf strings.Builder
	for _, c := range args.Cells {
		buf.WriteString(ToString(c))
	}
	return String(buf.String())
}

// (format stream fmt args...)
func builtinFormat(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return berrf(env, "format", "at least two arguments expected (got %d)", len(args.Cells))
	}
	stream := args.Cells[0]
	fstr := args.Cells[1]
	if fstr.Type != LString {
		return berrf(env, "format", "second argument is not a string: %s", fstr.Type)
	}
	s, lerr := formatString(env, fstr.Str, args.Cells[2:])
	if lerr != nil {
		return lerr
	}
	if stream.Type == LNull {
		return String(s)
	}
	fmt.Fprint(env.Runtime.Stdout, s)
	return Null()
}

// (print args...)
func builtinPrint(env *LEnv, args *LVal) *LVal {
	parts := make([]string, len(args.Cells))
	for i, c := range args.Cells {
		parts[i] = ToString(c)
	}
	fmt.Fprintln(env.Runtime.Stdout, strings.Join(parts, " "))
	return Null()
}

func builtinAdd(env *LEnv, args *LVal) *LVal {
	sum := 0.0
	for _, c := range args.Cells {
		sum += ToNumber(c)
	}
	return Number(sum)
}

func builtinSub(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) == 0 {
		return Number(0)
	}
	if len(args.Cells) == 1 {
		return Number(-ToNumber(args.Cells[0]))
	}
	diff := ToNumber(args.Cells[0])
	for _, c := range args.Cells[1:] {
		diff -= ToNumber(c)
	}
	return Number(diff)
}

func builtinMul(env *LEnv, args *LVal) *LVal {
	prod := 1.0
	for _, c := range args.Cells {
		prod *= ToNumber(c)
	}
	return Number(prod)
}

// Division is performed on floats throughout so dividing integers yields a
// floating point result.
func builtinDiv(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) == 0 {
		return Number(1)
	}
	if len(args.Cells) == 1 {
		return Number(1 / ToNumber(args.Cells[0]))
	}
	div := ToNumber(args.Cells[0])
	for _, c := range args.Cells[1:] {
		div /= ToNumber(c)
	}
	return Number(div)
}

func builtinMod(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return berrf(env, "%", "at least two arguments expected (got %d)", len(args.Cells))
	}
	rem := ToNumber(args.Cells[0])
	for _, c := range args.Cells[1:] {
		rem = math.Mod(rem, ToNumber(c))
	}
	return Number(rem)
}

func builtinInc(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "1+", "one argument expected (got %d)", len(args.Cells))
	}
	return Number(ToNumber(args.Cells[0]) + 1)
}
