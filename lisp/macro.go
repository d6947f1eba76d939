package lisp

import "fmt"

var langMacros = []*langBuiltin{
	{"let", Formals("bindings", VarArgSymbol, "expr"), macroLet},
	{"setq", Formals("name", "expr"), macroSetq},
	{"lambda", Formals("formals", VarArgSymbol, "expr"), macroLambda},
	{"defun", Formals("name", "formals", VarArgSymbol, "expr"), macroDefun},
	{"progn", Formals(VarArgSymbol, "expr"), macroProgn},
	{"if", Formals("condition", "then", VarArgSymbol, "else"), macroIf},
	{"when", Formals("condition", VarArgSymbol, "expr"), macroWhen},
	{"try", Formals(VarArgSymbol, "expr"), macroTry},
	{"getfunc", Formals("name"), macroGetfunc},
	{"not", Formals(VarArgSymbol, "expr"), macroNot},
	{"and", Formals(VarArgSymbol, "expr"), macroAnd},
	{"or", Formals(VarArgSymbol, "expr"), macroOr},
	{"==", Formals(VarArgSymbol, "expr"), compareMacro("==", looseEqual)},
	{"===", Formals(VarArgSymbol, "expr"), compareMacro("===", strictEqual)},
	{"!=", Formals(VarArgSymbol, "expr"), compareMacro("!=", notEqual(looseEqual))},
	{"!==", Formals(VarArgSymbol, "expr"), compareMacro("!==", notEqual(strictEqual))},
	{"<", Formals(VarArgSymbol, "expr"), orderMacro(opLT)},
	{">", Formals(VarArgSymbol, "expr"), orderMacro(opGT)},
	{"<=", Formals(VarArgSymbol, "expr"), orderMacro(opLE)},
	{">=", Formals(VarArgSymbol, "expr"), orderMacro(opGE)},
	{"is-true", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LBool && v.Bool })},
	{"is-false", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LBool && !v.Bool })},
	{"is-null", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LNull })},
	{"is-undefined", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LUndefined })},
	{"is-string", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LString || v.Type == LKeyword })},
	{"is-number", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LNumber })},
	{"is-boolean", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LBool })},
	{"is-function", Formals(VarArgSymbol, "expr"), predicateMacro(func(v *LVal) bool { return v.Type == LFun })},
	{"is-object", Formals(VarArgSymbol, "expr"), predicateMacro(isObject)},
}

var userMacros []*langBuiltin

// RegisterDefaultMacro adds the given macro to the list returned by
// DefaultMacros.
func RegisterDefaultMacro(name string, formals *LVal, fn LBuiltin) {
	userMacros = append(userMacros, &langBuiltin{name, formals, fn})
}

// DefaultMacros returns the default set of LBuiltinDef added to LEnv objects
// when LEnv.AddMacros is called without arguments.
func DefaultMacros() []LBuiltinDef {
	macros := make([]LBuiltinDef, 0, len(langMacros)+len(userMacros))
	for _, mac := range langMacros {
		macros = append(macros, mac)
	}
	for _, mac := range userMacros {
		macros = append(macros, mac)
	}
	return macros
}

func isObject(v *LVal) bool {
	// The host's null-object convention applies and host arrays are objects
	// too.
	return v.Type == LObject || v.Type == LNull || v.Type == LSExpr
}

func berrf(env *LEnv, name string, format string, v ...interface{}) *LVal {
	return env.Errorf("%s: %s", name, fmt.Sprintf(format, v...))
}

// (let ((name expr) ...) body...)
func macroLet(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "let", "at least one argument expected (got %d)", len(args.Cells))
	}
	bindlist := args.Cells[0]
	if bindlist.Type != LSExpr {
		return berrf(env, "let", "first argument is not a list: %s", bindlist.Type)
	}
	letenv := NewEnv(env)
	// Binding expressions are evaluated before any name is bound so they
	// resolve names against the outer scope, but functions created here
	// capture letenv and therefore see the bindings once installed.
	vals := make([]*LVal, len(bindlist.Cells))
	for i, bind := range bindlist.Cells {
		if bind.Type != LSExpr || len(bind.Cells) != 2 {
			return berrf(env, "let", "first argument is not a list of pairs")
		}
		if bind.Cells[0].Type != LSymbol {
			return berrf(env, "let", "binding name is not a symbol: %s", bind.Cells[0].Type)
		}
		vals[i] = letenv.Eval(bind.Cells[1])
		if vals[i].Type == LError {
			return vals[i]
		}
	}
	for i, bind := range bindlist.Cells {
		letenv.Put(bind.Cells[0].Str, vals[i])
	}
	return macroProgn(letenv, SExpr(args.Cells[1:]))
}

// (setq name expr)
func macroSetq(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 2 {
		return berrf(env, "setq", "two arguments expected (got %d)", len(args.Cells))
	}
	sym := args.Cells[0]
	if sym.Type != LSymbol {
		return berrf(env, "setq", "first argument is not a symbol: %s", sym.Type)
	}
	v := env.Eval(args.Cells[1])
	if v.Type == LError {
		return v
	}
	return env.Set(sym.Str, v)
}

// (lambda (params...) body...)
func macroLambda(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "lambda", "at least one argument expected (got %d)", len(args.Cells))
	}
	return makeLambda(env, "lambda", args.Cells[0], args.Cells[1:])
}

// (defun name (params...) body...)
func macroDefun(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return berrf(env, "defun", "at least two arguments expected (got %d)", len(args.Cells))
	}
	sym := args.Cells[0]
	if sym.Type != LSymbol {
		return berrf(env, "defun", "first argument is not a symbol: %s", sym.Type)
	}
	fun := makeLambda(env, "defun", args.Cells[1], args.Cells[2:])
	if fun.Type == LError {
		return fun
	}
	return env.Set(sym.Str, fun)
}

func makeLambda(env *LEnv, name string, formals *LVal, body []*LVal) *LVal {
	if formals.Type != LSExpr {
		return berrf(env, name, "argument list is not a list: %s", formals.Type)
	}
	for _, sym := range formals.Cells {
		if sym.Type != LSymbol {
			return berrf(env, name, "argument list contains a non-symbol: %s", sym.Type)
		}
	}
	fun := Lambda(formals, body)
	fun.Env = env // lexical scope, captured by reference
	fun.FID = env.getFID()
	return fun
}

// (progn expr...)
func macroProgn(env *LEnv, args *LVal) *LVal {
	ret := Null()
	for _, c := range args.Cells {
		ret = env.Eval(c)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// (if test then else...)
func macroIf(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return berrf(env, "if", "at least two arguments expected (got %d)", len(args.Cells))
	}
	r := env.Eval(args.Cells[0])
	if r.Type == LError {
		return r
	}
	if Truthy(r) {
		return env.Eval(args.Cells[1])
	}
	return macroProgn(env, SExpr(args.Cells[2:]))
}

// (when test body...)
func macroWhen(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "when", "at least one argument expected (got %d)", len(args.Cells))
	}
	r := env.Eval(args.Cells[0])
	if r.Type == LError {
		return r
	}
	if !Truthy(r) {
		return Null()
	}
	return macroProgn(env, SExpr(args.Cells[1:]))
}

// (try expr... (catch (e) handler...))
//
// The catch clause is recognized by inspecting the final argument form.  It
// is rewritten into a function and invoked with the raised value only when
// an error unwinds out of the body.
func macroTry(env *LEnv, args *LVal) *LVal {
	body := args.Cells
	var catch *LVal
	if n := len(body); n > 0 && isCatchClause(body[n-1]) {
		catch = body[n-1]
		body = body[:n-1]
	}
	ret := Null()
	for _, form := range body {
		ret = env.Eval(form)
		if ret.Type == LError {
			if catch == nil {
				return ret
			}
			return evalCatch(env, catch, ret)
		}
	}
	return ret
}

func isCatchClause(v *LVal) bool {
	return v.Type == LSExpr && len(v.Cells) > 0 &&
		v.Cells[0].Type == LSymbol && v.Cells[0].Str == CatchSymbol
}

func evalCatch(env *LEnv, catch *LVal, lerr *LVal) *LVal {
	cells := catch.Cells[1:]
	formals := SExpr(nil)
	if len(cells) > 0 && isParamList(cells[0]) {
		formals = cells[0]
		cells = cells[1:]
	}
	handler := Lambda(formals, cells)
	handler.Env = env
	handler.FID = env.getFID()
	return env.Call(handler, SExpr([]*LVal{lerr.Payload()}))
}

// isParamList reports whether v can only be a parameter list.  A catch
// clause with no parameter list assumes an empty one.
func isParamList(v *LVal) bool {
	if v.Type != LSExpr {
		return false
	}
	for _, c := range v.Cells {
		if c.Type != LSymbol {
			return false
		}
	}
	return len(v.Cells) == 0 || len(v.Cells) == 1
}

// (getfunc name)
func macroGetfunc(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "getfunc", "one argument expected (got %d)", len(args.Cells))
	}
	sym := args.Cells[0]
	if sym.Type != LSymbol {
		return berrf(env, "getfunc", "first argument is not a symbol: %s", sym.Type)
	}
	v := env.GetName(sym.Str)
	if v.Type == LError {
		return v
	}
	if !v.IsCallable() {
		return berrf(env, "getfunc", "``%s'' is not a function: %s", sym.Str, v.Type)
	}
	if v.IsMacro() {
		// Expose the underlying callable so a macro can be invoked as a
		// plain function.
		f := *v
		f.FunType = LFunNone
		return &f
	}
	return v
}

// evalEach resolves forms left to right, passing each result to fn.  When fn
// reports done, evalEach stops without resolving the remaining forms.  When
// every form resolves without a decision, evalEach returns final.
func evalEach(env *LEnv, forms []*LVal, fn func(v *LVal) (*LVal, bool), final *LVal) *LVal {
	for _, form := range forms {
		v := env.Eval(form)
		if v.Type == LError {
			return v
		}
		if r, done := fn(v); done {
			return r
		}
	}
	return final
}

// (not v...)
func macroNot(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "not", "at least one argument expected (got %d)", len(args.Cells))
	}
	return evalEach(env, args.Cells, func(v *LVal) (*LVal, bool) {
		if Truthy(v) {
			return Bool(false), true
		}
		return nil, false
	}, Bool(true))
}

// (and v...)
func macroAnd(env *LEnv, args *LVal) *LVal {
	return evalEach(env, args.Cells, func(v *LVal) (*LVal, bool) {
		if !Truthy(v) {
			return Bool(false), true
		}
		return nil, false
	}, Bool(true))
}

// (or v...)
func macroOr(env *LEnv, args *LVal) *LVal {
	return evalEach(env, args.Cells, func(v *LVal) (*LVal, bool) {
		if Truthy(v) {
			return Bool(true), true
		}
		return nil, false
	}, Bool(false))
}

// predicateMacro builds a type predicate macro.  The predicate holds iff
// every argument matches; arguments past the first mismatch are not
// resolved.
func predicateMacro(pred func(v *LVal) bool) LBuiltin {
	return func(env *LEnv, args *LVal) *LVal {
		return evalEach(env, args.Cells, func(v *LVal) (*LVal, bool) {
			if !pred(v) {
				return Bool(false), true
			}
			return nil, false
		}, Bool(true))
	}
}

func notEqual(eq func(a, b *LVal) bool) func(a, b *LVal) bool {
	return func(a, b *LVal) bool { return !eq(a, b) }
}

// compareMacro builds a chained pairwise comparison macro.  Arguments
// resolve left to right and resolution stops as soon as a pair falsifies the
// chain.
func compareMacro(name string, cmp func(a, b *LVal) bool) LBuiltin {
	return func(env *LEnv, args *LVal) *LVal {
		if len(args.Cells) < 2 {
			return berrf(env, name, "at least two arguments expected (got %d)", len(args.Cells))
		}
		prev := env.Eval(args.Cells[0])
		if prev.Type == LError {
			return prev
		}
		return evalEach(env, args.Cells[1:], func(v *LVal) (*LVal, bool) {
			ok := cmp(prev, v)
			prev = v
			if !ok {
				return Bool(false), true
			}
			return nil, false
		}, Bool(true))
	}
}

func orderMacro(op string) LBuiltin {
	return compareMacro(op, func(a, b *LVal) bool { return compareOrder(op, a, b) })
}
