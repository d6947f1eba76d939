package lisp

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

var envCount uint64

func getEnvID() uint {
	return uint(atomic.AddUint64(&envCount, 1))
}

// Namespace is a flat mapping of names to values.  The host namespace is the
// terminal parent of every environment chain: it is readable and writable
// through the chain but is not itself an environment frame.
type Namespace map[string]*LVal

// NewNamespace initializes and returns an empty Namespace.
func NewNamespace() Namespace {
	return make(Namespace)
}

// LEnv is one frame in a lexically nested chain of environments.  The root
// frame owns the Runtime, whose Globals namespace terminates every lookup.
type LEnv struct {
	ID      uint
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
}

// NewEnv initializes and returns a new LEnv.  A nil parent creates a root
// environment with a default Runtime.
func NewEnv(parent *LEnv) *LEnv {
	var rt *Runtime
	if parent != nil {
		rt = parent.Runtime
	} else {
		rt = newRuntime()
	}
	return &LEnv{
		ID:      getEnvID(),
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: rt,
	}
}

func (env *LEnv) getFID() string {
	return fmt.Sprintf("anon%d", env.ID)
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// InitializeUserEnv installs the default macros, builtins, and host globals
// into env and applies the given configuration options.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	env.AddMacros()
	env.AddBuiltins()
	env.AddGlobals(DefaultGlobals())
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Null()
}

// AddMacros binds the given macros to their names in env.  When called with
// no arguments AddMacros adds the DefaultMacros.
func (env *LEnv) AddMacros(macs ...LBuiltinDef) {
	if len(macs) == 0 {
		macs = DefaultMacros()
	}
	for _, mac := range macs {
		if _, ok := env.Scope[mac.Name()]; ok {
			panic("macro already defined: " + mac.Name())
		}
		fid := fmt.Sprintf("<builtin-macro ``%s''>", mac.Name())
		env.Put(mac.Name(), Macro(fid, mac.Eval))
	}
}

// AddBuiltins binds the given functions to their names in env.  When called
// with no arguments AddBuiltins adds the DefaultBuiltins.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		if _, ok := env.Scope[f.Name()]; ok {
			panic("symbol already defined: " + f.Name())
		}
		fid := fmt.Sprintf("<builtin-function ``%s''>", f.Name())
		env.Put(f.Name(), Fun(fid, f.Eval))
	}
}

// AddGlobals merges ns into the host namespace terminating env's chain.
func (env *LEnv) AddGlobals(ns Namespace) {
	globals := env.Runtime.Globals
	for k, v := range ns {
		globals[k] = v
	}
}

// Put performs a raw binding of name to v in the innermost frame, shadowing
// any outer binding for the frame's extent.  This is the bind operation used
// by “let” and by parameter binding.
func (env *LEnv) Put(name string, v *LVal) {
	if v == nil {
		panic("nil value")
	}
	env.Scope[name] = v
}

// GetName returns the value bound to name.  A dotted name resolves its head
// against the environment chain and chases the remaining segments as
// property accesses.  GetName returns the undefined value when no binding
// exists anywhere on the chain.
func (env *LEnv) GetName(name string) *LVal {
	if !strings.ContainsRune(name, '.') {
		return env.getSimple(name)
	}
	segs := strings.Split(name, ".")
	v := env.getSimple(segs[0])
	for _, seg := range segs[1:] {
		if v.Type == LError {
			return v
		}
		if v.Type != LObject {
			return env.Errorf("cannot read property ``%s'' of %s", seg, v.Type)
		}
		v = objectGet(v, String(seg))
	}
	return v
}

// Get is like GetName but takes a symbol value.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return Null()
	}
	return env.GetName(k.Str)
}

func (env *LEnv) getSimple(name string) *LVal {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[name]; ok {
			return v
		}
	}
	if v, ok := env.Runtime.Globals[name]; ok {
		return v
	}
	return Undefined()
}

// Has reports whether name is bound anywhere on the chain.  Existence is
// judged by ownership of the key, not the truthiness of the bound value.
func (env *LEnv) Has(name string) bool {
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[name]; ok {
			return true
		}
	}
	_, ok := env.Runtime.Globals[name]
	return ok
}

// Set implements assignment (“setq” semantics).  A dotted name resolves
// its prefix to an object and assigns the final segment as a property.
// Otherwise the nearest existing binding is rewritten in place; when no
// binding exists anywhere, name is created in the host namespace.
func (env *LEnv) Set(name string, v *LVal) *LVal {
	if strings.ContainsRune(name, '.') {
		segs := strings.Split(name, ".")
		obj := env.GetName(strings.Join(segs[:len(segs)-1], "."))
		if obj.Type == LError {
			return obj
		}
		if obj.Type != LObject {
			return env.Errorf("cannot set property ``%s'' of %s", segs[len(segs)-1], obj.Type)
		}
		objectSet(obj, String(segs[len(segs)-1]), v)
		return v
	}
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[name]; ok {
			e.Scope[name] = v
			return v
		}
	}
	env.Runtime.Globals[name] = v
	return v
}

// Errorf returns an error value with a formatted message and a copy of the
// current call stack attached.
func (env *LEnv) Errorf(format string, v ...interface{}) *LVal {
	lerr := Errorf(format, v...)
	lerr.Stack = env.Runtime.Stack.Copy()
	return lerr
}

// Error returns an error value wrapping err with the current call stack
// attached.
func (env *LEnv) Error(err error) *LVal {
	lerr := Error(err)
	lerr.Stack = env.Runtime.Stack.Copy()
	return lerr
}

// Eval resolves v against env.  Atoms other than symbols are
// self-evaluating, symbols look up, and lists are combinations dispatched on
// their head.
func (env *LEnv) Eval(v *LVal) *LVal {
	switch v.Type {
	case LSymbol:
		return env.GetName(v.Str)
	case LSExpr:
		return env.EvalSExpr(v)
	default:
		return v
	}
}

// EvalSExpr evaluates a combination.  The head names the combiner: a macro
// receives the unevaluated tail forms while a function receives the tail
// resolved left to right.  A head that is itself a combination is resolved
// first and its result applied as a function.
func (env *LEnv) EvalSExpr(s *LVal) *LVal {
	if s.Type != LSExpr {
		return env.Errorf("not an expression: %s", s.Type)
	}
	if len(s.Cells) == 0 {
		return Null()
	}
	head := s.Cells[0]
	var f *LVal
	var recv *LVal
	name := ""
	switch {
	case head.Type == LSymbol && strings.ContainsRune(head.Str, '.'):
		name = head.Str
		recv, f = env.getMethod(head.Str)
	case head.Type == LSymbol:
		name = head.Str
		f = env.GetName(name)
	default:
		f = env.Eval(head)
	}
	if f.Type == LError {
		return f
	}
	if f.Type != LFun {
		if name != "" {
			return env.Errorf("not a function: %s (%s)", name, f.Type)
		}
		return env.Errorf("first element of expression is not a function: %s", f.Type)
	}
	stack := env.Runtime.Stack
	stack.PushFID(f.FID, name)
	defer stack.Pop()
	if f.IsMacro() {
		// Arguments to a macro are not evaluated.  The macro runs against
		// the current environment and performs any resolution it needs.
		return f.Builtin(env, SExpr(s.Cells[1:]))
	}
	args := make([]*LVal, len(s.Cells)-1)
	for i, c := range s.Cells[1:] {
		args[i] = env.Eval(c)
		if args[i].Type == LError {
			return args[i]
		}
	}
	return env.CallMethod(recv, f, SExpr(args))
}

// getMethod resolves a dotted head as a method reference, returning the
// receiver (the value of the dotted prefix) alongside the callable.
func (env *LEnv) getMethod(name string) (recv *LVal, f *LVal) {
	i := strings.LastIndexByte(name, '.')
	recv = env.GetName(name[:i])
	if recv.Type == LError {
		return nil, recv
	}
	if recv.Type != LObject {
		return nil, env.Errorf("cannot read property ``%s'' of %s", name[i+1:], recv.Type)
	}
	return recv, objectGet(recv, String(name[i+1:]))
}

// Call invokes fun with the list of evaluated arguments args.
func (env *LEnv) Call(fun *LVal, args *LVal) *LVal {
	return env.CallMethod(nil, fun, args)
}

// CallMethod invokes fun with args.  For a lambda, a non-nil recv is bound to
// “this” in the call's frame.  Builtin functions receive only args; recv
// is not passed to them.
func (env *LEnv) CallMethod(recv *LVal, fun *LVal, args *LVal) *LVal {
	if fun.Type != LFun {
		return env.Errorf("not a function: %s", fun.Type)
	}
	if fun.Builtin != nil {
		return fun.Builtin(env, args)
	}
	fenv := NewEnv(fun.Env)
	if recv != nil {
		fenv.Put(ThisSymbol, recv)
	}
	// Positional binding: unbound parameters become undefined and surplus
	// arguments are ignored.
	for i, sym := range fun.Formals.Cells {
		if i < len(args.Cells) {
			fenv.Put(sym.Str, args.Cells[i])
		} else {
			fenv.Put(sym.Str, Undefined())
		}
	}
	ret := Null()
	for _, body := range fun.Cells {
		ret = fenv.Eval(body)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// LoadString reads and evaluates all forms in source, returning the value of
// the last form or the first error raised.
func (env *LEnv) LoadString(name, source string) *LVal {
	return env.Load(name, strings.NewReader(source))
}

// Load reads and evaluates all forms from r, returning the value of the last
// form or the first error raised.  Load requires a Reader to have been
// configured on the environment's runtime.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return env.Errorf("no reader configured to load source")
	}
	forms, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return env.Error(errors.Wrap(err, name))
	}
	ret := Null()
	for _, form := range forms {
		ret = env.Eval(form)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}
