package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLookup(t *testing.T) {
	root := NewEnv(nil)
	root.Runtime.Globals["g"] = Number(1)

	child := NewEnv(root)
	child.Put("x", Number(2))

	// lookup walks the chain from the innermost frame toward the host
	// namespace
	assert.Equal(t, 2.0, child.GetName("x").Num)
	assert.Equal(t, 1.0, child.GetName("g").Num)
	assert.Equal(t, LUndefined, child.GetName("missing").Type)

	// shadowing
	child.Put("g", Number(3))
	assert.Equal(t, 3.0, child.GetName("g").Num)
	assert.Equal(t, 1.0, root.GetName("g").Num)
}

func TestEnvHas(t *testing.T) {
	root := NewEnv(nil)
	child := NewEnv(root)
	assert.False(t, child.Has("x"))

	// existence is judged by ownership of the key, not value truthiness
	child.Put("x", Undefined())
	assert.True(t, child.Has("x"))
	root.Runtime.Globals["g"] = Null()
	assert.True(t, child.Has("g"))
}

func TestEnvSet(t *testing.T) {
	root := NewEnv(nil)
	mid := NewEnv(root)
	inner := NewEnv(mid)
	mid.Put("x", Number(1))

	// assignment rewrites the nearest existing binding in place
	inner.Set("x", Number(2))
	assert.Equal(t, 2.0, mid.Scope["x"].Num)
	_, ok := inner.Scope["x"]
	assert.False(t, ok)

	// assignment with no existing binding creates the name in the host
	// namespace, not the innermost frame
	inner.Set("y", Number(3))
	_, ok = inner.Scope["y"]
	assert.False(t, ok)
	assert.Equal(t, 3.0, root.Runtime.Globals["y"].Num)
}

func TestEnvDottedPaths(t *testing.T) {
	env := NewEnv(nil)
	inner := Object()
	objectSet(inner, String("b"), Number(2))
	outer := Object()
	objectSet(outer, String("a"), inner)
	env.Put("o", outer)

	assert.Equal(t, 2.0, env.GetName("o.a.b").Num)
	assert.Equal(t, LUndefined, env.GetName("o.a.zz").Type)
	assert.Equal(t, LError, env.GetName("o.a.b.c").Type)
	assert.Equal(t, LError, env.GetName("missing.a").Type)

	lerr := env.Set("o.a.c", Number(3))
	require.NotEqual(t, LError, lerr.Type)
	assert.Equal(t, 3.0, env.GetName("o.a.c").Num)
	assert.Equal(t, LError, env.Set("o.missing.c", Number(1)).Type)
}

func TestEnvEvalAtoms(t *testing.T) {
	env := NewEnv(nil)
	require.NotEqual(t, LError, InitializeUserEnv(env).Type)

	// atoms other than symbols are self-evaluating
	for _, v := range []*LVal{Number(1), String("s"), Bool(true), Null(), Undefined(), Keyword("k")} {
		assert.Equal(t, v, env.Eval(v))
	}

	env.Put("x", Number(9))
	assert.Equal(t, 9.0, env.Eval(Symbol("x")).Num)
	assert.Equal(t, LUndefined, env.Eval(Symbol("zzz")).Type)

	// the empty combination evaluates to null
	assert.Equal(t, LNull, env.Eval(SExpr(nil)).Type)
}

func TestEnvCall(t *testing.T) {
	env := NewEnv(nil)
	require.NotEqual(t, LError, InitializeUserEnv(env).Type)

	fun := Lambda(Formals("a", "b"), []*LVal{Symbol("a")})
	fun.Env = env
	fun.FID = env.getFID()

	ret := env.Call(fun, SExpr([]*LVal{Number(1), Number(2), Number(3)}))
	assert.Equal(t, 1.0, ret.Num)

	// missing arguments bind as undefined
	second := Lambda(Formals("a", "b"), []*LVal{Symbol("b")})
	second.Env = env
	ret = env.Call(second, SExpr([]*LVal{Number(1)}))
	assert.Equal(t, LUndefined, ret.Type)

	// the receiver binds as ``this''
	method := Lambda(Formals(), []*LVal{Symbol("this.n")})
	method.Env = env
	obj := Object()
	objectSet(obj, String("n"), Number(7))
	ret = env.CallMethod(obj, method, SExpr(nil))
	assert.Equal(t, 7.0, ret.Num)
}

func TestEnvErrorStack(t *testing.T) {
	env := NewEnv(nil)
	require.NotEqual(t, LError, InitializeUserEnv(env).Type)

	form := SExpr([]*LVal{Symbol("join"), String(","), Number(5)})
	lerr := env.Eval(form)
	require.Equal(t, LError, lerr.Type)
	require.NotNil(t, lerr.Stack)
	assert.Equal(t, 1, len(lerr.Stack.Frames))
	assert.Equal(t, "join", lerr.Stack.Frames[0].Name)

	// the evaluation stack is restored after an error propagates
	assert.Equal(t, 0, len(env.Runtime.Stack.Frames))
}
