package lisp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLValString(t *testing.T) {
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "-0.5", Number(-0.5).String())
	assert.Equal(t, "345", Number(345).String())
	assert.Equal(t, "NaN", Number(math.NaN()).String())
	assert.Equal(t, `"a\nb"`, String("a\nb").String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "false", Bool(false).String())
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "undefined", Undefined().String())
	assert.Equal(t, "x", Symbol("x").String())
	assert.Equal(t, ":k", Keyword("k").String())
	assert.Equal(t, "()", SExpr(nil).String())
	assert.Equal(t, "(1 2)", SExpr([]*LVal{Number(1), Number(2)}).String())
}

func TestObjectString(t *testing.T) {
	obj := Object()
	assert.Equal(t, "(object)", obj.String())
	objectSet(obj, Keyword("b"), Number(2))
	objectSet(obj, Keyword("a"), Number(1))
	// keys print in a deterministic order
	assert.Equal(t, `(object "a" 1 "b" 2)`, obj.String())
}

func TestLambdaString(t *testing.T) {
	fun := Lambda(Formals("x"), []*LVal{Symbol("x")})
	assert.Equal(t, "(lambda (x) x)", fun.String())
}

func TestErrorPayload(t *testing.T) {
	lerr := ErrorPayload(Number(5), "5")
	assert.Equal(t, LError, lerr.Type)
	assert.Equal(t, LNumber, lerr.Payload().Type)

	lerr = Errorf("a %s error", "formatted")
	assert.Equal(t, "a formatted error", GoError(lerr).Error())
	payload := lerr.Payload()
	assert.Equal(t, LString, payload.Type)
	assert.Equal(t, "a formatted error", payload.Str)
}
