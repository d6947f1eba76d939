// Package lisptest provides a table driven test harness for the kernel.
package lisptest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xinglu/js-lisp/lisp"
	"github.com/xinglu/js-lisp/parser"
)

// TestSuite is a set of named test sequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// TestSequence is a sequence of expressions evaluated in order against a
// shared environment.  Each expression's printed result must equal Result
// and anything printed during its evaluation must equal Output.
type TestSequence []struct {
	Expr   string
	Result string
	Output string
}

// RunTestSuite runs each sequence in tests against a fresh environment.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		test := test
		t.Run(fmt.Sprintf("%02d_%s", i, test.Name), func(t *testing.T) {
			var output bytes.Buffer
			env := lisp.NewEnv(nil)
			lerr := lisp.InitializeUserEnv(env,
				lisp.WithReader(parser.NewReader()),
				lisp.WithStdout(&output),
			)
			if lerr.Type == lisp.LError {
				t.Fatalf("environment initialization failure: %v", lerr)
			}
			for j, expr := range test.TestSequence {
				forms, _, err := parser.ParseLVal([]byte(expr.Expr))
				if err != nil {
					t.Errorf("expr %d: parse error: %v", j, err)
					continue
				}
				output.Reset()
				ret := lisp.Null()
				for _, form := range forms {
					ret = env.Eval(form)
					if ret.Type == lisp.LError {
						break
					}
				}
				if ret.String() != expr.Result {
					t.Errorf("expr %d: %s: expected result %s (got %s)",
						j, expr.Expr, expr.Result, ret)
				}
				if output.String() != expr.Output {
					t.Errorf("expr %d: %s: expected output %q (got %q)",
						j, expr.Expr, expr.Output, output.String())
				}
			}
		})
	}
}
