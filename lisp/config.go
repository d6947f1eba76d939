package lisp

import (
	"io"
	"os"
)

// Runtime owns the process-wide pieces of an environment chain: the host
// namespace terminating every lookup, the source reader, the output writers,
// and the call stack.
type Runtime struct {
	Globals Namespace
	Reader  Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Stack   *CallStack
}

func newRuntime() *Runtime {
	return &Runtime{
		Globals: NewNamespace(),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stack:   &CallStack{},
	}
}

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) *LVal

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return Null()
	}
}

// WithStdout returns a Config that makes “print” and “format” emit to w
// instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stdout = w
		return Null()
	}
}

// WithStderr returns a Config that sets the runtime's Stderr writer to w
// instead of the default, os.Stderr.  The kernel itself does not write to
// Runtime.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		return Null()
	}
}

// WithGlobals returns a Config that merges ns into the host namespace.
// Bindings in ns shadow defaults of the same name.
func WithGlobals(ns Namespace) Config {
	return func(env *LEnv) *LVal {
		env.AddGlobals(ns)
		return Null()
	}
}
