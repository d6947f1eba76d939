package lisp

// ThisSymbol is the name bound to the receiver inside a function invoked as a
// method.
const ThisSymbol = "this"

// CatchSymbol heads the trailing clause that “try” rewrites into a handler
// function.
const CatchSymbol = "catch"
