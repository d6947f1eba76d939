package lisptest

import (
	"testing"
)

func TestObjects(t *testing.T) {
	tests := TestSuite{
		{"construction", TestSequence{
			{"(object)", "(object)", ""},
			{"(object :a 1)", `(object "a" 1)`, ""},
			{"(object :a)", "object: uneven number of arguments: 1", ""},
		}},
		{"getkey and setkey", TestSequence{
			{"(getkey :a (object :a 1))", "1", ""},
			{"(getkey :missing (object :a 1))", "undefined", ""},
			{"(setq o (object)) (setkey :a o 1) (getkey :a o)", "1", ""},
			{"(setkey :k (object) 9)", "9", ""},
			{"(getkey :a 5)", "getkey: second argument is not an object: number", ""},
			{"(setkey :a 5 1)", "setkey: second argument is not an object: number", ""},
		}},
		{"keys of every kind", TestSequence{
			// keywords and strings canonicalize to the same key, matching
			// the host's stringification of object keys
			{"(getkey \"a\" (object :a 1))", "1", ""},
			{"(getkey :a (object \"a\" 1))", "1", ""},
			{"(getkey 2 (object 2 \"two\"))", `"two"`, ""},
			{"(getkey true (object true 1))", "1", ""},
			{"(getkey nil (object null 7))", "7", ""},
			{"(getkey undefined (object undefined 8))", "8", ""},
			// lists, objects, and functions key by reference
			{"(let ((k (list 1))) (getkey k (object k 2)))", "2", ""},
			{"(let ((o (object))) (getkey o (object o 4)))", "4", ""},
			{"(let ((f (lambda ()))) (getkey f (object f 3)))", "3", ""},
			{"(getkey (list 1) (object (list 1) 2))", "undefined", ""},
		}},
	}
	RunTestSuite(t, tests)
}

func TestDottedPaths(t *testing.T) {
	tests := TestSuite{
		{"lookup", TestSequence{
			{"(setq o (object :a (object :b 2))) o.a.b", "2", ""},
			{"o.a.missing", "undefined", ""},
			{"nope.x", "cannot read property ``x'' of undefined", ""},
			{"(setq n 5) n.x", "cannot read property ``x'' of number", ""},
		}},
		{"assignment", TestSequence{
			{"(setq o (object :a (object :b 2)))(setq o.a.c 3) o.a.c", "3", ""},
			{"(setq o.a.b 9) o.a.b", "9", ""},
			{"(setq o.x.y 1)", "cannot set property ``y'' of undefined", ""},
		}},
		{"method calls", TestSequence{
			{"(setq counter (object :n 5))" +
				"(setkey :get counter (lambda () this.n))" +
				"(counter.get)", "5", ""},
			{"(funcall counter \"get\")", "5", ""},
			{"(setkey :bump counter (lambda () (setq this.n (1+ this.n))))" +
				"(counter.bump) (counter.bump) counter.n", "7", ""},
			{"(counter.missing)", "not a function: counter.missing (undefined)", ""},
		}},
	}
	RunTestSuite(t, tests)
}

func TestFuncall(t *testing.T) {
	tests := TestSuite{
		{"paths", TestSequence{
			{"(setq m (object :inner (object :f (lambda () 42))))" +
				"(funcall m \"inner.f\")", "42", ""},
			{"(funcall 5 \"x\")", "funcall: cannot read property ``x'' of number", ""},
			{"(setq m2 (object :f 1)) (funcall m2 \"f\")", "funcall: ``f'' is not a function: number", ""},
			{"(funcall m2)", "funcall: at least two arguments expected (got 1)", ""},
		}},
		{"receiver binding", TestSequence{
			{"(setq acc (object :total 0))" +
				"(setkey :add acc (lambda (x) (setq this.total (+ this.total x))))" +
				"(funcall acc \"add\" 3) (funcall acc \"add\" 4) acc.total", "7", ""},
		}},
	}
	RunTestSuite(t, tests)
}

func TestConstructors(t *testing.T) {
	tests := TestSuite{
		{"new with a host constructor", TestSequence{
			{"(setq d (new Date 0)) (d.getTime)", "0", ""},
			{"(d.getFullYear)", "1970", ""},
			{"(d.toISOString)", `"1970-01-01T00:00:00.000Z"`, ""},
			{"(funcall (new Date 86400000) \"getDate\")", "2", ""},
			{"(is-object (new Date))", "true", ""},
			{"(new 5)", "new: first argument is not a constructor: number", ""},
		}},
		{"new with a user constructor", TestSequence{
			{"(defun Point (x y) (setq this.x x) (setq this.y y))" +
				"(setq p (new Point 1 2)) p.x", "1", ""},
			{"p.y", "2", ""},
			{"(is-object p)", "true", ""},
		}},
	}
	RunTestSuite(t, tests)
}

func TestHostGlobals(t *testing.T) {
	tests := TestSuite{
		{"math", TestSequence{
			{"(Math.floor 1.7)", "1", ""},
			{"(Math.ceil 1.2)", "2", ""},
			{"(Math.abs -3)", "3", ""},
			{"(Math.pow 2 10)", "1024", ""},
			{"(Math.max 1 5 2)", "5", ""},
			{"(Math.min)", "Infinity", ""},
			{"Math.PI", "3.141592653589793", ""},
		}},
		{"number parsing", TestSequence{
			{"(parseInt \"42px\")", "42", ""},
			{"(parseInt \"0x10\")", "16", ""},
			{"(parseInt \"ff\" 16)", "255", ""},
			{"(parseInt \"z\")", "NaN", ""},
			{"(parseFloat \"3.5kg\")", "3.5", ""},
			{"(isNaN (to-number \"abc\"))", "true", ""},
			{"(isNaN 1)", "false", ""},
		}},
		{"converter functions", TestSequence{
			{"(String 5)", `"5"`, ""},
			{"(Number \"7\")", "7", ""},
			{"(Boolean \"\")", "false", ""},
		}},
		{"numeric constants", TestSequence{
			{"Infinity", "Infinity", ""},
			{"NaN", "NaN", ""},
		}},
		{"console", TestSequence{
			{"(console.log \"hi\" 1)", "null", "hi 1\n"},
		}},
		{"json", TestSequence{
			{"(JSON.stringify (object :a 1))", `"{\"a\":1}"`, ""},
			{"(JSON.stringify (list 1 \"a\" true nil))", `"[1,\"a\",true,null]"`, ""},
			{"(JSON.stringify (object :a (object :b 2)))", `"{\"a\":{\"b\":2}}"`, ""},
			{"(JSON.parse \"[1,2,3]\")", "(1 2 3)", ""},
			{"(getkey \"a\" (JSON.parse \"{\\\"a\\\": 5}\"))", "5", ""},
			{"(try (JSON.stringify (lambda ())) (catch (e) e))",
				`"value cannot be serialized: function"`, ""},
		}},
	}
	RunTestSuite(t, tests)
}
