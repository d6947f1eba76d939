package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/xinglu/js-lisp/lisp"
	"github.com/xinglu/js-lisp/parser"
)

// RunRepl runs a read-eval-print loop against a fresh root environment.
// Incomplete forms continue on the next line under an indented prompt.
func RunRepl(prompt string) {
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
	if lerr.Type == lisp.LError {
		errln(lerr)
		return
	}

	rl, err := readline.New(prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len(prompt)) // prompt had better be ascii...

	var buf []byte
	for {
		var line []byte
		line, err = rl.ReadSlice()
		if err != nil && err != readline.ErrInterrupt {
			break
		}
		if err == readline.ErrInterrupt {
			line = nil
			buf = nil
			rl.SetPrompt(prompt)
		}
		if len(buf) != 0 {
			buf = append(buf, '\n')
			line = append(buf, line...)
			buf = nil
			rl.SetPrompt(prompt)
		}
		if len(line) == 0 {
			continue
		}
		forms, _, perr := parser.ParseLVal(line)
		if perr != nil {
			if parser.IsIncomplete(perr) {
				buf = append([]byte(nil), line...)
				rl.SetPrompt(contPrompt)
				continue
			}
			errln(perr)
			continue
		}
		for _, form := range forms {
			v := env.Eval(form)
			fmt.Println(v)
			if v.Type == lisp.LError && v.Stack != nil {
				v.Stack.DebugPrint(os.Stderr)
			}
		}
	}
	if err != io.EOF {
		errln(err)
		return
	}
	errln("done")
}

func errln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}
