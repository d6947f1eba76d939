package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/xinglu/js-lisp/lisp"
	"github.com/xinglu/js-lisp/parser"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run lisp code",
	Long:  `Run lisp code supplied via the command line or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		srcs, err := runReadSources(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		env := lisp.NewEnv(nil)
		lerr := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
		if lerr.Type == lisp.LError {
			fmt.Fprintln(os.Stderr, lerr)
			os.Exit(1)
		}
		for _, src := range srcs {
			forms, _, err := parser.ParseLVal(src.text)
			if err != nil {
				fmt.Fprintln(os.Stderr, errors.Wrap(err, src.name))
				os.Exit(1)
			}
			for _, form := range forms {
				v := env.Eval(form)
				if v.Type == lisp.LError {
					fmt.Fprintln(os.Stderr, v)
					if v.Stack != nil {
						v.Stack.DebugPrint(os.Stderr)
					}
					os.Exit(1)
				}
				if runPrint {
					fmt.Println(v)
				}
			}
		}
	},
}

type source struct {
	name string
	text []byte
}

func runReadSources(args []string) ([]source, error) {
	srcs := make([]source, len(args))
	if runExpression {
		for i := range args {
			srcs[i] = source{fmt.Sprintf("expr%d", i+1), []byte(args[i])}
		}
		return srcs, nil
	}
	for i, path := range args {
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read source file")
		}
		srcs[i] = source{path, b}
	}
	return srcs, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
