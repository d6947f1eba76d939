package main

import "github.com/xinglu/js-lisp/cmd"

func main() {
	cmd.Execute()
}
