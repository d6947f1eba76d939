package lisp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatString renders a printf-style format string against args.  The
// recognized directives are %d, %s, %f, %x, and %b, each accepting optional
// flags, width, and precision (e.g. %01.2f, %10s) and an optional positional
// reference (%2$s).  %% emits a literal percent sign.
func formatString(env *LEnv, format string, args []*LVal) (string, *LVal) {
	var buf bytes.Buffer
	next := 0
	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			buf.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(format) {
			return "", berrf(env, "format", "unterminated directive at end of format string")
		}
		if format[i] == '%' {
			buf.WriteByte('%')
			i++
			continue
		}
		// positional reference %N$...
		argIndex := -1
		j := i
		for j < len(format) && isDigit(format[j]) {
			j++
		}
		if j > i && j < len(format) && format[j] == '$' {
			n, err := strconv.Atoi(format[i:j])
			if err != nil || n < 1 {
				return "", berrf(env, "format", "invalid positional reference: %s", format[i:j+1])
			}
			argIndex = n - 1
			i = j + 1
		}
		// flags, width, and precision carry over to the host's formatter.
		start := i
		for i < len(format) && strings.IndexByte("-+ 0#", format[i]) >= 0 {
			i++
		}
		flags := format[start:i]
		start = i
		for i < len(format) && isDigit(format[i]) {
			i++
		}
		width := format[start:i]
		prec := ""
		if i < len(format) && format[i] == '.' {
			start = i
			i++
			for i < len(format) && isDigit(format[i]) {
				i++
			}
			prec = format[start:i]
		}
		if i >= len(format) {
			return "", berrf(env, "format", "unterminated directive at end of format string")
		}
		verb := format[i]
		i++
		if argIndex < 0 {
			argIndex = next
			next++
		}
		if argIndex >= len(args) {
			return "", berrf(env, "format", "missing value for directive %d", argIndex+1)
		}
		arg := args[argIndex]
		switch verb {
		case 'd':
			fmt.Fprintf(&buf, "%"+flags+width+"d", formatInt(arg))
		case 'f':
			fmt.Fprintf(&buf, "%"+flags+width+prec+"f", ToNumber(arg))
		case 's':
			fmt.Fprintf(&buf, "%"+flags+width+prec+"s", ToString(arg))
		case 'x':
			fmt.Fprintf(&buf, "%"+flags+width+"x", formatInt(arg))
		case 'b':
			fmt.Fprintf(&buf, "%"+flags+width+"b", formatInt(arg))
		default:
			return "", berrf(env, "format", "unrecognized directive: %%%c", verb)
		}
	}
	return buf.String(), nil
}

func formatInt(v *LVal) int64 {
	x := ToNumber(v)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int64(x)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
