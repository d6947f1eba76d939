/*
Package parser provides the source reader.

	expr    := '(' <expr>* ')' | <string> | <atom>
	string  := '"' <strcontent> '"'
	atom    := /[^[:space:]()";]+/

An atom is classified after tokenization: the special literals t, true,
false, nil, null, and undefined become their host values, a leading colon
makes a keyword, a run matching a numeric literal (decimal, hexadecimal, or
legacy octal) becomes a number, and any other run becomes a symbol.
*/
package parser

import (
	"fmt"
	"io"
	"io/ioutil"
	"regexp"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"
	"github.com/xinglu/js-lisp/lisp"
)

// ParseError describes a failure to read source text.  Line and Col locate
// the failure.  Incomplete errors indicate the input ended inside an open
// form and more text could complete it.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a ParseError caused by input ending
// inside an unterminated string or list.  A REPL uses this to continue
// reading instead of reporting the error.
func IsIncomplete(err error) bool {
	perr, ok := err.(*ParseError)
	return ok && perr.Incomplete
}

// NewReader returns a lisp.Reader backed by this package.
func NewReader() lisp.Reader {
	return &reader{}
}

type reader struct{}

func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	v, _, err := ParseLVal(b)
	return v, err
}

// ParseLVal parses LVal values from text and returns them.  The number of
// bytes read is returned along with any error that was encountered.
func ParseLVal(text []byte) ([]*lisp.LVal, int, error) {
	var v []*lisp.LVal
	s := parsec.NewScanner(text)
	parser := newParsecParser()
	root, s := parser(s)
	for root != nil {
		lval := getLVal(root)
		if lval != nil {
			if lval.Type == lisp.LError {
				return v, s.GetCursor(), errPos(text, s.GetCursor(), lval.Str, false)
			}
			v = append(v, lval)
		}
		root, s = parser(s)
	}
	cursor := s.GetCursor()
	if err := scanRemainder(text, cursor); err != nil {
		return v, cursor, err
	}
	return v, len(text), nil
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	str := parsec.Token(`"(?s)(?:[^"\\]|\\.)*"`, "STRING")
	atom := parsec.Token(`[^\s()";]+`, "ATOM")
	term := parsec.OrdChoice(astNode(nodeTerm), str, atom)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(astNode(nodeSExpr), openP, exprList, closeP)
	expr = parsec.OrdChoice(nil, comment, term, sexpr)
	return expr
}

type nodeType uint

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
)

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newLVal(t, nodes)
	}
}

func newLVal(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanParsecNodeList(nodes)
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return lisp.Errorf("unexpected parse node: %T", nodes[0])
		}
		switch term.Name {
		case "STRING":
			return stringLVal(term.Value)
		case "ATOM":
			return atomLVal(term.Value)
		}
		return lisp.Errorf("unexpected token: %s", term.Name)
	case nodeSExpr:
		lval := lisp.SExpr(nil)
		// Terminal parsec nodes '(' and ')' and comments are dropped.
		for _, c := range nodes {
			if v, ok := c.(*lisp.LVal); ok {
				lval.Cells = append(lval.Cells, v)
			}
		}
		return lval
	default:
		panic(fmt.Sprintf("unknown nodeType: %d", typ))
	}
}

func cleanParsecNodeList(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case []parsec.ParsecNode:
			nodes = append(nodes, cleanParsecNodeList(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func getLVal(root parsec.ParsecNode) *lisp.LVal {
	nodes := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		return nil
	}
	lval, ok := nodes[0].(*lisp.LVal)
	if !ok {
		// comments come through as bare terminals
		return nil
	}
	return lval
}

// specialLiterals are recognized as whole-token values after tokenization.
var specialLiterals = map[string]func() *lisp.LVal{
	"t":         func() *lisp.LVal { return lisp.Bool(true) },
	"true":      func() *lisp.LVal { return lisp.Bool(true) },
	"false":     func() *lisp.LVal { return lisp.Bool(false) },
	"nil":       func() *lisp.LVal { return lisp.Null() },
	"null":      func() *lisp.LVal { return lisp.Null() },
	"undefined": func() *lisp.LVal { return lisp.Undefined() },
}

var (
	numberPattern = regexp.MustCompile(`^[+-]?(0[xX][0-9A-Fa-f]+|[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?)$`)
	octalPattern  = regexp.MustCompile(`^[+-]?0[0-7]+$`)
)

// atomLVal classifies a token run.  Numbers are recognized first by the
// token rule; any other run becomes a symbol.
func atomLVal(tok string) *lisp.LVal {
	if fn, ok := specialLiterals[tok]; ok {
		return fn()
	}
	if strings.HasPrefix(tok, ":") && len(tok) > 1 {
		return lisp.Keyword(tok[1:])
	}
	if numberPattern.MatchString(tok) {
		return numberLVal(tok)
	}
	return lisp.Symbol(tok)
}

func numberLVal(tok string) *lisp.LVal {
	neg := false
	digits := tok
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	} else if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	var x float64
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		n, err := strconv.ParseUint(digits[2:], 16, 64)
		if err != nil {
			return lisp.Errorf("bad number: %s", tok)
		}
		x = float64(n)
	case octalPattern.MatchString(digits):
		// legacy octal; a leading 0 followed by a non-octal digit falls
		// back to decimal
		n, err := strconv.ParseUint(digits[1:], 8, 64)
		if err != nil {
			return lisp.Errorf("bad number: %s", tok)
		}
		x = float64(n)
	default:
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return lisp.Errorf("bad number: %s", tok)
		}
		x = f
	}
	if neg {
		x = -x
	}
	return lisp.Number(x)
}

// stringLVal unquotes a string literal.  The recognized escapes are \n, \t,
// \r, \\, \", and \0; a backslash before any other character yields that
// character.  Literal newlines and tabs inside the quotes are preserved
// verbatim.
func stringLVal(tok string) *lisp.LVal {
	body := tok[1 : len(tok)-1]
	if !strings.ContainsRune(body, '\\') {
		return lisp.String(body)
	}
	var buf strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			buf.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case 'r':
			buf.WriteByte('\r')
		case '0':
			buf.WriteByte(0)
		default:
			buf.WriteByte(body[i])
		}
	}
	return lisp.String(buf.String())
}

// scanRemainder inspects unconsumed input after the parser stops and
// classifies the failure.  It returns nil when only whitespace and comments
// remain.
func scanRemainder(text []byte, cursor int) error {
	i := skipSpace(text, cursor)
	if i >= len(text) {
		return nil
	}
	switch text[i] {
	case ')':
		return errPos(text, i, "unexpected ``)''", false)
	case '"':
		if end, ok := scanString(text, i); ok {
			return errPos(text, end, "invalid token after string", false)
		}
		return errPos(text, i, "unterminated string literal", true)
	case '(':
		depth := 0
		j := i
		for j < len(text) {
			switch text[j] {
			case '(':
				depth++
				j++
			case ')':
				depth--
				j++
			case '"':
				end, ok := scanString(text, j)
				if !ok {
					return errPos(text, j, "unterminated string literal", true)
				}
				j = end
			case ';':
				for j < len(text) && text[j] != '\n' {
					j++
				}
			default:
				j++
			}
			if depth == 0 {
				break
			}
		}
		if depth > 0 {
			return errPos(text, i, "unterminated list", true)
		}
		return errPos(text, i, "syntax error", false)
	default:
		return errPos(text, i, "invalid token", false)
	}
}

func skipSpace(text []byte, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\r', '\n':
			i++
		case ';':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}
	return i
}

// scanString scans a string literal starting at the opening quote and
// returns the offset past the closing quote.
func scanString(text []byte, i int) (int, bool) {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j + 1, true
		}
	}
	return len(text), false
}

func errPos(text []byte, offset int, msg string, incomplete bool) error {
	line, col := 1, 1
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Line: line, Col: col, Msg: msg, Incomplete: incomplete}
}
