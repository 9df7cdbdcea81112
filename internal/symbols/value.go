package symbols

import (
	"fmt"
	"strconv"
)

// ValueKind tags a compile-time value bound to a symbol.
type ValueKind uint8

const (
	ValUnbound ValueKind = iota
	ValNull
	ValUnsigned
	ValText
	ValChar
	ValBool
	ValKeyword
	ValLambda
)

// Value is a compile-time value known for a symbol, e.g. the literal of a
// (define x 10). Lambda values hold the id of the lambda's AST node.
type Value struct {
	Kind ValueKind
	Uint uint64
	Text string // text, keyword name
	Char rune
	Bool bool
	Node uint32
}

func Unsigned(v uint64) Value   { return Value{Kind: ValUnsigned, Uint: v} }
func Text(s string) Value       { return Value{Kind: ValText, Text: s} }
func Char(r rune) Value         { return Value{Kind: ValChar, Char: r} }
func Bool(b bool) Value         { return Value{Kind: ValBool, Bool: b} }
func Keyword(name string) Value { return Value{Kind: ValKeyword, Text: name} }
func Lambda(node uint32) Value  { return Value{Kind: ValLambda, Node: node} }
func Null() Value               { return Value{Kind: ValNull} }

func (v Value) String() string {
	switch v.Kind {
	case ValNull:
		return "null"
	case ValUnsigned:
		return strconv.FormatUint(v.Uint, 10)
	case ValText:
		return strconv.Quote(v.Text)
	case ValChar:
		return strconv.QuoteRune(v.Char)
	case ValBool:
		return strconv.FormatBool(v.Bool)
	case ValKeyword:
		return v.Text
	case ValLambda:
		return fmt.Sprintf("lambda#%d", v.Node)
	}
	return "unbound"
}
