package lexer

import (
	"fmt"

	"ploy/internal/diag"
	"ploy/internal/token"
)

var singleByte = map[byte]token.Kind{
	'(': token.OpenBracket, ')': token.CloseBracket,
	'[': token.OpenSquareBracket, ']': token.CloseSquareBracket,
	'{': token.OpenBrace, '}': token.CloseBrace,
	'*': token.Star, '+': token.Plus, '-': token.Minus, '/': token.Slash, '\\': token.BackSlash,
	'&': token.Ampersand, '=': token.Equals, '>': token.GreaterThan, '<': token.LessThan,
	'|': token.Bar, '^': token.Caret, '%': token.Percentage, '#': token.Hash,
	'\'': token.Quote, '`': token.BackTick, ',': token.Comma, ':': token.Colon,
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	switch b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1); {
	case b0 == '=' && b1 == '=':
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.emit(token.DoubleEqual, start)
	case b0 == '!' && b1 == '=':
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.emit(token.NotEqual, start)
	}

	if k, ok := singleByte[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}

	r, _ := lx.peekRune()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", r))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
