package lexer

import (
	"ploy/internal/diag"
	"ploy/internal/token"
)

// scanString scans a double-quoted string. Newlines are allowed inside.
// Token.Text keeps the quotes and escapes as written; see Unquote.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.QuotedString, start)
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			if !isEscape(lx.cursor.Peek()) {
				lx.cursor.Bump()
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence")
				continue
			}
			lx.cursor.Bump()
		default:
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func isEscape(b byte) bool {
	switch b {
	case 't', 'n', 'r', 'u', '"', '\\', '\'', '0':
		return true
	}
	return false
}

// isCharLiteral looks ahead for 'x' or '\x'. Otherwise the quote is a Quote token.
func (lx *Lexer) isCharLiteral() bool {
	save := lx.cursor.Mark()
	defer lx.cursor.Reset(save)
	lx.cursor.Bump() // '\''
	if lx.cursor.Eat('\\') {
		if lx.cursor.EOF() {
			return false
		}
		lx.cursor.Bump()
	} else {
		r, sz := lx.peekRune()
		if sz == 0 || r == '\'' || r == '\n' {
			return false
		}
		lx.bumpRune()
	}
	return lx.cursor.Peek() == '\''
}

func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''
	if lx.cursor.Eat('\\') {
		if !isEscape(lx.cursor.Peek()) {
			lx.cursor.Bump()
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadChar, sp, "unknown escape in character literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	} else {
		lx.bumpRune()
	}
	lx.cursor.Bump() // closing '\''
	return lx.emit(token.Char, start)
}
