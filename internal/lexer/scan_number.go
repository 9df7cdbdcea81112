package lexer

import (
	"ploy/internal/diag"
	"ploy/internal/token"
)

// Поддержка: 123, 1_000, 0xff, $ff, 0b1010, %1010.
// Хвост из букв после числа ("12ab") даёт LexBadNumber, токен Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.DecNumber
	digits := isDec

	switch b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1); {
	case b0 == '$':
		lx.cursor.Bump()
		kind, digits = token.HexNumber, isHex
	case b0 == '%':
		lx.cursor.Bump()
		kind, digits = token.BinNumber, isBin
	case b0 == '0' && (b1 == 'x' || b1 == 'X'):
		lx.cursor.Bump()
		lx.cursor.Bump()
		kind, digits = token.HexNumber, isHex
	case b0 == '0' && (b1 == 'b' || b1 == 'B'):
		lx.cursor.Bump()
		lx.cursor.Bump()
		kind, digits = token.BinNumber, isBin
	}

	count := 0
	for {
		b := lx.cursor.Peek()
		if digits(b) {
			count++
		} else if b != '_' || count == 0 {
			break
		}
		lx.cursor.Bump()
	}

	if count == 0 {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "expected digits after number prefix")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	if !isWordBoundary(lx.cursor.Peek()) || (kind == token.BinNumber && isDec(lx.cursor.Peek())) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal '"+lx.text(sp)+"'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(kind, start)
}
