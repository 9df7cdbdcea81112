package lexer

import (
	"golang.org/x/text/unicode/norm"

	"ploy/internal/token"
)

// startsIdent decides whether the current byte opens an identifier.
// '-' alone is Minus, "!=" is NotEqual; "-x", "!x" and a lone "!" are identifiers.
func (lx *Lexer) startsIdent() bool {
	ch := lx.cursor.Peek()
	switch {
	case ch == '-':
		next := lx.cursor.PeekAt(1)
		if next >= 0x80 {
			return true
		}
		return isIdentStartByte(next)
	case ch == '!':
		return lx.cursor.PeekAt(1) != '='
	case ch >= 0x80:
		r, _ := lx.peekRune()
		return isIdentStartRune(r)
	default:
		return isIdentStartByte(ch)
	}
}

// scanIdent scans Identifier, FqnIdentifier ("a::b") and the true/false literals.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.scanIdentSegment()
	kind := token.Identifier
	for lx.cursor.Peek() == ':' && lx.cursor.PeekAt(1) == ':' && lx.segmentFollows(2) {
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.scanIdentSegment()
		kind = token.FqnIdentifier
	}

	sp := lx.cursor.SpanFrom(start)
	raw := lx.file.Content[sp.Start:sp.End]
	text := string(raw)
	if kind == token.Identifier {
		switch text {
		case "true":
			return token.Token{Kind: token.True, Span: sp, Text: text}
		case "false":
			return token.Token{Kind: token.False, Span: sp, Text: text}
		}
	}
	// одинаковые по виду юникодные имена должны совпадать при поиске в таблице символов
	if !norm.NFC.IsNormal(raw) {
		text = norm.NFC.String(text)
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

func (lx *Lexer) scanIdentSegment() {
	lx.bumpRune()
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}

func (lx *Lexer) segmentFollows(n uint32) bool {
	b := lx.cursor.PeekAt(n)
	if b >= 0x80 {
		return true
	}
	return b != 0 && isIdentStartByte(b)
}

// scanKeyword scans ":name".
func (lx *Lexer) scanKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // ':'
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}
	return lx.emit(token.KeyWord, start)
}
