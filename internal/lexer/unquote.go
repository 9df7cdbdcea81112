package lexer

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var errBadLiteral = errors.New("malformed literal")

// Unquote decodes the text of a QuotedString token.
// "\u" is kept as a literal 'u' escape marker, matching the accepted escape set.
func Unquote(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", errBadLiteral
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errBadLiteral
		}
		r, ok := escapeValue(body[i])
		if !ok {
			return "", errBadLiteral
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// DecodeChar decodes the text of a Char token.
func DecodeChar(text string) (rune, error) {
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, errBadLiteral
	}
	body := text[1 : len(text)-1]
	if body[0] == '\\' {
		if len(body) != 2 {
			return 0, errBadLiteral
		}
		r, ok := escapeValue(body[1])
		if !ok {
			return 0, errBadLiteral
		}
		return r, nil
	}
	r, sz := utf8.DecodeRuneInString(body)
	if r == utf8.RuneError || sz != len(body) {
		return 0, errBadLiteral
	}
	return r, nil
}

func escapeValue(b byte) (rune, bool) {
	switch b {
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case 'u':
		return 'u', true
	case '"', '\\', '\'':
		return rune(b), true
	}
	return 0, false
}
