package token_test

import (
	"testing"

	"ploy/internal/token"
)

func TestKindNamesComplete(t *testing.T) {
	for k := token.Invalid; k <= token.Comma; k++ {
		if k.String() == "Kind(?)" {
			t.Errorf("kind %d has no name", k)
		}
	}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.DecNumber, token.HexNumber, token.BinNumber, token.QuotedString, token.Char, token.True, token.False}
	for _, k := range lits {
		if !(token.Token{Kind: k}).IsLiteral() {
			t.Errorf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Identifier, token.KeyWord, token.OpenBracket, token.Plus} {
		if (token.Token{Kind: k}).IsLiteral() {
			t.Errorf("%v must not be literal", k)
		}
	}
}

func TestCloser(t *testing.T) {
	tests := []struct {
		open, close token.Kind
	}{
		{token.OpenBracket, token.CloseBracket},
		{token.OpenSquareBracket, token.CloseSquareBracket},
		{token.OpenBrace, token.CloseBrace},
	}
	for _, tt := range tests {
		got, ok := tt.open.Closer()
		if !ok || got != tt.close {
			t.Errorf("Closer(%v) = %v,%v", tt.open, got, ok)
		}
	}
	if _, ok := token.Identifier.Closer(); ok {
		t.Error("identifier has no closer")
	}
}

func TestReservedWords(t *testing.T) {
	for _, w := range []string{"define", "def", "if", "let", "fn", "and", "or", "do", "cond", "macro"} {
		if !token.IsReservedWord(w) {
			t.Errorf("%q should be reserved", w)
		}
	}
	if token.IsReservedWord("defined") {
		t.Error("defined is an ordinary identifier")
	}
}
