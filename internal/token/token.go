package token

import (
	"fmt"

	"ploy/internal/source"
)

// Token is a single classified lexeme.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// ItemKind exposes the kind to the combinator engine.
func (t Token) ItemKind() Kind { return t.Kind }

// IsLiteral reports whether the token is a number, string, char or boolean literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case DecNumber, HexNumber, BinNumber, QuotedString, Char, True, False:
		return true
	default:
		return false
	}
}

// IsSymbol reports whether the token names something.
func (t Token) IsSymbol() bool {
	return t.Kind == Identifier || t.Kind == FqnIdentifier
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}
