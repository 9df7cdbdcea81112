package parser

import (
	"fmt"
	"strings"

	"ploy/internal/combinator"
	"ploy/internal/diag"
	"ploy/internal/source"
	"ploy/internal/token"
)

// Diagnose reports a parse failure. toks is the full stream including EOF.
func Diagnose(err *combinator.Error, toks []token.Token, r diag.Reporter) {
	if err == nil || r == nil {
		return
	}
	primary := tokenSpan(toks, err.Range)
	found := describeAt(toks, err.Range.Start)

	switch {
	case err.IsContract():
		diag.ReportError(r, diag.IceParserContract, primary,
			fmt.Sprintf("internal parser error: %s", err)).Emit()

	case err.Kind == combinator.MissingCloser:
		code, opener := unclosedCode(err.Expected)
		msg := fmt.Sprintf("unclosed %s: expected %s, found %s", opener, strings.TrimPrefix(err.Expected, "closing "), found)
		diag.ReportError(r, code, primary, msg).
			WithNote(tokenSpan(toks, err.Origin), opener+" opened here").
			Emit()

	case err.Kind == combinator.UnconsumedInput:
		msg := "unexpected " + found
		if k := kindAt(toks, err.Range.Start); k == token.CloseBracket || k == token.CloseSquareBracket || k == token.CloseBrace {
			msg = "unmatched " + k.Describe()
		}
		diag.ReportError(r, diag.SynUnconsumedInput, primary, msg).Emit()

	case err.Kind == combinator.Syntax && err.Code != 0:
		diag.ReportError(r, diag.Code(err.Code), primary, expectedFound(err.Expected, found)).Emit()

	case kindAt(toks, err.Range.Start) == token.EOF:
		diag.ReportError(r, diag.SynUnexpectedEOF, primary, expectedFound(err.Expected, found)).Emit()

	default:
		diag.ReportError(r, diag.SynUnexpectedToken, primary, expectedFound(err.Expected, found)).Emit()
	}
}

func expectedFound(expected, found string) string {
	if expected == "" {
		return "unexpected " + found
	}
	return fmt.Sprintf("expected %s, found %s", expected, found)
}

func unclosedCode(expected string) (diag.Code, string) {
	switch {
	case strings.HasSuffix(expected, "']'"):
		return diag.SynUnclosedBracket, "'['"
	case strings.HasSuffix(expected, "'}'"):
		return diag.SynUnclosedBrace, "'{'"
	}
	return diag.SynUnclosedParen, "'('"
}

func kindAt(toks []token.Token, i int) token.Kind {
	if i < 0 || i >= len(toks) {
		return token.EOF
	}
	return toks[i].Kind
}

func describeAt(toks []token.Token, i int) string {
	if i < 0 || i >= len(toks) || toks[i].Kind == token.EOF {
		return "end of file"
	}
	t := toks[i]
	switch {
	case t.Kind.Text() != "":
		return t.Kind.Describe()
	case t.Kind == token.Identifier || t.Kind == token.FqnIdentifier:
		return fmt.Sprintf("symbol `%s`", t.Text)
	}
	return fmt.Sprintf("%s `%s`", t.Kind.Describe(), t.Text)
}

// tokenSpan maps a token range to source bytes. An empty range is the empty
// span at the start of the token it points at.
func tokenSpan(toks []token.Token, rng combinator.Range) source.Span {
	if len(toks) == 0 {
		return source.Span{}
	}
	last := len(toks) - 1
	start := min(max(rng.Start, 0), last)
	if rng.Empty() {
		return toks[start].Span.AtStart()
	}
	end := min(rng.End-1, last)
	return toks[start].Span.Cover(toks[end].Span)
}
