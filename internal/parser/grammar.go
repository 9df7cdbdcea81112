package parser

import (
	"sync"

	"ploy/internal/ast"
	"ploy/internal/combinator"
	"ploy/internal/diag"
	"ploy/internal/token"
)

type grammar struct {
	atom    P[Node]
	program P[Node]
}

// productions are built once and shared; they hold no state.
var productions = sync.OnceValue(newGrammar)

// formBody is what a special form yields between its head word and ')'.
type formBody struct {
	kids []Node
	meta *Node
}

func newGrammar() *grammar {
	g := &grammar{}
	atom := combinator.Lazy(func() P[Node] { return g.atom })

	symbolName := leaf(ast.Symbol, combinator.Satisfy[token.Token, token.Kind](func(t token.Token) bool {
		return t.Kind == token.FqnIdentifier || (t.Kind == token.Identifier && !token.IsReservedWord(t.Text))
	}, "symbol"))
	argName := leaf(ast.Arg, combinator.Satisfy[token.Token, token.Kind](func(t token.Token) bool {
		return t.Kind == token.Identifier && !token.IsReservedWord(t.Text)
	}, "name"))
	keyword := leaf(ast.Keyword, tag(token.KeyWord))

	// ^{ :k v ... }
	kwPair := spanned(ast.KeywordPair, combinator.Map(
		combinator.Pair(keyword, need(atom, diag.SynBadMetadata, "metadata value")),
		func(t combinator.Tuple2[Node, Node]) []Node { return []Node{t.A, t.B} },
	))
	meta := spanned(ast.MetaData, combinator.Preceded(
		tag(token.Caret),
		need(delimited(token.OpenBrace, token.CloseBrace, combinator.Many0(kwPair), diag.SynExpectKeyword, "keyword or '}'"),
			diag.SynBadMetadata, "'{' after '^'"),
	))

	// fn parameters: [^{...} a b]
	param := func(in Span) (Span, Node, *combinator.Error) {
		rest, m, err := combinator.Opt(meta)(in)
		if err != nil {
			return in, Node{}, err
		}
		if m.Ok {
			after, n, err := need(argName, diag.SynExpectSymbol, "parameter name after metadata")(rest)
			if err != nil {
				return in, Node{}, err
			}
			n.Meta = &m.Value
			return after, n, nil
		}
		return argName(in)
	}
	params := spanned(ast.Args, delimited(token.OpenSquareBracket, token.CloseSquareBracket,
		combinator.Many0(P[Node](param)), diag.SynExpectSymbol, "parameter name or ']'"))

	// let bindings: [a 1 b 2]
	binding := combinator.Map(
		combinator.Pair(argName, need(atom, diag.SynUnbalancedBindings, "value for binding")),
		func(t combinator.Tuple2[Node, Node]) []Node { return []Node{t.A, t.B} },
	)
	bindings := spanned(ast.LetArgs, combinator.Map(
		delimited(token.OpenSquareBracket, token.CloseSquareBracket,
			combinator.Many0(binding), diag.SynUnbalancedBindings, "binding name or ']'"),
		flatten,
	))

	forms := combinator.Many0(atom)

	ifForm := form(ast.If, word(token.WordIf), combinator.Map(
		combinator.Tuple3(
			need(atom, diag.SynBadArity, "condition of 'if'"),
			need(atom, diag.SynBadArity, "then branch of 'if'"),
			combinator.Opt(atom),
		),
		func(t combinator.Tuple3Of[Node, Node, combinator.Option[Node]]) formBody {
			kids := []Node{t.A, t.B}
			if t.C.Ok {
				kids = append(kids, t.C.Value)
			}
			return formBody{kids: kids}
		},
	), "')' after at most 3 forms of 'if'")

	defineForm := form(ast.Define, combinator.Alt(word(token.WordDefine), word(token.WordDef)), combinator.Map(
		combinator.Tuple3(
			need(symbolName, diag.SynExpectSymbol, "name to define"),
			combinator.Opt(meta),
			need(atom, diag.SynBadArity, "value to define"),
		),
		func(t combinator.Tuple3Of[Node, combinator.Option[Node], Node]) formBody {
			b := formBody{kids: []Node{t.A, t.C}}
			if t.B.Ok {
				b.meta = &t.B.Value
			}
			return b
		},
	), "')' after the value of 'define'")

	letForm := form(ast.Let, word(token.WordLet), combinator.Map(
		combinator.Pair(need(bindings, diag.SynExpectBindings, "binding vector"), forms),
		prepend,
	), "')' or a body form")

	fnForm := form(ast.Lambda, combinator.Alt(word(token.WordFn), word(token.WordLambda)), combinator.Map(
		combinator.Pair(need(params, diag.SynExpectBindings, "parameter vector"), forms),
		prepend,
	), "')' or a body form")

	variadic := func(kind ast.Kind, w string) P[Node] {
		return form(kind, word(w), combinator.Map(forms, func(ns []Node) formBody {
			return formBody{kids: ns}
		}), "')' or a form")
	}

	condForm := form(ast.Cond, word(token.WordCond), combinator.Map(
		combinator.Many0(combinator.Map(
			combinator.Pair(atom, need(atom, diag.SynBadArity, "body of cond clause")),
			func(t combinator.Tuple2[Node, Node]) []Node { return []Node{t.A, t.B} },
		)),
		func(clauses [][]Node) formBody { return formBody{kids: flatten(clauses)} },
	), "')' or a cond clause")

	macroForm := form(ast.Macro, word(token.WordMacro), combinator.Map(
		combinator.Tuple3(
			need(symbolName, diag.SynExpectSymbol, "macro name"),
			need(params, diag.SynExpectBindings, "parameter vector"),
			forms,
		),
		func(t combinator.Tuple3Of[Node, Node, []Node]) formBody {
			return formBody{kids: append([]Node{t.A, t.B}, t.C...)}
		},
	), "')' or a body form")

	application := spanned(ast.Application, delimited(token.OpenBracket, token.CloseBracket,
		need(combinator.Many1(atom), diag.SynExpectForm, "form"), diag.SynExpectForm, "form or ')'"))

	array := spanned(ast.Array, delimited(token.OpenSquareBracket, token.CloseSquareBracket,
		forms, diag.SynExpectForm, "form or ']'"))

	// inside quoted data a special-form word is a plain symbol: '(if x) is a list.
	quotable := combinator.Alt(atom, leaf(ast.Symbol, tag(token.Identifier)))
	list := spanned(ast.List, combinator.Preceded(tag(token.Quote),
		delimited(token.OpenBracket, token.CloseBracket, combinator.Many0(quotable), diag.SynExpectForm, "form or ')'")))

	quoted := spanned(ast.Quoted, combinator.Map(
		combinator.Preceded(tag(token.Quote), need(quotable, diag.SynExpectForm, "form after quote")),
		func(n Node) []Node { return []Node{n} },
	))

	pair := spanned(ast.Pair, combinator.Map(
		combinator.Tuple3(atom, combinator.Opt(tag(token.Colon)), need(atom, diag.SynExpectForm, "map value")),
		func(t combinator.Tuple3Of[Node, combinator.Option[token.Token], Node]) []Node {
			return []Node{t.A, t.C}
		},
	))
	dict := spanned(ast.Map, delimited(token.OpenBrace, token.CloseBrace,
		combinator.Many0(pair), diag.SynExpectForm, "map key or '}'"))

	g.atom = combinator.Alt(
		keyword,
		leaf(ast.Number, combinator.IsA[token.Token]("number", token.DecNumber, token.HexNumber, token.BinNumber)),
		leaf(ast.String, tag(token.QuotedString)),
		leaf(ast.Char, tag(token.Char)),
		leaf(ast.Bool, combinator.IsA[token.Token]("boolean", token.True, token.False)),
		leaf(ast.BuiltIn, combinator.Satisfy[token.Token, token.Kind](func(t token.Token) bool {
			return t.Kind.IsBuiltinOp()
		}, "operator")),
		symbolName,
		spanned(ast.Null, combinator.Value(combinator.TagSeq[token.Token]("'()'", token.OpenBracket, token.CloseBracket), []Node(nil))),
		ifForm,
		defineForm,
		fnForm,
		letForm,
		variadic(ast.And, token.WordAnd),
		variadic(ast.Or, token.WordOr),
		variadic(ast.Do, token.WordDo),
		condForm,
		macroForm,
		application,
		array,
		list,
		quoted,
		dict,
	)
	g.program = spanned(ast.Program, combinator.All(forms))
	return g
}

func tag(k token.Kind) P[token.Token] {
	return combinator.Tag[token.Token](k, k.Describe())
}

// word matches an identifier spelled w, the head of a special form.
func word(w string) P[token.Token] {
	return combinator.Satisfy[token.Token, token.Kind](func(t token.Token) bool {
		return t.Kind == token.Identifier && t.Text == w
	}, "'"+w+"'")
}

// leaf makes a childless node of the tokens p consumed.
func leaf[O any](kind ast.Kind, p P[O]) P[Node] {
	return combinator.MapErr(p, func(in, rest Span, _ O) (Node, *combinator.Error) {
		return Node{Kind: kind, Range: between(in, rest)}, nil
	})
}

// spanned makes a node of kind over everything p consumed.
func spanned(kind ast.Kind, p P[[]Node]) P[Node] {
	return combinator.MapErr(p, func(in, rest Span, kids []Node) (Node, *combinator.Error) {
		return Node{Kind: kind, Range: between(in, rest), Children: kids}, nil
	})
}

// form is "( head body )". Once head matched, any failure of body is fatal,
// and so is anything but ')' after it.
func form(kind ast.Kind, head P[token.Token], body P[formBody], closeExpected string) P[Node] {
	p := delimited(token.OpenBracket, token.CloseBracket,
		combinator.Preceded(head, combinator.Cut(body)), diag.SynBadArity, closeExpected)
	return combinator.MapErr(p, func(in, rest Span, b formBody) (Node, *combinator.Error) {
		return Node{Kind: kind, Range: between(in, rest), Children: b.kids, Meta: b.meta}, nil
	})
}

// delimited parses open, body, close. After body only the closer may follow;
// anything else is a fatal Syntax failure with code. Running out of input
// anywhere inside is an unclosed delimiter that points back at the opener.
func delimited[O any](open, close token.Kind, body P[O], code diag.Code, expected string) P[O] {
	what := close.Describe()
	inner := combinator.WrappedCut(
		tag(open),
		combinator.Succeeded(body, closerAhead(close, code, expected)),
		tag(close),
		what,
	)
	return func(in Span) (Span, O, *combinator.Error) {
		rest, out, err := inner(in)
		if err != nil && err.IsFatal() && !err.IsContract() &&
			err.Kind != combinator.MissingCloser && err.Range.Empty() && err.Range.Start == in.End() {
			err = &combinator.Error{
				Kind:     combinator.MissingCloser,
				Severity: combinator.Fatal,
				Range:    err.Range,
				Expected: "closing " + what,
				Origin:   combinator.Range{Start: in.Pos(), End: in.Pos() + 1},
			}
		}
		return rest, out, err
	}
}

// closerAhead succeeds without consuming when the next token is k or the
// input is exhausted.
func closerAhead(k token.Kind, code diag.Code, expected string) P[struct{}] {
	return func(in Span) (Span, struct{}, *combinator.Error) {
		t, ok := in.First()
		if !ok || t.Kind == k {
			return in, struct{}{}, nil
		}
		return in, struct{}{}, combinator.SyntaxError(int(code), combinator.Fatal, here(in), expected)
	}
}

// need is used after commitment: a plain failure of p becomes a fatal
// Syntax failure at the current token. Fatal failures of p pass through.
func need[O any](p P[O], code diag.Code, expected string) P[O] {
	return func(in Span) (Span, O, *combinator.Error) {
		rest, out, err := p(in)
		if err == nil {
			return rest, out, nil
		}
		if !err.IsFatal() {
			err = combinator.SyntaxError(int(code), combinator.Fatal, here(in), expected)
		}
		return in, out, err
	}
}

func here(in Span) combinator.Range {
	return combinator.Range{Start: in.Pos(), End: in.Pos() + min(1, in.Len())}
}

func between(in, rest Span) combinator.Range {
	return combinator.Range{Start: in.Pos(), End: rest.Pos()}
}

func flatten(groups [][]Node) []Node {
	var out []Node
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func prepend(t combinator.Tuple2[Node, []Node]) formBody {
	return formBody{kids: append([]Node{t.A}, t.B...)}
}
