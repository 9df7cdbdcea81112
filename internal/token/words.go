package token

// Special-form heads. They are identifiers to the lexer and words to the grammar.
const (
	WordDefine = "define"
	WordDef    = "def"
	WordIf     = "if"
	WordLet    = "let"
	WordFn     = "fn"
	WordLambda = "lambda"
	WordAnd    = "and"
	WordOr     = "or"
	WordDo     = "do"
	WordCond   = "cond"
	WordMacro  = "macro"
)

var reserved = map[string]struct{}{
	WordDefine: {}, WordDef: {}, WordIf: {}, WordLet: {}, WordFn: {}, WordLambda: {},
	WordAnd: {}, WordOr: {}, WordDo: {}, WordCond: {}, WordMacro: {},
}

// IsReservedWord reports whether ident heads a special form.
func IsReservedWord(ident string) bool {
	_, ok := reserved[ident]
	return ok
}
