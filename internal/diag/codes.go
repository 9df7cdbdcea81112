package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadChar            Code = 1004
	LexBadEscape          Code = 1005

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2002
	SynUnclosedBracket    Code = 2003
	SynUnclosedBrace      Code = 2004
	SynExpectForm         Code = 2005
	SynExpectSymbol       Code = 2006
	SynExpectBindings     Code = 2007
	SynBadMetadata        Code = 2008
	SynUnconsumedInput    Code = 2009
	SynBadArity           Code = 2010
	SynUnexpectedEOF      Code = 2011
	SynExpectKeyword      Code = 2012
	SynUnbalancedBindings Code = 2013

	// Семантические
	SemaInfo            Code = 3000
	SemaUndefinedSymbol Code = 3001
	SemaDuplicateSymbol Code = 3002
	SemaScopeNotFound   Code = 3003
	SemaBadDefine       Code = 3004

	// Проект и IO
	IOLoadFileError    Code = 4001
	ProjInfo           Code = 5000
	ProjBadManifest    Code = 5001
	ProjCompilerTooOld Code = 5002

	// Внутренние ошибки компилятора
	IceInternal       Code = 9000
	IceParserContract Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Malformed number literal",
	LexBadChar:            "Malformed character literal",
	LexBadEscape:          "Unknown escape sequence",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBracket:    "Unclosed square bracket",
	SynUnclosedBrace:      "Unclosed brace",
	SynExpectForm:         "Expected a form",
	SynExpectSymbol:       "Expected a symbol",
	SynExpectBindings:     "Expected a binding vector",
	SynBadMetadata:        "Malformed metadata",
	SynUnconsumedInput:    "Unexpected trailing input",
	SynBadArity:           "Wrong number of forms",
	SynUnexpectedEOF:      "Unexpected end of file",
	SynExpectKeyword:      "Expected a keyword",
	SynUnbalancedBindings: "Binding vector needs name/value pairs",
	SemaInfo:              "Semantic information",
	SemaUndefinedSymbol:   "Undefined symbol",
	SemaDuplicateSymbol:   "Duplicate symbol",
	SemaScopeNotFound:     "Scope not found",
	SemaBadDefine:         "Malformed definition",
	IOLoadFileError:       "Failed to load file",
	ProjInfo:              "Project information",
	ProjBadManifest:       "Invalid Ploy.toml",
	ProjCompilerTooOld:    "Compiler version does not satisfy project constraint",
	IceInternal:           "Internal compiler error",
	IceParserContract:     "Internal parser contract violation",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("ICE%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
