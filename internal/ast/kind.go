package ast

// Kind tags a node. Parsing produces the "raw" kinds; lowering rewrites some
// of them in place (Symbol → InternedSymbol, Arg/Define → AssignSymbol).
type Kind uint8

const (
	KindInvalid Kind = iota
	Program

	// literals
	Number
	Bool
	String
	Char
	Keyword
	Null
	BuiltIn

	// unresolved names
	Symbol // a reference
	Arg    // a binding occurrence (fn parameter, let name)

	// data
	Quoted
	List
	Array
	Map
	Pair
	KeywordPair
	MetaData

	// special forms
	Define
	If
	Let
	LetArgs
	Lambda
	Args
	And
	Or
	Do
	Cond
	Macro
	Application

	// produced by lowering
	InternedSymbol
	AssignSymbol
	SetScope
)

var kindNames = [...]string{
	KindInvalid:    "Invalid",
	Program:        "Program",
	Number:         "Number",
	Bool:           "Bool",
	String:         "String",
	Char:           "Char",
	Keyword:        "Keyword",
	Null:           "Null",
	BuiltIn:        "BuiltIn",
	Symbol:         "Symbol",
	Arg:            "Arg",
	Quoted:         "Quoted",
	List:           "List",
	Array:          "Array",
	Map:            "Map",
	Pair:           "Pair",
	KeywordPair:    "KeywordPair",
	MetaData:       "MetaData",
	Define:         "Define",
	If:             "If",
	Let:            "Let",
	LetArgs:        "LetArgs",
	Lambda:         "Lambda",
	Args:           "Args",
	And:            "And",
	Or:             "Or",
	Do:             "Do",
	Cond:           "Cond",
	Macro:          "Macro",
	Application:    "Application",
	InternedSymbol: "InternedSymbol",
	AssignSymbol:   "AssignSymbol",
	SetScope:       "SetScope",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsLiteral reports self-evaluating leaf kinds.
func (k Kind) IsLiteral() bool {
	switch k {
	case Number, Bool, String, Char, Keyword, Null:
		return true
	}
	return false
}

// OpensScope reports kinds whose subtree lives in a fresh lexical scope.
func (k Kind) OpensScope() bool {
	return k == Let || k == Lambda || k == Macro
}

// IsData reports kinds whose contents are quoted data, not code.
func (k Kind) IsData() bool {
	return k == Quoted || k == List || k == MetaData
}
