package token

// Kind is the closed set of token categories.
type Kind uint8

const (
	// Invalid marks bytes the lexer could not classify.
	Invalid Kind = iota
	// EOF terminates every token stream.
	EOF

	DecNumber // 123, 1_000
	HexNumber // 0xff, $ff
	BinNumber // 0b1010, %1010

	OpenBracket        // (
	CloseBracket       // )
	OpenSquareBracket  // [
	CloseSquareBracket // ]
	OpenBrace          // {
	CloseBrace         // }

	Identifier    // foo, -bar, set!
	FqnIdentifier // a::b::c
	QuotedString  // "text"
	Char          // 'c'
	True          // true
	False         // false
	KeyWord       // :name

	Colon       // :
	Star        // *
	Plus        // +
	Minus       // -
	Slash       // /
	BackSlash   // \
	Ampersand   // &
	Equals      // =
	DoubleEqual // ==
	NotEqual    // !=
	GreaterThan // >
	LessThan    // <
	Bar         // |
	Caret       // ^
	Percentage  // %
	Hash        // #
	Quote       // '
	BackTick    // `
	Comma       // ,
)

var kindNames = [...]string{
	Invalid:            "Invalid",
	EOF:                "EOF",
	DecNumber:          "DecNumber",
	HexNumber:          "HexNumber",
	BinNumber:          "BinNumber",
	OpenBracket:        "OpenBracket",
	CloseBracket:       "CloseBracket",
	OpenSquareBracket:  "OpenSquareBracket",
	CloseSquareBracket: "CloseSquareBracket",
	OpenBrace:          "OpenBrace",
	CloseBrace:         "CloseBrace",
	Identifier:         "Identifier",
	FqnIdentifier:      "FqnIdentifier",
	QuotedString:       "QuotedString",
	Char:               "Char",
	True:               "True",
	False:              "False",
	KeyWord:            "KeyWord",
	Colon:              "Colon",
	Star:               "Star",
	Plus:               "Plus",
	Minus:              "Minus",
	Slash:              "Slash",
	BackSlash:          "BackSlash",
	Ampersand:          "Ampersand",
	Equals:             "Equals",
	DoubleEqual:        "DoubleEqual",
	NotEqual:           "NotEqual",
	GreaterThan:        "GreaterThan",
	LessThan:           "LessThan",
	Bar:                "Bar",
	Caret:              "Caret",
	Percentage:         "Percentage",
	Hash:               "Hash",
	Quote:              "Quote",
	BackTick:           "BackTick",
	Comma:              "Comma",
}

var kindText = map[Kind]string{
	OpenBracket: "(", CloseBracket: ")",
	OpenSquareBracket: "[", CloseSquareBracket: "]",
	OpenBrace: "{", CloseBrace: "}",
	True: "true", False: "false",
	Colon: ":", Star: "*", Plus: "+", Minus: "-", Slash: "/", BackSlash: "\\",
	Ampersand: "&", Equals: "=", DoubleEqual: "==", NotEqual: "!=",
	GreaterThan: ">", LessThan: "<", Bar: "|", Caret: "^", Percentage: "%",
	Hash: "#", Quote: "'", BackTick: "`", Comma: ",",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Text returns the fixed spelling of punctuation kinds, or "" for kinds
// whose text varies.
func (k Kind) Text() string {
	return kindText[k]
}

// Describe is the human form used in "expected ..." messages.
func (k Kind) Describe() string {
	if t := k.Text(); t != "" {
		return "'" + t + "'"
	}
	switch k {
	case DecNumber, HexNumber, BinNumber:
		return "number"
	case Identifier, FqnIdentifier:
		return "symbol"
	case QuotedString:
		return "string"
	case KeyWord:
		return "keyword"
	case EOF:
		return "end of file"
	}
	return k.String()
}

// IsNumber reports whether k is one of the integer literal kinds.
func (k Kind) IsNumber() bool {
	return k == DecNumber || k == HexNumber || k == BinNumber
}

// IsBuiltinOp reports whether k is an operator usable in call position.
func (k Kind) IsBuiltinOp() bool {
	switch k {
	case Star, Plus, Minus, Slash, Equals, DoubleEqual, NotEqual, GreaterThan, LessThan:
		return true
	default:
		return false
	}
}

// Closer returns the matching closing bracket for an opener.
func (k Kind) Closer() (Kind, bool) {
	switch k {
	case OpenBracket:
		return CloseBracket, true
	case OpenSquareBracket:
		return CloseSquareBracket, true
	case OpenBrace:
		return CloseBrace, true
	}
	return Invalid, false
}
