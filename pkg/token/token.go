// Package token defines the lexical tokens of the minilang teaching language.
//
// Every token carries an explicit Kind tag. Consumers that need to treat
// tokens differently (the typo corrector, the parsers, the LSP server)
// dispatch on that tag rather than on dynamic types.
package token

import "fmt"

// Kind represents the type of a lexical token.
type Kind int32

const (
	// Special tokens
	EOF Kind = iota
	ILLEGAL

	// Literals
	IDENT  // x, total_1
	NUMBER // 42
	STRING // "hello"

	// Operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	EQEQ  // ==

	// Punctuation
	ASSIGN    // =
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	SEMICOLON // ;

	// Keywords
	keywordStart
	PRINT
	INT
	INPUT
	IF
	WHILE
	keywordEnd
)

// Class groups token kinds into the coarse categories used in diagnostics.
type Class int

// Token classes.
const (
	ClassSpecial Class = iota
	ClassKeyword
	ClassIdentifier
	ClassString
	ClassNumber
	ClassOperator
	ClassPunctuation
)

var classNames = map[Class]string{
	ClassSpecial:     "special",
	ClassKeyword:     "keyword",
	ClassIdentifier:  "identifier",
	ClassString:      "string literal",
	ClassNumber:      "number literal",
	ClassOperator:    "operator",
	ClassPunctuation: "punctuation",
}

// String returns the class name.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CLASS(%d)", c)
}

// kindNames maps token kinds to their string representations.
var kindNames = map[Kind]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:  `"+"`,
	MINUS: `"-"`,
	STAR:  `"*"`,
	SLASH: `"/"`,
	EQEQ:  `"=="`,

	ASSIGN:    `"="`,
	LPAREN:    `"("`,
	RPAREN:    `")"`,
	LBRACE:    `"{"`,
	RBRACE:    `"}"`,
	SEMICOLON: `";"`,

	PRINT: `"print"`,
	INT:   `"int"`,
	INPUT: `"input"`,
	IF:    `"if"`,
	WHILE: `"while"`,
}

// String returns a human-readable representation of the token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", k)
}

// IsKeyword returns true for reserved words.
func (k Kind) IsKeyword() bool {
	return k > keywordStart && k < keywordEnd
}

// Class returns the coarse category of the kind.
func (k Kind) Class() Class {
	switch {
	case k.IsKeyword():
		return ClassKeyword
	case k == IDENT:
		return ClassIdentifier
	case k == STRING:
		return ClassString
	case k == NUMBER:
		return ClassNumber
	case k == PLUS, k == MINUS, k == STAR, k == SLASH, k == EQEQ:
		return ClassOperator
	case k >= ASSIGN && k <= SEMICOLON:
		return ClassPunctuation
	default:
		return ClassSpecial
	}
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]Kind{
	"print": PRINT,
	"int":   INT,
	"input": INPUT,
	"if":    IF,
	"while": WHILE,
}

// LookupIdent returns the keyword kind for ident, or IDENT.
// Keywords are case sensitive.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	return []string{"print", "int", "input", "if", "while"}
}

// IsIdentifier reports whether s matches [a-zA-Z_][a-zA-Z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Token represents a lexical token.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case IDENT, NUMBER, STRING, ILLEGAL:
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	default:
		return t.Kind.String()
	}
}
