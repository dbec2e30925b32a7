package recovery

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The tolerant grammar mirrors the strict one, but every element after a
// statement's leading token is optional and any token that starts no
// statement is swallowed by junk. Lowercase lexer rules are elided.
// Unterminated runs to the end of input and stands in for a string; Other
// matches any character, so lexing never fails.
var tolerantLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "whitespace", Pattern: `\s+`},
	{Name: "Keyword", Pattern: `\b(?:print|int|input|if|while)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Unterminated", Pattern: `"[^"]*$`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Op", Pattern: `==|[-+*/]`},
	{Name: "Brace", Pattern: `[{}]`},
	{Name: "Punct", Pattern: `[();=]`},
	{Name: "Other", Pattern: `.`},
})

func buildGrammar() (*participle.Parser[tProgram], error) {
	return participle.Build[tProgram](
		participle.Lexer(tolerantLexer),
		participle.UseLookahead(4),
	)
}

type tProgram struct {
	Items []*tItem `parser:"@@*"`
}

// tItem is a top level statement. A "}" is only stray at top level;
// inside a block it closes the block.
type tItem struct {
	Stmt  *tStmt  `parser:"  @@"`
	Stray *tStray `parser:"| @@"`
}

type tStray struct {
	Pos   lexer.Position
	Value string `parser:"@\"}\""`
}

type tStmt struct {
	Print *tPrint `parser:"  @@"`
	Decl  *tDecl  `parser:"| @@"`
	Input *tInput `parser:"| @@"`
	Block *tBlock `parser:"| @@"`
	Junk  *tJunk  `parser:"| @@"`
}

type tPrint struct {
	Keyword string `parser:"@\"print\""`
	LParen  bool   `parser:"@\"(\"?"`
	Expr    *tExpr `parser:"@@?"`
	RParen  bool   `parser:"@\")\"?"`
	Semi    bool   `parser:"@\";\"?"`
}

type tDecl struct {
	Keyword string `parser:"@\"int\""`
	Name    *tName `parser:"@@?"`
	Assign  bool   `parser:"@\"=\"?"`
	Expr    *tExpr `parser:"@@?"`
	Semi    bool   `parser:"@\";\"?"`
}

// tInput needs its "=" so a lone identifier falls through to junk.
type tInput struct {
	Pos     lexer.Position
	Name    string   `parser:"@Ident"`
	Assign  bool     `parser:"@\"=\""`
	Keyword bool     `parser:"@\"input\"?"`
	LParen  bool     `parser:"@\"(\"?"`
	Prompt  *tString `parser:"@@?"`
	RParen  bool     `parser:"@\")\"?"`
	Semi    bool     `parser:"@\";\"?"`
}

type tBlock struct {
	Keyword string      `parser:"@(\"if\" | \"while\")"`
	LParen  bool        `parser:"@\"(\"?"`
	Cond    *tCondition `parser:"@@?"`
	RParen  bool        `parser:"@\")\"?"`
	Body    *tBody      `parser:"@@?"`
}

type tBody struct {
	LBrace bool     `parser:"@\"{\""`
	Stmts  []*tStmt `parser:"@@*"`
	RBrace bool     `parser:"@\"}\"?"`
}

type tCondition struct {
	Left  *tExpr `parser:"@@?"`
	Eq    bool   `parser:"@\"==\"?"`
	Right *tExpr `parser:"@@?"`
}

type tJunk struct {
	Pos   lexer.Position
	Value string `parser:"@(Keyword | Ident | String | Unterminated | Number | Op | Punct | Other | \"{\")"`
}

type tExpr struct {
	Left *tTerm     `parser:"@@"`
	Rest []*tOpTerm `parser:"@@*"`
}

type tOpTerm struct {
	Op   string `parser:"@(\"+\" | \"-\")"`
	Term *tTerm `parser:"@@?"`
}

type tTerm struct {
	Left *tFactor     `parser:"@@"`
	Rest []*tOpFactor `parser:"@@*"`
}

type tOpFactor struct {
	Op     string   `parser:"@(\"*\" | \"/\")"`
	Factor *tFactor `parser:"@@?"`
}

type tFactor struct {
	Pos    lexer.Position
	String *string `parser:"  @(String | Unterminated)"`
	Number *string `parser:"| @Number"`
	Var    *string `parser:"| @Ident"`
	Sub    *tParen `parser:"| @@"`
}

type tParen struct {
	LParen bool   `parser:"@\"(\""`
	Expr   *tExpr `parser:"@@?"`
	RParen bool   `parser:"@\")\"?"`
}

type tName struct {
	Pos   lexer.Position
	Value string `parser:"@Ident"`
}

type tString struct {
	Pos   lexer.Position
	Value string `parser:"@(String | Unterminated)"`
}
