package parser

import "github.com/leapstack-labs/minilang/pkg/token"

// Grammar
//
//	program    → stmt*
//	stmt       → print_stmt | decl_stmt | input_stmt | if_stmt | while_stmt
//	print_stmt → "print" "(" expr ")" ";"
//	decl_stmt  → "int" IDENT "=" expr ";"
//	input_stmt → IDENT "=" "input" "(" STRING ")" ";"
//	if_stmt    → "if" "(" condition ")" "{" stmt* "}"
//	while_stmt → "while" "(" condition ")" "{" stmt* "}"
//	condition  → expr "==" expr
//	expr       → term (("+" | "-") term)*
//	term       → factor (("*" | "/") factor)*
//	factor     → STRING | NUMBER | IDENT | "(" expr ")"
//
// Multiplicative operators bind tighter than additive ones; both are
// left-associative.

// statementStart lists the kinds that can begin a statement.
var statementStart = []token.Kind{token.PRINT, token.INT, token.IF, token.WHILE, token.IDENT}

// exprStart lists the kinds that can begin an expression.
var exprStart = []token.Kind{token.STRING, token.NUMBER, token.IDENT, token.LPAREN}

// binaryOperators lists the arithmetic operators, additive first.
var binaryOperators = []token.Kind{token.PLUS, token.MINUS, token.STAR, token.SLASH}

// binaryKinds maps operator tokens to the node kind they produce.
var binaryKinds = map[token.Kind]NodeKind{
	token.PLUS:  KindAdd,
	token.MINUS: KindSub,
	token.STAR:  KindMul,
	token.SLASH: KindDiv,
}

// StatementKeywords returns the keywords that start a statement.
func StatementKeywords() []token.Kind {
	return []token.Kind{token.PRINT, token.INT, token.IF, token.WHILE}
}
