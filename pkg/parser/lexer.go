package parser

import (
	"unicode/utf8"

	"github.com/leapstack-labs/minilang/pkg/token"
)

// Lexer tokenizes minilang input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.pos > 0 && l.pos <= len(l.input) && l.input[l.pos-1] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// atEOF reports whether the lexer consumed all input.
// A literal NUL byte inside the input is not end of input.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.currentPos()
	if l.atEOF() {
		return token.Token{Kind: token.EOF, Pos: pos}
	}

	var tok token.Token
	switch l.ch {
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Kind: token.EQEQ, Literal: "==", Pos: pos}
		} else {
			tok = l.newToken(token.ASSIGN, "=")
		}
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '"':
		return l.readString(pos)
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			lit := l.readIdentifier()
			return token.Token{Kind: token.LookupIdent(lit), Literal: lit, Pos: pos}
		case isDigit(l.ch):
			return token.Token{Kind: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		default:
			tok = l.newToken(token.ILLEGAL, l.readIllegal())
		}
	}

	l.readChar()
	return tok
}

// readIllegal consumes all but the last byte of the character at the
// current position and returns the character. Invalid UTF-8 is one byte.
func (l *Lexer) readIllegal() string {
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	lit := l.input[l.pos : l.pos+size]
	for i := 1; i < size; i++ {
		l.readChar()
	}
	return lit
}

// newToken creates a new token at the current position.
func (l *Lexer) newToken(kind token.Kind, literal string) token.Token {
	return token.Token{Kind: kind, Literal: literal, Pos: l.currentPos()}
}

// skipWhitespace skips insignificant whitespace.
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && (l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v') {
		l.readChar()
	}
}

// readString reads a double-quoted string. There are no escape sequences;
// a string without a closing quote lexes as ILLEGAL.
func (l *Lexer) readString(pos token.Position) token.Token {
	start := l.pos
	l.readChar() // opening quote
	for !l.atEOF() && l.ch != '"' {
		l.readChar()
	}
	if l.atEOF() {
		return token.Token{Kind: token.ILLEGAL, Literal: l.input[start:], Pos: pos}
	}
	l.readChar() // closing quote
	return token.Token{Kind: token.STRING, Literal: l.input[start:l.pos], Pos: pos}
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an integer literal.
func (l *Lexer) readNumber() string {
	start := l.pos
	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns every token of input up to and including EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}
