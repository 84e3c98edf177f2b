// Package luatab reads and writes the Lua table literals picoCAD uses for its
// project bodies.
//
// The package is domain agnostic: Tokenize turns text into tokens, Parse turns
// tokens into a Value tree, and Format renders a Value tree back into text.
package luatab

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexer token.
type TokenType uint8

const (
	TokenEOF TokenType = iota

	TokenIdent  // name, true, false
	TokenNumber // 12, -0.75, 1e-3
	TokenString // 'cube' or "cube"

	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenEq       // =
	TokenComma    // ,
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "IDENT"
	case TokenNumber:
		return "NUMBER"
	case TokenString:
		return "STRING"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenEq:
		return "="
	case TokenComma:
		return ","
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Position is a location in the source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Col    int // 1-based, in bytes
}

// String returns "line:col".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token represents a lexer token. Value holds the identifier, the number
// literal as written, or the unquoted string contents.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	switch t.Type {
	case TokenIdent, TokenNumber:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	case TokenString:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}

// LexError reports a byte that starts no valid token.
type LexError struct {
	Pos    Position
	Char   rune
	Reason string
}

func (e *LexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("lex error at %s: unexpected character %q", e.Pos, e.Char)
}

// Lexer tokenizes a table literal.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
	base  int
}

// NewLexer creates a lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	return NewLexerAt(input, Position{Line: 1, Col: 1})
}

// NewLexerAt creates a lexer whose first byte sits at start. Use it when input
// is a slice of a larger file so positions stay meaningful.
func NewLexerAt(input string, start Position) *Lexer {
	if start.Line < 1 {
		start.Line = 1
	}
	if start.Col < 1 {
		start.Col = 1
	}
	return &Lexer{
		input: input,
		line:  start.Line,
		col:   start.Col,
		base:  start.Offset,
	}
}

// Tokenize returns every token of src, ending with TokenEOF.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Tokenize()
}

// TokenizeFrom is Tokenize for text that begins at start within a file.
func TokenizeFrom(src string, start Position) ([]Token, error) {
	return NewLexerAt(src, start).Tokenize()
}

// Tokenize returns all tokens from the input. The slice always ends with a
// TokenEOF on success.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespaceAndComments()

	start := l.current()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: start}, nil
	}

	ch := l.input[l.pos]
	switch ch {
	case '{':
		l.advance()
		return Token{Type: TokenLBrace, Value: "{", Pos: start}, nil
	case '}':
		l.advance()
		return Token{Type: TokenRBrace, Value: "}", Pos: start}, nil
	case '[':
		l.advance()
		return Token{Type: TokenLBracket, Value: "[", Pos: start}, nil
	case ']':
		l.advance()
		return Token{Type: TokenRBracket, Value: "]", Pos: start}, nil
	case '=':
		l.advance()
		return Token{Type: TokenEq, Value: "=", Pos: start}, nil
	case ',':
		l.advance()
		return Token{Type: TokenComma, Value: ",", Pos: start}, nil
	case '\'', '"':
		return l.lexString(start)
	}

	if ch == '-' || ch == '.' || isDigit(ch) {
		return l.lexNumber(start)
	}
	if isIdentStart(ch) {
		for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
			l.advance()
		}
		return Token{Type: TokenIdent, Value: l.input[start.Offset-l.base : l.pos], Pos: start}, nil
	}

	return Token{}, &LexError{Pos: start, Char: l.peekRune()}
}

// lexNumber reads [-]digits[.digits][(e|E)[+-]digits]. The grammar has no
// subtraction, so a '-' must start a number.
func (l *Lexer) lexNumber(start Position) (Token, error) {
	begin := l.pos
	if l.input[l.pos] == '-' {
		l.advance()
	}

	digits := l.skipDigits()
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.advance()
		digits += l.skipDigits()
	}
	if digits == 0 {
		return Token{}, &LexError{Pos: start, Char: rune(l.input[begin]), Reason: "malformed number"}
	}

	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		l.advance()
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.advance()
		}
		if l.skipDigits() == 0 {
			return Token{}, &LexError{Pos: l.current(), Char: l.peekRune(), Reason: "malformed exponent"}
		}
	}

	if l.pos < len(l.input) && isIdentStart(l.input[l.pos]) {
		return Token{}, &LexError{Pos: l.current(), Char: l.peekRune()}
	}

	return Token{Type: TokenNumber, Value: l.input[begin:l.pos], Pos: start}, nil
}

// lexString reads a quoted string. A backslash before the opening quote
// character yields that quote; every other byte is taken literally.
func (l *Lexer) lexString(start Position) (Token, error) {
	quote := l.input[l.pos]
	l.advance()

	var sb strings.Builder
	for {
		if l.pos >= len(l.input) || l.input[l.pos] == '\n' {
			return Token{}, &LexError{Pos: start, Char: rune(quote), Reason: "unterminated string"}
		}
		ch := l.input[l.pos]
		if ch == quote {
			l.advance()
			return Token{Type: TokenString, Value: sb.String(), Pos: start}, nil
		}
		if ch == '\\' && l.pos+1 < len(l.input) && l.input[l.pos+1] == quote {
			l.advance()
			ch = quote
		}
		sb.WriteByte(ch)
		l.advance()
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '-' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '-':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipDigits() int {
	n := 0
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
		n++
	}
	return n
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) current() Position {
	return Position{Offset: l.base + l.pos, Line: l.line, Col: l.col}
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	for _, r := range l.input[l.pos:] {
		return r
	}
	return 0
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
