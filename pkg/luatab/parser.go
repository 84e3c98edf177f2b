package luatab

import (
	"fmt"
	"strconv"
)

// ParseError reports a structural mismatch in the token stream.
type ParseError struct {
	Pos      Position
	Expected string
	Found    Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// Parser builds a Value tree from tokens by recursive descent.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over tokens. A trailing TokenEOF is added when
// missing.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		var end Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens, Token{Type: TokenEOF, Pos: end})
	}
	return &Parser{tokens: tokens}
}

// Parse parses exactly one value followed by EOF.
func Parse(tokens []Token) (Value, error) {
	p := NewParser(tokens)
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenEOF, "end of input"); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseString tokenizes and parses src.
func ParseString(src string) (Value, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType, expected string) error {
	tok := p.peek()
	if tok.Type != tt {
		return p.errorf(tok, expected)
	}
	p.advance()
	return nil
}

func (p *Parser) errorf(found Token, expected string) error {
	return &ParseError{Pos: found.Pos, Expected: expected, Found: found}
}

// parseValue parses any value.
func (p *Parser) parseValue() (Value, error) {
	tok := p.peek()

	switch tok.Type {
	case TokenLBrace:
		return p.parseTable()

	case TokenNumber:
		p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf(tok, "number in float64 range")
		}
		return Number(f), nil

	case TokenString:
		p.advance()
		return String(tok.Value), nil

	case TokenIdent:
		switch tok.Value {
		case "true":
			p.advance()
			return Boolean(true), nil
		case "false":
			p.advance()
			return Boolean(false), nil
		}
	}

	return nil, p.errorf(tok, "value")
}

// parseTable parses { entry, entry, ... } with an optional trailing comma.
func (p *Parser) parseTable() (*Table, error) {
	p.advance() // consume {

	t := &Table{}
	for {
		if p.peek().Type == TokenRBrace {
			p.advance()
			return t, nil
		}

		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		t.add(entry)

		switch tok := p.peek(); tok.Type {
		case TokenComma:
			p.advance()
		case TokenRBrace:
		default:
			return nil, p.errorf(tok, "',' or '}'")
		}
	}
}

// parseEntry parses key = value, [ "key" ] = value, or a bare value.
func (p *Parser) parseEntry() (Entry, error) {
	tok := p.peek()

	switch {
	case tok.Type == TokenIdent && p.tokens[p.pos+1].Type == TokenEq:
		p.advance()
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return Entry{}, err
		}
		return Entry{Key: tok.Value, Value: v}, nil

	case tok.Type == TokenLBracket:
		p.advance()
		keyTok := p.peek()
		if keyTok.Type != TokenString || keyTok.Value == "" {
			return Entry{}, p.errorf(keyTok, "non-empty string key")
		}
		p.advance()
		if err := p.expect(TokenRBracket, "']'"); err != nil {
			return Entry{}, err
		}
		if err := p.expect(TokenEq, "'='"); err != nil {
			return Entry{}, err
		}
		v, err := p.parseValue()
		if err != nil {
			return Entry{}, err
		}
		return Entry{Key: keyTok.Value, Value: v}, nil
	}

	v, err := p.parseValue()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Value: v}, nil
}
