package handybars

import (
	"errors"
	"iter"
	"strings"
)

// Placeholder delimiters.
const (
	Opener = "{{"
	Closer = "}}"
)

// TokenKind identifies the kind of a Token.
type TokenKind int

const (
	// TokenText is literal template text, copied verbatim.
	TokenText TokenKind = iota
	// TokenVariable is a parsed placeholder.
	TokenVariable
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Token is one span of a template.
type Token struct {
	Kind TokenKind
	// Text is the literal text for TokenText, or the raw placeholder body
	// (between the delimiters, untrimmed) for TokenVariable.
	Text string
	// Variable is the parsed placeholder path. Zero for TokenText.
	Variable Variable
	// Offset is the byte offset of the token in the template. For
	// placeholders it points at the opener.
	Offset int
}

// Tokens scans tmpl lazily from left to right.
//
// Literal spans and placeholders are yielded in textual order. The sequence
// stops after the first error, which is yielded with a zero Token. A lone
// "}}" outside a placeholder is literal text; there is no escape for "{{".
func Tokens(tmpl string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := scanner{src: tmpl}
		for {
			tok, ok, err := s.next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !ok || !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize scans the whole template and returns its tokens.
func Tokenize(tmpl string) ([]Token, error) {
	var tokens []Token
	for tok, err := range Tokens(tmpl) {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

type scanState int

const (
	stateLiteral scanState = iota
	statePlaceholder
)

// scanner is a two-state machine over the template source.
type scanner struct {
	src   string
	pos   int
	state scanState
}

// next returns the next token. ok is false at end of input.
func (s *scanner) next() (tok Token, ok bool, err error) {
	for s.pos < len(s.src) {
		switch s.state {
		case stateLiteral:
			rest := s.src[s.pos:]
			i := strings.Index(rest, Opener)
			switch {
			case i < 0:
				return s.literal(len(rest)), true, nil
			case i > 0:
				return s.literal(i), true, nil
			}
			s.state = statePlaceholder
		case statePlaceholder:
			tok, err := s.placeholder()
			if err != nil {
				return Token{}, false, err
			}
			return tok, true, nil
		}
	}
	return Token{}, false, nil
}

func (s *scanner) literal(n int) Token {
	tok := Token{Kind: TokenText, Text: s.src[s.pos : s.pos+n], Offset: s.pos}
	s.pos += n
	return tok
}

func (s *scanner) placeholder() (Token, error) {
	start := s.pos
	bodyStart := start + len(Opener)
	end := strings.Index(s.src[bodyStart:], Closer)
	if end < 0 {
		line, col := position(s.src, start)
		s.pos = len(s.src)
		return Token{}, &UnterminatedExpressionError{Offset: start, Line: line, Column: col}
	}

	body := s.src[bodyStart : bodyStart+end]
	v, err := Parse(body)
	if err != nil {
		var invalid *InvalidVariableError
		if errors.As(err, &invalid) {
			invalid.Line, invalid.Column = position(s.src, start)
		}
		s.pos = len(s.src)
		return Token{}, err
	}

	s.pos = bodyStart + end + len(Closer)
	s.state = stateLiteral
	return Token{Kind: TokenVariable, Text: body, Variable: v, Offset: start}, nil
}
