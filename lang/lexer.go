package lang

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// commentMarker starts a comment that runs to the end of the line.
const commentMarker = '#'

// Lexer splits source text into tokens on demand.
//
// A Lexer is single-use: once it has returned EOF or an error, every
// further call to [Lexer.Next] returns the same result.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int

	last Token
	err  error
	done bool
}

// NewLexer returns a Lexer positioned at the start of source.
func NewLexer(source string) *Lexer {
	return &Lexer{
		input: []byte(source),
		line:  1,
		col:   1,
	}
}

// Tokenize splits source into tokens. The returned slice always ends with a
// [TokenEOF] token unless an error is returned.
func Tokenize(source string) ([]Token, error) {
	lex := NewLexer(source)

	var tokens []Token

	for tok, err := range lex.All() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}

	return tokens, nil
}

// All returns an iterator over the remaining tokens. The sequence ends after
// yielding the EOF token or the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() (Token, error) {
	if l.done {
		return l.last, l.err
	}

	tok, err := l.scan()
	if err != nil || tok.Kind == TokenEOF {
		l.last, l.err, l.done = tok, err, true
	}

	return tok, err
}

func (l *Lexer) scan() (Token, error) {
	l.skipWhitespaceAndComments()

	start := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	switch r := l.peek(); {
	case r == '"':
		return l.scanString(start)

	case r == '[':
		l.advance()

		return Token{Kind: TokenLBracket, Lexeme: "[", Pos: start}, nil

	case r == ']':
		l.advance()

		return Token{Kind: TokenRBracket, Lexeme: "]", Pos: start}, nil

	case l.atNumber():
		return l.scanNumber(start), nil

	default:
		l.advance()

		return Token{
			Kind:   TokenCommand,
			Lexeme: string(l.input[start.Offset:l.pos]),
			Pos:    start,
		}, nil
	}
}

// atNumber reports whether a numeric literal starts at the current position.
// A sign or decimal point only starts a number when a digit follows it, so
// "3 2-" and "1." followed by a command still lex as commands.
func (l *Lexer) atNumber() bool {
	switch l.byteAt(0) {
	case '-':
		return isDigit(l.byteAt(1)) ||
			(l.byteAt(1) == '.' && isDigit(l.byteAt(2)))
	case '.':
		return isDigit(l.byteAt(1))
	default:
		return isDigit(l.byteAt(0))
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.byteAt(0) == '-' {
		l.advance()
	}

	l.skipDigits()

	if l.byteAt(0) == '.' {
		l.advance()
		l.skipDigits()
	}

	// The exponent only belongs to the number when digits follow it;
	// otherwise "e" is the next command.
	if c := l.byteAt(0); c == 'e' || c == 'E' {
		n := 1
		if s := l.byteAt(1); s == '+' || s == '-' {
			n = 2
		}

		if isDigit(l.byteAt(n)) {
			for range n {
				l.advance()
			}

			l.skipDigits()
		}
	}

	return Token{
		Kind:   TokenNumber,
		Lexeme: string(l.input[start.Offset:l.pos]),
		Pos:    start,
	}
}

func (l *Lexer) scanString(start Position) (Token, error) {
	l.advance() // opening quote

	for {
		if l.eof() {
			return Token{}, ErrUnterminatedString.At(start)
		}

		r := l.peek()
		l.advance()

		switch r {
		case '\\':
			if l.eof() {
				return Token{}, ErrUnterminatedString.At(start)
			}

			l.advance()

		case '"':
			return Token{
				Kind:   TokenString,
				Lexeme: string(l.input[start.Offset:l.pos]),
				Pos:    start,
			}, nil
		}
	}
}

// unquote decodes the body of a string lexeme. Recognized escapes are \",
// \\, \n and \t; any other escaped rune is kept with its backslash.
func unquote(lexeme string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(lexeme, `"`), `"`)
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder

	b.Grow(len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)

			continue
		}

		i++

		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"', '\\':
			b.WriteByte(body[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}

	return b.String()
}

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

// byteAt returns the byte n bytes past the current position, or 0.
func (l *Lexer) byteAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) skipDigits() {
	for isDigit(l.byteAt(0)) {
		l.advance()
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		switch r := l.peek(); {
		case unicode.IsSpace(r):
			l.advance()

		case r == commentMarker:
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
