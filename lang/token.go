package lang

//go:generate go tool stringer --linecomment --type TokenKind --output token_string.go

import (
	"log/slog"
	"strconv"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF      TokenKind = iota // EOF
	TokenNumber                    // NUMBER
	TokenString                    // STRING
	TokenLBracket                  // LBRACKET
	TokenRBracket                  // RBRACKET
	TokenCommand                   // COMMAND
)

// Position is a location in source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether p was set by the lexer.
func (p Position) IsValid() bool { return p.Line > 0 }

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("offset", p.Offset),
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Token is one lexeme of source text.
//
// The Lexeme of a string token keeps its quotes and escape sequences exactly
// as written. Number lexemes are likewise verbatim; [Parse] interprets both.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}

	return t.Kind.String() + "(" + t.Lexeme + ")"
}
