package lang

import (
	"context"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
)

// Parse builds a Program from tokens. A missing trailing EOF token is
// implied.
func Parse(tokens []Token) (Program, error) {
	i := 0

	return parseTokens(func() (Token, error) {
		if i >= len(tokens) {
			var pos Position
			if len(tokens) > 0 {
				pos = tokens[len(tokens)-1].Pos
			}

			return Token{Kind: TokenEOF, Pos: pos}, nil
		}

		tok := tokens[i]
		i++

		return tok, nil
	})
}

// parseSource lexes and parses source in one pass.
func parseSource(source string) (Program, error) {
	return parseTokens(NewLexer(source).Next)
}

func parseTokens(next func() (Token, error)) (Program, error) {
	p := parser{next: next}

	prog, err := p.parseItems(nil)
	if err != nil {
		return nil, err
	}

	if prog == nil {
		prog = Program{}
	}

	return prog, nil
}

type parser struct {
	next func() (Token, error)
}

// parseItems parses nodes up to EOF when open is nil, or up to the bracket
// closing open.
func (p *parser) parseItems(open *Token) (Program, error) {
	var prog Program

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenEOF:
			if open != nil {
				return nil, ErrUnbalancedBrackets.At(open.Pos)
			}

			return prog, nil

		case TokenRBracket:
			if open == nil {
				return nil, ErrUnexpectedRBracket.At(tok.Pos)
			}

			return prog, nil

		case TokenLBracket:
			inner, err := p.parseItems(&tok)
			if err != nil {
				return nil, err
			}

			prog = append(prog, bracket(inner, tok.Pos))

		case TokenNumber:
			n, err := parseNumber(tok.Lexeme)
			if err != nil {
				return nil, ErrInvalidNumber.At(tok.Pos).
					With(slog.String("lexeme", tok.Lexeme)).
					Wrap(err)
			}

			prog = append(prog, Literal(NewNumber(n), tok.Pos))

		case TokenString:
			prog = append(prog, Literal(NewString(unquote(tok.Lexeme)), tok.Pos))

		case TokenCommand:
			prog = append(prog, Command(tok.Lexeme, tok.Pos))

		default:
			return nil, ErrParse.At(tok.Pos).
				With(slog.String("token", tok.String()))
		}
	}
}

// bracket classifies the contents of one bracket pair: all-literal content
// is a List, anything holding a command is a Block.
func bracket(inner Program, pos Position) Node {
	if inner.isLiteral() {
		return Literal(NewList(inner.values()...), pos)
	}

	return Literal(NewBlock(inner), pos)
}

func parseNumber(lexeme string) (Number, error) {
	if !strings.ContainsAny(lexeme, ".eE") {
		b, ok := new(big.Int).SetString(lexeme, 10)
		if !ok {
			return Number{}, strconv.ErrSyntax
		}

		return BigInt(b), nil
	}

	// Out-of-range literals fail rather than becoming infinities, which
	// have no literal form.
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Number{}, err
	}

	return Float(f), nil
}

// ParseInput parses source as a sequence of data literals to seed a stack.
// Commands, and brackets holding code, fail with [ErrInvalidInput].
func ParseInput(ctx context.Context, source string, opts ...Option) ([]Value, error) {
	prog, err := ParseString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	values := make([]Value, 0, len(prog))

	for _, n := range prog {
		if n.Kind == NodeCommand {
			return nil, ErrInvalidInput.At(n.Pos).
				With(slog.String("symbol", n.Symbol))
		}

		if hasBlock(n.Value) {
			return nil, ErrInvalidInput.At(n.Pos).
				With(slog.String("value", n.Value.Source()))
		}

		values = append(values, n.Value)
	}

	return values, nil
}
