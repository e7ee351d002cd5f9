package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/arsla/lang"
)

// Signature hint styles.
var (
	signatureSymbolStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	signatureNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	signatureArityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// builtinAt returns the builtin whose command token ends at or contains the
// byte offset cursor of input. Text after the cursor is ignored, so an
// unterminated string or bracket later in the line does not hide the hint.
func builtinAt(input string, cursor int) (*lang.Builtin, bool) {
	cursor = min(max(cursor, 0), len(input))

	var last lang.Token

	for tok, err := range lang.NewLexer(input[:cursor]).All() {
		if err != nil {
			return nil, false
		}

		if tok.Kind == lang.TokenEOF {
			break
		}

		last = tok
	}

	if last.Kind != lang.TokenCommand {
		return nil, false
	}

	// Only hint while the cursor touches the command.
	if last.Pos.Offset+len(last.Lexeme) != cursor {
		return nil, false
	}

	return lang.Lookup(last.Lexeme)
}

// renderSignatureHint renders the one-line summary of b shown under the
// input line.
func renderSignatureHint(b *lang.Builtin) string {
	var sb strings.Builder

	sb.WriteString(signatureSymbolStyle.Render(b.Symbol))
	sb.WriteByte(' ')
	sb.WriteString(signatureNameStyle.Render(b.Name))
	sb.WriteString(signatureArityStyle.Render("/" + strconv.Itoa(b.Arity)))

	if b.Vectorize {
		sb.WriteString(hintStyle.Render(" (vectorized)"))
	}

	sb.WriteString(hintStyle.Render(" " + b.Doc))

	return sb.String()
}
