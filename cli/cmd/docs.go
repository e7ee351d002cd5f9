package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/arsla/cli/cmd/repl"
	"github.com/ardnew/arsla/lang"
)

// Docs lists the builtin commands of the language.
type Docs struct {
	Plain bool `help:"Print tab-separated rows instead of a table."`

	Query []string `arg:"" help:"Show only builtins that fuzzy-match QUERY by symbol, name or description." name:"query" optional:""`
}

// Run executes the docs command.
func (d *Docs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	query := strings.Join(d.Query, " ")

	found := repl.FindBuiltins(query)
	if len(found) == 0 {
		return ErrUnknownBuiltin.With(slog.String("query", query))
	}

	out := stdioFrom(ctx).Out

	if d.Plain {
		for _, b := range found {
			_, err := fmt.Fprintf(out, "%s\t%s\t%d\t%s\n", b.Symbol, b.Name, b.Arity, b.Doc)
			if err != nil {
				return ErrFormat.With(slog.String("format", "plain")).Wrap(err)
			}
		}

		return nil
	}

	_, err = fmt.Fprintln(out, builtinTable(found))
	if err != nil {
		return ErrFormat.With(slog.String("format", "table")).Wrap(err)
	}

	return nil
}

func builtinTable(found []*lang.Builtin) string {
	header := lipgloss.NewStyle().Bold(true)
	symbol := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("SYMBOL", "NAME", "ARITY", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header.Padding(0, 1)
			case col == 0:
				return symbol.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})

	for _, b := range found {
		t.Row(b.Symbol, b.Name, strconv.Itoa(b.Arity), b.Doc)
	}

	return t.String()
}
