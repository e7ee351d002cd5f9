package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/arsla/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "stack", "reset", "doc", "edit", "clear", "quit"}

// minNameLength is the shortest word completed in eval mode. Single letters
// are commands in their own right.
const minNameLength = 2

// isNameRune reports whether r can be part of a builtin name typed in eval
// mode.
func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isCtrlRune reports whether r can be part of a word in control mode.
func isCtrlRune(r rune) bool {
	return r != ' ' && r != '\t'
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input, where a word is a maximal run of runes accepted by inWord.
// Returns an empty word when the cursor sits between two non-word runes.
func wordBounds(
	input string,
	cursor int,
	inWord func(rune) bool,
) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !inWord(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !inWord(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// completion is a candidate shown in the completion bar. Accepting it
// replaces the current word with insert.
type completion struct {
	label  string
	insert string
}

// completions adapts a completion list to [fuzzy.Source].
type completions []completion

func (c completions) String(i int) string { return c[i].label }

func (c completions) Len() int { return len(c) }

// nameCompletions offers every builtin by name, inserting its symbol.
func nameCompletions() completions {
	var c completions

	for b := range lang.Builtins() {
		c = append(c, completion{label: b.Name, insert: b.Symbol})
	}

	return c
}

// docCompletions offers every builtin by name, inserting the name.
func docCompletions() completions {
	var c completions

	for b := range lang.Builtins() {
		c = append(c, completion{label: b.Name, insert: b.Name})
	}

	return c
}

func ctrlCompletions() completions {
	c := make(completions, len(ctrlCommands))
	for i, s := range ctrlCommands {
		c[i] = completion{label: s, insert: s}
	}

	return c
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidates they
// index, and the word boundaries.
//
// In eval mode a word of letters is matched against builtin names and
// completes to the builtin's symbol. In control mode the first word is
// matched against the control commands and the argument of doc against
// builtin names.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates completions,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	inWord := isNameRune
	if m.mode == modeCtrl {
		inWord = isCtrlRune
	}

	word, wordStart, wordEnd := wordBounds(input, cursor, inWord)

	switch {
	case m.mode == modeEval:
		if utf8.RuneCountInString(word) < minNameLength {
			return nil, nil, wordStart, wordEnd
		}

		candidates = nameCompletions()

	case word == "":
		return nil, nil, wordStart, wordEnd

	case strings.TrimSpace(input[:wordStart]) == "":
		candidates = ctrlCompletions()

	case strings.Fields(input[:wordStart])[0] == "doc":
		candidates = docCompletions()

	default:
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.FindFrom(word, candidates), candidates, wordStart, wordEnd
}

// FindBuiltins returns the builtins matching query, best match first. A
// builtin whose symbol or name equals query always comes first. An empty
// query matches every builtin in table order.
func FindBuiltins(query string) []*lang.Builtin {
	all := slices.Collect(lang.Builtins())

	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	var found []*lang.Builtin

	for _, b := range all {
		if b.Symbol == query || b.Name == query {
			found = append(found, b)
		}
	}

	for _, m := range fuzzy.FindFrom(query, builtinSource(all)) {
		if b := all[m.Index]; !slices.Contains(found, b) {
			found = append(found, b)
		}
	}

	return found
}

// builtinSource adapts the builtin table to [fuzzy.Source]. Each builtin is
// searched by its name and description.
type builtinSource []*lang.Builtin

func (s builtinSource) String(i int) string { return s[i].Name + " " + s[i].Doc }

func (s builtinSource) Len() int { return len(s) }

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	candidates completions,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, candidates[match.Index], selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. A candidate that inserts something other than its label shows
// the insertion after an arrow.
func renderCandidate(match fuzzy.Match, c completion, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if c.insert != c.label {
		b.WriteString(baseStyle.Render("→" + c.insert))
	}

	return b.String()
}
