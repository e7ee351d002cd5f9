package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/arsla/lang"
	"github.com/ardnew/arsla/log"
)

// editSourceMsg is sent when editing completes with new source.
type editSourceMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help         Print this cruft
  stack        Print every value on the stack
  reset        Empty the stack and discard unfinished input
  doc [QUERY]  Describe the builtins matching QUERY
  edit         Edit unfinished or last input in $EDITOR, then run it
  clear        Clear screen
  quit         Exit shell

Usage:
  Type a program to run it; the stack carries over between lines
  A line with an open bracket or string continues on the next line
  Type a builtin name (e.g. swap) and press Tab to insert its symbol
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C to discard input, on an empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	outputStyle     = lipgloss.NewStyle()
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stackStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line of program input.
func formatCommand(prompt, input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Session configures a shell.
type Session struct {
	// CacheDir holds the history file. History is not saved if it is empty.
	CacheDir string
	Logger   log.Logger
	// In and Out replace the terminal streams when not nil.
	In  io.Reader
	Out io.Writer
	// Initial is pushed onto the stack before the first prompt.
	Initial []lang.Value
	// Options configure the interpreter. Output options are overridden.
	Options []lang.Option
}

// model is the Bubble Tea model for the shell.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	machine      *lang.Machine
	output       *bytes.Buffer // sink of the machine's print command
	options      []lang.Option
	pending      string // unfinished program awaiting more lines
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   completions   // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive shell on one persistent stack and returns when
// the user quits.
func Run(ctx context.Context, s Session) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s.Logger.TraceContext(
		ctx,
		"shell start",
		slog.String("cache_dir", s.CacheDir),
		slog.Int("initial_depth", len(s.Initial)),
	)

	var path string
	if s.CacheDir != "" {
		path = filepath.Join(s.CacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		s.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	s.Logger.TraceContext(
		ctx,
		"shell history loaded",
		slog.Int("entry_count", history.Len()),
	)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}

	if s.In != nil {
		opts = append(opts, tea.WithInput(s.In))
	}

	if s.Out != nil {
		opts = append(opts, tea.WithOutput(s.Out))
	}

	_, err = tea.NewProgram(newModel(ctx, s, history), opts...).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	output := new(bytes.Buffer)

	// The stack is shown after every line, so implicit output starts off.
	options := append(
		slices.Clip(s.Options),
		lang.WithOutput(output),
		lang.WithImplicitOutput(false),
	)

	machine := lang.NewMachine(options...)
	machine.Push(s.Initial...)

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		machine:    machine,
		output:     output,
		options:    options,
		logger:     s.Logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editSourceMsg:
		m.pending = ""
		m.logger.TraceContext(
			m.ctxFunc(),
			"shell edit complete",
			slog.Int("source_length", len(msg.source)),
		)

		return m.evaluate(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Stack preview line.
	b.WriteString(m.stackPreview())
	b.WriteString("\n")

	// Completion / hint line.
	input := m.input.Value()
	viewingHistory := m.historyIdx < m.history.Len()

	switch {
	case viewingHistory:
		pos := m.historyIdx + 1 // 1-based for display
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.candidates, m.suggIdx, m.tabActive, m.width,
		))

	case m.mode == modeEval && input != "":
		if bi, ok := builtinAt(input, m.input.Position()); ok {
			b.WriteString(renderSignatureHint(bi))
		}

	case strings.TrimSpace(input) == "":
		var hint string

		switch {
		case m.mode == modeCtrl:
			hint = "Type: help, stack, reset, doc, edit, clear, quit (press Esc to return)"
		case m.pending != "":
			hint = "Continue the program, or press Ctrl+C to discard it"
		default:
			hint = "Type a program or press Esc for commands"
		}

		b.WriteString(hintStyle.Render(hint))
	}

	b.WriteString("\n")

	return b.String()
}

// stackPreview renders the current stack on one line, cut to the terminal
// width.
func (m model) stackPreview() string {
	preview := "stack " + lang.Stack(m.machine.Stack()).String()

	return stackStyle.MaxWidth(m.width).Render(preview)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"shell keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && m.pending == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		if m.pending != "" {
			m.pending = ""
			m.setPrompt()

			return m, tea.Println(hintStyle.Render("unfinished input discarded"))
		}

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyPrevInMode()

	case tea.KeyShiftDown:
		return m.historyNextInMode()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)

			return m, nil
		}

		return m.toggleMode()
	}

	// For any other key, update input and recompute matches.
	var cmd tea.Cmd

	if msg.Type != tea.KeyRunes || msg.String() == " " {
		m.tabActive = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

// cycle moves the selected candidate by step, starting tab-cycling if it is
// not active. A sole candidate is accepted at once.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.candidates[m.matches[0].Index].insert)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	// Keep the word bounds of the original text so each candidate replaces
	// the previous one.
	m.input.SetValue(m.preTabText)
	_, m.wordStart, m.wordEnd = m.currentWord()
	replaceCurrentWord(&m, m.candidates[m.matches[m.suggIdx].Index].insert)

	return m, nil
}

// currentWord returns the word at the cursor for the current mode.
func (m model) currentWord() (string, int, int) {
	inWord := isNameRune
	if m.mode == modeCtrl {
		inWord = isCtrlRune
	}

	if m.tabActive {
		return wordBounds(m.preTabText, m.preTabCursor, inWord)
	}

	return wordBounds(m.input.Value(), m.input.Position(), inWord)
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)
}

// refreshMatches recomputes fuzzy matches for the current input state.
// Matches are left alone while tab-cycling.
func refreshMatches(m *model) {
	if m.tabActive {
		return
	}

	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" && (m.mode == modeCtrl || m.pending == "") {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	mode := m.mode

	if err := m.history.Add(input, mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "shell history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(
		m.ctxFunc(),
		"shell input",
		slog.String("input", input),
		slog.Bool("ctrl", mode == modeCtrl),
	)

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m.evaluate(input)
}

// incomplete reports whether err means the source ended inside a bracket
// or string, so more input could complete it.
func incomplete(err error) bool {
	return errors.Is(err, lang.ErrUnbalancedBrackets) ||
		errors.Is(err, lang.ErrUnterminatedString)
}

// evaluate runs line, appended to any unfinished input, on the persistent
// stack.
func (m model) evaluate(line string) (model, tea.Cmd) {
	ctx := m.ctxFunc()

	prompt := evalPrompt
	source := line

	if m.pending != "" {
		prompt = contPrompt
		source = m.pending + "\n" + line
	}

	echo := tea.Println(formatCommand(prompt, line))

	prog, err := lang.ParseString(ctx, source, m.options...)
	if incomplete(err) {
		m.pending = source
		m.setPrompt()

		return m, echo
	}

	m.pending = ""
	m.setPrompt()

	if err != nil {
		return m, tea.Sequence(echo, printError(err, source))
	}

	err = m.machine.Run(ctx, prog)
	if err == nil {
		err = m.machine.Flush()
	}

	m.logger.TraceContext(
		ctx,
		"shell eval result",
		slog.Int("depth", m.machine.Len()),
		slog.Int("steps", m.machine.Steps()),
		slog.Bool("ok", err == nil),
	)

	cmds := []tea.Cmd{echo}

	if out := m.output.String(); out != "" {
		m.output.Reset()
		cmds = append(cmds, tea.Println(outputStyle.Render(strings.TrimSuffix(out, "\n"))))
	}

	if err != nil {
		cmds = append(cmds, printError(err, source))
	} else {
		cmds = append(cmds, tea.Println(
			resultStyle.Render(lang.Stack(m.machine.Stack()).String()),
		))
	}

	return m, tea.Sequence(cmds...)
}

func printError(err error, source string) tea.Cmd {
	diag := lang.WrapError(err).Diagnostic(source)

	return tea.Println(errorStyle.Render(strings.TrimSuffix(diag, "\n")))
}

// setPrompt shows the continuation prompt while input is unfinished.
func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case m.pending != "":
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"shell exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "s", "stack":
		return m, tea.Sequence(echoCmd, tea.Println(m.stackView()))

	case "r", "reset":
		m.machine.Reset()
		m.pending = ""

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("stack cleared")))

	case "d", "doc":
		return m, tea.Sequence(echoCmd, tea.Println(docView(strings.Join(args, " "))))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// stackView lists the stack, top last, with each value's depth.
func (m model) stackView() string {
	stack := m.machine.Stack()
	if len(stack) == 0 {
		return hintStyle.Render("  (empty)")
	}

	var b strings.Builder

	for i, v := range stack {
		depth := len(stack) - 1 - i
		fmt.Fprintf(&b, "  %s %s\n",
			hintStyle.Render(fmt.Sprintf("%3d", depth)),
			resultStyle.Render(v.Source()),
		)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func docView(query string) string {
	found := FindBuiltins(query)
	if len(found) == 0 {
		return errorStyle.Render("no builtin matches " + strconv.Quote(query))
	}

	lines := make([]string, len(found))
	for i, b := range found {
		lines[i] = "  " + renderSignatureHint(b)
	}

	return strings.Join(lines, "\n")
}

// handleEdit opens the unfinished input, or else the most recent program
// line, in the user's editor.
func (m model) handleEdit() tea.Cmd {
	source := m.pending
	if source == "" {
		for _, e := range slices.Backward(m.history.Entries()) {
			if e.Mode == modeEval {
				source = e.Line

				break
			}
		}
	}

	cmd := &editSourceCommand{
		source:  source,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.edited == "" {
			return editCancelledMsg{}
		}

		return editSourceMsg{source: cmd.edited}
	})
}

// showEntry replaces the input with history entry i, switching mode to
// match.
func (m model) showEntry(i int) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	m.historyIdx = i

	if m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m)

	return m
}

// clearEntry leaves history navigation with an empty input.
func (m model) clearEntry() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m)

	return m
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		return m.showEntry(m.historyIdx - 1), nil
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		return m.showEntry(m.historyIdx + 1), nil
	}

	return m.clearEntry(), nil
}

func (m model) historyPrevInMode() (model, tea.Cmd) {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == m.mode {
			return m.showEntry(i), nil
		}
	}

	return m, nil
}

func (m model) historyNextInMode() (model, tea.Cmd) {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == m.mode {
			return m.showEntry(i), nil
		}
	}

	// Reached end of mode-specific history, clear input
	if m.historyIdx < m.history.Len() {
		return m.clearEntry(), nil
	}

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	m.setPrompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m)

	return m, nil
}
