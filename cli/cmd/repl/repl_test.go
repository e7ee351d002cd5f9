package repl

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/arsla/lang"
)

func newTestModel(t *testing.T, initial ...lang.Value) model {
	t.Helper()

	return newModel(
		context.Background(),
		Session{Initial: initial},
		NewHistory(""),
	)
}

func TestModel_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		initial []lang.Value
		lines   []string
		want    string
		pending bool
	}{
		{"arith", nil, []string{"1 2+"}, "[3]", false},
		{"persistent_stack", nil, []string{"1", "2", "+"}, "[3]", false},
		{"initial_values", []lang.Value{lang.NewInt(4)}, []string{"D*"}, "[16]", false},
		{"open_bracket", nil, []string{"[1 2"}, "[]", true},
		{"continued_bracket", nil, []string{"[1 2", "3]"}, "[[1 2 3]]", false},
		{"continued_string", nil, []string{`"a`, `b"`}, `["a\nb"]`, false},
		{"error_keeps_stack", nil, []string{"1 2", "+ +"}, "[3]", false},
		{"parse_error", nil, []string{"1", "]"}, "[1]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, tt.initial...)

			for _, line := range tt.lines {
				m, _ = m.evaluate(line)
			}

			if got := lang.Stack(m.machine.Stack()).String(); got != tt.want {
				t.Errorf("got stack %s want %s", got, tt.want)
			}

			if got := m.pending != ""; got != tt.pending {
				t.Errorf("got pending %v want %v", got, tt.pending)
			}
		})
	}
}

func TestModel_PrintIsCaptured(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.evaluate(`"hi"p 1`)
	if cmd == nil {
		t.Fatal("got nil command")
	}

	// Printed output is consumed by the echo commands.
	if m.output.Len() != 0 {
		t.Errorf("got %q left in output buffer", m.output.String())
	}

	if got := lang.Stack(m.machine.Stack()).String(); got != "[1]" {
		t.Errorf("got stack %s want [1]", got)
	}
}

func TestModel_Commands(t *testing.T) {
	m := newTestModel(t, lang.NewInt(1), lang.NewInt(2))

	m, _ = m.executeCommand("reset")
	if m.machine.Len() != 0 {
		t.Errorf("reset left %d values", m.machine.Len())
	}

	m, cmd := m.executeCommand("quit")
	if !m.quitting || cmd == nil {
		t.Error("quit did not stop the shell")
	}

	if m.View() != "" {
		t.Errorf("got view %q after quit", m.View())
	}
}

func TestModel_ToggleMode(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("1 2")

	m, _ = m.toggleMode()
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("got mode %d input %q", m.mode, m.input.Value())
	}

	m.input.SetValue("sta")

	m, _ = m.toggleMode()
	if m.mode != modeEval || m.input.Value() != "1 2" {
		t.Errorf("got mode %d input %q want eval %q", m.mode, m.input.Value(), "1 2")
	}

	m, _ = m.toggleMode()
	if m.input.Value() != "sta" {
		t.Errorf("got ctrl input %q want %q", m.input.Value(), "sta")
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)

	for _, e := range []HistoryEntry{{"1", modeEval}, {"help", modeCtrl}, {"2", modeEval}} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m, _ = m.historyPrev()
	if m.input.Value() != "2" {
		t.Errorf("got %q want %q", m.input.Value(), "2")
	}

	m, _ = m.historyPrev()
	if m.input.Value() != "help" || m.mode != modeCtrl {
		t.Errorf("got %q mode %d want ctrl %q", m.input.Value(), m.mode, "help")
	}

	m, _ = m.switchToMode(modeEval)
	m.historyIdx = m.history.Len()

	m, _ = m.historyPrevInMode()
	m, _ = m.historyPrevInMode()
	if m.input.Value() != "1" || m.mode != modeEval {
		t.Errorf("got %q mode %d want eval %q", m.input.Value(), m.mode, "1")
	}

	m, _ = m.historyNext()
	m, _ = m.historyNext()
	m, _ = m.historyNext()
	if m.input.Value() != "" {
		t.Errorf("got %q want empty input past newest entry", m.input.Value())
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("1 2 swa")
	m.input.SetCursor(7)
	refreshMatches(&m)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})

	if got := m.input.Value(); got != "1 2 S" {
		t.Errorf("got %q want %q", got, "1 2 S")
	}
}
