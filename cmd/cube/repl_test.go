package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) *replModel {
	t.Helper()
	m, err := newREPLModel()
	if err != nil {
		t.Fatalf("newREPLModel: %v", err)
	}
	return m
}

func TestUpdateCtrlCQuits(t *testing.T) {
	m := newTestModel(t)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	rm, ok := model.(*replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.session.Started() {
		t.Fatalf("session still started after quit")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateEnterEvaluatesInput(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("1 + 2")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(*replModel)

	if len(rm.history) != 1 {
		t.Fatalf("history length = %d", len(rm.history))
	}
	entry := rm.history[0]
	if entry.isErr {
		t.Fatalf("unexpected eval error: %s", entry.output)
	}
	if entry.output != "3" {
		t.Fatalf("output = %q, want %q", entry.output, "3")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after evaluation")
	}
}

func TestEvaluateKeepsStateAcrossInputs(t *testing.T) {
	m := newTestModel(t)

	if entry := m.evaluate("var score = 40;"); entry.isErr {
		t.Fatalf("unexpected eval error: %s", entry.output)
	}
	entry := m.evaluate("score + 2")
	if entry.isErr {
		t.Fatalf("unexpected eval error: %s", entry.output)
	}
	if entry.output != "42" {
		t.Fatalf("output = %q, want %q", entry.output, "42")
	}
}

func TestEvaluateReportsErrors(t *testing.T) {
	m := newTestModel(t)

	entry := m.evaluate("missing()")
	if !entry.isErr {
		t.Fatalf("expected an error entry")
	}
	if !strings.Contains(entry.output, "missing") {
		t.Fatalf("error output = %q", entry.output)
	}
}

func TestEvaluateIncludesTraceOutput(t *testing.T) {
	m := newTestModel(t)

	entry := m.evaluate(`trace("ping")`)
	if entry.isErr {
		t.Fatalf("unexpected eval error: %s", entry.output)
	}
	if !strings.Contains(entry.output, "ping") {
		t.Fatalf("trace output missing: %q", entry.output)
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	m.cmdHistory = []string{"1", "2"}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	rm := model.(*replModel)
	if rm.textInput.Value() != "2" {
		t.Fatalf("up recalled %q, want the latest command", rm.textInput.Value())
	}
	model, _ = rm.Update(tea.KeyMsg{Type: tea.KeyUp})
	rm = model.(*replModel)
	if rm.textInput.Value() != "1" {
		t.Fatalf("second up recalled %q", rm.textInput.Value())
	}
	model, _ = rm.Update(tea.KeyMsg{Type: tea.KeyDown})
	rm = model.(*replModel)
	if rm.textInput.Value() != "2" {
		t.Fatalf("down recalled %q", rm.textInput.Value())
	}
}
