package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swordcube/cubescript/cube"
)

var (
	accentColor  = lipgloss.Color("#8B5CF6")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput  textinput.Model
	session    *cube.Script
	traceBuf   *strings.Builder
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	width      int
	quitting   bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
}

func newREPLModel() (*replModel, error) {
	traceBuf := &strings.Builder{}
	engine := cube.NewEngine(cube.Config{TraceWriter: traceBuf})
	session, err := engine.Compile("repl", "")
	if err != nil {
		return nil, err
	}
	if err := session.Start(context.Background()); err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = "enter an expression"
	ti.Prompt = promptStyle.Render("cube> ")
	ti.Focus()

	return &replModel{
		textInput:  ti,
		session:    session,
		traceBuf:   traceBuf,
		historyIdx: -1,
	}, nil
}

func runREPL() error {
	model, err := newREPLModel()
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model).Run()
	return err
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			m.session.Stop()
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = nil
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) == 0 {
				return m, nil
			}
			if m.historyIdx < 0 {
				m.historyIdx = len(m.cmdHistory) - 1
			} else if m.historyIdx > 0 {
				m.historyIdx--
			}
			m.textInput.SetValue(m.cmdHistory[m.historyIdx])
			m.textInput.CursorEnd()
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx < 0 {
				return m, nil
			}
			if m.historyIdx < len(m.cmdHistory)-1 {
				m.historyIdx++
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
			} else {
				m.historyIdx = -1
				m.textInput.SetValue("")
			}
			m.textInput.CursorEnd()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.cmdHistory = append(m.cmdHistory, input)
			m.historyIdx = -1
			m.history = append(m.history, m.evaluate(input))
			m.textInput.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *replModel) evaluate(input string) historyEntry {
	m.traceBuf.Reset()
	result, err := m.session.Eval(context.Background(), input)

	entry := historyEntry{input: input}
	var out strings.Builder
	if traced := m.traceBuf.String(); traced != "" {
		out.WriteString(strings.TrimRight(traced, "\n"))
		out.WriteString("\n")
	}
	if err != nil {
		out.WriteString(err.Error())
		entry.isErr = true
	} else {
		out.WriteString(result.String())
	}
	entry.output = out.String()
	return entry
}

func (m *replModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("CubeScript REPL"))
	b.WriteString(mutedStyle.Render("  ctrl+c quit · ctrl+l clear · ↑/↓ history"))
	b.WriteString("\n\n")

	for _, entry := range m.history {
		b.WriteString(promptStyle.Render("cube> "))
		b.WriteString(entry.input)
		b.WriteString("\n")
		style := resultStyle
		if entry.isErr {
			style = errorStyle
		}
		for _, line := range strings.Split(entry.output, "\n") {
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.textInput.View())
	b.WriteString("\n")
	return b.String()
}
