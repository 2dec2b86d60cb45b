package main

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// thinkingMessages are shown next to the spinner when no label is given.
var thinkingMessages = []string{
	"Thinking...",
	"Brewing a response...",
	"Assembling words...",
	"Crunching tokens...",
	"Weaving thoughts...",
}

func randomThinkingMessage() string {
	return thinkingMessages[rand.IntN(len(thinkingMessages))] //nolint:gosec // cosmetic
}

type doneMsg struct{}

// waitModel shows a spinner until a doneMsg arrives. Ctrl+C cancels the
// work context and keeps waiting for the work to return.
type waitModel struct {
	spinner spinner.Model
	label   string
	cancel  context.CancelFunc
	done    bool
}

func (m waitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.label = "Canceling..."
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + spinnerStyle.Render(m.label)
}

// waitFor runs fn and, when w is a terminal, shows a spinner with label
// while it runs. fn's result is returned unchanged.
func waitFor[T any](ctx context.Context, w io.Writer, label string, fn func(context.Context) (T, error)) (T, error) {
	if !isTerminal(w) {
		return fn(ctx)
	}

	if label == "" {
		label = randomThinkingMessage()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		v   T
		err error
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	p := tea.NewProgram(waitModel{spinner: s, label: label, cancel: cancel}, tea.WithOutput(w))

	resc := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		resc <- result{v, err}
		p.Send(doneMsg{})
	}()

	// A failing program only loses the spinner; the work result still counts.
	_, _ = p.Run()

	r := <-resc
	return r.v, r.err
}
