package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type actionMsg struct {
	details []string
	err     error
}

type tickMsg time.Time

type model struct {
	title   string
	timeout time.Duration
	started time.Time
	now     time.Time
	details []string
	err     error
	done    bool
	action  func(context.Context) ([]string, error)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.runAction, tick())
}

func (m model) runAction() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	details, err := m.action(ctx)
	return actionMsg{details: details, err: err}
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.now = time.Time(msg)
		return m, tick()
	case actionMsg:
		m.details = msg.details
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	if !m.done {
		elapsed := time.Duration(0)
		if !m.now.IsZero() {
			elapsed = m.now.Sub(m.started).Truncate(time.Second)
		}
		fmt.Fprintf(&b, "\nRunning... %s\n", elapsed)
		return b.String()
	}
	if m.err != nil {
		fmt.Fprintf(&b, "%s: %v\n", failStyle.Render("FAILED"), m.err)
	} else {
		b.WriteString(okStyle.Render("OK"))
		b.WriteString("\n")
	}
	b.WriteString(renderDetails(m.details))
	return b.String()
}

// renderDetails aligns "key: value" and "key=value" lines on the separator.
func renderDetails(details []string) string {
	type row struct{ key, value string }
	rows := make([]row, 0, len(details))
	width := 0
	for _, d := range details {
		key, value, ok := strings.Cut(d, ": ")
		if !ok {
			key, value, ok = strings.Cut(d, "=")
		}
		if !ok {
			rows = append(rows, row{value: d})
			continue
		}
		rows = append(rows, row{key: key, value: value})
		width = max(width, len(key))
	}
	var b strings.Builder
	for _, r := range rows {
		if r.key == "" {
			fmt.Fprintf(&b, "- %s\n", r.value)
			continue
		}
		fmt.Fprintf(&b, "- %s %s\n", keyStyle.Render(fmt.Sprintf("%-*s", width, r.key)), r.value)
	}
	return b.String()
}

// Run shows a progress view while action runs with the given timeout.
func Run(title string, timeout time.Duration, action func(context.Context) ([]string, error)) ([]string, error) {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	now := time.Now()
	m := model{title: title, timeout: timeout, started: now, action: action}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	res := final.(model)
	return res.details, res.err
}
