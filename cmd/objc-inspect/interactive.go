//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/obinnaokechukwu/inspector"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Rows of the class list shown at once.
const pageSize = 20

type modelState int

const (
	stateBrowse modelState = iota
	stateDetail
)

type browserModel struct {
	err      error
	all      []string
	matches  []string
	filter   textinput.Model
	detail   string
	selected int
	offset   int
	state    modelState
}

type classesMsg struct {
	err   error
	names []string
}

type detailMsg struct {
	err  error
	text string
}

func newBrowserModel(filter string) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter classes"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.SetValue(filter)
	ti.Focus()
	return &browserModel{filter: ti, state: stateBrowse}
}

func (m *browserModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadClasses)
}

func loadClasses() tea.Msg {
	classes, err := inspector.Classes()
	if err != nil {
		return classesMsg{err: err}
	}
	return classesMsg{names: classNames(classes)}
}

// describeCmd returns a command that describes the named class. The name
// is taken in Update; the command runs on another goroutine.
func describeCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return describeDetail(name)
	}
}

func describeDetail(name string) tea.Msg {
	c := inspector.LookupClass(name)
	if c == nil {
		return detailMsg{err: fmt.Errorf("class %q is no longer registered", name)}
	}
	info, err := inspector.Describe(c)
	if err != nil {
		return detailMsg{err: err}
	}
	var buf bytes.Buffer
	writeClassInfo(&printer{w: &buf, styled: true}, info)
	return detailMsg{text: buf.String()}
}

func (m *browserModel) applyFilter() {
	f := strings.ToLower(m.filter.Value())
	m.matches = m.matches[:0]
	for _, n := range m.all {
		if f == "" || strings.Contains(strings.ToLower(n), f) {
			m.matches = append(m.matches, n)
		}
	}
	m.selected, m.offset = 0, 0
}

func (m *browserModel) move(delta int) {
	m.selected += delta
	m.selected = max(0, min(m.selected, len(m.matches)-1))
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+pageSize {
		m.offset = m.selected - pageSize + 1
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateBrowse {
				m.move(-1)
			}
			return m, nil

		case "down":
			if m.state == stateBrowse {
				m.move(1)
			}
			return m, nil

		case "pgup":
			if m.state == stateBrowse {
				m.move(-pageSize)
			}
			return m, nil

		case "pgdown":
			if m.state == stateBrowse {
				m.move(pageSize)
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateBrowse:
				if m.selected < len(m.matches) {
					return m, describeCmd(m.matches[m.selected])
				}
			case stateDetail:
				m.state = stateBrowse
				m.detail = ""
				m.err = nil
			}
			return m, nil

		case "esc":
			if m.state == stateDetail {
				m.state = stateBrowse
				m.detail = ""
				m.err = nil
				return m, nil
			}
			return m, tea.Quit

		case "q":
			if m.state == stateDetail {
				return m, tea.Quit
			}
		}

	case classesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.all = msg.names
		m.applyFilter()
		return m, nil

	case detailMsg:
		m.detail = msg.text
		m.err = msg.err
		m.state = stateDetail
		return m, nil
	}

	if m.state == stateBrowse {
		before := m.filter.Value()
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if m.filter.Value() != before {
			m.applyFilter()
		}
		return m, cmd
	}
	return m, nil
}

func (m *browserModel) View() string {
	if m.err != nil && m.state != stateDetail {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}
	if m.all == nil {
		return "Loading classes..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("objc-inspect"))
	b.WriteString(" ")
	b.WriteString(inspector.LibraryPath())
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		b.WriteString(m.filter.View())
		b.WriteString(helpStyle.Render(fmt.Sprintf("  %d/%d", len(m.matches), len(m.all))))
		b.WriteString("\n\n")
		end := min(m.offset+pageSize, len(m.matches))
		for i := m.offset; i < end; i++ {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.matches[i]))
			} else {
				b.WriteString("  " + m.matches[i])
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter describe • esc quit"))

	case stateDetail:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.detail)
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

func runInteractive(filter string) error {
	p := tea.NewProgram(newBrowserModel(filter), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
