package components

import (
	"strings"

	"cobide/internal/ide"
	"cobide/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar shows the file, encoding and cursor of the active tab, the
// last transient message and a spinner while background work runs.
type StatusBar struct {
	status  ide.Status
	message string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
	width   int
}

func NewStatusBar(theme styles.Theme) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Info

	return &StatusBar{
		style:   theme.Status,
		spinner: s,
	}
}

// SetLoading starts or stops the spinner. The returned command starts the
// spinner ticks and is nil when nothing changed.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	if loading == s.loading {
		return nil
	}
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetStatus(status ide.Status) {
	s.status = status
}

func (s *StatusBar) Status() ide.Status {
	return s.status
}

// SetMessage replaces the transient message
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
}

func (s *StatusBar) Message() string {
	return s.message
}

func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); ok && s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	var left []string
	if s.loading {
		left = append(left, s.spinner.View())
	}
	if s.message != "" {
		left = append(left, s.message)
	}

	var right []string
	if s.status.Filename != "" {
		right = append(right, s.status.Filename)
	}
	if s.status.Encoding != "" {
		right = append(right, s.status.Encoding)
	}
	if s.status.Cursor != "" {
		right = append(right, s.status.Cursor)
	}

	l := strings.Join(left, " ")
	r := strings.Join(right, "  ")
	gap := s.width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	return s.style.Render(l + strings.Repeat(" ", gap) + r)
}
