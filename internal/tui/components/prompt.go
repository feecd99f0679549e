package components

import (
	"strings"

	"cobide/internal/tui/messages"
	"cobide/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompt asks the user for a file path
type Prompt struct {
	input textinput.Model
	kind  messages.PromptKind
	label string
	theme styles.Theme
}

// NewPrompt returns a focused prompt prefilled with value
func NewPrompt(kind messages.PromptKind, label, value string, theme styles.Theme) *Prompt {
	input := textinput.New()
	input.Placeholder = "path/to/file"
	input.SetValue(value)
	input.CursorEnd()
	input.Width = 60
	input.Focus()

	return &Prompt{input: input, kind: kind, label: label, theme: theme}
}

func (p *Prompt) Kind() messages.PromptKind {
	return p.kind
}

func (p *Prompt) Value() string {
	return p.input.Value()
}

func (p *Prompt) SetWidth(width int) {
	if width > 10 {
		p.input.Width = width - 10
	}
}

// Update handles a key press. Enter and esc close the prompt with a
// PromptMsg, the cancelled prompt carrying an empty value.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			return p.submit(strings.TrimSpace(p.input.Value()))
		case "esc":
			return p.submit("")
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *Prompt) submit(value string) tea.Cmd {
	kind := p.kind
	return func() tea.Msg {
		return messages.PromptMsg{Kind: kind, Value: value}
	}
}

func (p *Prompt) View() string {
	return p.theme.Title.Render(p.label) + "\n\n" + p.input.View() + "\n\n" +
		p.theme.Help.Render("enter confirm  esc cancel")
}
