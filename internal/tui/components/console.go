package components

import (
	"strings"

	"github.com/allbin/go-psu/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxHistory is how many console commands are remembered
const maxHistory = 100

// Console is the single-line command prompt of the watch screen
type Console struct {
	textInput    textinput.Model
	history      []string
	historyIndex int
	currentInput string // input being typed when history navigation started
	width        int
}

func NewConsole() *Console {
	ti := textinput.New()
	ti.Placeholder = "VSET1:5.0, OUT1, *IDN? ..."
	ti.CharLimit = 64
	ti.Prompt = ""

	return &Console{
		textInput:    ti,
		historyIndex: -1,
	}
}

func (c *Console) SetWidth(width int) {
	c.width = width
	// border(2) + padding(2) + prompt(2)
	usable := width - 6
	if usable < 20 {
		usable = 20
	}
	c.textInput.Width = usable
}

func (c *Console) Focus() tea.Cmd {
	return c.textInput.Focus()
}

func (c *Console) Blur() {
	c.textInput.Blur()
}

func (c *Console) Focused() bool {
	return c.textInput.Focused()
}

func (c *Console) Value() string {
	return c.textInput.Value()
}

func (c *Console) SetValue(value string) {
	c.textInput.SetValue(value)
}

// Submit returns the trimmed command, records it in the history and clears
// the prompt. It returns "" for a blank line.
func (c *Console) Submit() string {
	command := strings.TrimSpace(c.textInput.Value())
	c.textInput.SetValue("")
	c.AddToHistory(command)
	return command
}

// AddToHistory records a command unless it is blank or repeats the last one
func (c *Console) AddToHistory(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	if len(c.history) == 0 || c.history[len(c.history)-1] != command {
		c.history = append(c.history, command)
		if len(c.history) > maxHistory {
			c.history = c.history[1:]
		}
	}

	c.historyIndex = -1
	c.currentInput = ""
}

func (c *Console) History() []string {
	return c.history
}

// HistoryUp moves to the previous command
func (c *Console) HistoryUp() {
	if len(c.history) == 0 {
		return
	}

	if c.historyIndex == -1 {
		c.currentInput = c.textInput.Value()
		c.historyIndex = len(c.history) - 1
	} else if c.historyIndex > 0 {
		c.historyIndex--
	}

	c.textInput.SetValue(c.history[c.historyIndex])
}

// HistoryDown moves to the next command, and back to the unfinished input
// after the newest one.
func (c *Console) HistoryDown() {
	if len(c.history) == 0 || c.historyIndex == -1 {
		return
	}

	if c.historyIndex < len(c.history)-1 {
		c.historyIndex++
		c.textInput.SetValue(c.history[c.historyIndex])
		return
	}

	c.historyIndex = -1
	c.textInput.SetValue(c.currentInput)
	c.currentInput = ""
}

func (c *Console) Update(msg tea.Msg) (*Console, tea.Cmd) {
	var cmd tea.Cmd
	c.textInput, cmd = c.textInput.Update(msg)
	return c, cmd
}

func (c *Console) View() string {
	prompt := lipgloss.NewStyle().Foreground(styles.Green).Bold(true).Render(">")

	var content string
	if c.Focused() {
		content = lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", c.textInput.View())
	} else {
		content = lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ",
			styles.MutedStyle.Render("Press 'i' to send a command"))
	}

	width := c.width - 4
	if width < 10 {
		width = 10
	}

	style := styles.InputStyle.Width(width).AlignHorizontal(lipgloss.Left)
	if c.Focused() {
		style = style.BorderForeground(styles.Green)
	}
	return style.Render(content)
}
