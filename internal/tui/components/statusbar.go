package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-psu/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// LineInfo describes the serial settings shown in the status bar
type LineInfo struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration
}

type StatusBar struct {
	device   string
	identity string
	output   styles.OutputState
	lastPoll time.Time
	err      error
	width    int
	line     *LineInfo
}

func NewStatusBar(device string) *StatusBar {
	return &StatusBar{device: device}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetLineInfo(info *LineInfo) {
	sb.line = info
}

func (sb *StatusBar) SetIdentity(id string) {
	sb.identity = strings.TrimSpace(id)
}

func (sb *StatusBar) SetOutput(state styles.OutputState) {
	sb.output = state
}

func (sb *StatusBar) Output() styles.OutputState {
	return sb.output
}

// SetPolled records a finished poll and its first error, if any
func (sb *StatusBar) SetPolled(at time.Time, err error) {
	sb.lastPoll = at
	sb.err = err
}

func (sb *StatusBar) SetError(err error) {
	sb.err = err
}

func (sb *StatusBar) Err() error {
	return sb.err
}

// Header renders the title line: device and identity
func (sb *StatusBar) Header() string {
	title := styles.TitleStyle.Render(sb.device)

	id := sb.identity
	if id == "" {
		id = "unidentified supply"
	}
	ident := lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Faint(true).
		Render(" " + id)

	return lipgloss.JoinHorizontal(lipgloss.Left, title, ident)
}

// View renders the bottom bar: output state, line settings, poll time and
// the last error.
func (sb *StatusBar) View() string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	output := styles.GetOutputStyle(sb.output).Render("OUT " + sb.output.String())

	device := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)

	var indicator string
	if sb.err != nil {
		indicator = lipgloss.NewStyle().Foreground(styles.Red).Render("✗ " + truncate(sb.err.Error(), 48))
	} else if !sb.lastPoll.IsZero() {
		indicator = lipgloss.NewStyle().Foreground(styles.Green).Render("●")
	} else {
		indicator = lipgloss.NewStyle().Foreground(styles.Yellow).Render("○")
	}

	lineText := "⚡ serial"
	if sb.line != nil {
		lineText = fmt.Sprintf("⚡ %d baud %d%s%d %s",
			sb.line.BaudRate, sb.line.DataBits, sb.line.Parity, sb.line.StopBits, sb.line.Timeout)
	}
	line := lipgloss.NewStyle().Foreground(styles.Subtext0).Padding(0, 1).Render(lineText)

	polled := "never"
	if !sb.lastPoll.IsZero() {
		polled = sb.lastPoll.Format("15:04:05")
	}
	poll := lipgloss.NewStyle().Foreground(styles.Subtext1).Padding(0, 1).Render(polled)

	divider := lipgloss.NewStyle().Foreground(styles.Surface2).Padding(0, 1).Render("│")

	left := lipgloss.JoinHorizontal(lipgloss.Left, output, device, indicator, divider)
	right := lipgloss.JoinHorizontal(lipgloss.Left, line, divider, poll)

	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
