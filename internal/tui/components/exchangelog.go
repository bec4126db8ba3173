package components

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-psu"
	"github.com/allbin/go-psu/internal/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
)

// maxLogLines caps the scrollback of the exchange log
const maxLogLines = 500

// Exchange is one command sent from the console and what came back
type Exchange struct {
	Command string
	Reply   psu.Reply
	Err     error
	At      time.Time
}

// ExchangeLog shows console exchanges in a scrolling viewport
type ExchangeLog struct {
	viewport viewport.Model
	lines    []string
}

func NewExchangeLog(width, height int) *ExchangeLog {
	return &ExchangeLog{
		viewport: viewport.New(width, height),
	}
}

func (l *ExchangeLog) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
}

// Add appends an exchange and scrolls to it
func (l *ExchangeLog) Add(e Exchange) {
	l.AddLine(FormatExchange(e))
}

// AddLine appends a preformatted line and scrolls to it
func (l *ExchangeLog) AddLine(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	l.viewport.GotoBottom()
}

func (l *ExchangeLog) Lines() []string {
	return l.lines
}

func (l *ExchangeLog) Clear() {
	l.lines = nil
	l.viewport.SetContent("")
}

// FormatExchange renders an exchange as "hh:mm:ss.mmm > CMD < reply"
func FormatExchange(e Exchange) string {
	ts := styles.MutedStyle.Render(e.At.Format("15:04:05.000"))
	sent := styles.SentStyle.Render("> " + e.Command)

	var got string
	switch {
	case errors.Is(e.Err, psu.ErrNoResponse):
		got = styles.MutedStyle.Render("< (no reply)")
	case e.Err != nil:
		got = styles.ErrorStyle.Render(fmt.Sprintf("! %v", e.Err))
	default:
		got = styles.ReceivedStyle.Render(fmt.Sprintf("< %s", e.Reply))
	}
	return ts + " " + sent + "  " + got
}

func (l *ExchangeLog) View() string {
	return l.viewport.View()
}
