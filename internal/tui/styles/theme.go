package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha color palette
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Teal   = lipgloss.Color("#94e2d5")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Background(Surface0).
			Padding(0, 1)

	OutputOnStyle = lipgloss.NewStyle().
			Foreground(Base).
			Background(Green).
			Bold(true).
			Padding(0, 1)

	OutputOffStyle = lipgloss.NewStyle().
			Foreground(Base).
			Background(Red).
			Bold(true).
			Padding(0, 1)

	OutputUnknownStyle = lipgloss.NewStyle().
				Foreground(Base).
				Background(Yellow).
				Bold(true).
				Padding(0, 1)

	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Surface1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Red)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Overlay0)

	SentStyle = lipgloss.NewStyle().
			Foreground(Peach)

	ReceivedStyle = lipgloss.NewStyle().
			Foreground(Teal)
)

// OutputState is the output flag as last read from the supply
type OutputState int

const (
	OutputUnknown OutputState = iota
	OutputOn
	OutputOff
)

func (s OutputState) String() string {
	switch s {
	case OutputOn:
		return "ON"
	case OutputOff:
		return "OFF"
	default:
		return "?"
	}
}

func GetOutputStyle(state OutputState) lipgloss.Style {
	switch state {
	case OutputOn:
		return OutputOnStyle
	case OutputOff:
		return OutputOffStyle
	default:
		return OutputUnknownStyle
	}
}
