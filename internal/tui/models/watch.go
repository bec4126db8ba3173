package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allbin/go-psu"
	"github.com/allbin/go-psu/internal/tui/components"
	"github.com/allbin/go-psu/internal/tui/keys"
	"github.com/allbin/go-psu/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// exchangeTimeout bounds one poll or console command
const exchangeTimeout = 5 * time.Second

type tickMsg time.Time

// SampleMsg carries the result of one poll
type SampleMsg struct {
	Readings []components.Reading
	Output   styles.OutputState
	Err      error
	At       time.Time
}

// ExchangeMsg carries the result of a console command
type ExchangeMsg components.Exchange

// IdentityMsg carries the reply to the identity query made at start-up
type IdentityMsg struct {
	ID  string
	Err error
}

// WatchOptions configures the watch screen
type WatchOptions struct {
	Device   string
	Channels []psu.Channel
	Interval time.Duration
	Line     *components.LineInfo
}

// WatchModel is the live dashboard of one supply
type WatchModel struct {
	device   Device
	channels []psu.Channel
	interval time.Duration

	keys      keys.WatchKeys
	help      help.Model
	statusBar *components.StatusBar
	readings  *components.Readings
	log       *components.ExchangeLog
	console   *components.Console

	polling  bool
	showHelp bool
	width    int
	height   int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewWatchModel(device Device, opts WatchOptions) *WatchModel {
	if len(opts.Channels) == 0 {
		opts.Channels = []psu.Channel{1}
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	statusBar := components.NewStatusBar(opts.Device)
	statusBar.SetLineInfo(opts.Line)

	return &WatchModel{
		device:    device,
		channels:  opts.Channels,
		interval:  opts.Interval,
		keys:      keys.NewWatchKeys(),
		help:      help.New(),
		statusBar: statusBar,
		readings:  components.NewReadings(opts.Channels),
		log:       components.NewExchangeLog(80, 10),
		console:   components.NewConsole(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *WatchModel) Init() tea.Cmd {
	m.polling = true
	return tea.Batch(m.identify(), m.poll(), m.tick())
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		if m.polling {
			return m, m.tick()
		}
		m.polling = true
		return m, tea.Batch(m.poll(), m.tick())

	case SampleMsg:
		m.polling = false
		for _, r := range msg.Readings {
			m.readings.Set(r)
		}
		m.statusBar.SetOutput(msg.Output)
		m.statusBar.SetPolled(msg.At, msg.Err)
		return m, nil

	case IdentityMsg:
		if msg.Err != nil {
			m.log.AddLine(styles.ErrorStyle.Render(fmt.Sprintf("identify: %v", msg.Err)))
			return m, nil
		}
		m.statusBar.SetIdentity(msg.ID)
		return m, nil

	case ExchangeMsg:
		m.log.Add(components.Exchange(msg))
		if msg.Err != nil && !errors.Is(msg.Err, psu.ErrNoResponse) {
			m.statusBar.SetError(msg.Err)
		}
		// The command may have changed set points or output
		return m, m.pollNow()

	case tea.KeyMsg:
		if m.console.Focused() {
			return m.updateConsole(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m *WatchModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
	case key.Matches(msg, m.keys.ToggleOutput):
		on := m.statusBar.Output() != styles.OutputOn
		return m, m.exec(outputCommand(on), func(ctx context.Context) (psu.Reply, error) {
			return m.device.SetOutput(ctx, on)
		})
	case key.Matches(msg, m.keys.Refresh):
		return m, m.pollNow()
	case key.Matches(msg, m.keys.Clear):
		m.log.Clear()
	case key.Matches(msg, m.keys.Console):
		return m, m.console.Focus()
	}
	return m, nil
}

func (m *WatchModel) updateConsole(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ConsoleQuit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.console.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		command := m.console.Submit()
		if command == "" {
			return m, nil
		}
		return m, m.exec(command, func(ctx context.Context) (psu.Reply, error) {
			return m.device.Exec(ctx, command)
		})
	case key.Matches(msg, m.keys.HistoryUp):
		m.console.HistoryUp()
		return m, nil
	case key.Matches(msg, m.keys.HistoryDown):
		m.console.HistoryDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

func outputCommand(on bool) string {
	if on {
		return "OUT1"
	}
	return "OUT0"
}

func (m *WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollNow starts a poll unless one is already running
func (m *WatchModel) pollNow() tea.Cmd {
	if m.polling {
		return nil
	}
	m.polling = true
	return m.poll()
}

// poll reads the set points and measurements of every channel, then the
// status byte. A failed read leaves its value nil; the first error is
// reported.
func (m *WatchModel) poll() tea.Cmd {
	device := m.device
	channels := m.channels
	parent := m.ctx

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, exchangeTimeout)
		defer cancel()

		sample := SampleMsg{Output: styles.OutputUnknown}
		keep := func(err error) {
			if err != nil && sample.Err == nil {
				sample.Err = err
			}
		}
		read := func(v float64, err error) *float64 {
			keep(err)
			if err != nil {
				return nil
			}
			return &v
		}

		for _, ch := range channels {
			r := components.Reading{Channel: ch}
			r.SetVolts = read(device.Voltage(ctx, ch, false))
			r.OutVolts = read(device.Voltage(ctx, ch, true))
			r.SetAmps = read(device.Current(ctx, ch, false))
			r.OutAmps = read(device.Current(ctx, ch, true))
			r.At = time.Now()
			sample.Readings = append(sample.Readings, r)
		}

		status, err := device.Status(ctx)
		keep(err)
		if err == nil {
			output, err := status.Output()
			keep(err)
			switch {
			case err != nil:
			case output == 1:
				sample.Output = styles.OutputOn
			default:
				sample.Output = styles.OutputOff
			}
		}

		sample.At = time.Now()
		return sample
	}
}

func (m *WatchModel) identify() tea.Cmd {
	device := m.device
	parent := m.ctx

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, exchangeTimeout)
		defer cancel()

		reply, err := device.ID(ctx)
		if err != nil {
			return IdentityMsg{Err: err}
		}
		return IdentityMsg{ID: reply.Text()}
	}
}

func (m *WatchModel) exec(command string, run func(ctx context.Context) (psu.Reply, error)) tea.Cmd {
	parent := m.ctx

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, exchangeTimeout)
		defer cancel()

		reply, err := run(ctx)
		return ExchangeMsg{
			Command: command,
			Reply:   reply,
			Err:     err,
			At:      time.Now(),
		}
	}
}

func (m *WatchModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.statusBar.SetWidth(width)
	m.console.SetWidth(width)
	m.layout()
}

// layout gives the exchange log whatever height the other panes leave
func (m *WatchModel) layout() {
	if m.width == 0 {
		return
	}
	used := lipgloss.Height(m.statusBar.Header()) +
		lipgloss.Height(m.readings.View()) +
		lipgloss.Height(m.console.View()) +
		lipgloss.Height(m.statusBar.View()) +
		lipgloss.Height(m.help.View(m.keys)) + 1
	logHeight := m.height - used
	if logHeight < 3 {
		logHeight = 3
	}
	m.log.SetSize(m.width, logHeight)
}

func (m *WatchModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.Header(),
		m.readings.View(),
		styles.ContentBorderStyle.Width(m.width).Render(m.log.View()),
		m.console.View(),
		m.statusBar.View(),
		m.help.View(m.keys),
	)
}

// Close stops outstanding exchanges
func (m *WatchModel) Close() {
	m.cancel()
}

// Readings exposes the readings table for inspection
func (m *WatchModel) Readings() *components.Readings {
	return m.readings
}

// Log exposes the exchange log for inspection
func (m *WatchModel) Log() *components.ExchangeLog {
	return m.log
}

// StatusBar exposes the status bar for inspection
func (m *WatchModel) StatusBar() *components.StatusBar {
	return m.statusBar
}

// Console exposes the command console for inspection
func (m *WatchModel) Console() *components.Console {
	return m.console
}
