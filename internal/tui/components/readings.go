package components

import (
	"fmt"
	"time"

	"github.com/allbin/go-psu"
	"github.com/allbin/go-psu/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

const (
	columnChannel = "channel"
	columnSetV    = "setv"
	columnOutV    = "outv"
	columnSetI    = "seti"
	columnOutI    = "outi"
	columnPower   = "power"
)

// missing is shown for a value the last poll could not read
const missing = "—"

// Reading is one poll of a channel. Nil fields could not be read.
type Reading struct {
	Channel  psu.Channel
	SetVolts *float64
	OutVolts *float64
	SetAmps  *float64
	OutAmps  *float64
	Err      error
	At       time.Time
}

// Power is the measured output power, when both measurements are known
func (r Reading) Power() (float64, bool) {
	if r.OutVolts == nil || r.OutAmps == nil {
		return 0, false
	}
	return *r.OutVolts * *r.OutAmps, true
}

// Readings renders the per-channel measurements as a table
type Readings struct {
	table    table.Model
	readings map[psu.Channel]Reading
	order    []psu.Channel
}

func NewReadings(channels []psu.Channel) *Readings {
	columns := []table.Column{
		table.NewColumn(columnChannel, "CH", 4),
		table.NewColumn(columnSetV, "Set V", 10),
		table.NewColumn(columnOutV, "Out V", 10),
		table.NewColumn(columnSetI, "Set I", 10),
		table.NewColumn(columnOutI, "Out I", 10),
		table.NewColumn(columnPower, "Power W", 10),
	}

	r := &Readings{
		readings: make(map[psu.Channel]Reading, len(channels)),
		order:    channels,
	}
	r.table = table.New(columns).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(styles.Text).
			BorderForeground(styles.Surface2).
			Align(lipgloss.Right)).
		HeaderStyle(lipgloss.NewStyle().Foreground(styles.Mauve).Bold(true)).
		Focused(false)
	r.refresh()
	return r
}

// Set stores the latest reading of a channel
func (r *Readings) Set(reading Reading) {
	r.readings[reading.Channel] = reading
	r.refresh()
}

// Rows returns the rendered cell values, in channel order
func (r *Readings) Rows() [][]string {
	rows := make([][]string, 0, len(r.order))
	for _, ch := range r.order {
		reading := r.readings[ch]
		reading.Channel = ch
		power := missing
		if p, ok := reading.Power(); ok {
			power = fmt.Sprintf("%.3f", p)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", ch),
			formatReading(reading.SetVolts),
			formatReading(reading.OutVolts),
			formatReading(reading.SetAmps),
			formatReading(reading.OutAmps),
			power,
		})
	}
	return rows
}

func (r *Readings) refresh() {
	keys := []string{columnChannel, columnSetV, columnOutV, columnSetI, columnOutI, columnPower}

	var rows []table.Row
	for _, cells := range r.Rows() {
		data := table.RowData{}
		for i, key := range keys {
			data[key] = cells[i]
		}
		rows = append(rows, table.NewRow(data))
	}
	r.table = r.table.WithRows(rows)
}

func formatReading(v *float64) string {
	if v == nil {
		return missing
	}
	return psu.FormatValue(*v)
}

func (r *Readings) View() string {
	return r.table.View()
}
