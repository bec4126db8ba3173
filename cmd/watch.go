/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/allbin/go-psu"
	"github.com/allbin/go-psu/internal/tui/components"
	"github.com/allbin/go-psu/internal/tui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const watchCommandName = "watch"

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   watchCommandName,
	Short: "Live dashboard of set points, readings and output state",
	Long: `Poll the supply at a fixed interval and show the programmed and measured
voltage and current of each channel, the output state and the identity.

A console at the bottom sends raw commands; replies are kept in a scrolling
log. Logging to stderr is disabled while the dashboard runs, use --log-file
to keep a log.

Keys:
  o      toggle output
  r      poll now
  i      command console (enter sends, esc leaves, ↑/↓ history)
  c      clear the log
  ?      help
  q      quit

Examples:
  psuctl watch
  psuctl watch --channels 1,2 --interval 500ms`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := loadSettings()
		exitOnError(err)

		d, err := s.dispatcher()
		exitOnError(err)

		if err := runWatchTUI(d, s.Watch); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("interval", time.Second, "Poll interval")
	watchCmd.Flags().IntSlice("channels", []int{1}, "Channels to show")

	cobra.CheckErr(viper.BindPFlag("watch.interval", watchCmd.Flags().Lookup("interval")))
	cobra.CheckErr(viper.BindPFlag("watch.channels", watchCmd.Flags().Lookup("channels")))
}

func runWatchTUI(d *psu.Dispatcher, ws watchSettings) error {
	channels := make([]psu.Channel, 0, len(ws.Channels))
	for _, ch := range ws.Channels {
		channels = append(channels, psu.Channel(ch))
	}

	config := d.Config()
	m := models.NewWatchModel(models.NewLockedDevice(d), models.WatchOptions{
		Device:   d.Device(),
		Channels: channels,
		Interval: ws.Interval,
		Line: &components.LineInfo{
			BaudRate: config.BaudRate,
			DataBits: config.DataBits,
			StopBits: config.StopBits,
			Parity:   config.Parity.String(),
			Timeout:  config.ReadTimeout,
		},
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
