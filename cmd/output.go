/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// outputCmd represents the output command
var outputCmd = &cobra.Command{
	Use:   "output [on|off]",
	Short: "Read or switch the output",
	Long: `Without an argument, print whether the output is enabled (read from the
status byte). With an argument, send OUT1 or OUT0.

Examples:
  psuctl output
  psuctl output on
  psuctl output off

Valid states: on, off, true, false, 1, 0`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d := mustDispatcher()
		ctx, cancel := commandContext()
		defer cancel()

		if len(args) == 0 {
			output, err := d.Output(ctx)
			exitOnError(err)
			fmt.Printf("Output is %s on %s\n", formatState(output == 1), d.Device())
			return
		}

		state, err := parseState(args[0])
		exitOnError(err)

		reply, err := d.SetOutput(ctx, state)
		exitOnError(reportSet(os.Stdout, fmt.Sprintf("Output set to %s on %s", formatState(state), d.Device()), reply, err))
	},
}

func init() {
	rootCmd.AddCommand(outputCmd)
}
