/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the status byte of the power supply",
	Long: `Query STATUS? and print the status bits, most significant bit first,
together with the output state derived from them.

Examples:
  psuctl status
  psuctl status -d /dev/ttyUSB0`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		d := mustDispatcher()
		ctx, cancel := commandContext()
		defer cancel()

		status, err := d.Status(ctx)
		exitOnError(err)

		output, err := status.Output()
		exitOnError(err)

		fmt.Printf("Status of %s:\n\n", d.Device())
		fmt.Printf("  Bits:   %s\n", status.Bits())
		fmt.Printf("  Raw:    % X\n", status.Raw)
		fmt.Printf("  Output: %s\n", formatState(output == 1))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
