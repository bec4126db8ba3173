/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// voltageCmd represents the voltage command
var voltageCmd = &cobra.Command{
	Use:   "voltage <channel> [volts]",
	Short: "Read or program the voltage of a channel",
	Long: `Without a value, print the programmed voltage of the channel (VSET?).
With --realtime, print the measured output voltage instead (VOUT?).
With a value, program the voltage (VSET<ch>:<volts>).

Examples:
  psuctl voltage 1
  psuctl voltage 1 --realtime
  psuctl voltage 1 12.5`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		realtime, _ := cmd.Flags().GetBool("realtime")
		exitOnError(runChannelValue(cmd.OutOrStdout(), voltageQuantity, args, realtime))
	},
}

func init() {
	rootCmd.AddCommand(voltageCmd)

	voltageCmd.Flags().BoolP("realtime", "r", false, "Read the measured voltage instead of the programmed one")
}
