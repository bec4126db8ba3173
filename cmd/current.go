/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// currentCmd represents the current command
var currentCmd = &cobra.Command{
	Use:   "current <channel> [amps]",
	Short: "Read or program the current limit of a channel",
	Long: `Without a value, print the programmed current limit of the channel (ISET?).
With --realtime, print the measured output current instead (IOUT?).
With a value, program the limit (ISET<ch>:<amps>).

Examples:
  psuctl current 1
  psuctl current 2 -r
  psuctl current 1 0.5`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		realtime, _ := cmd.Flags().GetBool("realtime")
		exitOnError(runChannelValue(cmd.OutOrStdout(), currentQuantity, args, realtime))
	},
}

func init() {
	rootCmd.AddCommand(currentCmd)

	currentCmd.Flags().BoolP("realtime", "r", false, "Read the measured current instead of the programmed one")
}
