/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// modeCmd represents the mode command
var modeCmd = &cobra.Command{
	Use:   "mode <normal|serial|parallel>",
	Short: "Set the channel tracking mode",
	Long: `Set how the channels of a dual-output supply are combined (TRACK command).

  normal   (0) channels are independent
  serial   (1) channels in series
  parallel (2) channels in parallel

Numbers are passed through unchecked, so modes a particular supply adds can
be used as well.

Examples:
  psuctl mode normal
  psuctl mode 2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mode, err := parseMode(args[0])
		exitOnError(err)

		d := mustDispatcher()
		ctx, cancel := commandContext()
		defer cancel()

		reply, err := d.SetMode(ctx, mode)
		exitOnError(reportSet(os.Stdout, fmt.Sprintf("Mode set to %s", mode), reply, err))
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}
