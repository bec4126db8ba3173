/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ocpCmd represents the ocp command
var ocpCmd = &cobra.Command{
	Use:   "ocp <on|off>",
	Short: "Enable or disable over-current protection",
	Long: `Switch over-current protection (OCP). With OCP enabled the supply turns
its output off when the current limit is reached.

Examples:
  psuctl ocp on
  psuctl ocp off`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state, err := parseState(args[0])
		exitOnError(err)

		d := mustDispatcher()
		ctx, cancel := commandContext()
		defer cancel()

		reply, err := d.SetOCP(ctx, state)
		exitOnError(reportSet(os.Stdout, fmt.Sprintf("OCP set to %s", formatState(state)), reply, err))
	},
}

func init() {
	rootCmd.AddCommand(ocpCmd)
}
