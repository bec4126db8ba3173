/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// idCmd represents the id command
var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Display the identity of the power supply",
	Long: `Query *IDN? and print the identity string the supply reports. With
--decoded the reply is also shown the way the driver decodes it.

Example usage:
  psuctl id
  psuctl id --decoded`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		d := mustDispatcher()
		ctx, cancel := commandContext()
		defer cancel()

		reply, err := d.ID(ctx)
		exitOnError(err)

		fmt.Printf("Identity: %s\n", reply.Text())
		if decoded, _ := cmd.Flags().GetBool("decoded"); decoded {
			fmt.Printf("Decoded:  %s\n", reply)
		}
	},
}

func init() {
	rootCmd.AddCommand(idCmd)

	idCmd.Flags().Bool("decoded", false, "Also print the decoded reply")
}
