/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/allbin/go-psu"
	"github.com/spf13/cobra"
)

// rawCmd represents the raw command
var rawCmd = &cobra.Command{
	Use:   "raw <command>",
	Short: "Send a verbatim command and print the decoded reply",
	Long: `Send any command to the supply. The carriage return is added for you.

Useful for commands psuctl has no subcommand for, such as BEEP1, LOCK0,
RCL1 or SAV1 on supplies that implement them.

Examples:
  psuctl raw "VOUT1?"
  psuctl raw BEEP0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d := mustDispatcher()
		ctx, cancel := commandContext()
		defer cancel()

		reply, err := d.Exec(ctx, args[0])
		if errors.Is(err, psu.ErrNoResponse) {
			fmt.Println("(no reply)")
			return
		}
		exitOnError(err)

		fmt.Printf("%s\n", reply)
		fmt.Printf("  kind: %s  raw: % X\n", reply.Kind, reply.Raw)
	},
}

func init() {
	rootCmd.AddCommand(rawCmd)
}
