/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/allbin/go-psu"
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset [--serial <serial>]",
	Short: "USB-reset a power supply that stopped answering",
	Long: `Perform a USB-level reset of the supply. Some supplies stop answering on
their USB CDC port until they are unplugged; a reset recovers them in place.

The supply re-enumerates after the reset, so its device path may change.
Select it by USB serial number to find it regardless of path.

Requirements:
- usbreset utility must be installed (from usbutils package)
- Root/sudo permissions required for USB operations

Examples:
  sudo psuctl reset                      # Reset the configured device
  sudo psuctl reset -d /dev/ttyACM1
  sudo psuctl reset --serial 03379314`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !psu.IsUSBResetAvailable() {
			fmt.Fprintln(os.Stderr, "Error: usbreset utility not available")
			fmt.Fprintln(os.Stderr, "Install with: sudo apt-get install usbutils")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		serialNumber, _ := cmd.Flags().GetString("serial")

		var err error
		if serialNumber != "" {
			fmt.Printf("Resetting supply with serial: %s\n", serialNumber)
			var device string
			device, err = psu.ResetUSBBySerial(ctx, serialNumber)
			if device != "" {
				fmt.Printf("Found at %s\n", device)
			}
		} else {
			s, lerr := loadSettings()
			exitOnError(lerr)
			fmt.Printf("Resetting supply: %s\n", s.Device)
			err = psu.ResetUSB(ctx, s.Device)
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, psu.ErrUSBInfoNotAvailable) {
				fmt.Fprintln(os.Stderr, "This device does not appear to be a USB device")
			}
			os.Exit(1)
		}

		fmt.Println("USB device reset successfully")
		fmt.Println("Device will re-enumerate (port path may change)")
		fmt.Println("\nUse 'psuctl ports --table' to see updated device list")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().String("serial", "", "Select the supply by USB serial number")
}
