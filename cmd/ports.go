/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/allbin/go-psu"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// portsCmd represents the ports command
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports a power supply may be attached to",
	Long: `List the serial devices on this system a supply could be connected to:
- USB CDC/ACM devices (ttyACM*), how most supplies enumerate
- USB serial adapters (ttyUSB*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)

With --table the USB vendor and product IDs are shown, which helps picking
out the supply among other adapters.

Examples:
  psuctl ports
  psuctl ports --filter usb --table`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := psu.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filtered := filterPorts(ports, filterType)
		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			renderTable(filtered)
		} else {
			for _, port := range filtered {
				fmt.Println(port)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)

	portsCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	portsCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// portKind classifies a port name for filtering
func portKind(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"), strings.HasPrefix(name, "ttyacm"):
		return "usb"
	case strings.HasPrefix(name, "ttyama"):
		return "arm"
	case strings.HasPrefix(name, "ttys"):
		return "standard"
	default:
		return ""
	}
}

func filterPorts(ports []string, filterType string) []string {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []string
	for _, port := range ports {
		if portKind(portName(port)) == filterType {
			filtered = append(filtered, port)
		}
	}
	return filtered
}

func portName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// renderTable renders the port list in a styled static table format
func renderTable(ports []string) {
	fmt.Printf("Found %d serial port(s):\n\n", len(ports))

	portWidth := 15
	usbWidth := 11
	descWidth := 24

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240")).
		PaddingBottom(1)

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s %s",
		portWidth, "Port",
		usbWidth, "VID:PID",
		descWidth, "Description",
		"Product")
	fmt.Println(headerStyle.Render(header))

	for _, port := range ports {
		info, err := psu.GetPortInfo(port)
		if err != nil {
			row := fmt.Sprintf("%-*s %-*s %-*s",
				portWidth, port,
				usbWidth, "-",
				descWidth, fmt.Sprintf("Error: %v", err))
			fmt.Println(cellStyle.Render(row))
			continue
		}

		fmt.Println(cellStyle.Render(formatPortRow(info, portWidth, usbWidth, descWidth)))
	}
}

func formatPortRow(info *psu.PortInfo, portWidth, usbWidth, descWidth int) string {
	usb := "-"
	product := ""
	if info.IsUSB() {
		usb = info.VendorID + ":" + info.ProductID
		product = strings.TrimSpace(info.Manufacturer + " " + info.Product)
	}
	return fmt.Sprintf("%-*s %-*s %-*s %s",
		portWidth, info.Name,
		usbWidth, usb,
		descWidth, info.Description,
		product)
}
