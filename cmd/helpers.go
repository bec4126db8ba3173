/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/allbin/go-psu"
)

// commandTimeout bounds a single CLI exchange well above the read timeout
const commandTimeout = 5 * time.Second

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func parseState(state string) (bool, error) {
	switch strings.ToLower(state) {
	case "on", "true", "1", "enable":
		return true, nil
	case "off", "false", "0", "disable":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state: %s (valid: on, off, true, false, 1, 0)", state)
	}
}

func formatState(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// parseChannel accepts any integer; the supply decides what it means
func parseChannel(arg string) (psu.Channel, error) {
	ch, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid channel: %s", arg)
	}
	return psu.Channel(ch), nil
}

func parseMode(arg string) (psu.Mode, error) {
	switch strings.ToLower(arg) {
	case "normal", "independent":
		return psu.ModeNormal, nil
	case "serial", "series":
		return psu.ModeSerial, nil
	case "parallel":
		return psu.ModeParallel, nil
	}

	mode, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid mode: %s (valid: normal, serial, parallel, 0, 1, 2)", arg)
	}
	return psu.Mode(mode), nil
}

func parseValue(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value: %s", arg)
	}
	return v, nil
}

// reportSet prints the outcome of a set command. Supplies rarely answer
// set commands, so a missing reply is not an error.
func reportSet(w io.Writer, what string, reply psu.Reply, err error) error {
	switch {
	case errors.Is(err, psu.ErrNoResponse):
		fmt.Fprintf(w, "%s (no reply)\n", what)
		return nil
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "%s (reply: %s)\n", what, reply)
		return nil
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
