/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/allbin/go-psu"
)

// quantity binds the get and set operations of voltage or current
type quantity struct {
	name string
	unit string
	get  func(d *psu.Dispatcher, ctx context.Context, ch psu.Channel, realtime bool) (float64, error)
	set  func(d *psu.Dispatcher, ctx context.Context, ch psu.Channel, v float64) (psu.Reply, error)
}

var (
	voltageQuantity = quantity{
		name: "Voltage",
		unit: "V",
		get:  (*psu.Dispatcher).Voltage,
		set:  (*psu.Dispatcher).SetVoltage,
	}
	currentQuantity = quantity{
		name: "Current",
		unit: "A",
		get:  (*psu.Dispatcher).Current,
		set:  (*psu.Dispatcher).SetCurrent,
	}
)

func runChannelValue(w io.Writer, q quantity, args []string, realtime bool) error {
	ch, err := parseChannel(args[0])
	if err != nil {
		return err
	}

	var value float64
	if len(args) == 2 {
		if value, err = parseValue(args[1]); err != nil {
			return err
		}
	}

	d, err := loadDispatcher()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	if len(args) == 1 {
		v, err := q.get(d, ctx, ch, realtime)
		if err != nil {
			return err
		}
		kind := "set"
		if realtime {
			kind = "out"
		}
		fmt.Fprintf(w, "%s %d (%s): %s %s\n", q.name, ch, kind, psu.FormatValue(v), q.unit)
		return nil
	}

	reply, err := q.set(d, ctx, ch, value)
	return reportSet(w, fmt.Sprintf("%s %d set to %s %s", q.name, ch, psu.FormatValue(value), q.unit), reply, err)
}
