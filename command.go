package psu

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Command is a single ASCII instruction, without the trailing carriage return.
type Command string

// Terminator ends every command on the wire.
const Terminator = '\r'

// Bytes returns the command as sent on the line.
func (c Command) Bytes() []byte {
	return append([]byte(c), Terminator)
}

// Channel selects an output of the supply. It is not validated: whatever
// the caller passes is written into the command.
type Channel int

// Mode is the tracking mode of a dual-channel supply.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSerial
	ModeParallel
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSerial:
		return "serial"
	case ModeParallel:
		return "parallel"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func statusCommand() Command {
	return "STATUS?"
}

func identityCommand() Command {
	return "*IDN?"
}

// currentCommand asks for the programmed current, or the measured one when
// realtime is set.
func currentCommand(ch Channel, realtime bool) Command {
	return Command(fmt.Sprintf("I%s%d?", readingSource(realtime), ch))
}

func voltageCommand(ch Channel, realtime bool) Command {
	return Command(fmt.Sprintf("V%s%d?", readingSource(realtime), ch))
}

func setCurrentCommand(ch Channel, amps float64) Command {
	return Command(fmt.Sprintf("ISET%d:%s", ch, FormatValue(amps)))
}

func setVoltageCommand(ch Channel, volts float64) Command {
	return Command(fmt.Sprintf("VSET%d:%s", ch, FormatValue(volts)))
}

func trackCommand(mode Mode) Command {
	return Command(fmt.Sprintf("TRACK%d", int(mode)))
}

func ocpCommand(on bool) Command {
	return Command("OCP" + flag(on))
}

func outputCommand(on bool) Command {
	return Command("OUT" + flag(on))
}

func readingSource(realtime bool) string {
	if realtime {
		return "OUT"
	}
	return "SET"
}

func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// FormatValue renders v in its shortest round-trip decimal form. Integral
// values keep a ".0" and exponents are used below 1e-4 and from 1e16 up,
// e.g. 5 -> "5.0", 0.25 -> "0.25", 1e-05 -> "1e-05".
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if v == 0 {
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
