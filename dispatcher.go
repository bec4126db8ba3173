package psu

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// maxLineLength bounds a reply when the device never sends a newline.
const maxLineLength = 256

// Dispatcher sends typed commands to one power supply. Every call opens the
// device, performs one write and one line read, and closes it again; no
// state is kept between calls.
//
// A Dispatcher is not safe for concurrent use against the same device.
// Callers must serialize access themselves.
type Dispatcher struct {
	device string
	config Config
	log    *zap.Logger
}

// New creates a dispatcher for the device at the given path
func New(device string, opts ...Option) (*Dispatcher, error) {
	if device == "" {
		return nil, fmt.Errorf("%w: empty device path", ErrInvalidConfig)
	}

	config, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		device: device,
		config: config,
		log:    config.Logger.With(zap.String("device", device)),
	}, nil
}

// Device returns the device path commands are sent to
func (d *Dispatcher) Device() string {
	return d.device
}

// Config returns the line settings in use
func (d *Dispatcher) Config() Config {
	return d.config
}

// send runs one exchange. Transport failures are logged and returned as a
// *SendError; an empty read returns ErrNoResponse.
func (d *Dispatcher) send(ctx context.Context, command Command) (Reply, error) {
	log := d.log.With(zap.String("command", string(command)))

	p, err := d.config.Opener(d.device, d.config)
	if err != nil {
		return Reply{}, d.fail(log, command, "open", err)
	}
	defer p.Close()

	// Drop bytes left over from an earlier exchange that timed out
	if err := p.FlushInput(); err != nil {
		log.Debug("flush input failed", zap.Error(err))
	}

	if _, err := p.WriteContext(ctx, command.Bytes()); err != nil {
		return Reply{}, d.fail(log, command, "write", err)
	}

	line, err := readLine(ctx, p, d.config.ReadTimeout)
	if err != nil {
		return Reply{}, d.fail(log, command, "read", err)
	}

	reply, ok := Decode(line)
	if !ok {
		log.Debug("no reply")
		return Reply{}, ErrNoResponse
	}

	log.Debug("reply",
		zap.Binary("raw", reply.Raw),
		zap.Stringer("kind", reply.Kind),
		zap.Stringer("value", reply),
	)
	return reply, nil
}

func (d *Dispatcher) fail(log *zap.Logger, command Command, op string, err error) error {
	log.Warn("psu send failed", zap.String("op", op), zap.Error(err))
	return &SendError{Device: d.device, Command: command, Op: op, Err: err}
}

// readLine collects bytes up to and including a newline. It stops early when
// a read returns nothing within VTIME, when timeout has passed since the
// first read, or at maxLineLength.
func readLine(ctx context.Context, p Port, timeout time.Duration) ([]byte, error) {
	var line []byte
	buf := make([]byte, 64)
	deadline := time.Now().Add(timeout)

	for {
		n, err := p.ReadContext(ctx, buf)
		if n > 0 {
			line = append(line, buf[:n]...)
		}
		if err != nil {
			return nil, err
		}

		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			return line[:i+1], nil
		}
		if n == 0 || len(line) >= maxLineLength || !time.Now().Before(deadline) {
			return line, nil
		}
	}
}

// Exec sends a verbatim command and decodes the reply
func (d *Dispatcher) Exec(ctx context.Context, command string) (Reply, error) {
	return d.send(ctx, Command(command))
}

// Status reads the status byte
func (d *Dispatcher) Status(ctx context.Context) (Status, error) {
	reply, err := d.send(ctx, statusCommand())
	if err != nil {
		return Status{}, err
	}
	return Status{Reply: reply}, nil
}

// Output reports whether the output is enabled (1) or not (0), derived from
// the status bits. A failed status read is returned as the error.
func (d *Dispatcher) Output(ctx context.Context) (int, error) {
	status, err := d.Status(ctx)
	if err != nil {
		return 0, err
	}
	return status.Output()
}

// Current returns the programmed current of ch in amps, or the measured
// current when realtime is set.
func (d *Dispatcher) Current(ctx context.Context, ch Channel, realtime bool) (float64, error) {
	return d.number(ctx, currentCommand(ch, realtime))
}

// SetCurrent programs the current limit of ch
func (d *Dispatcher) SetCurrent(ctx context.Context, ch Channel, amps float64) (Reply, error) {
	return d.send(ctx, setCurrentCommand(ch, amps))
}

// Voltage returns the programmed voltage of ch in volts, or the measured
// voltage when realtime is set.
func (d *Dispatcher) Voltage(ctx context.Context, ch Channel, realtime bool) (float64, error) {
	return d.number(ctx, voltageCommand(ch, realtime))
}

// SetVoltage programs the voltage of ch
func (d *Dispatcher) SetVoltage(ctx context.Context, ch Channel, volts float64) (Reply, error) {
	return d.send(ctx, setVoltageCommand(ch, volts))
}

// SetMode selects normal, serial or parallel tracking
func (d *Dispatcher) SetMode(ctx context.Context, mode Mode) (Reply, error) {
	return d.send(ctx, trackCommand(mode))
}

// SetOCP enables or disables over-current protection
func (d *Dispatcher) SetOCP(ctx context.Context, on bool) (Reply, error) {
	return d.send(ctx, ocpCommand(on))
}

// SetOutput switches the output on or off
func (d *Dispatcher) SetOutput(ctx context.Context, on bool) (Reply, error) {
	return d.send(ctx, outputCommand(on))
}

// ID queries the identity string. The reply goes through the usual
// decoding; use Reply.Text for the readable form.
func (d *Dispatcher) ID(ctx context.Context) (Reply, error) {
	return d.send(ctx, identityCommand())
}

func (d *Dispatcher) number(ctx context.Context, command Command) (float64, error) {
	reply, err := d.send(ctx, command)
	if err != nil {
		return 0, err
	}
	v, ok := reply.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %s -> %s", ErrNotNumeric, command, reply)
	}
	return v, nil
}
