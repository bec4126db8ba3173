package psu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakePort records writes and replays scripted read chunks. Once the
// script is exhausted, reads return nothing, like an expired VTIME.
type fakePort struct {
	written  bytes.Buffer
	reads    [][]byte
	readErr  error
	writeErr error
	flushed  bool
	closed   bool
}

func (f *fakePort) Close() error {
	if f.closed {
		return ErrPortClosed
	}
	f.closed = true
	return nil
}

func (f *fakePort) Read(buf []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.reads) == 0 {
		return 0, nil
	}
	n := copy(buf, f.reads[0])
	if n < len(f.reads[0]) {
		f.reads[0] = f.reads[0][n:]
	} else {
		f.reads = f.reads[1:]
	}
	return n, nil
}

func (f *fakePort) Write(data []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.written.Write(data)
}

func (f *fakePort) ReadContext(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.Read(buf)
}

func (f *fakePort) WriteContext(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.Write(data)
}

func (f *fakePort) Drain() error { return nil }

func (f *fakePort) FlushInput() error {
	f.flushed = true
	return nil
}

// newTestDispatcher returns a dispatcher whose every exchange uses p.
func newTestDispatcher(t *testing.T, p *fakePort, opts ...Option) *Dispatcher {
	t.Helper()

	opener := func(device string, config Config) (Port, error) {
		if device != "/dev/ttyFAKE0" {
			t.Errorf("opened %q, want /dev/ttyFAKE0", device)
		}
		return p, nil
	}

	d, err := New("/dev/ttyFAKE0", append([]Option{WithOpener(opener)}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d
}

func TestNewRejectsEmptyDevice(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewRejectsInvalidOption(t *testing.T) {
	if _, err := New("/dev/ttyACM0", WithBaudRate(42)); err != ErrInvalidBaudRate {
		t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
	}
}

func TestReadOperationsSendExactCommands(t *testing.T) {
	tests := []struct {
		name     string
		call     func(context.Context, *Dispatcher) (float64, error)
		expected string
	}{
		{"set current", func(ctx context.Context, d *Dispatcher) (float64, error) { return d.Current(ctx, 1, false) }, "ISET1?\r"},
		{"live current", func(ctx context.Context, d *Dispatcher) (float64, error) { return d.Current(ctx, 2, true) }, "IOUT2?\r"},
		{"set voltage", func(ctx context.Context, d *Dispatcher) (float64, error) { return d.Voltage(ctx, 2, false) }, "VSET2?\r"},
		{"live voltage", func(ctx context.Context, d *Dispatcher) (float64, error) { return d.Voltage(ctx, 1, true) }, "VOUT1?\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePort{reads: [][]byte{[]byte("3.30\r\n")}}
			d := newTestDispatcher(t, p)

			v, err := tt.call(context.Background(), d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != 3.3 {
				t.Errorf("value = %v, want 3.3", v)
			}
			if p.written.String() != tt.expected {
				t.Errorf("wrote %q, want %q", p.written.String(), tt.expected)
			}
			if !p.closed {
				t.Error("port was not closed")
			}
			if !p.flushed {
				t.Error("input was not flushed before writing")
			}
		})
	}
}

func TestSetOperationsSendExactCommands(t *testing.T) {
	tests := []struct {
		name     string
		call     func(context.Context, *Dispatcher) (Reply, error)
		expected string
	}{
		{"mode parallel", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.SetMode(ctx, ModeParallel) }, "TRACK2\r"},
		{"output on", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.SetOutput(ctx, true) }, "OUT1\r"},
		{"output off", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.SetOutput(ctx, false) }, "OUT0\r"},
		{"ocp on", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.SetOCP(ctx, true) }, "OCP1\r"},
		{"ocp off", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.SetOCP(ctx, false) }, "OCP0\r"},
		{"voltage", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.SetVoltage(ctx, 1, 12.5) }, "VSET1:12.5\r"},
		{"current", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.SetCurrent(ctx, 2, 1) }, "ISET2:1.0\r"},
		{"identity", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.ID(ctx) }, "*IDN?\r"},
		{"raw", func(ctx context.Context, d *Dispatcher) (Reply, error) { return d.Exec(ctx, "BEEP1") }, "BEEP1\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePort{}
			d := newTestDispatcher(t, p)

			_, err := tt.call(context.Background(), d)
			if err != ErrNoResponse {
				t.Errorf("Expected ErrNoResponse for a silent device, got %v", err)
			}
			if p.written.String() != tt.expected {
				t.Errorf("wrote %q, want %q", p.written.String(), tt.expected)
			}
			if !p.closed {
				t.Error("port was not closed")
			}
		})
	}
}

func TestSetOperationEcho(t *testing.T) {
	p := &fakePort{reads: [][]byte{[]byte("12.50")}}
	d := newTestDispatcher(t, p)

	reply, err := d.SetVoltage(context.Background(), 1, 12.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := reply.Float(); !ok || v != 12.5 {
		t.Errorf("echo = %v, %v, want 12.5", v, ok)
	}
}

func TestStatusAndOutput(t *testing.T) {
	p := &fakePort{reads: [][]byte{{0b10100000}}}
	d := newTestDispatcher(t, p)

	status, err := d.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Bits() != "10100000" {
		t.Errorf("Bits() = %q, want 10100000", status.Bits())
	}
	if p.written.String() != "STATUS?\r" {
		t.Errorf("wrote %q, want STATUS?\\r", p.written.String())
	}

	p2 := &fakePort{reads: [][]byte{{0b10100000}}}
	output, err := newTestDispatcher(t, p2).Output(context.Background())
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if output != 0 {
		t.Errorf("Output() = %d, want 0", output)
	}

	p3 := &fakePort{reads: [][]byte{{0b01010001}}}
	output, err = newTestDispatcher(t, p3).Output(context.Background())
	if err != nil || output != 1 {
		t.Errorf("Output() = %d, %v, want 1", output, err)
	}
}

func TestOutputPropagatesMissingStatus(t *testing.T) {
	p := &fakePort{}
	d := newTestDispatcher(t, p)

	_, err := d.Output(context.Background())
	if err != ErrNoResponse {
		t.Errorf("Expected ErrNoResponse, got %v", err)
	}
}

func TestReadOperationNonNumericReply(t *testing.T) {
	p := &fakePort{reads: [][]byte{[]byte("ERR")}}
	d := newTestDispatcher(t, p)

	_, err := d.Voltage(context.Background(), 1, false)
	if !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Expected ErrNotNumeric, got %v", err)
	}
}

func TestIdentityReply(t *testing.T) {
	p := &fakePort{reads: [][]byte{[]byte("KORAD KA3005P"), []byte(" V5.8\n"), []byte("junk")}}
	d := newTestDispatcher(t, p)

	reply, err := d.ID(context.Background())
	if err != nil {
		t.Fatalf("ID failed: %v", err)
	}
	if reply.Text() != "KORAD KA3005P V5.8" {
		t.Errorf("Text() = %q", reply.Text())
	}
	if reply.Kind != KindBits {
		t.Errorf("Kind = %v, want bits", reply.Kind)
	}
}

func TestTransportFailures(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		opener := func(string, Config) (Port, error) {
			return nil, ErrDeviceNotFound
		}
		d, err := New("/dev/ttyFAKE0", WithOpener(opener))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		_, err = d.Status(context.Background())
		var sendErr *SendError
		if !errors.As(err, &sendErr) || sendErr.Op != "open" {
			t.Fatalf("Expected open *SendError, got %v", err)
		}
		if !errors.Is(err, ErrDeviceNotFound) {
			t.Errorf("Expected ErrDeviceNotFound in chain, got %v", err)
		}
		if sendErr.Command != "STATUS?" {
			t.Errorf("Command = %q, want STATUS?", sendErr.Command)
		}
	})

	t.Run("write", func(t *testing.T) {
		p := &fakePort{writeErr: io.ErrClosedPipe}
		_, err := newTestDispatcher(t, p).SetOutput(context.Background(), true)
		if !errors.Is(err, io.ErrClosedPipe) {
			t.Errorf("Expected io.ErrClosedPipe, got %v", err)
		}
		if !p.closed {
			t.Error("port was not closed after a write failure")
		}
	})

	t.Run("read", func(t *testing.T) {
		p := &fakePort{readErr: io.ErrUnexpectedEOF}
		_, err := newTestDispatcher(t, p).Voltage(context.Background(), 1, true)
		var sendErr *SendError
		if !errors.As(err, &sendErr) || sendErr.Op != "read" {
			t.Errorf("Expected read *SendError, got %v", err)
		}
		if !p.closed {
			t.Error("port was not closed after a read failure")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := &fakePort{}
		_, err := newTestDispatcher(t, p).ID(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestTransportFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	opener := func(string, Config) (Port, error) {
		return nil, ErrPermissionDenied
	}

	d, err := New("/dev/ttyFAKE0", WithOpener(opener), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	d.SetOutput(context.Background(), false)

	entries := logs.FilterMessage("psu send failed").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["command"] != "OUT0" || fields["device"] != "/dev/ttyFAKE0" || fields["op"] != "open" {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name     string
		reads    [][]byte
		expected string
	}{
		{"single chunk", [][]byte{[]byte("1.00\r\n")}, "1.00\r\n"},
		{"split chunks", [][]byte{[]byte("1."), []byte("00\r"), []byte("\n")}, "1.00\r\n"},
		{"stops at newline", [][]byte{[]byte("1\n2\n")}, "1\n"},
		{"no terminator", [][]byte{[]byte("30.00")}, "30.00"},
		{"nothing", nil, ""},
		{"caps length", [][]byte{bytes.Repeat([]byte("x"), 64), bytes.Repeat([]byte("x"), 64), bytes.Repeat([]byte("x"), 64), bytes.Repeat([]byte("x"), 64), []byte("y")}, string(bytes.Repeat([]byte("x"), 256))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePort{reads: tt.reads}
			line, err := readLine(context.Background(), p, time.Second)
			if err != nil {
				t.Fatalf("readLine failed: %v", err)
			}
			if string(line) != tt.expected {
				t.Errorf("readLine = %q, want %q", line, tt.expected)
			}
		})
	}
}

func TestReadLineDeadlineTruncates(t *testing.T) {
	p := &fakePort{reads: [][]byte{[]byte("1."), []byte("00\r\n")}}

	line, err := readLine(context.Background(), p, 0)
	if err != nil {
		t.Fatalf("readLine failed: %v", err)
	}
	if string(line) != "1." {
		t.Errorf("readLine = %q, want the part read before the deadline", line)
	}
	if len(p.reads) != 1 {
		t.Errorf("tail should stay unread, %d chunks left", len(p.reads))
	}
}
