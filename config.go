package psu

import (
	"time"

	"go.uber.org/zap"
)

// DefaultDevice is the device node a USB CDC power supply usually shows up as.
const DefaultDevice = "/dev/ttyACM0"

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	default:
		return "N"
	}
}

// OpenFunc opens the transport for a single exchange.
type OpenFunc func(device string, config Config) (Port, error)

// Config holds the serial line settings and the dispatcher collaborators
type Config struct {
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      Parity
	ReadTimeout time.Duration // VTIME, 100ms granularity

	Logger *zap.Logger
	Opener OpenFunc
}

// Option is a functional option for configuring a port or dispatcher
type Option func(*Config) error

// DefaultConfig returns the line settings the supply ships with: 9600 8N1,
// no flow control, 100ms read timeout.
func DefaultConfig() Config {
	return Config{
		BaudRate:    9600,
		DataBits:    8,
		StopBits:    1,
		Parity:      ParityNone,
		ReadTimeout: 100 * time.Millisecond,
		Logger:      zap.NewNop(),
		Opener:      openPort,
	}
}

func applyOptions(opts []Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if _, err := getBaudRate(rate); err != nil {
			return err
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if parity < ParityNone || parity > ParityEven {
			return ErrInvalidConfig
		}
		c.Parity = parity
		return nil
	}
}

// WithReadTimeout sets how long a read waits for the device. The termios
// VTIME field counts tenths of a second, so the timeout must be a multiple
// of 100ms no larger than 25.5s.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 || timeout > 25500*time.Millisecond || timeout%(100*time.Millisecond) != 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithLogger sets the logger used for exchange diagnostics. A nil logger
// disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.Logger = logger
		return nil
	}
}

// WithOpener replaces the function used to open the device for each
// exchange.
func WithOpener(open OpenFunc) Option {
	return func(c *Config) error {
		if open == nil {
			return ErrInvalidConfig
		}
		c.Opener = open
		return nil
	}
}

func (c Config) vtime() uint8 {
	return uint8(c.ReadTimeout / (100 * time.Millisecond))
}
