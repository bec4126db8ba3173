/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/allbin/go-psu"
	"github.com/allbin/go-psu/internal/logging"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// settings is the resolved configuration of one psuctl invocation
type settings struct {
	Device   string        `mapstructure:"device"`
	Baud     int           `mapstructure:"baud"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLevel string        `mapstructure:"log-level"`
	LogFile  string        `mapstructure:"log-file"`
	Watch    watchSettings `mapstructure:"watch"`
}

type watchSettings struct {
	Interval time.Duration `mapstructure:"interval"`
	Channels []int         `mapstructure:"channels"`
}

func loadSettings() (settings, error) {
	return decodeSettings(viper.GetViper())
}

func decodeSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if s.Device == "" {
		s.Device = psu.DefaultDevice
	}
	if s.Watch.Interval <= 0 {
		s.Watch.Interval = time.Second
	}
	if len(s.Watch.Channels) == 0 {
		s.Watch.Channels = []int{1}
	}
	return s, nil
}

// newLogger writes to stderr unless console output would disturb a TUI.
func newLogger(s settings, console bool) (*zap.Logger, error) {
	opts := logging.DefaultOptions()
	opts.Level = s.LogLevel
	opts.File = s.LogFile
	if !console {
		opts.Console = nil
	}
	return logging.New(opts)
}

func (s settings) dispatcher() (*psu.Dispatcher, error) {
	return psu.New(s.Device,
		psu.WithBaudRate(s.Baud),
		psu.WithReadTimeout(s.Timeout),
		psu.WithLogger(logger),
	)
}

func loadDispatcher() (*psu.Dispatcher, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return s.dispatcher()
}

// mustDispatcher builds the dispatcher or exits
func mustDispatcher() *psu.Dispatcher {
	d, err := loadDispatcher()
	exitOnError(err)
	return d
}
