// Package serial provides a serial port, which provides the io.ReadWriter
// interface, that provides the connection between the at package and the
// physical modem.
package serial

import (
	"time"

	"github.com/tarm/serial"
)

// Config holds the serial port parameters assembled by New from its
// defaults and any Options.
type Config struct {
	port    string
	baud    int
	timeout time.Duration
}

// Option modifies a Config applied by New.
type Option func(*Config)

// WithPort overrides the default port path (e.g. "/dev/ttyUSB0").
func WithPort(port string) Option {
	return func(cfg *Config) { cfg.port = port }
}

// WithBaud overrides the default baud rate.
func WithBaud(baud int) Option {
	return func(cfg *Config) { cfg.baud = baud }
}

// WithReadTimeout sets a read deadline on the port; zero (the default)
// blocks forever, matching the half-duplex, request-driven nature of the
// AT protocol.
func WithReadTimeout(d time.Duration) Option {
	return func(cfg *Config) { cfg.timeout = d }
}

// New opens the serial port described by defaultConfig (platform specific)
// and any Options, and wraps it as an io.ReadWriter.
func New(opts ...Option) (*serial.Port, error) {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	sc := &serial.Config{Name: cfg.port, Baud: cfg.baud, ReadTimeout: cfg.timeout}
	return serial.OpenPort(sc)
}
