package programmer

import (
	"io"

	"github.com/moffa90/go-eeprom/engine"
	"github.com/moffa90/go-eeprom/protocol"
)

// Logger is the logging interface shared with the engine.
type Logger = engine.Logger

// Config holds the session configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// Diagnostics receives the text diagnostic lines. Defaults to the port.
	Diagnostics io.Writer

	// WriteProtection wraps every write in an unlock and lock sequence
	WriteProtection bool

	// InputBufferCapacity is the size of the queue filled during page polls
	InputBufferCapacity int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		WriteProtection:     true,
		InputBufferCapacity: protocol.InputBufferCapacity,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithLogger sets a logger for the session.
//
// Example:
//
//	s := programmer.NewSession(eng, port, programmer.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDiagnostics sends diagnostic lines to w instead of the port.
//
// Example:
//
//	s := programmer.NewSession(eng, port, programmer.WithDiagnostics(os.Stderr))
func WithDiagnostics(w io.Writer) Option {
	return func(c *Config) {
		c.Diagnostics = w
	}
}

// WithWriteProtection enables or disables the unlock and lock sequences
// around writes. Default is true. With protection disabled writes go
// straight to the device, which then has to be unprotected already.
//
// Example:
//
//	s := programmer.NewSession(eng, port, programmer.WithWriteProtection(false))
func WithWriteProtection(enabled bool) Option {
	return func(c *Config) {
		c.WriteProtection = enabled
	}
}

// WithInputBufferCapacity sets the size of the input queue.
// Default is 255 bytes.
//
// Example:
//
//	s := programmer.NewSession(eng, port, programmer.WithInputBufferCapacity(64))
func WithInputBufferCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.InputBufferCapacity = n
		}
	}
}
