package engine

import "time"

// Timing holds the fixed delays of the memory device.
type Timing struct {
	// AccessTime is the wait between latching a read address and sampling the bus
	AccessTime time.Duration

	// SettleTime follows every unlock and lock sequence
	SettleTime time.Duration

	// EraseTime is the chip erase duration. Erase is not polled.
	EraseTime time.Duration
}

// DefaultTiming returns the delays of a 28C256 class part.
func DefaultTiming() Timing {
	return Timing{
		AccessTime: 250 * time.Nanosecond,
		SettleTime: time.Millisecond,
		EraseTime:  20 * time.Millisecond,
	}
}

// Config holds the engine configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// Timing holds the device delays
	Timing Timing

	// MaxPollAttempts bounds the reads spent waiting for a write to verify.
	// Zero polls until the device answers.
	MaxPollAttempts int

	// PollTimeout bounds the time spent waiting for a write to verify.
	// Zero polls until the device answers.
	PollTimeout time.Duration

	// FlushCallback is called after every verified page write (optional)
	FlushCallback FlushCallback

	// Sleep implements the fixed delays
	Sleep func(time.Duration)
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Timing: DefaultTiming(),
		Sleep:  time.Sleep,
	}
}

// Option is a functional option for configuring the Engine.
type Option func(*Config)

// WithLogger sets a logger for the engine operations.
//
// Example:
//
//	eng := engine.New(b, engine.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTiming overrides the device delays.
//
// Example:
//
//	t := engine.DefaultTiming()
//	t.EraseTime = 10 * time.Millisecond
//	eng := engine.New(b, engine.WithTiming(t))
func WithTiming(t Timing) Option {
	return func(c *Config) {
		c.Timing = t
	}
}

// WithMaxPollAttempts turns a write that never verifies into a
// VerificationError after n reads. Zero restores unbounded polling.
//
// Example:
//
//	eng := engine.New(b, engine.WithMaxPollAttempts(100000))
func WithMaxPollAttempts(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.MaxPollAttempts = n
		}
	}
}

// WithPollTimeout turns a write that never verifies into a
// VerificationError after d. Zero restores unbounded polling.
//
// Example:
//
//	eng := engine.New(b, engine.WithPollTimeout(50*time.Millisecond))
func WithPollTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.PollTimeout = d
		}
	}
}

// WithFlushCallback sets a function called after every verified page write.
//
// Example:
//
//	eng := engine.New(b, engine.WithFlushCallback(func(f engine.Flush) {
//	    fmt.Printf("page 0x%04X+%d in %d polls\n", f.Start, f.Count, f.Polls)
//	}))
func WithFlushCallback(callback FlushCallback) Option {
	return func(c *Config) {
		c.FlushCallback = callback
	}
}

// WithSleep replaces time.Sleep for the fixed delays. Tests use it to
// skip the settle and erase waits.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}
