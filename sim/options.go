package sim

// DefaultPollCycles is the number of busy reads after a write burst.
const DefaultPollCycles = 3

// Config holds the simulated chip configuration.
type Config struct {
	// PollCycles is the number of reads that echo the complement of the
	// last written byte after a write burst
	PollCycles int

	// Stuck makes write cycles never finish
	Stuck bool

	// Locked starts the chip with software data protection enabled
	Locked bool
}

func defaultConfig() Config {
	return Config{
		PollCycles: DefaultPollCycles,
	}
}

// Option is a functional option for configuring a Chip.
type Option func(*Config)

// WithPollCycles sets how many reads a write cycle stays busy for.
// Zero makes writes complete immediately.
//
// Example:
//
//	chip := sim.New(sim.WithPollCycles(10))
func WithPollCycles(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.PollCycles = n
		}
	}
}

// WithStuck models a device whose write cycle never completes.
func WithStuck(stuck bool) Option {
	return func(c *Config) {
		c.Stuck = stuck
	}
}

// WithLocked starts the chip write protected. Chips leave the factory
// unprotected.
func WithLocked(locked bool) Option {
	return func(c *Config) {
		c.Locked = locked
	}
}
