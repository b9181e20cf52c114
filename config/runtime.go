package config

import (
	"time"

	"github.com/moffa90/go-eeprom/bus"
	"github.com/moffa90/go-eeprom/engine"
	"github.com/moffa90/go-eeprom/link"
	"github.com/moffa90/go-eeprom/programmer"
	"github.com/moffa90/go-eeprom/sim"
)

// LinkConfig returns the serial port settings.
func (c *Config) LinkConfig() link.Config {
	return link.Config{
		Port:     c.Serial.Port,
		BaudRate: c.Serial.BaudRate,
		VID:      c.Serial.VID,
		PID:      c.Serial.PID,
	}
}

// PinNames returns the GPIO pin assignment.
func (c *Config) PinNames() bus.PinNames {
	names := bus.PinNames{
		ShiftData:   c.Bus.Pins.ShiftData,
		ShiftClock:  c.Bus.Pins.ShiftClock,
		ShiftLatch:  c.Bus.Pins.ShiftLatch,
		WriteEnable: c.Bus.Pins.WriteEnable,
	}
	copy(names.Data[:], c.Bus.Pins.Data)
	return names
}

// WritePulse returns the write enable pulse width.
func (c *Config) WritePulse() time.Duration {
	return time.Duration(c.Bus.WritePulseNs) * time.Nanosecond
}

// EngineOptions returns the timing and verification options.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithTiming(engine.Timing{
			AccessTime: time.Duration(c.Timing.AccessNs) * time.Nanosecond,
			SettleTime: time.Duration(c.Timing.SettleUs) * time.Microsecond,
			EraseTime:  time.Duration(c.Timing.EraseMs) * time.Millisecond,
		}),
		engine.WithMaxPollAttempts(c.Verify.MaxPollAttempts),
		engine.WithPollTimeout(time.Duration(c.Verify.PollTimeoutMs) * time.Millisecond),
	}
}

// SessionOptions returns the protocol options.
func (c *Config) SessionOptions() []programmer.Option {
	opts := []programmer.Option{
		programmer.WithInputBufferCapacity(c.Protocol.InputBuffer),
	}
	if c.Protocol.WriteProtection != nil {
		opts = append(opts, programmer.WithWriteProtection(*c.Protocol.WriteProtection))
	}
	return opts
}

// SimOptions returns the simulated chip options.
func (c *Config) SimOptions() []sim.Option {
	opts := []sim.Option{sim.WithLocked(c.Sim.Locked)}
	if c.Sim.PollCycles != nil {
		opts = append(opts, sim.WithPollCycles(*c.Sim.PollCycles))
	}
	return opts
}
