package config

import (
	"github.com/moffa90/go-eeprom/bus"
	"github.com/moffa90/go-eeprom/engine"
	"github.com/moffa90/go-eeprom/link"
	"github.com/moffa90/go-eeprom/protocol"
	"github.com/moffa90/go-eeprom/sim"
)

// Normalize fills in defaults for unset values.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Serial.BaudRate == 0 {
		cfg.Serial.BaudRate = link.DefaultBaudRate
	}

	if cfg.Bus.Backend == "" {
		cfg.Bus.Backend = BackendSim
	}
	if cfg.Bus.WritePulseNs == 0 {
		cfg.Bus.WritePulseNs = int(bus.DefaultWritePulse.Nanoseconds())
	}

	t := engine.DefaultTiming()
	if cfg.Timing.AccessNs == 0 {
		cfg.Timing.AccessNs = int(t.AccessTime.Nanoseconds())
	}
	if cfg.Timing.SettleUs == 0 {
		cfg.Timing.SettleUs = int(t.SettleTime.Microseconds())
	}
	if cfg.Timing.EraseMs == 0 {
		cfg.Timing.EraseMs = int(t.EraseTime.Milliseconds())
	}

	if cfg.Protocol.WriteProtection == nil {
		on := true
		cfg.Protocol.WriteProtection = &on
	}
	if cfg.Protocol.InputBuffer == 0 {
		cfg.Protocol.InputBuffer = protocol.InputBufferCapacity
	}

	if cfg.Sim.PollCycles == nil {
		n := sim.DefaultPollCycles
		cfg.Sim.PollCycles = &n
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = LevelInfo
	}
}

// Default returns a validated, normalized configuration with every value
// at its default.
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}
