package config

import (
	"fmt"
	"strconv"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ---- serial ----

	if cfg.Serial.BaudRate < 0 {
		return fmt.Errorf("serial: baud_rate must not be negative")
	}
	if err := validateUSBID("vid", cfg.Serial.VID); err != nil {
		return err
	}
	if err := validateUSBID("pid", cfg.Serial.PID); err != nil {
		return err
	}

	// ---- bus ----

	switch cfg.Bus.Backend {
	case "", BackendSim:
	case BackendGPIO:
		if err := validatePins(cfg.Bus.Pins); err != nil {
			return err
		}
	default:
		return fmt.Errorf("bus: unknown backend %q (want %q or %q)", cfg.Bus.Backend, BackendGPIO, BackendSim)
	}
	if cfg.Bus.WritePulseNs < 0 {
		return fmt.Errorf("bus: write_pulse_ns must not be negative")
	}

	// ---- timing / verify ----

	if cfg.Timing.AccessNs < 0 || cfg.Timing.SettleUs < 0 || cfg.Timing.EraseMs < 0 {
		return fmt.Errorf("timing: delays must not be negative")
	}
	if cfg.Verify.MaxPollAttempts < 0 {
		return fmt.Errorf("verify: max_poll_attempts must not be negative")
	}
	if cfg.Verify.PollTimeoutMs < 0 {
		return fmt.Errorf("verify: poll_timeout_ms must not be negative")
	}

	// ---- protocol ----

	if cfg.Protocol.InputBuffer < 0 {
		return fmt.Errorf("protocol: input_buffer must not be negative")
	}

	// ---- sim ----

	if cfg.Sim.PollCycles != nil && *cfg.Sim.PollCycles < 0 {
		return fmt.Errorf("sim: poll_cycles must not be negative")
	}
	if cfg.Sim.Save && cfg.Sim.Image == "" {
		return fmt.Errorf("sim: save requires an image path")
	}

	// ---- log ----

	switch cfg.Log.Level {
	case "", LevelDebug, LevelInfo, LevelError:
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	return nil
}

func validatePins(p PinsConfig) error {
	if len(p.Data) != 8 {
		return fmt.Errorf("bus: pins: data needs 8 pins, got %d", len(p.Data))
	}

	named := []struct {
		key  string
		name string
	}{
		{"shift_data", p.ShiftData},
		{"shift_clock", p.ShiftClock},
		{"shift_latch", p.ShiftLatch},
		{"write_enable", p.WriteEnable},
	}
	for i, d := range p.Data {
		named = append(named, struct {
			key  string
			name string
		}{fmt.Sprintf("data[%d]", i), d})
	}

	// key = pin name
	owner := make(map[string]string)
	for _, n := range named {
		if n.name == "" {
			return fmt.Errorf("bus: pins: %s is required", n.key)
		}
		if prev, exists := owner[n.name]; exists {
			return fmt.Errorf("bus: pins: %s used by %s and %s", n.name, prev, n.key)
		}
		owner[n.name] = n.key
	}
	return nil
}

// validateUSBID accepts an empty string or up to four hex digits.
func validateUSBID(key, id string) error {
	if id == "" {
		return nil
	}
	if len(id) > 4 {
		return fmt.Errorf("serial: %s %q is longer than 4 hex digits", key, id)
	}
	if _, err := strconv.ParseUint(id, 16, 16); err != nil {
		return fmt.Errorf("serial: %s %q is not hexadecimal", key, id)
	}
	return nil
}
