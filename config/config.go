// Package config loads the programmer daemon configuration.
//
// A configuration passes through three stages: Load parses YAML, Validate
// checks it without side effects and Normalize fills in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Bus backends.
const (
	BackendGPIO = "gpio"
	BackendSim  = "sim"
)

// Log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelError = "error"
)

type Config struct {
	Serial   SerialConfig   `yaml:"serial"`
	Bus      BusConfig      `yaml:"bus"`
	Timing   TimingConfig   `yaml:"timing"`
	Verify   VerifyConfig   `yaml:"verify"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Sim      SimConfig      `yaml:"sim"`
	Log      LogConfig      `yaml:"log"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port     string `yaml:"port"` // empty = first USB serial port
	BaudRate int    `yaml:"baud_rate"`
	VID      string `yaml:"vid"`
	PID      string `yaml:"pid"`
}

// ---- BUS ----

type BusConfig struct {
	Backend      string     `yaml:"backend"`
	WritePulseNs int        `yaml:"write_pulse_ns"`
	Pins         PinsConfig `yaml:"pins"`
}

type PinsConfig struct {
	ShiftData   string   `yaml:"shift_data"`
	ShiftClock  string   `yaml:"shift_clock"`
	ShiftLatch  string   `yaml:"shift_latch"`
	WriteEnable string   `yaml:"write_enable"`
	Data        []string `yaml:"data"` // bit 0 first
}

// ---- TIMING ----

type TimingConfig struct {
	AccessNs int `yaml:"access_ns"`
	SettleUs int `yaml:"settle_us"`
	EraseMs  int `yaml:"erase_ms"`
}

// ---- VERIFY ----

type VerifyConfig struct {
	MaxPollAttempts int `yaml:"max_poll_attempts"` // 0 = unbounded
	PollTimeoutMs   int `yaml:"poll_timeout_ms"`   // 0 = unbounded
}

// ---- PROTOCOL ----

type ProtocolConfig struct {
	WriteProtection *bool `yaml:"write_protection"` // default true
	InputBuffer     int   `yaml:"input_buffer"`
}

// ---- SIM ----

type SimConfig struct {
	Image      string `yaml:"image"`
	Save       bool   `yaml:"save"` // write the memory back to image on exit
	PollCycles *int   `yaml:"poll_cycles"`
	Locked     bool   `yaml:"locked"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses a configuration file. Unknown keys are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document. An empty document is an empty config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
