package engine

import (
	"fmt"
	"time"

	"github.com/moffa90/go-eeprom/bus"
)

// Memory geometry.
const (
	// MemorySize is the number of addressable bytes
	MemorySize = 1 << bus.AddressBits

	// PageSize is the number of bytes programmed by one write cycle
	PageSize = 64

	// AddressMask keeps an address inside the array
	AddressMask = MemorySize - 1

	// ErasedValue is what an erased byte reads as
	ErasedValue = 0xFF
)

// Stats counts the engine operations since it was created.
type Stats struct {
	Reads       int
	ByteWrites  int
	PageWrites  int
	PageBytes   int
	PollReads   int
	Unlocks     int
	Locks       int
	Erases      int
	VerifyFails int
}

// Engine performs read and write cycles on a parallel EEPROM through a Bus.
// Every write is verified by data polling before the call returns.
//
// Engine is not safe for concurrent use; it owns the bus while a call runs.
type Engine struct {
	bus    bus.Bus
	config Config
	stats  Stats
}

// New creates a new Engine driving b.
//
// Example:
//
//	chip := sim.New()
//	eng := engine.New(chip, engine.WithMaxPollAttempts(10000))
func New(b bus.Bus, opts ...Option) *Engine {
	if b == nil {
		panic("bus cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		bus:    b,
		config: cfg,
	}
}

// ReadByte reads the byte stored at addr.
func (e *Engine) ReadByte(addr uint16) (byte, error) {
	addr &= AddressMask
	if err := e.bus.SetAddress(addr, true); err != nil {
		return 0, fmt.Errorf("set read address 0x%04X: %w", addr, err)
	}
	if err := e.bus.SetDirection(bus.Input); err != nil {
		return 0, fmt.Errorf("bus to input: %w", err)
	}
	e.config.Sleep(e.config.Timing.AccessTime)

	v, err := e.bus.ReadBus()
	if err != nil {
		return 0, fmt.Errorf("read bus at 0x%04X: %w", addr, err)
	}
	e.stats.Reads++
	return v, nil
}

// WriteByte writes data at addr and polls until the device reads it back.
// Protection is not touched; see Unlock and Lock.
func (e *Engine) WriteByte(addr uint16, data byte) error {
	addr &= AddressMask
	if err := e.strobe(addr, data); err != nil {
		return err
	}
	if _, err := e.poll(addr, data, nil); err != nil {
		return err
	}
	e.stats.ByteWrites++
	return nil
}

// strobe presents one byte and pulses write enable without verifying.
func (e *Engine) strobe(addr uint16, data byte) error {
	if err := e.bus.SetAddress(addr, false); err != nil {
		return fmt.Errorf("set write address 0x%04X: %w", addr, err)
	}
	if err := e.bus.SetDirection(bus.Output); err != nil {
		return fmt.Errorf("bus to output: %w", err)
	}
	if err := e.bus.WriteBus(data); err != nil {
		return fmt.Errorf("write bus at 0x%04X: %w", addr, err)
	}
	if err := e.bus.PulseWriteEnable(); err != nil {
		return fmt.Errorf("pulse write enable at 0x%04X: %w", addr, err)
	}
	return nil
}

// poll reads addr until it reads back want and returns the number of
// reads taken. idle, when set, runs between reads. Without a configured
// limit it never gives up.
func (e *Engine) poll(addr uint16, want byte, idle func()) (int, error) {
	start := time.Now()

	got, err := e.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	attempts := 1

	for got != want {
		if e.expired(attempts, start) {
			e.stats.VerifyFails++
			e.logError("write did not verify",
				"address", fmt.Sprintf("0x%04X", addr),
				"expected", fmt.Sprintf("0x%02X", want),
				"actual", fmt.Sprintf("0x%02X", got),
				"attempts", attempts,
			)
			return attempts, &VerificationError{
				Address:  addr,
				Expected: want,
				Actual:   got,
				Attempts: attempts,
				Elapsed:  time.Since(start),
			}
		}

		if idle != nil {
			idle()
		}

		// The address is still latched, sample directly.
		if got, err = e.bus.ReadBus(); err != nil {
			return attempts, fmt.Errorf("read bus at 0x%04X: %w", addr, err)
		}
		attempts++
	}

	e.stats.PollReads += attempts
	return attempts, nil
}

func (e *Engine) expired(attempts int, start time.Time) bool {
	if max := e.config.MaxPollAttempts; max > 0 && attempts >= max {
		return true
	}
	if d := e.config.PollTimeout; d > 0 && time.Since(start) >= d {
		return true
	}
	return false
}

// Stats returns a snapshot of the operation counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// logDebug logs a debug message if a logger is configured.
func (e *Engine) logDebug(msg string, keysAndValues ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (e *Engine) logInfo(msg string, keysAndValues ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (e *Engine) logError(msg string, keysAndValues ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Error(msg, keysAndValues...)
	}
}
