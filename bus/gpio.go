package bus

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// DefaultWritePulse is the minimum low time of the write enable strobe.
const DefaultWritePulse = 125 * time.Nanosecond

// PinNames names the controller pins wired to the programmer board.
// Names are resolved through gpioreg, so any alias the host driver
// registers works ("GPIO17", "P1_11", ...).
type PinNames struct {
	ShiftData   string
	ShiftClock  string
	ShiftLatch  string
	WriteEnable string

	// Data lists the eight data lines, bit 0 first
	Data [8]string
}

// GPIOBus is a Bus on general purpose I/O pins. The address goes through a
// ShiftLatch, the data bus is eight bidirectional pins and the write enable
// line is active low.
type GPIOBus struct {
	latch       ShiftLatch
	data        [8]gpio.PinIO
	writeEnable gpio.PinOut
	pulseWidth  time.Duration
	direction   Direction
}

// NewGPIOBus wires a Bus from already resolved pins and parks it in a safe
// state: write enable high, data bus floating, memory output disabled.
func NewGPIOBus(latch ShiftLatch, data [8]gpio.PinIO, writeEnable gpio.PinOut, pulseWidth time.Duration) (*GPIOBus, error) {
	if pulseWidth <= 0 {
		pulseWidth = DefaultWritePulse
	}

	b := &GPIOBus{
		latch:       latch,
		data:        data,
		writeEnable: writeEnable,
		pulseWidth:  pulseWidth,
	}

	if err := writeEnable.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("park write enable: %w", err)
	}
	if err := latch.Clock.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("park shift clock: %w", err)
	}
	if err := latch.Latch.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("park shift latch: %w", err)
	}
	if err := b.SetDirection(Input); err != nil {
		return nil, err
	}
	if err := b.SetAddress(0, false); err != nil {
		return nil, err
	}
	return b, nil
}

// OpenGPIOBus resolves every pin by name and returns a parked GPIOBus.
// The host drivers must have been initialised (host.Init) beforehand.
func OpenGPIOBus(names PinNames, pulseWidth time.Duration) (*GPIOBus, error) {
	lookup := func(role, name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("%s pin %q not found", role, name)
		}
		return p, nil
	}

	var (
		latch ShiftLatch
		data  [8]gpio.PinIO
		err   error
	)
	if latch.Data, err = lookup("shift data", names.ShiftData); err != nil {
		return nil, err
	}
	if latch.Clock, err = lookup("shift clock", names.ShiftClock); err != nil {
		return nil, err
	}
	if latch.Latch, err = lookup("shift latch", names.ShiftLatch); err != nil {
		return nil, err
	}
	we, err := lookup("write enable", names.WriteEnable)
	if err != nil {
		return nil, err
	}
	for i, name := range names.Data {
		if data[i], err = lookup(fmt.Sprintf("data %d", i), name); err != nil {
			return nil, err
		}
	}

	return NewGPIOBus(latch, data, we, pulseWidth)
}

// SetAddress implements Bus.
func (b *GPIOBus) SetAddress(addr uint16, outputEnable bool) error {
	return b.latch.Shift(LatchWord(addr, outputEnable))
}

// SetDirection implements Bus. Switching to Output drives every line low
// before data is presented.
func (b *GPIOBus) SetDirection(d Direction) error {
	for i, p := range b.data {
		var err error
		if d == Output {
			err = p.Out(gpio.Low)
		} else {
			err = p.In(gpio.Float, gpio.NoEdge)
		}
		if err != nil {
			return fmt.Errorf("data %d to %s: %w", i, d, err)
		}
	}
	b.direction = d
	return nil
}

// ReadBus implements Bus.
func (b *GPIOBus) ReadBus() (byte, error) {
	var v byte
	for i, p := range b.data {
		if p.Read() == gpio.High {
			v |= 1 << i
		}
	}
	return v, nil
}

// WriteBus implements Bus.
func (b *GPIOBus) WriteBus(data byte) error {
	if b.direction != Output {
		return fmt.Errorf("write bus: direction is %s", b.direction)
	}
	for i, p := range b.data {
		if err := p.Out(gpio.Level(data&(1<<i) != 0)); err != nil {
			return fmt.Errorf("data %d: %w", i, err)
		}
	}
	return nil
}

// PulseWriteEnable implements Bus.
func (b *GPIOBus) PulseWriteEnable() error {
	if err := b.writeEnable.Out(gpio.Low); err != nil {
		return fmt.Errorf("write enable low: %w", err)
	}
	time.Sleep(b.pulseWidth)
	if err := b.writeEnable.Out(gpio.High); err != nil {
		return fmt.Errorf("write enable high: %w", err)
	}
	return nil
}

// Direction returns the current data bus direction.
func (b *GPIOBus) Direction() Direction {
	return b.direction
}
