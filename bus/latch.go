package bus

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// ShiftLatch drives a serial-in parallel-out latch over three lines.
// Bits are clocked in most significant first and committed with one pulse
// on the latch line, so the parallel outputs never show a partial word.
type ShiftLatch struct {
	Data  gpio.PinOut
	Clock gpio.PinOut
	Latch gpio.PinOut
}

// Shift loads word into the shift register and commits it.
func (s *ShiftLatch) Shift(word uint16) error {
	for i := 0; i < LatchBits; i++ {
		level := gpio.Level(word&(1<<(LatchBits-1)) != 0)
		if err := s.Data.Out(level); err != nil {
			return fmt.Errorf("shift bit %d: %w", i, err)
		}
		if err := pulse(s.Clock); err != nil {
			return fmt.Errorf("clock bit %d: %w", i, err)
		}
		word <<= 1
	}

	if err := pulse(s.Latch); err != nil {
		return fmt.Errorf("latch: %w", err)
	}
	return nil
}

func pulse(p gpio.PinOut) error {
	if err := p.Out(gpio.High); err != nil {
		return err
	}
	return p.Out(gpio.Low)
}
