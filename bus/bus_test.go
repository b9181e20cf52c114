package bus

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// samplingPin runs sample on every rising edge driven through Out.
type samplingPin struct {
	gpiotest.Pin
	sample func()
}

func (p *samplingPin) Out(l gpio.Level) error {
	if l == gpio.High && p.sample != nil {
		p.sample()
	}
	return p.Pin.Out(l)
}

// countingPin counts low pulses.
type countingPin struct {
	gpiotest.Pin
	lows int
}

func (p *countingPin) Out(l gpio.Level) error {
	if l == gpio.Low {
		p.lows++
	}
	return p.Pin.Out(l)
}

type latchRig struct {
	data    *gpiotest.Pin
	clock   *samplingPin
	latch   *samplingPin
	shifted []gpio.Level
	commits [][]gpio.Level
}

func newLatchRig() *latchRig {
	r := &latchRig{
		data:  &gpiotest.Pin{N: "SER"},
		clock: &samplingPin{Pin: gpiotest.Pin{N: "SRCLK"}},
		latch: &samplingPin{Pin: gpiotest.Pin{N: "RCLK"}},
	}
	r.clock.sample = func() { r.shifted = append(r.shifted, r.data.Read()) }
	r.latch.sample = func() {
		word := make([]gpio.Level, len(r.shifted))
		copy(word, r.shifted)
		r.commits = append(r.commits, word)
		r.shifted = r.shifted[:0]
	}
	return r
}

func (r *latchRig) shiftLatch() ShiftLatch {
	return ShiftLatch{Data: r.data, Clock: r.clock, Latch: r.latch}
}

func levelsToWord(levels []gpio.Level) uint16 {
	var w uint16
	for _, l := range levels {
		w <<= 1
		if l == gpio.High {
			w |= 1
		}
	}
	return w
}

func TestLatchWord(t *testing.T) {
	tests := []struct {
		name         string
		addr         uint16
		outputEnable bool
		want         uint16
	}{
		{name: "read address 0", addr: 0x0000, outputEnable: true, want: 0x0000},
		{name: "write address 0", addr: 0x0000, outputEnable: false, want: 0x8000},
		{name: "read last address", addr: 0x7FFF, outputEnable: true, want: 0x7FFF},
		{name: "truncates high bit on read", addr: 0xBEEF, outputEnable: true, want: 0x3EEF},
		{name: "write protection address", addr: 0x5555, outputEnable: false, want: 0xD555},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatchWord(tt.addr, tt.outputEnable); got != tt.want {
				t.Errorf("LatchWord(0x%04X, %t) = 0x%04X, want 0x%04X", tt.addr, tt.outputEnable, got, tt.want)
			}
		})
	}
}

func TestShiftLatch(t *testing.T) {
	words := []uint16{0x0000, 0xFFFF, 0x8001, 0x2AAA, 0xD555}

	for _, word := range words {
		rig := newLatchRig()
		sl := rig.shiftLatch()

		if err := sl.Shift(word); err != nil {
			t.Fatalf("Shift(0x%04X) error: %v", word, err)
		}

		if len(rig.commits) != 1 {
			t.Fatalf("latch pulses = %d, want 1", len(rig.commits))
		}
		if len(rig.commits[0]) != LatchBits {
			t.Fatalf("bits before latch = %d, want %d", len(rig.commits[0]), LatchBits)
		}
		if got := levelsToWord(rig.commits[0]); got != word {
			t.Errorf("latched word = 0x%04X, want 0x%04X", got, word)
		}
		if rig.clock.Read() != gpio.Low || rig.latch.Read() != gpio.Low {
			t.Error("clock and latch must idle low")
		}
	}
}

func newTestGPIOBus(t *testing.T) (*GPIOBus, *latchRig, [8]*gpiotest.Pin, *countingPin) {
	t.Helper()

	rig := newLatchRig()
	var pins [8]*gpiotest.Pin
	var data [8]gpio.PinIO
	for i := range pins {
		pins[i] = &gpiotest.Pin{N: "D" + string(rune('0'+i))}
		data[i] = pins[i]
	}
	we := &countingPin{Pin: gpiotest.Pin{N: "WE"}}

	b, err := NewGPIOBus(rig.shiftLatch(), data, we, 0)
	if err != nil {
		t.Fatalf("NewGPIOBus() error: %v", err)
	}
	return b, rig, pins, we
}

func TestGPIOBusParksSafely(t *testing.T) {
	b, rig, _, we := newTestGPIOBus(t)

	if we.Read() != gpio.High {
		t.Error("write enable must park high")
	}
	if b.Direction() != Input {
		t.Errorf("direction = %s, want input", b.Direction())
	}
	if len(rig.commits) != 1 || levelsToWord(rig.commits[0]) != OutputDisableBit {
		t.Errorf("park must latch output disabled, commits = %v", rig.commits)
	}
}

func TestGPIOBusSetAddress(t *testing.T) {
	b, rig, _, _ := newTestGPIOBus(t)

	if err := b.SetAddress(0x1234, true); err != nil {
		t.Fatalf("SetAddress() error: %v", err)
	}
	if err := b.SetAddress(0x1234, false); err != nil {
		t.Fatalf("SetAddress() error: %v", err)
	}

	if got := levelsToWord(rig.commits[1]); got != 0x1234 {
		t.Errorf("read latch = 0x%04X, want 0x1234", got)
	}
	if got := levelsToWord(rig.commits[2]); got != 0x9234 {
		t.Errorf("write latch = 0x%04X, want 0x9234", got)
	}
}

func TestGPIOBusReadWrite(t *testing.T) {
	b, _, pins, _ := newTestGPIOBus(t)

	if err := b.WriteBus(0xA5); err == nil {
		t.Fatal("WriteBus() in input direction should fail")
	}

	for i, p := range pins {
		p.L = gpio.Level(0x3C&(1<<i) != 0)
	}
	got, err := b.ReadBus()
	if err != nil {
		t.Fatalf("ReadBus() error: %v", err)
	}
	if got != 0x3C {
		t.Errorf("ReadBus() = 0x%02X, want 0x3C", got)
	}

	if err := b.SetDirection(Output); err != nil {
		t.Fatalf("SetDirection() error: %v", err)
	}
	if err := b.WriteBus(0xA5); err != nil {
		t.Fatalf("WriteBus() error: %v", err)
	}
	for i, p := range pins {
		want := gpio.Level(0xA5&(1<<i) != 0)
		if p.Read() != want {
			t.Errorf("data %d = %v, want %v", i, p.Read(), want)
		}
	}

	if err := b.SetDirection(Input); err != nil {
		t.Fatalf("SetDirection() error: %v", err)
	}
	for i, p := range pins {
		if p.P != gpio.Float {
			t.Errorf("data %d pull = %v, want float", i, p.P)
		}
	}
}

func TestGPIOBusPulseWriteEnable(t *testing.T) {
	b, _, _, we := newTestGPIOBus(t)
	before := we.lows

	if err := b.PulseWriteEnable(); err != nil {
		t.Fatalf("PulseWriteEnable() error: %v", err)
	}

	if we.lows != before+1 {
		t.Errorf("low pulses = %d, want %d", we.lows, before+1)
	}
	if we.Read() != gpio.High {
		t.Error("write enable must return high")
	}
}

func TestOpenGPIOBusUnknownPin(t *testing.T) {
	_, err := OpenGPIOBus(PinNames{ShiftData: "NO_SUCH_PIN_FOR_TEST"}, 0)
	if err == nil {
		t.Fatal("OpenGPIOBus() with unknown pin should fail")
	}
}
