package sim

import (
	"fmt"
	"sync"

	"github.com/moffa90/go-eeprom/bus"
)

// Geometry of the simulated part.
const (
	// Size is the number of bytes in the array
	Size = 1 << bus.AddressBits

	// PageSize is the number of bytes one write cycle can program
	PageSize = 64

	// ErasedValue is the content of an erased byte
	ErasedValue = 0xFF
)

// Stats counts what the chip has seen since it was created.
type Stats struct {
	Pulses          int // write enable pulses that latched data
	Reads           int // bus samples with the output enabled
	WriteCycles     int // bursts closed by a read
	BusyReads       int // reads answered with polling data
	Locks           int
	Unlocks         int
	Erases          int
	IgnoredWrites   int // writes dropped by protection or a bad bus state
	CrossPageBursts int // bursts whose writes did not share one page
}

// Chip is an in-memory parallel EEPROM implementing bus.Bus.
//
// A write enable pulse with the output disabled and the bus driven latches
// one write. Writes issued back to back form a burst; the first read after
// the burst sees the write cycle, answering PollCycles reads with the
// complement of the last written byte before the array content shows.
//
// Chip is safe for concurrent use.
type Chip struct {
	mu sync.Mutex

	cfg Config
	mem [Size]byte

	addr         uint16
	outputEnable bool
	direction    bus.Direction
	driven       byte

	locked   bool
	sdp      sdpDecoder
	command  *write
	busy     int
	lastData byte
	inBurst  bool
	page     int
	stuck    bool

	stats Stats
}

// New returns an erased, unprotected chip.
//
// Example:
//
//	chip := sim.New(sim.WithPollCycles(5))
//	eng := engine.New(chip)
func New(opts ...Option) *Chip {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Chip{
		cfg:    cfg,
		locked: cfg.Locked,
		page:   -1,
	}
	for i := range c.mem {
		c.mem[i] = ErasedValue
	}
	return c
}

// SetAddress implements bus.Bus.
func (c *Chip) SetAddress(addr uint16, outputEnable bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.addr = addr & bus.AddressMask
	c.outputEnable = outputEnable
	return nil
}

// SetDirection implements bus.Bus.
func (c *Chip) SetDirection(d bus.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.direction = d
	return nil
}

// WriteBus implements bus.Bus.
func (c *Chip) WriteBus(data byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.direction != bus.Output {
		return fmt.Errorf("sim: write bus while direction is %s", c.direction)
	}
	c.driven = data
	return nil
}

// PulseWriteEnable implements bus.Bus.
func (c *Chip) PulseWriteEnable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outputEnable || c.direction != bus.Output {
		c.stats.IgnoredWrites++
		return nil
	}

	c.stats.Pulses++
	w := write{addr: c.addr, data: c.driven}

	page := int(w.addr / PageSize)
	if c.inBurst && page != c.page {
		c.stats.CrossPageBursts++
	}
	c.inBurst = true
	c.page = page

	c.command = nil
	data, action := c.sdp.feed(w)
	c.program(data)
	if action != actionNone {
		c.command = &w
	}
	switch action {
	case actionLock:
		c.locked = true
		c.stats.Locks++
	case actionUnlock:
		c.locked = false
		c.stats.Unlocks++
	case actionErase:
		for i := range c.mem {
			c.mem[i] = ErasedValue
		}
		c.stats.Erases++
	}

	c.busy = c.cfg.PollCycles
	c.lastData = w.data
	c.stuck = c.cfg.Stuck
	return nil
}

// ReadBus implements bus.Bus. With the output disabled the bus floats high
// unless the controller is driving it.
func (c *Chip) ReadBus() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.direction == bus.Output {
		return c.driven, nil
	}
	if !c.outputEnable {
		return 0xFF, nil
	}

	c.stats.Reads++
	if c.inBurst {
		c.inBurst = false
		c.stats.WriteCycles++
	}

	if c.stuck || c.busy > 0 {
		if c.busy > 0 {
			c.busy--
		}
		c.stats.BusyReads++
		return ^c.lastData, nil
	}

	// A completed command reads back once as written.
	if cmd := c.command; cmd != nil {
		c.command = nil
		if cmd.addr == c.addr {
			return cmd.data, nil
		}
	}

	if last, ok := c.sdp.last(); ok && last != c.addr {
		c.program(c.sdp.flush())
	}
	if v, ok := c.sdp.echo(c.addr); ok {
		return v, nil
	}
	return c.mem[c.addr], nil
}

// program stores ordinary data writes unless the chip is protected.
func (c *Chip) program(writes []write) {
	for _, w := range writes {
		if c.locked {
			c.stats.IgnoredWrites++
			continue
		}
		c.mem[w.addr] = w.data
	}
}

// Locked reports whether software data protection is enabled.
func (c *Chip) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked
}

// Peek returns the stored byte at addr without a bus cycle.
func (c *Chip) Peek(addr uint16) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mem[addr&bus.AddressMask]
}

// Load copies data into the array starting at address 0.
func (c *Chip) Load(data []byte) error {
	if len(data) > Size {
		return fmt.Errorf("sim: image of %d bytes exceeds %d byte array", len(data), Size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.mem[:], data)
	return nil
}

// Bytes returns a copy of the array, including writes still held by the
// protection decoder.
func (c *Chip) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]byte, Size)
	copy(out, c.mem[:])
	if !c.locked {
		for _, w := range c.sdp.held {
			out[w.addr] = w.data
		}
	}
	return out
}

// Stats returns a snapshot of the chip counters.
func (c *Chip) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

var _ bus.Bus = (*Chip)(nil)
