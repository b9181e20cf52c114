package bus

// Direction is the controller side configuration of the shared data bus.
type Direction uint8

const (
	// Input leaves the data lines floating so the memory can drive them
	Input Direction = iota

	// Output drives the data lines from the controller
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Address latch layout.
const (
	// AddressBits is the width of the memory address
	AddressBits = 15

	// AddressMask keeps the addressable part of a latch word
	AddressMask = 1<<AddressBits - 1

	// OutputDisableBit is set in the latch word when the memory must not drive the bus
	OutputDisableBit = 1 << AddressBits

	// LatchBits is the number of bits shifted into the latch per address
	LatchBits = 16
)

// Bus is the hardware capability the programming engine drives.
//
// Callers order the operations the way the memory requires: the address is
// latched before the direction is switched to Input for a read, and the
// direction is switched to Output before data is presented for a write.
// Errors report pin access failures; a Bus never interprets the data.
type Bus interface {
	// SetAddress latches addr. outputEnable lets the memory drive the bus.
	SetAddress(addr uint16, outputEnable bool) error

	// SetDirection configures the controller side of the data bus.
	SetDirection(d Direction) error

	// ReadBus samples the data bus.
	ReadBus() (byte, error)

	// WriteBus presents data on the bus. The direction must be Output.
	WriteBus(data byte) error

	// PulseWriteEnable strobes the write enable line low then high.
	PulseWriteEnable() error
}

// LatchWord returns the 16-bit value shifted into the address latch.
// The address is truncated to AddressBits and the top bit is set when the
// memory output must be disabled.
func LatchWord(addr uint16, outputEnable bool) uint16 {
	word := addr & AddressMask
	if !outputEnable {
		word |= OutputDisableBit
	}
	return word
}
