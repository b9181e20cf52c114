package protocol

// Opcode characters. The first byte of every command selects the operation.
const (
	// OpRead reads a single byte: r[ADDRESS(2)]
	OpRead = 'r'

	// OpWrite writes a single byte: w[ADDRESS(2)][DATA(1)]
	OpWrite = 'w'

	// OpLoad bulk-loads bytes through the page buffer: l[ADDRESS(2)][COUNT(2)][DATA(COUNT)]
	OpLoad = 'l'

	// OpDump bulk-reads bytes: d[ADDRESS(2)][COUNT(2)]
	OpDump = 'd'

	// OpErase erases the whole array: e[TOKEN(2)]
	OpErase = 'e'
)

// Field sizes in bytes. Multi-byte fields are big-endian (high byte first).
const (
	// OpcodeSize is the size of the opcode field
	OpcodeSize = 1

	// AddressSize is the size of the address field
	AddressSize = 2

	// DataSize is the size of the Write data field
	DataSize = 1

	// CountSize is the size of the Load/Dump count field
	CountSize = 2

	// MaxCount is the largest count a Load or Dump can carry
	MaxCount = 0xFFFF
)

// Erase confirmation.
const (
	// EraseConfirmation is the address token an Erase must carry to take effect
	EraseConfirmation = 0xBEEF

	// EraseRejected is returned when the token does not match
	EraseRejected byte = 0x00

	// EraseAccepted is returned after the array has been erased
	EraseAccepted byte = 0x01
)

// Input handling limits.
const (
	// InputBufferCapacity is the number of bytes the opportunistic input
	// buffer holds. The 256-slot ring keeps one slot free.
	InputBufferCapacity = 255

	// AckMax is the largest acknowledgement value; pending counts above it are clamped
	AckMax = 0xFF
)

// Diagnostics emitted on the link. They are plain text lines and are not
// framed, so a host must expect them only where the protocol allows a
// diagnostic (after an unrecognised opcode or a failed verification).
const (
	// InvalidCommandPrefix starts the line emitted for an unrecognised opcode
	InvalidCommandPrefix = "Invalid command: "

	// VerifyFailedPrefix starts the line emitted when a write never verified
	VerifyFailedPrefix = "Verify failed: "

	// LineEnding terminates every diagnostic line
	LineEnding = "\r\n"
)
