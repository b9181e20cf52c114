package protocol

import "fmt"

// State tracks which field of the current command is being assembled.
type State uint8

const (
	// StateIdle waits for an opcode byte
	StateIdle State = iota

	// StateAddress assembles the two address bytes
	StateAddress

	// StateParameter assembles the command parameter and, for Load, its payload
	StateParameter
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAddress:
		return "address"
	case StateParameter:
		return "parameter"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Command is the operation selected by an opcode byte.
type Command uint8

const (
	// CommandNone means no command is in flight
	CommandNone Command = iota

	// CommandRead reads one byte
	CommandRead

	// CommandWrite writes and verifies one byte
	CommandWrite

	// CommandLoad writes a payload through the page buffer
	CommandLoad

	// CommandDump reads a range of bytes
	CommandDump

	// CommandErase erases the whole array
	CommandErase
)

var opcodes = [...]struct {
	op  byte
	cmd Command
}{
	{OpRead, CommandRead},
	{OpWrite, CommandWrite},
	{OpLoad, CommandLoad},
	{OpDump, CommandDump},
	{OpErase, CommandErase},
}

// CommandForOpcode returns the command selected by an opcode byte.
// The second result is false when the byte is not a recognised opcode.
func CommandForOpcode(b byte) (Command, bool) {
	for _, o := range opcodes {
		if o.op == b {
			return o.cmd, true
		}
	}
	return CommandNone, false
}

// Opcode returns the opcode byte of the command, or 0 for CommandNone.
func (c Command) Opcode() byte {
	for _, o := range opcodes {
		if o.cmd == c {
			return o.op
		}
	}
	return 0
}

// ParameterSize returns the width of the parameter field that follows the
// address. Read and Erase carry no parameter.
func (c Command) ParameterSize() int {
	switch c {
	case CommandWrite:
		return DataSize
	case CommandLoad, CommandDump:
		return CountSize
	default:
		return 0
	}
}

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandRead:
		return "read"
	case CommandWrite:
		return "write"
	case CommandLoad:
		return "load"
	case CommandDump:
		return "dump"
	case CommandErase:
		return "erase"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}
