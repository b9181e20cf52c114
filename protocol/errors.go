package protocol

import "fmt"

// InvalidCommandError reports an opcode byte that does not select a command.
// The byte is discarded and the state machine stays idle.
type InvalidCommandError struct {
	// Opcode is the rejected byte
	Opcode byte
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid command: 0x%02X (%q)", e.Opcode, rune(e.Opcode))
}

// Diagnostic returns the text line written to the link for this error.
func (e *InvalidCommandError) Diagnostic() string {
	return InvalidCommandPrefix + string([]byte{e.Opcode}) + LineEnding
}

// IsInvalidCommand returns true if the error is an InvalidCommandError.
func IsInvalidCommand(err error) bool {
	_, ok := err.(*InvalidCommandError)
	return ok
}
