package protocol

import (
	"fmt"
	"strings"
)

// ParseEraseResponse interprets the single byte returned by an Erase command.
// Returns true when the array was erased, false when the token was rejected.
func ParseEraseResponse(b byte) (bool, error) {
	switch b {
	case EraseAccepted:
		return true, nil
	case EraseRejected:
		return false, nil
	default:
		return false, fmt.Errorf("invalid erase response: got 0x%02X, expected 0x%02X or 0x%02X",
			b, EraseRejected, EraseAccepted)
	}
}

// IsDiagnostic reports whether a text line is one of the diagnostic lines the
// device emits. The line may or may not include its line ending.
func IsDiagnostic(line string) bool {
	return strings.HasPrefix(line, InvalidCommandPrefix) ||
		strings.HasPrefix(line, VerifyFailedPrefix)
}

// ParseInvalidCommand extracts the rejected opcode from an invalid command
// diagnostic line.
//
// Line format:
//
//	Invalid command: <CHAR>\r\n
func ParseInvalidCommand(line string) (byte, error) {
	rest, ok := strings.CutPrefix(line, InvalidCommandPrefix)
	if !ok {
		return 0, fmt.Errorf("not an invalid command diagnostic: %q", line)
	}

	rest = strings.TrimSuffix(rest, LineEnding)
	if len(rest) != 1 {
		return 0, fmt.Errorf("invalid command diagnostic must carry exactly 1 byte, got %d", len(rest))
	}

	return rest[0], nil
}
