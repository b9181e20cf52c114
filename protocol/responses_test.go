package protocol

import (
	"strings"
	"testing"
)

func TestParseEraseResponse(t *testing.T) {
	tests := []struct {
		name    string
		b       byte
		want    bool
		wantErr bool
	}{
		{name: "accepted", b: EraseAccepted, want: true},
		{name: "rejected", b: EraseRejected, want: false},
		{name: "garbage", b: 0x7F, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEraseResponse(tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("erased = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestIsDiagnostic(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{line: "Invalid command: x\r\n", want: true},
		{line: "Invalid command: x", want: true},
		{line: "Verify failed: address 0x0010", want: true},
		{line: "\x01", want: false},
		{line: "", want: false},
	}

	for _, tt := range tests {
		if got := IsDiagnostic(tt.line); got != tt.want {
			t.Errorf("IsDiagnostic(%q) = %t, want %t", tt.line, got, tt.want)
		}
	}
}

func TestParseInvalidCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    byte
		wantErr bool
	}{
		{name: "with line ending", line: "Invalid command: x\r\n", want: 'x'},
		{name: "without line ending", line: "Invalid command: Z", want: 'Z'},
		{name: "wrong prefix", line: "hello", wantErr: true},
		{name: "no opcode", line: "Invalid command: \r\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInvalidCommand(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("opcode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvalidCommandError(t *testing.T) {
	err := &InvalidCommandError{Opcode: 'q'}

	if !strings.Contains(err.Error(), "0x71") {
		t.Errorf("error message should contain opcode value, got: %s", err.Error())
	}

	if got := err.Diagnostic(); got != "Invalid command: q\r\n" {
		t.Errorf("Diagnostic() = %q", got)
	}

	if !IsInvalidCommand(err) {
		t.Error("IsInvalidCommand() = false, want true")
	}

	op, perr := ParseInvalidCommand(err.Diagnostic())
	if perr != nil || op != 'q' {
		t.Errorf("diagnostic does not parse back: op=%q err=%v", op, perr)
	}
}
