package protocol

import "testing"

func TestCommandForOpcode(t *testing.T) {
	tests := []struct {
		op        byte
		want      Command
		wantValid bool
		paramSize int
	}{
		{op: 'r', want: CommandRead, wantValid: true, paramSize: 0},
		{op: 'w', want: CommandWrite, wantValid: true, paramSize: 1},
		{op: 'l', want: CommandLoad, wantValid: true, paramSize: 2},
		{op: 'd', want: CommandDump, wantValid: true, paramSize: 2},
		{op: 'e', want: CommandErase, wantValid: true, paramSize: 0},
		{op: 'R', want: CommandNone, wantValid: false},
		{op: 0x00, want: CommandNone, wantValid: false},
		{op: 0xFF, want: CommandNone, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(string(rune(tt.op)), func(t *testing.T) {
			cmd, ok := CommandForOpcode(tt.op)
			if ok != tt.wantValid {
				t.Fatalf("valid = %t, want %t", ok, tt.wantValid)
			}
			if cmd != tt.want {
				t.Errorf("command = %v, want %v", cmd, tt.want)
			}
			if !ok {
				return
			}
			if cmd.Opcode() != tt.op {
				t.Errorf("Opcode() = %q, want %q", cmd.Opcode(), tt.op)
			}
			if cmd.ParameterSize() != tt.paramSize {
				t.Errorf("ParameterSize() = %d, want %d", cmd.ParameterSize(), tt.paramSize)
			}
		})
	}
}

func TestStringers(t *testing.T) {
	if CommandNone.Opcode() != 0 {
		t.Errorf("CommandNone.Opcode() = %d, want 0", CommandNone.Opcode())
	}
	if got := CommandLoad.String(); got != "load" {
		t.Errorf("CommandLoad.String() = %q", got)
	}
	if got := Command(42).String(); got != "command(42)" {
		t.Errorf("Command(42).String() = %q", got)
	}
	if got := StateParameter.String(); got != "parameter" {
		t.Errorf("StateParameter.String() = %q", got)
	}
	if got := State(9).String(); got != "state(9)" {
		t.Errorf("State(9).String() = %q", got)
	}
}
