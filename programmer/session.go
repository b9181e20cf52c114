package programmer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/moffa90/go-eeprom/buffer"
	"github.com/moffa90/go-eeprom/engine"
	"github.com/moffa90/go-eeprom/protocol"
)

// Port is the serial link a session talks over.
type Port interface {
	io.Writer

	// Available returns the number of received bytes not yet read.
	Available() int

	// ReadByte blocks until a byte arrives or ctx is done.
	ReadByte(ctx context.Context) (byte, error)

	// TryReadByte returns a received byte without blocking.
	TryReadByte() (byte, bool)
}

// Stats counts session activity.
type Stats struct {
	BytesIn         int
	Reads           int
	Writes          int
	Loads           int
	LoadBytes       int
	Dumps           int
	DumpBytes       int
	Erases          int
	ErasesRejected  int
	InvalidCommands int
	VerifyFailures  int
	Acks            int
	PageFlushes     int
	Buffered        int // bytes moved into the input queue during page polls
	Dropped         int // bytes lost to a full input queue
	Discarded       int // payload bytes skipped after a failed Load
}

// Session is the device side of the command protocol. It consumes one
// input byte at a time and drives the engine once a command field is
// complete; it never waits for a whole command.
//
// Session is not safe for concurrent use. Run owns it.
type Session struct {
	eng    *engine.Engine
	port   Port
	config Config
	input  *buffer.Queue

	state     protocol.State
	command   protocol.Command
	address   uint16
	parameter uint16
	byteCount int
	page      engine.Page
	pageCount int
	discard   int // Load payload bytes still to skip

	stats Stats
}

// NewSession creates a Session that serves port with eng.
//
// Example:
//
//	eng := engine.New(chip)
//	s := programmer.NewSession(eng, port)
//	err := s.Run(ctx)
func NewSession(eng *engine.Engine, port Port, opts ...Option) *Session {
	if eng == nil {
		panic("engine cannot be nil")
	}
	if port == nil {
		panic("port cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = port
	}

	return &Session{
		eng:    eng,
		port:   port,
		config: cfg,
		input:  buffer.NewQueue(cfg.InputBufferCapacity),
	}
}

// Feed consumes one input byte. Responses go to the port. Protocol errors
// and verification failures are reported on the link and reset the
// session; any other error is returned and leaves the session reset.
// A Load that fails verification consumes the rest of its declared
// payload without writing or acknowledging it.
func (s *Session) Feed(b byte) error {
	s.stats.BytesIn++

	if s.discard > 0 {
		s.discard--
		s.stats.Discarded++
		if s.discard == 0 {
			s.reset()
		}
		return nil
	}

	var err error
	switch s.state {
	case protocol.StateIdle:
		err = s.feedOpcode(b)
	case protocol.StateAddress:
		err = s.feedAddress(b)
	case protocol.StateParameter:
		err = s.feedParameter(b)
	}
	if err == nil {
		return nil
	}

	cmd, addr := s.command, s.address
	remaining := int(s.parameter) + protocol.AddressSize + protocol.CountSize - s.byteCount
	s.reset()

	var ve *engine.VerificationError
	if errors.As(err, &ve) {
		s.stats.VerifyFailures++
		s.logError("verify failed", "command", cmd.String(), "error", err.Error())
		if cmd == protocol.CommandLoad && remaining > 0 {
			// The rest of the payload is data, not commands.
			s.state = protocol.StateParameter
			s.command = protocol.CommandLoad
			s.discard = remaining
		}
		return s.diagnose(fmt.Sprintf("%saddress 0x%04X expected 0x%02X read 0x%02X%s",
			protocol.VerifyFailedPrefix, ve.Address, ve.Expected, ve.Actual, protocol.LineEnding))
	}
	return fmt.Errorf("%s at 0x%04X: %w", cmd, addr, err)
}

func (s *Session) feedOpcode(b byte) error {
	cmd, ok := protocol.CommandForOpcode(b)
	if !ok {
		s.stats.InvalidCommands++
		ice := &protocol.InvalidCommandError{Opcode: b}
		s.logDebug("invalid command", "opcode", fmt.Sprintf("0x%02X", b))
		s.reset()
		return s.diagnose(ice.Diagnostic())
	}

	s.command = cmd
	s.state = protocol.StateAddress
	return nil
}

func (s *Session) feedAddress(b byte) error {
	if s.byteCount == 0 {
		s.address = uint16(b) << 8
		s.byteCount++
		return nil
	}

	s.address |= uint16(b)
	s.byteCount++

	switch s.command {
	case protocol.CommandRead:
		v, err := s.eng.ReadByte(s.address)
		if err != nil {
			return err
		}
		s.stats.Reads++
		if err := s.respond(v); err != nil {
			return err
		}
		s.reset()
	case protocol.CommandErase:
		if err := s.erase(); err != nil {
			return err
		}
		s.reset()
	default:
		s.state = protocol.StateParameter
	}
	return nil
}

func (s *Session) feedParameter(b byte) error {
	switch s.byteCount {
	case protocol.AddressSize:
		if s.command == protocol.CommandWrite {
			return s.write(b)
		}
		s.parameter = uint16(b) << 8
		s.byteCount++
		return nil
	case protocol.AddressSize + 1:
		s.parameter |= uint16(b)
		s.byteCount++
		switch s.command {
		case protocol.CommandDump:
			return s.dump()
		case protocol.CommandLoad:
			s.stats.Loads++
			if s.parameter == 0 {
				s.reset()
			}
		}
		return nil
	}

	return s.load(b)
}

func (s *Session) write(data byte) error {
	err := s.protect(func() error {
		return s.eng.WriteByte(s.address, data)
	})
	if err != nil {
		return err
	}
	s.stats.Writes++
	if err := s.ack(); err != nil {
		return err
	}
	s.reset()
	return nil
}

func (s *Session) dump() error {
	count := int(s.parameter)

	// Stream in page sized chunks.
	var chunk [engine.PageSize]byte
	n := 0
	for i := 0; i < count; i++ {
		v, err := s.eng.ReadByte(s.address + uint16(i))
		if err != nil {
			return err
		}
		chunk[n] = v
		n++
		if n == len(chunk) || i == count-1 {
			if _, err := s.port.Write(chunk[:n]); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
			n = 0
		}
	}

	s.stats.Dumps++
	s.stats.DumpBytes += count
	s.reset()
	return nil
}

func (s *Session) load(b byte) error {
	offset := engine.Offset(s.address)
	s.page[offset] = b
	s.pageCount++
	s.byteCount++
	s.stats.LoadBytes++

	if err := s.ack(); err != nil {
		return err
	}

	done := s.byteCount >= int(s.parameter)+protocol.AddressSize+protocol.CountSize
	if offset == engine.PageSize-1 || done {
		if err := s.flush(); err != nil {
			return err
		}
	}

	if done {
		s.reset()
		return nil
	}
	s.address++
	return nil
}

// flush writes the bytes gathered for the current page. The last byte
// stored is at the current address.
func (s *Session) flush() error {
	start := s.address + 1 - uint16(s.pageCount)
	count := s.pageCount
	s.pageCount = 0

	err := s.protect(func() error {
		return s.eng.WritePage(&s.page, start, count, s.drain)
	})
	if err != nil {
		return err
	}
	s.stats.PageFlushes++
	return nil
}

func (s *Session) erase() error {
	if s.address != protocol.EraseConfirmation {
		s.stats.ErasesRejected++
		s.logInfo("erase rejected", "token", fmt.Sprintf("0x%04X", s.address))
		return s.respond(protocol.EraseRejected)
	}

	if err := s.eng.Erase(); err != nil {
		return err
	}
	if !s.config.WriteProtection {
		// Raw sessions keep the device writable.
		if err := s.eng.Unlock(); err != nil {
			return err
		}
	}

	s.stats.Erases++
	return s.respond(protocol.EraseAccepted)
}

// protect runs op between an unlock and a lock when write protection is
// enabled.
func (s *Session) protect(op func() error) error {
	if !s.config.WriteProtection {
		return op()
	}
	if err := s.eng.Unlock(); err != nil {
		return err
	}
	if err := op(); err != nil {
		return err
	}
	return s.eng.Lock()
}

// drain moves one received byte into the input queue. It runs between
// page verification reads. A byte that finds the queue full is lost.
func (s *Session) drain() {
	if s.port.Available() == 0 {
		return
	}
	b, ok := s.port.TryReadByte()
	if !ok {
		return
	}
	if !s.input.Push(b) {
		s.logDebug("input dropped", "byte", fmt.Sprintf("0x%02X", b))
		return
	}
	s.stats.Buffered++
}

// Pending returns the number of input bytes received but not yet consumed.
func (s *Session) Pending() int {
	return s.port.Available() + s.input.Len()
}

func (s *Session) ack() error {
	n := s.Pending()
	if n > protocol.AckMax {
		n = protocol.AckMax
	}
	s.stats.Acks++
	return s.respond(byte(n))
}

func (s *Session) respond(b byte) error {
	if _, err := s.port.Write([]byte{b}); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Session) diagnose(line string) error {
	if _, err := io.WriteString(s.config.Diagnostics, line); err != nil {
		return fmt.Errorf("write diagnostic: %w", err)
	}
	return nil
}

func (s *Session) reset() {
	s.state = protocol.StateIdle
	s.command = protocol.CommandNone
	s.address = 0
	s.parameter = 0
	s.byteCount = 0
	s.pageCount = 0
	s.discard = 0
}

// State returns the protocol state.
func (s *Session) State() protocol.State { return s.state }

// Command returns the command in flight.
func (s *Session) Command() protocol.Command { return s.command }

// Address returns the address of the command in flight.
func (s *Session) Address() uint16 { return s.address & engine.AddressMask }

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	st := s.stats
	st.Dropped = s.input.Dropped()
	return st
}

// logDebug logs a debug message if a logger is configured.
func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
