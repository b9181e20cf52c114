package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Serial link defaults.
const (
	// DefaultBaudRate is the rate the programmer host tool uses
	DefaultBaudRate = 115200

	// RxBufferSize is the receive FIFO depth. Available never reports more.
	RxBufferSize = 64
)

// ErrNoPortFound is returned when port detection finds no USB serial port.
var ErrNoPortFound = errors.New("link: no USB serial port found")

// Config selects and configures the serial port.
type Config struct {
	// Port is the device name. Empty selects the first USB serial port.
	Port string

	// BaudRate defaults to DefaultBaudRate
	BaudRate int

	// VID and PID restrict detection to one USB device (optional, hex strings)
	VID string
	PID string
}

// Serial is a programmer link on a serial port. A reader goroutine moves
// received bytes into a FIFO so the session can ask how many are waiting.
type Serial struct {
	port serial.Port
	name string

	rx     chan byte
	err    error // set before rx is closed
	done   chan struct{}
	exited chan struct{}

	closeOnce sync.Once
}

// DetectPort returns the name of the first USB serial port matching vid
// and pid. Empty filters match any device.
func DetectPort(vid, pid string) (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("link: list serial ports: %w", err)
	}

	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		if vid != "" && !strings.EqualFold(port.VID, vid) {
			continue
		}
		if pid != "" && !strings.EqualFold(port.PID, pid) {
			continue
		}
		return port.Name, nil
	}
	return "", ErrNoPortFound
}

// Open opens the serial port in 8N1 mode and asserts DTR.
func Open(cfg Config) (*Serial, error) {
	name := cfg.Port
	if name == "" {
		var err error
		if name, err = DetectPort(cfg.VID, cfg.PID); err != nil {
			return nil, err
		}
	}

	baud := cfg.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}

	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", name, err)
	}

	if err := port.SetDTR(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("link: set DTR on %s: %w", name, err)
	}

	return newSerial(port, name), nil
}

func newSerial(port serial.Port, name string) *Serial {
	s := &Serial{
		port: port,
		name: name,
		rx:     make(chan byte, RxBufferSize),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Serial) readLoop() {
	defer close(s.exited)
	defer close(s.rx)

	buf := make([]byte, RxBufferSize)
	for {
		n, err := s.port.Read(buf)
		select {
		case <-s.done:
			return
		default:
		}
		if err != nil {
			s.err = err
			return
		}
		if n == 0 {
			// Read timeout, or the port was closed under us.
			continue
		}
		for _, b := range buf[:n] {
			select {
			case s.rx <- b:
			case <-s.done:
				return
			}
		}
	}
}

// Name returns the port device name.
func (s *Serial) Name() string { return s.name }

// Available returns the number of bytes waiting in the receive FIFO.
func (s *Serial) Available() int { return len(s.rx) }

// ReadByte blocks until a byte is received, the port fails or ctx is done.
func (s *Serial) ReadByte(ctx context.Context) (byte, error) {
	select {
	case b, ok := <-s.rx:
		if !ok {
			return 0, s.readErr()
		}
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// TryReadByte returns a received byte without blocking.
func (s *Serial) TryReadByte() (byte, bool) {
	select {
	case b, ok := <-s.rx:
		return b, ok
	default:
		return 0, false
	}
}

func (s *Serial) readErr() error {
	if s.err == nil {
		return io.EOF
	}
	return fmt.Errorf("link: read %s: %w", s.name, s.err)
}

// Write sends p in full.
func (s *Serial) Write(p []byte) (int, error) {
	sent := 0
	for sent < len(p) {
		n, err := s.port.Write(p[sent:])
		if err != nil {
			return sent, fmt.Errorf("link: write %s: %w", s.name, err)
		}
		sent += n
	}
	return sent, nil
}

// Close releases DTR and closes the port. The reader stops even when the
// receive FIFO is full.
func (s *Serial) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		// Clear DTR, ignoring errors since we are closing anyway.
		_ = s.port.SetDTR(false)
		if cerr := s.port.Close(); cerr != nil {
			err = fmt.Errorf("link: close %s: %w", s.name, cerr)
		}
	})
	return err
}
