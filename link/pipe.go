package link

import (
	"context"
	"strings"
)

// DefaultPipeSize is the capacity of each direction of a Pipe.
const DefaultPipeSize = 1 << 16

// Pipe is an in-memory link. The device side satisfies programmer.Port;
// the host side is Send and Receive.
type Pipe struct {
	toDevice chan byte
	toHost   chan byte
}

// NewPipe returns a Pipe with DefaultPipeSize bytes of buffering per
// direction.
func NewPipe() *Pipe {
	return NewPipeSize(DefaultPipeSize)
}

// NewPipeSize returns a Pipe with size bytes of buffering per direction.
func NewPipeSize(size int) *Pipe {
	return &Pipe{
		toDevice: make(chan byte, size),
		toHost:   make(chan byte, size),
	}
}

// Send queues bytes for the device. It blocks while the device side is full.
func (p *Pipe) Send(b ...byte) {
	for _, v := range b {
		p.toDevice <- v
	}
}

// Receive returns the next n bytes written by the device.
func (p *Pipe) Receive(ctx context.Context, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		select {
		case b := <-p.toHost:
			out = append(out, b)
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, nil
}

// ReceiveLine returns the next text line written by the device, without
// its line ending.
func (p *Pipe) ReceiveLine(ctx context.Context) (string, error) {
	var sb strings.Builder
	for {
		select {
		case b := <-p.toHost:
			if b == '\n' {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}
			sb.WriteByte(b)
		case <-ctx.Done():
			return sb.String(), ctx.Err()
		}
	}
}

// Pending returns the number of device output bytes not yet received.
func (p *Pipe) Pending() int { return len(p.toHost) }

// Available implements programmer.Port.
func (p *Pipe) Available() int { return len(p.toDevice) }

// ReadByte implements programmer.Port.
func (p *Pipe) ReadByte(ctx context.Context) (byte, error) {
	select {
	case b := <-p.toDevice:
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// TryReadByte implements programmer.Port.
func (p *Pipe) TryReadByte() (byte, bool) {
	select {
	case b := <-p.toDevice:
		return b, true
	default:
		return 0, false
	}
}

// Write implements programmer.Port.
func (p *Pipe) Write(b []byte) (int, error) {
	for _, v := range b {
		p.toHost <- v
	}
	return len(b), nil
}
