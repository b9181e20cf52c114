package link

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.bug.st/serial"
)

// fakePort is the part of serial.Port the link uses.
type fakePort struct {
	serial.Port

	r       *io.PipeReader
	w       *io.PipeWriter
	written bytes.Buffer
	dtr     bool
	closed  bool
}

func newFakePort() *fakePort {
	r, w := io.Pipe()
	return &fakePort{r: r, w: w, dtr: true}
}

func (f *fakePort) Read(p []byte) (int, error)  { return f.r.Read(p) }
func (f *fakePort) Write(p []byte) (int, error) { return f.written.Write(p) }
func (f *fakePort) SetDTR(dtr bool) error       { f.dtr = dtr; return nil }

func (f *fakePort) Close() error {
	f.closed = true
	return f.w.Close()
}

func TestSerialReceive(t *testing.T) {
	fp := newFakePort()
	s := newSerial(fp, "fake0")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go func() { _, _ = fp.w.Write([]byte{'r', 0x12, 0x34}) }()

	for _, want := range []byte{'r', 0x12, 0x34} {
		got, err := s.ReadByte(ctx)
		if err != nil {
			t.Fatalf("ReadByte() error: %v", err)
		}
		if got != want {
			t.Errorf("ReadByte() = 0x%02X, want 0x%02X", got, want)
		}
	}

	if _, ok := s.TryReadByte(); ok {
		t.Error("TryReadByte() on empty FIFO returned a byte")
	}
	if s.Available() != 0 {
		t.Errorf("Available() = %d, want 0", s.Available())
	}
	if s.Name() != "fake0" {
		t.Errorf("Name() = %q", s.Name())
	}
}

func TestSerialAvailableIsBounded(t *testing.T) {
	fp := newFakePort()
	s := newSerial(fp, "fake0")

	go func() { _, _ = fp.w.Write(make([]byte, RxBufferSize*2)) }()

	deadline := time.Now().Add(time.Second)
	for s.Available() < RxBufferSize && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Available() != RxBufferSize {
		t.Fatalf("Available() = %d, want %d", s.Available(), RxBufferSize)
	}

	for i := 0; i < RxBufferSize*2; i++ {
		if _, err := s.ReadByte(context.Background()); err != nil {
			t.Fatalf("ReadByte() %d error: %v", i, err)
		}
	}
}

func TestSerialWriteAndClose(t *testing.T) {
	fp := newFakePort()
	s := newSerial(fp, "fake0")

	n, err := s.Write([]byte{1, 2, 3})
	if err != nil || n != 3 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if !bytes.Equal(fp.written.Bytes(), []byte{1, 2, 3}) {
		t.Errorf("written = % X", fp.written.Bytes())
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if fp.dtr || !fp.closed {
		t.Errorf("close left dtr=%t closed=%t", fp.dtr, fp.closed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.ReadByte(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("ReadByte() after close error = %v, want io.EOF", err)
	}
}

func TestSerialReadByteCancelled(t *testing.T) {
	s := newSerial(newFakePort(), "fake0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.ReadByte(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadByte() error = %v, want context.Canceled", err)
	}
}

func TestSerialCloseWithFullFIFO(t *testing.T) {
	fp := newFakePort()
	s := newSerial(fp, "fake0")

	go func() { _, _ = fp.w.Write(make([]byte, RxBufferSize*2)) }()

	deadline := time.Now().Add(time.Second)
	for s.Available() < RxBufferSize && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Available() != RxBufferSize {
		t.Fatalf("Available() = %d, want %d", s.Available(), RxBufferSize)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("reader still running after Close with a full FIFO")
	}
}
