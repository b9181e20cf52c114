package image

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/moffa90/go-eeprom/engine"
)

// Image is the full content of the memory array.
type Image struct {
	// Data always holds engine.MemorySize bytes. Bytes the source did not
	// define read as engine.ErasedValue.
	Data []byte

	// Used is one past the highest address the source defined
	Used int
}

// blank returns an erased image.
func blank() *Image {
	data := make([]byte, engine.MemorySize)
	for i := range data {
		data[i] = engine.ErasedValue
	}
	return &Image{Data: data}
}

// isHex reports whether path names an Intel HEX file.
func isHex(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihx", ".ihex":
		return true
	}
	return false
}

// Parse reads an image file. Files ending in .hex, .ihx or .ihex are Intel
// HEX, anything else is a raw binary loaded at address 0.
//
// Example:
//
//	img, err := image.Parse("rom.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d bytes used\n", img.Used)
func Parse(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if isHex(path) {
		return ParseHex(f)
	}
	return ParseReader(f)
}

// ParseReader reads a raw binary image. It fails when the input is larger
// than the memory and pads shorter input with erased bytes.
func ParseReader(r io.Reader) (*Image, error) {
	img := blank()

	n, err := io.ReadFull(r, img.Data)
	switch {
	case err == nil:
		// Full image; anything beyond it is an error.
		var extra [1]byte
		if m, _ := r.Read(extra[:]); m > 0 {
			return nil, fmt.Errorf("image larger than %d bytes", engine.MemorySize)
		}
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		// Short image; the tail stays erased.
	default:
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img.Used = n
	return img, nil
}

// Save writes data to path. Intel HEX names get HEX records, anything else
// the raw bytes.
func Save(path string, data []byte) error {
	if len(data) > engine.MemorySize {
		return fmt.Errorf("image of %d bytes exceeds %d byte memory", len(data), engine.MemorySize)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	w := bufio.NewWriter(f)
	if isHex(path) {
		err = EncodeHex(w, data)
	} else {
		_, err = w.Write(data)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
