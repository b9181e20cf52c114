package image

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/moffa90/go-eeprom/engine"
)

// Intel HEX record types.
const (
	recordData                   = 0x00
	recordEOF                    = 0x01
	recordExtendedSegmentAddress = 0x02
	recordStartSegmentAddress    = 0x03
	recordExtendedLinearAddress  = 0x04
	recordStartLinearAddress     = 0x05
)

const (
	// MinimumRecordBytes is count + address + type + checksum
	MinimumRecordBytes = 5

	// HexRecordSize is the number of data bytes per record EncodeHex writes
	HexRecordSize = 16
)

// ParseHex reads an Intel HEX image.
//
// Record format (after the ':'):
//
//	[COUNT(1)][ADDRESS(2, big-endian)][TYPE(1)][DATA(COUNT)][CHECKSUM(1)]
//
// Data beyond the memory size is an error. Start address records are
// accepted and ignored.
func ParseHex(r io.Reader) (*Image, error) {
	img := blank()
	scanner := bufio.NewScanner(r)

	var base uint32
	lineNum := 0
	sawEOF := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}
		if sawEOF {
			return nil, fmt.Errorf("line %d: data after end of file record", lineNum)
		}

		rec, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		switch rec.kind {
		case recordData:
			start := base + uint32(rec.address)
			end := start + uint32(len(rec.data))
			if end > engine.MemorySize {
				return nil, fmt.Errorf("line %d: data at 0x%05X exceeds %d byte memory", lineNum, start, engine.MemorySize)
			}
			copy(img.Data[start:end], rec.data)
			if int(end) > img.Used {
				img.Used = int(end)
			}
		case recordEOF:
			sawEOF = true
		case recordExtendedSegmentAddress:
			if len(rec.data) != 2 {
				return nil, fmt.Errorf("line %d: segment address record needs 2 bytes", lineNum)
			}
			base = (uint32(rec.data[0])<<8 | uint32(rec.data[1])) << 4
		case recordExtendedLinearAddress:
			if len(rec.data) != 2 {
				return nil, fmt.Errorf("line %d: linear address record needs 2 bytes", lineNum)
			}
			base = (uint32(rec.data[0])<<8 | uint32(rec.data[1])) << 16
		case recordStartSegmentAddress, recordStartLinearAddress:
		default:
			return nil, fmt.Errorf("line %d: unknown record type 0x%02X", lineNum, rec.kind)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !sawEOF {
		return nil, fmt.Errorf("missing end of file record")
	}
	return img, nil
}

type record struct {
	kind    byte
	address uint16
	data    []byte
}

func parseRecord(line string) (*record, error) {
	if line[0] != ':' {
		return nil, fmt.Errorf("record must start with ':'")
	}

	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	if len(raw) < MinimumRecordBytes {
		return nil, fmt.Errorf("record too short: got %d bytes, minimum is %d", len(raw), MinimumRecordBytes)
	}

	count := int(raw[0])
	if len(raw) != MinimumRecordBytes+count {
		return nil, fmt.Errorf("data length mismatch: got %d bytes, expected %d", len(raw), MinimumRecordBytes+count)
	}

	checksum := raw[len(raw)-1]
	if calculated := calculateChecksum(raw[:len(raw)-1]); checksum != calculated {
		return nil, fmt.Errorf("checksum mismatch: got 0x%02X, expected 0x%02X", checksum, calculated)
	}

	return &record{
		kind:    raw[3],
		address: uint16(raw[1])<<8 | uint16(raw[2]),
		data:    raw[4 : 4+count],
	}, nil
}

// calculateChecksum computes the two's complement of the byte sum.
func calculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}

// EncodeHex writes data as Intel HEX data records starting at address 0,
// followed by an end of file record.
func EncodeHex(w io.Writer, data []byte) error {
	if len(data) > engine.MemorySize {
		return fmt.Errorf("image of %d bytes exceeds %d byte memory", len(data), engine.MemorySize)
	}

	for off := 0; off < len(data); off += HexRecordSize {
		end := off + HexRecordSize
		if end > len(data) {
			end = len(data)
		}
		if err := writeRecord(w, recordData, uint16(off), data[off:end]); err != nil {
			return err
		}
	}
	return writeRecord(w, recordEOF, 0, nil)
}

func writeRecord(w io.Writer, kind byte, address uint16, data []byte) error {
	raw := make([]byte, 0, MinimumRecordBytes+len(data))
	raw = append(raw, byte(len(data)), byte(address>>8), byte(address), kind)
	raw = append(raw, data...)
	raw = append(raw, calculateChecksum(raw))

	_, err := fmt.Fprintf(w, ":%s\n", strings.ToUpper(hex.EncodeToString(raw)))
	return err
}
