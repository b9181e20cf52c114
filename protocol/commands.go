package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildReadCmd constructs a Read command.
//
// Frame structure:
//
//	['r'][ADDR_H][ADDR_L]
//
// The device answers with the byte stored at the address.
func BuildReadCmd(address uint16) []byte {
	frame := make([]byte, 0, OpcodeSize+AddressSize)
	frame = append(frame, OpRead)
	return binary.BigEndian.AppendUint16(frame, address)
}

// BuildWriteCmd constructs a Write command.
//
// Frame structure:
//
//	['w'][ADDR_H][ADDR_L][DATA]
//
// The device answers with one acknowledgement byte once the write verified.
func BuildWriteCmd(address uint16, data byte) []byte {
	frame := make([]byte, 0, OpcodeSize+AddressSize+DataSize)
	frame = append(frame, OpWrite)
	frame = binary.BigEndian.AppendUint16(frame, address)
	return append(frame, data)
}

// BuildLoadHeader constructs the header of a Load command without its payload.
// Hosts that pace the payload against acknowledgements send the header first
// and then the data bytes one at a time.
//
// Frame structure:
//
//	['l'][ADDR_H][ADDR_L][COUNT_H][COUNT_L]
func BuildLoadHeader(address uint16, count uint16) []byte {
	frame := make([]byte, 0, OpcodeSize+AddressSize+CountSize)
	frame = append(frame, OpLoad)
	frame = binary.BigEndian.AppendUint16(frame, address)
	return binary.BigEndian.AppendUint16(frame, count)
}

// BuildLoadCmd constructs a complete Load command with its payload.
//
// Frame structure:
//
//	['l'][ADDR_H][ADDR_L][COUNT_H][COUNT_L][DATA(COUNT)]
//
// The device answers with one acknowledgement byte per data byte.
func BuildLoadCmd(address uint16, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}
	if len(data) > MaxCount {
		return nil, fmt.Errorf("data length %d exceeds maximum %d bytes", len(data), MaxCount)
	}

	frame := BuildLoadHeader(address, uint16(len(data)))
	return append(frame, data...), nil
}

// BuildDumpCmd constructs a Dump command.
//
// Frame structure:
//
//	['d'][ADDR_H][ADDR_L][COUNT_H][COUNT_L]
//
// The device answers with count bytes read upward from the address.
func BuildDumpCmd(address uint16, count uint16) []byte {
	frame := make([]byte, 0, OpcodeSize+AddressSize+CountSize)
	frame = append(frame, OpDump)
	frame = binary.BigEndian.AppendUint16(frame, address)
	return binary.BigEndian.AppendUint16(frame, count)
}

// BuildEraseCmd constructs an Erase command carrying the confirmation token.
//
// Frame structure:
//
//	['e'][0xBE][0xEF]
func BuildEraseCmd() []byte {
	return BuildEraseCmdWithToken(EraseConfirmation)
}

// BuildEraseCmdWithToken constructs an Erase command with an arbitrary token.
// Any token other than EraseConfirmation is rejected by the device.
func BuildEraseCmdWithToken(token uint16) []byte {
	frame := make([]byte, 0, OpcodeSize+AddressSize)
	frame = append(frame, OpErase)
	return binary.BigEndian.AppendUint16(frame, token)
}
