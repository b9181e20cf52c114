// Package protocol defines the byte-stream command protocol spoken by the
// parallel EEPROM programmer.
//
// # Protocol Overview
//
// Commands are an opcode character, a big-endian 16-bit address and an
// operation-specific payload:
//
//	Read:  ['r'][ADDR_H][ADDR_L]                              -> [DATA]
//	Write: ['w'][ADDR_H][ADDR_L][DATA]                        -> [ACK]
//	Load:  ['l'][ADDR_H][ADDR_L][COUNT_H][COUNT_L][DATA...]   -> [ACK] per data byte
//	Dump:  ['d'][ADDR_H][ADDR_L][COUNT_H][COUNT_L]            -> [DATA] x COUNT
//	Erase: ['e'][0xBE][0xEF]                                  -> [0x01] erased / [0x00] rejected
//
// There is no framing, length prefix or checksum. Exactly one command is in
// flight at a time and the device parses it byte by byte. An acknowledgement
// byte carries the number of input bytes still pending on the device, which a
// host may use to pace a Load.
//
// # Command Builders
//
// Hosts use the Build* functions to create command frames:
//
//	frame := protocol.BuildWriteCmd(0x1234, 0xA5)
//	frame, err := protocol.BuildLoadCmd(0x0000, image)
//
// # Diagnostics
//
// An unrecognised opcode produces a text line instead of a response byte:
//
//	Invalid command: x\r\n
//
// The line shares the link with data responses, so hosts only expect it
// where a command was malformed. See InvalidCommandError.
package protocol
