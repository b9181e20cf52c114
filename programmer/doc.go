// Package programmer implements the device side of the EEPROM programmer
// protocol on top of the engine.
//
// # Overview
//
// A Session owns the protocol state machine:
//
//	Idle --opcode--> Address --2 bytes--> Parameter --payload--> Idle
//
// Read and Erase complete after the address. Write takes one data byte,
// Dump a 16-bit count. Load takes a 16-bit count followed by that many data
// bytes, which are gathered per page and written as page bursts.
//
// # Basic Usage
//
//	chip := sim.New()
//	eng := engine.New(chip)
//	port := link.NewPipe()
//
//	s := programmer.NewSession(eng, port)
//	go s.Run(ctx)
//
//	port.Send(protocol.BuildWriteCmd(0x0000, 0x42)...)
//
// # Acknowledgements
//
// Every Write and every Load data byte is answered by one byte holding the
// number of input bytes received but not yet consumed, clamped to 255.
// Hosts use it to keep the device input from overflowing.
//
// # Write Protection
//
// By default a Write and each Load page are bracketed by the unlock and
// lock sequences, and an Erase leaves the device protected. Sessions
// created with WithWriteProtection(false) write directly and unlock the
// device again after an Erase.
//
// # Diagnostics
//
// An invalid opcode and a write that fails verification produce a text
// line instead of a response byte. Verification only fails when the engine
// has a poll limit configured; see engine.WithMaxPollAttempts.
package programmer
