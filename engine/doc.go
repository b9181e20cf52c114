// Package engine drives read, write, page and protection cycles on a
// 28C256 class parallel EEPROM through a bus.Bus.
//
// # Writes
//
// WriteByte presents one byte, pulses write enable and then polls the
// address until the device reads back the written value. While the
// internal write cycle runs the device answers with the complement of the
// data, so no fixed delay is needed.
//
// WritePage bursts up to PageSize bytes of one page and polls only the
// last byte; the device programs the whole page in a single cycle.
//
// # Verification Policy
//
// By default polling never gives up, trusting the device. A limit turns a
// dead or protected device into a VerificationError:
//
//	eng := engine.New(b,
//	    engine.WithMaxPollAttempts(100000),
//	    engine.WithPollTimeout(50*time.Millisecond),
//	)
//
// # Write Protection
//
// Unlock and Lock issue the software data protection sequences at 0x5555
// and 0x2AAA. Erase runs the chip erase sequence, waits the erase time and
// locks the device again. None of these are acknowledged by the device.
package engine
