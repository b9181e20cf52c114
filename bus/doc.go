// Package bus abstracts the electrical interface to a parallel memory.
//
// The Bus interface carries the five capabilities the programming engine
// needs. GPIOBus implements it on periph.io pins; the sim package provides
// an in-memory implementation for tests.
//
// # Address Latch
//
// Addresses reach the memory through a 16-bit shift register:
//
//	bit 15      output disable (1 = memory does not drive the bus)
//	bits 14..0  address
//
// ShiftLatch clocks the word in MSB first and pulses the latch line once.
package bus
