// Package link carries the programmer byte stream.
//
// Serial drives a real serial port through go.bug.st/serial; Pipe is an
// in-memory link for tests and simulations. Both expose the number of
// received bytes not yet read, which the programmer reports in its
// acknowledgements.
package link
