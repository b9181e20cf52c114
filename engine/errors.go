package engine

import (
	"errors"
	"fmt"
	"time"
)

// VerificationError indicates that a written byte never read back.
// It is only returned when a poll limit is configured.
type VerificationError struct {
	Address  uint16
	Expected byte
	Actual   byte
	Attempts int
	Elapsed  time.Duration
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed at 0x%04X: expected 0x%02X, got 0x%02X after %d reads",
		e.Address, e.Expected, e.Actual, e.Attempts)
}

// PageBoundaryError indicates a page write whose range leaves its page.
type PageBoundaryError struct {
	Start uint16
	Count int
}

func (e *PageBoundaryError) Error() string {
	return fmt.Sprintf("page write of %d bytes at 0x%04X crosses a %d byte page boundary",
		e.Count, e.Start, PageSize)
}

// IsVerification returns true if err is or wraps a VerificationError.
func IsVerification(err error) bool {
	var ve *VerificationError
	return errors.As(err, &ve)
}

// IsPageBoundary returns true if err is or wraps a PageBoundaryError.
func IsPageBoundary(err error) bool {
	var pe *PageBoundaryError
	return errors.As(err, &pe)
}
