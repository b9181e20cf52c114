package programmer

import (
	"context"
	"fmt"
)

// Run serves the port until ctx is done or the port fails. Bytes queued
// during page polls are consumed before new port input.
//
// Example:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    log.Fatal(err)
//	}
func (s *Session) Run(ctx context.Context) error {
	s.logInfo("session started",
		"write_protection", s.config.WriteProtection,
		"input_buffer", s.input.Cap(),
	)

	for {
		b, err := s.next(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				s.logInfo("session stopped", "bytes_in", s.stats.BytesIn)
				return ctxErr
			}
			return fmt.Errorf("read input: %w", err)
		}

		if err := s.Feed(b); err != nil {
			s.logError("command failed", "error", err.Error())
			return err
		}
	}
}

// next returns the oldest unconsumed input byte.
func (s *Session) next(ctx context.Context) (byte, error) {
	if b, ok := s.input.Pop(); ok {
		return b, nil
	}
	return s.port.ReadByte(ctx)
}
