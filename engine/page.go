package engine

import (
	"fmt"

	"github.com/moffa90/go-eeprom/bus"
)

// Page buffers the bytes of one page. Byte i belongs to the address whose
// offset within its page is i.
type Page [PageSize]byte

// Set stores b at the page offset of addr.
func (p *Page) Set(addr uint16, b byte) {
	p[addr%PageSize] = b
}

// Offset returns the position of addr within its page.
func Offset(addr uint16) int {
	return int(addr % PageSize)
}

// WritePage programs count bytes from page starting at start as a single
// burst and polls only the last byte. The range must stay inside one page.
// idle runs between verification reads, typically to drain input.
//
// Example:
//
//	var pg engine.Page
//	for i, b := range data {
//	    pg.Set(start+uint16(i), b)
//	}
//	err := eng.WritePage(&pg, start, len(data), nil)
func (e *Engine) WritePage(page *Page, start uint16, count int, idle func()) error {
	start &= AddressMask
	offset := Offset(start)
	if count < 1 || count > PageSize || offset+count > PageSize {
		return &PageBoundaryError{Start: start, Count: count}
	}

	for i := 0; i < count; i++ {
		addr := start + uint16(i)
		if err := e.bus.SetAddress(addr, false); err != nil {
			return fmt.Errorf("set write address 0x%04X: %w", addr, err)
		}
		if i == 0 {
			if err := e.bus.SetDirection(bus.Output); err != nil {
				return fmt.Errorf("bus to output: %w", err)
			}
		}
		if err := e.bus.WriteBus(page[offset+i]); err != nil {
			return fmt.Errorf("write bus at 0x%04X: %w", addr, err)
		}
		if err := e.bus.PulseWriteEnable(); err != nil {
			return fmt.Errorf("pulse write enable at 0x%04X: %w", addr, err)
		}
	}

	last := start + uint16(count-1)
	polls, err := e.poll(last, page[offset+count-1], idle)
	if err != nil {
		return err
	}

	e.stats.PageWrites++
	e.stats.PageBytes += count
	e.logDebug("page written",
		"start", fmt.Sprintf("0x%04X", start),
		"count", count,
		"polls", polls,
	)

	if e.config.FlushCallback != nil {
		e.config.FlushCallback(Flush{Start: start, Count: count, Polls: polls})
	}
	return nil
}
