package engine

import "fmt"

// Software data protection command addresses.
const (
	ProtectAddr1 = 0x5555
	ProtectAddr2 = 0x2AAA
)

// step is one command write of a protection sequence.
type step struct {
	addr uint16
	data byte
}

var (
	unlockSequence = []step{
		{ProtectAddr1, 0xAA},
		{ProtectAddr2, 0x55},
		{ProtectAddr1, 0x80},
		{ProtectAddr1, 0xAA},
		{ProtectAddr2, 0x55},
		{ProtectAddr1, 0x20},
	}

	lockSequence = []step{
		{ProtectAddr1, 0xAA},
		{ProtectAddr2, 0x55},
		{ProtectAddr1, 0xA0},
	}

	// erasePreamble precedes the unpolled chip erase code at ProtectAddr1.
	erasePreamble = []step{
		{ProtectAddr1, 0xAA},
		{ProtectAddr2, 0x55},
		{ProtectAddr1, 0x80},
		{ProtectAddr1, 0xAA},
		{ProtectAddr2, 0x55},
	}
)

// chipEraseCode completes erasePreamble.
const chipEraseCode = 0x10

func (e *Engine) runSequence(seq []step) error {
	for _, s := range seq {
		if err := e.WriteByte(s.addr, s.data); err != nil {
			return err
		}
	}
	return nil
}

// Unlock disables software data protection so ordinary writes program the
// array. The device gives no acknowledgement; a wrong sequence simply
// leaves it protected.
func (e *Engine) Unlock() error {
	if err := e.runSequence(unlockSequence); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	e.config.Sleep(e.config.Timing.SettleTime)
	e.stats.Unlocks++
	e.logDebug("write protection disabled")
	return nil
}

// Lock enables software data protection.
func (e *Engine) Lock() error {
	if err := e.runSequence(lockSequence); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	e.config.Sleep(e.config.Timing.SettleTime)
	e.stats.Locks++
	e.logDebug("write protection enabled")
	return nil
}

// Erase sets every byte of the array to ErasedValue and leaves the device
// protected. The erase itself is timed, not polled.
func (e *Engine) Erase() error {
	if err := e.runSequence(erasePreamble); err != nil {
		return fmt.Errorf("erase: %w", err)
	}
	if err := e.strobe(ProtectAddr1, chipEraseCode); err != nil {
		return fmt.Errorf("erase: %w", err)
	}
	e.config.Sleep(e.config.Timing.EraseTime)
	e.stats.Erases++
	e.logInfo("chip erased")

	return e.Lock()
}
