package sim

// write is one latched write enable pulse.
type write struct {
	addr uint16
	data byte
}

// Software data protection command addresses.
const (
	sdpAddr1 = 0x5555
	sdpAddr2 = 0x2AAA
)

type sdpAction uint8

const (
	actionNone sdpAction = iota
	actionLock
	actionUnlock
	actionErase
)

var sdpSequences = []struct {
	action sdpAction
	seq    []write
}{
	{actionLock, []write{{sdpAddr1, 0xAA}, {sdpAddr2, 0x55}, {sdpAddr1, 0xA0}}},
	{actionUnlock, []write{{sdpAddr1, 0xAA}, {sdpAddr2, 0x55}, {sdpAddr1, 0x80}, {sdpAddr1, 0xAA}, {sdpAddr2, 0x55}, {sdpAddr1, 0x20}}},
	{actionErase, []write{{sdpAddr1, 0xAA}, {sdpAddr2, 0x55}, {sdpAddr1, 0x80}, {sdpAddr1, 0xAA}, {sdpAddr2, 0x55}, {sdpAddr1, 0x10}}},
}

// sdpDecoder recognises protection command sequences in the write stream.
// Writes that may still belong to a sequence are held rather than
// programmed.
type sdpDecoder struct {
	held []write
}

// match classifies a candidate held sequence: complete returns the action,
// prefix reports whether more writes may complete a sequence.
func match(held []write) (action sdpAction, prefix bool) {
	for _, s := range sdpSequences {
		if len(held) > len(s.seq) {
			continue
		}
		ok := true
		for i, w := range held {
			if s.seq[i] != w {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if len(held) == len(s.seq) {
			return s.action, false
		}
		prefix = true
	}
	return actionNone, prefix
}

// feed adds a write. It returns the writes that turned out to be
// ordinary data and the action of a completed sequence.
func (d *sdpDecoder) feed(w write) (data []write, action sdpAction) {
	candidate := append(d.held, w)
	if action, prefix := match(candidate); action != actionNone || prefix {
		if action != actionNone {
			d.held = nil
		} else {
			d.held = candidate
		}
		return nil, action
	}

	// Broken prefix. Held writes are data; the new write may start over.
	data = append([]write(nil), d.held...)
	d.held = d.held[:0]
	if _, prefix := match([]write{w}); prefix {
		d.held = append(d.held, w)
	} else {
		data = append(data, w)
	}
	return data, actionNone
}

// flush releases every held write as data.
func (d *sdpDecoder) flush() []write {
	data := d.held
	d.held = nil
	return data
}

// echo returns the value of the latest held write at addr.
func (d *sdpDecoder) echo(addr uint16) (byte, bool) {
	for i := len(d.held) - 1; i >= 0; i-- {
		if d.held[i].addr == addr {
			return d.held[i].data, true
		}
	}
	return 0, false
}

// last returns the address of the most recent held write.
func (d *sdpDecoder) last() (uint16, bool) {
	if len(d.held) == 0 {
		return 0, false
	}
	return d.held[len(d.held)-1].addr, true
}
