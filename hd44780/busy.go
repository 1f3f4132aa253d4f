// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"github.com/coffeepi/devices/mcp23008"
)

// pollable reports whether cmd has a long, variable execution time. The busy
// flag is polled before the transaction that follows one of these; every
// other instruction completes faster than the bus can issue the next one.
func pollable(cmd byte) bool {
	return cmd == cmdClearDisplay || cmd == cmdReturnHome
}

// pollPending reports whether the busy pin is configured as an input, which
// means the next transaction must wait on the busy flag first.
func (dev *Dev) pollPending() bool {
	return dev.ddrb&pinBusy != 0
}

// Command sends one instruction byte.
func (dev *Dev) Command(cmd byte) error {
	return dev.send([]byte{cmd}, false)
}

// Write sends p to the display RAM selected by the last address instruction,
// normally the character at the cursor. Implements io.Writer.
func (dev *Dev) Write(p []byte) (int, error) {
	if err := dev.send(p, true); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString sends the bytes of text as character data. Newlines are not
// interpreted; see Message.
func (dev *Dev) WriteString(text string) (int, error) {
	return dev.Write([]byte(text))
}

// send is the single write path. values are clocked out as data when data is
// true, otherwise as instructions.
func (dev *Dev) send(values []byte, data bool) error {
	if len(values) == 0 {
		return nil
	}
	if dev.pollPending() {
		if err := dev.waitReady(); err != nil {
			return err
		}
	}

	mask := dev.gpio & pinShared
	if data {
		mask |= pinRS
	}
	buf := make([]byte, 0, mcp23008.MaxBlock)
	last := len(values) - 1
	for i, v := range values {
		n := encodeNybbles(mask, v)
		buf = append(buf, n[:]...)
		if len(buf) >= mcp23008.MaxBlock || i == last {
			if err := dev.exp.WriteBlock(mcp23008.GPIO, buf); err != nil {
				return err
			}
			dev.gpio = buf[len(buf)-1]
			buf = buf[:0]
		}
	}

	if !data && len(values) == 1 && pollable(values[0]) {
		dev.ddrb |= pinBusy
		return dev.exp.WriteReg(mcp23008.IODIR, dev.ddrb)
	}
	return nil
}

// waitReady polls the busy flag until it clears, then turns the busy pin back
// into an output.
func (dev *Dev) waitReady() error {
	lo := dev.gpio&pinShared | pinRead
	hi := lo | pinStrobe

	if err := dev.exp.WriteReg(mcp23008.GPIO, lo); err != nil {
		return err
	}
	dev.gpio = lo
	for n := 0; ; n++ {
		if dev.pollLimit > 0 && n >= dev.pollLimit {
			return ErrBusyTimeout
		}
		if err := dev.exp.WriteReg(mcp23008.GPIO, hi); err != nil {
			return err
		}
		// First nybble of a status read: busy flag and AC6-AC4.
		bits, err := dev.exp.ReadByte()
		if err != nil {
			return err
		}
		// The second nybble (AC3-AC0) still has to be clocked out.
		if err := dev.exp.WriteBlock(mcp23008.GPIO, []byte{lo, hi, lo}); err != nil {
			return err
		}
		if bits&pinBusy == 0 {
			break
		}
	}

	dev.ddrb &^= pinBusy
	return dev.exp.WriteReg(mcp23008.IODIR, dev.ddrb)
}
