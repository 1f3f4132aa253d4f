// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the bus address with A0-A2 tied low.
const DefaultAddress uint16 = 0x20

// Dev is an MCP23008 on an I²C bus.
//
// Every method is a blocking bus round trip. Failures are returned as is,
// wrapped with the register involved; nothing is retried.
type Dev struct {
	d *i2c.Dev
}

// New returns a handle to the expander at addr. No bus traffic is generated.
func New(bus i2c.Bus, addr uint16) *Dev {
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}}
}

// WriteReg writes v to reg.
func (dev *Dev) WriteReg(reg, v byte) error {
	if err := dev.d.Tx([]byte{reg, v}, nil); err != nil {
		return fmt.Errorf("mcp23008: write %s: %w", RegisterName(reg), err)
	}
	return nil
}

// WriteBlock writes data starting at reg. Payloads longer than MaxBlock are
// split into several transactions, each addressed at reg again. In byte mode
// (SEQOP set) that streams every byte into the same register.
func (dev *Dev) WriteBlock(reg byte, data []byte) error {
	buf := make([]byte, 0, MaxBlock+1)
	for len(data) > 0 {
		n := min(len(data), MaxBlock)
		buf = append(buf[:0], reg)
		buf = append(buf, data[:n]...)
		if err := dev.d.Tx(buf, nil); err != nil {
			return fmt.Errorf("mcp23008: block write %s: %w", RegisterName(reg), err)
		}
		data = data[n:]
	}
	return nil
}

// ReadByte reads one byte at the current address pointer, which is the
// register last addressed by a write.
func (dev *Dev) ReadByte() (byte, error) {
	var r [1]byte
	if err := dev.d.Tx(nil, r[:]); err != nil {
		return 0, fmt.Errorf("mcp23008: read: %w", err)
	}
	return r[0], nil
}

// ReadReg reads reg.
func (dev *Dev) ReadReg(reg byte) (byte, error) {
	var r [1]byte
	if err := dev.d.Tx([]byte{reg}, r[:]); err != nil {
		return 0, fmt.Errorf("mcp23008: read %s: %w", RegisterName(reg), err)
	}
	return r[0], nil
}

// SetSequential turns address pointer auto-increment on or off.
func (dev *Dev) SetSequential(on bool) error {
	var v byte
	if !on {
		v = SEQOP
	}
	return dev.WriteReg(IOCON, v)
}

// Reset enables sequential addressing and reloads the whole register file
// with SafeState. Sequential addressing is left on.
func (dev *Dev) Reset() error {
	if err := dev.SetSequential(true); err != nil {
		return err
	}
	regs := SafeState()
	return dev.WriteBlock(IODIR, regs[:])
}

func (dev *Dev) String() string {
	return fmt.Sprintf("MCP23008@%#02x", dev.d.Addr)
}
