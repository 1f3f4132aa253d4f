// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package backpacksim emulates an HD44780 display wired to an MCP23008 the
// way the Adafruit I2C backpack is, and exposes it as an i2c.Bus.
//
// The expander is modeled at the register level (address pointer, IOCON
// sequential mode, direction and latch registers) and the LCD at the pin
// level: a nybble is latched on every falling edge of E with R/W low. The
// contents of DDRAM and CGRAM can be inspected afterwards, which makes the
// package useful both for tests and for running without hardware.
package backpacksim

import (
	"fmt"
	"sync"

	"github.com/coffeepi/devices/mcp23008"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Output latch bit assignments, matching the backpack wiring.
const (
	bitBusy   = 1 << 1
	dataShift = 1
	bitE      = 1 << 5
	bitRW     = 1 << 6
	bitRS     = 1 << 7
)

var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// Opts configures the emulated display.
type Opts struct {
	Addr uint16 // bus address, default mcp23008.DefaultAddress
	Rows int    // default 2
	Cols int    // default 16
	// BusyPolls is the number of status reads for which the controller
	// reports busy after a clear or home instruction.
	BusyPolls int

	_ struct{}
}

// Sim is the emulated backpack. It is safe for concurrent use.
type Sim struct {
	mu   sync.Mutex
	addr uint16
	rows int
	cols int

	regs    [mcp23008.NumRegisters]byte
	pointer byte

	lcd       controller
	busyPolls int
	busy      int
	prevE     bool
	txCount   int
}

// New returns an emulator in power-on state.
func New(opts *Opts) *Sim {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Addr == 0 {
		o.Addr = mcp23008.DefaultAddress
	}
	if o.Rows == 0 {
		o.Rows = 2
	}
	if o.Cols == 0 {
		o.Cols = 16
	}
	s := &Sim{addr: o.Addr, rows: o.Rows, cols: o.Cols, busyPolls: o.BusyPolls}
	s.regs = mcp23008.SafeState()
	s.lcd.reset()
	return s
}

// Tx implements i2c.Bus.
func (s *Sim) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if addr != s.addr {
		return fmt.Errorf("backpacksim: no device at address %#02x", addr)
	}
	s.txCount++
	if len(w) > 0 {
		if int(w[0]) >= mcp23008.NumRegisters {
			return fmt.Errorf("backpacksim: register %#02x does not exist", w[0])
		}
		s.pointer = w[0]
		for _, b := range w[1:] {
			s.writeReg(s.pointer, b)
			s.advance()
		}
	}
	for i := range r {
		r[i] = s.readReg(s.pointer)
		s.advance()
	}
	return nil
}

// SetSpeed implements i2c.Bus. Any speed is accepted.
func (s *Sim) SetSpeed(f physic.Frequency) error {
	return nil
}

// Close implements io.Closer.
func (s *Sim) Close() error {
	return nil
}

func (s *Sim) String() string {
	return fmt.Sprintf("backpacksim(%#02x)", s.addr)
}

func (s *Sim) advance() {
	if s.regs[mcp23008.IOCON]&mcp23008.SEQOP != 0 {
		return
	}
	s.pointer = (s.pointer + 1) % mcp23008.NumRegisters
}

func (s *Sim) writeReg(reg, v byte) {
	switch reg {
	case mcp23008.GPIO, mcp23008.OLAT:
		s.regs[mcp23008.GPIO] = v
		s.regs[mcp23008.OLAT] = v
		s.pins(v)
	case mcp23008.INTF:
		// read-only
	default:
		s.regs[reg] = v
	}
}

func (s *Sim) readReg(reg byte) byte {
	if reg != mcp23008.GPIO {
		return s.regs[reg]
	}
	// Output pins read back the latch; input pins follow the LCD, which only
	// drives the data lines during a read cycle with E high.
	iodir := s.regs[mcp23008.IODIR]
	olat := s.regs[mcp23008.OLAT]
	var lines byte
	if olat&bitRW != 0 && olat&bitE != 0 && s.busy > 0 {
		lines |= bitBusy
		s.busy--
	}
	return olat&^iodir | lines&iodir
}

// pins reacts to a new output latch value.
func (s *Sim) pins(v byte) {
	e := v&bitE != 0
	if s.prevE && !e && v&bitRW == 0 {
		if s.lcd.clock((v>>dataShift)&0x0f, v&bitRS != 0) {
			s.busy = s.busyPolls
		}
	}
	s.prevE = e
}

// Lines returns the visible characters of each row, display shift applied.
// A display that is off shows spaces.
func (s *Sim) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, s.rows)
	for row := range s.rows {
		b := make([]byte, s.cols)
		for col := range s.cols {
			if !s.lcd.on() {
				b[col] = ' '
				continue
			}
			b[col] = s.lcd.ddram[visibleAddr(rowOffsets[row], col, s.lcd.shift)]
		}
		out[row] = string(b)
	}
	return out
}

// visibleAddr maps a screen position to its DDRAM address. Each of the two
// DDRAM lines is 40 characters long and scrolls as a ring.
func visibleAddr(offset byte, col, shift int) byte {
	base := offset & 0x40
	pos := int(offset&0x3f) + col - shift
	pos = ((pos % lineLen) + lineLen) % lineLen
	return base + byte(pos)
}

// Address returns the address counter.
func (s *Sim) Address() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lcd.ac
}

// DisplayOn reports whether the display is turned on.
func (s *Sim) DisplayOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lcd.on()
}

// Control returns the last display control flags (display, cursor, blink).
func (s *Sim) Control() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lcd.control
}

// EntryMode returns the last entry mode flags.
func (s *Sim) EntryMode() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lcd.entry
}

// Glyph returns CGRAM slot 0-7.
func (s *Sim) Glyph(slot int) [8]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var g [8]byte
	copy(g[:], s.lcd.cgram[(slot&7)*8:])
	return g
}

// Register returns the current value of an expander register, 0 for an
// address past OLAT.
func (s *Sim) Register(reg byte) byte {
	if int(reg) >= mcp23008.NumRegisters {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

// Busy reports whether the controller would answer a status read as busy.
func (s *Sim) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy > 0
}

// FourBit reports whether the controller is in 4-bit interface mode.
func (s *Sim) FourBit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lcd.fourBit
}

// Transactions returns the number of bus transactions addressed to the
// expander.
func (s *Sim) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

var _ i2c.BusCloser = &Sim{}
