// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

// Register addresses. With IOCON.SEQOP clear the address pointer advances
// after every byte, so a block write starting at IODIR touches all eleven.
const (
	IODIR   byte = 0x00 // I/O direction, 1 = input
	IPOL    byte = 0x01 // input polarity
	GPINTEN byte = 0x02 // interrupt-on-change enable
	DEFVAL  byte = 0x03 // default compare value
	INTCON  byte = 0x04 // interrupt control
	IOCON   byte = 0x05 // configuration
	GPPU    byte = 0x06 // pull-up enable
	INTF    byte = 0x07 // interrupt flag
	INTCAP  byte = 0x08 // interrupt capture
	GPIO    byte = 0x09 // port
	OLAT    byte = 0x0A // output latch

	// NumRegisters is the size of the register file.
	NumRegisters = 11
)

// SEQOP is the IOCON bit that disables address pointer auto-increment.
const SEQOP byte = 0x20

// MaxBlock is the largest payload, register byte excluded, sent in one bus
// transaction.
const MaxBlock = 32

// safeState is the register file loaded on bring-up and on teardown: every
// pin an input, everything else cleared. Index is the register address.
var safeState = [NumRegisters]byte{
	IODIR:   0xff,
	IPOL:    0x00,
	GPINTEN: 0x00,
	DEFVAL:  0x00,
	INTCON:  0x00,
	IOCON:   0x00,
	GPPU:    0x00,
	INTF:    0x00,
	INTCAP:  0x00,
	GPIO:    0x00,
	OLAT:    0x00,
}

// SafeState returns a copy of the register file Reset loads.
func SafeState() [NumRegisters]byte {
	return safeState
}

var registerNames = [NumRegisters]string{
	"IODIR", "IPOL", "GPINTEN", "DEFVAL", "INTCON", "IOCON",
	"GPPU", "INTF", "INTCAP", "GPIO", "OLAT",
}

// RegisterName returns the datasheet name of reg.
func RegisterName(reg byte) string {
	if int(reg) < NumRegisters {
		return registerNames[reg]
	}
	return "UNKNOWN"
}
