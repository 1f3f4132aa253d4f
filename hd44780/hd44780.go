// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls a Hitachi HD44780 character LCD wired in 4-bit mode
// to an MCP23008 I²C port expander, as on the Adafruit I2C/SPI LCD backpack.
//
// The I²C bus is slow compared to the controller, so the driver keeps a shadow
// of the expander's output latch and direction register instead of reading
// them back, streams nybble strobes as block writes, and only polls the busy
// flag after clear and home, the two instructions with a long and variable
// execution time. No fixed delays are used.
//
// A Dev is not safe for concurrent use; callers must serialize access.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"errors"
	"fmt"

	"github.com/coffeepi/devices/mcp23008"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// Instructions.
const (
	cmdClearDisplay   byte = 0x01
	cmdReturnHome     byte = 0x02
	cmdEntryModeSet   byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdCursorShift    byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAMAddr   byte = 0x40
	cmdSetDDRAMAddr   byte = 0x80
)

// Entry mode flags.
const (
	entryRight          byte = 0x00
	entryLeft           byte = 0x02
	entryShiftIncrement byte = 0x01
	entryShiftDecrement byte = 0x00
)

// Display control flags.
const (
	displayOn  byte = 0x04
	displayOff byte = 0x00
	cursorOn   byte = 0x02
	cursorOff  byte = 0x00
	blinkOn    byte = 0x01
	blinkOff   byte = 0x00
)

// Cursor/display shift flags.
const (
	displayMove byte = 0x08
	cursorMove  byte = 0x00
	moveRight   byte = 0x04
	moveLeft    byte = 0x00
)

// Function set flags.
const (
	function2Line   byte = 0x08
	function5x8Dots byte = 0x00
)

// rowOffsets is the DDRAM address of the first column of each row.
var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

const (
	// DefaultBusyPollLimit is the number of busy flag reads after which
	// ErrBusyTimeout is returned.
	DefaultBusyPollLimit = 1000

	maxCols = 40
)

var (
	// ErrBusyTimeout is returned when the controller keeps reporting busy.
	// The next operation polls again.
	ErrBusyTimeout = errors.New("hd44780: device unresponsive, busy flag never cleared")
	// ErrInvalidSlot is returned by CreateChar for a slot outside 0-7.
	ErrInvalidSlot = errors.New("hd44780: glyph slot out of range")
)

// Opts holds the display geometry and the busy poll policy.
type Opts struct {
	Rows int // 1 to 4, default 2
	Cols int // default 16
	// BusyPollLimit bounds the busy flag poll loop. Zero selects
	// DefaultBusyPollLimit, a negative value polls forever.
	BusyPollLimit int

	_ struct{}
}

// Dev is an HD44780 display behind an MCP23008.
//
// Implements display.TextDisplay and display.DisplayBacklight.
type Dev struct {
	exp       *mcp23008.Dev
	rows      int
	cols      int
	pollLimit int

	gpio byte // last value written to the output latch
	ddrb byte // last value written to IODIR; pinBusy set while a poll is pending

	displayshift   byte
	displaymode    byte
	displaycontrol byte
}

// New brings up the expander at addr and the display attached to it. opts may
// be nil to use a 2x16 display.
//
// The expander's register file is reloaded and the controller is put through
// its 4-bit initialization. The first instruction sent afterwards waits on the
// busy flag.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	o := Opts{Rows: 2, Cols: 16}
	if opts != nil {
		o = *opts
		if o.Rows == 0 {
			o.Rows = 2
		}
		if o.Cols == 0 {
			o.Cols = 16
		}
	}
	if o.Rows < 1 || o.Rows > len(rowOffsets) {
		return nil, fmt.Errorf("hd44780: %d rows not supported", o.Rows)
	}
	if o.Cols < 1 || o.Cols > maxCols {
		return nil, fmt.Errorf("hd44780: %d columns not supported", o.Cols)
	}
	switch {
	case o.BusyPollLimit == 0:
		o.BusyPollLimit = DefaultBusyPollLimit
	case o.BusyPollLimit < 0:
		o.BusyPollLimit = 0
	}
	dev := &Dev{
		exp:            mcp23008.New(bus, addr),
		rows:           o.Rows,
		cols:           o.Cols,
		pollLimit:      o.BusyPollLimit,
		ddrb:           pinBusy,
		displayshift:   cursorMove | moveRight,
		displaymode:    entryLeft | entryShiftDecrement,
		displaycontrol: displayOn | cursorOff | blinkOff,
	}
	if err := dev.init(); err != nil {
		return nil, err
	}
	return dev, nil
}

func (dev *Dev) init() error {
	if err := dev.exp.Reset(); err != nil {
		return err
	}
	// Byte mode from here on: block writes to GPIO all land in GPIO.
	if err := dev.exp.SetSequential(false); err != nil {
		return err
	}
	for _, cmd := range []byte{
		0x33, // 8-bit, 8-bit
		0x32, // 8-bit, 4-bit
		cmdFunctionSet | function2Line | function5x8Dots,
		cmdClearDisplay,
		cmdCursorShift | dev.displayshift,
		cmdEntryModeSet | dev.displaymode,
		cmdDisplayControl | dev.displaycontrol,
		cmdReturnHome,
	} {
		if err := dev.Command(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Halt turns the backlight bookkeeping off and hands the expander back in its
// power-on configuration: sequential addressing and SafeState registers, so
// another driver can take it over.
func (dev *Dev) Halt() error {
	dev.gpio = pinShared
	return dev.exp.Reset()
}

// Rows returns the number of rows.
func (dev *Dev) Rows() int {
	return dev.rows
}

// Cols returns the number of columns.
func (dev *Dev) Cols() int {
	return dev.cols
}

// MinRow returns 0; rows are numbered from zero.
func (dev *Dev) MinRow() int {
	return 0
}

// MinCol returns 0; columns are numbered from zero.
func (dev *Dev) MinCol() int {
	return 0
}

func (dev *Dev) String() string {
	return fmt.Sprintf("HD44780::%s - Rows: %d, Cols: %d", dev.exp, dev.rows, dev.cols)
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
