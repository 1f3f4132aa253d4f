// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/display"
)

// Clear blanks the display and moves the cursor home.
func (dev *Dev) Clear() error {
	return dev.Command(cmdClearDisplay)
}

// Home moves the cursor to row 0, column 0 and undoes any display shift.
func (dev *Dev) Home() error {
	return dev.Command(cmdReturnHome)
}

// Display turns the display on or off. DDRAM is retained while off.
func (dev *Dev) Display(on bool) error {
	return dev.setControl(setBits(dev.displaycontrol, displayOn, on))
}

// ShowCursor turns the underline cursor on or off.
func (dev *Dev) ShowCursor(on bool) error {
	return dev.setControl(setBits(dev.displaycontrol, cursorOn, on))
}

// Blink turns the blinking block cursor on or off.
func (dev *Dev) Blink(on bool) error {
	return dev.setControl(setBits(dev.displaycontrol, blinkOn, on))
}

// ToggleCursor flips the underline cursor.
func (dev *Dev) ToggleCursor() error {
	return dev.setControl(dev.displaycontrol ^ cursorOn)
}

// ToggleBlink flips the blinking cursor.
func (dev *Dev) ToggleBlink() error {
	return dev.setControl(dev.displaycontrol ^ blinkOn)
}

// Cursor sets the cursor mode. Modes combine, so
// Cursor(display.CursorUnderline, display.CursorBlink) shows both.
func (dev *Dev) Cursor(modes ...display.CursorMode) error {
	v := dev.displaycontrol &^ (cursorOn | blinkOn)
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
		case display.CursorUnderline:
			v |= cursorOn
		case display.CursorBlink, display.CursorBlock:
			v |= blinkOn
		default:
			return fmt.Errorf("hd44780: cursor mode %d: %w", mode, display.ErrInvalidCommand)
		}
	}
	return dev.setControl(v)
}

// ScrollLeft shifts the whole display one position left without changing
// DDRAM.
func (dev *Dev) ScrollLeft() error {
	return dev.setShift(displayMove | moveLeft)
}

// ScrollRight shifts the whole display one position right without changing
// DDRAM.
func (dev *Dev) ScrollRight() error {
	return dev.setShift(displayMove | moveRight)
}

// Move moves the cursor one position. Only Forward and Backward are
// supported.
func (dev *Dev) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Forward:
		return dev.setShift(cursorMove | moveRight)
	case display.Backward:
		return dev.setShift(cursorMove | moveLeft)
	default:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
}

// LeftToRight makes text flow left to right from the cursor.
func (dev *Dev) LeftToRight() error {
	return dev.setMode(dev.displaymode | entryLeft)
}

// RightToLeft makes text flow right to left from the cursor.
func (dev *Dev) RightToLeft() error {
	return dev.setMode(dev.displaymode &^ entryLeft)
}

// AutoScroll shifts the display on every character written, which right
// justifies text at the cursor.
func (dev *Dev) AutoScroll(enabled bool) error {
	return dev.setMode(setBits(dev.displaymode, entryShiftIncrement, enabled))
}

// SetCursor moves the cursor to col, row. row is clamped to the rows of the
// display rather than rejected; a negative col is taken as 0.
func (dev *Dev) SetCursor(col, row int) error {
	row = max(0, min(row, dev.rows-1))
	col = max(0, col)
	addr := byte(col+int(rowOffsets[row])) & 0x7f
	return dev.Command(cmdSetDDRAMAddr | addr)
}

// MoveTo moves the cursor to row, col, both counted from zero. Unlike
// SetCursor an out of range position is an error.
func (dev *Dev) MoveTo(row, col int) error {
	if row < dev.MinRow() || row >= dev.rows || col < dev.MinCol() || col >= dev.cols {
		return fmt.Errorf("hd44780: MoveTo(%d, %d) out of range", row, col)
	}
	return dev.SetCursor(col, row)
}

// CreateChar stores a 5x8 glyph in CGRAM slot 0-7. Each byte is one row, top
// first, bit 4 the leftmost dot. Writing byte(slot) then shows the glyph.
// The cursor is left at DDRAM address 0.
func (dev *Dev) CreateChar(slot int, bitmap [8]byte) error {
	if slot < 0 || slot > 7 {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	if err := dev.Command(cmdSetCGRAMAddr | byte(slot)<<3); err != nil {
		return err
	}
	if _, err := dev.Write(bitmap[:]); err != nil {
		return err
	}
	return dev.Command(cmdSetDDRAMAddr)
}

// Message writes text at the cursor. Each newline moves to the start of the
// second row.
func (dev *Dev) Message(text string) error {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			if err := dev.Command(cmdSetDDRAMAddr | rowOffsets[1]); err != nil {
				return err
			}
		}
		if _, err := dev.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

// setControl sends a display control instruction and records v once the
// controller has it.
func (dev *Dev) setControl(v byte) error {
	if err := dev.Command(cmdDisplayControl | v); err != nil {
		return err
	}
	dev.displaycontrol = v
	return nil
}

func (dev *Dev) setMode(v byte) error {
	if err := dev.Command(cmdEntryModeSet | v); err != nil {
		return err
	}
	dev.displaymode = v
	return nil
}

func (dev *Dev) setShift(v byte) error {
	if err := dev.Command(cmdCursorShift | v); err != nil {
		return err
	}
	dev.displayshift = v
	return nil
}

func setBits(v, bits byte, on bool) byte {
	if on {
		return v | bits
	}
	return v &^ bits
}
