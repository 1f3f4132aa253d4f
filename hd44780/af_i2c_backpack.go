// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// MCP23008 bit assignments on the backpack. The LCD data lines D4-D7 sit on
// GP1-GP4, so a nybble is shifted left by dataShift before it goes out.
//
// # Product Information
//
// https://www.adafruit.com/product/292
const (
	// pinShared is latched together with the LCD lines and preserved by every
	// write. It drives the backlight, active low.
	pinShared byte = 1 << 0
	// pinBusy is the GPIO bit the busy flag is read back on, and the IODIR bit
	// that is set while a poll is pending.
	pinBusy   byte = 1 << 1
	dataShift      = 1
	pinStrobe byte = 1 << 5 // E
	pinRead   byte = 1 << 6 // R/W, high for a read cycle
	pinRS     byte = 1 << 7 // register select, high for data RAM
)
