// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"github.com/coffeepi/devices/mcp23008"
	"periph.io/x/conn/v3/display"
)

// Backlight turns the backlight on for any non-zero intensity and off for 0.
// The backpack has no dimming.
//
// The backlight shares the output latch with the LCD lines; character and
// instruction writes carry its current state along.
func (dev *Dev) Backlight(intensity display.Intensity) error {
	v := dev.gpio | pinShared
	if intensity > 0 {
		v &^= pinShared
	}
	if err := dev.exp.WriteReg(mcp23008.GPIO, v); err != nil {
		return err
	}
	dev.gpio = v
	return nil
}

// BacklightOn reports the backlight state last written.
func (dev *Dev) BacklightOn() bool {
	return dev.gpio&pinShared == 0
}
