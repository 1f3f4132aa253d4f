// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23008 provides register level access to the MCP23008 8-bit I²C
// GPIO expander.
//
// Only what a character LCD backpack needs is exposed: single register
// writes, block writes to one register or a run of registers, and single
// byte reads. Pin level configuration (pull-ups, interrupts, polarity) is
// left at the values in SafeState.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/21919e.pdf
package mcp23008
