// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the character LCD backpack drivers.
//
// The display is an HD44780 compatible controller wired in 4-bit mode to an
// MCP23008 I²C port expander. See the hd44780 package for the driver and the
// mcp23008 package for the register access it is built on.
package devices
