// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// encodeNybbles returns the four output latch values that clock value into the
// controller over the 4 data lines: high nybble with the strobe raised then
// lowered, then the low nybble the same way. mask is OR'ed into every byte.
func encodeNybbles(mask, value byte) [4]byte {
	hi := mask | (value>>4)<<dataShift
	lo := mask | (value&0x0f)<<dataShift
	return [4]byte{hi | pinStrobe, hi, lo | pinStrobe, lo}
}
