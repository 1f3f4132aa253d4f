// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package backpacksim

const lineLen = 40

// controller models the HD44780 instruction set.
type controller struct {
	fourBit bool
	half    bool
	pending byte

	ddram  [0x80]byte
	cgram  [64]byte
	ac     byte
	cgMode bool

	entry    byte
	control  byte
	function byte
	shift    int
}

func (c *controller) reset() {
	for i := range c.ddram {
		c.ddram[i] = ' '
	}
	c.entry = 0x02
	c.fourBit = false
	c.half = false
}

func (c *controller) on() bool {
	return c.control&0x04 != 0
}

// clock latches one nybble. In 8-bit mode only D7-D4 are wired, so each
// nybble is a whole transfer with the low lines reading 0. It reports whether
// the transfer started a slow instruction.
func (c *controller) clock(n byte, rs bool) bool {
	if !c.fourBit {
		return c.transfer(n<<4, rs)
	}
	if !c.half {
		c.pending = n << 4
		c.half = true
		return false
	}
	c.half = false
	return c.transfer(c.pending|n, rs)
}

func (c *controller) transfer(b byte, rs bool) bool {
	if rs {
		c.data(b)
		return false
	}
	return c.exec(b)
}

func (c *controller) exec(cmd byte) bool {
	switch {
	case cmd&0x80 != 0:
		c.ac = cmd & 0x7f
		c.cgMode = false
	case cmd&0x40 != 0:
		c.ac = cmd & 0x3f
		c.cgMode = true
	case cmd&0x20 != 0:
		c.function = cmd
		if cmd&0x10 == 0 && !c.fourBit {
			c.fourBit = true
			c.half = false
		}
	case cmd&0x10 != 0:
		right := cmd&0x04 != 0
		if cmd&0x08 != 0 {
			if right {
				c.shift++
			} else {
				c.shift--
			}
		} else {
			c.step(right)
		}
	case cmd&0x08 != 0:
		c.control = cmd & 0x07
	case cmd&0x04 != 0:
		c.entry = cmd & 0x03
	case cmd&0x02 != 0:
		c.ac = 0
		c.cgMode = false
		c.shift = 0
		return true
	case cmd&0x01 != 0:
		for i := range c.ddram {
			c.ddram[i] = ' '
		}
		c.ac = 0
		c.cgMode = false
		c.shift = 0
		c.entry |= 0x02
		return true
	}
	return false
}

func (c *controller) data(b byte) {
	if c.cgMode {
		c.cgram[c.ac&0x3f] = b
	} else {
		c.ddram[c.ac&0x7f] = b
	}
	c.step(c.entry&0x02 != 0)
	if c.entry&0x01 != 0 && !c.cgMode {
		if c.entry&0x02 != 0 {
			c.shift--
		} else {
			c.shift++
		}
	}
}

// step moves the address counter one position, wrapping between the two
// DDRAM lines the way a 2-line controller does.
func (c *controller) step(up bool) {
	if c.cgMode {
		if up {
			c.ac = (c.ac + 1) & 0x3f
		} else {
			c.ac = (c.ac - 1) & 0x3f
		}
		return
	}
	if up {
		switch c.ac {
		case 0x27:
			c.ac = 0x40
		case 0x67:
			c.ac = 0x00
		default:
			c.ac++
		}
		return
	}
	switch c.ac {
	case 0x00:
		c.ac = 0x67
	case 0x40:
		c.ac = 0x27
	default:
		c.ac--
	}
}
