// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package charscreen draws the contents of a character display on a terminal
// (stdout) using ANSI color codes.
//
// Useful to watch what an emulated LCD shows, or while the real one is still
// in the mail.
package charscreen

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this screen.
type Opts struct {
	Rows int
	Cols int
	// Palette maps the backlight color to a terminal color. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette
	// Backlight is the color of a lit display. Defaults to a yellow-green.
	Backlight color.Color
	// W is the terminal. Defaults to stdout.
	W io.Writer

	_ struct{}
}

// Dev is a character display emulator that outputs to the console.
type Dev struct {
	w         io.Writer
	rows      int
	cols      int
	palette   ansi256.Palette
	backlight color.Color

	drawn bool
	buf   bytes.Buffer
}

var (
	defaultBacklight = color.NRGBA{0x9a, 0xc8, 0x3c, 0xff}
	unlit            = color.NRGBA{0x20, 0x28, 0x20, 0xff}
)

// New returns a Dev that draws at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	bl := opts.Backlight
	if bl == nil {
		bl = defaultBacklight
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:         w,
		rows:      opts.Rows,
		cols:      opts.Cols,
		palette:   *p,
		backlight: bl,
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("CharScreen{%dx%d}", d.cols, d.rows)
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the prompt is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Show redraws the screen with lines, one string per row. Rows and columns
// beyond the screen are dropped, missing ones are blank. After the first call
// the frame is redrawn in place.
func (d *Dev) Show(lines []string, lit bool) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.drawn {
		fmt.Fprintf(&d.buf, "\033[%dA", d.rows+2)
	}
	c := color.Color(unlit)
	if lit {
		c = d.backlight
	}
	edge := d.palette.Block(color.NRGBAModel.Convert(c).(color.NRGBA))
	border := strings.Repeat(edge, d.cols+2)
	_, _ = d.buf.WriteString("\r" + border + "\033[0m\n")
	for row := range d.rows {
		var line string
		if row < len(lines) {
			line = lines[row]
		}
		_, _ = d.buf.WriteString("\r" + edge + "\033[0m")
		for col := range d.cols {
			var ch byte = ' '
			if col < len(line) {
				ch = line[col]
			}
			_, _ = d.buf.WriteString(Glyph(ch))
		}
		_, _ = d.buf.WriteString(edge + "\033[0m\n")
	}
	_, _ = d.buf.WriteString("\r" + border + "\033[0m\n")
	_, err := d.buf.WriteTo(d.w)
	d.drawn = true
	return err
}

// Glyph returns how character code ch is shown: printable ASCII as is,
// CGRAM codes 0-7 (and their 8-15 aliases) as a shaded block, anything else
// in the controller's ROM as '?'.
func Glyph(ch byte) string {
	switch {
	case ch < 0x10:
		return "▒"
	case ch >= 0x20 && ch < 0x7f:
		return string(rune(ch))
	default:
		return "?"
	}
}
