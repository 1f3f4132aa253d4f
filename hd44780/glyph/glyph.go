// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package glyph builds the 5x8 dot patterns stored in an HD44780's CGRAM.
//
// A Bitmap can be taken from any image, scaled down to 5x8, or rendered from
// a rune in a font face. Pass the result to hd44780.Dev.CreateChar.
package glyph

import (
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

const (
	// Width is the number of dots per row.
	Width = 5
	// Height is the number of rows.
	Height = 8
)

// Bitmap is one custom character: a byte per row, top row first, bit 4 the
// leftmost dot.
type Bitmap [Height]byte

// Set reports whether the dot at x, y is on.
func (b Bitmap) Set(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return b[y]&(1<<(Width-1-x)) != 0
}

// String draws the bitmap with '#' for dots that are on and '.' for the rest,
// one line per row.
func (b Bitmap) String() string {
	var sb strings.Builder
	for y := range Height {
		for x := range Width {
			if b.Set(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y < Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FromImage converts img to a Bitmap. Images of another size are scaled with
// nearest neighbour sampling. A dot is on where the pixel is mostly opaque
// and darker than mid grey.
func FromImage(img image.Image) Bitmap {
	src := img
	if r := img.Bounds(); r.Dx() != Width || r.Dy() != Height {
		dst := image.NewNRGBA(image.Rect(0, 0, Width, Height))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, r, draw.Src, nil)
		src = dst
	}
	origin := src.Bounds().Min
	var b Bitmap
	for y := range Height {
		for x := range Width {
			if dark(src.At(origin.X+x, origin.Y+y)) {
				b[y] |= 1 << (Width - 1 - x)
			}
		}
	}
	return b
}

func dark(c color.Color) bool {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	// Un-premultiply, then Rec. 601 luma.
	r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a
	y := (299*r + 587*g + 114*b) / 1000
	return y < 0x8000
}

// Render draws r in face, black on white, with the baseline placed so the
// face's descent fits in the bottom rows, and converts the result.
func Render(face font.Face, r rune) Bitmap {
	dc := gg.NewContext(Width, Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(face)
	baseline := Height - face.Metrics().Descent.Ceil()
	dc.DrawString(string(r), 0, float64(baseline))
	return FromImage(dc.Image())
}

// LoadFace parses a TrueType font and returns a face at the given size in
// points, at 72 DPI so a point is a dot.
func LoadFace(ttf []byte, points float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
