// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package glyph

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

// bell is a 5x8 bell shape.
var bell = Bitmap{0x04, 0x0e, 0x0e, 0x0e, 0x1f, 0x00, 0x04, 0x00}

func bitmapImage(b Bitmap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Width, Height))
	for y := range Height {
		for x := range Width {
			c := color.Gray{Y: 0xff}
			if b.Set(x, y) {
				c = color.Gray{}
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	if got := FromImage(bitmapImage(bell)); got != bell {
		t.Errorf("FromImage() =\n%s\nexpected\n%s", got, bell)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(10, 20, 10+Width, 20+Height))
	for y := 20; y < 20+Height; y++ {
		for x := 10; x < 10+Width; x++ {
			img.SetGray(x, y, color.Gray{Y: 0xff})
		}
	}
	img.SetGray(10, 20, color.Gray{})
	got := FromImage(img)
	if got != (Bitmap{0x10}) {
		t.Errorf("FromImage() =\n%s", got)
	}
}

func TestFromImageScaled(t *testing.T) {
	// 10x16, left 4 columns black. Nearest neighbour samples source columns
	// 1, 3, 5, 7, 9.
	img := image.NewGray(image.Rect(0, 0, 2*Width, 2*Height))
	for y := range 2 * Height {
		for x := range 2 * Width {
			c := color.Gray{Y: 0xff}
			if x < 4 {
				c = color.Gray{}
			}
			img.SetGray(x, y, c)
		}
	}
	got := FromImage(img)
	for y, row := range got {
		if row != 0x18 {
			t.Errorf("row %d = %05b, expected 11000", y, row)
		}
	}
}

func TestFromImageTransparent(t *testing.T) {
	if got := FromImage(image.NewNRGBA(image.Rect(0, 0, Width, Height))); got != (Bitmap{}) {
		t.Errorf("transparent image produced\n%s", got)
	}
}

func TestRender(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, Width, Height))
	for y := range Height {
		for x := range Width {
			if bell.Set(x, y) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	face := &basicfont.Face{
		Advance: Width,
		Width:   Width,
		Height:  Height,
		Ascent:  Height,
		Descent: 0,
		Mask:    mask,
		Ranges:  []basicfont.Range{{Low: 'b', High: 'c', Offset: 0}},
	}
	if got := Render(face, 'b'); got != bell {
		t.Errorf("Render('b') =\n%s\nexpected\n%s", got, bell)
	}
	if got := Render(face, 'z'); got != (Bitmap{}) {
		t.Errorf("Render of a missing rune =\n%s", got)
	}
}

func TestLoadFace(t *testing.T) {
	face, err := LoadFace(gomono.TTF, 8)
	if err != nil {
		t.Fatal(err)
	}
	if h := face.Metrics().Height.Ceil(); h <= 0 {
		t.Errorf("face height %d", h)
	}
	if _, err := LoadFace([]byte("not a font"), 8); err == nil {
		t.Error("expected an error parsing garbage")
	}
}

func TestString(t *testing.T) {
	want := "..#..\n.###.\n.###.\n.###.\n#####\n.....\n..#..\n....."
	if s := bell.String(); s != want {
		t.Errorf("String() =\n%s", s)
	}
	if bell.Set(-1, 0) || bell.Set(0, Height) {
		t.Error("Set() outside the bitmap")
	}
}
