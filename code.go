// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"image"
	"image/color"
	"strings"

	"github.com/unixdj/qrgen/coding"
)

// A Code is an encoded QR symbol: a square grid of dark and light
// modules.  The grid never changes once encoded.  Scale, Border and
// Reverse only affect the image and text views.
type Code struct {
	code *coding.Code

	Scale   int  // image pixels (EPS: points) per module, 8 by default
	Border  int  // quiet zone width in modules, 4 by default
	Reverse bool // swap dark and light in views
}

func newCode(cc *coding.Code) *Code {
	return &Code{code: cc, Scale: 8, Border: 4}
}

// Size returns the number of modules on a side.
func (c *Code) Size() int { return c.code.Size }

// Black reports whether the module at (x, y) is dark.  Modules outside
// the grid are light.
func (c *Code) Black(x, y int) bool { return c.code.Black(x, y) }

// Version returns the QR version, from 1 to 40.
func (c *Code) Version() int { return int(c.code.Version) }

// Level returns the error correction level.  With boost it may be
// higher than requested.
func (c *Code) Level() Level { return Level(c.code.Level) }

// Mask returns the mask pattern, from 0 to 7.
func (c *Code) Mask() int { return int(c.code.Mask) }

// dark reports whether the module at (x, y) is drawn dark in views.
func (c *Code) dark(x, y int) bool { return c.Black(x, y) != c.Reverse }

// maxPixels limits the side of rendered images.
const maxPixels = 1 << 18

// pixels returns the side of the image in pixels, including the quiet
// zone.
func (c *Code) pixels() int { return c.Scale * (c.Size() + 2*c.Border) }

func (c *Code) isValid() bool {
	return c != nil && c.code != nil &&
		0 < c.Scale && c.Scale <= maxPixels &&
		0 <= c.Border && c.Border <= maxPixels &&
		c.pixels() <= maxPixels
}

// Image returns an Image displaying the code, with Scale pixels per
// module and a quiet zone of Border modules.  Image returns nil if
// Scale or Border is invalid.
func (c *Code) Image() image.Image {
	if !c.isValid() {
		return nil
	}
	return &codeImage{c}
}

// codeImage implements image.Image.
type codeImage struct {
	*Code
}

var (
	whiteColor color.Color = color.Gray{0xff}
	blackColor color.Color = color.Gray{0x00}
)

func (c *codeImage) Bounds() image.Rectangle {
	d := c.pixels()
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	if x >= 0 && y >= 0 && c.dark(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return blackColor
	}
	return whiteColor
}

func (c *codeImage) ColorModel() color.Model {
	return color.GrayModel
}

// String returns the code drawn with Unicode half block characters,
// two module rows per line, with the quiet zone.  Dark modules are
// drawn as blocks; set Reverse for terminals with light text on a dark
// background.
func (c *Code) String() string {
	if c == nil || c.code == nil {
		return ""
	}
	bord := max(c.Border, 0)
	siz := c.Size()
	var b strings.Builder
	b.Grow((siz + 2*bord) * ((siz + 2*bord + 1) / 2) * 3)
	for y := -bord; y < siz+bord; y += 2 {
		for x := -bord; x < siz+bord; x++ {
			top := c.dark(x, y)
			bot := y+1 < siz+bord && c.dark(x, y+1)
			switch {
			case top && bot:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bot:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
