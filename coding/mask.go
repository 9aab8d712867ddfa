// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaskBit reports whether mask m inverts the data module at the given
// row and column.
//
// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
func MaskBit(m Mask, row, col int) bool {
	switch m {
	case 0:
		return (row+col)%2 == 0
	case 1:
		return row%2 == 0
	case 2:
		return col%3 == 0
	case 3:
		return (row+col)%3 == 0
	case 4:
		return (row/2+col/3)%2 == 0
	case 5:
		return row*col%2+row*col%3 == 0
	case 6:
		return (row*col%2+row*col%3)%2 == 0
	case 7:
		return ((row+col)%2+row*col%3)%2 == 0
	}
	panic("qr: invalid mask " + m.String())
}

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version Version // QR version
	Level   Level   // error correction level
	Mask    Mask    // data mask
}

// Black reports whether the pixel at (x, y) is black.  Pixels outside
// the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Encoder encodes a QR code.
type Encoder struct {
	p        *Plan
	b        *Bits
	parallel bool
}

func newEncoder(p *Plan) *Encoder {
	return &Encoder{p: p, b: NewBits(p.Version)}
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := NewPlan(version, level)
	if err != nil {
		return nil, err
	}
	return newEncoder(p), nil
}

// SetParallel sets whether the mask search evaluates candidate masks
// concurrently.  The chosen mask is the same either way.
func (e *Encoder) SetParallel(parallel bool) { e.parallel = parallel }

// Write adds segments to e.
func (e *Encoder) Write(segs ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, seg := range segs {
		if seg.EncodedLength(class) < 0 {
			return fmt.Errorf("%w: %s segment of %d characters in version %v",
				ErrDataTooLong, seg.mode, seg.count, e.p.Version)
		}
		e.b.WriteSegment(seg, class)
	}
	return nil
}

// Reset discards data written to e.
func (e *Encoder) Reset() { e.b.Reset() }

// xor xors a and b into dst.  a and b may not be shorter than dst.
// dst and a or b should not overlap unless they are the same slice.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Code returns a QR code containing data written to e, using mask m,
// or the mask giving the lowest penalty if m is AutoMask.  Ties go to
// the lower mask number.  Code consumes the data: e is empty
// afterwards.
func (e *Encoder) Code(m Mask) (*Code, error) {
	defer e.b.Reset()
	if m != AutoMask && !m.IsValid() {
		return nil, ErrMask
	}
	if e.b.Bits() > e.p.DataBits {
		return nil, fmt.Errorf("%w: cannot encode %d bits into %d-bit code",
			ErrDataTooLong, e.b.Bits(), e.p.DataBits)
	}
	e.b.AddCheckBytes(e.p.Version, e.p.Level)
	bits := e.b.Permute(e.p.Version, e.p.Level)
	// Now we have the checksum bytes and the data bytes.
	// Construct the bitmap consisting of data and checksum bits.
	siz, stride := e.p.Size, e.p.Stride
	data := make([]byte, siz*stride)
	e.p.Serialise(bits, data)

	c := &Code{
		Bitmap:  make([]byte, len(data)),
		Size:    siz,
		Stride:  stride,
		Version: e.p.Version,
		Level:   e.p.Level,
		Mask:    m,
	}
	switch {
	case m != AutoMask:
		xor(c.Bitmap, data, e.p.Pattern[m])
	case e.parallel:
		e.searchParallel(c, data)
	default:
		e.search(c, data)
	}
	return c, nil
}

// search applies masks to the data bitmap in turn and keeps the code
// with the smallest penalty in c.
func (e *Encoder) search(c *Code, data []byte) {
	cand := &Code{Bitmap: make([]byte, len(data)), Size: c.Size, Stride: c.Stride}
	pen := 1 << 30 // largest penalty is < 1<<20
	for m, pat := range e.p.Pattern {
		// set bitmap to data bits xor plan bits
		xor(cand.Bitmap, data, pat)
		if p := cand.Penalty(); p < pen {
			c.Bitmap, cand.Bitmap = cand.Bitmap, c.Bitmap
			c.Mask, pen = Mask(m), p
		}
	}
}

// searchParallel is search with each mask evaluated in its own
// goroutine on its own bitmap.
func (e *Encoder) searchParallel(c *Code, data []byte) {
	var (
		g    errgroup.Group
		bms  [NumMasks][]byte
		pens [NumMasks]int
	)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for m := range e.p.Pattern {
		g.Go(func() error {
			cand := &Code{Bitmap: make([]byte, len(data)), Size: c.Size, Stride: c.Stride}
			xor(cand.Bitmap, data, e.p.Pattern[m])
			bms[m], pens[m] = cand.Bitmap, cand.Penalty()
			return nil
		})
	}
	// Masking and scoring work on valid bitmaps and have no error
	// path, so Wait only joins the goroutines.
	_ = g.Wait()
	best := 0
	for m := 1; m < NumMasks; m++ {
		if pens[m] < pens[best] {
			best = m
		}
	}
	c.Bitmap, c.Mask = bms[best], Mask(best)
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(m Mask, segs ...Segment) (*Code, error) {
	if err := e.Write(segs...); err != nil {
		e.Reset()
		return nil, err
	}
	return e.Code(m)
}

// Encode encodes segs using an Encoder with the given version and level.
func Encode(version Version, level Level, m Mask, segs ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(m, segs...)
}
