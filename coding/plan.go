// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Plan describes how to construct a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBits int // number of data bits
	Size     int // number of pixels on a side
	Stride   int // number of bytes per bitmap row

	// Map has bits set for function modules: finder, separator,
	// timing and alignment patterns, the dark module and format and
	// version information.  Data is placed in the rest.
	Map []byte

	// Pattern[m] holds the function pattern with format and version
	// information for mask m, and the mask bits of mask m on data
	// modules.  A code is the data bitmap xored with a pattern.
	Pattern [NumMasks][]byte
}

// bitmap helpers.  Bitmaps are stored in rows of stride bytes, most
// significant bit leftmost.

func bit(x int) byte { return 0x80 >> (x & 7) }

func setPixel(b []byte, stride, x, y int) { b[y*stride+x>>3] |= bit(x) }

func getPixel(b []byte, stride, x, y int) bool {
	return b[y*stride+x>>3]&bit(x) != 0
}

// IsFunction reports whether the module at (x, y) belongs to a
// function pattern or reserved area.
func (p *Plan) IsFunction(x, y int) bool {
	return getPixel(p.Map, p.Stride, x, y)
}

// Pre-allocated Plans.  A Plan is created the first time a
// combination of version and level is used.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns a Plan for a QR code with the given version and
// level.  Plans are shared and must not be modified.
func NewPlan(version Version, level Level) (*Plan, error) {
	if !version.IsValid() {
		return nil, ErrVersion
	}
	if !level.IsValid() {
		return nil, ErrLevel
	}
	p := &plans[version][level]
	p.once.Do(func() {
		pp := vplan(version, level)
		if pp.DataModules() != 8*version.TotalCodewords()+version.RemainderBits() {
			panic("qr: internal error: data module count")
		}
		for m := Mask(0); m < NumMasks; m++ {
			fplan(pp, m)
			mplan(pp, m)
		}
		p.p = pp
	})
	return p.p, nil
}

// planner stamps function patterns.  A module already stamped keeps
// its value.
type planner struct {
	p   *Plan
	pat []byte
}

func (pl *planner) stamp(x, y int, dark bool) {
	p := pl.p
	if x < 0 || y < 0 || x >= p.Size || y >= p.Size ||
		getPixel(p.Map, p.Stride, x, y) {
		return
	}
	setPixel(p.Map, p.Stride, x, y)
	if dark {
		setPixel(pl.pat, p.Stride, x, y)
	}
}

// reserve marks a module as function without a value.  Format
// information is filled in per mask by fplan.
func (pl *planner) reserve(x, y int) { pl.stamp(x, y, false) }

// finder draws a position box at upper left x, y with its separator.
func (pl *planner) finder(x, y int) {
	for dy := -1; dy <= 7; dy++ {
		for dx := -1; dx <= 7; dx++ {
			d := max(abs(dx-3), abs(dy-3))
			pl.stamp(x+dx, y+dy, d != 2 && d != 4)
		}
	}
}

// alignBox draws an alignment (small) box centred at x, y.
func (pl *planner) alignBox(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			pl.stamp(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// vplan creates a Plan for the given version with the function
// patterns common to all masks.
func vplan(v Version, l Level) *Plan {
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := &Plan{
		Version:  v,
		Level:    l,
		DataBits: v.DataBits(l),
		Size:     siz,
		Stride:   stride,
	}
	n := stride * siz
	bitmap := make([]byte, n*(NumMasks+1))
	p.Map, bitmap = bitmap[:n:n], bitmap[n:]
	pl := planner{p: p, pat: bitmap[:n:n]}

	// Position boxes with separators.
	pl.finder(0, 0)
	pl.finder(siz-7, 0)
	pl.finder(0, siz-7)

	// Timing markers.
	for i := 0; i < siz; i++ {
		pl.stamp(i, 6, i&1 == 0)
		pl.stamp(6, i, i&1 == 0)
	}

	// Alignment boxes, except where they would overlap position boxes.
	apos := v.AlignmentPositions()
	last := len(apos) - 1
	for i, y := range apos {
		for j, x := range apos {
			if i == 0 && j == 0 || i == 0 && j == last || i == last && j == 0 {
				continue
			}
			pl.alignBox(x, y)
		}
	}

	// One lonely black pixel.
	pl.stamp(8, siz-8, true)

	// Format area.
	for i := 0; i < 9; i++ {
		pl.reserve(8, i)
		pl.reserve(i, 8)
	}
	for i := 0; i < 8; i++ {
		pl.reserve(siz-1-i, 8)
		pl.reserve(8, siz-1-i)
	}

	// Version pattern: 3x6 pixels at (siz-11, 0) and 6x3 at (0, siz-11).
	if v >= 7 {
		vi := v.versionInfo()
		for i := 0; i < 18; i++ {
			a, b := siz-11+i%3, i/3
			dark := vi>>i&1 != 0
			pl.stamp(a, b, dark)
			pl.stamp(b, a, dark)
		}
	}

	base := pl.pat
	for m := range p.Pattern {
		pat := bitmap[m*n : (m+1)*n : (m+1)*n]
		copy(pat, base)
		p.Pattern[m] = pat
	}
	return p
}

// fplan sets the format bits for mask m.
func fplan(p *Plan, m Mask) {
	b := p.Pattern[m]
	siz, stride := p.Size, p.Stride
	fb := formatInfo(p.Level, m)
	set := func(x, y int, i int) {
		if fb>>i&1 != 0 {
			setPixel(b, stride, x, y)
		}
	}
	// Around the top left position box.
	for i := 0; i < 6; i++ {
		set(8, i, i)
	}
	set(8, 7, 6)
	set(8, 8, 7)
	set(7, 8, 8)
	for i := 9; i < 15; i++ {
		set(14-i, 8, i)
	}
	// Split between the other two.
	for i := 0; i < 8; i++ {
		set(siz-1-i, 8, i)
	}
	for i := 8; i < 15; i++ {
		set(8, siz-15+i, i)
	}
}

// mplan sets the mask bits of mask m on data modules.
func mplan(p *Plan, m Mask) {
	b := p.Pattern[m]
	siz, stride := p.Size, p.Stride
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if MaskBit(m, y, x) && !getPixel(p.Map, stride, x, y) {
				setPixel(b, stride, x, y)
			}
		}
	}
}

// DataModules returns the number of modules available for data and
// error correction bits, including remainder bits.
func (p *Plan) DataModules() int {
	n := 0
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.IsFunction(x, y) {
				n++
			}
		}
	}
	return n
}

// Serialise writes bits from s to the bitmap in zigzag scan order:
// two column strips from right to left, skipping the vertical timing
// strip, alternately upwards and downwards.  Function modules are
// skipped.  Modules left after s is exhausted stay light.  Serialise
// panics if s holds more bits than the plan has data modules.
func (p *Plan) Serialise(s BitStream, bitmap []byte) {
	siz, stride := p.Size, p.Stride
	up := true
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 { // vertical timing strip
			right = 5
		}
		for i := 0; i < siz; i++ {
			y := i
			if up {
				y = siz - 1 - i
			}
			for x := right; x >= right-1; x-- {
				if !getPixel(p.Map, stride, x, y) && s.Next() != 0 {
					setPixel(bitmap, stride, x, y)
				}
			}
		}
		up = !up
	}
	if s.Read() != 8*len(s.Bytes()) {
		panic("qr: internal error: bit stream longer than code")
	}
}
