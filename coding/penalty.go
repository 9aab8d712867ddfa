// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Penalty weights.
//
//   - RunP: for non-overlapping runs of n pixels, n>=5 -> n-2
//   - BoxP: for possibly overlapping 2x2 boxes -> 3
//   - FindP: for possibly overlapping finder patterns -> 40
//     The pattern is 1:1:3:1:1 dark:light:dark:light:dark with four
//     light pixels on either side; may extend into the quiet zone
//   - BalP: for n% of black pixels -> 10*(ceiling(abs(n-50)/5)-1)
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
const (
	MinRun    = 5  // RunP:  minimum run length
	RunPDelta = -2 // RunP:  add to run length
	BoxPP     = 3  // BoxP:  points per box
	FindPP    = 40 // FindP: points per pattern
	BalPP     = 10 // BalP:  points per 5% step
)

// runHistory holds the lengths of the last seven runs of a line, most
// recent first, for finder pattern detection.
type runHistory [7]int

// add pushes a run length.  The first run of a line is extended by the
// light quiet zone.
func (h *runHistory) add(n, siz int) {
	if h[0] == 0 {
		n += siz
	}
	copy(h[1:], h[:6])
	h[0] = n
}

// count returns the number of finder-like patterns ending at the
// latest light run: 0, 1 or 2.
func (h *runHistory) count() int {
	n := h[1]
	core := n > 0 && h[2] == n && h[3] == n*3 && h[4] == n && h[5] == n
	p := 0
	if core && h[0] >= n*4 && h[6] >= n {
		p++
	}
	if core && h[6] >= n*4 && h[0] >= n {
		p++
	}
	return p
}

// terminate closes the line and counts patterns touching its end.
func (h *runHistory) terminate(black bool, run, siz int) int {
	if black {
		h.add(run, siz)
		run = 0
	}
	h.add(run+siz, siz)
	return h.count()
}

// linePenalty scores RunP and FindP for one row or column, reading
// pixels with at.
func linePenalty(siz int, at func(i int) bool) int {
	p := 0
	var h runHistory
	black, run := false, 0
	for i := 0; i < siz; i++ {
		if at(i) == black {
			run++
			if run == MinRun {
				p += MinRun + RunPDelta
			} else if run > MinRun {
				p++
			}
			continue
		}
		h.add(run, siz)
		if !black {
			p += h.count() * FindPP
		}
		black, run = !black, 1
	}
	return p + h.terminate(black, run, siz)*FindPP
}

// Penalty returns the penalty value for a QR code.  The value is used
// for choosing the mask.
//
// Total penalty is the sum of penalties for runs and boxes of
// same-colour pixels, finder patterns and colour balance.
func (c *Code) Penalty() int {
	siz := c.Size
	p := 0

	// horizontal and vertical runs: RunP, FindP
	for y := 0; y < siz; y++ {
		p += linePenalty(siz, func(x int) bool { return c.Black(x, y) })
	}
	for x := 0; x < siz; x++ {
		p += linePenalty(siz, func(y int) bool { return c.Black(x, y) })
	}

	// boxes: BoxP
	for y := 0; y < siz-1; y++ {
		for x := 0; x < siz-1; x++ {
			b := c.Black(x, y)
			if b == c.Black(x+1, y) && b == c.Black(x, y+1) &&
				b == c.Black(x+1, y+1) {
				p += BoxPP
			}
		}
	}

	// balance: BalP
	black := 0
	for y := 0; y < siz; y++ {
		for _, v := range c.Bitmap[y*c.Stride : (y+1)*c.Stride] {
			for ; v != 0; v &= v - 1 {
				black++
			}
		}
	}
	return p + balancePenalty(black, siz*siz)
}

// balancePenalty returns the penalty for black dark modules out of
// total.  The deviation from 50% in units of 5% is rounded up, less
// one, so exact multiples of 5% get the lower penalty: 40% and 60%
// get 10 points like 41% and 59%, not 20 like 39% and 61%.
func balancePenalty(black, total int) int {
	k := (abs(black*20-total*10)+total-1)/total - 1
	return k * BalPP
}
