// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// TotalBits returns the encoded length in bits of segs at the given
// QR version size class, including segment headers, or -1 if any
// segment's character count overflows its count field.
func TotalBits(segs []Segment, class int) int {
	n := 0
	for _, seg := range segs {
		sl := seg.EncodedLength(class)
		if sl < 0 {
			return -1
		}
		n += sl
	}
	return n
}

// Select returns the smallest version from minVer to maxVer that fits
// segs at level l, the level to encode at and the encoded length in
// bits.  If boost is set, the level is raised to the highest one at
// which the data still fits the selected version.
//
// If no version fits, the error wraps ErrDataTooLong.
func Select(segs []Segment, l Level, minVer, maxVer Version, boost bool) (Version, Level, int, error) {
	if !l.IsValid() {
		return 0, 0, 0, ErrLevel
	}
	if !minVer.IsValid() || !maxVer.IsValid() || minVer > maxVer {
		return 0, 0, 0, ErrVersion
	}
	v := minVer
	var n int
	for {
		n = TotalBits(segs, v.SizeClass())
		if n >= 0 && n <= v.DataBits(l) {
			break
		}
		if v >= maxVer {
			if n < 0 {
				return 0, 0, 0, fmt.Errorf("%w: segment too long for version %v",
					ErrDataTooLong, v)
			}
			return 0, 0, 0, fmt.Errorf("%w: %d bits, version %v-%v holds %d",
				ErrDataTooLong, n, v, l, v.DataBits(l))
		}
		v++
	}
	if boost {
		for nl := l + 1; nl <= H; nl++ {
			if n <= v.DataBits(nl) {
				l = nl
			}
		}
	}
	return v, l, n, nil
}
