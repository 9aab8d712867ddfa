// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: segments,
// capacity tables, version selection, error correction, module
// placement and masking.
package coding // import "github.com/unixdj/qrgen/coding"

import (
	"errors"
	"strconv"
	"strings"

	"github.com/unixdj/qrgen/gf256"
)

var (
	ErrLevel       = errors.New("qr: invalid level")
	ErrVersion     = errors.New("qr: invalid version")
	ErrMask        = errors.New("qr: invalid mask")
	ErrDataTooLong = errors.New("qr: data too long")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40:
// the larger the version, the more information the code can store.
type Version int

// Version bounds.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

// NewVersion returns n as a Version, or ErrVersion if n is out of range.
func NewVersion(n int) (Version, error) {
	v := Version(n)
	if !v.IsValid() {
		return 0, ErrVersion
	}
	return v, nil
}

// IsValid reports whether v is in the range MinVersion to MaxVersion.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

func (v Version) String() string { return strconv.Itoa(int(v)) }

// Size returns the number of modules on a side of a version v code.
func (v Version) Size() int { return int(v)*4 + 17 }

// QR version size classes.  The width of the character count field
// of a segment depends on the class.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

// IsValid reports whether l is one of L, M, Q and H.
func (l Level) IsValid() bool { return L <= l && l <= H }

func (l Level) String() string {
	if l.IsValid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// formatBits returns the two bit level indicator used in the format
// information: L=01, M=00, Q=11, H=10.
func (l Level) formatBits() uint32 { return uint32(l ^ 1) }

// ParseLevel parses a level given as a letter or a name, ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "l", "low":
		return L, nil
	case "m", "medium":
		return M, nil
	case "q", "quartile":
		return Q, nil
	case "h", "high":
		return H, nil
	}
	return 0, ErrLevel
}

// A Mask is a QR data mask pattern number from 0 to 7, or AutoMask.
type Mask int

// AutoMask lets the encoder choose the mask with the lowest penalty.
const AutoMask Mask = -1

// NumMasks is the number of QR mask patterns.
const NumMasks = 8

// NewMask returns n as a Mask.  n must be from 0 to 7, or -1 for
// AutoMask.
func NewMask(n int) (Mask, error) {
	m := Mask(n)
	if m != AutoMask && !m.IsValid() {
		return 0, ErrMask
	}
	return m, nil
}

// IsValid reports whether m is a fixed mask from 0 to 7.
func (m Mask) IsValid() bool { return 0 <= m && m < NumMasks }

func (m Mask) String() string {
	if m == AutoMask {
		return "auto"
	}
	return strconv.Itoa(int(m))
}
