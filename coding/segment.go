// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes.
const (
	Numeric      Mode = iota // numeric mode, digits
	Alphanumeric             // alphanumeric mode, QR alphanumeric charset
	Byte                     // byte mode, any data
	Kanji                    // kanji mode, Shift JIS double byte characters
	ECI                      // extended channel interpretation designator
	modes                    // number of modes
)

// modeTab describes the header of each mode.
var modeTab = [modes]struct {
	name      string
	indicator byte // 4 bit mode indicator

	// countLength lists lengths of the character count field in
	// the three QR version size classes.
	countLength [3]byte
}{
	Numeric:      {"numeric", 1, [3]byte{10, 12, 14}},
	Alphanumeric: {"alphanumeric", 2, [3]byte{9, 11, 13}},
	Byte:         {"byte", 4, [3]byte{8, 16, 16}},
	Kanji:        {"kanji", 8, [3]byte{8, 10, 12}},
	ECI:          {"eci", 7, [3]byte{0, 0, 0}},
}

func (mode Mode) String() string {
	if 0 <= mode && mode < modes {
		return modeTab[mode].name
	}
	return strconv.Itoa(int(mode))
}

// Indicator returns the 4 bit mode indicator.
func (mode Mode) Indicator() byte { return modeTab[mode].indicator }

// CountLength returns the length in bits of the character count field
// at the given version size class.
func (mode Mode) CountLength(class int) int {
	return int(modeTab[mode].countLength[class])
}

// A Segment is an encoded QR code segment: a mode, a character count
// and the data bits.  A Segment is immutable once made.
type Segment struct {
	mode  Mode
	count int    // number of characters
	data  []byte // data bits, most significant first
	nbit  int    // length of data in bits
}

// Mode returns the encoding mode of seg.
func (seg Segment) Mode() Mode { return seg.mode }

// Count returns the number of characters in seg: digits, characters,
// bytes or kanji, depending on the mode.
func (seg Segment) Count() int { return seg.count }

// Bits returns the length of the data bits of seg, excluding the
// header.
func (seg Segment) Bits() int { return seg.nbit }

// Data returns a copy of the data bits of seg, packed most
// significant bit first.
func (seg Segment) Data() []byte { return append([]byte(nil), seg.data...) }

// EncodedLength returns the encoded length in bits of seg in the given
// QR version size class, including the header, or -1 if the character
// count does not fit in the count field.
func (seg Segment) EncodedLength(class int) int {
	cl := seg.mode.CountLength(class)
	if seg.count >= 1<<cl {
		return -1
	}
	return 4 + cl + seg.nbit
}

// SegmentError represents a string not encodable in a mode.
type SegmentError struct {
	Text string
	Mode Mode
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("qr: non-%s string %#q", e.Mode, e.Text)
}

// segWriter accumulates bits of a segment being made.
type segWriter struct {
	Bits
}

func (w *segWriter) segment(mode Mode, count int) Segment {
	return Segment{mode: mode, count: count, data: w.b, nbit: w.nbit}
}

// IsNumeric reports whether s consists of digits only.
func IsNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if uint32(s[i]-'0') >= 10 {
			return false
		}
	}
	return true
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table, indexed by byte&0x3f.  Used after
// validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 8, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

func isAlpha(c byte) bool {
	return c >= ' ' && c < ' '+64 && alphamask>>(c-' ')&1 != 0
}

// IsAlphanumeric reports whether s consists of characters from the
// QR alphanumeric set only.
func IsAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

// MakeNumeric returns a numeric mode segment encoding the digits s.
func MakeNumeric(s string) (Segment, error) {
	if !IsNumeric(s) {
		return Segment{}, &SegmentError{s, Numeric}
	}
	n := len(s)
	var w segWriter
	w.Grow((n*10 + 2) / 3 / 8)
	for ; len(s) >= 3; s = s[3:] {
		w.Write(uint32(s[0]-'0')*100+uint32(s[1]-'0')*10+
			uint32(s[2]-'0'), 10)
	}
	switch len(s) {
	case 2:
		w.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
	case 1:
		w.Write(uint32(s[0]-'0'), 4)
	}
	return w.segment(Numeric, n), nil
}

// MakeAlphanumeric returns an alphanumeric mode segment encoding s.
func MakeAlphanumeric(s string) (Segment, error) {
	if !IsAlphanumeric(s) {
		return Segment{}, &SegmentError{s, Alphanumeric}
	}
	n := len(s)
	var w segWriter
	w.Grow((n*11 + 1) / 2 / 8)
	for ; len(s) >= 2; s = s[2:] {
		w.Write(uint32(alpha[s[0]&0x3f])*45+uint32(alpha[s[1]&0x3f]), 11)
	}
	if len(s) == 1 {
		w.Write(uint32(alpha[s[0]&0x3f]), 6)
	}
	return w.segment(Alphanumeric, n), nil
}

// MakeBytes returns a byte mode segment encoding data.
func MakeBytes(data []byte) Segment {
	b := append([]byte(nil), data...)
	return Segment{mode: Byte, count: len(b), data: b, nbit: len(b) * 8}
}

// MakeLatin1 returns a byte mode segment encoding the UTF-8 string s
// as ISO 8859-1.
func MakeLatin1(s string) (Segment, error) {
	t, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return Segment{}, &SegmentError{s, Byte}
	}
	return MakeBytes([]byte(t)), nil
}

// sjisKanji converts r to the 13 bit QR kanji value of its Shift JIS
// encoding.  ok is false if r has no double byte Shift JIS encoding
// in the ranges 0x8140-0x9ffc and 0xe040-0xebbf.
func sjisKanji(r rune) (v uint32, ok bool) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	var dst [4]byte
	nd, _, err := japanese.ShiftJIS.NewEncoder().Transform(dst[:], buf[:n], true)
	if err != nil || nd != 2 {
		return 0, false
	}
	c := uint32(dst[0])<<8 | uint32(dst[1])
	switch {
	case 0x8140 <= c && c <= 0x9ffc:
		c -= 0x8140
	case 0xe040 <= c && c <= 0xebbf:
		c -= 0xc140
	default:
		return 0, false
	}
	return c>>8*0xc0 + c&0xff, true
}

// IsKanji reports whether r is encodable in QR kanji mode.
func IsKanji(r rune) bool {
	_, ok := sjisKanji(r)
	return ok
}

// MakeKanji returns a kanji mode segment encoding the UTF-8 string s.
func MakeKanji(s string) (Segment, error) {
	var w segWriter
	n := 0
	for _, r := range s {
		v, ok := sjisKanji(r)
		if !ok {
			return Segment{}, &SegmentError{s, Kanji}
		}
		w.Write(v, 13)
		n++
	}
	return w.segment(Kanji, n), nil
}

// MakeECI returns a segment setting the extended channel interpretation
// to the given assignment value, from 0 to 999999.
func MakeECI(assign uint32) (Segment, error) {
	var w segWriter
	switch {
	case assign < 1<<7:
		w.Write(assign, 8)
	case assign < 1<<14:
		w.Write(2<<14|assign, 16)
	case assign < 1e6:
		w.Write(6<<21|assign, 24)
	default:
		return Segment{}, &SegmentError{strconv.FormatUint(uint64(assign), 10), ECI}
	}
	return w.segment(ECI, 0), nil
}

// MakeSegments splits text into segments in a single pass: a numeric
// segment if text is all digits, an alphanumeric segment if it is all
// in the alphanumeric set, or else a byte segment of its UTF-8 bytes.
// The empty string yields no segments.
func MakeSegments(text string) []Segment {
	var seg Segment
	switch {
	case text == "":
		return nil
	case IsNumeric(text):
		seg, _ = MakeNumeric(text)
	case IsAlphanumeric(text):
		seg, _ = MakeAlphanumeric(text)
	default:
		seg = MakeBytes([]byte(text))
	}
	return []Segment{seg}
}
