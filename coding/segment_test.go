// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bitString renders the first n bits of b as ones and zeros.
func bitString(b []byte, n int) string {
	var sb strings.Builder
	s := NewBitStream(b)
	for i := 0; i < n; i++ {
		sb.WriteByte('0' + s.Next())
	}
	return sb.String()
}

func TestMakeNumeric(t *testing.T) {
	t.Parallel()
	seg, err := MakeNumeric("01234567")
	require.NoError(t, err)
	assert.Equal(t, Numeric, seg.Mode())
	assert.Equal(t, 8, seg.Count())
	assert.Equal(t, 27, seg.Bits())
	assert.Equal(t, "0000001100"+"0101011001"+"1000011",
		bitString(seg.Data(), seg.Bits()))
	assert.Equal(t, []byte{0x03, 0x15, 0x98, 0x60}, seg.Data())
	assert.Equal(t, 4+10+27, seg.EncodedLength(Class0))
	assert.Equal(t, 4+12+27, seg.EncodedLength(Class1))
	assert.Equal(t, 4+14+27, seg.EncodedLength(Class2))

	for n, bits := range []int{0, 4, 7, 10, 14, 17, 20} {
		seg, err := MakeNumeric(strings.Repeat("9", n))
		require.NoError(t, err)
		assert.Equal(t, bits, seg.Bits(), "%d digits", n)
	}

	_, err = MakeNumeric("12a")
	var se *SegmentError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Numeric, se.Mode)
	assert.Equal(t, "12a", se.Text)
}

func TestMakeAlphanumeric(t *testing.T) {
	t.Parallel()
	seg, err := MakeAlphanumeric("AC-42")
	require.NoError(t, err)
	assert.Equal(t, Alphanumeric, seg.Mode())
	assert.Equal(t, 5, seg.Count())
	assert.Equal(t, "00111001110"+"11100111001"+"000010",
		bitString(seg.Data(), seg.Bits()))
	assert.Equal(t, []byte{0x39, 0xdc, 0xe4, 0x20}, seg.Data())

	const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
	for i := 0; i < len(charset); i++ {
		seg, err := MakeAlphanumeric(charset[i : i+1])
		require.NoError(t, err, "%q", charset[i])
		assert.Equal(t, []byte{byte(i << 2)}, seg.Data(), "%q", charset[i])
	}
	for c := 0; c < 256; c++ {
		assert.Equal(t, strings.IndexByte(charset, byte(c)) >= 0, isAlpha(byte(c)), "%q", c)
	}

	_, err = MakeAlphanumeric("hello")
	var se *SegmentError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Alphanumeric, se.Mode)
}

func TestMakeBytes(t *testing.T) {
	t.Parallel()
	in := []byte("a\x00\xff")
	seg := MakeBytes(in)
	in[0] = 'b'
	assert.Equal(t, Byte, seg.Mode())
	assert.Equal(t, 3, seg.Count())
	assert.Equal(t, 24, seg.Bits())
	assert.Equal(t, []byte("a\x00\xff"), seg.Data())
	d := seg.Data()
	d[0] = 'c'
	assert.Equal(t, []byte("a\x00\xff"), seg.Data())

	seg = MakeBytes(nil)
	assert.Equal(t, 0, seg.Count())
	assert.Equal(t, 12, seg.EncodedLength(Class0))
}

func TestMakeLatin1(t *testing.T) {
	t.Parallel()
	seg, err := MakeLatin1("café")
	require.NoError(t, err)
	assert.Equal(t, []byte("caf\xe9"), seg.Data())
	assert.Equal(t, 4, seg.Count())

	_, err = MakeLatin1("€")
	var se *SegmentError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Byte, se.Mode)
}

func TestMakeKanji(t *testing.T) {
	t.Parallel()
	seg, err := MakeKanji("点茗")
	require.NoError(t, err)
	assert.Equal(t, Kanji, seg.Mode())
	assert.Equal(t, 2, seg.Count())
	assert.Equal(t, 26, seg.Bits())
	assert.Equal(t, "0110110011111"+"1101010101010",
		bitString(seg.Data(), seg.Bits()))

	assert.True(t, IsKanji('点'))
	assert.False(t, IsKanji('A'))
	assert.False(t, IsKanji('ｱ')) // single byte in Shift JIS
	_, err = MakeKanji("点A")
	var se *SegmentError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Kanji, se.Mode)
}

func TestMakeECI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		assign uint32
		bits   string
	}{
		{26, "00011010"},
		{127, "01111111"},
		{128, "1000000010000000"},
		{16383, "1011111111111111"},
		{16384, "110000000100000000000000"},
		{999999, "110011110100001000111111"},
	}
	for _, tt := range tests {
		seg, err := MakeECI(tt.assign)
		require.NoError(t, err)
		assert.Equal(t, ECI, seg.Mode())
		assert.Equal(t, 0, seg.Count())
		assert.Equal(t, tt.bits, bitString(seg.Data(), seg.Bits()), "%d", tt.assign)
		assert.Equal(t, 4+len(tt.bits), seg.EncodedLength(Class2))
	}
	_, err := MakeECI(1000000)
	var se *SegmentError
	assert.ErrorAs(t, err, &se)
}

func TestEncodedLengthOverflow(t *testing.T) {
	t.Parallel()
	seg, err := MakeNumeric(strings.Repeat("1", 1024))
	require.NoError(t, err)
	assert.Equal(t, -1, seg.EncodedLength(Class0))
	assert.Positive(t, seg.EncodedLength(Class1))

	seg = MakeBytes(make([]byte, 256))
	assert.Equal(t, -1, seg.EncodedLength(Class0))
	assert.Equal(t, 4+16+256*8, seg.EncodedLength(Class1))
	assert.Equal(t, -1, TotalBits([]Segment{seg}, Class0))
	assert.Equal(t, 2*(4+16+256*8), TotalBits([]Segment{seg, seg}, Class2))
}

func TestMakeSegments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text string
		mode Mode
	}{
		{"0", Numeric},
		{"31415926535", Numeric},
		{"HELLO WORLD", Alphanumeric},
		{"3.14", Alphanumeric},
		{"Hello, world!", Byte},
		{"こんにちは", Byte},
		{"http://example.com/", Byte},
	}
	for _, tt := range tests {
		segs := MakeSegments(tt.text)
		require.Len(t, segs, 1, "%q", tt.text)
		assert.Equal(t, tt.mode, segs[0].Mode(), "%q", tt.text)
	}
	assert.Empty(t, MakeSegments(""))

	segs := MakeSegments("こんにちは")
	assert.Equal(t, 15, segs[0].Count())
}

func TestModeHeader(t *testing.T) {
	t.Parallel()
	assert.Equal(t, byte(1), Numeric.Indicator())
	assert.Equal(t, byte(2), Alphanumeric.Indicator())
	assert.Equal(t, byte(4), Byte.Indicator())
	assert.Equal(t, byte(8), Kanji.Indicator())
	assert.Equal(t, byte(7), ECI.Indicator())
	assert.Equal(t, 13, Alphanumeric.CountLength(Class2))
	assert.Equal(t, 10, Kanji.CountLength(Class1))
	assert.Equal(t, "kanji", Kanji.String())
}
