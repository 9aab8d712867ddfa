// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrgen/gf256"

// Bits is a bit buffer, written most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, v.TotalCodewords())}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the written bytes.  It panics unless a whole number
// of bytes has been written.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

func (b *Bits) growTo(n int) {
	if cap(b.b) < n {
		nb := make([]byte, len(b.b), n)
		copy(nb, b.b)
		b.b = nb
	}
}

// Grow ensures room for another n bytes.
func (b *Bits) Grow(n int) { b.growTo(len(b.b) + n) }

// Add adds n zero bytes to b and returns the added slice.
func (b *Bits) Add(n int) []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	b.Grow(n)
	start := len(b.b)
	b.b = b.b[:start+n]
	clear(b.b[start:])
	b.nbit = 8 * len(b.b)
	return b.b[start:]
}

// Write writes the low nbit bits of v, up to 32.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// WriteSegment writes seg with its header for the given QR version
// size class.
func (b *Bits) WriteSegment(seg Segment, class int) {
	b.Write(uint32(seg.mode.Indicator()), 4)
	b.Write(uint32(seg.count), seg.mode.CountLength(class))
	data := seg.data
	n := seg.nbit
	if b.nbit&7 == 0 {
		// Fast path: copy whole bytes.
		whole := n >> 3
		b.b = append(b.b, data[:whole]...)
		b.nbit += whole * 8
		data, n = data[whole:], n&7
	}
	for ; n >= 8; n -= 8 {
		b.Write(uint32(data[0]), 8)
		data = data[1:]
	}
	if n > 0 {
		b.Write(uint32(data[0])>>(8-n), n)
	}
}

// padTo adds up to t terminator bits to b, pads it to a byte boundary
// and then to n bits with alternating 0xec and 0x11 bytes.
func (b *Bits) padTo(t, n int) {
	b.nbit = min(b.nbit+t, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	for pad := byte(0xec); len(b.b) < n>>3; pad ^= 0xec ^ 0x11 {
		b.b = append(b.b, pad)
	}
	b.nbit = len(b.b) * 8
}

// AddCheckBytes adds terminator, padding and error correction
// codewords to b for the given QR version and level.  The data is
// split into the blocks listed in the capacity table, short blocks
// first, and the check bytes of each block are appended in block
// order.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nb := v.DataBits(l)
	if b.nbit > nb {
		panic("qr: too much data")
	}
	b.growTo(v.TotalCodewords())
	b.padTo(4, nb)

	short, long := v.Blocks(l)
	nblock := short + long
	check := v.ECCodewordsPerBlock(l)
	nd := v.DataCodewords(l)
	db := nd / nblock
	if short*db+long*(db+1) != nd {
		panic("qr: internal error: block table")
	}
	rs := gf256.CachedRSEncoder(Field, check)
	dat := b.Bytes()
	for i := 0; i < nblock; i++ {
		n := db
		if i >= short {
			n++
		}
		rs.ECC(dat[:n], b.Add(rs.Check()))
		dat = dat[n:]
	}
	if len(b.Bytes()) != v.TotalCodewords() {
		panic("qr: internal error")
	}
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.  The last len(src)%nblock blocks are one byte
// longer than the rest.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= normal {
			extra[i-normal] = src[0]
			src = src[1:]
		}
	}
}

// Permute returns a BitStream reading data and check bytes in b with
// blocks interleaved for the given QR code version and level: data
// codewords by index across blocks, then check codewords by index
// across blocks.
func (b *Bits) Permute(v Version, l Level) BitStream {
	src := b.Bytes()
	if len(src) != v.TotalCodewords() {
		panic("qr: wrong data length")
	}
	short, long := v.Blocks(l)
	nblock := short + long
	if nblock == 1 {
		return NewBitStream(src)
	}
	dst := make([]byte, len(src))
	nd := v.DataCodewords(l)
	interleave(dst[:nd], src[:nd], nblock)
	interleave(dst[nd:], src[nd:], nblock)
	return NewBitStream(dst)
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Read returns the number of bits read from s.
func (s *BitStream) Read() int { return s.pos }
