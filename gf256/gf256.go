// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois Field GF(256)
// and Reed-Solomon error correction coding over it.
package gf256 // import "github.com/unixdj/qrgen/gf256"

import (
	"strconv"
	"sync"
)

// A Field represents an instance of GF(256) defined by a specific
// polynomial.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte
	p   int
	α   byte
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The Reed-Solomon encoding in QR codes uses
// polynomial 0x11d with generator 2.
//
// The choice of generator α only matters for the Exp and Log
// operations.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}

	var f Field
	f.p = poly
	f.α = byte(α)
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: invalid generator " + strconv.Itoa(α) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	for i := 0; i < 255; i++ {
		if f.log[f.exp[i]] != byte(i) {
			panic("bad log")
		}
		if f.log[f.exp[i+255]] != byte(i) {
			panic("bad log")
		}
	}
	for i := 1; i < 256; i++ {
		if f.exp[f.log[i]] != byte(i) {
			panic("bad log")
		}
	}

	return &f
}

// nbit returns the number of significant bits in p.
func nbit(p int) uint {
	n := uint(0)
	for ; p > 0; p >>= 1 {
		n++
	}
	return n
}

// polyDiv divides the polynomial p by q and returns the remainder.
func polyDiv(p, q int) int {
	np := nbit(p)
	nq := nbit(q)
	for ; np >= nq; np-- {
		if p&(1<<(np-1)) != 0 {
			p ^= q << (np - nq)
		}
	}
	return p
}

// mul returns the product x*y mod poly, a GF(256) multiplication.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// reducible reports whether p is reducible.
func reducible(p int) bool {
	// Multiplying n-bit * n-bit produces (2n-1)-bit,
	// so if p is reducible, one of its factors must be
	// of np/2+1 bits or fewer.
	np := nbit(p)
	for q := 2; q < 1<<(np/2+1); q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// Add returns the sum of x and y in the field.
func (f *Field) Add(x, y byte) byte {
	return x ^ y
}

// Exp returns the result of α**e in the field.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		return 0
	}
	return f.exp[e%255]
}

// Log returns the base-α logarithm of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x byte) int {
	if x == 0 {
		return -1
	}
	return int(f.log[x])
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// String returns the field polynomial in hexadecimal.
func (f *Field) String() string {
	return "GF(" + strconv.FormatInt(int64(f.p), 16) + ")"
}

// An RSEncoder implements Reed-Solomon encoding
// over a given field using a given number of error correction bytes.
type RSEncoder struct {
	f    *Field
	c    int
	gen  []byte // generator polynomial, highest degree first, monic
	lgen []byte // logarithms of gen
}

// Generator returns the coefficients of the degree-c generator
// polynomial (x-α⁰)(x-α¹)...(x-α^(c-1)), highest degree first.  The
// leading coefficient is always 1.
func (f *Field) Generator(c int) []byte {
	// Multiply by one monic binomial (x + α^i) at a time, keeping
	// the polynomial in place.
	p := make([]byte, 1, c+1)
	p[0] = 1
	for i := 0; i < c; i++ {
		r := f.Exp(i)
		p = append(p, 0)
		for j := len(p) - 1; j > 0; j-- {
			p[j] = f.Add(p[j], f.Mul(p[j-1], r))
		}
	}
	return p
}

// NewRSEncoder returns a new Reed-Solomon encoder
// over the given field and number of error correction bytes.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	if c <= 0 || c > 254 {
		panic("gf256: invalid number of check bytes " + strconv.Itoa(c))
	}
	gen := f.Generator(c)
	lgen := make([]byte, len(gen))
	for i, v := range gen {
		// Generator coefficients are never zero over a
		// primitive field.
		lgen[i] = byte(f.Log(v))
	}
	return &RSEncoder{f: f, c: c, gen: gen, lgen: lgen}
}

// Check returns the number of error correction bytes produced by rs.
func (rs *RSEncoder) Check() int { return rs.c }

// ECC writes to check the error correcting code bytes
// for data using the given Reed-Solomon parameters.
// The remainder of data·x^c divided by the generator is
// computed by synthetic division.
func (rs *RSEncoder) ECC(data []byte, check []byte) {
	if len(check) < rs.c {
		panic("gf256: invalid check byte length")
	}
	if rs.c == 0 {
		return
	}
	f := rs.f
	lgen := rs.lgen[1:]
	check = check[:rs.c]
	for i := range check {
		check[i] = 0
	}
	for _, v := range data {
		// Leading coefficient of the running remainder.
		c := v ^ check[0]
		copy(check, check[1:])
		check[len(check)-1] = 0
		if c == 0 {
			continue
		}
		lc := int(f.log[c])
		for i, lg := range lgen {
			check[i] ^= f.exp[lc+int(lg)]
		}
	}
}

// encoders caches RSEncoders by field and check length.
var encoders sync.Map // map[encKey]*encEntry

type encKey struct {
	f *Field
	c int
}

type encEntry struct {
	once sync.Once
	rs   *RSEncoder
}

// CachedRSEncoder returns a shared RSEncoder for f and c, creating it
// on first use.  The returned encoder is safe for concurrent use.
func CachedRSEncoder(f *Field, c int) *RSEncoder {
	v, _ := encoders.LoadOrStore(encKey{f, c}, new(encEntry))
	e := v.(*encEntry)
	e.once.Do(func() { e.rs = NewRSEncoder(f, c) })
	return e.rs
}
