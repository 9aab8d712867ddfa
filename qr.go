// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode picks the encoding mode for the text, the smallest version
that holds it and the mask with the lowest penalty, and returns the
resulting module grid:

	c, err := qr.Encode("HELLO WORLD", qr.Q)
	if err != nil {
		// errors.Is(err, qr.ErrDataTooLong) if the text does not fit
	}
	for y := 0; y < c.Size(); y++ {
		for x := 0; x < c.Size(); x++ {
			_ = c.Black(x, y)
		}
	}

Lower level building blocks, such as segments in a chosen mode, live
in package coding.
*/
package qr // import "github.com/unixdj/qrgen"

import (
	"errors"

	"github.com/unixdj/qrgen/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// ParseLevel parses a level given as a letter or a name, ignoring case:
// "l", "low", "M", "Quartile" and so on.
func ParseLevel(s string) (Level, error) {
	l, err := coding.ParseLevel(s)
	return Level(l), err
}

// ECI assignment numbers for common character sets.
const (
	Latin1ECI   = 3
	ShiftJISECI = 20
	UTF8ECI     = 26
)

var (
	// ErrDataTooLong is returned, possibly wrapped, when the data
	// does not fit the largest allowed version at the requested level.
	ErrDataTooLong = coding.ErrDataTooLong

	ErrLevel   = coding.ErrLevel
	ErrVersion = coding.ErrVersion
	ErrMask    = coding.ErrMask
	ErrArgs    = errors.New("qr: invalid arguments")
)

// Options control encoding.  The zero value is not ready for use;
// start from DefaultOptions.
type Options struct {
	MinVersion int  // smallest version to use, 1 by default
	MaxVersion int  // largest version to use, 40 by default
	Mask       int  // mask 0 to 7, or -1 (default) for the best one
	Boost      bool // raise the level as far as the chosen version allows
	Parallel   bool // evaluate masks concurrently
}

// DefaultOptions returns options for versions 1 to 40, automatic mask
// selection and no level boost.
func DefaultOptions() Options {
	return Options{
		MinVersion: int(coding.MinVersion),
		MaxVersion: int(coding.MaxVersion),
		Mask:       int(coding.AutoMask),
	}
}

// An Option modifies Options.
type Option func(*Options)

// WithOptions replaces all options with o.
func WithOptions(o Options) Option { return func(p *Options) { *p = o } }

// WithMinVersion sets the smallest version to use.
func WithMinVersion(v int) Option { return func(o *Options) { o.MinVersion = v } }

// WithMaxVersion sets the largest version to use.
func WithMaxVersion(v int) Option { return func(o *Options) { o.MaxVersion = v } }

// WithMask forces mask m, or selects the best mask if m is -1.
func WithMask(m int) Option { return func(o *Options) { o.Mask = m } }

// WithBoost sets whether to raise the error correction level while
// the data still fits the chosen version.
func WithBoost(boost bool) Option { return func(o *Options) { o.Boost = boost } }

// WithParallel sets whether to evaluate masks concurrently.  The result
// does not depend on it.
func WithParallel(parallel bool) Option {
	return func(o *Options) { o.Parallel = parallel }
}

// Encode returns an encoding of text at the given error correction
// level.  Text consisting of digits is encoded in numeric mode, text in
// the alphanumeric set in alphanumeric mode, and anything else as
// UTF-8 bytes.
func Encode(text string, level Level, opts ...Option) (*Code, error) {
	return EncodeSegments(coding.MakeSegments(text), level, opts...)
}

// EncodeBytes returns an encoding of data in byte mode at the given
// error correction level.
func EncodeBytes(data []byte, level Level, opts ...Option) (*Code, error) {
	var segs []coding.Segment
	if len(data) != 0 {
		segs = []coding.Segment{coding.MakeBytes(data)}
	}
	return EncodeSegments(segs, level, opts...)
}

// EncodeSegments returns an encoding of segs at the given error
// correction level.
func EncodeSegments(segs []coding.Segment, level Level, opts ...Option) (*Code, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := coding.Level(level)
	if !l.IsValid() {
		return nil, ErrLevel
	}
	minVer, err := coding.NewVersion(o.MinVersion)
	if err != nil {
		return nil, err
	}
	maxVer, err := coding.NewVersion(o.MaxVersion)
	if err != nil {
		return nil, err
	}
	m, err := coding.NewMask(o.Mask)
	if err != nil {
		return nil, err
	}

	log := Logger()
	v, el, nbit, err := coding.Select(segs, l, minVer, maxVer, o.Boost)
	if err != nil {
		log.Debug("qr: no version fits",
			"segments", len(segs), "level", l, "max_version", maxVer)
		return nil, err
	}
	log.Debug("qr: version selected",
		"version", v, "level", el, "requested_level", l,
		"bits", nbit, "capacity", v.DataBits(el))

	e, err := coding.NewEncoder(v, el)
	if err != nil {
		return nil, err
	}
	e.SetParallel(o.Parallel)
	cc, err := e.Encode(m, segs...)
	if err != nil {
		return nil, err
	}
	log.Debug("qr: mask selected",
		"mask", cc.Mask, "forced", m != coding.AutoMask)
	return newCode(cc), nil
}
