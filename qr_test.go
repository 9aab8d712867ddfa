// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/qrgen/coding"
)

// grid renders c with '#' for dark and '.' for light modules.
func grid(c *Code) []string {
	rows := make([]string, c.Size())
	for y := range rows {
		var b strings.Builder
		for x := 0; x < c.Size(); x++ {
			if c.Black(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

var helloWorldQ = []string{
	"#######.##....#######",
	"#.....#.#..#..#.....#",
	"#.###.#.#..##.#.###.#",
	"#.###.#.#.....#.###.#",
	"#.###.#.#.#...#.###.#",
	"#.....#...#...#.....#",
	"#######.#.#.#.#######",
	"........#............",
	".##.#.##....#.#.#####",
	".#......####....#...#",
	"..##.###.##...#.##...",
	".##.##.#..##.#.#.###.",
	"#...#.#.#.###.###.#.#",
	"........##.#..#...#.#",
	"#######.#.#....#.##..",
	"#.....#..#.##.##.#...",
	"#.###.#.#.#...#######",
	"#.###.#..#.#.#.#...#.",
	"#.###.#.#..#.###.#..#",
	"#.....#.#.####...#.##",
	"#######....#.###....#",
}

var emptyM = []string{
	"#######.##.##.#######",
	"#.....#.##.##.#.....#",
	"#.###.#.##..#.#.###.#",
	"#.###.#..##...#.###.#",
	"#.###.#.##.##.#.###.#",
	"#.....#.......#.....#",
	"#######.#.#.#.#######",
	".....................",
	"#..#######.#.#..#.###",
	"..#.##.###.###.###.##",
	"..#..###.#.##..#.#..#",
	"######.###..#####..#.",
	"##....##...##########",
	"........#.#.###...###",
	"#######.##.#.....##.#",
	"#.....#.#.....#...#..",
	"#.###.#.###..##.#.##.",
	"#.###.#.##..#####....",
	"#.###.#...####.###.##",
	"#.....#..#.##..#.#.##",
	"#######.#.#.##.##.##.",
}

func TestEncodeReference(t *testing.T) {
	t.Parallel()
	c, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version())
	assert.Equal(t, Q, c.Level())
	assert.Equal(t, 0, c.Mask())
	assert.Equal(t, 21, c.Size())
	assert.Equal(t, helloWorldQ, grid(c))
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()
	c, err := Encode("", M)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version())
	assert.Equal(t, M, c.Level())
	assert.Equal(t, 6, c.Mask())
	assert.Equal(t, emptyM, grid(c))

	b, err := EncodeBytes(nil, M)
	require.NoError(t, err)
	assert.Equal(t, emptyM, grid(b))
}

func TestReferenceMasks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text    string
		level   Level
		version int
		mask    int
	}{
		{"HELLO WORLD", M, 1, 0},
		{"Hello, world!", M, 1, 2},
		{"01234567", M, 1, 0},
		{"3.14159", H, 1, 5},
		{"https://www.nayuki.io/", L, 2, 4},
		{"https://github.com/unixdj/qrgen", M, 3, 0},
		{"3141592653589793238462643383279502884197", H, 3, 1},
		{"The quick brown fox jumps over the lazy dog", L, 3, 3},
		{strings.Repeat("The quick brown fox jumps over the lazy dog", 4), M, 9, 2},
		{strings.Repeat("0123456789", 60), Q, 14, 3},
		{strings.Repeat("ABC DEF ", 90), H, 24, 6},
	}
	for _, tt := range tests {
		c, err := Encode(tt.text, tt.level)
		require.NoError(t, err, "%.20q", tt.text)
		assert.Equal(t, tt.version, c.Version(), "%.20q", tt.text)
		assert.Equal(t, tt.level, c.Level(), "%.20q", tt.text)
		assert.Equal(t, tt.mask, c.Mask(), "%.20q", tt.text)
	}
}

func TestForcedMask(t *testing.T) {
	t.Parallel()
	auto, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	for m := 0; m < 8; m++ {
		c, err := Encode("HELLO WORLD", Q, WithMask(m))
		require.NoError(t, err)
		assert.Equal(t, m, c.Mask())
		if m == auto.Mask() {
			assert.Equal(t, grid(auto), grid(c))
		} else {
			assert.NotEqual(t, grid(auto), grid(c), "mask %d", m)
		}
	}
	_, err = Encode("HELLO WORLD", Q, WithMask(8))
	assert.ErrorIs(t, err, ErrMask)
	_, err = Encode("HELLO WORLD", Q, WithMask(-2))
	assert.ErrorIs(t, err, ErrMask)
}

func TestLargePayload(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("abcdefghij", 290)
	c, err := Encode(text, L)
	require.NoError(t, err)
	assert.Equal(t, 40, c.Version())
	assert.Equal(t, 177, c.Size())

	// The smallest version whose capacity holds the byte segment.
	nbit := 4 + 16 + 8*len(text)
	want := 0
	for v := coding.Version(27); v <= coding.MaxVersion; v++ {
		if nbit <= v.DataBits(coding.L) {
			want = int(v)
			break
		}
	}
	assert.Equal(t, want, c.Version())

	c, err = Encode(strings.Repeat("HELLO WORLD ", 250), L)
	require.NoError(t, err)
	assert.Equal(t, 33, c.Version())
}

func TestDataTooLong(t *testing.T) {
	t.Parallel()
	_, err := Encode(strings.Repeat("x", 1274), H)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataTooLong)
	assert.True(t, errors.Is(err, coding.ErrDataTooLong))

	c, err := Encode(strings.Repeat("x", 1273), H)
	require.NoError(t, err)
	assert.Equal(t, 40, c.Version())

	_, err = EncodeBytes(make([]byte, 2954), L)
	assert.ErrorIs(t, err, ErrDataTooLong)
	c, err = EncodeBytes(make([]byte, 2953), L)
	require.NoError(t, err)
	assert.Equal(t, 40, c.Version())

	_, err = Encode("HELLO WORLD", Q, WithMaxVersion(1))
	assert.NoError(t, err)
	_, err = Encode(strings.Repeat("HELLO WORLD", 2), Q, WithMaxVersion(1))
	assert.ErrorIs(t, err, ErrDataTooLong)
}

func TestOptions(t *testing.T) {
	t.Parallel()
	c, err := Encode("HELLO WORLD", L, WithMinVersion(5))
	require.NoError(t, err)
	assert.Equal(t, 5, c.Version())
	assert.Equal(t, 37, c.Size())

	c, err = Encode("HELLO WORLD", L, WithBoost(true))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version())
	assert.Equal(t, Q, c.Level())
	assert.Equal(t, 0, c.Mask())
	ref, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	assert.Equal(t, grid(ref), grid(c))

	o := DefaultOptions()
	o.MinVersion, o.Mask = 2, 5
	c, err = Encode("HELLO WORLD", M, WithOptions(o))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version())
	assert.Equal(t, 5, c.Mask())

	for _, opt := range []Option{
		WithMinVersion(0), WithMaxVersion(41), WithMaxVersion(0),
		WithOptions(Options{}), WithOptions(Options{MinVersion: 3, MaxVersion: 2, Mask: -1}),
	} {
		_, err := Encode("x", L, opt)
		assert.ErrorIs(t, err, ErrVersion)
	}
	_, err = Encode("x", Level(4))
	assert.ErrorIs(t, err, ErrLevel)
}

func TestParallel(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"", "HELLO WORLD", strings.Repeat("parallel mask search ", 20)} {
		for l := L; l <= H; l++ {
			seq, err := Encode(text, l)
			require.NoError(t, err)
			par, err := Encode(text, l, WithParallel(true))
			require.NoError(t, err)
			assert.Equal(t, seq.Mask(), par.Mask())
			assert.Equal(t, grid(seq), grid(par))
		}
	}
}

func TestConcurrentEncode(t *testing.T) {
	t.Parallel()
	want, err := Encode("concurrent", M)
	require.NoError(t, err)
	var wg sync.WaitGroup
	grids := make([][]string, 16)
	for i := range grids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := Encode("concurrent", M, WithParallel(i%2 == 0))
			if err == nil {
				grids[i] = grid(c)
			}
		}()
	}
	wg.Wait()
	for _, g := range grids {
		assert.Equal(t, grid(want), g)
	}
}

func TestMonotonic(t *testing.T) {
	t.Parallel()
	prev := 1
	for n := 0; n <= 2331; n += 97 {
		c, err := EncodeBytes(bytes.Repeat([]byte{0xa5}, n), M)
		require.NoError(t, err, "%d bytes", n)
		assert.GreaterOrEqual(t, c.Version(), prev, "%d bytes", n)
		prev = c.Version()
	}
	_, err := EncodeBytes(make([]byte, 2332), M)
	assert.ErrorIs(t, err, ErrDataTooLong)
}

func TestEncodeSegments(t *testing.T) {
	t.Parallel()
	alpha, err := coding.MakeAlphanumeric("HELLO ")
	require.NoError(t, err)
	kanji, err := coding.MakeKanji("点茗")
	require.NoError(t, err)
	eci, err := coding.MakeECI(UTF8ECI)
	require.NoError(t, err)

	// 46 + 38 bits fit 1-M.
	c, err := EncodeSegments([]coding.Segment{alpha, kanji}, M)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version())

	// With the ECI header, 96 bits exceed 1-H's 72.
	c, err = EncodeSegments([]coding.Segment{eci, alpha, kanji}, H)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version())

	c, err = EncodeSegments(nil, H)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	l, err := ParseLevel("high")
	require.NoError(t, err)
	assert.Equal(t, H, l)
	_, err = ParseLevel("z")
	assert.ErrorIs(t, err, ErrLevel)
	assert.Equal(t, "M", M.String())
}

func TestImage(t *testing.T) {
	t.Parallel()
	c, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	img := c.Image()
	require.NotNil(t, img)
	assert.Equal(t, 232, img.Bounds().Dx())
	assert.Equal(t, 232, img.Bounds().Dy())
	assert.Equal(t, color.GrayModel, img.ColorModel())
	gray := func(x, y int) uint8 { return img.At(x, y).(color.Gray).Y }
	assert.Equal(t, uint8(0xff), gray(0, 0))
	assert.Equal(t, uint8(0x00), gray(32, 32))
	assert.Equal(t, uint8(0x00), gray(39, 39))
	assert.Equal(t, uint8(0xff), gray(32+7*8, 32))
	assert.Equal(t, uint8(0xff), gray(231, 231))

	c.Reverse = true
	assert.Equal(t, uint8(0x00), gray(0, 0))
	assert.Equal(t, uint8(0xff), gray(32, 32))

	c.Scale = 0
	assert.Nil(t, c.Image())
}

func TestEncodePBM(t *testing.T) {
	t.Parallel()
	c, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	c.Scale, c.Border = 1, 0
	var b bytes.Buffer
	require.NoError(t, c.EncodePBM(&b))
	out := b.Bytes()
	header := "P4\n21 21\n"
	require.True(t, bytes.HasPrefix(out, []byte(header)))
	out = out[len(header):]
	require.Len(t, out, 21*3)
	assert.Equal(t, []byte{0xfe, 0xc3, 0xf8}, out[:3])

	c.Scale, c.Border = 2, 1
	b.Reset()
	require.NoError(t, c.EncodePBM(&b))
	header = "P4\n46 46\n"
	require.True(t, bytes.HasPrefix(b.Bytes(), []byte(header)))
	out = b.Bytes()[len(header):]
	require.Len(t, out, 46*6)
	assert.Equal(t, make([]byte, 12), out[:12])
	// Module row 0 starts after two light pixels.
	assert.Equal(t, byte(0x3f), out[12])
	assert.Equal(t, out[12:18], out[18:24])

	c.Reverse = true
	b.Reset()
	require.NoError(t, c.EncodePBM(&b))
	out = b.Bytes()[len(header):]
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xfc}, out[:6])

	c.Border = -1
	assert.ErrorIs(t, c.EncodePBM(&b), ErrArgs)
}

func TestString(t *testing.T) {
	t.Parallel()
	c, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	c.Border = 0
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "█▀▀▀▀▀█ █▀ ▄  █▀▀▀▀▀█", lines[0])
	last := []rune(lines[10])
	require.Len(t, last, 21)
	assert.Equal(t, '▀', last[0])
	assert.Equal(t, ' ', last[7])

	c.Border = 4
	lines = strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, strings.Repeat(" ", 29), lines[0])
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	_, err := Encode("HELLO WORLD", L, WithBoost(true))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "qr: version selected")
	assert.Contains(t, out, "version=1")
	assert.Contains(t, out, "level=Q")
	assert.Contains(t, out, "requested_level=L")
	assert.Contains(t, out, "qr: mask selected")

	buf.Reset()
	_, err = Encode(strings.Repeat("x", 3000), H)
	assert.ErrorIs(t, err, ErrDataTooLong)
	assert.Contains(t, buf.String(), "qr: no version fits")

	SetLogger(nil)
	buf.Reset()
	_, err = Encode("HELLO WORLD", L)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
