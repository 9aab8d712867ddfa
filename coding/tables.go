// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Tables from ISO/IEC 18004:2015, tables 1, 9 and E.1.

// Codeword capacity of each version: total codewords, remainder bits
// and error correction codewords for levels L, M, Q, H.
var capacity = [MaxVersion + 1]struct {
	words     int
	remainder int
	ec        [4]int
}{
	{0, 0, [4]int{0, 0, 0, 0}},
	{26, 0, [4]int{7, 10, 13, 17}}, // 1
	{44, 7, [4]int{10, 16, 22, 28}},
	{70, 7, [4]int{15, 26, 36, 44}},
	{100, 7, [4]int{20, 36, 52, 64}},
	{134, 7, [4]int{26, 48, 72, 88}}, // 5
	{172, 7, [4]int{36, 64, 96, 112}},
	{196, 0, [4]int{40, 72, 108, 130}},
	{242, 0, [4]int{48, 88, 132, 156}},
	{292, 0, [4]int{60, 110, 160, 192}},
	{346, 0, [4]int{72, 130, 192, 224}}, // 10
	{404, 0, [4]int{80, 150, 224, 264}},
	{466, 0, [4]int{96, 176, 260, 308}},
	{532, 0, [4]int{104, 198, 288, 352}},
	{581, 3, [4]int{120, 216, 320, 384}},
	{655, 3, [4]int{132, 240, 360, 432}}, // 15
	{733, 3, [4]int{144, 280, 408, 480}},
	{815, 3, [4]int{168, 308, 448, 532}},
	{901, 3, [4]int{180, 338, 504, 588}},
	{991, 3, [4]int{196, 364, 546, 650}},
	{1085, 3, [4]int{224, 416, 600, 700}}, // 20
	{1156, 4, [4]int{224, 442, 644, 750}},
	{1258, 4, [4]int{252, 476, 690, 816}},
	{1364, 4, [4]int{270, 504, 750, 900}},
	{1474, 4, [4]int{300, 560, 810, 960}},
	{1588, 4, [4]int{312, 588, 870, 1050}}, // 25
	{1706, 4, [4]int{336, 644, 952, 1110}},
	{1828, 4, [4]int{360, 700, 1020, 1200}},
	{1921, 3, [4]int{390, 728, 1050, 1260}},
	{2051, 3, [4]int{420, 784, 1140, 1350}},
	{2185, 3, [4]int{450, 812, 1200, 1440}}, // 30
	{2323, 3, [4]int{480, 868, 1290, 1530}},
	{2465, 3, [4]int{510, 924, 1350, 1620}},
	{2611, 3, [4]int{540, 980, 1440, 1710}},
	{2761, 3, [4]int{570, 1036, 1530, 1800}},
	{2876, 0, [4]int{570, 1064, 1590, 1890}}, // 35
	{3034, 0, [4]int{600, 1120, 1680, 1980}},
	{3196, 0, [4]int{630, 1204, 1770, 2100}},
	{3362, 0, [4]int{660, 1260, 1860, 2220}},
	{3532, 0, [4]int{720, 1316, 1950, 2310}},
	{3706, 0, [4]int{750, 1372, 2040, 2430}}, // 40
}

// Number of error correction blocks in the short and the long group
// for levels L, M, Q, H.  Long blocks hold one more data codeword.
var eccTable = [MaxVersion + 1][4][2]int{
	{{0, 0}, {0, 0}, {0, 0}, {0, 0}},
	{{1, 0}, {1, 0}, {1, 0}, {1, 0}}, // 1
	{{1, 0}, {1, 0}, {1, 0}, {1, 0}},
	{{1, 0}, {1, 0}, {2, 0}, {2, 0}},
	{{1, 0}, {2, 0}, {2, 0}, {4, 0}},
	{{1, 0}, {2, 0}, {2, 2}, {2, 2}}, // 5
	{{2, 0}, {4, 0}, {4, 0}, {4, 0}},
	{{2, 0}, {4, 0}, {2, 4}, {4, 1}},
	{{2, 0}, {2, 2}, {4, 2}, {4, 2}},
	{{2, 0}, {3, 2}, {4, 4}, {4, 4}},
	{{2, 2}, {4, 1}, {6, 2}, {6, 2}}, // 10
	{{4, 0}, {1, 4}, {4, 4}, {3, 8}},
	{{2, 2}, {6, 2}, {4, 6}, {7, 4}},
	{{4, 0}, {8, 1}, {8, 4}, {12, 4}},
	{{3, 1}, {4, 5}, {11, 5}, {11, 5}},
	{{5, 1}, {5, 5}, {5, 7}, {11, 7}}, // 15
	{{5, 1}, {7, 3}, {15, 2}, {3, 13}},
	{{1, 5}, {10, 1}, {1, 15}, {2, 17}},
	{{5, 1}, {9, 4}, {17, 1}, {2, 19}},
	{{3, 4}, {3, 11}, {17, 4}, {9, 16}},
	{{3, 5}, {3, 13}, {15, 5}, {15, 10}}, // 20
	{{4, 4}, {17, 0}, {17, 6}, {19, 6}},
	{{2, 7}, {17, 0}, {7, 16}, {34, 0}},
	{{4, 5}, {4, 14}, {11, 14}, {16, 14}},
	{{6, 4}, {6, 14}, {11, 16}, {30, 2}},
	{{8, 4}, {8, 13}, {7, 22}, {22, 13}}, // 25
	{{10, 2}, {19, 4}, {28, 6}, {33, 4}},
	{{8, 4}, {22, 3}, {8, 26}, {12, 28}},
	{{3, 10}, {3, 23}, {4, 31}, {11, 31}},
	{{7, 7}, {21, 7}, {1, 37}, {19, 26}},
	{{5, 10}, {19, 10}, {15, 25}, {23, 25}}, // 30
	{{13, 3}, {2, 29}, {42, 1}, {23, 28}},
	{{17, 0}, {10, 23}, {10, 35}, {19, 35}},
	{{17, 1}, {14, 21}, {29, 19}, {11, 46}},
	{{13, 6}, {14, 23}, {44, 7}, {59, 1}},
	{{12, 7}, {12, 26}, {39, 14}, {22, 41}}, // 35
	{{6, 14}, {6, 34}, {46, 10}, {2, 64}},
	{{17, 4}, {29, 14}, {49, 10}, {24, 46}},
	{{4, 18}, {13, 32}, {48, 14}, {42, 32}},
	{{20, 4}, {40, 7}, {43, 22}, {10, 67}},
	{{19, 6}, {18, 31}, {34, 34}, {20, 61}}, // 40
}

// Centre coordinates of the first two alignment pattern columns
// (and rows) after the one at 6.  The remaining ones are spaced
// evenly up to Size-7.
var align = [MaxVersion + 1][2]int{
	{0, 0},
	{0, 0}, {18, 0}, {22, 0}, {26, 0}, {30, 0}, // 1- 5
	{34, 0}, {22, 38}, {24, 42}, {26, 46}, {28, 50}, // 6-10
	{30, 54}, {32, 58}, {34, 62}, {26, 46}, {26, 48}, //11-15
	{26, 50}, {30, 54}, {30, 56}, {30, 58}, {34, 62}, //16-20
	{28, 50}, {26, 50}, {30, 54}, {28, 54}, {32, 58}, //21-25
	{30, 58}, {34, 62}, {26, 50}, {30, 54}, {26, 52}, //26-30
	{30, 56}, {34, 60}, {30, 58}, {34, 62}, {30, 54}, //31-35
	{24, 50}, {28, 54}, {32, 58}, {26, 54}, {30, 58}, //36-40
}

// TotalCodewords returns the number of data and error correction
// codewords in a version v code.
func (v Version) TotalCodewords() int { return capacity[v].words }

// RemainderBits returns the number of bits left over after placing
// all codewords in a version v code.
func (v Version) RemainderBits() int { return capacity[v].remainder }

// Blocks returns the number of error correction blocks in the short
// and the long group for a version v code at level l.
func (v Version) Blocks(l Level) (short, long int) {
	b := eccTable[v][l]
	return b[0], b[1]
}

// ECCodewordsPerBlock returns the number of error correction codewords
// in each block of a version v code at level l.
func (v Version) ECCodewordsPerBlock(l Level) int {
	s, g := v.Blocks(l)
	return capacity[v].ec[l] / (s + g)
}

// DataCodewords returns the number of data codewords that can be
// stored in a QR code with the given version and level.
func (v Version) DataCodewords(l Level) int {
	return capacity[v].words - capacity[v].ec[l]
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataCodewords(l) * 8 }

// AlignmentPositions returns the centre coordinates of alignment
// pattern rows and columns, in ascending order.  Version 1 has none.
func (v Version) AlignmentPositions() []int {
	a := align[v]
	if a[0] == 0 {
		return nil
	}
	last := v.Size() - 7
	if a[1] == 0 {
		return []int{6, a[0]}
	}
	pos := []int{6}
	for p := a[0]; p <= last; p += a[1] - a[0] {
		pos = append(pos, p)
	}
	return pos
}

// versionInfo returns the 18 bit version information for v: 6 bits
// of version number followed by the BCH(18,6) remainder.
func (v Version) versionInfo() uint32 {
	const versionPoly = 0x1f25
	rem := uint32(v) << 12
	for i := 5; i >= 0; i-- {
		if rem&(1<<12<<i) != 0 {
			rem ^= versionPoly << i
		}
	}
	return uint32(v)<<12 | rem
}

// formatInfo returns the 15 bit format information for level l and
// mask m: 5 data bits and the BCH(15,5) remainder, xored with 0x5412.
func formatInfo(l Level, m Mask) uint32 {
	const formatPoly = 0x537
	fb := (l.formatBits()<<3 | uint32(m)) << 10
	rem := fb
	for i := 4; i >= 0; i-- {
		if rem&(1<<10<<i) != 0 {
			rem ^= formatPoly << i
		}
	}
	return (fb | rem) ^ 0x5412
}
