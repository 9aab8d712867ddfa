// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qr generates QR codes.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"

	"github.com/unixdj/qrgen"
	"github.com/unixdj/qrgen/coding"
	"github.com/unixdj/qrgen/payload"
)

// config holds defaults taken from the environment.  Flags override
// them.
type config struct {
	Level      string `env:"QR_LEVEL" envDefault:"l"`
	MinVersion int    `env:"QR_MIN_VERSION" envDefault:"1"`
	MaxVersion int    `env:"QR_MAX_VERSION" envDefault:"40"`
	Mask       int    `env:"QR_MASK" envDefault:"-1"`
	Boost      bool   `env:"QR_BOOST"`
	Scale      int    `env:"QR_SCALE" envDefault:"8"`
	Border     int    `env:"QR_BORDER" envDefault:"4"`
	Format     string `env:"QR_FORMAT"`
}

var g = struct {
	cfg      config
	lev      qr.Level // QR correction level
	opts     qr.Options
	rev      bool   // reverse colours
	fn       string // filename
	format   int    // output file format
	eci      int    // ECI segment value, -1 for none
	eciflag  bool   // ECI flag
	latin1   bool   // Latin-1 byte mode
	kanji    bool   // kanji mode segments
	byteOnly bool   // byte mode only
	upper    bool   // uppercase
	debug    bool   // debug log
	wifi     string // -W argument
	email    string // -@ argument
}{
	eci: -1,
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "QR code generator")
	getopt.CommandLine.PrintUsage(w)
	fmt.Fprint(w, `
If no string is given, data is read from standard input and the final
newline is stripped.  Text is encoded in numeric, alphanumeric or byte
mode, whichever fits all of it.  Defaults for -l, -n, -v, -M, -b, -s,
-m and -t are read from QR_LEVEL, QR_MIN_VERSION, QR_MAX_VERSION,
QR_MASK, QR_BOOST, QR_SCALE, QR_BORDER and QR_FORMAT.

With -W or -@ no string may be given.  Security types for -W are WPA,
WEP and nopass; the hidden field is a boolean such as "true".
`)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 0.9.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "eps", "epsi",
	"utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	func(c *qr.Code, w io.Writer) error { return png.Encode(w, c.Image()) },
	(*qr.Code).EncodePBM,
	eps,
	func(c *qr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	ascii,
}

func bad(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	usage()
}

func parseFlags() {
	if err := env.Parse(&g.cfg); err != nil {
		log.Fatalln(err)
	}
	cfg := &g.cfg

	getopt.SetUsage(usage)
	getopt.SetParameters("[string ...]")
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(&g.latin1, '1',
		"encode byte mode segments in Latin-1")
	getopt.Flag(&g.byteOnly, '8', "encode entire data in byte mode")
	getopt.Flag(&g.kanji, 'k', "encode kanji in kanji mode segments")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&cfg.Boost, 'b', "raise error correction level "+
		"while data fits the version")
	getopt.Flag(&g.opts.Parallel, 'P', "evaluate masks concurrently")
	getopt.Flag(&g.debug, 'd', "log encoding decisions to standard error")
	getopt.Flag(&cfg.Border, 'm', `quiet zone modules`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	getopt.Flag(&g.eciflag, 'e', "encode ECI segment setting "+
		"character encoding according to -1 and -k flags")
	eci := getopt.Signed('E', -1, &getopt.SignedLimit{Base: 0, Bits: 21,
		Min: 0, Max: 999999},
		"encode ECI segment with the given value; overrides -e", "eci")
	getopt.Flag(&g.wifi, 'W', "encode WiFi network credentials",
		"ssid,security[,password[,hidden]]")
	getopt.Flag(&g.email, '@', "encode a mailto link; "+
		"the body may contain commas", "to[,subject[,body]]")
	getopt.Flag(&cfg.MinVersion, 'n', "smallest QR code version", "ver")
	getopt.Flag(&cfg.MaxVersion, 'v', "largest QR code version", "ver")
	getopt.Flag(&cfg.Mask, 'M', "mask pattern 0 to 7, "+
		"or -1 for the lowest penalty", "mask")
	getopt.Flag(&cfg.Level, 'l',
		"error correction level, lowest to highest", "l|m|q|h")
	getopt.Flag(&cfg.Scale, 's',
		`image pixels (type eps[i]: points) per QR module ("pixel"); `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	getopt.Flag(&cfg.Format, 't', `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	lev, err := qr.ParseLevel(cfg.Level)
	if err != nil {
		bad("%q: bad error correction level", cfg.Level)
	}
	g.lev = lev
	g.opts.MinVersion = cfg.MinVersion
	g.opts.MaxVersion = cfg.MaxVersion
	g.opts.Mask = cfg.Mask
	g.opts.Boost = cfg.Boost
	if cfg.Scale < 1 {
		bad("%d: bad scale", cfg.Scale)
	}
	if cfg.Border < 0 {
		bad("%d: bad margin", cfg.Border)
	}
	if g.byteOnly && g.kanji {
		bad("-8 and -k are incompatible")
	}
	if getopt.IsSet('W') && getopt.IsSet('@') {
		bad("-W and -@ are incompatible")
	}
	if (getopt.IsSet('W') || getopt.IsSet('@')) && len(getopt.Args()) != 0 {
		bad("-W and -@ take no string arguments")
	}
	g.eci = int(*eci)
	if cfg.Format == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			cfg.Format = "utf8"
		} else {
			cfg.Format = "png"
		}
	}
	i := slices.Index(formats, cfg.Format)
	if i < 0 {
		bad("%q: unknown output format", cfg.Format)
	}
	g.format = i >> 1
	g.rev = i&1 != 0
	if g.fn == "-" {
		g.fn = ""
	}
	if g.eciflag && !getopt.IsSet('E') {
		switch {
		case g.latin1:
			g.eci = qr.Latin1ECI
		case g.kanji:
			g.eci = qr.ShiftJISECI
		default:
			g.eci = qr.UTF8ECI
		}
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()
	if g.debug {
		qr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var s string
	switch {
	case getopt.IsSet('W'):
		w, err := parseWiFi(g.wifi)
		if err != nil {
			log.Fatalln(err)
		}
		s = w.String()
	case getopt.IsSet('@'):
		s = parseEmail(g.email).String()
	default:
		s = readText()
	}
	if g.upper {
		s = strings.ToUpper(s)
	}

	segs, err := segments(s)
	if err != nil {
		log.Fatalln(err)
	}
	c, err := qr.EncodeSegments(segs, g.lev, qr.WithOptions(g.opts))
	if err != nil {
		log.Fatalln(err)
	}
	write(c)
}

// readText returns the command line arguments joined by spaces, or
// standard input without the final newline.
func readText() string {
	if args := getopt.Args(); len(args) != 0 {
		return strings.Join(args, " ")
	}
	var b strings.Builder
	if _, err := io.Copy(&b, os.Stdin); err != nil {
		log.Fatalln(err)
	}
	s, _ := strings.CutSuffix(
		strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	return s
}

// parseWiFi parses the -W argument "ssid,security[,password[,hidden]]".
// The password may not contain commas.
func parseWiFi(arg string) (payload.WiFi, error) {
	var w payload.WiFi
	f := strings.Split(arg, ",")
	if len(f) < 2 || len(f) > 4 || f[0] == "" {
		return w, fmt.Errorf("%q: want ssid,security[,password[,hidden]]", arg)
	}
	sec, err := payload.ParseSecurity(f[1])
	if err != nil {
		return w, fmt.Errorf("%q: %w", f[1], err)
	}
	w.SSID, w.Security = f[0], sec
	if len(f) > 2 {
		w.Password = f[2]
	}
	if len(f) > 3 {
		if w.Hidden, err = strconv.ParseBool(f[3]); err != nil {
			return w, fmt.Errorf("%q: bad hidden flag", f[3])
		}
	}
	return w, nil
}

// parseEmail parses the -@ argument "to[,subject[,body]]".
func parseEmail(arg string) payload.Email {
	var e payload.Email
	f := strings.SplitN(arg, ",", 3)
	e.To = f[0]
	if len(f) > 1 {
		e.Subject = f[1]
	}
	if len(f) > 2 {
		e.Body = f[2]
	}
	return e
}

// segments splits s into segments according to the flags.
func segments(s string) ([]coding.Segment, error) {
	var segs []coding.Segment
	if g.eci >= 0 {
		e, err := coding.MakeECI(uint32(g.eci))
		if err != nil {
			return nil, err
		}
		segs = append(segs, e)
	}
	if s == "" {
		return segs, nil
	}
	switch {
	case g.byteOnly && g.latin1:
		seg, err := coding.MakeLatin1(s)
		if err != nil {
			return nil, err
		}
		return append(segs, seg), nil
	case g.byteOnly:
		return append(segs, coding.MakeBytes([]byte(s))), nil
	case g.kanji:
		for len(s) != 0 {
			n := kanjiRun(s)
			if n == 0 {
				n = len(s) - len(strings.TrimLeftFunc(s, isNotKanji))
				text, err := textSegments(s[:n])
				if err != nil {
					return nil, err
				}
				segs = append(segs, text...)
			} else {
				k, err := coding.MakeKanji(s[:n])
				if err != nil {
					return nil, err
				}
				segs = append(segs, k)
			}
			s = s[n:]
		}
		return segs, nil
	}
	text, err := textSegments(s)
	if err != nil {
		return nil, err
	}
	return append(segs, text...), nil
}

// textSegments encodes s in one numeric, alphanumeric or byte mode
// segment, converting byte mode data to Latin-1 if -1 is given.
func textSegments(s string) ([]coding.Segment, error) {
	if !g.latin1 || coding.IsAlphanumeric(s) {
		return coding.MakeSegments(s), nil
	}
	seg, err := coding.MakeLatin1(s)
	if err != nil {
		return nil, err
	}
	return []coding.Segment{seg}, nil
}

func isNotKanji(r rune) bool { return !coding.IsKanji(r) }

// kanjiRun returns the length of the prefix of s consisting of
// characters encodable in kanji mode.
func kanjiRun(s string) int {
	return len(s) - len(strings.TrimLeftFunc(s, coding.IsKanji))
}

func write(c *qr.Code) {
	w := os.Stdout
	open := g.fn != ""
	if open {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	c.Scale = g.cfg.Scale
	c.Border = g.cfg.Border
	c.Reverse = g.rev
	err := encoders[g.format](c, w)
	if open && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// eps writes the code as Encapsulated PostScript centred on a US
// letter page, with Scale points per module and one filled rectangle
// per horizontal run of dark modules.
func eps(c *qr.Code, w io.Writer) error {
	const pageW, pageH = 612, 792
	siz, bord, scale := c.Size(), c.Border, c.Scale
	side := (siz + 2*bord) * scale
	x0, y0 := (pageW-side)/2, (pageH-side)/2
	var b bytes.Buffer
	fmt.Fprintf(&b, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: qr https://github.com/unixdj/qrgen
%%%%Title: QR Code %d-%s
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
gsave
%d %d translate
%d dup neg scale
/R { 1 rectfill } def
`,
		c.Version(), c.Level(), x0, y0, x0+side, y0+side,
		x0+bord*scale, y0+side-bord*scale, scale)
	if c.Reverse {
		// Paint the quiet zone dark and draw light modules over it.
		fmt.Fprintf(&b, "0 setgray %d %d %d %d rectfill 1 setgray\n",
			-bord, -bord, siz+2*bord, siz+2*bord)
	}
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			for x < siz && !c.Black(x, y) {
				x++
			}
			start := x
			for x < siz && c.Black(x, y) {
				x++
			}
			if x > start {
				fmt.Fprintf(&b, "%d %d %d R\n", start, y, x-start)
			}
		}
	}
	b.WriteString("grestore\n%%Trailer\n%%EOF\n")
	_, err := w.Write(b.Bytes())
	return err
}

// ascii draws the code with two characters per module, "##" for dark
// and two spaces for light.
func ascii(c *qr.Code, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := -c.Border; y < c.Size()+c.Border; y++ {
		for x := -c.Border; x < c.Size()+c.Border; x++ {
			if c.Black(x, y) != c.Reverse {
				bw.WriteString("##")
			} else {
				bw.WriteString("  ")
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
