// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package payload builds the text of structured QR code contents that
// phones recognise: WiFi network credentials and mailto links.
//
// The String method of each type returns text ready for qr.Encode.
package payload

import (
	"errors"
	"net/url"
	"strings"
)

// ErrSecurity is returned by ParseSecurity for an unknown security
// type.
var ErrSecurity = errors.New("payload: unknown WiFi security type")

// A Security is a WiFi authentication type.
type Security int

const (
	WPA    Security = iota // WPA or WPA2 personal
	WEP                    // WEP
	NoPass                 // open network
)

var securityNames = [...]string{WPA: "WPA", WEP: "WEP", NoPass: "nopass"}

func (s Security) String() string {
	if 0 <= s && int(s) < len(securityNames) {
		return securityNames[s]
	}
	return "nopass"
}

// ParseSecurity parses a security type name, ignoring case: "WPA",
// "WEP" or "nopass".  "WPA2" and "none" are accepted as aliases.
func ParseSecurity(s string) (Security, error) {
	switch strings.ToLower(s) {
	case "wpa", "wpa2":
		return WPA, nil
	case "wep":
		return WEP, nil
	case "nopass", "none", "":
		return NoPass, nil
	}
	return 0, ErrSecurity
}

// WiFi describes a wireless network to join.
type WiFi struct {
	SSID     string
	Security Security
	Password string // empty for no password
	Hidden   bool   // the network does not broadcast its SSID
}

// wifiEscaper escapes characters with special meaning in WIFI: fields.
var wifiEscaper = strings.NewReplacer(
	`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`, `"`, `\"`)

// String returns the network in the form
//
//	WIFI:T:<WPA|WEP|nopass>;S:<ssid>;P:<password>;H:<true|false>;;
//
// with backslashes before \ ; , : and " in the SSID and password.
func (w WiFi) String() string {
	hidden := "false"
	if w.Hidden {
		hidden = "true"
	}
	return "WIFI:T:" + w.Security.String() +
		";S:" + wifiEscaper.Replace(w.SSID) +
		";P:" + wifiEscaper.Replace(w.Password) +
		";H:" + hidden + ";;"
}

// Email describes a message to compose.  Empty fields other than To
// are left out.
type Email struct {
	To      string
	Subject string
	Body    string
	CC      string
	BCC     string
}

// mailtoEscape percent-encodes s for a mailto query.  Spaces become
// %20, since mail clients do not decode "+".
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// String returns a mailto URI: mailto:<to>?subject=...&body=...&cc=...&bcc=...
func (e Email) String() string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(e.To)
	sep := byte('?')
	for _, p := range [...]struct{ key, val string }{
		{"subject", e.Subject},
		{"body", e.Body},
		{"cc", e.CC},
		{"bcc", e.BCC},
	} {
		if p.val == "" {
			continue
		}
		b.WriteByte(sep)
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(mailtoEscape(p.val))
		sep = '&'
	}
	return b.String()
}
