// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"strings"
	"unicode"
)

// CLIName converts a Go identifier to the kebab-case name used on the
// command line: "StringUtils" becomes "string-utils", "UUIDGen" becomes
// "uuid-gen" and "UUID" becomes "uuid". A trailing "Command" or "Cmd" is
// dropped when something precedes it. Whitespace becomes '-'.
func CLIName(ident string) string {
	for _, suffix := range []string{"Command", "Cmd"} {
		if s, ok := strings.CutSuffix(ident, suffix); ok && s != "" {
			ident = s
			break
		}
	}

	rs := []rune(ident)
	var b strings.Builder
	b.Grow(len(ident) + 4)
	for i, c := range rs {
		switch {
		case unicode.IsSpace(c):
			b.WriteByte('-')
		case unicode.IsUpper(c) && i > 0 && !unicode.IsSpace(rs[i-1]) && rs[i-1] != '-' && rs[i-1] != '_' &&
			(!unicode.IsUpper(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))):
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(c))
		case c == '_':
			b.WriteByte('-')
		default:
			b.WriteRune(unicode.ToLower(c))
		}
	}
	return b.String()
}
