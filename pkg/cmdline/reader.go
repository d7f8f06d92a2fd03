// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies the token at a Reader's cursor.
type TokenKind int

const (
	TokenEnd TokenKind = iota
	TokenWhitespace
	TokenDash
	TokenDashDash
	TokenEquals
	TokenQuoted
	TokenText
)

func (k TokenKind) String() string {
	switch k {
	case TokenEnd:
		return "end"
	case TokenWhitespace:
		return "whitespace"
	case TokenDash:
		return "dash"
	case TokenDashDash:
		return "dash-dash"
	case TokenEquals:
		return "equals"
	case TokenQuoted:
		return "quoted-text"
	case TokenText:
		return "text"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Reader is a forward-only lexer over a single string. The cursor never
// moves backwards.
//
// Text tokens follow these rules:
//   - Plain text runs until whitespace. A '"' inside plain text is an error.
//   - Quoted text runs from '"' to the next unescaped '"'.
//   - In both forms '\' starts a two character escape. \\ \" \n \r \t \v
//     and \b map to their control characters; any other character after
//     '\' is kept as is and the '\' is dropped.
//
// Text without escapes is returned as a substring of the input.
type Reader struct {
	buf string
	pos int
}

// NewReader returns a Reader positioned at the start of s.
func NewReader(s string) *Reader {
	return &Reader{buf: s}
}

// Pos returns the byte offset of the cursor.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Kind classifies the token at the cursor.
func (r *Reader) Kind() TokenKind { return r.Peek(0) }

// Peek classifies the token offset bytes past the cursor without
// consuming anything.
func (r *Reader) Peek(offset int) TokenKind {
	pos := r.pos + offset
	if pos < 0 || pos >= len(r.buf) {
		return TokenEnd
	}
	switch r.buf[pos] {
	case '-':
		if pos+1 < len(r.buf) && r.buf[pos+1] == '-' {
			return TokenDashDash
		}
		return TokenDash
	case '=':
		return TokenEquals
	case '"':
		return TokenQuoted
	}
	if ch, _ := utf8.DecodeRuneInString(r.buf[pos:]); unicode.IsSpace(ch) {
		return TokenWhitespace
	}
	return TokenText
}

// Read consumes and returns the next n bytes. It panics if fewer than n
// bytes remain.
func (r *Reader) Read(n int) string {
	if n < 0 || r.pos+n > len(r.buf) {
		panic(fmt.Sprintf("cmdline: Read(%d) with %d bytes remaining", n, r.Remaining()))
	}
	s := r.buf[r.pos : r.pos+n]
	r.pos += n
	return s
}

// ReadCurrent consumes the token at the cursor and returns it. At the end
// of input it returns "".
func (r *Reader) ReadCurrent() (string, error) {
	switch r.Kind() {
	case TokenEnd:
		return "", nil
	case TokenDash, TokenEquals:
		return r.Read(1), nil
	case TokenDashDash:
		return r.Read(2), nil
	case TokenWhitespace:
		return r.ReadWhitespace(), nil
	default:
		return r.ReadText()
	}
}

// ReadWhitespace consumes a run of whitespace. It returns "" if the cursor
// is not on whitespace.
func (r *Reader) ReadWhitespace() string {
	start := r.pos
	for r.pos < len(r.buf) {
		ch, size := utf8.DecodeRuneInString(r.buf[r.pos:])
		if !unicode.IsSpace(ch) {
			break
		}
		r.pos += size
	}
	return r.buf[start:r.pos]
}

// ReadText consumes plain or quoted text with escapes resolved. It panics
// if the cursor is not on text.
func (r *Reader) ReadText() (string, error) {
	kind := r.Kind()
	if kind != TokenText && kind != TokenQuoted {
		panic(fmt.Sprintf("cmdline: ReadText on %v token", kind))
	}

	quoted := kind == TokenQuoted
	if quoted {
		r.pos++
	}
	start := r.pos
	escapes := 0

	for r.pos < len(r.buf) {
		ch, size := utf8.DecodeRuneInString(r.buf[r.pos:])
		if ch == '"' {
			if quoted {
				break
			}
			return "", lexError(KindInvalidCharacter, r.pos, `'"' cannot be used in text that isn't enclosed in '"', enclose the text in '"' and write it as \"`)
		}
		if !quoted && unicode.IsSpace(ch) {
			break
		}
		if ch == '\\' {
			escapes++
			r.pos++
			if r.pos >= len(r.buf) {
				return "", lexError(KindInvalidEscape, r.pos-1, `'\' at end of input`)
			}
			_, size = utf8.DecodeRuneInString(r.buf[r.pos:])
		}
		r.pos += size
	}

	if quoted && r.pos >= len(r.buf) {
		return "", lexError(KindUnclosedString, len(r.buf)-1, `missing closing '"'`)
	}

	text := r.buf[start:r.pos]
	if quoted {
		r.pos++
	}
	if escapes == 0 {
		return text, nil
	}
	return unescape(text, escapes), nil
}

// unescape resolves the n escape sequences in s. Every '\' in s is known to
// be followed by at least one byte.
func unescape(s string, n int) string {
	var b strings.Builder
	b.Grow(len(s) - n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'b':
			b.WriteByte('\b')
		default:
			// Covers \\ and \" too. Multi-byte characters are copied byte
			// by byte by the following iterations.
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// SplitLine splits a full command line into arguments. Arguments are
// separated by whitespace; adjacent tokens join into one argument, so
// `--name="a b"` is an error but `"--name=a b"` is one argument.
func SplitLine(line string) ([]string, error) {
	r := NewReader(line)
	var args []string
	for {
		r.ReadWhitespace()
		if r.Kind() == TokenEnd {
			return args, nil
		}
		var parts []string
		for k := r.Kind(); k != TokenEnd && k != TokenWhitespace; k = r.Kind() {
			tok, err := r.ReadCurrent()
			if err != nil {
				return nil, err
			}
			parts = append(parts, tok)
		}
		args = append(args, strings.Join(parts, ""))
	}
}
