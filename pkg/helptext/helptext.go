// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package helptext renders usage, command lists and errors for commands
// described by package cmdline.
package helptext

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/yeetrun/cmdline/pkg/cmdline"
	"golang.org/x/term"
	"tailscale.com/types/lazy"
)

const (
	defaultWidth = 80
	padding      = 2
)

var termWidth lazy.SyncValue[int]

// TerminalWidth returns the width of the terminal on stdout, or 80 when
// stdout is not a terminal. It is computed once.
func TerminalWidth() int {
	return termWidth.Get(func() int {
		fd := int(os.Stdout.Fd())
		if !term.IsTerminal(fd) {
			return defaultWidth
		}
		w, _, err := term.GetSize(fd)
		if err != nil || w <= 0 {
			return defaultWidth
		}
		return w
	})
}

// Printer writes help text to W.
type Printer struct {
	W io.Writer
	// Width is the line width to wrap at. Zero means TerminalWidth.
	Width int
	// NoColor disables colors even when the terminal supports them.
	NoColor bool
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{W: w}
}

func (p *Printer) width() int {
	if p.Width > 0 {
		return p.Width
	}
	return TerminalWidth()
}

func (p *Printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.NoColor {
		c.DisableColor()
	}
	return c
}

func (p *Printer) heading(s string) {
	p.style(color.Bold).Fprintln(p.W, s)
}

// Version writes the "name version" banner followed by a blank line.
func (p *Printer) Version(name, version string) {
	p.style(color.Bold).Fprint(p.W, name)
	if version != "" {
		fmt.Fprint(p.W, " ", version)
	}
	fmt.Fprint(p.W, "\n\n")
}

// Commands lists cts with their help text.
func (p *Printer) Commands(cts []*cmdline.CommandType) {
	p.heading("Available commands:")
	rows := make([]row, 0, len(cts))
	for _, ct := range cts {
		rows = append(rows, row{ct.Name(), ct.Help()})
	}
	p.columns(rows, p.style(color.FgCyan))
}

// Command writes the usage of ct: a usage line, its help text and tables
// of its arguments and options.
func (p *Printer) Command(ct *cmdline.CommandType) error {
	t, err := cmdline.Describe(ct)
	if err != nil {
		return err
	}

	p.style(color.Bold).Fprint(p.W, "Usage: ")
	fmt.Fprint(p.W, Usage(t))
	fmt.Fprint(p.W, "\n\n")

	if h := ct.Help(); h != "" {
		for _, line := range wrap(h, p.width()-1) {
			fmt.Fprintln(p.W, line)
		}
		fmt.Fprintln(p.W)
	}

	if pos := t.Positionals(); len(pos) > 0 {
		p.heading("Arguments:")
		rows := make([]row, 0, len(pos))
		for _, a := range pos {
			rows = append(rows, row{a.Name(), describe(t, a)})
		}
		p.columns(rows, p.style(color.FgCyan))
		fmt.Fprintln(p.W)
	}

	if named := t.Named(); len(named) > 0 {
		p.heading("Options:")
		rows := make([]row, 0, len(named))
		for _, n := range named {
			rows = append(rows, row{n.DisplayName(), describe(t, n)})
		}
		p.columns(rows, p.style(color.FgCyan))
		fmt.Fprintln(p.W)
	}
	return nil
}

// Usage returns the one-line synopsis of t, e.g.
// "greet <name> [count] --mode=fast|slow [options]". Required options
// without dependencies are listed; the others are summarised as [options].
func Usage(t *cmdline.Table) string {
	var b strings.Builder
	b.WriteString(t.Command().Name())
	for _, a := range t.Positionals() {
		if a.Required() {
			fmt.Fprintf(&b, " <%s>", a.Name())
		} else {
			fmt.Fprintf(&b, " [%s]", a.Name())
		}
	}
	optional := 0
	for _, n := range t.Named() {
		if !n.Required() || len(n.DependsOn()) > 0 {
			optional++
			continue
		}
		gt, lt := n.Range()
		fmt.Fprintf(&b, " %s=%s", n.DisplayName(), ValueHint(n.Type(), gt, lt))
	}
	if optional > 0 {
		b.WriteString(" [options]")
	}
	return b.String()
}

// describe builds the second column for p: value hint, dependency
// conditions, required or default, help.
func describe(t *cmdline.Table, p cmdline.Parameter) string {
	var b strings.Builder
	var gt, lt string
	n, isNamed := p.(*cmdline.Named)
	if isNamed {
		gt, lt = n.Range()
	}
	b.WriteString(ValueHint(p.Type(), gt, lt))
	b.WriteByte(' ')

	if isNamed && len(n.DependsOn()) > 0 {
		var conds []string
		for _, d := range n.DependsOn() {
			name := d.Field
			if dp, ok := t.Lookup(d.Field); ok {
				name = dp.DisplayName()
			}
			conds = append(conds, fmt.Sprintf("'%s' has the value '%v'", name, d.Value))
		}
		fmt.Fprintf(&b, "Only valid when: %s. ", joinAnd(conds))
	}

	switch {
	case p.Required():
		b.WriteString("Required.")
	case p.Default() != "":
		fmt.Fprintf(&b, "Default: '%s'.", p.Default())
	default:
		b.WriteString("Optional.")
	}
	if h := p.Help(); h != "" {
		b.WriteByte(' ')
		b.WriteString(h)
	}
	return b.String()
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// Error writes err. For a *cmdline.Error the message and each wrapped
// cause get their own line.
func (p *Printer) Error(err error) {
	p.style(color.FgRed, color.Bold).Fprintln(p.W, "ERROR:")
	indent := "  "
	var e *cmdline.Error
	if !errors.As(err, &e) || e.Msg == "" {
		fmt.Fprintf(p.W, "%s%v\n\n", indent, err)
		return
	}
	fmt.Fprintf(p.W, "%s%s\n", indent, e.Msg)
	for cause := e.Err; cause != nil; cause = errors.Unwrap(cause) {
		indent += "  "
		var inner *cmdline.Error
		if errors.As(cause, &inner) && inner.Msg != "" {
			fmt.Fprintf(p.W, "%s%s\n", indent, inner.Msg)
			cause = inner
			continue
		}
		fmt.Fprintf(p.W, "%s%v\n", indent, cause)
		break
	}
	fmt.Fprintln(p.W)
}

var (
	charType     = reflect.TypeFor[cmdline.Char]()
	durationType = reflect.TypeFor[time.Duration]()
	urlType      = reflect.TypeFor[url.URL]()

	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// ValueHint describes the text accepted for type t, with exclusive bounds
// gt and lt when set: "<whole number, 0 < value < 11>", "true|false",
// "low|high", "<text>[]".
func ValueHint(t reflect.Type, gt, lt string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if names := cmdline.EnumNames(t); names != nil {
		return strings.Join(names, "|")
	}
	switch {
	case t == charType:
		return "<character>"
	case t.Kind() == reflect.Bool:
		return "true|false"
	case t == durationType:
		return "<duration>"
	case t == urlType:
		return "<url>"
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return "<text>"
	}
	if elem, ok := cmdline.ElemType(t); ok {
		if _, nested := cmdline.ElemType(elem); nested {
			return "<text>"
		}
		return ValueHint(elem, gt, lt) + "[]"
	}

	var word string
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		word = "whole number"
	case reflect.Float32, reflect.Float64:
		word = "decimal number"
	default:
		return "<text>"
	}
	lo, hi := limits(t)
	loOp, hiOp := "<=", "<="
	if gt != "" {
		lo, loOp = gt, "<"
	}
	if lt != "" {
		hi, hiOp = lt, "<"
	}
	if lo == "" || hi == "" {
		return "<" + word + ">"
	}
	return fmt.Sprintf("<%s, %s %s value %s %s>", word, lo, loOp, hiOp, hi)
}

// limits returns the bounds of integer types; floats are unbounded.
func limits(t reflect.Type) (lo, hi string) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := t.Bits()
		return fmt.Sprint(-(int64(1) << (bits - 1))), fmt.Sprint(int64(uint64(1)<<(bits-1) - 1))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := t.Bits()
		return "0", fmt.Sprint(^uint64(0) >> (64 - bits))
	}
	return "", ""
}
