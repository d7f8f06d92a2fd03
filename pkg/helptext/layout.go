// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package helptext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// minSecondColumn is the narrowest description column before the layout
// switches to one column per line.
const minSecondColumn = 8

type row struct {
	name, desc string
}

// columns writes rows as an indented two column table, wrapping the
// second column to the printer width. Widths are terminal cells.
func (p *Printer) columns(rows []row, nameStyle *color.Color) {
	width := p.width() - 1
	first := 0
	for _, r := range rows {
		first = max(first, runewidth.StringWidth(r.name))
	}
	pad := strings.Repeat(" ", padding)

	second := width - first - 2*padding
	if second < minSecondColumn {
		// Too narrow: description goes below the name.
		for _, r := range rows {
			fmt.Fprint(p.W, pad)
			nameStyle.Fprintln(p.W, r.name)
			desc := strings.Join(wrap(r.desc, width-2*padding), "\n")
			fmt.Fprintln(p.W, indent.String(desc, uint(2*padding)))
		}
		return
	}

	hang := strings.Repeat(" ", first+2*padding)
	for _, r := range rows {
		fmt.Fprint(p.W, pad)
		nameStyle.Fprint(p.W, r.name)
		if r.desc == "" {
			fmt.Fprintln(p.W)
			continue
		}
		fmt.Fprint(p.W, strings.Repeat(" ", padding+first-runewidth.StringWidth(r.name)))
		for i, line := range wrap(r.desc, second) {
			if i > 0 {
				fmt.Fprint(p.W, hang)
			}
			fmt.Fprintln(p.W, line)
		}
	}
}

// wrap splits text into lines at most width cells wide, breaking at spaces
// where possible and splitting words that don't fit on a line of their
// own. Existing newlines are kept.
func wrap(text string, width int) []string {
	width = max(width, 1)
	var lines []string
	for para := range strings.SplitSeq(text, "\n") {
		ww := wordwrap.NewWriter(width)
		ww.Breakpoints = nil
		ww.Write([]byte(strings.Join(strings.Fields(para), " ")))
		ww.Close()
		for line := range strings.SplitSeq(ww.String(), "\n") {
			lines = append(lines, splitWide(line, width)...)
		}
	}
	return lines
}

// splitWide cuts line into pieces at most width cells wide.
func splitWide(line string, width int) []string {
	var out []string
	for runewidth.StringWidth(line) > width {
		head := runewidth.Truncate(line, width, "")
		if head == "" {
			// The first rune alone is wider than width.
			_, n := utf8.DecodeRuneInString(line)
			head = line[:n]
		}
		out = append(out, head)
		line = line[len(head):]
	}
	if line == "" && len(out) > 0 {
		return out
	}
	return append(out, line)
}

