// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"strings"
)

// Resolve selects the command named by argv[0] among candidates, creates
// it and assigns the remaining arguments. def, if non-nil, is used when
// argv is empty, starts with an option or names no candidate; it then
// receives all of argv.
func Resolve(argv []string, opts Options, def *CommandType, candidates ...*CommandType) (*Resolved, error) {
	ct, args, err := selectCommand(argv, def, candidates)
	if err != nil {
		return nil, err
	}
	return Assign(ct, args, opts)
}

// ResolveLine splits line with SplitLine and resolves the result.
func ResolveLine(line string, opts Options, def *CommandType, candidates ...*CommandType) (*Resolved, error) {
	argv, err := SplitLine(line)
	if err != nil {
		return nil, err
	}
	return Resolve(argv, opts, def, candidates...)
}

func selectCommand(argv []string, def *CommandType, candidates []*CommandType) (*CommandType, []string, error) {
	if len(argv) == 0 || strings.HasPrefix(argv[0], "-") {
		if def != nil {
			return def, argv, nil
		}
		return nil, nil, newError(KindNoCommand, nil, "no command specified")
	}
	if ct := Find(argv[0], def, candidates...); ct != nil {
		return ct, argv[1:], nil
	}
	if def != nil {
		return def, argv, nil
	}
	return nil, nil, newError(KindCommandNotFound, nil, "command '%s' not found", argv[0])
}

// Find returns the command called name, or nil. def is searched too.
func Find(name string, def *CommandType, candidates ...*CommandType) *CommandType {
	for _, ct := range candidates {
		if ct != nil && ct.name == name {
			return ct
		}
	}
	if def != nil && def.name == name {
		return def
	}
	return nil
}
