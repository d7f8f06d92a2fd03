// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an *Error.
type ErrorKind int

const (
	// User errors: malformed or unacceptable input.
	KindNoCommand ErrorKind = iota + 1
	KindCommandNotFound
	KindOptionNotFound
	KindInvalidOptionFormat
	KindArgumentOutOfBounds
	KindDuplicateParameter
	KindInvalidValue
	KindValueOutOfRange
	KindParameterNotAssigned
	KindInvalidParameterAssigned
	KindInvalidCharacter
	KindInvalidEscape
	KindUnclosedString

	// Configuration errors: the command type itself is malformed.
	KindInvalidDeclaration
	KindDuplicateDeclaration
	KindMissingMetadata
	KindInvalidDependency
	KindUnsupportedType
	KindIncomparable
	KindNotACommand

	// KindHelpRequested is returned when --help is given to a command that
	// does not declare it.
	KindHelpRequested
)

var kindNames = map[ErrorKind]string{
	KindNoCommand:                "no command",
	KindCommandNotFound:          "command not found",
	KindOptionNotFound:           "option not found",
	KindInvalidOptionFormat:      "invalid option format",
	KindArgumentOutOfBounds:      "argument out of bounds",
	KindDuplicateParameter:       "duplicate parameter",
	KindInvalidValue:             "invalid value",
	KindValueOutOfRange:          "value out of range",
	KindParameterNotAssigned:     "parameter not assigned",
	KindInvalidParameterAssigned: "invalid parameter assigned",
	KindInvalidCharacter:         "invalid character",
	KindInvalidEscape:            "invalid escape sequence",
	KindUnclosedString:           "unclosed string",
	KindInvalidDeclaration:       "invalid declaration",
	KindDuplicateDeclaration:     "duplicate declaration",
	KindMissingMetadata:          "missing metadata",
	KindInvalidDependency:        "invalid option dependency",
	KindUnsupportedType:          "unsupported type",
	KindIncomparable:             "incomparable value",
	KindNotACommand:              "not a command",
	KindHelpRequested:            "help requested",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// IsUserError reports whether errors of this kind are caused by the
// command line rather than by the command declarations.
func (k ErrorKind) IsUserError() bool {
	return k >= KindNoCommand && k <= KindUnclosedString
}

// IsConfigError reports whether errors of this kind indicate a malformed
// command type. These are programmer errors and should surface at startup.
func (k ErrorKind) IsConfigError() bool {
	return k >= KindInvalidDeclaration && k <= KindNotACommand
}

// Sentinel errors for lexical failures, matched with errors.Is.
var (
	ErrUnclosedString   = errors.New("unclosed string")
	ErrInvalidEscape    = errors.New("invalid escape sequence")
	ErrInvalidCharacter = errors.New("invalid character")
)

// Error is the single error type returned by the parser.
type Error struct {
	Kind ErrorKind
	Msg  string
	// Command is the command type the error relates to, if known. Help
	// renderers use it to show the relevant usage.
	Command *CommandType
	// Param is the display name of the parameter involved, if any
	// (e.g. "-c|--count" or "name").
	Param string
	// Pos is the byte offset of a lexical error, or -1.
	Pos int
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the lexical sentinels so callers do not have to inspect Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnclosedString:
		return e.Kind == KindUnclosedString
	case ErrInvalidEscape:
		return e.Kind == KindInvalidEscape
	case ErrInvalidCharacter:
		return e.Kind == KindInvalidCharacter
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, ct *CommandType, format string, args ...any) *Error {
	return &Error{Kind: kind, Command: ct, Pos: -1, Msg: fmt.Sprintf(format, args...)}
}

func paramError(kind ErrorKind, ct *CommandType, p Parameter, format string, args ...any) *Error {
	e := newError(kind, ct, format, args...)
	e.Param = p.DisplayName()
	return e
}

func lexError(kind ErrorKind, pos int, format string, args ...any) *Error {
	e := newError(kind, nil, format, args...)
	e.Pos = pos
	e.Msg = fmt.Sprintf("parse error at %d: %s", pos, e.Msg)
	return e
}
