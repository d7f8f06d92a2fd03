// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdline resolves command lines into typed command values.
//
// A command is a struct whose pointer implements Command. Its exported
// fields are parameters, described by struct tags:
//
//	type GreetCommand struct {
//	    Name  string `arg:"name" required:"true" help:"Who to greet"`
//	    Count int    `flag:"count" short:"c" default:"1" gt:"0" lt:"11" help:"How many times"`
//	    Loud  bool   `flag:"loud" short:"l" help:"Shout"`
//	}
//
//	func (c *GreetCommand) Run(ctx context.Context) error { ... }
//
// Resolve picks the command named by the first argument and assigns the
// rest:
//
//	greet := cmdline.Of[GreetCommand]()
//	r, err := cmdline.Resolve(os.Args[1:], cmdline.Options{}, greet)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = r.Command.Run(ctx)
//
// # Parameters
//
// Positional parameters (arg) are assigned in order (pos, defaulting to
// the field's position). Required positionals must come before optional
// ones. Named parameters (flag, short) are given as -c=value or
// --count=value; a bool option given without a value is set to true.
// After "--" every argument is positional.
//
// Options may carry exclusive bounds (gt, lt) and dependencies
// (depends:"Mode=fast;Level=3"): an option with dependencies may only be
// assigned when all of them hold, and if required it must be assigned
// when they do.
//
// Commands may implement ParamDeclarer to describe their parameters
// without tags.
//
// # Supported Types
//
// In order of precedence:
//   - types accepted by a Coercer in Options.Coercers
//   - string, bool, Char, the sized ints, uints and floats,
//     time.Duration, url.URL and *url.URL
//   - types implementing Enum
//   - types implementing encoding.TextUnmarshaler
//   - pointers to any supported type
//   - slices, arrays, set-shaped maps and types with an Add(E) method,
//     given as comma separated elements
//   - types with a Set(string) error method, and named types over a
//     string, bool or numeric type
//
// # Errors
//
// Every error is an *Error. Its Kind tells user errors (bad input) from
// configuration errors (a malformed command type); Validate reports the
// latter at startup.
package cmdline
