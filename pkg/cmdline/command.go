// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"context"
	"reflect"

	"tailscale.com/syncs"
)

// Command is a runnable unit selected from the command line. Commands are
// pointers to structs whose exported fields carry parameter metadata.
type Command interface {
	Run(ctx context.Context) error
}

// CommandNamer overrides the name derived from the command's type name.
// CommandName runs while the command type registry is locked, so it must
// not call Of, TypeOf or Describe; doing so deadlocks.
type CommandNamer interface {
	CommandName() string
}

// CommandHelper provides the help text shown for a command. Like
// CommandName, CommandHelp must not call Of, TypeOf or Describe.
type CommandHelper interface {
	CommandHelp() string
}

// CommandType identifies a command struct type. There is exactly one
// CommandType per Go type, so handles can be compared with ==.
type CommandType struct {
	typ  reflect.Type
	name string
	help string
}

// Name returns the name the command is invoked by.
func (ct *CommandType) Name() string { return ct.name }

// Help returns the command's help text, if any.
func (ct *CommandType) Help() string { return ct.help }

// Type returns the command's struct type.
func (ct *CommandType) Type() reflect.Type { return ct.typ }

func (ct *CommandType) String() string { return ct.name }

var (
	commandIface = reflect.TypeFor[Command]()
	commandTypes syncs.Map[reflect.Type, *CommandType]
)

// IsCommand reports whether t (a struct type or a pointer to one) can be
// used as a command: the pointer type must implement Command.
func IsCommand(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(commandIface)
}

// TypeOf returns the CommandType for t, a struct type or a pointer to one.
func TypeOf(t reflect.Type) (*CommandType, error) {
	if !IsCommand(t) {
		return nil, newError(KindNotACommand, nil, "type %v isn't a command: it must be a struct whose pointer implements cmdline.Command", t)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	ct, _ := commandTypes.LoadOrInit(t, func() *CommandType {
		return newCommandType(t)
	})
	return ct, nil
}

// Of returns the CommandType for C.
//
//	var greet = cmdline.Of[GreetCommand]()
func Of[C any, PC interface {
	*C
	Command
}]() *CommandType {
	ct, err := TypeOf(reflect.TypeFor[C]())
	if err != nil {
		panic(err)
	}
	return ct
}

func newCommandType(t reflect.Type) *CommandType {
	ct := &CommandType{typ: t, name: CLIName(t.Name())}
	zero := reflect.New(t).Interface()
	if n, ok := zero.(CommandNamer); ok {
		if name := n.CommandName(); name != "" {
			ct.name = name
		}
	}
	if h, ok := zero.(CommandHelper); ok {
		ct.help = h.CommandHelp()
	}
	return ct
}
