// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"tailscale.com/types/logger"
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// Options configure one resolution.
type Options struct {
	// AllowDuplicates lets a parameter be assigned more than once; the last
	// value wins. By default a second assignment is an error.
	AllowDuplicates bool
	// Coercers are consulted, in order, before the built-in conversions.
	Coercers []Coercer
	// Logf, if non-nil, traces every assignment.
	Logf logger.Logf
}

func (o Options) logf() logger.Logf {
	if o.Logf == nil {
		return logger.Discard
	}
	return o.Logf
}

// Resolved is a command selected from the command line with its
// parameters assigned.
type Resolved struct {
	Type    *CommandType
	Command Command
	// Assigned holds the field names of parameters given on the command
	// line. Defaults do not count.
	Assigned set.Set[string]
}

// IsAssigned reports whether the parameter backed by field was given on
// the command line.
func (r *Resolved) IsAssigned(field string) bool {
	return r.Assigned.Contains(field)
}

type rawOption struct {
	name  string
	value string
	long  bool
}

type assigner struct {
	ct    *CommandType
	table *Table
	d     *Dispatcher
	opts  Options
	logf  logger.Logf

	cmd      Command
	assigned set.Set[string]
	shorts   map[rune]*Named
	longs    map[string]*Named
}

// Assign creates a new ct and assigns args to its parameters. args must not
// include the command name.
func Assign(ct *CommandType, args []string, opts Options) (*Resolved, error) {
	t, err := Describe(ct)
	if err != nil {
		return nil, err
	}
	a := &assigner{
		ct:       ct,
		table:    t,
		d:        NewDispatcher(opts.Coercers...),
		opts:     opts,
		logf:     opts.logf(),
		assigned: make(set.Set[string]),
	}
	for _, n := range t.named {
		if n.short != 0 {
			mak.Set(&a.shorts, n.short, n)
		}
		if n.long != "" {
			mak.Set(&a.longs, n.long, n)
		}
	}
	if err := checkDeclaredValues(t, a.d); err != nil {
		return nil, err
	}
	if err := a.newInstance(); err != nil {
		return nil, err
	}
	if err := a.assign(args); err != nil {
		return nil, err
	}
	if err := a.checkRequired(); err != nil {
		return nil, err
	}
	if err := a.checkDependencies(); err != nil {
		return nil, err
	}
	return &Resolved{Type: ct, Command: a.cmd, Assigned: a.assigned}, nil
}

// newInstance allocates the command and applies default values.
func (a *assigner) newInstance() error {
	a.cmd = reflect.New(a.ct.typ).Interface().(Command)
	for _, p := range a.table.Parameters() {
		v, err := coerceDefault(a.d, a.ct, p)
		if err != nil {
			return err
		}
		if v.IsValid() {
			p.base().value(a.cmd).Set(v)
		}
	}
	return nil
}

// coerceDefault converts p's default text. The result is invalid when p
// has no default.
func coerceDefault(d *Dispatcher, ct *CommandType, p Parameter) (reflect.Value, error) {
	b := p.base()
	if b.def == "" {
		return reflect.Value{}, nil
	}
	v, err := d.coerceValue(b.typ, b.def)
	if err != nil {
		e := paramError(KindInvalidDeclaration, ct, p, "invalid default %q for '%s'", b.def, p.DisplayName())
		e.Err = err
		return reflect.Value{}, e
	}
	return v, nil
}

func (a *assigner) assign(args []string) error {
	next := 0
	optionsDone := false
	for _, arg := range args {
		if !optionsDone && arg == "--" {
			optionsDone = true
			continue
		}
		if !optionsDone && strings.HasPrefix(arg, "-") {
			o, err := a.parseOption(arg)
			if err != nil {
				return err
			}
			n, err := a.lookup(o)
			if err != nil {
				return err
			}
			if err := a.set(n, o.value); err != nil {
				return err
			}
			continue
		}
		if next >= len(a.table.positionals) {
			return newError(KindArgumentOutOfBounds, a.ct, "too many arguments for command '%s': it takes at most %d", a.ct.name, len(a.table.positionals))
		}
		p := a.table.positionals[next]
		next++
		if err := a.set(p, arg); err != nil {
			return err
		}
	}
	return nil
}

// parseOption splits "-c=v" or "--name=v". A trailing '=' is dropped and
// leaves the value empty.
func (a *assigner) parseOption(arg string) (rawOption, error) {
	o := rawOption{name: arg[1:]}
	if rest, ok := strings.CutPrefix(o.name, "-"); ok {
		o.name, o.long = rest, true
	}
	if name, value, ok := strings.Cut(o.name, "="); ok {
		o.name, o.value = name, value
	}
	if o.name == "" || (!o.long && utf8.RuneCountInString(o.name) != 1) {
		return rawOption{}, newError(KindInvalidOptionFormat, a.ct, "invalid option format '%s'", arg)
	}
	return o, nil
}

func (a *assigner) lookup(o rawOption) (*Named, error) {
	if o.long {
		if n, ok := a.longs[o.name]; ok {
			return n, nil
		}
		if o.name == "help" {
			return nil, newError(KindHelpRequested, a.ct, "help requested for command '%s'", a.ct.name)
		}
	} else {
		r, _ := utf8.DecodeRuneInString(o.name)
		if n, ok := a.shorts[r]; ok {
			return n, nil
		}
	}
	return nil, newError(KindOptionNotFound, a.ct, "option '%s' not found for command '%s'", o.name, a.ct.name)
}

// set coerces text and stores it in p's field.
func (a *assigner) set(p Parameter, text string) error {
	b := p.base()
	if a.assigned.Contains(b.field) && !a.opts.AllowDuplicates {
		return paramError(KindDuplicateParameter, a.ct, p, "parameter '%s' is assigned more than once", p.DisplayName())
	}
	a.assigned.Add(b.field)

	v, err := a.d.coerceValue(b.typ, text)
	if err != nil {
		return a.valueError(p, err)
	}
	if n, ok := p.(*Named); ok {
		if err := a.checkRange(n, v); err != nil {
			return err
		}
	}
	b.value(a.cmd).Set(v)
	a.logf("cmdline: %s: %s = %q", a.ct.name, p.DisplayName(), text)
	return nil
}

// valueError attaches p's context to a coercion failure. Failures raised
// by the value itself become KindInvalidValue with the cause wrapped.
func (a *assigner) valueError(p Parameter, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Kind.IsConfigError() {
		if e.Command == nil {
			e.Command = a.ct
		}
		if e.Param == "" {
			e.Param = p.DisplayName()
		}
		return e
	}
	ve := paramError(KindInvalidValue, a.ct, p, "invalid value for '%s'", p.DisplayName())
	ve.Err = err
	return ve
}

// checkRequired reports the first required parameter that wasn't given.
// Options with dependencies are checked with their dependencies.
func (a *assigner) checkRequired() error {
	for _, p := range a.table.Parameters() {
		if !p.Required() || a.assigned.Contains(p.Field()) {
			continue
		}
		if n, ok := p.(*Named); ok && len(n.deps) > 0 {
			continue
		}
		return paramError(KindParameterNotAssigned, a.ct, p, "required parameter '%s' wasn't assigned", p.DisplayName())
	}
	return nil
}

// checkDependencies enforces DependsOn: when every dependency holds, a
// required option must be assigned; when any fails, it must not be.
func (a *assigner) checkDependencies() error {
	for _, n := range a.table.named {
		if len(n.deps) == 0 {
			continue
		}
		met := true
		for _, dep := range n.deps {
			ok, err := a.dependencyMet(n, dep)
			if err != nil {
				return err
			}
			if !ok {
				met = false
			}
		}
		assigned := a.assigned.Contains(n.field)
		switch {
		case met && n.required && !assigned:
			return paramError(KindParameterNotAssigned, a.ct, n, "required parameter '%s' wasn't assigned", n.DisplayName())
		case !met && assigned:
			return paramError(KindInvalidParameterAssigned, a.ct, n, "parameter '%s' can't be assigned: its dependencies aren't met", n.DisplayName())
		}
	}
	return nil
}
