// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"tailscale.com/syncs"
	"tailscale.com/util/must"
	"tailscale.com/util/set"
)

// Parameter is a positional (*Positional) or named (*Named) parameter of
// a command. Get and Set only borrow the command for the call.
type Parameter interface {
	// Field returns the Go field name backing the parameter.
	Field() string
	Type() reflect.Type
	Required() bool
	Help() string
	Default() string
	// DisplayName is how the parameter appears in messages: "name" for
	// positionals, "-c|--count" for options.
	DisplayName() string

	Get(cmd Command) any
	Set(cmd Command, v any)

	base() *param
}

type param struct {
	field    string
	index    []int
	typ      reflect.Type
	required bool
	help     string
	def      string
}

func (p *param) Field() string      { return p.field }
func (p *param) Type() reflect.Type { return p.typ }
func (p *param) Required() bool     { return p.required }
func (p *param) Help() string       { return p.help }
func (p *param) Default() string    { return p.def }
func (p *param) base() *param       { return p }

func (p *param) value(cmd Command) reflect.Value {
	return reflect.ValueOf(cmd).Elem().FieldByIndex(p.index)
}

func (p *param) Get(cmd Command) any {
	return p.value(cmd).Interface()
}

// Set stores v in cmd's field. A nil v stores the zero value.
func (p *param) Set(cmd Command, v any) {
	if v == nil {
		p.value(cmd).SetZero()
		return
	}
	p.value(cmd).Set(reflect.ValueOf(v))
}

// Positional is a parameter assigned by its position on the command line.
type Positional struct {
	param
	name  string
	order int
}

func (p *Positional) Name() string        { return p.name }
func (p *Positional) Order() int          { return p.order }
func (p *Positional) DisplayName() string { return p.name }

// Named is a parameter assigned with -s or --long.
type Named struct {
	param
	short   rune
	long    string
	deps    []Dependency
	greater string
	less    string
}

// Short returns the short name, or 0.
func (n *Named) Short() rune { return n.short }

// Long returns the long name, or "".
func (n *Named) Long() string { return n.long }

// DependsOn returns the option's dependency constraints.
func (n *Named) DependsOn() []Dependency { return slices.Clone(n.deps) }

// Range returns the exclusive bounds; an empty string means unbounded.
func (n *Named) Range() (greaterThan, lessThan string) { return n.greater, n.less }

func (n *Named) DisplayName() string {
	switch {
	case n.short == 0:
		return "--" + n.long
	case n.long == "":
		return "-" + string(n.short)
	default:
		return "-" + string(n.short) + "|--" + n.long
	}
}

// Table is the validated parameter model of a command type. It is built
// once per type and never modified afterwards.
type Table struct {
	cmd         *CommandType
	positionals []*Positional
	named       []*Named
	byField     map[string]Parameter
}

// Command returns the command type the table describes.
func (t *Table) Command() *CommandType { return t.cmd }

// Positionals returns the positional parameters in assignment order.
func (t *Table) Positionals() []*Positional { return slices.Clone(t.positionals) }

// Named returns the named parameters in declaration order.
func (t *Table) Named() []*Named { return slices.Clone(t.named) }

// Parameters returns the positionals followed by the named parameters.
func (t *Table) Parameters() []Parameter {
	ps := make([]Parameter, 0, len(t.positionals)+len(t.named))
	for _, p := range t.positionals {
		ps = append(ps, p)
	}
	for _, n := range t.named {
		ps = append(ps, n)
	}
	return ps
}

// Lookup returns the parameter backed by the Go field name.
func (t *Table) Lookup(field string) (Parameter, bool) {
	p, ok := t.byField[field]
	return p, ok
}

type tableResult struct {
	table *Table
	err   error
}

var tables syncs.Map[*CommandType, tableResult]

// Describe returns the parameter table of ct. The table is built on first
// use and cached for the life of the process, including a build error.
func Describe(ct *CommandType) (*Table, error) {
	r, _ := tables.LoadOrInit(ct, func() tableResult {
		t, err := buildTable(ct)
		return tableResult{t, err}
	})
	return r.table, r.err
}

// MustDescribe is like Describe but panics on a malformed command type.
func MustDescribe(ct *CommandType) *Table {
	return must.Get(Describe(ct))
}

// buildTable validates ct's metadata and builds its table. No partial
// table is returned on error.
func buildTable(ct *CommandType) (*Table, error) {
	metas, err := metadataFor(ct)
	if err != nil {
		return nil, err
	}

	t := &Table{cmd: ct, byField: make(map[string]Parameter, len(metas))}
	for _, m := range metas {
		p, err := newParam(ct, m)
		if err != nil {
			return nil, err
		}
		if _, dup := t.byField[m.Field]; dup {
			return nil, newError(KindInvalidDeclaration, ct, "field %s is declared more than once", m.Field)
		}

		switch {
		case m.Arg != nil && m.Option != nil:
			return nil, newError(KindInvalidDeclaration, ct, "field %s can't be both an argument and an option", m.Field)
		case m.Arg != nil:
			if m.GreaterThan != "" || m.LessThan != "" || len(m.DependsOn) > 0 {
				return nil, newError(KindInvalidDeclaration, ct, "argument %s: range and dependency constraints apply to options only", m.Field)
			}
			name := m.Arg.Name
			if name == "" {
				name = CLIName(m.Field)
			}
			pos := &Positional{param: p, name: name, order: m.Arg.Order}
			t.positionals = append(t.positionals, pos)
			t.byField[m.Field] = pos
		case m.Option != nil:
			if err := validateOptionNames(ct, m); err != nil {
				return nil, err
			}
			n := &Named{
				param:   p,
				short:   m.Option.Short,
				long:    m.Option.Long,
				deps:    slices.Clone(m.DependsOn),
				greater: m.GreaterThan,
				less:    m.LessThan,
			}
			t.named = append(t.named, n)
			t.byField[m.Field] = n
		default:
			return nil, newError(KindMissingMetadata, ct, "field %s is neither an argument nor an option", m.Field)
		}
	}

	slices.SortStableFunc(t.positionals, func(a, b *Positional) int {
		return cmp.Compare(a.order, b.order)
	})
	for i := 1; i < len(t.positionals); i++ {
		a, b := t.positionals[i-1], t.positionals[i]
		if a.order == b.order {
			return nil, newError(KindInvalidDeclaration, ct, "arguments '%s' and '%s' have the same order (%d)", a.name, b.name, a.order)
		}
	}

	foundOptional := false
	for i, p := range t.positionals {
		if !p.required {
			foundOptional = true
		} else if foundOptional {
			return nil, newError(KindInvalidDeclaration, ct, "required arguments must come before non required ones (%s, %s)", t.positionals[i-1].name, p.name)
		}
	}

	shorts := make(set.Set[rune])
	longs := make(set.Set[string])
	for _, n := range t.named {
		if n.short != 0 {
			if shorts.Contains(n.short) {
				return nil, duplicateDeclaration(ct, string(n.short))
			}
			shorts.Add(n.short)
		}
		if n.long != "" {
			if longs.Contains(n.long) {
				return nil, duplicateDeclaration(ct, n.long)
			}
			longs.Add(n.long)
		}
	}

	for _, n := range t.named {
		for _, dep := range n.deps {
			if dep.Field == n.field {
				return nil, newError(KindInvalidDependency, ct, "option '%s' can't depend on itself", n.DisplayName())
			}
			if _, ok := t.byField[dep.Field]; !ok {
				return nil, newError(KindInvalidDependency, ct, "option '%s' depends on '%s', which isn't a parameter of %s", n.DisplayName(), dep.Field, ct.name)
			}
		}
	}

	return t, nil
}

func duplicateDeclaration(ct *CommandType, name string) *Error {
	e := newError(KindDuplicateDeclaration, ct, "duplicate parameter '%s' in command %s", name, ct.name)
	e.Param = name
	return e
}

// newParam resolves m.Field to a settable field of ct.
func newParam(ct *CommandType, m Meta) (param, error) {
	sf, ok := ct.typ.FieldByName(m.Field)
	if !ok || !sf.IsExported() {
		return param{}, newError(KindInvalidDeclaration, ct, "%v has no exported field %q", ct.typ, m.Field)
	}
	// Fields promoted through embedded pointers would need allocation on
	// every access.
	cur := ct.typ
	for _, i := range sf.Index[:len(sf.Index)-1] {
		f := cur.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return param{}, newError(KindInvalidDeclaration, ct, "field %s is promoted through embedded pointer %s", m.Field, f.Name)
		}
		cur = f.Type
	}
	return param{
		field:    m.Field,
		index:    sf.Index,
		typ:      sf.Type,
		required: m.Required,
		help:     m.Help,
		def:      m.Default,
	}, nil
}

func validateOptionNames(ct *CommandType, m Meta) error {
	o := m.Option
	if o.Short == 0 && o.Long == "" {
		return newError(KindInvalidDeclaration, ct, "option %s needs a short or a long name", m.Field)
	}
	if o.Short == '-' || o.Short == '=' || unicode.IsSpace(o.Short) {
		return newError(KindInvalidDeclaration, ct, "option %s: invalid short name %q", m.Field, o.Short)
	}
	if o.Long != "" && (strings.HasPrefix(o.Long, "-") || strings.ContainsFunc(o.Long, func(r rune) bool {
		return r == '=' || unicode.IsSpace(r)
	})) {
		return newError(KindInvalidDeclaration, ct, "option %s: invalid long name %q", m.Field, o.Long)
	}
	return nil
}

// Validate builds the tables of every command type and checks that their
// names are unique. It checks structure only; ValidateOptions also
// converts the declared defaults, bounds and dependency values.
func Validate(cts ...*CommandType) error {
	names := make(map[string]*CommandType, len(cts))
	for _, ct := range cts {
		if ct == nil {
			continue
		}
		if ct.name == "" {
			return newError(KindInvalidDeclaration, ct, "command type %v has no name", ct.typ)
		}
		if other, ok := names[ct.name]; ok && other != ct {
			return newError(KindDuplicateDeclaration, ct, "commands %v and %v are both named %q", other.typ, ct.typ, ct.name)
		}
		names[ct.name] = ct
		if _, err := Describe(ct); err != nil {
			return fmt.Errorf("command %s: %w", ct.name, err)
		}
	}
	return nil
}

// ValidateOptions runs Validate and then converts every default, range
// bound and dependency value of cts with the coercers in opts, so
// malformed declarations fail at startup rather than on first use.
func ValidateOptions(opts Options, cts ...*CommandType) error {
	if err := Validate(cts...); err != nil {
		return err
	}
	d := NewDispatcher(opts.Coercers...)
	for _, ct := range cts {
		if ct == nil {
			continue
		}
		t, err := Describe(ct)
		if err != nil {
			return err
		}
		if err := checkDeclaredValues(t, d); err != nil {
			return fmt.Errorf("command %s: %w", ct.name, err)
		}
	}
	return nil
}
