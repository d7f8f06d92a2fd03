// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"cmp"
	"reflect"
)

var intType = reflect.TypeFor[int]()

// compareValues orders a and b. Types with a Compare(T) int method use it;
// otherwise both must share an ordered kind. Pointers are dereferenced. ok
// is false when the values can't be ordered.
func compareValues(a, b reflect.Value) (c int, ok bool) {
	for a.Kind() == reflect.Pointer && b.Kind() == reflect.Pointer {
		if a.IsNil() || b.IsNil() {
			return 0, false
		}
		if c, ok := compareMethod(a, b); ok {
			return c, true
		}
		a, b = a.Elem(), b.Elem()
	}
	if c, ok := compareMethod(a, b); ok {
		return c, true
	}
	if a.Type() != b.Type() {
		return 0, false
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint()), true
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float()), true
	case reflect.String:
		return cmp.Compare(a.String(), b.String()), true
	}
	return 0, false
}

func compareMethod(a, b reflect.Value) (int, bool) {
	m := a.MethodByName("Compare")
	if !m.IsValid() {
		return 0, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0) != intType || !b.Type().AssignableTo(mt.In(0)) {
		return 0, false
	}
	return int(m.Call([]reflect.Value{b})[0].Int()), true
}

// checkRange verifies that v lies strictly between n's bounds.
func (a *assigner) checkRange(n *Named, v reflect.Value) error {
	for _, b := range rangeBounds(n) {
		bound, err := coerceBound(a.d, a.ct, n, b.word, b.text)
		if err != nil {
			return err
		}
		c, ok := compareValues(v, bound)
		if !ok {
			return paramError(KindIncomparable, a.ct, n, "value of '%s' (%v) can't be compared with bound %q", n.DisplayName(), n.typ, b.text)
		}
		if cmp.Compare(c, 0) != b.want {
			return paramError(KindValueOutOfRange, a.ct, n, "value for '%s' is out of range: must be %s than %s", n.DisplayName(), b.word, b.text)
		}
	}
	return nil
}

type rangeBound struct {
	text string
	want int
	word string
}

// rangeBounds returns the bounds n declares.
func rangeBounds(n *Named) []rangeBound {
	var bs []rangeBound
	if n.greater != "" {
		bs = append(bs, rangeBound{n.greater, 1, "greater"})
	}
	if n.less != "" {
		bs = append(bs, rangeBound{n.less, -1, "less"})
	}
	return bs
}

// coerceBound converts a range bound to n's type and checks that values of
// that type can be ordered.
func coerceBound(d *Dispatcher, ct *CommandType, n *Named, word, text string) (reflect.Value, error) {
	v, err := d.coerceValue(n.typ, text)
	if err != nil {
		e := paramError(KindInvalidDeclaration, ct, n, "invalid %s-than bound %q for '%s'", word, text, n.DisplayName())
		e.Err = err
		return reflect.Value{}, e
	}
	if _, ok := compareValues(v, v); !ok {
		return reflect.Value{}, paramError(KindIncomparable, ct, n, "value of '%s' (%v) can't be compared with bound %q", n.DisplayName(), n.typ, text)
	}
	return v, nil
}

// dependencyMet reports whether the parameter named by dep currently holds
// dep.Value.
func (a *assigner) dependencyMet(n *Named, dep Dependency) (bool, error) {
	target, ok := a.table.Lookup(dep.Field)
	if !ok {
		return false, paramError(KindInvalidDependency, a.ct, n, "option '%s' depends on unknown parameter %s", n.DisplayName(), dep.Field)
	}
	want, err := dependencyValue(a.d, a.ct, n, target, dep)
	if err != nil {
		return false, err
	}
	cur := target.base().value(a.cmd)
	if !want.IsValid() {
		return cur.IsZero(), nil
	}
	return reflect.DeepEqual(cur.Interface(), want.Interface()), nil
}

// dependencyValue converts dep.Value to target's type. A string Value is
// coerced from text. The result is invalid when dep.Value is nil, which
// matches the zero value.
func dependencyValue(d *Dispatcher, ct *CommandType, n *Named, target Parameter, dep Dependency) (reflect.Value, error) {
	tt := target.Type()
	want := reflect.ValueOf(dep.Value)
	switch {
	case !want.IsValid():
		return want, nil
	case want.Type() == tt:
		return want, nil
	case want.Kind() == reflect.String && tt != stringType:
		v, err := d.coerceValue(tt, want.String())
		if err != nil {
			e := paramError(KindInvalidDependency, ct, n, "option '%s' depends on %s=%q, which isn't a valid %v", n.DisplayName(), dep.Field, dep.Value, tt)
			e.Err = err
			return reflect.Value{}, e
		}
		return v, nil
	case want.Kind() == tt.Kind() && want.Type().ConvertibleTo(tt):
		return want.Convert(tt), nil
	}
	return reflect.Value{}, paramError(KindInvalidDependency, ct, n, "option '%s' depends on %s being %T, but it is %v", n.DisplayName(), dep.Field, dep.Value, tt)
}

// checkDeclaredValues converts every text value t's declarations carry
// (defaults, range bounds and dependency values) with d, so a malformed
// declaration fails before any argument is looked at.
func checkDeclaredValues(t *Table, d *Dispatcher) error {
	for _, p := range t.Parameters() {
		if _, err := coerceDefault(d, t.cmd, p); err != nil {
			return err
		}
	}
	for _, n := range t.named {
		for _, b := range rangeBounds(n) {
			if _, err := coerceBound(d, t.cmd, n, b.word, b.text); err != nil {
				return err
			}
		}
		for _, dep := range n.deps {
			target, ok := t.byField[dep.Field]
			if !ok {
				return paramError(KindInvalidDependency, t.cmd, n, "option '%s' depends on unknown parameter %s", n.DisplayName(), dep.Field)
			}
			if _, err := dependencyValue(d, t.cmd, n, target, dep); err != nil {
				return err
			}
		}
	}
	return nil
}
