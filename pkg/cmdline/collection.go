// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"fmt"
	"reflect"
	"strings"
)

// collectionSep separates collection elements in a single argument.
const collectionSep = ","

// collectionStrategy handles slices, arrays, sets (map[K]struct{} and
// map[K]bool, including set.Set) and types with an Add(E) method. Every
// other map and channel type is claimed here too so that it fails with a
// clear error instead of falling through to the constructor.
type collectionStrategy struct{}

func (collectionStrategy) handles(_ *Dispatcher, t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return true
	}
	_, ok := adder(t)
	return ok
}

// adder returns the Add method of *t, which must take exactly one
// argument and return nothing.
func adder(t reflect.Type) (reflect.Method, bool) {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return reflect.Method{}, false
	}
	m, ok := reflect.PointerTo(t).MethodByName("Add")
	if !ok || m.Type.NumIn() != 2 || m.Type.NumOut() != 0 {
		return reflect.Method{}, false
	}
	return m, true
}

// ElemType returns the element type of collection type t and whether t
// has a collection shape: a type whose pointer has an Add(E) method, a
// slice or array, or a map to bool or struct{} used as a set.
func ElemType(t reflect.Type) (reflect.Type, bool) {
	if m, ok := adder(t); ok {
		return m.Type.In(1), true
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem(), true
	case reflect.Map:
		switch v := t.Elem(); {
		case v.Kind() == reflect.Bool, v.Kind() == reflect.Struct && v.NumField() == 0:
			return t.Key(), true
		}
	}
	return nil, false
}

// isCollection reports whether d would coerce t, or what t points to, as
// a collection.
func (d *Dispatcher) isCollection(t reflect.Type) bool {
	for {
		switch d.strategyFor(t).(type) {
		case collectionStrategy:
			return true
		case pointerStrategy:
			t = t.Elem()
		default:
			return false
		}
	}
}

func (collectionStrategy) coerce(d *Dispatcher, t reflect.Type, text string) (reflect.Value, error) {
	et, ok := ElemType(t)
	if !ok {
		return reflect.Value{}, newError(KindUnsupportedType, nil, "type %v can't be constructed from text: only slices, arrays, sets and types with an Add method are supported collections", t)
	}
	if d.isCollection(et) {
		return reflect.Value{}, newError(KindUnsupportedType, nil, "type %v can't be constructed from text: collections of collections aren't supported", t)
	}

	var parts []string
	if text != "" {
		parts = strings.Split(text, collectionSep)
	}
	elems := make([]reflect.Value, len(parts))
	for i, part := range parts {
		v, err := d.coerceValue(et, part)
		if err != nil {
			if e, ok := err.(*Error); ok && e.Kind.IsConfigError() {
				return reflect.Value{}, e
			}
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = v
	}

	if m, ok := adder(t); ok {
		p := reflect.New(t)
		if t.Kind() == reflect.Map {
			p.Elem().Set(reflect.MakeMapWithSize(t, len(elems)))
		}
		for _, v := range elems {
			m.Func.Call([]reflect.Value{p, v})
		}
		return p.Elem(), nil
	}

	switch t.Kind() {
	case reflect.Slice:
		s := reflect.MakeSlice(t, 0, len(elems))
		return reflect.Append(s, elems...), nil
	case reflect.Array:
		if len(elems) != t.Len() {
			return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", t.Len(), len(elems))
		}
		a := reflect.New(t).Elem()
		for i, v := range elems {
			a.Index(i).Set(v)
		}
		return a, nil
	default: // set-shaped map
		m := reflect.MakeMapWithSize(t, len(elems))
		member := reflect.Zero(t.Elem())
		if t.Elem().Kind() == reflect.Bool {
			member = reflect.ValueOf(true).Convert(t.Elem())
		}
		for _, v := range elems {
			m.SetMapIndex(v, member)
		}
		return m, nil
	}
}
