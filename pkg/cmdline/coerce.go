// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"encoding"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Char is a parameter type that accepts exactly one character. Go's rune
// is an alias of int32, so it is parsed as a number.
type Char rune

func (c Char) String() string { return string(c) }

// Coercer converts raw text into values of the types it accepts. Caller
// coercers are consulted before any built-in conversion.
type Coercer interface {
	CanCoerce(t reflect.Type) bool
	Coerce(t reflect.Type, text string) (any, error)
}

// CoercerFunc returns a Coercer for exactly the type T.
func CoercerFunc[T any](parse func(text string) (T, error)) Coercer {
	return funcCoercer[T]{parse: parse}
}

type funcCoercer[T any] struct {
	parse func(string) (T, error)
}

func (f funcCoercer[T]) CanCoerce(t reflect.Type) bool { return t == reflect.TypeFor[T]() }

func (f funcCoercer[T]) Coerce(_ reflect.Type, text string) (any, error) {
	return f.parse(text)
}

// strategy is one step of the conversion chain. handles must not depend
// on the text so that the chain can be inspected without a value.
type strategy interface {
	handles(d *Dispatcher, t reflect.Type) bool
	coerce(d *Dispatcher, t reflect.Type, text string) (reflect.Value, error)
}

// Dispatcher converts raw text into typed values. It tries, in order:
// caller coercers, built-in primitives, enums, encoding.TextUnmarshaler,
// pointers, collections and text constructors.
type Dispatcher struct {
	strategies []strategy
}

var builtinStrategies = []strategy{
	primitiveStrategy{},
	enumStrategy{},
	textStrategy{},
	pointerStrategy{},
	collectionStrategy{},
	constructorStrategy{},
}

// NewDispatcher returns a Dispatcher that consults coercers, in order,
// before the built-in conversions.
func NewDispatcher(coercers ...Coercer) *Dispatcher {
	d := &Dispatcher{strategies: make([]strategy, 0, len(coercers)+len(builtinStrategies))}
	for _, c := range coercers {
		if c != nil {
			d.strategies = append(d.strategies, customStrategy{c})
		}
	}
	d.strategies = append(d.strategies, builtinStrategies...)
	return d
}

// CanCoerce reports whether some conversion accepts t. Collections with
// unsupported shapes still report true; they fail when coerced.
func (d *Dispatcher) CanCoerce(t reflect.Type) bool {
	return d.strategyFor(t) != nil
}

// Coerce converts text into a value of type t. Failures caused by t itself
// (no conversion, unsupported collection shape) are *Error values with
// Kind KindUnsupportedType; failures caused by text are plain errors.
func (d *Dispatcher) Coerce(t reflect.Type, text string) (any, error) {
	v, err := d.coerceValue(t, text)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (d *Dispatcher) strategyFor(t reflect.Type) strategy {
	for _, s := range d.strategies {
		if s.handles(d, t) {
			return s
		}
	}
	return nil
}

func (d *Dispatcher) coerceValue(t reflect.Type, text string) (reflect.Value, error) {
	s := d.strategyFor(t)
	if s == nil {
		return reflect.Value{}, newError(KindUnsupportedType, nil, "type %v can't be constructed from text: it has no coercer, UnmarshalText or Set(string) method and isn't a supported collection", t)
	}
	return s.coerce(d, t, text)
}

type customStrategy struct {
	c Coercer
}

func (s customStrategy) handles(_ *Dispatcher, t reflect.Type) bool {
	return s.c.CanCoerce(t)
}

func (s customStrategy) coerce(_ *Dispatcher, t reflect.Type, text string) (reflect.Value, error) {
	v, err := s.c.Coerce(t, text)
	if err != nil {
		return reflect.Value{}, err
	}
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return reflect.Zero(t), nil
	case rv.Type().AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	case rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, newError(KindUnsupportedType, nil, "coercer for %v returned %T", t, v)
}

var (
	stringType   = reflect.TypeFor[string]()
	charType     = reflect.TypeFor[Char]()
	durationType = reflect.TypeFor[time.Duration]()
	urlType      = reflect.TypeFor[url.URL]()
	urlPtrType   = reflect.TypeFor[*url.URL]()
)

var primitiveTypes = map[reflect.Type]bool{
	stringType:                  true,
	charType:                    true,
	durationType:                true,
	urlType:                     true,
	urlPtrType:                  true,
	reflect.TypeFor[bool]():     true,
	reflect.TypeFor[int]():      true,
	reflect.TypeFor[int8]():     true,
	reflect.TypeFor[int16]():    true,
	reflect.TypeFor[int32]():    true,
	reflect.TypeFor[int64]():    true,
	reflect.TypeFor[uint]():     true,
	reflect.TypeFor[uint8]():    true,
	reflect.TypeFor[uint16]():   true,
	reflect.TypeFor[uint32]():   true,
	reflect.TypeFor[uint64]():   true,
	reflect.TypeFor[float32]():  true,
	reflect.TypeFor[float64]():  true,
}

// primitiveStrategy handles the predeclared scalar types by exact type.
// Named types with the same underlying kinds fall through to enums,
// TextUnmarshaler and finally constructorStrategy.
type primitiveStrategy struct{}

func (primitiveStrategy) handles(_ *Dispatcher, t reflect.Type) bool {
	return primitiveTypes[t]
}

func (primitiveStrategy) coerce(_ *Dispatcher, t reflect.Type, text string) (reflect.Value, error) {
	switch t {
	case charType:
		r, size := utf8.DecodeRuneInString(text)
		if size == 0 || size != len(text) {
			return reflect.Value{}, fmt.Errorf("'%s' must be a single character", text)
		}
		return reflect.ValueOf(Char(r)), nil
	case durationType:
		dur, err := time.ParseDuration(text)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("'%s' isn't a valid duration", text)
		}
		return reflect.ValueOf(dur), nil
	case urlType, urlPtrType:
		u, err := url.Parse(text)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("'%s' isn't a valid URL: %w", text, err)
		}
		if t == urlPtrType {
			return reflect.ValueOf(u), nil
		}
		return reflect.ValueOf(*u), nil
	}
	return parseKind(t, text)
}

// parseBool accepts true and false in any case. Empty text is true so that
// a bare -f sets a flag.
func parseBool(text string) (bool, error) {
	switch {
	case text == "", strings.EqualFold(text, "true"):
		return true, nil
	case strings.EqualFold(text, "false"):
		return false, nil
	}
	return false, fmt.Errorf("'%s' isn't a valid bool", text)
}

// parseKind parses text according to the underlying kind of t, which must
// be a string, bool, integer or float kind.
func parseKind(t reflect.Type, text string) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(text)
	case reflect.Bool:
		b, err := parseBool(text)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, numError(t, text, err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, numError(t, text, err)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return reflect.Value{}, numError(t, text, err)
		}
		v.SetFloat(f)
	default:
		return reflect.Value{}, newError(KindUnsupportedType, nil, "type %v has no textual form", t)
	}
	return v, nil
}

func numError(t reflect.Type, text string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("'%s' is out of range for %v", text, t)
	}
	return fmt.Errorf("'%s' isn't a valid %v", text, t)
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// textStrategy handles types implementing encoding.TextUnmarshaler on the
// value or through a pointer (time.Time, netip.Addr, big.Int, uuid.UUID).
type textStrategy struct{}

func (textStrategy) handles(_ *Dispatcher, t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(textUnmarshalerType) ||
		(t.Kind() == reflect.Pointer && t.Implements(textUnmarshalerType))
}

func (textStrategy) coerce(_ *Dispatcher, t reflect.Type, text string) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer && t.Implements(textUnmarshalerType) {
		p := reflect.New(t.Elem())
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, err
		}
		return p, nil
	}
	p := reflect.New(t)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}

// pointerStrategy handles *E for any E the dispatcher can coerce.
type pointerStrategy struct{}

func (pointerStrategy) handles(d *Dispatcher, t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && d.CanCoerce(t.Elem())
}

func (pointerStrategy) coerce(d *Dispatcher, t reflect.Type, text string) (reflect.Value, error) {
	v, err := d.coerceValue(t.Elem(), text)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(t.Elem())
	p.Elem().Set(v)
	return p, nil
}

// setter is the shape of flag.Value's Set method.
type setter interface {
	Set(string) error
}

var setterType = reflect.TypeFor[setter]()

// constructorStrategy builds values from text when nothing more specific
// applies: types with a Set(string) error method, and named types with a
// string, bool or numeric underlying type.
type constructorStrategy struct{}

func (constructorStrategy) handles(_ *Dispatcher, t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(setterType) ||
		(t.Kind() == reflect.Pointer && t.Implements(setterType)) ||
		isScalarKind(t.Kind())
}

func (constructorStrategy) coerce(_ *Dispatcher, t reflect.Type, text string) (reflect.Value, error) {
	switch {
	case t.Kind() == reflect.Pointer && t.Implements(setterType):
		p := reflect.New(t.Elem())
		if err := p.Interface().(setter).Set(text); err != nil {
			return reflect.Value{}, err
		}
		return p, nil
	case reflect.PointerTo(t).Implements(setterType):
		p := reflect.New(t)
		if err := p.Interface().(setter).Set(text); err != nil {
			return reflect.Value{}, err
		}
		return p.Elem(), nil
	}
	return parseKind(t, text)
}
