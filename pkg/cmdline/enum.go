// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"fmt"
	"reflect"
	"strings"
)

// Enum is implemented by types with a closed set of named values.
//
//	type Env int
//
//	func (Env) EnumMembers() []cmdline.EnumMember {
//		return []cmdline.EnumMember{
//			{Name: "dev", Value: EnvDev},
//			{Name: "prod", Alias: "production", Value: EnvProd},
//		}
//	}
type Enum interface {
	EnumMembers() []EnumMember
}

// EnumMember is one value of an Enum. Value must be of the enum's type or
// convertible to it.
type EnumMember struct {
	Name string
	// Alias, when set, replaces Name on the command line.
	Alias string
	Value any
}

// CLIName returns the text that selects the member.
func (m EnumMember) CLIName() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Name
}

var enumType = reflect.TypeFor[Enum]()

func enumMembers(t reflect.Type) ([]EnumMember, bool) {
	switch {
	case t.Implements(enumType):
		return reflect.New(t).Elem().Interface().(Enum).EnumMembers(), true
	case reflect.PointerTo(t).Implements(enumType):
		return reflect.New(t).Interface().(Enum).EnumMembers(), true
	}
	return nil, false
}

// EnumNames returns the command line names of t's members in declaration
// order, or nil when t is not an Enum.
func EnumNames(t reflect.Type) []string {
	members, ok := enumMembers(t)
	if !ok {
		return nil
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.CLIName()
	}
	return names
}

type enumStrategy struct{}

func (enumStrategy) handles(_ *Dispatcher, t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(enumType) || reflect.PointerTo(t).Implements(enumType)
}

func (enumStrategy) coerce(_ *Dispatcher, t reflect.Type, text string) (reflect.Value, error) {
	members, _ := enumMembers(t)
	for _, m := range members {
		if m.CLIName() != text {
			continue
		}
		v := reflect.ValueOf(m.Value)
		switch {
		case !v.IsValid():
			return reflect.Zero(t), nil
		case v.Type() == t:
			return v, nil
		case v.Type().ConvertibleTo(t):
			return v.Convert(t), nil
		}
		return reflect.Value{}, newError(KindInvalidDeclaration, nil, "enum %v: member %s has value of type %T", t, m.Name, m.Value)
	}
	return reflect.Value{}, fmt.Errorf("'%s' isn't a valid value for enum %s, valid values are: %s", text, t.Name(), strings.Join(EnumNames(t), ", "))
}
