// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Meta is the declarative metadata of one command field. It is produced
// from struct tags, or by a ParamDeclarer, and consumed as plain data by
// the table build.
type Meta struct {
	// Field is the Go field name. Dependencies refer to parameters by it.
	Field string
	// Arg is set for positional parameters.
	Arg *ArgMeta
	// Option is set for named parameters.
	Option *OptionMeta

	Required bool
	Help     string
	// Default is coerced into the field before any argument is assigned.
	Default string

	// GreaterThan and LessThan are exclusive bounds, coerced to the field
	// type when checked. Only valid on options.
	GreaterThan string
	LessThan    string

	// DependsOn is only valid on options.
	DependsOn []Dependency
}

// ArgMeta describes a positional parameter.
type ArgMeta struct {
	Name  string
	Order int
}

// OptionMeta describes a named parameter. At least one of Short and Long
// must be set.
type OptionMeta struct {
	Short rune
	Long  string
}

// Dependency makes an option conditional on another parameter holding
// Value. A string Value is coerced to the other parameter's type.
type Dependency struct {
	Field string
	Value any
}

// ParamDeclarer is implemented by commands that declare their parameters
// explicitly instead of through struct tags. DeclareParams is called once
// on a zero value of the command while the table cache is locked, so it
// must not call Describe or MustDescribe; doing so deadlocks.
type ParamDeclarer interface {
	DeclareParams() []Meta
}

// Struct tags understood by the tag provider.
const (
	tagArg      = "arg"
	tagPos      = "pos"
	tagFlag     = "flag"
	tagShort    = "short"
	tagRequired = "required"
	tagHelp     = "help"
	tagDefault  = "default"
	tagGT       = "gt"
	tagLT       = "lt"
	tagDepends  = "depends"
)

var declarerType = reflect.TypeFor[ParamDeclarer]()

// metadataFor returns the parameter metadata of ct, from DeclareParams
// when the command implements ParamDeclarer and from struct tags
// otherwise.
func metadataFor(ct *CommandType) ([]Meta, error) {
	if reflect.PointerTo(ct.typ).Implements(declarerType) {
		return reflect.New(ct.typ).Interface().(ParamDeclarer).DeclareParams(), nil
	}
	return tagMetadata(ct)
}

// tagMetadata extracts metadata from the struct tags of ct's exported
// fields, including fields promoted from embedded structs. A positional's
// order defaults to its field's position.
func tagMetadata(ct *CommandType) ([]Meta, error) {
	var metas []Meta
	i := -1
	for _, f := range reflect.VisibleFields(ct.typ) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		i++

		tag := f.Tag
		m := Meta{
			Field:       f.Name,
			Help:        tag.Get(tagHelp),
			Default:     tag.Get(tagDefault),
			GreaterThan: tag.Get(tagGT),
			LessThan:    tag.Get(tagLT),
		}

		if name, ok := tag.Lookup(tagArg); ok {
			if name == "" {
				name = CLIName(f.Name)
			}
			m.Arg = &ArgMeta{Name: name, Order: i}
			if pos, ok := tag.Lookup(tagPos); ok {
				n, err := strconv.Atoi(pos)
				if err != nil {
					return nil, newError(KindInvalidDeclaration, ct, "field %s: invalid pos tag %q", f.Name, pos)
				}
				m.Arg.Order = n
			}
		}

		long, hasLong := tag.Lookup(tagFlag)
		short, hasShort := tag.Lookup(tagShort)
		if hasLong || hasShort {
			m.Option = &OptionMeta{Long: long}
			if hasLong && long == "" {
				m.Option.Long = CLIName(f.Name)
			}
			if hasShort {
				r, size := utf8.DecodeRuneInString(short)
				if size == 0 || size != len(short) || r == utf8.RuneError {
					return nil, newError(KindInvalidDeclaration, ct, "field %s: short name %q must be a single character", f.Name, short)
				}
				m.Option.Short = r
			}
		}

		if req, ok := tag.Lookup(tagRequired); ok {
			b, err := strconv.ParseBool(req)
			if err != nil {
				return nil, newError(KindInvalidDeclaration, ct, "field %s: invalid required tag %q", f.Name, req)
			}
			m.Required = b
		}

		if deps, ok := tag.Lookup(tagDepends); ok {
			parsed, err := parseDepends(deps)
			if err != nil {
				return nil, newError(KindInvalidDeclaration, ct, "field %s: %v", f.Name, err)
			}
			m.DependsOn = parsed
		}

		if m.Arg == nil && m.Option == nil {
			if hasParamTags(tag) {
				return nil, newError(KindMissingMetadata, ct, "field %s has parameter tags but no %q, %q or %q tag", f.Name, tagArg, tagFlag, tagShort)
			}
			continue
		}
		metas = append(metas, m)
	}
	return metas, nil
}

func hasParamTags(tag reflect.StructTag) bool {
	for _, key := range []string{tagPos, tagRequired, tagHelp, tagDefault, tagGT, tagLT, tagDepends} {
		if _, ok := tag.Lookup(key); ok {
			return true
		}
	}
	return false
}

// parseDepends parses "Field=value;Other=value".
func parseDepends(s string) ([]Dependency, error) {
	var deps []Dependency
	for part := range strings.SplitSeq(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, value, ok := strings.Cut(part, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf(`invalid depends entry %q, want "Field=value"`, part)
		}
		deps = append(deps, Dependency{Field: strings.TrimSpace(field), Value: value})
	}
	return deps, nil
}
