// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env writes structs as KEY=value environment files.
package env

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
)

// Write writes v, a struct or a pointer to one, to the file name. Fields
// tagged `env:"KEY"` become KEY=value lines in field order; zero fields
// are skipped.
func Write(name string, v any) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if err := Marshal(f, v); err != nil {
		return fmt.Errorf("failed to marshal env: %w", err)
	}
	return f.Close()
}

// Marshal writes the env lines of v to w. Slices and arrays are joined
// with commas.
func Marshal(w io.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("env: can't marshal %T, want a struct", v)
	}
	rt := rv.Type()
	for i := range rt.NumField() {
		key := rt.Field(i).Tag.Get("env")
		if key == "" {
			continue
		}
		field := rv.Field(i)
		if field.IsZero() {
			continue
		}
		val := format(field)
		if strings.ContainsAny(val, "\n\r") {
			return fmt.Errorf("env: value of %s contains a newline", key)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, val); err != nil {
			return err
		}
	}
	return nil
}

func format(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v.Interface())
}
