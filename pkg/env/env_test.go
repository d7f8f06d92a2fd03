// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type plan struct {
	Service  string        `env:"SERVICE"`
	Replicas int           `env:"REPLICAS"`
	Ports    []uint16      `env:"PORTS"`
	Timeout  time.Duration `env:"TIMEOUT"`
	Note     string        `env:"NOTE"`
	internal string
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "all fields",
			in:   plan{Service: "api", Replicas: 2, Ports: []uint16{80, 443}, Timeout: time.Minute, Note: "hi", internal: "x"},
			want: "SERVICE=api\nREPLICAS=2\nPORTS=80,443\nTIMEOUT=1m0s\nNOTE=hi\n",
		},
		{
			name: "zero fields skipped",
			in:   &plan{Service: "api"},
			want: "SERVICE=api\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Marshal(&buf, tt.in); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Marshal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarshalErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Marshal(&buf, "not a struct"); err == nil {
		t.Error("Marshal(string) succeeded")
	}
	if err := Marshal(&buf, plan{Note: "two\nlines"}); err == nil {
		t.Error("Marshal() accepted a newline")
	}
}

func TestWrite(t *testing.T) {
	name := filepath.Join(t.TempDir(), "plan.env")
	if err := Write(name, plan{Service: "api", Replicas: 1}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), "SERVICE=api\nREPLICAS=1\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if err := Write(filepath.Join(t.TempDir(), "missing", "plan.env"), plan{}); err == nil {
		t.Error("Write() into a missing directory succeeded")
	}
}
