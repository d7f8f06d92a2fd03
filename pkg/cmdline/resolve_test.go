// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	greet := Of[GreetCommand]()
	count := Of[CountCommand]()
	flag := Of[FlagCommand]()

	tests := []struct {
		name     string
		argv     []string
		def      *CommandType
		want     *CommandType
		wantKind ErrorKind
	}{
		{name: "named command", argv: []string{"count", "--count=2"}, want: count},
		{name: "named command with default set", argv: []string{"flag", "-f"}, def: greet, want: flag},
		{name: "default command named explicitly", argv: []string{"greet", "bob"}, def: greet, want: greet},
		{name: "empty argv uses default", argv: nil, def: flag, want: flag},
		{name: "leading option uses default", argv: []string{"-f"}, def: flag, want: flag},
		{name: "unknown name falls back to default", argv: []string{"bob"}, def: greet, want: greet},
		{name: "empty argv without default", argv: nil, wantKind: KindNoCommand},
		{name: "leading option without default", argv: []string{"--count=1"}, wantKind: KindNoCommand},
		{name: "unknown command", argv: []string{"nope"}, wantKind: KindCommandNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Resolve(tt.argv, Options{}, tt.def, greet, count, flag)
			if tt.wantKind != 0 {
				if KindOf(err) != tt.wantKind {
					t.Fatalf("Resolve(%q) error = %v, want kind %v", tt.argv, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.argv, err)
			}
			if r.Type != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.argv, r.Type, tt.want)
			}
		})
	}
}

func TestResolveDefaultReceivesWholeArgv(t *testing.T) {
	r, err := Resolve([]string{"alice"}, Options{}, Of[GreetCommand](), Of[CountCommand]())
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Command.(*GreetCommand).Name; got != "alice" {
		t.Errorf("Name = %q, want %q", got, "alice")
	}
}

func TestResolveLine(t *testing.T) {
	greet := Of[GreetCommand]()
	r, err := ResolveLine(`greet "--greeting=Good day" -c=2 "Jane Doe"`, Options{}, nil, greet)
	if err != nil {
		t.Fatal(err)
	}
	got := r.Command.(*GreetCommand)
	if got.Name != "Jane Doe" || got.Greeting != "Good day" || got.Count != 2 {
		t.Errorf("command = %+v", got)
	}

	if _, err := ResolveLine(`greet "Jane`, Options{}, nil, greet); !errors.Is(err, ErrUnclosedString) {
		t.Errorf("unclosed quote error = %v, want %v", err, ErrUnclosedString)
	}
}

func TestFind(t *testing.T) {
	greet, count := Of[GreetCommand](), Of[CountCommand]()
	if Find("count", nil, greet, count) != count {
		t.Error("Find(count) failed")
	}
	if Find("greet", greet) != greet {
		t.Error("Find did not search the default command")
	}
	if Find("nope", greet, count) != nil {
		t.Error("Find(nope) != nil")
	}
}
