// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"context"
	"strings"
)

type nopRun struct{}

func (nopRun) Run(context.Context) error { return nil }

type GreetCommand struct {
	nopRun
	Name     string `arg:"name" required:"true" help:"Who to greet"`
	Count    int    `flag:"count" short:"c" default:"1" gt:"0" lt:"11"`
	Loud     bool   `flag:"loud" short:"l"`
	Greeting string `flag:"" default:"Hello"`
}

type CountCommand struct {
	nopRun
	Count int `flag:"count"`
}

type FlagCommand struct {
	nopRun
	Force bool `short:"f"`
}

type OneArgCommand struct {
	nopRun
	Path string `arg:"path"`
}

type TwoArgsCommand struct {
	nopRun
	Src string `arg:"src" required:"true"`
	Dst string `arg:"dst"`
}

type Mode string

type DependsCommand struct {
	nopRun
	A Mode `flag:"a"`
	B int  `flag:"b" required:"true" depends:"A=x"`
}

type DuplicateShortCommand struct {
	nopRun
	X1 bool `short:"x"`
	X2 bool `short:"x"`
}

type DuplicateLongCommand struct {
	nopRun
	One bool `flag:"name"`
	Two bool `flag:"name"`
}

type RequiredAfterOptionalCommand struct {
	nopRun
	First  string `arg:"first"`
	Second string `arg:"second" required:"true"`
}

type SameOrderCommand struct {
	nopRun
	First  string `arg:"first" pos:"1"`
	Second string `arg:"second" pos:"1"`
}

type BothTagsCommand struct {
	nopRun
	Value string `arg:"value" flag:"value"`
}

type MissingMetadataCommand struct {
	nopRun
	Value string `help:"orphan"`
}

type BadDependencyCommand struct {
	nopRun
	B int `flag:"b" depends:"Nope=1"`
}

type PositionalRangeCommand struct {
	nopRun
	N int `arg:"n" gt:"0"`
}

type LongShortCommand struct {
	nopRun
	Value int `short:"vv"`
}

type HelpCommand struct {
	nopRun
	Help bool `flag:"help"`
}

type Level int

const (
	LevelLow Level = iota
	LevelHigh
)

func (Level) EnumMembers() []EnumMember {
	return []EnumMember{
		{Name: "low", Value: LevelLow},
		{Name: "High", Alias: "high", Value: LevelHigh},
	}
}

// upper implements the flag.Value shape.
type upper struct{ s string }

func (u *upper) Set(s string) error {
	u.s = strings.ToUpper(s)
	return nil
}

type declaredCommand struct {
	nopRun
	Target string
	Retry  int
}

func (*declaredCommand) CommandName() string { return "declared" }
func (*declaredCommand) CommandHelp() string { return "Declared without tags." }

func (*declaredCommand) DeclareParams() []Meta {
	return []Meta{
		{Field: "Target", Arg: &ArgMeta{Name: "target", Order: 0}, Required: true},
		{Field: "Retry", Option: &OptionMeta{Short: 'r', Long: "retry"}, Default: "3", LessThan: "10"},
	}
}

type Embedded struct {
	Verbose bool `flag:"verbose" short:"v"`
}

type EmbeddingCommand struct {
	nopRun
	Embedded
	File string `arg:"file"`
}

type SelfDependencyCommand struct {
	nopRun
	B int `flag:"b" depends:"B=1"`
}

type BadDependencyValueCommand struct {
	nopRun
	N int `flag:"n"`
	B int `flag:"b" depends:"N=many"`
}

type BadBoundCommand struct {
	nopRun
	N int `flag:"n" gt:"zero"`
}

// mismatchedDependencyCommand depends on N holding a float.
type mismatchedDependencyCommand struct {
	nopRun
	N int
	B int
}

func (*mismatchedDependencyCommand) CommandName() string { return "mismatched" }

func (*mismatchedDependencyCommand) DeclareParams() []Meta {
	return []Meta{
		{Field: "N", Option: &OptionMeta{Long: "n"}},
		{Field: "B", Option: &OptionMeta{Long: "b"}, DependsOn: []Dependency{{Field: "N", Value: 1.5}}},
	}
}
