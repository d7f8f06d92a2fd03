// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/yeetrun/cmdline/pkg/cmdline"
	"github.com/yeetrun/cmdline/pkg/helptext"
	"gopkg.in/yaml.v3"
)

// DescribeCommand writes the parameter table of a command as YAML.
type DescribeCommand struct {
	Command string `arg:"command" required:"true" help:"Command to describe."`
}

func (*DescribeCommand) CommandHelp() string {
	return "Prints the parameters of a command as YAML."
}

type commandDoc struct {
	Name      string     `yaml:"name"`
	Help      string     `yaml:"help,omitempty"`
	Usage     string     `yaml:"usage"`
	Arguments []paramDoc `yaml:"arguments,omitempty"`
	Options   []paramDoc `yaml:"options,omitempty"`
}

type paramDoc struct {
	Name      string   `yaml:"name"`
	Field     string   `yaml:"field"`
	Type      string   `yaml:"type"`
	Values    string   `yaml:"values"`
	Required  bool     `yaml:"required,omitempty"`
	Default   string   `yaml:"default,omitempty"`
	DependsOn []string `yaml:"depends_on,omitempty"`
	Help      string   `yaml:"help,omitempty"`
}

func (c *DescribeCommand) Run(context.Context) error {
	ct := cmdline.Find(c.Command, nil, commands()...)
	if ct == nil {
		return fmt.Errorf("command '%s' not found", c.Command)
	}
	doc, err := describeCommand(ct)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func describeCommand(ct *cmdline.CommandType) (*commandDoc, error) {
	t, err := cmdline.Describe(ct)
	if err != nil {
		return nil, err
	}
	doc := &commandDoc{
		Name:  ct.Name(),
		Help:  ct.Help(),
		Usage: helptext.Usage(t),
	}
	for _, p := range t.Positionals() {
		doc.Arguments = append(doc.Arguments, newParamDoc(p, "", ""))
	}
	for _, n := range t.Named() {
		gt, lt := n.Range()
		pd := newParamDoc(n, gt, lt)
		for _, d := range n.DependsOn() {
			pd.DependsOn = append(pd.DependsOn, fmt.Sprintf("%s=%v", d.Field, d.Value))
		}
		doc.Options = append(doc.Options, pd)
	}
	return doc, nil
}

func newParamDoc(p cmdline.Parameter, gt, lt string) paramDoc {
	return paramDoc{
		Name:     p.DisplayName(),
		Field:    p.Field(),
		Type:     p.Type().String(),
		Values:   helptext.ValueHint(p.Type(), gt, lt),
		Required: p.Required(),
		Default:  p.Default(),
		Help:     p.Help(),
	}
}
