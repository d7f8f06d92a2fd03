// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"
)

// GreetCommand is the default command.
type GreetCommand struct {
	Name     string `arg:"name" default:"world" help:"Who to greet."`
	Greeting string `flag:"greeting" short:"g" default:"Hello"`
	Count    int    `flag:"count" short:"c" default:"1" gt:"0" lt:"11" help:"How many times to greet."`
	Loud     bool   `flag:"loud" short:"l" help:"Shout the greeting."`
}

func (*GreetCommand) CommandHelp() string { return "Greets someone. Runs when no command is given." }

func (c *GreetCommand) Run(context.Context) error {
	msg := fmt.Sprintf("%s, %s!", c.Greeting, c.Name)
	if c.Loud {
		msg = strings.ToUpper(msg)
	}
	for range c.Count {
		fmt.Fprintln(stdout, msg)
	}
	return nil
}
