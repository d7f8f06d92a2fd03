// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/cmdline/pkg/cmdline"
	"github.com/yeetrun/cmdline/pkg/helptext"
)

// ShellCommand reads command lines from stdin and runs each one.
type ShellCommand struct {
	Prompt string `flag:"prompt" default:"> " help:"Prompt shown before each line."`
}

func (*ShellCommand) CommandHelp() string {
	return "Runs commands read from stdin, one per line, until EOF or 'exit'."
}

// shellCommands are the commands available inside the shell.
func shellCommands() []*cmdline.CommandType {
	return []*cmdline.CommandType{
		cmdline.Of[GreetCommand](),
		cmdline.Of[DeployCommand](),
		cmdline.Of[DescribeCommand](),
	}
}

// Run stops before the next prompt once ctx is done. A read already
// blocked on stdin isn't interrupted.
func (c *ShellCommand) Run(ctx context.Context) error {
	opts := options()
	p := &helptext.Printer{W: stdout, NoColor: true}
	sc := bufio.NewScanner(stdin)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(stdout, c.Prompt)
		if !sc.Scan() {
			fmt.Fprintln(stdout)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			p.Commands(shellCommands())
			continue
		}
		res, err := cmdline.ResolveLine(line, opts, nil, shellCommands()...)
		var e *cmdline.Error
		switch {
		case err == nil:
			if err := res.Command.Run(ctx); err != nil {
				p.Error(err)
			}
		case errors.As(err, &e) && e.Kind == cmdline.KindHelpRequested:
			if err := p.Command(e.Command); err != nil {
				p.Error(err)
			}
		default:
			p.Error(err)
		}
	}
}
