// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yeetrun/cmdline/pkg/cli"
	"github.com/yeetrun/cmdline/pkg/cmdline"
)

type HelloCommand struct {
	Name     string        `arg:"name" default:"World"`
	Times    int           `flag:"times" short:"n" default:"1" gt:"0"`
	Interval time.Duration `flag:"interval" short:"i" default:"2s"`
}

func (*HelloCommand) CommandHelp() string { return "Prints a greeting every interval." }

func (c *HelloCommand) Run(ctx context.Context) error {
	for i := range c.Times {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.Interval):
			}
		}
		fmt.Printf("Hello, %s!\n", c.Name)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:    "helloworld",
		Default: cmdline.Of[HelloCommand](),
	}
	os.Exit(app.Main(context.Background(), os.Args[1:]))
}
