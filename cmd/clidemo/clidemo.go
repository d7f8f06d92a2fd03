// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clidemo shows the cmdline parser on a few commands: a default
// greeting, a deploy command with rich parameter types, a describe command
// that dumps parameter tables as YAML and an interactive shell.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/yeetrun/cmdline/pkg/cli"
	"github.com/yeetrun/cmdline/pkg/cmdline"
	"tailscale.com/types/logger"
)

const appName = "clidemo"

var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// debugLogf returns a debug logger when CLIDEMO_DEBUG is set, nil otherwise.
func debugLogf() logger.Logf {
	if os.Getenv("CLIDEMO_DEBUG") == "" {
		return nil
	}
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: appName,
		Level:  log.DebugLevel,
	})
	return l.Debugf
}

func options() cmdline.Options {
	return cmdline.Options{
		Coercers: []cmdline.Coercer{
			cmdline.CoercerFunc(semver.NewVersion),
			cmdline.CoercerFunc(semver.NewConstraint),
		},
		Logf: debugLogf(),
	}
}

// commands returns the commands selectable by name, in listing order.
func commands() []*cmdline.CommandType {
	return []*cmdline.CommandType{
		cmdline.Of[GreetCommand](),
		cmdline.Of[DeployCommand](),
		cmdline.Of[DescribeCommand](),
		cmdline.Of[ShellCommand](),
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := &cli.App{
		Name:     appName,
		Default:  cmdline.Of[GreetCommand](),
		Commands: commands(),
		Options:  options(),
	}
	code := app.Main(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
