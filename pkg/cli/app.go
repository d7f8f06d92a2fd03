// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli runs a set of cmdline commands as a program: it selects and
// fills the command from os.Args, prints help, version and errors, and
// maps the outcome to an exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yeetrun/cmdline/pkg/cmdline"
	"github.com/yeetrun/cmdline/pkg/helptext"
)

// App describes a program made of commands.
type App struct {
	// Name is shown in the version banner and selects the config file.
	Name string
	// Version is shown in the version banner. Empty means Version().
	Version string
	// Default runs when no command is named. May be nil.
	Default  *cmdline.CommandType
	Commands []*cmdline.CommandType
	Options  cmdline.Options
	// Config is used instead of LoadConfig when non-nil.
	Config *Config

	Stdout io.Writer
	Stderr io.Writer
}

func (a *App) stdout() io.Writer {
	if a.Stdout != nil {
		return a.Stdout
	}
	return os.Stdout
}

func (a *App) stderr() io.Writer {
	if a.Stderr != nil {
		return a.Stderr
	}
	return os.Stderr
}

func (a *App) version() string {
	if a.Version != "" {
		return a.Version
	}
	return Version()
}

func (a *App) config() (Config, error) {
	if a.Config != nil {
		return *a.Config, nil
	}
	return LoadConfig(a.Name)
}

// commands returns every selectable command: the default, the app's
// commands and the built-in help and version commands.
func (a *App) commands() []*cmdline.CommandType {
	cts := make([]*cmdline.CommandType, 0, len(a.Commands)+3)
	if a.Default != nil {
		cts = append(cts, a.Default)
	}
	for _, ct := range a.Commands {
		if ct != a.Default {
			cts = append(cts, ct)
		}
	}
	return append(cts, helpType, versionType)
}

// Main resolves args (without the program name) and runs the selected
// command. It returns 0 on success and after help or version output, and 1
// when the command line is invalid, the commands are malformed or the
// command fails.
func (a *App) Main(ctx context.Context, args []string) int {
	cfg, err := a.config()
	if err != nil {
		fmt.Fprintf(a.stderr(), "%s: %v\n", a.Name, err)
		return 1
	}
	opts := a.Options
	opts.AllowDuplicates = opts.AllowDuplicates || cfg.AllowDuplicates
	out := &helptext.Printer{W: a.stdout(), Width: cfg.HelpWidth, NoColor: cfg.NoColor}
	errOut := &helptext.Printer{W: a.stderr(), Width: cfg.HelpWidth, NoColor: cfg.NoColor}

	cts := a.commands()
	if err := cmdline.ValidateOptions(opts, cts...); err != nil {
		errOut.Error(err)
		return 1
	}

	res, err := cmdline.Resolve(args, opts, a.Default, cts...)
	if err != nil {
		return a.failed(out, errOut, cts, err)
	}

	switch c := res.Command.(type) {
	case *HelpCommand:
		out.Version(a.Name, a.version())
		if c.Command == "" {
			out.Commands(cts)
			return 0
		}
		ct := cmdline.Find(c.Command, a.Default, cts...)
		if ct == nil {
			errOut.Error(fmt.Errorf("command '%s' not found", c.Command))
			errOut.Commands(cts)
			return 1
		}
		if err := out.Command(ct); err != nil {
			errOut.Error(err)
			return 1
		}
		return 0
	case *VersionCommand:
		out.Version(a.Name, a.version())
		return 0
	}

	if opts.Logf != nil {
		opts.Logf("cli: running %s", res.Type.Name())
	}
	if err := res.Command.Run(ctx); err != nil {
		errOut.Error(err)
		return 1
	}
	return 0
}

// failed reports a resolve error and returns the exit code for it.
func (a *App) failed(out, errOut *helptext.Printer, cts []*cmdline.CommandType, err error) int {
	var e *cmdline.Error
	if !errors.As(err, &e) {
		errOut.Error(err)
		return 1
	}
	switch {
	case e.Kind == cmdline.KindHelpRequested:
		out.Version(a.Name, a.version())
		if err := out.Command(e.Command); err != nil {
			errOut.Error(err)
			return 1
		}
		return 0
	case e.Kind.IsUserError():
		errOut.Version(a.Name, a.version())
		errOut.Error(err)
		if e.Command != nil && e.Kind != cmdline.KindNoCommand && e.Kind != cmdline.KindCommandNotFound {
			if err := errOut.Command(e.Command); err == nil {
				return 1
			}
		}
		errOut.Commands(cts)
		return 1
	}
	errOut.Error(err)
	return 1
}
