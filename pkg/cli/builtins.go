// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"

	"github.com/yeetrun/cmdline/pkg/cmdline"
)

// HelpCommand lists the available commands, or shows the usage of one.
// App.Main handles it; Run does nothing.
type HelpCommand struct {
	Command string `arg:"command" help:"Command to show help for."`
}

func (*HelpCommand) CommandHelp() string       { return "Shows this help screen." }
func (*HelpCommand) Run(context.Context) error { return nil }

// VersionCommand prints the version banner. App.Main handles it; Run does
// nothing.
type VersionCommand struct{}

func (*VersionCommand) CommandHelp() string       { return "Shows version information." }
func (*VersionCommand) Run(context.Context) error { return nil }

var (
	helpType    = cmdline.Of[HelpCommand]()
	versionType = cmdline.Of[VersionCommand]()
)
