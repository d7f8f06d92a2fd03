// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
	"tailscale.com/types/lazy"
)

// buildVersion is injected at build time via -ldflags.
var buildVersion string

var version lazy.SyncValue[string]

// Version returns the release version if set, otherwise falls back to the
// commit hash.
func Version() string {
	return version.Get(func() string {
		if v := strings.TrimSpace(buildVersion); v != "" {
			return NormalizeVersion(v)
		}
		return VersionCommit()
	})
}

// NormalizeVersion returns v in canonical "vMAJOR.MINOR.PATCH" form when it
// is a semantic version and v unchanged otherwise.
func NormalizeVersion(v string) string {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	return "v" + sv.String()
}

// VersionCommit returns the commit hash of the current build.
func VersionCommit() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return commitFromSettings(bi.Settings)
}

func commitFromSettings(settings []debug.BuildSetting) string {
	var dirty bool
	var commit string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "" {
		return "dev"
	}

	if len(commit) >= 9 {
		commit = commit[:9]
	}
	if dirty {
		commit += "+dirty"
	}
	return commit
}
