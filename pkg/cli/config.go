// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const configName = "config.toml"

// Config holds parser settings read from a TOML file. It never supplies
// parameter values.
type Config struct {
	AllowDuplicates bool `toml:"allow_duplicates"`
	NoColor         bool `toml:"no_color"`
	HelpWidth       int  `toml:"help_width"`
}

// ConfigEnv returns the environment variable that overrides the config
// path for app, e.g. CLIDEMO_CONFIG.
func ConfigEnv(app string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(app)) + "_CONFIG"
}

// LoadConfig reads the config of app. The path comes from ConfigEnv(app),
// which must name an existing file, or defaults to <user config
// dir>/<app>/config.toml, which may be absent.
func LoadConfig(app string) (Config, error) {
	if path := os.Getenv(ConfigEnv(app)); path != "" {
		return ReadConfig(path)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, nil
	}
	cfg, err := ReadConfig(filepath.Join(dir, app, configName))
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// ReadConfig decodes the TOML file at path. Unknown keys are an error.
func ReadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if cfg.HelpWidth < 0 {
		return Config{}, fmt.Errorf("%s: help_width must not be negative", path)
	}
	return cfg, nil
}
