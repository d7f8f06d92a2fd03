// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import "testing"

func TestCLIName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"StringUtils", "string-utils"},
		{"UUIDGen", "uuid-gen"},
		{"UUID", "uuid"},
		{"GreetCommand", "greet"},
		{"DeployCmd", "deploy"},
		{"Command", "command"},
		{"HTTPServerURL", "http-server-url"},
		{"already-kebab", "already-kebab"},
		{"snake_case", "snake-case"},
		{"two words", "two-words"},
		{"v2Release", "v2-release"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CLIName(tt.in); got != tt.want {
			t.Errorf("CLIName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
