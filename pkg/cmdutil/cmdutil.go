// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirm writes msg as a yes/no question to w and reads the answer from r.
// Only "y" or "yes" confirm; EOF counts as no.
func Confirm(r io.Reader, w io.Writer, msg string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", msg)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
