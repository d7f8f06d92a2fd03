// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/yeetrun/cmdline/pkg/cli"
	"github.com/yeetrun/cmdline/pkg/cmdline"
	"gopkg.in/yaml.v3"
)

const testID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func runDemo(t *testing.T, input string, args ...string) (code int, out, errOut string) {
	t.Helper()
	var o, e bytes.Buffer
	oldOut, oldIn, oldID := stdout, stdin, newID
	stdout, stdin = &o, strings.NewReader(input)
	newID = func() uuid.UUID { return uuid.MustParse(testID) }
	t.Cleanup(func() { stdout, stdin, newID = oldOut, oldIn, oldID })

	app := &cli.App{
		Name:     appName,
		Version:  "v0.0.0-test",
		Default:  cmdline.Of[GreetCommand](),
		Commands: commands(),
		Options:  options(),
		Config:   &cli.Config{NoColor: true, HelpWidth: 100},
		Stdout:   &o,
		Stderr:   &e,
	}
	code = app.Main(context.Background(), args)
	return code, o.String(), e.String()
}

func TestDemo(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		input   string
		code    int
		out     string
		errPart string
	}{
		{
			name: "default greeting",
			out:  "Hello, world!\n",
		},
		{
			name: "default command with arguments",
			args: []string{"bob", "-c=2", "-l"},
			out:  "HELLO, BOB!\nHELLO, BOB!\n",
		},
		{
			name: "named greet",
			args: []string{"greet", "-g=Hi", "ana"},
			out:  "Hi, ana!\n",
		},
		{
			name:    "greet count out of range",
			args:    []string{"greet", "-c=11"},
			code:    1,
			errPart: "value for '-c|--count' is out of range: must be less than 11",
		},
		{
			name: "deploy plan",
			args: []string{"deploy", "api", "1.2.3", "-e=staging", "--id=" + testID, "-p=80,443", "-t=web,blue", "-r=3"},
			out: strings.Join([]string{
				"deploying api v1.2.3 to staging (id " + testID + ")",
				"  registry: https://registry.example.com",
				"  replicas: 3",
				"  timeout:  30s",
				"  ports:    80, 443",
				"  tags:     blue, web",
				"",
			}, "\n"),
		},
		{
			name: "deploy to production",
			args: []string{"deploy", "--dry-run", "--env=production", "--approver=ana", "--timeout=2m", "api", "2.0.0"},
			out: strings.Join([]string{
				"would deploy api v2.0.0 to production (id " + testID + ")",
				"  registry: https://registry.example.com",
				"  replicas: 1",
				"  timeout:  2m0s",
				"  approver: ana",
				"",
			}, "\n"),
		},
		{
			name:  "production asks first",
			args:  []string{"deploy", "api", "1.2.3", "-e=production", "--approver=ana"},
			input: "y\n",
			out: strings.Join([]string{
				"Deploy api v1.2.3 to production? [y/N]: deploying api v1.2.3 to production (id " + testID + ")",
				"  registry: https://registry.example.com",
				"  replicas: 1",
				"  timeout:  30s",
				"  approver: ana",
				"",
			}, "\n"),
		},
		{
			name:    "production declined",
			args:    []string{"deploy", "api", "1.2.3", "-e=production", "--approver=ana"},
			input:   "n\n",
			code:    1,
			errPart: "deploy cancelled",
		},
		{
			name:    "production needs approver",
			args:    []string{"deploy", "api", "1.2.3", "-e=production"},
			code:    1,
			errPart: "required parameter '--approver' wasn't assigned",
		},
		{
			name:    "approver only for production",
			args:    []string{"deploy", "api", "1.2.3", "-e=dev", "--approver=ana"},
			code:    1,
			errPart: "parameter '--approver' can't be assigned: its dependencies aren't met",
		},
		{
			name:    "production rejects prereleases",
			args:    []string{"deploy", "api", "1.0.0-rc.1", "-e=production", "--approver=ana"},
			code:    1,
			errPart: "version 1.0.0-rc.1 can't be deployed to production",
		},
		{
			name:    "version constraint",
			args:    []string{"deploy", "api", "1.2.3", "-e=dev", "--requires=^2"},
			code:    1,
			errPart: "version 1.2.3 doesn't satisfy ^2",
		},
		{
			name:    "invalid version",
			args:    []string{"deploy", "api", "latest", "-e=dev"},
			code:    1,
			errPart: "invalid value for 'version'",
		},
		{
			name:    "invalid port",
			args:    []string{"deploy", "api", "1.2.3", "-e=dev", "-p=80,http"},
			code:    1,
			errPart: "invalid value for '-p|--ports'",
		},
		{
			name:    "unknown environment",
			args:    []string{"deploy", "api", "1.2.3", "-e=qa"},
			code:    1,
			errPart: "'qa' isn't a valid value for enum Env, valid values are: dev, staging, production",
		},
		{
			name:  "shell",
			args:  []string{"shell", "--prompt=$ "},
			input: "greet ana\n\nbogus\ngreet --loud=maybe\nexit\ngreet never\n",
			out: strings.Join([]string{
				"$ Hello, ana!",
				"$ $ ERROR:",
				"  command 'bogus' not found",
				"",
				"$ ERROR:",
				"  invalid value for '-l|--loud'",
				"    'maybe' isn't a valid bool",
				"",
				"$ ",
			}, "\n"),
		},
		{
			name:  "shell until EOF",
			args:  []string{"shell"},
			input: "greet \"two words\"",
			out:   "> Hello, two words!\n> \n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runDemo(t, tt.input, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d\nstderr:\n%s", code, tt.code, errOut)
			}
			if tt.code == 0 {
				if diff := cmp.Diff(tt.out, out); diff != "" {
					t.Errorf("stdout mismatch (-want +got):\n%s", diff)
				}
			}
			if tt.errPart != "" && !strings.Contains(errOut, tt.errPart) {
				t.Errorf("stderr missing %q:\n%s", tt.errPart, errOut)
			}
		})
	}
}

func TestShellCancelled(t *testing.T) {
	var o bytes.Buffer
	oldOut, oldIn := stdout, stdin
	stdout, stdin = &o, strings.NewReader("greet ana\n")
	t.Cleanup(func() { stdout, stdin = oldOut, oldIn })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sh := &ShellCommand{Prompt: "> "}
	if err := sh.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want %v", err, context.Canceled)
	}
	if o.Len() != 0 {
		t.Errorf("stdout = %q, want nothing before the first prompt", o.String())
	}
}

func TestDeployEnvFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "plan.env")
	code, _, errOut := runDemo(t, "", "deploy", "api", "1.2.3", "-e=production", "-y", "--approver=ana", "-t=b,a", "--env-file="+name)
	if code != 0 {
		t.Fatalf("exit code = %d\n%s", code, errOut)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"DEPLOY_ID=" + testID,
		"SERVICE=api",
		"VERSION=1.2.3",
		"ENVIRONMENT=production",
		"REGISTRY=https://registry.example.com",
		"REPLICAS=1",
		"TIMEOUT=30s",
		"APPROVER=ana",
		"TAGS=a,b",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(b)); diff != "" {
		t.Errorf("env file mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe(t *testing.T) {
	code, out, errOut := runDemo(t, "", "describe", "greet")
	if code != 0 {
		t.Fatalf("exit code = %d\n%s", code, errOut)
	}
	var got commandDoc
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output isn't YAML: %v\n%s", err, out)
	}
	want := commandDoc{
		Name:  "greet",
		Help:  "Greets someone. Runs when no command is given.",
		Usage: "greet [name] [options]",
		Arguments: []paramDoc{
			{Name: "name", Field: "Name", Type: "string", Values: "<text>", Default: "world", Help: "Who to greet."},
		},
		Options: []paramDoc{
			{Name: "-g|--greeting", Field: "Greeting", Type: "string", Values: "<text>", Default: "Hello"},
			{Name: "-c|--count", Field: "Count", Type: "int", Values: "<whole number, 0 < value < 11>", Default: "1", Help: "How many times to greet."},
			{Name: "-l|--loud", Field: "Loud", Type: "bool", Values: "true|false", Help: "Shout the greeting."},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("describe greet mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeDeploy(t *testing.T) {
	doc, err := describeCommand(cmdline.Of[DeployCommand]())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Usage, "deploy <service> <version> -e|--env=dev|staging|production [options]"; got != want {
		t.Errorf("Usage = %q, want %q", got, want)
	}
	byField := make(map[string]paramDoc)
	for _, p := range doc.Options {
		byField[p.Field] = p
	}
	for field, want := range map[string]string{
		"ID":       "<text>",
		"Registry": "<url>",
		"Tags":     "<text>[]",
		"Ports":    "<whole number, 0 <= value <= 65535>[]",
		"Timeout":  "<duration>",
		"Replicas": "<whole number, 0 < value < 100>",
	} {
		if got := byField[field].Values; got != want {
			t.Errorf("%s values = %q, want %q", field, got, want)
		}
	}
	if diff := cmp.Diff([]string{"Env=production"}, byField["Approver"].DependsOn); diff != "" {
		t.Errorf("Approver depends mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeUnknown(t *testing.T) {
	code, _, errOut := runDemo(t, "", "describe", "wave")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "command 'wave' not found") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestCommandsValid(t *testing.T) {
	if err := cmdline.ValidateOptions(options(), commands()...); err != nil {
		t.Fatal(err)
	}
}
