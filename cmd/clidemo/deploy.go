// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/yeetrun/cmdline/pkg/cmdline"
	"github.com/yeetrun/cmdline/pkg/cmdutil"
	"github.com/yeetrun/cmdline/pkg/env"
	"tailscale.com/util/must"
	"tailscale.com/util/set"
)

// Env is a deployment environment.
type Env int

const (
	EnvDev Env = iota
	EnvStaging
	EnvProduction
)

func (Env) EnumMembers() []cmdline.EnumMember {
	return []cmdline.EnumMember{
		{Name: "dev", Value: EnvDev},
		{Name: "staging", Value: EnvStaging},
		{Name: "prod", Alias: "production", Value: EnvProduction},
	}
}

func (e Env) String() string {
	switch e {
	case EnvDev:
		return "dev"
	case EnvStaging:
		return "staging"
	case EnvProduction:
		return "production"
	}
	return fmt.Sprintf("Env(%d)", int(e))
}

// Production only takes releases.
var productionVersions = must.Get(semver.NewConstraint(">= 1.0.0"))

// newID is replaced in tests.
var newID = uuid.New

// DeployCommand prints the deployment plan for a service.
type DeployCommand struct {
	Service  string              `arg:"service" required:"true" help:"Service to deploy."`
	Version  *semver.Version     `arg:"version" required:"true" help:"Version to deploy."`
	Env      Env                 `flag:"env" short:"e" required:"true" help:"Target environment."`
	Approver string              `flag:"approver" required:"true" depends:"Env=production" help:"Who approved a production deploy."`
	ID       uuid.UUID           `flag:"id" help:"Deployment ID. Generated when not set."`
	Registry *url.URL            `flag:"registry" default:"https://registry.example.com" help:"Registry to pull from."`
	Tags     set.Set[string]     `flag:"tags" short:"t" help:"Comma separated tags."`
	Ports    []uint16            `flag:"ports" short:"p" help:"Comma separated ports to expose."`
	Replicas int                 `flag:"replicas" short:"r" default:"1" gt:"0" lt:"100"`
	Timeout  time.Duration       `flag:"timeout" default:"30s" help:"Rollout timeout."`
	Requires *semver.Constraints `flag:"requires" help:"Constraint the version must satisfy."`
	DryRun   bool                `flag:"dry-run" short:"n" help:"Print the plan only."`
	Yes      bool                `flag:"yes" short:"y" help:"Don't ask before deploying to production."`
	EnvFile  string              `flag:"env-file" help:"Also write the plan to this file as KEY=value lines."`
}

// deployPlan is the plan as written by --env-file.
type deployPlan struct {
	ID       string   `env:"DEPLOY_ID"`
	Service  string   `env:"SERVICE"`
	Version  string   `env:"VERSION"`
	Env      string   `env:"ENVIRONMENT"`
	Registry string   `env:"REGISTRY"`
	Replicas int      `env:"REPLICAS"`
	Timeout  string   `env:"TIMEOUT"`
	Approver string   `env:"APPROVER"`
	Ports    []uint16 `env:"PORTS"`
	Tags     []string `env:"TAGS"`
}

func (*DeployCommand) CommandHelp() string {
	return "Plans a deployment of a service version to an environment."
}

func (c *DeployCommand) Run(context.Context) error {
	if c.Requires != nil && !c.Requires.Check(c.Version) {
		return fmt.Errorf("version %s doesn't satisfy %s", c.Version, c.Requires)
	}
	if c.Env == EnvProduction && !productionVersions.Check(c.Version) {
		return fmt.Errorf("version %s can't be deployed to production: must be %s", c.Version, productionVersions)
	}
	if c.ID == uuid.Nil {
		c.ID = newID()
	}
	if c.Env == EnvProduction && !c.DryRun && !c.Yes {
		ok, err := cmdutil.Confirm(stdin, stdout, fmt.Sprintf("Deploy %s v%s to production?", c.Service, c.Version))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("deploy cancelled")
		}
	}
	tags := c.Tags.Slice()
	slices.Sort(tags)

	verb := "deploying"
	if c.DryRun {
		verb = "would deploy"
	}
	fmt.Fprintf(stdout, "%s %s v%s to %s (id %s)\n", verb, c.Service, c.Version, c.Env, c.ID)
	fmt.Fprintf(stdout, "  registry: %s\n", c.Registry)
	fmt.Fprintf(stdout, "  replicas: %d\n", c.Replicas)
	fmt.Fprintf(stdout, "  timeout:  %s\n", c.Timeout)
	if c.Approver != "" {
		fmt.Fprintf(stdout, "  approver: %s\n", c.Approver)
	}
	if len(c.Ports) > 0 {
		ports := make([]string, len(c.Ports))
		for i, p := range c.Ports {
			ports[i] = fmt.Sprint(p)
		}
		fmt.Fprintf(stdout, "  ports:    %s\n", strings.Join(ports, ", "))
	}
	if len(tags) > 0 {
		fmt.Fprintf(stdout, "  tags:     %s\n", strings.Join(tags, ", "))
	}
	if c.EnvFile == "" {
		return nil
	}
	return env.Write(c.EnvFile, deployPlan{
		ID:       c.ID.String(),
		Service:  c.Service,
		Version:  c.Version.String(),
		Env:      c.Env.String(),
		Registry: c.Registry.String(),
		Replicas: c.Replicas,
		Timeout:  c.Timeout.String(),
		Approver: c.Approver,
		Ports:    c.Ports,
		Tags:     tags,
	})
}
