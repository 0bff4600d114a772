// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the vertex command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sava-africa/vertex-go/cmd/vertex/cli"
	"github.com/sava-africa/vertex-go/lib/config"
	"github.com/sava-africa/vertex-go/lib/version"
	"github.com/sava-africa/vertex-go/lib/vertex"
)

// Environment is everything a command reads from or writes to outside
// its flags. Tests replace the streams and the connect function.
type Environment struct {
	Context context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// Connect opens the client for a loaded configuration.
	Connect func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*vertex.Client, error)

	// Logger builds the command logger.
	Logger func(verbose bool) *slog.Logger
}

// DefaultEnvironment wires the process streams, vertex.Connect and
// the terminal-aware command logger.
func DefaultEnvironment(ctx context.Context) *Environment {
	return &Environment{
		Context: ctx,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Connect: vertex.Connect,
		Logger:  cli.NewCommandLogger,
	}
}

// globalParams are accepted by every command that talks to Vertex.
type globalParams struct {
	cli.JSONOutput
	ConfigPath string `json:"-" flag:"config" desc:"path to vertex.yaml (default: $VERTEX_CONFIG)"`
	Verbose    bool   `json:"-" flag:"verbose,v" desc:"log debug records"`
}

// Root builds the complete vertex command tree over env.
func Root(env *Environment) *cli.Command {
	return &cli.Command{
		Name: "vertex",
		Description: `vertex: command line for the Vertex platform.

Invoke any Vertex service operation over NATS, and provision, fill and
submit KYC/KYB document dropboxes. Configuration is read from the file
named by --config or $VERTEX_CONFIG.`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			callCommand(env),
			dropboxCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					_, err := fmt.Fprintf(env.Stdout, "vertex %s\n", version.Full())
					return err
				},
			},
		},
	}
}
