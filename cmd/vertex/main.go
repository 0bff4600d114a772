// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Command vertex invokes Vertex services and manages KYC/KYB document
// dropboxes from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sava-africa/vertex-go/cmd/vertex/commands"
	"github.com/sava-africa/vertex-go/lib/rpc"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an error carrying
		// the exit code.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", describe(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root(commands.DefaultEnvironment(ctx)).Execute(os.Args[1:])
}

// describe leads with the service's code and message when the failure
// came from a Vertex service.
func describe(err error) string {
	var serviceErr *rpc.ServiceError
	if errors.As(err, &serviceErr) {
		return fmt.Sprintf("%d %s (%s)", serviceErr.Code, serviceErr.Message, serviceErr.Subject)
	}
	return err.Error()
}
