// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the vertex binary.
//
// A [Command] is a node in a tree: leaves have a Run function and an
// optional flag set, inner nodes dispatch on their first positional
// argument. Flags are declared as tagged struct fields and bound with
// [FlagsFromParams]:
//
//	type ensureParams struct {
//	    cli.JSONOutput
//	    Owner string `flag:"owner" desc:"owner id"`
//	}
//
// Unknown commands and flags are answered with the closest known name.
// [NewCommandLogger] builds the slog logger every command uses, and
// [ExitError] lets a command choose its exit code after writing its own
// output.
package cli
