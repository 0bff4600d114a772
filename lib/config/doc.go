// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Vertex SDK
// clients.
//
// Configuration is loaded from a single file specified by either the
// VERTEX_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no .env discovery, and no
// automatic file search. The loaded [Config] is passed explicitly to
// [github.com/sava-africa/vertex-go/lib/vertex.Connect]; library
// packages never read configuration from the environment themselves.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production is stricter: [Config.Validate]
// rejects insecure_tls there.
//
// Variable expansion is performed on server, creds_file and token after
// loading, so secrets can stay out of the file:
//
//	token: ${VERTEX_JWT}
//	creds_file: ${HOME}/.vertex/partner.creds
//	server: ${VERTEX_SERVER:-wss://hermes.sava.africa:443}
//
// Key exports:
//
//   - [Config] -- connection, timeout, dropbox and metrics settings
//   - [Default] -- returns a Config with the documented defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other Vertex SDK packages.
package config
