// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Vertex SDK
// packages.
//
// [NATSServer] starts an in-process NATS server with JetStream enabled
// on a random port, backed by a per-test storage directory. [Connect]
// dials it and drains the connection at cleanup. Together they let
// request/reply and object store tests run against the real protocol
// without any external infrastructure.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation, such as owner identifiers that must map to distinct
// buckets within one server.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
