// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package subject parses and resolves the subject templates that name
// backend operations on the bus.
//
// Every Vertex operation lives at a subject of the form
//
//	svc.<domain>.<param1>[.<param2>...].<method>
//
// and is declared as a template whose parameter positions are single
// "*" tokens: "svc.account.*.create". Resolving the template substitutes
// an ordered list of path parameters (typically the partner id) into
// the wildcard tokens left to right.
//
// Templates are program constants. [MustParse] panics on a malformed
// template; [Template.Resolve] returns [ErrArity] when the parameter
// count does not match the wildcard count. Facades call [Template.Check]
// at construction so that a mismatch surfaces before the first request
// rather than on it.
//
// Parameters are validated as single subject tokens: a parameter
// containing ".", "*", ">" or whitespace would silently change the
// shape of the resolved subject, so it is rejected with
// [ErrInvalidParam].
package subject
