// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable wall clock.
//
// Code that stamps data with the current time (document keys, upload
// receipts) takes a Clock instead of calling time.Now directly. In
// production Real() is used; tests use Fake() so that generated keys
// are deterministic:
//
//	c := clock.Fake(time.Unix(1767225600, 0))
//	uploader := dropbox.NewUploader(api, dropbox.WithClock(c))
//	// keys now end in _1767225600
//	c.Advance(time.Second)
//
// Deadlines are not routed through Clock. Blocking operations take a
// context.Context and honour its deadline, which is what the NATS
// client observes.
package clock
