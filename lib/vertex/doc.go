// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package vertex is the client for the Vertex financial backend.
//
// A [Client] holds one NATS connection, authenticates every request
// with the partner's bearer token, and exposes the backend's services
// as typed facades:
//
//	cfg, err := config.Load()
//	...
//	client, err := vertex.Connect(ctx, cfg, logger)
//	...
//	defer client.Close()
//
//	entity, err := client.Entities().Create(ctx, vertex.CreateEntityRequest{...})
//
// Every facade method is a single request/reply round trip with the
// error classification of package rpc: match failures with errors.Is
// against rpc.ErrTimeout, rpc.ErrTransport and friends, and backend
// rejections with errors.As against *rpc.ServiceError.
//
// Identity verification is a two-step flow. Documents are first
// uploaded into the owner's dropbox with [Client.UploadKYC] or
// [Client.UploadKYB]; the keys from the returned result are then
// submitted with [Client.SubmitKYC] or [Client.SubmitKYB]. The two
// steps are deliberately separate so a failed submission can be retried
// without uploading again.
package vertex
