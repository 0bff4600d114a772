// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package rpc implements request/reply invocation of Vertex backend
// operations over NATS.
//
// An [Invoker] owns the three things every call shares: the transport
// ([Requester], normally a *nats.Conn), the bearer token sent in the
// "token" header, and the wire codec. A call resolves a subject
// template, encodes the request, performs exactly one request/reply
// round trip bounded by the invoker's timeout (30 seconds unless
// configured otherwise) and decodes either a typed reply or a
// [ServiceError].
//
// Typed operations are declared once as [Endpoint] values and shared by
// every facade method that needs them:
//
//	var kybSubmit = rpc.NewEndpoint[SubmitDocumentsRequest, SubmitDocumentsResponse]("svc.kyb.*.submit")
//
//	response, err := kybSubmit.Call(ctx, invoker, []string{partnerID}, request)
//
// # Errors
//
// Failures are classified so that callers can decide what to do with
// errors.Is and errors.As:
//
//   - [ErrSerialization]: the request could not be encoded. Nothing was
//     sent.
//   - [ErrTimeout]: no reply within the deadline. The request may or may
//     not have been processed by the backend.
//   - [ErrTransport] (and [ErrNoResponders]): the bus rejected or lost
//     the request, or the caller cancelled the context.
//   - *[ServiceError]: the backend replied with the
//     Nats-Service-Error-Code header. The header is authoritative: the
//     body is not inspected.
//   - [ErrProtocol]: the reply body did not match the expected shape.
//
// The invoker never retries. Retrying a call that timed out may execute
// the backend operation twice, so that decision belongs to the caller.
package rpc
