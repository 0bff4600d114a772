// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"

	"github.com/sava-africa/vertex-go/lib/subject"
)

// Endpoint is a typed backend operation: a subject template plus the
// request and response shapes it exchanges. Endpoints are declared as
// package-level values and are safe for concurrent use.
type Endpoint[Req, Resp any] struct {
	template subject.Template
}

// NewEndpoint declares an endpoint on template. It panics if template
// is malformed, so endpoint tables fail at package initialization.
func NewEndpoint[Req, Resp any](template string) Endpoint[Req, Resp] {
	return Endpoint[Req, Resp]{template: subject.MustParse(template)}
}

// Template returns the endpoint's subject template.
func (e Endpoint[Req, Resp]) Template() subject.Template { return e.template }

// Call invokes the endpoint through inv. On any failure the response is
// nil and the error is classified as described in the package
// documentation.
func (e Endpoint[Req, Resp]) Call(ctx context.Context, inv *Invoker, params []string, request Req) (*Resp, error) {
	var response Resp
	if err := inv.Invoke(ctx, e.template, params, request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
