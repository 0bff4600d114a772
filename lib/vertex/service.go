// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"fmt"
	"slices"

	"github.com/sava-africa/vertex-go/lib/rpc"
	"github.com/sava-africa/vertex-go/lib/subject"
)

// templated is satisfied by every rpc.Endpoint.
type templated interface {
	Template() subject.Template
}

// service is the state shared by every facade: the invoker and the
// values that fill the wildcards of each operation's subject.
type service struct {
	invoker *rpc.Invoker
	params  []string
}

// newService checks params against every endpoint template so that an
// arity mismatch fails at construction rather than on first call.
func newService(name string, invoker *rpc.Invoker, params []string, endpoints ...templated) (service, error) {
	if invoker == nil {
		return service{}, fmt.Errorf("%s service: invoker is required", name)
	}
	for _, endpoint := range endpoints {
		if err := endpoint.Template().Check(params); err != nil {
			return service{}, fmt.Errorf("%s service: %w", name, err)
		}
	}
	return service{invoker: invoker, params: slices.Clone(params)}, nil
}
