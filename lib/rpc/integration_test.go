// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/micro"

	"github.com/sava-africa/vertex-go/lib/rpc"
	"github.com/sava-africa/vertex-go/lib/testutil"
)

type entityInfoRequest struct {
	EntityID string `json:"entity_id"`
}

type entityInfoResponse struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	Caller   string `json:"caller"`
}

var entityInfo = rpc.NewEndpoint[entityInfoRequest, entityInfoResponse]("svc.entity.*.info")

func TestEndpointAgainstMicroService(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	server := testutil.NATSServer(t)
	serviceConn := testutil.Connect(t, server)
	clientConn := testutil.Connect(t, server)

	service, err := micro.AddService(serviceConn, micro.Config{Name: "entity", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("AddService: %v", err)
	}
	t.Cleanup(func() { _ = service.Stop() })

	err = service.AddEndpoint("info", micro.HandlerFunc(func(request micro.Request) {
		var body entityInfoRequest
		if err := json.Unmarshal(request.Data(), &body); err != nil {
			_ = request.Error("400", "malformed request", nil)
			return
		}
		if body.EntityID == "missing" {
			_ = request.Error("404", "entity not found", nil)
			return
		}
		_ = request.RespondJSON(entityInfoResponse{
			EntityID: body.EntityID,
			Name:     "Acme Holdings",
			Caller:   request.Headers().Get(rpc.TokenHeader),
		})
	}), micro.WithEndpointSubject("svc.entity.partner-1.info"))
	if err != nil {
		t.Fatalf("AddEndpoint: %v", err)
	}

	invoker, err := rpc.NewInvoker(clientConn, "integration-token", rpc.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewInvoker: %v", err)
	}
	ctx := context.Background()

	response, err := entityInfo.Call(ctx, invoker, []string{"partner-1"}, entityInfoRequest{EntityID: "ent-9"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if response.Name != "Acme Holdings" || response.EntityID != "ent-9" {
		t.Errorf("response = %+v", response)
	}
	if response.Caller != "integration-token" {
		t.Errorf("service saw token %q, want integration-token", response.Caller)
	}

	_, err = entityInfo.Call(ctx, invoker, []string{"partner-1"}, entityInfoRequest{EntityID: "missing"})
	if !rpc.IsServiceError(err, 404) {
		t.Errorf("error = %v, want service error 404", err)
	}

	_, err = entityInfo.Call(ctx, invoker, []string{"partner-2"}, entityInfoRequest{EntityID: "ent-9"})
	if !errors.Is(err, rpc.ErrNoResponders) {
		t.Errorf("error = %v, want ErrNoResponders for an unserved partner", err)
	}
}
