// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NATSServer starts an embedded NATS server with JetStream enabled and
// returns it. The server listens on a random loopback port, stores
// streams under t.TempDir(), and shuts down when the test completes.
func NATSServer(t testing.TB) *server.Server {
	t.Helper()

	options := &server.Options{
		Host:      "127.0.0.1",
		Port:      server.RANDOM_PORT,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	}
	natsServer, err := server.NewServer(options)
	if err != nil {
		t.Fatalf("creating nats server: %v", err)
	}
	go natsServer.Start()
	if !natsServer.ReadyForConnections(10 * time.Second) {
		natsServer.Shutdown()
		t.Fatalf("nats server not ready for connections")
	}
	t.Cleanup(func() {
		natsServer.Shutdown()
		natsServer.WaitForShutdown()
	})
	return natsServer
}

// Connect dials natsServer and closes the connection when the test
// completes.
func Connect(t testing.TB, natsServer *server.Server) *nats.Conn {
	t.Helper()

	conn, err := nats.Connect(natsServer.ClientURL(), nats.Name(t.Name()))
	if err != nil {
		t.Fatalf("connecting to nats server: %v", err)
	}
	t.Cleanup(conn.Close)
	return conn
}
