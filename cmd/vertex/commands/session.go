// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sava-africa/vertex-go/lib/config"
	"github.com/sava-africa/vertex-go/lib/vertex"
)

// session is one command's connection to Vertex.
type session struct {
	client  *vertex.Client
	config  *config.Config
	logger  *slog.Logger
	metrics *http.Server

	// metricsAddress is the bound listener address, once serving.
	metricsAddress string
}

// open loads the configuration, connects and, when metrics.listen is
// set, serves the client's registry for the lifetime of the session.
func (env *Environment) open(params globalParams, command string) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if params.ConfigPath != "" {
		cfg, err = config.LoadFile(params.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger := env.Logger(params.Verbose).With("command", command)
	client, err := env.Connect(env.Context, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &session{client: client, config: cfg, logger: logger}
	if cfg.Metrics.Listen != "" {
		if err := s.serveMetrics(cfg.Metrics.Listen); err != nil {
			client.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) serveMetrics(address string) error {
	registry := s.client.Registry()
	if registry == nil {
		s.logger.Warn("metrics.listen is set but metrics are disabled", "listen", address)
		return nil
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	s.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.metricsAddress = listener.Addr().String()

	go func() {
		if err := s.metrics.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
	s.logger.Info("serving metrics", "address", s.metricsAddress)
	return nil
}

func (s *session) Close() error {
	var errs []error
	if s.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping metrics server: %w", err))
		}
	}
	if err := s.client.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
