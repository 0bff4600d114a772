// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/sava-africa/vertex-go/lib/codec"
	"github.com/sava-africa/vertex-go/lib/config"
	"github.com/sava-africa/vertex-go/lib/dropbox"
	"github.com/sava-africa/vertex-go/lib/rpc"
)

// ErrDropboxUnavailable is returned by upload methods of a Client built
// without an object store.
var ErrDropboxUnavailable = errors.New("vertex: no object store configured")

// Client is a connected Vertex client. It is safe for concurrent use.
type Client struct {
	conn      *nats.Conn
	invoker   *rpc.Invoker
	buckets   dropbox.BucketAPI
	uploader  *dropbox.Uploader
	registry  *prometheus.Registry
	logger    *slog.Logger
	partnerID string

	entities *EntityService
	users    *UserService
	accounts *AccountService
	kyb      *KYBService
	cards    *CardService
}

// Connect validates cfg, dials the configured server with the
// partner's credentials and returns a ready Client. ctx bounds the
// dial only.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("vertex: configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger = orDiscard(logger)

	conn, err := dial(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	js, err := jetstream.New(conn, jetstream.WithDefaultTimeout(cfg.JetStreamTimeout))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	client, err := New(conn, dropbox.NewJetStreamBuckets(js, cfg.JetStreamTimeout), cfg, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	logger.Info("connected to vertex",
		"server", conn.ConnectedUrlRedacted(),
		"partner", cfg.PartnerID,
	)
	return client, nil
}

func dial(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.UserCredentials(cfg.CredsFile),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("disconnected from vertex", "error", err)
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			logger.Info("reconnected to vertex", "server", conn.ConnectedUrlRedacted())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("vertex connection error", "error", err)
		}),
	}
	if cfg.InsecureTLS {
		options = append(options, nats.Secure(&tls.Config{InsecureSkipVerify: true})) //nolint:gosec // opt-in, rejected in production
	}

	type dialResult struct {
		conn *nats.Conn
		err  error
	}
	done := make(chan dialResult, 1)
	go func() {
		conn, err := nats.Connect(cfg.Server, options...)
		done <- dialResult{conn: conn, err: err}
	}()

	select {
	case result := <-done:
		if result.err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", cfg.Server, result.err)
		}
		return result.conn, nil
	case <-ctx.Done():
		go func() {
			if result := <-done; result.conn != nil {
				result.conn.Close()
			}
		}()
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Server, ctx.Err())
	}
}

// New builds a Client over an existing requester and object store. The
// caller keeps ownership of both: Close does not close them. buckets
// may be nil, in which case upload methods return
// ErrDropboxUnavailable.
func New(requester rpc.Requester, buckets dropbox.BucketAPI, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("vertex: configuration is required")
	}
	logger = orDiscard(logger)

	suffix, err := dropbox.ParseKeySuffix(cfg.Dropbox.KeySuffix)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}
	wire, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}

	invokerOptions := []rpc.Option{
		rpc.WithTimeout(cfg.RequestTimeout),
		rpc.WithLogger(logger),
		rpc.WithCodec(wire),
	}
	uploaderOptions := []dropbox.Option{
		dropbox.WithKeySuffix(suffix),
		dropbox.WithBandwidthLimit(cfg.Dropbox.BandwidthKBps),
		dropbox.WithLogger(logger),
	}
	if cfg.RequestRate > 0 {
		burst := max(1, int(math.Ceil(cfg.RequestRate)))
		invokerOptions = append(invokerOptions, rpc.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RequestRate), burst)))
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		rpcMetrics, err := rpc.NewMetrics(registry)
		if err != nil {
			return nil, err
		}
		dropboxMetrics, err := dropbox.NewMetrics(registry)
		if err != nil {
			return nil, err
		}
		invokerOptions = append(invokerOptions, rpc.WithMetrics(rpcMetrics))
		uploaderOptions = append(uploaderOptions, dropbox.WithMetrics(dropboxMetrics))
	}

	invoker, err := rpc.NewInvoker(requester, cfg.Token, invokerOptions...)
	if err != nil {
		return nil, err
	}

	client := &Client{
		invoker:   invoker,
		buckets:   buckets,
		registry:  registry,
		logger:    logger,
		partnerID: cfg.PartnerID,
	}
	if buckets != nil {
		client.uploader = dropbox.NewUploader(buckets, uploaderOptions...)
	}

	params := []string{cfg.PartnerID}
	if client.entities, err = NewEntityService(invoker, params); err != nil {
		return nil, err
	}
	if client.users, err = NewUserService(invoker, params); err != nil {
		return nil, err
	}
	if client.accounts, err = NewAccountService(invoker, params); err != nil {
		return nil, err
	}
	if client.kyb, err = NewKYBService(invoker, params); err != nil {
		return nil, err
	}
	if client.cards, err = NewCardService(invoker, params); err != nil {
		return nil, err
	}
	return client, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// Entities returns the entity facade.
func (c *Client) Entities() *EntityService { return c.entities }

// Users returns the user facade.
func (c *Client) Users() *UserService { return c.users }

// Accounts returns the account facade.
func (c *Client) Accounts() *AccountService { return c.accounts }

// KYB returns the business verification facade.
func (c *Client) KYB() *KYBService { return c.kyb }

// Cards returns the card facade.
func (c *Client) Cards() *CardService { return c.cards }

// Invoker returns the client's invoker, for operations that have no
// typed facade.
func (c *Client) Invoker() *rpc.Invoker { return c.invoker }

// PartnerID returns the partner id that fills service subjects.
func (c *Client) PartnerID() string { return c.partnerID }

// Registry returns the Prometheus registry holding the client's
// collectors, or nil when metrics are disabled.
func (c *Client) Registry() *prometheus.Registry { return c.registry }

// Close drains the connection opened by Connect. It is a no-op for
// clients built with New.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		return fmt.Errorf("draining vertex connection: %w", err)
	}
	return nil
}
