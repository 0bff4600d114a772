// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/sava-africa/vertex-go/lib/codec"
	"github.com/sava-africa/vertex-go/lib/subject"
)

// TokenHeader is the request header carrying the bearer token.
const TokenHeader = "token"

// DefaultTimeout bounds a call when no WithTimeout option is given.
const DefaultTimeout = 30 * time.Second

// Requester performs one request/reply round trip. *nats.Conn
// satisfies it.
type Requester interface {
	RequestMsgWithContext(ctx context.Context, msg *nats.Msg) (*nats.Msg, error)
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithTimeout sets the per-call reply deadline. Non-positive values are
// ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(inv *Invoker) {
		if timeout > 0 {
			inv.timeout = timeout
		}
	}
}

// WithLogger sets the logger that receives one debug record per call.
func WithLogger(logger *slog.Logger) Option {
	return func(inv *Invoker) {
		if logger != nil {
			inv.logger = logger
		}
	}
}

// WithMetrics records call counts and latencies into metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(inv *Invoker) { inv.metrics = metrics }
}

// WithLimiter paces outgoing requests. The wait counts against the call
// deadline; a wait that cannot finish in time fails with ErrTimeout.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(inv *Invoker) { inv.limiter = limiter }
}

// WithCodec replaces the default JSON wire codec.
func WithCodec(c codec.Codec) Option {
	return func(inv *Invoker) {
		if c != nil {
			inv.codec = c
		}
	}
}

// Invoker sends authenticated requests to Vertex backend subjects. It
// is immutable after construction and safe for concurrent use.
type Invoker struct {
	conn    Requester
	token   string
	timeout time.Duration
	codec   codec.Codec
	logger  *slog.Logger
	metrics *Metrics
	limiter *rate.Limiter
}

// NewInvoker creates an Invoker that authenticates every request with
// token.
func NewInvoker(conn Requester, token string, options ...Option) (*Invoker, error) {
	if conn == nil {
		return nil, errors.New("rpc: requester is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	inv := &Invoker{
		conn:    conn,
		token:   token,
		timeout: DefaultTimeout,
		codec:   codec.JSON,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(inv)
	}
	return inv, nil
}

// Timeout returns the per-call reply deadline.
func (inv *Invoker) Timeout() time.Duration { return inv.timeout }

// Codec returns the wire codec for request and reply bodies.
func (inv *Invoker) Codec() codec.Codec { return inv.codec }

// Invoke resolves template with params, sends request and decodes the
// reply into response. A nil request is encoded as the codec's null
// value; a nil response discards the reply body.
func (inv *Invoker) Invoke(ctx context.Context, template subject.Template, params []string, request, response any) error {
	start := time.Now()
	resolved, err := template.Resolve(params)
	if err != nil {
		return inv.finish(template, resolved, start, fmt.Errorf("rpc: %w", err))
	}

	payload, err := inv.codec.Marshal(request)
	if err != nil {
		return inv.finish(template, resolved, start,
			fmt.Errorf("%w: encoding request for %q: %w", ErrSerialization, resolved, err))
	}

	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	if inv.limiter != nil {
		if err := inv.limiter.Wait(ctx); err != nil {
			return inv.finish(template, resolved, start, inv.limiterError(ctx, resolved, start, err))
		}
	}

	msg := nats.NewMsg(resolved)
	msg.Header.Set(TokenHeader, inv.token)
	msg.Data = payload

	reply, err := inv.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return inv.finish(template, resolved, start, inv.requestError(ctx, resolved, start, err))
	}
	if reply == nil {
		return inv.finish(template, resolved, start,
			fmt.Errorf("%w: empty reply message from %q", ErrTransport, resolved))
	}

	if serviceErr := DecodeServiceError(reply.Header); serviceErr != nil {
		serviceErr.Subject = resolved
		return inv.finish(template, resolved, start, serviceErr)
	}

	if response != nil {
		if err := inv.codec.Unmarshal(reply.Data, response); err != nil {
			return inv.finish(template, resolved, start,
				fmt.Errorf("%w: decoding reply from %q: %w", ErrProtocol, resolved, err))
		}
	}
	return inv.finish(template, resolved, start, nil)
}

// requestError classifies a failed round trip. Deadline expiry is a
// timeout; cancellation by the caller is a transport failure that still
// matches context.Canceled.
func (inv *Invoker) requestError(ctx context.Context, resolved string, start time.Time, err error) error {
	switch {
	case errors.Is(err, nats.ErrNoResponders):
		return fmt.Errorf("%w: %w: %q", ErrTransport, ErrNoResponders, resolved)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, nats.ErrTimeout):
		return timeoutError(resolved, start, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: request to %q cancelled: %w", ErrTransport, resolved, err)
	case ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return timeoutError(resolved, start, err)
	default:
		return fmt.Errorf("%w: request to %q: %w", ErrTransport, resolved, err)
	}
}

// limiterError classifies a failed limiter wait. The limiter refuses
// up front when its reservation would land past the deadline, so any
// failure not caused by caller cancellation is a timeout.
func (inv *Invoker) limiterError(ctx context.Context, resolved string, start time.Time, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: request to %q cancelled: %w", ErrTransport, resolved, err)
	}
	return timeoutError(resolved, start, err)
}

func timeoutError(resolved string, start time.Time, err error) error {
	elapsed := time.Since(start).Round(time.Millisecond)
	return fmt.Errorf("%w after %s on %q: %w", ErrTimeout, elapsed, resolved, err)
}

func (inv *Invoker) finish(template subject.Template, resolved string, start time.Time, err error) error {
	elapsed := time.Since(start)
	outcome := Outcome(err)
	if inv.metrics != nil {
		inv.metrics.observe(template.String(), outcome, elapsed)
	}
	if err != nil {
		inv.logger.Debug("rpc call failed",
			"subject", resolved,
			"outcome", outcome,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		inv.logger.Debug("rpc call",
			"subject", resolved,
			"elapsed", elapsed,
		)
	}
	return err
}

// Outcome labels err with the failure class used in metrics and logs:
// "ok", "service_error", "timeout", "no_responders", "transport",
// "serialization", "protocol" or "invalid_subject".
func Outcome(err error) string {
	var serviceErr *ServiceError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &serviceErr):
		return "service_error"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNoResponders):
		return "no_responders"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrSerialization):
		return "serialization"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, subject.ErrArity), errors.Is(err, subject.ErrInvalidParam):
		return "invalid_subject"
	default:
		return "error"
	}
}
