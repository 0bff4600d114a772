// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"

	"github.com/sava-africa/vertex-go/lib/codec"
	"github.com/sava-africa/vertex-go/lib/subject"
)

// fakeRequester records every request and answers with respond.
type fakeRequester struct {
	mu       sync.Mutex
	requests []*nats.Msg
	respond  func(ctx context.Context, msg *nats.Msg) (*nats.Msg, error)
}

func (f *fakeRequester) RequestMsgWithContext(ctx context.Context, msg *nats.Msg) (*nats.Msg, error) {
	f.mu.Lock()
	f.requests = append(f.requests, msg)
	f.mu.Unlock()
	return f.respond(ctx, msg)
}

func (f *fakeRequester) sent() []*nats.Msg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*nats.Msg(nil), f.requests...)
}

func replyWith(data string, header nats.Header) func(context.Context, *nats.Msg) (*nats.Msg, error) {
	return func(_ context.Context, msg *nats.Msg) (*nats.Msg, error) {
		return &nats.Msg{Subject: "_INBOX.reply", Data: []byte(data), Header: header}, nil
	}
}

func replyError(err error) func(context.Context, *nats.Msg) (*nats.Msg, error) {
	return func(context.Context, *nats.Msg) (*nats.Msg, error) { return nil, err }
}

type submitRequest struct {
	EntityID string   `json:"entity_id"`
	Keys     []string `json:"keys"`
}

type submitResponse struct {
	Status string `json:"status"`
}

var submitTemplate = subject.MustParse("svc.kyb.*.submit")

func newTestInvoker(t *testing.T, requester Requester, options ...Option) *Invoker {
	t.Helper()
	inv, err := NewInvoker(requester, "secret-token", options...)
	if err != nil {
		t.Fatalf("NewInvoker: %v", err)
	}
	return inv
}

func TestNewInvokerRequiresToken(t *testing.T) {
	for _, token := range []string{"", "   ", "\t\n"} {
		_, err := NewInvoker(&fakeRequester{}, token)
		if !errors.Is(err, ErrMissingToken) {
			t.Errorf("NewInvoker(token=%q) error = %v, want ErrMissingToken", token, err)
		}
	}
}

func TestNewInvokerRequiresRequester(t *testing.T) {
	if _, err := NewInvoker(nil, "token"); err == nil {
		t.Fatal("NewInvoker(nil) should fail")
	}
}

func TestNewInvokerDefaults(t *testing.T) {
	inv := newTestInvoker(t, &fakeRequester{})
	if got := inv.Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", got, DefaultTimeout)
	}
	if DefaultTimeout != 30*time.Second {
		t.Errorf("DefaultTimeout = %v, want 30s", DefaultTimeout)
	}

	inv = newTestInvoker(t, &fakeRequester{}, WithTimeout(0), WithTimeout(-time.Second))
	if got := inv.Timeout(); got != DefaultTimeout {
		t.Errorf("non-positive WithTimeout changed timeout to %v", got)
	}
}

func TestInvokeSendsTokenAndResolvedSubject(t *testing.T) {
	requester := &fakeRequester{respond: replyWith(`{"status":"received"}`, nil)}
	inv := newTestInvoker(t, requester)

	var response submitResponse
	err := inv.Invoke(context.Background(), submitTemplate, []string{"partner-7"},
		submitRequest{EntityID: "e-1", Keys: []string{"kyb_cipc_1700000000"}}, &response)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if response.Status != "received" {
		t.Errorf("Status = %q, want %q", response.Status, "received")
	}

	sent := requester.sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d requests, want exactly 1", len(sent))
	}
	msg := sent[0]
	if msg.Subject != "svc.kyb.partner-7.submit" {
		t.Errorf("Subject = %q, want %q", msg.Subject, "svc.kyb.partner-7.submit")
	}
	if got := msg.Header.Get(TokenHeader); got != "secret-token" {
		t.Errorf("token header = %q, want %q", got, "secret-token")
	}
	if len(msg.Header) != 1 {
		t.Errorf("request carried %d headers, want only the token: %v", len(msg.Header), msg.Header)
	}
	want := `{"entity_id":"e-1","keys":["kyb_cipc_1700000000"]}`
	if string(msg.Data) != want {
		t.Errorf("payload = %s, want %s", msg.Data, want)
	}
}

func TestInvokeServiceError(t *testing.T) {
	header := nats.Header{}
	header.Set(micro.ErrorCodeHeader, "404")
	header.Set(micro.ErrorHeader, "entity not found")
	requester := &fakeRequester{respond: replyWith(`{"status":"ignored"}`, header)}
	inv := newTestInvoker(t, requester)

	response := submitResponse{Status: "untouched"}
	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, submitRequest{}, &response)

	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if serviceErr.Code != 404 {
		t.Errorf("Code = %d, want 404", serviceErr.Code)
	}
	if serviceErr.Message != "entity not found" {
		t.Errorf("Message = %q, want %q", serviceErr.Message, "entity not found")
	}
	if serviceErr.Subject != "svc.kyb.p1.submit" {
		t.Errorf("Subject = %q, want %q", serviceErr.Subject, "svc.kyb.p1.submit")
	}
	if response.Status != "untouched" {
		t.Errorf("body was decoded despite service error: %+v", response)
	}
	if !IsServiceError(err, 404) || IsServiceError(err, 500) {
		t.Errorf("IsServiceError mismatch for %v", err)
	}
	if code, ok := ServiceErrorCode(err); !ok || code != 404 {
		t.Errorf("ServiceErrorCode = (%d, %v), want (404, true)", code, ok)
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "entity not found") {
		t.Errorf("Error() = %q, want code and message", err.Error())
	}
}

func TestInvokeTimeout(t *testing.T) {
	requester := &fakeRequester{respond: func(ctx context.Context, _ *nats.Msg) (*nats.Msg, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	inv := newTestInvoker(t, requester, WithTimeout(20*time.Millisecond))

	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, submitRequest{}, &submitResponse{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Errorf("timeout should not be classified as transport: %v", err)
	}
	if len(requester.sent()) != 1 {
		t.Errorf("sent %d requests, want 1 (no retry)", len(requester.sent()))
	}
}

func TestInvokeTimeoutReportsCallerDeadline(t *testing.T) {
	requester := &fakeRequester{respond: func(ctx context.Context, _ *nats.Msg) (*nats.Msg, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	inv := newTestInvoker(t, requester)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := inv.Invoke(ctx, submitTemplate, []string{"p1"}, nil, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if strings.Contains(err.Error(), inv.Timeout().String()) {
		t.Errorf("error %q reports the configured %v, not the caller's shorter deadline", err, inv.Timeout())
	}
}

func TestInvokeNATSTimeout(t *testing.T) {
	inv := newTestInvoker(t, &fakeRequester{respond: replyError(nats.ErrTimeout)})
	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
}

func TestInvokeNoResponders(t *testing.T) {
	inv := newTestInvoker(t, &fakeRequester{respond: replyError(nats.ErrNoResponders)})
	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil)
	if !errors.Is(err, ErrNoResponders) {
		t.Fatalf("error = %v, want ErrNoResponders", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("no responders should also match ErrTransport: %v", err)
	}
}

func TestInvokeTransportFailure(t *testing.T) {
	inv := newTestInvoker(t, &fakeRequester{respond: replyError(nats.ErrConnectionClosed)})
	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, nats.ErrConnectionClosed) {
		t.Errorf("underlying cause lost: %v", err)
	}
}

func TestInvokeCancelledContext(t *testing.T) {
	requester := &fakeRequester{respond: func(ctx context.Context, _ *nats.Msg) (*nats.Msg, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	inv := newTestInvoker(t, requester)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := inv.Invoke(ctx, submitTemplate, []string{"p1"}, nil, nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should match context.Canceled: %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Errorf("cancellation is not a timeout: %v", err)
	}
}

func TestInvokeSerializationFailureSendsNothing(t *testing.T) {
	requester := &fakeRequester{respond: replyWith(`{}`, nil)}
	inv := newTestInvoker(t, requester)

	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, map[string]any{"bad": make(chan int)}, nil)
	if !errors.Is(err, ErrSerialization) {
		t.Fatalf("error = %v, want ErrSerialization", err)
	}
	if len(requester.sent()) != 0 {
		t.Errorf("sent %d requests after serialization failure, want 0", len(requester.sent()))
	}
}

func TestInvokeProtocolError(t *testing.T) {
	inv := newTestInvoker(t, &fakeRequester{respond: replyWith(`{"status": 42}`, nil)})
	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, &submitResponse{})
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
}

func TestInvokeEmptyReplyBody(t *testing.T) {
	inv := newTestInvoker(t, &fakeRequester{respond: replyWith("", nil)})
	response := submitResponse{}
	if err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, &response); err != nil {
		t.Fatalf("Invoke with empty reply: %v", err)
	}
	if response.Status != "" {
		t.Errorf("Status = %q, want zero value", response.Status)
	}
}

func TestInvokeNilResponseSkipsDecoding(t *testing.T) {
	inv := newTestInvoker(t, &fakeRequester{respond: replyWith("not json at all", nil)})
	if err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil); err != nil {
		t.Fatalf("Invoke with nil response: %v", err)
	}
}

func TestInvokeArityMismatchSendsNothing(t *testing.T) {
	requester := &fakeRequester{respond: replyWith(`{}`, nil)}
	inv := newTestInvoker(t, requester)

	err := inv.Invoke(context.Background(), submitTemplate, nil, nil, nil)
	if !errors.Is(err, subject.ErrArity) {
		t.Fatalf("error = %v, want subject.ErrArity", err)
	}
	if len(requester.sent()) != 0 {
		t.Errorf("sent %d requests, want 0", len(requester.sent()))
	}
	if got := Outcome(err); got != "invalid_subject" {
		t.Errorf("Outcome = %q, want invalid_subject", got)
	}
}

func TestInvokeCBORCodec(t *testing.T) {
	reply, err := codec.CBOR.Marshal(submitResponse{Status: "queued"})
	if err != nil {
		t.Fatalf("encoding reply: %v", err)
	}
	requester := &fakeRequester{respond: replyWith(string(reply), nil)}
	inv := newTestInvoker(t, requester, WithCodec(codec.CBOR))

	var response submitResponse
	if err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, submitRequest{EntityID: "e"}, &response); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if response.Status != "queued" {
		t.Errorf("Status = %q, want queued", response.Status)
	}

	var decoded submitRequest
	if err := codec.CBOR.Unmarshal(requester.sent()[0].Data, &decoded); err != nil {
		t.Fatalf("request was not CBOR: %v", err)
	}
	if decoded.EntityID != "e" {
		t.Errorf("EntityID = %q, want e", decoded.EntityID)
	}
}

func TestInvokeRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	header := nats.Header{}
	header.Set(micro.ErrorCodeHeader, "500")
	calls := 0
	requester := &fakeRequester{respond: func(context.Context, *nats.Msg) (*nats.Msg, error) {
		calls++
		if calls == 1 {
			return &nats.Msg{Data: []byte(`{}`)}, nil
		}
		return &nats.Msg{Header: header}, nil
	}}
	inv := newTestInvoker(t, requester, WithMetrics(metrics))

	_ = inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil)
	_ = inv.Invoke(context.Background(), submitTemplate, []string{"p2"}, nil, nil)

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("svc.kyb.*.submit", "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("svc.kyb.*.submit", "service_error")); got != 1 {
		t.Errorf("service_error count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(metrics.duration); got != 1 {
		t.Errorf("duration series = %d, want 1 (template label, not resolved subject)", got)
	}

	if _, err := NewMetrics(registry); err == nil {
		t.Error("registering metrics twice should fail")
	}
}

func TestInvokeLimiterWaitsWithinDeadline(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	requester := &fakeRequester{respond: replyWith(`{}`, nil)}
	inv := newTestInvoker(t, requester, WithLimiter(limiter), WithTimeout(20*time.Millisecond))

	if err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil); err != nil {
		t.Fatalf("first call: %v", err)
	}
	start := time.Now()
	err := inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("second call error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Errorf("limiter refusal should not be classified as transport: %v", err)
	}
	if got := Outcome(err); got != "timeout" {
		t.Errorf("Outcome = %q, want timeout", got)
	}
	if time.Since(start) > time.Second {
		t.Errorf("limiter refusal took %v, want an immediate failure", time.Since(start))
	}
	if len(requester.sent()) != 1 {
		t.Errorf("sent %d requests, want 1", len(requester.sent()))
	}
}

func TestInvokeLimiterCancelledContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow()
	requester := &fakeRequester{respond: replyWith(`{}`, nil)}
	inv := newTestInvoker(t, requester, WithLimiter(limiter))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := inv.Invoke(ctx, submitTemplate, []string{"p1"}, nil, nil)
	if !errors.Is(err, ErrTransport) || !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want ErrTransport matching context.Canceled", err)
	}
	if len(requester.sent()) != 0 {
		t.Errorf("sent %d requests, want 0", len(requester.sent()))
	}
}

func TestInvokeLogsAtDebug(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inv := newTestInvoker(t, &fakeRequester{respond: replyError(nats.ErrNoResponders)}, WithLogger(logger))

	_ = inv.Invoke(context.Background(), submitTemplate, []string{"p1"}, nil, nil)

	output := buffer.String()
	if !strings.Contains(output, "svc.kyb.p1.submit") || !strings.Contains(output, "no_responders") {
		t.Errorf("log output missing subject or outcome:\n%s", output)
	}
	if strings.Contains(output, "secret-token") {
		t.Errorf("log output leaked the token:\n%s", output)
	}
}

func TestEndpointCall(t *testing.T) {
	endpoint := NewEndpoint[submitRequest, submitResponse]("svc.kyb.*.submit")
	if got := endpoint.Template().String(); got != "svc.kyb.*.submit" {
		t.Errorf("Template() = %q", got)
	}

	inv := newTestInvoker(t, &fakeRequester{respond: replyWith(`{"status":"ok"}`, nil)})
	response, err := endpoint.Call(context.Background(), inv, []string{"p1"}, submitRequest{EntityID: "e"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if response == nil || response.Status != "ok" {
		t.Errorf("response = %+v, want status ok", response)
	}

	failing := newTestInvoker(t, &fakeRequester{respond: replyError(nats.ErrNoResponders)})
	response, err = endpoint.Call(context.Background(), failing, []string{"p1"}, submitRequest{})
	if err == nil || response != nil {
		t.Errorf("Call on failure = (%+v, %v), want (nil, error)", response, err)
	}
}

func TestNewEndpointPanicsOnMalformedTemplate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewEndpoint with malformed template did not panic")
		}
	}()
	NewEndpoint[struct{}, struct{}]("svc..bad")
}
