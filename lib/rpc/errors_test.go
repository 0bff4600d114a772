// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
)

func TestDecodeServiceError(t *testing.T) {
	tests := []struct {
		name        string
		header      nats.Header
		wantNil     bool
		wantCode    int
		wantMessage string
	}{
		{name: "nil header", header: nil, wantNil: true},
		{name: "no error headers", header: nats.Header{"Content-Type": {"application/json"}}, wantNil: true},
		{name: "empty code", header: nats.Header{"Nats-Service-Error-Code": {""}}, wantNil: true},
		{
			name:        "code and message",
			header:      nats.Header{"Nats-Service-Error-Code": {"409"}, "Nats-Service-Error": {"duplicate account"}},
			wantCode:    409,
			wantMessage: "duplicate account",
		},
		{
			name:        "unparsable code defaults to 400",
			header:      nats.Header{"Nats-Service-Error-Code": {"E_INVALID"}, "Nats-Service-Error": {"bad input"}},
			wantCode:    400,
			wantMessage: "bad input",
		},
		{
			name:        "missing message falls back to code text",
			header:      nats.Header{"Nats-Service-Error-Code": {"503"}},
			wantCode:    503,
			wantMessage: "503",
		},
		{
			name:        "padded code",
			header:      nats.Header{"Nats-Service-Error-Code": {" 422 "}, "Nats-Service-Error": {"invalid"}},
			wantCode:    422,
			wantMessage: "invalid",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := DecodeServiceError(test.header)
			if test.wantNil {
				if got != nil {
					t.Fatalf("DecodeServiceError = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("DecodeServiceError = nil, want error")
			}
			if got.Code != test.wantCode {
				t.Errorf("Code = %d, want %d", got.Code, test.wantCode)
			}
			if got.Message != test.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, test.wantMessage)
			}
		})
	}
}

func TestServiceErrorThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submitting kyb: %w", &ServiceError{Subject: "svc.kyb.p.submit", Code: 403, Message: "forbidden"})
	if !IsServiceError(wrapped, 403) {
		t.Error("IsServiceError should see through wrapping")
	}
	if _, ok := ServiceErrorCode(errors.New("plain")); ok {
		t.Error("ServiceErrorCode on a plain error should report false")
	}
	want := `submitting kyb: service error 403 on "svc.kyb.p.submit": forbidden`
	if got := wrapped.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&ServiceError{Code: 500}, "service_error"},
		{fmt.Errorf("%w: x", ErrTimeout), "timeout"},
		{fmt.Errorf("%w: %w", ErrTransport, ErrNoResponders), "no_responders"},
		{fmt.Errorf("%w: x", ErrTransport), "transport"},
		{fmt.Errorf("%w: x", ErrSerialization), "serialization"},
		{fmt.Errorf("%w: x", ErrProtocol), "protocol"},
		{errors.New("other"), "error"},
	}
	for _, test := range tests {
		if got := Outcome(test.err); got != test.want {
			t.Errorf("Outcome(%v) = %q, want %q", test.err, got, test.want)
		}
	}
}
