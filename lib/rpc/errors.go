// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
)

// DefaultErrorCode is the code reported when a reply carries an error
// code header that is not an integer.
const DefaultErrorCode = 400

var (
	// ErrMissingToken is returned by NewInvoker for an absent or blank
	// bearer token.
	ErrMissingToken = errors.New("rpc: auth token is required")

	// ErrSerialization marks a request that could not be encoded.
	ErrSerialization = errors.New("rpc: request serialization failed")

	// ErrTimeout marks a call that received no reply before its deadline.
	ErrTimeout = errors.New("rpc: timed out waiting for reply")

	// ErrTransport marks a failure of the bus itself.
	ErrTransport = errors.New("rpc: transport failure")

	// ErrNoResponders marks a request that no service was subscribed to
	// receive. Errors carrying it also match ErrTransport.
	ErrNoResponders = errors.New("rpc: no responders")

	// ErrProtocol marks a reply whose body did not decode into the
	// expected response shape.
	ErrProtocol = errors.New("rpc: malformed reply")
)

// ServiceError is returned when the backend signals failure through the
// service error headers. Callers extract it with errors.As:
//
//	var serviceErr *rpc.ServiceError
//	if errors.As(err, &serviceErr) && serviceErr.Code == 404 { ... }
type ServiceError struct {
	// Subject is the resolved subject the request was sent to.
	Subject string
	// Code is the numeric error code. DefaultErrorCode when the header
	// was not an integer.
	Code int
	// Message is the human-readable description. Falls back to the raw
	// code header when the backend sent no description.
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %d on %q: %s", e.Code, e.Subject, e.Message)
}

// DecodeServiceError inspects reply headers for the service error
// protocol. It returns nil when no error code header is present, in
// which case the body is the success payload.
func DecodeServiceError(header nats.Header) *ServiceError {
	if header == nil {
		return nil
	}
	codeText := header.Get(micro.ErrorCodeHeader)
	if codeText == "" {
		return nil
	}

	code, err := strconv.Atoi(strings.TrimSpace(codeText))
	if err != nil {
		code = DefaultErrorCode
	}
	message := header.Get(micro.ErrorHeader)
	if message == "" {
		message = codeText
	}
	return &ServiceError{Code: code, Message: message}
}

// IsServiceError reports whether err is a *ServiceError with the given
// code.
func IsServiceError(err error, code int) bool {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code == code
	}
	return false
}

// ServiceErrorCode returns the code of a *ServiceError in err's chain.
func ServiceErrorCode(err error) (int, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code, true
	}
	return 0, false
}
