// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Kind selects the verification flow a dropbox belongs to.
type Kind int

const (
	// KYC is personal identity verification. Owners are users.
	KYC Kind = iota + 1
	// KYB is business verification. Owners are business entities and
	// sub-owners are directors.
	KYB
)

// ParseKind parses "kyc" or "kyb", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kyc":
		return KYC, nil
	case "kyb":
		return KYB, nil
	default:
		return 0, fmt.Errorf("unknown dropbox kind %q (expected kyc or kyb)", s)
	}
}

func (k Kind) String() string {
	switch k {
	case KYC:
		return "kyc"
	case KYB:
		return "kyb"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) valid() bool { return k == KYC || k == KYB }

// BucketName returns the dropbox bucket name for owner.
func (k Kind) BucketName(owner string) string {
	return k.String() + "_dropbox_" + owner
}

// Description returns the human-readable bucket description for owner.
func (k Kind) Description(owner string) string {
	switch k {
	case KYB:
		return "KYB document dropbox for entity " + owner
	default:
		return "KYC document dropbox for user " + owner
	}
}

// DefaultFailurePolicy is the failure policy a batch of this kind uses
// when the request does not choose one.
func (k Kind) DefaultFailurePolicy() FailurePolicy {
	if k == KYB {
		return FailFast
	}
	return AllOrNothing
}

// BucketSpec returns the full bucket specification for owner, using
// DefaultStoragePolicy.
func (k Kind) BucketSpec(owner string) (BucketSpec, error) {
	if !k.valid() {
		return BucketSpec{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidRequest, int(k))
	}
	if err := ValidateID(owner); err != nil {
		return BucketSpec{}, fmt.Errorf("%w: owner id: %w", ErrInvalidRequest, err)
	}
	return BucketSpec{
		Name:        k.BucketName(owner),
		Description: k.Description(owner),
		Policy:      DefaultStoragePolicy(),
	}, nil
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateID checks that id can appear in a bucket name or object key:
// non-empty and restricted to letters, digits, '-' and '_'.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("id %q contains characters outside [A-Za-z0-9_-]", id)
	}
	return nil
}

// StoragePolicy is the retention and placement configuration applied
// when a bucket is created.
type StoragePolicy struct {
	MaxBytes int64
	Storage  jetstream.StorageType
	Replicas int
	TTL      time.Duration
}

// DefaultStoragePolicy returns the policy every dropbox is created
// with: 100 MiB, file storage, one replica, 90 day TTL.
func DefaultStoragePolicy() StoragePolicy {
	return StoragePolicy{
		MaxBytes: 100 * 1024 * 1024,
		Storage:  jetstream.FileStorage,
		Replicas: 1,
		TTL:      90 * 24 * time.Hour,
	}
}

// BucketSpec identifies a bucket and the policy to create it with.
type BucketSpec struct {
	Name        string
	Description string
	Policy      StoragePolicy
}

// BucketInfo is the status of an existing bucket.
type BucketInfo struct {
	Name        string
	Description string
	TTL         time.Duration
	Storage     jetstream.StorageType
	Replicas    int
	Size        uint64
	Sealed      bool
}

// ObjectMeta names an object and carries its headers.
type ObjectMeta struct {
	Name    string
	Headers nats.Header
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name   string
	Size   uint64
	Digest string
}

// BucketAPI is the subset of object store management the dropbox
// needs. BucketStatus reports an error for a missing bucket;
// CreateBucket reports an error when the bucket cannot be created,
// including when it already exists.
type BucketAPI interface {
	BucketStatus(ctx context.Context, name string) (BucketInfo, error)
	CreateBucket(ctx context.Context, spec BucketSpec) error
	Bind(ctx context.Context, name string) (Bucket, error)
}

// Bucket is a bound handle to one object store bucket.
type Bucket interface {
	Name() string
	Put(ctx context.Context, meta ObjectMeta, content io.Reader) (ObjectInfo, error)
}
