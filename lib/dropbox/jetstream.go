// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultJetStreamTimeout bounds each bucket management request.
const DefaultJetStreamTimeout = 10 * time.Second

// JetStreamBuckets implements BucketAPI over a JetStream object store.
type JetStreamBuckets struct {
	js      jetstream.JetStream
	timeout time.Duration
}

// NewJetStreamBuckets returns a BucketAPI backed by js. Status, create
// and bind requests are each bounded by timeout (DefaultJetStreamTimeout
// if non-positive). Object puts are bounded only by the caller's
// context, since a large document streams as many chunk publishes.
func NewJetStreamBuckets(js jetstream.JetStream, timeout time.Duration) *JetStreamBuckets {
	if timeout <= 0 {
		timeout = DefaultJetStreamTimeout
	}
	return &JetStreamBuckets{js: js, timeout: timeout}
}

func (b *JetStreamBuckets) BucketStatus(ctx context.Context, name string) (BucketInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	store, err := b.js.ObjectStore(ctx, name)
	if err != nil {
		return BucketInfo{}, fmt.Errorf("looking up object store %q: %w", name, err)
	}
	status, err := store.Status(ctx)
	if err != nil {
		return BucketInfo{}, fmt.Errorf("reading status of object store %q: %w", name, err)
	}
	return BucketInfo{
		Name:        status.Bucket(),
		Description: status.Description(),
		TTL:         status.TTL(),
		Storage:     status.Storage(),
		Replicas:    status.Replicas(),
		Size:        status.Size(),
		Sealed:      status.Sealed(),
	}, nil
}

func (b *JetStreamBuckets) CreateBucket(ctx context.Context, spec BucketSpec) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	_, err := b.js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      spec.Name,
		Description: spec.Description,
		TTL:         spec.Policy.TTL,
		MaxBytes:    spec.Policy.MaxBytes,
		Storage:     spec.Policy.Storage,
		Replicas:    spec.Policy.Replicas,
	})
	if err != nil {
		return fmt.Errorf("creating object store %q: %w", spec.Name, err)
	}
	return nil
}

func (b *JetStreamBuckets) Bind(ctx context.Context, name string) (Bucket, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	store, err := b.js.ObjectStore(ctx, name)
	if err != nil {
		return nil, err
	}
	return &jetStreamBucket{name: name, store: store}, nil
}

type jetStreamBucket struct {
	name  string
	store jetstream.ObjectStore
}

func (b *jetStreamBucket) Name() string { return b.name }

func (b *jetStreamBucket) Put(ctx context.Context, meta ObjectMeta, content io.Reader) (ObjectInfo, error) {
	info, err := b.store.Put(ctx, jetstream.ObjectMeta{Name: meta.Name, Headers: meta.Headers}, content)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{Name: info.Name, Size: info.Size, Digest: info.Digest}, nil
}
