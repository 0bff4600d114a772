// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/nats-io/nats.go"
)

var errNotFound = errors.New("bucket not found")

type storedObject struct {
	headers nats.Header
	data    []byte
}

// fakeAPI is an in-memory BucketAPI. Hooks let tests inject failures
// at each step.
type fakeAPI struct {
	mu      sync.Mutex
	buckets map[string]BucketSpec
	objects map[string]map[string]storedObject
	puts    []string

	statusCalls int
	createCalls int
	bindCalls   int

	statusErr func(name string, call int) error
	createErr func(spec BucketSpec) error
	bindErr   error
	putErr    func(key string) error
	// beforeCreate runs without the lock held, after the status check.
	beforeCreate func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		buckets: make(map[string]BucketSpec),
		objects: make(map[string]map[string]storedObject),
	}
}

func (f *fakeAPI) BucketStatus(_ context.Context, name string) (BucketInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		if err := f.statusErr(name, f.statusCalls); err != nil {
			return BucketInfo{}, err
		}
	}
	spec, ok := f.buckets[name]
	if !ok {
		return BucketInfo{}, errNotFound
	}
	return BucketInfo{
		Name:        spec.Name,
		Description: spec.Description,
		TTL:         spec.Policy.TTL,
		Storage:     spec.Policy.Storage,
		Replicas:    spec.Policy.Replicas,
	}, nil
}

func (f *fakeAPI) CreateBucket(_ context.Context, spec BucketSpec) error {
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		if err := f.createErr(spec); err != nil {
			return err
		}
	}
	if _, exists := f.buckets[spec.Name]; exists {
		return fmt.Errorf("bucket %q already exists", spec.Name)
	}
	f.buckets[spec.Name] = spec
	f.objects[spec.Name] = make(map[string]storedObject)
	return nil
}

func (f *fakeAPI) Bind(_ context.Context, name string) (Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindCalls++
	if f.bindErr != nil {
		return nil, f.bindErr
	}
	return &fakeBucket{api: f, name: name}, nil
}

func (f *fakeAPI) object(bucket, key string) (storedObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	object, ok := f.objects[bucket][key]
	return object, ok
}

func (f *fakeAPI) keys(bucket string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects[bucket]))
	for key := range f.objects[bucket] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (f *fakeAPI) putOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.puts...)
}

type fakeBucket struct {
	api  *fakeAPI
	name string
}

func (b *fakeBucket) Name() string { return b.name }

func (b *fakeBucket) Put(ctx context.Context, meta ObjectMeta, content io.Reader) (ObjectInfo, error) {
	b.api.mu.Lock()
	b.api.puts = append(b.api.puts, meta.Name)
	putErr := b.api.putErr
	b.api.mu.Unlock()

	if putErr != nil {
		if err := putErr(meta.Name); err != nil {
			return ObjectInfo{}, err
		}
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	b.api.mu.Lock()
	defer b.api.mu.Unlock()
	objects, ok := b.api.objects[b.name]
	if !ok {
		return ObjectInfo{}, errNotFound
	}
	objects[meta.Name] = storedObject{headers: meta.Headers, data: data}
	return ObjectInfo{Name: meta.Name, Size: uint64(len(data)), Digest: fmt.Sprintf("len=%d", len(data))}, nil
}
