// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

func testSpec(t *testing.T, kind Kind, owner string) BucketSpec {
	t.Helper()
	spec, err := kind.BucketSpec(owner)
	if err != nil {
		t.Fatalf("BucketSpec(%q): %v", owner, err)
	}
	return spec
}

func TestBucketNaming(t *testing.T) {
	if got := KYC.BucketName("user-1"); got != "kyc_dropbox_user-1" {
		t.Errorf("KYC.BucketName = %q", got)
	}
	if got := KYB.BucketName("ent_9"); got != "kyb_dropbox_ent_9" {
		t.Errorf("KYB.BucketName = %q", got)
	}
	if got := KYC.Description("user-1"); got != "KYC document dropbox for user user-1" {
		t.Errorf("KYC.Description = %q", got)
	}
	if got := KYB.Description("ent_9"); got != "KYB document dropbox for entity ent_9" {
		t.Errorf("KYB.Description = %q", got)
	}
}

func TestBucketSpecRejectsBadOwners(t *testing.T) {
	for _, owner := range []string{"", "user.1", "user 1", "user/1", "*", ">"} {
		if _, err := KYC.BucketSpec(owner); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("BucketSpec(%q) error = %v, want ErrInvalidRequest", owner, err)
		}
	}
	if _, err := Kind(0).BucketSpec("user"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("BucketSpec on zero kind error = %v, want ErrInvalidRequest", err)
	}
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{"kyc": KYC, "KYB": KYB, " kyb ": KYB} {
		got, err := ParseKind(input)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = (%v, %v), want %v", input, got, err, want)
		}
	}
	if _, err := ParseKind("aml"); err == nil {
		t.Error("ParseKind(aml) should fail")
	}
}

func TestDefaultStoragePolicy(t *testing.T) {
	policy := DefaultStoragePolicy()
	if policy.MaxBytes != 104857600 {
		t.Errorf("MaxBytes = %d, want 104857600", policy.MaxBytes)
	}
	if policy.Storage != jetstream.FileStorage {
		t.Errorf("Storage = %v, want FileStorage", policy.Storage)
	}
	if policy.Replicas != 1 {
		t.Errorf("Replicas = %d, want 1", policy.Replicas)
	}
	if policy.TTL != 90*24*time.Hour {
		t.Errorf("TTL = %v, want 90 days", policy.TTL)
	}

	policy.TTL = time.Minute
	if DefaultStoragePolicy().TTL != 90*24*time.Hour {
		t.Error("DefaultStoragePolicy returned shared state")
	}
}

func TestProvisionExisting(t *testing.T) {
	api := newFakeAPI()
	spec := testSpec(t, KYC, "user-1")
	api.buckets[spec.Name] = spec

	outcome := Provision(context.Background(), api, spec)
	if outcome.State != Exists {
		t.Errorf("State = %v, want Exists", outcome.State)
	}
	if api.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", api.createCalls)
	}
}

func TestProvisionCreates(t *testing.T) {
	api := newFakeAPI()
	spec := testSpec(t, KYB, "ent-1")

	outcome := Provision(context.Background(), api, spec)
	if outcome.State != Created {
		t.Fatalf("State = %v, want Created", outcome.State)
	}
	created := api.buckets[spec.Name]
	if created.Description != "KYB document dropbox for entity ent-1" {
		t.Errorf("Description = %q", created.Description)
	}
	if created.Policy != DefaultStoragePolicy() {
		t.Errorf("Policy = %+v, want default", created.Policy)
	}
}

func TestProvisionCheckErrorTreatedAsAbsent(t *testing.T) {
	api := newFakeAPI()
	api.statusErr = func(_ string, call int) error {
		if call == 1 {
			return errors.New("jetstream not enabled for account")
		}
		return nil
	}
	spec := testSpec(t, KYC, "user-2")

	outcome := Provision(context.Background(), api, spec)
	if outcome.State != Created {
		t.Errorf("State = %v, want Created", outcome.State)
	}
}

func TestProvisionCreatedConcurrently(t *testing.T) {
	api := newFakeAPI()
	spec := testSpec(t, KYC, "user-3")
	// Another client creates the bucket between our check and create.
	api.beforeCreate = func() {
		api.mu.Lock()
		api.buckets[spec.Name] = spec
		api.objects[spec.Name] = make(map[string]storedObject)
		api.mu.Unlock()
	}

	outcome := Provision(context.Background(), api, spec)
	if outcome.State != CreatedConcurrently {
		t.Fatalf("State = %v, want CreatedConcurrently", outcome.State)
	}
	if outcome.CreateErr == nil {
		t.Error("CreateErr should record the failed create")
	}
	if api.statusCalls != 2 {
		t.Errorf("statusCalls = %d, want 2 (check + one recheck)", api.statusCalls)
	}
}

func TestEnsureBucketFailed(t *testing.T) {
	api := newFakeAPI()
	createErr := errors.New("insufficient resources")
	api.createErr = func(BucketSpec) error { return createErr }
	spec := testSpec(t, KYB, "ent-2")

	bucket, outcome, err := EnsureBucket(context.Background(), api, spec)
	if bucket != nil {
		t.Error("bucket should be nil on failure")
	}
	if outcome.State != Failed {
		t.Errorf("State = %v, want Failed", outcome.State)
	}
	if !errors.Is(err, ErrProvision) || !errors.Is(err, createErr) || !errors.Is(err, errNotFound) {
		t.Errorf("error = %v, want ErrProvision wrapping create and recheck causes", err)
	}
	var provisionErr *ProvisionError
	if !errors.As(err, &provisionErr) || provisionErr.Bucket != "kyb_dropbox_ent-2" {
		t.Errorf("error = %#v, want *ProvisionError for kyb_dropbox_ent-2", err)
	}
	if api.statusCalls != 2 || api.createCalls != 1 || api.bindCalls != 0 {
		t.Errorf("calls status=%d create=%d bind=%d, want 2/1/0", api.statusCalls, api.createCalls, api.bindCalls)
	}
}

func TestEnsureBucketBindFailure(t *testing.T) {
	api := newFakeAPI()
	api.bindErr = errors.New("stream info failed")
	spec := testSpec(t, KYC, "user-4")

	_, outcome, err := EnsureBucket(context.Background(), api, spec)
	if outcome.State != Created {
		t.Errorf("State = %v, want Created", outcome.State)
	}
	if err == nil || errors.Is(err, ErrProvision) {
		t.Errorf("error = %v, want a bind error that is not a provision error", err)
	}
}

func TestEnsureBucketConcurrentCallersConverge(t *testing.T) {
	api := newFakeAPI()
	spec := testSpec(t, KYC, "user-race")

	const callers = 16
	start := make(chan struct{})
	var checked sync.WaitGroup
	checked.Add(callers)
	// Every caller passes the initial check before anyone creates.
	api.beforeCreate = func() {
		checked.Done()
		checked.Wait()
	}

	var wait sync.WaitGroup
	outcomes := make([]Outcome, callers)
	buckets := make([]Bucket, callers)
	errs := make([]error, callers)
	for i := range callers {
		wait.Add(1)
		go func() {
			defer wait.Done()
			<-start
			buckets[i], outcomes[i], errs[i] = EnsureBucket(context.Background(), api, spec)
		}()
	}
	close(start)
	wait.Wait()

	counts := make(map[State]int)
	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if buckets[i] == nil || buckets[i].Name() != spec.Name {
			t.Fatalf("caller %d bucket = %v, want handle to %s", i, buckets[i], spec.Name)
		}
		counts[outcomes[i].State]++
	}
	if counts[Created] != 1 {
		t.Errorf("Created outcomes = %d, want exactly 1", counts[Created])
	}
	if counts[CreatedConcurrently] != callers-1 {
		t.Errorf("CreatedConcurrently outcomes = %d, want %d", counts[CreatedConcurrently], callers-1)
	}
	if len(api.buckets) != 1 || api.buckets[spec.Name].Policy != DefaultStoragePolicy() {
		t.Errorf("buckets = %+v, want one bucket with the default policy", api.buckets)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		Exists: "exists", Created: "created", CreatedConcurrently: "created_concurrently", Failed: "failed",
	} {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(state), got, want)
		}
	}
}
