// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"context"
	"errors"
	"fmt"
)

// ErrProvision matches every *ProvisionError.
var ErrProvision = errors.New("dropbox: bucket provisioning failed")

// State is the terminal state of a provisioning attempt.
type State int

const (
	// Failed means the bucket could not be created and the recheck did
	// not find it.
	Failed State = iota
	// Exists means the bucket was present at the first check.
	Exists
	// Created means this caller created the bucket.
	Created
	// CreatedConcurrently means creation failed but the recheck found
	// the bucket, typically because another client created it first.
	CreatedConcurrently
)

func (s State) String() string {
	switch s {
	case Exists:
		return "exists"
	case Created:
		return "created"
	case CreatedConcurrently:
		return "created_concurrently"
	default:
		return "failed"
	}
}

// Outcome is the result of Provision. CreateErr is set when the create
// step ran and failed; RecheckErr when the recheck also failed.
type Outcome struct {
	State      State
	CreateErr  error
	RecheckErr error
}

// Ready reports whether the bucket exists after provisioning.
func (o Outcome) Ready() bool { return o.State != Failed }

// Provision makes sure the bucket described by spec exists:
//
//	CHECK   present            -> Exists
//	CREATE  ok                 -> Created
//	RECHECK present            -> CreatedConcurrently
//	RECHECK absent             -> Failed
//
// Any error from the first check is treated as absence. The recheck
// runs at most once, immediately, with no backoff.
func Provision(ctx context.Context, api BucketAPI, spec BucketSpec) Outcome {
	if _, err := api.BucketStatus(ctx, spec.Name); err == nil {
		return Outcome{State: Exists}
	}

	createErr := api.CreateBucket(ctx, spec)
	if createErr == nil {
		return Outcome{State: Created}
	}

	if _, err := api.BucketStatus(ctx, spec.Name); err != nil {
		return Outcome{State: Failed, CreateErr: createErr, RecheckErr: err}
	}
	return Outcome{State: CreatedConcurrently, CreateErr: createErr}
}

// ProvisionError reports a bucket that could neither be created nor
// found.
type ProvisionError struct {
	Bucket     string
	CreateErr  error
	RecheckErr error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provisioning bucket %q: create: %v; recheck: %v", e.Bucket, e.CreateErr, e.RecheckErr)
}

func (e *ProvisionError) Unwrap() []error {
	errs := []error{ErrProvision}
	if e.CreateErr != nil {
		errs = append(errs, e.CreateErr)
	}
	if e.RecheckErr != nil {
		errs = append(errs, e.RecheckErr)
	}
	return errs
}

// EnsureBucket provisions the bucket and binds a handle to it. Binding
// adds no existence logic of its own: a bind failure after a successful
// provision is returned as is.
func EnsureBucket(ctx context.Context, api BucketAPI, spec BucketSpec) (Bucket, Outcome, error) {
	outcome := Provision(ctx, api, spec)
	if !outcome.Ready() {
		return nil, outcome, &ProvisionError{
			Bucket:     spec.Name,
			CreateErr:  outcome.CreateErr,
			RecheckErr: outcome.RecheckErr,
		}
	}

	bucket, err := api.Bind(ctx, spec.Name)
	if err != nil {
		return nil, outcome, fmt.Errorf("binding bucket %q: %w", spec.Name, err)
	}
	return bucket, outcome, nil
}
