// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/sava-africa/vertex-go/lib/clock"
)

// FilenameHeader is the object header recording the uploaded file's
// original name.
const FilenameHeader = "original_filename"

var (
	// ErrNoDocuments is returned for a request with no documents at all.
	ErrNoDocuments = errors.New("dropbox: at least one document is required")

	// ErrInvalidRequest is returned for a request that fails validation.
	// Nothing is sent to the object store.
	ErrInvalidRequest = errors.New("dropbox: invalid upload request")

	// ErrUpload matches every *UploadError, including those inside a
	// *BatchError.
	ErrUpload = errors.New("dropbox: document upload failed")
)

// FailurePolicy decides how a failed batch is reported. Either way the
// first failed document aborts the rest of the batch.
type FailurePolicy int

const (
	// PolicyDefault resolves to the request kind's default.
	PolicyDefault FailurePolicy = iota
	// AllOrNothing fails the whole batch with a *BatchError.
	AllOrNothing
	// FailFast returns the failed document's *UploadError.
	FailFast
)

// ParseFailurePolicy parses "all_or_nothing" or "fail_fast". The empty
// string selects PolicyDefault.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.TrimSpace(s) {
	case "", "default":
		return PolicyDefault, nil
	case "all_or_nothing":
		return AllOrNothing, nil
	case "fail_fast":
		return FailFast, nil
	default:
		return 0, fmt.Errorf("unknown failure policy %q (expected all_or_nothing or fail_fast)", s)
	}
}

func (p FailurePolicy) String() string {
	switch p {
	case AllOrNothing:
		return "all_or_nothing"
	case FailFast:
		return "fail_fast"
	default:
		return "default"
	}
}

// Request is one batch of documents for a single owner. Documents and
// SubOwners are uploaded in the order given.
type Request struct {
	Kind      Kind
	OwnerID   string
	Documents []Document
	SubOwners []SubOwner
	Policy    FailurePolicy
}

// Uploaded records one stored document.
type Uploaded struct {
	Type     string
	Filename string
	Key      string
	Size     uint64
	Digest   string
}

// SubOwnerResult lists the documents stored for one sub-owner.
type SubOwnerResult struct {
	ID        string
	Documents []Uploaded
}

// Result describes a completed batch.
type Result struct {
	Kind      Kind
	OwnerID   string
	Bucket    string
	Outcome   Outcome
	Documents []Uploaded
	SubOwners []SubOwnerResult
}

// Keys returns the owner-level document keys in upload order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Documents))
	for _, document := range r.Documents {
		keys = append(keys, document.Key)
	}
	return keys
}

// Key returns the key of the owner-level document of the given type.
func (r *Result) Key(docType string) (string, bool) {
	for _, document := range r.Documents {
		if document.Type == docType {
			return document.Key, true
		}
	}
	return "", false
}

// SubOwnerKeys returns the stored keys of every sub-owner, by id.
func (r *Result) SubOwnerKeys() map[string][]string {
	keys := make(map[string][]string, len(r.SubOwners))
	for _, subOwner := range r.SubOwners {
		list := make([]string, 0, len(subOwner.Documents))
		for _, document := range subOwner.Documents {
			list = append(list, document.Key)
		}
		keys[subOwner.ID] = list
	}
	return keys
}

// UploadError reports one document that could not be stored.
type UploadError struct {
	Bucket   string
	Key      string
	Type     string
	SubOwner string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s document %q to bucket %q: %v", e.Type, e.Key, e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() []error { return []error{ErrUpload, e.Err} }

// BatchError reports an aborted AllOrNothing batch. Attempted counts
// the documents tried before the abort, out of Total in the batch.
// Documents that succeeded remain stored.
type BatchError struct {
	Bucket    string
	Attempted int
	Total     int
	Failures  []*UploadError
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "upload to bucket %q aborted after %d of %d documents", e.Bucket, e.Attempted, e.Total)
	for _, failure := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", failure.Key, failure.Err)
	}
	return b.String()
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		errs[i] = failure
	}
	return errs
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithKeySuffix selects the key suffix strategy.
func WithKeySuffix(suffix KeySuffix) Option {
	return func(u *Uploader) { u.suffix = suffix }
}

// WithBandwidthLimit caps the combined upload throughput of the
// Uploader at kbps kibibytes per second. Zero or negative disables the
// limit.
func WithBandwidthLimit(kbps int) Option {
	return func(u *Uploader) {
		if kbps <= 0 {
			u.limiter = nil
			return
		}
		bytesPerSecond := kbps * 1024
		u.limiter = rate.NewLimiter(rate.Limit(bytesPerSecond), bytesPerSecond)
	}
}

// WithMetrics records provisioning and upload counters into metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(u *Uploader) { u.metrics = metrics }
}

// WithLogger sets the logger for bucket and document progress.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithClock sets the clock that timestamps batches.
func WithClock(c clock.Clock) Option {
	return func(u *Uploader) {
		if c != nil {
			u.clock = c
		}
	}
}

// Uploader stores document batches through a BucketAPI. It is safe for
// concurrent use; concurrent batches for the same owner share one
// bucket.
type Uploader struct {
	api     BucketAPI
	clock   clock.Clock
	suffix  KeySuffix
	limiter *rate.Limiter
	metrics *Metrics
	logger  *slog.Logger
	random  func() uuid.UUID
}

// NewUploader creates an Uploader over api.
func NewUploader(api BucketAPI, options ...Option) *Uploader {
	u := &Uploader{
		api:    api,
		clock:  clock.Real(),
		suffix: SuffixEpochSeconds,
		logger: slog.New(slog.DiscardHandler),
		random: uuid.New,
	}
	for _, option := range options {
		option(u)
	}
	return u
}

// plannedDocument is a validated document with its key context.
type plannedDocument struct {
	document Document
	subOwner string
	context  string
}

// Upload provisions the owner's bucket and stores every document in
// request. On success the result lists the stored keys in request
// order. On failure the result is nil and the error is ErrNoDocuments,
// ErrInvalidRequest, a *ProvisionError, a *BatchError (AllOrNothing) or
// an *UploadError (FailFast). No document after a failed one is put.
func (u *Uploader) Upload(ctx context.Context, request Request) (*Result, error) {
	plan, err := validate(request)
	if err != nil {
		return nil, err
	}
	spec, err := request.Kind.BucketSpec(request.OwnerID)
	if err != nil {
		return nil, err
	}
	policy := request.Policy
	if policy == PolicyDefault {
		policy = request.Kind.DefaultFailurePolicy()
	}

	u.logger.Info("uploading documents",
		"kind", request.Kind.String(),
		"owner", request.OwnerID,
		"documents", len(plan),
	)

	bucket, outcome, err := EnsureBucket(ctx, u.api, spec)
	if u.metrics != nil {
		u.metrics.provisioned(request.Kind, outcome.State)
	}
	if err != nil {
		u.logger.Error("bucket setup failed", "bucket", spec.Name, "error", err)
		return nil, err
	}
	u.logger.Info("bucket ready", "bucket", bucket.Name(), "state", outcome.State.String())

	keys := keyFormatter{suffix: u.suffix, epoch: u.clock.Now().Unix(), random: u.random}
	result := &Result{
		Kind:    request.Kind,
		OwnerID: request.OwnerID,
		Bucket:  spec.Name,
		Outcome: outcome,
	}
	subOwnerIndex := make(map[string]int, len(request.SubOwners))
	for _, subOwner := range request.SubOwners {
		subOwnerIndex[subOwner.ID] = len(result.SubOwners)
		result.SubOwners = append(result.SubOwners, SubOwnerResult{ID: subOwner.ID})
	}

	for i, planned := range plan {
		key := keys.key(planned.document.Type, planned.context)
		info, err := u.put(ctx, bucket, key, planned.document)
		if err != nil {
			uploadErr := &UploadError{
				Bucket:   spec.Name,
				Key:      key,
				Type:     planned.document.Type,
				SubOwner: planned.subOwner,
				Err:      err,
			}
			u.logger.Error("document upload failed", "bucket", spec.Name, "key", key, "error", err)
			if u.metrics != nil {
				u.metrics.uploadFailed(request.Kind)
			}
			if policy == FailFast {
				return nil, uploadErr
			}
			return nil, &BatchError{
				Bucket:    spec.Name,
				Attempted: i + 1,
				Total:     len(plan),
				Failures:  []*UploadError{uploadErr},
			}
		}
		if u.metrics != nil {
			u.metrics.uploaded(request.Kind, info.Size)
		}

		uploaded := Uploaded{
			Type:     planned.document.Type,
			Filename: planned.document.Filename,
			Key:      key,
			Size:     info.Size,
			Digest:   info.Digest,
		}
		if planned.subOwner == "" {
			result.Documents = append(result.Documents, uploaded)
		} else {
			index := subOwnerIndex[planned.subOwner]
			result.SubOwners[index].Documents = append(result.SubOwners[index].Documents, uploaded)
		}
	}

	return result, nil
}

func (u *Uploader) put(ctx context.Context, bucket Bucket, key string, document Document) (ObjectInfo, error) {
	content, err := document.Open()
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("opening %s: %w", document.Filename, err)
	}
	defer content.Close()

	var reader io.Reader = content
	if u.limiter != nil {
		reader = &throttledReader{ctx: ctx, reader: content, limiter: u.limiter}
	}

	u.logger.Info("uploading document", "bucket", bucket.Name(), "key", key, "filename", document.Filename)
	meta := ObjectMeta{
		Name:    key,
		Headers: nats.Header{FilenameHeader: []string{document.Filename}},
	}
	return bucket.Put(ctx, meta, reader)
}

// validate checks request without touching the network and returns the
// documents in upload order: owner documents first, then each
// sub-owner's documents.
func validate(request Request) ([]plannedDocument, error) {
	total := len(request.Documents)
	for _, subOwner := range request.SubOwners {
		total += len(subOwner.Documents)
	}
	if total == 0 {
		return nil, ErrNoDocuments
	}
	if !request.Kind.valid() {
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidRequest, int(request.Kind))
	}
	if err := ValidateID(request.OwnerID); err != nil {
		return nil, fmt.Errorf("%w: owner id: %w", ErrInvalidRequest, err)
	}
	switch request.Policy {
	case PolicyDefault, AllOrNothing, FailFast:
	default:
		return nil, fmt.Errorf("%w: unknown failure policy %d", ErrInvalidRequest, int(request.Policy))
	}

	ownerContext := ""
	if request.Kind == KYC {
		ownerContext = request.OwnerID
	}

	plan := make([]plannedDocument, 0, total)
	baseKeys := make(map[string]string, total)
	addGroup := func(group, subOwner, context string, documents []Document) error {
		types := make(map[string]bool, len(documents))
		for i, document := range documents {
			if err := validateDocument(document); err != nil {
				return fmt.Errorf("%w: %s document %d: %w", ErrInvalidRequest, group, i, err)
			}
			if types[document.Type] {
				return fmt.Errorf("%w: %s has more than one %q document", ErrInvalidRequest, group, document.Type)
			}
			types[document.Type] = true

			base := baseKey(document.Type, context)
			if previous, taken := baseKeys[base]; taken {
				return fmt.Errorf("%w: %s document %q and %s derive the same key %q",
					ErrInvalidRequest, group, document.Type, previous, base)
			}
			baseKeys[base] = fmt.Sprintf("%s document %q", group, document.Type)
			plan = append(plan, plannedDocument{document: document, subOwner: subOwner, context: context})
		}
		return nil
	}

	if err := addGroup("owner", "", ownerContext, request.Documents); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(request.SubOwners))
	for _, subOwner := range request.SubOwners {
		if err := ValidateID(subOwner.ID); err != nil {
			return nil, fmt.Errorf("%w: sub-owner id: %w", ErrInvalidRequest, err)
		}
		if seen[subOwner.ID] {
			return nil, fmt.Errorf("%w: duplicate sub-owner %q", ErrInvalidRequest, subOwner.ID)
		}
		seen[subOwner.ID] = true
		group := "sub-owner " + subOwner.ID
		if err := addGroup(group, subOwner.ID, subOwner.ID, subOwner.Documents); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func validateDocument(document Document) error {
	if strings.TrimSpace(document.Type) == "" {
		return errors.New("type is empty")
	}
	if strings.ContainsAny(document.Type, " \t\r\n") {
		return fmt.Errorf("type %q contains whitespace", document.Type)
	}
	if document.Filename == "" {
		return fmt.Errorf("%s: filename is empty", document.Type)
	}
	if document.Open == nil {
		return fmt.Errorf("%s: no content source", document.Type)
	}
	return nil
}
