// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"context"
	"fmt"

	"github.com/sava-africa/vertex-go/lib/dropbox"
)

// KYC document types. Their keys are what UploadKYCDocuments expects.
const (
	KYCIDFront          = "kyc_id_front"
	KYCIDBack           = "kyc_id_back"
	KYCProofOfResidence = "kyc_proof_of_residence"
)

// NewUploadKYCDocumentsRequest builds the KYC submission for a
// completed upload. The front of the identity document is submitted as
// the id document. A document missing from the upload is submitted as
// an empty key, but at least one of the two must be present.
func NewUploadKYCDocumentsRequest(userID string, result *dropbox.Result) (UploadKYCDocumentsRequest, error) {
	if err := checkResult(result, dropbox.KYC, userID); err != nil {
		return UploadKYCDocumentsRequest{}, err
	}
	front, hasFront := result.Key(KYCIDFront)
	proof, hasProof := result.Key(KYCProofOfResidence)
	if !hasFront && !hasProof {
		return UploadKYCDocumentsRequest{}, fmt.Errorf("kyc upload for %s has neither a %s nor a %s document",
			userID, KYCIDFront, KYCProofOfResidence)
	}
	return UploadKYCDocumentsRequest{UserID: userID, IDDocument: front, ProofOfResidence: proof}, nil
}

// NewSubmitDocumentsRequest builds the KYB submission for a completed
// upload: business keys in upload order, and each director's keys.
func NewSubmitDocumentsRequest(entityID string, result *dropbox.Result) (SubmitDocumentsRequest, error) {
	if err := checkResult(result, dropbox.KYB, entityID); err != nil {
		return SubmitDocumentsRequest{}, err
	}
	return SubmitDocumentsRequest{
		EntityID:  entityID,
		Documents: result.Keys(),
		Directors: result.SubOwnerKeys(),
	}, nil
}

func checkResult(result *dropbox.Result, kind dropbox.Kind, owner string) error {
	if result == nil {
		return fmt.Errorf("no %s upload result", kind)
	}
	if result.Kind != kind {
		return fmt.Errorf("upload result is %s, want %s", result.Kind, kind)
	}
	if result.OwnerID != owner {
		return fmt.Errorf("upload result belongs to %q, not %q", result.OwnerID, owner)
	}
	return nil
}

// Upload stores a batch of documents in the owner's dropbox.
func (c *Client) Upload(ctx context.Context, request dropbox.Request) (*dropbox.Result, error) {
	if c.uploader == nil {
		return nil, ErrDropboxUnavailable
	}
	return c.uploader.Upload(ctx, request)
}

// UploadKYC stores a user's identity documents. Use the KYC* document
// types so the result can be submitted with SubmitKYC.
func (c *Client) UploadKYC(ctx context.Context, userID string, documents ...dropbox.Document) (*dropbox.Result, error) {
	return c.Upload(ctx, dropbox.Request{Kind: dropbox.KYC, OwnerID: userID, Documents: documents})
}

// UploadKYB stores a business entity's documents and its directors'
// documents.
func (c *Client) UploadKYB(ctx context.Context, entityID string, business []dropbox.Document, directors []dropbox.SubOwner) (*dropbox.Result, error) {
	return c.Upload(ctx, dropbox.Request{
		Kind:      dropbox.KYB,
		OwnerID:   entityID,
		Documents: business,
		SubOwners: directors,
	})
}

// EnsureDropbox provisions the owner's dropbox without uploading.
func (c *Client) EnsureDropbox(ctx context.Context, kind dropbox.Kind, ownerID string) (dropbox.Outcome, error) {
	if c.buckets == nil {
		return dropbox.Outcome{}, ErrDropboxUnavailable
	}
	spec, err := kind.BucketSpec(ownerID)
	if err != nil {
		return dropbox.Outcome{}, err
	}
	_, outcome, err := dropbox.EnsureBucket(ctx, c.buckets, spec)
	return outcome, err
}

// SubmitKYC submits an upload result for KYC review.
func (c *Client) SubmitKYC(ctx context.Context, result *dropbox.Result) (*UploadKYCDocumentsResponse, error) {
	if result == nil {
		return nil, fmt.Errorf("no kyc upload result")
	}
	request, err := NewUploadKYCDocumentsRequest(result.OwnerID, result)
	if err != nil {
		return nil, err
	}
	return c.users.UploadKYCDocuments(ctx, request)
}

// SubmitKYB submits an upload result for KYB review.
func (c *Client) SubmitKYB(ctx context.Context, result *dropbox.Result) (*SubmitDocumentsResponse, error) {
	if result == nil {
		return nil, fmt.Errorf("no kyb upload result")
	}
	request, err := NewSubmitDocumentsRequest(result.OwnerID, result)
	if err != nil {
		return nil, err
	}
	return c.kyb.Submit(ctx, request)
}
