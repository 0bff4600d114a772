// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"context"

	"github.com/sava-africa/vertex-go/lib/rpc"
)

// Director is a business director as recorded in the KYB case.
type Director struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Approved         bool           `json:"approved"`
	Verified         bool           `json:"verified"`
	Documents        []Document     `json:"documents"`
	VerificationSent bool           `json:"verification_sent"`
	IDType           string         `json:"id_type"`
	Metadata         map[string]any `json:"metadata"`
}

// Document is the review state of one submitted dropbox key.
type Document struct {
	Key             string `json:"key"`
	DocType         string `json:"doc_type"`
	RejectionReason string `json:"rejection_reason"`
	Approved        bool   `json:"approved"`
}

// GetKYBRequest names the entity whose KYB case to fetch.
type GetKYBRequest struct {
	EntityID string `json:"entity_id"`
}

// GetKYBResponse is the state of an entity's KYB case.
type GetKYBResponse struct {
	EntityID        string         `json:"entity_id"`
	Documents       []Document     `json:"documents"`
	Directors       []Director     `json:"directors"`
	Metadata        map[string]any `json:"metadata"`
	State           string         `json:"state"`
	RejectionReason string         `json:"rejection_reason"`
}

// SubmitDocumentsRequest submits business document keys and, per
// director id, that director's document keys.
type SubmitDocumentsRequest struct {
	EntityID  string              `json:"entity_id"`
	Documents []string            `json:"documents"`
	Directors map[string][]string `json:"directors"`
}

// SubmitDocumentsResponse is the empty reply to Submit.
type SubmitDocumentsResponse struct{}

// UpdateKYBRequest sets the metadata of a KYB case.
type UpdateKYBRequest struct {
	EntityID string         `json:"entity_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UpdateKYBResponse is the KYB case after the update.
type UpdateKYBResponse struct {
	EntityID  string         `json:"entity_id"`
	Documents []Document     `json:"documents"`
	Directors []Director     `json:"directors"`
	Metadata  map[string]any `json:"metadata"`
}

// SendDirectorVerificationLinkRequest names the director to email.
type SendDirectorVerificationLinkRequest struct {
	EntityID   string `json:"entity_id"`
	DirectorID string `json:"director_id"`
	Email      string `json:"email,omitempty"`
}

// SendDirectorVerificationLinkResponse is the empty reply to SendVerificationEmail.
type SendDirectorVerificationLinkResponse struct{}

// UpdateDirectorRequest changes one director's details.
type UpdateDirectorRequest struct {
	EntityID   string         `json:"entity_id"`
	DirectorID string         `json:"director_id"`
	FullName   string         `json:"full_name,omitempty"`
	Email      string         `json:"email,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// UpdateDirectorResponse is the empty reply to UpdateDirector.
type UpdateDirectorResponse struct{}

var (
	kybGet                   = rpc.NewEndpoint[GetKYBRequest, GetKYBResponse]("svc.kyb.*.get")
	kybSubmit                = rpc.NewEndpoint[SubmitDocumentsRequest, SubmitDocumentsResponse]("svc.kyb.*.submit")
	kybUpdate                = rpc.NewEndpoint[UpdateKYBRequest, UpdateKYBResponse]("svc.kyb.*.update")
	kybSendVerificationEmail = rpc.NewEndpoint[SendDirectorVerificationLinkRequest, SendDirectorVerificationLinkResponse]("svc.kyb.*.send_verification_email")
	kybUpdateDirector        = rpc.NewEndpoint[UpdateDirectorRequest, UpdateDirectorResponse]("svc.kyb.*.update_director")
)

// KYBService drives business verification: document submission,
// review state and director verification.
type KYBService struct {
	service
}

// NewKYBService returns a KYBService whose subjects are filled with params.
func NewKYBService(invoker *rpc.Invoker, params []string) (*KYBService, error) {
	s, err := newService("kyb", invoker, params,
		kybGet, kybSubmit, kybUpdate, kybSendVerificationEmail, kybUpdateDirector)
	if err != nil {
		return nil, err
	}
	return &KYBService{s}, nil
}

// Get returns an entity's KYB case.
func (s *KYBService) Get(ctx context.Context, request GetKYBRequest) (*GetKYBResponse, error) {
	return kybGet.Call(ctx, s.invoker, s.params, request)
}

// Submit hands dropbox keys to the backend for review. Build the
// request from an upload result with NewSubmitDocumentsRequest.
func (s *KYBService) Submit(ctx context.Context, request SubmitDocumentsRequest) (*SubmitDocumentsResponse, error) {
	return kybSubmit.Call(ctx, s.invoker, s.params, request)
}

// Update sets the metadata of a KYB case.
func (s *KYBService) Update(ctx context.Context, request UpdateKYBRequest) (*UpdateKYBResponse, error) {
	return kybUpdate.Call(ctx, s.invoker, s.params, request)
}

// SendVerificationEmail emails a director their identity verification link.
func (s *KYBService) SendVerificationEmail(ctx context.Context, request SendDirectorVerificationLinkRequest) (*SendDirectorVerificationLinkResponse, error) {
	return kybSendVerificationEmail.Call(ctx, s.invoker, s.params, request)
}

// UpdateDirector changes one director's details.
func (s *KYBService) UpdateDirector(ctx context.Context, request UpdateDirectorRequest) (*UpdateDirectorResponse, error) {
	return kybUpdateDirector.Call(ctx, s.invoker, s.params, request)
}
