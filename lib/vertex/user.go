// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"context"

	"github.com/sava-africa/vertex-go/lib/rpc"
)

// CreateUserRequest creates a user under an entity.
type CreateUserRequest struct {
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	Email             string `json:"email,omitempty"`
	EntityID          string `json:"entity_id"`
	Gender            string `json:"gender,omitempty"`
	DateOfBirth       string `json:"date_of_birth,omitempty"`
	Country           string `json:"country,omitempty"`
	City              string `json:"city,omitempty"`
	Residency         string `json:"residency,omitempty"`
	IDNumber          string `json:"id_number,omitempty"`
	IDType            string `json:"id_type,omitempty"`
	IDIssueDate       string `json:"id_issue_date,omitempty"`
	IDIssueExpiryDate string `json:"id_issue_expiry_date,omitempty"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	Title             string `json:"title,omitempty"`
	Verified          bool   `json:"verified"`
	PermitNumber      string `json:"permit_number,omitempty"`
}

// CreateUserResponse carries the new user's id.
type CreateUserResponse struct {
	UserID string `json:"userId"`
}

// UpdateUserProfileRequest changes a user's profile. Empty fields are left unchanged.
type UpdateUserProfileRequest struct {
	UserID            string `json:"user_id"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	Email             string `json:"email,omitempty"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	Gender            string `json:"gender,omitempty"`
	DateOfBirth       string `json:"date_of_birth,omitempty"`
	BirthCountry      string `json:"birth_country,omitempty"`
	BirthCity         string `json:"birth_city,omitempty"`
	Residency         string `json:"residency,omitempty"`
	IDNumber          string `json:"id_number,omitempty"`
	IDType            string `json:"id_type,omitempty"`
	IDIssueDate       string `json:"id_issue_date,omitempty"`
	IDIssueExpiryDate string `json:"id_issue_expiry_date,omitempty"`
	Title             string `json:"title,omitempty"`
	PermitNumber      string `json:"permit_number,omitempty"`
}

// UpdateUserProfileResponse carries the id of the updated user.
type UpdateUserProfileResponse struct {
	UserID string `json:"userId"`
}

// ListUserRequest selects the users of one entity.
type ListUserRequest struct {
	EntityID string `json:"entity_id"`
}

// ListUserResponse lists users.
type ListUserResponse struct {
	Users []User `json:"users"`
}

// User is one entry of ListUserResponse.
type User struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	EntityID       string `json:"entity_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	Verified       bool   `json:"verified"`
	VerifiedAt     string `json:"verified_at"`
	Gender         string `json:"gender"`
	DateOfBirth    string `json:"date_of_birth"`
	Country        string `json:"country"`
	City           string `json:"city"`
	Residency      string `json:"residency"`
	IDNumber       string `json:"id_number"`
	IDType         string `json:"id_type"`
	IDIssueDate    string `json:"id_issue_date"`
	IDIssueExpiry  string `json:"id_issue_expiry"`
	Title          string `json:"title"`
	DateRegistered string `json:"date_registered"`
	PermitNumber   string `json:"permit_number"`
	KYCStatus      string `json:"kyc_status"`
	KYCSubmittedAt string `json:"kyc_submitted_at"`
	KYCReviewedAt  string `json:"kyc_reviewed_at"`
}

// UploadKYCDocumentsRequest submits previously uploaded dropbox keys
// for review. IDDocument is the key of the front of the identity
// document.
type UploadKYCDocumentsRequest struct {
	UserID           string `json:"user_id"`
	IDDocument       string `json:"id_document"`
	ProofOfResidence string `json:"proof_of_residence"`
}

// UploadKYCDocumentsResponse acknowledges a KYC submission.
type UploadKYCDocumentsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var (
	userCreate             = rpc.NewEndpoint[CreateUserRequest, CreateUserResponse]("svc.user.*.create")
	userUpdate             = rpc.NewEndpoint[UpdateUserProfileRequest, UpdateUserProfileResponse]("svc.user.*.update")
	userList               = rpc.NewEndpoint[ListUserRequest, ListUserResponse]("svc.user.*.list")
	userUploadKYCDocuments = rpc.NewEndpoint[UploadKYCDocumentsRequest, UploadKYCDocumentsResponse]("svc.user.*.upload_kyc_documents")
)

// UserService manages the users of an entity and their KYC submissions.
type UserService struct {
	service
}

// NewUserService returns a UserService whose subjects are filled with params.
func NewUserService(invoker *rpc.Invoker, params []string) (*UserService, error) {
	s, err := newService("user", invoker, params, userCreate, userUpdate, userList, userUploadKYCDocuments)
	if err != nil {
		return nil, err
	}
	return &UserService{s}, nil
}

// Create registers a user.
func (s *UserService) Create(ctx context.Context, request CreateUserRequest) (*CreateUserResponse, error) {
	return userCreate.Call(ctx, s.invoker, s.params, request)
}

// Update changes a user's profile.
func (s *UserService) Update(ctx context.Context, request UpdateUserProfileRequest) (*UpdateUserProfileResponse, error) {
	return userUpdate.Call(ctx, s.invoker, s.params, request)
}

// List returns the users of an entity.
func (s *UserService) List(ctx context.Context, request ListUserRequest) (*ListUserResponse, error) {
	return userList.Call(ctx, s.invoker, s.params, request)
}

// UploadKYCDocuments submits dropbox keys for KYC review. The documents
// must already be stored in the user's dropbox.
func (s *UserService) UploadKYCDocuments(ctx context.Context, request UploadKYCDocumentsRequest) (*UploadKYCDocumentsResponse, error) {
	return userUploadKYCDocuments.Call(ctx, s.invoker, s.params, request)
}
