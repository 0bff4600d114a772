// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"context"

	"github.com/sava-africa/vertex-go/lib/rpc"
)

// EntityInfoRequest names the entity to look up.
type EntityInfoRequest struct {
	EntityID string `json:"entity_id"`
}

// EntityInfoResponse is the full record of one entity.
type EntityInfoResponse struct {
	ID                string `json:"id"`
	DateCreated       string `json:"date_created"`
	Name              string `json:"name"`
	TradingName       string `json:"trading_name"`
	EntityType        string `json:"entity_type"`
	Email             string `json:"email"`
	Approved          bool   `json:"approved"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	PhoneNumber       string `json:"phone_number"`
	Gender            string `json:"gender"`
	DateOfBirth       string `json:"date_of_birth"`
	IDNumber          string `json:"id_number"`
	IDType            string `json:"id_type"`
	IDIssueDate       string `json:"id_issue_date"`
	IDIssueExpiryDate string `json:"id_issue_expiry_date"`
	City              string `json:"city"`
	Residency         string `json:"residency"`
	Title             string `json:"title"`
	PermitNumber      string `json:"permit_number"`
}

// UpdateAddressRequest replaces an entity's address. Empty fields are left unset.
type UpdateAddressRequest struct {
	EntityID     string `json:"entity_id"`
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	State        string `json:"state,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
	City         string `json:"city,omitempty"`
}

// UpdateAddressResponse is the empty reply to UpdateAddress.
type UpdateAddressResponse struct{}

// Address is a postal address.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
}

// CreateEntityRequest creates a business or individual entity. Which
// fields are required depends on EntityType.
type CreateEntityRequest struct {
	Name               string   `json:"name,omitempty"`
	TradingName        string   `json:"trading_name,omitempty"`
	TaxNumber          string   `json:"tax_number,omitempty"`
	RegistrationNumber string   `json:"registration_number,omitempty"`
	EntityType         string   `json:"entity_type,omitempty"`
	Purpose            string   `json:"purpose,omitempty"`
	Email              string   `json:"email,omitempty"`
	Country            string   `json:"country,omitempty"`
	FirstName          string   `json:"first_name,omitempty"`
	LastName           string   `json:"last_name,omitempty"`
	PhoneNumber        string   `json:"phone_number,omitempty"`
	Gender             string   `json:"gender,omitempty"`
	DateOfBirth        string   `json:"date_of_birth,omitempty"`
	IDNumber           string   `json:"id_number,omitempty"`
	IDType             string   `json:"id_type,omitempty"`
	IDIssueDate        string   `json:"id_issue_date,omitempty"`
	IDIssueExpiryDate  string   `json:"id_issue_expiry_date,omitempty"`
	City               string   `json:"city,omitempty"`
	Residency          string   `json:"residency,omitempty"`
	Title              string   `json:"title,omitempty"`
	PermitNumber       string   `json:"permit_number,omitempty"`
	Address            *Address `json:"address,omitempty"`
}

// CreateEntityResponse identifies the new entity and its primary user.
type CreateEntityResponse struct {
	ID        string `json:"id"`
	UserReady bool   `json:"user_ready"`
	UserID    string `json:"user_id"`
}

// Entity is one entry of ListEntityResponse.
type Entity struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	TradingName        string `json:"trading_name"`
	RegistrationNumber string `json:"registration_number"`
	Email              string `json:"email"`
	CreatedAt          string `json:"created_at"`
	EntityType         string `json:"entity_type"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	PhoneNumber        string `json:"phone_number"`
	Gender             string `json:"gender"`
	DateOfBirth        string `json:"date_of_birth"`
	IDNumber           string `json:"id_number"`
	IDType             string `json:"id_type"`
	IDIssueDate        string `json:"id_issue_date"`
	IDIssueExpiryDate  string `json:"id_issue_expiry_date"`
	City               string `json:"city"`
	Residency          string `json:"residency"`
	Title              string `json:"title"`
	PermitNumber       string `json:"permit_number"`
}

// ListEntityRequest takes no parameters; the partner id scopes the list.
type ListEntityRequest struct{}

// ListEntityResponse lists the partner's entities.
type ListEntityResponse struct {
	Entities []Entity `json:"entities"`
}

var (
	entityInfo          = rpc.NewEndpoint[EntityInfoRequest, EntityInfoResponse]("svc.entity.*.info")
	entityUpdateAddress = rpc.NewEndpoint[UpdateAddressRequest, UpdateAddressResponse]("svc.entity.*.update_address")
	entityCreate        = rpc.NewEndpoint[CreateEntityRequest, CreateEntityResponse]("svc.entity.*.create")
	entityList          = rpc.NewEndpoint[ListEntityRequest, ListEntityResponse]("svc.entity.*.list-entities")
)

// EntityService manages the partner's legal entities.
type EntityService struct {
	service
}

// NewEntityService returns an EntityService whose subjects are filled
// with params, normally just the partner id.
func NewEntityService(invoker *rpc.Invoker, params []string) (*EntityService, error) {
	s, err := newService("entity", invoker, params, entityInfo, entityUpdateAddress, entityCreate, entityList)
	if err != nil {
		return nil, err
	}
	return &EntityService{s}, nil
}

// Info returns one entity.
func (s *EntityService) Info(ctx context.Context, request EntityInfoRequest) (*EntityInfoResponse, error) {
	return entityInfo.Call(ctx, s.invoker, s.params, request)
}

// UpdateAddress sets an entity's postal address.
func (s *EntityService) UpdateAddress(ctx context.Context, request UpdateAddressRequest) (*UpdateAddressResponse, error) {
	return entityUpdateAddress.Call(ctx, s.invoker, s.params, request)
}

// Create registers a new entity.
func (s *EntityService) Create(ctx context.Context, request CreateEntityRequest) (*CreateEntityResponse, error) {
	return entityCreate.Call(ctx, s.invoker, s.params, request)
}

// List returns every entity owned by the partner.
func (s *EntityService) List(ctx context.Context, request ListEntityRequest) (*ListEntityResponse, error) {
	return entityList.Call(ctx, s.invoker, s.params, request)
}
