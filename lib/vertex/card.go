// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"context"

	"github.com/sava-africa/vertex-go/lib/rpc"
)

// CardFeatures toggles what a card may be used for.
type CardFeatures struct {
	Domestic      bool `json:"domestic"`
	International bool `json:"international"`
	ECommerce     bool `json:"e_commerce"`
	ATM           bool `json:"atm"`
	POS           bool `json:"pos"`
	Contactless   bool `json:"contactless"`
}

// CardLimits are spend limits in minor units. A limit applies only when
// its *Enabled flag is set.
type CardLimits struct {
	TransactionEnabled bool `json:"transaction_enabled"`
	Transaction        int  `json:"transaction"`
	DailyEnabled       bool `json:"daily_enabled"`
	Daily              int  `json:"daily"`
	MonthlyEnabled     bool `json:"monthly_enabled"`
	Monthly            int  `json:"monthly"`
	YearlyEnabled      bool `json:"yearly_enabled"`
	Yearly             int  `json:"yearly"`
}

// CardExtras carries optional card behaviour. AutoLock is an RFC 3339
// timestamp.
type CardExtras struct {
	AutoLock string `json:"auto_lock,omitempty"`
}

// RequestCardRequest asks for a card for a user. The organisation approves it with RespondToRequest.
type RequestCardRequest struct {
	AccountID string        `json:"account_id"`
	UserID    string        `json:"user_id"`
	Name      string        `json:"name,omitempty"`
	Type      int           `json:"type"`
	UseType   int           `json:"use_type"`
	Features  *CardFeatures `json:"features,omitempty"`
	Limits    *CardLimits   `json:"limits,omitempty"`
	Extras    *CardExtras   `json:"extras,omitempty"`
}

// RequestCardResponse carries the id of the pending card request.
type RequestCardResponse struct {
	ID string `json:"id"`
}

// CardRequestView is one entry of ListOrganisationCardRequestsResponse.
type CardRequestView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        int          `json:"type"`
	UseType     int          `json:"use_type"`
	CreatedAt   string       `json:"created_at"`
	RequestedBy string       `json:"requested_by"`
	AssignedTo  string       `json:"assigned_to"`
	Features    CardFeatures `json:"features"`
	Limits      CardLimits   `json:"limits"`
	Extras      CardExtras   `json:"extras"`
	Status      string       `json:"status"`
}

// ListOrganisationCardRequestsRequest selects the card requests on an account.
type ListOrganisationCardRequestsRequest struct {
	AccountID string   `json:"account_id"`
	UserIDs   []string `json:"user_ids,omitempty"`
}

// ListOrganisationCardRequestsResponse lists card requests.
type ListOrganisationCardRequestsResponse struct {
	ID       string            `json:"id"`
	Requests []CardRequestView `json:"requests"`
}

// RespondToCardRequestRequest approves or rejects a card request. Approve is always sent.
type RespondToCardRequestRequest struct {
	EntityID  string `json:"entity_id"`
	AccountID string `json:"account_id"`
	Initiator string `json:"initiator"`
	RequestID string `json:"request_id"`
	Approved  bool   `json:"approved"`
}

// RespondToCardRequestResponse is the empty reply to RespondToRequest.
type RespondToCardRequestResponse struct{}

// EditCardRequest changes a card's name and settings. Nil sections are left unchanged.
type EditCardRequest struct {
	EntityID string        `json:"entity_id"`
	CardID   string        `json:"card_id"`
	Name     string        `json:"name,omitempty"`
	Features *CardFeatures `json:"features,omitempty"`
	Limits   *CardLimits   `json:"limits,omitempty"`
	Extras   *CardExtras   `json:"extras,omitempty"`
}

// EditCardResponse is the empty reply to Edit.
type EditCardResponse struct{}

// CardView is one entry of ListOrganisationCardsResponse.
type CardView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        int          `json:"type"`
	UseType     int          `json:"use_type"`
	Last4       string       `json:"last_4"`
	DateCreated string       `json:"date_created"`
	UserID      string       `json:"user_id"`
	OrgID       string       `json:"org_id"`
	Features    CardFeatures `json:"features"`
	Limits      CardLimits   `json:"limits"`
	Extras      CardExtras   `json:"extras"`
	Status      string       `json:"status"`
}

// ListOrganisationCardsRequest selects an organisation's cards.
type ListOrganisationCardsRequest struct {
	EntityID  string   `json:"entity_id"`
	AccountID string   `json:"account_id"`
	UserIDs   []string `json:"user_ids,omitempty"`
}

// ListOrganisationCardsResponse lists cards.
type ListOrganisationCardsResponse struct {
	ID    string     `json:"id"`
	Cards []CardView `json:"cards"`
}

// GetCardDetailsRequest names the card to reveal.
type GetCardDetailsRequest struct {
	AccountID string `json:"account_id"`
	Initiator string `json:"initiator"`
	ID        string `json:"id"`
}

// GetCardDetailsResponse holds sensitive card data. Do not log it.
type GetCardDetailsResponse struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// UpdateCardStatusRequest sets a card's status. Initiator is the acting user.
type UpdateCardStatusRequest struct {
	AccountID string `json:"account_id"`
	Initiator string `json:"initiator"`
	ID        string `json:"id"`
	Status    string `json:"status"`
}

// UpdateCardStatusResponse is the empty reply to UpdateStatus.
type UpdateCardStatusResponse struct{}

// ActivateCardRequest activates a card, confirmed by its last four digits.
type ActivateCardRequest struct {
	AccountID string `json:"account_id"`
	Initiator string `json:"initiator"`
	ID        string `json:"id"`
	Last4     string `json:"last_4"`
}

// ActivateCardResponse is the empty reply to Activate.
type ActivateCardResponse struct{}

// SetPINRequest sets a card's PIN.
type SetPINRequest struct {
	AccountID string `json:"account_id"`
	Initiator string `json:"initiator"`
	ID        string `json:"id"`
	PIN       string `json:"pin"`
}

// SetPINResponse is the empty reply to SetPIN.
type SetPINResponse struct{}

var (
	cardRequest          = rpc.NewEndpoint[RequestCardRequest, RequestCardResponse]("svc.card.*.request")
	cardListRequests     = rpc.NewEndpoint[ListOrganisationCardRequestsRequest, ListOrganisationCardRequestsResponse]("svc.card.*.list_requests")
	cardRespondToRequest = rpc.NewEndpoint[RespondToCardRequestRequest, RespondToCardRequestResponse]("svc.card.*.respond_to_request")
	cardEdit             = rpc.NewEndpoint[EditCardRequest, EditCardResponse]("svc.card.*.edit")
	cardListCards        = rpc.NewEndpoint[ListOrganisationCardsRequest, ListOrganisationCardsResponse]("svc.card.*.list_cards")
	cardGetDetails       = rpc.NewEndpoint[GetCardDetailsRequest, GetCardDetailsResponse]("svc.card.*.get_details")
	cardUpdateStatus     = rpc.NewEndpoint[UpdateCardStatusRequest, UpdateCardStatusResponse]("svc.card.*.update_status")
	cardActivate         = rpc.NewEndpoint[ActivateCardRequest, ActivateCardResponse]("svc.card.*.activate_card")
	cardSetPIN           = rpc.NewEndpoint[SetPINRequest, SetPINResponse]("svc.card.*.set_pin")
)

// CardService issues and manages payment cards for an organisation's
// users.
type CardService struct {
	service
}

// NewCardService returns a CardService whose subjects are filled with params.
func NewCardService(invoker *rpc.Invoker, params []string) (*CardService, error) {
	s, err := newService("card", invoker, params,
		cardRequest, cardListRequests, cardRespondToRequest, cardEdit, cardListCards,
		cardGetDetails, cardUpdateStatus, cardActivate, cardSetPIN)
	if err != nil {
		return nil, err
	}
	return &CardService{s}, nil
}

// Request asks for a new card.
func (s *CardService) Request(ctx context.Context, request RequestCardRequest) (*RequestCardResponse, error) {
	return cardRequest.Call(ctx, s.invoker, s.params, request)
}

// ListRequests lists card requests on an account.
func (s *CardService) ListRequests(ctx context.Context, request ListOrganisationCardRequestsRequest) (*ListOrganisationCardRequestsResponse, error) {
	return cardListRequests.Call(ctx, s.invoker, s.params, request)
}

// RespondToRequest approves or rejects a card request.
func (s *CardService) RespondToRequest(ctx context.Context, request RespondToCardRequestRequest) (*RespondToCardRequestResponse, error) {
	return cardRespondToRequest.Call(ctx, s.invoker, s.params, request)
}

// Edit changes a card's configuration.
func (s *CardService) Edit(ctx context.Context, request EditCardRequest) (*EditCardResponse, error) {
	return cardEdit.Call(ctx, s.invoker, s.params, request)
}

// ListCards lists an organisation's cards.
func (s *CardService) ListCards(ctx context.Context, request ListOrganisationCardsRequest) (*ListOrganisationCardsResponse, error) {
	return cardListCards.Call(ctx, s.invoker, s.params, request)
}

// GetDetails reveals a card's number and security data.
func (s *CardService) GetDetails(ctx context.Context, request GetCardDetailsRequest) (*GetCardDetailsResponse, error) {
	return cardGetDetails.Call(ctx, s.invoker, s.params, request)
}

// UpdateStatus changes a card's status.
func (s *CardService) UpdateStatus(ctx context.Context, request UpdateCardStatusRequest) (*UpdateCardStatusResponse, error) {
	return cardUpdateStatus.Call(ctx, s.invoker, s.params, request)
}

// Activate activates a card.
func (s *CardService) Activate(ctx context.Context, request ActivateCardRequest) (*ActivateCardResponse, error) {
	return cardActivate.Call(ctx, s.invoker, s.params, request)
}

// SetPIN sets the card PIN. The PIN travels in the request body; it is
// never logged by the invoker.
func (s *CardService) SetPIN(ctx context.Context, request SetPINRequest) (*SetPINResponse, error) {
	return cardSetPIN.Call(ctx, s.invoker, s.params, request)
}
