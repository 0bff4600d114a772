// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"context"

	"github.com/sava-africa/vertex-go/lib/rpc"
)

// Metadata is free-form string metadata attached to accounts.
type Metadata map[string]string

// OpenAccountRequest opens an account for an entity.
type OpenAccountRequest struct {
	EntityID string `json:"entity_id"`
}

// OpenAccountResponse describes the opened account.
type OpenAccountResponse struct {
	AccountID     string   `json:"account_id"`
	EntityID      string   `json:"entity_id"`
	AccountNumber string   `json:"account_number"`
	Country       string   `json:"country"`
	CreatedAt     string   `json:"created_at"`
	AccountType   string   `json:"account_type"`
	Metadata      Metadata `json:"metadata"`
}

// GetAccountDetailsRequest names the account to describe.
type GetAccountDetailsRequest struct {
	AccountID string `json:"account_id"`
}

// GetAccountDetailsResponse carries balances as decimal strings, as
// the backend reports them.
type GetAccountDetailsResponse struct {
	AccountID        string   `json:"account_id"`
	AccountNumber    string   `json:"account_number"`
	Balance          string   `json:"balance"`
	AvailableBalance string   `json:"available_balance"`
	AccountType      string   `json:"account_type"`
	Metadata         Metadata `json:"metadata"`
}

// TransferEFTRTCRequest pays an external bank account. Amount is in
// minor units. ClientTxID is the caller's idempotency reference.
type TransferEFTRTCRequest struct {
	AccountID          string `json:"account_id"`
	ClientTxID         string `json:"clientTxId"`
	Amount             int    `json:"amount"`
	Ref                string `json:"ref,omitempty"`
	OwnRef             string `json:"own_ref,omitempty"`
	AccountNumber      string `json:"account_number,omitempty"`
	BranchCode         string `json:"branch_code,omitempty"`
	Name               string `json:"name,omitempty"`
	PayAndClear        bool   `json:"pay_and_clear"`
	NotificationEmail  string `json:"notification_email,omitempty"`
	NotificationName   string `json:"notification_name,omitempty"`
	BeneficiaryID      string `json:"beneficiary_id,omitempty"`
	BeneficiaryVersion int    `json:"beneficiary_version"`
}

// TransferEFTRTCResponse is the reply to both transfer operations.
type TransferEFTRTCResponse struct {
	TxID   string `json:"tx_id"`
	Amount string `json:"amount"`
}

// TransferInternalRequest moves funds between Vertex accounts.
type TransferInternalRequest struct {
	AccountID          string `json:"account_id"`
	ClientTxID         string `json:"clientTxId"`
	Amount             int    `json:"amount"`
	Ref                string `json:"ref,omitempty"`
	OwnRef             string `json:"own_ref,omitempty"`
	AccountNumber      string `json:"account_number,omitempty"`
	Name               string `json:"name,omitempty"`
	NotificationEmail  string `json:"notification_email,omitempty"`
	NotificationName   string `json:"notification_name,omitempty"`
	BeneficiaryID      string `json:"beneficiary_id,omitempty"`
	BeneficiaryVersion int    `json:"beneficiary_version"`
}

// GetTransactionsRequest selects one account's transactions, optionally
// only those of FilterUserIDs.
type GetTransactionsRequest struct {
	AccountID     string   `json:"account_id"`
	FilterUserIDs []string `json:"filter_user_ids,omitempty"`
}

// GetTransactionsResponse lists one account's transactions.
type GetTransactionsResponse struct {
	AccountID    string        `json:"account_id"`
	Transactions []Transaction `json:"transactions"`
}

// Transaction is one ledger entry. Amounts are decimal strings.
type Transaction struct {
	TxID           string `json:"tx_id"`
	ParentTxID     string `json:"parent_tx_id"`
	Date           string `json:"date"`
	Amount         string `json:"amount"`
	Ref            string `json:"ref"`
	Status         string `json:"status"`
	TxSHA          string `json:"tx_sha"`
	UserID         string `json:"user_id"`
	AddedBy        string `json:"added_by"`
	TxType         string `json:"tx_type"`
	TxPaymentType  string `json:"tx_payment_type"`
	Fee            string `json:"fee"`
	RecipientName  string `json:"recipient_name"`
	Credit         string `json:"credit"`
	Debit          string `json:"debit"`
	RunningBalance string `json:"running_balance"`
	Verified       bool   `json:"verified"`
}

// AccountSummary is one entry of GetAccountsByEntityResponse.
type AccountSummary struct {
	AccountID     string   `json:"account_id"`
	AccountNumber string   `json:"account_number"`
	CreatedAt     string   `json:"created_at"`
	AccountType   string   `json:"account_type"`
	Metadata      Metadata `json:"metadata"`
}

// GetAccountsByEntityRequest names the entity whose accounts to list.
type GetAccountsByEntityRequest struct {
	EntityID string `json:"entity_id"`
}

// GetAccountsByEntityResponse lists an entity's accounts.
type GetAccountsByEntityResponse struct {
	EntityID string           `json:"entity_id"`
	Accounts []AccountSummary `json:"accounts"`
}

// GetTransactionByIDRequest names one transaction.
type GetTransactionByIDRequest struct {
	TxID string `json:"tx_id"`
}

// GetTransactionByIDResponse is a single transaction.
type GetTransactionByIDResponse struct {
	Transaction Transaction `json:"transaction"`
}

var (
	accountCreate           = rpc.NewEndpoint[OpenAccountRequest, OpenAccountResponse]("svc.account.*.create")
	accountGetDetails       = rpc.NewEndpoint[GetAccountDetailsRequest, GetAccountDetailsResponse]("svc.account.*.get_details")
	accountTransferEFTRTC   = rpc.NewEndpoint[TransferEFTRTCRequest, TransferEFTRTCResponse]("svc.account.*.transfer_eft_rtc")
	accountTransferInternal = rpc.NewEndpoint[TransferInternalRequest, TransferEFTRTCResponse]("svc.account.*.transfer_internal")
	accountList             = rpc.NewEndpoint[GetTransactionsRequest, GetTransactionsResponse]("svc.account.*.list")
	accountGetByEntity      = rpc.NewEndpoint[GetAccountsByEntityRequest, GetAccountsByEntityResponse]("svc.account.*.get_by_entity")
	accountGetTransaction   = rpc.NewEndpoint[GetTransactionByIDRequest, GetTransactionByIDResponse]("svc.account.*.get_transaction")
)

// AccountService opens accounts, reads balances and transactions, and
// initiates transfers.
//
// Transfers are not idempotent on the wire: a transfer that fails with
// rpc.ErrTimeout may still have been executed. Reconcile by ClientTxID
// before retrying.
type AccountService struct {
	service
}

// NewAccountService returns an AccountService whose subjects are filled with params.
func NewAccountService(invoker *rpc.Invoker, params []string) (*AccountService, error) {
	s, err := newService("account", invoker, params,
		accountCreate, accountGetDetails, accountTransferEFTRTC, accountTransferInternal,
		accountList, accountGetByEntity, accountGetTransaction)
	if err != nil {
		return nil, err
	}
	return &AccountService{s}, nil
}

// Create opens an account.
func (s *AccountService) Create(ctx context.Context, request OpenAccountRequest) (*OpenAccountResponse, error) {
	return accountCreate.Call(ctx, s.invoker, s.params, request)
}

// GetDetails returns an account's details and balances.
func (s *AccountService) GetDetails(ctx context.Context, request GetAccountDetailsRequest) (*GetAccountDetailsResponse, error) {
	return accountGetDetails.Call(ctx, s.invoker, s.params, request)
}

// TransferEFTRTC pays out to an external bank account over EFT or RTC.
func (s *AccountService) TransferEFTRTC(ctx context.Context, request TransferEFTRTCRequest) (*TransferEFTRTCResponse, error) {
	return accountTransferEFTRTC.Call(ctx, s.invoker, s.params, request)
}

// TransferInternal moves funds between Vertex accounts. The reply has
// the same shape as TransferEFTRTC's.
func (s *AccountService) TransferInternal(ctx context.Context, request TransferInternalRequest) (*TransferEFTRTCResponse, error) {
	return accountTransferInternal.Call(ctx, s.invoker, s.params, request)
}

// List returns the transactions of an account.
func (s *AccountService) List(ctx context.Context, request GetTransactionsRequest) (*GetTransactionsResponse, error) {
	return accountList.Call(ctx, s.invoker, s.params, request)
}

// GetByEntity lists the accounts held by an entity.
func (s *AccountService) GetByEntity(ctx context.Context, request GetAccountsByEntityRequest) (*GetAccountsByEntityResponse, error) {
	return accountGetByEntity.Call(ctx, s.invoker, s.params, request)
}

// GetTransaction returns one transaction.
func (s *AccountService) GetTransaction(ctx context.Context, request GetTransactionByIDRequest) (*GetTransactionByIDResponse, error) {
	return accountGetTransaction.Call(ctx, s.invoker, s.params, request)
}
