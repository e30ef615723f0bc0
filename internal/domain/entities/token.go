package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TokenType represents how a customer presents their credential
type TokenType string

const (
	TokenTypeQR      TokenType = "qr"
	TokenTypeBarcode TokenType = "barcode"
	TokenTypeNFC     TokenType = "nfc"
	TokenTypeWallet  TokenType = "wallet"
)

// TokenStatus represents token lifecycle status
type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "active"
	TokenStatusRevoked TokenStatus = "revoked"
)

// Token is a presentable credential bound to exactly one customer within one
// merchant. The public value is random (>=128 bits) and never derivable from
// the customer identifier. (merchant, public value) is unique; a customer may
// hold several tokens and each resolves to the same balance.
type Token struct {
	ID          uuid.UUID   `json:"id"`
	MerchantID  uuid.UUID   `json:"merchantId"`
	CustomerID  uuid.UUID   `json:"customerId"`
	Type        TokenType   `json:"type"`
	PublicValue string      `json:"publicValue"`
	Status      TokenStatus `json:"status"`
	IssuedAt    time.Time   `json:"issuedAt"`
	RevokedAt   null.Time   `json:"revokedAt,omitempty"`
}

// TokenIssueInput represents input for issuing a token
type TokenIssueInput struct {
	Type       TokenType  `json:"type" binding:"required"`
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
}

// TokenResolveInput represents input for resolving a presented token
type TokenResolveInput struct {
	PublicValue string `json:"publicValue" binding:"required"`
}

// TokenResolveResult is the outcome of resolving a presented credential
type TokenResolveResult struct {
	TokenID    uuid.UUID `json:"tokenId"`
	CustomerID uuid.UUID `json:"customerId"`
	Type       TokenType `json:"type"`
	Balance    int64     `json:"balance"`
}

// WalletClaimInput represents input for claiming a wallet pass
type WalletClaimInput struct {
	Code string `json:"code" binding:"required"`
}
