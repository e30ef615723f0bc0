package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Merchant represents a tenant. Every other entity belongs to exactly one
// merchant and is never shared across merchants.
type Merchant struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DeletedAt   null.Time `json:"-"`
}

// MerchantCreateInput represents input for creating a merchant
type MerchantCreateInput struct {
	Slug        string `json:"slug" binding:"required,min=2,max=64"`
	DisplayName string `json:"displayName" binding:"required,min=2,max=255"`
}
