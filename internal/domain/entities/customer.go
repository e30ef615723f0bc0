package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// CustomerStatus represents customer account status
type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "active"
	CustomerStatusBlocked CustomerStatus = "blocked"
)

// Customer is an anonymous or claimed identity within a merchant. Customers
// are created lazily when their first token is issued.
type Customer struct {
	ID         uuid.UUID      `json:"id"`
	MerchantID uuid.UUID      `json:"merchantId"`
	Status     CustomerStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  null.Time      `json:"-"`
}
