package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a single bank account held by the ledger.
// Balance is the only mutable field and never goes negative.
type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}
