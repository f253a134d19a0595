package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction log entry.
type Kind string

const (
	KindDeposit     Kind = "deposit"
	KindTransferOut Kind = "transfer_out"
	KindTransferIn  Kind = "transfer_in"
)

// Transaction is one immutable entry in the shared activity log.
// Amount is signed: negative when money leaves AccountID, positive when
// money enters it. A transfer produces one TransferOut and one TransferIn
// entry sharing the parent transfer id with -debit/-credit suffixes.
type Transaction struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	AccountID    string          `json:"account_id"`
	Counterparty string          `json:"counterparty,omitempty"` // other leg of a transfer
	Amount       decimal.Decimal `json:"amount"`
	Sequence     uint64          `json:"sequence"` // assigned by the store, strictly increasing
	CreatedAt    time.Time       `json:"created_at"`
}
