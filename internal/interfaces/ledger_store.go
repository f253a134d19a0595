package interfaces

import (
	"context"

	"github.com/agentbank/teller/internal/models"
)

// LedgerStore holds account state and the shared transaction log. All reads
// return copies; callers can only mutate ledger state through store calls.
type LedgerStore interface {
	// CreateAccount adds a new account and records its opening deposit as
	// one atomic step. Fails if the account id already exists.
	CreateAccount(ctx context.Context, account models.Account, opening models.Transaction) error
	GetAccount(id string) (models.Account, error)
	// ListAccounts returns account snapshots in creation order.
	ListAccounts() ([]models.Account, error)
	// ApplyTransfer debits the account on the debit entry, credits the
	// account on the credit entry and appends both entries to the log in a
	// single critical section, so no reader observes a half-applied
	// transfer. The balance check runs inside the same section.
	ApplyTransfer(ctx context.Context, debit, credit models.Transaction) error
	// GetTransactions returns the full log in chronological order.
	GetTransactions() ([]models.Transaction, error)
}
