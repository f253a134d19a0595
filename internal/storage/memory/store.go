package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentbank/teller/internal/interfaces"
	"github.com/agentbank/teller/internal/models"
)

// MemoryLedgerStore is the in-memory implementation of interfaces.LedgerStore.
// One mutex guards accounts and the log together, so a balance mutation and
// its log append are always visible as a unit. All state is volatile and
// scoped to the owning process.
type MemoryLedgerStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	order    []string // account ids in creation order
	entries  []models.Transaction
	seq      uint64
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		accounts: make(map[string]*models.Account),
	}
}

func (m *MemoryLedgerStore) CreateAccount(ctx context.Context, account models.Account, opening models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[account.ID]; exists {
		return fmt.Errorf("account %s already exists", account.ID)
	}

	cp := account
	m.accounts[account.ID] = &cp
	m.order = append(m.order, account.ID)
	m.appendLocked(opening)
	return nil
}

func (m *MemoryLedgerStore) GetAccount(id string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", models.ErrAccountNotFound, id)
	}
	return *account, nil
}

// ListAccounts returns value copies in creation order so callers cannot
// reach internal state.
func (m *MemoryLedgerStore) ListAccounts() ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshots := make([]models.Account, 0, len(m.order))
	for _, id := range m.order {
		snapshots = append(snapshots, *m.accounts[id])
	}
	return snapshots, nil
}

// ApplyTransfer applies both legs and appends both entries under one lock.
// The sufficient-funds check runs here, inside the critical section, so two
// racing transfers cannot both pass it against a stale balance.
func (m *MemoryLedgerStore) ApplyTransfer(ctx context.Context, debit, credit models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, ok := m.accounts[debit.AccountID]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrAccountNotFound, debit.AccountID)
	}
	to, ok := m.accounts[credit.AccountID]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrAccountNotFound, credit.AccountID)
	}

	amount := credit.Amount
	if from.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance is %s", models.ErrInsufficientFunds, from.Balance)
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	m.appendLocked(debit)
	m.appendLocked(credit)
	return nil
}

func (m *MemoryLedgerStore) GetTransactions() ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Transaction, len(m.entries))
	copy(copied, m.entries)
	return copied, nil
}

// appendLocked assigns the next sequence number and appends. Callers must
// hold m.mu.
func (m *MemoryLedgerStore) appendLocked(entry models.Transaction) {
	m.seq++
	entry.Sequence = m.seq
	m.entries = append(m.entries, entry)
}

// Compile-time check: MemoryLedgerStore implements LedgerStore.
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
