package ledger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agentbank/teller/internal/interfaces"
	"github.com/agentbank/teller/internal/models"
	"github.com/agentbank/teller/internal/models/events"
)

// Ledger is the authoritative owner of account state. It validates every
// operation, delegates storage to a LedgerStore and optionally announces
// completed transfers on an EventPublisher.
type Ledger struct {
	store             interfaces.LedgerStore
	publisher         interfaces.EventPublisher // optional, may be nil
	eventTopic        string
	allowSelfTransfer bool

	muMap map[string]*sync.Mutex // per-account mutexes
	mapMu sync.Mutex             // protects muMap itself
}

// SeedAccount describes one demo account established at construction.
type SeedAccount struct {
	ID      string
	Name    string
	Balance decimal.Decimal
}

// TransferResult reports the outcome of a successful transfer.
type TransferResult struct {
	TransferID  string
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

func NewLedger(store interfaces.LedgerStore, publisher interfaces.EventPublisher, eventTopic string, allowSelfTransfer bool) *Ledger {
	return &Ledger{
		store:             store,
		publisher:         publisher,
		eventTopic:        eventTopic,
		allowSelfTransfer: allowSelfTransfer,
		muMap:             make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) getAccountLock(accountID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[accountID]; !exists {
		l.muMap[accountID] = &sync.Mutex{}
	}
	return l.muMap[accountID]
}

// Seed establishes the initial account set. Each account starts with a
// positive balance recorded as one Deposit entry, so the history opens the
// way a real statement would. Construction-time only; not exposed as a tool.
func (l *Ledger) Seed(ctx context.Context, seeds []SeedAccount) error {
	for _, seed := range seeds {
		if seed.ID == "" {
			return fmt.Errorf("seed account with empty id")
		}
		if !seed.Balance.IsPositive() {
			return fmt.Errorf("seed account %s: %w", seed.ID, models.ErrInvalidAmount)
		}
		now := time.Now()
		account := models.Account{
			ID:        seed.ID,
			Name:      seed.Name,
			Balance:   seed.Balance,
			CreatedAt: now,
		}
		opening := models.Transaction{
			ID:        uuid.New().String(),
			Kind:      models.KindDeposit,
			AccountID: seed.ID,
			Amount:    seed.Balance,
			CreatedAt: now,
		}
		if err := l.store.CreateAccount(ctx, account, opening); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) GetAccount(id string) (models.Account, error) {
	return l.store.GetAccount(id)
}

func (l *Ledger) GetBalance(id string) (decimal.Decimal, error) {
	account, err := l.store.GetAccount(id)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ListAccounts returns account snapshots in creation order.
func (l *Ledger) ListAccounts() ([]models.Account, error) {
	return l.store.ListAccounts()
}

// History returns the full shared transaction log in chronological order.
func (l *Ledger) History() ([]models.Transaction, error) {
	return l.store.GetTransactions()
}

// FindAccount resolves a loose account reference: exact id first, then
// case-insensitive display name. Used by the legacy transfer adapter where
// callers say "Bob" instead of "1002".
func (l *Ledger) FindAccount(ref string) (models.Account, error) {
	if account, err := l.store.GetAccount(ref); err == nil {
		return account, nil
	}
	accounts, err := l.store.ListAccounts()
	if err != nil {
		return models.Account{}, err
	}
	for _, account := range accounts {
		if strings.EqualFold(account.Name, ref) {
			return account, nil
		}
	}
	return models.Account{}, fmt.Errorf("%w: %s", models.ErrAccountNotFound, ref)
}

// Transfer moves amount from one account to another. Validation order:
// source exists, destination exists, amount positive, self-transfer policy,
// sufficient funds. Both balance updates and the debit/credit entry pair
// become visible together or not at all.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (TransferResult, error) {
	debitMutex := l.getAccountLock(fromID)
	creditMutex := l.getAccountLock(toID)

	// Lock in id order to avoid deadlocks between opposing transfers.
	if fromID == toID {
		debitMutex.Lock()
		defer debitMutex.Unlock()
	} else if fromID < toID {
		debitMutex.Lock()
		creditMutex.Lock()
		defer creditMutex.Unlock()
		defer debitMutex.Unlock()
	} else {
		creditMutex.Lock()
		debitMutex.Lock()
		defer debitMutex.Unlock()
		defer creditMutex.Unlock()
	}

	from, err := l.store.GetAccount(fromID)
	if err != nil {
		return TransferResult{}, err
	}
	if _, err := l.store.GetAccount(toID); err != nil {
		return TransferResult{}, err
	}
	if !amount.IsPositive() {
		return TransferResult{}, fmt.Errorf("%w: got %s", models.ErrInvalidAmount, amount)
	}
	if fromID == toID && !l.allowSelfTransfer {
		return TransferResult{}, models.ErrSelfTransfer
	}
	if from.Balance.LessThan(amount) {
		return TransferResult{}, fmt.Errorf("%w: balance is %s", models.ErrInsufficientFunds, from.Balance)
	}

	transferID := uuid.New().String()
	now := time.Now()
	debit := models.Transaction{
		ID:           transferID + "-debit",
		Kind:         models.KindTransferOut,
		AccountID:    fromID,
		Counterparty: toID,
		Amount:       amount.Neg(),
		CreatedAt:    now,
	}
	credit := models.Transaction{
		ID:           transferID + "-credit",
		Kind:         models.KindTransferIn,
		AccountID:    toID,
		Counterparty: fromID,
		Amount:       amount,
		CreatedAt:    now,
	}

	if err := l.store.ApplyTransfer(ctx, debit, credit); err != nil {
		return TransferResult{}, err
	}

	l.publishTransferCompleted(transferID, fromID, toID, amount, now)

	fromAfter, err := l.store.GetAccount(fromID)
	if err != nil {
		return TransferResult{}, err
	}
	toAfter, err := l.store.GetAccount(toID)
	if err != nil {
		return TransferResult{}, err
	}
	return TransferResult{
		TransferID:  transferID,
		FromBalance: fromAfter.Balance,
		ToBalance:   toAfter.Balance,
	}, nil
}

// publishTransferCompleted is best-effort: the transfer already committed,
// so a broker failure is logged and swallowed.
func (l *Ledger) publishTransferCompleted(transferID, fromID, toID string, amount decimal.Decimal, occurredAt time.Time) {
	if l.publisher == nil {
		return
	}
	event := events.TransferCompleted{
		TransferID:  transferID,
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
		OccurredAt:  occurredAt,
	}
	if err := l.publisher.Publish(l.eventTopic, event); err != nil {
		log.Printf("publish transfer_completed %s: %v", transferID, err)
	}
}
