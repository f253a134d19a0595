package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentbank/teller/internal/ledger"
	"github.com/agentbank/teller/internal/models"
)

// NewBankRegistry builds the tool set an external agent calls against the
// ledger. defaultAccountID is the account a call falls back to when the
// caller names none — the "my account" of the conversation.
func NewBankRegistry(l *ledger.Ledger, defaultAccountID string) *Registry {
	r := NewRegistry()

	r.Register(Tool{
		Name: "check_balance",
		Description: "Look up the balance of a bank account. Use when the user asks how much money " +
			"they or an account have. Arguments: {\"account_id\": string}; omit account_id to use " +
			"the user's own account.",
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			return checkBalance(l, defaultAccountID, args)
		},
	})

	r.Register(Tool{
		Name: "transfer",
		Description: "Move money between two accounts. Use when the user wants to send or transfer " +
			"money. Arguments: {\"from_account_id\": string, \"to_account_id\": string, \"amount\": number}; " +
			"from_account_id defaults to the user's own account. A bare string \"receiver,amount\" is " +
			"also accepted.",
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			return transfer(ctx, l, defaultAccountID, args)
		},
	})

	r.Register(Tool{
		Name: "list_accounts",
		Description: "List every account with its id, holder name and balance. Use when the user " +
			"asks which accounts exist. No arguments.",
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			return listAccounts(l)
		},
	})

	r.Register(Tool{
		Name: "get_history",
		Description: "Show the transaction history, newest last. Use when the user asks about past " +
			"transfers, deposits or account activity. No arguments.",
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			return history(l)
		},
	})

	return r
}

func checkBalance(l *ledger.Ledger, defaultAccountID string, args json.RawMessage) (string, error) {
	var req struct {
		AccountID string `json:"account_id"`
	}
	if len(bytes.TrimSpace(args)) > 0 {
		if err := json.Unmarshal(args, &req); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedArguments, err)
		}
	}
	if req.AccountID == "" {
		req.AccountID = defaultAccountID
	}

	account, err := l.GetAccount(req.AccountID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("account %s (%s) has a balance of %s", account.ID, account.Name, account.Balance.StringFixed(2)), nil
}

func transfer(ctx context.Context, l *ledger.Ledger, defaultAccountID string, args json.RawMessage) (string, error) {
	fromID, toID, amount, err := parseTransferArgs(l, defaultAccountID, args)
	if err != nil {
		return "", err
	}

	result, err := l.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		return "", fmt.Errorf("transfer failed: %w", err)
	}
	return fmt.Sprintf("transferred %s from account %s to account %s; remaining balance of %s is %s",
		amount.StringFixed(2), fromID, toID, fromID, result.FromBalance.StringFixed(2)), nil
}

// parseTransferArgs accepts the structured record or, when the payload is a
// bare JSON string, the legacy "receiver,amount" form with the receiver
// resolved id-first then by display name.
func parseTransferArgs(l *ledger.Ledger, defaultAccountID string, args json.RawMessage) (fromID, toID string, amount decimal.Decimal, err error) {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var input string
		if err := json.Unmarshal(trimmed, &input); err != nil {
			return "", "", decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
		}
		receiver, amount, err := parseLegacyTransfer(input)
		if err != nil {
			return "", "", decimal.Zero, err
		}
		to, err := l.FindAccount(receiver)
		if err != nil {
			return "", "", decimal.Zero, err
		}
		return defaultAccountID, to.ID, amount, nil
	}

	var req struct {
		FromAccountID string          `json:"from_account_id"`
		ToAccountID   string          `json:"to_account_id"`
		Amount        decimal.Decimal `json:"amount"`
	}
	if len(trimmed) == 0 {
		return "", "", decimal.Zero, fmt.Errorf("%w: transfer needs arguments", ErrMalformedArguments)
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return "", "", decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
	}
	if req.FromAccountID == "" {
		req.FromAccountID = defaultAccountID
	}
	if req.ToAccountID == "" {
		return "", "", decimal.Zero, fmt.Errorf("%w: to_account_id is required", ErrMalformedArguments)
	}
	return req.FromAccountID, req.ToAccountID, req.Amount, nil
}

func listAccounts(l *ledger.Ledger) (string, error) {
	accounts, err := l.ListAccounts()
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "no accounts available", nil
	}

	lines := make([]string, 0, len(accounts)+1)
	lines = append(lines, "available accounts:")
	for _, account := range accounts {
		lines = append(lines, fmt.Sprintf("account %s (%s): balance %s", account.ID, account.Name, account.Balance.StringFixed(2)))
	}
	return strings.Join(lines, "\n"), nil
}

func history(l *ledger.Ledger) (string, error) {
	entries, err := l.History()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "no transactions yet", nil
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, describeTransaction(entry))
	}
	return strings.Join(lines, "\n"), nil
}

func describeTransaction(t models.Transaction) string {
	switch t.Kind {
	case models.KindDeposit:
		return fmt.Sprintf("deposit to %s: %s", t.AccountID, signedAmount(t.Amount))
	case models.KindTransferOut:
		return fmt.Sprintf("transfer from %s to %s: %s", t.AccountID, t.Counterparty, signedAmount(t.Amount))
	case models.KindTransferIn:
		return fmt.Sprintf("transfer to %s from %s: %s", t.AccountID, t.Counterparty, signedAmount(t.Amount))
	default:
		return fmt.Sprintf("%s on %s: %s", t.Kind, t.AccountID, signedAmount(t.Amount))
	}
}

func signedAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
