package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedArguments marks tool input the dispatch layer could not make
// sense of. It lives here rather than in models because it is a boundary
// problem, not a ledger one.
var ErrMalformedArguments = errors.New("malformed tool arguments")

// parseLegacyTransfer handles the loosely-structured transfer input kept
// for free-text-driven callers: a single "receiver,amount" string. Fields
// are trimmed and the amount coerced to a decimal; anything else fails with
// a message the agent can relay verbatim.
func parseLegacyTransfer(input string) (receiver string, amount decimal.Decimal, err error) {
	parts := strings.SplitN(input, ",", 2)
	if len(parts) < 2 {
		return "", decimal.Zero, fmt.Errorf("%w: expected \"receiver,amount\", got %q", ErrMalformedArguments, input)
	}
	receiver = strings.TrimSpace(parts[0])
	if receiver == "" {
		return "", decimal.Zero, fmt.Errorf("%w: receiver is empty in %q", ErrMalformedArguments, input)
	}
	amount, aerr := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if aerr != nil {
		return "", decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrMalformedArguments, strings.TrimSpace(parts[1]))
	}
	return receiver, amount, nil
}
