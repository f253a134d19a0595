package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds everything the process reads from the environment. The seed
// accounts are configuration, not runtime input: the ledger starts from them
// on every boot and nothing persists across restarts.
type Config struct {
	ListenAddr        string
	DefaultAccountID  string
	AllowSelfTransfer bool
	SeedAccounts      []SeedAccount
	KafkaBrokers      []string // empty means events are disabled
	KafkaTopic        string
}

// SeedAccount is one id:name:balance triple from SEED_ACCOUNTS.
type SeedAccount struct {
	ID      string
	Name    string
	Balance decimal.Decimal
}

const defaultSeedAccounts = "1001:Alice:50000,1002:Bob:30000,1003:Carol:20000"

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		DefaultAccountID: getEnv("DEFAULT_ACCOUNT_ID", "1001"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "transfer_completed"),
	}

	allowSelf, err := strconv.ParseBool(getEnv("ALLOW_SELF_TRANSFER", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOW_SELF_TRANSFER: %w", err)
	}
	cfg.AllowSelfTransfer = allowSelf

	seeds, err := parseSeedAccounts(getEnv("SEED_ACCOUNTS", defaultSeedAccounts))
	if err != nil {
		return nil, err
	}
	cfg.SeedAccounts = seeds

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	return cfg, nil
}

// parseSeedAccounts parses "id:name:balance" triples separated by commas.
// Balances must be positive: the ledger never creates an account that would
// start at or below zero.
func parseSeedAccounts(raw string) ([]SeedAccount, error) {
	var seeds []SeedAccount
	seen := make(map[string]bool)
	for _, triple := range strings.Split(raw, ",") {
		triple = strings.TrimSpace(triple)
		if triple == "" {
			continue
		}
		parts := strings.Split(triple, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid seed account %q: want id:name:balance", triple)
		}
		id := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		balance, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("invalid seed balance in %q: %w", triple, err)
		}
		if id == "" || name == "" {
			return nil, fmt.Errorf("invalid seed account %q: empty id or name", triple)
		}
		if !balance.IsPositive() {
			return nil, fmt.Errorf("invalid seed account %q: balance must be positive", triple)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate seed account id %q", id)
		}
		seen[id] = true
		seeds = append(seeds, SeedAccount{ID: id, Name: name, Balance: balance})
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seed accounts configured")
	}
	return seeds, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
