package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/agentbank/teller/internal/config"
	"github.com/agentbank/teller/internal/events/kafka"
	"github.com/agentbank/teller/internal/interfaces"
	"github.com/agentbank/teller/internal/ledger"
	"github.com/agentbank/teller/internal/server"
	"github.com/agentbank/teller/internal/storage/memory"
	"github.com/agentbank/teller/internal/tools"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var store interfaces.LedgerStore = memory.NewMemoryLedgerStore()

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
		log.Printf("publishing %s events to %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	ledgerService := ledger.NewLedger(store, publisher, cfg.KafkaTopic, cfg.AllowSelfTransfer)

	seeds := make([]ledger.SeedAccount, 0, len(cfg.SeedAccounts))
	for _, seed := range cfg.SeedAccounts {
		seeds = append(seeds, ledger.SeedAccount{ID: seed.ID, Name: seed.Name, Balance: seed.Balance})
	}
	if err := ledgerService.Seed(context.Background(), seeds); err != nil {
		log.Fatalf("seed ledger: %v", err)
	}

	registry := tools.NewBankRegistry(ledgerService, cfg.DefaultAccountID)
	srv := server.NewServer(ledgerService, registry)

	log.Printf("starting server on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, srv.Router()))
}
