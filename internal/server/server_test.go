package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/agentbank/teller/internal/ledger"
	"github.com/agentbank/teller/internal/models"
	"github.com/agentbank/teller/internal/storage/memory"
	"github.com/agentbank/teller/internal/tools"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	l := ledger.NewLedger(memory.NewMemoryLedgerStore(), nil, "transfer_completed", false)
	seeds := []ledger.SeedAccount{
		{ID: "1001", Name: "Alice", Balance: decimal.NewFromInt(50000)},
		{ID: "1002", Name: "Bob", Balance: decimal.NewFromInt(30000)},
	}
	if err := l.Seed(context.Background(), seeds); err != nil {
		t.Fatalf("seed: %v", err)
	}
	registry := tools.NewBankRegistry(l, "1001")
	ts := httptest.NewServer(NewServer(l, registry).Router())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON sends a request with a raw JSON body and decodes the response when
// out is non-nil, failing the test on an unexpected status code.
func doJSON(t *testing.T, method, url, body string, wantCode int, out any) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantCode {
		t.Fatalf("code=%d want=%d", resp.StatusCode, wantCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var status map[string]string
	doJSON(t, "GET", ts.URL+"/health", "", http.StatusOK, &status)
	if status["status"] != "ok" {
		t.Fatalf("status=%v", status)
	}
}

func TestListTools(t *testing.T) {
	ts := newTestServer(t)
	var infos []tools.ToolInfo
	doJSON(t, "GET", ts.URL+"/tools", "", http.StatusOK, &infos)
	if len(infos) != 4 {
		t.Fatalf("tools=%d want=4", len(infos))
	}
	if infos[0].Name != "check_balance" {
		t.Fatalf("first tool=%s", infos[0].Name)
	}
}

func TestInvokeToolFlow(t *testing.T) {
	ts := newTestServer(t)

	var res tools.Result
	doJSON(t, "POST", ts.URL+"/tools/check_balance", `{}`, http.StatusOK, &res)
	if !res.Success || !strings.Contains(res.Message, "50000.00") {
		t.Fatalf("check_balance: %+v", res)
	}

	doJSON(t, "POST", ts.URL+"/tools/transfer",
		`{"from_account_id":"1001","to_account_id":"1002","amount":500}`, http.StatusOK, &res)
	if !res.Success {
		t.Fatalf("transfer: %+v", res)
	}

	doJSON(t, "POST", ts.URL+"/tools/check_balance", `{"account_id":"1002"}`, http.StatusOK, &res)
	if !res.Success || !strings.Contains(res.Message, "30500.00") {
		t.Fatalf("balance after transfer: %+v", res)
	}
}

func TestInvokeToolDomainFailureIsStill200(t *testing.T) {
	ts := newTestServer(t)

	var res tools.Result
	doJSON(t, "POST", ts.URL+"/tools/transfer",
		`{"from_account_id":"1001","to_account_id":"1002","amount":999999}`, http.StatusOK, &res)
	if res.Success {
		t.Fatalf("expected failure result: %+v", res)
	}
	if !strings.Contains(res.Message, "insufficient") {
		t.Fatalf("message=%q", res.Message)
	}
}

func TestInvokeUnknownToolIs404(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, "POST", ts.URL+"/tools/open_vault", `{}`, http.StatusNotFound, nil)
}

func TestAccountAndTransactionSnapshots(t *testing.T) {
	ts := newTestServer(t)

	var accounts []models.Account
	doJSON(t, "GET", ts.URL+"/accounts", "", http.StatusOK, &accounts)
	if len(accounts) != 2 || accounts[0].ID != "1001" {
		t.Fatalf("accounts=%+v", accounts)
	}

	var entries []models.Transaction
	doJSON(t, "GET", ts.URL+"/transactions", "", http.StatusOK, &entries)
	if len(entries) != 2 {
		t.Fatalf("entries=%d want=2 (seed deposits)", len(entries))
	}
	for _, entry := range entries {
		if entry.Kind != models.KindDeposit {
			t.Fatalf("entry kind=%s", entry.Kind)
		}
	}
}
