// Package server exposes the tool registry and read-only ledger snapshots
// over HTTP. The external reasoning agent POSTs tool invocations; the
// presentation layer reads accounts and history for sidebars.
package server

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentbank/teller/internal/ledger"
	"github.com/agentbank/teller/internal/tools"
)

type Server struct {
	ledger   *ledger.Ledger
	registry *tools.Registry
}

func NewServer(l *ledger.Ledger, registry *tools.Registry) *Server {
	return &Server{ledger: l, registry: registry}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.health)
	r.Get("/tools", s.listTools)
	r.Post("/tools/{name}", s.invokeTool)
	r.Get("/accounts", s.listAccounts)
	r.Get("/transactions", s.listTransactions)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listTools publishes the tool contract the agent configures against.
func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

// invokeTool runs one tool. Domain failures still answer 200: the failure
// is inside the Result, and the agent relays it conversationally. Only an
// unknown tool name is an HTTP-level error.
func (s *Server) invokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.registry.Lookup(name); !ok {
		http.Error(w, "unknown tool: "+name, http.StatusNotFound)
		return
	}

	args, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, s.registry.Invoke(r.Context(), name, args))
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.ListAccounts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.History()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
