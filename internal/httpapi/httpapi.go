// Package httpapi exposes the service layer over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitvest/splitvest/internal/auth"
	"github.com/splitvest/splitvest/internal/ledger"
	"github.com/splitvest/splitvest/internal/middleware"
	"github.com/splitvest/splitvest/internal/service"
	"github.com/splitvest/splitvest/internal/stocks"
)

// Server wires the services into HTTP handlers.
type Server struct {
	authService       *service.AuthService
	groupService      *service.GroupService
	ledgerService     *service.LedgerService
	investmentService *service.InvestmentService
	prices            stocks.PriceGetter
	jwtManager        *auth.JWTManager
}

// NewServer creates the HTTP API server over the given services.
func NewServer(
	authService *service.AuthService,
	groupService *service.GroupService,
	ledgerService *service.LedgerService,
	investmentService *service.InvestmentService,
	prices stocks.PriceGetter,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		authService:       authService,
		groupService:      groupService,
		ledgerService:     ledgerService,
		investmentService: investmentService,
		prices:            prices,
		jwtManager:        jwtManager,
	}
}

// Routes builds the full route table. Register and login are public;
// everything else requires a Bearer token.
func (s *Server) Routes() http.Handler {
	requireAuth := middleware.RequireAuth(s.jwtManager, writeError)
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/users/login", s.handleLogin)
	mux.Handle("GET /api/users/me", authed(s.handleGetProfile))
	mux.Handle("PUT /api/users/me", authed(s.handleUpdateProfile))
	mux.Handle("GET /api/users/summary", authed(s.handleUserSummary))

	mux.Handle("POST /api/groups", authed(s.handleCreateGroup))
	mux.Handle("GET /api/groups/{groupID}", authed(s.handleGetGroup))
	mux.Handle("POST /api/groups/{groupID}/members", authed(s.handleAddMember))
	mux.Handle("DELETE /api/groups/{groupID}/members/{userID}", authed(s.handleRemoveMember))
	mux.Handle("GET /api/groups/{groupID}/expenses", authed(s.handleListExpenses))
	mux.Handle("GET /api/groups/{groupID}/settlements", authed(s.handleListSettlements))
	mux.Handle("GET /api/groups/{groupID}/summary", authed(s.handleGroupSummary))
	mux.Handle("GET /api/groups/{groupID}/report", authed(s.handleGroupReport))
	mux.Handle("GET /api/groups/{groupID}/investments", authed(s.handleListInvestments))

	mux.Handle("POST /api/expenses", authed(s.handleCreateExpense))
	mux.Handle("GET /api/expenses/{expenseID}", authed(s.handleGetExpense))
	mux.Handle("POST /api/settlements", authed(s.handleSettle))

	mux.Handle("POST /api/investments", authed(s.handleCreateInvestment))
	mux.Handle("GET /api/investments/{investmentID}", authed(s.handleGetInvestment))
	mux.Handle("POST /api/investments/{investmentID}/contributions", authed(s.handleAddContribution))
	mux.Handle("GET /api/investments/{investmentID}/contributions", authed(s.handleListContributions))
	mux.Handle("GET /api/investments/{investmentID}/returns", authed(s.handleInvestmentReturns))

	mux.Handle("GET /api/stocks/{symbol}/price", authed(s.handleStockPrice))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, ledger.ErrInvalidPayer),
		errors.Is(err, ledger.ErrInvalidSplit),
		errors.Is(err, ledger.ErrNoDebtToSettle),
		errors.Is(err, service.ErrInvalidKind),
		errors.Is(err, service.ErrInvalidInvestment),
		errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, ledger.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, stocks.ErrPriceUnavailable):
		writeError(w, http.StatusBadGateway, err)
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}
