package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/middleware"
	"github.com/splitvest/splitvest/internal/models"
)

type investmentResponse struct {
	ID            string          `json:"id"`
	GroupID       models.GroupID  `json:"group_id"`
	StockSymbol   string          `json:"stock_symbol"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	SharesBought  decimal.Decimal `json:"shares_bought"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	CreatedAt     int64           `json:"created_at"`
}

func toInvestmentResponse(investment *models.Investment) investmentResponse {
	return investmentResponse{
		ID:            investment.ID,
		GroupID:       investment.GroupID,
		StockSymbol:   investment.StockSymbol,
		TotalInvested: investment.TotalInvested,
		SharesBought:  investment.SharesBought,
		CurrentValue:  investment.CurrentValue,
		CreatedAt:     investment.CreatedAt,
	}
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID       models.GroupID  `json:"group_id"`
		StockSymbol   string          `json:"stock_symbol"`
		AmountPerUser decimal.Decimal `json:"amount_per_user"`
		SharesBought  decimal.Decimal `json:"shares_bought"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	investment, err := s.investmentService.CreateInvestment(r.Context(),
		req.GroupID, req.StockSymbol, req.AmountPerUser, req.SharesBought)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvestmentResponse(investment))
}

func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	investment, err := s.investmentService.GetInvestment(r.Context(), r.PathValue("investmentID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentResponse(investment))
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := s.investmentService.ListGroupInvestments(r.Context(), models.GroupID(r.PathValue("groupID")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]investmentResponse, 0, len(investments))
	for _, investment := range investments {
		resp = append(resp, toInvestmentResponse(investment))
	}
	writeJSON(w, http.StatusOK, resp)
}

type contributionResponse struct {
	ID           string          `json:"id"`
	InvestmentID string          `json:"investment_id"`
	UserID       models.UserID   `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    int64           `json:"created_at"`
}

func (s *Server) handleAddContribution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	contribution, err := s.investmentService.AddContribution(r.Context(),
		r.PathValue("investmentID"), middleware.GetUserID(r.Context()), req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contributionResponse{
		ID:           contribution.ID,
		InvestmentID: contribution.InvestmentID,
		UserID:       contribution.UserID,
		Amount:       contribution.Amount,
		CreatedAt:    contribution.CreatedAt,
	})
}

func (s *Server) handleListContributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := s.investmentService.ListContributions(r.Context(), r.PathValue("investmentID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]contributionResponse, 0, len(contributions))
	for _, contribution := range contributions {
		resp = append(resp, contributionResponse{
			ID:           contribution.ID,
			InvestmentID: contribution.InvestmentID,
			UserID:       contribution.UserID,
			Amount:       contribution.Amount,
			CreatedAt:    contribution.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInvestmentReturns(w http.ResponseWriter, r *http.Request) {
	performance, err := s.investmentService.GetPerformance(r.Context(), r.PathValue("investmentID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, performance)
}

func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	price, err := s.prices.GetPrice(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Symbol string          `json:"symbol"`
		Price  decimal.Decimal `json:"price"`
	}{Symbol: symbol, Price: price})
}
