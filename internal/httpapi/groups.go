package httpapi

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/middleware"
	"github.com/splitvest/splitvest/internal/models"
)

type groupResponse struct {
	ID        models.GroupID   `json:"id"`
	Name      string           `json:"name"`
	Kind      models.GroupKind `json:"kind"`
	AdminID   models.UserID    `json:"admin_id"`
	Members   []models.UserID  `json:"members"`
	CreatedAt int64            `json:"created_at"`
}

func toGroupResponse(group *models.Group) groupResponse {
	return groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		Kind:      group.Kind,
		AdminID:   group.AdminID,
		Members:   group.Members,
		CreatedAt: group.CreatedAt,
	}
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string           `json:"name"`
		Kind models.GroupKind `json:"kind"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("group name is required"))
		return
	}

	group, err := s.groupService.CreateGroup(r.Context(), req.Name, req.Kind, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groupService.GetGroup(r.Context(), models.GroupID(r.PathValue("groupID")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.groupService.AddMemberByEmail(r.Context(), models.GroupID(r.PathValue("groupID")), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	err := s.groupService.RemoveMember(r.Context(),
		models.GroupID(r.PathValue("groupID")), models.UserID(r.PathValue("userID")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type expenseResponse struct {
	ID          string                            `json:"id"`
	GroupID     models.GroupID                    `json:"group_id"`
	PayerID     models.UserID                     `json:"payer_id"`
	Amount      decimal.Decimal                   `json:"amount"`
	Description string                            `json:"description"`
	SplitPolicy models.SplitPolicy                `json:"split_policy"`
	Shares      map[models.UserID]decimal.Decimal `json:"shares"`
	CreatedAt   int64                             `json:"created_at"`
}

func toExpenseResponse(expense *models.Expense) expenseResponse {
	return expenseResponse{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		PayerID:     expense.PayerID,
		Amount:      expense.Amount,
		Description: expense.Description,
		SplitPolicy: expense.SplitPolicy,
		Shares:      expense.Shares,
		CreatedAt:   expense.CreatedAt,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.groupService.ListExpenses(r.Context(), models.GroupID(r.PathValue("groupID")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		resp = append(resp, toExpenseResponse(expense))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID     models.GroupID                    `json:"group_id"`
		PayerID     models.UserID                     `json:"payer_id"`
		Amount      decimal.Decimal                   `json:"amount"`
		Description string                            `json:"description"`
		SplitPolicy models.SplitPolicy                `json:"split_policy"`
		Shares      map[models.UserID]decimal.Decimal `json:"shares"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PayerID == "" {
		req.PayerID = middleware.GetUserID(r.Context())
	}

	expense, err := s.ledgerService.ApplyExpense(r.Context(),
		req.GroupID, req.PayerID, req.Amount, req.Description, req.SplitPolicy, req.Shares)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.ledgerService.GetExpense(r.Context(), r.PathValue("expenseID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

type settlementResponse struct {
	ID         string                  `json:"id"`
	GroupID    models.GroupID          `json:"group_id"`
	FromUserID models.UserID           `json:"from_user_id"`
	ToUserID   models.UserID           `json:"to_user_id"`
	Amount     decimal.Decimal         `json:"amount"`
	Status     models.SettlementStatus `json:"status"`
	CreatedAt  int64                   `json:"created_at"`
}

func toSettlementResponse(settlement *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:         settlement.ID,
		GroupID:    settlement.GroupID,
		FromUserID: settlement.FromUserID,
		ToUserID:   settlement.ToUserID,
		Amount:     settlement.Amount,
		Status:     settlement.Status,
		CreatedAt:  settlement.CreatedAt,
	}
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID    models.GroupID `json:"group_id"`
		FromUserID models.UserID  `json:"from_user_id"`
		ToUserID   models.UserID  `json:"to_user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FromUserID == "" {
		req.FromUserID = middleware.GetUserID(r.Context())
	}

	settlement, err := s.ledgerService.Settle(r.Context(), req.GroupID, req.FromUserID, req.ToUserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.groupService.ListSettlements(r.Context(), models.GroupID(r.PathValue("groupID")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]settlementResponse, 0, len(settlements))
	for _, settlement := range settlements {
		resp = append(resp, toSettlementResponse(settlement))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledgerService.GetGroupSummary(r.Context(),
		models.GroupID(r.PathValue("groupID")), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGroupReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.groupService.GetReport(r.Context(), models.GroupID(r.PathValue("groupID")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
