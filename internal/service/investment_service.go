package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/ledger"
	"github.com/splitvest/splitvest/internal/models"
	"github.com/splitvest/splitvest/internal/storage"
)

// ErrInvalidInvestment means the investment request failed validation.
var ErrInvalidInvestment = errors.New("invalid investment")

// InvestmentService manages pooled stock purchases for INVESTMENT groups.
type InvestmentService struct {
	store storage.Store
}

// NewInvestmentService creates a new InvestmentService with the given storage
// backend.
func NewInvestmentService(store storage.Store) *InvestmentService {
	return &InvestmentService{store: store}
}

// CreateInvestment records a pooled stock purchase. Every group member puts in
// amountPerUser, so the initial total is amountPerUser times the member count.
func (s *InvestmentService) CreateInvestment(ctx context.Context, groupID models.GroupID, symbol string, amountPerUser, sharesBought decimal.Decimal) (*models.Investment, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Kind != models.GroupInvestment {
		return nil, fmt.Errorf("%w: group %s is not an investment group", ErrInvalidInvestment, groupID)
	}
	if symbol == "" {
		return nil, fmt.Errorf("%w: stock symbol is required", ErrInvalidInvestment)
	}
	if !amountPerUser.IsPositive() {
		return nil, fmt.Errorf("%w: amount per user must be positive, got %s", ErrInvalidInvestment, amountPerUser)
	}
	if sharesBought.IsNegative() {
		return nil, fmt.Errorf("%w: shares bought must not be negative, got %s", ErrInvalidInvestment, sharesBought)
	}

	memberCount := decimal.NewFromInt(int64(len(group.Members)))
	investment := &models.Investment{
		GroupID:       groupID,
		StockSymbol:   symbol,
		TotalInvested: amountPerUser.Mul(memberCount),
		SharesBought:  sharesBought,
	}
	if err := s.store.CreateInvestment(ctx, investment); err != nil {
		return nil, err
	}

	slog.Info("Investment created",
		"investment_id", investment.ID,
		"group_id", groupID,
		"symbol", symbol,
		"total_invested", investment.TotalInvested)
	return investment, nil
}

// GetInvestment retrieves an investment by ID.
func (s *InvestmentService) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	return s.store.GetInvestment(ctx, id)
}

// ListGroupInvestments retrieves a group's investments, newest first.
func (s *InvestmentService) ListGroupInvestments(ctx context.Context, groupID models.GroupID) ([]*models.Investment, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListInvestmentsByGroup(ctx, groupID)
}

// AddContribution records an additional payment by a group member into an
// existing investment. The investment's total grows by the amount.
func (s *InvestmentService) AddContribution(ctx context.Context, investmentID string, userID models.UserID, amount decimal.Decimal) (*models.Contribution, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: contribution must be positive, got %s", ErrInvalidInvestment, amount)
	}

	investment, err := s.store.GetInvestment(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, investment.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, fmt.Errorf("%w: user %s is not a member of group %s", ledger.ErrNotFound, userID, group.ID)
	}

	contribution := &models.Contribution{
		InvestmentID: investmentID,
		UserID:       userID,
		Amount:       amount,
	}
	if err := s.store.AddContribution(ctx, contribution); err != nil {
		return nil, err
	}

	slog.Info("Contribution recorded",
		"investment_id", investmentID,
		"user_id", userID,
		"amount", amount)
	return contribution, nil
}

// ListContributions retrieves an investment's contributions, newest first.
func (s *InvestmentService) ListContributions(ctx context.Context, investmentID string) ([]*models.Contribution, error) {
	if _, err := s.store.GetInvestment(ctx, investmentID); err != nil {
		return nil, err
	}
	return s.store.ListContributions(ctx, investmentID)
}

// InvestmentPerformance reports how an investment is doing against what was
// put in.
type InvestmentPerformance struct {
	InvestmentID  string          `json:"investment_id"`
	StockSymbol   string          `json:"stock_symbol"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	GainLoss      decimal.Decimal `json:"gain_loss"`
}

// GetPerformance computes gain or loss for a single investment.
func (s *InvestmentService) GetPerformance(ctx context.Context, investmentID string) (*InvestmentPerformance, error) {
	investment, err := s.store.GetInvestment(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	return &InvestmentPerformance{
		InvestmentID:  investment.ID,
		StockSymbol:   investment.StockSymbol,
		TotalInvested: investment.TotalInvested,
		CurrentValue:  investment.CurrentValue,
		GainLoss:      investment.CurrentValue.Sub(investment.TotalInvested),
	}, nil
}
