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

var (
	// ErrAlreadyMember means the user is already in the group.
	ErrAlreadyMember = errors.New("user already in group")
	// ErrInvalidKind means the group kind is not EXPENSE or INVESTMENT.
	ErrInvalidKind = errors.New("invalid group kind")
)

// GroupService manages group membership and group-level reads.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group with the admin as its first member.
// The kind is fixed at creation and never changes.
func (s *GroupService) CreateGroup(ctx context.Context, name string, kind models.GroupKind, adminID models.UserID) (*models.Group, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if _, err := s.store.GetUserByID(ctx, adminID); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:    name,
		Kind:    kind,
		AdminID: adminID,
		Members: []models.UserID{adminID},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "kind", kind, "admin_id", adminID)
	return group, nil
}

// GetGroup retrieves a group with its ordered member list.
func (s *GroupService) GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// AddMemberByEmail adds a registered user to the group by their email address.
func (s *GroupService) AddMemberByEmail(ctx context.Context, groupID models.GroupID, email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user with email %s", ledger.ErrNotFound, email)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(user.ID) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyMember, user.ID)
	}

	if err := s.store.AddGroupMember(ctx, groupID, user.ID); err != nil {
		return nil, err
	}

	slog.Info("Member added", "group_id", groupID, "user_id", user.ID)
	return user, nil
}

// RemoveMember removes a user from the group.
func (s *GroupService) RemoveMember(ctx context.Context, groupID models.GroupID, userID models.UserID) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return fmt.Errorf("%w: user %s in group %s", ledger.ErrNotFound, userID, groupID)
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return err
	}

	slog.Info("Member removed", "group_id", groupID, "user_id", userID)
	return nil
}

// ListExpenses retrieves a group's expenses, newest first.
func (s *GroupService) ListExpenses(ctx context.Context, groupID models.GroupID) ([]*models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// ListSettlements retrieves a group's settlements, newest first.
func (s *GroupService) ListSettlements(ctx context.Context, groupID models.GroupID) ([]*models.Settlement, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

// GroupReport is the group-level financial summary.
type GroupReport struct {
	GroupID          models.GroupID  `json:"group_id"`
	GroupName        string          `json:"group_name"`
	Members          []models.UserID `json:"members"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalInvestments decimal.Decimal `json:"total_investments"`
}

// GetReport sums a group's expenses and investments.
func (s *GroupService) GetReport(ctx context.Context, groupID models.GroupID) (*GroupReport, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	totalExpenses := decimal.Zero
	for _, expense := range expenses {
		totalExpenses = totalExpenses.Add(expense.Amount)
	}

	investments, err := s.store.ListInvestmentsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	totalInvestments := decimal.Zero
	for _, investment := range investments {
		totalInvestments = totalInvestments.Add(investment.TotalInvested)
	}

	return &GroupReport{
		GroupID:          group.ID,
		GroupName:        group.Name,
		Members:          group.Members,
		TotalExpenses:    totalExpenses,
		TotalInvestments: totalInvestments,
	}, nil
}
