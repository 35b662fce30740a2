// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/ledger"
	"github.com/splitvest/splitvest/internal/models"
)

// Store defines the interface for Splitvest storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Mutations that touch pairwise balances (ApplyExpense, ApplySettlement) must
// execute as a single unit of work: either the fact and every half-update
// commit together or nothing does. Not-found lookups return an error wrapping
// ledger.ErrNotFound; retryable write conflicts wrap ledger.ErrConflict.
type Store interface {
	// CreateUser persists a new user. Fails if the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) if no such
	// user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id models.UserID) (*models.User, error)

	// UpdateUser updates a user's name and email.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateGroup persists a new group with its initial member list.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its ordered member list.
	GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error)

	// ListGroupsForUser retrieves all groups of the given kind that the user
	// is a member of.
	ListGroupsForUser(ctx context.Context, userID models.UserID, kind models.GroupKind) ([]*models.Group, error)

	// AddGroupMember appends a user to the group's member list.
	AddGroupMember(ctx context.Context, groupID models.GroupID, userID models.UserID) error

	// RemoveGroupMember removes a user from the group's member list.
	RemoveGroupMember(ctx context.Context, groupID models.GroupID, userID models.UserID) error

	// ApplyExpense persists the expense fact and applies every pairwise delta
	// to the balance records in one transaction. Balance records are created
	// lazily as deltas touch them.
	ApplyExpense(ctx context.Context, expense *models.Expense, deltas []ledger.Delta) error

	// GetExpense retrieves an expense with its share table.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Expense, error)

	// GetBalanceRecord retrieves one user's balance record for a group.
	// Returns (nil, nil) if the record was never created.
	GetBalanceRecord(ctx context.Context, groupID models.GroupID, userID models.UserID) (*models.BalanceRecord, error)

	// ApplySettlement zeroes the debtor's entry for the creditor, adds the
	// settled amount to the creditor's counter-entry, and persists the
	// settlement fact, all in one transaction.
	ApplySettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Settlement, error)

	// CreateInvestment persists a new investment.
	CreateInvestment(ctx context.Context, investment *models.Investment) error

	// GetInvestment retrieves an investment by ID.
	GetInvestment(ctx context.Context, id string) (*models.Investment, error)

	// ListInvestmentsByGroup retrieves a group's investments, newest first.
	ListInvestmentsByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Investment, error)

	// ListInvestments retrieves every investment. Used by the price refresher.
	ListInvestments(ctx context.Context) ([]*models.Investment, error)

	// UpdateInvestmentValue sets an investment's current market value.
	UpdateInvestmentValue(ctx context.Context, id string, currentValue decimal.Decimal) error

	// AddContribution persists a contribution and bumps the investment's
	// total_invested in one transaction.
	AddContribution(ctx context.Context, contribution *models.Contribution) error

	// ListContributions retrieves an investment's contributions, newest first.
	ListContributions(ctx context.Context, investmentID string) ([]*models.Contribution, error)

	// Close releases any resources held by the store.
	Close() error
}
