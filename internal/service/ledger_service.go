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

// maxWriteRetries bounds how often a conflicting ledger write is re-executed
// before ErrConflict surfaces to the caller.
const maxWriteRetries = 3

// LedgerService owns all balance mutations and reads: expense application,
// settlement, and summary aggregation. It is the only component that writes
// pairwise balances.
type LedgerService struct {
	store storage.Store
	locks *groupLocks
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{
		store: store,
		locks: newGroupLocks(),
	}
}

// withRetry re-executes op while it fails with a retryable conflict.
// Validation errors are deterministic and surface immediately.
func withRetry(op func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteRetries; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, ledger.ErrConflict) {
			return err
		}
		slog.Warn("Ledger write conflict, retrying", "attempt", attempt)
	}
	return err
}

// ApplyExpense validates and records one expense, applying its pairwise
// deltas to the group's balances as a single unit of work.
func (s *LedgerService) ApplyExpense(
	ctx context.Context,
	groupID models.GroupID,
	payerID models.UserID,
	amount decimal.Decimal,
	description string,
	policy models.SplitPolicy,
	custom map[models.UserID]decimal.Decimal,
) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(payerID) {
		return nil, fmt.Errorf("%w: %s in group %s", ledger.ErrInvalidPayer, payerID, groupID)
	}

	shares, err := ledger.ResolveSplit(amount, policy, group.Members, custom)
	if err != nil {
		return nil, err
	}
	deltas := ledger.Deltas(payerID, shares, group.Members)

	expense := &models.Expense{
		GroupID:     groupID,
		PayerID:     payerID,
		Amount:      amount,
		Description: description,
		SplitPolicy: policy,
		Shares:      shares,
	}

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	if err := withRetry(func() error { return s.store.ApplyExpense(ctx, expense, deltas) }); err != nil {
		slog.Error("ApplyExpense failed", "group_id", groupID, "payer_id", payerID, "error", err)
		return nil, err
	}

	slog.Info("Expense applied",
		"expense_id", expense.ID,
		"group_id", groupID,
		"payer_id", payerID,
		"amount", amount,
		"policy", policy,
		"pairs", len(deltas),
	)
	return expense, nil
}

// GetExpense retrieves one expense fact with its share table.
func (s *LedgerService) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// Settle zeroes the directed debt from debtor to creditor and records a
// COMPLETED settlement. It touches only the single pair being settled.
func (s *LedgerService) Settle(
	ctx context.Context,
	groupID models.GroupID,
	fromUserID, toUserID models.UserID,
) (*models.Settlement, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	var settlement *models.Settlement
	err := withRetry(func() error {
		// Re-read both records on every attempt: the settled amount depends
		// on the state the write will actually apply to.
		fromRecord, err := s.store.GetBalanceRecord(ctx, groupID, fromUserID)
		if err != nil {
			return err
		}
		toRecord, err := s.store.GetBalanceRecord(ctx, groupID, toUserID)
		if err != nil {
			return err
		}
		if fromRecord == nil || toRecord == nil {
			return fmt.Errorf("%w: balance records for %s and %s in group %s",
				ledger.ErrNotFound, fromUserID, toUserID, groupID)
		}

		owed := fromRecord.Entry(toUserID)
		if owed.GreaterThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: %s owes %s nothing (balance %s)",
				ledger.ErrNoDebtToSettle, fromUserID, toUserID, owed)
		}
		// A broken mirror must surface, never be papered over by settling.
		if err := ledger.CheckMirror(fromRecord, toRecord); err != nil {
			return err
		}

		settlement = &models.Settlement{
			GroupID:    groupID,
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Amount:     owed.Abs(),
			Status:     models.SettlementCompleted,
		}
		return s.store.ApplySettlement(ctx, settlement)
	})
	if err != nil {
		slog.Error("Settle failed", "group_id", groupID, "from", fromUserID, "to", toUserID, "error", err)
		return nil, err
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", groupID,
		"from", fromUserID,
		"to", toUserID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// UserSummary is one user's position across all their expense groups.
type UserSummary struct {
	UserID models.UserID         `json:"user_id"`
	Name   string                `json:"name"`
	Groups []ledger.GroupSummary `json:"groups"`
}

// GetUserSummary aggregates the user's balance records across every EXPENSE
// group they belong to. Read-only.
func (s *LedgerService) GetUserSummary(ctx context.Context, userID models.UserID) (*UserSummary, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID, models.GroupExpense)
	if err != nil {
		return nil, err
	}

	summary := &UserSummary{
		UserID: userID,
		Name:   user.Name,
		Groups: make([]ledger.GroupSummary, 0, len(groups)),
	}
	for _, group := range groups {
		record, err := s.store.GetBalanceRecord(ctx, group.ID, userID)
		if err != nil {
			return nil, err
		}
		owesTo, getsFrom, totalOwed, totalToReceive := ledger.Summarize(record)
		summary.Groups = append(summary.Groups, ledger.GroupSummary{
			GroupID:        group.ID,
			GroupName:      group.Name,
			TotalOwed:      totalOwed,
			TotalToReceive: totalToReceive,
			OwesTo:         owesTo,
			GetsFrom:       getsFrom,
		})
	}

	return summary, nil
}

// GetGroupSummary is the single-group view of one member's position.
func (s *LedgerService) GetGroupSummary(ctx context.Context, groupID models.GroupID, userID models.UserID) (*ledger.GroupSummary, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	record, err := s.store.GetBalanceRecord(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	owesTo, getsFrom, totalOwed, totalToReceive := ledger.Summarize(record)

	return &ledger.GroupSummary{
		GroupID:        group.ID,
		GroupName:      group.Name,
		TotalOwed:      totalOwed,
		TotalToReceive: totalToReceive,
		OwesTo:         owesTo,
		GetsFrom:       getsFrom,
	}, nil
}
