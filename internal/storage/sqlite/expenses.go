package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/ledger"
	"github.com/splitvest/splitvest/internal/models"
)

// ApplyExpense persists the expense fact and applies every pairwise delta in
// one transaction. Either the expense and all balance half-updates commit
// together or none do; committing half a pair would break anti-symmetry.
func (s *SQLiteStore) ApplyExpense(ctx context.Context, expense *models.Expense, deltas []ledger.Delta) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, amount, description, split_policy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, string(expense.GroupID), string(expense.PayerID),
		expense.Amount.String(), expense.Description, string(expense.SplitPolicy), expense.CreatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert expense", err)
	}

	for userID, share := range expense.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, share) VALUES (?, ?, ?)",
			expense.ID, string(userID), share.String(),
		)
		if err != nil {
			return wrapWriteErr("insert expense split", err)
		}
	}

	now := time.Now().Unix()
	for _, d := range deltas {
		// Both halves of the pair in the same transaction.
		if err := addToBalance(ctx, tx, expense.GroupID, d.Creditor, d.Debtor, d.Amount, now); err != nil {
			return err
		}
		if err := addToBalance(ctx, tx, expense.GroupID, d.Debtor, d.Creditor, d.Amount.Neg(), now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapWriteErr("commit expense", err)
	}

	return nil
}

// GetExpense retrieves an expense with its share table.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, amount, description, split_policy, created_at
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &amount,
		&expense.Description, &expense.SplitPolicy, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: expense %s", ledger.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if expense.Amount, err = scanDecimal(amount); err != nil {
		return nil, err
	}
	if expense.Shares, err = s.getExpenseShares(ctx, id); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByGroup retrieves a group's expenses, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, amount, description, split_policy, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC`,
		string(groupID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var amount string
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &amount,
			&expense.Description, &expense.SplitPolicy, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if expense.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if expense.Shares, err = s.getExpenseShares(ctx, expense.ID); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

func (s *SQLiteStore) getExpenseShares(ctx context.Context, expenseID string) (map[models.UserID]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, share FROM expense_splits WHERE expense_id = ?",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	shares := make(map[models.UserID]decimal.Decimal)
	for rows.Next() {
		var userID models.UserID
		var raw string
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		if shares[userID], err = scanDecimal(raw); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return shares, nil
}
