package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
)

// addToBalance adds delta to the (group, user, counterparty) entry inside tx,
// creating the row lazily. The read-modify-write is safe because callers hold
// the group's ledger lock and the whole mutation runs in one transaction.
func addToBalance(ctx context.Context, tx *sql.Tx, groupID models.GroupID,
	userID, counterparty models.UserID, delta decimal.Decimal, now int64) error {

	var raw string
	err := tx.QueryRowContext(ctx,
		"SELECT amount FROM balances WHERE group_id = ? AND user_id = ? AND counterparty_id = ?",
		string(groupID), string(userID), string(counterparty),
	).Scan(&raw)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			"INSERT INTO balances (group_id, user_id, counterparty_id, amount, updated_at) VALUES (?, ?, ?, ?, ?)",
			string(groupID), string(userID), string(counterparty), delta.String(), now,
		)
		return wrapWriteErr("insert balance entry", err)

	case err != nil:
		return fmt.Errorf("failed to read balance entry: %w", err)

	default:
		current, err := scanDecimal(raw)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE balances SET amount = ?, updated_at = ? WHERE group_id = ? AND user_id = ? AND counterparty_id = ?",
			current.Add(delta).String(), now, string(groupID), string(userID), string(counterparty),
		)
		return wrapWriteErr("update balance entry", err)
	}
}

// setBalance overwrites the (group, user, counterparty) entry inside tx.
func setBalance(ctx context.Context, tx *sql.Tx, groupID models.GroupID,
	userID, counterparty models.UserID, amount decimal.Decimal, now int64) error {

	res, err := tx.ExecContext(ctx,
		"UPDATE balances SET amount = ?, updated_at = ? WHERE group_id = ? AND user_id = ? AND counterparty_id = ?",
		amount.String(), now, string(groupID), string(userID), string(counterparty),
	)
	if err != nil {
		return wrapWriteErr("set balance entry", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update result: %w", err)
	}
	if affected == 0 {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO balances (group_id, user_id, counterparty_id, amount, updated_at) VALUES (?, ?, ?, ?, ?)",
			string(groupID), string(userID), string(counterparty), amount.String(), now,
		)
		return wrapWriteErr("insert balance entry", err)
	}

	return nil
}

// GetBalanceRecord retrieves one user's balance record for a group.
// Records are created lazily, so (nil, nil) means the user has never been
// party to an expense or settlement in this group.
func (s *SQLiteStore) GetBalanceRecord(ctx context.Context, groupID models.GroupID, userID models.UserID) (*models.BalanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT counterparty_id, amount, updated_at FROM balances WHERE group_id = ? AND user_id = ?",
		string(groupID), string(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance record: %w", err)
	}
	defer rows.Close()

	var record *models.BalanceRecord
	for rows.Next() {
		var counterparty models.UserID
		var raw string
		var updatedAt int64
		if err := rows.Scan(&counterparty, &raw, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}

		if record == nil {
			record = &models.BalanceRecord{
				GroupID:  groupID,
				UserID:   userID,
				Balances: make(map[models.UserID]decimal.Decimal),
			}
		}
		if record.Balances[counterparty], err = scanDecimal(raw); err != nil {
			return nil, err
		}
		if updatedAt > record.UpdatedAt {
			record.UpdatedAt = updatedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance entries: %w", err)
	}

	return record, nil
}
