package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
)

// ApplySettlement zeroes the debtor's entry for the creditor, subtracts the
// settled amount from the creditor's counter-entry, and persists the
// settlement fact, all in one transaction. The creditor side is a decrement
// rather than a reset: under anti-symmetry the counter-entry was exactly
// +Amount, so both sides read zero afterwards. The service layer verifies the
// precondition and the mirror before calling this.
func (s *SQLiteStore) ApplySettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	settlement.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setBalance(ctx, tx, settlement.GroupID, settlement.FromUserID, settlement.ToUserID, decimal.Zero, now); err != nil {
		return err
	}
	if err := addToBalance(ctx, tx, settlement.GroupID, settlement.ToUserID, settlement.FromUserID, settlement.Amount.Neg(), now); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, string(settlement.GroupID), string(settlement.FromUserID), string(settlement.ToUserID),
		settlement.Amount.String(), string(settlement.Status), settlement.CreatedAt, settlement.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert settlement", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapWriteErr("commit settlement", err)
	}

	return nil
}

// ListSettlementsByGroup retrieves a group's settlements, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, status, created_at, updated_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC`,
		string(groupID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var amount string
		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
			&amount, &settlement.Status, &settlement.CreatedAt, &settlement.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if settlement.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
