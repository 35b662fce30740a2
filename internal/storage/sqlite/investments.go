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

// CreateInvestment persists a new investment.
func (s *SQLiteStore) CreateInvestment(ctx context.Context, investment *models.Investment) error {
	if investment.ID == "" {
		investment.ID = uuid.New().String()
	}
	if investment.CreatedAt == 0 {
		investment.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO investments (id, group_id, stock_symbol, total_invested, shares_bought, current_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		investment.ID, string(investment.GroupID), investment.StockSymbol,
		investment.TotalInvested.String(), investment.SharesBought.String(),
		investment.CurrentValue.String(), investment.CreatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert investment", err)
	}

	return nil
}

func scanInvestment(scan func(dest ...any) error) (*models.Investment, error) {
	investment := &models.Investment{}
	var totalInvested, sharesBought, currentValue string
	if err := scan(&investment.ID, &investment.GroupID, &investment.StockSymbol,
		&totalInvested, &sharesBought, &currentValue, &investment.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if investment.TotalInvested, err = scanDecimal(totalInvested); err != nil {
		return nil, err
	}
	if investment.SharesBought, err = scanDecimal(sharesBought); err != nil {
		return nil, err
	}
	if investment.CurrentValue, err = scanDecimal(currentValue); err != nil {
		return nil, err
	}

	return investment, nil
}

// GetInvestment retrieves an investment by ID.
func (s *SQLiteStore) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, stock_symbol, total_invested, shares_bought, current_value, created_at
		 FROM investments WHERE id = ?`,
		id,
	)

	investment, err := scanInvestment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: investment %s", ledger.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	return investment, nil
}

func (s *SQLiteStore) listInvestments(ctx context.Context, query string, args ...any) ([]*models.Investment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []*models.Investment
	for rows.Next() {
		investment, err := scanInvestment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, investment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}

	return investments, nil
}

// ListInvestmentsByGroup retrieves a group's investments, newest first.
func (s *SQLiteStore) ListInvestmentsByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Investment, error) {
	return s.listInvestments(ctx,
		`SELECT id, group_id, stock_symbol, total_invested, shares_bought, current_value, created_at
		 FROM investments WHERE group_id = ? ORDER BY created_at DESC`,
		string(groupID),
	)
}

// ListInvestments retrieves every investment. Used by the price refresher.
func (s *SQLiteStore) ListInvestments(ctx context.Context) ([]*models.Investment, error) {
	return s.listInvestments(ctx,
		`SELECT id, group_id, stock_symbol, total_invested, shares_bought, current_value, created_at
		 FROM investments ORDER BY created_at`)
}

// UpdateInvestmentValue sets an investment's current market value.
func (s *SQLiteStore) UpdateInvestmentValue(ctx context.Context, id string, currentValue decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE investments SET current_value = ? WHERE id = ?",
		currentValue.String(), id,
	)
	if err != nil {
		return wrapWriteErr("update investment value", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: investment %s", ledger.ErrNotFound, id)
	}

	return nil
}

// AddContribution persists a contribution and bumps the investment's
// total_invested in one transaction.
func (s *SQLiteStore) AddContribution(ctx context.Context, contribution *models.Contribution) error {
	if contribution.ID == "" {
		contribution.ID = uuid.New().String()
	}
	if contribution.CreatedAt == 0 {
		contribution.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		"SELECT total_invested FROM investments WHERE id = ?",
		contribution.InvestmentID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: investment %s", ledger.ErrNotFound, contribution.InvestmentID)
	}
	if err != nil {
		return fmt.Errorf("failed to read investment total: %w", err)
	}

	total, err := scanDecimal(raw)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO contributions (id, investment_id, user_id, amount, created_at) VALUES (?, ?, ?, ?, ?)",
		contribution.ID, contribution.InvestmentID, string(contribution.UserID),
		contribution.Amount.String(), contribution.CreatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert contribution", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE investments SET total_invested = ? WHERE id = ?",
		total.Add(contribution.Amount).String(), contribution.InvestmentID,
	)
	if err != nil {
		return wrapWriteErr("update investment total", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapWriteErr("commit contribution", err)
	}

	return nil
}

// ListContributions retrieves an investment's contributions, newest first.
func (s *SQLiteStore) ListContributions(ctx context.Context, investmentID string) ([]*models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, investment_id, user_id, amount, created_at
		 FROM contributions WHERE investment_id = ? ORDER BY created_at DESC`,
		investmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		contribution := &models.Contribution{}
		var amount string
		if err := rows.Scan(&contribution.ID, &contribution.InvestmentID, &contribution.UserID,
			&amount, &contribution.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		if contribution.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		contributions = append(contributions, contribution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return contributions, nil
}
