package models

import "github.com/shopspring/decimal"

// Investment represents a pooled stock purchase by an INVESTMENT group.
type Investment struct {
	// ID is the unique identifier for the investment (UUID format).
	ID string

	// GroupID is the group that owns this investment.
	GroupID GroupID

	// StockSymbol is the ticker symbol (e.g. "AAPL").
	StockSymbol string

	// TotalInvested is the sum of all money put in. Grows with contributions.
	TotalInvested decimal.Decimal

	// SharesBought is the number of shares currently held.
	SharesBought decimal.Decimal

	// CurrentValue is the latest market value of the holding, refreshed from
	// the stock price service.
	CurrentValue decimal.Decimal

	// CreatedAt is the Unix timestamp when the investment was created.
	CreatedAt int64
}

// Contribution represents one member's payment into an investment pool.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// InvestmentID is the investment this contribution belongs to.
	InvestmentID string

	// UserID is the contributing member.
	UserID UserID

	// Amount is the contributed amount. Always positive.
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the contribution was recorded.
	CreatedAt int64
}
