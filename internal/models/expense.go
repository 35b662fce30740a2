package models

import "github.com/shopspring/decimal"

// SplitPolicy determines how an expense amount is divided among group members.
type SplitPolicy string

const (
	// SplitEqual divides the amount uniformly among all members, payer included.
	SplitEqual SplitPolicy = "EQUAL"
	// SplitCustom uses caller-provided per-member shares that must sum to the
	// expense amount.
	SplitCustom SplitPolicy = "CUSTOM"
)

// Valid reports whether p is a known split policy.
func (p SplitPolicy) Valid() bool {
	return p == SplitEqual || p == SplitCustom
}

// Expense represents a shared expense paid by one group member.
// An expense is an immutable fact: once created it is never edited or deleted,
// and the pairwise balances it produced are only ever undone by settlements.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID GroupID

	// PayerID is the member who paid the full amount up front.
	PayerID UserID

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal

	// Description is a short human-readable note (e.g. "Groceries").
	Description string

	// SplitPolicy is EQUAL or CUSTOM.
	SplitPolicy SplitPolicy

	// Shares maps every group member to their owed share of the amount.
	// Shares sum to Amount. The payer's own share is self-funded and never
	// debited to anyone.
	Shares map[UserID]decimal.Decimal

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
