package models

import "github.com/shopspring/decimal"

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	// SettlementPending is reserved for settlements awaiting confirmation.
	SettlementPending SettlementStatus = "PENDING"
	// SettlementCompleted marks a settlement whose balance entries have been
	// zeroed.
	SettlementCompleted SettlementStatus = "COMPLETED"
)

// Settlement represents a payment between two group members that cleared a
// directed debt. Like Expense, it is an append-only fact: the record is
// written only after the corresponding balance entries were zeroed.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID GroupID

	// FromUserID is the debtor who paid.
	FromUserID UserID

	// ToUserID is the creditor who was paid.
	ToUserID UserID

	// Amount is the debt that was cleared.
	Amount decimal.Decimal

	// Status is PENDING or COMPLETED.
	Status SettlementStatus

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
