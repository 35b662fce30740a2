package models

import "github.com/shopspring/decimal"

// BalanceRecord holds one user's signed pairwise balances within a group.
//
// A positive entry Balances[B] = x means B owes this user x. A negative entry
// means this user owes B. A missing entry is equivalent to zero.
//
// Records are created lazily on first reference and obey the anti-symmetry
// invariant: for every pair {A, B} in a group,
// record(A).Balances[B] == -record(B).Balances[A] at all times. Only the
// ledger updater and the settlement processor may mutate entries.
type BalanceRecord struct {
	GroupID GroupID
	UserID  UserID

	// Balances maps counterparty user ID to the signed amount.
	Balances map[UserID]decimal.Decimal

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}

// Entry returns the signed balance against the given counterparty, treating a
// missing entry as zero.
func (r *BalanceRecord) Entry(counterparty UserID) decimal.Decimal {
	if r == nil || r.Balances == nil {
		return decimal.Zero
	}
	return r.Balances[counterparty]
}
