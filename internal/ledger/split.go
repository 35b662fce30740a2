// Package ledger implements the pairwise balance-ledger core: split
// resolution, pairwise delta derivation, summary aggregation and the
// anti-symmetry consistency check. All functions are pure; persistence and
// locking live in the service and storage layers.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
)

// splitEpsilon is the tolerance when checking that custom shares sum to the
// expense amount.
var splitEpsilon = decimal.New(1, -6) // 1e-6

// ResolveSplit computes each member's owed share of an expense.
//
// EQUAL: share = amount / memberCount for every member, payer included. The
// payer's own share stays with the payer and is never debited to anyone.
//
// CUSTOM: custom supplies member→share; every key must be a current member and
// the values must sum to amount within splitEpsilon. Members absent from
// custom owe nothing.
//
// The returned map covers every group member. No side effects.
func ResolveSplit(
	amount decimal.Decimal,
	policy models.SplitPolicy,
	members []models.UserID,
	custom map[models.UserID]decimal.Decimal,
) (map[models.UserID]decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidSplit, amount)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: group has no members", ErrInvalidSplit)
	}

	shares := make(map[models.UserID]decimal.Decimal, len(members))

	switch policy {
	case models.SplitEqual:
		share := amount.Div(decimal.NewFromInt(int64(len(members))))
		for _, m := range members {
			shares[m] = share
		}

	case models.SplitCustom:
		memberSet := make(map[models.UserID]bool, len(members))
		for _, m := range members {
			memberSet[m] = true
			shares[m] = decimal.Zero
		}

		sum := decimal.Zero
		for userID, share := range custom {
			if !memberSet[userID] {
				return nil, fmt.Errorf("%w: %s is not a member of the group", ErrInvalidSplit, userID)
			}
			if share.IsNegative() {
				return nil, fmt.Errorf("%w: share for %s is negative", ErrInvalidSplit, userID)
			}
			shares[userID] = share
			sum = sum.Add(share)
		}
		if sum.Sub(amount).Abs().GreaterThan(splitEpsilon) {
			return nil, fmt.Errorf("%w: shares sum to %s, expense amount is %s", ErrInvalidSplit, sum, amount)
		}

	default:
		return nil, fmt.Errorf("%w: unknown split policy %q", ErrInvalidSplit, policy)
	}

	return shares, nil
}
