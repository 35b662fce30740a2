package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
)

// Delta is one pairwise adjustment produced by an expense: the debtor owes the
// creditor Amount more than before. Applying a delta always updates both
// sides of the pair as one logical unit; persisting only one half would break
// the anti-symmetry invariant.
type Delta struct {
	Debtor   models.UserID
	Creditor models.UserID
	Amount   decimal.Decimal // always positive
}

// Deltas converts a resolved share table into the pairwise adjustments for an
// expense paid by payerID. The payer's own share is self-funded and produces
// no delta; zero shares are skipped. Members is iterated in group order so the
// result is deterministic.
func Deltas(payerID models.UserID, shares map[models.UserID]decimal.Decimal, members []models.UserID) []Delta {
	deltas := make([]Delta, 0, len(members)-1)
	for _, m := range members {
		if m == payerID {
			continue
		}
		share := shares[m]
		if share.IsZero() {
			continue
		}
		deltas = append(deltas, Delta{Debtor: m, Creditor: payerID, Amount: share})
	}
	return deltas
}

// ApplyDelta mutates the two balance records with both halves of one delta:
// the creditor is owed Amount more by the debtor, and the debtor owes Amount
// more to the creditor. Callers must hold the group's ledger lock.
func ApplyDelta(creditor, debtor *models.BalanceRecord, d Delta) {
	if creditor.Balances == nil {
		creditor.Balances = make(map[models.UserID]decimal.Decimal)
	}
	if debtor.Balances == nil {
		debtor.Balances = make(map[models.UserID]decimal.Decimal)
	}
	creditor.Balances[d.Debtor] = creditor.Balances[d.Debtor].Add(d.Amount)
	debtor.Balances[d.Creditor] = debtor.Balances[d.Creditor].Sub(d.Amount)
}

// CheckMirror verifies the anti-symmetry invariant for the pair (a, b):
// a's entry for b must be the exact negative of b's entry for a. A mismatch
// is reported as ErrInconsistent and must never be silently reconciled.
func CheckMirror(a, b *models.BalanceRecord) error {
	forward := a.Entry(b.UserID)
	mirror := b.Entry(a.UserID)
	if !forward.Add(mirror).IsZero() {
		return fmt.Errorf("%w: balance(%s)[%s]=%s but balance(%s)[%s]=%s",
			ErrInconsistent, a.UserID, b.UserID, forward, b.UserID, a.UserID, mirror)
	}
	return nil
}
