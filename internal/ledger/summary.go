package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
)

// CounterpartyAmount is one line of a balance summary: a counterparty and the
// absolute amount owed in one direction.
type CounterpartyAmount struct {
	UserID models.UserID   `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// GroupSummary is the per-group view of one user's position.
type GroupSummary struct {
	GroupID        models.GroupID       `json:"group_id"`
	GroupName      string               `json:"group_name"`
	TotalOwed      decimal.Decimal      `json:"total_owed"`
	TotalToReceive decimal.Decimal      `json:"total_to_receive"`
	OwesTo         []CounterpartyAmount `json:"owes_to"`
	GetsFrom       []CounterpartyAmount `json:"gets_from"`
}

// Summarize partitions one balance record into what the user owes and what
// the user is owed. Negative entries become OwesTo lines with the absolute
// amount; positive entries become GetsFrom lines. Zero entries are omitted
// from both. Lines are sorted by counterparty ID for stable output. Read-only.
func Summarize(record *models.BalanceRecord) (owesTo, getsFrom []CounterpartyAmount, totalOwed, totalToReceive decimal.Decimal) {
	owesTo = make([]CounterpartyAmount, 0)
	getsFrom = make([]CounterpartyAmount, 0)
	totalOwed = decimal.Zero
	totalToReceive = decimal.Zero

	if record == nil {
		return
	}

	counterparties := make([]models.UserID, 0, len(record.Balances))
	for c := range record.Balances {
		counterparties = append(counterparties, c)
	}
	sort.Slice(counterparties, func(i, j int) bool { return counterparties[i] < counterparties[j] })

	for _, c := range counterparties {
		amount := record.Balances[c]
		switch {
		case amount.IsNegative():
			abs := amount.Abs()
			owesTo = append(owesTo, CounterpartyAmount{UserID: c, Amount: abs})
			totalOwed = totalOwed.Add(abs)
		case amount.IsPositive():
			getsFrom = append(getsFrom, CounterpartyAmount{UserID: c, Amount: amount})
			totalToReceive = totalToReceive.Add(amount)
		}
	}
	return
}
