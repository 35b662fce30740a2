package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
)

func TestSummarizePartition(t *testing.T) {
	record := &models.BalanceRecord{
		GroupID: testGroup,
		UserID:  models.UserID("alice"),
		Balances: map[models.UserID]decimal.Decimal{
			models.UserID("bob"):   dec("-30"),
			models.UserID("carol"): dec("45"),
			models.UserID("dave"):  dec("-12.50"),
			models.UserID("erin"):  decimal.Zero,
		},
	}

	owesTo, getsFrom, totalOwed, totalToReceive := Summarize(record)

	if len(owesTo) != 2 {
		t.Fatalf("owesTo has %d entries, want 2", len(owesTo))
	}
	// Sorted by counterparty ID: bob before dave.
	if owesTo[0].UserID != "bob" || !owesTo[0].Amount.Equal(dec("30")) {
		t.Errorf("owesTo[0] = %+v, want bob 30", owesTo[0])
	}
	if owesTo[1].UserID != "dave" || !owesTo[1].Amount.Equal(dec("12.50")) {
		t.Errorf("owesTo[1] = %+v, want dave 12.50", owesTo[1])
	}

	if len(getsFrom) != 1 {
		t.Fatalf("getsFrom has %d entries, want 1", len(getsFrom))
	}
	if getsFrom[0].UserID != "carol" || !getsFrom[0].Amount.Equal(dec("45")) {
		t.Errorf("getsFrom[0] = %+v, want carol 45", getsFrom[0])
	}

	if !totalOwed.Equal(dec("42.50")) {
		t.Errorf("totalOwed = %s, want 42.50", totalOwed)
	}
	if !totalToReceive.Equal(dec("45")) {
		t.Errorf("totalToReceive = %s, want 45", totalToReceive)
	}
}

func TestSummarizeOmitsZeroEntries(t *testing.T) {
	record := &models.BalanceRecord{
		GroupID: testGroup,
		UserID:  models.UserID("alice"),
		Balances: map[models.UserID]decimal.Decimal{
			models.UserID("bob"): decimal.Zero,
		},
	}

	owesTo, getsFrom, totalOwed, totalToReceive := Summarize(record)
	if len(owesTo) != 0 || len(getsFrom) != 0 {
		t.Errorf("zero entry not omitted: owesTo=%v getsFrom=%v", owesTo, getsFrom)
	}
	if !totalOwed.IsZero() || !totalToReceive.IsZero() {
		t.Errorf("totals not zero: owed=%s toReceive=%s", totalOwed, totalToReceive)
	}
}

func TestSummarizeNilRecord(t *testing.T) {
	owesTo, getsFrom, totalOwed, totalToReceive := Summarize(nil)
	if owesTo == nil || getsFrom == nil {
		t.Error("expected empty slices, not nil, for a missing record")
	}
	if len(owesTo) != 0 || len(getsFrom) != 0 || !totalOwed.IsZero() || !totalToReceive.IsZero() {
		t.Error("expected entirely empty summary for a missing record")
	}
}
