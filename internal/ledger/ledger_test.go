package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/models"
)

const testGroup = models.GroupID("g1")

// newRecords builds empty balance records for each member.
func newRecords(members ...models.UserID) map[models.UserID]*models.BalanceRecord {
	records := make(map[models.UserID]*models.BalanceRecord, len(members))
	for _, m := range members {
		records[m] = &models.BalanceRecord{
			GroupID:  testGroup,
			UserID:   m,
			Balances: make(map[models.UserID]decimal.Decimal),
		}
	}
	return records
}

// applyExpense resolves a split and applies its deltas to the records,
// mirroring what the service layer does against storage.
func applyExpense(t *testing.T, records map[models.UserID]*models.BalanceRecord,
	payer models.UserID, amount string, policy models.SplitPolicy,
	members []models.UserID, custom map[models.UserID]decimal.Decimal) {
	t.Helper()

	shares, err := ResolveSplit(dec(amount), policy, members, custom)
	if err != nil {
		t.Fatalf("ResolveSplit failed: %v", err)
	}
	for _, d := range Deltas(payer, shares, members) {
		ApplyDelta(records[d.Creditor], records[d.Debtor], d)
	}
}

// checkBalance asserts a single pairwise entry.
func checkBalance(t *testing.T, records map[models.UserID]*models.BalanceRecord,
	user, counterparty models.UserID, want string) {
	t.Helper()

	got := records[user].Entry(counterparty)
	if !got.Equal(dec(want)) {
		t.Errorf("balance(%s)[%s] = %s, want %s", user, counterparty, got, want)
	}
}

// checkAntiSymmetry verifies the invariant over every pair.
func checkAntiSymmetry(t *testing.T, records map[models.UserID]*models.BalanceRecord) {
	t.Helper()

	for _, a := range records {
		for _, b := range records {
			if a.UserID == b.UserID {
				continue
			}
			if err := CheckMirror(a, b); err != nil {
				t.Errorf("anti-symmetry violated: %v", err)
			}
		}
	}
}

func TestDeltasSkipPayerAndZeroShares(t *testing.T) {
	alice := models.UserID("alice")
	bob := models.UserID("bob")
	carol := models.UserID("carol")
	members := []models.UserID{alice, bob, carol}

	shares := map[models.UserID]decimal.Decimal{
		alice: dec("10"),
		bob:   decimal.Zero,
		carol: dec("20"),
	}

	deltas := Deltas(bob, shares, members)
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(deltas))
	}
	// Group order: alice before carol.
	if deltas[0].Debtor != alice || !deltas[0].Amount.Equal(dec("10")) {
		t.Errorf("deltas[0] = %+v, want alice owes 10", deltas[0])
	}
	if deltas[1].Debtor != carol || !deltas[1].Amount.Equal(dec("20")) {
		t.Errorf("deltas[1] = %+v, want carol owes 20", deltas[1])
	}
	for _, d := range deltas {
		if d.Creditor != bob {
			t.Errorf("creditor = %s, want bob", d.Creditor)
		}
	}

	// The payer produces no delta even with a nonzero share.
	shares[bob] = dec("5")
	if got := len(Deltas(bob, shares, members)); got != 2 {
		t.Errorf("payer share produced a delta: got %d deltas, want 2", got)
	}
}

func TestEqualExpenseBalances(t *testing.T) {
	alice := models.UserID("alice")
	bob := models.UserID("bob")
	carol := models.UserID("carol")
	members := []models.UserID{alice, bob, carol}
	records := newRecords(members...)

	// Alice pays 90, split equally: Bob and Carol each owe 30.
	applyExpense(t, records, alice, "90", models.SplitEqual, members, nil)

	checkBalance(t, records, alice, bob, "30")
	checkBalance(t, records, alice, carol, "30")
	checkBalance(t, records, bob, alice, "-30")
	checkBalance(t, records, carol, alice, "-30")
	checkBalance(t, records, bob, carol, "0")
	checkAntiSymmetry(t, records)

	// Conservation: the payer is owed X*(N-1)/N in total.
	total := records[alice].Entry(bob).Add(records[alice].Entry(carol))
	if !total.Equal(dec("60")) {
		t.Errorf("payer owed total %s, want 60", total)
	}
}

func TestCustomExpenseOffsetsPriorDebt(t *testing.T) {
	alice := models.UserID("alice")
	bob := models.UserID("bob")
	carol := models.UserID("carol")
	members := []models.UserID{alice, bob, carol}
	records := newRecords(members...)

	// Alice pays 90 equal, then Bob pays 30 custom {alice: 10, carol: 20}.
	applyExpense(t, records, alice, "90", models.SplitEqual, members, nil)
	applyExpense(t, records, bob, "30", models.SplitCustom, members, map[models.UserID]decimal.Decimal{
		alice: dec("10"),
		carol: dec("20"),
	})

	// Bob's payment of Alice's 10 share offsets his 30 debt to her.
	checkBalance(t, records, alice, bob, "20")
	checkBalance(t, records, bob, alice, "-20")
	// Carol now owes Bob 20 on top of her untouched 30 debt to Alice.
	checkBalance(t, records, bob, carol, "20")
	checkBalance(t, records, carol, bob, "-20")
	checkBalance(t, records, alice, carol, "30")
	checkBalance(t, records, carol, alice, "-30")
	checkAntiSymmetry(t, records)
}

func TestCheckMirrorDetectsCorruption(t *testing.T) {
	alice := models.UserID("alice")
	bob := models.UserID("bob")
	records := newRecords(alice, bob)

	applyExpense(t, records, alice, "40", models.SplitEqual, []models.UserID{alice, bob}, nil)
	if err := CheckMirror(records[alice], records[bob]); err != nil {
		t.Fatalf("CheckMirror on a consistent pair: %v", err)
	}

	// Corrupt one half of the pair.
	records[bob].Balances[alice] = dec("-19")
	err := CheckMirror(records[alice], records[bob])
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("CheckMirror error = %v, want ErrInconsistent", err)
	}
}

func TestCheckMirrorTreatsMissingEntryAsZero(t *testing.T) {
	alice := models.UserID("alice")
	bob := models.UserID("bob")
	records := newRecords(alice, bob)

	// Neither side has an entry: both read zero, which is consistent.
	if err := CheckMirror(records[alice], records[bob]); err != nil {
		t.Fatalf("CheckMirror on empty records: %v", err)
	}

	// One side has an entry the other lacks: inconsistent.
	records[alice].Balances[bob] = dec("5")
	if err := CheckMirror(records[alice], records[bob]); !errors.Is(err, ErrInconsistent) {
		t.Fatalf("CheckMirror error = %v, want ErrInconsistent", err)
	}
}
