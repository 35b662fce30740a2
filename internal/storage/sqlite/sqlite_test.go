package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitvest/splitvest/internal/ledger"
	"github.com/splitvest/splitvest/internal/models"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitvest-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.UserID("alice")
	bob := models.UserID("bob")
	carol := models.UserID("carol")

	group := &models.Group{
		Name:    "Roommates",
		Kind:    models.GroupExpense,
		AdminID: alice,
		Members: []models.UserID{alice, bob, carol},
	}

	t.Run("CreateGroup generates ID and preserves member order", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Kind != models.GroupExpense {
			t.Errorf("Kind = %s, want EXPENSE", got.Kind)
		}
		want := []models.UserID{alice, bob, carol}
		if len(got.Members) != len(want) {
			t.Fatalf("Members = %v, want %v", got.Members, want)
		}
		for i := range want {
			if got.Members[i] != want[i] {
				t.Errorf("Members[%d] = %s, want %s", i, got.Members[i], want[i])
			}
		}
	})

	t.Run("GetGroup returns ErrNotFound for unknown group", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddGroupMember appends at the end", func(t *testing.T) {
		dave := models.UserID("dave")
		if err := store.AddGroupMember(ctx, group.ID, dave); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Members[len(got.Members)-1] != dave {
			t.Errorf("last member = %s, want dave", got.Members[len(got.Members)-1])
		}

		if err := store.RemoveGroupMember(ctx, group.ID, dave); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
	})

	t.Run("ApplyExpense persists fact and both balance halves", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			PayerID:     alice,
			Amount:      dec(t, "90"),
			Description: "Groceries",
			SplitPolicy: models.SplitEqual,
			Shares: map[models.UserID]decimal.Decimal{
				alice: dec(t, "30"),
				bob:   dec(t, "30"),
				carol: dec(t, "30"),
			},
		}
		deltas := []ledger.Delta{
			{Debtor: bob, Creditor: alice, Amount: dec(t, "30")},
			{Debtor: carol, Creditor: alice, Amount: dec(t, "30")},
		}

		if err := store.ApplyExpense(ctx, expense, deltas); err != nil {
			t.Fatalf("ApplyExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(dec(t, "90")) {
			t.Errorf("Amount = %s, want 90", got.Amount)
		}
		if len(got.Shares) != 3 || !got.Shares[bob].Equal(dec(t, "30")) {
			t.Errorf("Shares = %v, want 30 each for three members", got.Shares)
		}

		aliceRec, err := store.GetBalanceRecord(ctx, group.ID, alice)
		if err != nil {
			t.Fatalf("GetBalanceRecord failed: %v", err)
		}
		if !aliceRec.Entry(bob).Equal(dec(t, "30")) || !aliceRec.Entry(carol).Equal(dec(t, "30")) {
			t.Errorf("alice balances = %v, want 30 from each", aliceRec.Balances)
		}

		bobRec, err := store.GetBalanceRecord(ctx, group.ID, bob)
		if err != nil {
			t.Fatalf("GetBalanceRecord failed: %v", err)
		}
		if !bobRec.Entry(alice).Equal(dec(t, "-30")) {
			t.Errorf("bob owes alice %s, want -30", bobRec.Entry(alice))
		}
	})

	t.Run("GetBalanceRecord is nil before first involvement", func(t *testing.T) {
		record, err := store.GetBalanceRecord(ctx, group.ID, models.UserID("stranger"))
		if err != nil {
			t.Fatalf("GetBalanceRecord failed: %v", err)
		}
		if record != nil {
			t.Errorf("expected lazily-absent record, got %+v", record)
		}
	})

	t.Run("ApplySettlement zeroes both sides", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: bob,
			ToUserID:   alice,
			Amount:     dec(t, "30"),
			Status:     models.SettlementCompleted,
		}
		if err := store.ApplySettlement(ctx, settlement); err != nil {
			t.Fatalf("ApplySettlement failed: %v", err)
		}
		if settlement.ID == "" {
			t.Error("Expected settlement ID to be generated")
		}

		bobRec, _ := store.GetBalanceRecord(ctx, group.ID, bob)
		aliceRec, _ := store.GetBalanceRecord(ctx, group.ID, alice)
		if !bobRec.Entry(alice).IsZero() {
			t.Errorf("bob->alice = %s, want 0", bobRec.Entry(alice))
		}
		if !aliceRec.Entry(bob).IsZero() {
			t.Errorf("alice->bob = %s, want 0", aliceRec.Entry(bob))
		}
		// Carol's debt is untouched.
		if !aliceRec.Entry(carol).Equal(dec(t, "30")) {
			t.Errorf("alice->carol = %s, want 30", aliceRec.Entry(carol))
		}

		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(settlements) != 1 || settlements[0].Status != models.SettlementCompleted {
			t.Errorf("settlements = %+v, want one COMPLETED", settlements)
		}
	})

	t.Run("ListExpensesByGroup returns shares", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("expected 1 expense, got %d", len(expenses))
		}
		if len(expenses[0].Shares) != 3 {
			t.Errorf("expected 3 shares, got %d", len(expenses[0].Shares))
		}
	})
}

func TestSQLiteUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("Alice", "alice@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("got %+v, want user %s", got, user.ID)
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("UpdateUser", func(t *testing.T) {
		user.Name = "Alice B."
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Name != "Alice B." {
			t.Errorf("Name = %s, want Alice B.", got.Name)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := models.NewUser("Other", "alice@example.com", "hash2")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected unique-email violation")
		}
	})
}

func TestSQLiteInvestments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:    "Stock Club",
		Kind:    models.GroupInvestment,
		AdminID: models.UserID("alice"),
		Members: []models.UserID{"alice", "bob"},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	investment := &models.Investment{
		GroupID:       group.ID,
		StockSymbol:   "AAPL",
		TotalInvested: dec(t, "200"),
		SharesBought:  decimal.Zero,
		CurrentValue:  decimal.Zero,
	}
	if err := store.CreateInvestment(ctx, investment); err != nil {
		t.Fatalf("CreateInvestment failed: %v", err)
	}

	t.Run("AddContribution bumps total_invested", func(t *testing.T) {
		contribution := &models.Contribution{
			InvestmentID: investment.ID,
			UserID:       models.UserID("bob"),
			Amount:       dec(t, "50"),
		}
		if err := store.AddContribution(ctx, contribution); err != nil {
			t.Fatalf("AddContribution failed: %v", err)
		}

		got, err := store.GetInvestment(ctx, investment.ID)
		if err != nil {
			t.Fatalf("GetInvestment failed: %v", err)
		}
		if !got.TotalInvested.Equal(dec(t, "250")) {
			t.Errorf("TotalInvested = %s, want 250", got.TotalInvested)
		}
	})

	t.Run("AddContribution to unknown investment", func(t *testing.T) {
		contribution := &models.Contribution{
			InvestmentID: "nonexistent",
			UserID:       models.UserID("bob"),
			Amount:       dec(t, "50"),
		}
		if err := store.AddContribution(ctx, contribution); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateInvestmentValue", func(t *testing.T) {
		if err := store.UpdateInvestmentValue(ctx, investment.ID, dec(t, "312.40")); err != nil {
			t.Fatalf("UpdateInvestmentValue failed: %v", err)
		}
		got, err := store.GetInvestment(ctx, investment.ID)
		if err != nil {
			t.Fatalf("GetInvestment failed: %v", err)
		}
		if !got.CurrentValue.Equal(dec(t, "312.40")) {
			t.Errorf("CurrentValue = %s, want 312.40", got.CurrentValue)
		}
	})

	t.Run("ListInvestments covers all groups", func(t *testing.T) {
		all, err := store.ListInvestments(ctx)
		if err != nil {
			t.Fatalf("ListInvestments failed: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected 1 investment, got %d", len(all))
		}
	})
}
