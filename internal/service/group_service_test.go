package service

import (
	"context"
	"errors"
	"testing"

	"github.com/splitvest/splitvest/internal/ledger"
	"github.com/splitvest/splitvest/internal/models"
)

func TestGroupServiceMembership(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	bob := createUser(t, store, "Bob", "bob@example.com")

	group, err := svc.CreateGroup(ctx, "Roommates", models.GroupExpense, alice.ID)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.AdminID != alice.ID {
		t.Errorf("admin = %s, want %s", group.AdminID, alice.ID)
	}
	if len(group.Members) != 1 || group.Members[0] != alice.ID {
		t.Errorf("members = %v, want [%s]", group.Members, alice.ID)
	}

	t.Run("invalid kind", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, "Bad", "SAVINGS", alice.ID)
		if !errors.Is(err, ErrInvalidKind) {
			t.Errorf("error = %v, want ErrInvalidKind", err)
		}
	})

	t.Run("unknown admin", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, "Ghost", models.GroupExpense, "no-such-user")
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("add member by email", func(t *testing.T) {
		added, err := svc.AddMemberByEmail(ctx, group.ID, "bob@example.com")
		if err != nil {
			t.Fatalf("AddMemberByEmail failed: %v", err)
		}
		if added.ID != bob.ID {
			t.Errorf("added user = %s, want %s", added.ID, bob.ID)
		}

		got, err := svc.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 2 || got.Members[1] != bob.ID {
			t.Errorf("members = %v, want [%s %s]", got.Members, alice.ID, bob.ID)
		}
	})

	t.Run("adding twice fails", func(t *testing.T) {
		_, err := svc.AddMemberByEmail(ctx, group.ID, "bob@example.com")
		if !errors.Is(err, ErrAlreadyMember) {
			t.Errorf("error = %v, want ErrAlreadyMember", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.AddMemberByEmail(ctx, group.ID, "nobody@example.com")
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("remove member", func(t *testing.T) {
		if err := svc.RemoveMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		got, err := svc.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.HasMember(bob.ID) {
			t.Errorf("bob still a member after removal: %v", got.Members)
		}
	})

	t.Run("remove non-member", func(t *testing.T) {
		err := svc.RemoveMember(ctx, group.ID, bob.ID)
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestGroupServiceReport(t *testing.T) {
	store := newTestStore(t)
	groupSvc := NewGroupService(store)
	ledgerSvc := NewLedgerService(store)
	investSvc := NewInvestmentService(store)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	bob := createUser(t, store, "Bob", "bob@example.com")
	expenseGroup := createGroup(t, store, "Trip", models.GroupExpense, alice.ID, bob.ID)
	investGroup := createGroup(t, store, "Stocks", models.GroupInvestment, alice.ID, bob.ID)

	if _, err := ledgerSvc.ApplyExpense(ctx, expenseGroup.ID, alice.ID, dec(t, "80"), "Gas", models.SplitEqual, nil); err != nil {
		t.Fatalf("ApplyExpense failed: %v", err)
	}
	if _, err := ledgerSvc.ApplyExpense(ctx, expenseGroup.ID, bob.ID, dec(t, "20"), "Snacks", models.SplitEqual, nil); err != nil {
		t.Fatalf("ApplyExpense failed: %v", err)
	}
	if _, err := investSvc.CreateInvestment(ctx, investGroup.ID, "AAPL", dec(t, "100"), dec(t, "1.5")); err != nil {
		t.Fatalf("CreateInvestment failed: %v", err)
	}

	report, err := groupSvc.GetReport(ctx, expenseGroup.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if !report.TotalExpenses.Equal(dec(t, "100")) {
		t.Errorf("total expenses = %s, want 100", report.TotalExpenses)
	}
	if !report.TotalInvestments.IsZero() {
		t.Errorf("expense group total investments = %s, want 0", report.TotalInvestments)
	}

	report, err = groupSvc.GetReport(ctx, investGroup.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	// Two members at 100 each.
	if !report.TotalInvestments.Equal(dec(t, "200")) {
		t.Errorf("total investments = %s, want 200", report.TotalInvestments)
	}
}
