package ledger

import "errors"

// Sentinel errors for the ledger core. Services wrap these with context via
// fmt.Errorf("...: %w", err); transports map them to status codes with
// errors.Is.
var (
	// ErrNotFound means a referenced group, user, expense or balance record
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPayer means the payer is not a current member of the group.
	ErrInvalidPayer = errors.New("payer is not a member of the group")

	// ErrInvalidSplit means custom shares do not sum to the expense amount
	// within tolerance, or reference a non-member.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrNoDebtToSettle means settlement was requested for a pair with no
	// negative balance from debtor to creditor.
	ErrNoDebtToSettle = errors.New("no debt to settle")

	// ErrConflict means a concurrent-update retry budget was exhausted.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrInconsistent means two records for a pair are not exact negatives.
	// This is a hard error: the ledger never reconciles by guessing.
	ErrInconsistent = errors.New("ledger inconsistency detected")
)
