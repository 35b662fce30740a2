package models

// GroupID uniquely identifies a group (UUID format).
type GroupID string

// GroupKind distinguishes expense-sharing groups from pooled-investment groups.
// The kind is immutable after creation.
type GroupKind string

const (
	// GroupExpense is a group whose members share expenses.
	GroupExpense GroupKind = "EXPENSE"
	// GroupInvestment is a group whose members pool money into stock investments.
	GroupInvestment GroupKind = "INVESTMENT"
)

// Valid reports whether k is a known group kind.
func (k GroupKind) Valid() bool {
	return k == GroupExpense || k == GroupInvestment
}

// Group represents a named collection of members sharing expenses or
// investments. Members form an ordered set: insertion order is preserved and
// duplicates are rejected at the storage layer.
type Group struct {
	// ID is the unique identifier for the group.
	ID GroupID

	// Name is the display name of the group (e.g. "Roommates", "Stock Club").
	Name string

	// Kind is EXPENSE or INVESTMENT. Immutable after creation.
	Kind GroupKind

	// AdminID is the user who created the group. The admin is always the
	// first member.
	AdminID UserID

	// Members is the ordered list of member user IDs.
	Members []UserID

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is currently a member of the group.
func (g *Group) HasMember(userID UserID) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
