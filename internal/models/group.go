package models

// Group represents a set of members who split expenses together.
// Settlements never cross groups, and every amount inside a group is in
// the group's single currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Currency is the ISO 4217 code all of the group's expenses and
	// settlements are denominated in. Required at creation.
	Currency string

	// Members is the list of member user IDs.
	Members []string

	// CreatedBy is the user ID that created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the given user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
