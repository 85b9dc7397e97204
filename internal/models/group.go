package models

// Group represents a set of people sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Eilat trip").
	Name string

	// BaseCurrency is the reference currency every amount is normalized into.
	BaseCurrency string

	// Members is the list of participants in this group.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// CreatedBy is the user ID who created the group.
	CreatedBy string
}

// Member is one participant of a group.
type Member struct {
	// ID identifies the member within its group. Expenses and payments refer to it.
	ID string

	// Name is the display name. Not used by balance calculations.
	Name string
}

// HasMember reports whether id belongs to the group.
func (g *Group) HasMember(id string) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}
