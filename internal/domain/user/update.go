package user

// Update describes a partial modification of a User. A nil field means
// "leave untouched"; a non-nil field is written as-is. This distinguishes
// an omitted field from one explicitly set to an empty value.
type Update struct {
	Username  *string
	FirstName *string
	LastName  *string
	Email     *string
}

// IsEmpty reports whether the update carries no fields at all.
func (u Update) IsEmpty() bool {
	return u.Username == nil && u.FirstName == nil && u.LastName == nil && u.Email == nil
}
