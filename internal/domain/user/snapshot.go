package user

// Snapshot is the cacheable projection of a User. It carries only the
// fields exposed by the detailed read endpoint; superuser flag, creation
// time and credentials are deliberately excluded.
type Snapshot struct {
	ID        int64
	Username  string
	FirstName *string
	LastName  *string
	Email     string
	IsActive  bool
}

// NewSnapshot builds the cacheable projection of u.
func NewSnapshot(u *User) *Snapshot {
	return &Snapshot{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsActive:  u.IsActive,
	}
}
