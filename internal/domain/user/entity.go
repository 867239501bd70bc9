package user

import "time"

// User represents a user record in the system. Credential material
// (hashed password) stays inside the database layer and is never part
// of this entity.
type User struct {
	ID          int64     // ID is the unique identifier for the user
	Username    string    // Username is the unique login name
	FirstName   *string   // FirstName is optional
	LastName    *string   // LastName is optional
	Email       string    // Email is the unique email address of the user
	IsActive    bool      // IsActive marks whether the account is enabled
	IsSuperuser bool      // IsSuperuser grants elevated privileges
	CreatedAt   time.Time // CreatedAt is the record creation timestamp
}
