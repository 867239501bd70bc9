package user

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the detailed user payload returned by reads.
// It carries exactly the fields the cache snapshot holds, so hits and
// store reads are indistinguishable to the caller.
type GetUserResponse struct {
	ID        int64
	Username  string
	FirstName *string
	LastName  *string
	Email     string
	IsActive  bool
}

// UpdateUserRequest represents a partial user update. Nil fields were
// omitted from the request and must be left untouched.
type UpdateUserRequest struct {
	ID        int64   `validate:"required,gt=0"`
	Username  *string `validate:"omitempty,min=1,max=32"`
	FirstName *string `validate:"omitempty,max=32"`
	LastName  *string `validate:"omitempty,max=32"`
	Email     *string `validate:"omitempty,email"`
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []ListedUser
}

// ListedUser is the compact list representation of a user.
type ListedUser struct {
	ID        int64
	Username  string
	FirstName *string
	LastName  *string
}
