package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) error
}
