package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-api-service/internal/adapter/cache"
	domain "user-api-service/internal/domain/user"
	pkgerrors "user-api-service/pkg/errors"
)

// cachePopulateTimeout caps the background cache write after a store
// read so it can never dominate request latency.
const cachePopulateTimeout = 500 * time.Millisecond

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// to be used interchangeably.
type Repository interface {
	ListAll(ctx context.Context) ([]domain.User, error)                    // Retrieve all users ordered by id
	GetByID(ctx context.Context, id int64) (*domain.User, error)           // Retrieve user by ID
	UpdateFields(ctx context.Context, id int64, upd domain.Update) error   // Apply a partial update
}

// Service implements the business logic for user reads and updates.
// Reads follow the cache-aside pattern: cache first, store on miss,
// background repopulation. Updates never touch the cache, so a cached
// snapshot may stay stale for up to its TTL.
type Service struct {
	repo     Repository          // Repository for data access
	cache    cache.UserCache     // Cache for user snapshots
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
	group    singleflight.Group  // Collapses concurrent store lookups per id
}

// New creates a new Service with the provided repository, cache, and logger.
// If cache is nil, caching is disabled.
func New(r Repository, c cache.UserCache, log *zap.Logger) *Service {
	return &Service{repo: r, cache: c, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a typed
// validation error with a human-readable message.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required", "gt":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
}

// GetUser retrieves a user by ID using the cache-aside pattern. A cache
// hit never touches the durable store. On a miss the store is queried
// (concurrent misses for the same id collapse into one query), the cache
// is repopulated in the background, and the store value is returned.
// NotFound from the store propagates unchanged.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	if in.ID <= 0 {
		s.log.Warn("get user validation failed", zap.Int64("id", in.ID))
		return nil, pkgerrors.NewValidationError("id", "user id must be positive")
	}

	if s.cache != nil {
		if snap := s.cache.GetByID(ctx, in.ID); snap != nil {
			s.log.Debug("user retrieved from cache", zap.Int64("id", in.ID))
			return responseFromSnapshot(snap), nil
		}
	}

	result, err, _ := s.group.Do(fmt.Sprintf("users:%d", in.ID), func() (any, error) {
		u, err := s.repo.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		s.populateCache(domain.NewSnapshot(u))
		return u, nil
	})
	if err != nil {
		if _, ok := err.(*pkgerrors.NotFoundError); !ok {
			s.log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		}
		return nil, err
	}

	return responseFromSnapshot(domain.NewSnapshot(result.(*domain.User))), nil
}

// populateCache writes a snapshot in a detached goroutine so the
// response path never waits on the cache store. Failures are logged
// and dropped.
func (s *Service) populateCache(snap *domain.Snapshot) {
	if s.cache == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cachePopulateTimeout)
		defer cancel()

		if err := s.cache.Set(ctx, snap); err != nil {
			s.log.Warn("failed to cache user", zap.Int64("id", snap.ID), zap.Error(err))
		}
	}()
}

// ListUsers retrieves every user from the durable store, ordered by id.
// List results are never cached.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]ListedUser, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = ListedUser{
			ID:        du.ID,
			Username:  du.Username,
			FirstName: du.FirstName,
			LastName:  du.LastName,
		}
	}

	return &ListUsersResponse{Users: users}, nil
}

// UpdateUser applies a partial update after validation. The cache entry
// for the id is deliberately left alone; the snapshot expires on its own
// within the TTL.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) error {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("update user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return formatValidationError(err)
	}

	upd := domain.Update{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}

	if err := s.repo.UpdateFields(ctx, in.ID, upd); err != nil {
		if _, ok := err.(*pkgerrors.NotFoundError); !ok {
			s.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		}
		return err
	}

	s.log.Info("user updated", zap.Int64("id", in.ID))
	return nil
}

func responseFromSnapshot(snap *domain.Snapshot) *GetUserResponse {
	return &GetUserResponse{
		ID:        snap.ID,
		Username:  snap.Username,
		FirstName: snap.FirstName,
		LastName:  snap.LastName,
		Email:     snap.Email,
		IsActive:  snap.IsActive,
	}
}
