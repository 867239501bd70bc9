package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-api-service/internal/domain/user"
	pkgerrors "user-api-service/pkg/errors"
)

// UserRepoPG implements the user repository using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// HashedPassword and BanReason never leave this package.
type UserSchema struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"size:32;not null;uniqueIndex"`
	FirstName      *string   `gorm:"size:32"`
	LastName       *string   `gorm:"size:32"`
	Email          *string   `gorm:"size:255;uniqueIndex"`
	BanReason      *string   `gorm:"size:1024"`
	HashedPassword string    `gorm:"size:1024;not null"`
	IsActive       bool      `gorm:"not null;default:true"`
	IsSuperuser    bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// toEntity maps a schema row to the domain entity, dropping credential
// and moderation fields.
func (m *UserSchema) toEntity() user.User {
	u := user.User{
		ID:          m.ID,
		Username:    m.Username,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		IsActive:    m.IsActive,
		IsSuperuser: m.IsSuperuser,
		CreatedAt:   m.CreatedAt,
	}
	if m.Email != nil {
		u.Email = *m.Email
	}
	return u
}

// ListAll retrieves every user ordered by ascending id.
func (r *UserRepoPG) ListAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = models[i].toEntity()
	}

	return users, nil
}

// GetByID retrieves a user by their unique ID. This is the authoritative
// existence check; a missing row yields a NotFoundError.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user with id %d not found", id))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := model.toEntity()
	return &u, nil
}

// UpdateFields applies only the fields set in upd as a single UPDATE
// statement. Fields left nil are untouched. Updating a non-existent id
// yields a NotFoundError; an empty update is a no-op.
func (r *UserRepoPG) UpdateFields(ctx context.Context, id int64, upd user.Update) error {
	if upd.IsEmpty() {
		r.log.Debug("empty update, nothing to do", zap.Int64("id", id))
		return nil
	}

	values := make(map[string]any, 4)
	if upd.Username != nil {
		values["username"] = *upd.Username
	}
	if upd.FirstName != nil {
		values["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		values["last_name"] = *upd.LastName
	}
	if upd.Email != nil {
		values["email"] = *upd.Email
	}

	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("update matched no rows", zap.Int64("id", id))
		return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user with id %d not found", id))
	}

	r.log.Info("user updated in db", zap.Int64("id", id), zap.Int("fields", len(values)))
	return nil
}
