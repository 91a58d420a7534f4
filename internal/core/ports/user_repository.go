package ports

import (
	"context"
	"time"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// UserPatch carries the profile fields a user may change about themselves.
// Nil pointers mean "leave unchanged".
type UserPatch struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	Address          *string
	City             *string
	Region           *string
	IdentityDocument *domain.IdentityDocument
	Filiation        *domain.Filiation
	ProfilePicture   *string
}

// AdminUserPatch carries the account flags only admins may change.
type AdminUserPatch struct {
	Role       *domain.Role
	IsActive   *bool
	IsVerified *bool
}

// ListUsersFilter narrows admin user listings.
type ListUsersFilter struct {
	Role   domain.Role // empty = all roles
	Search string      // case-insensitive substring over email and names
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Insert stores a new user. Returns domain.ErrEmailTaken when the email
	// is already registered.
	Insert(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByRoles returns every user whose role is in roles (for fan-out
	// notifications on project submission).
	ListByRoles(ctx context.Context, roles []domain.Role) ([]*domain.User, error)
	List(ctx context.Context, f ListUsersFilter) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, p UserPatch, updatedAt time.Time) error
	UpdateAccount(ctx context.Context, id string, p AdminUserPatch, updatedAt time.Time) error
	SetPassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	SetVerified(ctx context.Context, id string, updatedAt time.Time) error
}
