package ports

import (
	"context"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// RegisterInput carries the data needed to open an account.
type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	Phone            string
	Address          string
	City             string
	Region           string
	Role             domain.Role // defaults to citizen when empty
	IdentityDocument *domain.IdentityDocument
	Filiation        *domain.Filiation
}

// AuthService is the identity directory: account creation, credential
// verification, session tokens, and the email verification / password reset
// flows.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns a signed session token plus the
	// user record.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	// ForgotPassword never reveals whether the email exists.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// UserService covers profile reads and updates plus admin account management.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, p UserPatch) (*domain.User, error)
	// SetProfilePicture stores the uploaded image and records its URL.
	SetProfilePicture(ctx context.Context, id string, up DocumentUpload) (string, error)
	// SetIdentityDocument stores the uploaded file and attaches the identity
	// record to the profile.
	SetIdentityDocument(ctx context.Context, id string, doc domain.IdentityDocument, up DocumentUpload) (*domain.IdentityDocument, error)

	ListUsers(ctx context.Context, f ListUsersFilter) ([]*domain.User, error)
	UpdateAccount(ctx context.Context, id string, p AdminUserPatch) (*domain.User, error)
}
