package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

const maxAvatarBytes = 5 * 1024 * 1024

// UserService covers self profile management and admin account management.
type UserService struct {
	users       ports.UserRepository
	attachments ports.AttachmentStore
	logger      zerolog.Logger
}

func NewUserService(users ports.UserRepository, attachments ports.AttachmentStore, logger zerolog.Logger) *UserService {
	return &UserService{users: users, attachments: attachments, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies a partial self update and returns the fresh record.
func (s *UserService) UpdateProfile(ctx context.Context, id string, p ports.UserPatch) (*domain.User, error) {
	if err := s.users.UpdateProfile(ctx, id, p, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// SetProfilePicture stores the uploaded image and records its URL on the
// profile. Only images are accepted, capped at 5 MiB.
func (s *UserService) SetProfilePicture(ctx context.Context, id string, up ports.DocumentUpload) (string, error) {
	if len(up.Content) > maxAvatarBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, maxAvatarBytes)
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", fmt.Errorf("%w: only images are accepted", domain.ErrValidation)
	}

	url, err := s.attachments.Store(ctx, up.Content, up.Filename, up.ContentType)
	if err != nil {
		return "", err
	}
	patch := ports.UserPatch{ProfilePicture: &url}
	if err := s.users.UpdateProfile(ctx, id, patch, time.Now().UTC()); err != nil {
		return "", err
	}
	return url, nil
}

// SetIdentityDocument stores the uploaded file and attaches the identity
// record to the profile.
func (s *UserService) SetIdentityDocument(ctx context.Context, id string, doc domain.IdentityDocument, up ports.DocumentUpload) (*domain.IdentityDocument, error) {
	if len(up.Content) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, maxDocumentBytes)
	}
	if _, ok := allowedDocumentTypes[up.ContentType]; !ok {
		return nil, fmt.Errorf("%w: content type %q not accepted", domain.ErrValidation, up.ContentType)
	}

	url, err := s.attachments.Store(ctx, up.Content, up.Filename, up.ContentType)
	if err != nil {
		return nil, err
	}
	doc.FileURL = url
	patch := ports.UserPatch{IdentityDocument: &doc}
	if err := s.users.UpdateProfile(ctx, id, patch, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListUsers is the admin user listing with role and search filters.
func (s *UserService) ListUsers(ctx context.Context, f ports.ListUsersFilter) ([]*domain.User, error) {
	if f.Role != "" && !domain.IsValidRole(f.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, f.Role)
	}
	return s.users.List(ctx, f)
}

// UpdateAccount applies admin-only flag changes (role, active, verified).
func (s *UserService) UpdateAccount(ctx context.Context, id string, p ports.AdminUserPatch) (*domain.User, error) {
	if p.Role != nil && !domain.IsValidRole(*p.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *p.Role)
	}
	if err := s.users.UpdateAccount(ctx, id, p, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}
