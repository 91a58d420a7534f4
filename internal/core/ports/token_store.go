package ports

import "context"

// TokenStore issues and redeems single-use ephemeral tokens for email
// verification and password reset. Tokens expire server-side (TTL is an
// implementation concern); Consume* returns domain.ErrTokenInvalid for
// unknown, expired, or already-consumed tokens.
type TokenStore interface {
	CreateVerificationToken(ctx context.Context, userID string) (string, error)
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
	CreateResetToken(ctx context.Context, userID string) (string, error)
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}
