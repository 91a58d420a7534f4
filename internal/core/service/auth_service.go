package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

// AuthService implements registration, login, email verification, and the
// password reset flow.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenStore
	mailer    ports.Mailer
	notifier  ports.Notifier
	jwtSecret string
	tokenTTL  time.Duration
	baseURL   string
	logger    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenStore,
	mailer ports.Mailer,
	notifier ports.Notifier,
	jwtSecret string,
	tokenTTL time.Duration,
	baseURL string,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// Register creates an account and sends a verification email (best effort).
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", domain.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleCitizen
	}
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:               uuid.NewString(),
		Email:            in.Email,
		PasswordHash:     string(hash),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		Address:          in.Address,
		City:             in.City,
		Region:           in.Region,
		Role:             role,
		IsActive:         true,
		IdentityDocument: in.IdentityDocument,
		Filiation:        in.Filiation,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.sendVerificationEmail(ctx, user)

	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Do not distinguish unknown email from wrong password.
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, domain.ErrAccountDisabled
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyEmail redeems a verification token and flags the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.users.SetVerified(ctx, userID, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.notifier.Notify(ctx, userID, domain.NotifAccountVerified,
		"Compte vérifié",
		"Votre adresse email a été vérifiée avec succès. Bienvenue sur la plateforme !",
		nil); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("verification notice failed")
	}
	return nil
}

// ForgotPassword issues a reset token when the email exists. The response is
// identical either way so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	token, err := s.tokens.CreateResetToken(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to create reset token")
		return nil
	}

	link := s.baseURL + "/reset-password?token=" + token
	body := fmt.Sprintf(
		"Vous avez demandé la réinitialisation de votre mot de passe.\n\n"+
			"Cliquez sur le lien suivant pour définir un nouveau mot de passe:\n%s\n\n"+
			"Ce lien expire dans 1 heure.\n\n"+
			"Si vous n'avez pas fait cette demande, ignorez cet email.", link)
	if err := s.mailer.Deliver(ctx, user.Email, "Réinitialisation de mot de passe - Plateforme Projets Citoyens", body); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("reset email delivery failed")
	}
	return nil
}

// ResetPassword redeems a reset token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}
	userID, err := s.tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, userID, string(hash), time.Now().UTC()); err != nil {
		return err
	}
	if err := s.notifier.Notify(ctx, userID, domain.NotifPasswordReset,
		"Mot de passe modifié",
		"Votre mot de passe a été modifié avec succès.",
		nil); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("password reset notice failed")
	}
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.FullName(),
		"role": string(user.Role),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *domain.User) {
	token, err := s.tokens.CreateVerificationToken(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to create verification token")
		return
	}
	link := s.baseURL + "/verify-email?token=" + token
	body := fmt.Sprintf(
		"Bienvenue sur la Plateforme de Financement des Projets Citoyens du Sénégal !\n\n"+
			"Cliquez sur le lien suivant pour vérifier votre adresse email:\n%s\n\n"+
			"Ce lien expire dans 24 heures.\n\n"+
			"Si vous n'avez pas créé de compte, ignorez cet email.", link)
	if err := s.mailer.Deliver(ctx, user.Email, "Vérifiez votre adresse email - Plateforme Projets Citoyens", body); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("verification email delivery failed")
	}
}
