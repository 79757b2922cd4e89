package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/config"
	"github.com/user/carcatalog-go/logging"
	"github.com/user/carcatalog-go/mail"
	"github.com/user/carcatalog-go/store"
)

// AuthService implements registration, email verification, login and password reset.
// Users move from unregistered to registered (unverified) to verified; resetting a
// password never changes the verification state.
type AuthService struct {
	users   UserStore
	hasher  *PasswordHasher
	codec   *TokenCodec
	mailer  mail.Sender
	cfg     *config.AuthConfig
	baseURL string
	logger  logging.Logger
	// In Go, dependencies are injected explicitly via constructor arguments,
	// analogous to constructor injection in Nest.js services.
}

// NewAuthService creates a new AuthService.
// baseURL is the public URL of the API, used to build the verification link.
func NewAuthService(
	users UserStore,
	hasher *PasswordHasher,
	codec *TokenCodec,
	mailer mail.Sender,
	cfg *config.AuthConfig,
	baseURL string,
	logger logging.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		codec:   codec,
		mailer:  mailer,
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Register creates an unverified user and mails a verification link.
//
// The user row is the committed step; the mail is best effort. A delivery
// failure is logged and reported through VerificationSent; the user row is
// not rolled back.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperror.NewConflictError("email already exist", nil)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperror.NewDatabaseError("failed to check email", err)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	isAdmin := req.IsAdmin != nil && *req.IsAdmin
	user, err := s.users.Create(ctx, NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: digest,
		IsAdmin:  isAdmin,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent registration of the same email.
			return nil, apperror.NewConflictError("email already exist", err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	return &RegisterResponse{User: user, VerificationSent: s.sendVerification(ctx, user.Email)}, nil
}

func (s *AuthService) sendVerification(ctx context.Context, email string) bool {
	token, err := s.codec.Sign(&Claims{Email: email, Purpose: PurposeVerifyEmail},
		[]byte(s.cfg.SecretKey), SignOptions{ExpiresIn: s.cfg.VerifyTTL})
	if err != nil {
		s.logger.Error(ctx, "failed to sign verification token", "email", email, "error", err)
		return false
	}

	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.baseURL, url.QueryEscape(token))
	if err := s.mailer.Send(ctx, mail.VerificationEmail(email, link)); err != nil {
		s.logger.Error(ctx, "failed to send verification email", "email", email, "error", err)
		return false
	}
	return true
}

// Login checks credentials and returns a session token carrying `id` and `is_admin`.
// Checks run in order: unknown email, unverified account, wrong password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError("email is not found or incorrect", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if !user.IsVerified {
		return nil, apperror.NewUnverifiedError("email is not verified", nil)
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, apperror.NewInvalidCredentialsError("password is not correct", nil)
	}

	token, err := s.codec.Sign(&Claims{ID: user.ID, IsAdmin: user.IsAdmin, Purpose: PurposeSession},
		[]byte(s.cfg.SecretKey), SignOptions{ExpiresIn: s.cfg.SessionTTL})
	if err != nil {
		return nil, apperror.NewInternalError("failed to sign token", err)
	}
	return &TokenResponse{Token: token}, nil
}

// VerifyEmail marks the account named by a verification token as verified.
// Verifying twice is harmless.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.codec.VerifyPurpose(token, []byte(s.cfg.SecretKey), PurposeVerifyEmail)
	if err != nil {
		return tokenError(err)
	}

	if err := s.users.MarkVerified(ctx, claims.Email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to verify email", err)
	}
	return nil
}

// ForgotPassword mails a one-hour reset token to a known email.
// Nothing is written, so a delivery failure is reported to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NewNotFoundError("email not found", nil)
		}
		return apperror.NewDatabaseError("failed to get user", err)
	}

	token, err := s.codec.Sign(&Claims{Email: user.Email, Purpose: PurposeResetPassword},
		[]byte(s.cfg.ResetSecretKey), SignOptions{ExpiresIn: s.cfg.ResetTTL})
	if err != nil {
		return apperror.NewInternalError("failed to sign token", err)
	}

	if err := s.mailer.Send(ctx, mail.ResetPasswordEmail(user.Email, token)); err != nil {
		s.logger.Error(ctx, "failed to send reset email", "email", user.Email, "error", err)
		return apperror.NewInternalError("internal server error", err)
	}
	return nil
}

// ResetPassword replaces the password of the account named by a reset token.
// The token is not invalidated and stays usable until it expires.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.VerifyPurpose(token, []byte(s.cfg.ResetSecretKey), PurposeResetPassword)
	if err != nil {
		return tokenError(err)
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.NewInternalError("failed to hash password", err)
	}

	if err := s.users.UpdatePassword(ctx, claims.Email, digest); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to reset password", err)
	}
	return nil
}

// Profile returns the user behind a session.
func (s *AuthService) Profile(ctx context.Context, id int) (*User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError("data not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

// tokenError converts codec failures into 401 errors, keeping the cause for errors.Is.
func tokenError(err error) error {
	if errors.Is(err, ErrTokenExpired) {
		return apperror.NewAuthError("Unauthorized: token expired", err)
	}
	return apperror.NewAuthError("Unauthorized: Invalid token", err)
}
