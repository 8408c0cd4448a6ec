package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/farmdiary/api/internal/auth"
	"github.com/farmdiary/api/internal/domain"
	"github.com/farmdiary/api/internal/repository"
	apperrors "github.com/farmdiary/api/pkg/errors"
)

// TokenService owns the login and refresh flows: credential verification,
// token minting, and the refresh token lifecycle.
type TokenService struct {
	userRepo   repository.UserRepository
	tokenStore repository.RefreshTokenStore
	codec      *auth.Codec
	logger     *slog.Logger
}

// NewTokenService creates a new token service.
func NewTokenService(
	userRepo repository.UserRepository,
	tokenStore repository.RefreshTokenStore,
	codec *auth.Codec,
	logger *slog.Logger,
) *TokenService {
	return &TokenService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		codec:      codec,
		logger:     logger,
	}
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates the credential and issues a fresh token pair,
// replacing any previously stored refresh token for the user. A store
// failure fails the whole request; no partial issuance is returned.
// Unknown email and wrong password are deliberately indistinguishable.
func (s *TokenService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	accessToken, err := s.codec.Mint(user.Email, auth.TokenAccess)
	if err != nil {
		return nil, nil, fmt.Errorf("mint access token: %w", err)
	}

	refreshToken, err := s.codec.Mint(user.Email, auth.TokenRefresh)
	if err != nil {
		return nil, nil, fmt.Errorf("mint refresh token: %w", err)
	}

	// The store TTL and the token's embedded expiry come from the same
	// config value, keeping the two in lockstep.
	if err := s.tokenStore.Upsert(ctx, user.ID, refreshToken, s.codec.RefreshExpiry()); err != nil {
		return nil, nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; only login replaces it. Every
// failure collapses to the same Unauthorized error so a caller learns
// nothing beyond "re-authenticate"; the distinguishing cause is logged.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	subject, err := s.codec.Subject(refreshToken)
	if err != nil {
		s.logger.InfoContext(ctx, "refresh token rejected",
			slog.String("failure_kind", string(auth.KindOf(err))),
		)
		return nil, invalidRefreshToken()
	}

	user, err := s.userRepo.GetByEmail(ctx, subject)
	if err != nil {
		s.logger.InfoContext(ctx, "refresh token subject has no account")
		return nil, invalidRefreshToken()
	}

	stored, err := s.tokenStore.Find(ctx, user.ID)
	if err != nil {
		s.logger.InfoContext(ctx, "no stored refresh token",
			slog.Int64("user_id", user.ID),
		)
		return nil, invalidRefreshToken()
	}

	// A valid-looking token that does not match the stored one means it
	// was superseded by a later login, or worse. Drop the record either way.
	if stored != refreshToken {
		if err := s.tokenStore.Delete(ctx, user.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete mismatched refresh token",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		s.logger.WarnContext(ctx, "refresh token mismatch, record deleted",
			slog.Int64("user_id", user.ID),
		)
		return nil, invalidRefreshToken()
	}

	accessToken, err := s.codec.Mint(user.Email, auth.TokenAccess)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	s.logger.InfoContext(ctx, "access token refreshed",
		slog.Int64("user_id", user.ID),
	)

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout deletes the stored refresh token so it can no longer be exchanged.
// Outstanding access tokens stay valid until they expire.
func (s *TokenService) Logout(ctx context.Context, userID int64) error {
	if err := s.tokenStore.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.Int64("user_id", userID),
	)

	return nil
}

func invalidRefreshToken() error {
	return apperrors.Unauthorized("invalid refresh token")
}
