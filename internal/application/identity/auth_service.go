package identity

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/identity"
	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	memberRepo identity.MemberRepository
	jwtService *auth.JWTService
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	memberRepo identity.MemberRepository,
	jwtService *auth.JWTService,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		memberRepo: memberRepo,
		jwtService: jwtService,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates a member and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username))

	member, err := s.memberRepo.FindByUsernameForCircle(ctx, input.CircleID, input.Username)
	if err != nil {
		s.logger.Warn("Member not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !member.CanLogin() {
		if member.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		if member.IsDeactivated() {
			s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !member.VerifyPassword(input.Password) {
		locked := member.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.memberRepo.Update(ctx, member); err != nil {
			s.logger.Error("Failed to update member after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", member.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		CircleID: member.CircleID,
		UserID:   member.ID,
		Username: member.Username,
		Role:     string(member.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	member.RecordLoginSuccess(input.IP)
	if err := s.memberRepo.Update(ctx, member); err != nil {
		// Don't fail the login, just log the error
		s.logger.Error("Failed to update member after successful login", zap.Error(err))
	}

	s.logger.Info("Member logged in",
		zap.String("username", input.Username),
		zap.String("user_id", member.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Member:                toMemberInfo(member),
	}, nil
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := uuid.Parse(refreshClaims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	// Verify the member still exists and may authenticate
	member, err := s.memberRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Member not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("NOT_FOUND", "Member not found")
	}
	if !member.CanLogin() {
		s.logger.Warn("Token refresh for inactive member", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, string(member.Role))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout handles member logout. Tokens are stateless, so logout is
// client-side; this exists for audit logging.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Member logout",
		zap.String("user_id", input.UserID.String()),
		zap.String("circle_id", input.CircleID.String()))
	return nil
}

// GetCurrentMember retrieves the current member's information
func (s *AuthService) GetCurrentMember(ctx context.Context, input GetCurrentMemberInput) (*MemberInfo, error) {
	member, err := s.memberRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Member not found")
	}

	info := toMemberInfo(member)
	return &info, nil
}

// ChangePassword changes a member's password
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	member, err := s.memberRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("NOT_FOUND", "Member not found")
	}

	if err := member.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		s.logger.Error("Failed to update member after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("Member password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

func toMemberInfo(m *identity.Member) MemberInfo {
	return MemberInfo{
		ID:          m.ID,
		CircleID:    m.CircleID,
		Username:    m.Username,
		DisplayName: m.GetDisplayNameOrUsername(),
		Email:       m.Email,
		Role:        string(m.Role),
	}
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
