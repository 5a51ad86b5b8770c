package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains login request data. CircleID selects the login
// namespace, since usernames are only unique per circle.
type LoginInput struct {
	CircleID uuid.UUID
	Username string
	Password string
	IP       string
}

// MemberInfo contains member data returned to clients
type MemberInfo struct {
	ID          uuid.UUID `json:"id"`
	CircleID    uuid.UUID `json:"circle_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
}

// LoginResult contains the outcome of a successful login
type LoginResult struct {
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time  `json:"refresh_token_expires_at"`
	TokenType             string     `json:"token_type"`
	Member                MemberInfo `json:"member"`
}

// RefreshTokenInput contains token refresh request data
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the refreshed token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains logout request data
type LogoutInput struct {
	UserID   uuid.UUID
	CircleID uuid.UUID
}

// GetCurrentMemberInput identifies the member to load
type GetCurrentMemberInput struct {
	UserID uuid.UUID
}

// ChangePasswordInput contains password change request data
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}
