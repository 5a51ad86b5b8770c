package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemberStatus represents the status of a circle member account
type MemberStatus string

const (
	MemberStatusActive      MemberStatus = "ACTIVE"
	MemberStatusDeactivated MemberStatus = "DEACTIVATED"
)

// MemberRole represents the member's role within the circle
type MemberRole string

const (
	MemberRoleTreasurer MemberRole = "TREASURER"
	MemberRoleMember    MemberRole = "MEMBER"
)

// Password cost for bcrypt
const bcryptCost = 12

// Member represents a circle member account used for authentication.
// It is the aggregate root for member-related operations.
type Member struct {
	shared.CircleAggregateRoot
	Username          string
	Email             string
	DisplayName       string
	PasswordHash      string
	Role              MemberRole
	Status            MemberStatus
	LastLoginAt       *time.Time
	LastLoginIP       string
	FailedAttempts    int
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// NewMember creates a new active member with required fields
func NewMember(circleID uuid.UUID, username, password string, role MemberRole) (*Member, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if role != MemberRoleTreasurer && role != MemberRoleMember {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be TREASURER or MEMBER")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	member := &Member{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        passwordHash,
		Role:                role,
		Status:              MemberStatusActive,
		PasswordChangedAt:   &now,
	}

	member.AddDomainEvent(NewMemberCreatedEvent(member))

	return member, nil
}

// SetEmail sets the member's email
func (m *Member) SetEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	m.Email = email
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// SetDisplayName sets the member's display name
func (m *Member) SetDisplayName(displayName string) error {
	if displayName != "" && len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}

	m.DisplayName = strings.TrimSpace(displayName)
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// ChangePassword changes the member's password after verifying the old one
func (m *Member) ChangePassword(oldPassword, newPassword string) error {
	if !m.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return m.SetPassword(newPassword)
}

// SetPassword sets a new password (treasurer reset, no old password check)
func (m *Member) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	m.PasswordHash = passwordHash
	now := time.Now()
	m.PasswordChangedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (m *Member) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password))
	return err == nil
}

// CanLogin reports whether the member may authenticate right now
func (m *Member) CanLogin() bool {
	return m.Status == MemberStatusActive && !m.IsLocked()
}

// IsLocked reports whether the account is temporarily locked
func (m *Member) IsLocked() bool {
	return m.LockedUntil != nil && m.LockedUntil.After(time.Now())
}

// IsDeactivated reports whether the account has been deactivated
func (m *Member) IsDeactivated() bool {
	return m.Status == MemberStatusDeactivated
}

// RecordLoginFailure increments the failed attempt counter and locks the
// account once maxAttempts is reached. Returns true when the account locked.
func (m *Member) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	m.FailedAttempts++
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	if m.FailedAttempts >= maxAttempts {
		lockedUntil := time.Now().Add(lockDuration)
		m.LockedUntil = &lockedUntil
		return true
	}
	return false
}

// RecordLoginSuccess resets failure tracking and stamps the login
func (m *Member) RecordLoginSuccess(ip string) {
	now := time.Now()
	m.LastLoginAt = &now
	m.LastLoginIP = ip
	m.FailedAttempts = 0
	m.LockedUntil = nil
	m.UpdatedAt = now
	m.IncrementVersion()
}

// Deactivate deactivates the member account
func (m *Member) Deactivate() error {
	if m.Status == MemberStatusDeactivated {
		return shared.NewDomainError("INVALID_STATE", "Member is already deactivated")
	}

	m.Status = MemberStatusDeactivated
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// Activate reactivates a deactivated member account
func (m *Member) Activate() error {
	if m.Status == MemberStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Member is already active")
	}

	m.Status = MemberStatusActive
	m.FailedAttempts = 0
	m.LockedUntil = nil
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// GetDisplayNameOrUsername returns the display name, falling back to username
func (m *Member) GetDisplayNameOrUsername() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Username
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,50}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters of letters, digits, dot, underscore or dash")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
