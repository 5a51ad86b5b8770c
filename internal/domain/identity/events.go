package identity

import (
	"github.com/circleops/treasury/internal/domain/shared"
)

// Event types for the identity domain
const (
	EventTypeMemberCreated = "identity.member.created"
)

// MemberCreatedEvent is raised when a member account is created
type MemberCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewMemberCreatedEvent creates a new MemberCreatedEvent
func NewMemberCreatedEvent(m *Member) *MemberCreatedEvent {
	return &MemberCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberCreated, "Member", m.ID, m.CircleID),
		Username:        m.Username,
		Role:            string(m.Role),
	}
}
