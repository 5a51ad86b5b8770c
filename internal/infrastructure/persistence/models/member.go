package models

import (
	"time"

	"github.com/circleops/treasury/internal/domain/identity"
	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberModel is the persistence model for circle member accounts.
// It declares the circle columns itself instead of embedding
// CircleAggregateModel so the (circle_id, username) unique index can be
// expressed: usernames are unique per circle, not globally.
type MemberModel struct {
	AggregateModel
	CircleID          uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_members_circle_username"`
	CreatedBy         *uuid.UUID `gorm:"type:uuid;index"`
	Username          string     `gorm:"size:50;not null;uniqueIndex:idx_members_circle_username"`
	Email             string     `gorm:"size:255"`
	DisplayName       string     `gorm:"size:200"`
	PasswordHash      string     `gorm:"size:255;not null"`
	Role              string     `gorm:"size:20;not null"`
	Status            string     `gorm:"size:20;not null;index"`
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"size:45"`
	FailedAttempts    int    `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName specifies the table name
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the model to a domain Member
func (m *MemberModel) ToDomain() *identity.Member {
	var root shared.CircleAggregateRoot
	root.ID = m.ID
	root.CreatedAt = m.CreatedAt
	root.UpdatedAt = m.UpdatedAt
	root.Version = m.Version
	root.CircleID = m.CircleID
	root.CreatedBy = m.CreatedBy

	return &identity.Member{
		CircleAggregateRoot: root,
		Username:            m.Username,
		Email:               m.Email,
		DisplayName:         m.DisplayName,
		PasswordHash:        m.PasswordHash,
		Role:                identity.MemberRole(m.Role),
		Status:              identity.MemberStatus(m.Status),
		LastLoginAt:         m.LastLoginAt,
		LastLoginIP:         m.LastLoginIP,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
		PasswordChangedAt:   m.PasswordChangedAt,
	}
}

// MemberModelFromDomain converts a domain Member to the persistence model
func MemberModelFromDomain(member *identity.Member) *MemberModel {
	model := &MemberModel{
		Username:          member.Username,
		Email:             member.Email,
		DisplayName:       member.DisplayName,
		PasswordHash:      member.PasswordHash,
		Role:              string(member.Role),
		Status:            string(member.Status),
		LastLoginAt:       member.LastLoginAt,
		LastLoginIP:       member.LastLoginIP,
		FailedAttempts:    member.FailedAttempts,
		LockedUntil:       member.LockedUntil,
		PasswordChangedAt: member.PasswordChangedAt,
	}
	model.FromDomainAggregateRoot(member.BaseAggregateRoot)
	model.CircleID = member.CircleID
	model.CreatedBy = member.CreatedBy
	return model
}
