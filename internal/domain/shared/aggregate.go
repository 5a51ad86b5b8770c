package shared

import (
	"github.com/google/uuid"
)

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// CircleAggregateRoot extends BaseAggregateRoot with circle (tenant) scoping.
// Every treasury aggregate belongs to exactly one circle.
type CircleAggregateRoot struct {
	BaseAggregateRoot
	CircleID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewCircleAggregateRoot creates a new circle-scoped aggregate root
func NewCircleAggregateRoot(circleID uuid.UUID) CircleAggregateRoot {
	return CircleAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CircleID:          circleID,
	}
}

// NewCircleAggregateRootWithCreator creates a new circle-scoped aggregate root with creator info
func NewCircleAggregateRootWithCreator(circleID, createdBy uuid.UUID) CircleAggregateRoot {
	return CircleAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CircleID:          circleID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (c *CircleAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	c.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (c *CircleAggregateRoot) GetCreatedBy() *uuid.UUID {
	return c.CreatedBy
}
