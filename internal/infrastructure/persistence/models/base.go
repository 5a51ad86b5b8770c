package models

import (
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// CircleAggregateModel provides common persistence fields for circle-scoped
// aggregate roots. It extends AggregateModel with circle ID and creator info.
type CircleAggregateModel struct {
	AggregateModel
	CircleID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainCircleAggregateRoot populates CircleAggregateModel from domain CircleAggregateRoot
func (m *CircleAggregateModel) FromDomainCircleAggregateRoot(c shared.CircleAggregateRoot) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CircleID = c.CircleID
	m.CreatedBy = c.CreatedBy
}

// PopulateCircleAggregateRoot populates a domain CircleAggregateRoot from persistence model
func (m *CircleAggregateModel) PopulateCircleAggregateRoot(c *shared.CircleAggregateRoot) {
	c.BaseAggregateRoot.BaseEntity.ID = m.ID
	c.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	c.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	c.BaseAggregateRoot.Version = m.Version
	c.CircleID = m.CircleID
	c.CreatedBy = m.CreatedBy
}

// circleAggregateRoot builds a domain CircleAggregateRoot from the model fields
func (m *CircleAggregateModel) circleAggregateRoot() shared.CircleAggregateRoot {
	var root shared.CircleAggregateRoot
	m.PopulateCircleAggregateRoot(&root)
	return root
}
