package treasury

import (
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
)

// FundStatus represents the lifecycle state of a fund
type FundStatus string

const (
	FundStatusActive   FundStatus = "ACTIVE"
	FundStatusArchived FundStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid FundStatus
func (s FundStatus) IsValid() bool {
	switch s {
	case FundStatusActive, FundStatusArchived:
		return true
	}
	return false
}

// Fund represents a pot of allocated money inside a budget.
// Records reference funds by ID; membership changes only through
// the fund movement tool, never by editing records directly.
type Fund struct {
	shared.CircleAggregateRoot
	BudgetID uuid.UUID  `json:"budget_id"`
	Name     string     `json:"name"`
	Status   FundStatus `json:"status"`
	Remark   string     `json:"remark"`
}

// NewFund creates a new fund inside a budget
func NewFund(circleID, budgetID uuid.UUID, name string) (*Fund, error) {
	if budgetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Budget ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Fund name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Fund name cannot exceed 100 characters")
	}

	return &Fund{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		BudgetID:            budgetID,
		Name:                name,
		Status:              FundStatusActive,
	}, nil
}

// Rename changes the fund name
func (f *Fund) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Fund name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Fund name cannot exceed 100 characters")
	}
	f.Name = name
	f.UpdatedAt = time.Now()
	return nil
}

// Archive marks the fund as archived
func (f *Fund) Archive() error {
	if f.Status == FundStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Fund is already archived")
	}
	f.Status = FundStatusArchived
	f.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if the fund is active
func (f *Fund) IsActive() bool {
	return f.Status == FundStatusActive
}
