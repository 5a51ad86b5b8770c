package treasury

import (
	"fmt"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlannedExpenseStatus represents the status of a planned expense
type PlannedExpenseStatus string

const (
	PlannedExpenseStatusPlanned   PlannedExpenseStatus = "PLANNED"
	PlannedExpenseStatusCommitted PlannedExpenseStatus = "COMMITTED"
	PlannedExpenseStatusCancelled PlannedExpenseStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PlannedExpenseStatus
func (s PlannedExpenseStatus) IsValid() bool {
	switch s {
	case PlannedExpenseStatusPlanned, PlannedExpenseStatusCommitted, PlannedExpenseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PlannedExpenseStatus
func (s PlannedExpenseStatus) String() string {
	return string(s)
}

// PlannedExpense represents a forecast line against a fund.
// Planned expenses never enter netting; they can be moved between funds.
type PlannedExpense struct {
	shared.CircleAggregateRoot
	FundID      uuid.UUID            `json:"fund_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	DueDate     time.Time            `json:"due_date"`
	Status      PlannedExpenseStatus `json:"status"`
}

// NewPlannedExpense creates a new planned expense in PLANNED status
func NewPlannedExpense(
	circleID uuid.UUID,
	fundID uuid.UUID,
	amount valueobject.Money,
	description string,
	dueDate time.Time,
) (*PlannedExpense, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fund ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Due date is required")
	}

	return &PlannedExpense{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		FundID:              fundID,
		Amount:              amount.Amount(),
		Description:         description,
		DueDate:             dueDate,
		Status:              PlannedExpenseStatusPlanned,
	}, nil
}

// Commit marks the planned expense as committed
func (p *PlannedExpense) Commit() error {
	if p.Status != PlannedExpenseStatusPlanned {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot commit planned expense in %s status", p.Status))
	}
	p.Status = PlannedExpenseStatusCommitted
	p.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels the planned expense
func (p *PlannedExpense) Cancel() error {
	if p.Status == PlannedExpenseStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Planned expense is already cancelled")
	}
	p.Status = PlannedExpenseStatusCancelled
	p.UpdatedAt = time.Now()
	return nil
}

// AmountMoney returns the amount as Money
func (p *PlannedExpense) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(p.Amount)
}
