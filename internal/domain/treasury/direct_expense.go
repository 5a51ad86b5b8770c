package treasury

import (
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DirectExpense represents money a treasurer spent straight from a fund.
// There is no approval flow and direct expenses never enter netting;
// they exist for bookkeeping and can be moved between funds.
type DirectExpense struct {
	shared.CircleAggregateRoot
	FundID      uuid.UUID       `json:"fund_id"`
	ApartmentID *uuid.UUID      `json:"apartment_id"` // Optional location tag
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	IncurredAt  time.Time       `json:"incurred_at"`
	EnteredByID uuid.UUID       `json:"entered_by_id"`
}

// NewDirectExpense creates a new direct expense entry
func NewDirectExpense(
	circleID uuid.UUID,
	fundID uuid.UUID,
	enteredByID uuid.UUID,
	amount valueobject.Money,
	description string,
	incurredAt time.Time,
	apartmentID *uuid.UUID,
) (*DirectExpense, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fund ID cannot be empty")
	}
	if enteredByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Treasurer user ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if incurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Incurred date is required")
	}

	return &DirectExpense{
		CircleAggregateRoot: shared.NewCircleAggregateRootWithCreator(circleID, enteredByID),
		FundID:              fundID,
		ApartmentID:         apartmentID,
		Amount:              amount.Amount(),
		Description:         description,
		IncurredAt:          incurredAt,
		EnteredByID:         enteredByID,
	}, nil
}

// AmountMoney returns the amount as Money
func (d *DirectExpense) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(d.Amount)
}
