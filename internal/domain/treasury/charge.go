package treasury

import (
	"fmt"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeStatus represents the status of a charge
type ChargeStatus string

const (
	ChargeStatusPending     ChargeStatus = "PENDING"
	ChargeStatusUnderReview ChargeStatus = "UNDER_REVIEW"
	ChargeStatusApproved    ChargeStatus = "APPROVED"
	ChargeStatusCancelled   ChargeStatus = "CANCELLED" // Withdrawn before settlement, terminal
	ChargeStatusPaid        ChargeStatus = "PAID"      // Settled via transfer execution, terminal
)

// IsValid checks if the status is a valid ChargeStatus
func (s ChargeStatus) IsValid() bool {
	switch s {
	case ChargeStatusPending, ChargeStatusUnderReview, ChargeStatusApproved,
		ChargeStatusCancelled, ChargeStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of ChargeStatus
func (s ChargeStatus) String() string {
	return string(s)
}

// IsOpen returns true while the charge still counts as owed.
// Unlike reimbursements, a charge is a debt from the moment it is
// entered: pending and under-review charges net the same as approved ones.
func (s ChargeStatus) IsOpen() bool {
	return s == ChargeStatusPending || s == ChargeStatusUnderReview || s == ChargeStatusApproved
}

// IsTerminal returns true if the charge is in a terminal state
func (s ChargeStatus) IsTerminal() bool {
	return s == ChargeStatusCancelled || s == ChargeStatusPaid
}

// OpenChargeStatuses lists every status that counts as owed
func OpenChargeStatuses() []ChargeStatus {
	return []ChargeStatus{ChargeStatusPending, ChargeStatusUnderReview, ChargeStatusApproved}
}

// Charge represents money a circle member owes to a fund, for example
// membership dues or damage compensation. Open charges are debited
// against the member's reimbursements during netting.
type Charge struct {
	shared.CircleAggregateRoot
	FundID      uuid.UUID    `json:"fund_id"`
	UserID      uuid.UUID    `json:"user_id"` // The debtor
	Amount      decimal.Decimal `json:"amount"`
	Description string       `json:"description"`
	ChargeDate  time.Time    `json:"charge_date"`
	Status      ChargeStatus `json:"status"`
	ReviewerID  *uuid.UUID   `json:"reviewer_id"`
	ReviewedAt  *time.Time   `json:"reviewed_at"`
	Notes       string       `json:"notes"`
	SettledAt   *time.Time   `json:"settled_at"`
}

// NewCharge creates a new charge in PENDING status
func NewCharge(
	circleID uuid.UUID,
	fundID uuid.UUID,
	userID uuid.UUID,
	amount valueobject.Money,
	description string,
	chargeDate time.Time,
) (*Charge, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fund ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Debtor user ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if chargeDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Charge date is required")
	}

	return &Charge{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		FundID:              fundID,
		UserID:              userID,
		Amount:              amount.Amount(),
		Description:         description,
		ChargeDate:          chargeDate,
		Status:              ChargeStatusPending,
	}, nil
}

// SubmitForReview moves the charge from PENDING to UNDER_REVIEW
func (c *Charge) SubmitForReview(reviewerID uuid.UUID) error {
	if c.Status != ChargeStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot review charge in %s status", c.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reviewer user ID cannot be empty")
	}

	c.Status = ChargeStatusUnderReview
	c.ReviewerID = &reviewerID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Approve confirms the charge
func (c *Charge) Approve(reviewerID uuid.UUID, notes string) error {
	if c.Status != ChargeStatusUnderReview {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve charge in %s status", c.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reviewer user ID cannot be empty")
	}

	now := time.Now()
	c.Status = ChargeStatusApproved
	c.ReviewerID = &reviewerID
	c.ReviewedAt = &now
	c.Notes = notes
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// Cancel withdraws an open charge
func (c *Charge) Cancel(cancelledBy uuid.UUID, reason string) error {
	if !c.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel charge in %s status", c.Status))
	}
	if cancelledBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	c.Status = ChargeStatusCancelled
	c.ReviewerID = &cancelledBy
	c.ReviewedAt = &now
	c.Notes = reason
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// MarkSettled marks the charge as settled.
// Called only by transfer execution, either because the charge was
// deducted from a payout or because it was consumed as carry-forward debt.
func (c *Charge) MarkSettled() error {
	if !c.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Only open charges can be settled")
	}

	now := time.Now()
	c.Status = ChargeStatusPaid
	c.SettledAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewChargeSettledEvent(c))

	return nil
}

// AmountMoney returns the amount as Money
func (c *Charge) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(c.Amount)
}

// IsOpen returns true while the charge counts as owed
func (c *Charge) IsOpen() bool {
	return c.Status.IsOpen()
}
