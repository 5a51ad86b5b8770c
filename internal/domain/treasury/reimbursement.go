package treasury

import (
	"fmt"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReimbursementStatus represents the status of a reimbursement request
type ReimbursementStatus string

const (
	ReimbursementStatusPending     ReimbursementStatus = "PENDING"      // Submitted, not yet picked up
	ReimbursementStatusUnderReview ReimbursementStatus = "UNDER_REVIEW" // A treasurer is reviewing
	ReimbursementStatusApproved    ReimbursementStatus = "APPROVED"     // Approved, nettable
	ReimbursementStatusRejected    ReimbursementStatus = "REJECTED"     // Rejected, terminal
	ReimbursementStatusPaid        ReimbursementStatus = "PAID"         // Paid out, terminal
)

// IsValid checks if the status is a valid ReimbursementStatus
func (s ReimbursementStatus) IsValid() bool {
	switch s {
	case ReimbursementStatusPending, ReimbursementStatusUnderReview,
		ReimbursementStatusApproved, ReimbursementStatusRejected, ReimbursementStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of ReimbursementStatus
func (s ReimbursementStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the reimbursement is in a terminal state
func (s ReimbursementStatus) IsTerminal() bool {
	return s == ReimbursementStatusRejected || s == ReimbursementStatusPaid
}

// CanReview returns true if a treasurer can pick the request up for review
func (s ReimbursementStatus) CanReview() bool {
	return s == ReimbursementStatusPending
}

// CanDecide returns true if the request can be approved or rejected
func (s ReimbursementStatus) CanDecide() bool {
	return s == ReimbursementStatusUnderReview
}

// Reimbursement represents money a circle member paid out of pocket
// and wants back from a fund. Only APPROVED reimbursements enter the
// netting computation; PAID is set exclusively by transfer execution.
type Reimbursement struct {
	shared.CircleAggregateRoot
	FundID              uuid.UUID           `json:"fund_id"`
	UserID              uuid.UUID           `json:"user_id"`           // Submitter
	RecipientUserID     uuid.UUID           `json:"recipient_user_id"` // Who gets the money, defaults to submitter
	Amount              decimal.Decimal     `json:"amount"`
	Description         string              `json:"description"`
	ExpenseDate         time.Time           `json:"expense_date"`
	Status              ReimbursementStatus `json:"status"`
	ReceiptURL          string              `json:"receipt_url"`
	ReviewerID          *uuid.UUID          `json:"reviewer_id"`
	ReviewedAt          *time.Time          `json:"reviewed_at"`
	Notes               string              `json:"notes"`
	PaidAt              *time.Time          `json:"paid_at"`
	RecurringTransferID *uuid.UUID          `json:"recurring_transfer_id"` // Set when generated from a recurring definition
	PeriodStart         *time.Time          `json:"period_start"`
}

// NewReimbursement creates a new reimbursement request in PENDING status
func NewReimbursement(
	circleID uuid.UUID,
	fundID uuid.UUID,
	userID uuid.UUID,
	recipientUserID uuid.UUID,
	amount valueobject.Money,
	description string,
	expenseDate time.Time,
) (*Reimbursement, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fund ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Submitter user ID cannot be empty")
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
	if expenseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense date is required")
	}
	if recipientUserID == uuid.Nil {
		recipientUserID = userID
	}

	r := &Reimbursement{
		CircleAggregateRoot: shared.NewCircleAggregateRootWithCreator(circleID, userID),
		FundID:              fundID,
		UserID:              userID,
		RecipientUserID:     recipientUserID,
		Amount:              amount.Amount(),
		Description:         description,
		ExpenseDate:         expenseDate,
		Status:              ReimbursementStatusPending,
	}

	r.AddDomainEvent(NewReimbursementCreatedEvent(r))

	return r, nil
}

// NewGeneratedReimbursement creates an already-approved reimbursement
// produced by a recurring transfer definition for one period.
func NewGeneratedReimbursement(
	circleID uuid.UUID,
	definition *RecurringTransfer,
	periodStart time.Time,
) (*Reimbursement, error) {
	if definition == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Recurring transfer definition is required")
	}
	if periodStart.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Period start is required")
	}

	now := time.Now()
	defID := definition.ID
	period := periodStart
	r := &Reimbursement{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		FundID:              definition.FundID,
		UserID:              definition.RecipientUserID,
		RecipientUserID:     definition.RecipientUserID,
		Amount:              definition.Amount,
		Description:         fmt.Sprintf("%s (%s)", definition.Description, describePeriod(definition.Frequency, periodStart)),
		ExpenseDate:         periodStart,
		Status:              ReimbursementStatusApproved,
		ReviewedAt:          &now,
		RecurringTransferID: &defID,
		PeriodStart:         &period,
	}

	r.AddDomainEvent(NewReimbursementCreatedEvent(r))

	return r, nil
}

// SubmitForReview moves the request from PENDING to UNDER_REVIEW
func (r *Reimbursement) SubmitForReview(reviewerID uuid.UUID) error {
	if !r.Status.CanReview() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot review reimbursement in %s status", r.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reviewer user ID cannot be empty")
	}

	now := time.Now()
	r.Status = ReimbursementStatusUnderReview
	r.ReviewerID = &reviewerID
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Approve approves the request, making it nettable
func (r *Reimbursement) Approve(reviewerID uuid.UUID, notes string) error {
	if !r.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve reimbursement in %s status", r.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reviewer user ID cannot be empty")
	}

	now := time.Now()
	r.Status = ReimbursementStatusApproved
	r.ReviewerID = &reviewerID
	r.ReviewedAt = &now
	r.Notes = notes
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Reject rejects the request
func (r *Reimbursement) Reject(reviewerID uuid.UUID, reason string) error {
	if !r.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject reimbursement in %s status", r.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reviewer user ID cannot be empty")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = ReimbursementStatusRejected
	r.ReviewerID = &reviewerID
	r.ReviewedAt = &now
	r.Notes = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// MarkPaid marks the reimbursement as paid out.
// Called only by transfer execution, never directly from the API.
func (r *Reimbursement) MarkPaid() error {
	if r.Status != ReimbursementStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved reimbursements can be paid")
	}

	now := time.Now()
	r.Status = ReimbursementStatusPaid
	r.PaidAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReimbursementPaidEvent(r))

	return nil
}

// SetReceiptURL attaches a receipt link
func (r *Reimbursement) SetReceiptURL(url string) {
	r.ReceiptURL = url
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// AmountMoney returns the amount as Money
func (r *Reimbursement) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(r.Amount)
}

// IsApproved returns true if the reimbursement is approved
func (r *Reimbursement) IsApproved() bool {
	return r.Status == ReimbursementStatusApproved
}

// IsGenerated returns true if this record was produced by the recurring generator
func (r *Reimbursement) IsGenerated() bool {
	return r.RecurringTransferID != nil
}
