package treasury

import (
	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the treasury domain
const (
	EventTypeReimbursementCreated    = "treasury.reimbursement.created"
	EventTypeReimbursementPaid       = "treasury.reimbursement.paid"
	EventTypeChargeSettled           = "treasury.charge.settled"
	EventTypePaymentTransferExecuted = "treasury.payment_transfer.executed"
)

// ReimbursementCreatedEvent is raised when a reimbursement request enters the ledger
type ReimbursementCreatedEvent struct {
	shared.BaseDomainEvent
	FundID          uuid.UUID       `json:"fund_id"`
	RecipientUserID uuid.UUID       `json:"recipient_user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Generated       bool            `json:"generated"`
}

// NewReimbursementCreatedEvent creates a new ReimbursementCreatedEvent
func NewReimbursementCreatedEvent(r *Reimbursement) *ReimbursementCreatedEvent {
	return &ReimbursementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReimbursementCreated, "Reimbursement", r.ID, r.CircleID),
		FundID:          r.FundID,
		RecipientUserID: r.RecipientUserID,
		Amount:          r.Amount,
		Generated:       r.IsGenerated(),
	}
}

// ReimbursementPaidEvent is raised when transfer execution pays a reimbursement out
type ReimbursementPaidEvent struct {
	shared.BaseDomainEvent
	RecipientUserID uuid.UUID       `json:"recipient_user_id"`
	Amount          decimal.Decimal `json:"amount"`
}

// NewReimbursementPaidEvent creates a new ReimbursementPaidEvent
func NewReimbursementPaidEvent(r *Reimbursement) *ReimbursementPaidEvent {
	return &ReimbursementPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReimbursementPaid, "Reimbursement", r.ID, r.CircleID),
		RecipientUserID: r.RecipientUserID,
		Amount:          r.Amount,
	}
}

// ChargeSettledEvent is raised when a charge is settled by transfer execution
type ChargeSettledEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID       `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// NewChargeSettledEvent creates a new ChargeSettledEvent
func NewChargeSettledEvent(c *Charge) *ChargeSettledEvent {
	return &ChargeSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChargeSettled, "Charge", c.ID, c.CircleID),
		UserID:          c.UserID,
		Amount:          c.Amount,
	}
}

// PaymentTransferExecutedEvent is raised when a pending transfer is executed
type PaymentTransferExecutedEvent struct {
	shared.BaseDomainEvent
	RecipientUserID uuid.UUID       `json:"recipient_user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ExecutedByID    uuid.UUID       `json:"executed_by_id"`
}

// NewPaymentTransferExecutedEvent creates a new PaymentTransferExecutedEvent
func NewPaymentTransferExecutedEvent(p *PaymentTransfer) *PaymentTransferExecutedEvent {
	executedBy := uuid.Nil
	if p.ExecutedByID != nil {
		executedBy = *p.ExecutedByID
	}
	return &PaymentTransferExecutedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentTransferExecuted, "PaymentTransfer", p.ID, p.CircleID),
		RecipientUserID: p.RecipientUserID,
		TotalAmount:     p.TotalAmount,
		ExecutedByID:    executedBy,
	}
}
