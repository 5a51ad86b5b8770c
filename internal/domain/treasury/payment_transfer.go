package treasury

import (
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentTransferStatus represents the status of a payment transfer
type PaymentTransferStatus string

const (
	PaymentTransferStatusPending  PaymentTransferStatus = "PENDING"
	PaymentTransferStatusExecuted PaymentTransferStatus = "EXECUTED"
)

// IsValid checks if the status is a valid PaymentTransferStatus
func (s PaymentTransferStatus) IsValid() bool {
	switch s {
	case PaymentTransferStatusPending, PaymentTransferStatusExecuted:
		return true
	}
	return false
}

// String returns the string representation of PaymentTransferStatus
func (s PaymentTransferStatus) String() string {
	return string(s)
}

// TransferItemType identifies the kind of record a transfer item points at
type TransferItemType string

const (
	TransferItemTypeReimbursement TransferItemType = "REIMBURSEMENT"
	TransferItemTypeCharge        TransferItemType = "CHARGE"
)

// TransferItem is a weak back-reference from a payment transfer to one
// of the records whose amounts were netted into it. The referenced
// record does not know about the transfer.
type TransferItem struct {
	ItemType TransferItemType `json:"item_type"`
	ItemID   uuid.UUID        `json:"item_id"`
}

// PaymentTransfer is the netted payout owed to one recipient within one
// scope. The netting engine maintains at most one PENDING transfer per
// (circle, recipient, scope) and rewrites its totals in place on refresh.
type PaymentTransfer struct {
	shared.CircleAggregateRoot
	RecipientUserID    uuid.UUID             `json:"recipient_user_id"`
	BudgetType         BudgetType            `json:"budget_type"`
	GroupID            *uuid.UUID            `json:"group_id"`
	TotalAmount        decimal.Decimal       `json:"total_amount"` // Signed: negative means the recipient owes the circle
	ReimbursementCount int                   `json:"reimbursement_count"`
	Status             PaymentTransferStatus `json:"status"`
	ExecutedAt         *time.Time            `json:"executed_at"`
	ExecutedByID       *uuid.UUID            `json:"executed_by_id"`
	Items              []TransferItem        `json:"items"`
}

// NewPaymentTransfer creates a new pending transfer for a recipient in a scope
func NewPaymentTransfer(circleID, recipientUserID uuid.UUID, scope Scope) (*PaymentTransfer, error) {
	if recipientUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Recipient user ID cannot be empty")
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	return &PaymentTransfer{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		RecipientUserID:     recipientUserID,
		BudgetType:          scope.Type,
		GroupID:             scope.GroupID,
		TotalAmount:         decimal.Zero,
		Status:              PaymentTransferStatusPending,
		Items:               make([]TransferItem, 0),
	}, nil
}

// SetTotals rewrites the netted totals and item references in place.
// Only pending transfers may be refreshed; the row keeps its identity
// so that a transfer a treasurer is looking at does not silently swap IDs.
func (p *PaymentTransfer) SetTotals(total decimal.Decimal, reimbursementCount int, items []TransferItem) error {
	if p.Status != PaymentTransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot refresh an executed transfer")
	}
	if reimbursementCount < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Reimbursement count cannot be negative")
	}

	p.TotalAmount = total
	p.ReimbursementCount = reimbursementCount
	p.Items = items
	p.UpdatedAt = time.Now()

	return nil
}

// MarkExecuted finalizes the transfer. A transfer can be executed once.
func (p *PaymentTransfer) MarkExecuted(executedBy uuid.UUID) error {
	if p.Status != PaymentTransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Transfer has already been executed")
	}
	if executedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Executor user ID cannot be empty")
	}

	now := time.Now()
	p.Status = PaymentTransferStatusExecuted
	p.ExecutedAt = &now
	p.ExecutedByID = &executedBy
	p.UpdatedAt = now

	p.AddDomainEvent(NewPaymentTransferExecutedEvent(p))

	return nil
}

// Scope returns the netting scope of this transfer
func (p *PaymentTransfer) Scope() Scope {
	return Scope{Type: p.BudgetType, GroupID: p.GroupID}
}

// IsPending returns true if the transfer has not been executed
func (p *PaymentTransfer) IsPending() bool {
	return p.Status == PaymentTransferStatusPending
}

// TotalMoney returns the signed total as Money
func (p *PaymentTransfer) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(p.TotalAmount)
}

// ItemIDs returns the IDs of all items of the given type
func (p *PaymentTransfer) ItemIDs(itemType TransferItemType) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Items))
	for _, item := range p.Items {
		if item.ItemType == itemType {
			ids = append(ids, item.ItemID)
		}
	}
	return ids
}
