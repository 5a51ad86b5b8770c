package treasury

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentTransferService provides read access to payment transfers.
// Mutations go through NettingService and TransferExecutionService.
type PaymentTransferService struct {
	transferRepo treasury.PaymentTransferRepository
}

// NewPaymentTransferService creates a new PaymentTransferService
func NewPaymentTransferService(transferRepo treasury.PaymentTransferRepository) *PaymentTransferService {
	return &PaymentTransferService{transferRepo: transferRepo}
}

// TransferItemResponse represents one netted record reference in API responses
type TransferItemResponse struct {
	ItemType string    `json:"item_type"`
	ItemID   uuid.UUID `json:"item_id"`
}

// PaymentTransferResponse represents a payment transfer in API responses
type PaymentTransferResponse struct {
	ID                 uuid.UUID              `json:"id"`
	CircleID           uuid.UUID              `json:"circle_id"`
	RecipientUserID    uuid.UUID              `json:"recipient_user_id"`
	BudgetType         string                 `json:"budget_type"`
	GroupID            *uuid.UUID             `json:"group_id,omitempty"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	ReimbursementCount int                    `json:"reimbursement_count"`
	Status             string                 `json:"status"`
	ExecutedAt         *time.Time             `json:"executed_at,omitempty"`
	ExecutedByID       *uuid.UUID             `json:"executed_by_id,omitempty"`
	Items              []TransferItemResponse `json:"items"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	Version            int                    `json:"version"`
}

// PaymentTransferListFilter defines filtering options for transfer list queries
type PaymentTransferListFilter struct {
	Status          string     `form:"status"`
	BudgetType      string     `form:"budget_type"`
	GroupID         *uuid.UUID `form:"group_id"`
	RecipientUserID *uuid.UUID `form:"recipient_user_id"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir"`
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
}

// GetByID gets a payment transfer by ID
func (s *PaymentTransferService) GetByID(ctx context.Context, circleID, id uuid.UUID) (*PaymentTransferResponse, error) {
	transfer, err := s.transferRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toPaymentTransferResponse(transfer), nil
}

// List lists payment transfers with filtering
func (s *PaymentTransferService) List(ctx context.Context, circleID uuid.UUID, filter PaymentTransferListFilter) ([]PaymentTransferResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.BudgetType != "" {
		domainFilter.Filters["budget_type"] = filter.BudgetType
	}
	if filter.GroupID != nil {
		domainFilter.Filters["group_id"] = *filter.GroupID
	}
	if filter.RecipientUserID != nil {
		domainFilter.Filters["recipient_user_id"] = *filter.RecipientUserID
	}

	transfers, err := s.transferRepo.FindAllForCircle(ctx, circleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.CountForCircle(ctx, circleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentTransferResponse, len(transfers))
	for i, t := range transfers {
		responses[i] = *toPaymentTransferResponse(&t)
	}
	return responses, total, nil
}

// Stats returns pending/executed counts and totals for a circle
func (s *PaymentTransferService) Stats(ctx context.Context, circleID uuid.UUID) (*treasury.TransferStats, error) {
	return s.transferRepo.Stats(ctx, circleID)
}

func toPaymentTransferResponse(t *treasury.PaymentTransfer) *PaymentTransferResponse {
	items := make([]TransferItemResponse, len(t.Items))
	for i, item := range t.Items {
		items[i] = TransferItemResponse{
			ItemType: string(item.ItemType),
			ItemID:   item.ItemID,
		}
	}

	return &PaymentTransferResponse{
		ID:                 t.ID,
		CircleID:           t.CircleID,
		RecipientUserID:    t.RecipientUserID,
		BudgetType:         string(t.BudgetType),
		GroupID:            t.GroupID,
		TotalAmount:        t.TotalAmount,
		ReimbursementCount: t.ReimbursementCount,
		Status:             string(t.Status),
		ExecutedAt:         t.ExecutedAt,
		ExecutedByID:       t.ExecutedByID,
		Items:              items,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
		Version:            t.Version,
	}
}
