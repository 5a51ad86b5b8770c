package treasury

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReimbursementService provides application-level reimbursement operations
type ReimbursementService struct {
	reimbursementRepo treasury.ReimbursementRepository
	fundRepo          treasury.FundRepository
}

// NewReimbursementService creates a new ReimbursementService
func NewReimbursementService(
	reimbursementRepo treasury.ReimbursementRepository,
	fundRepo treasury.FundRepository,
) *ReimbursementService {
	return &ReimbursementService{
		reimbursementRepo: reimbursementRepo,
		fundRepo:          fundRepo,
	}
}

// ReimbursementResponse represents a reimbursement in API responses
type ReimbursementResponse struct {
	ID                  uuid.UUID       `json:"id"`
	CircleID            uuid.UUID       `json:"circle_id"`
	FundID              uuid.UUID       `json:"fund_id"`
	UserID              uuid.UUID       `json:"user_id"`
	RecipientUserID     uuid.UUID       `json:"recipient_user_id"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	ExpenseDate         time.Time       `json:"expense_date"`
	Status              string          `json:"status"`
	ReceiptURL          string          `json:"receipt_url,omitempty"`
	ReviewerID          *uuid.UUID      `json:"reviewer_id,omitempty"`
	ReviewedAt          *time.Time      `json:"reviewed_at,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	RecurringTransferID *uuid.UUID      `json:"recurring_transfer_id,omitempty"`
	PeriodStart         *time.Time      `json:"period_start,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// CreateReimbursementRequest represents a request to create a reimbursement
type CreateReimbursementRequest struct {
	FundID          uuid.UUID       `json:"fund_id" binding:"required"`
	RecipientUserID *uuid.UUID      `json:"recipient_user_id"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	ExpenseDate     time.Time       `json:"expense_date" binding:"required"`
	ReceiptURL      string          `json:"receipt_url"`
	UserID          uuid.UUID       `json:"-"` // Set from JWT context, not from request body
}

// ReimbursementListFilter defines filtering options for reimbursement list queries
type ReimbursementListFilter struct {
	Search          string     `form:"search"`
	Status          string     `form:"status"`
	FundID          *uuid.UUID `form:"fund_id"`
	RecipientUserID *uuid.UUID `form:"recipient_user_id"`
	UserID          *uuid.UUID `form:"user_id"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir"`
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
}

// Create creates a new reimbursement request
func (s *ReimbursementService) Create(ctx context.Context, circleID uuid.UUID, req CreateReimbursementRequest) (*ReimbursementResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, req.FundID)
	if err != nil {
		return nil, err
	}
	if !fund.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot submit against an archived fund")
	}

	recipient := uuid.Nil
	if req.RecipientUserID != nil {
		recipient = *req.RecipientUserID
	}

	reimbursement, err := treasury.NewReimbursement(
		circleID,
		req.FundID,
		req.UserID,
		recipient,
		valueobject.NewMoneyEUR(req.Amount),
		req.Description,
		req.ExpenseDate,
	)
	if err != nil {
		return nil, err
	}

	if req.ReceiptURL != "" {
		reimbursement.SetReceiptURL(req.ReceiptURL)
	}

	if err := s.reimbursementRepo.Save(ctx, reimbursement); err != nil {
		return nil, err
	}

	return toReimbursementResponse(reimbursement), nil
}

// GetByID gets a reimbursement by ID
func (s *ReimbursementService) GetByID(ctx context.Context, circleID, id uuid.UUID) (*ReimbursementResponse, error) {
	reimbursement, err := s.reimbursementRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toReimbursementResponse(reimbursement), nil
}

// List lists reimbursements with filtering
func (s *ReimbursementService) List(ctx context.Context, circleID uuid.UUID, filter ReimbursementListFilter) ([]ReimbursementResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.FundID != nil {
		domainFilter.Filters["fund_id"] = *filter.FundID
	}
	if filter.RecipientUserID != nil {
		domainFilter.Filters["recipient_user_id"] = *filter.RecipientUserID
	}
	if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}

	reimbursements, err := s.reimbursementRepo.FindAllForCircle(ctx, circleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reimbursementRepo.CountForCircle(ctx, circleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReimbursementResponse, len(reimbursements))
	for i, r := range reimbursements {
		responses[i] = *toReimbursementResponse(&r)
	}
	return responses, total, nil
}

// SubmitForReview moves a reimbursement into review
func (s *ReimbursementService) SubmitForReview(ctx context.Context, circleID, id, reviewerID uuid.UUID) (*ReimbursementResponse, error) {
	reimbursement, err := s.reimbursementRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := reimbursement.SubmitForReview(reviewerID); err != nil {
		return nil, err
	}

	if err := s.reimbursementRepo.SaveWithLock(ctx, reimbursement); err != nil {
		return nil, err
	}

	return toReimbursementResponse(reimbursement), nil
}

// Approve approves a reimbursement, making it nettable
func (s *ReimbursementService) Approve(ctx context.Context, circleID, id, reviewerID uuid.UUID, notes string) (*ReimbursementResponse, error) {
	reimbursement, err := s.reimbursementRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := reimbursement.Approve(reviewerID, notes); err != nil {
		return nil, err
	}

	if err := s.reimbursementRepo.SaveWithLock(ctx, reimbursement); err != nil {
		return nil, err
	}

	return toReimbursementResponse(reimbursement), nil
}

// Reject rejects a reimbursement
func (s *ReimbursementService) Reject(ctx context.Context, circleID, id, reviewerID uuid.UUID, reason string) (*ReimbursementResponse, error) {
	reimbursement, err := s.reimbursementRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := reimbursement.Reject(reviewerID, reason); err != nil {
		return nil, err
	}

	if err := s.reimbursementRepo.SaveWithLock(ctx, reimbursement); err != nil {
		return nil, err
	}

	return toReimbursementResponse(reimbursement), nil
}

func toReimbursementResponse(r *treasury.Reimbursement) *ReimbursementResponse {
	return &ReimbursementResponse{
		ID:                  r.ID,
		CircleID:            r.CircleID,
		FundID:              r.FundID,
		UserID:              r.UserID,
		RecipientUserID:     r.RecipientUserID,
		Amount:              r.Amount,
		Description:         r.Description,
		ExpenseDate:         r.ExpenseDate,
		Status:              string(r.Status),
		ReceiptURL:          r.ReceiptURL,
		ReviewerID:          r.ReviewerID,
		ReviewedAt:          r.ReviewedAt,
		Notes:               r.Notes,
		PaidAt:              r.PaidAt,
		RecurringTransferID: r.RecurringTransferID,
		PeriodStart:         r.PeriodStart,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Version:             r.Version,
	}
}
