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

// ChargeService provides application-level charge operations
type ChargeService struct {
	chargeRepo treasury.ChargeRepository
	fundRepo   treasury.FundRepository
}

// NewChargeService creates a new ChargeService
func NewChargeService(
	chargeRepo treasury.ChargeRepository,
	fundRepo treasury.FundRepository,
) *ChargeService {
	return &ChargeService{
		chargeRepo: chargeRepo,
		fundRepo:   fundRepo,
	}
}

// ChargeResponse represents a charge in API responses
type ChargeResponse struct {
	ID          uuid.UUID       `json:"id"`
	CircleID    uuid.UUID       `json:"circle_id"`
	FundID      uuid.UUID       `json:"fund_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ChargeDate  time.Time       `json:"charge_date"`
	Status      string          `json:"status"`
	ReviewerID  *uuid.UUID      `json:"reviewer_id,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// CreateChargeRequest represents a request to create a charge
type CreateChargeRequest struct {
	FundID      uuid.UUID       `json:"fund_id" binding:"required"`
	UserID      uuid.UUID       `json:"user_id" binding:"required"` // The debtor
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	ChargeDate  time.Time       `json:"charge_date" binding:"required"`
}

// ChargeListFilter defines filtering options for charge list queries
type ChargeListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	FundID   *uuid.UUID `form:"fund_id"`
	UserID   *uuid.UUID `form:"user_id"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// Create creates a new charge
func (s *ChargeService) Create(ctx context.Context, circleID uuid.UUID, req CreateChargeRequest) (*ChargeResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, req.FundID)
	if err != nil {
		return nil, err
	}
	if !fund.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot charge against an archived fund")
	}

	charge, err := treasury.NewCharge(
		circleID,
		req.FundID,
		req.UserID,
		valueobject.NewMoneyEUR(req.Amount),
		req.Description,
		req.ChargeDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.chargeRepo.Save(ctx, charge); err != nil {
		return nil, err
	}

	return toChargeResponse(charge), nil
}

// GetByID gets a charge by ID
func (s *ChargeService) GetByID(ctx context.Context, circleID, id uuid.UUID) (*ChargeResponse, error) {
	charge, err := s.chargeRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toChargeResponse(charge), nil
}

// List lists charges with filtering
func (s *ChargeService) List(ctx context.Context, circleID uuid.UUID, filter ChargeListFilter) ([]ChargeResponse, int64, error) {
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
	if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}

	charges, err := s.chargeRepo.FindAllForCircle(ctx, circleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.chargeRepo.CountForCircle(ctx, circleID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ChargeResponse, len(charges))
	for i, c := range charges {
		responses[i] = *toChargeResponse(&c)
	}
	return responses, total, nil
}

// SubmitForReview moves a charge into review
func (s *ChargeService) SubmitForReview(ctx context.Context, circleID, id, reviewerID uuid.UUID) (*ChargeResponse, error) {
	charge, err := s.chargeRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := charge.SubmitForReview(reviewerID); err != nil {
		return nil, err
	}

	if err := s.chargeRepo.SaveWithLock(ctx, charge); err != nil {
		return nil, err
	}

	return toChargeResponse(charge), nil
}

// Approve confirms a charge
func (s *ChargeService) Approve(ctx context.Context, circleID, id, reviewerID uuid.UUID, notes string) (*ChargeResponse, error) {
	charge, err := s.chargeRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := charge.Approve(reviewerID, notes); err != nil {
		return nil, err
	}

	if err := s.chargeRepo.SaveWithLock(ctx, charge); err != nil {
		return nil, err
	}

	return toChargeResponse(charge), nil
}

// Cancel withdraws an open charge
func (s *ChargeService) Cancel(ctx context.Context, circleID, id, cancelledBy uuid.UUID, reason string) (*ChargeResponse, error) {
	charge, err := s.chargeRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := charge.Cancel(cancelledBy, reason); err != nil {
		return nil, err
	}

	if err := s.chargeRepo.SaveWithLock(ctx, charge); err != nil {
		return nil, err
	}

	return toChargeResponse(charge), nil
}

func toChargeResponse(c *treasury.Charge) *ChargeResponse {
	return &ChargeResponse{
		ID:          c.ID,
		CircleID:    c.CircleID,
		FundID:      c.FundID,
		UserID:      c.UserID,
		Amount:      c.Amount,
		Description: c.Description,
		ChargeDate:  c.ChargeDate,
		Status:      string(c.Status),
		ReviewerID:  c.ReviewerID,
		ReviewedAt:  c.ReviewedAt,
		Notes:       c.Notes,
		SettledAt:   c.SettledAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}
