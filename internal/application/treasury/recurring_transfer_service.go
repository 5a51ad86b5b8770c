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

// RecurringTransferService provides application-level operations on
// recurring transfer definitions. Generation itself lives in RecurringService.
type RecurringTransferService struct {
	recurringRepo treasury.RecurringTransferRepository
	fundRepo      treasury.FundRepository
}

// NewRecurringTransferService creates a new RecurringTransferService
func NewRecurringTransferService(
	recurringRepo treasury.RecurringTransferRepository,
	fundRepo treasury.FundRepository,
) *RecurringTransferService {
	return &RecurringTransferService{
		recurringRepo: recurringRepo,
		fundRepo:      fundRepo,
	}
}

// RecurringTransferResponse represents a recurring definition in API responses
type RecurringTransferResponse struct {
	ID              uuid.UUID       `json:"id"`
	CircleID        uuid.UUID       `json:"circle_id"`
	RecipientUserID uuid.UUID       `json:"recipient_user_id"`
	FundID          uuid.UUID       `json:"fund_id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Frequency       string          `json:"frequency"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreateRecurringTransferRequest represents a request to create a definition
type CreateRecurringTransferRequest struct {
	RecipientUserID uuid.UUID       `json:"recipient_user_id" binding:"required"`
	FundID          uuid.UUID       `json:"fund_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Frequency       string          `json:"frequency" binding:"required"`
	StartDate       time.Time       `json:"start_date" binding:"required"`
	EndDate         *time.Time      `json:"end_date"`
}

// Create creates a new recurring transfer definition
func (s *RecurringTransferService) Create(ctx context.Context, circleID uuid.UUID, req CreateRecurringTransferRequest) (*RecurringTransferResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, req.FundID)
	if err != nil {
		return nil, err
	}
	if !fund.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot create a recurring transfer against an archived fund")
	}

	definition, err := treasury.NewRecurringTransfer(
		circleID,
		req.RecipientUserID,
		req.FundID,
		valueobject.NewMoneyEUR(req.Amount),
		req.Description,
		treasury.Frequency(req.Frequency),
		req.StartDate,
		req.EndDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.recurringRepo.Save(ctx, definition); err != nil {
		return nil, err
	}

	return toRecurringTransferResponse(definition), nil
}

// GetByID gets a recurring transfer definition by ID
func (s *RecurringTransferService) GetByID(ctx context.Context, circleID, id uuid.UUID) (*RecurringTransferResponse, error) {
	definition, err := s.recurringRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toRecurringTransferResponse(definition), nil
}

// List lists recurring transfer definitions
func (s *RecurringTransferService) List(ctx context.Context, circleID uuid.UUID, page, pageSize int) ([]RecurringTransferResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	definitions, err := s.recurringRepo.FindAllForCircle(ctx, circleID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]RecurringTransferResponse, len(definitions))
	for i, d := range definitions {
		responses[i] = *toRecurringTransferResponse(&d)
	}
	return responses, nil
}

// Pause suspends generation for a definition
func (s *RecurringTransferService) Pause(ctx context.Context, circleID, id uuid.UUID) (*RecurringTransferResponse, error) {
	definition, err := s.recurringRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := definition.Pause(); err != nil {
		return nil, err
	}

	if err := s.recurringRepo.Save(ctx, definition); err != nil {
		return nil, err
	}

	return toRecurringTransferResponse(definition), nil
}

// Resume reactivates a paused definition
func (s *RecurringTransferService) Resume(ctx context.Context, circleID, id uuid.UUID) (*RecurringTransferResponse, error) {
	definition, err := s.recurringRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := definition.Resume(); err != nil {
		return nil, err
	}

	if err := s.recurringRepo.Save(ctx, definition); err != nil {
		return nil, err
	}

	return toRecurringTransferResponse(definition), nil
}

// Delete removes a definition. Already generated records are untouched.
func (s *RecurringTransferService) Delete(ctx context.Context, circleID, id uuid.UUID) error {
	if _, err := s.recurringRepo.FindByIDForCircle(ctx, circleID, id); err != nil {
		return err
	}
	return s.recurringRepo.Delete(ctx, circleID, id)
}

func toRecurringTransferResponse(r *treasury.RecurringTransfer) *RecurringTransferResponse {
	return &RecurringTransferResponse{
		ID:              r.ID,
		CircleID:        r.CircleID,
		RecipientUserID: r.RecipientUserID,
		FundID:          r.FundID,
		Amount:          r.Amount,
		Description:     r.Description,
		Frequency:       string(r.Frequency),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}
