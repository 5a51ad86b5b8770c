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

// ExpenseService provides application-level operations for direct and
// planned expenses. Neither kind enters netting; both are moveable.
type ExpenseService struct {
	directRepo  treasury.DirectExpenseRepository
	plannedRepo treasury.PlannedExpenseRepository
	fundRepo    treasury.FundRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	directRepo treasury.DirectExpenseRepository,
	plannedRepo treasury.PlannedExpenseRepository,
	fundRepo treasury.FundRepository,
) *ExpenseService {
	return &ExpenseService{
		directRepo:  directRepo,
		plannedRepo: plannedRepo,
		fundRepo:    fundRepo,
	}
}

// ===================== Direct Expense Operations =====================

// DirectExpenseResponse represents a direct expense in API responses
type DirectExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	CircleID    uuid.UUID       `json:"circle_id"`
	FundID      uuid.UUID       `json:"fund_id"`
	ApartmentID *uuid.UUID      `json:"apartment_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	IncurredAt  time.Time       `json:"incurred_at"`
	EnteredByID uuid.UUID       `json:"entered_by_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// CreateDirectExpenseRequest represents a request to record a direct expense
type CreateDirectExpenseRequest struct {
	FundID      uuid.UUID       `json:"fund_id" binding:"required"`
	ApartmentID *uuid.UUID      `json:"apartment_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	IncurredAt  time.Time       `json:"incurred_at" binding:"required"`
	EnteredByID uuid.UUID       `json:"-"` // Set from JWT context, not from request body
}

// CreateDirectExpense records a direct expense against a fund
func (s *ExpenseService) CreateDirectExpense(ctx context.Context, circleID uuid.UUID, req CreateDirectExpenseRequest) (*DirectExpenseResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, req.FundID)
	if err != nil {
		return nil, err
	}
	if !fund.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record against an archived fund")
	}

	expense, err := treasury.NewDirectExpense(
		circleID,
		req.FundID,
		req.EnteredByID,
		valueobject.NewMoneyEUR(req.Amount),
		req.Description,
		req.IncurredAt,
		req.ApartmentID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.directRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	return toDirectExpenseResponse(expense), nil
}

// GetDirectExpenseByID gets a direct expense by ID
func (s *ExpenseService) GetDirectExpenseByID(ctx context.Context, circleID, id uuid.UUID) (*DirectExpenseResponse, error) {
	expense, err := s.directRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toDirectExpenseResponse(expense), nil
}

// ListDirectExpenses lists direct expenses for a circle
func (s *ExpenseService) ListDirectExpenses(ctx context.Context, circleID uuid.UUID, fundID *uuid.UUID, page, pageSize int) ([]DirectExpenseResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if fundID != nil {
		filter.Filters["fund_id"] = *fundID
	}

	expenses, err := s.directRepo.FindAllForCircle(ctx, circleID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]DirectExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = *toDirectExpenseResponse(&e)
	}
	return responses, nil
}

// ===================== Planned Expense Operations =====================

// PlannedExpenseResponse represents a planned expense in API responses
type PlannedExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	CircleID    uuid.UUID       `json:"circle_id"`
	FundID      uuid.UUID       `json:"fund_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// CreatePlannedExpenseRequest represents a request to create a forecast line
type CreatePlannedExpenseRequest struct {
	FundID      uuid.UUID       `json:"fund_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
}

// CreatePlannedExpense creates a forecast line against a fund
func (s *ExpenseService) CreatePlannedExpense(ctx context.Context, circleID uuid.UUID, req CreatePlannedExpenseRequest) (*PlannedExpenseResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, req.FundID)
	if err != nil {
		return nil, err
	}
	if !fund.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot plan against an archived fund")
	}

	expense, err := treasury.NewPlannedExpense(
		circleID,
		req.FundID,
		valueobject.NewMoneyEUR(req.Amount),
		req.Description,
		req.DueDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.plannedRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	return toPlannedExpenseResponse(expense), nil
}

// GetPlannedExpenseByID gets a planned expense by ID
func (s *ExpenseService) GetPlannedExpenseByID(ctx context.Context, circleID, id uuid.UUID) (*PlannedExpenseResponse, error) {
	expense, err := s.plannedRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toPlannedExpenseResponse(expense), nil
}

// ListPlannedExpenses lists planned expenses for a circle
func (s *ExpenseService) ListPlannedExpenses(ctx context.Context, circleID uuid.UUID, fundID *uuid.UUID, status string, page, pageSize int) ([]PlannedExpenseResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if fundID != nil {
		filter.Filters["fund_id"] = *fundID
	}
	if status != "" {
		filter.Filters["status"] = status
	}

	expenses, err := s.plannedRepo.FindAllForCircle(ctx, circleID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PlannedExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = *toPlannedExpenseResponse(&e)
	}
	return responses, nil
}

// CommitPlannedExpense marks a forecast line as committed
func (s *ExpenseService) CommitPlannedExpense(ctx context.Context, circleID, id uuid.UUID) (*PlannedExpenseResponse, error) {
	expense, err := s.plannedRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := expense.Commit(); err != nil {
		return nil, err
	}

	if err := s.plannedRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	return toPlannedExpenseResponse(expense), nil
}

// CancelPlannedExpense cancels a forecast line
func (s *ExpenseService) CancelPlannedExpense(ctx context.Context, circleID, id uuid.UUID) (*PlannedExpenseResponse, error) {
	expense, err := s.plannedRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := expense.Cancel(); err != nil {
		return nil, err
	}

	if err := s.plannedRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	return toPlannedExpenseResponse(expense), nil
}

func toDirectExpenseResponse(e *treasury.DirectExpense) *DirectExpenseResponse {
	return &DirectExpenseResponse{
		ID:          e.ID,
		CircleID:    e.CircleID,
		FundID:      e.FundID,
		ApartmentID: e.ApartmentID,
		Amount:      e.Amount,
		Description: e.Description,
		IncurredAt:  e.IncurredAt,
		EnteredByID: e.EnteredByID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}

func toPlannedExpenseResponse(e *treasury.PlannedExpense) *PlannedExpenseResponse {
	return &PlannedExpenseResponse{
		ID:          e.ID,
		CircleID:    e.CircleID,
		FundID:      e.FundID,
		Amount:      e.Amount,
		Description: e.Description,
		DueDate:     e.DueDate,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}
