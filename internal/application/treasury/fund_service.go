package treasury

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
)

// FundService provides application-level budget and fund operations
type FundService struct {
	fundRepo   treasury.FundRepository
	budgetRepo treasury.BudgetRepository
}

// NewFundService creates a new FundService
func NewFundService(
	fundRepo treasury.FundRepository,
	budgetRepo treasury.BudgetRepository,
) *FundService {
	return &FundService{
		fundRepo:   fundRepo,
		budgetRepo: budgetRepo,
	}
}

// ===================== Budget Operations =====================

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID         uuid.UUID  `json:"id"`
	CircleID   uuid.UUID  `json:"circle_id"`
	Name       string     `json:"name"`
	BudgetType string     `json:"budget_type"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	FiscalYear int        `json:"fiscal_year"`
	Remark     string     `json:"remark,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// CreateBudgetRequest represents a request to create a budget
type CreateBudgetRequest struct {
	Name       string     `json:"name" binding:"required"`
	BudgetType string     `json:"budget_type" binding:"required"`
	GroupID    *uuid.UUID `json:"group_id"`
	FiscalYear int        `json:"fiscal_year"`
	Remark     string     `json:"remark"`
}

// CreateBudget creates a new budget
func (s *FundService) CreateBudget(ctx context.Context, circleID uuid.UUID, req CreateBudgetRequest) (*BudgetResponse, error) {
	budget, err := treasury.NewBudget(circleID, req.Name, treasury.BudgetType(req.BudgetType), req.GroupID, req.FiscalYear)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		budget.Remark = req.Remark
	}

	if err := s.budgetRepo.Save(ctx, budget); err != nil {
		return nil, err
	}

	return toBudgetResponse(budget), nil
}

// GetBudgetByID gets a budget by ID
func (s *FundService) GetBudgetByID(ctx context.Context, circleID, id uuid.UUID) (*BudgetResponse, error) {
	budget, err := s.budgetRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toBudgetResponse(budget), nil
}

// ListBudgets lists all budgets for a circle
func (s *FundService) ListBudgets(ctx context.Context, circleID uuid.UUID, page, pageSize int) ([]BudgetResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	budgets, err := s.budgetRepo.FindAllForCircle(ctx, circleID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = *toBudgetResponse(&b)
	}
	return responses, nil
}

// RenameBudget renames a budget
func (s *FundService) RenameBudget(ctx context.Context, circleID, id uuid.UUID, name string) (*BudgetResponse, error) {
	budget, err := s.budgetRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := budget.Rename(name); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, budget); err != nil {
		return nil, err
	}

	return toBudgetResponse(budget), nil
}

// DeleteBudget deletes a budget with no remaining funds
func (s *FundService) DeleteBudget(ctx context.Context, circleID, id uuid.UUID) error {
	if _, err := s.budgetRepo.FindByIDForCircle(ctx, circleID, id); err != nil {
		return err
	}

	fundFilter := shared.DefaultFilter()
	fundFilter.Filters["budget_id"] = id
	funds, err := s.fundRepo.FindAllForCircle(ctx, circleID, fundFilter)
	if err != nil {
		return err
	}
	if len(funds) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a budget that still has funds")
	}

	return s.budgetRepo.Delete(ctx, circleID, id)
}

// ===================== Fund Operations =====================

// FundResponse represents a fund in API responses
type FundResponse struct {
	ID        uuid.UUID `json:"id"`
	CircleID  uuid.UUID `json:"circle_id"`
	BudgetID  uuid.UUID `json:"budget_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// CreateFundRequest represents a request to create a fund
type CreateFundRequest struct {
	BudgetID uuid.UUID `json:"budget_id" binding:"required"`
	Name     string    `json:"name" binding:"required"`
	Remark   string    `json:"remark"`
}

// FundListFilter defines filtering options for fund list queries
type FundListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	BudgetID *uuid.UUID `form:"budget_id"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateFund creates a new fund inside a budget
func (s *FundService) CreateFund(ctx context.Context, circleID uuid.UUID, req CreateFundRequest) (*FundResponse, error) {
	if _, err := s.budgetRepo.FindByIDForCircle(ctx, circleID, req.BudgetID); err != nil {
		return nil, err
	}

	fund, err := treasury.NewFund(circleID, req.BudgetID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		fund.Remark = req.Remark
	}

	if err := s.fundRepo.Save(ctx, fund); err != nil {
		return nil, err
	}

	return toFundResponse(fund), nil
}

// GetFundByID gets a fund by ID
func (s *FundService) GetFundByID(ctx context.Context, circleID, id uuid.UUID) (*FundResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}
	return toFundResponse(fund), nil
}

// ListFunds lists funds with filtering
func (s *FundService) ListFunds(ctx context.Context, circleID uuid.UUID, filter FundListFilter) ([]FundResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.BudgetID != nil {
		domainFilter.Filters["budget_id"] = *filter.BudgetID
	}

	funds, err := s.fundRepo.FindAllForCircle(ctx, circleID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]FundResponse, len(funds))
	for i, f := range funds {
		responses[i] = *toFundResponse(&f)
	}
	return responses, nil
}

// RenameFund renames a fund
func (s *FundService) RenameFund(ctx context.Context, circleID, id uuid.UUID, name string) (*FundResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := fund.Rename(name); err != nil {
		return nil, err
	}

	if err := s.fundRepo.Save(ctx, fund); err != nil {
		return nil, err
	}

	return toFundResponse(fund), nil
}

// ArchiveFund archives a fund. Existing records keep pointing at it;
// only new submissions are blocked.
func (s *FundService) ArchiveFund(ctx context.Context, circleID, id uuid.UUID) (*FundResponse, error) {
	fund, err := s.fundRepo.FindByIDForCircle(ctx, circleID, id)
	if err != nil {
		return nil, err
	}

	if err := fund.Archive(); err != nil {
		return nil, err
	}

	if err := s.fundRepo.Save(ctx, fund); err != nil {
		return nil, err
	}

	return toFundResponse(fund), nil
}

func toBudgetResponse(b *treasury.Budget) *BudgetResponse {
	return &BudgetResponse{
		ID:         b.ID,
		CircleID:   b.CircleID,
		Name:       b.Name,
		BudgetType: string(b.BudgetType),
		GroupID:    b.GroupID,
		FiscalYear: b.FiscalYear,
		Remark:     b.Remark,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
		Version:    b.Version,
	}
}

func toFundResponse(f *treasury.Fund) *FundResponse {
	return &FundResponse{
		ID:        f.ID,
		CircleID:  f.CircleID,
		BudgetID:  f.BudgetID,
		Name:      f.Name,
		Status:    string(f.Status),
		Remark:    f.Remark,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		Version:   f.Version,
	}
}
