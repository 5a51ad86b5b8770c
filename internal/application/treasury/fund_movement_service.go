package treasury

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
)

// FundMovementService reassigns records between funds in bulk.
type FundMovementService struct {
	uow treasury.UnitOfWork
}

// NewFundMovementService creates a new FundMovementService
func NewFundMovementService(uow treasury.UnitOfWork) *FundMovementService {
	return &FundMovementService{uow: uow}
}

// MoveItemsRequest selects which records move from one fund to another.
// Empty status lists mean every status of that kind.
type MoveItemsRequest struct {
	SourceFundID          uuid.UUID  `json:"source_fund_id" binding:"required"`
	TargetFundID          uuid.UUID  `json:"target_fund_id" binding:"required"`
	FromDate              time.Time  `json:"from_date" binding:"required"`
	Reimbursements        bool       `json:"reimbursements"`
	PlannedExpenses       bool       `json:"planned_expenses"`
	DirectExpenses        bool       `json:"direct_expenses"`
	ReimbursementStatuses []string   `json:"reimbursement_statuses"`
	PlannedStatuses       []string   `json:"planned_statuses"`
	DryRun                bool       `json:"dry_run"`
}

// MoveItemsResult reports per-kind counts. A dry run and the commit it
// previews return the same shape over the same snapshot.
type MoveItemsResult struct {
	DryRun       bool                `json:"dry_run"`
	SourceFundID uuid.UUID           `json:"source_fund_id"`
	TargetFundID uuid.UUID           `json:"target_fund_id"`
	Moved        treasury.MoveCounts `json:"moved"`
}

func (r MoveItemsRequest) validate() (treasury.MoveFilter, error) {
	if r.SourceFundID == r.TargetFundID {
		return treasury.MoveFilter{}, shared.NewDomainError("INVALID_INPUT", "Source and target fund must differ")
	}
	if r.FromDate.IsZero() {
		return treasury.MoveFilter{}, shared.NewDomainError("INVALID_INPUT", "From date is required")
	}
	if !r.Reimbursements && !r.PlannedExpenses && !r.DirectExpenses {
		return treasury.MoveFilter{}, shared.NewDomainError("INVALID_INPUT", "At least one record kind must be selected")
	}

	filter := treasury.MoveFilter{
		SourceFundID: r.SourceFundID,
		FromDate:     r.FromDate,
	}
	for _, s := range r.ReimbursementStatuses {
		status := treasury.ReimbursementStatus(s)
		if !status.IsValid() {
			return treasury.MoveFilter{}, shared.NewDomainError("INVALID_INPUT", "Unknown reimbursement status: "+s)
		}
		filter.ReimbursementStatuses = append(filter.ReimbursementStatuses, status)
	}
	for _, s := range r.PlannedStatuses {
		status := treasury.PlannedExpenseStatus(s)
		if !status.IsValid() {
			return treasury.MoveFilter{}, shared.NewDomainError("INVALID_INPUT", "Unknown planned expense status: "+s)
		}
		filter.PlannedStatuses = append(filter.PlannedStatuses, status)
	}
	return filter, nil
}

// MoveItems counts (dry run) or reassigns (commit) the selected records.
// Both funds must exist in the circle; a commit runs in one transaction
// so either every matching record moves or none do.
func (s *FundMovementService) MoveItems(ctx context.Context, circleID uuid.UUID, req MoveItemsRequest) (*MoveItemsResult, error) {
	filter, err := req.validate()
	if err != nil {
		return nil, err
	}

	result := &MoveItemsResult{
		DryRun:       req.DryRun,
		SourceFundID: req.SourceFundID,
		TargetFundID: req.TargetFundID,
	}
	err = s.uow.Execute(ctx, func(repos treasury.UnitOfWorkRepos) error {
		if _, err := repos.Funds().FindByIDForCircle(ctx, circleID, req.SourceFundID); err != nil {
			return err
		}
		if _, err := repos.Funds().FindByIDForCircle(ctx, circleID, req.TargetFundID); err != nil {
			return err
		}

		mover := repos.Mover()

		if req.Reimbursements {
			if req.DryRun {
				result.Moved.Reimbursements, err = mover.CountReimbursements(ctx, circleID, filter)
			} else {
				result.Moved.Reimbursements, err = mover.MoveReimbursements(ctx, circleID, filter, req.TargetFundID)
			}
			if err != nil {
				return err
			}
		}
		if req.PlannedExpenses {
			if req.DryRun {
				result.Moved.PlannedExpenses, err = mover.CountPlannedExpenses(ctx, circleID, filter)
			} else {
				result.Moved.PlannedExpenses, err = mover.MovePlannedExpenses(ctx, circleID, filter, req.TargetFundID)
			}
			if err != nil {
				return err
			}
		}
		if req.DirectExpenses {
			if req.DryRun {
				result.Moved.DirectExpenses, err = mover.CountDirectExpenses(ctx, circleID, filter)
			} else {
				result.Moved.DirectExpenses, err = mover.MoveDirectExpenses(ctx, circleID, filter, req.TargetFundID)
			}
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
