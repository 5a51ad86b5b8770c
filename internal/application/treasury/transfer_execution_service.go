package treasury

import (
	"context"
	"fmt"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferExecutionService finalizes pending payment transfers.
type TransferExecutionService struct {
	uow treasury.UnitOfWork
}

// NewTransferExecutionService creates a new TransferExecutionService
func NewTransferExecutionService(uow treasury.UnitOfWork) *TransferExecutionService {
	return &TransferExecutionService{uow: uow}
}

// ExecuteResult reports the outcome of executing one transfer.
// Transfer is set when the payout was executed; CarryForwardDebt is set
// when the total was negative and the transfer row was deleted instead.
type ExecuteResult struct {
	Transfer           *PaymentTransferResponse `json:"transfer,omitempty"`
	CarryForwardDebt   *decimal.Decimal         `json:"carry_forward_debt,omitempty"`
	ReimbursementsPaid int                      `json:"reimbursements_paid"`
	ChargesSettled     int                      `json:"charges_settled"`
}

// Execute settles a pending transfer in one transaction.
//
// A non-negative total pays out: every linked approved reimbursement is
// marked paid, every linked open charge is marked settled, and the
// transfer becomes executed. A negative total means the recipient owes
// the circle: the linked charges are settled as consumed, the linked
// reimbursements stay approved for the next netting round, the transfer
// row is deleted and the absolute total comes back as carry-forward debt.
//
// Any linked record found in an unexpected status means something
// changed it since the last refresh; the whole transaction rolls back
// with a CONCURRENCY_CONFLICT.
func (s *TransferExecutionService) Execute(ctx context.Context, circleID, transferID, executedBy uuid.UUID) (*ExecuteResult, error) {
	if executedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Executor user ID cannot be empty")
	}

	result := &ExecuteResult{}
	err := s.uow.Execute(ctx, func(repos treasury.UnitOfWorkRepos) error {
		transfer, err := repos.PaymentTransfers().FindByIDForCircle(ctx, circleID, transferID)
		if err != nil {
			return err
		}
		if !transfer.IsPending() {
			return shared.NewDomainError("INVALID_STATE", "Transfer has already been executed")
		}

		reimbursements, err := s.loadLinkedReimbursements(ctx, repos, circleID, transfer)
		if err != nil {
			return err
		}
		charges, err := s.loadLinkedCharges(ctx, repos, circleID, transfer)
		if err != nil {
			return err
		}

		if transfer.TotalAmount.IsNegative() {
			return s.executeNegative(ctx, repos, circleID, transfer, charges, result)
		}
		return s.executePositive(ctx, repos, transfer, reimbursements, charges, executedBy, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *TransferExecutionService) loadLinkedReimbursements(ctx context.Context, repos treasury.UnitOfWorkRepos, circleID uuid.UUID, transfer *treasury.PaymentTransfer) ([]treasury.Reimbursement, error) {
	ids := transfer.ItemIDs(treasury.TransferItemTypeReimbursement)
	reimbursements, err := repos.Reimbursements().FindByIDsForCircle(ctx, circleID, ids)
	if err != nil {
		return nil, err
	}
	if len(reimbursements) != len(ids) {
		return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "A linked reimbursement no longer exists; refresh and retry")
	}
	for i := range reimbursements {
		if !reimbursements[i].IsApproved() {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT",
				fmt.Sprintf("Linked reimbursement is %s, expected APPROVED; refresh and retry", reimbursements[i].Status))
		}
	}
	return reimbursements, nil
}

func (s *TransferExecutionService) loadLinkedCharges(ctx context.Context, repos treasury.UnitOfWorkRepos, circleID uuid.UUID, transfer *treasury.PaymentTransfer) ([]treasury.Charge, error) {
	ids := transfer.ItemIDs(treasury.TransferItemTypeCharge)
	charges, err := repos.Charges().FindByIDsForCircle(ctx, circleID, ids)
	if err != nil {
		return nil, err
	}
	if len(charges) != len(ids) {
		return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "A linked charge no longer exists; refresh and retry")
	}
	for i := range charges {
		if !charges[i].IsOpen() {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT",
				fmt.Sprintf("Linked charge is %s, expected open; refresh and retry", charges[i].Status))
		}
	}
	return charges, nil
}

func (s *TransferExecutionService) executePositive(ctx context.Context, repos treasury.UnitOfWorkRepos, transfer *treasury.PaymentTransfer, reimbursements []treasury.Reimbursement, charges []treasury.Charge, executedBy uuid.UUID, result *ExecuteResult) error {
	for i := range reimbursements {
		if err := reimbursements[i].MarkPaid(); err != nil {
			return err
		}
		if err := repos.Reimbursements().SaveWithLock(ctx, &reimbursements[i]); err != nil {
			return err
		}
	}
	for i := range charges {
		if err := charges[i].MarkSettled(); err != nil {
			return err
		}
		if err := repos.Charges().SaveWithLock(ctx, &charges[i]); err != nil {
			return err
		}
	}

	if err := transfer.MarkExecuted(executedBy); err != nil {
		return err
	}
	if err := repos.PaymentTransfers().Save(ctx, transfer); err != nil {
		return err
	}

	result.Transfer = toPaymentTransferResponse(transfer)
	result.ReimbursementsPaid = len(reimbursements)
	result.ChargesSettled = len(charges)
	return nil
}

func (s *TransferExecutionService) executeNegative(ctx context.Context, repos treasury.UnitOfWorkRepos, circleID uuid.UUID, transfer *treasury.PaymentTransfer, charges []treasury.Charge, result *ExecuteResult) error {
	for i := range charges {
		if err := charges[i].MarkSettled(); err != nil {
			return err
		}
		if err := repos.Charges().SaveWithLock(ctx, &charges[i]); err != nil {
			return err
		}
	}

	// Reimbursements stay approved and re-enter the next refresh;
	// the pending transfer itself has no payout to execute
	if err := repos.PaymentTransfers().Delete(ctx, circleID, transfer.ID); err != nil {
		return err
	}

	debt := transfer.TotalAmount.Abs()
	result.CarryForwardDebt = &debt
	result.ChargesSettled = len(charges)
	return nil
}
