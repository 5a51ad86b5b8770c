package treasury

import (
	"context"
	"sort"

	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NettingService recomputes the pending payment transfers of a scope
// from the approved reimbursements and open charges in that scope.
type NettingService struct {
	uow treasury.UnitOfWork
}

// NewNettingService creates a new NettingService
func NewNettingService(uow treasury.UnitOfWork) *NettingService {
	return &NettingService{uow: uow}
}

// RefreshRequest selects the netting scope to recompute
type RefreshRequest struct {
	BudgetType string     `json:"budget_type" binding:"required"`
	GroupID    *uuid.UUID `json:"group_id"`
}

// Scope converts the request into a validated domain scope
func (r RefreshRequest) Scope() (treasury.Scope, error) {
	scope := treasury.Scope{Type: treasury.BudgetType(r.BudgetType), GroupID: r.GroupID}
	if err := scope.Validate(); err != nil {
		return treasury.Scope{}, err
	}
	return scope, nil
}

// recipientNet accumulates one recipient's records during a refresh
type recipientNet struct {
	total              decimal.Decimal
	reimbursementCount int
	items              []treasury.TransferItem
}

// Refresh recomputes pending transfers for the scope in one transaction.
//
// For every recipient with approved reimbursements or open charges in the
// scope's funds, the pending transfer is created or rewritten in place;
// the row id survives so a transfer a treasurer is looking at keeps its
// identity across refreshes. Pending transfers whose recipient no longer
// has contributing records are deleted. Record statuses are never touched.
func (s *NettingService) Refresh(ctx context.Context, circleID uuid.UUID, req RefreshRequest) ([]PaymentTransferResponse, error) {
	scope, err := req.Scope()
	if err != nil {
		return nil, err
	}

	var responses []PaymentTransferResponse
	err = s.uow.Execute(ctx, func(repos treasury.UnitOfWorkRepos) error {
		fundIDs, err := repos.Funds().FindIDsByScope(ctx, circleID, scope)
		if err != nil {
			return err
		}

		reimbursements, err := repos.Reimbursements().FindApprovedInFunds(ctx, circleID, fundIDs)
		if err != nil {
			return err
		}
		charges, err := repos.Charges().FindOpenInFunds(ctx, circleID, fundIDs)
		if err != nil {
			return err
		}

		// Locks the scope's pending transfer rows until commit
		existing, err := repos.PaymentTransfers().FindPendingByScope(ctx, circleID, scope)
		if err != nil {
			return err
		}

		nets := make(map[uuid.UUID]*recipientNet)
		netFor := func(recipient uuid.UUID) *recipientNet {
			n, ok := nets[recipient]
			if !ok {
				n = &recipientNet{total: decimal.Zero}
				nets[recipient] = n
			}
			return n
		}

		for i := range reimbursements {
			r := &reimbursements[i]
			n := netFor(r.RecipientUserID)
			n.total = n.total.Add(r.Amount)
			n.reimbursementCount++
			n.items = append(n.items, treasury.TransferItem{
				ItemType: treasury.TransferItemTypeReimbursement,
				ItemID:   r.ID,
			})
		}
		for i := range charges {
			c := &charges[i]
			n := netFor(c.UserID)
			n.total = n.total.Sub(c.Amount)
			n.items = append(n.items, treasury.TransferItem{
				ItemType: treasury.TransferItemTypeCharge,
				ItemID:   c.ID,
			})
		}

		existingByRecipient := make(map[uuid.UUID]*treasury.PaymentTransfer, len(existing))
		for i := range existing {
			existingByRecipient[existing[i].RecipientUserID] = &existing[i]
		}

		for recipient, net := range nets {
			transfer, ok := existingByRecipient[recipient]
			if !ok {
				transfer, err = treasury.NewPaymentTransfer(circleID, recipient, scope)
				if err != nil {
					return err
				}
			}
			if err := transfer.SetTotals(net.total, net.reimbursementCount, net.items); err != nil {
				return err
			}
			if err := repos.PaymentTransfers().Save(ctx, transfer); err != nil {
				return err
			}
			responses = append(responses, *toPaymentTransferResponse(transfer))
		}

		// Stale transfers: the recipient's records were all paid, rejected
		// or cancelled since the last refresh
		for recipient, transfer := range existingByRecipient {
			if _, ok := nets[recipient]; ok {
				continue
			}
			if err := repos.PaymentTransfers().Delete(ctx, circleID, transfer.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].RecipientUserID.String() < responses[j].RecipientUserID.String()
	})
	if responses == nil {
		responses = []PaymentTransferResponse{}
	}
	return responses, nil
}
