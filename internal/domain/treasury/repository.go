package treasury

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReimbursementRepository persists Reimbursement aggregates
type ReimbursementRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*Reimbursement, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]Reimbursement, error)
	CountForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) (int64, error)
	// FindApprovedInFunds returns every approved reimbursement whose fund is in fundIDs
	FindApprovedInFunds(ctx context.Context, circleID uuid.UUID, fundIDs []uuid.UUID) ([]Reimbursement, error)
	FindByIDsForCircle(ctx context.Context, circleID uuid.UUID, ids []uuid.UUID) ([]Reimbursement, error)
	// ExistsForPeriod reports whether a generated record exists for (definition, period start)
	ExistsForPeriod(ctx context.Context, circleID, recurringTransferID uuid.UUID, periodStart time.Time) (bool, error)
	Save(ctx context.Context, r *Reimbursement) error
	SaveWithLock(ctx context.Context, r *Reimbursement) error
}

// ChargeRepository persists Charge aggregates
type ChargeRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*Charge, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]Charge, error)
	CountForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) (int64, error)
	// FindOpenInFunds returns every open charge whose fund is in fundIDs
	FindOpenInFunds(ctx context.Context, circleID uuid.UUID, fundIDs []uuid.UUID) ([]Charge, error)
	FindByIDsForCircle(ctx context.Context, circleID uuid.UUID, ids []uuid.UUID) ([]Charge, error)
	Save(ctx context.Context, c *Charge) error
	SaveWithLock(ctx context.Context, c *Charge) error
}

// TransferStats aggregates payment transfer counts and totals for a circle
type TransferStats struct {
	PendingCount  int64           `json:"pending_count"`
	PendingTotal  decimal.Decimal `json:"pending_total"`
	ExecutedCount int64           `json:"executed_count"`
	ExecutedTotal decimal.Decimal `json:"executed_total"`
}

// PaymentTransferRepository persists PaymentTransfer aggregates with their items
type PaymentTransferRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*PaymentTransfer, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]PaymentTransfer, error)
	CountForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) (int64, error)
	// FindPendingByScope returns all pending transfers in a scope. Inside a
	// unit of work the rows are locked until the transaction ends.
	FindPendingByScope(ctx context.Context, circleID uuid.UUID, scope Scope) ([]PaymentTransfer, error)
	Save(ctx context.Context, p *PaymentTransfer) error
	Delete(ctx context.Context, circleID, id uuid.UUID) error
	Stats(ctx context.Context, circleID uuid.UUID) (*TransferStats, error)
}

// FundRepository persists Fund aggregates
type FundRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*Fund, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]Fund, error)
	// FindIDsByScope returns the IDs of all funds whose budget matches the scope
	FindIDsByScope(ctx context.Context, circleID uuid.UUID, scope Scope) ([]uuid.UUID, error)
	Save(ctx context.Context, f *Fund) error
	Delete(ctx context.Context, circleID, id uuid.UUID) error
}

// BudgetRepository persists Budget aggregates
type BudgetRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*Budget, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]Budget, error)
	Save(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, circleID, id uuid.UUID) error
}

// RecurringTransferRepository persists RecurringTransfer definitions
type RecurringTransferRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*RecurringTransfer, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]RecurringTransfer, error)
	FindActiveForCircle(ctx context.Context, circleID uuid.UUID) ([]RecurringTransfer, error)
	Save(ctx context.Context, r *RecurringTransfer) error
	Delete(ctx context.Context, circleID, id uuid.UUID) error
}

// DirectExpenseRepository persists DirectExpense entries
type DirectExpenseRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*DirectExpense, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]DirectExpense, error)
	Save(ctx context.Context, d *DirectExpense) error
}

// PlannedExpenseRepository persists PlannedExpense entries
type PlannedExpenseRepository interface {
	FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*PlannedExpense, error)
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]PlannedExpense, error)
	Save(ctx context.Context, p *PlannedExpense) error
}

// MoveFilter selects the records the fund movement tool acts on.
// Statuses left empty mean "all statuses" for that kind.
type MoveFilter struct {
	SourceFundID          uuid.UUID
	FromDate              time.Time
	ReimbursementStatuses []ReimbursementStatus
	PlannedStatuses       []PlannedExpenseStatus
}

// MoveCounts reports how many records a movement touched (or would touch), per kind
type MoveCounts struct {
	Reimbursements  int64 `json:"reimbursements"`
	PlannedExpenses int64 `json:"planned_expenses"`
	DirectExpenses  int64 `json:"direct_expenses"`
}

// FundMover performs the bulk fund reassignment queries. Count methods
// never mutate; Move methods return the number of reassigned rows.
type FundMover interface {
	CountReimbursements(ctx context.Context, circleID uuid.UUID, f MoveFilter) (int64, error)
	CountPlannedExpenses(ctx context.Context, circleID uuid.UUID, f MoveFilter) (int64, error)
	CountDirectExpenses(ctx context.Context, circleID uuid.UUID, f MoveFilter) (int64, error)
	MoveReimbursements(ctx context.Context, circleID uuid.UUID, f MoveFilter, targetFundID uuid.UUID) (int64, error)
	MovePlannedExpenses(ctx context.Context, circleID uuid.UUID, f MoveFilter, targetFundID uuid.UUID) (int64, error)
	MoveDirectExpenses(ctx context.Context, circleID uuid.UUID, f MoveFilter, targetFundID uuid.UUID) (int64, error)
}

// UnitOfWorkRepos exposes transaction-bound repositories to a unit of work callback
type UnitOfWorkRepos interface {
	Reimbursements() ReimbursementRepository
	Charges() ChargeRepository
	PaymentTransfers() PaymentTransferRepository
	Funds() FundRepository
	RecurringTransfers() RecurringTransferRepository
	Mover() FundMover
}

// UnitOfWork runs fn inside a single database transaction. Every engine
// operation (refresh, execute, generate, move) is exactly one unit of work;
// an error from fn rolls the whole transaction back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos UnitOfWorkRepos) error) error
}
