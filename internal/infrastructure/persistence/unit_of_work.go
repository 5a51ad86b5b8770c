package persistence

import (
	"context"

	"github.com/circleops/treasury/internal/domain/treasury"
	"gorm.io/gorm"
)

// GormUnitOfWork implements treasury.UnitOfWork on a gorm database.
// Every callback runs inside one transaction; the repositories handed
// to the callback are bound to that transaction, and payment transfer
// reads take row locks so concurrent refresh/execute calls serialize.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a single database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos treasury.UnitOfWorkRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepos{tx: tx})
	})
}

// txRepos exposes transaction-bound repositories
type txRepos struct {
	tx *gorm.DB
}

func (r *txRepos) Reimbursements() treasury.ReimbursementRepository {
	return NewGormReimbursementRepository(r.tx)
}

func (r *txRepos) Charges() treasury.ChargeRepository {
	return NewGormChargeRepository(r.tx)
}

func (r *txRepos) PaymentTransfers() treasury.PaymentTransferRepository {
	return NewGormPaymentTransferRepository(r.tx).WithRowLocking()
}

func (r *txRepos) Funds() treasury.FundRepository {
	return NewGormFundRepository(r.tx)
}

func (r *txRepos) RecurringTransfers() treasury.RecurringTransferRepository {
	return NewGormRecurringTransferRepository(r.tx)
}

func (r *txRepos) Mover() treasury.FundMover {
	return NewGormFundMover(r.tx)
}
