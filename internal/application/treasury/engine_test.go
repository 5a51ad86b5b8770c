package treasury

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/circleops/treasury/internal/infrastructure/persistence"
	"github.com/circleops/treasury/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupEngineTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.BudgetModel{},
		&models.FundModel{},
		&models.ReimbursementModel{},
		&models.ChargeModel{},
		&models.DirectExpenseModel{},
		&models.PlannedExpenseModel{},
		&models.RecurringTransferModel{},
		&models.PaymentTransferModel{},
		&models.PaymentTransferItemModel{},
	)
	require.NoError(t, err)

	return db
}

// engineFixture wires the engine services against a real in-memory database
type engineFixture struct {
	db        *gorm.DB
	circleID  uuid.UUID
	budgetID  uuid.UUID
	fundID    uuid.UUID
	netting   *NettingService
	execution *TransferExecutionService
	recurring *RecurringService
	movement  *FundMovementService
}

func newEngineFixture(t *testing.T) *engineFixture {
	db := setupEngineTestDB(t)
	uow := persistence.NewGormUnitOfWork(db)
	ctx := context.Background()
	circleID := uuid.New()

	budget, err := treasury.NewBudget(circleID, "Operations", treasury.BudgetTypeCircle, nil, 2026)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormBudgetRepository(db).Save(ctx, budget))

	fund, err := treasury.NewFund(circleID, budget.ID, "General")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormFundRepository(db).Save(ctx, fund))

	return &engineFixture{
		db:        db,
		circleID:  circleID,
		budgetID:  budget.ID,
		fundID:    fund.ID,
		netting:   NewNettingService(uow),
		execution: NewTransferExecutionService(uow),
		recurring: NewRecurringService(uow),
		movement:  NewFundMovementService(uow),
	}
}

func (f *engineFixture) addApprovedReimbursement(t *testing.T, recipient uuid.UUID, amount int64) *treasury.Reimbursement {
	t.Helper()
	reviewerID := uuid.New()
	r, err := treasury.NewReimbursement(
		f.circleID, f.fundID, recipient, recipient,
		valueobject.NewMoneyEUR(decimal.NewFromInt(amount)),
		"expense", time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, r.SubmitForReview(reviewerID))
	require.NoError(t, r.Approve(reviewerID, ""))
	require.NoError(t, persistence.NewGormReimbursementRepository(f.db).Save(context.Background(), r))
	return r
}

func (f *engineFixture) addOpenCharge(t *testing.T, debtor uuid.UUID, amount int64) *treasury.Charge {
	t.Helper()
	c, err := treasury.NewCharge(
		f.circleID, f.fundID, debtor,
		valueobject.NewMoneyEUR(decimal.NewFromInt(amount)),
		"dues", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormChargeRepository(f.db).Save(context.Background(), c))
	return c
}

func (f *engineFixture) refresh(t *testing.T) []PaymentTransferResponse {
	t.Helper()
	transfers, err := f.netting.Refresh(context.Background(), f.circleID, RefreshRequest{BudgetType: "CIRCLE"})
	require.NoError(t, err)
	return transfers
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestNettingRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("nets approved reimbursements against open charges per recipient", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		f.addApprovedReimbursement(t, recipient, 120)
		f.addOpenCharge(t, recipient, 50)

		transfers := f.refresh(t)
		require.Len(t, transfers, 1)
		assert.Equal(t, recipient, transfers[0].RecipientUserID)
		assert.True(t, transfers[0].TotalAmount.Equal(decimal.NewFromInt(70)))
		assert.Equal(t, 1, transfers[0].ReimbursementCount)
		assert.Len(t, transfers[0].Items, 2)
		assert.Equal(t, "PENDING", transfers[0].Status)
	})

	t.Run("pending and under-review charges count as owed", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		f.addApprovedReimbursement(t, recipient, 100)

		reviewed := f.addOpenCharge(t, recipient, 20)
		require.NoError(t, reviewed.SubmitForReview(uuid.New()))
		require.NoError(t, persistence.NewGormChargeRepository(f.db).SaveWithLock(ctx, reviewed))
		f.addOpenCharge(t, recipient, 30)

		transfers := f.refresh(t)
		require.Len(t, transfers, 1)
		assert.True(t, transfers[0].TotalAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("pending reimbursements are not netted", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		pending, err := treasury.NewReimbursement(
			f.circleID, f.fundID, recipient, recipient,
			valueobject.NewMoneyEUR(decimal.NewFromInt(40)),
			"not yet approved", time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormReimbursementRepository(f.db).Save(ctx, pending))

		transfers := f.refresh(t)
		assert.Empty(t, transfers)
	})

	t.Run("refresh is idempotent and keeps the row identity", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		f.addApprovedReimbursement(t, recipient, 120)
		f.addOpenCharge(t, recipient, 50)

		first := f.refresh(t)
		second := f.refresh(t)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.True(t, second[0].TotalAmount.Equal(decimal.NewFromInt(70)))

		var rows int64
		require.NoError(t, f.db.Model(&models.PaymentTransferModel{}).Count(&rows).Error)
		assert.Equal(t, int64(1), rows)
	})

	t.Run("new records fold into the existing pending transfer", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		f.addApprovedReimbursement(t, recipient, 120)

		first := f.refresh(t)
		require.Len(t, first, 1)

		f.addApprovedReimbursement(t, recipient, 30)
		second := f.refresh(t)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.True(t, second[0].TotalAmount.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, 2, second[0].ReimbursementCount)
	})

	t.Run("deletes stale transfers whose records are gone", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		r := f.addApprovedReimbursement(t, recipient, 80)

		require.Len(t, f.refresh(t), 1)

		require.NoError(t, r.MarkPaid())
		require.NoError(t, persistence.NewGormReimbursementRepository(f.db).SaveWithLock(ctx, r))

		transfers := f.refresh(t)
		assert.Empty(t, transfers)

		var rows int64
		require.NoError(t, f.db.Model(&models.PaymentTransferModel{}).Count(&rows).Error)
		assert.Equal(t, int64(0), rows)
	})

	t.Run("keeps a zero-total transfer while records contribute", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		f.addApprovedReimbursement(t, recipient, 50)
		f.addOpenCharge(t, recipient, 50)

		transfers := f.refresh(t)
		require.Len(t, transfers, 1)
		assert.True(t, transfers[0].TotalAmount.IsZero())
		assert.Len(t, transfers[0].Items, 2)
	})

	t.Run("group scope only nets funds of that group budget", func(t *testing.T) {
		f := newEngineFixture(t)
		groupID := uuid.New()

		groupBudget, err := treasury.NewBudget(f.circleID, "Garden group", treasury.BudgetTypeGroup, &groupID, 2026)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormBudgetRepository(f.db).Save(ctx, groupBudget))
		groupFund, err := treasury.NewFund(f.circleID, groupBudget.ID, "Garden")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormFundRepository(f.db).Save(ctx, groupFund))

		circleRecipient := uuid.New()
		f.addApprovedReimbursement(t, circleRecipient, 100)

		groupRecipient := uuid.New()
		reviewerID := uuid.New()
		gr, err := treasury.NewReimbursement(
			f.circleID, groupFund.ID, groupRecipient, groupRecipient,
			valueobject.NewMoneyEUR(decimal.NewFromInt(25)),
			"group expense", time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		require.NoError(t, gr.SubmitForReview(reviewerID))
		require.NoError(t, gr.Approve(reviewerID, ""))
		require.NoError(t, persistence.NewGormReimbursementRepository(f.db).Save(ctx, gr))

		groupTransfers, err := f.netting.Refresh(ctx, f.circleID, RefreshRequest{BudgetType: "GROUP", GroupID: &groupID})
		require.NoError(t, err)
		require.Len(t, groupTransfers, 1)
		assert.Equal(t, groupRecipient, groupTransfers[0].RecipientUserID)
		assert.True(t, groupTransfers[0].TotalAmount.Equal(decimal.NewFromInt(25)))

		circleTransfers := f.refresh(t)
		require.Len(t, circleTransfers, 1)
		assert.Equal(t, circleRecipient, circleTransfers[0].RecipientUserID)
	})

	t.Run("rejects an inconsistent scope", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.netting.Refresh(ctx, f.circleID, RefreshRequest{BudgetType: "GROUP"})
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})
}

func TestTransferExecution(t *testing.T) {
	ctx := context.Background()

	t.Run("positive total pays reimbursements and settles charges", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		executor := uuid.New()
		r := f.addApprovedReimbursement(t, recipient, 120)
		c := f.addOpenCharge(t, recipient, 50)

		transfers := f.refresh(t)
		require.Len(t, transfers, 1)

		result, err := f.execution.Execute(ctx, f.circleID, transfers[0].ID, executor)
		require.NoError(t, err)
		require.NotNil(t, result.Transfer)
		assert.Equal(t, "EXECUTED", result.Transfer.Status)
		assert.Equal(t, executor, *result.Transfer.ExecutedByID)
		assert.True(t, result.Transfer.TotalAmount.Equal(decimal.NewFromInt(70)))
		assert.Equal(t, 1, result.ReimbursementsPaid)
		assert.Equal(t, 1, result.ChargesSettled)
		assert.Nil(t, result.CarryForwardDebt)

		storedReim, err := persistence.NewGormReimbursementRepository(f.db).FindByIDForCircle(ctx, f.circleID, r.ID)
		require.NoError(t, err)
		assert.Equal(t, treasury.ReimbursementStatusPaid, storedReim.Status)
		assert.NotNil(t, storedReim.PaidAt)

		storedCharge, err := persistence.NewGormChargeRepository(f.db).FindByIDForCircle(ctx, f.circleID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, treasury.ChargeStatusPaid, storedCharge.Status)
		assert.NotNil(t, storedCharge.SettledAt)
	})

	t.Run("executing twice fails without side effects", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		f.addApprovedReimbursement(t, recipient, 60)

		transfers := f.refresh(t)
		_, err := f.execution.Execute(ctx, f.circleID, transfers[0].ID, uuid.New())
		require.NoError(t, err)

		_, err = f.execution.Execute(ctx, f.circleID, transfers[0].ID, uuid.New())
		assertDomainErrorCode(t, err, "INVALID_STATE")
	})

	t.Run("negative total settles charges and returns carry-forward debt", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		r := f.addApprovedReimbursement(t, recipient, 30)
		c := f.addOpenCharge(t, recipient, 100)

		transfers := f.refresh(t)
		require.Len(t, transfers, 1)
		require.True(t, transfers[0].TotalAmount.Equal(decimal.NewFromInt(-70)))

		result, err := f.execution.Execute(ctx, f.circleID, transfers[0].ID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, result.Transfer)
		require.NotNil(t, result.CarryForwardDebt)
		assert.True(t, result.CarryForwardDebt.Equal(decimal.NewFromInt(70)))
		assert.Equal(t, 1, result.ChargesSettled)
		assert.Equal(t, 0, result.ReimbursementsPaid)

		// Charge consumed, reimbursement stays approved for the next round
		storedCharge, err := persistence.NewGormChargeRepository(f.db).FindByIDForCircle(ctx, f.circleID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, treasury.ChargeStatusPaid, storedCharge.Status)

		storedReim, err := persistence.NewGormReimbursementRepository(f.db).FindByIDForCircle(ctx, f.circleID, r.ID)
		require.NoError(t, err)
		assert.Equal(t, treasury.ReimbursementStatusApproved, storedReim.Status)

		// The transfer row is gone
		_, err = persistence.NewGormPaymentTransferRepository(f.db).FindByIDForCircle(ctx, f.circleID, transfers[0].ID)
		assertDomainErrorCode(t, err, "NOT_FOUND")

		// The next refresh re-nets the surviving reimbursement
		next := f.refresh(t)
		require.Len(t, next, 1)
		assert.True(t, next[0].TotalAmount.Equal(decimal.NewFromInt(30)))
	})

	t.Run("concurrent record mutation rolls the execution back", func(t *testing.T) {
		f := newEngineFixture(t)
		recipient := uuid.New()
		r := f.addApprovedReimbursement(t, recipient, 80)
		c := f.addOpenCharge(t, recipient, 10)

		transfers := f.refresh(t)

		// Someone pays the reimbursement outside the transfer
		require.NoError(t, r.MarkPaid())
		require.NoError(t, persistence.NewGormReimbursementRepository(f.db).SaveWithLock(ctx, r))

		_, err := f.execution.Execute(ctx, f.circleID, transfers[0].ID, uuid.New())
		assertDomainErrorCode(t, err, "CONCURRENCY_CONFLICT")

		// The linked charge must be untouched by the rolled-back transaction
		storedCharge, err := persistence.NewGormChargeRepository(f.db).FindByIDForCircle(ctx, f.circleID, c.ID)
		require.NoError(t, err)
		assert.True(t, storedCharge.IsOpen())
	})

	t.Run("unknown transfer returns not found", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.execution.Execute(ctx, f.circleID, uuid.New(), uuid.New())
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})
}

func TestRecurringGeneration(t *testing.T) {
	ctx := context.Background()

	newDefinition := func(t *testing.T, f *engineFixture, frequency treasury.Frequency, start time.Time, end *time.Time) *treasury.RecurringTransfer {
		t.Helper()
		def, err := treasury.NewRecurringTransfer(
			f.circleID, uuid.New(), f.fundID,
			valueobject.NewMoneyEUR(decimal.NewFromInt(500)),
			"rent subsidy", frequency, start, end,
		)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormRecurringTransferRepository(f.db).Save(ctx, def))
		return def
	}

	t.Run("generates one approved record per period", func(t *testing.T) {
		f := newEngineFixture(t)
		def := newDefinition(t, f, treasury.FrequencyMonthly, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), nil)

		result, err := f.recurring.Generate(ctx, f.circleID, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)

		reims, err := persistence.NewGormReimbursementRepository(f.db).FindApprovedInFunds(ctx, f.circleID, []uuid.UUID{f.fundID})
		require.NoError(t, err)
		require.Len(t, reims, 1)
		assert.Equal(t, treasury.ReimbursementStatusApproved, reims[0].Status)
		assert.Equal(t, def.RecipientUserID, reims[0].RecipientUserID)
		assert.True(t, reims[0].Amount.Equal(decimal.NewFromInt(500)))
		require.NotNil(t, reims[0].PeriodStart)
		assert.True(t, reims[0].PeriodStart.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, reims[0].IsGenerated())
	})

	t.Run("second run in the same period is a no-op", func(t *testing.T) {
		f := newEngineFixture(t)
		newDefinition(t, f, treasury.FrequencyMonthly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)

		asOf := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
		first, err := f.recurring.Generate(ctx, f.circleID, asOf)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Count)

		second, err := f.recurring.Generate(ctx, f.circleID, asOf.AddDate(0, 0, 20))
		require.NoError(t, err)
		assert.Equal(t, 0, second.Count)
	})

	t.Run("a new month yields a new record", func(t *testing.T) {
		f := newEngineFixture(t)
		newDefinition(t, f, treasury.FrequencyMonthly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)

		_, err := f.recurring.Generate(ctx, f.circleID, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		result, err := f.recurring.Generate(ctx, f.circleID, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
	})

	t.Run("quarterly periods anchor at the start date", func(t *testing.T) {
		f := newEngineFixture(t)
		newDefinition(t, f, treasury.FrequencyQuarterly, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), nil)

		result, err := f.recurring.Generate(ctx, f.circleID, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)

		reims, err := persistence.NewGormReimbursementRepository(f.db).FindApprovedInFunds(ctx, f.circleID, []uuid.UUID{f.fundID})
		require.NoError(t, err)
		require.Len(t, reims, 1)
		require.NotNil(t, reims[0].PeriodStart)
		assert.True(t, reims[0].PeriodStart.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("skips paused, ended and not-yet-started definitions", func(t *testing.T) {
		f := newEngineFixture(t)

		paused := newDefinition(t, f, treasury.FrequencyMonthly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)
		require.NoError(t, paused.Pause())
		require.NoError(t, persistence.NewGormRecurringTransferRepository(f.db).Save(ctx, paused))

		endDate := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
		newDefinition(t, f, treasury.FrequencyMonthly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), &endDate)
		newDefinition(t, f, treasury.FrequencyMonthly, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), nil)

		result, err := f.recurring.Generate(ctx, f.circleID, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
	})

	t.Run("generated records enter the next netting refresh", func(t *testing.T) {
		f := newEngineFixture(t)
		def := newDefinition(t, f, treasury.FrequencyMonthly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)

		_, err := f.recurring.Generate(ctx, f.circleID, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		transfers := f.refresh(t)
		require.Len(t, transfers, 1)
		assert.Equal(t, def.RecipientUserID, transfers[0].RecipientUserID)
		assert.True(t, transfers[0].TotalAmount.Equal(decimal.NewFromInt(500)))
	})
}

func TestFundMovement(t *testing.T) {
	ctx := context.Background()

	newTarget := func(t *testing.T, f *engineFixture) uuid.UUID {
		t.Helper()
		target, err := treasury.NewFund(f.circleID, f.budgetID, "Renovation")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormFundRepository(f.db).Save(ctx, target))
		return target.ID
	}

	fromDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seedRecords := func(t *testing.T, f *engineFixture) {
		t.Helper()
		f.addApprovedReimbursement(t, uuid.New(), 40)
		f.addApprovedReimbursement(t, uuid.New(), 60)

		// Before the cutoff, must not move
		old, err := treasury.NewReimbursement(
			f.circleID, f.fundID, uuid.New(), uuid.Nil,
			valueobject.NewMoneyEUR(decimal.NewFromInt(10)),
			"old expense", time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormReimbursementRepository(f.db).Save(ctx, old))

		planned, err := treasury.NewPlannedExpense(
			f.circleID, f.fundID,
			valueobject.NewMoneyEUR(decimal.NewFromInt(200)),
			"painting", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormPlannedExpenseRepository(f.db).Save(ctx, planned))

		direct, err := treasury.NewDirectExpense(
			f.circleID, f.fundID, uuid.New(),
			valueobject.NewMoneyEUR(decimal.NewFromInt(15)),
			"supplies", time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), nil,
		)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormDirectExpenseRepository(f.db).Save(ctx, direct))
	}

	t.Run("dry run counts without mutating", func(t *testing.T) {
		f := newEngineFixture(t)
		targetID := newTarget(t, f)
		seedRecords(t, f)

		result, err := f.movement.MoveItems(ctx, f.circleID, MoveItemsRequest{
			SourceFundID:    f.fundID,
			TargetFundID:    targetID,
			FromDate:        fromDate,
			Reimbursements:  true,
			PlannedExpenses: true,
			DirectExpenses:  true,
			DryRun:          true,
		})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, int64(2), result.Moved.Reimbursements)
		assert.Equal(t, int64(1), result.Moved.PlannedExpenses)
		assert.Equal(t, int64(1), result.Moved.DirectExpenses)

		var moved int64
		require.NoError(t, f.db.Model(&models.ReimbursementModel{}).Where("fund_id = ?", targetID).Count(&moved).Error)
		assert.Equal(t, int64(0), moved)
	})

	t.Run("commit reassigns exactly what the dry run counted", func(t *testing.T) {
		f := newEngineFixture(t)
		targetID := newTarget(t, f)
		seedRecords(t, f)

		req := MoveItemsRequest{
			SourceFundID:    f.fundID,
			TargetFundID:    targetID,
			FromDate:        fromDate,
			Reimbursements:  true,
			PlannedExpenses: true,
			DirectExpenses:  true,
		}

		dryReq := req
		dryReq.DryRun = true
		preview, err := f.movement.MoveItems(ctx, f.circleID, dryReq)
		require.NoError(t, err)

		committed, err := f.movement.MoveItems(ctx, f.circleID, req)
		require.NoError(t, err)
		assert.False(t, committed.DryRun)
		assert.Equal(t, preview.Moved, committed.Moved)

		var reimsAtTarget, oldAtSource int64
		require.NoError(t, f.db.Model(&models.ReimbursementModel{}).Where("fund_id = ?", targetID).Count(&reimsAtTarget).Error)
		require.NoError(t, f.db.Model(&models.ReimbursementModel{}).Where("fund_id = ?", f.fundID).Count(&oldAtSource).Error)
		assert.Equal(t, int64(2), reimsAtTarget)
		assert.Equal(t, int64(1), oldAtSource) // Only the pre-cutoff record stays

		// A second dry run over the emptied window reports zeros
		again, err := f.movement.MoveItems(ctx, f.circleID, dryReq)
		require.NoError(t, err)
		assert.Equal(t, treasury.MoveCounts{}, again.Moved)
	})

	t.Run("status subsets narrow the selection", func(t *testing.T) {
		f := newEngineFixture(t)
		targetID := newTarget(t, f)
		seedRecords(t, f)

		result, err := f.movement.MoveItems(ctx, f.circleID, MoveItemsRequest{
			SourceFundID:          f.fundID,
			TargetFundID:          targetID,
			FromDate:              fromDate,
			Reimbursements:        true,
			ReimbursementStatuses: []string{"PENDING"},
			DryRun:                true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Moved.Reimbursements)
	})

	t.Run("rejects identical source and target", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.movement.MoveItems(ctx, f.circleID, MoveItemsRequest{
			SourceFundID:   f.fundID,
			TargetFundID:   f.fundID,
			FromDate:       fromDate,
			Reimbursements: true,
		})
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})

	t.Run("rejects unknown funds", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.movement.MoveItems(ctx, f.circleID, MoveItemsRequest{
			SourceFundID:   f.fundID,
			TargetFundID:   uuid.New(),
			FromDate:       fromDate,
			Reimbursements: true,
		})
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("rejects an empty kind selection", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.movement.MoveItems(ctx, f.circleID, MoveItemsRequest{
			SourceFundID: f.fundID,
			TargetFundID: uuid.New(),
			FromDate:     fromDate,
		})
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})

	t.Run("rejects an unknown status filter", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.movement.MoveItems(ctx, f.circleID, MoveItemsRequest{
			SourceFundID:          f.fundID,
			TargetFundID:          uuid.New(),
			FromDate:              fromDate,
			Reimbursements:        true,
			ReimbursementStatuses: []string{"SHREDDED"},
		})
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})
}
