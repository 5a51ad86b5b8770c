package treasury

import (
	"testing"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReimbursement(t *testing.T) *Reimbursement {
	t.Helper()
	r, err := NewReimbursement(
		uuid.New(),
		uuid.New(),
		uuid.New(),
		uuid.Nil,
		valueobject.NewMoneyEUR(decimal.NewFromInt(120)),
		"Garden supplies",
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return r
}

func TestNewReimbursement(t *testing.T) {
	t.Run("defaults recipient to submitter", func(t *testing.T) {
		r := newTestReimbursement(t)
		assert.Equal(t, r.UserID, r.RecipientUserID)
		assert.Equal(t, ReimbursementStatusPending, r.Status)
		assert.False(t, r.IsGenerated())
	})

	t.Run("keeps explicit recipient", func(t *testing.T) {
		recipient := uuid.New()
		r, err := NewReimbursement(uuid.New(), uuid.New(), uuid.New(), recipient,
			valueobject.NewMoneyEUR(decimal.NewFromInt(50)), "Paid for someone else", time.Now())
		require.NoError(t, err)
		assert.Equal(t, recipient, r.RecipientUserID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewReimbursement(uuid.New(), uuid.New(), uuid.New(), uuid.Nil,
			valueobject.ZeroEUR(), "Nothing", time.Now())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewReimbursement(uuid.New(), uuid.New(), uuid.New(), uuid.Nil,
			valueobject.NewMoneyEUR(decimal.NewFromInt(10)), "", time.Now())
		assert.Error(t, err)
	})
}

func TestReimbursementLifecycle(t *testing.T) {
	reviewer := uuid.New()

	t.Run("full approval path", func(t *testing.T) {
		r := newTestReimbursement(t)

		require.NoError(t, r.SubmitForReview(reviewer))
		assert.Equal(t, ReimbursementStatusUnderReview, r.Status)

		require.NoError(t, r.Approve(reviewer, "receipt checked"))
		assert.Equal(t, ReimbursementStatusApproved, r.Status)
		assert.True(t, r.IsApproved())
		require.NotNil(t, r.ReviewedAt)

		require.NoError(t, r.MarkPaid())
		assert.Equal(t, ReimbursementStatusPaid, r.Status)
		require.NotNil(t, r.PaidAt)
	})

	t.Run("rejection path", func(t *testing.T) {
		r := newTestReimbursement(t)
		require.NoError(t, r.SubmitForReview(reviewer))
		require.NoError(t, r.Reject(reviewer, "no receipt"))
		assert.Equal(t, ReimbursementStatusRejected, r.Status)
		assert.Equal(t, "no receipt", r.Notes)
	})

	t.Run("cannot approve without review", func(t *testing.T) {
		r := newTestReimbursement(t)
		err := r.Approve(reviewer, "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("cannot pay an unapproved request", func(t *testing.T) {
		r := newTestReimbursement(t)
		err := r.MarkPaid()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("cannot pay twice", func(t *testing.T) {
		r := newTestReimbursement(t)
		require.NoError(t, r.SubmitForReview(reviewer))
		require.NoError(t, r.Approve(reviewer, ""))
		require.NoError(t, r.MarkPaid())
		assert.Error(t, r.MarkPaid())
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		r := newTestReimbursement(t)
		require.NoError(t, r.SubmitForReview(reviewer))
		assert.Error(t, r.Reject(reviewer, ""))
	})
}

func TestReimbursementVersioning(t *testing.T) {
	// Repositories save with optimistic locking and expect every state
	// change to have bumped the version exactly once.
	reviewer := uuid.New()
	r := newTestReimbursement(t)
	assert.Equal(t, 1, r.GetVersion())

	require.NoError(t, r.SubmitForReview(reviewer))
	assert.Equal(t, 2, r.GetVersion())

	require.NoError(t, r.Approve(reviewer, ""))
	assert.Equal(t, 3, r.GetVersion())

	require.NoError(t, r.MarkPaid())
	assert.Equal(t, 4, r.GetVersion())

	t.Run("rejection bumps the version", func(t *testing.T) {
		r := newTestReimbursement(t)
		require.NoError(t, r.SubmitForReview(reviewer))
		require.NoError(t, r.Reject(reviewer, "no receipt"))
		assert.Equal(t, 3, r.GetVersion())
	})

	t.Run("failed transition leaves the version alone", func(t *testing.T) {
		r := newTestReimbursement(t)
		require.Error(t, r.MarkPaid())
		assert.Equal(t, 1, r.GetVersion())
	})

	t.Run("receipt update bumps the version", func(t *testing.T) {
		r := newTestReimbursement(t)
		r.SetReceiptURL("https://receipts.example/1.pdf")
		assert.Equal(t, 2, r.GetVersion())
	})
}

func TestNewGeneratedReimbursement(t *testing.T) {
	circleID := uuid.New()
	def, err := NewRecurringTransfer(circleID, uuid.New(), uuid.New(),
		valueobject.NewMoneyEUR(decimal.NewFromInt(300)), "Rent subsidy",
		FrequencyMonthly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	period := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	r, err := NewGeneratedReimbursement(circleID, def, period)
	require.NoError(t, err)

	assert.Equal(t, ReimbursementStatusApproved, r.Status)
	assert.True(t, r.IsGenerated())
	require.NotNil(t, r.RecurringTransferID)
	assert.Equal(t, def.ID, *r.RecurringTransferID)
	require.NotNil(t, r.PeriodStart)
	assert.True(t, r.PeriodStart.Equal(period))
	assert.Equal(t, def.RecipientUserID, r.RecipientUserID)
	assert.Contains(t, r.Description, "Rent subsidy")
	assert.Contains(t, r.Description, "2026-04")
}
