package treasury

import (
	"testing"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentTransfer(t *testing.T) {
	t.Run("circle scope", func(t *testing.T) {
		p, err := NewPaymentTransfer(uuid.New(), uuid.New(), NewCircleScope())
		require.NoError(t, err)
		assert.Equal(t, PaymentTransferStatusPending, p.Status)
		assert.Equal(t, BudgetTypeCircle, p.BudgetType)
		assert.Nil(t, p.GroupID)
		assert.True(t, p.TotalAmount.IsZero())
	})

	t.Run("group scope requires a group id", func(t *testing.T) {
		_, err := NewPaymentTransfer(uuid.New(), uuid.New(), Scope{Type: BudgetTypeGroup})
		assert.Error(t, err)
	})

	t.Run("recipient is required", func(t *testing.T) {
		_, err := NewPaymentTransfer(uuid.New(), uuid.Nil, NewCircleScope())
		assert.Error(t, err)
	})
}

func TestPaymentTransferSetTotals(t *testing.T) {
	p, err := NewPaymentTransfer(uuid.New(), uuid.New(), NewCircleScope())
	require.NoError(t, err)

	items := []TransferItem{
		{ItemType: TransferItemTypeReimbursement, ItemID: uuid.New()},
		{ItemType: TransferItemTypeCharge, ItemID: uuid.New()},
	}
	require.NoError(t, p.SetTotals(decimal.NewFromInt(70), 1, items))
	assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, 1, p.ReimbursementCount)
	assert.Len(t, p.ItemIDs(TransferItemTypeReimbursement), 1)
	assert.Len(t, p.ItemIDs(TransferItemTypeCharge), 1)

	t.Run("refreshing keeps the row identity", func(t *testing.T) {
		id := p.ID
		require.NoError(t, p.SetTotals(decimal.NewFromInt(40), 2, nil))
		assert.Equal(t, id, p.ID)
	})

	t.Run("executed transfers cannot be refreshed", func(t *testing.T) {
		require.NoError(t, p.MarkExecuted(uuid.New()))
		err := p.SetTotals(decimal.NewFromInt(10), 1, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestPaymentTransferMarkExecuted(t *testing.T) {
	p, err := NewPaymentTransfer(uuid.New(), uuid.New(), NewGroupScope(uuid.New()))
	require.NoError(t, err)

	actor := uuid.New()
	require.NoError(t, p.MarkExecuted(actor))
	assert.Equal(t, PaymentTransferStatusExecuted, p.Status)
	require.NotNil(t, p.ExecutedAt)
	require.NotNil(t, p.ExecutedByID)
	assert.Equal(t, actor, *p.ExecutedByID)
	assert.False(t, p.IsPending())

	t.Run("second execution is rejected", func(t *testing.T) {
		err := p.MarkExecuted(actor)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestScopeValidate(t *testing.T) {
	groupID := uuid.New()

	assert.NoError(t, NewCircleScope().Validate())
	assert.NoError(t, NewGroupScope(groupID).Validate())
	assert.Error(t, Scope{Type: BudgetTypeGroup}.Validate())
	assert.Error(t, Scope{Type: BudgetTypeCircle, GroupID: &groupID}.Validate())
	assert.Error(t, Scope{Type: BudgetType("TEAM")}.Validate())
}

func TestScopeMatches(t *testing.T) {
	circleID := uuid.New()
	groupID := uuid.New()

	circleBudget, err := NewBudget(circleID, "General", BudgetTypeCircle, nil, 2026)
	require.NoError(t, err)
	groupBudget, err := NewBudget(circleID, "Garden group", BudgetTypeGroup, &groupID, 2026)
	require.NoError(t, err)

	assert.True(t, NewCircleScope().Matches(circleBudget))
	assert.False(t, NewCircleScope().Matches(groupBudget))
	assert.True(t, NewGroupScope(groupID).Matches(groupBudget))
	assert.False(t, NewGroupScope(uuid.New()).Matches(groupBudget))

	assert.Equal(t, NewGroupScope(groupID), groupBudget.Scope())
	assert.Equal(t, NewCircleScope(), circleBudget.Scope())
}
