package treasury

import (
	"context"
	"testing"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockReimbursementRepository is a mock implementation of treasury.ReimbursementRepository
type MockReimbursementRepository struct {
	mock.Mock
}

func (m *MockReimbursementRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.Reimbursement, error) {
	args := m.Called(ctx, circleID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.Reimbursement), args.Error(1)
}

func (m *MockReimbursementRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.Reimbursement, error) {
	args := m.Called(ctx, circleID, filter)
	return args.Get(0).([]treasury.Reimbursement), args.Error(1)
}

func (m *MockReimbursementRepository) CountForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, circleID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReimbursementRepository) FindApprovedInFunds(ctx context.Context, circleID uuid.UUID, fundIDs []uuid.UUID) ([]treasury.Reimbursement, error) {
	args := m.Called(ctx, circleID, fundIDs)
	return args.Get(0).([]treasury.Reimbursement), args.Error(1)
}

func (m *MockReimbursementRepository) FindByIDsForCircle(ctx context.Context, circleID uuid.UUID, ids []uuid.UUID) ([]treasury.Reimbursement, error) {
	args := m.Called(ctx, circleID, ids)
	return args.Get(0).([]treasury.Reimbursement), args.Error(1)
}

func (m *MockReimbursementRepository) ExistsForPeriod(ctx context.Context, circleID, recurringTransferID uuid.UUID, periodStart time.Time) (bool, error) {
	args := m.Called(ctx, circleID, recurringTransferID, periodStart)
	return args.Bool(0), args.Error(1)
}

func (m *MockReimbursementRepository) Save(ctx context.Context, r *treasury.Reimbursement) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReimbursementRepository) SaveWithLock(ctx context.Context, r *treasury.Reimbursement) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockFundRepository is a mock implementation of treasury.FundRepository
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.Fund, error) {
	args := m.Called(ctx, circleID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.Fund), args.Error(1)
}

func (m *MockFundRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.Fund, error) {
	args := m.Called(ctx, circleID, filter)
	return args.Get(0).([]treasury.Fund), args.Error(1)
}

func (m *MockFundRepository) FindIDsByScope(ctx context.Context, circleID uuid.UUID, scope treasury.Scope) ([]uuid.UUID, error) {
	args := m.Called(ctx, circleID, scope)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockFundRepository) Save(ctx context.Context, f *treasury.Fund) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFundRepository) Delete(ctx context.Context, circleID, id uuid.UUID) error {
	args := m.Called(ctx, circleID, id)
	return args.Error(0)
}

// =============================================================================
// Tests
// =============================================================================

func newTestFund(t *testing.T, circleID uuid.UUID) *treasury.Fund {
	t.Helper()
	fund, err := treasury.NewFund(circleID, uuid.New(), "General")
	require.NoError(t, err)
	return fund
}

func newTestReimbursement(t *testing.T, circleID uuid.UUID) *treasury.Reimbursement {
	t.Helper()
	userID := uuid.New()
	r, err := treasury.NewReimbursement(
		circleID, uuid.New(), userID, userID,
		valueobject.NewMoneyEUR(decimal.NewFromInt(75)),
		"hardware store", time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return r
}

func TestReimbursementService_Create(t *testing.T) {
	ctx := context.Background()
	circleID := uuid.New()

	t.Run("creates a pending reimbursement", func(t *testing.T) {
		reimRepo := new(MockReimbursementRepository)
		fundRepo := new(MockFundRepository)
		service := NewReimbursementService(reimRepo, fundRepo)

		fund := newTestFund(t, circleID)
		userID := uuid.New()
		fundRepo.On("FindByIDForCircle", ctx, circleID, fund.ID).Return(fund, nil)
		reimRepo.On("Save", ctx, mock.AnythingOfType("*treasury.Reimbursement")).Return(nil)

		resp, err := service.Create(ctx, circleID, CreateReimbursementRequest{
			FundID:      fund.ID,
			Amount:      decimal.NewFromInt(75),
			Description: "hardware store",
			ExpenseDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			UserID:      userID,
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, userID, resp.RecipientUserID) // Defaults to the submitter
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(75)))
		reimRepo.AssertExpectations(t)
	})

	t.Run("honors an explicit recipient", func(t *testing.T) {
		reimRepo := new(MockReimbursementRepository)
		fundRepo := new(MockFundRepository)
		service := NewReimbursementService(reimRepo, fundRepo)

		fund := newTestFund(t, circleID)
		recipient := uuid.New()
		fundRepo.On("FindByIDForCircle", ctx, circleID, fund.ID).Return(fund, nil)
		reimRepo.On("Save", ctx, mock.AnythingOfType("*treasury.Reimbursement")).Return(nil)

		resp, err := service.Create(ctx, circleID, CreateReimbursementRequest{
			FundID:          fund.ID,
			RecipientUserID: &recipient,
			Amount:          decimal.NewFromInt(20),
			Description:     "shared groceries",
			ExpenseDate:     time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
			UserID:          uuid.New(),
		})
		require.NoError(t, err)
		assert.Equal(t, recipient, resp.RecipientUserID)
	})

	t.Run("rejects an archived fund", func(t *testing.T) {
		reimRepo := new(MockReimbursementRepository)
		fundRepo := new(MockFundRepository)
		service := NewReimbursementService(reimRepo, fundRepo)

		fund := newTestFund(t, circleID)
		require.NoError(t, fund.Archive())
		fundRepo.On("FindByIDForCircle", ctx, circleID, fund.ID).Return(fund, nil)

		_, err := service.Create(ctx, circleID, CreateReimbursementRequest{
			FundID:      fund.ID,
			Amount:      decimal.NewFromInt(10),
			Description: "too late",
			ExpenseDate: time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
			UserID:      uuid.New(),
		})
		assertDomainErrorCode(t, err, "INVALID_STATE")
		reimRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("propagates fund not found", func(t *testing.T) {
		reimRepo := new(MockReimbursementRepository)
		fundRepo := new(MockFundRepository)
		service := NewReimbursementService(reimRepo, fundRepo)

		fundID := uuid.New()
		fundRepo.On("FindByIDForCircle", ctx, circleID, fundID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, circleID, CreateReimbursementRequest{
			FundID:      fundID,
			Amount:      decimal.NewFromInt(10),
			Description: "orphan",
			ExpenseDate: time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
			UserID:      uuid.New(),
		})
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})
}

func TestReimbursementService_ReviewFlow(t *testing.T) {
	ctx := context.Background()
	circleID := uuid.New()

	t.Run("submit then approve", func(t *testing.T) {
		reimRepo := new(MockReimbursementRepository)
		service := NewReimbursementService(reimRepo, new(MockFundRepository))

		r := newTestReimbursement(t, circleID)
		reviewerID := uuid.New()
		reimRepo.On("FindByIDForCircle", ctx, circleID, r.ID).Return(r, nil)
		reimRepo.On("SaveWithLock", ctx, r).Return(nil)

		resp, err := service.SubmitForReview(ctx, circleID, r.ID, reviewerID)
		require.NoError(t, err)
		assert.Equal(t, "UNDER_REVIEW", resp.Status)

		resp, err = service.Approve(ctx, circleID, r.ID, reviewerID, "receipt checked")
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, "receipt checked", resp.Notes)
		require.NotNil(t, resp.ReviewedAt)
	})

	t.Run("cannot approve straight from pending", func(t *testing.T) {
		reimRepo := new(MockReimbursementRepository)
		service := NewReimbursementService(reimRepo, new(MockFundRepository))

		r := newTestReimbursement(t, circleID)
		reimRepo.On("FindByIDForCircle", ctx, circleID, r.ID).Return(r, nil)

		_, err := service.Approve(ctx, circleID, r.ID, uuid.New(), "")
		assertDomainErrorCode(t, err, "INVALID_STATE")
		reimRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		reimRepo := new(MockReimbursementRepository)
		service := NewReimbursementService(reimRepo, new(MockFundRepository))

		r := newTestReimbursement(t, circleID)
		require.NoError(t, r.SubmitForReview(uuid.New()))
		reimRepo.On("FindByIDForCircle", ctx, circleID, r.ID).Return(r, nil)

		_, err := service.Reject(ctx, circleID, r.ID, uuid.New(), "")
		assertDomainErrorCode(t, err, "INVALID_REASON")
	})
}
